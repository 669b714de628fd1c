// Package media defines the gallery's content model and the media
// processing helpers that feed the insight gateway.
//
// Model:
//   - Item: a unit of content. Type-specific fields are grouped into
//     variant structs (PlaybackDetails for video/audio, LinkDetails for
//     network-backed items) and checked by Item.Validate.
//   - Album: a named, ordered list of non-owning media id references.
//   - NetworkSource: a registered stream or network-share endpoint.
//
// SeedItems returns the static catalog shipped with the application.
//
// Processing:
//   - FFmpegSampler extracts a representative frame from a video file.
//   - EncodeFrame fits frames to 640x360 JPEG for the AI thumbnail step.
package media
