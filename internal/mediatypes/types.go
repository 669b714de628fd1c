package mediatypes

import "strings"

// MediaType represents the kind of a media item.
type MediaType string

const (
	// TypeImage represents a still image.
	TypeImage MediaType = "image"
	// TypeVideo represents a video file.
	TypeVideo MediaType = "video"
	// TypeAudio represents an audio track.
	TypeAudio MediaType = "audio"
	// TypeStream represents a live network stream.
	TypeStream MediaType = "stream"
)

// Valid reports whether t is one of the known media types.
func (t MediaType) Valid() bool {
	switch t {
	case TypeImage, TypeVideo, TypeAudio, TypeStream:
		return true
	}
	return false
}

// Source identifies where a media item came from.
type Source string

const (
	// SourceSystem marks seed items shipped with the application.
	SourceSystem Source = "system"
	// SourceUser marks items created by the user.
	SourceUser Source = "user"
	// SourceUSB marks items imported from a local device.
	SourceUSB Source = "usb"
	// SourceNetwork marks items served from a network share.
	SourceNetwork Source = "network"
	// SourceIPTV marks items from an IPTV endpoint.
	SourceIPTV Source = "iptv"
)

// Valid reports whether s is a known source. The empty source is valid.
func (s Source) Valid() bool {
	switch s {
	case "", SourceSystem, SourceUser, SourceUSB, SourceNetwork, SourceIPTV:
		return true
	}
	return false
}

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
	".heic": true,
	".heif": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// AudioExtensions maps file extensions to whether they are supported audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
	".opus": true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",

	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",

	// Audio
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".opus": "audio/opus",
}

// FromMIME returns the importable media type for a MIME type. Only image,
// video and audio are importable; ok is false for anything else.
func FromMIME(mime string) (MediaType, bool) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return TypeImage, true
	case strings.HasPrefix(mime, "video/"):
		return TypeVideo, true
	case strings.HasPrefix(mime, "audio/"):
		return TypeAudio, true
	}
	return "", false
}

// FromExtension returns the importable media type for a lowercase extension
// with its leading dot (e.g. ".mp4").
func FromExtension(ext string) (MediaType, bool) {
	switch {
	case ImageExtensions[ext]:
		return TypeImage, true
	case VideoExtensions[ext]:
		return TypeVideo, true
	case AudioExtensions[ext]:
		return TypeAudio, true
	}
	return "", false
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
