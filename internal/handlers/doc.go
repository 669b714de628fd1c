// Package handlers provides the HTTP API of the Lumina server.
//
// It includes handlers for:
//   - The media catalog and its category projections
//   - Multipart media import and downloads of imported files
//   - Albums and network sources
//   - The TV session: remote keys, overlays, player and bulk captioning
//   - Health checks and version information
//
// Errors are returned as JSON objects of the form {"error": "..."}.
package handlers
