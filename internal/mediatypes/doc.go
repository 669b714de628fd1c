// Package mediatypes provides shared type definitions for media handling
// across the Lumina gallery.
//
// This package is a dependency-free foundation that can be imported by other
// packages without creating import cycles.
//
// # Media Types
//
//	mediatypes.TypeImage  // Still images
//	mediatypes.TypeVideo  // Video files
//	mediatypes.TypeAudio  // Audio tracks
//	mediatypes.TypeStream // Live network streams (never imported from disk)
//
// # Classification
//
// Imports are classified from the declared MIME type first and the file
// extension second:
//
//	kind, ok := mediatypes.FromMIME(header.Get("Content-Type"))
//	if !ok {
//	    kind, ok = mediatypes.FromExtension(strings.ToLower(filepath.Ext(name)))
//	}
//
// # MIME Fallback
//
// GetMimeType maps a known extension to its MIME type. The resource registry
// uses it when content sniffing cannot tell what a stored file is.
package mediatypes
