// Package mediatypes provides shared type definitions and utilities for
// classifying media files across the media catalog.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions with no external dependencies beyond
// the standard library.
//
// # Media
//
// The package defines a Medium enum for the three supported asset media:
//
//	mediatypes.MediumPhoto
//	mediatypes.MediumVideo
//	mediatypes.MediumAudio
//
// Use MediumForPath to determine the medium of a file from its extension:
//
//	medium, ok := mediatypes.MediumForPath("/library/beach/img_0191.jpg")
//
// # MIME Types
//
// Use GetMimeType to get the appropriate MIME type for HTTP responses:
//
//	mime := mediatypes.GetMimeType(".jpg") // "image/jpeg"
package mediatypes
