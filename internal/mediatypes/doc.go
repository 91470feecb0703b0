// Package mediatypes decides which files the video server catalogs and how
// they are labelled on the wire.
//
// This package is a dependency-free foundation that can be imported by other
// packages without creating import cycles. It contains the recognized
// extension set and pure helpers over file names.
//
// # Extension Matching
//
// A file is recognized when the suffix after its last "." is a member of the
// video extension set. Matching is case-sensitive: "clip.mp4" is recognized,
// "clip.MP4" is not. Names without a dot, or ending in one, never match.
//
//	if mediatypes.IsRecognized(entry.Name()) {
//	    ext := mediatypes.Extension(entry.Name())
//	    // ...
//	}
//
// # Content Types
//
// The content type served for a video is derived from its extension alone:
//
//	mediatypes.ContentType("mkv") // "video/mkv"
package mediatypes
