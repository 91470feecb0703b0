package mediatypes

import (
	"sort"
	"strings"
)

// videoExtensions is the fixed set of recognized video extensions, without the
// leading dot.
var videoExtensions = map[string]bool{
	"mp4":  true,
	"av1":  true,
	"avi":  true,
	"flv":  true,
	"heic": true,
	"mkv":  true,
	"mov":  true,
	"mpg":  true,
	"mpeg": true,
	"m4v":  true,
	"webm": true,
	"wmv":  true,
	"3gp":  true,
}

// Extension returns the suffix after the last "." in name, or "" when name
// has no extension. Directory components are not considered, and a leading
// dot alone does not start an extension.
func Extension(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		// no dot, or a dotfile such as ".mp4"
		return ""
	}
	return name[i+1:]
}

// IsVideoExtension reports whether ext (without a leading dot) is recognized.
func IsVideoExtension(ext string) bool {
	return videoExtensions[ext]
}

// IsRecognized reports whether the file name carries a recognized video
// extension.
func IsRecognized(name string) bool {
	ext := Extension(name)
	if ext == "" {
		return false
	}
	return videoExtensions[ext]
}

// ContentType returns the MIME type served for a video with the given
// extension.
func ContentType(ext string) string {
	return "video/" + ext
}

// VideoExtensions returns the recognized extensions in sorted order.
func VideoExtensions() []string {
	exts := make([]string, 0, len(videoExtensions))
	for ext := range videoExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
