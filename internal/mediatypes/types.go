package mediatypes

import (
	"path/filepath"
	"strings"
)

// Medium represents the kind of content carried by an asset.
type Medium string

const (
	// MediumPhoto represents a still image asset.
	MediumPhoto Medium = "photo"
	// MediumVideo represents a video asset.
	MediumVideo Medium = "video"
	// MediumAudio represents an audio asset.
	MediumAudio Medium = "audio"
)

// Valid reports whether m is one of the supported media.
func (m Medium) Valid() bool {
	switch m {
	case MediumPhoto, MediumVideo, MediumAudio:
		return true
	}
	return false
}

// PhotoExtensions maps file extensions to whether they are supported photo formats.
var PhotoExtensions = map[string]bool{
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
	".m4a":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Photos
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
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".wav":  "audio/wav",
}

// MediumForExt returns the Medium for a given file extension.
// The extension should be lowercase and include the leading dot (e.g. ".jpg").
// The second return value is false if the extension is not recognized.
func MediumForExt(ext string) (Medium, bool) {
	switch {
	case PhotoExtensions[ext]:
		return MediumPhoto, true
	case VideoExtensions[ext]:
		return MediumVideo, true
	case AudioExtensions[ext]:
		return MediumAudio, true
	}
	return "", false
}

// MediumForPath returns the Medium for a file path based on its extension.
func MediumForPath(path string) (Medium, bool) {
	return MediumForExt(strings.ToLower(filepath.Ext(path)))
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should be lowercase and include the leading dot (e.g. ".jpg").
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsMediaFile returns true if the extension represents a supported media file.
// The extension must be lowercase with the leading dot, as for GetMimeType.
func IsMediaFile(ext string) bool {
	_, ok := MediumForExt(ext)
	return ok
}

// IsMediaPath returns true if the file path has a supported media
// extension.
func IsMediaPath(path string) bool {
	return IsMediaFile(strings.ToLower(filepath.Ext(path)))
}
