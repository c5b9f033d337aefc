package helper

import (
	"path/filepath"
	"slices"
	"strings"

	consts "convert-mastery/pkg/constants"
)

// NormalizeFormat returns format when it is one of the supported output
// containers and falls back to mp4 otherwise. Unknown values are treated as
// "unspecified", never as an error.
func NormalizeFormat(format string) string {
	if IsVideoFormat(format) {
		return format
	}
	return consts.DefaultVideoFormat
}

func IsVideoFormat(format string) bool {
	return slices.Contains(consts.VideoFormats, format)
}

func GetMimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".avi":
		return "video/x-msvideo"
	case ".mov":
		return "video/quicktime"
	case ".flv":
		return "video/x-flv"
	case ".mkv":
		return "video/x-matroska"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}

func IsImageFile(filename string) bool {
	return strings.HasPrefix(GetMimeTypeFromExtension(filename), "image/")
}

func IsVideoFile(filename string) bool {
	return strings.HasPrefix(GetMimeTypeFromExtension(filename), "video/")
}
