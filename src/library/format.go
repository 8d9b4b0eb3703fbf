package library

import (
	"path/filepath"
	"strings"
)

// supportedFormats are the file extensions which the scanner will try to
// parse as media files.
var supportedFormats = map[string]bool{
	"mp3":  true,
	"flac": true,
	"ogg":  true,
	"oga":  true,
	"opus": true,
	"m4a":  true,
	"aac":  true,
	"wav":  true,
	"wv":   true,
}

func mediaFormatFromFileName(path string) string {
	format := strings.TrimLeft(filepath.Ext(path), ".")
	if format == "" {
		format = "mp3"
	}
	return strings.ToLower(format)
}

func isSupportedFormat(path string) bool {
	return supportedFormats[mediaFormatFromFileName(path)]
}
