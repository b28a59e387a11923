package constants

import "strings"

// File formats for the format field in analysis jobs.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	DOC   = "DOC"
)

// AllowedExtensions holds the accepted upload extensions (lowercase, no dot).
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"doc":  {},
	"docx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to a coarse format, or ""
// when the extension is not accepted.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	case "doc", "docx":
		return DOC
	default:
		return ""
	}
}

// IsAllowedExt reports whether the extension is accepted for upload.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
