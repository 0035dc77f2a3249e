// Package imageproc turns uploaded photos of unknown format into canonical
// JPEG bytes: a cheap format gate, a software HEIC decoder, and a re-encoder.
package imageproc

import (
	"path"
	"strings"
)

// The set of formats worth normalizing. Anything else is stored untouched as an
// opaque blob.
var normalizableTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

var normalizableExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
	".heif": true,
}

var heicTypes = map[string]bool{
	"image/heic": true,
	"image/heif": true,
}

var heicExts = map[string]bool{
	".heic": true,
	".heif": true,
}

// ShouldNormalize decides whether an uploaded blob goes through normalization.
// The advertised content type wins when it names a known image format; otherwise
// the pathname extension is checked against the same set. The content type comes
// from an external upload and is not trustworthy, but it is cheaper than decoding,
// hence the dual check.
func ShouldNormalize(contentType, pathname string) bool {
	if normalizableTypes[cleanType(contentType)] {
		return true
	}
	return normalizableExts[strings.ToLower(path.Ext(pathname))]
}

// IsHEIC reports whether the blob should take the software HEIC decode path,
// using the same content-type-then-extension order as ShouldNormalize.
func IsHEIC(contentType, pathname string) bool {
	if ct := cleanType(contentType); ct != "" && normalizableTypes[ct] {
		return heicTypes[ct]
	}
	return heicExts[strings.ToLower(path.Ext(pathname))]
}

// cleanType lowercases a media type and strips parameters ("; charset=...").
func cleanType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}
