package assets

import (
	"path"
	"strings"
)

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// MIMETypeFor classifies name by extension. Only embeddable raster formats are
// supported.
func MIMETypeFor(name string) (string, error) {
	ext := strings.ToLower(path.Ext(name))
	if mt, ok := mimeTypes[ext]; ok {
		return mt, nil
	}
	return "", ErrUnsupportedAssetType.
		WithContext("filename", name).
		WithContext("extension", ext)
}
