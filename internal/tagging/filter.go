package tagging

import (
	"path/filepath"
	"strings"
)

// AllowedExtensions lists the source formats the tagging flow accepts.
var AllowedExtensions = []string{"psd", "exr", "tga", "obj", "fbx", "glb", "gltf", "hdr", "png", "jpg"}

// DirectExtensions lists formats sent to the model as-is, without a proxy image.
var DirectExtensions = []string{"jpg", "png", "tga"}

func extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func contains(list []string, ext string) bool {
	for _, e := range list {
		if e == ext {
			return true
		}
	}
	return false
}

// Allowed reports whether path has an accepted extension. The match is case-insensitive.
func Allowed(path string) bool {
	return contains(AllowedExtensions, extension(path))
}

// DirectlyViewable reports whether path can be uploaded without generating a proxy.
func DirectlyViewable(path string) bool {
	return contains(DirectExtensions, extension(path))
}
