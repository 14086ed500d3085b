package media

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// CanonicalName derives an object name from the trailing path segment of a
// provider URL, without its query string.
func CanonicalName(src string) string {
	name := src[strings.LastIndex(src, "/")+1:]
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return name
}

// RandomName returns a fresh unique name ending in ext (".png", ".wav").
func RandomName(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return uuid.NewString() + ext
}

// randomNameLike keeps the extension of filename.
func randomNameLike(filename string) string {
	return RandomName(path.Ext(filename))
}
