package blobstore

import (
	"context"
	"io"
	"path"
	"strings"
)

// Storage hides where product images actually live. The handlers only
// need put(name, bytes) -> url.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// SanitizeFilename reduces an uploaded filename to a safe storage key:
// path stripped, anything outside [a-zA-Z0-9._-] replaced with '_'.
// Returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" || out == "." || out == ".." {
		return ""
	}
	return out
}
