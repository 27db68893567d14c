package submission

import (
	"path/filepath"
	"strings"
)

// CleanFileName reduces a client-supplied name to a bare file name that is
// safe to forward. Traversal patterns are rejected rather than rewritten.
func CleanFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", &FieldError{Field: "file", Issue: "invalid_name", Err: ErrInvalidFileName}
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "\\", "/")
	s = filepath.Base(s)
	if s == "" || s == "." || s == "/" {
		return "", &FieldError{Field: "file", Issue: "invalid_name", Err: ErrInvalidFileName}
	}
	return s, nil
}
