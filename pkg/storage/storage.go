package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

// Provider persists serialized documents verbatim.
type Provider interface {
	Write(ctx context.Context, name string, data []byte) error
}

var (
	ErrInvalidName = errors.New("invalid object name")
)

// CleanName validates a relative object name and returns it in canonical form.
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")

	if name == "" || path.IsAbs(name) {
		return "", ErrInvalidName
	}

	clean := path.Clean(name)

	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidName
	}

	return clean, nil
}
