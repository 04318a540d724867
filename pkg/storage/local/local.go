package local

import (
	"context"
	"os"
	"path/filepath"

	"github.com/adrianliechti/docgraph/pkg/provider"
	"github.com/adrianliechti/docgraph/pkg/storage"
)

var _ storage.Provider = (*Store)(nil)

// Store writes objects below a root directory.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if root == "" {
		root = "."
	}

	return &Store{
		root: root,
	}, nil
}

// Write replaces the file atomically: data goes to a temporary file in the
// target directory which is then renamed.
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	name, err := storage.CleanName(name)

	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.root, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return provider.Wrap("local: create directory", err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")

	if err != nil {
		return provider.Wrap("local: create file", err)
	}

	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return provider.Wrap("local: write file", err)
	}

	if err := f.Close(); err != nil {
		return provider.Wrap("local: write file", err)
	}

	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return provider.Wrap("local: write file", err)
	}

	if err := os.Rename(f.Name(), path); err != nil {
		return provider.Wrap("local: rename file", err)
	}

	return nil
}
