package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Writer saves artifacts into a directory. A file only appears under its
// final name once it is completely written.
type Writer struct {
	Dir string
}

func (w *Writer) Write(a Artifact) (path string, err error) {
	if a.Name == "" {
		return "", errors.New("artifact has no name")
	}
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(w.Dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("failed to stage export: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(a.Data); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	path = filepath.Join(w.Dir, filepath.Base(a.Name))
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to commit export: %w", err)
	}
	return path, nil
}
