package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AuxExtensions are the generated files RemoveAux deletes.
var AuxExtensions = []string{"aux", "log", "toc", "bbl", "blg", "lof", "out"}

// RemoveOutput deletes set's output artifact. A missing artifact is not an
// error.
func RemoveOutput(set *FileSet) error {
	return removeIfExists(set.OutputPath())
}

// RemoveAux deletes generated auxiliary files directly inside dir
// (subdirectories are left alone) and returns the removed paths.
func RemoveAux(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	aux := make(map[string]struct{}, len(AuxExtensions))
	for _, e := range AuxExtensions {
		aux[e] = struct{}{}
	}

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := aux[extOf(entry.Name())]; !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := removeIfExists(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}
	return removed, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %q: %w", path, err)
	}
	return nil
}
