package dump

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/stlsnap/pkg/stl"
)

// Extension is forced onto every file written by this package
const Extension = ".stl"

// ErrEmptyModel is returned by Save and SaveInc for a model without
// triangles; no file is written in that case
var ErrEmptyModel = errors.New("dump: model has no triangles")

// Save writes m as binary STL. The extension of path is replaced by .stl.
// It returns the path actually written.
func Save(path string, m *Model) (string, error) {
	if m.Len() == 0 {
		return "", ErrEmptyModel
	}
	path = withExtension(path)
	return path, writeFile(path, m, stl.WriteBinary)
}

// SaveASCII writes m as ASCII STL. Unlike Save it also writes empty models,
// which leaves an empty solid on disk.
func SaveASCII(path string, m *Model) (string, error) {
	path = withExtension(path)
	return path, writeFile(path, m, stl.WriteASCII)
}

// SaveInc saves m as binary STL under <stem>_<n>.stl next to path, with n
// the lowest index that does not exist yet. Repeated calls therefore keep
// every version.
func SaveInc(path string, m *Model) (string, error) {
	if m.Len() == 0 {
		return "", ErrEmptyModel
	}
	next, err := NextIndexedPath(path)
	if err != nil {
		return "", err
	}
	return Save(next, m)
}

// NextIndexedPath returns the first <stem>_<n>.stl next to path that is not
// on disk
func NextIndexedPath(path string) (string, error) {
	dir, stem := filepath.Dir(path), stemOf(path)
	for i := 0; ; i++ {
		candidate := filepath.Join(dir, stem+"_"+strconv.Itoa(i)+Extension)
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
	}
}

func withExtension(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + Extension
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeFile(path string, m *Model, encode func(io.Writer, *stl.Model) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := encode(f, m.STL(stemOf(path))); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
