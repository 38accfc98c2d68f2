// Package discover locates ESTER model files on disk.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/esterpost/internal/star"
)

// ModelExt is the extension of ESTER model files.
const ModelExt = ".h5"

// Options controls the directory walk.
type Options struct {
	Recursive bool
}

// Find lists model files directly inside each folder, descending into
// subdirectories when opts.Recursive is set. Paths are returned in folder
// order, sorted within each folder.
func Find(folders []string, opts Options) ([]string, error) {
	var paths []string
	for _, folder := range folders {
		found, err := find(folder, opts)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func find(folder string, opts Options) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}

	var paths []string
	var subdirs []string
	for _, e := range entries {
		p := filepath.Join(folder, e.Name())
		switch {
		case e.IsDir():
			if opts.Recursive {
				subdirs = append(subdirs, p)
			}
		case strings.HasSuffix(e.Name(), ModelExt):
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	for _, dir := range subdirs {
		found, err := find(dir, opts)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Skipped is a path left out by Select, with the dimension it appeared to have.
type Skipped struct {
	Path string
	Dim  star.Dimension
}

// Select keeps the paths whose name suggests the wanted dimension.
func Select(paths []string, want star.Dimension) (kept []string, skipped []Skipped) {
	for _, p := range paths {
		d := star.DetectDimension(p)
		if d != want {
			skipped = append(skipped, Skipped{Path: p, Dim: d})
			continue
		}
		kept = append(kept, p)
	}
	return kept, skipped
}
