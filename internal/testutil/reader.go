// Package testutil provides synthetic ESTER models and an in-memory model
// reader for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/roach88/esterpost/internal/star"
)

// Reader serves models from memory, keyed by cleaned path.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Reader struct {
	mu     sync.Mutex
	models map[string]*star.Model
	reads  []string
}

var _ star.Reader = (*Reader)(nil)

// NewReader returns a reader serving the given models.
func NewReader(models ...*star.Model) *Reader {
	r := &Reader{models: make(map[string]*star.Model)}
	for _, m := range models {
		r.Add(m)
	}
	return r
}

// Add registers m under m.Path.
func (r *Reader) Add(m *star.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[filepath.Clean(m.Path)] = m
}

// Read implements star.Reader. Unknown paths fail with os.ErrNotExist.
func (r *Reader) Read(path string) (*star.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads = append(r.reads, path)
	m, ok := r.models[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	cp := *m
	return &cp, nil
}

// Reads returns every path passed to Read, in call order.
func (r *Reader) Reads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reads...)
}

// Touch creates empty files under dir so that discovery finds them, and
// returns their paths.
func Touch(t testing.TB, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, name := range names {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
		paths[i] = p
	}
	return paths
}
