package store

import (
	"path/filepath"

	"github.com/roach88/esterpost/internal/canonical"
	"github.com/roach88/esterpost/internal/star"
)

// DomainSource prefixes source key hashes. The version suffix allows the key
// layout to change without colliding with old snapshots.
const DomainSource = "esterpost/source/v1"

// SourceKey identifies a discovery run by its inputs. Folders are cleaned
// but kept in order, since order decides record order.
func SourceKey(folders []string, dim star.Dimension, recursive bool) (string, error) {
	cleaned := make([]string, len(folders))
	for i, f := range folders {
		cleaned[i] = filepath.Clean(f)
	}
	return canonical.Hash(DomainSource, map[string]any{
		"folders":   cleaned,
		"dimension": int(dim),
		"recursive": recursive,
	})
}
