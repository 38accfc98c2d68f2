package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/roach88/esterpost/internal/catalog"
	"github.com/roach88/esterpost/internal/star"
	"github.com/roach88/esterpost/internal/store"
)

// loadCatalog reads every model in order. The context is checked between
// files so an interrupt stops a long scan promptly.
func loadCatalog(ctx context.Context, reader star.Reader, log *zap.Logger, paths []string) (catalog.Catalog, error) {
	records := make(catalog.Catalog, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, interrupted(err)
		}

		log.Info("parsing model file", zap.String("path", path))
		m, err := reader.Read(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to read model %s", path), err)
		}

		r := catalog.FromModel(m)
		log.Debug("new values added",
			zap.Float64("M", r.M),
			zap.Float64("R", r.R),
			zap.Float64("Z", r.Z),
			zap.Float64("Omega_bk", r.OmegaBk))
		records = append(records, r)
	}
	return records, nil
}

// interrupted reports a cancelled command context.
func interrupted(err error) error {
	return &ExitError{Code: ExitFailure, Message: "interrupted", Err: err, Reason: CodeInterrupted}
}

// openStore opens the snapshot cache, creating its directory if needed.
func openStore(opts *RootOptions) (*store.Store, error) {
	path := opts.cachePath()
	if err := ensureParent(path); err != nil {
		return nil, err
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	return st, nil
}

// ensureParent creates the directory that will hold path.
func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
