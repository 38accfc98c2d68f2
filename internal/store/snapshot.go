package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/roach88/esterpost/internal/catalog"
	"github.com/roach88/esterpost/internal/star"
)

// Snapshot is a saved catalog.
type Snapshot struct {
	ID        string
	SourceKey string
	Dim       star.Dimension
	Seq       int64
	Records   catalog.Catalog
}

// Summary describes a snapshot without its records.
type Summary struct {
	ID          string         `json:"id" yaml:"id"`
	SourceKey   string         `json:"source_key" yaml:"source_key"`
	Dim         star.Dimension `json:"dimension" yaml:"dimension"`
	Seq         int64          `json:"seq" yaml:"seq"`
	RecordCount int            `json:"record_count" yaml:"record_count"`
}

// SaveSnapshot stores records as a new snapshot of sourceKey and returns it
// with its assigned ID and seq. The snapshot and its records are written in
// one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, sourceKey string, dim star.Dimension, records catalog.Catalog) (Snapshot, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: generate id: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := nextSeq(ctx, tx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, source_key, dimension, seq, record_count)
		VALUES (?, ?, ?, ?, ?)
	`, id.String(), sourceKey, int(dim), seq, len(records))
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records
		(snapshot_id, idx, path, dimension, m, r, z, tc, x, ndomains, eos, omega_bk, test_virial, test_energy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx,
			id.String(), i, r.Path, int(r.Dim),
			nullable(r.M), nullable(r.R), nullable(r.Z), nullable(r.Tc), nullable(r.X),
			r.NDomains, r.EOS,
			nullable(r.OmegaBk), nullable(r.TestVirial), nullable(r.TestEnergy),
		)
		if err != nil {
			return Snapshot{}, fmt.Errorf("save snapshot: record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: commit: %w", err)
	}

	return Snapshot{
		ID:        id.String(),
		SourceKey: sourceKey,
		Dim:       dim,
		Seq:       seq,
		Records:   records,
	}, nil
}

// LatestSnapshot returns the most recent snapshot saved for sourceKey.
// Returns ErrNotFound if there is none.
func (s *Store) LatestSnapshot(ctx context.Context, sourceKey string) (Snapshot, error) {
	var snap Snapshot
	var dim int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_key, dimension, seq
		FROM snapshots
		WHERE source_key = ?
		ORDER BY seq DESC
		LIMIT 1
	`, sourceKey).Scan(&snap.ID, &snap.SourceKey, &dim, &snap.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}
	snap.Dim = star.Dimension(dim)

	snap.Records, err = s.readRecords(ctx, snap.ID)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ListSnapshots returns every snapshot summary in seq order.
// Returns an empty slice (not nil) if the cache is empty.
func (s *Store) ListSnapshots(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_key, dimension, seq, record_count
		FROM snapshots
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var sum Summary
		var dim int
		if err := rows.Scan(&sum.ID, &sum.SourceKey, &dim, &sum.Seq, &sum.RecordCount); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		sum.Dim = star.Dimension(dim)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return summaries, nil
}

func (s *Store) readRecords(ctx context.Context, snapshotID string) (catalog.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, dimension, m, r, z, tc, x, ndomains, eos, omega_bk, test_virial, test_energy
		FROM records
		WHERE snapshot_id = ?
		ORDER BY idx ASC
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := catalog.Catalog{}
	for rows.Next() {
		var r catalog.Record
		var dim int
		var m, rad, z, tc, x, omega, virial, energy sql.NullFloat64
		if err := rows.Scan(&r.Path, &dim, &m, &rad, &z, &tc, &x, &r.NDomains, &r.EOS, &omega, &virial, &energy); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Dim = star.Dimension(dim)
		r.M, r.R, r.Z, r.Tc, r.X = orNaN(m), orNaN(rad), orNaN(z), orNaN(tc), orNaN(x)
		r.OmegaBk, r.TestVirial, r.TestEnergy = orNaN(omega), orNaN(virial), orNaN(energy)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// nullable maps NaN to NULL; SQLite cannot store NaN.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
