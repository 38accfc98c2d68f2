// Package store provides the SQLite-backed snapshot cache for catalogs.
//
// A snapshot is the list of records extracted from one discovery run,
// saved so later runs can redisplay it when the model files are gone:
//   - Snapshots: one row per save, keyed by a UUIDv7
//   - Records: the catalog rows of a snapshot, in catalog order
//
// # Ordering
//
// Snapshots are ordered by seq INTEGER (a logical counter), never by
// timestamps, and records by their idx within the snapshot. Every query
// states its ORDER BY.
//
// # Source keys
//
// A snapshot is tagged with the content hash of the discovery inputs
// (folders, dimension, recursion) so that it is only reused for the same
// source. See SourceKey.
//
// # Missing values
//
// SQLite stores NaN as NULL. Quantities absent from a model (test residuals,
// central temperature) round-trip as NULL and come back as NaN.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
