// Package star holds the in-memory form of an ESTER stellar model and the
// reader that loads it from disk.
//
// ESTER writes one HDF5 file per computed model. Scalars live as attributes
// of the "star" group, grids and profiles as datasets beside them. Matrices
// are stored column-major with the radial index varying fastest, so a
// dataset of nr*nth values holds nth columns of nr radial points.
//
// All radial quantities are dimensionless: r in units of the equatorial
// radius R, rho in units of the central density rhoc. Physical values are
// recovered with R, rhoc and the solar constants defined here.
package star
