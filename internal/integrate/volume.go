// Package integrate computes volume integrals over ESTER spectral grids.
package integrate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/roach88/esterpost/internal/star"
)

// VolumeIntegral integrates f over the first n radial points of the grid:
//
//	2*pi * sum_i radial[i] * (angular . f[i,:])
//
// f is nr x nth, angular has nth weights and radial at least n weights.
func VolumeIntegral(f mat.Matrix, angular, radial []float64, n int) (float64, error) {
	nr, nth := f.Dims()
	if len(angular) != nth {
		return 0, fmt.Errorf("angular weights: have %d, grid has %d colatitudes", len(angular), nth)
	}
	if n < 0 || n > nr {
		return 0, fmt.Errorf("radial extent %d outside [0, %d]", n, nr)
	}
	if len(radial) < n {
		return 0, fmt.Errorf("radial weights: have %d, need %d", len(radial), n)
	}

	row := make([]float64, nth)
	sum := 0.0
	for i := 0; i < n; i++ {
		mat.Row(row, i, f)
		sum += radial[i] * floats.Dot(angular, row)
	}
	return 2 * math.Pi * sum, nil
}

// Integrand returns rho * r^2 * dr/dzeta, the mass element of m in
// dimensionless units.
func Integrand(m *star.Model) (*mat.Dense, error) {
	if m.Rho == nil || m.Radius == nil || m.Rz == nil {
		return nil, fmt.Errorf("model %s has no grid", m.Path)
	}
	nr, nth := m.Radius.Dims()
	f := mat.NewDense(nr, nth, nil)
	f.MulElem(m.Radius, m.Radius)
	f.MulElem(f, m.Rz)
	f.MulElem(f, m.Rho)
	return f, nil
}

// CoreMass is the result of integrating the model density over its core.
type CoreMass struct {
	Domains int     // domains in the convective core
	Points  int     // radial points in those domains
	Mass    float64 // solar masses
}

// Core integrates the density over the first m.Conv domains and scales the
// result to solar masses.
func Core(m *star.Model) (CoreMass, error) {
	ncore, err := m.CorePoints()
	if err != nil {
		return CoreMass{}, fmt.Errorf("model %s: %w", m.Path, err)
	}
	f, err := Integrand(m)
	if err != nil {
		return CoreMass{}, err
	}
	dimless, err := VolumeIntegral(f, m.It, m.I, ncore)
	if err != nil {
		return CoreMass{}, fmt.Errorf("model %s: %w", m.Path, err)
	}
	return CoreMass{
		Domains: m.Conv,
		Points:  ncore,
		Mass:    dimless * m.RhoC * m.R * m.R * m.R / star.MSun,
	}, nil
}
