// Package quadrature builds the integration weights ESTER uses on its
// spectral grids: Clenshaw-Curtis on the Gauss-Lobatto points of each radial
// domain, Gauss-Legendre in cos(theta) over the half plane.
package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// ClenshawCurtis returns the n Gauss-Lobatto-Chebyshev nodes on [-1, 1] in
// ascending order with their Clenshaw-Curtis weights. n must be at least 2.
func ClenshawCurtis(n int) (x, w []float64, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("clenshaw-curtis needs at least 2 points, got %d", n)
	}
	N := n - 1
	x = make([]float64, n)
	w = make([]float64, n)
	for k := 0; k <= N; k++ {
		x[k] = -math.Cos(math.Pi * float64(k) / float64(N))
	}

	fN := float64(N)
	if N%2 == 0 {
		w[0] = 1 / (fN*fN - 1)
	} else {
		w[0] = 1 / (fN * fN)
	}
	w[N] = w[0]

	for i := 1; i < N; i++ {
		theta := math.Pi * float64(i) / fN
		v := 1.0
		if N%2 == 0 {
			for k := 1; k < N/2; k++ {
				fk := float64(k)
				v -= 2 * math.Cos(2*fk*theta) / (4*fk*fk - 1)
			}
			v -= math.Cos(fN*theta) / (fN*fN - 1)
		} else {
			for k := 1; k <= (N-1)/2; k++ {
				fk := float64(k)
				v -= 2 * math.Cos(2*fk*theta) / (4*fk*fk - 1)
			}
		}
		w[i] = 2 * v / fN
	}
	return x, w, nil
}

// Radial returns the radial integration row for a multi-domain grid: entry
// i is the weight of zeta[i] in int f dzeta. Each domain spans npts[d]
// consecutive points whose first and last values bound that domain.
func Radial(zeta []float64, npts []int) ([]float64, error) {
	total := 0
	for d, n := range npts {
		if n < 2 {
			return nil, fmt.Errorf("domain %d has %d points, need at least 2", d, n)
		}
		total += n
	}
	if total != len(zeta) {
		return nil, fmt.Errorf("domains hold %d points but grid has %d", total, len(zeta))
	}

	weights := make([]float64, 0, total)
	start := 0
	for _, n := range npts {
		_, w, err := ClenshawCurtis(n)
		if err != nil {
			return nil, err
		}
		half := (zeta[start+n-1] - zeta[start]) / 2
		for _, wk := range w {
			weights = append(weights, wk*half)
		}
		start += n
	}
	return weights, nil
}

// Angular returns the nth colatitudes and weights such that
// sum_j w[j] f(th[j]) = int_0^pi f sin(theta) dtheta for functions symmetric
// about the equator. The nodes span the northern hemisphere.
func Angular(nth int) (th, w []float64, err error) {
	if nth < 1 {
		return nil, nil, fmt.Errorf("angular grid needs at least 1 point, got %d", nth)
	}
	if nth == 1 {
		return []float64{math.Pi / 2}, []float64{2}, nil
	}

	x := make([]float64, nth)
	w = make([]float64, nth)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)

	th = make([]float64, nth)
	for j := range x {
		th[j] = math.Acos(x[j])
		w[j] *= 2
	}
	return th, w, nil
}
