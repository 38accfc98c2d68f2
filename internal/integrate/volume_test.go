package integrate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/roach88/esterpost/internal/quadrature"
	"github.com/roach88/esterpost/internal/star"
)

// lobattoGrid concatenates Gauss-Lobatto points over equal domains of [0, 1].
func lobattoGrid(t *testing.T, domains, perDomain int) []float64 {
	t.Helper()
	x, _, err := quadrature.ClenshawCurtis(perDomain)
	require.NoError(t, err)
	width := 1 / float64(domains)
	var zeta []float64
	for d := 0; d < domains; d++ {
		for _, xi := range x {
			zeta = append(zeta, width*(float64(d)+(xi+1)/2))
		}
	}
	return zeta
}

// uniformSphere builds a constant-density spherical model of unit radius.
func uniformSphere(t *testing.T, domains, perDomain, nth int) *star.Model {
	t.Helper()
	zeta := lobattoGrid(t, domains, perDomain)
	nr := len(zeta)
	npts := make([]int, domains)
	for i := range npts {
		npts[i] = perDomain
	}

	r := mat.NewDense(nr, nth, nil)
	ones := mat.NewDense(nr, nth, nil)
	for i, z := range zeta {
		for j := 0; j < nth; j++ {
			r.Set(i, j, z)
			ones.Set(i, j, 1)
		}
	}

	radial, err := quadrature.Radial(zeta, npts)
	require.NoError(t, err)
	th, angular, err := quadrature.Angular(nth)
	require.NoError(t, err)

	return &star.Model{
		Path:   "uniform.h5",
		NPts:   npts,
		Conv:   domains,
		Zeta:   zeta,
		Th:     th,
		Radius: r,
		Rz:     ones,
		Rho:    ones,
		T:      ones,
		It:     angular,
		I:      radial,
		RhoC:   1,
		R:      1,
	}
}

func TestVolumeIntegral_UnitSphere(t *testing.T) {
	for _, nth := range []int{1, 4, 12} {
		m := uniformSphere(t, 1, 10, nth)
		f, err := Integrand(m)
		require.NoError(t, err)

		nr, _ := f.Dims()
		v, err := VolumeIntegral(f, m.It, m.I, nr)
		require.NoError(t, err)
		assert.InDelta(t, 4*math.Pi/3, v, 1e-10, "nth=%d", nth)
	}
}

func TestVolumeIntegral_EmptyExtent(t *testing.T) {
	m := uniformSphere(t, 1, 4, 1)
	v, err := VolumeIntegral(m.Rho, m.It, m.I, 0)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestVolumeIntegral_ShapeErrors(t *testing.T) {
	m := uniformSphere(t, 1, 4, 2)

	_, err := VolumeIntegral(m.Rho, []float64{1}, m.I, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "angular weights")

	_, err = VolumeIntegral(m.Rho, m.It, m.I, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radial extent")

	_, err = VolumeIntegral(m.Rho, m.It, m.I[:2], 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radial weights")
}

func TestCore_InnerDomain(t *testing.T) {
	m := uniformSphere(t, 2, 8, 6)
	m.Conv = 1

	got, err := Core(m)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Domains)
	assert.Equal(t, 8, got.Points)

	// Sphere of radius 1/2 in units of R = 1 cm, rhoc = 1 g/cm^3.
	want := 4 * math.Pi / 3 * 0.125 / star.MSun
	assert.InDelta(t, want, got.Mass, 1e-10*want)
}

func TestCore_ScalesToSolarMasses(t *testing.T) {
	m := uniformSphere(t, 1, 10, 1)
	m.RhoC = 1.41
	m.R = star.RSun

	got, err := Core(m)
	require.NoError(t, err)

	// A uniform Sun-sized sphere at mean solar density weighs about one Sun.
	want := 4 * math.Pi / 3 * 1.41 * math.Pow(star.RSun, 3) / star.MSun
	assert.InDelta(t, want, got.Mass, 1e-9*want)
	assert.InDelta(t, 1, got.Mass, 0.01)
}

func TestCore_InvalidDomainCount(t *testing.T) {
	m := uniformSphere(t, 1, 4, 1)
	m.Conv = 3

	_, err := Core(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uniform.h5")
}
