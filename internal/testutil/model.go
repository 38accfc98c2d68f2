package testutil

import (
	"math"

	"github.com/roach88/esterpost/internal/quadrature"
	"github.com/roach88/esterpost/internal/star"
)

// Params are the scalar attributes of a synthetic model.
type Params struct {
	M, R       float64 // cgs; zero selects one solar mass and radius
	RhoC       float64 // zero selects 1
	Z, X, Tc   float64
	OmegaBk    float64
	TestVirial float64
	TestEnergy float64
	EOS        string
	Conv       int
}

// SphereDomains are the radial domains of UniformSphere: [0, 0.5] and
// [0.5, 1], each with SpherePoints Gauss-Lobatto points.
const (
	SphereDomains = 2
	SpherePoints  = 5
)

// UniformSphere builds a model of uniform dimensionless density whose
// radius equals its mapped coordinate, on nth colatitudes. Integration
// operators are rebuilt by star.Build, so the core mass of the first domain
// is exactly (4*pi/3) * 0.5^3 * RhoC * R^3 / MSun.
func UniformSphere(path string, nth int, p Params) (*star.Model, error) {
	if p.M == 0 {
		p.M = star.MSun
	}
	if p.R == 0 {
		p.R = star.RSun
	}
	if p.RhoC == 0 {
		p.RhoC = 1
	}

	x, _, err := quadrature.ClenshawCurtis(SpherePoints)
	if err != nil {
		return nil, err
	}
	var zeta []float64
	for d := 0; d < SphereDomains; d++ {
		lo := float64(d) / SphereDomains
		for _, xk := range x {
			zeta = append(zeta, lo+(xk+1)/(2*SphereDomains))
		}
	}

	nr := len(zeta)
	r := make([]float64, 0, nr*nth)
	rho := make([]float64, 0, nr*nth)
	temp := make([]float64, 0, nr*nth)
	for j := 0; j < nth; j++ {
		for _, z := range zeta {
			r = append(r, z)
			rho = append(rho, 1)
			temp = append(temp, 1.1-z*z)
		}
	}

	f := star.NewFields()
	npts := make([]float64, SphereDomains)
	for d := range npts {
		npts[d] = SpherePoints
	}
	f.Set("npts", npts...)
	f.Set("nth", float64(nth))
	f.Set("z", zeta...)
	f.Set("r", r...)
	f.Set("rho", rho...)
	f.Set("T", temp...)
	f.Set("M", p.M)
	f.Set("R", p.R)
	f.Set("rhoc", p.RhoC)
	f.Set("Z", p.Z)
	f.Set("X", p.X)
	f.Set("Tc", p.Tc)
	f.Set("Omega_bk", p.OmegaBk)
	f.Set("conv", float64(p.Conv))
	f.Set("ndomains", SphereDomains)
	if !math.IsNaN(p.TestVirial) {
		f.Set("test_virial", p.TestVirial)
	}
	if !math.IsNaN(p.TestEnergy) {
		f.Set("test_energy", p.TestEnergy)
	}
	f.SetString("eos", p.EOS)
	return star.Build(path, f)
}
