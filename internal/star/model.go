package star

import (
	"fmt"
	"path/filepath"
	"regexp"

	"gonum.org/v1/gonum/mat"
)

// Solar constants in cgs units, as used by ESTER.
const (
	MSun = 1.9891e33  // g
	RSun = 6.95508e10 // cm
)

// Dimension distinguishes non-rotating 1D models from rotating 2D models.
type Dimension int

const (
	Dim1D Dimension = 1
	Dim2D Dimension = 2
)

func (d Dimension) String() string {
	switch d {
	case Dim1D:
		return "1D"
	case Dim2D:
		return "2D"
	default:
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
}

// Valid reports whether d is 1D or 2D.
func (d Dimension) Valid() bool {
	return d == Dim1D || d == Dim2D
}

// ParseDimension converts the --ester flag value.
func ParseDimension(n int) (Dimension, error) {
	d := Dimension(n)
	if !d.Valid() {
		return 0, fmt.Errorf("unknown ESTER model dimension: %d", n)
	}
	return d, nil
}

var twoDPattern = regexp.MustCompile(`2d|w`)

// DetectDimension guesses the model dimension from its path. ESTER 2D
// models conventionally carry "2d" or the rotation marker "w" in their file
// or folder names, so the whole path is searched, case-sensitively.
func DetectDimension(path string) Dimension {
	if twoDPattern.MatchString(filepath.ToSlash(path)) {
		return Dim2D
	}
	return Dim1D
}

// Model is one ESTER model.
type Model struct {
	Path string
	Dim  Dimension

	M          float64 // total mass, g
	R          float64 // equatorial radius, cm
	Z          float64 // central metallicity
	X          float64 // central hydrogen fraction
	Tc         float64 // central temperature, K
	RhoC       float64 // central density, g/cm^3
	NDomains   int
	Conv       int // number of domains in the convective core
	EOS        string
	OmegaBk    float64 // Omega / Omega_breakup
	TestVirial float64 // NaN when the file does not carry it
	TestEnergy float64 // NaN when the file does not carry it

	NPts []int     // radial points per domain
	Zeta []float64 // mapped radial coordinate, len nr
	Th   []float64 // colatitudes, len nth

	Radius *mat.Dense // r(zeta, theta), nr x nth
	Rz     *mat.Dense // dr/dzeta
	Rho    *mat.Dense
	T      *mat.Dense

	It []float64 // angular integration weights, len nth
	I  []float64 // radial integration weights, len nr
}

// Points returns the grid size.
func (m *Model) Points() (nr, nth int) {
	if m.Radius == nil {
		return 0, 0
	}
	return m.Radius.Dims()
}

// CorePoints is the number of radial points in the first Conv domains.
func (m *Model) CorePoints() (int, error) {
	if m.Conv < 0 || m.Conv > len(m.NPts) {
		return 0, fmt.Errorf("core domain count %d outside [0, %d]", m.Conv, len(m.NPts))
	}
	n := 0
	for _, p := range m.NPts[:m.Conv] {
		if p < 0 {
			return 0, fmt.Errorf("negative point count %d", p)
		}
		n += p
	}
	return n, nil
}

// Reader loads models from paths.
type Reader interface {
	Read(path string) (*Model, error)
}
