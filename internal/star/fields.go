package star

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/esterpost/internal/quadrature"
)

// ErrMissingField is returned when a model file lacks a required quantity.
var ErrMissingField = errors.New("missing field")

// Fields is the flat content of one model file keyed by ESTER name.
// Numeric attributes and datasets share one namespace; scalars are stored
// as one-element slices.
type Fields struct {
	Nums map[string][]float64
	Strs map[string]string
}

// NewFields returns an empty field set.
func NewFields() *Fields {
	return &Fields{
		Nums: make(map[string][]float64),
		Strs: make(map[string]string),
	}
}

// Set stores a numeric field.
func (f *Fields) Set(name string, values ...float64) {
	f.Nums[name] = values
}

// SetString stores a text field.
func (f *Fields) SetString(name, value string) {
	f.Strs[name] = value
}

// add stores a decoded HDF5 value under name. Unsupported types are ignored.
func (f *Fields) add(name string, value any) {
	switch v := value.(type) {
	case string:
		f.Strs[name] = v
	case []string:
		if len(v) > 0 {
			f.Strs[name] = v[0]
		}
	default:
		if nums, ok := toFloats(value); ok {
			f.Nums[name] = nums
		}
	}
}

func toFloats(value any) ([]float64, bool) {
	switch v := value.(type) {
	case float64:
		return []float64{v}, true
	case float32:
		return []float64{float64(v)}, true
	case int:
		return []float64{float64(v)}, true
	case int32:
		return []float64{float64(v)}, true
	case int64:
		return []float64{float64(v)}, true
	case uint32:
		return []float64{float64(v)}, true
	case uint64:
		return []float64{float64(v)}, true
	case []float64:
		return v, true
	case []float32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, true
	case []int32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, true
	case []int64:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, true
	case []int:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, true
	default:
		return nil, false
	}
}

func (f *Fields) scalar(name string) (float64, error) {
	v, ok := f.Nums[name]
	if !ok || len(v) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return v[0], nil
}

func (f *Fields) scalarOr(name string, fallback float64) float64 {
	v, err := f.scalar(name)
	if err != nil {
		return fallback
	}
	return v
}

func (f *Fields) ints(name string) ([]int, error) {
	v, ok := f.Nums[name]
	if !ok || len(v) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out, nil
}

// matrix reshapes a column-major dataset into an nr x nth matrix.
func (f *Fields) matrix(name string, nr, nth int) (*mat.Dense, error) {
	v, ok := f.Nums[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	if len(v) != nr*nth {
		return nil, fmt.Errorf("%s has %d values, want %d x %d", name, len(v), nr, nth)
	}
	m := mat.NewDense(nr, nth, nil)
	for j := 0; j < nth; j++ {
		for i := 0; i < nr; i++ {
			m.Set(i, j, v[j*nr+i])
		}
	}
	return m, nil
}

// Build converts raw fields into a Model. Integration operators and dr/dzeta
// are rebuilt from the grid when the file does not carry them.
func Build(path string, f *Fields) (*Model, error) {
	npts, err := f.ints("npts")
	if err != nil {
		return nil, err
	}
	nr := 0
	for _, n := range npts {
		nr += n
	}
	nth := int(f.scalarOr("nth", 1))
	if th, ok := f.Nums["th"]; ok && len(th) > 0 {
		nth = len(th)
	}
	if nr == 0 || nth < 1 {
		return nil, fmt.Errorf("empty grid: nr=%d nth=%d", nr, nth)
	}

	m := &Model{
		Path:       path,
		Dim:        DetectDimension(path),
		NPts:       npts,
		NDomains:   int(f.scalarOr("ndomains", float64(len(npts)))),
		Conv:       int(f.scalarOr("conv", 0)),
		EOS:        f.Strs["eos"],
		Tc:         f.scalarOr("Tc", math.NaN()),
		OmegaBk:    f.scalarOr("Omega_bk", 0),
		TestVirial: f.scalarOr("test_virial", math.NaN()),
		TestEnergy: f.scalarOr("test_energy", math.NaN()),
	}
	if nth > 1 {
		m.Dim = Dim2D
	}

	for name, dst := range map[string]*float64{"M": &m.M, "R": &m.R, "rhoc": &m.RhoC} {
		if *dst, err = f.scalar(name); err != nil {
			return nil, err
		}
	}

	if m.Radius, err = f.matrix("r", nr, nth); err != nil {
		return nil, err
	}
	if m.Rho, err = f.matrix("rho", nr, nth); err != nil {
		return nil, err
	}
	if m.T, err = f.matrix("T", nr, nth); err != nil {
		return nil, err
	}

	m.X = centralValue(f, "X", "X0")
	m.Z = centralValue(f, "Z", "Z0")

	if zeta, ok := f.Nums["z"]; ok && len(zeta) == nr {
		m.Zeta = zeta
	} else {
		m.Zeta = mat.Col(nil, 0, m.Radius)
	}

	if m.Rz, err = f.matrix("rz", nr, nth); err != nil {
		if !errors.Is(err, ErrMissingField) {
			return nil, err
		}
		m.Rz = differentiate(m.Radius, m.Zeta, npts)
	}

	th, it, err := quadrature.Angular(nth)
	if err != nil {
		return nil, err
	}
	m.Th, m.It = th, it
	if v, ok := f.Nums["th"]; ok && len(v) == nth {
		m.Th = v
	}
	if v, ok := f.Nums["It"]; ok && len(v) == nth {
		m.It = v
	}

	if i, ok := f.Nums["I"]; ok && len(i) == nr {
		m.I = i
	} else if m.I, err = quadrature.Radial(m.Zeta, npts); err != nil {
		return nil, fmt.Errorf("radial weights: %w", err)
	}

	return m, nil
}

// centralValue returns the first entry of a composition profile, falling
// back to the scalar initial abundance.
func centralValue(f *Fields, profile, initial string) float64 {
	if v, ok := f.Nums[profile]; ok && len(v) > 0 {
		return v[0]
	}
	return f.scalarOr(initial, math.NaN())
}

// differentiate computes dr/dzeta column by column within each domain as
// the derivative of the polynomial through the domain's points. On the
// Gauss-Lobatto points of an ESTER domain this is the Chebyshev spectral
// derivative, exact to the same order as the radial quadrature.
func differentiate(r *mat.Dense, zeta []float64, npts []int) *mat.Dense {
	nr, nth := r.Dims()
	d := mat.NewDense(nr, nth, nil)
	start := 0
	for _, n := range npts {
		if n <= 0 || start+n > nr {
			break
		}
		block := d.Slice(start, start+n, 0, nth).(*mat.Dense)
		dm, ok := diffMatrix(zeta[start : start+n])
		if !ok {
			for i := 0; i < n; i++ {
				for j := 0; j < nth; j++ {
					block.Set(i, j, 1)
				}
			}
		} else {
			var deriv mat.Dense
			deriv.Mul(dm, r.Slice(start, start+n, 0, nth))
			block.Copy(&deriv)
		}
		start += n
	}
	return d
}

// diffMatrix returns the differentiation matrix of the interpolating
// polynomial through x, built from barycentric weights. It fails when x has
// fewer than two distinct points.
func diffMatrix(x []float64) (*mat.Dense, bool) {
	n := len(x)
	if n < 2 {
		return nil, false
	}
	span := math.Abs(x[n-1] - x[0])
	if span == 0 {
		return nil, false
	}
	// Differences are scaled to an interval of length 4 so the weight
	// products stay in range. Only ratios of weights are used.
	scale := 4 / span
	w := make([]float64, n)
	for j := range x {
		w[j] = 1
		for k := range x {
			if k == j {
				continue
			}
			dx := x[j] - x[k]
			if dx == 0 {
				return nil, false
			}
			w[j] /= dx * scale
		}
	}

	dm := mat.NewDense(n, n, nil)
	for i := range x {
		var diag float64
		for j := range x {
			if j == i {
				continue
			}
			v := w[j] / w[i] / (x[i] - x[j])
			dm.Set(i, j, v)
			diag -= v
		}
		dm.Set(i, i, diag)
	}
	return dm, true
}
