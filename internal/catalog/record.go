package catalog

import (
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/esterpost/internal/star"
)

// Record holds the attributes extracted from one model.
type Record struct {
	Path       string
	Dim        star.Dimension
	M          float64
	R          float64
	Z          float64
	Tc         float64
	X          float64
	NDomains   int
	EOS        string
	OmegaBk    float64
	TestVirial float64
	TestEnergy float64
}

// FromModel extracts a record from a loaded model.
func FromModel(m *star.Model) Record {
	return Record{
		Path:       m.Path,
		Dim:        m.Dim,
		M:          m.M,
		R:          m.R,
		Z:          m.Z,
		Tc:         m.Tc,
		X:          m.X,
		NDomains:   m.NDomains,
		EOS:        m.EOS,
		OmegaBk:    m.OmegaBk,
		TestVirial: m.TestVirial,
		TestEnergy: m.TestEnergy,
	}
}

// Value returns a numeric attribute. Missing quantities are NaN.
func (r Record) Value(a Attribute) (float64, error) {
	switch a {
	case AttrM:
		return r.M, nil
	case AttrR:
		return r.R, nil
	case AttrZ:
		return r.Z, nil
	case AttrTc:
		return r.Tc, nil
	case AttrX:
		return r.X, nil
	case AttrNDomains:
		return float64(r.NDomains), nil
	case AttrOmegaBk:
		return r.OmegaBk, nil
	case AttrTestVirial:
		return r.TestVirial, nil
	case AttrTestEnergy:
		return r.TestEnergy, nil
	case AttrEOS:
		return 0, fmt.Errorf("attribute %s is not numeric", a)
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownAttribute, a)
	}
}

// Text renders an attribute the way grouping keys and filters compare it.
func (r Record) Text(a Attribute) string {
	if a == AttrEOS {
		return r.EOS
	}
	v, err := r.Value(a)
	if err != nil {
		return ""
	}
	return FormatFloat(v)
}

// FormatFloat is the shortest decimal form of v that parses back to v.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Catalog is an ordered set of records.
type Catalog []Record

// Column returns one numeric attribute for every record, in order.
func (c Catalog) Column(a Attribute) ([]float64, error) {
	out := make([]float64, len(c))
	for i, r := range c {
		v, err := r.Value(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Normalize returns a copy with masses in solar masses, radii in solar radii
// and absolute test residuals, ready for log-scale display.
func (c Catalog) Normalize() Catalog {
	out := make(Catalog, len(c))
	for i, r := range c {
		r.M /= star.MSun
		r.R /= star.RSun
		r.TestVirial = math.Abs(r.TestVirial)
		r.TestEnergy = math.Abs(r.TestEnergy)
		out[i] = r
	}
	return out
}
