package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/roach88/esterpost/internal/catalog"
)

// RecordView is the structured form of a catalog record. Missing
// quantities are null.
type RecordView struct {
	Path       string   `json:"path" yaml:"path"`
	Dimension  int      `json:"dimension" yaml:"dimension"`
	M          *float64 `json:"M" yaml:"M"`
	R          *float64 `json:"R" yaml:"R"`
	Z          *float64 `json:"Z" yaml:"Z"`
	Tc         *float64 `json:"Tc" yaml:"Tc"`
	X          *float64 `json:"X" yaml:"X"`
	NDomains   int      `json:"ndomains" yaml:"ndomains"`
	EOS        string   `json:"eos" yaml:"eos"`
	OmegaBk    *float64 `json:"Omega_bk" yaml:"Omega_bk"`
	TestVirial *float64 `json:"test_virial" yaml:"test_virial"`
	TestEnergy *float64 `json:"test_energy" yaml:"test_energy"`
}

func newRecordViews(c catalog.Catalog) []RecordView {
	out := make([]RecordView, len(c))
	for i, r := range c {
		out[i] = RecordView{
			Path:       r.Path,
			Dimension:  int(r.Dim),
			M:          finite(r.M),
			R:          finite(r.R),
			Z:          finite(r.Z),
			Tc:         finite(r.Tc),
			X:          finite(r.X),
			NDomains:   r.NDomains,
			EOS:        r.EOS,
			OmegaBk:    finite(r.OmegaBk),
			TestVirial: finite(r.TestVirial),
			TestEnergy: finite(r.TestEnergy),
		}
	}
	return out
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// writeCatalog prints one aligned row per record.
func writeCatalog(w io.Writer, c catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	header := []string{"path", "dim"}
	for _, a := range catalog.Attributes {
		header = append(header, string(a))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range c {
		row := []string{r.Path, r.Dim.String()}
		for _, a := range catalog.Attributes {
			text := r.Text(a)
			if text == "" {
				text = "-"
			}
			row = append(row, text)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
