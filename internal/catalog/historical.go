package catalog

import (
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/roach88/esterpost/internal/star"
)

//go:embed historical.yaml
var historicalYAML []byte

// historicalDTO mirrors historical.yaml. Pointer fields tell an absent
// quantity apart from a zero one.
type historicalDTO struct {
	Models []struct {
		M          float64  `yaml:"M"`
		R          float64  `yaml:"R"`
		Z          *float64 `yaml:"Z"`
		Tc         *float64 `yaml:"Tc"`
		X          *float64 `yaml:"X"`
		NDomains   int      `yaml:"ndomains"`
		EOS        string   `yaml:"eos"`
		OmegaBk    float64  `yaml:"Omega_bk"`
		TestVirial *float64 `yaml:"test_virial"`
		TestEnergy *float64 `yaml:"test_energy"`
	} `yaml:"models"`
}

// Historical returns the sample data recorded from earlier runs.
func Historical() (Catalog, error) {
	return decodeHistorical(historicalYAML)
}

func decodeHistorical(data []byte) (Catalog, error) {
	var dto historicalDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("decode historical data: %w", err)
	}
	out := make(Catalog, len(dto.Models))
	for i, m := range dto.Models {
		out[i] = Record{
			Path:       fmt.Sprintf("historical/%02d", i),
			Dim:        star.Dim2D,
			M:          m.M,
			R:          m.R,
			Z:          orNaN(m.Z),
			Tc:         orNaN(m.Tc),
			X:          orNaN(m.X),
			NDomains:   m.NDomains,
			EOS:        m.EOS,
			OmegaBk:    m.OmegaBk,
			TestVirial: orNaN(m.TestVirial),
			TestEnergy: orNaN(m.TestEnergy),
		}
	}
	return out, nil
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
