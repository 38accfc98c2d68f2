package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esterpost/internal/catalog"
	"github.com/roach88/esterpost/internal/star"
)

func sampleCatalog() catalog.Catalog {
	return catalog.Catalog{
		{
			Path: "models/M1.h5", Dim: star.Dim1D,
			M: 1.9891e33, R: 6.95508e10, Z: 0.02, Tc: 1.5e7, X: 0.7,
			NDomains: 8, EOS: "opal",
			OmegaBk: 0, TestVirial: -1e-10, TestEnergy: math.NaN(),
		},
		{
			Path: "models/M2.h5", Dim: star.Dim1D,
			M: 3.9782e33, R: 1.2e11, Z: 0.02, Tc: math.NaN(), X: math.NaN(),
			NDomains: 8, EOS: "",
			OmegaBk: 0.5, TestVirial: 2.5e-11, TestEnergy: 3e-7,
		},
	}
}

func TestWriteCatalog_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCatalog(&buf, sampleCatalog()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "catalog", buf.Bytes())
}

func TestNewRecordViews_MissingValuesAreNull(t *testing.T) {
	views := newRecordViews(sampleCatalog())
	require.Len(t, views, 2)

	assert.Nil(t, views[0].TestEnergy)
	require.NotNil(t, views[0].TestVirial)
	assert.Equal(t, -1e-10, *views[0].TestVirial)
	assert.Nil(t, views[1].Tc)
	assert.Nil(t, views[1].X)

	data, err := json.Marshal(views[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Tc":null`)
	assert.Contains(t, string(data), `"dimension":1`)
}
