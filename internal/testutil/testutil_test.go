package testutil

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esterpost/internal/integrate"
	"github.com/roach88/esterpost/internal/star"
)

func TestUniformSphere_CoreMass(t *testing.T) {
	for _, nth := range []int{1, 4} {
		m, err := UniformSphere("models/M1.h5", nth, Params{Conv: 1, EOS: "opal"})
		require.NoError(t, err)

		cm, err := integrate.Core(m)
		require.NoError(t, err)
		assert.Equal(t, 1, cm.Domains)
		assert.Equal(t, SpherePoints, cm.Points)

		want := 4 * math.Pi / 3 * 0.125 * star.RSun * star.RSun * star.RSun / star.MSun
		assert.InDelta(t, 1, cm.Mass/want, 1e-10, "nth=%d", nth)
	}
}

func TestUniformSphere_Attributes(t *testing.T) {
	m, err := UniformSphere("models/M2w.h5", 1, Params{M: 2 * star.MSun, Z: 0.02, TestVirial: math.NaN(), TestEnergy: 1e-6})
	require.NoError(t, err)
	assert.Equal(t, star.Dim2D, m.Dim)
	assert.Equal(t, 2*star.MSun, m.M)
	assert.Equal(t, 0.02, m.Z)
	assert.True(t, math.IsNaN(m.TestVirial))
	assert.Equal(t, 1e-6, m.TestEnergy)
}

func TestReader(t *testing.T) {
	m, err := UniformSphere("models/M1.h5", 1, Params{})
	require.NoError(t, err)
	r := NewReader(m)

	got, err := r.Read("models/./M1.h5")
	require.NoError(t, err)
	assert.Equal(t, m.M, got.M)

	got.M = 0
	again, err := r.Read("models/M1.h5")
	require.NoError(t, err)
	assert.Equal(t, m.M, again.M)

	_, err = r.Read("models/missing.h5")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.Equal(t, []string{"models/./M1.h5", "models/M1.h5", "models/missing.h5"}, r.Reads())
}

func TestTouch(t *testing.T) {
	dir := t.TempDir()
	paths := Touch(t, dir, "a.h5", "sub/b.h5")
	require.Len(t, paths, 2)
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	assert.Equal(t, filepath.Join(dir, "sub", "b.h5"), paths[1])
}
