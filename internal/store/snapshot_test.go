package store

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esterpost/internal/catalog"
	"github.com/roach88/esterpost/internal/star"
)

func testRecords() catalog.Catalog {
	return catalog.Catalog{
		{Path: "a/M3.h5", Dim: star.Dim1D, M: 3 * star.MSun, R: 2 * star.RSun, Z: 0.02, Tc: 2.5e7, X: 0.6,
			NDomains: 8, EOS: "opal", OmegaBk: 0, TestVirial: 1e-10, TestEnergy: -3e-7},
		{Path: "a/M5.h5", Dim: star.Dim1D, M: 5 * star.MSun, R: 3 * star.RSun, Z: 0.02, Tc: math.NaN(), X: 0.7,
			NDomains: 8, EOS: "opal", OmegaBk: 0, TestVirial: math.NaN(), TestEnergy: math.NaN()},
	}
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveSnapshot(ctx, "key-a", star.Dim1D, testRecords())
	require.NoError(t, err)

	id, err := uuid.Parse(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, int64(1), saved.Seq)

	got, err := s.LatestSnapshot(ctx, "key-a")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, star.Dim1D, got.Dim)
	require.Len(t, got.Records, 2)

	first := got.Records[0]
	assert.Equal(t, "a/M3.h5", first.Path)
	assert.Equal(t, 3*star.MSun, first.M)
	assert.Equal(t, 2.5e7, first.Tc)
	assert.Equal(t, -3e-7, first.TestEnergy)
	assert.Equal(t, "opal", first.EOS)
	assert.Equal(t, 8, first.NDomains)

	second := got.Records[1]
	assert.Equal(t, "a/M5.h5", second.Path)
	assert.True(t, math.IsNaN(second.Tc))
	assert.True(t, math.IsNaN(second.TestVirial))
	assert.True(t, math.IsNaN(second.TestEnergy))
}

func TestLatestSnapshot_PicksHighestSeqForSource(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	records := testRecords()

	_, err := s.SaveSnapshot(ctx, "key-a", star.Dim1D, records[:1])
	require.NoError(t, err)
	second, err := s.SaveSnapshot(ctx, "key-a", star.Dim1D, records)
	require.NoError(t, err)
	other, err := s.SaveSnapshot(ctx, "key-b", star.Dim2D, records[:1])
	require.NoError(t, err)

	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, int64(3), other.Seq)

	got, err := s.LatestSnapshot(ctx, "key-a")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Len(t, got.Records, 2)
}

func TestLatestSnapshot_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.LatestSnapshot(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveSnapshot_Empty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "key", star.Dim2D, nil)
	require.NoError(t, err)

	got, err := s.LatestSnapshot(ctx, "key")
	require.NoError(t, err)
	assert.NotNil(t, got.Records)
	assert.Empty(t, got.Records)
}

func TestListSnapshots(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a, err := s.SaveSnapshot(ctx, "key-a", star.Dim1D, testRecords())
	require.NoError(t, err)
	b, err := s.SaveSnapshot(ctx, "key-b", star.Dim2D, testRecords()[:1])
	require.NoError(t, err)

	list, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, Summary{ID: a.ID, SourceKey: "key-a", Dim: star.Dim1D, Seq: 1, RecordCount: 2}, list[0])
	assert.Equal(t, Summary{ID: b.ID, SourceKey: "key-b", Dim: star.Dim2D, Seq: 2, RecordCount: 1}, list[1])
}

func TestSaveSnapshot_CancelledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SaveSnapshot(ctx, "key", star.Dim1D, testRecords())
	require.Error(t, err)

	list, err := s.ListSnapshots(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSourceKey(t *testing.T) {
	k1, err := SourceKey([]string{"models/", "more"}, star.Dim1D, false)
	require.NoError(t, err)
	k2, err := SourceKey([]string{"models", "./more"}, star.Dim1D, false)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	for _, other := range []struct {
		folders   []string
		dim       star.Dimension
		recursive bool
	}{
		{[]string{"more", "models"}, star.Dim1D, false},
		{[]string{"models", "more"}, star.Dim2D, false},
		{[]string{"models", "more"}, star.Dim1D, true},
	} {
		k, err := SourceKey(other.folders, other.dim, other.recursive)
		require.NoError(t, err)
		assert.NotEqual(t, k1, k)
	}
}
