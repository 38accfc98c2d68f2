package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"bool", true, "true"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"string slice", []string{"b", "a"}, `["b","a"]`},
		{"html is not escaped", "<a&b>", `"<a&b>"`},
		{"control characters", "a\nb\x01", `"a\nb\u0001"`},
		{"line separator kept literal", "a\u2028b", "\"a\u2028b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": map[string]any{"b": 1, "a": 2},
		"beta":  3,
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"a":2,"b":1},"beta":3,"zebra":1}`, string(result))
}

func TestMarshalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as a surrogate pair starting at 0xD83D, which sorts
	// before U+FF61 in UTF-16 although it sorts after it in UTF-8.
	obj := map[string]any{"\uff61": 1, "\U0001F600": 2}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uff61\":1}", string(result))
}

func TestMarshalNFC(t *testing.T) {
	decomposed := "e\u0301"
	composed := "\u00e9"

	a, err := Marshal(decomposed)
	require.NoError(t, err)
	b, err := Marshal(composed)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestMarshalRejects(t *testing.T) {
	for _, v := range []any{nil, 1.5, float32(2), struct{}{}, []any{1.0}} {
		_, err := Marshal(v)
		assert.Error(t, err, "%T", v)
	}
}

func TestHash_StableAndDomainSeparated(t *testing.T) {
	v := map[string]any{"folders": []string{"a", "b"}, "dim": 1}

	h1, err := Hash("esterpost/source/v1", v)
	require.NoError(t, err)
	h2, err := Hash("esterpost/source/v1", map[string]any{"dim": 1, "folders": []string{"a", "b"}})
	require.NoError(t, err)
	h3, err := Hash("esterpost/other/v1", v)
	require.NoError(t, err)

	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}

func TestHash_PropagatesErrors(t *testing.T) {
	_, err := Hash("d", map[string]any{"x": 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}
