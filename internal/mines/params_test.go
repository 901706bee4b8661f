package mines

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	testCases := []struct {
		input string
		want  GameParams
		ok    bool
	}{
		{"10:10:15", GameParams{10, 10, 15}, true},
		{" 16:30:99 ", GameParams{16, 30, 99}, true},
		{"2:2:0", GameParams{2, 2, 0}, true},
		{"10:10", GameParams{}, false},
		{"10:10:15:1", GameParams{}, false},
		{"a:b:c", GameParams{}, false},
		{"", GameParams{}, false},
		{"10:10:15x", GameParams{}, false},
		{"10:10:15 junk", GameParams{}, false},
		{"10: 10:15", GameParams{}, false},
		{"x10:10:15", GameParams{}, false},
	}
	for _, test := range testCases {
		p, err := ParseParams(test.input)
		if !test.ok {
			assert.Error(t, err, test.input)
			continue
		}
		require.NoError(t, err, test.input)
		assert.Equal(t, test.want, p)
		assert.Equal(t, p, must(ParseParams(p.String())))
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestParamsText(t *testing.T) {
	var v struct {
		Default GameParams   `json:"default"`
		Allowed []GameParams `json:"allowed"`
	}
	err := json.Unmarshal(
		[]byte(`{"default":"10:10:15","allowed":["9:9:10","16:16:40"]}`), &v,
	)
	require.NoError(t, err)
	assert.Equal(t, DefaultParams(), v.Default)
	assert.Equal(t, []GameParams{{9, 9, 10}, {16, 16, 40}}, v.Allowed)

	b, err := json.Marshal(v.Default)
	require.NoError(t, err)
	assert.Equal(t, `"10:10:15"`, string(b))

	err = json.Unmarshal([]byte(`{"default":"oops"}`), &v)
	assert.Error(t, err)
}

func TestValidatePoint(t *testing.T) {
	p := GameParams{Rows: 2, Cols: 3, MineCount: 1}
	assert.True(t, p.ValidatePoint(0, 0))
	assert.True(t, p.ValidatePoint(1, 2))
	assert.False(t, p.ValidatePoint(2, 0))
	assert.False(t, p.ValidatePoint(0, 3))
	assert.False(t, p.ValidatePoint(-1, 0))
}

func TestCellStateString(t *testing.T) {
	assert.Equal(t, " ", Unknown.String())
	assert.Equal(t, "F", Flagged.String())
	assert.Equal(t, "*", Mine.String())
	assert.Equal(t, "X", ExplodedMine.String())
	assert.Equal(t, "3", CellState(3).String())
	assert.Equal(t, "!", CellState(9).String())
	assert.True(t, CellState(0).Revealed())
	assert.False(t, Flagged.Revealed())
}
