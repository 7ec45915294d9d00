package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[
  {"Player name": "B Bonds", "position": "LF", "Games": 2986, "At-bat": 9847, "Runs": 2227,
   "Hits": 2935, "Double (2B)": 601, "third baseman": 77, "home run": 762, "run batted in": 1996,
   "a walk": 2558, "Strikeouts": 1539, "stolen base": 514, "Caught stealing": "141",
   "AVG": 0.298, "On-base Percentage": ".444", "Slugging Percentage": 0.607, "On-base Plus Slugging": 1.051},
  {"Player name": " H Aaron ", "position": "", "Games": "3298", "At-bat": 12364, "Runs": 2174,
   "Hits": 3771, "Double (2B)": 624, "third baseman": 98, "home run": 755, "run batted in": 2297,
   "a walk": 1402, "Strikeouts": 1383, "stolen base": 240, "Caught stealing": "--",
   "AVG": 0.305, "On-base Percentage": 0.374, "Slugging Percentage": 0.555, "On-base Plus Slugging": 0.928}
]`

func TestReadDataset(t *testing.T) {
	players, err := readDataset(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, players, 2)

	bonds := players[0]
	assert.Equal(t, "B Bonds", bonds.Name)
	require.NotNil(t, bonds.Position)
	assert.Equal(t, "LF", *bonds.Position)
	assert.Equal(t, 762, bonds.HomeRuns)
	assert.Equal(t, 77, bonds.Triples)
	require.NotNil(t, bonds.CaughtStealing)
	assert.Equal(t, 141, *bonds.CaughtStealing)
	assert.InDelta(t, 0.444, float64(bonds.OBP), 1e-9)
	assert.Nil(t, bonds.Description)

	aaron := players[1]
	assert.Equal(t, "H Aaron", aaron.Name)
	assert.Nil(t, aaron.Position)
	assert.Equal(t, 3298, aaron.Games)
	assert.Nil(t, aaron.CaughtStealing)
}

func TestReadDatasetErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not an array", `{"Player name": "x"}`},
		{"missing name", `[{"Hits": 3}]`},
		{"bad integer", `[{"Player name": "x", "Hits": "lots"}]`},
		{"bad decimal", `[{"Player name": "x", "AVG": "n/a"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readDataset(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}
