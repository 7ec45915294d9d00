package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestStatsPatchColumns(t *testing.T) {
	patch := StatsPatch{Strikeouts: intPtr(90), Games: intPtr(150), HomeRuns: intPtr(0)}

	cols := patch.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "games", cols[0].Name)
	assert.Equal(t, "home_run", cols[1].Name)
	assert.Equal(t, 0, *cols[1].Value)
	assert.Equal(t, "strikeouts", cols[2].Name)

	assert.Empty(t, StatsPatch{}.Columns())
}

func TestStatsPatchValidate(t *testing.T) {
	assert.NoError(t, StatsPatch{Runs: intPtr(0), Hits: intPtr(12)}.Validate())

	err := StatsPatch{Hits: intPtr(12), RBI: intPtr(-1)}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeStat)

	var se *StatError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "run_batted_in", se.Field)
	assert.Contains(t, err.Error(), "run_batted_in")
}

func TestHasDescription(t *testing.T) {
	empty, text := "", "Leadoff hitter."
	assert.False(t, (&Player{}).HasDescription())
	assert.False(t, (&Player{Description: &empty}).HasDescription())
	assert.True(t, (&Player{Description: &text}).HasDescription())
}
