package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caloriecam/models"
)

func names(ex []models.ExerciseSuggestion) []string {
	out := make([]string, 0, len(ex))
	for _, e := range ex {
		out = append(out, e.Name)
	}
	return out
}

func TestSuggestExercises_NothingToBurn(t *testing.T) {
	assert.Empty(t, SuggestExercises(0))
	assert.Empty(t, SuggestExercises(-50))
	assert.NotNil(t, SuggestExercises(0))
}

func TestSuggestExercises_Greedy(t *testing.T) {
	cases := []struct {
		calories float64
		want     []string
	}{
		{200, []string{"Swimming (light)"}},
		{300, []string{"Swimming (light)"}},
		{600, []string{"Swimming (light)", "Jogging"}},
		{60, []string{"Jump rope"}},
		{80, []string{"Brisk walking"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, names(SuggestExercises(tc.calories)), "calories %v", tc.calories)
	}
}

func TestSuggestExercises_FallsBackToSmallest(t *testing.T) {
	got := SuggestExercises(30)
	require.Len(t, got, 1)
	assert.Equal(t, "Jump rope", got[0].Name)
	assert.Equal(t, 100, got[0].CaloriesBurnedApprox)
}

func TestSuggestExercises_NeverMoreThanTwo(t *testing.T) {
	for c := 1.0; c <= 5000; c += 37 {
		assert.LessOrEqual(t, len(SuggestExercises(c)), 2, "calories %v", c)
	}
}

func TestSuggestExercises_DoesNotReorderCatalog(t *testing.T) {
	before := AvailableExercises()
	SuggestExercises(1000)
	assert.Equal(t, before, AvailableExercises())
	assert.Equal(t, "Brisk walking", before[0].Name)
}
