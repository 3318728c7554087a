package utils

import (
	"cmp"
	"slices"

	"caloriecam/models"
)

const maxSuggestedExercises = 2

var availableExercises = []models.ExerciseSuggestion{
	{Name: "Brisk walking", Description: "30 minutes", CaloriesBurnedApprox: 150},
	{Name: "Jogging", Description: "30 minutes", CaloriesBurnedApprox: 250},
	{Name: "Cycling (moderate)", Description: "30 minutes", CaloriesBurnedApprox: 220},
	{Name: "Swimming (light)", Description: "30 minutes", CaloriesBurnedApprox: 280},
	{Name: "Stair climbing", Description: "15 minutes", CaloriesBurnedApprox: 130},
	{Name: "Jump rope", Description: "10 minutes", CaloriesBurnedApprox: 100},
}

// AvailableExercises returns a copy of the exercise catalog.
func AvailableExercises() []models.ExerciseSuggestion {
	return slices.Clone(availableExercises)
}

// SuggestExercises picks at most two catalog exercises that roughly offset
// caloriesToBurn. It is a greedy approximation, not an exact cover: walking
// the catalog from the most to the least demanding exercise, one is taken
// whenever the remaining calories reach half of what it burns.
func SuggestExercises(caloriesToBurn float64) []models.ExerciseSuggestion {
	suggestions := []models.ExerciseSuggestion{}
	if caloriesToBurn <= 0 {
		return suggestions
	}

	sorted := AvailableExercises()
	slices.SortStableFunc(sorted, func(a, b models.ExerciseSuggestion) int {
		return cmp.Compare(b.CaloriesBurnedApprox, a.CaloriesBurnedApprox)
	})

	remaining := caloriesToBurn
	for _, ex := range sorted {
		if remaining < float64(ex.CaloriesBurnedApprox)*0.5 {
			continue
		}
		if len(suggestions) >= maxSuggestedExercises {
			break
		}
		suggestions = append(suggestions, ex)
		remaining -= float64(ex.CaloriesBurnedApprox)
		if remaining <= 0 {
			break
		}
	}

	// NOTE: the fallback threshold (1.5x) does not mirror the 0.5x used
	// above. Kept as is; with the current catalog it only fires for
	// remainders below 50 kcal, where it always picks the smallest exercise.
	if len(suggestions) == 0 && remaining > 0 {
		for i := len(sorted) - 1; i >= 0; i-- {
			smallest := sorted[i]
			if smallest.CaloriesBurnedApprox <= 0 {
				continue
			}
			if remaining < float64(smallest.CaloriesBurnedApprox)*1.5 {
				suggestions = append(suggestions, smallest)
			}
			break
		}
	}
	return suggestions
}
