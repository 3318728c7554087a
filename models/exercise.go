package models

type ExerciseSuggestion struct {
	Name                 string `json:"name"`
	Description          string `json:"description"` // e.g. "30 minutes"
	CaloriesBurnedApprox int    `json:"calories_burned_approx"`
}
