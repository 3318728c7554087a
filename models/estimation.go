package models

// FoodItemDetail is one food recognised on a photo.
type FoodItemDetail struct {
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	ServingSize string  `json:"serving_size,omitempty"`
	Confidence  string  `json:"confidence,omitempty"` // e.g. "high", "medium", "low"
}

// CalorieEstimation is the result of analysing a food photo. When the
// analysis fails inside the AI contract, Error carries a short reason and
// Notes a user-facing explanation; TotalCalories is then 0.
type CalorieEstimation struct {
	TotalCalories float64          `json:"total_calories"`
	Items         []FoodItemDetail `json:"items"`
	Notes         string           `json:"notes,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// Failed reports whether the analysis produced nothing usable: an error
// and no items. An error next to recognised items is only a warning.
func (e *CalorieEstimation) Failed() bool { return e.Error != "" && len(e.Items) == 0 }
