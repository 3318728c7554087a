package models

import (
	"time"
)

// Meal is a logged CalorieEstimation.
type Meal struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        uint       `gorm:"index;not null" json:"-"`
	Date          string     `gorm:"index;type:varchar(10);not null" json:"-"` // YYYY-MM-DD
	Timestamp     time.Time  `json:"timestamp"`
	TotalCalories float64    `json:"total_calories"`
	Items         []MealItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Notes         string     `json:"notes,omitempty"`
	Error         string     `json:"error,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
}

// Each MealItem stores the recognised food snapshot.
type MealItem struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	MealID   string `gorm:"index;type:varchar(36);not null" json:"-"`
	Position int    `json:"-"`
	FoodItemDetail
}

// NewMeal snapshots est into a meal logged at ts.
func NewMeal(id string, est CalorieEstimation, ts time.Time, imageURL string) Meal {
	m := Meal{
		ID:            id,
		Date:          ts.Format(DateLayout),
		Timestamp:     ts,
		TotalCalories: est.TotalCalories,
		Notes:         est.Notes,
		Error:         est.Error,
		ImageURL:      imageURL,
		Items:         make([]MealItem, 0, len(est.Items)),
	}
	for i, it := range est.Items {
		m.Items = append(m.Items, MealItem{MealID: id, Position: i, FoodItemDetail: it})
	}
	return m
}

// Estimation returns the estimation the meal was logged from.
func (m *Meal) Estimation() CalorieEstimation {
	items := make([]FoodItemDetail, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, it.FoodItemDetail)
	}
	return CalorieEstimation{
		TotalCalories: m.TotalCalories,
		Items:         items,
		Notes:         m.Notes,
		Error:         m.Error,
	}
}
