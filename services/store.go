package services

import (
	"context"
	"errors"

	"caloriecam/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrMealNotFound    = errors.New("meal not found")
)

// Store persists the per-user state the app works with: one body profile
// and the daily meal logs.
type Store interface {
	LoadProfile(ctx context.Context, userID uint) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, userID uint, profile models.UserProfile) error
	// ClearProfile removes the profile together with the user's logs.
	ClearProfile(ctx context.Context, userID uint) error
	// LoadDailyLogs returns the logs most recent first.
	LoadDailyLogs(ctx context.Context, userID uint) ([]models.DailyLogEntry, error)
	// SaveDailyLogs replaces every stored log of the user with logs.
	SaveDailyLogs(ctx context.Context, userID uint, logs []models.DailyLogEntry) error
}

// groupMeals buckets meals by their Date and returns entries most recent
// first with totals recomputed.
func groupMeals(meals []models.Meal) []models.DailyLogEntry {
	byDate := map[string]*models.DailyLogEntry{}
	var order []string
	for _, m := range meals {
		e, ok := byDate[m.Date]
		if !ok {
			e = &models.DailyLogEntry{Date: m.Date, Meals: []models.Meal{}}
			byDate[m.Date] = e
			order = append(order, m.Date)
		}
		e.Meals = append(e.Meals, m)
	}
	logs := make([]models.DailyLogEntry, 0, len(order))
	for _, d := range order {
		e := byDate[d]
		e.Recalculate()
		logs = append(logs, *e)
	}
	sortLogsDesc(logs)
	return logs
}
