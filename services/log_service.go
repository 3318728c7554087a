package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"caloriecam/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const weekLength = 7

// LogService maintains the per-user daily meal logs on top of a Store.
type LogService struct {
	store         Store
	pub           Publisher
	log           logrus.FieldLogger
	loc           *time.Location
	retentionDays int

	now   func() time.Time
	newID func() string

	locks sync.Map // userID -> *sync.Mutex
}

type LogOption func(*LogService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) LogOption {
	return func(s *LogService) { s.now = now }
}

func WithIDGenerator(fn func() string) LogOption {
	return func(s *LogService) { s.newID = fn }
}

func WithPublisher(p Publisher) LogOption {
	return func(s *LogService) { s.pub = p }
}

func NewLogService(store Store, log logrus.FieldLogger, loc *time.Location, retentionDays int, opts ...LogOption) *LogService {
	if loc == nil {
		loc = time.UTC
	}
	s := &LogService{
		store:         store,
		pub:           NopPublisher{},
		log:           log,
		loc:           loc,
		retentionDays: retentionDays,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *LogService) today() time.Time { return s.now().In(s.loc) }

func (s *LogService) lock(userID uint) func() {
	m, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Today returns today's entry, empty when nothing was logged yet.
func (s *LogService) Today(ctx context.Context, userID uint) (*models.DailyLogEntry, error) {
	logs, err := s.store.LoadDailyLogs(ctx, userID)
	if err != nil {
		return nil, err
	}
	date := s.today().Format(models.DateLayout)
	if i := findLog(logs, date); i >= 0 {
		return &logs[i], nil
	}
	return &models.DailyLogEntry{Date: date, Meals: []models.Meal{}}, nil
}

// History returns every retained entry, most recent first.
func (s *LogService) History(ctx context.Context, userID uint) ([]models.DailyLogEntry, error) {
	logs, err := s.store.LoadDailyLogs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.retain(logs), nil
}

// AddMeal logs est as a new meal of today and returns it.
func (s *LogService) AddMeal(ctx context.Context, userID uint, est models.CalorieEstimation, imageURL string) (*models.Meal, error) {
	unlock := s.lock(userID)
	defer unlock()

	logs, err := s.store.LoadDailyLogs(ctx, userID)
	if err != nil {
		return nil, err
	}

	meal := models.NewMeal(s.newID(), est, s.today(), imageURL)
	meal.UserID = userID

	i := findLog(logs, meal.Date)
	if i < 0 {
		logs = append(logs, models.DailyLogEntry{Date: meal.Date})
		i = len(logs) - 1
	}
	logs[i].Meals = append(logs[i].Meals, meal)
	logs[i].Recalculate()
	total := logs[i].TotalCalories

	logs = s.retain(logs)
	if err := s.store.SaveDailyLogs(ctx, userID, logs); err != nil {
		return nil, err
	}

	MealsLogged.Inc()
	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"meal_id":  meal.ID,
		"calories": meal.TotalCalories,
	}).Info("meal logged")
	s.pub.Publish(userID, Event{
		Type: EventMealLogged,
		Data: map[string]any{"meal": meal, "date": meal.Date, "total_calories": total},
	})
	return &meal, nil
}

// DeleteMeal removes mealID from today's log. Meals of earlier days are
// read-only.
func (s *LogService) DeleteMeal(ctx context.Context, userID uint, mealID string) error {
	unlock := s.lock(userID)
	defer unlock()

	logs, err := s.store.LoadDailyLogs(ctx, userID)
	if err != nil {
		return err
	}
	date := s.today().Format(models.DateLayout)
	i := findLog(logs, date)
	if i < 0 {
		return ErrMealNotFound
	}

	meals := logs[i].Meals
	kept := make([]models.Meal, 0, len(meals))
	for _, m := range meals {
		if m.ID != mealID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(meals) {
		return ErrMealNotFound
	}
	logs[i].Meals = kept
	logs[i].Recalculate()
	total := logs[i].TotalCalories

	if err := s.store.SaveDailyLogs(ctx, userID, s.retain(logs)); err != nil {
		return err
	}

	MealsDeleted.Inc()
	s.log.WithFields(logrus.Fields{"user_id": userID, "meal_id": mealID}).Info("meal deleted")
	s.pub.Publish(userID, Event{
		Type: EventMealDeleted,
		Data: map[string]any{"meal_id": mealID, "date": date, "total_calories": total},
	})
	return nil
}

// DaySummary is one bar of the weekly view.
type DaySummary struct {
	Date          string  `json:"date"`
	TotalCalories float64 `json:"total_calories"`
	Meals         int     `json:"meals"`
}

// Weekly returns the last seven days ending today, oldest first. Days
// without a log are reported with zero calories.
func (s *LogService) Weekly(ctx context.Context, userID uint) ([]DaySummary, error) {
	logs, err := s.store.LoadDailyLogs(ctx, userID)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]models.DailyLogEntry, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l
	}

	today := s.today()
	week := make([]DaySummary, 0, weekLength)
	for i := weekLength - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(models.DateLayout)
		day := DaySummary{Date: date}
		if l, ok := byDate[date]; ok {
			day.TotalCalories = l.TotalCalories
			day.Meals = len(l.Meals)
		}
		week = append(week, day)
	}
	return week, nil
}

// retain sorts logs most recent first and drops entries older than the
// retention window.
// retain keeps the last retentionDays days, today included.
func (s *LogService) retain(logs []models.DailyLogEntry) []models.DailyLogEntry {
	cutoff := s.today().AddDate(0, 0, -s.retentionDays).Format(models.DateLayout)
	kept := logs[:0:0]
	for _, l := range logs {
		if l.Date > cutoff {
			kept = append(kept, l)
		}
	}
	sortLogsDesc(kept)
	return kept
}

func findLog(logs []models.DailyLogEntry, date string) int {
	for i := range logs {
		if logs[i].Date == date {
			return i
		}
	}
	return -1
}

// sortLogsDesc orders logs most recent first. Dates use DateLayout, so
// string order is calendar order.
func sortLogsDesc(logs []models.DailyLogEntry) {
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })
}
