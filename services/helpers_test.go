package services

import (
	"context"
	"io"
	"sync"

	"caloriecam/models"

	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// memStore is an in-memory Store and UserRepository.
type memStore struct {
	mu       sync.Mutex
	profiles map[uint]models.UserProfile
	logs     map[uint][]models.DailyLogEntry
	users    []models.User

	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{
		profiles: map[uint]models.UserProfile{},
		logs:     map[uint][]models.DailyLogEntry{},
	}
}

func (s *memStore) LoadProfile(_ context.Context, userID uint) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (s *memStore) SaveProfile(_ context.Context, userID uint, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile.UserID = userID
	s.profiles[userID] = profile
	return nil
}

func (s *memStore) ClearProfile(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
	delete(s.logs, userID)
	return nil
}

func (s *memStore) LoadDailyLogs(_ context.Context, userID uint) ([]models.DailyLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLogs(s.logs[userID]), nil
}

func (s *memStore) SaveDailyLogs(_ context.Context, userID uint, logs []models.DailyLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.logs[userID] = cloneLogs(logs)
	return nil
}

func (s *memStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	user.ID = uint(len(s.users) + 1)
	s.users = append(s.users, *user)
	return nil
}

func (s *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func cloneLogs(logs []models.DailyLogEntry) []models.DailyLogEntry {
	out := make([]models.DailyLogEntry, 0, len(logs))
	for _, l := range logs {
		c := l
		c.Meals = append([]models.Meal(nil), l.Meals...)
		out = append(out, c)
	}
	return out
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ uint, ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func estimation(total float64, names ...string) models.CalorieEstimation {
	est := models.CalorieEstimation{TotalCalories: total, Items: []models.FoodItemDetail{}}
	for _, n := range names {
		est.Items = append(est.Items, models.FoodItemDetail{Name: n, Calories: total / float64(len(names))})
	}
	return est
}
