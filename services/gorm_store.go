package services

import (
	"context"
	"errors"
	"fmt"

	"caloriecam/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps profiles and meal logs in a relational database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) LoadProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &p, nil
}

func (s *GormStore) SaveProfile(ctx context.Context, userID uint, profile models.UserProfile) error {
	profile.UserID = userID
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&profile).Error
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *GormStore) ClearProfile(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteMeals(tx, userID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserProfile{}).Error; err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		return nil
	})
}

func (s *GormStore) LoadDailyLogs(ctx context.Context, userID uint) ([]models.DailyLogEntry, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("load meals: %w", err)
	}
	return groupMeals(meals), nil
}

func (s *GormStore) SaveDailyLogs(ctx context.Context, userID uint, logs []models.DailyLogEntry) error {
	var meals []models.Meal
	for _, l := range logs {
		for _, m := range l.Meals {
			m.UserID = userID
			m.Date = l.Date
			items := make([]models.MealItem, len(m.Items))
			for i, it := range m.Items {
				items[i] = models.MealItem{MealID: m.ID, Position: i, FoodItemDetail: it.FoodItemDetail}
			}
			m.Items = items
			meals = append(meals, m)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteMeals(tx, userID); err != nil {
			return err
		}
		if len(meals) == 0 {
			return nil
		}
		if err := tx.Create(&meals).Error; err != nil {
			return fmt.Errorf("insert meals: %w", err)
		}
		return nil
	})
}

func deleteMeals(tx *gorm.DB, userID uint) error {
	owned := tx.Model(&models.Meal{}).Select("id").Where("user_id = ?", userID)
	if err := tx.Where("meal_id IN (?)", owned).Delete(&models.MealItem{}).Error; err != nil {
		return fmt.Errorf("delete meal items: %w", err)
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.Meal{}).Error; err != nil {
		return fmt.Errorf("delete meals: %w", err)
	}
	return nil
}

// CreateUser relies on the unique email index, so the db must be opened
// with TranslateError for duplicates to surface as ErrEmailTaken.
func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
