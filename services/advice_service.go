package services

import (
	"context"

	"caloriecam/models"
	"caloriecam/utils"

	"github.com/sirupsen/logrus"
)

// Dashboard is everything the home screen shows for one user.
type Dashboard struct {
	Profile        models.UserProfile     `json:"profile"`
	BMI            float64                `json:"bmi"`
	Category       utils.BMICategory      `json:"category"`
	TargetWeight   float64                `json:"target_weight"`
	Guideline      utils.CalorieGuideline `json:"guideline"`
	CalorieTarget  int                    `json:"calorie_target"`
	TodayCalories  float64                `json:"today_calories"`
	WeightAdvice   []string               `json:"weight_advice"`
	ExerciseAdvice []string               `json:"exercise_advice"`
}

type AdviceService struct {
	store Store
	logs  *LogService
	pub   Publisher
	log   logrus.FieldLogger
}

func NewAdviceService(store Store, logs *LogService, pub Publisher, log logrus.FieldLogger) *AdviceService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &AdviceService{store: store, logs: logs, pub: pub, log: log}
}

// Dashboard combines the stored profile with today's intake.
func (s *AdviceService) Dashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	profile, err := s.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	today, err := s.logs.Today(ctx, userID)
	if err != nil {
		return nil, err
	}

	bmi := utils.CalculateBMI(profile.WeightKg, profile.HeightCm)
	category := utils.GetBMICategory(bmi)
	guideline := utils.GetDailyCalorieGuideline(profile.WeightKg)

	d := &Dashboard{
		Profile:        *profile,
		BMI:            bmi,
		Category:       category,
		TargetWeight:   utils.CalculateTargetWeight(profile.HeightCm, utils.DefaultTargetBMI),
		Guideline:      guideline,
		CalorieTarget:  utils.CalorieTarget(category, guideline),
		TodayCalories:  today.TotalCalories,
		WeightAdvice:   utils.WeightManagementAdvice(*profile, today.TotalCalories),
		ExerciseAdvice: utils.ExerciseAdvice(*profile, today.TotalCalories),
	}

	if warning, ok := utils.IntakeWarning(*profile, today.TotalCalories); ok {
		s.log.WithFields(logrus.Fields{"user_id": userID, "intake": today.TotalCalories}).Debug("intake warning")
		s.pub.Publish(userID, Event{
			Type: EventAdviceWarning,
			Data: map[string]any{"message": warning, "today_calories": today.TotalCalories, "calorie_target": d.CalorieTarget},
		})
	}
	return d, nil
}
