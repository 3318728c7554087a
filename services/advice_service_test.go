package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caloriecam/models"
	"caloriecam/utils"
)

func TestAdviceService_DashboardWithoutProfile(t *testing.T) {
	store := newMemStore()
	clock := &testClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}
	logs := newTestLogService(store, clock, NopPublisher{})
	svc := NewAdviceService(store, logs, nil, quietLogger())

	_, err := svc.Dashboard(context.Background(), 1)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestAdviceService_DashboardNormalWeight(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.SaveProfile(ctx, 1, models.UserProfile{Name: "Mina", WeightKg: 70, HeightCm: 175}))
	clock := &testClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}
	logs := newTestLogService(store, clock, NopPublisher{})
	pub := &recordingPublisher{}
	svc := NewAdviceService(store, logs, pub, quietLogger())

	_, err := logs.AddMeal(ctx, 1, estimation(2118, "Feast"), "")
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 22.9, d.BMI)
	assert.Equal(t, utils.Normal, d.Category)
	assert.Equal(t, 67.4, d.TargetWeight)
	assert.Equal(t, 2118, d.Guideline.Base)
	assert.Equal(t, 2118, d.CalorieTarget)
	assert.Equal(t, 2118.0, d.TodayCalories)
	assert.Len(t, d.WeightAdvice, 3)
	assert.NotEmpty(t, d.ExerciseAdvice)
	assert.Empty(t, pub.types(), "intake at maintenance raises no warning")
}

func TestAdviceService_DashboardPublishesIntakeWarning(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.SaveProfile(ctx, 1, models.UserProfile{WeightKg: 85, HeightCm: 175}))
	clock := &testClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}
	logs := newTestLogService(store, clock, NopPublisher{})
	pub := &recordingPublisher{}
	svc := NewAdviceService(store, logs, pub, quietLogger())

	_, err := logs.AddMeal(ctx, 1, estimation(2500, "Burger", "Fries"), "")
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, utils.ObeseClass1, d.Category)
	assert.Equal(t, 2271, d.CalorieTarget)
	assert.Equal(t, []string{EventAdviceWarning}, pub.types())

	data, ok := pub.events[0].Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, d.WeightAdvice[len(d.WeightAdvice)-1], data["message"])
	assert.Equal(t, 2271, data["calorie_target"])
}
