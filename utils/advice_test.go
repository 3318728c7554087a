package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caloriecam/models"
)

var (
	normalProfile      = models.UserProfile{WeightKg: 70, HeightCm: 175}
	obeseProfile       = models.UserProfile{WeightKg: 85, HeightCm: 175}
	underweightProfile = models.UserProfile{WeightKg: 50, HeightCm: 175}
)

func TestWeightManagementAdvice_NormalAtMaintenance(t *testing.T) {
	advice := WeightManagementAdvice(normalProfile, 2118)
	require.Len(t, advice, 3)
	assert.Equal(t, "Current BMI: 22.9 (normal)", advice[0])
	assert.Contains(t, advice[1], "175cm")
	assert.Contains(t, advice[1], "67.4kg")
	assert.Equal(t, "You are in a healthy weight range. Keep it up!", advice[2])
}

func TestWeightManagementAdvice_NormalOutsideTolerance(t *testing.T) {
	over := WeightManagementAdvice(normalProfile, 2400)
	require.Len(t, over, 4)
	assert.Contains(t, over[3], "2400kcal")
	assert.Contains(t, over[3], "above")

	under := WeightManagementAdvice(normalProfile, 1900)
	require.Len(t, under, 4)
	assert.Contains(t, under[3], "below")

	// within +-200 of base
	assert.Len(t, WeightManagementAdvice(normalProfile, 2318), 3)
	assert.Len(t, WeightManagementAdvice(normalProfile, 1918), 3)
}

func TestWeightManagementAdvice_Overweight(t *testing.T) {
	advice := WeightManagementAdvice(obeseProfile, 2500)
	require.Len(t, advice, 5)
	assert.Equal(t, "Current BMI: 27.8 (obese class 1)", advice[0])
	assert.Contains(t, advice[2], "17.6kg")
	assert.Contains(t, advice[3], "2271kcal")
	assert.Contains(t, advice[4], "above the weight-loss target")

	assert.Len(t, WeightManagementAdvice(obeseProfile, 2271), 4)
}

func TestWeightManagementAdvice_Underweight(t *testing.T) {
	advice := WeightManagementAdvice(underweightProfile, 1500)
	require.Len(t, advice, 5)
	assert.Contains(t, advice[0], "underweight")
	assert.Contains(t, advice[2], "17.4kg")
	assert.Contains(t, advice[3], "1813kcal")
	assert.Contains(t, advice[4], "below the weight-gain target")

	assert.Len(t, WeightManagementAdvice(underweightProfile, 1813), 4)
}

func TestCalorieTarget(t *testing.T) {
	g := CalorieGuideline{Base: 2000, ForWeightLoss: 1700, ForWeightGain: 2300}
	assert.Equal(t, 1700, CalorieTarget(ObeseClass3, g))
	assert.Equal(t, 1700, CalorieTarget(Overweight, g))
	assert.Equal(t, 2300, CalorieTarget(Underweight, g))
	assert.Equal(t, 2000, CalorieTarget(Normal, g))
}

func TestExerciseAdvice_Surplus(t *testing.T) {
	advice := ExerciseAdvice(normalProfile, 2418)
	require.Len(t, advice, 3)
	assert.Equal(t, "You ate about 300kcal more than today's target.", advice[0])
	assert.Equal(t, "Try burning it off with:", advice[1])
	assert.Equal(t, "- Swimming (light) (30 minutes): burns about 280kcal", advice[2])
}

func TestExerciseAdvice_OverweightWithoutSurplus(t *testing.T) {
	advice := ExerciseAdvice(obeseProfile, 2000)
	require.Len(t, advice, 3)
	assert.True(t, strings.HasPrefix(advice[0], "Regular exercise helps with weight loss"))
	assert.Equal(t, "For example:", advice[1])
	assert.Contains(t, advice[2], "Swimming (light)")
}

func TestExerciseAdvice_Encouragement(t *testing.T) {
	for _, p := range []models.UserProfile{normalProfile, underweightProfile} {
		advice := ExerciseAdvice(p, 1000)
		require.Len(t, advice, 1)
		assert.Contains(t, advice[0], "Regular physical activity")
	}
}

func TestAdviceIsIdempotent(t *testing.T) {
	assert.Equal(t, WeightManagementAdvice(obeseProfile, 2500), WeightManagementAdvice(obeseProfile, 2500))
	assert.Equal(t, ExerciseAdvice(normalProfile, 2418), ExerciseAdvice(normalProfile, 2418))
}

func TestIntakeWarning(t *testing.T) {
	cases := []struct {
		name    string
		profile models.UserProfile
		intake  float64
		warned  bool
		says    string
	}{
		{"normal at maintenance", normalProfile, 2118, false, ""},
		{"normal over tolerance", normalProfile, 2400, true, "above your usual maintenance"},
		{"normal under tolerance", normalProfile, 1900, true, "below your usual maintenance"},
		{"overweight at loss target", obeseProfile, 2271, false, ""},
		{"overweight above loss target", obeseProfile, 2500, true, "above the weight-loss target"},
		{"underweight at gain target", underweightProfile, 1813, false, ""},
		{"underweight below gain target", underweightProfile, 1500, true, "below the weight-gain target"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line, warned := IntakeWarning(tc.profile, tc.intake)
			assert.Equal(t, tc.warned, warned)
			if !tc.warned {
				assert.Empty(t, line)
				return
			}
			assert.Contains(t, line, tc.says)
			advice := WeightManagementAdvice(tc.profile, tc.intake)
			assert.Equal(t, line, advice[len(advice)-1], "the warning closes the advice")
		})
	}
}
