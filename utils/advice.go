package utils

import (
	"fmt"
	"math"
	"strconv"

	"caloriecam/models"
)

const (
	// normal-weight intake may drift this far from maintenance before we say anything
	maintenanceTolerance = 200
	// surplus (kcal) above which exercises are suggested
	exerciseSurplusThreshold = 50
	// size of the generic activity recommendation for overweight users
	genericExerciseCalories = 200
)

// WeightManagementAdvice builds the ordered advice lines shown for a
// profile given today's intake.
func WeightManagementAdvice(profile models.UserProfile, dailyIntake float64) []string {
	bmi := CalculateBMI(profile.WeightKg, profile.HeightCm)
	category := GetBMICategory(bmi)
	target := CalculateTargetWeight(profile.HeightCm, DefaultTargetBMI)
	guideline := GetDailyCalorieGuideline(profile.WeightKg)

	advice := []string{
		fmt.Sprintf("Current BMI: %s (%s)", fmtNum(bmi), category),
		fmt.Sprintf("Healthy weight for a height of %scm (BMI %s): about %skg.",
			fmtNum(profile.HeightCm), fmtNum(DefaultTargetBMI), fmtNum(target)),
	}

	switch {
	case category.AtLeastOverweight():
		advice = append(advice,
			fmt.Sprintf("Losing about %.1fkg would reach the target weight.", profile.WeightKg-target),
			fmt.Sprintf("To lose weight, aim for about %dkcal a day, or eat 300-500kcal less than you do now.", guideline.ForWeightLoss),
		)
	case category == Underweight:
		advice = append(advice,
			fmt.Sprintf("Gaining about %.1fkg would reach the target weight.", target-profile.WeightKg),
			fmt.Sprintf("To gain weight, aim for about %dkcal a day, or eat 300-500kcal more than you do now.", guideline.ForWeightGain),
		)
	default:
		advice = append(advice, "You are in a healthy weight range. Keep it up!")
	}
	if warning, ok := IntakeWarning(profile, dailyIntake); ok {
		advice = append(advice, warning)
	}
	return advice
}

// IntakeWarning reports whether today's intake is off the profile's target
// and returns the line saying so.
func IntakeWarning(profile models.UserProfile, dailyIntake float64) (string, bool) {
	category := GetBMICategory(CalculateBMI(profile.WeightKg, profile.HeightCm))
	guideline := GetDailyCalorieGuideline(profile.WeightKg)
	intake := fmtNum(dailyIntake)

	switch {
	case category.AtLeastOverweight():
		if dailyIntake > float64(guideline.ForWeightLoss) {
			return fmt.Sprintf("Today's intake (%skcal) is above the weight-loss target. Try moving more or adjusting your next meal.", intake), true
		}
	case category == Underweight:
		if dailyIntake < float64(guideline.ForWeightGain) {
			return fmt.Sprintf("Today's intake (%skcal) is below the weight-gain target. Make sure you are eating enough.", intake), true
		}
	default:
		if dailyIntake > float64(guideline.Base+maintenanceTolerance) {
			return fmt.Sprintf("Today's intake (%skcal) may be a little above your usual maintenance calories. Maybe take a bit more care tomorrow?", intake), true
		}
		if dailyIntake < float64(guideline.Base-maintenanceTolerance) {
			return fmt.Sprintf("Today's intake (%skcal) may be a little below your usual maintenance calories. Are you eating enough?", intake), true
		}
	}
	return "", false
}

// CalorieTarget picks the guideline figure that applies to category.
func CalorieTarget(category BMICategory, g CalorieGuideline) int {
	switch {
	case category.AtLeastOverweight():
		return g.ForWeightLoss
	case category == Underweight:
		return g.ForWeightGain
	default:
		return g.Base
	}
}

// ExerciseAdvice suggests activity to offset today's surplus over the
// category's calorie target.
func ExerciseAdvice(profile models.UserProfile, dailyIntake float64) []string {
	guideline := GetDailyCalorieGuideline(profile.WeightKg)
	category := GetBMICategory(CalculateBMI(profile.WeightKg, profile.HeightCm))
	surplus := dailyIntake - float64(CalorieTarget(category, guideline))

	var advice []string
	switch {
	case surplus > exerciseSurplusThreshold:
		advice = append(advice, fmt.Sprintf("You ate about %.0fkcal more than today's target.", math.Round(surplus)))
		if exercises := SuggestExercises(surplus); len(exercises) > 0 {
			advice = append(advice, "Try burning it off with:")
			advice = append(advice, exerciseLines(exercises)...)
		} else {
			advice = append(advice, "A light walk or some stretching will help you move a bit more.")
		}
	case category.AtLeastOverweight():
		advice = append(advice, "Regular exercise helps with weight loss. At least 30 minutes of moderate activity a day is recommended.")
		if exercises := SuggestExercises(genericExerciseCalories); len(exercises) > 0 {
			advice = append(advice, "For example:")
			advice = append(advice, exerciseLines(exercises)...)
		}
	default:
		advice = append(advice, "Regular physical activity matters for staying healthy. Find an exercise you enjoy and stick with it!")
	}
	return advice
}

func exerciseLines(exercises []models.ExerciseSuggestion) []string {
	lines := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		lines = append(lines, fmt.Sprintf("- %s (%s): burns about %dkcal", ex.Name, ex.Description, ex.CaloriesBurnedApprox))
	}
	return lines
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
