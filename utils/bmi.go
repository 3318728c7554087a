package utils

import "math"

// BMICategory is a BMI band label. The cut-offs follow the simplified
// Asia-Pacific bands (normal tops out at 23, not 25).
type BMICategory string

const (
	Underweight BMICategory = "underweight"
	Normal      BMICategory = "normal"
	Overweight  BMICategory = "overweight"
	ObeseClass1 BMICategory = "obese class 1"
	ObeseClass2 BMICategory = "obese class 2"
	ObeseClass3 BMICategory = "obese class 3"
)

// DefaultTargetBMI is the BMI used to derive a healthy target weight.
const DefaultTargetBMI = 22.0

// CalculateBMI expects weight in kilograms and height in centimeters.
// A non-positive height yields 0 instead of dividing by zero.
func CalculateBMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	h := heightCm / 100.0
	return round1(weightKg / (h * h))
}

func GetBMICategory(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 23.0:
		return Normal
	case bmi < 25.0:
		return Overweight
	case bmi < 30.0:
		return ObeseClass1
	case bmi < 35.0:
		return ObeseClass2
	default:
		return ObeseClass3
	}
}

// AtLeastOverweight reports whether c is overweight or any obesity class.
func (c BMICategory) AtLeastOverweight() bool {
	switch c {
	case Overweight, ObeseClass1, ObeseClass2, ObeseClass3:
		return true
	}
	return false
}

// CalculateTargetWeight returns the weight (kg) at which a person of the
// given height would have targetBMI.
func CalculateTargetWeight(heightCm, targetBMI float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	h := heightCm / 100.0
	return round1(targetBMI * h * h)
}

// CalorieGuideline is a rough daily intake estimate. Not a medical formula.
type CalorieGuideline struct {
	Base          int `json:"base"`
	ForWeightLoss int `json:"for_weight_loss"`
	ForWeightGain int `json:"for_weight_gain"`
}

const (
	bmrPerKg        = 22.0
	activityFactor  = 1.375 // light activity
	guidelineOffset = 300.0
)

// GetDailyCalorieGuideline estimates BMR as weight*22 and scales it by a
// light-activity factor. Age and sex are not taken into account.
func GetDailyCalorieGuideline(weightKg float64) CalorieGuideline {
	tdee := weightKg * bmrPerKg * activityFactor
	return CalorieGuideline{
		Base:          int(math.Round(tdee)),
		ForWeightLoss: int(math.Round(tdee - guidelineOffset)),
		ForWeightGain: int(math.Round(tdee + guidelineOffset)),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
