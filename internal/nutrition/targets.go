// Package nutrition holds the deterministic metrics: daily targets, the
// hydration ledger, intake aggregation, the performance pulse window, BMI
// and weight history, and the future projection text.
package nutrition

import (
	"math"

	"github.com/besufkad2328-dev/SEED/internal/models"
)

const (
	goalOffsetKcal = 500

	proteinShare = 0.30
	carbsShare   = 0.40
	fatShare     = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9

	fallbackMultiplier = 1.2
)

var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:   1.2,
	models.ActivityLight:       1.375,
	models.ActivityModerate:    1.55,
	models.ActivityVery:        1.725,
	models.ActivityExtraActive: 1.9,
}

// ActivityMultiplier returns the TDEE factor for a level; unknown levels
// use the sedentary factor.
func ActivityMultiplier(level models.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return fallbackMultiplier
}

// BMR is the Mifflin-St Jeor basal metabolic rate.
func BMR(p models.UserProfile) float64 {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	switch p.Gender {
	case models.GenderMale:
		bmr += 5
	case models.GenderFemale:
		bmr -= 161
	default:
		bmr -= 78
	}
	return bmr
}

// TDEE is BMR scaled by the activity multiplier, rounded to whole kcal.
func TDEE(p models.UserProfile) int {
	return int(Round(BMR(p) * ActivityMultiplier(p.ActivityLevel)))
}

// GoalOffset is the daily kcal adjustment for a goal.
func GoalOffset(goal models.GoalType) int {
	switch goal {
	case models.GoalWeightLoss:
		return -goalOffsetKcal
	case models.GoalWeightGain:
		return goalOffsetKcal
	default:
		return 0
	}
}

// CalculateTargets never rejects input: zero or negative values produce a
// defined, possibly meaningless, result.
func CalculateTargets(p models.UserProfile, goal models.GoalType) models.Targets {
	kcal := TDEE(p) + GoalOffset(goal)
	k := float64(kcal)
	return models.Targets{
		Kcal:     kcal,
		ProteinG: int(Round(k * proteinShare / kcalPerGramProtein)),
		CarbsG:   int(Round(k * carbsShare / kcalPerGramCarbs)),
		FatG:     int(Round(k * fatShare / kcalPerGramFat)),
	}
}

// Round rounds half toward positive infinity, so Round(-2.5) == -2.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return Round(x*10) / 10
}
