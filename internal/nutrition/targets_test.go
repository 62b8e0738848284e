package nutrition

import (
	"math"
	"testing"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/stretchr/testify/assert"
)

func referenceProfile() models.UserProfile {
	return models.UserProfile{
		Age:           28,
		WeightKg:      75,
		HeightCm:      180,
		Gender:        models.GenderMale,
		ActivityLevel: models.ActivityModerate,
	}
}

func TestCalculateTargets_ReferenceProfile(t *testing.T) {
	p := referenceProfile()

	assert.Equal(t, 1740.0, BMR(p))
	assert.Equal(t, 2697, TDEE(p))

	got := CalculateTargets(p, models.GoalMaintenance)
	assert.Equal(t, models.Targets{Kcal: 2697, ProteinG: 202, CarbsG: 270, FatG: 90}, got)
}

func TestCalculateTargets_Female(t *testing.T) {
	p := models.UserProfile{
		Age:           30,
		WeightKg:      60,
		HeightCm:      165,
		Gender:        models.GenderFemale,
		ActivityLevel: models.ActivitySedentary,
	}

	assert.Equal(t, 1320.25, BMR(p))
	got := CalculateTargets(p, models.GoalWeightLoss)
	assert.Equal(t, models.Targets{Kcal: 1084, ProteinG: 81, CarbsG: 108, FatG: 36}, got)
}

func TestBMR_GenderConstants(t *testing.T) {
	p := referenceProfile()
	male := BMR(p)

	p.Gender = models.GenderFemale
	assert.Equal(t, male-166, BMR(p))

	p.Gender = models.GenderNonBinary
	assert.Equal(t, male-83, BMR(p))

	p.Gender = ""
	assert.Equal(t, male-83, BMR(p))
}

func TestActivityMultiplier_UnknownFallsBackToSedentary(t *testing.T) {
	assert.Equal(t, 1.2, ActivityMultiplier("Couch Potato"))
	assert.Equal(t, 1.9, ActivityMultiplier(models.ActivityExtraActive))
}

func TestCalculateTargets_Deterministic(t *testing.T) {
	p := referenceProfile()
	for _, g := range models.Goals {
		assert.Equal(t, CalculateTargets(p, g), CalculateTargets(p, g))
	}
}

func TestCalculateTargets_MonotonicInActivity(t *testing.T) {
	p := referenceProfile()
	prev := math.MinInt
	for _, level := range models.ActivityLevels {
		p.ActivityLevel = level
		kcal := CalculateTargets(p, models.GoalMaintenance).Kcal
		assert.GreaterOrEqual(t, kcal, prev, "level %s", level)
		prev = kcal
	}
}

func TestCalculateTargets_GoalOffsets(t *testing.T) {
	p := referenceProfile()
	base := CalculateTargets(p, models.GoalMaintenance).Kcal

	assert.Equal(t, base-500, CalculateTargets(p, models.GoalWeightLoss).Kcal)
	assert.Equal(t, base+500, CalculateTargets(p, models.GoalWeightGain).Kcal)
}

func TestCalculateTargets_MacroKcalCloseToTarget(t *testing.T) {
	p := referenceProfile()
	for w := 40.0; w <= 150; w += 3.5 {
		p.WeightKg = w
		for _, g := range models.Goals {
			got := CalculateTargets(p, g)
			fromMacros := got.ProteinG*4 + got.CarbsG*4 + got.FatG*9
			// half a gram of rounding per macro
			assert.LessOrEqual(t, math.Abs(float64(fromMacros-got.Kcal)), 8.5, "weight %.1f goal %s", w, g)
		}
	}

	got := CalculateTargets(referenceProfile(), models.GoalMaintenance)
	assert.InDelta(t, got.Kcal, got.ProteinG*4+got.CarbsG*4+got.FatG*9, 3)
}

func TestCalculateTargets_DegenerateInputDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		got := CalculateTargets(models.UserProfile{}, models.GoalWeightLoss)
		assert.Equal(t, -594, got.Kcal)
	})
	assert.NotPanics(t, func() {
		CalculateTargets(models.UserProfile{Age: -5, WeightKg: -10, HeightCm: -1}, "unknown")
	})
}

func TestRound_HalfTowardPositiveInfinity(t *testing.T) {
	assert.Equal(t, 3.0, Round(2.5))
	assert.Equal(t, -2.0, Round(-2.5))
	assert.Equal(t, 0.1, Round1(0.05))
}
