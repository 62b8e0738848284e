package nutrition

import (
	"math"

	"github.com/besufkad2328-dev/SEED/internal/models"
)

const (
	densityFloor       = 0.1
	densityScale       = 0.2
	densityBaseCap     = 0.4
	densityCap         = 0.7
	defaultConsistency = 85
)

// TotalIntake sums the stats of every logged meal.
func TotalIntake(history []models.MealAnalysis) models.MacroStats {
	var total models.MacroStats
	for _, m := range history {
		total.Kcal += m.Stats.Kcal
		total.Protein += m.Stats.Protein
		total.Carbs += m.Stats.Carbs
		total.Fat += m.Stats.Fat
	}
	return total
}

func ratio(current, target float64) float64 {
	if target == 0 {
		return 0
	}
	return current / target
}

// Progress is totalKcal/targetKcal clamped to [0, 1]; a zero target gives 0.
func Progress(totalKcal, targetKcal float64) float64 {
	return math.Max(0, math.Min(ratio(totalKcal, targetKcal), 1))
}

// VisualDensity drives the decorative overlay opacity.
func VisualDensity(totalKcal, targetKcal float64, months int) float64 {
	base := math.Min(densityFloor+ratio(totalKcal, targetKcal)*densityScale, densityBaseCap)
	return math.Min(base+float64(months)/12, densityCap)
}

// MacroPercent is consumption as a share of target, capped at 100.
func MacroPercent(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(current/target*100, 100)
}

// AverageSustenance is the rounded mean sustenance score, 0 for no meals.
func AverageSustenance(history []models.MealAnalysis) int {
	if len(history) == 0 {
		return 0
	}
	var sum float64
	for _, m := range history {
		sum += m.SustenanceScore
	}
	return int(Round(sum / float64(len(history))))
}

// Consistency is the rounded mean goal alignment, 85 for no meals.
func Consistency(history []models.MealAnalysis) int {
	if len(history) == 0 {
		return defaultConsistency
	}
	var sum float64
	for _, m := range history {
		sum += m.GoalAlignment
	}
	return int(Round(sum / float64(len(history))))
}
