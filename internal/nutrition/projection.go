package nutrition

import (
	"fmt"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/models"
)

const MaxProjectionMonths = 6

// ClampMonths bounds the projection slider to [0, 6].
func ClampMonths(months int) int {
	if months < 0 {
		return 0
	}
	if months > MaxProjectionMonths {
		return MaxProjectionMonths
	}
	return months
}

// ProjectionDate is now plus thirty days per month.
func ProjectionDate(now time.Time, months int) time.Time {
	return now.AddDate(0, 0, ClampMonths(months)*30)
}

// Projection describes the expected outcome of keeping the current
// consistency for the given number of months. Zero months yields "".
func Projection(goal models.GoalType, history []models.MealAnalysis, months int, now time.Time) string {
	months = ClampMonths(months)
	if months == 0 {
		return ""
	}
	consistency := Consistency(history)
	date := ProjectionDate(now, months).Format("January 2006")
	m := float64(months)

	switch goal {
	case models.GoalWeightLoss:
		return fmt.Sprintf("At %d%% precision, your basal metabolic efficiency will optimize by %d%%. Expect a net reduction of %.1fkg by %s.",
			consistency, months*3, m*1.8, date)
	case models.GoalWeightGain:
		return fmt.Sprintf("Structural mass projection: +%.1fkg by %s. Your anabolic recovery window will shorten as mitochondrial density peaks.",
			m*1.2, date)
	default:
		return fmt.Sprintf("Biological homeostasis verified. Projected cognitive performance increase of %d%% due to sustained glucose stability by %s.",
			months*5, date)
	}
}

// IsEvening is true from 18:00 until 06:00.
func IsEvening(now time.Time) bool {
	h := now.Hour()
	return h >= 18 || h < 6
}

// DailyQuote depends only on the circadian mode.
func DailyQuote(now time.Time) string {
	if IsEvening(now) {
		return "Metabolic recovery initiated. Optimizing nocturnal cellular repair."
	}
	return "Precision fuel for peak performance. Your biological engine is primed."
}

// AccentColor shifts the dashboard accent once a projection is active.
func AccentColor(goal models.GoalType, months int, evening bool) string {
	base := "#A3FF00"
	if evening {
		base = "#D27D56"
	}
	if ClampMonths(months) == 0 {
		return base
	}
	switch goal {
	case models.GoalWeightGain:
		if evening {
			return "#F4A460"
		}
		return "#A3FF00"
	case models.GoalWeightLoss:
		if evening {
			return "#CD5C5C"
		}
		return "#4FB3B5"
	}
	return base
}
