package nutrition

import (
	"time"

	"github.com/besufkad2328-dev/SEED/internal/models"
)

// DateLayout is the weight history date format.
const DateLayout = "2006-01-02"

// BMI in kg/m² rounded to one decimal; 0 without a usable height.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return Round1(weightKg / (m * m))
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Healthy weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obesity"
	}
}

// UpsertWeight replaces the entry with the same date or appends a new one.
// The input slice is not modified.
func UpsertWeight(history []models.WeightLogEntry, e models.WeightLogEntry) []models.WeightLogEntry {
	out := make([]models.WeightLogEntry, len(history), len(history)+1)
	copy(out, history)
	for i := range out {
		if out[i].Date == e.Date {
			out[i] = e
			return out
		}
	}
	return append(out, e)
}

// DedupeWeightHistory keeps one entry per date, the later one winning, in
// first-seen order.
func DedupeWeightHistory(history []models.WeightLogEntry) []models.WeightLogEntry {
	out := make([]models.WeightLogEntry, 0, len(history))
	for _, e := range history {
		out = UpsertWeight(out, e)
	}
	return out
}

// WeightEntryFor builds today's entry in loc.
func WeightEntryFor(p models.UserProfile, now time.Time, loc *time.Location) models.WeightLogEntry {
	if loc == nil {
		loc = time.Local
	}
	return models.WeightLogEntry{
		Date:     now.In(loc).Format(DateLayout),
		WeightKg: p.WeightKg,
		BMI:      BMI(p.WeightKg, p.HeightCm),
	}
}

// WeightTrend is the difference between the last two entries.
func WeightTrend(history []models.WeightLogEntry) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}
	last := history[len(history)-1]
	prev := history[len(history)-2]
	return Round1(last.WeightKg - prev.WeightKg), true
}
