package nutrition

import (
	"math"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/models"
)

const (
	// MaxHydrationEntries caps the visible log; the running total is not capped.
	MaxHydrationEntries = 20
	VelocityWindow      = 3 * time.Hour
)

// AddHydration prepends the entry, truncates the log and returns the new
// running total. The input slice is not modified.
func AddHydration(log []models.HydrationEntry, total float64, e models.HydrationEntry) ([]models.HydrationEntry, float64) {
	n := len(log) + 1
	if n > MaxHydrationEntries {
		n = MaxHydrationEntries
	}
	out := make([]models.HydrationEntry, 0, n)
	out = append(out, e)
	for _, prev := range log {
		if len(out) == n {
			break
		}
		out = append(out, prev)
	}
	return out, total + e.Amount
}

// Velocity is the ounces per hour logged in the trailing three hours,
// rounded to one decimal.
func Velocity(log []models.HydrationEntry, now time.Time) float64 {
	if len(log) == 0 {
		return 0
	}
	cutoff := now.Add(-VelocityWindow)
	var sum float64
	for _, e := range log {
		if e.Timestamp.After(cutoff) {
			sum += e.Amount
		}
	}
	return Round1(sum / VelocityWindow.Hours())
}

// HydrationPercent is progress toward the goal, capped at 100.
func HydrationPercent(total, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(total/goal*100, 100)
}

// SameDay compares calendar days in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// ShouldResetDaily reports whether the daily hydration counters must be
// zeroed. A zero lastUpdate always resets.
func ShouldResetDaily(lastUpdate, now time.Time, loc *time.Location) bool {
	if lastUpdate.IsZero() {
		return true
	}
	return !SameDay(lastUpdate, now, loc)
}

// ResetDaily zeroes hydration counters when the calendar day has changed.
func ResetDaily(st *models.AppState, lastUpdate, now time.Time, loc *time.Location) bool {
	if !ShouldResetDaily(lastUpdate, now, loc) {
		return false
	}
	st.HydrationOunces = 0
	st.HydrationLog = []models.HydrationEntry{}
	return true
}
