package bot

import (
	"fmt"
	"math"
	"strings"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/service"
)

const barWidth = 10

// progressBar рисует долю 0..1 из десяти ячеек
func progressBar(ratio float64) string {
	filled := int(math.Round(math.Max(0, math.Min(ratio, 1)) * barWidth))
	return strings.Repeat("▰", filled) + strings.Repeat("▱", barWidth-filled)
}

func formatAnalysis(a *models.MealAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽 *%s*\n", a.MealName)
	fmt.Fprintf(&b, "🔥 %.0f kcal · P %.0fg · C %.0fg · F %.0fg\n\n",
		a.Stats.Kcal, a.Stats.Protein, a.Stats.Carbs, a.Stats.Fat)
	fmt.Fprintf(&b, "🌱 Sustenance: %.0f/100\n", a.SustenanceScore)
	fmt.Fprintf(&b, "🎯 Goal alignment: %.0f%%\n", a.GoalAlignment)

	flex := a.MetabolicFlexibility
	fmt.Fprintf(&b, "⚡ Stability: %.0f/10. %s\n", flex.StabilityRating, flex.Forecast)
	if flex.ProactiveProtocol != "" {
		fmt.Fprintf(&b, "🧪 Protocol: %s\n", flex.ProactiveProtocol)
	}
	if a.EliteAdjustment.Add != "" || a.EliteAdjustment.Reduce != "" {
		fmt.Fprintf(&b, "➕ %s  ➖ %s\n", a.EliteAdjustment.Add, a.EliteAdjustment.Reduce)
	}
	if a.CorrelationAnalysis != "" {
		fmt.Fprintf(&b, "🔗 %s\n", a.CorrelationAnalysis)
	}

	rx := a.MetabolicPrescription
	fmt.Fprintf(&b, "\n📋 *Prescription*: %.0f kcal, %s\n", rx.DailyKcalTarget, rx.MealFrequency)
	if rx.BMIDirective != "" {
		fmt.Fprintf(&b, "%s\n", rx.BMIDirective)
	}
	if len(rx.FocusAreas) > 0 {
		fmt.Fprintf(&b, "Focus: %s\n", strings.Join(rx.FocusAreas, ", "))
	}
	if a.ResourceRecipe.Name != "" {
		fmt.Fprintf(&b, "\n🥣 *From your pantry*: %s\n%s\n", a.ResourceRecipe.Name, a.ResourceRecipe.Description)
	}
	if a.Insight.Quote != "" {
		fmt.Fprintf(&b, "\n_%s_", a.Insight.Quote)
	}
	return b.String()
}

func formatDashboard(d *service.Dashboard) string {
	var b strings.Builder
	mode := "☀️"
	if d.Evening {
		mode = "🌙"
	}
	fmt.Fprintf(&b, "%s *%s* · %s\n\n", mode, d.UserName, d.Goal)
	fmt.Fprintf(&b, "🔥 %.0f / %d kcal\n%s %.0f%%\n\n", d.Intake.Kcal, d.Targets.Kcal, progressBar(d.Progress), d.Progress*100)
	fmt.Fprintf(&b, "P %.0f/%dg (%.0f%%) · C %.0f/%dg (%.0f%%) · F %.0f/%dg (%.0f%%)\n",
		d.Intake.Protein, d.Targets.ProteinG, d.MacroPercent.Protein,
		d.Intake.Carbs, d.Targets.CarbsG, d.MacroPercent.Carbs,
		d.Intake.Fat, d.Targets.FatG, d.MacroPercent.Fat)
	fmt.Fprintf(&b, "🌱 Sustenance avg: %d · 🎯 Consistency: %d%%\n", d.AverageSustenance, d.Consistency)
	fmt.Fprintf(&b, "💧 %.0f / %.0f oz (%.0f%%) · %.1f oz/h\n", d.Hydration.TotalOunces, d.Hydration.GoalOunces, d.Hydration.Percent, d.Hydration.Velocity)
	fmt.Fprintf(&b, "⚖️ BMI %.1f (%s)", d.BMI, d.BMICategory)
	if d.WeightTrend != nil {
		fmt.Fprintf(&b, " · trend %+.1f kg", *d.WeightTrend)
	}
	fmt.Fprintf(&b, "\n📈 Pulse: %s\n", formatPulse(d.Pulse))

	if d.Projection != "" {
		fmt.Fprintf(&b, "\n🔮 *%d mo*: %s\n", d.ProjectionMonths, d.Projection)
	}
	fmt.Fprintf(&b, "\n_%s_", d.Quote)
	return b.String()
}

func formatPulse(pulse []float64) string {
	parts := make([]string, 0, len(pulse))
	for _, v := range pulse {
		parts = append(parts, fmt.Sprintf("%.0f", v))
	}
	return strings.Join(parts, " ")
}

func formatHydration(s *service.HydrationSummary) string {
	return fmt.Sprintf("💧 %.0f / %.0f oz\n%s %.0f%%\nVelocity: %.1f oz/h",
		s.TotalOunces, s.GoalOunces, progressBar(s.Percent/100), s.Percent, s.Velocity)
}

func formatProfile(st *models.AppState, t models.Targets) string {
	p := st.UserProfile
	var b strings.Builder
	fmt.Fprintf(&b, "🗄 *Vault* · %s\n\n", st.UserName)
	fmt.Fprintf(&b, "Age: %d\nWeight: %.1f kg\nHeight: %.0f cm\nGender: %s\nActivity: %s\n", p.Age, p.WeightKg, p.HeightCm, p.Gender, p.ActivityLevel)
	fmt.Fprintf(&b, "Goal: %s\nHydration goal: %.0f oz\n", st.Goal, p.HydrationGoal())
	if len(p.HealthGoals) > 0 {
		fmt.Fprintf(&b, "Health goals: %s\n", strings.Join(p.HealthGoals, ", "))
	}
	perf := "off"
	if st.IsPerformanceMode {
		perf = "on"
	}
	fmt.Fprintf(&b, "Performance mode: %s\n\n", perf)
	fmt.Fprintf(&b, "🎯 Targets: %d kcal · P %dg · C %dg · F %dg", t.Kcal, t.ProteinG, t.CarbsG, t.FatG)
	return b.String()
}

func formatPantry(items []models.PantryItem) string {
	if len(items) == 0 {
		return "🥫 Pantry is empty"
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, "• "+it.Name)
	}
	return "🥫 *Pantry*\n\n" + strings.Join(names, "\n")
}

func formatDay(day models.Weekday, meals []models.MealPlanEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 *%s*\n", day)
	if len(meals) == 0 {
		b.WriteString("\nNothing planned yet")
		return b.String()
	}
	for _, m := range meals {
		fmt.Fprintf(&b, "\n*%s*: %s", m.MealType, m.MealName)
		if len(m.Ingredients) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(m.Ingredients, ", "))
		}
	}
	return b.String()
}

func formatShopping(items []models.ShoppingItem) string {
	if len(items) == 0 {
		return "🛒 Shopping list is empty"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 *Shopping list* · %d missing\n", service.MissingCount(items))
	for _, g := range service.GroupShoppingList(items) {
		fmt.Fprintf(&b, "\n*%s*\n", g.Category)
		for _, it := range g.Items {
			mark := "⬜"
			if it.IsPurchased {
				mark = "✅"
			}
			fmt.Fprintf(&b, "%s %s\n", mark, it.Name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
