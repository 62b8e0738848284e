package gateway

import (
	"fmt"
	"strings"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/nutrition"
)

const shoppingInstruction = `You are SEED, an elite culinary strategist.
Compare the requested Meal Plan against the user's current Pantry.
Identify exactly what ingredients are missing to complete the planned meals.
Group items by category (e.g., Produce, Protein, Grains).
Exclude staples the user already has.
OUTPUT ONLY JSON.`

func pantryNames(pantry []models.PantryItem) string {
	names := make([]string, 0, len(pantry))
	for _, p := range pantry {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

func recentMeals(history []models.MealAnalysis) string {
	parts := make([]string, 0, RecentContextSize)
	for i, m := range history {
		if i == RecentContextSize {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%gkcal)", m.MealName, m.Stats.Kcal))
	}
	return strings.Join(parts, ", ")
}

func recentSymptoms(feedback []models.BioFeedbackEntry) string {
	parts := make([]string, 0, RecentContextSize)
	for i, f := range feedback {
		if i == RecentContextSize {
			break
		}
		parts = append(parts, fmt.Sprintf("Energy: %d, Bloating: %d, Notes: %s", f.Energy, f.Bloating, f.Notes))
	}
	return strings.Join(parts, "; ")
}

func orNone(s string) string {
	if s == "" {
		return "None logged"
	}
	return s
}

func analysisInstruction(req MealAnalysisRequest) string {
	bmi := nutrition.BMI(req.Profile.WeightKg, req.Profile.HeightCm)

	var b strings.Builder
	b.WriteString(`You are "SEED," a luxury nutrition concierge and elite metabolic scientist.
Your persona: Professional, minimalist, and analytical.

TASKS:
1. Analyze meal calories and macros.
2. Calculate a "Sustenance Score" (0-100) based on whole/plant-based vs processed.
3. Calculate "Metabolic Flexibility": Predict how this specific meal affects tomorrow's energy.
4. CORRELATE: Compare this meal with RECENT SYMPTOMS and MEALS.
   - Identify potential sensitivities (e.g., "Dairy seems linked to bloating 2h after intake").
   - Mention these findings in 'correlationAnalysis'.
5. Provide a "Metabolic Prescription".
6. Suggest a meal from [AVAILABLE_RESOURCES].

USER CONTEXT:
`)
	fmt.Fprintf(&b, "- BMI: %.1f (%s)\n", bmi, nutrition.BMICategory(bmi))
	fmt.Fprintf(&b, "- Goal: %s\n", req.Goal)
	fmt.Fprintf(&b, "- Daily Targets: %d kcal, %dg protein, %dg carbs, %dg fat\n",
		req.Targets.Kcal, req.Targets.ProteinG, req.Targets.CarbsG, req.Targets.FatG)
	fmt.Fprintf(&b, "- Recent Symptoms: %s\n", orNone(recentSymptoms(req.BioFeedback)))
	fmt.Fprintf(&b, "- Recent Meals: %s\n", orNone(recentMeals(req.History)))
	fmt.Fprintf(&b, "- Available Resources: %s\n", pantryNames(req.Pantry))
	b.WriteString("\nSTRICT JSON OUTPUT FORMAT REQUIRED.")
	return b.String()
}

func analysisPrompt(description string) string {
	return "Analyze this intake: " + description
}

func shoppingPrompt(plan []models.MealPlanEntry, pantry []models.PantryItem) string {
	meals := make([]string, 0, len(plan))
	for _, m := range plan {
		meals = append(meals, fmt.Sprintf("%s: %s", m.MealName, strings.Join(m.Ingredients, ", ")))
	}
	return fmt.Sprintf("Pantry: %s. Meal Plan: %s. Generate shopping list.", pantryNames(pantry), strings.Join(meals, "; "))
}

func mealImagePrompt(mealName string) string {
	return fmt.Sprintf("High-end minimalist professional food photography of %s. Neutral stone background, dramatic soft side-lighting, organic textures, elite culinary aesthetic. No humans, just the raw ingredients or plated dish.", mealName)
}

func assetPrompt(subject string, evening bool) string {
	lighting := "Bright clean studio lighting, soft shadows, isolated on a pure white background"
	if evening {
		lighting = "Dramatic low-key lighting, deep shadows, isolated on a pure black background"
	}
	return fmt.Sprintf("Hyper-realistic minimalist professional food photography of %s. %s. Macro focus, 8k resolution, organic textures, luxury aesthetic. No humans.", subject, lighting)
}

// Response schemas in the generateContent OpenAPI subset.

func str() *schema    { return &schema{Type: "STRING"} }
func number() *schema { return &schema{Type: "NUMBER"} }

func object(required []string, props map[string]*schema) *schema {
	return &schema{Type: "OBJECT", Properties: props, Required: required}
}

func analysisSchema() *schema {
	return object(
		[]string{"mealName", "stats", "sustenanceScore", "goalAlignment", "metabolicFlexibility",
			"eliteAdjustment", "metabolicPrescription", "resourceRecipe", "insight"},
		map[string]*schema{
			"mealName": str(),
			"stats": object([]string{"kcal", "protein", "carbs", "fat"}, map[string]*schema{
				"kcal": number(), "protein": number(), "carbs": number(), "fat": number(),
			}),
			"sustenanceScore": number(),
			"goalAlignment":   number(),
			"correlationAnalysis": {
				Type:        "STRING",
				Description: "Correlate meal ingredients with symptoms history.",
			},
			"metabolicFlexibility": object([]string{"stabilityRating", "forecast", "proactiveProtocol"}, map[string]*schema{
				"stabilityRating": number(), "forecast": str(), "proactiveProtocol": str(),
			}),
			"eliteAdjustment": object(nil, map[string]*schema{
				"add": str(), "reduce": str(),
			}),
			"metabolicPrescription": object([]string{"dailyKcalTarget", "mealFrequency", "bmiDirective", "focusAreas"}, map[string]*schema{
				"dailyKcalTarget": number(),
				"mealFrequency":   str(),
				"bmiDirective":    str(),
				"focusAreas":      {Type: "ARRAY", Items: str()},
			}),
			"resourceRecipe": object(nil, map[string]*schema{
				"name": str(), "description": str(), "reasoning": str(),
			}),
			"insight": object(nil, map[string]*schema{
				"performanceNote": str(),
				"quote":           str(),
				"theme": {
					Type: "STRING",
					Enum: []string{string(models.ThemeSuccess), string(models.ThemeFocus), string(models.ThemeAlert)},
				},
			}),
		},
	)
}

func shoppingSchema() *schema {
	return &schema{
		Type: "ARRAY",
		Items: object([]string{"id", "name", "category", "isPurchased"}, map[string]*schema{
			"id":          str(),
			"name":        str(),
			"category":    str(),
			"isPurchased": {Type: "BOOLEAN"},
		}),
	}
}
