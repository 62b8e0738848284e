package models

import "time"

// Theme - акцентный цвет инсайта
type Theme string

const (
	ThemeSuccess Theme = "#86A789"
	ThemeFocus   Theme = "#D2B48C"
	ThemeAlert   Theme = "#E2725B"
)

type EliteAdjustment struct {
	Add    string `json:"add"`
	Reduce string `json:"reduce"`
}

type MetabolicFlexibility struct {
	StabilityRating   float64 `json:"stabilityRating"`
	Forecast          string  `json:"forecast"`
	ProactiveProtocol string  `json:"proactiveProtocol"`
}

type MetabolicPrescription struct {
	DailyKcalTarget float64  `json:"dailyKcalTarget"`
	MealFrequency   string   `json:"mealFrequency"`
	BMIDirective    string   `json:"bmiDirective"`
	FocusAreas      []string `json:"focusAreas"`
}

type ResourceRecipe struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Reasoning   string `json:"reasoning"`
}

type Insight struct {
	PerformanceNote string `json:"performanceNote"`
	Quote           string `json:"quote"`
	Theme           Theme  `json:"theme"`
}

// MealAnalysis - неизменяемая запись истории питания
type MealAnalysis struct {
	MealName              string                `json:"mealName"`
	VisualizationURL      string                `json:"visualizationUrl,omitempty"`
	Stats                 MacroStats            `json:"stats"`
	SustenanceScore       float64               `json:"sustenanceScore"`
	GoalAlignment         float64               `json:"goalAlignment"`
	EliteAdjustment       EliteAdjustment       `json:"eliteAdjustment"`
	MetabolicFlexibility  MetabolicFlexibility  `json:"metabolicFlexibility"`
	MetabolicPrescription MetabolicPrescription `json:"metabolicPrescription"`
	ResourceRecipe        ResourceRecipe        `json:"resourceRecipe"`
	CorrelationAnalysis   string                `json:"correlationAnalysis,omitempty"`
	Insight               Insight               `json:"insight"`
	AnalyzedAt            time.Time             `json:"analyzedAt"`
}
