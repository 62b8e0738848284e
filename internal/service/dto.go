package service

import (
	"time"

	"github.com/besufkad2328-dev/SEED/internal/models"
)

// User DTOs
type CreateUserDTO struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

// ProfilePatch - частичное обновление профиля, nil поля не меняются
type ProfilePatch struct {
	UserName            *string               `json:"userName"`
	Age                 *int                  `json:"age"`
	WeightKg            *float64              `json:"weightKg"`
	HeightCm            *float64              `json:"heightCm"`
	Gender              *models.Gender        `json:"gender"`
	ActivityLevel       *models.ActivityLevel `json:"activityLevel"`
	HydrationGoalOunces *float64              `json:"hydrationGoalOunces"`
	IsPerformanceMode   *bool                 `json:"isPerformanceMode"`
}

// BioFeedbackDTO - оценки самочувствия 1..10
type BioFeedbackDTO struct {
	Energy      int    `json:"energy"`
	Bloating    int    `json:"bloating"`
	SkinClarity int    `json:"skinClarity"`
	Mood        int    `json:"mood"`
	Notes       string `json:"notes"`
}

// HydrationSummary - сводка гидратации за текущие сутки
type HydrationSummary struct {
	TotalOunces float64                 `json:"totalOunces"`
	GoalOunces  float64                 `json:"goalOunces"`
	Percent     float64                 `json:"percent"`
	Velocity    float64                 `json:"velocityOzPerHour"`
	LastEntryAt *time.Time              `json:"lastEntryAt,omitempty"`
	Entries     []models.HydrationEntry `json:"entries"`
}

type MacroPercent struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Dashboard - все производные показатели для одного экрана
type Dashboard struct {
	UserName          string               `json:"userName"`
	Goal              models.GoalType      `json:"goal"`
	Targets           models.Targets       `json:"targets"`
	Intake            models.MacroStats    `json:"intake"`
	Progress          float64              `json:"progress"`
	VisualDensity     float64              `json:"visualDensity"`
	MacroPercent      MacroPercent         `json:"macroPercent"`
	AverageSustenance int                  `json:"averageSustenance"`
	Consistency       int                  `json:"consistency"`
	MealsLogged       int                  `json:"mealsLogged"`
	LatestMeal        *models.MealAnalysis `json:"latestMeal,omitempty"`
	Hydration         HydrationSummary     `json:"hydration"`
	Pulse             []float64            `json:"pulse"`
	BMI               float64              `json:"bmi"`
	BMICategory       string               `json:"bmiCategory"`
	WeightTrend       *float64             `json:"weightTrend,omitempty"`
	ProjectionMonths  int                  `json:"projectionMonths"`
	Projection        string               `json:"projection,omitempty"`
	ProjectionDate    *time.Time           `json:"projectionDate,omitempty"`
	Evening           bool                 `json:"evening"`
	Quote             string               `json:"quote"`
	AccentColor       string               `json:"accentColor"`
	PerformanceMode   bool                 `json:"isPerformanceMode"`
}

// ShoppingGroup - позиции одной категории в порядке появления
type ShoppingGroup struct {
	Category string                `json:"category"`
	Items    []models.ShoppingItem `json:"items"`
}
