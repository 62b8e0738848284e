package store

import (
	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/nutrition"
)

// DefaultKey - ключ единственного пользователя
const DefaultKey = "seed_state"

const (
	defaultUserName      = "Elite Member"
	defaultHydrationGoal = 128
)

// DefaultProfile возвращает новый профиль по умолчанию
func DefaultProfile() models.UserProfile {
	goal := float64(defaultHydrationGoal)
	return models.UserProfile{
		Age:           28,
		WeightKg:      75,
		HeightCm:      180,
		Gender:        models.GenderMale,
		ActivityLevel: models.ActivityModerate,
		HealthGoals:   []string{"Metabolic Stability", "Peak Cognitive Function"},
		WeightHistory: []models.WeightLogEntry{
			{Date: "2023-10-01", WeightKg: 76.5, BMI: 23.6},
			{Date: "2023-10-15", WeightKg: 75.8, BMI: 23.4},
			{Date: "2023-10-29", WeightKg: 75.0, BMI: 23.1},
		},
		HydrationGoalOunces: &goal,
	}
}

// DefaultPantry - базовые продукты
func DefaultPantry() []models.PantryItem {
	return []models.PantryItem{
		{ID: "1", Name: "Chicken Breast"},
		{ID: "2", Name: "Avocado"},
		{ID: "3", Name: "Greek Yogurt"},
		{ID: "4", Name: "Oats"},
		{ID: "5", Name: "Spinach"},
		{ID: "6", Name: "Olive Oil"},
		{ID: "7", Name: "Brown Rice"},
	}
}

// DefaultState - каждый вызов возвращает независимую копию
func DefaultState() *models.AppState {
	return &models.AppState{
		UserName:           defaultUserName,
		Goal:               models.GoalMaintenance,
		UserProfile:        DefaultProfile(),
		Pantry:             DefaultPantry(),
		History:            []models.MealAnalysis{},
		BioFeedbackHistory: []models.BioFeedbackEntry{},
		HydrationOunces:    0,
		HydrationLog:       []models.HydrationEntry{},
		IsPerformanceMode:  false,
		PerformancePulse:   nutrition.DefaultPulse(),
		MealPlan:           []models.MealPlanEntry{},
		ShoppingList:       []models.ShoppingItem{},
	}
}
