package models

import "time"

// AppState - всё, что принадлежит одному пользователю
type AppState struct {
	UserName           string             `json:"userName"`
	Goal               GoalType           `json:"goal"`
	UserProfile        UserProfile        `json:"userProfile"`
	Pantry             []PantryItem       `json:"pantry"`
	History            []MealAnalysis     `json:"history"`
	BioFeedbackHistory []BioFeedbackEntry `json:"bioFeedbackHistory"`
	HydrationOunces    float64            `json:"hydrationOunces"`
	HydrationLog       []HydrationEntry   `json:"hydrationLog"`
	IsPerformanceMode  bool               `json:"isPerformanceMode"`
	PerformancePulse   []float64          `json:"performancePulse"`
	MealPlan           []MealPlanEntry    `json:"mealPlan"`
	ShoppingList       []ShoppingItem     `json:"shoppingList"`
}

// PersistedState - формат снимка в хранилище
type PersistedState struct {
	AppState
	LastUpdate time.Time `json:"lastUpdate"`
}
