// Package gateway wraps the generative model used for meal analysis,
// shopping list generation and meal imagery.
package gateway

import (
	"context"
	"errors"

	"github.com/besufkad2328-dev/SEED/internal/models"
)

var (
	// ErrUpstream covers transport failures and non-200 replies.
	ErrUpstream = errors.New("ai gateway: upstream failure")
	// ErrMalformedResponse means the reply could not be decoded or lacks
	// required fields.
	ErrMalformedResponse = errors.New("ai gateway: malformed response")
	// ErrNoImage means the model answered without inline image data.
	ErrNoImage = errors.New("ai gateway: no image in response")
)

// RecentContextSize bounds the meals and symptoms sent as context.
const RecentContextSize = 5

// MealAnalysisRequest carries everything the model sees for one meal.
// History and BioFeedback are newest first.
type MealAnalysisRequest struct {
	Description string
	Goal        models.GoalType
	Targets     models.Targets
	Pantry      []models.PantryItem
	Profile     models.UserProfile
	History     []models.MealAnalysis
	BioFeedback []models.BioFeedbackEntry
}

type Gateway interface {
	AnalyzeMeal(ctx context.Context, req MealAnalysisRequest) (*models.MealAnalysis, error)
	GenerateShoppingList(ctx context.Context, plan []models.MealPlanEntry, pantry []models.PantryItem) ([]models.ShoppingItem, error)
}

// ImageGenerator returns images as data URLs. Callers treat failures as
// non-fatal.
type ImageGenerator interface {
	GenerateMealImage(ctx context.Context, mealName string) (string, error)
	GenerateAsset(ctx context.Context, subject string, evening bool) (string, error)
}
