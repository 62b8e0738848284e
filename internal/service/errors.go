package service

import "errors"

// SyncFailedMessage показывается пользователю при любой ошибке шлюза
const SyncFailedMessage = "Metabolic sync failed. SEED is recalibrating..."

// Ошибки валидации возвращаются до любого сетевого вызова
var (
	ErrDescriptionTooShort = errors.New("description must be at least 3 characters")
	ErrInvalidAmount       = errors.New("amount must be a positive number")
	ErrInvalidProfile      = errors.New("invalid profile value")
	ErrInvalidGoal         = errors.New("invalid goal")
	ErrInvalidRating       = errors.New("ratings must be between 1 and 10")
	ErrEmptyName           = errors.New("name must not be empty")
	ErrEmptyMealPlan       = errors.New("meal plan is empty")
	ErrNotFound            = errors.New("not found")
	ErrInvalidDay          = errors.New("invalid day")
	ErrInvalidMealType     = errors.New("invalid meal type")
)

// IsValidation сообщает, вызвана ли ошибка неверным вводом
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrDescriptionTooShort, ErrInvalidAmount, ErrInvalidProfile, ErrInvalidGoal,
		ErrInvalidRating, ErrEmptyName, ErrEmptyMealPlan, ErrInvalidDay, ErrInvalidMealType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
