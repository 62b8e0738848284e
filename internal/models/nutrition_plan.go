package models

// ==================== КЛАДОВАЯ ====================

// PantryItem - продукт в кладовой
type PantryItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ==================== НЕДЕЛЬНЫЙ ПЛАН ПИТАНИЯ ====================

// Weekday - день недели плана (Monday..Sunday)
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) Valid() bool {
	for _, v := range Weekdays {
		if d == v {
			return true
		}
	}
	return false
}

// MealType - прием пищи
type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

func (m MealType) Valid() bool {
	for _, v := range MealTypes {
		if m == v {
			return true
		}
	}
	return false
}

// MealPlanEntry - прием пищи в конкретный день
type MealPlanEntry struct {
	Day         Weekday  `json:"day"`
	MealType    MealType `json:"mealType"`
	MealName    string   `json:"mealName"`
	Ingredients []string `json:"ingredients"`
}

// ==================== СПИСОК ПОКУПОК ====================

// ShoppingItem - позиция списка покупок
type ShoppingItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	IsPurchased bool   `json:"isPurchased"`
}
