package models

// Gender влияет на константу формулы Mifflin-St Jeor
type Gender string

const (
	GenderMale      Gender = "Male"
	GenderFemale    Gender = "Female"
	GenderNonBinary Gender = "Non-Binary"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderNonBinary}

func (g Gender) Valid() bool {
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}

// ActivityLevel - пять упорядоченных уровней активности
type ActivityLevel string

const (
	ActivitySedentary   ActivityLevel = "Sedentary"
	ActivityLight       ActivityLevel = "Lightly Active"
	ActivityModerate    ActivityLevel = "Moderately Active"
	ActivityVery        ActivityLevel = "Very Active"
	ActivityExtraActive ActivityLevel = "Elite Athlete"
)

// ActivityLevels в порядке возрастания нагрузки
var ActivityLevels = []ActivityLevel{
	ActivitySedentary,
	ActivityLight,
	ActivityModerate,
	ActivityVery,
	ActivityExtraActive,
}

func (a ActivityLevel) Valid() bool {
	return a.Tier() >= 0
}

// Tier возвращает порядковый номер уровня или -1
func (a ActivityLevel) Tier() int {
	for i, v := range ActivityLevels {
		if a == v {
			return i
		}
	}
	return -1
}

// GoalType задаёт смещение калорий
type GoalType string

const (
	GoalWeightLoss  GoalType = "Weight Loss"
	GoalWeightGain  GoalType = "Weight Gain"
	GoalMaintenance GoalType = "Maintenance"
)

var Goals = []GoalType{GoalWeightLoss, GoalWeightGain, GoalMaintenance}

func (g GoalType) Valid() bool {
	for _, v := range Goals {
		if g == v {
			return true
		}
	}
	return false
}

// WeightLogEntry - одна запись на календарную дату
type WeightLogEntry struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weightKg"`
	BMI      float64 `json:"bmi"`
}

type UserProfile struct {
	Age                 int              `json:"age"`
	WeightKg            float64          `json:"weightKg"`
	HeightCm            float64          `json:"heightCm"`
	Gender              Gender           `json:"gender"`
	ActivityLevel       ActivityLevel    `json:"activityLevel"`
	HealthGoals         []string         `json:"healthGoals"`
	WeightHistory       []WeightLogEntry `json:"weightHistory"`
	HydrationGoalOunces *float64         `json:"hydrationGoalOunces,omitempty"`
}

// HydrationGoal возвращает цель гидратации или 0, если она не задана
func (p UserProfile) HydrationGoal() float64 {
	if p.HydrationGoalOunces == nil {
		return 0
	}
	return *p.HydrationGoalOunces
}

// MacroStats - калории и макронутриенты в граммах
type MacroStats struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Targets вычисляются из профиля и цели, в снимок не сохраняются
type Targets struct {
	Kcal     int `json:"kcal"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}
