package bot

import (
	"fmt"
	"strconv"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/nutrition"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Кнопки reply-клавиатуры
const (
	btnBegin     = "▶️ Begin session"
	btnHelp      = "ℹ️ Help"
	btnLogMeal   = "🍽 Log meal"
	btnDashboard = "📊 Dashboard"
	btnWater8    = "💧 +8 oz"
	btnWater16   = "💧 +16 oz"
	btnWater24   = "💧 +24 oz"
	btnVault     = "🗄 Vault"
	btnBio       = "🧬 Bio-feedback"
	btnPantry    = "🥫 Pantry"
	btnPlanner   = "📅 Planner"
	btnShopping  = "🛒 Shopping"
	btnHome      = "🏠 Home"
)

var waterButtons = map[string]float64{
	btnWater8:  8,
	btnWater16: 16,
	btnWater24: 24,
}

func homeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBegin)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnHelp)),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func activeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnLogMeal),
			tgbotapi.NewKeyboardButton(btnDashboard),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnWater8),
			tgbotapi.NewKeyboardButton(btnWater16),
			tgbotapi.NewKeyboardButton(btnWater24),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnVault),
			tgbotapi.NewKeyboardButton(btnBio),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPantry),
			tgbotapi.NewKeyboardButton(btnPlanner),
			tgbotapi.NewKeyboardButton(btnShopping),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnHome)),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = false
	return keyboard
}

// projectionKeyboard - слайдер прогноза 0..6 месяцев
func projectionKeyboard(months int) [][]tgbotapi.InlineKeyboardButton {
	months = nutrition.ClampMonths(months)
	row := []tgbotapi.InlineKeyboardButton{}
	if months > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️", fmt.Sprintf("proj:%d", months-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🔮 %d mo", months), "noop"))
	if months < nutrition.MaxProjectionMonths {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("▶️", fmt.Sprintf("proj:%d", months+1)))
	}
	return [][]tgbotapi.InlineKeyboardButton{row}
}

func vaultKeyboard() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚖️ Weight", "vault:weight"),
			tgbotapi.NewInlineKeyboardButtonData("📏 Height", "vault:height"),
			tgbotapi.NewInlineKeyboardButtonData("🎂 Age", "vault:age"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚧ Gender", "vault:gender"),
			tgbotapi.NewInlineKeyboardButtonData("🏃 Activity", "vault:activity"),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Goal", "vault:goal"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💧 Hydration goal", "vault:hydration"),
			tgbotapi.NewInlineKeyboardButtonData("🩺 Health goal", "vault:health"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Name", "vault:name"),
			tgbotapi.NewInlineKeyboardButtonData("⚡ Performance mode", "vault:perf"),
		),
	}
}

func genderKeyboard() [][]tgbotapi.InlineKeyboardButton {
	row := []tgbotapi.InlineKeyboardButton{}
	for i, g := range models.Genders {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(g), "gender:"+strconv.Itoa(i)))
	}
	return [][]tgbotapi.InlineKeyboardButton{row}
}

func activityKeyboard() [][]tgbotapi.InlineKeyboardButton {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i, a := range models.ActivityLevels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(string(a), "activity:"+strconv.Itoa(i)),
		))
	}
	return rows
}

func goalKeyboard() [][]tgbotapi.InlineKeyboardButton {
	row := []tgbotapi.InlineKeyboardButton{}
	for i, g := range models.Goals {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(g), "goal:"+strconv.Itoa(i)))
	}
	return [][]tgbotapi.InlineKeyboardButton{row}
}

// ratingKeyboard - оценка 1..10 для поля самочувствия
func ratingKeyboard(field string) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 2)
	for n := 1; n <= 10; n++ {
		btn := tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(n), fmt.Sprintf("bio:%s:%d", field, n))
		rows[(n-1)/5] = append(rows[(n-1)/5], btn)
	}
	return rows
}

func pantryKeyboard(items []models.PantryItem) [][]tgbotapi.InlineKeyboardButton {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, it := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ "+it.Name, "pantry:rm:"+it.ID),
		))
	}
	return append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Add item", "pantry:add"),
	))
}

func plannerKeyboard() [][]tgbotapi.InlineKeyboardButton {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, d := range models.Weekdays {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(d)[:3], "plan:day:"+string(d)))
		if len(row) == 4 {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func dayKeyboard(day models.Weekday, meals []models.MealPlanEntry) [][]tgbotapi.InlineKeyboardButton {
	planned := map[models.MealType]bool{}
	for _, m := range meals {
		planned[m.MealType] = true
	}
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, mt := range models.MealTypes {
		if planned[mt] {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("❌ "+string(mt), fmt.Sprintf("plan:rm:%s:%s", day, mt)),
			))
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+string(mt), fmt.Sprintf("plan:add:%s:%s", day, mt)),
		))
	}
	return append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Week", "plan:week"),
	))
}

func shoppingKeyboard(items []models.ShoppingItem) [][]tgbotapi.InlineKeyboardButton {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, it := range items {
		mark := "⬜ "
		if it.IsPurchased {
			mark = "✅ "
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+it.Name, "shop:t:"+it.ID),
		))
	}
	return append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 Generate", "shop:gen"),
		tgbotapi.NewInlineKeyboardButtonData("🗑 Clear", "shop:clear"),
	))
}
