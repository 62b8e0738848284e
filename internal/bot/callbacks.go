package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Поля самочувствия в порядке опроса
var bioFields = []string{"energy", "bloating", "skin", "mood"}

var bioPrompts = map[string]string{
	"energy":   "🧬 Energy right now?",
	"bloating": "🫧 Bloating?",
	"skin":     "✨ Skin clarity?",
	"mood":     "🙂 Mood?",
}

func (b *BotApp) registerCallbacks() {
	b.callbacks = map[string]callbackFunc{
		"noop":     func(context.Context, *tgbotapi.CallbackQuery, string, string) {},
		"proj":     b.onProjection,
		"vault":    b.onVault,
		"gender":   b.onGender,
		"activity": b.onActivity,
		"goal":     b.onGoal,
		"bio":      b.onBio,
		"pantry":   b.onPantry,
		"plan":     b.onPlan,
		"shop":     b.onShopping,
	}
}

// handleCallback: данные вида "<префикс>:<аргумент>"
func (b *BotApp) handleCallback(ctx context.Context, c *tgbotapi.CallbackQuery) {
	b.answerCallback(c.ID, "")
	if c.Message == nil || c.From == nil {
		return
	}

	prefix, arg, _ := strings.Cut(c.Data, ":")
	handler, ok := b.callbacks[prefix]
	if !ok {
		b.log.Warn("Unknown callback", zap.String("data", c.Data))
		return
	}
	handler(ctx, c, service.StateKey(c.From.ID), arg)
}

func (b *BotApp) onProjection(ctx context.Context, c *tgbotapi.CallbackQuery, key, arg string) {
	months, err := strconv.Atoi(arg)
	if err != nil {
		return
	}
	chatID := c.Message.Chat.ID
	b.fsm.Update(chatID, func(s *ChatState) { s.Months = months })

	d, err := b.progressService.Dashboard(ctx, key, months)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.editMessage(chatID, c.Message.MessageID, formatDashboard(d), projectionKeyboard(d.ProjectionMonths))
}

func (b *BotApp) onVault(ctx context.Context, c *tgbotapi.CallbackQuery, key, arg string) {
	chatID := c.Message.Chat.ID
	ask := func(step Step, prompt string) {
		b.fsm.Await(chatID, step, nil)
		b.sendText(chatID, prompt)
	}

	switch arg {
	case "weight":
		ask(StepWeight, "⚖️ Send your weight in kg")
	case "height":
		ask(StepHeight, "📏 Send your height in cm")
	case "age":
		ask(StepAge, "🎂 Send your age")
	case "hydration":
		ask(StepHydrationGoal, "💧 Send your daily hydration goal in oz")
	case "health":
		ask(StepHealthGoal, "🩺 Send a health goal, e.g. Gut health")
	case "name":
		ask(StepUserName, "✏️ How should SEED call you?")
	case "gender":
		b.sendTextWithKeyboard(chatID, "⚧ Gender", genderKeyboard())
	case "activity":
		b.sendTextWithKeyboard(chatID, "🏃 Activity level", activityKeyboard())
	case "goal":
		b.sendTextWithKeyboard(chatID, "🎯 Goal", goalKeyboard())
	case "perf":
		st, err := b.progressService.State(ctx, key)
		if err == nil {
			err = b.profileService.SetPerformanceMode(ctx, key, !st.IsPerformanceMode)
		}
		if err != nil {
			b.replyError(chatID, err)
			return
		}
		b.refreshVault(ctx, c, key)
	}
}

// refreshVault перерисовывает сообщение с профилем
func (b *BotApp) refreshVault(ctx context.Context, c *tgbotapi.CallbackQuery, key string) {
	st, err := b.progressService.State(ctx, key)
	if err != nil {
		b.replyError(c.Message.Chat.ID, err)
		return
	}
	targets, err := b.progressService.Targets(ctx, key)
	if err != nil {
		b.replyError(c.Message.Chat.ID, err)
		return
	}
	b.editMessage(c.Message.Chat.ID, c.Message.MessageID, formatProfile(st, targets), vaultKeyboard())
}

func choice[T any](options []T, arg string) (T, bool) {
	var zero T
	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 || i >= len(options) {
		return zero, false
	}
	return options[i], true
}

func (b *BotApp) onGender(ctx context.Context, c *tgbotapi.CallbackQuery, key, arg string) {
	g, ok := choice(models.Genders, arg)
	if !ok {
		return
	}
	if _, err := b.profileService.SetGender(ctx, key, g); err != nil {
		b.replyError(c.Message.Chat.ID, err)
		return
	}
	b.editMessage(c.Message.Chat.ID, c.Message.MessageID, "⚧ Gender: "+string(g), nil)
}

func (b *BotApp) onActivity(ctx context.Context, c *tgbotapi.CallbackQuery, key, arg string) {
	level, ok := choice(models.ActivityLevels, arg)
	if !ok {
		return
	}
	if _, err := b.profileService.SetActivityLevel(ctx, key, level); err != nil {
		b.replyError(c.Message.Chat.ID, err)
		return
	}
	b.editMessage(c.Message.Chat.ID, c.Message.MessageID, "🏃 Activity: "+string(level), nil)
}

func (b *BotApp) onGoal(ctx context.Context, c *tgbotapi.CallbackQuery, key, arg string) {
	goal, ok := choice(models.Goals, arg)
	if !ok {
		return
	}
	t, err := b.profileService.SetGoal(ctx, key, goal)
	if err != nil {
		b.replyError(c.Message.Chat.ID, err)
		return
	}
	b.editMessage(c.Message.Chat.ID, c.Message.MessageID,
		fmt.Sprintf("🎯 %s\n%d kcal · P %dg · C %dg · F %dg", goal, t.Kcal, t.ProteinG, t.CarbsG, t.FatG), nil)
}

// onBio собирает оценки по очереди, затем ждет заметку
func (b *BotApp) onBio(_ context.Context, c *tgbotapi.CallbackQuery, _, arg string) {
	field, value, ok := strings.Cut(arg, ":")
	if !ok {
		return
	}
	chatID := c.Message.Chat.ID
	b.fsm.Update(chatID, func(s *ChatState) {
		if s.TempData == nil {
			s.TempData = map[string]string{}
		}
		s.TempData[field] = value
	})

	for i, f := range bioFields {
		if f != field {
			continue
		}
		if i+1 < len(bioFields) {
			next := bioFields[i+1]
			b.editMessage(chatID, c.Message.MessageID, bioPrompts[next], ratingKeyboard(next))
			return
		}
	}

	state := b.fsm.GetState(chatID)
	b.fsm.Await(chatID, StepBioNotes, state.TempData)
	b.editMessage(chatID, c.Message.MessageID, "📝 Any notes? Send \"-\" to skip", nil)
}

func (b *BotApp) finishBio(ctx context.Context, chatID int64, key string, state ChatState, text string) {
	b.fsm.ClearStep(chatID)

	rating := func(field string) int {
		n, _ := strconv.Atoi(state.TempData[field])
		return n
	}
	notes := strings.TrimSpace(text)
	if notes == "-" {
		notes = ""
	}

	_, err := b.profileService.LogBioFeedback(ctx, key, service.BioFeedbackDTO{
		Energy:      rating("energy"),
		Bloating:    rating("bloating"),
		SkinClarity: rating("skin"),
		Mood:        rating("mood"),
		Notes:       notes,
	})
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendText(chatID, "🧬 Bio-feedback logged")
}

func (b *BotApp) onPantry(ctx context.Context, c *tgbotapi.CallbackQuery, key, arg string) {
	chatID := c.Message.Chat.ID
	if arg == "add" {
		b.fsm.Await(chatID, StepPantryItem, nil)
		b.sendText(chatID, "🥫 Send the item name")
		return
	}

	id, ok := strings.CutPrefix(arg, "rm:")
	if !ok {
		return
	}
	if err := b.nutritionService.RemovePantryItem(ctx, key, id); err != nil {
		b.replyError(chatID, err)
		return
	}
	b.showPantry(ctx, chatID, key, c.Message.MessageID)
}

func (b *BotApp) onPlan(ctx context.Context, c *tgbotapi.CallbackQuery, key, arg string) {
	chatID := c.Message.Chat.ID
	messageID := c.Message.MessageID
	action, rest, _ := strings.Cut(arg, ":")

	switch action {
	case "week":
		b.editMessage(chatID, messageID, "📅 Pick a day", plannerKeyboard())
	case "day":
		b.showDay(ctx, chatID, key, models.Weekday(rest), messageID)
	case "add":
		day, mealType, _ := strings.Cut(rest, ":")
		b.fsm.Await(chatID, StepPlanMeal, map[string]string{"day": day, "mealType": mealType})
		b.sendText(chatID, fmt.Sprintf("📅 %s %s\nSend it as `Name: ingredient, ingredient`", day, mealType))
	case "rm":
		day, mealType, _ := strings.Cut(rest, ":")
		err := b.nutritionService.RemoveMealPlanEntry(ctx, key, models.Weekday(day), models.MealType(mealType))
		if err != nil {
			b.replyError(chatID, err)
			return
		}
		b.showDay(ctx, chatID, key, models.Weekday(day), messageID)
	}
}

func (b *BotApp) onShopping(ctx context.Context, c *tgbotapi.CallbackQuery, key, arg string) {
	chatID := c.Message.Chat.ID
	messageID := c.Message.MessageID

	switch {
	case arg == "gen":
		b.gatewayCall(ctx, chatID, func(ctx context.Context) {
			if _, err := b.nutritionService.GenerateShoppingList(ctx, key); err != nil {
				b.replyError(chatID, err)
				return
			}
			b.showShopping(ctx, chatID, key, messageID)
		})
	case arg == "clear":
		if err := b.nutritionService.ClearShoppingList(ctx, key); err != nil {
			b.replyError(chatID, err)
			return
		}
		b.showShopping(ctx, chatID, key, messageID)
	case strings.HasPrefix(arg, "t:"):
		if _, err := b.nutritionService.ToggleShoppingItem(ctx, key, strings.TrimPrefix(arg, "t:")); err != nil {
			b.replyError(chatID, err)
			return
		}
		b.showShopping(ctx, chatID, key, messageID)
	}
}
