package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/besufkad2328-dev/SEED/internal/gateway"
	"github.com/besufkad2328-dev/SEED/internal/media"
	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/service"
	"github.com/besufkad2328-dev/SEED/pkg/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender - часть tgbotapi.BotAPI, которой пользуется бот
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// TokenIssuer выпускает токен доступа к HTTP API
type TokenIssuer interface {
	Issue(stateKey string) (string, error)
}

type callbackFunc func(ctx context.Context, c *tgbotapi.CallbackQuery, key, arg string)

// BotApp - основная структура бота
type BotApp struct {
	API    Sender
	Admins []int64

	userService      *service.UserService
	profileService   *service.ProfileService
	nutritionService *service.NutritionService
	progressService  *service.ProgressService
	tokens           TokenIssuer

	fsm       *ChatFSM
	callbacks map[string]callbackFunc
	log       *utils.Logger
	wg        sync.WaitGroup
}

// Конструктор бота; tokens может быть nil, тогда /token отключен
func NewBotApp(
	api Sender,
	userService *service.UserService,
	profileService *service.ProfileService,
	nutritionService *service.NutritionService,
	progressService *service.ProgressService,
	tokens TokenIssuer,
	adminIDs []int64,
) *BotApp {
	b := &BotApp{
		API:              api,
		Admins:           adminIDs,
		userService:      userService,
		profileService:   profileService,
		nutritionService: nutritionService,
		progressService:  progressService,
		tokens:           tokens,
		fsm:              NewChatFSM(),
		log:              utils.Log.Named("bot"),
	}
	b.registerCallbacks()
	return b
}

// Run обрабатывает обновления до отмены ctx и ждет фоновые запросы
func (b *BotApp) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	b.log.Info("🤖 Bot started")
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// Wait ждет завершения фоновых запросов к шлюзу
func (b *BotApp) Wait() {
	b.wg.Wait()
}

func (b *BotApp) async(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// BusyMessage - ответ, пока в чате выполняется предыдущий запрос к шлюзу
const BusyMessage = "⏳ Analysis in progress, please wait"

// gatewayCall выполняет fn в фоне, не больше одного запроса на чат.
// Остановка бота не прерывает начатый запрос: его ограничивает таймаут шлюза,
// а Run дожидается завершения.
func (b *BotApp) gatewayCall(ctx context.Context, chatID int64, fn func(ctx context.Context)) {
	if !b.fsm.TryBusy(chatID) {
		b.sendText(chatID, BusyMessage)
		return
	}
	_, _ = b.API.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))

	actx := context.WithoutCancel(ctx)
	b.async(func() {
		defer b.fsm.ClearBusy(chatID)
		fn(actx)
	})
}

func (b *BotApp) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := update.Message
	if _, err := b.authenticateUser(ctx, msg.From); err != nil {
		b.log.Error("User registration failed", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		b.sendText(msg.Chat.ID, "❌ Authorization failed")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleMessage(ctx, msg)
}

// Проверка админа
func (b *BotApp) isAdmin(userID int64) bool {
	for _, id := range b.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *BotApp) authenticateUser(ctx context.Context, from *tgbotapi.User) (*models.User, error) {
	return b.userService.EnsureTelegramUser(ctx, service.CreateUserDTO{
		TelegramID: from.ID,
		Username:   from.UserName,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
	})
}

// ==================== КОМАНДЫ ====================

const helpMsg = `📚 *SEED*

*Commands:*
/start - Home screen
/help - This help
/token - Personal API token
/reset - Wipe your data and start over

*Admin:*
/stats - Registered users
/user <telegram id> - User lookup

*In a session:*
🍽 Log meal - describe what you ate, or just type it
💧 +8/+16/+24 oz - log water
📊 Dashboard - targets, progress and the projection slider
🗄 Vault - profile, goal and targets
🧬 Bio-feedback - energy, bloating, skin and mood
🥫 Pantry, 📅 Planner, 🛒 Shopping - plan the week`

func (b *BotApp) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	key := service.StateKey(msg.From.ID)

	switch msg.Command() {
	case "start":
		b.fsm.SetView(chatID, ViewHome)
		b.showHome(chatID)
	case "help":
		b.sendText(chatID, helpMsg)
	case "token":
		b.sendToken(chatID, key)
	case "reset":
		if err := b.progressService.Reset(ctx, key); err != nil {
			b.replyError(chatID, err)
			return
		}
		b.fsm.SetView(chatID, ViewHome)
		b.sendText(chatID, "🧹 Your data was reset")
		b.showHome(chatID)
	case "stats":
		if !b.isAdmin(msg.From.ID) {
			b.sendText(chatID, "⛔ Not allowed")
			return
		}
		b.showStats(ctx, chatID)
	case "user":
		if !b.isAdmin(msg.From.ID) {
			b.sendText(chatID, "⛔ Not allowed")
			return
		}
		b.showUser(ctx, chatID, msg.CommandArguments())
	default:
		b.sendText(chatID, "Unknown command. Use /help")
	}
}

func (b *BotApp) sendToken(chatID int64, key string) {
	if b.tokens == nil {
		b.sendText(chatID, "API access is disabled")
		return
	}
	token, err := b.tokens.Issue(key)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendText(chatID, "🔑 Your API token:\n\n`"+token+"`\n\nSend it as `Authorization: Bearer <token>`")
}

// statsListLimit - сколько пользователей показывать в /stats
const statsListLimit = 20

func (b *BotApp) showStats(ctx context.Context, chatID int64) {
	n, err := b.userService.Count(ctx)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	users, err := b.userService.GetAllUsers(ctx)
	if err != nil {
		b.replyError(chatID, err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 Users: %d", n)
	for i, u := range users {
		if i == statsListLimit {
			fmt.Fprintf(&sb, "\n… and %d more", len(users)-statsListLimit)
			break
		}
		sb.WriteString("\n• " + userLabel(u))
	}
	b.sendText(chatID, sb.String())
}

func (b *BotApp) showUser(ctx context.Context, chatID int64, arg string) {
	telegramID, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		b.sendText(chatID, "Usage: /user <telegram id>")
		return
	}
	u, err := b.userService.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendText(chatID, fmt.Sprintf("👤 %s\nName: %s\nState: %s\nRole: %s\nJoined: %s",
		userLabel(u), strings.TrimSpace(u.FirstName+" "+u.LastName), u.StateKey, u.Role,
		u.CreatedAt.Format("2006-01-02")))
}

func userLabel(u *models.User) string {
	if u.Username != "" {
		return fmt.Sprintf("@%s (%d)", u.Username, u.TelegramID)
	}
	return strconv.FormatInt(u.TelegramID, 10)
}

// ==================== СООБЩЕНИЯ ====================

func isMenuButton(text string) bool {
	switch text {
	case btnLogMeal, btnDashboard, btnVault, btnBio, btnPantry, btnPlanner, btnShopping, btnHelp:
		return true
	}
	_, water := waterButtons[text]
	return water
}

func (b *BotApp) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	key := service.StateKey(msg.From.ID)
	text := strings.TrimSpace(msg.Text)
	state := b.fsm.GetState(chatID)

	if text == btnHome {
		b.fsm.SetView(chatID, ViewHome)
		b.showHome(chatID)
		return
	}

	if state.View == ViewHome {
		switch text {
		case btnBegin:
			b.fsm.SetView(chatID, ViewActive)
			b.showActive(ctx, chatID, key)
		case btnHelp:
			b.sendText(chatID, helpMsg)
		default:
			b.showHome(chatID)
		}
		return
	}

	if isMenuButton(text) {
		b.fsm.ClearStep(chatID)
		b.handleMenu(ctx, chatID, key, text)
		return
	}
	if state.Step != StepNone {
		b.handleInput(ctx, chatID, key, state, text)
		return
	}

	// свободный текст в активном режиме - описание приема пищи
	b.logMeal(ctx, chatID, key, text)
}

func (b *BotApp) handleMenu(ctx context.Context, chatID int64, key, text string) {
	if oz, ok := waterButtons[text]; ok {
		b.addWater(ctx, chatID, key, oz)
		return
	}

	switch text {
	case btnLogMeal:
		b.fsm.Await(chatID, StepMeal, nil)
		b.sendText(chatID, "🍽 Describe your meal")
	case btnDashboard:
		b.showDashboard(ctx, chatID, key)
	case btnVault:
		b.showVault(ctx, chatID, key)
	case btnBio:
		b.sendTextWithKeyboard(chatID, "🧬 Energy right now?", ratingKeyboard(bioFields[0]))
	case btnPantry:
		b.showPantry(ctx, chatID, key, 0)
	case btnPlanner:
		b.sendTextWithKeyboard(chatID, "📅 Pick a day", plannerKeyboard())
	case btnShopping:
		b.showShopping(ctx, chatID, key, 0)
	case btnHelp:
		b.sendText(chatID, helpMsg)
	}
}

// handleInput разбирает ответ на ожидаемый шаг. При неверном вводе шаг
// сохраняется, чтобы пользователь мог повторить.
func (b *BotApp) handleInput(ctx context.Context, chatID int64, key string, state ChatState, text string) {
	var err error
	switch state.Step {
	case StepMeal:
		b.fsm.ClearStep(chatID)
		b.logMeal(ctx, chatID, key, text)
		return
	case StepWeight, StepHeight, StepHydrationGoal:
		v, perr := parseNumber(text)
		if perr != nil {
			b.sendText(chatID, "⚠️ Send a number")
			return
		}
		switch state.Step {
		case StepWeight:
			_, err = b.profileService.SetWeight(ctx, key, v)
		case StepHeight:
			_, err = b.profileService.SetHeight(ctx, key, v)
		default:
			_, err = b.profileService.SetHydrationGoal(ctx, key, v)
		}
	case StepAge:
		age, perr := strconv.Atoi(text)
		if perr != nil {
			b.sendText(chatID, "⚠️ Send a whole number")
			return
		}
		_, err = b.profileService.SetAge(ctx, key, age)
	case StepHealthGoal:
		_, err = b.profileService.AddHealthGoal(ctx, key, text)
	case StepUserName:
		err = b.profileService.SetUserName(ctx, key, text)
	case StepPantryItem:
		if _, err = b.nutritionService.AddPantryItem(ctx, key, text); err == nil {
			b.fsm.ClearStep(chatID)
			b.showPantry(ctx, chatID, key, 0)
			return
		}
	case StepPlanMeal:
		name, ingredients := parsePlanMeal(text)
		day := models.Weekday(state.TempData["day"])
		_, err = b.nutritionService.AddMealPlanEntry(ctx, key, models.MealPlanEntry{
			Day:         day,
			MealType:    models.MealType(state.TempData["mealType"]),
			MealName:    name,
			Ingredients: ingredients,
		})
		if err == nil {
			b.fsm.ClearStep(chatID)
			b.showDay(ctx, chatID, key, day, 0)
			return
		}
	case StepBioNotes:
		b.finishBio(ctx, chatID, key, state, text)
		return
	}

	if err != nil {
		if service.IsValidation(err) {
			b.sendText(chatID, "⚠️ "+err.Error())
			return
		}
		b.fsm.ClearStep(chatID)
		b.replyError(chatID, err)
		return
	}
	b.fsm.ClearStep(chatID)
	b.showVault(ctx, chatID, key)
}

func parseNumber(text string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(text), ",", ".", 1), 64)
}

// parsePlanMeal: "Название: ингредиент, ингредиент"
func parsePlanMeal(text string) (string, []string) {
	name, rest, _ := strings.Cut(text, ":")
	var ingredients []string
	for _, in := range strings.Split(rest, ",") {
		if in = strings.TrimSpace(in); in != "" {
			ingredients = append(ingredients, in)
		}
	}
	return strings.TrimSpace(name), ingredients
}

// ==================== ЭКРАНЫ ====================

func (b *BotApp) showHome(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "🌱 *SEED*\n\nYour metabolic concierge. Begin a session when you are ready.")
	msg.ReplyMarkup = homeKeyboard()
	b.send(msg)
}

func (b *BotApp) showActive(ctx context.Context, chatID int64, key string) {
	d, err := b.progressService.Dashboard(ctx, key, 0)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("⚡ Session active\n\n_%s_", d.Quote))
	msg.ReplyMarkup = activeKeyboard()
	b.send(msg)

	// картинка сессии необязательна, ошибки генерации уже залогированы
	actx := context.WithoutCancel(ctx)
	b.async(func() {
		if url := b.nutritionService.SessionAsset(actx); url != "" {
			b.sendPhoto(chatID, url)
		}
	})
}

// showDashboard отправляет сводку со слайдером прогноза
func (b *BotApp) showDashboard(ctx context.Context, chatID int64, key string) {
	months := b.fsm.GetState(chatID).Months
	d, err := b.progressService.Dashboard(ctx, key, months)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendTextWithKeyboard(chatID, formatDashboard(d), projectionKeyboard(d.ProjectionMonths))
}

func (b *BotApp) addWater(ctx context.Context, chatID int64, key string, oz float64) {
	s, err := b.progressService.AddHydration(ctx, key, oz)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendText(chatID, formatHydration(s))
}

func (b *BotApp) logMeal(ctx context.Context, chatID int64, key, description string) {
	b.gatewayCall(ctx, chatID, func(ctx context.Context) {
		a, err := b.nutritionService.LogMeal(ctx, key, description)
		if err != nil {
			b.replyError(chatID, err)
			return
		}
		if a.VisualizationURL != "" {
			b.sendPhoto(chatID, a.VisualizationURL)
		}
		b.sendText(chatID, formatAnalysis(a))
	})
}

func (b *BotApp) sendPhoto(chatID int64, url string) {
	var file tgbotapi.RequestFileData = tgbotapi.FileURL(url)
	if strings.HasPrefix(url, "data:") {
		_, data, err := media.ParseDataURL(url)
		if err != nil {
			b.log.Warn("Bad inline image", zap.Error(err))
			return
		}
		file = tgbotapi.FileBytes{Name: "image.png", Bytes: data}
	}
	if _, err := b.API.Send(tgbotapi.NewPhoto(chatID, file)); err != nil {
		b.log.Warn("Send photo failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *BotApp) showVault(ctx context.Context, chatID int64, key string) {
	st, err := b.progressService.State(ctx, key)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	targets, err := b.progressService.Targets(ctx, key)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendTextWithKeyboard(chatID, formatProfile(st, targets), vaultKeyboard())
}

// showPantry редактирует сообщение messageID или отправляет новое при 0
func (b *BotApp) showPantry(ctx context.Context, chatID int64, key string, messageID int) {
	items, err := b.nutritionService.Pantry(ctx, key)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.render(chatID, messageID, formatPantry(items), pantryKeyboard(items))
}

func (b *BotApp) showDay(ctx context.Context, chatID int64, key string, day models.Weekday, messageID int) {
	meals, err := b.nutritionService.MealsForDay(ctx, key, day)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.render(chatID, messageID, formatDay(day, meals), dayKeyboard(day, meals))
}

func (b *BotApp) showShopping(ctx context.Context, chatID int64, key string, messageID int) {
	items, err := b.nutritionService.ShoppingList(ctx, key)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.render(chatID, messageID, formatShopping(items), shoppingKeyboard(items))
}

// ==================== ОТПРАВКА ====================

// replyError переводит ошибку сервиса в сообщение пользователю
func (b *BotApp) replyError(chatID int64, err error) {
	switch {
	case service.IsValidation(err):
		b.sendText(chatID, "⚠️ "+err.Error())
	case errors.Is(err, service.ErrNotFound):
		b.sendText(chatID, "⚠️ Not found")
	case errors.Is(err, gateway.ErrUpstream), errors.Is(err, gateway.ErrMalformedResponse):
		b.log.Warn("Gateway call failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendText(chatID, "⚠️ "+service.SyncFailedMessage)
	default:
		b.log.Error("Bot action failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendText(chatID, "❌ Something went wrong, try again later")
	}
}

// send пробует Markdown, при ошибке разбора отправляет простой текст
func (b *BotApp) send(msg tgbotapi.MessageConfig) {
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.API.Send(msg); err != nil {
		b.log.Debug("Markdown send failed, retrying as plain text", zap.Error(err))
		msg.ParseMode = ""
		if _, err := b.API.Send(msg); err != nil {
			b.log.Error("Send failed", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
		}
	}
}

// Отправка сообщений
func (b *BotApp) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *BotApp) sendTextWithKeyboard(chatID int64, text string, rows [][]tgbotapi.InlineKeyboardButton) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func (b *BotApp) editMessage(chatID int64, messageID int, text string, rows [][]tgbotapi.InlineKeyboardButton) {
	editMsg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if len(rows) > 0 {
		markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
		editMsg.ReplyMarkup = &markup
	}
	editMsg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.API.Send(editMsg); err != nil {
		editMsg.ParseMode = ""
		if _, err := b.API.Send(editMsg); err != nil {
			b.log.Debug("Edit failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
}

func (b *BotApp) render(chatID int64, messageID int, text string, rows [][]tgbotapi.InlineKeyboardButton) {
	if messageID == 0 {
		b.sendTextWithKeyboard(chatID, text, rows)
		return
	}
	b.editMessage(chatID, messageID, text, rows)
}

func (b *BotApp) answerCallback(callbackID string, text string) {
	_, _ = b.API.Request(tgbotapi.NewCallback(callbackID, text))
}

// ParseAdminIDs преобразует строку вида "123,456,789" в срез int64
func ParseAdminIDs(ids string) []int64 {
	var result []int64
	if ids == "" {
		return result
	}
	for _, s := range strings.Split(ids, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}
