package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/besufkad2328-dev/SEED/internal/gateway"
	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/realtime"
	"github.com/besufkad2328-dev/SEED/internal/service"
	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers содержит зависимости от сервисов
type Handlers struct {
	profile   *service.ProfileService
	nutrition *service.NutritionService
	progress  *service.ProgressService
	hub       *realtime.Hub
	log       *utils.Logger
}

func NewHandlers(profile *service.ProfileService, nutrition *service.NutritionService, progress *service.ProgressService, hub *realtime.Hub) *Handlers {
	return &Handlers{
		profile:   profile,
		nutrition: nutrition,
		progress:  progress,
		hub:       hub,
		log:       utils.Log.Named("api"),
	}
}

// respondError переводит ошибки сервисов в HTTP-статусы
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, gateway.ErrUpstream), errors.Is(err, gateway.ErrMalformedResponse):
		h.log.Warn("Gateway call failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": service.SyncFailedMessage})
	default:
		h.log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// ==================== СОСТОЯНИЕ ====================

func (h *Handlers) GetState(c *gin.Context) {
	st, err := h.progress.State(c.Request.Context(), stateKey(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handlers) ResetState(c *gin.Context) {
	if err := h.progress.Reset(c.Request.Context(), stateKey(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) GetDashboard(c *gin.Context) {
	months := 0
	if raw := c.Query("months"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "months must be an integer"})
			return
		}
		months = m
	}
	d, err := h.progress.Dashboard(c.Request.Context(), stateKey(c), months)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handlers) GetTargets(c *gin.Context) {
	t, err := h.progress.Targets(c.Request.Context(), stateKey(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handlers) SetGoal(c *gin.Context) {
	var body struct {
		Goal models.GoalType `json:"goal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.profile.SetGoal(c.Request.Context(), stateKey(c), body.Goal)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ==================== ПРОФИЛЬ ====================

func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.profile.GetProfile(c.Request.Context(), stateKey(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) PatchProfile(c *gin.Context) {
	var patch service.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	st, err := h.profile.ApplyPatch(c.Request.Context(), stateKey(c), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st.UserProfile)
}

func (h *Handlers) AddHealthGoal(c *gin.Context) {
	var body struct {
		Goal string `json:"goal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.profile.AddHealthGoal(c.Request.Context(), stateKey(c), body.Goal)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) RemoveHealthGoal(c *gin.Context) {
	p, err := h.profile.RemoveHealthGoal(c.Request.Context(), stateKey(c), c.Param("goal"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) LogBioFeedback(c *gin.Context) {
	var body service.BioFeedbackDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.profile.LogBioFeedback(c.Request.Context(), stateKey(c), body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ==================== ПИТАНИЕ ====================

func (h *Handlers) ListMeals(c *gin.Context) {
	history, err := h.nutrition.History(c.Request.Context(), stateKey(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handlers) LogMeal(c *gin.Context) {
	var body struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.nutrition.LogMeal(c.Request.Context(), stateKey(c), body.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handlers) GetHydration(c *gin.Context) {
	s, err := h.progress.Hydration(c.Request.Context(), stateKey(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handlers) AddHydration(c *gin.Context) {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.progress.AddHydration(c.Request.Context(), stateKey(c), body.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// ==================== КЛАДОВАЯ И ПЛАН ====================

func (h *Handlers) ListPantry(c *gin.Context) {
	p, err := h.nutrition.Pantry(c.Request.Context(), stateKey(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) AddPantryItem(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.nutrition.AddPantryItem(c.Request.Context(), stateKey(c), body.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handlers) RemovePantryItem(c *gin.Context) {
	if err := h.nutrition.RemovePantryItem(c.Request.Context(), stateKey(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) GetMealPlan(c *gin.Context) {
	ctx := c.Request.Context()
	if day := c.Query("day"); day != "" {
		meals, err := h.nutrition.MealsForDay(ctx, stateKey(c), models.Weekday(day))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, meals)
		return
	}
	plan, err := h.nutrition.MealPlan(ctx, stateKey(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handlers) PutMealPlanEntry(c *gin.Context) {
	var entry models.MealPlanEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := h.nutrition.AddMealPlanEntry(c.Request.Context(), stateKey(c), entry)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handlers) RemoveMealPlanEntry(c *gin.Context) {
	err := h.nutrition.RemoveMealPlanEntry(c.Request.Context(), stateKey(c),
		models.Weekday(c.Param("day")), models.MealType(c.Param("mealType")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ==================== ПОКУПКИ ====================

func shoppingResponse(items []models.ShoppingItem) gin.H {
	return gin.H{
		"items":   items,
		"groups":  service.GroupShoppingList(items),
		"missing": service.MissingCount(items),
	}
}

func (h *Handlers) GetShoppingList(c *gin.Context) {
	items, err := h.nutrition.ShoppingList(c.Request.Context(), stateKey(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shoppingResponse(items))
}

func (h *Handlers) GenerateShoppingList(c *gin.Context) {
	items, err := h.nutrition.GenerateShoppingList(c.Request.Context(), stateKey(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shoppingResponse(items))
}

func (h *Handlers) ToggleShoppingItem(c *gin.Context) {
	item, err := h.nutrition.ToggleShoppingItem(c.Request.Context(), stateKey(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handlers) ClearShoppingList(c *gin.Context) {
	if err := h.nutrition.ClearShoppingList(c.Request.Context(), stateKey(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Realtime держит websocket до отключения клиента
func (h *Handlers) Realtime(c *gin.Context) {
	h.hub.Serve(c.Writer, c.Request, stateKey(c))
}
