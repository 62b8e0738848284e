package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes регистрирует публичный /health и защищенную группу /api/v1
func SetupRoutes(r *gin.Engine, h *Handlers, tokens *TokenIssuer) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(AuthMiddleware(tokens))
	{
		// Состояние и сводка
		v1.GET("/state", h.GetState)
		v1.DELETE("/state", h.ResetState)
		v1.GET("/dashboard", h.GetDashboard)
		v1.GET("/targets", h.GetTargets)
		v1.PUT("/goal", h.SetGoal)

		// Профиль
		v1.GET("/profile", h.GetProfile)
		v1.PATCH("/profile", h.PatchProfile)
		v1.POST("/profile/health-goals", h.AddHealthGoal)
		v1.DELETE("/profile/health-goals/:goal", h.RemoveHealthGoal)
		v1.POST("/bio-feedback", h.LogBioFeedback)

		// Питание и вода
		v1.GET("/meals", h.ListMeals)
		v1.POST("/meals", h.LogMeal)
		v1.GET("/hydration", h.GetHydration)
		v1.POST("/hydration", h.AddHydration)

		// Кладовая и план
		v1.GET("/pantry", h.ListPantry)
		v1.POST("/pantry", h.AddPantryItem)
		v1.DELETE("/pantry/:id", h.RemovePantryItem)
		v1.GET("/meal-plan", h.GetMealPlan)
		v1.PUT("/meal-plan", h.PutMealPlanEntry)
		v1.DELETE("/meal-plan/:day/:mealType", h.RemoveMealPlanEntry)

		// Покупки
		v1.GET("/shopping-list", h.GetShoppingList)
		v1.POST("/shopping-list/generate", h.GenerateShoppingList)
		v1.POST("/shopping-list/:id/toggle", h.ToggleShoppingItem)
		v1.DELETE("/shopping-list", h.ClearShoppingList)

		v1.GET("/ws", h.Realtime)
	}
}

// NewRouter - gin без стандартного логгера, запросы пишутся в zap
func NewRouter(h *Handlers, tokens *TokenIssuer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.log))
	SetupRoutes(r, h, tokens)
	return r
}
