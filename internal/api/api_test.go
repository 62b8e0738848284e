package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/database"
	"github.com/besufkad2328-dev/SEED/internal/gateway"
	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/realtime"
	"github.com/besufkad2328-dev/SEED/internal/repository"
	"github.com/besufkad2328-dev/SEED/internal/service"
	"github.com/besufkad2328-dev/SEED/internal/store"
	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "seed_state:tg:7"

var testNow = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

type fakeGateway struct {
	err   error
	items []models.ShoppingItem
}

func (g *fakeGateway) AnalyzeMeal(_ context.Context, req gateway.MealAnalysisRequest) (*models.MealAnalysis, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &models.MealAnalysis{
		MealName:        "Analyzed: " + req.Description,
		Stats:           models.MacroStats{Kcal: 500, Protein: 30, Carbs: 50, Fat: 15},
		SustenanceScore: 80,
		GoalAlignment:   75,
	}, nil
}

func (g *fakeGateway) GenerateShoppingList(context.Context, []models.MealPlanEntry, []models.PantryItem) ([]models.ShoppingItem, error) {
	return g.items, g.err
}

type testServer struct {
	router *gin.Engine
	tokens *TokenIssuer
	gw     *fakeGateway
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(repository.NewSQLiteStateRepo(db),
		store.WithClock(func() time.Time { return testNow }),
		store.WithLocation(time.UTC),
		store.WithLogger(utils.NewNopLogger()),
	)
	hub := realtime.NewHub()
	gw := &fakeGateway{}

	h := NewHandlers(
		service.NewProfileService(st, hub),
		service.NewNutritionService(st, gw, nil, nil, hub),
		service.NewProgressService(st, hub),
		hub,
	)
	h.log = utils.NewNopLogger()

	tokens := NewTokenIssuer("test-secret", time.Hour)
	tokens.now = func() time.Time { return testNow }
	token, err := tokens.Issue(testKey)
	require.NoError(t, err)

	return &testServer{router: NewRouter(h, tokens), tokens: tokens, gw: gw, token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)

	s.token = ""
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/state", nil).Code)

	s.token = "garbage"
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/state", nil).Code)

	other := NewTokenIssuer("other-secret", time.Hour)
	other.now = s.tokens.now
	s.token, _ = other.Issue(testKey)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/state", nil).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/targets", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenIssuer(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	tokens.now = func() time.Time { return testNow }

	raw, err := tokens.Issue("seed_state:tg:1")
	require.NoError(t, err)
	key, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "seed_state:tg:1", key)

	tokens.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStateAndTargets(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[models.AppState](t, w)
	assert.Equal(t, "Elite Member", st.UserName)
	assert.Len(t, st.PerformancePulse, 7)

	w = s.do(t, http.MethodGet, "/api/v1/targets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"kcal":2697,"protein_g":202,"carbs_g":270,"fat_g":90}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/v1/goal", gin.H{"goal": "Weight Gain"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3197, decode[models.Targets](t, w).Kcal)

	w = s.do(t, http.MethodPut, "/api/v1/goal", gin.H{"goal": "Shred"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogMealEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/meals", gin.H{"description": "ok"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/meals", gin.H{"description": "lentil soup"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Analyzed: lentil soup", decode[models.MealAnalysis](t, w).MealName)

	s.gw.err = gateway.ErrUpstream
	w = s.do(t, http.MethodPost, "/api/v1/meals", gin.H{"description": "lentil soup"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"`+service.SyncFailedMessage+`"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/meals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.MealAnalysis](t, w), 1)
}

func TestHydrationAndDashboard(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/hydration", gin.H{"amount": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/hydration", gin.H{"amount": 16})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 16.0, decode[service.HydrationSummary](t, w).TotalOunces)

	w = s.do(t, http.MethodGet, "/api/v1/dashboard?months=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[service.Dashboard](t, w)
	assert.Equal(t, 2, d.ProjectionMonths)
	assert.Equal(t, 12.5, d.Hydration.Percent)
	assert.NotEmpty(t, d.Projection)

	w = s.do(t, http.MethodGet, "/api/v1/dashboard?months=soon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPatch, "/api/v1/profile", gin.H{"weightKg": 82, "gender": "Female"})
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[models.UserProfile](t, w)
	assert.Equal(t, 82.0, p.WeightKg)
	assert.Equal(t, models.GenderFemale, p.Gender)

	w = s.do(t, http.MethodPatch, "/api/v1/profile", gin.H{"age": 300})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/profile/health-goals", gin.H{"goal": "Better Sleep"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/api/v1/profile/health-goals/Better%20Sleep", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode[models.UserProfile](t, w).HealthGoals, "Better Sleep")

	w = s.do(t, http.MethodPost, "/api/v1/bio-feedback", gin.H{"energy": 8, "bloating": 2, "skinClarity": 7, "mood": 9})
	assert.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/bio-feedback", gin.H{"energy": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanningEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/shopping-list/generate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/meal-plan", gin.H{
		"day": "Monday", "mealType": "Dinner", "mealName": "Salmon", "ingredients": []string{"salmon"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/meal-plan?day=Monday", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.MealPlanEntry](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/v1/meal-plan?day=Someday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.gw.items = []models.ShoppingItem{{ID: "s1", Name: "Salmon", Category: "Protein"}}
	w = s.do(t, http.MethodPost, "/api/v1/shopping-list/generate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/shopping-list/s1/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/shopping-list/nope/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/shopping-list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items   []models.ShoppingItem   `json:"items"`
		Groups  []service.ShoppingGroup `json:"groups"`
		Missing int                     `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Items, 1)
	assert.Len(t, list.Groups, 1)
	assert.Zero(t, list.Missing)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/shopping-list", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/meal-plan/Monday/Dinner", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/v1/meal-plan/Monday/Dinner", nil).Code)

	w = s.do(t, http.MethodPost, "/api/v1/pantry", gin.H{"name": "Kefir"})
	require.Equal(t, http.StatusCreated, w.Code)
	item := decode[models.PantryItem](t, w)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/pantry/"+item.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/v1/pantry/"+item.ID, nil).Code)
}

func TestResetState(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, "/api/v1/profile", gin.H{"userName": "Ada"}).Code)
	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/state", nil).Code)

	st := decode[models.AppState](t, s.do(t, http.MethodGet, "/api/v1/state", nil))
	assert.Equal(t, "Elite Member", st.UserName)
}
