package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/database"
	"github.com/besufkad2328-dev/SEED/internal/gateway"
	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/repository"
	"github.com/besufkad2328-dev/SEED/internal/store"
	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"github.com/stretchr/testify/require"
)

const testKey = "seed_state:tg:42"

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type stubGateway struct {
	analysis models.MealAnalysis
	items    []models.ShoppingItem
	err      error
	calls    int
	lastReq  gateway.MealAnalysisRequest
}

func (g *stubGateway) AnalyzeMeal(_ context.Context, req gateway.MealAnalysisRequest) (*models.MealAnalysis, error) {
	g.calls++
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	a := g.analysis
	return &a, nil
}

func (g *stubGateway) GenerateShoppingList(context.Context, []models.MealPlanEntry, []models.PantryItem) ([]models.ShoppingItem, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.items, nil
}

type stubImages struct {
	url     string
	err     error
	assets  int
	subject string
	evening bool
}

func (s *stubImages) GenerateMealImage(context.Context, string) (string, error) {
	return s.url, s.err
}

func (s *stubImages) GenerateAsset(_ context.Context, subject string, evening bool) (string, error) {
	s.assets++
	s.subject = subject
	s.evening = evening
	return s.url, s.err
}

type stubMedia struct {
	url    string
	err    error
	prefix string
}

func (m *stubMedia) StoreDataURL(_ context.Context, _ string, prefix string) (string, error) {
	m.prefix = prefix
	return m.url, m.err
}

type event struct {
	Key     string
	Name    string
	Payload any
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) Publish(key, name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{key, name, payload})
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

type fixture struct {
	clock     *clock
	store     *store.Store
	users     repository.UserRepository
	gw        *stubGateway
	notify    *recorder
	profile   *ProfileService
	nutrition *NutritionService
	progress  *ProgressService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c := &clock{now: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)}
	st := store.New(repository.NewSQLiteStateRepo(db),
		store.WithClock(c.Now),
		store.WithLocation(time.UTC),
		store.WithLogger(utils.NewNopLogger()),
	)

	f := &fixture{
		clock:  c,
		store:  st,
		users:  repository.NewSQLiteUserRepo(db),
		gw:     &stubGateway{analysis: sampleAnalysis()},
		notify: &recorder{},
	}
	f.profile = NewProfileService(st, f.notify)
	f.nutrition = NewNutritionService(st, f.gw, nil, nil, f.notify)
	f.nutrition.log = utils.NewNopLogger()
	f.progress = NewProgressService(st, f.notify)
	return f
}

func sampleAnalysis() models.MealAnalysis {
	return models.MealAnalysis{
		MealName:        "Salmon Bowl",
		Stats:           models.MacroStats{Kcal: 620, Protein: 42, Carbs: 55, Fat: 24},
		SustenanceScore: 88,
		GoalAlignment:   92,
		Insight:         models.Insight{Theme: models.ThemeSuccess},
	}
}

var errBoom = errors.New("boom")
