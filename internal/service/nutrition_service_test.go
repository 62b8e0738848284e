package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/gateway"
	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMeal_RejectsShortDescription(t *testing.T) {
	f := newFixture(t)

	for _, d := range []string{"", "ab", "   a   ", "яб"} {
		_, err := f.nutrition.LogMeal(context.Background(), testKey, d)
		assert.ErrorIs(t, err, ErrDescriptionTooShort, d)
	}
	assert.Zero(t, f.gw.calls)
	assert.Empty(t, f.notify.names())
}

func TestLogMeal_PrependsHistoryAndPushesPulse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.nutrition.LogMeal(ctx, testKey, "  oats with berries ")
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now(), first.AnalyzedAt)
	assert.Equal(t, "oats with berries", f.gw.lastReq.Description)
	assert.Equal(t, models.Targets{Kcal: 2697, ProteinG: 202, CarbsG: 270, FatG: 90}, f.gw.lastReq.Targets)

	f.gw.analysis.MealName = "Steak"
	f.gw.analysis.GoalAlignment = 40
	_, err = f.nutrition.LogMeal(ctx, testKey, "steak and fries")
	require.NoError(t, err)
	require.Len(t, f.gw.lastReq.History, 1)

	st, err := f.progress.State(ctx, testKey)
	require.NoError(t, err)
	require.Len(t, st.History, 2)
	assert.Equal(t, "Steak", st.History[0].MealName)
	assert.Equal(t, "Salmon Bowl", st.History[1].MealName)
	assert.Equal(t, []float64{60, 85, 80, 95, 90, 92, 40}, st.PerformancePulse)

	assert.Equal(t, []string{realtime.EventMealLogged, realtime.EventMealLogged}, f.notify.names())
}

func TestLogMeal_GatewayFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gw.err = fmt.Errorf("%w: status 503", gateway.ErrUpstream)

	_, err := f.nutrition.LogMeal(ctx, testKey, "grilled chicken")
	assert.ErrorIs(t, err, gateway.ErrUpstream)

	st, err := f.progress.State(ctx, testKey)
	require.NoError(t, err)
	assert.Empty(t, st.History)
	assert.Equal(t, []float64{50, 65, 60, 85, 80, 95, 90}, st.PerformancePulse)
	assert.Empty(t, f.notify.names())
}

func TestLogMeal_Images(t *testing.T) {
	ctx := context.Background()

	t.Run("generation failure is not fatal", func(t *testing.T) {
		f := newFixture(t)
		f.nutrition.images = &stubImages{err: gateway.ErrNoImage}

		a, err := f.nutrition.LogMeal(ctx, testKey, "tofu stir fry")
		require.NoError(t, err)
		assert.Empty(t, a.VisualizationURL)
	})

	t.Run("inline image without object storage", func(t *testing.T) {
		f := newFixture(t)
		f.nutrition.images = &stubImages{url: "data:image/png;base64,QUJD"}

		a, err := f.nutrition.LogMeal(ctx, testKey, "tofu stir fry")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,QUJD", a.VisualizationURL)
	})

	t.Run("uploaded image", func(t *testing.T) {
		f := newFixture(t)
		m := &stubMedia{url: "https://cdn.example.com/meals/x.png"}
		f.nutrition.images = &stubImages{url: "data:image/png;base64,QUJD"}
		f.nutrition.media = m

		a, err := f.nutrition.LogMeal(ctx, testKey, "tofu stir fry")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/meals/x.png", a.VisualizationURL)
		assert.Equal(t, "seed_state-tg-42", m.prefix)
	})

	t.Run("upload failure keeps inline image", func(t *testing.T) {
		f := newFixture(t)
		f.nutrition.images = &stubImages{url: "data:image/png;base64,QUJD"}
		f.nutrition.media = &stubMedia{err: errBoom}

		a, err := f.nutrition.LogMeal(ctx, testKey, "tofu stir fry")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,QUJD", a.VisualizationURL)
	})
}

func TestSessionAsset(t *testing.T) {
	ctx := context.Background()

	t.Run("no generator", func(t *testing.T) {
		f := newFixture(t)
		assert.Empty(t, f.nutrition.SessionAsset(ctx))
	})

	t.Run("cached per circadian mode", func(t *testing.T) {
		f := newFixture(t)
		img := &stubImages{url: "data:image/png;base64,QUJD"}
		f.nutrition.images = img

		assert.Equal(t, "data:image/png;base64,QUJD", f.nutrition.SessionAsset(ctx))
		assert.Equal(t, "halved Haas avocado with stone", img.subject)
		assert.False(t, img.evening)

		f.nutrition.SessionAsset(ctx)
		assert.Equal(t, 1, img.assets)

		f.clock.Advance(9 * time.Hour)
		f.nutrition.SessionAsset(ctx)
		assert.Equal(t, 2, img.assets)
		assert.True(t, img.evening)
	})

	t.Run("uploaded and failures not cached", func(t *testing.T) {
		f := newFixture(t)
		img := &stubImages{err: gateway.ErrNoImage}
		m := &stubMedia{url: "https://cdn.example.com/meals/asset-1.png"}
		f.nutrition.images = img
		f.nutrition.media = m

		assert.Empty(t, f.nutrition.SessionAsset(ctx))

		img.err = nil
		img.url = "data:image/png;base64,QUJD"
		assert.Equal(t, "https://cdn.example.com/meals/asset-1.png", f.nutrition.SessionAsset(ctx))
		assert.Equal(t, "asset", m.prefix)
		assert.Equal(t, 2, img.assets)
	})
}

func TestPantry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.nutrition.AddPantryItem(ctx, testKey, "  ")
	assert.ErrorIs(t, err, ErrEmptyName)

	item, err := f.nutrition.AddPantryItem(ctx, testKey, "Quinoa")
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	dup, err := f.nutrition.AddPantryItem(ctx, testKey, "quinoa")
	require.NoError(t, err)
	assert.Equal(t, item.ID, dup.ID)

	pantry, err := f.nutrition.Pantry(ctx, testKey)
	require.NoError(t, err)
	assert.Len(t, pantry, 8)

	require.NoError(t, f.nutrition.RemovePantryItem(ctx, testKey, item.ID))
	assert.ErrorIs(t, f.nutrition.RemovePantryItem(ctx, testKey, item.ID), ErrNotFound)

	pantry, err = f.nutrition.Pantry(ctx, testKey)
	require.NoError(t, err)
	assert.Len(t, pantry, 7)
}

func TestMealPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.nutrition.AddMealPlanEntry(ctx, testKey, models.MealPlanEntry{Day: "Funday", MealType: models.MealLunch, MealName: "x"})
	assert.ErrorIs(t, err, ErrInvalidDay)
	_, err = f.nutrition.AddMealPlanEntry(ctx, testKey, models.MealPlanEntry{Day: models.Monday, MealType: "Brunch", MealName: "x"})
	assert.ErrorIs(t, err, ErrInvalidMealType)
	_, err = f.nutrition.AddMealPlanEntry(ctx, testKey, models.MealPlanEntry{Day: models.Monday, MealType: models.MealLunch})
	assert.ErrorIs(t, err, ErrEmptyName)

	add := func(day models.Weekday, mt models.MealType, name string, ingredients ...string) {
		_, err := f.nutrition.AddMealPlanEntry(ctx, testKey, models.MealPlanEntry{
			Day: day, MealType: mt, MealName: name, Ingredients: ingredients,
		})
		require.NoError(t, err)
	}
	add(models.Monday, models.MealDinner, "Salmon", "salmon", " ", "lemon ")
	add(models.Monday, models.MealBreakfast, "Oats", "oats")
	add(models.Tuesday, models.MealLunch, "Bowl", "rice")
	add(models.Monday, models.MealDinner, "Cod", "cod")

	monday, err := f.nutrition.MealsForDay(ctx, testKey, models.Monday)
	require.NoError(t, err)
	require.Len(t, monday, 2)
	assert.Equal(t, "Oats", monday[0].MealName)
	assert.Equal(t, "Cod", monday[1].MealName)

	wed, err := f.nutrition.MealsForDay(ctx, testKey, models.Wednesday)
	require.NoError(t, err)
	assert.Empty(t, wed)

	require.NoError(t, f.nutrition.RemoveMealPlanEntry(ctx, testKey, models.Monday, models.MealDinner))
	assert.ErrorIs(t, f.nutrition.RemoveMealPlanEntry(ctx, testKey, models.Monday, models.MealDinner), ErrNotFound)

	plan, err := f.nutrition.MealPlan(ctx, testKey)
	require.NoError(t, err)
	assert.Len(t, plan, 2)
}

func TestMealsForDay_TrimsIngredients(t *testing.T) {
	f := newFixture(t)
	entry, err := f.nutrition.AddMealPlanEntry(context.Background(), testKey, models.MealPlanEntry{
		Day: models.Friday, MealType: models.MealSnack, MealName: " Nuts ", Ingredients: []string{" almonds", "", "walnuts "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Nuts", entry.MealName)
	assert.Equal(t, []string{"almonds", "walnuts"}, entry.Ingredients)
}

func TestShoppingList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.nutrition.GenerateShoppingList(ctx, testKey)
	assert.ErrorIs(t, err, ErrEmptyMealPlan)
	assert.Zero(t, f.gw.calls)

	_, err = f.nutrition.AddMealPlanEntry(ctx, testKey, models.MealPlanEntry{
		Day: models.Monday, MealType: models.MealDinner, MealName: "Salmon", Ingredients: []string{"salmon", "lemon"},
	})
	require.NoError(t, err)

	f.gw.items = []models.ShoppingItem{
		{ID: "1", Name: "Salmon", Category: "Protein"},
		{ID: "2", Name: "Lemon", Category: "Produce"},
		{ID: "3", Name: "Dill", Category: "Produce"},
	}
	items, err := f.nutrition.GenerateShoppingList(ctx, testKey)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	toggled, err := f.nutrition.ToggleShoppingItem(ctx, testKey, "2")
	require.NoError(t, err)
	assert.True(t, toggled.IsPurchased)
	_, err = f.nutrition.ToggleShoppingItem(ctx, testKey, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := f.nutrition.ShoppingList(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, 2, MissingCount(list))

	groups := GroupShoppingList(list)
	require.Len(t, groups, 2)
	assert.Equal(t, "Protein", groups[0].Category)
	assert.Equal(t, "Produce", groups[1].Category)
	assert.Len(t, groups[1].Items, 2)

	require.NoError(t, f.nutrition.ClearShoppingList(ctx, testKey))
	list, err = f.nutrition.ShoppingList(ctx, testKey)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGenerateShoppingList_GatewayFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.nutrition.AddMealPlanEntry(ctx, testKey, models.MealPlanEntry{
		Day: models.Monday, MealType: models.MealLunch, MealName: "Bowl",
	})
	require.NoError(t, err)

	f.gw.err = gateway.ErrMalformedResponse
	_, err = f.nutrition.GenerateShoppingList(ctx, testKey)
	assert.ErrorIs(t, err, gateway.ErrMalformedResponse)
}

func TestGroupShoppingList_EmptyCategory(t *testing.T) {
	groups := GroupShoppingList([]models.ShoppingItem{{ID: "a", Name: "Salt"}})
	require.Len(t, groups, 1)
	assert.Equal(t, "Other", groups[0].Category)
	assert.Empty(t, GroupShoppingList(nil))
}
