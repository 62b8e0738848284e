package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/besufkad2328-dev/SEED/internal/gateway"
	"github.com/besufkad2328-dev/SEED/internal/media"
	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/nutrition"
	"github.com/besufkad2328-dev/SEED/internal/realtime"
	"github.com/besufkad2328-dev/SEED/internal/store"
	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minDescriptionRunes = 3

type NutritionService struct {
	store  *store.Store
	ai     gateway.Gateway
	images gateway.ImageGenerator
	media  media.ImageStore
	notify Notifier
	log    *utils.Logger

	assetsMu sync.Mutex
	assets   map[string]string
}

// NewNutritionService: images и media могут быть nil
func NewNutritionService(st *store.Store, ai gateway.Gateway, images gateway.ImageGenerator, m media.ImageStore, n Notifier) *NutritionService {
	return &NutritionService{
		store:  st,
		ai:     ai,
		images: images,
		media:  m,
		notify: notifierOrNop(n),
		log:    utils.Log.Named("nutrition"),
		assets: make(map[string]string),
	}
}

// ==================== ПРИЕМЫ ПИЩИ ====================

// LogMeal анализирует описание, добавляет запись в начало истории и
// сдвигает окно пульса. При ошибке шлюза состояние не меняется.
func (s *NutritionService) LogMeal(ctx context.Context, key, description string) (*models.MealAnalysis, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) < minDescriptionRunes {
		return nil, ErrDescriptionTooShort
	}

	st, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	analysis, err := s.ai.AnalyzeMeal(ctx, gateway.MealAnalysisRequest{
		Description: description,
		Goal:        st.Goal,
		Targets:     nutrition.CalculateTargets(st.UserProfile, st.Goal),
		Pantry:      st.Pantry,
		Profile:     st.UserProfile,
		History:     st.History,
		BioFeedback: st.BioFeedbackHistory,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze meal: %w", err)
	}
	analysis.VisualizationURL = s.visualize(ctx, key, analysis.MealName)
	analysis.AnalyzedAt = s.store.Now()

	_, err = s.store.Update(ctx, key, func(st *models.AppState) error {
		st.History = append([]models.MealAnalysis{*analysis}, st.History...)
		st.PerformancePulse = nutrition.PushPulse(st.PerformancePulse, analysis.GoalAlignment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.Publish(key, realtime.EventMealLogged, analysis)
	return analysis, nil
}

// visualize возвращает URL картинки или "", ошибки только логируются
func (s *NutritionService) visualize(ctx context.Context, key, mealName string) string {
	if s.images == nil {
		return ""
	}
	dataURL, err := s.images.GenerateMealImage(ctx, mealName)
	if err != nil {
		s.log.Warn("Meal image generation failed", zap.String("meal", mealName), zap.Error(err))
		return ""
	}
	if s.media == nil {
		return dataURL
	}

	url, err := s.media.StoreDataURL(ctx, dataURL, objectPrefix(key))
	if err != nil {
		s.log.Warn("Meal image upload failed, keeping inline image", zap.String("meal", mealName), zap.Error(err))
		return dataURL
	}
	return url
}

// Сюжеты фоновых снимков сессии, по одному на день
var assetSubjects = []string{
	"halved Haas avocado with stone",
	"fresh green spinach leaves with dew",
	"minimalist crystal glass water bottle with condensation",
}

// SessionAsset - снимок дня в дневной или вечерней подсветке. Результат
// кэшируется на сюжет и режим; при ошибке возвращается "".
func (s *NutritionService) SessionAsset(ctx context.Context) string {
	if s.images == nil {
		return ""
	}
	now := s.store.Now().In(s.store.Location())
	evening := nutrition.IsEvening(now)
	subject := assetSubjects[now.YearDay()%len(assetSubjects)]
	cacheKey := fmt.Sprintf("%s|%t", subject, evening)

	s.assetsMu.Lock()
	url, ok := s.assets[cacheKey]
	s.assetsMu.Unlock()
	if ok {
		return url
	}

	url, err := s.images.GenerateAsset(ctx, subject, evening)
	if err != nil {
		s.log.Warn("Session asset generation failed", zap.String("subject", subject), zap.Error(err))
		return ""
	}
	if s.media != nil {
		stored, err := s.media.StoreDataURL(ctx, url, "asset")
		if err != nil {
			s.log.Warn("Session asset upload failed, keeping inline image", zap.Error(err))
		} else {
			url = stored
		}
	}

	s.assetsMu.Lock()
	s.assets[cacheKey] = url
	s.assetsMu.Unlock()
	return url
}

func objectPrefix(key string) string {
	return strings.NewReplacer(":", "-", "/", "-", " ", "-").Replace(key)
}

// History - записи от новых к старым
func (s *NutritionService) History(ctx context.Context, key string) ([]models.MealAnalysis, error) {
	st, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return st.History, nil
}

// ==================== КЛАДОВАЯ ====================

// AddPantryItem: продукт с тем же названием не дублируется
func (s *NutritionService) AddPantryItem(ctx context.Context, key, name string) (*models.PantryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	var added models.PantryItem
	st, err := s.store.Update(ctx, key, func(st *models.AppState) error {
		for _, p := range st.Pantry {
			if strings.EqualFold(p.Name, name) {
				added = p
				return nil
			}
		}
		added = models.PantryItem{ID: uuid.NewString(), Name: name}
		st.Pantry = append(st.Pantry, added)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify.Publish(key, realtime.EventPlanUpdated, st.Pantry)
	return &added, nil
}

func (s *NutritionService) RemovePantryItem(ctx context.Context, key, id string) error {
	st, err := s.store.Update(ctx, key, func(st *models.AppState) error {
		for i, p := range st.Pantry {
			if p.ID == id {
				st.Pantry = append(st.Pantry[:i:i], st.Pantry[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return err
	}
	s.notify.Publish(key, realtime.EventPlanUpdated, st.Pantry)
	return nil
}

func (s *NutritionService) Pantry(ctx context.Context, key string) ([]models.PantryItem, error) {
	st, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return st.Pantry, nil
}

// ==================== НЕДЕЛЬНЫЙ ПЛАН ====================

// AddMealPlanEntry занимает слот (день, прием пищи), прежняя запись слота заменяется
func (s *NutritionService) AddMealPlanEntry(ctx context.Context, key string, entry models.MealPlanEntry) (*models.MealPlanEntry, error) {
	if !entry.Day.Valid() {
		return nil, ErrInvalidDay
	}
	if !entry.MealType.Valid() {
		return nil, ErrInvalidMealType
	}
	entry.MealName = strings.TrimSpace(entry.MealName)
	if entry.MealName == "" {
		return nil, ErrEmptyName
	}
	ingredients := make([]string, 0, len(entry.Ingredients))
	for _, in := range entry.Ingredients {
		if in = strings.TrimSpace(in); in != "" {
			ingredients = append(ingredients, in)
		}
	}
	entry.Ingredients = ingredients

	st, err := s.store.Update(ctx, key, func(st *models.AppState) error {
		for i, e := range st.MealPlan {
			if e.Day == entry.Day && e.MealType == entry.MealType {
				st.MealPlan[i] = entry
				return nil
			}
		}
		st.MealPlan = append(st.MealPlan, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify.Publish(key, realtime.EventPlanUpdated, st.MealPlan)
	return &entry, nil
}

func (s *NutritionService) RemoveMealPlanEntry(ctx context.Context, key string, day models.Weekday, mealType models.MealType) error {
	if !day.Valid() {
		return ErrInvalidDay
	}
	if !mealType.Valid() {
		return ErrInvalidMealType
	}
	st, err := s.store.Update(ctx, key, func(st *models.AppState) error {
		for i, e := range st.MealPlan {
			if e.Day == day && e.MealType == mealType {
				st.MealPlan = append(st.MealPlan[:i:i], st.MealPlan[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return err
	}
	s.notify.Publish(key, realtime.EventPlanUpdated, st.MealPlan)
	return nil
}

func (s *NutritionService) MealPlan(ctx context.Context, key string) ([]models.MealPlanEntry, error) {
	st, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return st.MealPlan, nil
}

// MealsForDay - приемы пищи дня в порядке завтрак, обед, ужин, перекус
func (s *NutritionService) MealsForDay(ctx context.Context, key string, day models.Weekday) ([]models.MealPlanEntry, error) {
	if !day.Valid() {
		return nil, ErrInvalidDay
	}
	plan, err := s.MealPlan(ctx, key)
	if err != nil {
		return nil, err
	}
	return MealsForDay(plan, day), nil
}

func MealsForDay(plan []models.MealPlanEntry, day models.Weekday) []models.MealPlanEntry {
	out := []models.MealPlanEntry{}
	for _, mt := range models.MealTypes {
		for _, e := range plan {
			if e.Day == day && e.MealType == mt {
				out = append(out, e)
			}
		}
	}
	return out
}

// ==================== СПИСОК ПОКУПОК ====================

// GenerateShoppingList заменяет список покупок ответом шлюза
func (s *NutritionService) GenerateShoppingList(ctx context.Context, key string) ([]models.ShoppingItem, error) {
	st, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(st.MealPlan) == 0 {
		return nil, ErrEmptyMealPlan
	}

	items, err := s.ai.GenerateShoppingList(ctx, st.MealPlan, st.Pantry)
	if err != nil {
		return nil, fmt.Errorf("generate shopping list: %w", err)
	}

	_, err = s.store.Update(ctx, key, func(st *models.AppState) error {
		st.ShoppingList = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify.Publish(key, realtime.EventShoppingUpdated, items)
	return items, nil
}

func (s *NutritionService) ShoppingList(ctx context.Context, key string) ([]models.ShoppingItem, error) {
	st, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return st.ShoppingList, nil
}

func (s *NutritionService) ToggleShoppingItem(ctx context.Context, key, id string) (*models.ShoppingItem, error) {
	var toggled models.ShoppingItem
	st, err := s.store.Update(ctx, key, func(st *models.AppState) error {
		for i := range st.ShoppingList {
			if st.ShoppingList[i].ID == id {
				st.ShoppingList[i].IsPurchased = !st.ShoppingList[i].IsPurchased
				toggled = st.ShoppingList[i]
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	s.notify.Publish(key, realtime.EventShoppingUpdated, st.ShoppingList)
	return &toggled, nil
}

func (s *NutritionService) ClearShoppingList(ctx context.Context, key string) error {
	_, err := s.store.Update(ctx, key, func(st *models.AppState) error {
		st.ShoppingList = []models.ShoppingItem{}
		return nil
	})
	if err != nil {
		return err
	}
	s.notify.Publish(key, realtime.EventShoppingUpdated, []models.ShoppingItem{})
	return nil
}

// GroupShoppingList группирует по категории в порядке первого появления
func GroupShoppingList(items []models.ShoppingItem) []ShoppingGroup {
	groups := []ShoppingGroup{}
	index := make(map[string]int)
	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = "Other"
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, ShoppingGroup{Category: cat})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// MissingCount - сколько позиций еще не куплено
func MissingCount(items []models.ShoppingItem) int {
	n := 0
	for _, it := range items {
		if !it.IsPurchased {
			n++
		}
	}
	return n
}
