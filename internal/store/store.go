// Package store загружает, согласовывает и сохраняет состояние пользователя.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/nutrition"
	"github.com/besufkad2328-dev/SEED/internal/repository"
	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"go.uber.org/zap"
)

// Store сериализует изменения одного ключа через мьютекс
type Store struct {
	repo repository.StateRepository
	log  *utils.Logger
	loc  *time.Location
	now  func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l *utils.Logger) Option {
	return func(s *Store) { s.log = l }
}

func New(repo repository.StateRepository, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		log:   utils.Log,
		loc:   time.Local,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Now() time.Time {
	return s.now()
}

// Location - часовой пояс календарных суток
func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) lock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Load возвращает согласованное состояние. Отсутствующий или
// повреждённый снимок заменяется состоянием по умолчанию.
func (s *Store) Load(ctx context.Context, key string) (*models.AppState, error) {
	snapshot, err := s.repo.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return DefaultState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", key, err)
	}

	st, err := Reconcile(snapshot.Payload, s.now(), s.loc)
	if err != nil {
		s.log.Warn("State hydration failed, using defaults", zap.String("key", key), zap.Error(err))
		return DefaultState(), nil
	}
	return st, nil
}

// Update: загрузка, изменение и сохранение под блокировкой ключа.
// Если fn вернула ошибку, ничего не сохраняется.
func (s *Store) Update(ctx context.Context, key string, fn func(*models.AppState) error) (*models.AppState, error) {
	l := s.lock(key)
	l.Lock()
	defer l.Unlock()

	st, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := s.save(ctx, key, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) save(ctx context.Context, key string, st *models.AppState) error {
	now := s.now()
	payload, err := Encode(st, now)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", key, err)
	}
	err = s.repo.Put(ctx, &models.StateSnapshot{
		Key:        key,
		Payload:    payload,
		LastUpdate: now,
	})
	if err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}
	return nil
}

// Reset удаляет снимок; следующий Load вернёт значения по умолчанию
func (s *Store) Reset(ctx context.Context, key string) error {
	l := s.lock(key)
	l.Lock()
	defer l.Unlock()

	err := s.repo.Delete(ctx, key)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("reset state %s: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	return s.repo.Keys(ctx)
}

// Encode сериализует состояние вместе с временем последнего изменения
func Encode(st *models.AppState, lastUpdate time.Time) ([]byte, error) {
	return json.Marshal(models.PersistedState{AppState: *st, LastUpdate: lastUpdate})
}

// Reconcile разбирает снимок поверх значений по умолчанию и применяет
// суточный сброс гидратации.
func Reconcile(payload []byte, now time.Time, loc *time.Location) (*models.AppState, error) {
	persisted := models.PersistedState{AppState: *DefaultState()}
	if err := json.Unmarshal(payload, &persisted); err != nil {
		return nil, err
	}

	st := persisted.AppState
	normalize(&st)
	nutrition.ResetDaily(&st, persisted.LastUpdate, now, loc)
	return &st, nil
}

func normalize(st *models.AppState) {
	if !st.Goal.Valid() {
		st.Goal = models.GoalMaintenance
	}
	if st.Pantry == nil {
		st.Pantry = []models.PantryItem{}
	}
	if st.History == nil {
		st.History = []models.MealAnalysis{}
	}
	if st.BioFeedbackHistory == nil {
		st.BioFeedbackHistory = []models.BioFeedbackEntry{}
	}
	if st.HydrationLog == nil {
		st.HydrationLog = []models.HydrationEntry{}
	}
	if len(st.HydrationLog) > nutrition.MaxHydrationEntries {
		st.HydrationLog = st.HydrationLog[:nutrition.MaxHydrationEntries]
	}
	if st.MealPlan == nil {
		st.MealPlan = []models.MealPlanEntry{}
	}
	if st.ShoppingList == nil {
		st.ShoppingList = []models.ShoppingItem{}
	}
	if st.UserProfile.HealthGoals == nil {
		st.UserProfile.HealthGoals = []string{}
	}
	st.UserProfile.WeightHistory = nutrition.DedupeWeightHistory(st.UserProfile.WeightHistory)
	st.PerformancePulse = nutrition.NormalizePulse(st.PerformancePulse)
}
