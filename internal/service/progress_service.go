package service

import (
	"context"
	"math"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/nutrition"
	"github.com/besufkad2328-dev/SEED/internal/realtime"
	"github.com/besufkad2328-dev/SEED/internal/store"
	"github.com/google/uuid"
)

type ProgressService struct {
	store  *store.Store
	notify Notifier
}

func NewProgressService(st *store.Store, n Notifier) *ProgressService {
	return &ProgressService{store: st, notify: notifierOrNop(n)}
}

// State - полное согласованное состояние
func (s *ProgressService) State(ctx context.Context, key string) (*models.AppState, error) {
	return s.store.Load(ctx, key)
}

// Targets - суточные нормы по профилю и цели
func (s *ProgressService) Targets(ctx context.Context, key string) (models.Targets, error) {
	st, err := s.store.Load(ctx, key)
	if err != nil {
		return models.Targets{}, err
	}
	return nutrition.CalculateTargets(st.UserProfile, st.Goal), nil
}

// AddHydration добавляет порцию воды в унциях
func (s *ProgressService) AddHydration(ctx context.Context, key string, amount float64) (*HydrationSummary, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, ErrInvalidAmount
	}
	entry := models.HydrationEntry{
		ID:        uuid.NewString(),
		Timestamp: s.store.Now(),
		Amount:    amount,
	}
	st, err := s.store.Update(ctx, key, func(st *models.AppState) error {
		st.HydrationLog, st.HydrationOunces = nutrition.AddHydration(st.HydrationLog, st.HydrationOunces, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := s.hydration(st)
	s.notify.Publish(key, realtime.EventHydrationLogged, summary)
	return &summary, nil
}

func (s *ProgressService) Hydration(ctx context.Context, key string) (*HydrationSummary, error) {
	st, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	summary := s.hydration(st)
	return &summary, nil
}

func (s *ProgressService) hydration(st *models.AppState) HydrationSummary {
	goal := st.UserProfile.HydrationGoal()
	summary := HydrationSummary{
		TotalOunces: st.HydrationOunces,
		GoalOunces:  goal,
		Percent:     nutrition.HydrationPercent(st.HydrationOunces, goal),
		Velocity:    nutrition.Velocity(st.HydrationLog, s.store.Now()),
		Entries:     st.HydrationLog,
	}
	if len(st.HydrationLog) > 0 {
		last := st.HydrationLog[0].Timestamp
		summary.LastEntryAt = &last
	}
	return summary
}

// Dashboard собирает производные показатели; months - горизонт прогноза 0..6
func (s *ProgressService) Dashboard(ctx context.Context, key string, months int) (*Dashboard, error) {
	st, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.dashboard(st, months), nil
}

func (s *ProgressService) dashboard(st *models.AppState, months int) *Dashboard {
	now := s.store.Now()
	local := now.In(s.store.Location())
	months = nutrition.ClampMonths(months)
	evening := nutrition.IsEvening(local)

	targets := nutrition.CalculateTargets(st.UserProfile, st.Goal)
	intake := nutrition.TotalIntake(st.History)
	bmi := nutrition.BMI(st.UserProfile.WeightKg, st.UserProfile.HeightCm)

	d := &Dashboard{
		UserName:      st.UserName,
		Goal:          st.Goal,
		Targets:       targets,
		Intake:        intake,
		Progress:      nutrition.Progress(intake.Kcal, float64(targets.Kcal)),
		VisualDensity: nutrition.VisualDensity(intake.Kcal, float64(targets.Kcal), months),
		MacroPercent: MacroPercent{
			Protein: nutrition.MacroPercent(intake.Protein, float64(targets.ProteinG)),
			Carbs:   nutrition.MacroPercent(intake.Carbs, float64(targets.CarbsG)),
			Fat:     nutrition.MacroPercent(intake.Fat, float64(targets.FatG)),
		},
		AverageSustenance: nutrition.AverageSustenance(st.History),
		Consistency:       nutrition.Consistency(st.History),
		MealsLogged:       len(st.History),
		Hydration:         s.hydration(st),
		Pulse:             st.PerformancePulse,
		BMI:               bmi,
		BMICategory:       nutrition.BMICategory(bmi),
		ProjectionMonths:  months,
		Projection:        nutrition.Projection(st.Goal, st.History, months, local),
		Evening:           evening,
		Quote:             nutrition.DailyQuote(local),
		AccentColor:       nutrition.AccentColor(st.Goal, months, evening),
		PerformanceMode:   st.IsPerformanceMode,
	}
	if len(st.History) > 0 {
		latest := st.History[0]
		d.LatestMeal = &latest
	}
	if trend, ok := nutrition.WeightTrend(st.UserProfile.WeightHistory); ok {
		d.WeightTrend = &trend
	}
	if months > 0 {
		date := nutrition.ProjectionDate(local, months)
		d.ProjectionDate = &date
	}
	return d
}

// Reset удаляет состояние ключа; следующее чтение вернет значения по умолчанию
func (s *ProgressService) Reset(ctx context.Context, key string) error {
	if err := s.store.Reset(ctx, key); err != nil {
		return err
	}
	s.notify.Publish(key, realtime.EventStateReset, nil)
	return nil
}

// Now - текущее время в часовом поясе хранилища
func (s *ProgressService) Now() time.Time {
	return s.store.Now().In(s.store.Location())
}
