package service

import (
	"context"
	"math"
	"strings"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/nutrition"
	"github.com/besufkad2328-dev/SEED/internal/realtime"
	"github.com/besufkad2328-dev/SEED/internal/store"
	"github.com/google/uuid"
)

const (
	maxAge      = 120
	maxWeightKg = 500
	maxHeightCm = 300
	minRating   = 1
	maxRating   = 10
)

type ProfileService struct {
	store  *store.Store
	notify Notifier
}

func NewProfileService(st *store.Store, n Notifier) *ProfileService {
	return &ProfileService{store: st, notify: notifierOrNop(n)}
}

func (s *ProfileService) update(ctx context.Context, key string, fn func(*models.AppState) error) (*models.AppState, error) {
	st, err := s.store.Update(ctx, key, fn)
	if err != nil {
		return nil, err
	}
	s.notify.Publish(key, realtime.EventProfileUpdated, st.UserProfile)
	return st, nil
}

// GetProfile - текущий профиль
func (s *ProfileService) GetProfile(ctx context.Context, key string) (*models.UserProfile, error) {
	st, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return &st.UserProfile, nil
}

func positive(v, upper float64) bool {
	return !math.IsNaN(v) && v > 0 && v <= upper
}

// SetWeight обновляет вес и запись истории за сегодня
func (s *ProfileService) SetWeight(ctx context.Context, key string, kg float64) (*models.UserProfile, error) {
	if !positive(kg, maxWeightKg) {
		return nil, ErrInvalidProfile
	}
	st, err := s.update(ctx, key, func(st *models.AppState) error {
		s.applyWeight(st, kg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st.UserProfile, nil
}

func (s *ProfileService) applyWeight(st *models.AppState, kg float64) {
	p := &st.UserProfile
	p.WeightKg = kg
	entry := nutrition.WeightEntryFor(*p, s.store.Now(), s.store.Location())
	p.WeightHistory = nutrition.UpsertWeight(p.WeightHistory, entry)
}

func (s *ProfileService) SetHeight(ctx context.Context, key string, cm float64) (*models.UserProfile, error) {
	if !positive(cm, maxHeightCm) {
		return nil, ErrInvalidProfile
	}
	return s.profile(ctx, key, func(p *models.UserProfile) { p.HeightCm = cm })
}

func (s *ProfileService) SetAge(ctx context.Context, key string, age int) (*models.UserProfile, error) {
	if age < 1 || age > maxAge {
		return nil, ErrInvalidProfile
	}
	return s.profile(ctx, key, func(p *models.UserProfile) { p.Age = age })
}

func (s *ProfileService) SetGender(ctx context.Context, key string, g models.Gender) (*models.UserProfile, error) {
	if !g.Valid() {
		return nil, ErrInvalidProfile
	}
	return s.profile(ctx, key, func(p *models.UserProfile) { p.Gender = g })
}

func (s *ProfileService) SetActivityLevel(ctx context.Context, key string, level models.ActivityLevel) (*models.UserProfile, error) {
	if !level.Valid() {
		return nil, ErrInvalidProfile
	}
	return s.profile(ctx, key, func(p *models.UserProfile) { p.ActivityLevel = level })
}

// SetHydrationGoal - суточная цель в унциях
func (s *ProfileService) SetHydrationGoal(ctx context.Context, key string, oz float64) (*models.UserProfile, error) {
	if math.IsNaN(oz) || math.IsInf(oz, 0) || oz <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.profile(ctx, key, func(p *models.UserProfile) { p.HydrationGoalOunces = &oz })
}

// AddHealthGoal добавляет цель, повтор без учета регистра игнорируется
func (s *ProfileService) AddHealthGoal(ctx context.Context, key, goal string) (*models.UserProfile, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, ErrEmptyName
	}
	return s.profile(ctx, key, func(p *models.UserProfile) {
		for _, g := range p.HealthGoals {
			if strings.EqualFold(g, goal) {
				return
			}
		}
		p.HealthGoals = append(p.HealthGoals, goal)
	})
}

func (s *ProfileService) RemoveHealthGoal(ctx context.Context, key, goal string) (*models.UserProfile, error) {
	st, err := s.update(ctx, key, func(st *models.AppState) error {
		goals := st.UserProfile.HealthGoals
		for i, g := range goals {
			if strings.EqualFold(g, strings.TrimSpace(goal)) {
				st.UserProfile.HealthGoals = append(goals[:i:i], goals[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &st.UserProfile, nil
}

func (s *ProfileService) profile(ctx context.Context, key string, fn func(*models.UserProfile)) (*models.UserProfile, error) {
	st, err := s.update(ctx, key, func(st *models.AppState) error {
		fn(&st.UserProfile)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st.UserProfile, nil
}

// SetGoal меняет цель и тем самым суточные нормы
func (s *ProfileService) SetGoal(ctx context.Context, key string, goal models.GoalType) (models.Targets, error) {
	if !goal.Valid() {
		return models.Targets{}, ErrInvalidGoal
	}
	st, err := s.update(ctx, key, func(st *models.AppState) error {
		st.Goal = goal
		return nil
	})
	if err != nil {
		return models.Targets{}, err
	}
	return nutrition.CalculateTargets(st.UserProfile, st.Goal), nil
}

func (s *ProfileService) SetUserName(ctx context.Context, key, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	_, err := s.update(ctx, key, func(st *models.AppState) error {
		st.UserName = name
		return nil
	})
	return err
}

func (s *ProfileService) SetPerformanceMode(ctx context.Context, key string, on bool) error {
	_, err := s.update(ctx, key, func(st *models.AppState) error {
		st.IsPerformanceMode = on
		return nil
	})
	return err
}

// ApplyPatch проверяет все поля и сохраняет их одной записью
func (s *ProfileService) ApplyPatch(ctx context.Context, key string, patch ProfilePatch) (*models.AppState, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, key, func(st *models.AppState) error {
		p := &st.UserProfile
		if patch.UserName != nil {
			st.UserName = strings.TrimSpace(*patch.UserName)
		}
		if patch.Age != nil {
			p.Age = *patch.Age
		}
		if patch.HeightCm != nil {
			p.HeightCm = *patch.HeightCm
		}
		if patch.Gender != nil {
			p.Gender = *patch.Gender
		}
		if patch.ActivityLevel != nil {
			p.ActivityLevel = *patch.ActivityLevel
		}
		if patch.HydrationGoalOunces != nil {
			oz := *patch.HydrationGoalOunces
			p.HydrationGoalOunces = &oz
		}
		if patch.IsPerformanceMode != nil {
			st.IsPerformanceMode = *patch.IsPerformanceMode
		}
		if patch.WeightKg != nil {
			s.applyWeight(st, *patch.WeightKg)
		}
		return nil
	})
}

func (p ProfilePatch) validate() error {
	if p.UserName != nil && strings.TrimSpace(*p.UserName) == "" {
		return ErrEmptyName
	}
	if p.Age != nil && (*p.Age < 1 || *p.Age > maxAge) {
		return ErrInvalidProfile
	}
	if p.WeightKg != nil && !positive(*p.WeightKg, maxWeightKg) {
		return ErrInvalidProfile
	}
	if p.HeightCm != nil && !positive(*p.HeightCm, maxHeightCm) {
		return ErrInvalidProfile
	}
	if p.Gender != nil && !p.Gender.Valid() {
		return ErrInvalidProfile
	}
	if p.ActivityLevel != nil && !p.ActivityLevel.Valid() {
		return ErrInvalidProfile
	}
	if p.HydrationGoalOunces != nil {
		oz := *p.HydrationGoalOunces
		if math.IsNaN(oz) || math.IsInf(oz, 0) || oz <= 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

// LogBioFeedback - новая запись самочувствия в начало истории
func (s *ProfileService) LogBioFeedback(ctx context.Context, key string, dto BioFeedbackDTO) (*models.BioFeedbackEntry, error) {
	for _, r := range []int{dto.Energy, dto.Bloating, dto.SkinClarity, dto.Mood} {
		if r < minRating || r > maxRating {
			return nil, ErrInvalidRating
		}
	}
	entry := models.BioFeedbackEntry{
		ID:          uuid.NewString(),
		Timestamp:   s.store.Now(),
		Energy:      dto.Energy,
		Bloating:    dto.Bloating,
		SkinClarity: dto.SkinClarity,
		Mood:        dto.Mood,
		Notes:       strings.TrimSpace(dto.Notes),
	}
	_, err := s.update(ctx, key, func(st *models.AppState) error {
		st.BioFeedbackHistory = append([]models.BioFeedbackEntry{entry}, st.BioFeedbackHistory...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
