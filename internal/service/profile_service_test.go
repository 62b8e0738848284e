package service

import (
	"context"
	"testing"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetWeight_UpsertsTodaysEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.profile.SetWeight(ctx, testKey, 80)
	require.NoError(t, err)
	require.Len(t, p.WeightHistory, 4)
	assert.Equal(t, models.WeightLogEntry{Date: "2024-05-02", WeightKg: 80, BMI: 24.7}, p.WeightHistory[3])

	p, err = f.profile.SetWeight(ctx, testKey, 79)
	require.NoError(t, err)
	require.Len(t, p.WeightHistory, 4)
	assert.Equal(t, 79.0, p.WeightHistory[3].WeightKg)

	for _, bad := range []float64{0, -5, 501} {
		_, err = f.profile.SetWeight(ctx, testKey, bad)
		assert.ErrorIs(t, err, ErrInvalidProfile)
	}
	assert.Equal(t, []string{realtime.EventProfileUpdated, realtime.EventProfileUpdated}, f.notify.names())
}

func TestProfileSetters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profile.SetHeight(ctx, testKey, 172)
	require.NoError(t, err)
	_, err = f.profile.SetAge(ctx, testKey, 41)
	require.NoError(t, err)
	_, err = f.profile.SetGender(ctx, testKey, models.GenderFemale)
	require.NoError(t, err)
	_, err = f.profile.SetActivityLevel(ctx, testKey, models.ActivityVery)
	require.NoError(t, err)
	_, err = f.profile.SetHydrationGoal(ctx, testKey, 96)
	require.NoError(t, err)

	p, err := f.profile.GetProfile(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, 172.0, p.HeightCm)
	assert.Equal(t, 41, p.Age)
	assert.Equal(t, models.GenderFemale, p.Gender)
	assert.Equal(t, models.ActivityVery, p.ActivityLevel)
	assert.Equal(t, 96.0, p.HydrationGoal())

	_, err = f.profile.SetAge(ctx, testKey, 0)
	assert.ErrorIs(t, err, ErrInvalidProfile)
	_, err = f.profile.SetGender(ctx, testKey, "Robot")
	assert.ErrorIs(t, err, ErrInvalidProfile)
	_, err = f.profile.SetActivityLevel(ctx, testKey, "Couch")
	assert.ErrorIs(t, err, ErrInvalidProfile)
	_, err = f.profile.SetHydrationGoal(ctx, testKey, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestHealthGoals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.profile.AddHealthGoal(ctx, testKey, " Better Sleep ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Metabolic Stability", "Peak Cognitive Function", "Better Sleep"}, p.HealthGoals)

	p, err = f.profile.AddHealthGoal(ctx, testKey, "better sleep")
	require.NoError(t, err)
	assert.Len(t, p.HealthGoals, 3)

	_, err = f.profile.AddHealthGoal(ctx, testKey, "")
	assert.ErrorIs(t, err, ErrEmptyName)

	p, err = f.profile.RemoveHealthGoal(ctx, testKey, "Metabolic Stability")
	require.NoError(t, err)
	assert.Equal(t, []string{"Peak Cognitive Function", "Better Sleep"}, p.HealthGoals)

	_, err = f.profile.RemoveHealthGoal(ctx, testKey, "Metabolic Stability")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetGoal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profile.SetGoal(ctx, testKey, "Bulk")
	assert.ErrorIs(t, err, ErrInvalidGoal)

	targets, err := f.profile.SetGoal(ctx, testKey, models.GoalWeightLoss)
	require.NoError(t, err)
	assert.Equal(t, 2197, targets.Kcal)

	got, err := f.progress.Targets(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, targets, got)
}

func TestUserNameAndPerformanceMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.profile.SetUserName(ctx, testKey, " "), ErrEmptyName)
	require.NoError(t, f.profile.SetUserName(ctx, testKey, " Ada "))
	require.NoError(t, f.profile.SetPerformanceMode(ctx, testKey, true))

	st, err := f.progress.State(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "Ada", st.UserName)
	assert.True(t, st.IsPerformanceMode)
}

func TestApplyPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	age := 0
	name := "Grace"
	_, err := f.profile.ApplyPatch(ctx, testKey, ProfilePatch{UserName: &name, Age: &age})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	st, err := f.progress.State(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "Elite Member", st.UserName)

	age = 35
	weight := 70.0
	level := models.ActivitySedentary
	st, err = f.profile.ApplyPatch(ctx, testKey, ProfilePatch{UserName: &name, Age: &age, WeightKg: &weight, ActivityLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, "Grace", st.UserName)
	assert.Equal(t, 35, st.UserProfile.Age)
	assert.Equal(t, models.ActivitySedentary, st.UserProfile.ActivityLevel)
	last := st.UserProfile.WeightHistory[len(st.UserProfile.WeightHistory)-1]
	assert.Equal(t, "2024-05-02", last.Date)
	assert.Equal(t, 70.0, last.WeightKg)
}

func TestLogBioFeedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profile.LogBioFeedback(ctx, testKey, BioFeedbackDTO{Energy: 0, Bloating: 3, SkinClarity: 5, Mood: 5})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = f.profile.LogBioFeedback(ctx, testKey, BioFeedbackDTO{Energy: 5, Bloating: 11, SkinClarity: 5, Mood: 5})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = f.profile.LogBioFeedback(ctx, testKey, BioFeedbackDTO{Energy: 7, Bloating: 2, SkinClarity: 6, Mood: 8, Notes: " first "})
	require.NoError(t, err)
	second, err := f.profile.LogBioFeedback(ctx, testKey, BioFeedbackDTO{Energy: 4, Bloating: 6, SkinClarity: 6, Mood: 5})
	require.NoError(t, err)

	st, err := f.progress.State(ctx, testKey)
	require.NoError(t, err)
	require.Len(t, st.BioFeedbackHistory, 2)
	assert.Equal(t, second.ID, st.BioFeedbackHistory[0].ID)
	assert.Equal(t, "first", st.BioFeedbackHistory[1].Notes)
}
