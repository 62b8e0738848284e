package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analysisJSON = `{
	"mealName": "Salmon Bowl",
	"stats": {"kcal": 620, "protein": 42, "carbs": 55, "fat": 24},
	"sustenanceScore": 88,
	"goalAlignment": 130,
	"correlationAnalysis": "No dairy, bloating unlikely.",
	"metabolicFlexibility": {"stabilityRating": 8, "forecast": "Steady", "proactiveProtocol": "Walk 10 min"},
	"eliteAdjustment": {"add": "Kimchi", "reduce": "Rice"},
	"metabolicPrescription": {"dailyKcalTarget": 2600, "mealFrequency": "3 meals", "bmiDirective": "Hold", "focusAreas": ["Omega-3"]},
	"resourceRecipe": {"name": "Oat Bowl", "description": "Oats and yogurt", "reasoning": "Fibre"},
	"insight": {"performanceNote": "Strong", "quote": "Fuel wisely.", "theme": "#86A789"}
}`

type capturedRequest struct {
	Path   string
	APIKey string
	Body   generateRequest
}

func geminiServer(t *testing.T, status int, reply string) (*GeminiClient, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		captured = append(captured, capturedRequest{
			Path:   r.URL.Path,
			APIKey: r.Header.Get("x-goog-api-key"),
			Body:   body,
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	c := NewGeminiClient(GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1beta/",
		TextModel:  "text-model",
		ImageModel: "image-model",
		Timeout:    5 * time.Second,
	})
	return c, &captured
}

func textReply(t *testing.T, text string) string {
	t.Helper()
	env := map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	}
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return string(b)
}

func analysisRequest() MealAnalysisRequest {
	return MealAnalysisRequest{
		Description: "grilled salmon with rice",
		Goal:        models.GoalWeightLoss,
		Targets:     models.Targets{Kcal: 2197, ProteinG: 165, CarbsG: 220, FatG: 73},
		Pantry:      []models.PantryItem{{ID: "1", Name: "Oats"}, {ID: "2", Name: "Greek Yogurt"}},
		Profile:     models.UserProfile{WeightKg: 75, HeightCm: 180},
		History: []models.MealAnalysis{
			{MealName: "m1", Stats: models.MacroStats{Kcal: 100}},
			{MealName: "m2", Stats: models.MacroStats{Kcal: 200}},
			{MealName: "m3"}, {MealName: "m4"}, {MealName: "m5"}, {MealName: "m6"},
		},
		BioFeedback: []models.BioFeedbackEntry{{Energy: 7, Bloating: 3, Notes: "after lunch"}},
	}
}

func TestAnalyzeMeal(t *testing.T) {
	c, captured := geminiServer(t, http.StatusOK, textReply(t, analysisJSON))

	a, err := c.AnalyzeMeal(context.Background(), analysisRequest())
	require.NoError(t, err)

	assert.Equal(t, "Salmon Bowl", a.MealName)
	assert.Equal(t, 620.0, a.Stats.Kcal)
	assert.Equal(t, 88.0, a.SustenanceScore)
	assert.Equal(t, 100.0, a.GoalAlignment)
	assert.Equal(t, models.ThemeSuccess, a.Insight.Theme)
	assert.Equal(t, []string{"Omega-3"}, a.MetabolicPrescription.FocusAreas)
	assert.Empty(t, a.VisualizationURL)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/v1beta/models/text-model:generateContent", req.Path)
	assert.Equal(t, "test-key", req.APIKey)
	assert.Equal(t, "Analyze this intake: grilled salmon with rice", req.Body.Contents[0].Parts[0].Text)
	assert.Equal(t, "application/json", req.Body.GenerationConfig.ResponseMimeType)
	assert.Equal(t, "OBJECT", req.Body.GenerationConfig.ResponseSchema.Type)

	instruction := req.Body.SystemInstruction.Parts[0].Text
	assert.Contains(t, instruction, "- BMI: 23.1 (Healthy weight)")
	assert.Contains(t, instruction, "- Goal: Weight Loss")
	assert.Contains(t, instruction, "Energy: 7, Bloating: 3, Notes: after lunch")
	assert.Contains(t, instruction, "m1 (100kcal), m2 (200kcal)")
	assert.Contains(t, instruction, "m5")
	assert.NotContains(t, instruction, "m6")
	assert.Contains(t, instruction, "Available Resources: Oats, Greek Yogurt")
}

func TestAnalyzeMeal_EmptyContextSaysNoneLogged(t *testing.T) {
	instruction := analysisInstruction(MealAnalysisRequest{Goal: models.GoalMaintenance})
	assert.Equal(t, 2, strings.Count(instruction, "None logged"))
}

func TestAnalyzeMeal_FencedJSON(t *testing.T) {
	c, _ := geminiServer(t, http.StatusOK, textReply(t, "```json\n"+analysisJSON+"\n```"))

	a, err := c.AnalyzeMeal(context.Background(), analysisRequest())
	require.NoError(t, err)
	assert.Equal(t, "Salmon Bowl", a.MealName)
}

func TestAnalyzeMeal_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
		want   error
	}{
		{"upstream status", http.StatusTooManyRequests, `{"error":"quota"}`, ErrUpstream},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrMalformedResponse},
		{"not json", http.StatusOK, "", ErrMalformedResponse},
		{"missing required field", http.StatusOK, "", ErrMalformedResponse},
	}
	tests[2].reply = textReply(t, "I cannot help with that")
	tests[3].reply = textReply(t, `{"mealName":"x","stats":{"kcal":1}}`)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := geminiServer(t, tt.status, tt.reply)
			_, err := c.AnalyzeMeal(context.Background(), analysisRequest())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAnalyzeMeal_TransportError(t *testing.T) {
	c := NewGeminiClient(GeminiConfig{BaseURL: "http://127.0.0.1:1", TextModel: "m", Timeout: time.Second})
	_, err := c.AnalyzeMeal(context.Background(), analysisRequest())
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGenerateShoppingList(t *testing.T) {
	items := `[
		{"id": "a", "name": "Salmon", "category": "Protein", "isPurchased": false},
		{"id": "a", "name": "Lemon", "category": "", "isPurchased": false},
		{"id": "", "name": "  ", "category": "Produce", "isPurchased": false}
	]`
	c, captured := geminiServer(t, http.StatusOK, textReply(t, items))

	plan := []models.MealPlanEntry{
		{Day: models.Monday, MealType: models.MealDinner, MealName: "Salmon", Ingredients: []string{"salmon", "lemon"}},
		{Day: models.Tuesday, MealType: models.MealLunch, MealName: "Bowl", Ingredients: []string{"rice"}},
	}
	pantry := []models.PantryItem{{ID: "1", Name: "Brown Rice"}}

	list, err := c.GenerateShoppingList(context.Background(), plan, pantry)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.NotEqual(t, "a", list[1].ID)
	assert.NotEmpty(t, list[1].ID)
	assert.Equal(t, "Other", list[1].Category)

	req := (*captured)[0]
	assert.Equal(t, "Pantry: Brown Rice. Meal Plan: Salmon: salmon, lemon; Bowl: rice. Generate shopping list.",
		req.Body.Contents[0].Parts[0].Text)
	assert.Equal(t, "ARRAY", req.Body.GenerationConfig.ResponseSchema.Type)
}

func TestGenerateMealImage(t *testing.T) {
	reply := `{"candidates":[{"content":{"parts":[{"text":"here"},{"inlineData":{"mimeType":"image/jpeg","data":"QUJD"}}]}}]}`
	c, captured := geminiServer(t, http.StatusOK, reply)

	url, err := c.GenerateMealImage(context.Background(), "Salmon Bowl")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,QUJD", url)

	req := (*captured)[0]
	assert.Equal(t, "/v1beta/models/image-model:generateContent", req.Path)
	assert.Equal(t, "16:9", req.Body.GenerationConfig.ImageConfig.AspectRatio)
	assert.Contains(t, req.Body.Contents[0].Parts[0].Text, "Salmon Bowl")
}

func TestGenerateAsset_NoImage(t *testing.T) {
	c, captured := geminiServer(t, http.StatusOK, textReply(t, "no pixels today"))

	_, err := c.GenerateAsset(context.Background(), "avocado", true)
	assert.ErrorIs(t, err, ErrNoImage)

	req := (*captured)[0]
	assert.Equal(t, "1:1", req.Body.GenerationConfig.ImageConfig.AspectRatio)
	assert.Contains(t, req.Body.Contents[0].Parts[0].Text, "pure black background")
}
