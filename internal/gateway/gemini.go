package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/google/uuid"
)

const (
	mealImageAspect = "16:9"
	assetAspect     = "1:1"
	maxErrorBody    = 2048
)

type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
}

// GeminiClient talks to the generateContent REST endpoint.
type GeminiClient struct {
	cfg    GeminiConfig
	client *http.Client
}

var (
	_ Gateway        = (*GeminiClient)(nil)
	_ ImageGenerator = (*GeminiClient)(nil)
)

func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GeminiClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio"`
}

type generationConfig struct {
	ResponseMimeType   string       `json:"responseMimeType,omitempty"`
	ResponseSchema     *schema      `json:"responseSchema,omitempty"`
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	ImageConfig        *imageConfig `json:"imageConfig,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (r *generateResponse) parts() []part {
	if len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0].Content.Parts
}

func (r *generateResponse) text() string {
	var b strings.Builder
	for _, p := range r.parts() {
		b.WriteString(p.Text)
	}
	return b.String()
}

func userContent(text string) []content {
	return []content{{Role: "user", Parts: []part{{Text: text}}}}
}

func (c *GeminiClient) generate(ctx context.Context, model string, body generateRequest) (*generateResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", ErrMalformedResponse, err)
	}
	if len(out.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	return &out, nil
}

// AnalyzeMeal returns the structured analysis without an image; the caller
// decides whether to attach one.
func (c *GeminiClient) AnalyzeMeal(ctx context.Context, req MealAnalysisRequest) (*models.MealAnalysis, error) {
	resp, err := c.generate(ctx, c.cfg.TextModel, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: analysisInstruction(req)}}},
		Contents:          userContent(analysisPrompt(req.Description)),
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema(),
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeAnalysis(resp.text())
}

var analysisRequired = []string{
	"mealName", "stats", "sustenanceScore", "goalAlignment", "metabolicFlexibility",
	"eliteAdjustment", "metabolicPrescription", "resourceRecipe", "insight",
}

func decodeAnalysis(text string) (*models.MealAnalysis, error) {
	raw := cleanJSON(text, '{', '}')

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, name := range analysisRequired {
		if v, ok := fields[name]; !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, name)
		}
	}

	var a models.MealAnalysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(a.MealName) == "" {
		return nil, fmt.Errorf("%w: empty mealName", ErrMalformedResponse)
	}
	// images are attached by the service
	a.VisualizationURL = ""
	a.SustenanceScore = clampScore(a.SustenanceScore)
	a.GoalAlignment = clampScore(a.GoalAlignment)
	return &a, nil
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(v, 100))
}

func (c *GeminiClient) GenerateShoppingList(ctx context.Context, plan []models.MealPlanEntry, pantry []models.PantryItem) ([]models.ShoppingItem, error) {
	resp, err := c.generate(ctx, c.cfg.TextModel, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: shoppingInstruction}}},
		Contents:          userContent(shoppingPrompt(plan, pantry)),
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   shoppingSchema(),
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeShoppingList(resp.text())
}

// decodeShoppingList assigns fresh IDs where the model repeats or omits
// them.
func decodeShoppingList(text string) ([]models.ShoppingItem, error) {
	var items []models.ShoppingItem
	if err := json.Unmarshal([]byte(cleanJSON(text, '[', ']')), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := make([]models.ShoppingItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			continue
		}
		if it.ID == "" || seen[it.ID] {
			it.ID = uuid.NewString()
		}
		seen[it.ID] = true
		if strings.TrimSpace(it.Category) == "" {
			it.Category = "Other"
		}
		out = append(out, it)
	}
	return out, nil
}

func (c *GeminiClient) GenerateMealImage(ctx context.Context, mealName string) (string, error) {
	return c.image(ctx, mealImagePrompt(mealName), mealImageAspect)
}

func (c *GeminiClient) GenerateAsset(ctx context.Context, subject string, evening bool) (string, error) {
	return c.image(ctx, assetPrompt(subject, evening), assetAspect)
}

func (c *GeminiClient) image(ctx context.Context, prompt, aspect string) (string, error) {
	resp, err := c.generate(ctx, c.cfg.ImageModel, generateRequest{
		Contents: userContent(prompt),
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &imageConfig{AspectRatio: aspect},
		},
	})
	if err != nil {
		return "", err
	}
	for _, p := range resp.parts() {
		if p.InlineData != nil && p.InlineData.Data != "" {
			mime := p.InlineData.MimeType
			if mime == "" {
				mime = "image/png"
			}
			return "data:" + mime + ";base64," + p.InlineData.Data, nil
		}
	}
	return "", ErrNoImage
}

// cleanJSON strips markdown fences and cuts to the outermost open/close pair.
func cleanJSON(s string, opening, closing byte) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, opening)
	end := strings.LastIndexByte(s, closing)
	if start != -1 && end > start {
		s = s[start : end+1]
	}
	return s
}
