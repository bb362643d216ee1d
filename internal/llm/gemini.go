package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Provider generates text from a prompt under one attempt configuration.
type Provider interface {
	Generate(ctx context.Context, cfg ModelConfig, prompt string) (string, error)
	Close() error
}

// GeminiClient implements Provider against the Gemini API with a single API
// key. The orchestrator constructs one client per key in the rotation.
type GeminiClient struct {
	client *genai.Client
}

// NewGemini creates a Gemini-backed provider for one API key.
func NewGemini(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Generate invokes the configured model and returns the raw response text.
// Structured-output constraints are applied only where the protocol version
// supports them. Failures are returned as *ProviderError.
func (c *GeminiClient) Generate(ctx context.Context, cfg ModelConfig, prompt string) (string, error) {
	model := c.client.GenerativeModel(cfg.Name)
	model.SetTemperature(0.1)
	model.SafetySettings = permissiveSafetySettings()

	if cfg.JSONMode && cfg.SupportsStructuredOutput() {
		model.ResponseMIMEType = "application/json"
	}
	if cfg.UseSchema && cfg.SupportsStructuredOutput() {
		model.ResponseSchema = profileResponseSchema()
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ProviderError{Class: Classify(err), Model: cfg.Name, Cause: err}
	}

	text, err := responseText(resp)
	if err != nil {
		return "", &ProviderError{Class: ClassOther, Model: cfg.Name, Cause: err}
	}
	return text, nil
}

// Close releases the underlying API connection.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// permissiveSafetySettings disables content blocking. Resume text routinely
// trips false positives on the default thresholds.
func permissiveSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, cat := range categories {
		settings = append(settings, &genai.SafetySetting{Category: cat, Threshold: genai.HarmBlockNone})
	}
	return settings
}

// profileResponseSchema mirrors profile.SchemaJSON in the provider's native
// schema type for strict-output requests.
func profileResponseSchema() *genai.Schema {
	stringType := &genai.Schema{Type: genai.TypeString}
	stringArray := &genai.Schema{Type: genai.TypeArray, Items: stringType}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":     stringType,
			"role":     stringType,
			"email":    stringType,
			"bio":      stringType,
			"github":   stringType,
			"linkedin": stringType,
			"skills":   stringArray,
			"score":    {Type: genai.TypeNumber},
			"experience": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"role":        stringType,
						"company":     stringType,
						"duration":    stringType,
						"description": stringType,
					},
					Required: []string{"role", "company", "description"},
				},
			},
			"projects": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":        stringType,
						"description":  stringType,
						"technologies": stringArray,
						"link":         stringType,
					},
					Required: []string{"title", "description"},
				},
			},
			"suggestions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"area":   stringType,
						"issue":  stringType,
						"advice": stringType,
					},
					Required: []string{"area", "issue", "advice"},
				},
			},
		},
		Required: []string{"name", "role", "skills", "experience", "projects", "score", "suggestions"},
	}
}

// responseText extracts the concatenated text parts from a Gemini response.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
