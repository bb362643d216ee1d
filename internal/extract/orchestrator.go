// Package extract implements the resume-extraction orchestrator: a
// prioritized matrix of (API key, model configuration) attempts against the
// primary provider, a single secondary-provider fallback, a local regex
// fallback and a static safety net. It never fails: every call yields a raw
// JSON object for normalization.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/linklift/linklift/internal/llm"
	"github.com/linklift/linklift/internal/profile"
)

// Default timeout budget. The attempt matrix is sequential, so without a
// ceiling a saturated upstream turns into minutes of user-facing latency.
const (
	DefaultAttemptTimeout = 20 * time.Second
	DefaultOverallTimeout = 90 * time.Second
)

// ProviderFactory builds a primary-provider client for one API key.
type ProviderFactory func(ctx context.Context, apiKey string) (llm.Provider, error)

// FallbackProvider is the secondary extraction provider, called exactly once
// when the primary matrix is exhausted.
type FallbackProvider interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// Attempt is one entry of the flattened (key × model config) matrix.
type Attempt struct {
	KeyIndex int
	APIKey   string
	Config   llm.ModelConfig
}

// BuildAttempts flattens keys and model configurations into the exact
// priority order: every config for the first key, then every config for the
// second key, and so on.
func BuildAttempts(keys []string, configs []llm.ModelConfig) []Attempt {
	attempts := make([]Attempt, 0, len(keys)*len(configs))
	for i, key := range keys {
		for _, cfg := range configs {
			attempts = append(attempts, Attempt{KeyIndex: i, APIKey: key, Config: cfg})
		}
	}
	return attempts
}

// Options configures an Orchestrator.
type Options struct {
	GeminiKeys     []string
	Configs        []llm.ModelConfig // defaults to llm.DefaultModelConfigs
	NewProvider    ProviderFactory   // defaults to llm.NewGemini
	Fallback       FallbackProvider  // nil when no secondary provider is configured
	AttemptTimeout time.Duration
	OverallTimeout time.Duration
}

// Orchestrator runs the extraction tiers in strict priority order.
type Orchestrator struct {
	keys           []string
	configs        []llm.ModelConfig
	newProvider    ProviderFactory
	fallback       FallbackProvider
	attemptTimeout time.Duration
	overallTimeout time.Duration
}

// New creates an Orchestrator, applying defaults for unset options.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		keys:           opts.GeminiKeys,
		configs:        opts.Configs,
		newProvider:    opts.NewProvider,
		fallback:       opts.Fallback,
		attemptTimeout: opts.AttemptTimeout,
		overallTimeout: opts.OverallTimeout,
	}
	if o.configs == nil {
		o.configs = llm.DefaultModelConfigs()
	}
	if o.newProvider == nil {
		o.newProvider = func(ctx context.Context, apiKey string) (llm.Provider, error) {
			return llm.NewGemini(ctx, apiKey)
		}
	}
	if o.attemptTimeout <= 0 {
		o.attemptTimeout = DefaultAttemptTimeout
	}
	if o.overallTimeout <= 0 {
		o.overallTimeout = DefaultOverallTimeout
	}
	return o
}

// Extract runs the full tier ladder over the resume text. The returned map is
// never nil. The returned Identity holds the local scan results when the AI
// tiers failed, for use as normalization hints; it is zero on AI success.
func (o *Orchestrator) Extract(ctx context.Context, resumeText string) (map[string]any, profile.Identity) {
	ctx, cancel := context.WithTimeout(ctx, o.overallTimeout)
	defer cancel()

	result := o.tryPrimary(ctx, resumeText)

	if result == nil && o.fallback != nil {
		result = o.tryFallback(ctx, resumeText)
	}

	if result != nil {
		if err := profile.CheckSchema(result); err != nil {
			log.Printf("[AI] %v", err)
		}
		return result, profile.Identity{}
	}

	log.Printf("[AI] All providers exhausted. Running local identity scan.")
	identity := ExtractIdentity(resumeText)
	return SafetyNet(identity), identity
}

// tryPrimary folds over the (key × config) matrix, stopping at the first
// attempt that yields a parseable object.
func (o *Orchestrator) tryPrimary(ctx context.Context, resumeText string) map[string]any {
	attempts := BuildAttempts(o.keys, o.configs)

	providers := make(map[int]llm.Provider)
	defer func() {
		for _, p := range providers {
			_ = p.Close()
		}
	}()

	for _, attempt := range attempts {
		provider, ok := providers[attempt.KeyIndex]
		if !ok {
			var err error
			provider, err = o.newProvider(ctx, attempt.APIKey)
			if err != nil {
				log.Printf("[AI] Failed to create provider for key %d: %v", attempt.KeyIndex, err)
				providers[attempt.KeyIndex] = unusableProvider{}
				continue
			}
			providers[attempt.KeyIndex] = provider
		}
		if _, bad := provider.(unusableProvider); bad {
			continue
		}

		if result := o.tryAttempt(ctx, provider, attempt, resumeText); result != nil {
			log.Printf("[AI] Success with %s (key %d)", attempt.Config.Name, attempt.KeyIndex)
			return result
		}
	}
	return nil
}

// tryAttempt executes one attempt under the per-attempt timeout, applying the
// outcome policy: rate-limit and not-found skip ahead, everything else gets
// one desperation retry without output constraints.
func (o *Orchestrator) tryAttempt(ctx context.Context, provider llm.Provider, attempt Attempt, resumeText string) map[string]any {
	log.Printf("[AI] Attempting %s on %s (key %d)", attempt.Config.Name, attempt.Config.APIVersion, attempt.KeyIndex)

	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	text, err := provider.Generate(attemptCtx, attempt.Config, buildPrompt(resumeText))
	cancel()

	if err == nil {
		result, parseErr := parseObject(text)
		if parseErr == nil {
			return result
		}
		err = parseErr
	}

	switch llm.Classify(err) {
	case llm.ClassRateLimited:
		log.Printf("[AI] %s (%s) quota exceeded, trying next config", attempt.Config.Name, attempt.Config.APIVersion)
		return nil
	case llm.ClassNotFound:
		log.Printf("[AI] %s (%s) not found, skipping", attempt.Config.Name, attempt.Config.APIVersion)
		return nil
	}

	log.Printf("[AI] %s (%s) failed (%v), trying desperation mode", attempt.Config.Name, attempt.Config.APIVersion, err)

	// Same model, no schema or JSON mode, minimal prompt.
	plainCfg := llm.ModelConfig{Name: attempt.Config.Name, APIVersion: attempt.Config.APIVersion}
	retryCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	text, err = provider.Generate(retryCtx, plainCfg, buildDesperationPrompt(resumeText))
	cancel()
	if err != nil {
		log.Printf("[AI] %s (%s) complete failure", attempt.Config.Name, attempt.Config.APIVersion)
		return nil
	}

	result, parseErr := parseObject(text)
	if parseErr != nil {
		log.Printf("[AI] %s (%s) complete failure", attempt.Config.Name, attempt.Config.APIVersion)
		return nil
	}
	return result
}

// tryFallback issues the single secondary-provider call. Any failure gives up
// on the provider entirely.
func (o *Orchestrator) tryFallback(ctx context.Context, resumeText string) map[string]any {
	log.Printf("[AI] Primary provider exhausted. Attempting secondary provider...")

	fallbackCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	content, err := o.fallback.CompleteJSON(fallbackCtx, groqSystemPrompt, buildGroqUserPrompt(resumeText))
	if err != nil {
		log.Printf("[AI] Secondary provider failed: %v", err)
		return nil
	}

	result, parseErr := parseObject(content)
	if parseErr != nil {
		log.Printf("[AI] Secondary provider returned unparseable output: %v", parseErr)
		return nil
	}
	log.Printf("[AI] Success with secondary provider")
	return result
}

// parseObject strips code fences and decodes the response into a JSON object.
func parseObject(text string) (map[string]any, error) {
	cleaned := llm.CleanJSONBlock(text)
	var result map[string]any
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("response decoded to null")
	}
	return result, nil
}

// unusableProvider marks a key whose client could not be constructed, so its
// remaining configs are skipped without re-dialing.
type unusableProvider struct{}

func (unusableProvider) Generate(context.Context, llm.ModelConfig, string) (string, error) {
	return "", fmt.Errorf("provider unavailable")
}

func (unusableProvider) Close() error { return nil }
