// Package llm provides the model clients and attempt configuration for
// resume extraction: a Gemini primary provider tried across several model
// configurations, and a Groq chat-completions fallback.
package llm

// APIVersion identifies the Gemini API protocol version a model is invoked
// through. JSON mode and response schemas are only honored on v1beta.
type APIVersion string

// Supported protocol versions.
const (
	APIVersionV1     APIVersion = "v1"
	APIVersionV1Beta APIVersion = "v1beta"
)

// ModelConfig is one primary-provider attempt configuration: which model to
// call and which output constraints to request.
type ModelConfig struct {
	Name       string
	APIVersion APIVersion
	UseSchema  bool
	JSONMode   bool
}

// SupportsStructuredOutput reports whether this configuration may request
// JSON mode or a response schema.
func (c ModelConfig) SupportsStructuredOutput() bool {
	return c.APIVersion == APIVersionV1Beta
}

// DefaultModelConfigs returns the fixed, priority-ordered list of Gemini
// configurations. Cheaper and faster models come first; the order is
// load-bearing for cost control and must not be reshuffled.
func DefaultModelConfigs() []ModelConfig {
	return []ModelConfig{
		{Name: "gemini-1.5-flash", APIVersion: APIVersionV1Beta, UseSchema: true, JSONMode: true},
		{Name: "gemini-1.5-pro", APIVersion: APIVersionV1Beta, UseSchema: true, JSONMode: true},
		{Name: "gemini-1.0-pro", APIVersion: APIVersionV1},
	}
}

// GroqModel is the single fixed model used for the secondary-provider
// fallback call.
const GroqModel = "llama-3.3-70b-versatile"
