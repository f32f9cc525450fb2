package domain

const unknownDescription = "Unknown"

// Provider identifies a chat backend.
type Provider string

// Available chat providers.
const (
	// ProviderOllama is a local Ollama instance.
	ProviderOllama Provider = "ollama"

	// ProviderOpenAI is the OpenAI cloud API.
	ProviderOpenAI Provider = "openai"

	// ProviderGemini is the Google Gemini cloud API.
	ProviderGemini Provider = "gemini"
)

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderOllama, ProviderOpenAI, ProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p Provider) RequiresAPIKey() bool {
	return p == ProviderOpenAI || p == ProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p Provider) IsLocal() bool {
	return p == ProviderOllama
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p Provider) Description() string {
	switch p {
	case ProviderOllama:
		return "Ollama (local)"
	case ProviderOpenAI:
		return "OpenAI (cloud)"
	case ProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// AllProviders returns the closed set of chat providers.
func AllProviders() []Provider {
	return []Provider{ProviderOllama, ProviderOpenAI, ProviderGemini}
}

// ChatSettings holds the user-adjustable chat preferences persisted
// between sessions. Provider selection and credentials come from the
// environment, not from here.
type ChatSettings struct {
	// Temperature is the default sampling temperature in [0.0, 1.0].
	Temperature float64

	// TopK is the number of chunks retrieved for RAG context.
	TopK int

	// RAGEnabled toggles retrieval-augmented answers.
	RAGEnabled bool
}

// DefaultChatSettings returns settings with sensible defaults.
func DefaultChatSettings() ChatSettings {
	return ChatSettings{
		Temperature: 0.7,
		TopK:        5,
		RAGEnabled:  true,
	}
}

// ClampTemperature clamps t into the supported [0.0, 1.0] range.
// Backends that do not support temperature ignore it rather than fail.
func ClampTemperature(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
