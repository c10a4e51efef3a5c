package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures the content-generation provider.
type Config struct {
	// Provider is one of "openai", "anthropic", "gemini", "openrouter", "mock".
	Provider string

	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds a single request. Default: 60s.
	Timeout time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional, for OpenAI-compatible endpoints.
}

type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with default models for every provider.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Timeout:    60 * time.Second,
	}
}

// ConfigFromEnv layers VOCABZ_* variables over DefaultConfig. When no
// provider is named explicitly, the first standard API key variable found
// (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY)
// picks it.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.OpenAI.APIKey = firstEnv("VOCABZ_OPENAI_API_KEY", "OPENAI_API_KEY")
	cfg.Anthropic.APIKey = firstEnv("VOCABZ_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	cfg.Gemini.APIKey = firstEnv("VOCABZ_GEMINI_API_KEY", "GEMINI_API_KEY")
	cfg.OpenRouter.APIKey = firstEnv("VOCABZ_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")

	if m := os.Getenv("VOCABZ_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("VOCABZ_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}
	if m := os.Getenv("VOCABZ_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}
	if m := os.Getenv("VOCABZ_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}
	if m := os.Getenv("VOCABZ_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	if p := os.Getenv("VOCABZ_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
		return cfg
	}
	switch {
	case cfg.OpenAI.APIKey != "":
		cfg.Provider = "openai"
	case cfg.Anthropic.APIKey != "":
		cfg.Provider = "anthropic"
	case cfg.Gemini.APIKey != "":
		cfg.Provider = "gemini"
	case cfg.OpenRouter.APIKey != "":
		cfg.Provider = "openrouter"
	}
	return cfg
}

// WithModel returns a copy of c whose active provider uses model.
func (c Config) WithModel(model string) Config {
	if model == "" {
		return c
	}
	switch c.Provider {
	case "openai":
		c.OpenAI.Model = model
	case "anthropic":
		c.Anthropic.Model = model
	case "gemini":
		c.Gemini.Model = model
	case "openrouter":
		c.OpenRouter.Model = model
	}
	return c
}

// WithAPIKey returns a copy of c whose active provider uses key.
func (c Config) WithAPIKey(key string) Config {
	if key == "" {
		return c
	}
	switch c.Provider {
	case "openai":
		c.OpenAI.APIKey = key
	case "anthropic":
		c.Anthropic.APIKey = key
	case "gemini":
		c.Gemini.APIKey = key
	case "openrouter":
		c.OpenRouter.APIKey = key
	}
	return c
}

// ActiveModel returns the configured model of the selected provider.
func (c Config) ActiveModel() string {
	switch c.Provider {
	case "openai":
		return resolveModel(c.OpenAI.Model, openaiModels)
	case "anthropic":
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case "gemini":
		return resolveModel(c.Gemini.Model, geminiModels)
	case "openrouter":
		return c.OpenRouter.Model
	case "mock":
		return "mock"
	}
	return ""
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "openai":
		key = c.OpenAI.APIKey
	case "anthropic":
		key = c.Anthropic.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("an API key is required for the %s provider", c.Provider)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
