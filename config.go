package chat

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds configuration loaded from environment variables.
type Config struct {
	DatabaseURL        string
	RedisAddr          string
	GeminiAPIKey       string
	GeminiModel        string
	GroqAPIKey         string
	GroqModel          string
	SystemPrompt       string
	ContextMaxMessages int
	ContextTTL         time.Duration
	ProviderTimeout    time.Duration
	HTTPAddr           string
}

// LoadConfig reads configuration from environment variables with
// sensible defaults. Providers without an API key set are left
// unconfigured and skipped at wiring time.
func LoadConfig() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GROQ_MODEL", "llama-3.1-8b-instant")
	v.SetDefault("SYSTEM_PROMPT", "You are a helpful customer support agent.")
	v.SetDefault("CONTEXT_MAX_MESSAGES", 3)
	v.SetDefault("CONTEXT_TTL_SECONDS", 300)
	v.SetDefault("PROVIDER_TIMEOUT_SECONDS", 30)
	v.SetDefault("HTTP_ADDR", ":3000")

	return Config{
		DatabaseURL:        v.GetString("DATABASE_URL"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		GeminiModel:        v.GetString("GEMINI_MODEL"),
		GroqAPIKey:         v.GetString("GROQ_API_KEY"),
		GroqModel:          v.GetString("GROQ_MODEL"),
		SystemPrompt:       v.GetString("SYSTEM_PROMPT"),
		ContextMaxMessages: v.GetInt("CONTEXT_MAX_MESSAGES"),
		ContextTTL:         time.Duration(v.GetInt("CONTEXT_TTL_SECONDS")) * time.Second,
		ProviderTimeout:    time.Duration(v.GetInt("PROVIDER_TIMEOUT_SECONDS")) * time.Second,
		HTTPAddr:           v.GetString("HTTP_ADDR"),
	}
}
