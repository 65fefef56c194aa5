package main

import (
	"context"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/meikuraledutech/chat"
	"github.com/meikuraledutech/chat/cache"
	"github.com/meikuraledutech/chat/gemini"
	"github.com/meikuraledutech/chat/groq"
	"github.com/meikuraledutech/chat/postgres"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := context.Background()

	cfg := chat.LoadConfig()

	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to postgres")
	}
	defer db.Close()

	store := postgres.New(db)
	if err := store.CreateSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("create schema")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	contextCache := cache.NewRedisCache(rdb,
		cache.WithMaxMessages(cfg.ContextMaxMessages),
		cache.WithTTL(cfg.ContextTTL),
	)

	// Priority order: Gemini first, Groq as fallback. Providers without
	// an API key are left out of the chain entirely.
	var providers []chat.Provider
	if cfg.GeminiAPIKey != "" {
		providers = append(providers, gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel))
	}
	if cfg.GroqAPIKey != "" {
		providers = append(providers, groq.New(cfg.GroqAPIKey, cfg.GroqModel))
	}

	router := chat.NewRouter(providers, cfg.ProviderTimeout, log)
	svc := chat.NewService(store, contextCache, router, cfg.SystemPrompt, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/message", handleMessage(svc, log))
	mux.HandleFunc("GET /chat/{sessionID}", handleHistory(svc, log))

	log.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
	if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
