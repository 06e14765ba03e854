package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/SenQii/securejoin/internal/app"
	"github.com/SenQii/securejoin/internal/backend"
	"github.com/SenQii/securejoin/internal/config"
	"github.com/SenQii/securejoin/internal/domain"
	"github.com/SenQii/securejoin/internal/infra/localstore"
	"github.com/SenQii/securejoin/internal/infra/memory"
	redisstore "github.com/SenQii/securejoin/internal/infra/redis"
	"github.com/redis/go-redis/v9"
)

const defaultAPIBaseURL = "http://localhost:3000"

// openStore picks the state store: Redis when configured, otherwise a JSON
// file next to the user's home directory.
func openStore(cfg config.Config) (app.Store, error) {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisstore.NewStore(client, 0), nil
	}

	path := cfg.Storage.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".securejoin", "state.json")
	}
	return localstore.Open(path)
}

// newBackend builds the API client, fronted by the requirements cache so
// repeated link checks in one process stay local.
func newBackend(cfg config.Config) app.Backend {
	client := backend.NewClient(
		baseURLOr(cfg, defaultAPIBaseURL),
		cfg.API.AccessToken,
		config.Duration(cfg.API.Timeout, 10*time.Second),
	)
	ttl := config.Duration(cfg.Cache.RequirementsTTL, 5*time.Minute)
	return &cachedBackend{
		Backend: client,
		cache:   memory.NewRequirementsCache(client, ttl),
	}
}

func baseURLOr(cfg config.Config, fallback string) string {
	if cfg.API.BaseURL != "" {
		return cfg.API.BaseURL
	}
	return fallback
}

func attemptConfig(cfg config.Config) app.AttemptConfig {
	return app.AttemptConfig{
		MaxAttempts: cfg.Limits.MaxAttempts,
		BanDuration: config.Duration(cfg.Limits.BanDuration, 0),
	}
}

func sessionConfig(cfg config.Config) app.SessionConfig {
	return app.SessionConfig{
		CountryCode:    cfg.OTP.CountryCode,
		ResendCooldown: config.Duration(cfg.OTP.ResendCooldown, 0),
		Locale:         localeOr(cfg),
	}
}

func localeOr(cfg config.Config) string {
	if cfg.Locale != "" {
		return cfg.Locale
	}
	return "ar"
}

// cachedBackend routes requirement lookups through the TTL cache and passes
// everything else straight to the API client.
type cachedBackend struct {
	app.Backend
	cache *memory.RequirementsCache
}

func (b *cachedBackend) FetchRequirements(ctx context.Context, link string) (domain.Requirements, error) {
	return b.cache.FetchRequirements(ctx, link)
}
