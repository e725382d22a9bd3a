package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	EvalSubject         string
	JWTSecret           string
	OpenAIAPIKey        string
	AIModel             string
	AITemperature       float32
	AIMaxTokens         int
	EvalMaxAttempts     int
	EvalBackoffBase     time.Duration
	EvalCallTimeout     time.Duration
	EvalWorkers         int
	LeaderboardCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LASTRESORT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "lastresort API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("eval.subject", "lastresort.evaluations")
	v.SetDefault("ai.model", "gpt-4o")
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.max_tokens", 1000)
	v.SetDefault("eval.max_attempts", 3)
	v.SetDefault("eval.backoff_base", "1s")
	v.SetDefault("eval.call_timeout", "30s")
	v.SetDefault("eval.workers", 4)
	v.SetDefault("leaderboard.cache_ttl", "1m")

	backoff, err := time.ParseDuration(v.GetString("eval.backoff_base"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation backoff base: %w", err)
	}

	callTimeout, err := time.ParseDuration(v.GetString("eval.call_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation call timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("leaderboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid leaderboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		EvalSubject:         v.GetString("eval.subject"),
		JWTSecret:           v.GetString("jwt.secret"),
		OpenAIAPIKey:        v.GetString("openai_api_key"),
		AIModel:             v.GetString("ai.model"),
		AITemperature:       float32(v.GetFloat64("ai.temperature")),
		AIMaxTokens:         v.GetInt("ai.max_tokens"),
		EvalMaxAttempts:     v.GetInt("eval.max_attempts"),
		EvalBackoffBase:     backoff,
		EvalCallTimeout:     callTimeout,
		EvalWorkers:         v.GetInt("eval.workers"),
		LeaderboardCacheTTL: cacheTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.EvalMaxAttempts <= 0 {
		cfg.EvalMaxAttempts = 3
	}

	if cfg.EvalWorkers <= 0 {
		cfg.EvalWorkers = 4
	}

	return cfg, nil
}
