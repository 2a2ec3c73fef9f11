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
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	AlertSubject      string
	JWTSecret         string
	TokenTTL          time.Duration
	MLServiceURL      string
	MLPredictTimeout  time.Duration
	MLBatchTimeout    time.Duration
	AnalyticsCacheTTL time.Duration
	UploadMaxMB       int
	ImportMaxRows     int
	AIProvider        string
	OpenAIAPIKey      string
	CORSAllowOrigins  string
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
	v.SetEnvPrefix("OMNIVION")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Omnivion API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ml.url", "http://localhost:5000")
	v.SetDefault("ml.predict_timeout", "30s")
	v.SetDefault("ml.batch_timeout", "90s")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("analytics.cache_ttl", "5m")
	v.SetDefault("upload.max_mb", 10)
	v.SetDefault("import.max_rows", 50000)
	v.SetDefault("alert.subject", "omnivion.alerts.high-risk")
	v.SetDefault("ai.provider", "openai")

	parseDuration := func(key string) (time.Duration, error) {
		parsed, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return parsed, nil
	}

	predictTimeout, err := parseDuration("ml.predict_timeout")
	if err != nil {
		return Config{}, err
	}
	batchTimeout, err := parseDuration("ml.batch_timeout")
	if err != nil {
		return Config{}, err
	}
	tokenTTL, err := parseDuration("token.ttl")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration("analytics.cache_ttl")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		AlertSubject:      v.GetString("alert.subject"),
		JWTSecret:         v.GetString("jwt.secret"),
		TokenTTL:          tokenTTL,
		MLServiceURL:      v.GetString("ml.url"),
		MLPredictTimeout:  predictTimeout,
		MLBatchTimeout:    batchTimeout,
		AnalyticsCacheTTL: cacheTTL,
		UploadMaxMB:       v.GetInt("upload.max_mb"),
		ImportMaxRows:     v.GetInt("import.max_rows"),
		AIProvider:        strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		CORSAllowOrigins:  v.GetString("cors.allow_origins"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 10
	}

	return cfg, nil
}
