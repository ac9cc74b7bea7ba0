package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const minSecretLen = 32

type Config struct {
	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RefreshStoreTTL time.Duration

	PasswordPepper string

	GoogleClientID      string
	GoogleVerifyTimeout time.Duration

	HTTPAddress      string
	AllowedOrigins   []string
	AllowCredentials bool

	LogLevel string
}

var required = []string{
	"DATABASE_URL",
	"REDIS_ADDRESS",
	"JWT_SECRET",
}

// Load reads the configuration from the environment, an optional .env file
// and an optional config.json in the working directory. Environment wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("ACCESS_TOKEN_TTL", time.Hour)
	v.SetDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	v.SetDefault("REFRESH_STORE_TTL", 7*24*time.Hour)
	v.SetDefault("GOOGLE_VERIFY_TIMEOUT", 10*time.Second)
	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "debug")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var problems []string
	for _, key := range required {
		if strings.TrimSpace(v.GetString(key)) == "" {
			problems = append(problems, key+" is required")
		}
	}

	cfg := &Config{
		DatabaseURL:         v.GetString("DATABASE_URL"),
		RedisAddress:        v.GetString("REDIS_ADDRESS"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		AccessTokenTTL:      v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:     v.GetDuration("REFRESH_TOKEN_TTL"),
		RefreshStoreTTL:     v.GetDuration("REFRESH_STORE_TTL"),
		PasswordPepper:      v.GetString("PASSWORD_PEPPER"),
		GoogleClientID:      v.GetString("GOOGLE_CLIENT_ID"),
		GoogleVerifyTimeout: v.GetDuration("GOOGLE_VERIFY_TIMEOUT"),
		HTTPAddress:         v.GetString("HTTP_ADDRESS"),
		AllowCredentials:    v.GetBool("ALLOW_CREDENTIALS"),
		LogLevel:            v.GetString("LOG_LEVEL"),
	}

	origins, err := parseList(v.GetString("ALLOWED_ORIGINS"))
	if err != nil {
		problems = append(problems, "ALLOWED_ORIGINS: "+err.Error())
	}
	cfg.AllowedOrigins = origins

	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < minSecretLen {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d bytes", minSecretLen))
	}
	if cfg.AccessTokenTTL <= 0 {
		problems = append(problems, "ACCESS_TOKEN_TTL must be positive")
	}
	if cfg.RefreshTokenTTL <= 0 {
		problems = append(problems, "REFRESH_TOKEN_TTL must be positive")
	}
	if cfg.RefreshStoreTTL <= 0 {
		problems = append(problems, "REFRESH_STORE_TTL must be positive")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// parseList accepts either a JSON array or a comma separated list.
func parseList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
