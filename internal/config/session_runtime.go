package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAccessTTL       = "15m"
	defaultRefreshTTL      = "168h"
	defaultJanitorInterval = "10m"
	defaultCookieSecure    = "false"
	defaultCookieSameSite  = "Lax"
	defaultCookiePath      = "/api/v1/auth"
	defaultAccessSecret    = "change-me-access-secret"
	defaultRefreshSecret   = "change-me-refresh-secret"
)

type SessionRuntimeConfig struct {
	AppEnv          string
	AccessSecret    string
	RefreshSecret   string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	JanitorInterval time.Duration
	CookieSecure    bool
	CookieSameSite  string
	CookiePath      string
}

func LoadSessionRuntimeConfig() (*SessionRuntimeConfig, error) {
	cfg := &SessionRuntimeConfig{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.AccessSecret = strings.TrimSpace(getEnv("JWT_ACCESS_SECRET", defaultAccessSecret))
	cfg.RefreshSecret = strings.TrimSpace(getEnv("JWT_REFRESH_SECRET", defaultRefreshSecret))

	var err error
	cfg.AccessTTL, err = parseDurationEnv("ACCESS_TOKEN_TTL", defaultAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TOKEN_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}

	cfg.JanitorInterval, err = parseDurationEnv("REVOCATION_PURGE_INTERVAL", defaultJanitorInterval)
	if err != nil {
		return nil, err
	}

	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.CookieSameSite = strings.TrimSpace(getEnv("COOKIE_SAMESITE", defaultCookieSameSite))
	cfg.CookiePath = strings.TrimSpace(getEnv("COOKIE_PATH", defaultCookiePath))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *SessionRuntimeConfig) error {
	if cfg.AccessTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be > 0")
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL")
	}
	if cfg.JanitorInterval <= 0 {
		return fmt.Errorf("REVOCATION_PURGE_INTERVAL must be > 0")
	}
	if cfg.CookiePath == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	sameSite := strings.ToLower(strings.TrimSpace(cfg.CookieSameSite))
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.AccessSecret, defaultAccessSecret) {
			return fmt.Errorf("in prod/release JWT_ACCESS_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.RefreshSecret, defaultRefreshSecret) {
			return fmt.Errorf("in prod/release JWT_REFRESH_SECRET must be set and not default")
		}
		if cfg.AccessSecret == cfg.RefreshSecret {
			return fmt.Errorf("in prod/release access and refresh secrets must differ")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
