// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config assembles the process configuration from the
// environment. Loading an optional .env file is left to the command
// layer; this package reads only what is already in the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the complete runtime configuration of the server.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// DatabaseURL is the postgres connection string. Empty selects the
	// in-memory store.
	DatabaseURL string
	// SessionSecret signs and encrypts the session cookie.
	SessionSecret string
	// Production hardens the session cookie (Secure flag, Domain).
	Production bool

	CookieName   string
	CookieDomain string
	SessionTTL   time.Duration

	// SupportedLocales are the UI locales offered to browsers, most
	// preferred first. DefaultLocale must be among them.
	SupportedLocales []string
	DefaultLocale    string
}

// FromEnv builds a Config from the environment, applying defaults for
// everything optional. The session secret is the one required value.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:             envOr("ADDR", ":3000"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		Production:       os.Getenv("ENV") == "production",
		CookieName:       envOr("SESSION_COOKIE_NAME", "__session"),
		CookieDomain:     os.Getenv("SESSION_COOKIE_DOMAIN"),
		SessionTTL:       365 * 24 * time.Hour,
		SupportedLocales: []string{"en", "fr"},
		DefaultLocale:    "en",
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			seconds, serr := strconv.Atoi(v)
			if serr != nil {
				return Config{}, fmt.Errorf("config: invalid SESSION_TTL %q: %w", v, err)
			}
			ttl = time.Duration(seconds) * time.Second
		}
		cfg.SessionTTL = ttl
	}
	if v := os.Getenv("LOCALES"); v != "" {
		cfg.SupportedLocales = splitList(v)
		cfg.DefaultLocale = cfg.SupportedLocales[0]
	}
	if v := os.Getenv("DEFAULT_LOCALE"); v != "" {
		cfg.DefaultLocale = v
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("config: SESSION_SECRET is required")
	}
	if !contains(cfg.SupportedLocales, cfg.DefaultLocale) {
		return Config{}, fmt.Errorf("config: default locale %q is not in LOCALES", cfg.DefaultLocale)
	}
	return cfg, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
