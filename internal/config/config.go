// internal/config/config.go
//
// Process configuration.
// A .env file in the working directory is loaded first (if present), then
// environment variables are parsed into Config with defaults suitable for
// local development.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/wordgame/internal/game"
)

// Config holds everything the commands need.
type Config struct {
	Port         string        `env:"PORT"             envDefault:"5175"`
	LogLevel     string        `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat    string        `env:"LOG_FORMAT"       envDefault:"json"`
	ClientOrigin string        `env:"CLIENT_ORIGIN"    envDefault:"http://localhost:5173"`
	DBPath       string        `env:"DB_PATH"          envDefault:"./data/wordgame.db"`
	WordsDir     string        `env:"WORDS_DIR"`
	WordsURL     string        `env:"WORDS_URL"`
	DefaultLen   int           `env:"DEFAULT_LENGTH"   envDefault:"6"`
	AttemptsRaw  string        `env:"WORD_ATTEMPTS"    envDefault:"5:6,6:7"`
	JWTSecret    string        `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"        envDefault:"24h"`
	DailySalt    string        `env:"DAILY_SALT"       envDefault:"local_dev_salt"`
	IdleTTL      time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	Env          string        `env:"APP_ENV"          envDefault:"development"`

	// Attempts is AttemptsRaw parsed.
	Attempts game.Rules
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.Env == "production" }

// Load reads .env (ignored when missing) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv parses the environment only.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	rules, err := game.ParseRules(cfg.AttemptsRaw)
	if err != nil {
		return cfg, fmt.Errorf("WORD_ATTEMPTS: %w", err)
	}
	cfg.Attempts = rules
	if cfg.DefaultLen < 1 {
		return cfg, fmt.Errorf("DEFAULT_LENGTH must be positive, got %d", cfg.DefaultLen)
	}
	return cfg, nil
}
