package config

import (
	"os"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DEFAULT_LENGTH", "WORD_ATTEMPTS", "TOKEN_TTL", "SESSION_IDLE_TTL", "APP_ENV", "WORDS_DIR", "WORDS_URL"} {
		t.Setenv(k, "") // restores the old value after the test
		os.Unsetenv(k)
	}
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "5175" || cfg.DefaultLen != 6 || cfg.TokenTTL != 24*time.Hour || cfg.IdleTTL != 2*time.Hour {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Attempts.Attempts(5) != 6 || cfg.Attempts.Attempts(6) != 7 {
		t.Fatalf("attempts = %v", cfg.Attempts)
	}
	if cfg.Production() {
		t.Fatal("development is not production")
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_LENGTH", "5")
	t.Setenv("WORD_ATTEMPTS", "5:4, 7:9")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("APP_ENV", "production")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "9000" || cfg.DefaultLen != 5 || cfg.TokenTTL != 90*time.Minute || !cfg.Production() {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Attempts.Attempts(5) != 4 || cfg.Attempts.Attempts(7) != 9 || cfg.Attempts.Attempts(6) != 7 {
		t.Fatalf("attempts = %v", cfg.Attempts)
	}
}

func TestBadValues(t *testing.T) {
	cases := map[string][2]string{
		"rules":    {"WORD_ATTEMPTS", "five:six"},
		"length":   {"DEFAULT_LENGTH", "0"},
		"duration": {"TOKEN_TTL", "soon"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := FromEnv(); err == nil {
				t.Fatalf("%s=%q accepted", kv[0], kv[1])
			}
		})
	}
}
