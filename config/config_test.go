package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/user/bookshelf-go/config"
)

// configEnvVars lists every variable LoadConfig reads, so tests can start
// from a clean environment.
var configEnvVars = []string{
	"JWT_SECRET", "JWT_ALGORITHM", "ACCESS_TOKEN_DURATION", "DEFAULT_TOKEN_DURATION",
	"AUTH_USERNAME", "AUTH_PASSWORD", "AUTH_PASSWORD_HASH", "AUTH_FULL_NAME", "AUTH_EMAIL",
	"DATABASE_DRIVER", "DATABASE_DSN", "DATABASE_MAX_OPEN_CONNS", "MIGRATIONS_PATH",
	"PORT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		// t.Setenv registers restoration of the original value; unsetting
		// afterwards leaves the variable absent for this test only.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("AUTH_USERNAME", "alice")
	t.Setenv("AUTH_PASSWORD", "hunter2")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Auth.Algorithm != "HS256" {
		t.Fatalf("algorithm = %q, want HS256", cfg.Auth.Algorithm)
	}
	if cfg.Auth.AccessTokenDuration != 30*time.Minute {
		t.Fatalf("access token duration = %v, want 30m", cfg.Auth.AccessTokenDuration)
	}
	if cfg.Auth.DefaultTokenDuration != 15*time.Minute {
		t.Fatalf("default token duration = %v, want 15m", cfg.Auth.DefaultTokenDuration)
	}
	if cfg.Database.Driver != "sqlite3" || cfg.Database.DSN != "books.db" {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Database.MaxOpenConns != 10 {
		t.Fatalf("max open conns = %d, want 10", cfg.Database.MaxOpenConns)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Server.Port)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_DURATION", "1h")
	t.Setenv("AUTH_USERNAME", "alice")
	t.Setenv("AUTH_PASSWORD_HASH", "$2a$10$notarealdigest")
	t.Setenv("DATABASE_DRIVER", "pgx")
	t.Setenv("DATABASE_DSN", "postgres://localhost/books")
	t.Setenv("PORT", "9000")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.Algorithm != "HS512" {
		t.Fatalf("algorithm = %q", cfg.Auth.Algorithm)
	}
	if cfg.Auth.AccessTokenDuration != time.Hour {
		t.Fatalf("access token duration = %v", cfg.Auth.AccessTokenDuration)
	}
	if cfg.Database.Driver != "pgx" {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
}

func TestLoadConfig_CollectsAllErrors(t *testing.T) {
	clearEnv(t)
	// JWT_SECRET and AUTH_USERNAME missing, algorithm and driver invalid,
	// no password in either form: every problem must appear in one error.
	t.Setenv("JWT_ALGORITHM", "RS256")
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := config.LoadConfig()
	if err == nil {
		t.Fatal("expected an aggregate error")
	}
	for _, want := range []string{
		"JWT_SECRET",
		"AUTH_USERNAME",
		"JWT_ALGORITHM",
		"DATABASE_DRIVER",
		"AUTH_PASSWORD",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %s: %v", want, err)
		}
	}
}
