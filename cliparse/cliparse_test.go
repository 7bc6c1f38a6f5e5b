// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")

	cfg, err := ParseFlags([]string{"-env", "testdata-missing.env"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-env", "testdata-missing.env"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("expected file:test.db, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_TYPE", "")

	cfg, err := ParseFlags([]string{"-env", "testdata-missing.env"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 3318 || cfg.DatabaseType != DatabaseSQLite || cfg.DatabaseURL == "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := ParseFlags([]string{"-t", "mysql", "-env", "testdata-missing.env"}); err == nil {
		t.Error("expected error for unknown database type")
	}
	if _, err := ParseFlags([]string{"-t", "postgres", "-env", "testdata-missing.env"}); err == nil {
		t.Error("expected error for postgres without URL")
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("DATABASE_URL", "")

	path := filepath.Join(t.TempDir(), "server.env")
	if err := os.WriteFile(path, []byte("PORT=7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 7070 {
		t.Errorf("expected port from env file, got %d", cfg.Port)
	}
}

func TestParseClientFlags(t *testing.T) {
	t.Setenv("STORE_URL", "http://store.test/exec")
	t.Setenv("TIMEOUT", "3s")

	cfg, rest, err := ParseClientFlags([]string{"-order", "female-first", "-env", "testdata-missing.env", "search", "AB1234"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StoreURL != "http://store.test/exec" || cfg.Timeout != 3*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.GroupOrder != "female-first" {
		t.Errorf("expected female-first, got %q", cfg.GroupOrder)
	}
	if len(rest) != 2 || rest[0] != "search" {
		t.Errorf("expected subcommand args, got %v", rest)
	}
}
