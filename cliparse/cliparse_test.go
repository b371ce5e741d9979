// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "file:bmm.db")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	os.Setenv("SCANNER_TOKEN_SALT", "test-scanner")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-scanner-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_MissingSecrets(t *testing.T) {
	os.Clearenv()

	if _, err := ParseFlags([]string{"-d", "file:test.db"}); err == nil {
		t.Error("expected error when ADMIN_KEY_SALT missing")
	}

	if _, err := ParseFlags([]string{"-d", "file:test.db", "-admin-salt", "s1"}); err == nil {
		t.Error("expected error when SCANNER_TOKEN_SALT missing")
	}
}

func TestParseFlags_MissingDatabaseURL(t *testing.T) {
	os.Clearenv()

	if _, err := ParseFlags([]string{"-admin-salt", "s1", "-scanner-salt", "s2"}); err == nil {
		t.Error("expected error when database URL missing")
	}
}

func TestParseFlags_InvalidDatabaseType(t *testing.T) {
	os.Clearenv()

	_, err := ParseFlags([]string{"-d", "x", "-t", "oracle", "-admin-salt", "s1", "-scanner-salt", "s2"})
	if err == nil {
		t.Error("expected error for unsupported database type")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-admin-salt", "s1", "-scanner-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 4480 {
		t.Errorf("expected default port 4480, got %d", cfg.Port)
	}
	if cfg.BaseURL == "" {
		t.Error("expected default base URL")
	}
	if cfg.EventName == "" {
		t.Error("expected default event name")
	}
}
