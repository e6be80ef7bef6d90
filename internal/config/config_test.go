package config

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Germanaz0/phpconfar/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "FETCH_TIMEOUT", "EVENBRITE_URL", "EVENTIOZ_URL", "CORS_ORIGINS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.StoreDriver != DriverPostgres {
		t.Fatalf("expected postgres driver, got %q", cfg.StoreDriver)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Fatalf("expected 15s fetch timeout, got %v", cfg.FetchTimeout)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 default origins, got %v", cfg.CORSOrigins)
	}
	if len(cfg.SourceURLs()) != 0 {
		t.Fatalf("expected no source urls, got %v", cfg.SourceURLs())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/attendees.db")
	t.Setenv("EVENBRITE_URL", "https://evenbrite.test/a")
	t.Setenv("EVENTIOZ_URL", "https://eventioz.test/r")
	t.Setenv("FETCH_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.StoreDriver)
	}
	urls := cfg.SourceURLs()
	if urls[domain.SourceEvenbrite] != "https://evenbrite.test/a" || urls[domain.SourceEventioz] != "https://eventioz.test/r" {
		t.Fatalf("unexpected urls: %v", urls)
	}
	if cfg.FetchTimeout != 2*time.Second {
		t.Fatalf("expected 2s timeout, got %v", cfg.FetchTimeout)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestParseEnvFile(t *testing.T) {
	t.Setenv("PHPCONFAR_PRESET", "kept")
	os.Unsetenv("PHPCONFAR_QUOTED")
	os.Unsetenv("PHPCONFAR_EXPORTED")
	t.Cleanup(func() {
		os.Unsetenv("PHPCONFAR_QUOTED")
		os.Unsetenv("PHPCONFAR_EXPORTED")
	})

	input := strings.Join([]string{
		"\ufeff# comment",
		`PHPCONFAR_QUOTED="hello world"`,
		"export PHPCONFAR_EXPORTED=yes",
		"PHPCONFAR_PRESET=overwritten",
		"not a pair",
	}, "\n")

	buf := &bytes.Buffer{}
	if err := parseEnvFile(log.New(buf, "", 0), strings.NewReader(input)); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := os.Getenv("PHPCONFAR_QUOTED"); got != "hello world" {
		t.Fatalf("expected unquoted value, got %q", got)
	}
	if got := os.Getenv("PHPCONFAR_EXPORTED"); got != "yes" {
		t.Fatalf("expected exported value, got %q", got)
	}
	if got := os.Getenv("PHPCONFAR_PRESET"); got != "kept" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}
