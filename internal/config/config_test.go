package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ARK_MOCK", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected http defaults: %+v", cfg)
	}
	if cfg.GenerationTemperature != 0.7 || cfg.GenerationMaxRetries != 2 {
		t.Fatalf("unexpected generation defaults: %v %d", cfg.GenerationTemperature, cfg.GenerationMaxRetries)
	}
	if cfg.PosterRetention != 5*time.Minute || cfg.PosterSweepInterval != time.Minute {
		t.Fatalf("unexpected poster defaults: %v %v", cfg.PosterRetention, cfg.PosterSweepInterval)
	}
	if cfg.StoreDriver != StoreMemory || cfg.TraceExporter != TraceNone {
		t.Fatalf("unexpected driver defaults: %s %s", cfg.StoreDriver, cfg.TraceExporter)
	}
}

func TestLoadTrimsBaseURL(t *testing.T) {
	t.Setenv("ARK_MOCK", "true")
	t.Setenv("BASE_URL", "https://reel.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "https://reel.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
}

func TestLoadRejectsBadSettings(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"parse error", map[string]string{"ARK_MOCK": "true", "ARK_TIMEOUT": "soon"}, "parse env:"},
		{"store driver", map[string]string{"ARK_MOCK": "true", "STORE_DRIVER": "mongo"}, "STORE_DRIVER"},
		{"postgres dsn", map[string]string{"ARK_MOCK": "true", "STORE_DRIVER": "postgres", "STORE_DSN": ""}, "STORE_DSN"},
		{"trace exporter", map[string]string{"ARK_MOCK": "true", "TRACE_EXPORTER": "jaeger"}, "TRACE_EXPORTER"},
		{"retries", map[string]string{"ARK_MOCK": "true", "GENERATION_MAX_RETRIES": "-1"}, "GENERATION_MAX_RETRIES"},
		{"api key", map[string]string{"ARK_MOCK": "false", "ARK_API_KEY": ""}, "ARK_API_KEY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestInitLoggingWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := logrus.New()

	closer, err := InitLogging(log, Config{LogLevel: "debug", LogFormat: "json", LogFile: path})
	if err != nil {
		t.Fatalf("init logging: %v", err)
	}
	log.WithField("component", "test").Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !bytes.Contains(data, []byte(`"msg":"hello"`)) || !bytes.Contains(data, []byte(`"component":"test"`)) {
		t.Fatalf("unexpected log contents: %s", data)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level")
	}
}

func TestInitLoggingRejectsLevel(t *testing.T) {
	if _, err := InitLogging(logrus.New(), Config{LogLevel: "loud"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LOVEREEL_DOTENV_TEST=from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("LOVEREEL_DOTENV_TEST") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("LOVEREEL_DOTENV_TEST"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file must be skipped, got %v", err)
	}
}
