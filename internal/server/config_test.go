package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/immo-invest/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default body size, got %d", cfg.BodySizeBytes())
	}
	if cfg.DataDir != constants.DefaultDataDir {
		t.Fatalf("expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.SessionLifetime() != constants.DefaultSessionTTLHours*time.Hour {
		t.Fatalf("unexpected session lifetime %v", cfg.SessionLifetime())
	}
	if cfg.MarketDataLatency() != 0 {
		t.Fatalf("expected no market latency, got %v", cfg.MarketDataLatency())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxBodySize: 1M
dataDir: /var/lib/immo
databaseUrl: postgres://immo@localhost/immo
redisAddr: localhost:6379
sessionTtl: 2h
secureCookies: true
marketLatency: 150ms
allowedOrigins:
  - http://localhost:5173
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.BodySizeBytes() != 1024*1024 {
		t.Fatalf("expected body size override, got %d", cfg.BodySizeBytes())
	}
	if cfg.DataDir != "/var/lib/immo" || cfg.DatabaseURL == "" || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("unexpected storage settings %+v", cfg)
	}
	if cfg.SessionLifetime() != 2*time.Hour {
		t.Fatalf("expected a 2h session lifetime, got %v", cfg.SessionLifetime())
	}
	if cfg.MarketDataLatency() != 150*time.Millisecond {
		t.Fatalf("expected 150ms market latency, got %v", cfg.MarketDataLatency())
	}
	if !cfg.SecureCookies || len(cfg.AllowedOrigins) != 1 {
		t.Fatalf("unexpected cookie/cors settings %+v", cfg)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" || cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("unexpected logging settings %+v", cfg.Logging)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"body size":      "maxBodySize: invalid",
		"session ttl":    "sessionTtl: forever",
		"market latency": "marketLatency: slow",
		"yaml":           "address: [unterminated",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected an error but got nil")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv(EnvAddress, ":9999")
	t.Setenv(EnvDataDir, "/srv/immo")
	t.Setenv(EnvDatabaseURL, "postgres://db/immo")
	t.Setenv(EnvRedisAddr, "")

	cfg.RedisAddr = "from-file:6379"
	cfg.ApplyEnv()

	if cfg.Address != ":9999" || cfg.DataDir != "/srv/immo" || cfg.DatabaseURL != "postgres://db/immo" {
		t.Errorf("environment not applied: %+v", cfg)
	}
	if cfg.RedisAddr != "from-file:6379" {
		t.Errorf("empty variable overrode the file value: %s", cfg.RedisAddr)
	}
}

func TestSetBodySizeBytes(t *testing.T) {
	cfg := defaultConfig()
	cfg.SetBodySizeBytes(0)
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Errorf("zero size changed the limit to %d", cfg.BodySizeBytes())
	}
	cfg.SetBodySizeBytes(4096)
	if cfg.BodySizeBytes() != 4096 || cfg.MaxBodySize != "4096" {
		t.Errorf("unexpected limit %d / %s", cfg.BodySizeBytes(), cfg.MaxBodySize)
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxBodySizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	for _, invalid := range []string{"1G", "1TB", "abc"} {
		if _, err := ParseSize(invalid); err == nil {
			t.Errorf("expected an error for %q", invalid)
		}
	}
}
