package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	testhelpers "instructions-hq/extractor/internal/providers"
	"instructions-hq/extractor/pkg/cli"
	"instructions-hq/extractor/pkg/config"
	"instructions-hq/extractor/pkg/telemetry/logging"
)

// execute runs the root command with fresh flag values and returns its
// stdout and exit code.
func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()

	cfgFile = ""
	runFlags.listenAddress, runFlags.logLevel, runFlags.dryRun = "", "", false
	validateFlags.secrets, validateFlags.ping, validateFlags.output = false, false, "text"
	versionFlags.output = "text"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	code := Execute()
	return out.String(), code
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	orig := Version
	Version = "1.2.3-test"
	defer func() { Version = orig }()

	out, code := execute(t, "version")
	if code != cli.ExitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "extractor 1.2.3-test") {
		t.Errorf("expected version line, got %q", out)
	}

	out, code = execute(t, "version", "--output", "json")
	if code != cli.ExitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got["version"] != "1.2.3-test" || got["go_version"] == "" || got["platform"] == "" {
		t.Errorf("unexpected version report %v", got)
	}

	if _, code := execute(t, "version", "--output", "xml"); code != cli.ExitConfig {
		t.Errorf("expected config exit code for bad format, got %d", code)
	}
}

func TestRunDryRun(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:0"
quota:
  daily_limit: 5
`)

	out, code := execute(t, "run", "--config", path, "--dry-run", "--log-level", "error")
	if code != cli.ExitOK {
		t.Fatalf("expected exit 0, got %d (%s)", code, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("expected confirmation, got %q", out)
	}
	if config.GetConfig().Quota.DailyLimit != 5 {
		t.Errorf("expected loaded config published, got limit %d", config.GetConfig().Quota.DailyLimit)
	}
}

func TestReloadLogLevel(t *testing.T) {
	orig := slog.Default()
	defer slog.SetDefault(orig)

	path := writeConfig(t, "telemetry:\n  logging:\n    level: error\n")
	cfgFile, runFlags.logLevel = path, ""
	defer func() { cfgFile = "" }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	var buf bytes.Buffer
	logger, err := logging.Setup(cfg.Telemetry.Logging, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = logging.SetLevel("info") }()

	ctx := context.Background()
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("expected debug disabled before reload")
	}

	if err := os.WriteFile(path, []byte("telemetry:\n  logging:\n    level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	reloadLogLevel(logger)
	if got := config.GetConfig().Telemetry.Logging.Level; got != "debug" {
		t.Errorf("expected reloaded level debug, got %q", got)
	}
	if !logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("expected debug enabled after reload")
	}

	if err := os.WriteFile(path, []byte("quota:\n  daily_limit: -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	reloadLogLevel(logger)
	if got := config.GetConfig().Telemetry.Logging.Level; got != "debug" {
		t.Errorf("expected previous config kept on failed reload, got level %q", got)
	}
	if !strings.Contains(buf.String(), "configuration reload failed") {
		t.Errorf("expected reload failure logged, got %q", buf.String())
	}
}

func TestRunInvalidConfig(t *testing.T) {
	path := writeConfig(t, `
quota:
  daily_limit: -1
`)

	if _, code := execute(t, "run", "--config", path, "--dry-run"); code != cli.ExitConfig {
		t.Errorf("expected config exit code, got %d", code)
	}

	if _, code := execute(t, "run", "--dry-run", "--log-level", "loud"); code != cli.ExitConfig {
		t.Errorf("expected config exit code for bad log level, got %d", code)
	}
}

func TestRunMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:0"
generation:
  api_key_secret: extractor_test_missing_key
telemetry:
  logging:
    level: error
`)

	_, code := execute(t, "run", "--config", path)
	if code != cli.ExitFailure {
		t.Errorf("expected startup failure, got %d", code)
	}
}

func TestValidateCommand(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/v1/models", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.MockOpenAIModels("gpt-4.1-nano"),
	})

	t.Setenv("EXTRACTOR_TEST_OPENAI_API_KEY", "sk-validate-123")
	path := writeConfig(t, `
generation:
  base_url: "`+mock.URL()+`/v1"
secrets:
  providers:
    - type: env
      prefix: EXTRACTOR_TEST_
`)

	t.Run("config only", func(t *testing.T) {
		out, code := execute(t, "validate", "--config", path)
		if code != cli.ExitOK {
			t.Fatalf("expected exit 0, got %d (%s)", code, out)
		}
		if !strings.Contains(out, "✓ configuration: "+path) {
			t.Errorf("unexpected output %q", out)
		}
		if strings.Contains(out, "api key") {
			t.Error("expected secrets not checked without --secrets")
		}
	})

	t.Run("secrets and ping", func(t *testing.T) {
		out, code := execute(t, "validate", "--config", path, "--ping", "--output", "json")
		if code != cli.ExitOK {
			t.Fatalf("expected exit 0, got %d (%s)", code, out)
		}
		if strings.Contains(out, "sk-validate-123") {
			t.Fatal("API key leaked into validate output")
		}

		var report validateReport
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if !report.Valid || len(report.Checks) != 3 {
			t.Fatalf("unexpected report %+v", report)
		}
		if report.Checks[1].Detail != "sk-v***" {
			t.Errorf("expected redacted key, got %q", report.Checks[1].Detail)
		}

		req, ok := mock.LastRequest()
		if !ok || req.Headers.Get("Authorization") != "Bearer sk-validate-123" {
			t.Errorf("expected ping with resolved key, got %+v", req.Headers)
		}
	})

	t.Run("ping rejected", func(t *testing.T) {
		mock.SetResponse("/v1/models", testhelpers.MockAuthError())
		out, code := execute(t, "validate", "--config", path, "--ping")
		if code != cli.ExitFailure {
			t.Errorf("expected exit 1, got %d", code)
		}
		if !strings.Contains(out, "✗ provider") {
			t.Errorf("expected failed provider check, got %q", out)
		}
	})
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("RESOLVE_TEST_MY_KEY", "sk-from-env")

	base := func() *config.Config {
		cfg := config.Default()
		cfg.Secrets.Providers = []config.SecretProviderConfig{{Type: "env", Prefix: "RESOLVE_TEST_"}}
		return cfg
	}

	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected string
		wantErr  bool
	}{
		{"direct key", func(c *config.Config) { c.Generation.APIKey = "sk-direct" }, "sk-direct", false},
		{"secret lookup", func(c *config.Config) { c.Generation.APIKeySecret = "my_key" }, "sk-from-env", false},
		{"reference", func(c *config.Config) { c.Generation.APIKey = "${secret:my-key}" }, "sk-from-env", false},
		{"missing secret", func(c *config.Config) { c.Generation.APIKeySecret = "absent" }, "", true},
		{"missing reference", func(c *config.Config) { c.Generation.APIKey = "${secret:absent}" }, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			got, err := resolveAPIKey(context.Background(), cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveAPIKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNewAppServesRequests(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/v1/chat/completions", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.MockOpenAIResponse("# Pancakes\n1. Mix", "gpt-4.1-nano"),
	})

	cfg := config.Default()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Generation.BaseURL = mock.URL() + "/v1"
	cfg.Generation.APIKey = "sk-app"
	cfg.Quota.DailyLimit = 1

	logger, err := logging.New(config.LoggingConfig{Level: "error"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.close()

	if err := a.server.Listen(); err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- a.server.Start(ctx) }()

	url := "http://" + a.server.Addr() + "/generate"
	post := func() int {
		resp, err := http.Post(url, "application/json", strings.NewReader(`{"userId":"u1","prompt":"pancake recipe page"}`))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		return resp.StatusCode
	}

	if status := post(); status != http.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
	if status := post(); status != http.StatusTooManyRequests {
		t.Errorf("expected 429 after limit, got %d", status)
	}
	if a.store.Len() != 1 {
		t.Errorf("expected 1 tracked user, got %d", a.store.Len())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected shutdown error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
