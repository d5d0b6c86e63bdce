package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"instructions-hq/extractor/pkg/cli"
	"instructions-hq/extractor/pkg/config"
	"instructions-hq/extractor/pkg/generation"
	"instructions-hq/extractor/pkg/providers"
	"instructions-hq/extractor/pkg/providers/openai"
	"instructions-hq/extractor/pkg/quota"
	"instructions-hq/extractor/pkg/security/secrets"
	"instructions-hq/extractor/pkg/server"
	"instructions-hq/extractor/pkg/telemetry/health"
	"instructions-hq/extractor/pkg/telemetry/logging"
	"instructions-hq/extractor/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the extractor API server",
	Long: `Start the extractor API server with the specified configuration.

The API key is taken from generation.api_key or, when that is empty, resolved
through the configured secret providers under generation.api_key_secret.
Startup fails if no key can be found.

Examples:
  # Start with built-in defaults
  extractor run

  # Start with a config file
  extractor run --config /etc/extractor/config.yaml

  # Override listen address
  extractor run --listen 127.0.0.1:9090

  # Validate config without starting the server
  extractor run --dry-run

Sending SIGHUP re-reads the config file and applies its log level.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	applyRunFlags(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger, err := logging.Setup(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	stopReload := cli.NotifyReload(ctx, func() { reloadLogLevel(logger) })
	defer stopReload()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer a.close()

	if err := a.server.Listen(); err != nil {
		return cli.NewCommandError("run", err)
	}
	printBanner(out, cfg, a.server.Addr())

	if err := a.server.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// loadConfig publishes the configuration named by --config and returns it.
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, err
	}
	return config.GetConfig(), nil
}

func applyRunFlags(cfg *config.Config) {
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
}

// reloadLogLevel re-reads --config and applies its log level. Every other
// setting takes effect on the next start.
func reloadLogLevel(logger *slog.Logger) {
	if err := config.ReloadConfig(cfgFile); err != nil {
		logger.Error("configuration reload failed", "error", err)
		return
	}
	cfg := config.GetConfig()
	applyRunFlags(cfg)

	if err := logging.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
		logger.Error("configuration reload failed", "error", err)
		return
	}
	logger.Info("configuration reloaded", "log_level", cfg.Telemetry.Logging.Level)
}

// app holds every long-lived component started by run.
type app struct {
	server    *server.Server
	sweeper   *quota.Sweeper
	store     *quota.MemoryStore
	generator *generation.Client
	collector *metrics.Collector
}

// newApp wires the server's collaborators. The sweeper is started; the
// server is not.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	apiKey, err := resolveAPIKey(ctx, cfg)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, prometheus.NewRegistry())

	provider, err := newProvider(cfg.Generation, apiKey)
	if err != nil {
		return nil, err
	}

	gen, err := generation.NewClient(provider, generation.Config{
		Model:        cfg.Generation.Model,
		SystemPrompt: cfg.Generation.SystemPrompt,
		Timeout:      cfg.Generation.Timeout,
		MaxTokens:    cfg.Generation.MaxTokens,
		Temperature:  cfg.Generation.Temperature,
	}, collector)
	if err != nil {
		_ = provider.Close()
		return nil, err
	}

	store, err := quota.NewMemoryStore(cfg.Quota.DailyLimit)
	if err != nil {
		_ = gen.Close()
		return nil, err
	}
	if err := collector.TrackQuotaSize(store.Len); err != nil {
		logger.Warn("quota size gauge not registered", "error", err)
	}

	sweeper := quota.NewSweeper(store, quota.SweeperConfig{
		Schedule:      cfg.Quota.SweepSchedule,
		RetentionDays: cfg.Quota.RetentionDays,
		Observer:      collector,
	})

	a := &app{
		sweeper:   sweeper,
		store:     store,
		generator: gen,
		collector: collector,
	}

	if err := sweeper.Start(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("start quota sweeper: %w", err)
	}

	srv, err := server.NewServer(cfg, server.Dependencies{
		Quota:     store,
		Generator: gen,
		Metrics:   collector,
		Health:    health.New(cfg.Telemetry.Health.CheckTimeout),
		Logger:    logger,
		Version:   buildInfo(),
	})
	if err != nil {
		a.close()
		return nil, err
	}
	a.server = srv

	return a, nil
}

func (a *app) close() {
	if a.sweeper != nil {
		a.sweeper.Stop()
	}
	if a.generator != nil {
		_ = a.generator.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// resolveAPIKey returns generation.api_key, expanding any ${secret:name}
// references, or looks up generation.api_key_secret when no key is set.
func resolveAPIKey(ctx context.Context, cfg *config.Config) (string, error) {
	key := cfg.Generation.APIKey
	if key != "" && !secrets.HasReferences(key) {
		return key, nil
	}

	mgr, err := secrets.NewManagerFromConfig(ctx, cfg.Secrets)
	if err != nil {
		return "", fmt.Errorf("secrets: %w", err)
	}
	defer mgr.Close()

	if key != "" {
		resolved, err := mgr.ResolveReferences(ctx, key)
		if err != nil {
			return "", fmt.Errorf("resolve generation.api_key: %w", err)
		}
		return resolved, nil
	}

	resolved, err := mgr.GetSecret(ctx, cfg.Generation.APIKeySecret)
	if err != nil {
		return "", fmt.Errorf("resolve API key: %w", err)
	}
	if resolved == "" {
		return "", errors.New("resolve API key: secret is empty")
	}
	return resolved, nil
}

func newProvider(cfg config.GenerationConfig, apiKey string) (providers.Provider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewProvider(providers.ProviderConfig{
			Name:    cfg.Provider,
			BaseURL: cfg.BaseURL,
			APIKey:  apiKey,
			Timeout: cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

func printBanner(w io.Writer, cfg *config.Config, addr string) {
	fmt.Fprintf(w, "extractor v%s\n", Version)
	if cfgFile != "" {
		fmt.Fprintf(w, "✓ Configuration loaded from %s\n", cfgFile)
	} else {
		fmt.Fprintln(w, "✓ Using built-in configuration")
	}
	fmt.Fprintf(w, "✓ Model %s via %s (timeout %s)\n", cfg.Generation.Model, cfg.Generation.Provider, cfg.Generation.Timeout)
	fmt.Fprintf(w, "✓ Daily limit %d per user\n", cfg.Quota.DailyLimit)
	fmt.Fprintf(w, "✓ Server listening on %s\n", addr)
	if cfg.Telemetry.Health.Enabled {
		fmt.Fprintf(w, "✓ Health endpoint: http://%s%s\n", addr, cfg.Telemetry.Health.LivenessPath)
	}
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(w, "✓ Metrics endpoint: http://%s%s\n", addr, cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(w, "\nPress Ctrl+C to stop")
}
