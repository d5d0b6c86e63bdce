package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"instructions-hq/extractor/pkg/cli"
	"instructions-hq/extractor/pkg/config"
	"instructions-hq/extractor/pkg/telemetry/logging"
)

const pingTimeout = 10 * time.Second

var validateFlags struct {
	secrets bool
	ping    bool
	output  string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration, secrets and upstream access",
	Long: `Validate the configuration file and, optionally, the runtime dependencies.

Checks:
  - configuration parses and passes validation (always)
  - the API key resolves through the configured secret providers (--secrets)
  - the model provider accepts the key (--ping, implies --secrets)

The API key itself is never printed.

Examples:
  # Validate config only
  extractor validate --config config.yaml

  # Full preflight, JSON output
  extractor validate --secrets --ping --output json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.secrets, "secrets", false, "resolve the API key through the secret providers")
	validateCmd.Flags().BoolVar(&validateFlags.ping, "ping", false, "probe the model provider with the resolved key")
	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format: text, json")
}

// checkResult is one line of the validate report.
type checkResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

type validateReport struct {
	Valid  bool          `json:"valid"`
	Checks []checkResult `json:"checks"`
}

func (r *validateReport) add(name string, err error, detail string) {
	c := checkResult{Name: name, OK: err == nil, Detail: detail}
	if err != nil {
		c.Detail = err.Error()
		r.Valid = false
	}
	r.Checks = append(r.Checks, c)
}

func (r validateReport) Lines() []string {
	lines := make([]string, 0, len(r.Checks))
	for _, c := range r.Checks {
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		line := fmt.Sprintf("%s %s", mark, c.Name)
		if c.Detail != "" {
			line += ": " + c.Detail
		}
		lines = append(lines, line)
	}
	return lines
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.output)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := validateReport{Valid: true}
	source := "built-in defaults"
	if cfgFile != "" {
		source = cfgFile
	}
	report.add("configuration", nil, source)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if validateFlags.secrets || validateFlags.ping {
		key, err := resolveAPIKey(ctx, cfg)
		report.add("api key", err, logging.RedactValue(key))

		if err == nil && validateFlags.ping {
			report.add("provider", pingProvider(ctx, cfg.Generation, key), cfg.Generation.BaseURL)
		}
	}

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if !report.Valid {
		return cli.NewCommandError("validate", fmt.Errorf("%d check(s) failed", countFailed(report.Checks)))
	}
	return nil
}

func pingProvider(ctx context.Context, cfg config.GenerationConfig, key string) error {
	p, err := newProvider(cfg, key)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p.HealthCheck(ctx)
}

func countFailed(checks []checkResult) int {
	n := 0
	for _, c := range checks {
		if !c.OK {
			n++
		}
	}
	return n
}
