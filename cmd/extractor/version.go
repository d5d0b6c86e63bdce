package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"instructions-hq/extractor/pkg/cli"
	"instructions-hq/extractor/pkg/telemetry/health"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "0.1.0"
	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"
	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"
)

var versionFlags struct {
	output string
}

// versionReport is printed by the version command.
type versionReport struct {
	health.VersionInfo
	Platform string `json:"platform"`
}

func (r versionReport) Lines() []string {
	return []string{
		fmt.Sprintf("extractor %s", r.Version),
		fmt.Sprintf("Git Commit: %s", r.Commit),
		fmt.Sprintf("Build Date: %s", r.BuildTime),
		fmt.Sprintf("Go Version: %s", r.GoVersion),
		fmt.Sprintf("OS/Arch: %s", r.Platform),
	}
}

func buildInfo() health.VersionInfo {
	return health.VersionInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
		GoVersion: runtime.Version(),
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including Git commit and build date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseOutputFormat(versionFlags.output)
		if err != nil {
			return err
		}
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), versionReport{
			VersionInfo: buildInfo(),
			Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFlags.output, "output", "o", "text", "output format: text, json")
}
