package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"instructions-hq/extractor/pkg/cli"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Instruction extraction API server",
	Long: `extractor turns the text of a web page into clean, step-by-step
Markdown instructions using a chat-completion model.

Each user gets a fixed number of generations per UTC day. Requests over the
limit are rejected before the model is called.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func printError(err error) {
	if fields := cli.ConfigErrors(err); fields != nil {
		fmt.Fprintln(os.Stderr, "configuration is invalid:")
		for _, f := range fields {
			fmt.Fprintf(os.Stderr, "  - %s: %s\n", f.Field, f.Message)
		}
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (empty: built-in defaults)")
}
