package cli

import (
	"errors"
	"fmt"

	"instructions-hq/extractor/pkg/config"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
)

// ConfigError reports a problem with a single configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError wraps the failure of a subcommand.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ConfigErrors flattens a config.ValidationError anywhere in err's chain.
// It returns nil for any other error.
func ConfigErrors(err error) []*ConfigError {
	var verr config.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	out := make([]*ConfigError, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		out = append(out, NewConfigError(fe.Field, fe.Message))
	}
	return out
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cerr *ConfigError
	if errors.As(err, &cerr) || ConfigErrors(err) != nil {
		return ExitConfig
	}
	return ExitFailure
}
