package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat selects how commands print their results.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text", "json" or "" (text).
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", NewConfigError("output", fmt.Sprintf("unsupported format %q (supported: text, json)", s))
	}
}

// TextLines is implemented by results that know how to print themselves
// as plain text.
type TextLines interface {
	Lines() []string
}

// Formatter writes command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter prints TextLines one per line, anything else with %v.
type TextFormatter struct{}

// FormatTo writes data to w.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	if tl, ok := data.(TextLines); ok {
		for _, line := range tl.Lines() {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter prints data as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to w.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}

// NewFormatter returns the formatter for format.
func NewFormatter(format OutputFormat) Formatter {
	if format == FormatJSON {
		return &JSONFormatter{Indent: true}
	}
	return &TextFormatter{}
}
