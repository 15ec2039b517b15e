package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	ckerrors "vkfcheck/internal/errors"
	"vkfcheck/internal/output"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
	FormatYAML  OutputFormat = "yaml"
)

// formatFlag is the persistent --format flag
var formatFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", string(FormatHuman), "Output format (human, json, yaml)")
}

// textRenderer is implemented by results with a terminal rendering.
type textRenderer interface {
	TextLines() []string
}

// parseFormat validates a --format value.
func parseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatHuman, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (want human, json or yaml)", s)
	}
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		data, err := output.EncodeJSON(resp, output.Precision, "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil
	case FormatYAML:
		data, err := output.EncodeYAML(resp, output.Precision)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return strings.TrimSuffix(string(data), "\n"), nil
	case FormatHuman:
		if r, ok := resp.(textRenderer); ok {
			return strings.Join(r.TextLines(), "\n"), nil
		}
		// For types without a text rendering, fall back to JSON
		return FormatResponse(resp, FormatJSON)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// writeResponse formats resp with the --format flag and writes it to w.
func writeResponse(w io.Writer, resp interface{}) error {
	format, err := parseFormat(formatFlag)
	if err != nil {
		return err
	}
	out, err := FormatResponse(resp, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// errorFormat picks the rendering for errors; an invalid --format falls
// back to human.
func errorFormat() OutputFormat {
	f, err := parseFormat(formatFlag)
	if err != nil {
		return FormatHuman
	}
	return f
}

type errorResponse struct {
	Error *ckerrors.CheckError `json:"error"`
}

// reportError writes err to w. CheckErrors keep their code and suggested
// fixes in every format.
func reportError(w io.Writer, err error, format OutputFormat) {
	var ce *ckerrors.CheckError
	if !errors.As(err, &ce) {
		ce = ckerrors.NewCheckError(ckerrors.InternalError, err.Error(), nil, nil)
	}

	if format == FormatJSON || format == FormatYAML {
		if out, encErr := FormatResponse(errorResponse{Error: ce}, format); encErr == nil {
			_, _ = fmt.Fprintln(w, out)
			return
		}
	}

	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	for _, fix := range ce.SuggestedFixes {
		switch {
		case fix.Command != "":
			_, _ = fmt.Fprintf(w, "  hint: %s: %s\n", fix.Description, fix.Command)
		case fix.Description != "":
			_, _ = fmt.Fprintf(w, "  hint: %s\n", fix.Description)
		}
	}
}

// exitCode maps an error to the process exit status: 2 for configuration
// and project problems, 1 otherwise.
func exitCode(err error) int {
	switch ckerrors.CodeOf(err) {
	case ckerrors.ConfigInvalid, ckerrors.ProjectInvalid:
		return 2
	default:
		return 1
	}
}
