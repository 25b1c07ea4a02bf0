package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIAdapter handles error presentation and exit code determination for the
// command line entry point.
type CLIAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIAdapter creates a new CLI error adapter writing to stderr.
func NewCLIAdapter(verbose bool, logger *slog.Logger) *CLIAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIAdapter{verbose: verbose, logger: logger, out: os.Stderr, exit: os.Exit}
}

// ExitCodeFor determines the exit code for an error.
func (a *CLIAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var me *McpError
	if !stdErrors.As(err, &me) {
		return 1
	}
	switch me.Category() {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryAuthentication:
		return 5 // Auth error
	case CategoryNotFound:
		return 6
	case CategoryNetwork, CategoryRateLimit:
		return 8 // External system error
	case CategoryServerError:
		return 12
	default:
		return 1
	}
}

// FormatError formats an error for display.
func (a *CLIAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	var me *McpError
	if !stdErrors.As(err, &me) {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return me.Error()
	}
	if s, ok := me.Data.GetString(KeySuggestion); ok {
		return fmt.Sprintf("%s (%s)", me.Message, s)
	}
	return me.Message
}

// HandleError logs err, prints it and exits with the mapped code.
func (a *CLIAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.logError(err)
	fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIAdapter) logError(err error) {
	var me *McpError
	if !stdErrors.As(err, &me) {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{
		slog.String("code", string(me.Code)),
		slog.String("category", string(me.Category())),
	}
	if me.Retryable() {
		attrs = append(attrs, slog.Bool("retryable", true))
	}
	a.logger.LogAttrs(context.Background(), slog.LevelError, me.Message, attrs...)
}
