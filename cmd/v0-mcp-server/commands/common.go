// Package commands implements the v0-mcp-server command line.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/BenAHammond/v0-mcp-server-sub001/internal/config"
)

// Global carries process-wide values into commands.
type Global struct {
	Version string
	Logger  *slog.Logger
	Out     io.Writer
	In      io.Reader
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"v0-mcp.yaml" env:"V0_MCP_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve    ServeCmd    `cmd:"" default:"1" help:"Serve the v0 tools over MCP on stdio (default)"`
	Classify ClassifyCmd `cmd:"" help:"Normalize an error message and print the JSON envelope"`
	Call     CallCmd     `cmd:"" help:"Run one tool call with JSON arguments and print the result"`
	SetKey   SetKeyCmd   `cmd:"" name:"set-key" help:"Store the v0 API key in the OS keyring"`
}

// AfterApply runs after flag parsing; setup logging once. Logs go to stderr
// because stdout carries MCP frames.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// load reads the configuration and installs the configured logger.
func (c *CLI) load(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = newLogger(os.Stderr, cfg.Logging, c.Verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func newLogger(w io.Writer, lc config.LoggingConfig, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.SlogLevel()}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if config.NormalizeLogFormat(lc.Format) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (g *Global) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
