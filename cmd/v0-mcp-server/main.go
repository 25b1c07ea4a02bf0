package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/BenAHammond/v0-mcp-server-sub001/cmd/v0-mcp-server/commands"
	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("v0-mcp-server"),
		kong.Description("MCP server exposing v0.dev component generation"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	global := &commands.Global{Version: version, Out: os.Stdout, In: os.Stdin}
	err := parser.Run(global, &cli)
	verrors.NewCLIAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
