package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/BenAHammond/v0-mcp-server-sub001/internal/mcpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct{}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, g.logger())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g.logger().Info("Starting v0 MCP server", "version", g.Version, "base_url", cfg.V0.BaseURL)
	return mcpserver.New(g.Version, a.service, g.logger()).Run(ctx)
}
