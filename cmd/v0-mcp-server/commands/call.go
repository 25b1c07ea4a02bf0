package commands

import (
	"context"
	"encoding/json"
	"fmt"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/tools"
)

// CallCmd implements the 'call' command.
type CallCmd struct {
	Tool string `arg:"" enum:"generate_component,iterate_component" help:"Tool to run"`
	Args string `arg:"" optional:"" default:"{}" help:"Tool arguments as a JSON object"`
}

func (c *CallCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	args, err := decodeArgs(c.Args)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, g.logger())
	if err != nil {
		return err
	}
	defer a.Close()

	return c.call(context.Background(), g, a.service, args)
}

type toolCaller interface {
	Call(ctx context.Context, tool string, args map[string]any) (*tools.Output, error)
}

func (c *CallCmd) call(ctx context.Context, g *Global, svc toolCaller, args map[string]any) error {
	out, err := svc.Call(ctx, c.Tool, args)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(g.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func decodeArgs(raw string) (map[string]any, error) {
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, verrors.FieldValidationError("args", fmt.Sprintf("must be a JSON object (%v)", err), `Pass arguments like '{"prompt":"a login form"}'`)
	}
	return args, nil
}
