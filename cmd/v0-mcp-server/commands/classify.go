package commands

import (
	"encoding/json"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/handler"
)

// ClassifyCmd implements the 'classify' command.
type ClassifyCmd struct {
	Message    string `arg:"" help:"Error message to classify"`
	Status     int    `help:"HTTP status that accompanied the error"`
	Operation  string `help:"Operation recorded in the error context" default:"classify"`
	ChatID     string `name:"chat-id" help:"Chat id recorded in the error context"`
	ExitStatus bool   `name:"exit-status" help:"Exit with the code mapped from the error category"`
}

func (c *ClassifyCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	pipeline := handler.New(handler.Options{Logger: g.logger(), Cache: cfg.Cache.Enabled})

	var raw any = c.Message
	if c.Status > 0 {
		raw = &verrors.StatusError{Status: c.Status, Message: c.Message}
	}
	me := pipeline(raw, verrors.Context{Operation: c.Operation, ChatID: c.ChatID})

	enc := json.NewEncoder(g.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(me); err != nil {
		return err
	}
	if c.ExitStatus {
		return me
	}
	return nil
}
