package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/BenAHammond/v0-mcp-server-sub001/internal/apikey"
)

// SetKeyCmd implements the 'set-key' command.
type SetKeyCmd struct {
	Key   string `arg:"" optional:"" help:"API key; read from stdin when omitted"`
	Clear bool   `help:"Remove the stored key instead"`
}

func (s *SetKeyCmd) Run(g *Global) error {
	ring, err := apikey.OpenRing()
	if err != nil {
		return err
	}
	return s.apply(g, apikey.NewManager("", ring))
}

func (s *SetKeyCmd) apply(g *Global, m *apikey.Manager) error {
	if s.Clear {
		if err := m.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(g.Out, "Removed stored v0 API key")
		return nil
	}

	key := s.Key
	if key == "" && g.In != nil {
		line, err := bufio.NewReader(g.In).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read API key from stdin: %w", err)
		}
		key = strings.TrimSpace(line)
	}
	if err := m.Store(key); err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Stored v0 API key %s in the %s keyring\n", apikey.Mask(strings.TrimSpace(key)), apikey.ServiceName)
	return nil
}
