// Package mcpserver exposes the tools over the Model Context Protocol.
// Normalized errors are returned as tool results with isError set, so the
// client sees the {code, message, data} envelope instead of a protocol error.
package mcpserver

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/logfields"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/tools"
)

// Name is the implementation name reported to clients.
const Name = "v0-mcp-server"

// Tools is what the server needs from the tool service. Call decodes and
// validates raw arguments itself.
type Tools interface {
	Call(ctx context.Context, tool string, args map[string]any) (*tools.Output, error)
}

// Server wires the tool service into an MCP server.
type Server struct {
	mcp    *mcp.Server
	tools  Tools
	logger *slog.Logger
}

// New registers generate_component and iterate_component.
func New(version string, t Tools, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mcp:    mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, nil),
		tools:  t,
		logger: logger,
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        tools.GenerateComponent,
		Description: "Generate a React component with v0.dev from a natural language prompt. Returns the chat id, preview URL and generated files.",
		InputSchema: looseSchema[tools.GenerateInput](),
	}, s.handle(tools.GenerateComponent))
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        tools.IterateComponent,
		Description: "Refine a component previously generated by generate_component, identified by its chatId.",
		InputSchema: looseSchema[tools.IterateInput](),
	}, s.handle(tools.IterateComponent))
	return s
}

// looseSchema lists T's properties and descriptions without constraining
// their presence or type. Missing or mistyped arguments then reach the tool
// service and come back as VALIDATION_ERROR or TYPE_ERROR envelopes instead
// of protocol errors.
func looseSchema[T any]() *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("input schema for %T: %v", *new(T), err))
	}
	schema.Required = nil
	schema.AdditionalProperties = nil
	for _, prop := range schema.Properties {
		prop.Type = ""
		prop.Types = nil
	}
	return schema
}

// Run serves MCP over stdin/stdout until ctx is done or the client hangs up.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handle(tool string) mcp.ToolHandlerFor[map[string]any, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		out, err := s.tools.Call(ctx, tool, args)
		return s.result(tool, out, err)
	}
}

func (s *Server) result(tool string, out *tools.Output, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		var me *verrors.McpError
		if !stdErrors.As(err, &me) {
			me = verrors.TransformError(err, verrors.Context{Operation: tool, ToolName: tool})
		}
		s.logger.Debug("Tool call failed", logfields.Tool(tool), logfields.Code(string(me.Code)))
		return ErrorResult(me), nil, nil
	}
	res, mErr := SuccessResult(out)
	if mErr != nil {
		return ErrorResult(verrors.TransformError(mErr, verrors.Context{Operation: tool, ToolName: tool})), nil, nil
	}
	return res, nil, nil
}

// ErrorResult renders a normalized error as a tool error result whose text
// is the JSON envelope.
func ErrorResult(me *verrors.McpError) *mcp.CallToolResult {
	payload, err := json.Marshal(me)
	if err != nil {
		payload = fmt.Appendf(nil, `{"code":%q,"message":%q}`, me.Code, me.Message)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}
}

// SuccessResult renders a tool output as a short summary followed by the
// JSON document.
func SuccessResult(out *tools.Output) (*mcp.CallToolResult, error) {
	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to transform tool output: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: summary(out)},
			&mcp.TextContent{Text: string(payload)},
		},
	}, nil
}

func summary(out *tools.Output) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chat %s", out.ChatID)
	if out.WebURL != "" {
		fmt.Fprintf(&b, " (%s)", out.WebURL)
	}
	if out.DemoURL != "" {
		fmt.Fprintf(&b, "\nPreview: %s", out.DemoURL)
	}
	if n := len(out.Files); n > 0 {
		names := make([]string, 0, n)
		for _, f := range out.Files {
			names = append(names, f.Name)
		}
		fmt.Fprintf(&b, "\nFiles: %s", strings.Join(names, ", "))
	}
	return b.String()
}
