// Package tools executes the v0 MCP tools. Every failure leaves the service
// as a normalized *errors.McpError produced by the error pipeline.
package tools

import (
	"context"
	"log/slog"
	"time"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/handler"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/logfields"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/metrics"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/retry"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/v0"
)

// ChatAPI is the part of the v0 client the tools need.
type ChatAPI interface {
	CreateChat(ctx context.Context, req v0.CreateChatRequest) (*v0.Chat, error)
	SendMessage(ctx context.Context, chatID string, req v0.SendMessageRequest) (*v0.Chat, error)
}

// Output is the tool result returned to the MCP client.
type Output struct {
	ChatID  string    `json:"chatId"`
	WebURL  string    `json:"webUrl,omitempty"`
	DemoURL string    `json:"demoUrl,omitempty"`
	Files   []v0.File `json:"files,omitempty"`
}

// Service runs tool calls against the v0 API.
type Service struct {
	api      ChatAPI
	errors   handler.Handler
	policy   retry.Policy
	recorder metrics.Recorder
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets the upstream retry policy.
func WithPolicy(p retry.Policy) Option { return func(s *Service) { s.policy = p } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(s *Service) { s.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// WithSleep replaces the context-aware sleep used between retries.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) { s.sleep = fn }
}

// NewService creates a service. errs is the normalization pipeline, usually
// built by handler.New.
func NewService(api ChatAPI, errs handler.Handler, opts ...Option) *Service {
	s := &Service{
		api:      api,
		errors:   errs,
		policy:   retry.DefaultPolicy(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs generate_component. On failure the error is an *errors.McpError.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*Output, error) {
	ectx := verrors.Context{
		Operation: GenerateComponent,
		ToolName:  GenerateComponent,
		ProjectID: in.ProjectID,
		RequestID: handler.NewRequestID(),
	}
	if verr := ValidateGenerate(in); verr != nil {
		return nil, s.normalize(verr, ectx)
	}

	req := v0.CreateChatRequest{
		Message:     in.Prompt,
		System:      in.System,
		ChatPrivacy: privacies.Normalize(in.ChatPrivacy),
		ProjectID:   in.ProjectID,
	}
	if model := models.Normalize(in.Model); model != "" {
		req.ModelConfiguration = &v0.ModelConfiguration{ModelID: model}
	}
	return s.run(ctx, ectx, func(ctx context.Context) (*v0.Chat, error) {
		return s.api.CreateChat(ctx, req)
	})
}

// Iterate runs iterate_component. On failure the error is an *errors.McpError.
func (s *Service) Iterate(ctx context.Context, in IterateInput) (*Output, error) {
	ectx := verrors.Context{
		Operation: IterateComponent,
		ToolName:  IterateComponent,
		ChatID:    in.ChatID,
		RequestID: handler.NewRequestID(),
	}
	if verr := ValidateIterate(in); verr != nil {
		return nil, s.normalize(verr, ectx)
	}
	return s.run(ctx, ectx, func(ctx context.Context) (*v0.Chat, error) {
		return s.api.SendMessage(ctx, in.ChatID, v0.SendMessageRequest{Message: in.Prompt})
	})
}

// Call decodes raw arguments and dispatches by tool name.
func (s *Service) Call(ctx context.Context, tool string, args map[string]any) (*Output, error) {
	ectx := verrors.Context{Operation: tool, ToolName: tool}
	switch tool {
	case GenerateComponent:
		in, err := DecodeGenerate(args)
		if err != nil {
			return nil, s.normalize(err, ectx)
		}
		return s.Generate(ctx, in)
	case IterateComponent:
		in, err := DecodeIterate(args)
		if err != nil {
			return nil, s.normalize(err, ectx)
		}
		return s.Iterate(ctx, in)
	}
	return nil, s.normalize("method not found: "+tool, ectx)
}

// run calls fn, retrying retryable failures per the policy. A retryAfter
// hint longer than the policy's cap ends the retries.
func (s *Service) run(ctx context.Context, ectx verrors.Context, fn func(context.Context) (*v0.Chat, error)) (*Output, error) {
	start := time.Now()
	attempts := s.policy.Attempts()

	for attempt := 1; ; attempt++ {
		chat, err := fn(ctx)
		if err == nil {
			s.recorder.ObserveToolDuration(ectx.ToolName, time.Since(start), true)
			return toOutput(chat), nil
		}

		me := s.normalize(err, ectx.With("attempt", attempt))
		if !me.Retryable() || attempt >= attempts {
			s.recorder.ObserveToolDuration(ectx.ToolName, time.Since(start), false)
			return nil, me
		}

		wait := s.policy.Delay(attempt)
		if after, ok := me.RetryAfter(); ok {
			hinted := time.Duration(after) * time.Second
			if hinted > s.policy.Max {
				s.recorder.ObserveToolDuration(ectx.ToolName, time.Since(start), false)
				return nil, me
			}
			wait = max(wait, hinted)
		}

		s.recorder.IncUpstreamRetry(ectx.ToolName)
		s.logger.Info("Retrying upstream call",
			logfields.Tool(ectx.ToolName),
			logfields.Attempt(attempt),
			logfields.Code(string(me.Code)),
			slog.Duration("wait", wait))
		if serr := s.sleep(ctx, wait); serr != nil {
			s.recorder.ObserveToolDuration(ectx.ToolName, time.Since(start), false)
			return nil, s.normalize(serr, ectx)
		}
	}
}

func (s *Service) normalize(err any, ectx verrors.Context) *verrors.McpError {
	if me := s.errors(err, ectx); me != nil {
		return me
	}
	return verrors.TransformError(err, ectx)
}

func toOutput(chat *v0.Chat) *Output {
	if chat == nil {
		return &Output{}
	}
	out := &Output{ChatID: chat.ID, WebURL: chat.WebURL}
	if v := chat.LatestVersion; v != nil {
		out.DemoURL = v.DemoURL
		out.Files = v.Files
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
