// Package events publishes normalized errors to a message bus so other
// services can watch failure trends without scraping logs.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/handler"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/logfields"
)

// Publisher sends raw payloads to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ErrorEvent is the published payload.
type ErrorEvent struct {
	Code      verrors.Code   `json:"code"`
	Message   string         `json:"message"`
	Operation string         `json:"operation,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
	Data      verrors.Fields `json:"data,omitempty"`
}

// WithPublishing publishes every non-nil result of h to subject. Publish
// failures are logged and never change the result.
func WithPublishing(pub Publisher, subject string, logger *slog.Logger, h handler.Handler) handler.Handler {
	if pub == nil {
		return h
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(err any, ctx verrors.Context) *verrors.McpError {
		res := h(err, ctx)
		if res == nil {
			return nil
		}
		payload, mErr := json.Marshal(ErrorEvent{
			Code:      res.Code,
			Message:   res.Message,
			Operation: ctx.Operation,
			RequestID: ctx.RequestID,
			Data:      res.Data,
		})
		if mErr == nil {
			mErr = pub.Publish(subject, payload)
		}
		if mErr != nil {
			logger.Warn("failed to publish error event", logfields.Subject(subject), logfields.Error(mErr))
		}
		return res
	}
}

// NATSPublisher publishes over a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// ConnectNATS dials url with reconnects enabled.
func ConnectNATS(url string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name("v0-mcp-server"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", logfields.Error(err))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(subject string, data []byte) error {
	return p.conn.Publish(subject, data)
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Flush()
	p.conn.Close()
}
