package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/BenAHammond/v0-mcp-server-sub001/internal/apikey"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/config"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/events"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/handler"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/logfields"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/metrics"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/retry"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/tools"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/v0"
)

// app holds the wired components shared by serve and call.
type app struct {
	service  *tools.Service
	closers  []func()
	recorder metrics.Recorder
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// openKeyring is replaced in tests.
var openKeyring = apikey.OpenRing

// newApp wires metrics, events, the error pipeline and the tool service.
// The API key is resolved first so a missing key fails before anything starts.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	ring, err := openKeyring()
	if err != nil {
		logger.Debug("keyring unavailable", logfields.Error(err))
	}
	key, source, err := apikey.NewManager(cfg.V0.APIKey, ring).Resolve()
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved v0 API key", slog.String("source", string(source)), slog.String("key", apikey.Mask(key)))

	a := &app{recorder: metrics.NoopRecorder{}}
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		a.recorder = metrics.NewPrometheusRecorder(reg)
		a.closers = append(a.closers, serveMetrics(cfg.Metrics.ListenAddr, reg, logger))
	}

	pipeline := handler.New(handler.Options{
		Logger:   logger,
		Recorder: a.recorder,
		Cache:    cfg.Cache.Enabled,
	})
	if cfg.Events.NATSURL != "" {
		pub, err := events.ConnectNATS(cfg.Events.NATSURL, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, pub.Close)
		pipeline = events.WithPublishing(pub, cfg.Events.Subject, logger, pipeline)
	}

	client := v0.NewClient(cfg.V0.BaseURL, key, cfg.V0.Timeout)
	a.service = tools.NewService(client, pipeline,
		tools.WithPolicy(retry.FromConfig(cfg.Retry)),
		tools.WithRecorder(a.recorder),
		tools.WithLogger(logger))
	return a, nil
}

func serveMetrics(addr string, reg *prom.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logfields.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
