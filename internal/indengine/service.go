// Package indengine wires the indicator tools, the bearer gate and the HTTP
// listeners into one runnable service.
package indengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"talib-mcp-server/config"
	"talib-mcp-server/internal/api"
	"talib-mcp-server/internal/auth"
	"talib-mcp-server/internal/metrics"
	"talib-mcp-server/internal/tool"
)

// ServerName is reported in the MCP initialize handshake.
const ServerName = "talib-mcp-server"

// Instructions is the usage hint sent to MCP clients.
const Instructions = "Stateless TA-Lib indicators. Provide prices oldest to newest."

// Service is the top-level orchestrator. It owns the registry, the API
// listener and the optional metrics listener.
type Service struct {
	cfg *config.Config

	registry *tool.Registry
	promReg  *prometheus.Registry
	prom     *metrics.Metrics
	health   *metrics.HealthStatus
	router   *api.Server

	metricsSrv *metrics.Server
	apiSrv     *http.Server
}

// New builds a Service from cfg. version is reported to MCP clients.
func New(cfg *config.Config, version string) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("indengine: nil config")
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(promReg)

	registry, err := NewRegistry(m)
	if err != nil {
		return nil, fmt.Errorf("indengine: build registry: %w", err)
	}

	gate, err := auth.NewBearer(cfg.APIKey, auth.WithRejectHook(func(reason string) {
		m.AuthRejected.WithLabelValues(reason).Inc()
	}))
	if err != nil {
		return nil, fmt.Errorf("indengine: %w", err)
	}

	health := metrics.NewHealthStatus()
	names := make([]string, 0, registry.Len())
	for _, d := range registry.List() {
		names = append(names, d.Name)
	}
	health.SetTools(names)

	router, err := api.NewRouter(api.Options{
		Registry:     registry,
		Gate:         gate,
		Metrics:      m,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Name:         ServerName,
		Version:      version,
		Instructions: Instructions,
	})
	if err != nil {
		return nil, err
	}

	svc := &Service{
		cfg:      cfg,
		registry: registry,
		promReg:  promReg,
		prom:     m,
		health:   health,
		router:   router,
		apiSrv: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
	}
	if cfg.MetricsAddr != "" {
		svc.metricsSrv = metrics.NewServer(cfg.MetricsAddr, promReg, health)
	}
	return svc, nil
}

// Handler returns the API handler, mainly for tests.
func (svc *Service) Handler() http.Handler { return svc.router }

// Registry returns the tool registry.
func (svc *Service) Registry() *tool.Registry { return svc.registry }

// Run listens on the configured address and blocks until ctx is cancelled
// or the listener fails.
func (svc *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", svc.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("indengine: listen %s: %w", svc.cfg.HTTPAddr, err)
	}
	return svc.Serve(ctx, ln)
}

// Serve runs the API server on ln until ctx is cancelled.
func (svc *Service) Serve(ctx context.Context, ln net.Listener) error {
	if svc.metricsSrv != nil {
		svc.metricsSrv.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.apiSrv.Serve(ln)
	}()

	svc.health.SetServing(true)
	slog.Info("tool server listening",
		slog.String("addr", ln.Addr().String()),
		slog.Int("tools", svc.registry.Len()),
		slog.String("metrics_addr", svc.cfg.MetricsAddr),
	)

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr = <-errCh:
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
	}

	svc.health.SetServing(false)
	if err := svc.shutdown(); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}

// shutdown drains in-flight requests within the configured timeout.
func (svc *Service) shutdown() error {
	timeout := svc.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := svc.apiSrv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("api shutdown: %w", err))
	}
	if svc.metricsSrv != nil {
		if err := svc.metricsSrv.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
		}
	}
	slog.Info("shutdown complete")
	return errors.Join(errs...)
}
