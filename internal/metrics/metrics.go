package metrics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the tool server.
type Metrics struct {
	ToolCallsTotal  *prometheus.CounterVec   // labels: tool, outcome
	ToolCallDur     *prometheus.HistogramVec // labels: tool
	AuthRejected    *prometheus.CounterVec   // labels: reason
	HTTPRequests    *prometheus.CounterVec   // labels: route, code
	InputSeriesSize prometheus.Histogram
}

// NewMetrics creates all metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ToolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcp_tool_calls_total",
			Help: "Tool calls by tool and outcome (ok or error kind)",
		}, []string{"tool", "outcome"}),
		ToolCallDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mcp_tool_call_duration_seconds",
			Help:    "Tool call latency including argument binding",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"tool"}),
		AuthRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcp_auth_rejected_total",
			Help: "Requests rejected by the bearer gate",
		}, []string{"reason"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcp_http_requests_total",
			Help: "HTTP requests by route template and status code",
		}, []string{"route", "code"}),
		InputSeriesSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mcp_input_series_length",
			Help:    "Length of price series passed to indicator tools",
			Buckets: prometheus.ExponentialBuckets(8, 2, 12),
		}),
	}

	reg.MustRegister(
		m.ToolCallsTotal,
		m.ToolCallDur,
		m.AuthRejected,
		m.HTTPRequests,
		m.InputSeriesSize,
	)

	return m
}

// ObserveCall records one tool call.
func (m *Metrics) ObserveCall(tool, outcome string, d time.Duration) {
	m.ToolCallsTotal.WithLabelValues(tool, outcome).Inc()
	m.ToolCallDur.WithLabelValues(tool).Observe(d.Seconds())
}

// HealthStatus represents the service health.
type HealthStatus struct {
	mu sync.RWMutex

	Tools     []string  `json:"tools"`
	Serving   bool      `json:"serving"`
	StartedAt time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		StartedAt: time.Now(),
	}
}

func (h *HealthStatus) SetTools(tools []string) {
	h.mu.Lock()
	h.Tools = tools
	h.mu.Unlock()
}

func (h *HealthStatus) SetServing(v bool) {
	h.mu.Lock()
	h.Serving = v
	h.mu.Unlock()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overallStatus := "healthy"
	httpCode := http.StatusOK
	if !h.Serving {
		overallStatus = "starting"
		httpCode = http.StatusServiceUnavailable
	}

	status := struct {
		Status string   `json:"status"`
		Uptime string   `json:"uptime"`
		Tools  []string `json:"tools"`
	}{
		Status: overallStatus,
		Uptime: time.Since(h.StartedAt).Round(time.Second).String(),
		Tools:  h.Tools,
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	health *HealthStatus
	addr   string
	srv    *http.Server
}

// NewServer creates a metrics and health server for the given gatherer.
func NewServer(addr string, gatherer prometheus.Gatherer, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", health)

	return &Server{
		health: health,
		addr:   addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler exposes the server's mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		slog.Info("metrics server listening", slog.String("addr", s.addr))
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("metrics server error", slog.Any("err", err))
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
