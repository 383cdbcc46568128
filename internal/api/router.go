// Package api exposes the tool registry over HTTP: a REST pair
// (GET /tools, POST /call) and a Model Context Protocol endpoint (/mcp,
// streamable HTTP). Every route sits behind the bearer gate.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"talib-mcp-server/internal/auth"
	"talib-mcp-server/internal/logger"
	"talib-mcp-server/internal/metrics"
	"talib-mcp-server/internal/tool"
)

// DefaultMaxBodyBytes caps request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 1 << 20

// Options wires a Server.
type Options struct {
	Registry     *tool.Registry
	Gate         *auth.Bearer
	Metrics      *metrics.Metrics
	MaxBodyBytes int64
	Name         string
	Version      string
	Instructions string
}

// Server is the HTTP front of the tool registry.
type Server struct {
	registry *tool.Registry
	gate     *auth.Bearer
	prom     *metrics.Metrics
	maxBody  int64
	info     serverInfo
	handler  http.Handler
}

// NewRouter builds the route table and middleware chain.
func NewRouter(opts Options) (*Server, error) {
	if opts.Registry == nil {
		return nil, errors.New("api: nil registry")
	}
	if opts.Gate == nil {
		return nil, errors.New("api: nil auth gate")
	}
	s := &Server{
		registry: opts.Registry,
		gate:     opts.Gate,
		prom:     opts.Metrics,
		maxBody:  opts.MaxBodyBytes,
		info: serverInfo{
			Name:         opts.Name,
			Version:      opts.Version,
			Instructions: opts.Instructions,
		},
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}

	mcpHandler, err := s.newMCPHandler()
	if err != nil {
		return nil, err
	}

	// Health lives on the metrics listener; nothing here is unauthenticated.
	r := mux.NewRouter()
	r.Handle("/tools", s.protected(s.handleTools)).Methods(http.MethodGet)
	r.Handle("/call", s.protected(s.handleCall)).Methods(http.MethodPost)
	r.Handle("/mcp", s.protected(mcpHandler.ServeHTTP)).Methods(http.MethodGet, http.MethodPost, http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "NotFound", Message: r.URL.Path})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "MethodNotAllowed", Message: r.Method + " " + r.URL.Path})
	})

	s.handler = s.recoverMiddleware(s.requestIDMiddleware(s.loggingMiddleware(r)))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.gate.Middleware(h)
}

// call is the single dispatch point for both transports.
func (s *Server) call(ctx context.Context, name string, args map[string]json.RawMessage) (any, error) {
	start := time.Now()
	result, err := s.registry.Call(ctx, name, args)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = string(tool.KindOf(err))
	}
	if s.prom != nil {
		label := name
		if _, known := s.registry.Lookup(name); !known {
			label = "_unknown"
		}
		s.prom.ObserveCall(label, outcome, elapsed)
	}

	log := logger.FromContext(ctx).With(
		slog.String("tool", name),
		slog.String("outcome", outcome),
		slog.Duration("elapsed", elapsed),
	)
	switch {
	case err != nil && outcome == string(tool.KindInternal):
		log.Error("tool call failed", slog.Any("err", err))
	case err != nil:
		log.Info("tool call rejected", slog.String("reason", err.Error()))
	default:
		log.Debug("tool call")
	}
	return result, err
}
