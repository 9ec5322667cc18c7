// Package api provides HTTP handlers and the main API server logic for
// DealFlow.
//
// It exposes RESTful endpoints for the chat pipeline, session inspection,
// business record lookup and finance comparisons, plus the inbound Twilio
// webhook when SMS is enabled.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/dialog"
	"github.com/RoadAtlas/DealFlow/internal/session"
	"github.com/RoadAtlas/DealFlow/internal/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Server timeouts.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Opts holds configuration options for the API server.
type Opts struct {
	Addr          string
	TwilioWebhook http.Handler
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr overrides the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithTwilioWebhook mounts the inbound SMS webhook at /webhooks/twilio.
func WithTwilioWebhook(h http.Handler) Option {
	return func(o *Opts) { o.TwilioWebhook = h }
}

// Server wires the conversation engine, session manager and store behind the
// HTTP surface.
type Server struct {
	engine   *dialog.Engine
	sessions *session.Manager
	st       store.Store
	addr     string
	webhook  http.Handler
	httpSrv  *http.Server
}

// NewServer creates the API server.
func NewServer(engine *dialog.Engine, sessions *session.Manager, st store.Store, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAddr}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		engine:   engine,
		sessions: sessions,
		st:       st,
		addr:     cfg.Addr,
		webhook:  cfg.TwilioWebhook,
	}
}

// Handler builds the route table. Exposed so tests can drive the server
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/chat", s.chatHandler)
	mux.HandleFunc("/sessions/", s.sessionHandler)
	mux.HandleFunc("/orders/", s.orderHandler)
	mux.HandleFunc("/appointments/", s.appointmentHandler)
	mux.HandleFunc("/listings", s.listingsHandler)
	mux.HandleFunc("/listings/", s.listingHandler)
	mux.HandleFunc("/finance/compare", s.financeCompareHandler)
	if s.webhook != nil {
		mux.Handle("/webhooks/twilio", s.webhook)
	}
	return mux
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server Run listening", "addr", s.addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	slog.Info("Server Run shutting down")
	return s.httpSrv.Shutdown(shutdownCtx)
}
