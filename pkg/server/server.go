package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server hosts the live WebSocket endpoint and ancillary HTTP surface.
type Server struct {
	config     *Config
	logger     *slog.Logger
	sessions   *SessionManager
	hooks      *Instrumentation
	registered []*Instrumentation

	httpServer *http.Server
}

// New returns a server for cfg.
func New(cfg Config) *Server {
	c := cfg.withDefaults()
	return &Server{
		config:   c,
		logger:   c.Logger,
		sessions: NewSessionManager(c.MaxSessions, c.Logger),
		hooks:    &Instrumentation{},
	}
}

// Use registers instrumentation. Must be called before Start.
func (srv *Server) Use(ins ...*Instrumentation) {
	srv.registered = append(srv.registered, ins...)
	srv.hooks = merge(srv.registered)
}

// Sessions returns the session manager.
func (srv *Server) Sessions() *SessionManager {
	return srv.sessions
}

// Router returns the HTTP handler: /live (WebSocket), /healthz, and
// /metrics when enabled.
func (srv *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if srv.config.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Get("/live", srv.HandleWebSocket)
	return r
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (srv *Server) Start(ctx context.Context) error {
	srv.httpServer = &http.Server{
		Addr:    srv.config.Addr,
		Handler: srv.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		srv.logger.Info("listening", "addr", srv.config.Addr)
		errCh <- srv.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.sessions.CloseAll()
	return srv.httpServer.Shutdown(shutdownCtx)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The demo server is same-origin; embedders should replace this
	// with a real origin check.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the connection and runs a session on it.
func (srv *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	s := newSession(r.Context(), conn, srv.config)
	s.use(srv.hooks)
	if err := srv.sessions.Add(s); err != nil {
		srv.logger.Warn("rejecting session", "error", err)
		s.Close()
		return
	}
	if srv.hooks.SessionOpened != nil {
		srv.hooks.SessionOpened()
	}
	srv.logger.Info("session opened", "session_id", s.ID)

	// Populate rows before the loop or read loop can observe the session,
	// so no event ever races the setup.
	if setup := srv.config.SetupSession; setup != nil {
		setup(s)
		s.runDeferred()
		s.flushPatches()
	}

	go s.Loop()
	s.ReadLoop()
	srv.sessions.Remove(s.ID)
}
