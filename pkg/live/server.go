package live

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/quoteboard/internal/errors"
	"github.com/vango-dev/quoteboard/pkg/component"
	"github.com/vango-dev/quoteboard/pkg/telemetry"
)

var errSessionClosed = stderrors.New("live: session closed")

// Default session settings.
const (
	DefaultWriteTimeout      = 10 * time.Second
	DefaultReadTimeout       = 60 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultMaxPending        = 256
)

// HostFactory creates the host of a new session.
type HostFactory func() *component.Host

// Layout mounts a session's components into target. It runs on the host
// loop.
type Layout func(h *component.Host, target component.RenderTarget) error

// Server serves the page, the WebSocket endpoint and metrics.
type Server struct {
	newHost  HostFactory
	layout   Layout
	upgrader websocket.Upgrader
	logger   *slog.Logger
	tel      *telemetry.Telemetry
	session  sessionConfig
	router   chi.Router

	sessions atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTelemetry exposes t's registry on /metrics.
func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(s *Server) {
		s.tel = t
	}
}

// WithCheckOrigin sets the WebSocket origin check.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// WithWriteTimeout bounds every frame write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.session.WriteTimeout = d
	}
}

// NewServer creates a server running layout in a fresh host per session.
func NewServer(newHost HostFactory, layout Layout, opts ...Option) *Server {
	s := &Server{
		newHost: newHost,
		layout:  layout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: slog.Default(),
		session: sessionConfig{
			WriteTimeout:      DefaultWriteTimeout,
			ReadTimeout:       DefaultReadTimeout,
			HeartbeatInterval: DefaultHeartbeatInterval,
			MaxPending:        DefaultMaxPending,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "live")
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler())
	return r
}

func (s *Server) metricsHandler() http.Handler {
	if g := s.tel.Gatherer(); g != nil {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int64 {
	return s.sessions.Load()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}

	host := s.newHost()
	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
	sess := newSession(conn, host, s.session, logger)

	// The request context ends with the server, which stops the loops.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s.sessions.Add(1)
	defer s.sessions.Add(-1)
	logger.Info("session started", "remote", r.RemoteAddr)

	go sess.WriteLoop(ctx)
	stopped := make(chan struct{})
	go func() {
		host.Run(ctx)
		close(stopped)
	}()

	var layoutErr error
	if err := host.Call(func() { layoutErr = s.layout(host, sess) }); err != nil {
		layoutErr = err
	}
	if layoutErr != nil {
		logger.Error("layout failed", "error", layoutErr, "code", errors.CodeOf(layoutErr))
		sess.Close()
	} else {
		sess.ReadLoop()
	}

	cancel()
	<-stopped
	sess.Close()
	logger.Info("session ended")
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
