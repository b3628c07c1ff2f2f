// Package http serves the expense JSON API and mounts the live dashboard
// websocket endpoint.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expenses/internal/log"
	"expenses/internal/middleware/ratelimit"
	"expenses/internal/middleware/security"
	"expenses/internal/middleware/trace"
	"expenses/internal/store"
	"expenses/internal/table"
)

// Options configures NewServer. Store is required.
type Options struct {
	Addr               string
	Store              *store.Store
	Sorter             *table.Sorter
	Logger             *log.Logger
	RateLimitPerMinute int
	// WebSocket, when set, is mounted at GET /ws.
	WebSocket http.Handler
	// Ready backs /readyz, e.g. a database ping.
	Ready func(context.Context) error
	Now   func() time.Time
}

type Server struct {
	http.Server
	store    *store.Store
	sorter   *table.Sorter
	logger   *log.Logger
	events   *log.StructuredLogger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	ready    func(context.Context) error
	now      func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		store:    opts.Store,
		sorter:   opts.Sorter,
		logger:   logger,
		events:   log.NewStructuredLogger(logger.WithComponent(log.ComponentExpense)),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		ready:    opts.Ready,
		now:      opts.Now,
	}
	if s.sorter == nil {
		s.sorter, _ = table.NewSorter("")
	}
	if s.now == nil {
		s.now = time.Now
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses", s.handleClearExpenses)
	mux.HandleFunc("POST /api/expenses/bulk-delete", s.handleBulkDelete)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/analytics", s.handleAnalytics)

	if opts.WebSocket != nil {
		mux.Handle("GET /ws", opts.WebSocket)
	}

	tracer := trace.NewMiddleware(logger, s.detector.ExtractClientIP)
	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)(handler)
	handler = s.detector.Middleware(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = tracer.Handler(handler)
	handler = log.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldComponent, log.ComponentRateLimit,
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path,
	)
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "expenses": s.store.Len()})
}
