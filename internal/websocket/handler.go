package websocket

import (
	"context"
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"

	"expenses/internal/log"
	"expenses/internal/table"
)

// Options configures NewHandler. Store is required.
type Options struct {
	Store  table.Store
	Sorter *table.Sorter
	Logger *log.Logger
	// AllowedOrigins lists browser origins that may connect. Requests
	// without an Origin header are always accepted.
	AllowedOrigins []string
	Now            func() time.Time
}

// Handler upgrades GET /ws and runs one Session per connection.
type Handler struct {
	store          table.Store
	sorter         *table.Sorter
	now            func() time.Time
	logger         *log.Logger
	hub            *Hub
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	origins := make(map[string]bool, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		origins[o] = true
	}

	h := &Handler{
		store:          opts.Store,
		sorter:         opts.Sorter,
		now:            opts.Now,
		logger:         logger.WithComponent(log.ComponentWebSocket),
		hub:            NewHub(),
		allowedOrigins: origins,
	}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	if h.allowedOrigins[origin] {
		return true
	}
	h.logger.Warn("WebSocket connection rejected: origin not allowed", "origin", origin)
	return false
}

// ServeHTTP blocks for the lifetime of the connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Debug("WebSocket upgrade failed", log.FieldError, err)
		return
	}

	client := NewClient(conn, h.logger)
	h.hub.Register(client)
	session := newSession(client, h.store, sessionConfig{sorter: h.sorter, now: h.now, logger: h.logger})
	h.logger.Info("WebSocket client connected", log.FieldSessionID, client.ID())

	defer func() {
		session.Close()
		h.hub.Unregister(client)
		h.logger.Info("WebSocket client disconnected", log.FieldSessionID, client.ID())
	}()

	go client.WritePump()
	go session.run()

	ctx := context.WithoutCancel(r.Context())
	client.ReadPump(func(data []byte) { session.handle(ctx, data) })
}

func (h *Handler) ClientCount() int {
	return h.hub.Count()
}

// Shutdown closes every open connection.
func (h *Handler) Shutdown() {
	h.hub.CloseAll()
}
