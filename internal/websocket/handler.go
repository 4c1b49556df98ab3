package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/config"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/infrastructure"
)

// Handler upgrades GET /ws requests and attaches the connection to a hub.
type Handler struct {
	hub            *Hub
	upgrader       websocket.Upgrader
	config         config.WebSocketConfig
	allowedOrigins map[string]bool
	allowAll       bool
	logger         *slog.Logger
}

// NewHandler creates a websocket handler. An empty origin list, or one
// containing "*", accepts every origin.
func NewHandler(hub *Hub, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	h := &Handler{
		hub:            hub,
		config:         cfg,
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
		allowAll:       len(allowedOrigins) == 0,
		logger:         logger.With(slog.String("component", "websocket.handler")),
	}
	for _, o := range allowedOrigins {
		if o == "*" {
			h.allowAll = true
		}
		h.allowedOrigins[o] = true
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.logger.ErrorContext(r.Context(), "WebSocket upgrade error",
				slog.Int("status", status),
				slog.String("reason", reason.Error()),
				slog.String("origin", r.Header.Get("Origin")))
			http.Error(w, http.StatusText(status), status)
		},
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// No origin means a same-origin or non-browser client
	if origin == "" || h.allowAll {
		return true
	}
	if h.allowedOrigins[origin] {
		return true
	}
	h.logger.WarnContext(r.Context(), "WebSocket origin check - origin not allowed",
		slog.String("origin", origin))
	return false
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.hub.Running() {
		http.Error(w, ErrHubStopped.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already replied
		return
	}

	client := NewClient(h.hub, NewConnectionWrapper(conn), infrastructure.GetTraceID(ctx), h.config, h.logger)
	if err := h.hub.Register(client); err != nil {
		conn.Close()
		return
	}

	h.logger.InfoContext(ctx, "WebSocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", r.RemoteAddr))

	go client.WritePump()
	go client.ReadPump()
}
