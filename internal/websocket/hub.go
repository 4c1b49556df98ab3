package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/infrastructure"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/events"
)

// ErrHubStopped is returned by Publish once the hub no longer runs.
var ErrHubStopped = errors.New("websocket hub stopped")

// Hub maintains the set of active clients and broadcasts frames to them.
// The client set is owned by the Run goroutine.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	count   int
	running bool
	stopped bool

	quit chan struct{}
	done chan struct{}

	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// NewHub creates a new Hub. A nil metrics records nothing.
func NewHub(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if metrics == nil {
		metrics = infrastructure.NoopBusinessMetrics()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
	}
}

// Start starts the hub loop. Calling it again, or after Stop, is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running || h.stopped {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Run is the hub's main loop
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				h.remove(client)
			}
			h.logger.Info("Hub shut down")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.setCount(len(h.clients))
			h.metrics.WebSocketClients.Add(context.Background(), 1)

			ctx := client.context()
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", len(h.clients)),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.greet(ctx, client)

		case client := <-h.unregister:
			if h.clients[client] {
				h.remove(client)
				h.logger.InfoContext(client.context(), "Client unregistered",
					slog.Int("total_clients", len(h.clients)),
					slog.String("client_id", client.id))
			}

		case message := <-h.broadcast:
			delivered := 0
			for client := range h.clients {
				select {
				case client.send <- message:
					delivered++
				default:
					h.logger.WarnContext(client.context(), "Client send buffer full, disconnecting",
						slog.String("client_id", client.id))
					h.remove(client)
				}
			}
			h.logger.Debug("Frame broadcast",
				slog.Int("delivered", delivered),
				slog.Int("message_size", len(message)))
		}
	}
}

// remove must only be called from Run.
func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.setCount(len(h.clients))
	h.metrics.WebSocketClients.Add(context.Background(), -1)
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// greet sends the connection frame to a freshly registered client.
func (h *Hub) greet(ctx context.Context, client *Client) {
	frame, err := events.NewFrame(events.MessageTypeConnected, events.Connected{
		ClientID: client.id,
		Status:   "connected",
	}, client.traceID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to build connection frame", slog.String("error", err.Error()))
		return
	}
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to marshal connection frame", slog.String("error", err.Error()))
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.WarnContext(ctx, "Failed to send connection message - client buffer full",
			slog.String("client_id", client.id))
	}
}

// Publish broadcasts frame to every connected client. It blocks until the
// hub accepts the frame, ctx is done or the hub stops.
func (h *Hub) Publish(ctx context.Context, frame *events.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", frame.Type, err)
	}

	select {
	case <-h.quit:
		return ErrHubStopped
	default:
	}

	select {
	case h.broadcast <- data:
		return nil
	case <-h.quit:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.quit:
		return ErrHubStopped
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Running reports whether the hub loop is active.
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

// Stop stops the hub and closes every client. It waits for the loop to exit.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.stopped = true
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}
