// Package network streams engine diagnostics to WebSocket clients and
// serves saved sessions over HTTP.
package network

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/MRamiBalles/emerald/internal/engine"
	"github.com/MRamiBalles/emerald/internal/platform/logger"
	"github.com/MRamiBalles/emerald/internal/profiling"
)

// MessageType tags an outgoing message.
type MessageType string

const (
	MessageFrameStats MessageType = "FRAME_STATS"
	MessageProfile    MessageType = "PROFILE_SNAPSHOT"
)

// Message is the envelope of every broadcast.
type Message struct {
	Type MessageType `json:"type"`
	Data interface{} `json:"data"`
}

// Metrics receives hub counters. *metrics.Collector satisfies it.
type Metrics interface {
	RecordWSConnection(delta int)
	RecordWSMessage(incoming bool)
	RecordWSDrop()
}

type noMetrics struct{}

func (noMetrics) RecordWSConnection(int) {}
func (noMetrics) RecordWSMessage(bool)   {}
func (noMetrics) RecordWSDrop()          {}

// Hub maintains the set of active clients and broadcasts messages to them.
// Publishing never blocks the caller; messages over the rate limit or
// beyond a full queue are dropped.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
	metrics    Metrics
	limiter    *rate.Limiter
	upgrader   websocket.Upgrader
	done       chan struct{}

	lastMu    sync.RWMutex
	lastStats engine.FrameStats
}

// NewHub creates a hub publishing at most maxPerSecond messages per second.
// Zero means unlimited. m may be nil.
func NewHub(log *logger.Logger, m Metrics, maxPerSecond int) *Hub {
	if m == nil {
		m = noMetrics{}
	}
	limit := rate.Inf
	if maxPerSecond > 0 {
		limit = rate.Limit(maxPerSecond)
	}
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		metrics:    m,
		limiter:    rate.NewLimiter(limit, 1),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Diagnostics are served to local tools only.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Diagnostics hub shutting down")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.RecordWSConnection(1)
			h.logger.Debug("Diagnostics client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWSConnection(-1)
				h.logger.Debug("Diagnostics client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.metrics.RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					h.metrics.RecordWSConnection(-1)
					h.metrics.RecordWSDrop()
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// PublishFrame broadcasts per-frame stats. It matches engine.FrameObserver.
func (h *Hub) PublishFrame(stats engine.FrameStats) {
	h.lastMu.Lock()
	h.lastStats = stats
	h.lastMu.Unlock()
	h.publish(Message{Type: MessageFrameStats, Data: stats})
}

// PublishProfile broadcasts a profiling snapshot.
func (h *Hub) PublishProfile(scopes []profiling.Stats) {
	h.publish(Message{Type: MessageProfile, Data: scopes})
}

// LastFrame returns the most recently published stats.
func (h *Hub) LastFrame() engine.FrameStats {
	h.lastMu.RLock()
	defer h.lastMu.RUnlock()
	return h.lastStats
}

func (h *Hub) publish(msg Message) {
	if !h.limiter.Allow() {
		h.metrics.RecordWSDrop()
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to serialize diagnostics message", logger.WithField("error", err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.metrics.RecordWSDrop()
	}
}

// ServeWS upgrades the request and attaches a new client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", logger.WithField("error", err))
		return
	}
	client := NewClient(h, conn)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
}

// HandleLatest serves the last published frame stats as JSON.
func (h *Hub) HandleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.LastFrame())
}
