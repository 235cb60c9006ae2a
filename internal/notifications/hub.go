package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/infrastructure/metrics"
)

// Frame is one unit written to a client stream: either an event payload
// or a keepalive comment.
type Frame struct {
	Keepalive bool
	Data      []byte
}

// Client is an open display stream. It lives only for the duration of the
// connection and is never persisted.
type Client struct {
	ID     string
	Frames chan Frame

	done chan struct{}
	once sync.Once
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// Done is closed when the hub drops the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Hub is the per-process registry of open client streams. Events reach it
// either from a local publish or from the database relay; it fans them out
// to every registered stream, pruning any that cannot accept the write.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	keepalive time.Duration
	buffer    int
	logger    *zap.Logger
	metrics   *metrics.DisplayMetrics
}

func NewHub(keepalive time.Duration, buffer int, logger *zap.Logger, m *metrics.DisplayMetrics) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		clients:   make(map[string]*Client),
		keepalive: keepalive,
		buffer:    buffer,
		logger:    logger,
		metrics:   m,
	}
}

// AddClient registers a new stream and starts its keepalive ticker so idle
// connections are not dropped by intermediaries.
func (h *Hub) AddClient() *Client {
	client := &Client{
		ID:     uuid.NewString(),
		Frames: make(chan Frame, h.buffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	h.metrics.StreamClientConnected()
	h.logger.Debug("display client connected", zap.String("client_id", client.ID))

	if h.keepalive > 0 {
		go h.keepaliveLoop(client)
	}
	return client
}

// RemoveClient drops the stream and stops its keepalive.
func (h *Hub) RemoveClient(id string) {
	h.mu.Lock()
	client, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	client.close()
	h.metrics.StreamClientGone()
	h.logger.Debug("display client removed", zap.String("client_id", id))
}

// Broadcast writes the payload to every registered stream. Delivery is
// best-effort: clients whose buffer is full are pruned, never waited on.
func (h *Hub) Broadcast(payload []byte) int {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		select {
		case c.Frames <- Frame{Data: payload}:
			delivered++
		default:
			h.logger.Warn("pruning slow display client", zap.String("client_id", c.ID))
			h.RemoveClient(c.ID)
		}
	}
	return delivered
}

// ClientCount reports the number of open streams on this process.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) keepaliveLoop(client *Client) {
	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-client.done:
			return
		case <-ticker.C:
			select {
			case client.Frames <- Frame{Keepalive: true}:
			default:
				h.RemoveClient(client.ID)
				return
			}
		}
	}
}
