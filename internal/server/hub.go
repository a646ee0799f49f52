package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/Aaditya-jx/loadbalancing/internal/notify"
	"github.com/Aaditya-jx/loadbalancing/internal/render"
)

const (
	sendBuffer   = 256
	writeTimeout = 10 * time.Second
	pingInterval = 54 * time.Second
)

// Message is pushed to dashboard pages over the websocket.
type Message struct {
	Type string `json:"type"`

	// surface updates
	Surface string `json:"surface,omitempty"`
	Text    string `json:"text,omitempty"`

	// notifications
	ID         string `json:"id,omitempty"`
	Message    string `json:"message,omitempty"`
	Level      string `json:"level,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty"`
}

// SurfaceMessage builds a surface update.
func SurfaceMessage(surfaceID, text string) Message {
	return Message{Type: "surface", Surface: surfaceID, Text: text}
}

// NotificationMessage builds a notification message.
func NotificationMessage(n notify.Notification) Message {
	return Message{
		Type:       "notification",
		ID:         n.ID,
		Message:    n.Message,
		Level:      string(n.Level),
		DurationMs: n.DurationMillis(),
	}
}

type client struct {
	conn    *websocket.Conn
	session string
	send    chan []byte
}

// Hub fans messages out to the websocket connections of each page session.
type Hub struct {
	logger         *zap.Logger
	originPatterns []string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a hub. originPatterns are the host patterns accepted in the
// Origin header; requests without an Origin header are always accepted.
func NewHub(logger *zap.Logger, originPatterns []string) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		logger:         logger,
		originPatterns: originPatterns,
		ctx:            ctx,
		cancel:         cancel,
		clients:        make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and attaches the connection to the session
// named by the "session" query parameter.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := sessionID(r)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  h.originPatterns,
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	c := &client{conn: conn, session: session, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	h.logger.Debug("websocket client connected", zap.String("session", session), zap.Int("clients", h.Clients()))

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		c.conn.Close(websocket.StatusNormalClosure, "")
		h.logger.Debug("websocket client disconnected", zap.String("session", c.session))
	}
}

// readPump discards incoming messages and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	for {
		if _, _, err := c.conn.Read(h.ctx); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && h.ctx.Err() == nil {
				h.logger.Debug("websocket read error", zap.String("session", c.session), zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				h.logger.Debug("websocket write error", zap.String("session", c.session), zap.Error(err))
				go h.unregister(c)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				go h.unregister(c)
				return
			}

		case <-h.ctx.Done():
			return
		}
	}
}

// Send delivers msg to every connection of session. An empty session
// broadcasts to all connections. Slow connections drop the message.
func (h *Hub) Send(session string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if session != "" && c.session != session {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Warn("websocket send buffer full, dropping message", zap.String("session", c.session))
		}
	}
}

// Renderer returns a Renderer that pushes surface updates to session.
func (h *Hub) Renderer(session string) render.Renderer {
	return render.RendererFunc(func(surfaceID, text string) {
		h.Send(session, SurfaceMessage(surfaceID, text))
	})
}

// Clients returns the number of open connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClients returns the number of open connections of session.
func (h *Hub) SessionClients(session string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for c := range h.clients {
		if c.session == session {
			n++
		}
	}
	return n
}

// Shutdown closes every connection and refuses new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	h.cancel()
	for _, c := range clients {
		h.unregister(c)
	}
}
