package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/server/internal/api"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	// maxFrameBytes bounds a single client request frame.
	maxFrameBytes = 1 << 20

	// recentLimit caps the results included in each snapshot.
	recentLimit = 50
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Allow all origins; callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event names sent to clients.
const (
	EventLine     = "line"
	EventSnapshot = "snapshot"
	EventResult   = "result"
	EventError    = "error"
)

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string     `json:"event"`
	Ref   string     `json:"ref,omitempty"`
	Kind  string     `json:"kind,omitempty"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorData `json:"error,omitempty"`
}

// ErrorData describes a rejected client request.
type ErrorData struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// Snapshot is the payload of a periodic "snapshot" event.
type Snapshot struct {
	Line        *api.ReliabilityResponse `json:"line,omitempty"`
	Results     []api.ResultResponse     `json:"results"`
	GeneratedAt string                   `json:"generated_at"`
}

// Request is a calculation frame sent by a client. Ref is echoed back so the
// client can match replies to requests.
type Request struct {
	Ref   string          `json:"ref,omitempty"`
	Kind  string          `json:"kind"`
	Input json.RawMessage `json:"input"`
}

// Hub manages WebSocket client connections, broadcasts a snapshot of the
// configured line and recent results every interval, and answers calculation
// requests from individual clients.
type Hub struct {
	svc      *api.Service
	interval time.Duration

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket client.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub that computes through svc and broadcasts every interval.
func New(svc *api.Service, interval time.Duration) *Hub {
	return &Hub{
		svc:      svc,
		interval: interval,
		clients:  make(map[*client]struct{}),
	}
}

// Run starts the broadcast ticker loop. Run blocks until ctx is cancelled,
// then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-t.C:
			h.broadcast()
		}
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the client.
// It sends the configured line's result immediately on connect, then streams
// snapshots from the ticker loop. Blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.register(c)
	defer h.unregister(c)

	if line, err := h.svc.DefaultLine(); err == nil {
		h.reply(c, Message{Event: EventLine, Kind: "reliability", Data: line})
	} else {
		h.reply(c, errorMessage("", "reliability", err))
	}

	go c.writePump()
	c.readPump() // blocks until connection closes
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) broadcast() {
	data, err := json.Marshal(Message{Event: EventSnapshot, Data: h.snapshot()})
	if err != nil {
		slog.Error("ws: marshal snapshot", "error", err)
		return
	}

	// Sends happen under the read lock so unregister cannot close a channel
	// mid-send.
	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		slog.Warn("ws: dropping slow client", "remote", c.conn.RemoteAddr().String())
		h.unregister(c)
	}
}

func (h *Hub) snapshot() Snapshot {
	snap := Snapshot{
		Results:     h.svc.Recent(recentLimit),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if line, err := h.svc.DefaultLine(); err == nil {
		snap.Line = line
	}
	return snap
}

// reply queues msg for a single client. A full buffer drops the client.
func (h *Hub) reply(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("ws: marshal reply", "error", err)
		return
	}
	h.mu.RLock()
	_, live := h.clients[c]
	queued := false
	if live {
		select {
		case c.send <- data:
			queued = true
		default:
		}
	}
	h.mu.RUnlock()
	if live && !queued {
		h.unregister(c)
	}
}

// handle runs one client request and replies with a result or error event.
func (h *Hub) handle(c *client, frame []byte) {
	var req Request
	if err := json.Unmarshal(frame, &req); err != nil {
		h.reply(c, errorMessage("", "", &compute.ValidationError{Field: "frame", Reason: "invalid JSON: " + err.Error()}))
		return
	}
	out, err := h.svc.Compute(req.Kind, req.Input)
	if err != nil {
		h.reply(c, errorMessage(req.Ref, req.Kind, err))
		return
	}
	h.reply(c, Message{Event: EventResult, Ref: req.Ref, Kind: req.Kind, Data: out})
}

func errorMessage(ref, kind string, err error) Message {
	return Message{
		Event: EventError,
		Ref:   ref,
		Kind:  kind,
		Error: &ErrorData{Message: err.Error(), Kind: compute.Kind(err)},
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads calculation requests and control frames (pong, close) until
// the connection closes.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxFrameBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		typ, frame, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if typ == websocket.TextMessage {
			c.hub.handle(c, frame)
		}
	}
}
