package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// The state socket is a hub with per-client write pumps, so one slow
// client cannot block the others. A client that cannot keep up with
// broadcasts is disconnected when its send queue fills. Messages are
// JSON text frames with an envelope: {type, ts, data}.

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second

	// maxCommandBytes bounds inbound command frames.
	maxCommandBytes = 4 << 10
)

// envelope is the wire format for outbound messages.
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

func marshalEnvelope(typ string, data any) []byte {
	now := time.Now().UTC()
	b, err := json.Marshal(envelope{Type: typ, Ts: &now, Data: data})
	if err != nil {
		// Envelope payloads are plain structs; a marshal failure is a
		// programming error.
		panic(err)
	}
	return b
}

// command is an inbound client request. Only the fields for the given
// type are meaningful.
type command struct {
	Type   string  `json:"type"`
	Time   float64 `json:"time,omitempty"`
	Factor float64 `json:"factor,omitempty"`
	At     float64 `json:"at,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Start  float64 `json:"start,omitempty"`
	End    float64 `json:"end,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

// Hub tracks connected clients and fans broadcasts out to them.
type Hub struct {
	logger *slog.Logger

	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	// handle receives decoded client commands.
	handle func(command) error

	// snapshot produces the state_init frame for a fresh client.
	snapshot func() []byte

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(logger *slog.Logger, handle func(command) error, snapshot func() []byte) *Hub {
	return &Hub{
		logger:     logger,
		broadcast:  make(chan []byte, 128),
		register:   make(chan *client, 16),
		unregister: make(chan *client, 16),
		handle:     handle,
		snapshot:   snapshot,
		clients:    make(map[*client]struct{}),
	}
}

// Run processes hub events until ctx is canceled, then disconnects
// all clients.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client connected", "remote_addr", c.remoteAddr, "clients", n)

		case c := <-h.unregister:
			h.remove(c, "disconnect")

		case msg := <-h.broadcast:
			var slow []*client
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()
			for _, c := range slow {
				h.remove(c, "slow client")
			}
		}
	}
}

// Broadcast enqueues a pre-serialized frame for all clients. It never
// blocks; when the hub queue is full the frame is dropped (the next
// state broadcast supersedes it anyway).
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, dropping frame", "bytes", len(msg))
	}
}

func (h *Hub) remove(c *client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if !ok {
		return
	}
	c.conn.Close()
	c.closeSend()
	h.logger.Info("client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", n)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
		c.closeSend()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The daemon binds loopback by default; origin checking is left
	// to a fronting proxy when exposed beyond that.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request and runs the client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, 32),
		remoteAddr: r.RemoteAddr,
		logger:     h.logger,
	}
	h.register <- c

	// Initial snapshot goes straight onto the client queue so it is
	// ordered before any broadcast the client observes.
	c.send <- h.snapshot()

	go c.writePump()
	go c.readPump()
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	closeOnce  sync.Once
	remoteAddr string
	logger     *slog.Logger
}

func (c *client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// trySend queues a frame unless the client is full or already being
// torn down. The hub may close send concurrently with readPump; the
// recover covers that window.
func (c *client) trySend(msg []byte) {
	defer func() { _ = recover() }()
	select {
	case c.send <- msg:
	default:
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					c.logger.Debug("write pump exiting", "remote_addr", c.remoteAddr, "error", err)
				}
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer func() { c.hub.unregister <- c }()

	c.conn.SetReadLimit(maxCommandBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("read pump exiting", "remote_addr", c.remoteAddr, "error", err)
			}
			return
		}
		var cmd command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			c.logger.Warn("bad command frame", "remote_addr", c.remoteAddr, "error", err)
			continue
		}
		if err := c.hub.handle(cmd); err != nil {
			c.trySend(marshalEnvelope("error", map[string]string{
				"command": cmd.Type,
				"message": err.Error(),
			}))
		}
	}
}
