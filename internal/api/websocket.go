package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/config"
	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/logging"
	"github.com/roxaskeyheart/rgbnet-core/internal/sink"
)

// WebSocket message types.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeEvent       = "event"
	WSTypeResponse    = "response"
	WSTypeError       = "error"

	// WSAllChannels subscribes a client to every channel. It is the same
	// as the MQTT filter "#".
	WSAllChannels = "*"

	// wsSendBufferSize is the number of frames queued per client before
	// new frames are dropped.
	wsSendBufferSize = 256
)

// WSMessage is a message sent to a client.
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// wsRequest is a message received from a client.
type wsRequest struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSSubscribePayload is the payload of subscribe and unsubscribe requests.
// Channels are MQTT topic filters: "+" matches one level and a trailing
// "#" matches the rest, so rgbcore/device/+/leds follows every device.
type WSSubscribePayload struct {
	Channels []string `json:"channels"`
}

// Hub relays LED frames to WebSocket clients.
//
// The hub is a sink.Publisher: channels are the MQTT topics the same frames
// go to, so the browser feed and the broker carry identical data.
type Hub struct {
	cfg     config.WebSocketConfig
	logger  *logging.Logger
	clients map[*WSClient]struct{}
	mu      sync.RWMutex
}

var _ sink.Publisher = (*Hub)(nil)

// WSClient is one connected browser.
type WSClient struct {
	hub           *Hub
	conn          *websocket.Conn
	send          chan []byte
	subscriptions map[string]struct{}
	mu            sync.RWMutex

	dropped atomic.Uint64
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origins are checked by the CORS middleware.
	CheckOrigin: func(*http.Request) bool { return true },
}

// NewHub creates a hub. Unset intervals default to a 30s ping and a 10s
// pong timeout.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = 10
	}
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*WSClient]struct{}),
	}
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Register adds a client.
func (h *Hub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)
}

// Unregister removes a client and closes its send queue. Calling it again
// for the same client does nothing.
func (h *Hub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	n := len(h.clients)
	h.mu.Unlock()

	if !existed {
		return
	}
	close(client.send)
	h.logger.Debug("websocket client disconnected",
		"clients", n,
		"dropped_frames", client.dropped.Load(),
	)
}

// Publish relays a JSON frame to the clients following topic. QoS and
// retention do not apply.
func (h *Hub) Publish(topic string, payload []byte, _ byte, _ bool) error {
	h.Broadcast(topic, json.RawMessage(payload))
	return nil
}

// Broadcast sends an event to every client following channel.
func (h *Hub) Broadcast(channel string, payload any) {
	var targets []*WSClient
	h.mu.RLock()
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	targets = filterFollowers(targets, channel)
	if len(targets) == 0 {
		return
	}

	data, err := json.Marshal(WSMessage{
		Type:      WSTypeEvent,
		EventType: channel,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:   payload,
	})
	if err != nil {
		h.logger.Error("encoding websocket event", "channel", channel, "error", err)
		return
	}
	for _, client := range targets {
		client.trySend(data)
	}
}

func filterFollowers(clients []*WSClient, channel string) []*WSClient {
	out := clients[:0]
	for _, c := range clients {
		if c.follows(channel) {
			out = append(out, c)
		}
	}
	return out
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, client)
	}
}

// channelMatches reports whether an MQTT-style filter matches channel.
func channelMatches(filter, channel string) bool {
	if filter == WSAllChannels || filter == "#" {
		return true
	}
	fl := strings.Split(filter, "/")
	cl := strings.Split(channel, "/")
	for i, part := range fl {
		switch {
		case part == "#" && i == len(fl)-1:
			return true
		case i >= len(cl):
			return false
		case part != "+" && part != cl[i]:
			return false
		}
	}
	return len(fl) == len(cl)
}

// handleWebSocket upgrades the request and starts the client's pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &WSClient{
		hub:           s.hub,
		conn:          conn,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
	}
	s.hub.Register(client)

	t := newWSTiming(s.hub.cfg)
	go client.writePump(t)
	go client.readPump(t)
}

// wsTiming holds the keepalive settings of a connection.
type wsTiming struct {
	readLimit int64
	ping      time.Duration
	readWait  time.Duration
	writeWait time.Duration
}

func newWSTiming(cfg config.WebSocketConfig) wsTiming {
	ping := time.Duration(cfg.PingInterval) * time.Second
	pong := time.Duration(cfg.PongTimeout) * time.Second
	return wsTiming{
		readLimit: int64(cfg.MaxMessageSize),
		ping:      ping,
		readWait:  ping + pong,
		writeWait: pong,
	}
}

func (c *WSClient) readPump(t wsTiming) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	if t.readLimit > 0 {
		c.conn.SetReadLimit(t.readLimit)
	}
	extend := func() error { return c.conn.SetReadDeadline(time.Now().Add(t.readWait)) }
	_ = extend()
	c.conn.SetPongHandler(func(string) error { return extend() })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		_ = extend()
		c.handleMessage(message)
	}
}

func (c *WSClient) writePump(t wsTiming) {
	ticker := time.NewTicker(t.ping)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	write := func(kind int, data []byte) error {
		_ = c.conn.SetWriteDeadline(time.Now().Add(t.writeWait))
		return c.conn.WriteMessage(kind, data)
	}
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = write(websocket.CloseMessage, nil)
				return
			}
			if err := write(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) handleMessage(data []byte) {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("", "invalid JSON message")
		return
	}

	switch req.Type {
	case WSTypeSubscribe, WSTypeUnsubscribe:
		c.handleSubscription(req)
	case WSTypePing:
		c.sendResponse(req.ID, WSTypePong, nil)
	default:
		c.sendError(req.ID, "unknown message type: "+req.Type)
	}
}

// handleSubscription adds or removes channel filters and answers with the
// client's resulting subscriptions.
func (c *WSClient) handleSubscription(req wsRequest) {
	var sub WSSubscribePayload
	if err := json.Unmarshal(req.Payload, &sub); err != nil || len(sub.Channels) == 0 {
		c.sendError(req.ID, "invalid "+req.Type+" payload")
		return
	}

	c.mu.Lock()
	for _, ch := range sub.Channels {
		if req.Type == WSTypeSubscribe {
			c.subscriptions[ch] = struct{}{}
		} else {
			delete(c.subscriptions, ch)
		}
	}
	current := make([]string, 0, len(c.subscriptions))
	for ch := range c.subscriptions {
		current = append(current, ch)
	}
	c.mu.Unlock()

	c.hub.logger.Debug("websocket subscriptions changed", "request", req.Type, "channels", sub.Channels)
	c.sendResponse(req.ID, WSTypeResponse, map[string]any{"subscriptions": current})
}

// trySend queues data, counting it as dropped when the queue is full or
// the client has gone.
func (c *WSClient) trySend(data []byte) {
	defer func() {
		if recover() != nil { // send on closed channel
			c.dropped.Add(1)
		}
	}()

	select {
	case c.send <- data:
	default:
		c.dropped.Add(1)
	}
}

func (c *WSClient) follows(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for filter := range c.subscriptions {
		if channelMatches(filter, channel) {
			return true
		}
	}
	return false
}

func (c *WSClient) sendResponse(id, msgType string, payload any) {
	data, err := json.Marshal(WSMessage{
		Type:      msgType,
		ID:        id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		return
	}
	c.trySend(data)
}

func (c *WSClient) sendError(id, message string) {
	c.sendResponse(id, WSTypeError, map[string]string{"message": message})
}
