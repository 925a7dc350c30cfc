package game

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Surubyuru/spy-game/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// ServerMessage is the wire envelope for every outbound event.
type ServerMessage struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type connection struct {
	id     string
	socket *websocket.Conn
	send   chan []byte
}

// enqueue hands data to the write pump without blocking the publisher. A
// connection that cannot drain its buffer loses messages rather than
// stalling the whole room.
func (c *connection) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		logger.Warningf("Send buffer full for connection %s, dropping message", c.id)
	}
}

// writePump is the single writer for a connection. It drains the send
// buffer and keeps the connection alive with periodic pings.
func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.socket.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.socket.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub owns every live websocket connection and the room-scoped channels
// they subscribe to. It implements Transport.
type Hub struct {
	locker   sync.RWMutex
	conns    map[string]*connection
	channels map[string]map[string]*connection

	onDisconnect func(connID string)
}

func NewHub() *Hub {
	return &Hub{
		conns:    make(map[string]*connection),
		channels: make(map[string]map[string]*connection),
	}
}

// OnDisconnect registers the handler invoked after a connection drops.
// Must be set before the hub starts serving connections.
func (h *Hub) OnDisconnect(handler func(connID string)) {
	h.onDisconnect = handler
}

// register starts tracking a freshly upgraded socket and spins up its
// write pump. The returned connection id is the transport identity, never
// the player identity.
func (h *Hub) register(socket *websocket.Conn) *connection {
	c := &connection{
		id:     newOpaqueID(),
		socket: socket,
		send:   make(chan []byte, sendBufferSize),
	}
	h.locker.Lock()
	h.conns[c.id] = c
	h.locker.Unlock()

	go c.writePump()
	return c
}

// drop removes a connection from the hub and every channel, then fires
// the disconnect handler. The send channel is closed while the hub lock
// is held exclusively; publishers enqueue under the read lock, so a
// racing publish either sees the connection gone or finishes before the
// close.
func (h *Hub) drop(connID string) {
	h.locker.Lock()
	c := h.conns[connID]
	delete(h.conns, connID)
	for code, members := range h.channels {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.channels, code)
		}
	}
	if c != nil {
		close(c.send)
	}
	h.locker.Unlock()

	if h.onDisconnect != nil {
		h.onDisconnect(connID)
	}
}

func (h *Hub) JoinChannel(connID, roomCode string) {
	h.locker.Lock()
	defer h.locker.Unlock()
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	members, ok := h.channels[roomCode]
	if !ok {
		members = make(map[string]*connection)
		h.channels[roomCode] = members
	}
	members[connID] = c
}

func (h *Hub) LeaveChannel(connID, roomCode string) {
	h.locker.Lock()
	defer h.locker.Unlock()
	members, ok := h.channels[roomCode]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.channels, roomCode)
	}
}

func (h *Hub) Broadcast(roomCode string, event string, payload any) {
	data, err := json.Marshal(ServerMessage{Event: event, Payload: payload})
	if err != nil {
		logger.Errorf("Failed to marshal %s broadcast: %v", event, err)
		return
	}

	h.locker.RLock()
	for _, c := range h.channels[roomCode] {
		c.enqueue(data)
	}
	h.locker.RUnlock()
}

func (h *Hub) Unicast(connID string, event string, payload any) {
	data, err := json.Marshal(ServerMessage{Event: event, Payload: payload})
	if err != nil {
		logger.Errorf("Failed to marshal %s unicast: %v", event, err)
		return
	}

	h.locker.RLock()
	if c, ok := h.conns[connID]; ok {
		c.enqueue(data)
	}
	h.locker.RUnlock()
}
