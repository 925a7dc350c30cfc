package game

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// socketSource hands out connected server/client websocket pairs backed
// by a single loopback server.
type socketSource struct {
	srv      *httptest.Server
	accepted chan *websocket.Conn
}

func newSocketSource(t *testing.T) *socketSource {
	t.Helper()
	s := &socketSource{accepted: make(chan *websocket.Conn, 1)}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.accepted <- conn
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *socketSource) pair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return <-s.accepted, client
}

func TestHub_BroadcastScopedToChannel(t *testing.T) {
	src := newSocketSource(t)
	h := NewHub()

	s1, c1 := src.pair(t)
	s2, c2 := src.pair(t)
	conn1 := h.register(s1)
	conn2 := h.register(s2)

	h.JoinChannel(conn1.id, "ROOM1")
	h.JoinChannel(conn2.id, "ROOM2")
	h.Broadcast("ROOM1", "hello", map[string]string{"to": "room1"})

	require.NoError(t, c1.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := c1.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, "hello", envelope.Event)

	// the other room hears nothing
	require.NoError(t, c2.SetReadDeadline(time.Now().Add(50 * time.Millisecond)))
	_, _, err = c2.ReadMessage()
	assert.Error(t, err)
}

func TestHub_UnicastAfterDropIsNoOp(t *testing.T) {
	src := newSocketSource(t)
	h := NewHub()

	s, _ := src.pair(t)
	conn := h.register(s)
	h.drop(conn.id)

	h.Unicast(conn.id, "ghost", nil)
	h.Broadcast("ROOM1", "ghost", nil)
}

// A publish racing a disconnect must never send on the closed buffer.
func TestHub_UnicastRacingDrop(t *testing.T) {
	src := newSocketSource(t)
	h := NewHub()

	for i := 0; i < 200; i++ {
		s, _ := src.pair(t)
		conn := h.register(s)
		h.JoinChannel(conn.id, "ROOM1")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				h.Unicast(conn.id, "ping", nil)
				h.Broadcast("ROOM1", "ping", nil)
			}
		}()
		go func() {
			defer wg.Done()
			h.drop(conn.id)
		}()
		wg.Wait()
	}
}
