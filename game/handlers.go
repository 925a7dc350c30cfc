package game

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/Surubyuru/spy-game/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin enforcement happens in the router middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler owns the websocket endpoint and routes validated client
// intents into the directory.
type Handler struct {
	hub       *Hub
	directory *Directory
}

func NewHandler(hub *Hub, directory *Directory) *Handler {
	hub.OnDisconnect(directory.HandleDisconnect)
	return &Handler{hub: hub, directory: directory}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.ServeWS)
}

// ServeWS upgrades the request and starts the connection's pumps.
func (h *Handler) ServeWS(ctx *gin.Context) {
	socket, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Errorf("WS upgrade failed: %v", err)
		return
	}

	c := h.hub.register(socket)
	go h.readPump(c)
}

// readPump is the single reader for a connection. It enforces a per
// connection rate limit, validates payloads at the boundary and hands
// typed intents to the directory.
func (h *Handler) readPump(c *connection) {
	defer h.hub.drop(c.id)

	limiter := rate.NewLimiter(rate.Limit(20), 40)

	c.socket.SetReadLimit(maxMessageSize)
	c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		c.socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.socket.ReadMessage()
		if err != nil {
			break
		}
		if !limiter.Allow() {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(c.id, errors.New("malformed message"))
			continue
		}

		h.handleIntent(c.id, msg)
	}
}

func (h *Handler) handleIntent(connID string, msg ClientMessage) {
	payload, err := UnmarshalClientMessage(msg)
	if err != nil {
		h.sendError(connID, errors.New("malformed payload"))
		return
	}

	ctx := context.Background()

	var opErr error
	switch p := payload.(type) {
	case CreateRoomPayload:
		opErr = h.directory.CreateRoom(ctx, connID, p.PlayerName)

	case JoinRoomPayload:
		opErr = h.directory.JoinRoom(ctx, connID, p.RoomCode, p.PlayerName)

	case RejoinRequestPayload:
		opErr = h.directory.Rejoin(ctx, connID, p.SessionToken)
		if errors.Is(opErr, ErrRejoinFailed) {
			h.hub.Unicast(connID, string(EventRejoinFailed), RejoinFailedPayload{})
			return
		}

	case StartGamePayload:
		opErr = h.directory.StartGame(ctx, connID, p.RoomCode, p.Settings)

	case StartVotingPayload:
		opErr = h.directory.StartVoting(connID, p.RoomCode)

	case CastVotePayload:
		opErr = h.directory.CastVote(connID, p.RoomCode, p.TargetID)

	case RevealGamePayload:
		opErr = h.directory.RevealGame(connID, p.RoomCode)

	case PlayAgainPayload:
		opErr = h.directory.PlayAgain(connID, p.RoomCode)

	case LeaveGamePayload:
		opErr = h.directory.LeaveGame(connID, p.RoomCode)
	}

	if opErr != nil {
		h.sendError(connID, opErr)
	}
}

func (h *Handler) sendError(connID string, err error) {
	h.hub.Unicast(connID, string(EventErrorMessage), ErrorMessagePayload{
		Code:    errorCode(err),
		Message: err.Error(),
	})
}
