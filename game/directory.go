package game

import (
	"context"
	"sync"
	"time"

	"github.com/Surubyuru/spy-game/logger"
)

// Directory is the process-wide owner of all live rooms. Every operation
// on a room is serialized through that room's lock, and the events a
// transition produces are delivered before the lock is released, so
// clients observe transitions on one room in the order they were
// applied. Delivery only enqueues onto per-connection buffers, so
// holding the lock across it never blocks on a slow client.
//
// Lock ordering: the directory map lock is released before any room lock
// is taken. The connection index, session registry and transport locks
// are leaves that may be taken while a room lock is held; none of them
// acquires anything else.
type Directory struct {
	locker sync.RWMutex
	rooms  map[string]*Room

	connLocker sync.Mutex
	conns      map[string]sessionRef

	sessions  *SessionRegistry
	words     WordSource
	transport Transport
	events    *Dispatcher
	grace     time.Duration
}

func NewDirectory(words WordSource, transport Transport, grace time.Duration) *Directory {
	return &Directory{
		rooms:     make(map[string]*Room),
		conns:     make(map[string]sessionRef),
		sessions:  newSessionRegistry(),
		words:     words,
		transport: transport,
		events:    NewDispatcher(transport),
		grace:     grace,
	}
}

// Room looks up a live room by code.
func (d *Directory) Room(code string) (*Room, bool) {
	d.locker.RLock()
	room, ok := d.rooms[code]
	d.locker.RUnlock()
	return room, ok
}

// RoomCount reports how many rooms are live.
func (d *Directory) RoomCount() int {
	d.locker.RLock()
	defer d.locker.RUnlock()
	return len(d.rooms)
}

func (d *Directory) setConn(connID, roomCode, playerID string) {
	d.connLocker.Lock()
	d.conns[connID] = sessionRef{roomCode: roomCode, playerID: playerID}
	d.connLocker.Unlock()
}

func (d *Directory) clearConn(connID string) (sessionRef, bool) {
	d.connLocker.Lock()
	ref, ok := d.conns[connID]
	delete(d.conns, connID)
	d.connLocker.Unlock()
	return ref, ok
}

// member resolves the player bound to a connection and the room both
// claim to be in. A mismatched or unknown room code is indistinguishable
// from a missing room on purpose.
func (d *Directory) member(connID, roomCode string) (*Room, string, error) {
	d.connLocker.Lock()
	ref, ok := d.conns[connID]
	d.connLocker.Unlock()
	if !ok || ref.roomCode != roomCode {
		return nil, "", ErrRoomNotFound
	}

	room, exists := d.Room(ref.roomCode)
	if !exists {
		return nil, "", ErrRoomNotFound
	}
	return room, ref.playerID, nil
}

func (d *Directory) removeRoom(code string) {
	d.locker.Lock()
	delete(d.rooms, code)
	d.locker.Unlock()
	d.sessions.PurgeRoom(code)
	logger.Infof("[Room %s] destroyed", code)
}

// CreateRoom registers a new room with the caller as host.
func (d *Directory) CreateRoom(ctx context.Context, connID, playerName string) error {
	d.locker.Lock()
	code := newRoomCode()
	for _, taken := d.rooms[code]; taken; _, taken = d.rooms[code] {
		code = newRoomCode()
	}
	room := newRoom(code, d.words)
	d.rooms[code] = room
	d.locker.Unlock()

	room.Lock()
	defer room.Unlock()
	host := room.addPlayer(playerName, connID, true)
	roster := room.playersInfo()

	token := d.sessions.Add(code, host.ID)
	d.setConn(connID, code, host.ID)
	d.transport.JoinChannel(connID, code)

	d.events.Deliver(code, []Event{
		unicastEvent(connID, EventRoomCreated, RoomCreatedPayload{
			RoomCode:     code,
			PlayerID:     host.ID,
			SessionToken: token,
		}),
		broadcastEvent(EventUpdatePlayers, UpdatePlayersPayload{Players: roster}),
	})
	logger.Infof("[Room %s] created by %s", code, host.Name)
	return nil
}

// JoinRoom adds a player to an existing lobby.
func (d *Directory) JoinRoom(ctx context.Context, connID, roomCode, playerName string) error {
	room, exists := d.Room(roomCode)
	if !exists {
		return ErrRoomNotFound
	}

	room.Lock()
	defer room.Unlock()
	p, roster, err := room.join(playerName, connID)
	if err != nil {
		return err
	}

	token := d.sessions.Add(roomCode, p.ID)
	d.setConn(connID, roomCode, p.ID)
	d.transport.JoinChannel(connID, roomCode)

	d.events.Deliver(roomCode, []Event{
		unicastEvent(connID, EventJoinedRoom, JoinedRoomPayload{
			RoomCode:     roomCode,
			PlayerID:     p.ID,
			SessionToken: token,
		}),
		broadcastEvent(EventUpdatePlayers, UpdatePlayersPayload{Players: roster}),
	})
	return nil
}

// StartGame runs the host-only start_game transition, including the word
// store fetch.
func (d *Directory) StartGame(ctx context.Context, connID, roomCode string, settings Settings) error {
	room, playerID, err := d.member(connID, roomCode)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()
	events, err := room.startGame(ctx, playerID, settings)
	if err != nil {
		return err
	}

	d.events.Deliver(roomCode, events)
	return nil
}

func (d *Directory) StartVoting(connID, roomCode string) error {
	room, playerID, err := d.member(connID, roomCode)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()
	events, err := room.startVoting(playerID)
	if err != nil {
		return err
	}

	d.events.Deliver(roomCode, events)
	return nil
}

func (d *Directory) CastVote(connID, roomCode, targetID string) error {
	room, playerID, err := d.member(connID, roomCode)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()
	events, err := room.castVote(playerID, targetID)
	if err != nil {
		return err
	}

	d.events.Deliver(roomCode, events)
	return nil
}

func (d *Directory) RevealGame(connID, roomCode string) error {
	room, playerID, err := d.member(connID, roomCode)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()
	events, err := room.reveal(playerID)
	if err != nil {
		return err
	}

	d.events.Deliver(roomCode, events)
	return nil
}

func (d *Directory) PlayAgain(connID, roomCode string) error {
	room, playerID, err := d.member(connID, roomCode)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()
	events, err := room.playAgain(playerID)
	if err != nil {
		return err
	}

	d.events.Deliver(roomCode, events)
	return nil
}

// LeaveGame removes the caller from their room immediately. No grace
// period: leaving is deliberate.
func (d *Directory) LeaveGame(connID, roomCode string) error {
	room, playerID, err := d.member(connID, roomCode)
	if err != nil {
		return err
	}

	room.Lock()
	events, empty := room.leave(playerID)

	d.sessions.RemovePlayer(playerID)
	d.clearConn(connID)
	d.transport.LeaveChannel(connID, roomCode)

	d.events.Deliver(roomCode, events)
	room.Unlock()

	if empty {
		d.removeRoom(roomCode)
	}
	return nil
}

// HandleDisconnect is wired to the transport's disconnect notification.
// It demotes the player and arms their eviction timer.
func (d *Directory) HandleDisconnect(connID string) {
	ref, ok := d.clearConn(connID)
	if !ok {
		return
	}

	room, exists := d.Room(ref.roomCode)
	if !exists {
		return
	}

	room.Lock()
	defer room.Unlock()
	events := room.disconnect(ref.playerID, connID, d.grace, func() {
		d.evict(ref.roomCode, ref.playerID)
	})

	d.events.Deliver(ref.roomCode, events)
}

// evict fires when a grace period expires without a rejoin. The room lock
// plus the timer-handle check-and-clear make it idempotent against a
// racing reconnect: whichever side takes the lock first wins outright.
func (d *Directory) evict(roomCode, playerID string) {
	room, exists := d.Room(roomCode)
	if !exists {
		return
	}

	room.Lock()
	p := room.player(playerID)
	if p == nil || p.Connected || p.eviction == nil {
		room.Unlock()
		return
	}
	p.eviction = nil
	events, empty := room.leave(playerID)

	d.sessions.RemovePlayer(playerID)
	logger.Infof("[Room %s] grace window expired for %s", roomCode, p.Name)

	d.events.Deliver(roomCode, events)
	room.Unlock()

	if empty {
		d.removeRoom(roomCode)
	}
}

// Rejoin resumes a player's identity on a fresh connection using their
// session token. Any dangling token resolves to RejoinFailed.
func (d *Directory) Rejoin(ctx context.Context, connID, token string) error {
	ref, ok := d.sessions.Resolve(token)
	if !ok {
		return ErrRejoinFailed
	}

	room, exists := d.Room(ref.roomCode)
	if !exists {
		return ErrRejoinFailed
	}

	room.Lock()
	defer room.Unlock()
	roomEvents, playerEvents, stale, err := room.rejoin(ref.playerID, connID)
	if err != nil {
		return ErrRejoinFailed
	}

	// a rejoin over a still-live connection supersedes it: the old one is
	// unbound and unsubscribed so it can neither act as the player nor
	// keep receiving the room's broadcasts
	if stale != "" {
		d.clearConn(stale)
		d.transport.LeaveChannel(stale, ref.roomCode)
	}
	d.setConn(connID, ref.roomCode, ref.playerID)

	// the reconnect broadcast goes out before the new connection joins the
	// channel, so only the rest of the room sees it
	d.events.Deliver(ref.roomCode, roomEvents)
	d.transport.JoinChannel(connID, ref.roomCode)
	d.events.Deliver(ref.roomCode, playerEvents)
	return nil
}
