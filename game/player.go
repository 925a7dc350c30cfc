package game

import "time"

// Player is one roster entry. Its ID is stable across reconnects; connID
// points at the current transport connection and is only ever used for
// delivery, never identity.
type Player struct {
	ID        string
	Name      string
	IsHost    bool
	Connected bool
	Role      Role
	Word      string

	connID   string
	eviction *time.Timer // pending eviction, nil unless disconnected
}

const fallbackPlayerName = "Player"

func newPlayer(name, connID string, host bool) *Player {
	if name == "" {
		name = fallbackPlayerName
	}
	return &Player{
		ID:        newOpaqueID(),
		Name:      name,
		IsHost:    host,
		Connected: true,
		connID:    connID,
	}
}

// clearRound wipes per-round state when the room returns to the lobby.
func (p *Player) clearRound() {
	p.Role = RoleUnset
	p.Word = ""
}

// cancelEviction stops a pending eviction timer, if any. Must be called
// with the room lock held so it cannot race the firing timer's own
// check-and-clear.
func (p *Player) cancelEviction() {
	if p.eviction != nil {
		p.eviction.Stop()
		p.eviction = nil
	}
}
