package game

import "sync"

type sessionRef struct {
	roomCode string
	playerID string
}

// SessionRegistry maps opaque client-held tokens to (room, player) pairs
// so a dropped connection can resume identity. It holds lookup keys only,
// never game state; anything resolved from it is re-validated under the
// room's own lock.
type SessionRegistry struct {
	locker   sync.Mutex
	tokens   map[string]sessionRef
	byPlayer map[string]string
}

func newSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		tokens:   make(map[string]sessionRef),
		byPlayer: make(map[string]string),
	}
}

// Add mints a fresh token for a player. Tokens are created once per
// player and never rotated.
func (s *SessionRegistry) Add(roomCode, playerID string) string {
	token := newOpaqueID()
	s.locker.Lock()
	s.tokens[token] = sessionRef{roomCode: roomCode, playerID: playerID}
	s.byPlayer[playerID] = token
	s.locker.Unlock()
	return token
}

func (s *SessionRegistry) Resolve(token string) (sessionRef, bool) {
	s.locker.Lock()
	ref, ok := s.tokens[token]
	s.locker.Unlock()
	return ref, ok
}

// RemovePlayer invalidates a player's token once they are removed from
// their room. Disconnects deliberately do not invalidate.
func (s *SessionRegistry) RemovePlayer(playerID string) {
	s.locker.Lock()
	if token, ok := s.byPlayer[playerID]; ok {
		delete(s.tokens, token)
		delete(s.byPlayer, playerID)
	}
	s.locker.Unlock()
}

// PurgeRoom drops every token still pointing at a destroyed room so
// stale rejoin attempts fail fast instead of dangling.
func (s *SessionRegistry) PurgeRoom(roomCode string) {
	s.locker.Lock()
	for token, ref := range s.tokens {
		if ref.roomCode == roomCode {
			delete(s.tokens, token)
			delete(s.byPlayer, ref.playerID)
		}
	}
	s.locker.Unlock()
}
