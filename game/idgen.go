package game

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"

	"github.com/google/uuid"
)

const roomCodeLength = 6

// roomCodeAlphabet excludes ambiguous characters (0/O, 1/I) since codes
// are typed by hand.
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newRoomCode returns a short human-typeable code. Collisions are possible
// at this length; the directory regenerates until the code is free.
func newRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			code[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
			continue
		}
		code[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(code)
}

// newOpaqueID returns a token used for player ids and session tokens.
// UUIDv7 carries a 48-bit timestamp plus 74 random bits, so accidental
// collision within a process lifetime is effectively impossible.
func newOpaqueID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
