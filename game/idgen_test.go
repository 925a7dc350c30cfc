package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRoomCode_Format(t *testing.T) {
	t.Parallel()
	for i := 0; i < 100; i++ {
		code := newRoomCode()
		assert.Len(t, code, roomCodeLength)
		for _, ch := range code {
			assert.Truef(t, strings.ContainsRune(roomCodeAlphabet, ch),
				"unexpected character %q in code %s", ch, code)
		}
	}
}

func TestNewOpaqueID_Unique(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id := newOpaqueID()
		assert.NotEmpty(t, id)
		assert.Falsef(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
