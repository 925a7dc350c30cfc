package game

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// --- Transport ---

type sentMessage struct {
	RoomCode string
	ConnID   string
	Event    string
	Payload  any
}

// fakeTransport records every publish so tests can assert on delivery
// order and targets.
type fakeTransport struct {
	locker   sync.Mutex
	joined   map[string]string // connID -> roomCode
	messages []sentMessage
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{joined: make(map[string]string)}
}

func (f *fakeTransport) JoinChannel(connID, roomCode string) {
	f.locker.Lock()
	f.joined[connID] = roomCode
	f.locker.Unlock()
}

func (f *fakeTransport) LeaveChannel(connID, roomCode string) {
	f.locker.Lock()
	if f.joined[connID] == roomCode {
		delete(f.joined, connID)
	}
	f.locker.Unlock()
}

func (f *fakeTransport) Broadcast(roomCode string, event string, payload any) {
	f.locker.Lock()
	f.messages = append(f.messages, sentMessage{RoomCode: roomCode, Event: event, Payload: payload})
	f.locker.Unlock()
}

func (f *fakeTransport) Unicast(connID string, event string, payload any) {
	f.locker.Lock()
	f.messages = append(f.messages, sentMessage{ConnID: connID, Event: event, Payload: payload})
	f.locker.Unlock()
}

func (f *fakeTransport) named(event EventName) []sentMessage {
	f.locker.Lock()
	defer f.locker.Unlock()
	out := []sentMessage{}
	for _, m := range f.messages {
		if m.Event == string(event) {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeTransport) last(event EventName) (sentMessage, bool) {
	msgs := f.named(event)
	if len(msgs) == 0 {
		return sentMessage{}, false
	}
	return msgs[len(msgs)-1], true
}

func (f *fakeTransport) reset() {
	f.locker.Lock()
	f.messages = nil
	f.locker.Unlock()
}

func (f *fakeTransport) eventOrder() []string {
	f.locker.Lock()
	defer f.locker.Unlock()
	order := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		order = append(order, m.Event)
	}
	return order
}

// gatedTransport stalls the first unicast of one event until released,
// simulating a slow delivery so tests can race a second transition
// against an in-flight one.
type gatedTransport struct {
	*fakeTransport
	block EventName
	hit   chan struct{} // closed once the stall begins
	gate  chan struct{} // close to release the stall
	once  sync.Once
}

func newGatedTransport(block EventName) *gatedTransport {
	return &gatedTransport{
		fakeTransport: newFakeTransport(),
		block:         block,
		hit:           make(chan struct{}),
		gate:          make(chan struct{}),
	}
}

func (g *gatedTransport) Unicast(connID string, event string, payload any) {
	if event == string(g.block) {
		g.once.Do(func() {
			close(g.hit)
			<-g.gate
		})
	}
	g.fakeTransport.Unicast(connID, event, payload)
}

// --- WordSource ---

type MockWordSource struct {
	mock.Mock
}

func (m *MockWordSource) RandomWord(ctx context.Context) (WordEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).(WordEntry), args.Error(1)
}

// fixedWordSource always serves the same entry. Handy for scenario tests
// where the word itself does not matter.
type fixedWordSource struct {
	entry WordEntry
	err   error
}

func (f fixedWordSource) RandomWord(ctx context.Context) (WordEntry, error) {
	return f.entry, f.err
}
