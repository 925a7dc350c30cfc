package game

// Transport is the connection-oriented delivery layer the game core
// publishes through. Implementations must deliver messages to a single
// connection in the order they were published.
type Transport interface {
	JoinChannel(connID, roomCode string)
	LeaveChannel(connID, roomCode string)
	Broadcast(roomCode string, event string, payload any)
	Unicast(connID string, event string, payload any)
}
