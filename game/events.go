package game

// EventName identifies an outbound event on the wire.
type EventName string

const (
	EventRoomCreated            EventName = "room_created"
	EventJoinedRoom             EventName = "joined_room"
	EventUpdatePlayers          EventName = "update_players"
	EventErrorMessage           EventName = "error_message"
	EventGameStarted            EventName = "game_started"
	EventStartTimer             EventName = "start_timer"
	EventVotingStarted          EventName = "voting_started"
	EventVoteConfirmed          EventName = "vote_confirmed"
	EventGameReveal             EventName = "game_reveal"
	EventBackToLobby            EventName = "back_to_lobby"
	EventPlayerDisconnectedWait EventName = "player_disconnected_wait"
	EventPlayerReconnected      EventName = "player_reconnected"
	EventPlayerLeft             EventName = "player_left"
	EventRejoinSuccess          EventName = "rejoin_success"
	EventRejoinFailed           EventName = "rejoin_failed"
)

// Event is one outbound message produced by a room transition. An empty
// ConnID means broadcast to the room channel; otherwise it is unicast to
// that connection. Events are delivered in the order they were emitted.
type Event struct {
	Name    EventName
	ConnID  string
	Payload any
}

func broadcastEvent(name EventName, payload any) Event {
	return Event{Name: name, Payload: payload}
}

func unicastEvent(connID string, name EventName, payload any) Event {
	return Event{Name: name, ConnID: connID, Payload: payload}
}

// ---------------------------------------------------------------------
// Payloads
// ---------------------------------------------------------------------

// PlayerInfo is the roster view shared with every room member. It never
// carries roles or words.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsHost    bool   `json:"isHost"`
	Connected bool   `json:"connected"`
}

type RoomCreatedPayload struct {
	RoomCode     string `json:"roomCode"`
	PlayerID     string `json:"playerId"`
	SessionToken string `json:"sessionToken"`
}

type JoinedRoomPayload struct {
	RoomCode     string `json:"roomCode"`
	PlayerID     string `json:"playerId"`
	SessionToken string `json:"sessionToken"`
}

type UpdatePlayersPayload struct {
	Players []PlayerInfo `json:"players"`
}

type ErrorMessagePayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameStartedPayload is unicast per player: spies get the mask, citizens
// the secret word.
type GameStartedPayload struct {
	Role     Role   `json:"role"`
	Word     string `json:"word"`
	Category string `json:"category"`
}

type StartTimerPayload struct {
	Seconds uint `json:"seconds"`
}

type VoteOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VotingStartedPayload is unicast per player so each list can exclude
// the recipient.
type VotingStartedPayload struct {
	Options []VoteOption `json:"options"`
}

type VoteConfirmedPayload struct {
	TargetID string `json:"targetId"`
}

type RevealPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type GameRevealPayload struct {
	Word     string         `json:"word"`
	Category string         `json:"category"`
	Players  []RevealPlayer `json:"players"`
	Votes    map[string]int `json:"votes"`
}

type BackToLobbyPayload struct {
	Players []PlayerInfo `json:"players"`
}

type PlayerDisconnectedWaitPayload struct {
	PlayerID     string `json:"playerId"`
	Name         string `json:"name"`
	GraceSeconds uint   `json:"graceSeconds"`
}

type PlayerReconnectedPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// RejoinSuccessPayload is the full snapshot a reconnecting client needs
// to resume into the correct screen. Role/word/category are only present
// while a round is active.
type RejoinSuccessPayload struct {
	RoomCode string       `json:"roomCode"`
	Phase    Phase        `json:"phase"`
	Players  []PlayerInfo `json:"players"`
	Role     Role         `json:"role,omitempty"`
	Word     string       `json:"word,omitempty"`
	Category string       `json:"category,omitempty"`
}

type RejoinFailedPayload struct{}
