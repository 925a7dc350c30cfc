package game

import (
	"encoding/json"
	"fmt"
)

// IntentType lists every inbound client intent. Payloads are validated at
// this boundary before anything reaches the state machine.
type IntentType string

const (
	IntentCreateRoom    IntentType = "create_room"
	IntentJoinRoom      IntentType = "join_room"
	IntentRejoinRequest IntentType = "rejoin_request"
	IntentStartGame     IntentType = "start_game"
	IntentStartVoting   IntentType = "start_voting"
	IntentCastVote      IntentType = "cast_vote"
	IntentRevealGame    IntentType = "reveal_game"
	IntentPlayAgain     IntentType = "play_again"
	IntentLeaveGame     IntentType = "leave_game"
)

type ClientMessage struct {
	Type    IntentType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type CreateRoomPayload struct {
	PlayerName string `json:"playerName"`
}

type JoinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type RejoinRequestPayload struct {
	SessionToken string `json:"sessionToken"`
}

// Settings are chosen by the host at start time and kept on the room
// across replays.
type Settings struct {
	SpyCount     uint `json:"spyCount"`
	RoundSeconds uint `json:"roundSeconds"`
}

type StartGamePayload struct {
	RoomCode string   `json:"roomCode"`
	Settings Settings `json:"settings"`
}

type StartVotingPayload struct {
	RoomCode string `json:"roomCode"`
}

type CastVotePayload struct {
	RoomCode string `json:"roomCode"`
	TargetID string `json:"targetId"`
}

type RevealGamePayload struct {
	RoomCode string `json:"roomCode"`
}

type PlayAgainPayload struct {
	RoomCode string `json:"roomCode"`
}

type LeaveGamePayload struct {
	RoomCode string `json:"roomCode"`
}

// UnmarshalClientMessage decodes the payload of a ClientMessage into its
// corresponding typed struct.
//
// Returns (payload, error)
func UnmarshalClientMessage(msg ClientMessage) (any, error) {
	switch msg.Type {
	case IntentCreateRoom:
		var p CreateRoomPayload
		return p, json.Unmarshal(msg.Payload, &p)

	case IntentJoinRoom:
		var p JoinRoomPayload
		return p, json.Unmarshal(msg.Payload, &p)

	case IntentRejoinRequest:
		var p RejoinRequestPayload
		return p, json.Unmarshal(msg.Payload, &p)

	case IntentStartGame:
		var p StartGamePayload
		return p, json.Unmarshal(msg.Payload, &p)

	case IntentStartVoting:
		var p StartVotingPayload
		return p, json.Unmarshal(msg.Payload, &p)

	case IntentCastVote:
		var p CastVotePayload
		return p, json.Unmarshal(msg.Payload, &p)

	case IntentRevealGame:
		var p RevealGamePayload
		return p, json.Unmarshal(msg.Payload, &p)

	case IntentPlayAgain:
		var p PlayAgainPayload
		return p, json.Unmarshal(msg.Payload, &p)

	case IntentLeaveGame:
		var p LeaveGamePayload
		return p, json.Unmarshal(msg.Payload, &p)

	default:
		return nil, fmt.Errorf("unknown client message type: %s", msg.Type)
	}
}
