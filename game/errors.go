package game

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotJoinable  = errors.New("room not joinable")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrSelfVote         = errors.New("cannot vote for yourself")
	ErrAlreadyVoted     = errors.New("already voted")
	ErrNoWordsAvailable = errors.New("no words available")
	ErrRejoinFailed     = errors.New("rejoin failed")
	ErrPlayerNotFound   = errors.New("player not found")
)

// errorCode maps a game error onto the machine-readable code carried by
// error_message events. Unknown errors collapse to a generic code so
// internals never leak to clients.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrRoomNotJoinable):
		return "room_not_joinable"
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, ErrSelfVote):
		return "self_vote_rejected"
	case errors.Is(err, ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, ErrNoWordsAvailable):
		return "no_words_available"
	case errors.Is(err, ErrRejoinFailed):
		return "rejoin_failed"
	case errors.Is(err, ErrPlayerNotFound):
		return "player_not_found"
	default:
		return "unknown_error"
	}
}
