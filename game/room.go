package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Surubyuru/spy-game/logger"
)

// Phase is the room's current stage in its state machine.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseVoting   Phase = "voting"
	PhaseFinished Phase = "finished"
)

const defaultRoundSeconds = 300

// WordEntry is what the external word store hands back on game start.
type WordEntry struct {
	Word     string
	Category string
}

// WordSource is the external word store consulted inside the start_game
// transition. It must report ErrNoWordsAvailable when empty.
type WordSource interface {
	RandomWord(ctx context.Context) (WordEntry, error)
}

// Room is one isolated game instance. All operations mutate state under
// the room lock and return the outbound events the transition produced;
// callers deliver those in order after releasing the lock.
type Room struct {
	code       string
	phase      Phase
	players    []*Player
	settings   Settings
	secretWord string
	category   string
	votes      map[string]int  // target id -> count, present during/after voting
	voted      map[string]bool // voter id -> has cast

	words WordSource
	intn  func(int) int

	locker sync.Mutex
}

func newRoom(code string, source WordSource) *Room {
	return &Room{
		code:  code,
		phase: PhaseLobby,
		words: source,
		intn:  rand.Intn,
	}
}

func (r *Room) Lock()   { r.locker.Lock() }
func (r *Room) Unlock() { r.locker.Unlock() }

// Code returns the room's join code. Immutable after creation.
func (r *Room) Code() string { return r.code }

// Phase returns the current phase. Callers must hold the room lock.
func (r *Room) Phase() Phase { return r.phase }

func (r *Room) player(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) playersInfo() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			IsHost:    p.IsHost,
			Connected: p.Connected,
		})
	}
	return infos
}

// addPlayer appends a new connected player to the roster. The join-order
// position matters for host fallback, so insertion is always at the end.
func (r *Room) addPlayer(name, connID string, host bool) *Player {
	p := newPlayer(name, connID, host)
	r.players = append(r.players, p)
	logger.Infof("[Room %s] %s joined (%d players)", r.code, p.Name, len(r.players))
	return p
}

// join handles the join_room transition. Rooms only accept new players
// while in the lobby. The caller composes the outbound events because the
// session token travels in them and tokens are minted by the registry.
func (r *Room) join(name, connID string) (*Player, []PlayerInfo, error) {
	if r.phase != PhaseLobby {
		return nil, nil, ErrRoomNotJoinable
	}
	p := r.addPlayer(name, connID, false)
	return p, r.playersInfo(), nil
}

// startGame fetches a random word, assigns roles and moves the room to
// Playing. The word fetch happens while the room lock is held; games are
// low-frequency and the phase check rejects a concurrent retry once the
// fetch succeeds, while a failed fetch leaves the lobby untouched so the
// host can try again.
func (r *Room) startGame(ctx context.Context, callerID string, settings Settings) ([]Event, error) {
	if r.phase != PhaseLobby {
		return nil, ErrRoomNotJoinable
	}
	caller := r.player(callerID)
	if caller == nil {
		return nil, ErrPlayerNotFound
	}
	if !caller.IsHost {
		return nil, ErrNotAuthorized
	}

	entry, err := r.words.RandomWord(ctx)
	if err != nil {
		logger.Warningf("[Room %s] start rejected: %v", r.code, err)
		return nil, err
	}

	if settings.RoundSeconds == 0 {
		settings.RoundSeconds = defaultRoundSeconds
	}
	r.settings = settings
	r.secretWord = entry.Word
	r.category = entry.Category
	r.votes = nil
	r.voted = nil

	roles := assignRoles(len(r.players), int(settings.SpyCount), r.intn)
	for i, p := range r.players {
		p.Role = roles[i]
		if p.Role == RoleSpy {
			p.Word = spyWordMask
		} else {
			p.Word = r.secretWord
		}
	}

	r.phase = PhasePlaying
	logger.Infof("[Room %s] game started: %d players, %d spies requested", r.code, len(r.players), settings.SpyCount)

	events := make([]Event, 0, len(r.players)+1)
	for _, p := range r.players {
		if !p.Connected {
			continue
		}
		events = append(events, unicastEvent(p.connID, EventGameStarted, GameStartedPayload{
			Role:     p.Role,
			Word:     p.Word,
			Category: r.category,
		}))
	}
	events = append(events, broadcastEvent(EventStartTimer, StartTimerPayload{Seconds: settings.RoundSeconds}))
	return events, nil
}

func (r *Room) votingOptionsFor(voter *Player) []VoteOption {
	options := make([]VoteOption, 0, len(r.players)-1)
	for _, p := range r.players {
		if p.ID == voter.ID {
			continue
		}
		options = append(options, VoteOption{ID: p.ID, Name: p.Name})
	}
	return options
}

func (r *Room) votingEvents() []Event {
	events := make([]Event, 0, len(r.players))
	for _, p := range r.players {
		if !p.Connected {
			continue
		}
		events = append(events, unicastEvent(p.connID, EventVotingStarted, VotingStartedPayload{
			Options: r.votingOptionsFor(p),
		}))
	}
	return events
}

// startVoting moves the room to Voting and sends every player their
// votable targets, which never include themselves. Re-issuing it while
// already voting just resends the options without touching the tally.
func (r *Room) startVoting(callerID string) ([]Event, error) {
	caller := r.player(callerID)
	if caller == nil {
		return nil, ErrPlayerNotFound
	}
	if !caller.IsHost {
		return nil, ErrNotAuthorized
	}
	if r.phase == PhaseVoting {
		return r.votingEvents(), nil
	}
	if r.phase != PhasePlaying {
		return nil, ErrRoomNotJoinable
	}

	r.phase = PhaseVoting
	r.votes = make(map[string]int)
	r.voted = make(map[string]bool)
	logger.Infof("[Room %s] voting started", r.code)

	return r.votingEvents(), nil
}

// castVote records one vote. Self-votes and double votes are rejected
// without touching the tally.
func (r *Room) castVote(voterID, targetID string) ([]Event, error) {
	if r.phase != PhaseVoting {
		return nil, ErrRoomNotJoinable
	}
	voter := r.player(voterID)
	if voter == nil {
		return nil, ErrPlayerNotFound
	}
	if voterID == targetID {
		return nil, ErrSelfVote
	}
	if r.voted[voterID] {
		return nil, ErrAlreadyVoted
	}
	if r.player(targetID) == nil {
		return nil, ErrPlayerNotFound
	}

	r.votes[targetID]++
	r.voted[voterID] = true

	return []Event{
		unicastEvent(voter.connID, EventVoteConfirmed, VoteConfirmedPayload{TargetID: targetID}),
	}, nil
}

// reveal ends the round: full roster with roles, the word and the tally
// go out to the whole room.
func (r *Room) reveal(callerID string) ([]Event, error) {
	caller := r.player(callerID)
	if caller == nil {
		return nil, ErrPlayerNotFound
	}
	if !caller.IsHost {
		return nil, ErrNotAuthorized
	}
	if r.phase != PhasePlaying && r.phase != PhaseVoting {
		return nil, ErrRoomNotJoinable
	}

	r.phase = PhaseFinished
	logger.Infof("[Room %s] round revealed", r.code)

	roster := make([]RevealPlayer, 0, len(r.players))
	for _, p := range r.players {
		roster = append(roster, RevealPlayer{ID: p.ID, Name: p.Name, Role: p.Role})
	}
	votes := r.votes
	if votes == nil {
		votes = map[string]int{}
	}

	return []Event{
		broadcastEvent(EventGameReveal, GameRevealPayload{
			Word:     r.secretWord,
			Category: r.category,
			Players:  roster,
			Votes:    votes,
		}),
	}, nil
}

// playAgain resets the room to the lobby for a replay. Settings survive;
// roles, words and votes do not.
func (r *Room) playAgain(callerID string) ([]Event, error) {
	caller := r.player(callerID)
	if caller == nil {
		return nil, ErrPlayerNotFound
	}
	if !caller.IsHost {
		return nil, ErrNotAuthorized
	}
	if r.phase != PhaseFinished {
		return nil, ErrRoomNotJoinable
	}

	r.phase = PhaseLobby
	r.secretWord = ""
	r.category = ""
	r.votes = nil
	r.voted = nil
	for _, p := range r.players {
		p.clearRound()
	}
	logger.Infof("[Room %s] back to lobby", r.code)

	return []Event{
		broadcastEvent(EventBackToLobby, BackToLobbyPayload{Players: r.playersInfo()}),
	}, nil
}

// leave removes a player immediately, promoting a new host if needed.
// The second return value reports whether the roster is now empty and
// the room should be destroyed.
func (r *Room) leave(playerID string) ([]Event, bool) {
	var removed *Player
	for i, p := range r.players {
		if p.ID == playerID {
			removed = p
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	if removed == nil {
		return nil, len(r.players) == 0
	}

	removed.cancelEviction()
	logger.Infof("[Room %s] %s left (%d players remain)", r.code, removed.Name, len(r.players))

	left := broadcastEvent(EventPlayerLeft, PlayerLeftPayload{PlayerID: removed.ID, Name: removed.Name})
	if len(r.players) == 0 {
		return []Event{left}, true
	}

	if removed.IsHost {
		promoted := false
		for _, p := range r.players {
			if p.Connected {
				p.IsHost = true
				promoted = true
				break
			}
		}
		if !promoted {
			// everyone left is disconnected, first by join order stands in
			r.players[0].IsHost = true
		}
	}

	events := []Event{
		left,
		broadcastEvent(EventUpdatePlayers, UpdatePlayersPayload{Players: r.playersInfo()}),
	}
	return events, false
}

// disconnect demotes a player to disconnected and arms their eviction
// timer. A stale notification for a connection that was already replaced
// is a no-op. evict runs outside the room lock when the timer fires.
func (r *Room) disconnect(playerID, connID string, grace time.Duration, evict func()) []Event {
	p := r.player(playerID)
	if p == nil || p.connID != connID {
		return nil
	}

	p.Connected = false
	p.connID = ""
	p.cancelEviction()
	p.eviction = time.AfterFunc(grace, evict)
	logger.Infof("[Room %s] %s disconnected, grace window %s", r.code, p.Name, grace)

	return []Event{
		broadcastEvent(EventPlayerDisconnectedWait, PlayerDisconnectedWaitPayload{
			PlayerID:     p.ID,
			Name:         p.Name,
			GraceSeconds: uint(grace / time.Second),
		}),
		broadcastEvent(EventUpdatePlayers, UpdatePlayersPayload{Players: r.playersInfo()}),
	}
}

// rejoin restores a disconnected player's identity onto a fresh
// connection. Returns the events for the rest of the room (sent before
// the new connection joins the channel), the snapshot for the rejoining
// player, and the superseded connection id when the player was still
// bound to a live connection; the caller must unbind that one.
func (r *Room) rejoin(playerID, connID string) (roomEvents, playerEvents []Event, stale string, err error) {
	p := r.player(playerID)
	if p == nil {
		return nil, nil, "", ErrRejoinFailed
	}

	if p.Connected && p.connID != connID {
		stale = p.connID
	}
	p.cancelEviction()
	p.Connected = true
	p.connID = connID
	logger.Infof("[Room %s] %s reconnected", r.code, p.Name)

	snapshot := RejoinSuccessPayload{
		RoomCode: r.code,
		Phase:    r.phase,
		Players:  r.playersInfo(),
	}
	if r.phase != PhaseLobby {
		snapshot.Role = p.Role
		snapshot.Word = p.Word
		snapshot.Category = r.category
	}

	roomEvents = []Event{
		broadcastEvent(EventPlayerReconnected, PlayerReconnectedPayload{PlayerID: p.ID, Name: p.Name}),
		broadcastEvent(EventUpdatePlayers, UpdatePlayersPayload{Players: r.playersInfo()}),
	}
	playerEvents = []Event{
		unicastEvent(connID, EventRejoinSuccess, snapshot),
	}
	return roomEvents, playerEvents, stale, nil
}
