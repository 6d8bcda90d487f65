package usecase_room

import (
	"errors"
	"sync"
	"time"

	"github.com/shree5k/swipematch/internal/model"
)

var (
	ErrRoomFull            = errors.New("room is full")
	ErrAlreadyMember       = errors.New("already in room")
	ErrEmptyDeck           = errors.New("empty deck")
	ErrDeckAlreadyAssigned = errors.New("deck already assigned")
)

type Status string

const (
	StatusWaiting      Status = "waiting"
	StatusDeckAssigned Status = "deck_assigned"
	StatusInProgress   Status = "in_progress"
	StatusConcluded    Status = "concluded"
)

const MaxPlayers = 2

type player struct {
	conn            model.ConnID
	username        string
	ledger          *Ledger
	finishedSwiping bool
}

// PlayerInfo is a copyable view of an occupied slot, safe to use
// outside the room's lock.
type PlayerInfo struct {
	Conn     model.ConnID
	Username string
}

// SwipeOutcome is the set of effects of one recorded decision. The zero
// value means the decision was ignored (no membership, no deck yet, or the
// player already finished).
type SwipeOutcome struct {
	Recorded       bool
	Duplicate      bool
	Matched        *model.Movie
	PlayerFinished bool
	GameOver       bool
}

// DisconnectOutcome describes what a player's departure did to the room.
type DisconnectOutcome struct {
	Removed       bool
	Username      string
	Remaining     *PlayerInfo
	ForceGameOver bool
	Empty         bool
}

// Room is one two-player session. Every operation takes the room's own
// mutex, so concurrent events for the same room are serialized while rooms
// stay independent of each other.
type Room struct {
	mu sync.Mutex

	code      string
	createdAt time.Time
	status    Status

	// Exactly 0, 1 or 2 occupied. Slot order has no meaning beyond
	// "creator first".
	slots [MaxPlayers]*player

	movies      []model.Movie
	totalMovies int
}

func New(code string, creator model.ConnID, username string) *Room {
	r := &Room{
		code:      code,
		createdAt: time.Now(),
		status:    StatusWaiting,
	}
	r.slots[0] = &player{
		conn:     creator,
		username: username,
		ledger:   NewLedger(),
	}
	return r
}

func (r *Room) Code() string {
	return r.code
}

func (r *Room) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerCount()
}

func (r *Room) Players() []PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]PlayerInfo, 0, MaxPlayers)
	for _, p := range r.slots {
		if p != nil {
			infos = append(infos, PlayerInfo{Conn: p.conn, Username: p.username})
		}
	}
	return infos
}

func (r *Room) Movies() []model.Movie {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.movies
}

// AddPlayer seats the connection in the free slot and returns the player
// already present, so the caller can notify them.
func (r *Room) AddPlayer(conn model.ConnID, username string) (PlayerInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.playerByConn(conn) != nil {
		return PlayerInfo{}, ErrAlreadyMember
	}
	free := -1
	for i, p := range r.slots {
		if p == nil {
			free = i
			break
		}
	}
	if free == -1 {
		return PlayerInfo{}, ErrRoomFull
	}

	other := PlayerInfo{}
	for _, p := range r.slots {
		if p != nil {
			other = PlayerInfo{Conn: p.conn, Username: p.username}
		}
	}

	r.slots[free] = &player{
		conn:     conn,
		username: username,
		ledger:   NewLedger(),
	}
	return other, nil
}

// AssignDeck fixes the shared movie list. Called exactly once, when the
// second player arrives; the total never changes after that, so a room
// that already has a deck (a concluded one being refilled through its free
// slot included) refuses another.
func (r *Room) AssignDeck(movies []model.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.totalMovies != 0 || r.status == StatusConcluded {
		return ErrDeckAlreadyAssigned
	}
	if len(movies) == 0 {
		return ErrEmptyDeck
	}

	r.movies = movies
	r.totalMovies = len(movies)
	for _, p := range r.slots {
		if p != nil {
			p.ledger = NewLedger()
			p.finishedSwiping = false
		}
	}
	r.status = StatusDeckAssigned
	return nil
}

// RecordDecision applies one swipe and reports everything it caused.
// Resubmissions for an already-decided movie and swipes before the deck is
// assigned (or after the player finished) are silent no-ops.
func (r *Room) RecordDecision(conn model.ConnID, movieID int64, d model.Decision) SwipeOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerByConn(conn)
	if p == nil {
		return SwipeOutcome{}
	}
	if r.totalMovies == 0 || p.finishedSwiping {
		return SwipeOutcome{}
	}
	if !p.ledger.Record(movieID, d) {
		return SwipeOutcome{Duplicate: true}
	}

	out := SwipeOutcome{Recorded: true}
	if r.status == StatusDeckAssigned {
		r.status = StatusInProgress
	}

	if d == model.DecisionLike {
		if other := r.opponentOf(conn); other != nil && mutualLike(p.ledger, other.ledger, movieID) {
			out.Matched = r.movieByID(movieID)
		}
	}

	if p.ledger.Count() >= r.totalMovies {
		p.finishedSwiping = true
		out.PlayerFinished = true
		if r.allFinished() {
			r.status = StatusConcluded
			out.GameOver = true
		}
	}
	return out
}

// HandleDisconnect frees the player's slot. An opponent left mid-game is
// force-finished so the session ends instead of hanging. Unknown
// connections are a no-op, which makes duplicate disconnects safe.
func (r *Room) HandleDisconnect(conn model.ConnID) DisconnectOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	var leaver *player
	for i, p := range r.slots {
		if p != nil && p.conn == conn {
			leaver = p
			r.slots[i] = nil
			break
		}
	}
	if leaver == nil {
		return DisconnectOutcome{Empty: r.playerCount() == 0}
	}

	out := DisconnectOutcome{
		Removed:  true,
		Username: leaver.username,
	}

	var remaining *player
	for _, p := range r.slots {
		if p != nil {
			remaining = p
		}
	}
	if remaining == nil {
		out.Empty = true
		return out
	}

	out.Remaining = &PlayerInfo{Conn: remaining.conn, Username: remaining.username}
	if r.totalMovies > 0 && !remaining.finishedSwiping {
		remaining.finishedSwiping = true
		r.status = StatusConcluded
		out.ForceGameOver = true
	}
	return out
}

func (r *Room) playerCount() int {
	n := 0
	for _, p := range r.slots {
		if p != nil {
			n++
		}
	}
	return n
}

func (r *Room) playerByConn(conn model.ConnID) *player {
	for _, p := range r.slots {
		if p != nil && p.conn == conn {
			return p
		}
	}
	return nil
}

func (r *Room) opponentOf(conn model.ConnID) *player {
	for _, p := range r.slots {
		if p != nil && p.conn != conn {
			return p
		}
	}
	return nil
}

func (r *Room) movieByID(movieID int64) *model.Movie {
	for i := range r.movies {
		if r.movies[i].ID == movieID {
			return &r.movies[i]
		}
	}
	return nil
}

// allFinished holds only with both slots occupied and, for each player,
// both the flag and the count confirming completion. The count re-check
// guards any path that could raise the flag while the ledger lags behind.
func (r *Room) allFinished() bool {
	if r.playerCount() != MaxPlayers {
		return false
	}
	for _, p := range r.slots {
		if !p.finishedSwiping || p.ledger.Count() < r.totalMovies {
			return false
		}
	}
	return true
}
