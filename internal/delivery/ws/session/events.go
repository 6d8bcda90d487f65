package ws_session

import (
	"encoding/json"

	"github.com/shree5k/swipematch/internal/model"
)

// Inbound event names.
const (
	ActionCreateRoom  = "createRoom"
	ActionJoinRoom    = "joinRoom"
	ActionPlayerSwipe = "playerSwipe"
)

// Outbound event names.
const (
	EventRoomCreated          = "roomCreated"
	EventJoinSuccess          = "joinSuccess"
	EventOpponentJoined       = "opponentJoined"
	EventStartGame            = "startGame"
	EventMatchFound           = "matchFound"
	EventGameOver             = "gameOver"
	EventOpponentDisconnected = "opponentDisconnected"
	EventError                = "error"
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Inbound is the single envelope every connection event arrives in; the
// payload shape depends on Type.
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type CreateRoomPayload struct {
	Username string `json:"username"`
}

type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

type PlayerSwipePayload struct {
	MovieID int64          `json:"movieId"`
	Choice  model.Decision `json:"choice"`
}

type RoomCodePayload struct {
	RoomCode string `json:"roomCode"`
}

type UsernamePayload struct {
	Username string `json:"username"`
}

type StartGamePayload struct {
	Movies []model.Movie `json:"movies"`
}

type MatchFoundPayload struct {
	Movie model.Movie `json:"movie"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
