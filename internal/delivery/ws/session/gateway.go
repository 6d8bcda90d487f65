package ws_session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shree5k/swipematch/internal/model"
	usecase_registry "github.com/shree5k/swipematch/internal/usecase/registry"
	usecase_room "github.com/shree5k/swipematch/internal/usecase/room"
)

const supplyTimeout = 15 * time.Second

// Supply builds the shared deck for a room that just filled up.
type Supply interface {
	Deck(ctx context.Context) ([]model.Movie, error)
}

// Gateway turns inbound connection events into registry/room operations and
// fans the outcomes back out as broadcasts. It is the only layer that knows
// which room a connection currently belongs to.
type Gateway struct {
	registry *usecase_registry.Registry
	supply   Supply
	sender   Sender
	logger   *slog.Logger

	mu         sync.Mutex
	membership map[model.ConnID]string
}

func NewGateway(registry *usecase_registry.Registry, supply Supply, sender Sender) *Gateway {
	return &Gateway{
		registry:   registry,
		supply:     supply,
		sender:     sender,
		logger:     slog.Default(),
		membership: make(map[model.ConnID]string),
	}
}

// HandleMessage dispatches one inbound frame. Malformed frames cost the
// sender an error event and nothing else.
func (gw *Gateway) HandleMessage(conn model.ConnID, raw []byte) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		gw.sendError(conn, "Malformed message.")
		return
	}

	switch in.Type {
	case ActionCreateRoom:
		var p CreateRoomPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			gw.sendError(conn, "Malformed message.")
			return
		}
		gw.handleCreate(conn, p)

	case ActionJoinRoom:
		var p JoinRoomPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			gw.sendError(conn, "Malformed message.")
			return
		}
		gw.handleJoin(conn, p)

	case ActionPlayerSwipe:
		var p PlayerSwipePayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return
		}
		gw.handleSwipe(conn, p)

	default:
		gw.logger.Debug("unknown event ignored", "conn", conn, "type", in.Type)
	}
}

func (gw *Gateway) handleCreate(conn model.ConnID, p CreateRoomPayload) {
	// A connection that creates while seated elsewhere first leaves the
	// old room, as if it had disconnected from it.
	gw.HandleDisconnect(conn)

	room, err := gw.registry.CreateRoom(context.Background(), conn, defaultUsername(p.Username, conn))
	if err != nil {
		gw.logger.Error("failed to create room", "conn", conn, "error", err)
		gw.sendError(conn, "Could not create a room. Please try again.")
		return
	}

	gw.setMembership(conn, room.Code())
	gw.sender.Bind(conn, room.Code())
	gw.sender.ToConn(conn, Event{Type: EventRoomCreated, Payload: RoomCodePayload{RoomCode: room.Code()}})
}

func (gw *Gateway) handleJoin(conn model.ConnID, p JoinRoomPayload) {
	code := strings.ToUpper(strings.TrimSpace(p.RoomCode))
	username := defaultUsername(p.Username, conn)

	room, other, err := gw.registry.JoinRoom(context.Background(), code, conn, username)
	if err != nil {
		gw.sendError(conn, joinErrorMessage(code, err))
		return
	}

	gw.setMembership(conn, code)
	gw.sender.Bind(conn, code)
	gw.sender.ToConn(conn, Event{Type: EventJoinSuccess, Payload: RoomCodePayload{RoomCode: code}})
	if other.Conn != model.EmptyConnID {
		gw.sender.ToConn(other.Conn, Event{Type: EventOpponentJoined, Payload: UsernamePayload{Username: username}})
	}

	if room.PlayerCount() == usecase_room.MaxPlayers {
		gw.startGame(room)
	}
}

// startGame fetches the deck once the room is full. Supply failure is fatal
// for the room: both members hear about it and the room is torn down.
func (gw *Gateway) startGame(room *usecase_room.Room) {
	code := room.Code()

	ctx, cancel := context.WithTimeout(context.Background(), supplyTimeout)
	defer cancel()

	deck, err := gw.supply.Deck(ctx)
	if err == nil {
		err = room.AssignDeck(deck)
	}
	if err != nil {
		gw.logger.Error("failed to start game", "room", code, "error", err)
		msg := "Failed to load movies. Please try again."
		if errors.Is(err, usecase_room.ErrDeckAlreadyAssigned) {
			msg = "This room has already finished."
		}
		gw.sender.ToRoom(code, Event{Type: EventError, Payload: ErrorPayload{Message: msg}})
		gw.abortRoom(room)
		return
	}

	gw.sender.ToRoom(code, Event{Type: EventStartGame, Payload: StartGamePayload{Movies: deck}})
	gw.logger.Info("game started", "room", code, "movies", len(deck))
}

func (gw *Gateway) abortRoom(room *usecase_room.Room) {
	code := room.Code()
	for _, p := range room.Players() {
		gw.clearMembership(p.Conn)
		gw.sender.Unbind(p.Conn, code)
	}
	gw.registry.Abort(context.Background(), code)
}

func (gw *Gateway) handleSwipe(conn model.ConnID, p PlayerSwipePayload) {
	if !p.Choice.Valid() {
		return
	}
	code, ok := gw.roomOf(conn)
	if !ok {
		gw.logger.Debug("swipe from connection without a room", "conn", conn)
		return
	}
	room, ok := gw.registry.Lookup(code)
	if !ok {
		return
	}

	out := room.RecordDecision(conn, p.MovieID, p.Choice)
	if out.Matched != nil {
		gw.sender.ToRoom(code, Event{Type: EventMatchFound, Payload: MatchFoundPayload{Movie: *out.Matched}})
		gw.logger.Info("match found", "room", code, "movie", out.Matched.ID)
	}
	if out.GameOver {
		gw.sender.ToRoom(code, Event{Type: EventGameOver})
		gw.logger.Info("game over", "room", code)
	}
}

// HandleDisconnect reconciles a dropped connection. Safe to call twice: the
// second call finds no membership and stops.
func (gw *Gateway) HandleDisconnect(conn model.ConnID) {
	code, ok := gw.takeMembership(conn)
	if !ok {
		return
	}
	gw.sender.Unbind(conn, code)

	out := gw.registry.RemovePlayer(context.Background(), code, conn)
	if out.Remaining == nil {
		return
	}
	gw.sender.ToConn(out.Remaining.Conn, Event{Type: EventOpponentDisconnected, Payload: UsernamePayload{Username: out.Username}})
	if out.ForceGameOver {
		gw.sender.ToConn(out.Remaining.Conn, Event{Type: EventGameOver})
	}
}

// RunJanitor periodically expires rooms stuck waiting for a second player.
func (gw *Gateway) RunJanitor(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, p := range gw.registry.CloseIdle(ctx, ttl) {
				code, _ := gw.takeMembership(p.Conn)
				gw.sender.Unbind(p.Conn, code)
				gw.sendError(p.Conn, "Room expired while waiting for an opponent.")
			}
		}
	}
}

func (gw *Gateway) sendError(conn model.ConnID, msg string) {
	gw.sender.ToConn(conn, Event{Type: EventError, Payload: ErrorPayload{Message: msg}})
}

func (gw *Gateway) setMembership(conn model.ConnID, code string) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.membership[conn] = code
}

func (gw *Gateway) clearMembership(conn model.ConnID) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	delete(gw.membership, conn)
}

func (gw *Gateway) roomOf(conn model.ConnID) (string, bool) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	code, ok := gw.membership[conn]
	return code, ok
}

func (gw *Gateway) takeMembership(conn model.ConnID) (string, bool) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	code, ok := gw.membership[conn]
	if ok {
		delete(gw.membership, conn)
	}
	return code, ok
}

func defaultUsername(username string, conn model.ConnID) string {
	username = strings.TrimSpace(username)
	if username != "" {
		return username
	}
	id := string(conn)
	if len(id) > 4 {
		id = id[:4]
	}
	return fmt.Sprintf("User_%s", id)
}

func joinErrorMessage(code string, err error) string {
	switch {
	case errors.Is(err, usecase_registry.ErrRoomNotFound):
		return fmt.Sprintf("Room '%s' not found.", code)
	case errors.Is(err, usecase_room.ErrRoomFull):
		return fmt.Sprintf("Room '%s' is full.", code)
	case errors.Is(err, usecase_room.ErrAlreadyMember):
		return fmt.Sprintf("You are already in room '%s'.", code)
	default:
		return "Could not join the room. Please try again."
	}
}
