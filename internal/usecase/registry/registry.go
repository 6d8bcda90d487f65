package usecase_registry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shree5k/swipematch/internal/model"
	usecase_room "github.com/shree5k/swipematch/internal/usecase/room"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNoFreeCodes  = errors.New("no free room codes")
)

// Visually confusable characters (0/O, 1/I) are left out so codes survive
// being read aloud.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 4

	codeRetries = 64
)

// CodeMirror publishes the set of currently live room codes to an external
// store. Purely observational: the in-process map stays authoritative.
type CodeMirror interface {
	Add(ctx context.Context, code string) error
	Remove(ctx context.Context, code string) error
}

// Registry owns the code->room map for the lifetime of the process.
// Membership changes (create, join, remove) go through the registry lock;
// swipes go straight to the room and never contend across rooms.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*usecase_room.Room
	mirror CodeMirror
	logger *slog.Logger
}

func New(mirror CodeMirror) *Registry {
	return &Registry{
		rooms:  make(map[string]*usecase_room.Room),
		mirror: mirror,
		logger: slog.Default(),
	}
}

// CreateRoom allocates a fresh code and registers a room holding only the
// creator.
func (g *Registry) CreateRoom(ctx context.Context, conn model.ConnID, username string) (*usecase_room.Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	code, err := g.freeCode()
	if err != nil {
		return nil, err
	}

	room := usecase_room.New(code, conn, username)
	g.rooms[code] = room
	g.mirrorAdd(ctx, code)

	g.logger.Info("room created", "room", code, "username", username)
	return room, nil
}

// JoinRoom seats the connection in the second slot and returns the room
// plus the player who was already there. All failures leave the room
// untouched.
func (g *Registry) JoinRoom(ctx context.Context, code string, conn model.ConnID, username string) (*usecase_room.Room, usecase_room.PlayerInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[code]
	if !ok {
		return nil, usecase_room.PlayerInfo{}, ErrRoomNotFound
	}
	other, err := room.AddPlayer(conn, username)
	if err != nil {
		return nil, usecase_room.PlayerInfo{}, err
	}

	g.logger.Info("player joined", "room", code, "username", username)
	return room, other, nil
}

// RemovePlayer frees the player's slot and deletes the room once its last
// player is gone. Removing an absent player is a no-op.
func (g *Registry) RemovePlayer(ctx context.Context, code string, conn model.ConnID) usecase_room.DisconnectOutcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[code]
	if !ok {
		return usecase_room.DisconnectOutcome{}
	}
	out := room.HandleDisconnect(conn)
	if out.Empty {
		delete(g.rooms, code)
		g.mirrorRemove(ctx, code)
		g.logger.Info("room deleted", "room", code)
	}
	return out
}

// Abort drops a room outright, whoever is still inside. Used when the room
// can never progress (deck supply failed).
func (g *Registry) Abort(ctx context.Context, code string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.rooms[code]; !ok {
		return
	}
	delete(g.rooms, code)
	g.mirrorRemove(ctx, code)
	g.logger.Warn("room aborted", "room", code)
}

func (g *Registry) Lookup(code string) (*usecase_room.Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[code]
	return room, ok
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// CloseIdle deletes rooms that have been waiting for a second player longer
// than ttl and returns the players left stranded, so the caller can tell
// them. A zero ttl disables the sweep.
func (g *Registry) CloseIdle(ctx context.Context, ttl time.Duration) []usecase_room.PlayerInfo {
	if ttl <= 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var stranded []usecase_room.PlayerInfo
	deadline := time.Now().Add(-ttl)
	for code, room := range g.rooms {
		if room.Status() != usecase_room.StatusWaiting || room.CreatedAt().After(deadline) {
			continue
		}
		stranded = append(stranded, room.Players()...)
		delete(g.rooms, code)
		g.mirrorRemove(ctx, code)
		g.logger.Info("idle room expired", "room", code)
	}
	return stranded
}

// freeCode draws codes until one misses the live map. Exhausting the
// retries means the code space is effectively full.
func (g *Registry) freeCode() (string, error) {
	for i := 0; i < codeRetries; i++ {
		code := buildRoomCode()
		if _, taken := g.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", ErrNoFreeCodes
}

func buildRoomCode() string {
	var builder strings.Builder
	builder.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		builder.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return builder.String()
}

func (g *Registry) mirrorAdd(ctx context.Context, code string) {
	if g.mirror == nil {
		return
	}
	if err := g.mirror.Add(ctx, code); err != nil {
		g.logger.Error("failed to mirror room code", "room", code, "error", err)
	}
}

func (g *Registry) mirrorRemove(ctx context.Context, code string) {
	if g.mirror == nil {
		return
	}
	if err := g.mirror.Remove(ctx, code); err != nil {
		g.logger.Error("failed to unmirror room code", "room", code, "error", err)
	}
}
