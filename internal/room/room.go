package room

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/refranero/hangedgame/internal/game"
	"github.com/refranero/hangedgame/internal/model"
)

// Player is a connected client that can occupy a room seat. The server's
// connection handler implements it.
type Player interface {
	Username() string
	Send(line string)
	Room() *Room
	SetRoom(r *Room)
}

// Room is a named multiplayer lobby holding up to capacity players and at
// most one live session. Rooms carry no lock of their own: every call is
// serialized by the owning Registry's mutex, which also guarantees that
// broadcasts are delivered before any concurrent roster mutation can be
// observed.
type Room struct {
	name     string
	capacity int
	deps     game.Deps
	rules    game.Rules
	logger   *slog.Logger

	players []Player
	seats   map[Player]*game.Participant
	session *game.Session
	started bool

	// onEnd is installed by the Registry; the session invokes it when a
	// multiplayer game reaches its terminal state.
	onEnd func(ctx context.Context)
}

func newRoom(name string, capacity int, deps game.Deps, rules game.Rules, logger *slog.Logger, onEnd func(ctx context.Context)) *Room {
	return &Room{
		name:     name,
		capacity: capacity,
		deps:     deps,
		rules:    rules,
		logger:   logger.With(slog.String("room", name)),
		seats:    make(map[Player]*game.Participant),
		onEnd:    onEnd,
	}
}

// Name returns the room's unique name.
func (r *Room) Name() string {
	return r.name
}

// Capacity returns the room's player capacity.
func (r *Room) Capacity() int {
	return r.capacity
}

// PlayerCount returns the current roster size.
func (r *Room) PlayerCount() int {
	return len(r.players)
}

// IsEmpty reports whether the roster is empty.
func (r *Room) IsEmpty() bool {
	return len(r.players) == 0
}

// Started reports whether the room's game has started.
func (r *Room) Started() bool {
	return r.started
}

// AddPlayer seats a player, rejecting once at capacity. Reaching capacity
// starts the game exactly once.
func (r *Room) AddPlayer(ctx context.Context, p Player) error {
	if len(r.players) >= r.capacity {
		return model.ErrRoomFull
	}

	r.players = append(r.players, p)
	r.seats[p] = &game.Participant{Username: p.Username(), Out: notifier{p}}
	p.SetRoom(r)

	r.Broadcast(fmt.Sprintf("Player %s has joined.", p.Username()))

	if len(r.players) == r.capacity {
		r.startGame(ctx)
	}
	return nil
}

// startGame instantiates the multiplayer session. The started flag guards
// against double-start.
func (r *Room) startGame(ctx context.Context) {
	if r.started {
		return
	}
	r.started = true
	r.Broadcast("The game has started.")

	participants := make([]*game.Participant, len(r.players))
	for i, p := range r.players {
		participants[i] = r.seats[p]
	}

	r.session = game.NewMultiplayer(participants, r.deps, r.rules, r.onEnd)
	if err := r.session.Start(ctx); err != nil {
		r.logger.Error("could not start game", slog.String("error", err.Error()))
		r.Broadcast("Could not start the game.")
		r.session = nil
		r.started = false
	}
}

// GuessConsonant forwards a consonant guess to the active session.
func (r *Room) GuessConsonant(ctx context.Context, p Player, letter rune) {
	if r.session == nil {
		return
	}
	r.session.GuessConsonant(ctx, r.seats[p], letter)
}

// GuessVowel forwards a vowel guess to the active session.
func (r *Room) GuessVowel(ctx context.Context, p Player, letter rune) {
	if r.session == nil {
		return
	}
	r.session.GuessVowel(ctx, r.seats[p], letter)
}

// Resolve forwards a resolution attempt to the active session.
func (r *Room) Resolve(ctx context.Context, p Player, candidate string) {
	if r.session == nil {
		return
	}
	r.session.Resolve(ctx, r.seats[p], candidate)
}

// RemovePlayer takes a player off the roster. Unless the game is already
// over, the session's disconnect handling runs, which may force the game to
// end. An emptied room is marked not-started, making it eligible for
// registry cleanup.
func (r *Room) RemovePlayer(ctx context.Context, p Player, gameOver bool) {
	seat := r.seats[p]
	r.removeFromRoster(p)

	r.Broadcast(fmt.Sprintf("Player %s has left the game.", p.Username()))
	p.SetRoom(nil)

	if !gameOver {
		if r.session != nil && seat != nil {
			r.session.HandleDisconnect(ctx, seat)
		}
		if r.IsEmpty() {
			r.started = false
		}
	}
}

func (r *Room) removeFromRoster(p Player) {
	for i, existing := range r.players {
		if existing == p {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	delete(r.seats, p)
}

// Broadcast delivers a line to every seated player in roster order.
func (r *Room) Broadcast(line string) {
	for _, p := range r.players {
		p.Send(line)
	}
}

// notifier adapts a Player to the session's Notifier.
type notifier struct {
	p Player
}

func (n notifier) Send(line string) {
	n.p.Send(line)
}
