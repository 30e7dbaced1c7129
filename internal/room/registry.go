package room

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/refranero/hangedgame/internal/game"
	"github.com/refranero/hangedgame/internal/model"
)

// Info is a read-only snapshot of one active room for display.
type Info struct {
	Name     string `json:"name"`
	Players  int    `json:"players"`
	Capacity int    `json:"capacity"`
	Started  bool   `json:"started"`
}

// Registry is the process-wide name→Room arena. A single mutex serializes
// every room-touching operation — creation, membership, and in-game moves —
// so two connections can never race on turn order, capacity checks, or room
// creation, and no fine-grained lock ordering exists to get wrong.
type Registry struct {
	capacity int
	deps     game.Deps
	rules    game.Rules
	logger   *slog.Logger

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry creates an empty room registry. capacity is applied to every
// room it allocates.
func NewRegistry(capacity int, deps game.Deps, rules game.Rules, logger *slog.Logger) *Registry {
	return &Registry{
		capacity: capacity,
		deps:     deps,
		rules:    rules,
		logger:   logger,
		rooms:    make(map[string]*Room),
	}
}

// Create allocates a room with owner as its sole member.
func (reg *Registry) Create(ctx context.Context, name string, owner Player) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.rooms[name]; exists {
		return model.ErrRoomExists
	}

	r := newRoom(name, reg.capacity, reg.deps, reg.rules, reg.logger, func(ctx context.Context) {
		reg.endGameLocked(ctx, name)
	})
	reg.rooms[name] = r

	if err := r.AddPlayer(ctx, owner); err != nil {
		delete(reg.rooms, name)
		return err
	}

	reg.logger.Info("room created", slog.String("room", name), slog.String("owner", owner.Username()))
	return nil
}

// Join seats a player in an existing room.
func (reg *Registry) Join(ctx context.Context, name string, p Player) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[name]
	if !ok {
		return model.ErrRoomNotFound
	}
	return r.AddPlayer(ctx, p)
}

// Leave removes a player from their current room. With gameOver false this
// is a graceful leave: the session's disconnect handling runs and an
// emptied room is deleted. With gameOver true the player is forcibly
// removed and the room deleted unconditionally.
func (reg *Registry) Leave(ctx context.Context, p Player, gameOver bool) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.leaveLocked(ctx, p, gameOver)
}

func (reg *Registry) leaveLocked(ctx context.Context, p Player, gameOver bool) error {
	r := p.Room()
	if r == nil {
		return model.ErrNotInRoom
	}

	p.Send("You have left room " + r.Name())
	reg.logger.Info("player left room",
		slog.String("room", r.Name()),
		slog.String("username", p.Username()))

	r.RemovePlayer(ctx, p, gameOver)

	if gameOver || r.IsEmpty() {
		if _, ok := reg.rooms[r.Name()]; ok {
			delete(reg.rooms, r.Name())
			reg.logger.Info("room deleted", slog.String("room", r.Name()))
		}
	}
	return nil
}

// endGameLocked tears down a room whose game has concluded. The session
// calls it through the room's onEnd hook, on the same goroutine that
// entered the registry, so the registry mutex is already held. Every seat
// is forced out through the game-over leave path, which deletes the room
// unconditionally.
func (reg *Registry) endGameLocked(ctx context.Context, name string) {
	r, ok := reg.rooms[name]
	if !ok {
		return
	}

	for _, p := range append([]Player(nil), r.players...) {
		_ = reg.leaveLocked(ctx, p, true)
	}
	r.session = nil
	r.started = false
}

// GuessConsonant forwards a consonant guess to the player's room.
func (reg *Registry) GuessConsonant(ctx context.Context, p Player, letter rune) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r := p.Room()
	if r == nil {
		return model.ErrNotInRoom
	}
	r.GuessConsonant(ctx, p, letter)
	return nil
}

// GuessVowel forwards a vowel guess to the player's room.
func (reg *Registry) GuessVowel(ctx context.Context, p Player, letter rune) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r := p.Room()
	if r == nil {
		return model.ErrNotInRoom
	}
	r.GuessVowel(ctx, p, letter)
	return nil
}

// Resolve forwards a resolution attempt to the player's room.
func (reg *Registry) Resolve(ctx context.Context, p Player, candidate string) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r := p.Room()
	if r == nil {
		return model.ErrNotInRoom
	}
	r.Resolve(ctx, p, candidate)
	return nil
}

// ListActive returns a snapshot of all active rooms, sorted by name.
func (reg *Registry) ListActive() []Info {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	infos := make([]Info, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		infos = append(infos, Info{
			Name:     r.Name(),
			Players:  r.PlayerCount(),
			Capacity: r.Capacity(),
			Started:  r.Started(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}
