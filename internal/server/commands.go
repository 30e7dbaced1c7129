package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/refranero/hangedgame/internal/game"
	"github.com/refranero/hangedgame/internal/model"
	"github.com/refranero/hangedgame/internal/room"
	"github.com/refranero/hangedgame/internal/services/user"
)

// Commands holds the collaborators the command handlers act on. Handlers
// either fully apply one state transition and emit a deterministic
// response, or decline with a specific message and change nothing.
type Commands struct {
	users    user.ServiceInterface
	registry *room.Registry
	gameDeps game.Deps
	rules    game.Rules
	logger   *slog.Logger
}

// NewCommands creates the command set with explicit dependencies.
func NewCommands(users user.ServiceInterface, registry *room.Registry, gameDeps game.Deps, rules game.Rules, logger *slog.Logger) *Commands {
	return &Commands{
		users:    users,
		registry: registry,
		gameDeps: gameDeps,
		rules:    rules,
		logger:   logger,
	}
}

// RegisterAll installs every command into the dispatcher table.
func (cmds *Commands) RegisterAll(d *Dispatcher) {
	d.Register("help", cmds.Help)
	d.Register("register", cmds.Register)
	d.Register("login", cmds.Login)
	d.Register("user", cmds.UserInfo)
	d.Register("singleplayer", cmds.SinglePlayer)
	d.Register("multiplayer", cmds.Multiplayer)
	d.Register("rooms", cmds.Rooms)
	d.Register("consonant", cmds.Consonant)
	d.Register("vowel", cmds.Vowel)
	d.Register("solve", cmds.Solve)
	d.Register("exit", cmds.Exit)
}

// Help prints the command list.
func (cmds *Commands) Help(ctx context.Context, c *Client, args []string) {
	c.Send("Available commands:")
	c.Send("  /register <user> <password>        create an account")
	c.Send("  /login <user> <password>           log in")
	c.Send("  /user                              show your profile")
	c.Send("  /singleplayer                      start a solo game")
	c.Send("  /multiplayer <create|join|leave> [room]")
	c.Send("  /rooms                             list active rooms")
	c.Send("  /consonant <letter>                guess a consonant")
	c.Send("  /vowel <letter>                    guess a vowel")
	c.Send("  /solve <phrase>                    attempt the full phrase")
	c.Send("  /exit                              disconnect")
}

// Register creates a new account.
func (cmds *Commands) Register(ctx context.Context, c *Client, args []string) {
	if len(args) != 2 {
		c.Send("Usage: /register <user> <password>")
		return
	}

	if _, err := cmds.users.Register(ctx, args[0], args[1]); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			c.Send("That username is already taken.")
		} else {
			cmds.logger.Error("register failed", slog.String("error", err.Error()))
			c.Send("Could not register right now.")
		}
		return
	}

	cmds.logger.Info("user registered", slog.String("username", args[0]))
	c.Send("Account created. You can now /login.")
}

// Login binds the connection's identity on a credential match.
func (cmds *Commands) Login(ctx context.Context, c *Client, args []string) {
	if len(args) != 2 {
		c.Send("Usage: /login <user> <password>")
		return
	}

	u, err := cmds.users.Authenticate(ctx, args[0], args[1])
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			c.Send("Wrong username or password.")
		} else {
			cmds.logger.Error("login failed", slog.String("error", err.Error()))
			c.Send("Could not log in right now.")
		}
		return
	}

	c.SetUser(u)
	cmds.logger.Info("user logged in", slog.String("username", u.Username))
	c.Send("Welcome, " + u.Username + ".")
}

// UserInfo prints the logged-in account's profile from the stored record.
func (cmds *Commands) UserInfo(ctx context.Context, c *Client, args []string) {
	u := c.User()
	if u == nil {
		c.Send("You must log in first.")
		return
	}

	stored, err := cmds.users.Get(ctx, u.Username)
	if err != nil {
		cmds.logger.Error("profile lookup failed", slog.String("error", err.Error()))
		c.Send("Could not load your profile right now.")
		return
	}

	c.Send(fmt.Sprintf("User: %s | Score: %d | Wins: %d | Defeats: %d",
		stored.Username, stored.Score, stored.Wins, stored.Defeats))
}

// SinglePlayer starts a solo session.
func (cmds *Commands) SinglePlayer(ctx context.Context, c *Client, args []string) {
	if c.User() == nil {
		c.Send("You must log in before playing.")
		return
	}
	if c.Room() != nil {
		c.Send("You are already in a multiplayer room.")
		return
	}
	if c.HasActiveSoloGame() {
		c.Send("You are already in a game.")
		return
	}

	seat := &game.Participant{Username: c.Username(), Out: c}
	session := game.NewSolo(seat, cmds.gameDeps, cmds.rules)
	if err := session.Start(ctx); err != nil {
		cmds.logger.Error("could not start solo game", slog.String("error", err.Error()))
		c.Send("Could not start a game right now.")
		return
	}
	c.SetSoloSession(session)
}

// Multiplayer manages room lifecycle: create, join, leave.
func (cmds *Commands) Multiplayer(ctx context.Context, c *Client, args []string) {
	usage := func() {
		c.Send("Usage: /multiplayer <create|join|leave> [room]")
	}

	if len(args) == 0 {
		usage()
		return
	}
	action := args[0]
	if (action == "leave" && len(args) != 1) ||
		(action != "leave" && len(args) != 2) {
		usage()
		return
	}

	if c.User() == nil {
		c.Send("You must log in before playing.")
		return
	}
	if c.HasActiveSoloGame() {
		c.Send("You are already in a solo game.")
		return
	}

	switch action {
	case "create":
		if c.Room() != nil {
			c.Send("You are already in a room.")
			return
		}
		if err := cmds.registry.Create(ctx, args[1], c); err != nil {
			if errors.Is(err, model.ErrRoomExists) {
				c.Send("That room already exists.")
			} else {
				c.Send("Could not create the room.")
			}
			return
		}
		c.Send("Room " + args[1] + " created.")
	case "join":
		if c.Room() != nil {
			c.Send("You are already in a room.")
			return
		}
		if err := cmds.registry.Join(ctx, args[1], c); err != nil {
			switch {
			case errors.Is(err, model.ErrRoomNotFound):
				c.Send("No such room.")
			case errors.Is(err, model.ErrRoomFull):
				c.Send("That room is full.")
			default:
				c.Send("Could not join the room.")
			}
			return
		}
	case "leave":
		if err := cmds.registry.Leave(ctx, c, false); err != nil {
			c.Send("You are not in a room.")
		}
	default:
		usage()
	}
}

// Rooms lists active rooms and their occupancy.
func (cmds *Commands) Rooms(ctx context.Context, c *Client, args []string) {
	infos := cmds.registry.ListActive()
	if len(infos) == 0 {
		c.Send("No active rooms.")
		return
	}

	c.Send("Active rooms:")
	for _, info := range infos {
		c.Send(fmt.Sprintf("  %s (%d/%d)", info.Name, info.Players, info.Capacity))
	}
}

// Consonant guesses a consonant in the active session.
func (cmds *Commands) Consonant(ctx context.Context, c *Client, args []string) {
	letter, ok := singleLetter(args)
	if !ok {
		c.Send("Usage: /consonant <letter>")
		return
	}
	cmds.play(ctx, c,
		func(s *game.Session, seat *game.Participant) { s.GuessConsonant(ctx, seat, letter) },
		func() error { return cmds.registry.GuessConsonant(ctx, c, letter) })
}

// Vowel guesses a vowel in the active session.
func (cmds *Commands) Vowel(ctx context.Context, c *Client, args []string) {
	letter, ok := singleLetter(args)
	if !ok {
		c.Send("Usage: /vowel <letter>")
		return
	}
	cmds.play(ctx, c,
		func(s *game.Session, seat *game.Participant) { s.GuessVowel(ctx, seat, letter) },
		func() error { return cmds.registry.GuessVowel(ctx, c, letter) })
}

// Solve attempts the full phrase. Tokens are rejoined with single spaces,
// so the wire form cannot carry doubled whitespace.
func (cmds *Commands) Solve(ctx context.Context, c *Client, args []string) {
	if len(args) == 0 {
		c.Send("Usage: /solve <phrase>")
		return
	}
	candidate := joinTokens(args)
	cmds.play(ctx, c,
		func(s *game.Session, seat *game.Participant) { s.Resolve(ctx, seat, candidate) },
		func() error { return cmds.registry.Resolve(ctx, c, candidate) })
}

// play routes a game action to the connection's room if it has one,
// otherwise to its solo session.
func (cmds *Commands) play(ctx context.Context, c *Client, solo func(*game.Session, *game.Participant), multi func() error) {
	if c.User() == nil {
		c.Send("You must log in before playing.")
		return
	}

	if c.Room() != nil {
		if err := multi(); err != nil {
			c.Send("No game in progress.")
		}
		return
	}

	if s := c.SoloSession(); s != nil && !s.Over() {
		solo(s, s.CurrentTurn())
		return
	}

	c.Send("No game in progress.")
}

// Exit is the graceful disconnect path.
func (cmds *Commands) Exit(ctx context.Context, c *Client, args []string) {
	if c.Room() != nil {
		if err := cmds.registry.Leave(ctx, c, false); err != nil && !errors.Is(err, model.ErrNotInRoom) {
			cmds.logger.Warn("leave on exit failed", slog.String("error", err.Error()))
		}
	}
	c.Send("Goodbye.")
	c.Stop()
}

// singleLetter extracts the one-letter argument form used by the guess
// commands.
func singleLetter(args []string) (rune, bool) {
	if len(args) != 1 {
		return 0, false
	}
	runes := []rune(args[0])
	if len(runes) != 1 {
		return 0, false
	}
	return runes[0], true
}

// joinTokens rebuilds a phrase from its whitespace-split tokens.
func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
