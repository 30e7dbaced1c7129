package server

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/refranero/hangedgame/internal/game"
	"github.com/refranero/hangedgame/internal/model"
	"github.com/refranero/hangedgame/internal/room"
)

// Client is the per-connection handler: it owns the connection's identity,
// its active solo session, and its current room reference, and runs the
// blocking line-read loop that feeds the dispatcher.
type Client struct {
	conn       net.Conn
	dispatcher *Dispatcher
	registry   *room.Registry
	logger     *slog.Logger

	// writeMu serializes outbound lines; broadcasts from other
	// connections' goroutines interleave with command responses.
	writeMu sync.Mutex

	mu          sync.Mutex
	user        *model.User
	soloSession *game.Session
	currentRoom *room.Room
	running     bool
}

// NewClient creates a handler for one accepted connection.
func NewClient(conn net.Conn, dispatcher *Dispatcher, registry *room.Registry, logger *slog.Logger) *Client {
	return &Client{
		conn:       conn,
		dispatcher: dispatcher,
		registry:   registry,
		logger:     logger.With(slog.String("remote", conn.RemoteAddr().String())),
		running:    true,
	}
}

// Handle runs the connection's read loop until the peer disconnects or an
// exit command flips the run flag, then tears down the connection's
// room/session state.
func (c *Client) Handle(ctx context.Context) {
	defer c.teardown(ctx)

	c.logger.Info("client connected")
	c.Send("Welcome to the hanged game. Type /help for the command list.")

	scanner := bufio.NewScanner(c.conn)
	for c.isRunning() && scanner.Scan() {
		c.dispatcher.Dispatch(ctx, scanner.Text(), c)
	}

	if err := scanner.Err(); err != nil {
		c.logger.Warn("read error", slog.String("error", err.Error()))
	}
}

// teardown releases everything the connection held. An abrupt disconnect
// runs the same path as an explicit leave.
func (c *Client) teardown(ctx context.Context) {
	if c.Room() != nil {
		if err := c.registry.Leave(ctx, c, false); err != nil {
			c.logger.Warn("leave on disconnect failed", slog.String("error", err.Error()))
		}
	}

	if err := c.conn.Close(); err == nil {
		c.logger.Info("connection closed", slog.String("user", c.DisplayName()))
	}
}

// Send writes one protocol line to the peer. Write failures are left to
// the read loop to surface; there is nothing useful to do with them here.
func (c *Client) Send(line string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	fmt.Fprintf(c.conn, "%s\n", line)
}

// Stop flips the run flag; the read loop exits after the current command.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

func (c *Client) isRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// User returns the logged-in identity, or nil.
func (c *Client) User() *model.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// SetUser binds the connection's identity after a successful login.
func (c *Client) SetUser(u *model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = u
}

// Username implements room.Player.
func (c *Client) Username() string {
	u := c.User()
	if u == nil {
		return ""
	}
	return u.Username
}

// DisplayName names the connection for logs: the username when logged in,
// otherwise the remote address.
func (c *Client) DisplayName() string {
	if u := c.User(); u != nil {
		return u.Username
	}
	return "guest " + c.conn.RemoteAddr().String()
}

// Room implements room.Player.
func (c *Client) Room() *room.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentRoom
}

// SetRoom implements room.Player.
func (c *Client) SetRoom(r *room.Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentRoom = r
}

// SoloSession returns the connection's solo session, or nil.
func (c *Client) SoloSession() *game.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.soloSession
}

// SetSoloSession binds a solo session to the connection.
func (c *Client) SetSoloSession(s *game.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.soloSession = s
}

// HasActiveSoloGame reports whether a solo game is still in progress.
func (c *Client) HasActiveSoloGame() bool {
	s := c.SoloSession()
	return s != nil && !s.Over()
}

// Ensure Client satisfies the room seat interface
var _ room.Player = (*Client)(nil)
