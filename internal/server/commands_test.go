package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/refranero/hangedgame/internal/dependencies/mocks"
	"github.com/refranero/hangedgame/internal/game"
	"github.com/refranero/hangedgame/internal/room"
	"github.com/refranero/hangedgame/internal/services/phrase"
	"github.com/refranero/hangedgame/internal/services/score"
	"github.com/refranero/hangedgame/internal/services/user"
	"github.com/refranero/hangedgame/internal/storage/memory"
	"github.com/refranero/hangedgame/internal/testutil"
)

type stubAddr struct{}

func (stubAddr) Network() string { return "tcp" }
func (stubAddr) String() string  { return "127.0.0.1:54321" }

// stubConn is a net.Conn whose writes land in an in-memory buffer, so
// command handlers can be driven synchronously without a real socket.
type stubConn struct {
	mu  sync.Mutex
	out bytes.Buffer
}

func (c *stubConn) Read(b []byte) (int, error) { return 0, io.EOF }

func (c *stubConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(b)
}

func (c *stubConn) Close() error                       { return nil }
func (c *stubConn) LocalAddr() net.Addr                { return stubAddr{} }
func (c *stubConn) RemoteAddr() net.Addr               { return stubAddr{} }
func (c *stubConn) SetDeadline(t time.Time) error      { return nil }
func (c *stubConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *stubConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *stubConn) lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw := strings.TrimRight(c.out.String(), "\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

func (c *stubConn) got(line string) bool {
	for _, l := range c.lines() {
		if l == line {
			return true
		}
	}
	return false
}

type CommandsSuite struct {
	suite.Suite
	random     *mocks.MockRandom
	users      *user.Service
	registry   *room.Registry
	dispatcher *Dispatcher
	ctx        context.Context
}

func TestCommandsSuite(t *testing.T) {
	suite.Run(t, new(CommandsSuite))
}

func (s *CommandsSuite) SetupTest() {
	storage := memory.New()
	logger := testutil.NopLogger()
	s.random = mocks.NewMockRandom()
	s.ctx = context.Background()

	phrases := phrase.New(storage, s.random, logger)
	phrases.LoadLines([]string{"go home"})

	s.users = user.New(storage)

	deps := game.Deps{
		Phrases: phrases,
		Scores:  score.New(score.DefaultTiers()),
		Users:   s.users,
		Logger:  logger,
	}
	rules := game.Rules{}

	s.registry = room.NewRegistry(2, deps, rules, logger)
	s.dispatcher = NewDispatcher(logger)
	NewCommands(s.users, s.registry, deps, rules, logger).RegisterAll(s.dispatcher)
}

func (s *CommandsSuite) newClient() (*Client, *stubConn) {
	conn := &stubConn{}
	return NewClient(conn, s.dispatcher, s.registry, testutil.NopLogger()), conn
}

func (s *CommandsSuite) send(c *Client, line string) {
	s.dispatcher.Dispatch(s.ctx, line, c)
}

// loggedIn returns a client already registered and authenticated.
func (s *CommandsSuite) loggedIn(username string) (*Client, *stubConn) {
	c, conn := s.newClient()
	s.send(c, "/register "+username+" pw")
	s.send(c, "/login "+username+" pw")
	s.Require().True(conn.got("Welcome, "+username+"."), "login failed: %v", conn.lines())
	return c, conn
}

// Accounts

func (s *CommandsSuite) TestRegisterAndLogin() {
	c, conn := s.newClient()

	s.send(c, "/register alice secret")
	s.True(conn.got("Account created. You can now /login."))

	s.send(c, "/login alice secret")
	s.True(conn.got("Welcome, alice."))
	s.Equal("alice", c.Username())
}

func (s *CommandsSuite) TestRegisterUsage() {
	c, conn := s.newClient()

	s.send(c, "/register alice")
	s.True(conn.got("Usage: /register <user> <password>"))
}

func (s *CommandsSuite) TestRegisterTakenUsername() {
	c, conn := s.newClient()

	s.send(c, "/register alice secret")
	s.send(c, "/register alice other")
	s.True(conn.got("That username is already taken."))
}

func (s *CommandsSuite) TestLoginWrongPassword() {
	c, conn := s.newClient()

	s.send(c, "/register alice secret")
	s.send(c, "/login alice wrong")
	s.True(conn.got("Wrong username or password."))
	s.Nil(c.User())
}

func (s *CommandsSuite) TestUserRequiresLogin() {
	c, conn := s.newClient()

	s.send(c, "/user")
	s.True(conn.got("You must log in first."))
}

func (s *CommandsSuite) TestUserShowsStoredProfile() {
	c, conn := s.loggedIn("alice")

	_, err := s.users.ApplyResult(s.ctx, "alice", 150, true)
	s.Require().NoError(err)

	s.send(c, "/user")
	s.True(conn.got("User: alice | Score: 150 | Wins: 1 | Defeats: 0"))
}

// Solo games

func (s *CommandsSuite) TestSingleplayerRequiresLogin() {
	c, conn := s.newClient()

	s.send(c, "/singleplayer")
	s.True(conn.got("You must log in before playing."))
}

func (s *CommandsSuite) TestSingleplayerGame() {
	c, conn := s.loggedIn("alice")

	s.send(c, "/singleplayer")
	s.True(conn.got("Starting a new game..."))
	s.True(conn.got("Hidden phrase: __ ____"))

	s.send(c, "/consonant g")
	s.True(conn.got("Correct!"))
	s.True(conn.got("Current phrase: g_ ____"))

	s.send(c, "/vowel o")
	s.True(conn.got("Current phrase: go _o_e"))

	s.send(c, "/solve go home")
	s.True(conn.got("Congratulations! You solved the phrase."))
	s.True(conn.got("You scored 100 points."))
	s.True(conn.got("The game is over."))

	stored, err := s.users.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(100, stored.Score)
	s.Equal(1, stored.Wins)
}

func (s *CommandsSuite) TestSingleplayerTwiceRejected() {
	c, conn := s.loggedIn("alice")

	s.send(c, "/singleplayer")
	s.send(c, "/singleplayer")
	s.True(conn.got("You are already in a game."))
}

func (s *CommandsSuite) TestWrongSolveEndsSoloGame() {
	c, conn := s.loggedIn("alice")

	s.send(c, "/singleplayer")
	s.send(c, "/solve go away")
	s.True(conn.got("Sorry, that is not the right phrase."))
	s.True(conn.got("No points this time."))

	s.send(c, "/consonant g")
	s.True(conn.got("No game in progress."))

	stored, err := s.users.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, stored.Defeats)
}

func (s *CommandsSuite) TestGuessWithoutGame() {
	c, conn := s.loggedIn("alice")

	s.send(c, "/consonant g")
	s.True(conn.got("No game in progress."))
}

func (s *CommandsSuite) TestGuessUsage() {
	c, conn := s.loggedIn("alice")

	s.send(c, "/consonant")
	s.True(conn.got("Usage: /consonant <letter>"))
	s.send(c, "/consonant gh")
	s.True(conn.got("Usage: /consonant <letter>"))
	s.send(c, "/vowel")
	s.True(conn.got("Usage: /vowel <letter>"))
	s.send(c, "/solve")
	s.True(conn.got("Usage: /solve <phrase>"))
}

// Multiplayer

func (s *CommandsSuite) TestMultiplayerUsage() {
	c, conn := s.loggedIn("alice")

	s.send(c, "/multiplayer")
	s.send(c, "/multiplayer create")
	s.send(c, "/multiplayer leave extra")
	s.send(c, "/multiplayer dance sala")
	s.Equal(4, countLine(conn, "Usage: /multiplayer <create|join|leave> [room]"))
}

func (s *CommandsSuite) TestMultiplayerCreateJoinAndPlay() {
	alice, aliceConn := s.loggedIn("alice")
	bob, bobConn := s.loggedIn("bob")

	s.send(alice, "/multiplayer create sala")
	s.True(aliceConn.got("Room sala created."))

	s.send(alice, "/rooms")
	s.True(aliceConn.got("  sala (1/2)"))

	s.send(bob, "/multiplayer join sala")
	s.True(bobConn.got("The game has started."))
	s.True(aliceConn.got("It is your turn."))
	s.True(bobConn.got("It is alice's turn."))

	// Out of turn moves are rejected.
	s.send(bob, "/consonant g")
	s.True(bobConn.got("Not your turn."))

	s.send(alice, "/consonant g")
	s.True(bobConn.got("alice guessed the consonant 'g'!"))
	s.True(bobConn.got("It is your turn."))

	s.send(bob, "/solve go home")
	s.True(aliceConn.got("bob solved the phrase! Phrase: go home"))
	s.True(aliceConn.got("The winner is: bob"))
	s.True(bobConn.got("You scored 150 points."))

	// The room is gone once the game ends.
	s.Nil(alice.Room())
	s.Nil(bob.Room())
	s.send(alice, "/rooms")
	s.True(aliceConn.got("No active rooms."))
}

func (s *CommandsSuite) TestJoinFullRoom() {
	alice, _ := s.loggedIn("alice")
	bob, _ := s.loggedIn("bob")
	carol, carolConn := s.loggedIn("carol")

	s.send(alice, "/multiplayer create sala")
	s.send(bob, "/multiplayer join sala")
	s.send(carol, "/multiplayer join sala")
	s.True(carolConn.got("That room is full."))
}

func (s *CommandsSuite) TestJoinUnknownRoom() {
	alice, aliceConn := s.loggedIn("alice")

	s.send(alice, "/multiplayer join nowhere")
	s.True(aliceConn.got("No such room."))
}

func (s *CommandsSuite) TestCreateDuplicateRoom() {
	alice, _ := s.loggedIn("alice")
	bob, bobConn := s.loggedIn("bob")

	s.send(alice, "/multiplayer create sala")
	s.send(bob, "/multiplayer create sala")
	s.True(bobConn.got("That room already exists."))
}

func (s *CommandsSuite) TestCreateWhileInRoom() {
	alice, aliceConn := s.loggedIn("alice")

	s.send(alice, "/multiplayer create sala")
	s.send(alice, "/multiplayer create otra")
	s.True(aliceConn.got("You are already in a room."))
}

func (s *CommandsSuite) TestLeaveRoom() {
	alice, aliceConn := s.loggedIn("alice")

	s.send(alice, "/multiplayer create sala")
	s.send(alice, "/multiplayer leave")
	s.True(aliceConn.got("You have left room sala"))

	s.send(alice, "/multiplayer leave")
	s.True(aliceConn.got("You are not in a room."))
}

func (s *CommandsSuite) TestSoloAndMultiplayerAreExclusive() {
	alice, aliceConn := s.loggedIn("alice")

	s.send(alice, "/singleplayer")
	s.send(alice, "/multiplayer create sala")
	s.True(aliceConn.got("You are already in a solo game."))
}

func (s *CommandsSuite) TestRoomsEmpty() {
	alice, aliceConn := s.loggedIn("alice")

	s.send(alice, "/rooms")
	s.True(aliceConn.got("No active rooms."))
}

// Exit

func (s *CommandsSuite) TestExitStopsClient() {
	c, conn := s.newClient()

	s.send(c, "/exit")
	s.True(conn.got("Goodbye."))
	s.False(c.isRunning())
}

func (s *CommandsSuite) TestExitLeavesRoomFirst() {
	alice, aliceConn := s.loggedIn("alice")

	s.send(alice, "/multiplayer create sala")
	s.send(alice, "/exit")
	s.True(aliceConn.got("You have left room sala"))
	s.True(aliceConn.got("Goodbye."))
	s.Empty(s.registry.ListActive())
}

func countLine(conn *stubConn, line string) int {
	n := 0
	for _, l := range conn.lines() {
		if l == line {
			n++
		}
	}
	return n
}
