package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/refranero/hangedgame/internal/model"
	"github.com/refranero/hangedgame/internal/services/phrase"
	"github.com/refranero/hangedgame/internal/services/score"
	"github.com/refranero/hangedgame/internal/services/user"
)

// Mode selects between a solo session and a turn-based multiplayer one.
type Mode int

const (
	Solo Mode = iota
	Multiplayer
)

// State is the session lifecycle. Over is terminal.
type State int

const (
	Created State = iota
	InProgress
	Over
)

// Notifier receives protocol lines destined for one player.
type Notifier interface {
	Send(line string)
}

// Participant is one player's seat in a session: identity, output channel,
// and attempt counter.
type Participant struct {
	Username string
	Out      Notifier
	Tries    int
}

// Rules holds the configurable game rules.
type Rules struct {
	// WrongSolveEndsGame ends a multiplayer game on a failed resolve
	// instead of passing the turn.
	WrongSolveEndsGame bool
}

// Deps are the collaborators a session needs.
type Deps struct {
	Phrases phrase.ServiceInterface
	Scores  score.ServiceInterface
	Users   user.ServiceInterface
	Logger  *slog.Logger
}

// Session is one game over one phrase. It is not internally synchronized:
// solo sessions are owned by a single connection, multiplayer sessions are
// sequenced by their room's lock.
type Session struct {
	mode         Mode
	state        State
	deps         Deps
	rules        Rules
	phrase       *model.Phrase
	participants []*Participant
	turnIdx      int

	// onEnd runs once when a multiplayer session reaches Over, while the
	// room lock is still held. The room uses it to tear itself down.
	onEnd func(ctx context.Context)
}

// NewSolo creates a solo session for a single participant.
func NewSolo(p *Participant, deps Deps, rules Rules) *Session {
	return &Session{
		mode:         Solo,
		state:        Created,
		deps:         deps,
		rules:        rules,
		participants: []*Participant{p},
	}
}

// NewMultiplayer creates a turn-based session over the given seats. onEnd
// is invoked exactly once when the session ends.
func NewMultiplayer(participants []*Participant, deps Deps, rules Rules, onEnd func(ctx context.Context)) *Session {
	return &Session{
		mode:         Multiplayer,
		state:        Created,
		deps:         deps,
		rules:        rules,
		participants: participants,
		onEnd:        onEnd,
	}
}

// Mode returns the session mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Over reports whether the session has ended.
func (s *Session) Over() bool {
	return s.state == Over
}

// CurrentTurn returns the participant holding the turn.
func (s *Session) CurrentTurn() *Participant {
	return s.participants[s.turnIdx]
}

// Start picks a random phrase, shows the masked render, and moves the
// session to InProgress.
func (s *Session) Start(ctx context.Context) error {
	p, err := s.deps.Phrases.Random()
	if err != nil {
		return err
	}
	s.phrase = p
	s.state = InProgress
	for _, seat := range s.participants {
		seat.Tries = 0
	}

	s.broadcast("Starting a new game...")
	s.broadcast("Hidden phrase: " + s.phrase.Render())
	if s.mode == Multiplayer {
		s.announceTurn()
	}
	return nil
}

// GuessConsonant processes a consonant guess by the given participant.
func (s *Session) GuessConsonant(ctx context.Context, actor *Participant, letter rune) {
	s.guess(ctx, actor, letter, false)
}

// GuessVowel processes a vowel guess by the given participant.
func (s *Session) GuessVowel(ctx context.Context, actor *Participant, letter rune) {
	s.guess(ctx, actor, letter, true)
}

func (s *Session) guess(ctx context.Context, actor *Participant, letter rune, isVowel bool) {
	if s.state != InProgress {
		return
	}
	if !s.holdsTurn(actor) {
		actor.Out.Send("Not your turn.")
		return
	}

	actor.Tries++
	var correct bool
	if isVowel {
		correct = s.phrase.GuessVowel(letter)
	} else {
		correct = s.phrase.GuessConsonant(letter)
	}

	if s.mode == Solo {
		if correct {
			s.broadcast("Correct!")
		} else {
			s.broadcast("Incorrect.")
		}
	} else {
		kind := "consonant"
		if isVowel {
			kind = "vowel"
		}
		if correct {
			s.broadcast(fmt.Sprintf("%s guessed the %s '%c'!", actor.Username, kind, letter))
		} else {
			s.broadcast(fmt.Sprintf("%s missed with '%c'.", actor.Username, letter))
		}
	}

	s.broadcast("Current phrase: " + s.phrase.Render())

	if s.phrase.Revealed() {
		s.broadcast("The phrase has been completed! Phrase: " + s.phrase.Text())
		s.finish(ctx, actor)
		return
	}

	if s.mode == Multiplayer {
		s.advanceTurn()
	}
}

// Resolve processes a full-phrase resolution attempt.
func (s *Session) Resolve(ctx context.Context, actor *Participant, candidate string) {
	if s.state != InProgress {
		return
	}
	if !s.holdsTurn(actor) {
		actor.Out.Send("Not your turn.")
		return
	}

	if s.phrase.Resolve(candidate) {
		if s.mode == Solo {
			s.broadcast("Congratulations! You solved the phrase.")
		} else {
			s.broadcast(fmt.Sprintf("%s solved the phrase! Phrase: %s", actor.Username, s.phrase.Text()))
		}
		s.finish(ctx, actor)
		return
	}

	if s.mode == Solo {
		s.broadcast("Sorry, that is not the right phrase.")
		s.finish(ctx, nil)
		return
	}

	s.broadcast(fmt.Sprintf("%s failed to solve the phrase.", actor.Username))
	actor.Out.Send("Sorry, that is not the right phrase.")

	if s.rules.WrongSolveEndsGame {
		s.finish(ctx, nil)
		return
	}
	s.advanceTurn()
}

// HandleDisconnect removes a participant from a running multiplayer
// session. With fewer than two players left the game is forced over; no
// winner is computed beyond already-accrued scores.
func (s *Session) HandleDisconnect(ctx context.Context, actor *Participant) {
	if s.state != InProgress || s.mode != Multiplayer {
		return
	}

	idx := s.indexOf(actor)
	if idx < 0 {
		return
	}

	s.participants = append(s.participants[:idx], s.participants[idx+1:]...)
	if idx < s.turnIdx {
		s.turnIdx--
	} else if s.turnIdx >= len(s.participants) {
		s.turnIdx = 0
	}

	if len(s.participants) < 2 {
		s.broadcast("Not enough players to continue. The game ends.")
		s.state = Over
		if s.onEnd != nil {
			s.onEnd(ctx)
		}
		return
	}

	// Removing the seat already shifted the turn index to the next
	// remaining player when the leaver held the turn; either way the turn
	// is re-announced.
	s.announceTurn()
}

// finish ends the session and settles scores. winner is nil for a failed
// solo resolve or a rule-forced multiplayer end.
func (s *Session) finish(ctx context.Context, winner *Participant) {
	s.state = Over

	for _, seat := range s.participants {
		won := seat == winner
		points := 0
		if won {
			points = s.deps.Scores.TierFor(seat.Tries).Points
		}

		updated, err := s.deps.Users.ApplyResult(ctx, seat.Username, points, won)
		if err != nil {
			s.deps.Logger.Error("could not persist game result",
				slog.String("username", seat.Username),
				slog.String("error", err.Error()))
			continue
		}

		if won {
			seat.Out.Send(fmt.Sprintf("You scored %d points.", points))
			seat.Out.Send(fmt.Sprintf("Total score: %d", updated.Score))
		} else {
			seat.Out.Send("No points this time.")
		}
	}

	s.broadcast("The game is over.")
	if winner != nil && s.mode == Multiplayer {
		s.broadcast("The winner is: " + winner.Username)
	}

	if s.mode == Multiplayer && s.onEnd != nil {
		s.onEnd(ctx)
	}
}

func (s *Session) holdsTurn(actor *Participant) bool {
	if s.mode == Solo {
		return true
	}
	return s.indexOf(actor) == s.turnIdx
}

func (s *Session) indexOf(actor *Participant) int {
	for i, seat := range s.participants {
		if seat == actor {
			return i
		}
	}
	return -1
}

func (s *Session) advanceTurn() {
	s.turnIdx = (s.turnIdx + 1) % len(s.participants)
	s.announceTurn()
}

func (s *Session) announceTurn() {
	current := s.CurrentTurn()
	s.broadcast(fmt.Sprintf("It is %s's turn.", current.Username))
	current.Out.Send("It is your turn.")
}

// broadcast delivers a line to every participant in seat order.
func (s *Session) broadcast(line string) {
	for _, seat := range s.participants {
		seat.Out.Send(line)
	}
}
