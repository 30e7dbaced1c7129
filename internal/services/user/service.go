package user

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/refranero/hangedgame/internal/model"
	"github.com/refranero/hangedgame/internal/storage"
)

// Service handles account registration, authentication, and statistics
// updates. All stat mutations go through ApplyResult, which serializes
// read-modify-write cycles so that two sessions for the same account cannot
// double-credit a score.
type Service struct {
	storage storage.Storage

	// mu serializes stat updates. A single lock is enough at this scale;
	// the critical section is one storage round trip.
	mu sync.Mutex
}

// New creates a new user service
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// Register creates a new account with the given credentials.
func (s *Service) Register(ctx context.Context, username, password string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.storage.GetUser(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	user := &model.User{Username: username, Password: password}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the account matching the given credentials. The
// password check is plain equality, matching the flat-file records.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.storage.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password != password {
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

// Get returns the stored record for a username.
func (s *Service) Get(ctx context.Context, username string) (*model.User, error) {
	return s.storage.GetUser(ctx, username)
}

// ApplyResult credits a finished game to an account: points plus either a
// win or a defeat. The update is applied against the stored record, not the
// caller's copy, so concurrent sessions for the same account cannot lose
// updates. The refreshed record is returned.
func (s *Service) ApplyResult(ctx context.Context, username string, points int, won bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.storage.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	user.AddScore(points)
	if won {
		user.RecordWin()
	} else {
		user.RecordDefeat()
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Leaderboard returns all users ordered by score descending, username
// ascending for equal scores.
func (s *Service) Leaderboard(ctx context.Context) ([]*model.User, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Score != users[j].Score {
			return users[i].Score > users[j].Score
		}
		return users[i].Username < users[j].Username
	})
	return users, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Get(ctx context.Context, username string) (*model.User, error)
	ApplyResult(ctx context.Context, username string, points int, won bool) (*model.User, error)
	Leaderboard(ctx context.Context) ([]*model.User, error)
}

var _ ServiceInterface = (*Service)(nil)
