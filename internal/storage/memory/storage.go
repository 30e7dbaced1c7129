package memory

import (
	"context"
	"sync"

	"github.com/refranero/hangedgame/internal/model"
	"github.com/refranero/hangedgame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users   map[string]*model.User
	phrases []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users: make(map[string]*model.User),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.Username] = &copied
	return nil
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, user := range s.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

// Phrase corpus operations

func (s *Storage) SavePhrases(ctx context.Context, phrases []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phrases = make([]string, len(phrases))
	copy(s.phrases, phrases)
	return nil
}

func (s *Storage) GetPhrases(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phrases == nil {
		return nil, model.ErrCorpusEmpty
	}
	result := make([]string, len(s.phrases))
	copy(result, s.phrases)
	return result, nil
}
