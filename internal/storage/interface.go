package storage

import (
	"context"

	"github.com/refranero/hangedgame/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)

	// Phrase corpus operations
	SavePhrases(ctx context.Context, phrases []string) error
	GetPhrases(ctx context.Context) ([]string, error)
}
