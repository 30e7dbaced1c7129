package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/refranero/hangedgame/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{Username: "alice", Password: "secret", Score: 150, Wins: 1}

	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user, retrieved)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestSaveUserStoresCopy() {
	user := &model.User{Username: "alice", Password: "secret"}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	user.Score = 999

	retrieved, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, retrieved.Score)
}

func (s *StorageSuite) TestGetUserReturnsCopy() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{Username: "alice"}))

	first, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	first.Score = 999

	second, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, second.Score)
}

func (s *StorageSuite) TestSaveUserOverwrites() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{Username: "alice", Score: 100}))
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{Username: "alice", Score: 250}))

	retrieved, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(250, retrieved.Score)
}

func (s *StorageSuite) TestListUsers() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{Username: "alice"}))
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{Username: "bob"}))

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)
}

// Phrase corpus tests

func (s *StorageSuite) TestSaveAndGetPhrases() {
	phrases := []string{"go home", "better late than never"}

	s.Require().NoError(s.storage.SavePhrases(s.ctx, phrases))

	retrieved, err := s.storage.GetPhrases(s.ctx)
	s.Require().NoError(err)
	s.Equal(phrases, retrieved)
}

func (s *StorageSuite) TestGetPhrasesBeforeSave() {
	_, err := s.storage.GetPhrases(s.ctx)
	s.ErrorIs(err, model.ErrCorpusEmpty)
}

func (s *StorageSuite) TestSavePhrasesStoresCopy() {
	phrases := []string{"go home"}
	s.Require().NoError(s.storage.SavePhrases(s.ctx, phrases))

	phrases[0] = "mutated"

	retrieved, err := s.storage.GetPhrases(s.ctx)
	s.Require().NoError(err)
	s.Equal("go home", retrieved[0])
}
