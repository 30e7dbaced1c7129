package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/refranero/hangedgame/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		Username: "alice",
		Password: "secret",
		Score:    150,
		Wins:     2,
		Defeats:  1,
	}

	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user, retrieved)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestSaveUserOverwrites() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{Username: "alice", Score: 100}))
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{Username: "alice", Score: 250}))

	retrieved, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(250, retrieved.Score)
}

func (s *StorageSuite) TestListUsers() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{Username: "alice", Score: 150}))
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{Username: "bob", Score: 70}))

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)

	byName := make(map[string]int)
	for _, u := range users {
		byName[u.Username] = u.Score
	}
	s.Equal(150, byName["alice"])
	s.Equal(70, byName["bob"])
}

func (s *StorageSuite) TestListUsersEmpty() {
	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *StorageSuite) TestListUsersSkipsDanglingIndexEntries() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{Username: "alice"}))
	s.mini.Del(userKey("alice"))

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

// Phrase corpus tests

func (s *StorageSuite) TestSaveAndGetPhrases() {
	phrases := []string{"go home", "better late than never"}

	s.Require().NoError(s.storage.SavePhrases(s.ctx, phrases))

	retrieved, err := s.storage.GetPhrases(s.ctx)
	s.Require().NoError(err)
	s.Equal(phrases, retrieved)
}

func (s *StorageSuite) TestGetPhrasesEmpty() {
	_, err := s.storage.GetPhrases(s.ctx)
	s.ErrorIs(err, model.ErrCorpusEmpty)
}

func (s *StorageSuite) TestSavePhrasesReplacesCorpus() {
	s.Require().NoError(s.storage.SavePhrases(s.ctx, []string{"old phrase"}))
	s.Require().NoError(s.storage.SavePhrases(s.ctx, []string{"new phrase", "another one"}))

	retrieved, err := s.storage.GetPhrases(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"new phrase", "another one"}, retrieved)
}
