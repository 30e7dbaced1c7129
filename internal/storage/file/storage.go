package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/refranero/hangedgame/internal/model"
	"github.com/refranero/hangedgame/internal/storage"
)

// Storage is a flat-file implementation of the storage interface. Users are
// stored one per line as "username,password,score,wins,defeats"; the phrase
// corpus is one phrase per line. The whole user file is rewritten on every
// save, which is fine at this system's scale.
type Storage struct {
	mu sync.Mutex

	usersPath   string
	phrasesPath string
	users       map[string]*model.User
}

// New creates a file storage rooted at the given paths, loading any existing
// user records. A missing users file is not an error; it is created on the
// first save.
func New(usersPath, phrasesPath string) (*Storage, error) {
	s := &Storage{
		usersPath:   usersPath,
		phrasesPath: phrasesPath,
		users:       make(map[string]*model.User),
	}
	if err := s.loadUsers(); err != nil {
		return nil, err
	}
	return s, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) loadUsers() error {
	f, err := os.Open(s.usersPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		user, ok := parseUserLine(scanner.Text())
		if !ok {
			continue // Malformed record lines are skipped, not fatal
		}
		s.users[user.Username] = user
	}
	return scanner.Err()
}

func parseUserLine(line string) (*model.User, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 5 {
		return nil, false
	}

	score, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, false
	}
	wins, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, false
	}
	defeats, err := strconv.Atoi(parts[4])
	if err != nil {
		return nil, false
	}

	return &model.User{
		Username: parts[0],
		Password: parts[1],
		Score:    score,
		Wins:     wins,
		Defeats:  defeats,
	}, true
}

// flushUsers rewrites the user file from the in-memory map. Callers must
// hold s.mu. Records are written in username order for deterministic files.
func (s *Storage) flushUsers() error {
	usernames := make([]string, 0, len(s.users))
	for username := range s.users {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	var b strings.Builder
	for _, username := range usernames {
		u := s.users[username]
		fmt.Fprintf(&b, "%s,%s,%d,%d,%d\n", u.Username, u.Password, u.Score, u.Wins, u.Defeats)
	}

	return os.WriteFile(s.usersPath, []byte(b.String()), 0o644)
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.Username] = &copied
	return s.flushUsers()
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
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
	return os.WriteFile(s.phrasesPath, []byte(strings.Join(phrases, "\n")+"\n"), 0o644)
}

func (s *Storage) GetPhrases(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.phrasesPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var phrases []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line != "" {
			phrases = append(phrases, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(phrases) == 0 {
		return nil, model.ErrCorpusEmpty
	}
	return phrases, nil
}
