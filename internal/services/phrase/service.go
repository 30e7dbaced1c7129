package phrase

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/refranero/hangedgame/internal/dependencies/random"
	"github.com/refranero/hangedgame/internal/model"
	"github.com/refranero/hangedgame/internal/storage"
)

// allowedPunctuation is the punctuation permitted in corpus lines beyond
// lowercase letters and spaces.
const allowedPunctuation = ",.!?;:'"

// Service owns the candidate phrase corpus: loading, validation, and random
// selection for new games.
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger

	mu      sync.RWMutex
	phrases []string
}

// New creates a new phrase service
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger,
	}
}

// LoadFromStorage loads and validates the corpus from storage.
func (s *Service) LoadFromStorage(ctx context.Context) error {
	lines, err := s.storage.GetPhrases(ctx)
	if err != nil {
		return err
	}
	s.load(lines)
	return nil
}

// LoadFromFile loads the corpus from a file (one phrase per line) and saves
// it to storage for future use.
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	s.load(lines)

	if err := s.storage.SavePhrases(ctx, lines); err != nil {
		s.logger.Warn("could not persist phrase corpus", slog.String("error", err.Error()))
	}
	return nil
}

// LoadLines loads the corpus from an in-memory slice. Used by tests and
// tooling that bypass storage.
func (s *Service) LoadLines(lines []string) {
	s.load(lines)
}

// load keeps only valid lines. Invalid lines are skipped with a warning,
// never fatal.
func (s *Service) load(lines []string) {
	var valid []string
	for i, line := range lines {
		if !validLine(line) {
			s.logger.Warn("skipping invalid phrase",
				slog.Int("line", i+1),
				slog.String("phrase", line))
			continue
		}
		valid = append(valid, line)
	}

	s.mu.Lock()
	s.phrases = valid
	s.mu.Unlock()
}

// validLine restricts phrases to the guessable alphabet: lowercase a-z
// plus ñ, spaces, and a small punctuation allow-list. Digits, uppercase,
// and accented letters cannot be guessed, so lines carrying them would
// never be completable.
func validLine(line string) bool {
	for _, r := range line {
		switch {
		case r >= 'a' && r <= 'z', r == 'ñ', r == ' ':
		case strings.ContainsRune(allowedPunctuation, r):
		default:
			return false
		}
	}
	return true
}

// Count returns the number of loaded phrases.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.phrases)
}

// Get returns the phrase at the given corpus index.
func (s *Service) Get(index int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.phrases) {
		return "", model.ErrPhraseNotFound
	}
	return s.phrases[index], nil
}

// Random picks a phrase at random and builds its puzzle model.
func (s *Service) Random() (*model.Phrase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.phrases) == 0 {
		return nil, model.ErrCorpusEmpty
	}
	return model.NewPhrase(s.phrases[s.random.Intn(len(s.phrases))]), nil
}

// Interface for dependency injection
type ServiceInterface interface {
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadLines(lines []string)
	Count() int
	Get(index int) (string, error)
	Random() (*model.Phrase, error)
}

var _ ServiceInterface = (*Service)(nil)
