package factory

import (
	"github.com/refranero/hangedgame/internal/config"
	"github.com/refranero/hangedgame/internal/dependencies/mocks"
	"github.com/refranero/hangedgame/internal/storage/memory"
	"github.com/refranero/hangedgame/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockRandom, config.Default(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockRandom: mockRandom,
	}
}

// LoadTestPhrases loads a small fixed corpus for testing
func (t *TestApp) LoadTestPhrases() {
	t.PhraseService.LoadLines([]string{
		"a bird in the hand is worth two in the bush",
		"actions speak louder than words",
		"all that glitters is not gold",
		"better late than never",
		"practice makes perfect",
	})
}
