package factory

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/refranero/hangedgame/internal/config"
	"github.com/refranero/hangedgame/internal/dependencies/random"
	"github.com/refranero/hangedgame/internal/game"
	"github.com/refranero/hangedgame/internal/room"
	"github.com/refranero/hangedgame/internal/server"
	"github.com/refranero/hangedgame/internal/services/phrase"
	"github.com/refranero/hangedgame/internal/services/score"
	"github.com/refranero/hangedgame/internal/services/user"
	"github.com/refranero/hangedgame/internal/storage"
	filestorage "github.com/refranero/hangedgame/internal/storage/file"
	"github.com/refranero/hangedgame/internal/storage/memory"
	redisstorage "github.com/refranero/hangedgame/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage
	Random  random.Random

	PhraseService *phrase.Service
	ScoreService  *score.Service
	UserService   *user.Service

	Registry   *room.Registry
	Dispatcher *server.Dispatcher
	Server     *server.Server
}

// New wires the application from configuration. All dependencies are
// passed explicitly; nothing reaches for globals.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	store, err := newStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return newWithDependencies(store, random.New(), cfg, logger), nil
}

// newWithDependencies assembles the App from explicit dependencies. Tests
// use this to substitute mocks.
func newWithDependencies(store storage.Storage, rnd random.Random, cfg config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	phraseService := phrase.New(store, rnd, logger)
	scoreService := score.New(score.DefaultTiers())
	userService := user.New(store)

	gameDeps := game.Deps{
		Phrases: phraseService,
		Scores:  scoreService,
		Users:   userService,
		Logger:  logger,
	}
	rules := game.Rules{
		WrongSolveEndsGame: cfg.Rules.WrongSolveEndsGame,
	}

	registry := room.NewRegistry(cfg.Room.Capacity, gameDeps, rules, logger)

	dispatcher := server.NewDispatcher(logger)
	commands := server.NewCommands(userService, registry, gameDeps, rules, logger)
	commands.RegisterAll(dispatcher)

	srv := server.New(server.Config{
		Host:       cfg.Listen.Host,
		Port:       cfg.Listen.Port,
		MaxClients: cfg.Listen.MaxClients,
	}, dispatcher, registry, logger)

	return &App{
		Storage:       store,
		Random:        rnd,
		PhraseService: phraseService,
		ScoreService:  scoreService,
		UserService:   userService,
		Registry:      registry,
		Dispatcher:    dispatcher,
		Server:        srv,
	}
}

func newStorage(cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "file":
		return filestorage.New(cfg.UsersPath, cfg.PhrasesPath)
	case "redis":
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		return redisstorage.New(redisCfg)
	default:
		return nil, fmt.Errorf("invalid storage type: %q", cfg.Type)
	}
}
