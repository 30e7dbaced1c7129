package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full server configuration, loadable from a config file
// (hangedgame.yaml) and overridable from HANGED_-prefixed environment
// variables.
type Config struct {
	Listen  ListenConfig  `mapstructure:"listen"`
	Room    RoomConfig    `mapstructure:"room"`
	Rules   RulesConfig   `mapstructure:"rules"`
	Storage StorageConfig `mapstructure:"storage"`
	Admin   AdminConfig   `mapstructure:"admin"`
}

// ListenConfig holds the TCP listener settings.
type ListenConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	MaxClients int    `mapstructure:"max-clients"`
}

// RoomConfig holds multiplayer room settings.
type RoomConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// RulesConfig holds the configurable game rules.
type RulesConfig struct {
	WrongSolveEndsGame bool `mapstructure:"wrong-solve-ends-game"`
}

// StorageConfig selects and parameterizes the storage backend.
type StorageConfig struct {
	Type        string `mapstructure:"type"` // memory, file, or redis
	UsersPath   string `mapstructure:"users-path"`
	PhrasesPath string `mapstructure:"phrases-path"`
	RedisURL    string `mapstructure:"redis-url"`
}

// AdminConfig controls the optional read-only HTTP surface.
type AdminConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen: ListenConfig{
			Host:       "0.0.0.0",
			Port:       2050,
			MaxClients: 64,
		},
		Room: RoomConfig{
			Capacity: 2,
		},
		Rules: RulesConfig{
			WrongSolveEndsGame: false,
		},
		Storage: StorageConfig{
			Type:        "file",
			UsersPath:   "users.txt",
			PhrasesPath: "proverbs.txt",
			RedisURL:    "redis://localhost:6379",
		},
		Admin: AdminConfig{
			Enabled: false,
			Addr:    ":8080",
		},
	}
}

// Load reads configuration from the given file path (optional) and the
// environment, layered over the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HANGED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("listen.host", def.Listen.Host)
	v.SetDefault("listen.port", def.Listen.Port)
	v.SetDefault("listen.max-clients", def.Listen.MaxClients)
	v.SetDefault("room.capacity", def.Room.Capacity)
	v.SetDefault("rules.wrong-solve-ends-game", def.Rules.WrongSolveEndsGame)
	v.SetDefault("storage.type", def.Storage.Type)
	v.SetDefault("storage.users-path", def.Storage.UsersPath)
	v.SetDefault("storage.phrases-path", def.Storage.PhrasesPath)
	v.SetDefault("storage.redis-url", def.Storage.RedisURL)
	v.SetDefault("admin.enabled", def.Admin.Enabled)
	v.SetDefault("admin.addr", def.Admin.Addr)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Listen.Port < 1 || c.Listen.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Listen.Port)
	}
	if c.Listen.MaxClients < 1 {
		return fmt.Errorf("invalid max-clients: %d", c.Listen.MaxClients)
	}
	if c.Room.Capacity < 2 || c.Room.Capacity > 3 {
		return fmt.Errorf("invalid room capacity (must be 2 or 3): %d", c.Room.Capacity)
	}
	switch c.Storage.Type {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("invalid storage type (must be memory, file, or redis): %q", c.Storage.Type)
	}
	return nil
}
