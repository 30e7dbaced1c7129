package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/refranero/hangedgame/internal/middleware"
	"github.com/refranero/hangedgame/internal/room"
	"github.com/refranero/hangedgame/internal/services/user"
)

// RouterConfig holds configuration for the admin API router
type RouterConfig struct {
	Logger   *slog.Logger
	Users    user.ServiceInterface
	Registry *room.Registry
}

// NewRouter creates the read-only admin surface: health, active rooms, and
// the score leaderboard. The game itself is played over the TCP protocol;
// this router exists for operators.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler))
	r.Use(middleware.Logging(cfg.Logger))

	h := &handlers{
		logger:   cfg.Logger,
		users:    cfg.Users,
		registry: cfg.Registry,
	}

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/rooms", h.Rooms).Methods(http.MethodGet)
	r.HandleFunc("/api/leaderboard", h.Leaderboard).Methods(http.MethodGet)

	return r
}

type handlers struct {
	logger   *slog.Logger
	users    user.ServiceInterface
	registry *room.Registry
}

// leaderboardEntry is one row of the leaderboard response. Passwords never
// leave the storage layer through this surface.
type leaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Wins     int    `json:"wins"`
	Defeats  int    `json:"defeats"`
}

func (h *handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) Rooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.ListActive())
}

func (h *handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Leaderboard(r.Context())
	if err != nil {
		h.logger.Error("leaderboard lookup failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	entries := make([]leaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, leaderboardEntry{
			Username: u.Username,
			Score:    u.Score,
			Wins:     u.Wins,
			Defeats:  u.Defeats,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
