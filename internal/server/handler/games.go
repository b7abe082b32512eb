package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/livescores/internal/domain"
)

// LiveGamesProvider is the read side of the live games cache.
type LiveGamesProvider interface {
	GetLiveSnapshot(ctx context.Context) (*domain.LiveGamesSnapshot, error)
}

// LiveGamesHandler serves the correlated live games.
type LiveGamesHandler struct {
	games  LiveGamesProvider
	logger *slog.Logger
}

// NewLiveGamesHandler creates a LiveGamesHandler.
func NewLiveGamesHandler(games LiveGamesProvider, logger *slog.Logger) *LiveGamesHandler {
	return &LiveGamesHandler{
		games:  games,
		logger: logger.With(slog.String("handler", "live_games")),
	}
}

type liveGamesResponse struct {
	Games       []domain.GameRecord `json:"games"`
	Count       int                 `json:"count"`
	RefreshedAt *time.Time          `json:"refreshed_at,omitempty"`
	CycleID     string              `json:"cycle_id,omitempty"`
}

// ListLiveGames returns every game with an active sports market. Stale data
// is served when the latest refresh failed; 503 only when nothing is cached.
// GET /api/live-games
func (h *LiveGamesHandler) ListLiveGames(w http.ResponseWriter, r *http.Request) {
	snap, err := h.games.GetLiveSnapshot(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get live games failed", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "live games unavailable")
		return
	}

	resp := liveGamesResponse{Games: []domain.GameRecord{}}
	if snap != nil {
		if snap.Games != nil {
			resp.Games = snap.Games
		}
		if !snap.RefreshedAt.IsZero() {
			refreshed := snap.RefreshedAt.UTC()
			resp.RefreshedAt = &refreshed
		}
		resp.CycleID = snap.CycleID
	}
	resp.Count = len(resp.Games)
	writeJSON(w, http.StatusOK, resp)
}
