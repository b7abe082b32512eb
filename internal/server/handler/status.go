package handler

import (
	"net/http"
	"time"

	"github.com/alanyoungcy/livescores/internal/domain"
)

// MarketCache exposes the markets held by the market source.
type MarketCache interface {
	Markets() []domain.Market
}

// ScoreCache exposes the per-sport results held by the score source.
type ScoreCache interface {
	Sports() []domain.Sport
	LastGood(sport domain.Sport) ([]domain.GameRecord, bool)
}

// SnapshotSource exposes the current live games snapshot.
type SnapshotSource interface {
	Snapshot() *domain.LiveGamesSnapshot
	RefreshInterval() time.Duration
}

// StatusHandler reports the state of the caches for operators.
type StatusHandler struct {
	mode    string
	live    SnapshotSource
	markets MarketCache
	scores  ScoreCache
	now     func() time.Time
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(mode string, live SnapshotSource, markets MarketCache, scores ScoreCache) *StatusHandler {
	return &StatusHandler{
		mode:    mode,
		live:    live,
		markets: markets,
		scores:  scores,
		now:     time.Now,
	}
}

type sportStatus struct {
	Sport   domain.Sport `json:"sport"`
	Games   int          `json:"games"`
	Fetched bool         `json:"fetched"`
}

type statusResponse struct {
	Mode            string        `json:"mode"`
	RefreshInterval string        `json:"refresh_interval"`
	LastRefresh     *time.Time    `json:"last_refresh,omitempty"`
	SnapshotAge     string        `json:"snapshot_age,omitempty"`
	CycleID         string        `json:"cycle_id,omitempty"`
	LiveGames       int           `json:"live_games"`
	CachedMarkets   int           `json:"cached_markets"`
	Sports          []sportStatus `json:"sports"`
}

// GetStatus reports mode, snapshot age and cache sizes.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Mode:            h.mode,
		RefreshInterval: h.live.RefreshInterval().String(),
		CachedMarkets:   len(h.markets.Markets()),
		Sports:          make([]sportStatus, 0, len(h.scores.Sports())),
	}

	if snap := h.live.Snapshot(); snap != nil {
		last := snap.RefreshedAt.UTC()
		resp.LastRefresh = &last
		resp.SnapshotAge = h.now().Sub(snap.RefreshedAt).Round(time.Second).String()
		resp.CycleID = snap.CycleID
		resp.LiveGames = len(snap.Games)
	}

	for _, sport := range h.scores.Sports() {
		games, ok := h.scores.LastGood(sport)
		resp.Sports = append(resp.Sports, sportStatus{Sport: sport, Games: len(games), Fetched: ok})
	}

	writeJSON(w, http.StatusOK, resp)
}
