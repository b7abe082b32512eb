package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/livescores/internal/config"
)

const marketsBody = `{"markets":[
	{"id":"m1","title":"MLB","secondaryTitle":"Dodgers vs. Giants","categories":["Baseball"],"marketVolume":100},
	{"id":"m2","title":"Dormant","secondaryTitle":"Cubs vs. Mets","categories":["Baseball"],"marketVolume":0}
]}`

const mlbBody = `{"events":[
	{"id":"1","status":{"type":{"name":"STATUS_IN_PROGRESS","detail":"Bottom 6th"},"period":6},
	 "competitions":[{"competitors":[
		{"homeAway":"home","team":{"name":"Giants"},"score":"4"},
		{"homeAway":"away","team":{"name":"Dodgers"},"score":"3"}]}]},
	{"id":"2","status":{"type":{"name":"STATUS_IN_PROGRESS","detail":"Top 2nd"},"period":2},
	 "competitions":[{"competitors":[
		{"homeAway":"home","team":{"name":"Mets"},"score":"0"},
		{"homeAway":"away","team":{"name":"Phillies"},"score":"1"}]}]}
]}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func upstreams(t *testing.T) (markets, scores *httptest.Server) {
	t.Helper()
	markets = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("activeOnly"))
		w.Write([]byte(marketsBody))
	}))
	scores = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/baseball/mlb") {
			w.Write([]byte(mlbBody))
			return
		}
		w.Write([]byte(`{"events":[]}`))
	}))
	t.Cleanup(markets.Close)
	t.Cleanup(scores.Close)
	return markets, scores
}

func TestOnceModeEndToEnd(t *testing.T) {
	markets, scores := upstreams(t)

	cfg := config.Defaults()
	cfg.Mode = "once"
	cfg.AlphaArcade.MarketsURL = markets.URL
	cfg.ESPN.BaseURL = scores.URL
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	a := New(&cfg, testLogger())
	a.out = &out
	defer a.Close()

	require.NoError(t, a.Run(t.Context()))

	var result struct {
		Games []struct {
			ID          string `json:"id"`
			HomeTeam    string `json:"homeTeam"`
			InningState string `json:"inningState"`
		} `json:"games"`
		Count   int    `json:"count"`
		CycleID string `json:"cycle_id"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Games, 1)
	assert.Equal(t, "1", result.Games[0].ID)
	assert.Equal(t, "Giants", result.Games[0].HomeTeam)
	assert.Equal(t, "Bottom", result.Games[0].InningState)
	assert.NotEmpty(t, result.CycleID)
}

func TestOnceModeUpstreamDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	cfg := config.Defaults()
	cfg.Mode = "once"
	cfg.AlphaArcade.MarketsURL = down.URL
	cfg.ESPN.BaseURL = down.URL

	a := New(&cfg, testLogger())
	a.out = io.Discard
	defer a.Close()

	assert.Error(t, a.Run(t.Context()))
}

func TestWireWithoutRedis(t *testing.T) {
	cfg := config.Defaults()

	deps, cleanup, err := Wire(t.Context(), &cfg, testLogger())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, deps.Markets)
	assert.NotNil(t, deps.Scores)
	assert.NotNil(t, deps.LiveGames)
	assert.Nil(t, deps.RateLimiter)
	assert.False(t, deps.Notifier.Enabled())
	assert.Nil(t, deps.LiveGames.Snapshot())
}

func TestRunUnsupportedMode(t *testing.T) {
	cfg := config.Defaults()
	cfg.Mode = "trade"

	a := New(&cfg, testLogger())
	defer a.Close()
	assert.ErrorContains(t, a.Run(t.Context()), "unsupported mode")
}
