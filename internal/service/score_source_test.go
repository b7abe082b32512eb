package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/livescores/internal/domain"
	"github.com/alanyoungcy/livescores/internal/platform/espn"
)

type fakeScoreboards struct {
	events map[string][]string
	errs   map[string]error
}

func (f *fakeScoreboards) FetchScoreboard(_ context.Context, path string) (espn.Scoreboard, error) {
	if err := f.errs[path]; err != nil {
		return espn.Scoreboard{}, err
	}
	sb := espn.Scoreboard{Events: []json.RawMessage{}}
	for _, ev := range f.events[path] {
		sb.Events = append(sb.Events, json.RawMessage(ev))
	}
	return sb, nil
}

func eventJSON(id, home, away, homeScore, awayScore, detail string) string {
	return fmt.Sprintf(`{"id":%q,"status":{"type":{"name":"STATUS_IN_PROGRESS","detail":%q},"period":5,"displayClock":"0:00"},
		"competitions":[{"competitors":[
			{"homeAway":"home","team":{"name":%q},"score":%q},
			{"homeAway":"away","team":{"name":%q},"score":%q}]}]}`,
		id, detail, home, homeScore, away, awayScore)
}

func TestGetAllScoresSkipsFailedSport(t *testing.T) {
	f := &fakeScoreboards{
		events: map[string][]string{
			domain.SportMLB.ScoreboardPath(): {eventJSON("1", "Dodgers", "Giants", "3", "2", "Top 5th")},
			domain.SportNFL.ScoreboardPath(): {eventJSON("2", "Chiefs", "Bills", "14", "10", "Q2")},
			domain.SportNHL.ScoreboardPath(): {eventJSON("3", "Bruins", "Rangers", "1", "1", "2nd")},
		},
		errs: map[string]error{
			domain.SportNBA.ScoreboardPath(): domain.ErrUpstream,
		},
	}
	s := NewScoreSource(f, nil, testLogger())

	games, err := s.GetAllScores(t.Context())
	require.NoError(t, err)
	require.Len(t, games, 3)

	assert.Equal(t, domain.SportMLB, games[0].Sport)
	assert.Equal(t, domain.SportNFL, games[1].Sport)
	assert.Equal(t, domain.SportNHL, games[2].Sport)
	for _, g := range games {
		assert.NotEqual(t, domain.SportNBA, g.Sport)
	}

	_, ok := s.LastGood(domain.SportNBA)
	assert.False(t, ok)
	mlb, ok := s.LastGood(domain.SportMLB)
	require.True(t, ok)
	assert.Len(t, mlb, 1)
}

func TestGetAllScoresAllFailed(t *testing.T) {
	errs := map[string]error{}
	for _, sp := range domain.AllSports {
		errs[sp.ScoreboardPath()] = domain.ErrUpstream
	}
	s := NewScoreSource(&fakeScoreboards{errs: errs}, nil, testLogger())

	games, err := s.GetAllScores(t.Context())
	assert.Nil(t, games)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestGetAllScoresAllFailedServesLastGood(t *testing.T) {
	f := &fakeScoreboards{events: map[string][]string{
		domain.SportMLB.ScoreboardPath(): {eventJSON("1", "Dodgers", "Giants", "3", "2", "Top 5th")},
		domain.SportNHL.ScoreboardPath(): {eventJSON("2", "Bruins", "Rangers", "1", "0", "2nd")},
	}}
	s := NewScoreSource(f, nil, testLogger())

	first, err := s.GetAllScores(t.Context())
	require.NoError(t, err)
	require.Len(t, first, 2)

	f.errs = map[string]error{}
	for _, sp := range domain.AllSports {
		f.errs[sp.ScoreboardPath()] = domain.ErrUpstream
	}

	games, err := s.GetAllScores(t.Context())
	require.NoError(t, err)
	assert.Equal(t, first, games)
}

func TestGetAllScoresNoGames(t *testing.T) {
	s := NewScoreSource(&fakeScoreboards{}, []domain.Sport{domain.SportNBA}, testLogger())

	games, err := s.GetAllScores(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games)
}

func TestFetchSportMapping(t *testing.T) {
	mlb := domain.SportMLB.ScoreboardPath()
	f := &fakeScoreboards{events: map[string][]string{
		mlb: {
			eventJSON("top", "Dodgers", "Giants", "3", "2", "Top 5th"),
			eventJSON("bottom", "Yankees", "Red Sox", "0", "7", "Bottom 9th"),
			eventJSON("final", "Cubs", "Mets", "4", "1", "Final"),
			eventJSON("garbage", "Padres", "Rockies", "N/A", "0", "Top 1st"),
			`{"id":"nohome","status":{},"competitions":[{"competitors":[
				{"team":{"name":"A"},"score":"1"},
				{"homeAway":"away","team":{"name":"B"},"score":"2"}]}]}`,
			`not json`,
		},
	}}
	s := NewScoreSource(f, []domain.Sport{domain.SportMLB}, testLogger())

	games, err := s.FetchSport(t.Context(), domain.SportMLB)
	require.NoError(t, err)
	require.Len(t, games, 4)

	assert.Equal(t, domain.GameRecord{
		ID:            "top",
		Sport:         domain.SportMLB,
		HomeTeam:      "Dodgers",
		AwayTeam:      "Giants",
		HomeScore:     3,
		AwayScore:     2,
		Status:        "STATUS_IN_PROGRESS",
		Period:        5,
		TimeRemaining: "0:00",
		InningState:   domain.InningTop,
	}, games[0])

	assert.Equal(t, domain.InningBottom, games[1].InningState)
	assert.Equal(t, "", games[2].InningState)

	assert.Equal(t, domain.ScoreUnknown, games[3].HomeScore)
	assert.Equal(t, domain.Score(0), games[3].AwayScore)
	assert.True(t, games[3].AwayScore.Known())
}

func TestFetchSportNoInningOutsideBaseball(t *testing.T) {
	nba := domain.SportNBA.ScoreboardPath()
	f := &fakeScoreboards{events: map[string][]string{
		nba: {eventJSON("1", "Lakers", "Celtics", "88", "91", "Top of the key")},
	}}
	s := NewScoreSource(f, nil, testLogger())

	games, err := s.FetchSport(t.Context(), domain.SportNBA)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Empty(t, games[0].InningState)
}

func TestFetchSportUnknown(t *testing.T) {
	s := NewScoreSource(&fakeScoreboards{}, nil, testLogger())

	_, err := s.FetchSport(t.Context(), domain.Sport("CRICKET"))
	assert.Error(t, err)
}

func TestInningState(t *testing.T) {
	tests := []struct {
		detail string
		want   string
	}{
		{"Top 5th", domain.InningTop},
		{"Bottom 9th", domain.InningBottom},
		{"Mid 3rd", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.detail, func(t *testing.T) {
			assert.Equal(t, tt.want, inningState(tt.detail))
		})
	}
}
