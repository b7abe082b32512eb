package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/livescores/internal/domain"
)

func market(id, secondary string, volume float64, categories ...string) domain.Market {
	m := domain.Market{ID: id, Categories: categories, MarketVolume: volume}
	if secondary != "" {
		m.SecondaryTitle = &secondary
	}
	return m
}

func game(id, home, away string) domain.GameRecord {
	return domain.GameRecord{ID: id, Sport: domain.SportNBA, HomeTeam: home, AwayTeam: away}
}

func TestFilterActiveSportsMarkets(t *testing.T) {
	markets := []domain.Market{
		market("a", "", 0, "Baseball"),
		market("b", "", 1, "Baseball"),
		market("c", "", 50, "Politics"),
		market("d", "", 2, "SPORTS"),
		market("e", "", 3, "Crypto", "Hockey"),
	}

	got := FilterActiveSportsMarkets(markets, domain.DefaultSportsTaxonomy())

	ids := make([]string, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"b", "d", "e"}, ids)
}

func TestMatchesAnyMarket(t *testing.T) {
	active := []domain.Market{market("m1", "Celtics vs. Lakers", 10, "Basketball")}

	tests := []struct {
		name string
		game domain.GameRecord
		want bool
	}{
		{"reversed sides", game("1", "Lakers", "Celtics"), true},
		{"same sides", game("2", "Celtics", "Lakers"), true},
		{"case insensitive", game("3", "lakers", "CELTICS"), true},
		{"only one team present", game("4", "Lakers", "Knicks"), false},
		{"no team present", game("5", "Heat", "Knicks"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesAnyMarket(tt.game, active))
		})
	}
}

func TestMatchesAnyMarketSkipsUnparseableTitles(t *testing.T) {
	active := []domain.Market{
		market("m1", "Lakers at Celtics", 10, "Basketball"),
		market("m2", "", 10, "Basketball"),
	}
	assert.False(t, MatchesAnyMarket(game("1", "Lakers", "Celtics"), active))
}

func TestCorrelateEndToEnd(t *testing.T) {
	markets := []domain.Market{market("m1", "Dodgers vs. Giants", 100, "Baseball")}
	games := []domain.GameRecord{
		{ID: "1", Sport: domain.SportMLB, HomeTeam: "Giants", AwayTeam: "Dodgers", Status: "STATUS_IN_PROGRESS"},
		{ID: "2", Sport: domain.SportMLB, HomeTeam: "Mets", AwayTeam: "Phillies", Status: "STATUS_IN_PROGRESS"},
	}

	got := Correlate(markets, games, domain.DefaultSportsTaxonomy())

	require.Len(t, got, 1)
	assert.Equal(t, games[0], got[0])
}

func TestCorrelateIgnoresDormantAndNonSportsMarkets(t *testing.T) {
	markets := []domain.Market{
		market("dormant", "Dodgers vs. Giants", 0, "Baseball"),
		market("politics", "Mets vs. Phillies", 100, "Politics"),
	}
	games := []domain.GameRecord{game("1", "Giants", "Dodgers"), game("2", "Mets", "Phillies")}

	assert.Empty(t, Correlate(markets, games, domain.DefaultSportsTaxonomy()))
}

func TestCorrelatePreservesOrderWithoutDedup(t *testing.T) {
	markets := []domain.Market{
		market("m1", "A vs. B", 1, "Football"),
		market("m2", "C vs. D", 1, "Football"),
	}
	games := []domain.GameRecord{game("3", "D", "C"), game("1", "A", "B"), game("1", "A", "B")}

	got := Correlate(markets, games, domain.DefaultSportsTaxonomy())

	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "1", got[1].ID)
	assert.Equal(t, "1", got[2].ID)
}

func TestMatchingMarketReturnsFirstMatch(t *testing.T) {
	active := []domain.Market{
		market("m1", "Heat vs. Knicks", 5, "Basketball"),
		market("m2", "Lakers vs. Celtics", 5, "Basketball"),
		market("m3", "Celtics vs. Lakers", 5, "Basketball"),
	}

	m, ok := MatchingMarket(game("1", "Celtics", "Lakers"), active)
	require.True(t, ok)
	assert.Equal(t, "m2", m.ID)
}
