// Package correlate matches scoreboard games against prediction markets by
// team name. Every function here is pure.
package correlate

import (
	"strings"

	"github.com/alanyoungcy/livescores/internal/domain"
)

// FilterActiveSportsMarkets keeps the markets that belong to the sports
// taxonomy and have non-zero volume. Input order is preserved.
func FilterActiveSportsMarkets(markets []domain.Market, tax domain.SportsTaxonomy) []domain.Market {
	out := make([]domain.Market, 0, len(markets))
	for _, m := range markets {
		if tax.IsActiveSports(m) {
			out = append(out, m)
		}
	}
	return out
}

// MatchesAnyMarket reports whether both of some market's teams appear among
// the game's two teams. Home/away alignment is ignored and the comparison is
// case-insensitive. activeMarkets must already be filtered.
func MatchesAnyMarket(game domain.GameRecord, activeMarkets []domain.Market) bool {
	_, ok := MatchingMarket(game, activeMarkets)
	return ok
}

// MatchingMarket returns the first market that matches the game.
func MatchingMarket(game domain.GameRecord, activeMarkets []domain.Market) (domain.Market, bool) {
	for _, m := range activeMarkets {
		teams, ok := m.ExtractTeams()
		if !ok {
			continue
		}
		if teamsMatch(teams, game) {
			return m, true
		}
	}
	return domain.Market{}, false
}

// Correlate returns the games that have a matching active sports market, in
// their original order.
func Correlate(markets []domain.Market, games []domain.GameRecord, tax domain.SportsTaxonomy) []domain.GameRecord {
	active := FilterActiveSportsMarkets(markets, tax)

	out := make([]domain.GameRecord, 0, len(games))
	for _, g := range games {
		if MatchesAnyMarket(g, active) {
			out = append(out, g)
		}
	}
	return out
}

func teamsMatch(teams domain.Teams, game domain.GameRecord) bool {
	return onEitherSide(teams.HomeTeam, game) && onEitherSide(teams.AwayTeam, game)
}

func onEitherSide(team string, game domain.GameRecord) bool {
	return strings.EqualFold(team, game.HomeTeam) || strings.EqualFold(team, game.AwayTeam)
}
