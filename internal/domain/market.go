package domain

import "strings"

// Market represents one Alpha Arcade prediction-market listing.
type Market struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	SecondaryTitle *string  `json:"secondaryTitle,omitempty"` // e.g. "Dodgers vs. Giants"
	Categories     []string `json:"categories"`
	MarketVolume   float64  `json:"marketVolume"`
	EndTs          int64    `json:"endTs"`
	Label          string   `json:"label,omitempty"`
	MarketAppID    int64    `json:"marketAppId,omitempty"`
	YesProb        float64  `json:"yesProb"`
	NoProb         float64  `json:"noProb"`
}

// Teams is the pair of team names parsed out of a market's secondary title.
type Teams struct {
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
}

// teamSeparator splits "<home> vs. <away>". The match is literal and
// case-sensitive.
const teamSeparator = " vs. "

// ExtractTeams parses the market's secondary title into a Teams pair. It
// reports false when the title is absent, lacks the separator, or either side
// is blank after trimming. None of those are errors.
func (m Market) ExtractTeams() (Teams, bool) {
	if m.SecondaryTitle == nil {
		return Teams{}, false
	}
	home, away, ok := strings.Cut(*m.SecondaryTitle, teamSeparator)
	if !ok {
		return Teams{}, false
	}
	home = strings.TrimSpace(home)
	away = strings.TrimSpace(away)
	if home == "" || away == "" {
		return Teams{}, false
	}
	return Teams{HomeTeam: home, AwayTeam: away}, true
}

// SportsTaxonomy decides which market categories count as sports.
type SportsTaxonomy struct {
	// Prefix matches machine categories such as "SPORTS_NBA".
	Prefix string
	// Categories are exact display categories such as "Baseball".
	Categories []string
}

// DefaultSportsTaxonomy mirrors the categories Alpha Arcade uses for the four
// supported leagues.
func DefaultSportsTaxonomy() SportsTaxonomy {
	return SportsTaxonomy{
		Prefix:     "SPORT",
		Categories: []string{"Baseball", "Basketball", "Football", "Hockey"},
	}
}

// Matches reports whether a single category belongs to the taxonomy.
func (t SportsTaxonomy) Matches(category string) bool {
	if t.Prefix != "" && strings.HasPrefix(category, t.Prefix) {
		return true
	}
	for _, c := range t.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsActiveSports reports whether the market has at least one sports category
// and non-zero volume.
func (t SportsTaxonomy) IsActiveSports(m Market) bool {
	if m.MarketVolume <= 0 {
		return false
	}
	for _, c := range m.Categories {
		if t.Matches(c) {
			return true
		}
	}
	return false
}
