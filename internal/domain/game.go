package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Sport identifies one of the scoreboard feeds the service polls.
type Sport string

const (
	SportMLB Sport = "MLB"
	SportNBA Sport = "NBA"
	SportNFL Sport = "NFL"
	SportNHL Sport = "NHL"
)

// AllSports lists the supported sports in fetch/concatenation order.
var AllSports = []Sport{SportMLB, SportNBA, SportNFL, SportNHL}

var sportPaths = map[Sport]string{
	SportMLB: "/baseball/mlb/scoreboard",
	SportNBA: "/basketball/nba/scoreboard",
	SportNFL: "/football/nfl/scoreboard",
	SportNHL: "/hockey/nhl/scoreboard",
}

// ScoreboardPath returns the scoreboard path suffix for the sport, or "" for
// an unknown sport.
func (s Sport) ScoreboardPath() string {
	return sportPaths[s]
}

// Valid reports whether s is one of the supported sports.
func (s Sport) Valid() bool {
	_, ok := sportPaths[s]
	return ok
}

// ParseSport converts a case-insensitive name such as "nba" into a Sport.
func ParseSport(name string) (Sport, bool) {
	s := Sport(strings.ToUpper(strings.TrimSpace(name)))
	return s, s.Valid()
}

// Inning halves reported for baseball games.
const (
	InningTop    = "Top"
	InningBottom = "Bottom"
)

// Score is a team's point total. ScoreUnknown marks an upstream value that
// could not be parsed and must be shown as unknown, not as zero.
type Score int

// ScoreUnknown is the sentinel for an unparseable score.
const ScoreUnknown Score = -1

// ParseScore converts the upstream text score. Anything that is not a
// non-negative integer yields ScoreUnknown.
func ParseScore(raw string) Score {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return ScoreUnknown
	}
	return Score(n)
}

// Known reports whether the score holds a real value.
func (s Score) Known() bool {
	return s >= 0
}

// MarshalJSON renders unknown scores as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Known() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(s))), nil
}

// UnmarshalJSON accepts an integer or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ScoreUnknown
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = Score(n)
	return nil
}

// GameRecord is one sporting event normalised from a sport's scoreboard feed.
// ID is only unique within one sport's feed; use Key for cross-sport identity.
type GameRecord struct {
	ID            string `json:"id"`
	Sport         Sport  `json:"sport"`
	HomeTeam      string `json:"homeTeam"`
	AwayTeam      string `json:"awayTeam"`
	HomeScore     Score  `json:"homeScore"`
	AwayScore     Score  `json:"awayScore"`
	Status        string `json:"status"`
	Period        int    `json:"period"`
	TimeRemaining string `json:"timeRemaining"`
	InningState   string `json:"inningState,omitempty"`
}

// Key returns the composite "<sport>:<id>" identity.
func (g GameRecord) Key() string {
	return string(g.Sport) + ":" + g.ID
}

// LiveGamesSnapshot is an immutable, correlated game list. A new snapshot
// replaces the previous one wholesale; it is never modified after creation.
type LiveGamesSnapshot struct {
	Games       []GameRecord `json:"games"`
	RefreshedAt time.Time    `json:"refreshed_at"`
	CycleID     string       `json:"cycle_id"`
}
