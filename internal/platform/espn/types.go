package espn

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Scoreboard is one sport's scoreboard response. Events stay raw so each can
// be decoded, and rejected, on its own.
type Scoreboard struct {
	Events []json.RawMessage `json:"events"`
}

// APIEvent is the subset of a scoreboard event the service reads.
type APIEvent struct {
	ID           flexString       `json:"id"`
	Status       APIStatus        `json:"status"`
	Competitions []APICompetition `json:"competitions"`
}

// APIStatus carries the game clock and state.
type APIStatus struct {
	Type         APIStatusType `json:"type"`
	Period       flexInt       `json:"period"`
	DisplayClock string        `json:"displayClock"`
}

// APIStatusType names the state, e.g. "STATUS_IN_PROGRESS", and a human
// readable detail such as "Top 7th".
type APIStatusType struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// APICompetition lists the two competitors of an event.
type APICompetition struct {
	Competitors []APICompetitor `json:"competitors"`
}

// APICompetitor is one side of a competition.
type APICompetitor struct {
	HomeAway string   `json:"homeAway"` // "home" or "away"
	Team     APITeam  `json:"team"`
	Score    rawScore `json:"score"`
}

// APITeam identifies a competitor's team.
type APITeam struct {
	Name string `json:"name"`
}

// DecodeEvent decodes a single raw scoreboard event.
func DecodeEvent(raw json.RawMessage) (APIEvent, error) {
	var ev APIEvent
	err := json.Unmarshal(raw, &ev)
	return ev, err
}

// Competitor returns the competitor of the first competition whose homeAway
// discriminator equals side.
func (e *APIEvent) Competitor(side string) (APICompetitor, bool) {
	if len(e.Competitions) == 0 {
		return APICompetitor{}, false
	}
	for _, c := range e.Competitions[0].Competitors {
		if c.HomeAway == side {
			return c, true
		}
	}
	return APICompetitor{}, false
}

// rawScore keeps the upstream score untouched; ESPN encodes it as a string on
// scoreboards but other shapes occur.
type rawScore json.RawMessage

func (r *rawScore) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// Text returns the score as text: the string itself, the literal number, or ""
// for anything else.
func (r rawScore) Text() string {
	data := bytes.TrimSpace(r)
	if len(data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return n.String()
	}
	return ""
}

// flexString unmarshals from a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt unmarshals from a JSON number or numeric string; anything else
// leaves zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if v, err := n.Int64(); err == nil {
			*f = flexInt(v)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.Atoi(s); err == nil {
			*f = flexInt(v)
		}
	}
	return nil
}
