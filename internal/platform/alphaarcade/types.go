package alphaarcade

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/alanyoungcy/livescores/internal/domain"
)

// marketsEnvelope is the top-level get-markets response. Entries are kept raw
// so one malformed market does not fail the whole page.
type marketsEnvelope struct {
	Markets []json.RawMessage `json:"markets"`
}

// APIMarket is a market as returned by the Alpha Arcade get-markets endpoint.
type APIMarket struct {
	ID             flexString `json:"id"`
	Title          string     `json:"title"`
	SecondaryTitle *string    `json:"secondaryTitle"`
	Categories     []string   `json:"categories"`
	EndTs          flexInt    `json:"endTs"`
	Label          string     `json:"label"`
	MarketAppID    flexInt    `json:"marketAppId"`
	YesProb        flexFloat  `json:"yesProb"`
	NoProb         flexFloat  `json:"noProb"`
	MarketVolume   flexFloat  `json:"marketVolume"`
}

var errMissingID = errors.New("market has no id")

// ToDomainMarket converts the DTO into a domain.Market. Only a missing id is
// fatal; every other field falls back to its zero value.
func (m *APIMarket) ToDomainMarket() (domain.Market, error) {
	id := strings.TrimSpace(string(m.ID))
	if id == "" {
		return domain.Market{}, errMissingID
	}
	return domain.Market{
		ID:             id,
		Title:          m.Title,
		SecondaryTitle: m.SecondaryTitle,
		Categories:     m.Categories,
		MarketVolume:   float64(m.MarketVolume),
		EndTs:          int64(m.EndTs),
		Label:          m.Label,
		MarketAppID:    int64(m.MarketAppID),
		YesProb:        float64(m.YesProb),
		NoProb:         float64(m.NoProb),
	}, nil
}

// flexString unmarshals from a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*f = ""
		return nil
	}
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

// flexFloat unmarshals from a JSON number or a numeric string ("12.5").
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*f = 0
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = flexFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexInt unmarshals from a JSON number (integral or not) or a numeric string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var v flexFloat
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexInt(int64(v))
	return nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
