package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestMarketExtractTeams(t *testing.T) {
	tests := []struct {
		name   string
		title  *string
		want   Teams
		wantOK bool
	}{
		{"two teams", strPtr("Yankees vs. Red Sox"), Teams{"Yankees", "Red Sox"}, true},
		{"trims whitespace", strPtr("  Yankees   vs.   Red Sox  "), Teams{"Yankees", "Red Sox"}, true},
		{"splits at first separator", strPtr("A vs. B vs. C"), Teams{"A", "B vs. C"}, true},
		{"at is not a separator", strPtr("Yankees at Red Sox"), Teams{}, false},
		{"separator is case sensitive", strPtr("Yankees VS. Red Sox"), Teams{}, false},
		{"dot is literal", strPtr("Yankees vsX Red Sox"), Teams{}, false},
		{"missing title", nil, Teams{}, false},
		{"empty title", strPtr(""), Teams{}, false},
		{"blank home side", strPtr("  vs. Red Sox"), Teams{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Market{SecondaryTitle: tt.title}.ExtractTeams()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSportsTaxonomyIsActiveSports(t *testing.T) {
	tax := DefaultSportsTaxonomy()

	tests := []struct {
		name   string
		market Market
		want   bool
	}{
		{"display category with volume", Market{Categories: []string{"Baseball"}, MarketVolume: 1}, true},
		{"prefix category", Market{Categories: []string{"SPORTS_NBA"}, MarketVolume: 10}, true},
		{"zero volume excluded", Market{Categories: []string{"Baseball"}, MarketVolume: 0}, false},
		{"negative volume excluded", Market{Categories: []string{"Hockey"}, MarketVolume: -3}, false},
		{"non sports category", Market{Categories: []string{"Politics"}, MarketVolume: 100}, false},
		{"one of many categories", Market{Categories: []string{"Politics", "Football"}, MarketVolume: 5}, true},
		{"no categories", Market{MarketVolume: 5}, false},
		{"case sensitive display category", Market{Categories: []string{"baseball"}, MarketVolume: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tax.IsActiveSports(tt.market))
		})
	}
}
