package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSearchQuery(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"i am looking for a waterproof jacket", "waterproof jacket"},
		{"show me usb drives", "usb drives"},
		{"find   gold   rings", "gold rings"},
		{"i need to buy", FallbackSearchQuery},
		{"me to a an", FallbackSearchQuery},
		{"", FallbackSearchQuery},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := ExtractSearchQuery(tt.message)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestExtractSearchQuery_StopWordsCaseInsensitive(t *testing.T) {
	assert.Equal(t, "Lamp", ExtractSearchQuery("SHOW Me Lamp"))
}

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"electronics please", "electronics"},
		{"some clothes", "men's clothing"},
		{"clothing", "men's clothing"},
		{"jewelry", "jewelery"},
		{"for men", "men's clothing"},
		// "women" contains "men", which comes first in the table
		{"women", "men's clothing"},
		{"nothing relevant", DefaultCategory},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCategory(tt.message))
		})
	}
}

func TestExtractCategory_Total(t *testing.T) {
	canonical := map[string]bool{
		"electronics": true, "men's clothing": true, "jewelery": true, "women's clothing": true,
	}
	for _, msg := range []string{"", "xyz", "jewelry and electronics", "}{", "women's jewelry"} {
		assert.True(t, canonical[ExtractCategory(msg)], msg)
	}
}

func TestExtractPriceRange(t *testing.T) {
	tests := []struct {
		message string
		want    PriceRange
	}{
		{"under $75", PriceRange{Min: 0, Max: 75}},
		{"under 20 please", PriceRange{Min: 0, Max: 20}},
		{"cheap stuff", BudgetRange},
		{"on a budget", BudgetRange},
		{"premium gift", PremiumRange},
		{"expensive watch", PremiumRange},
		{"cheap but premium", BudgetRange},
		{"under a tenner", DefaultRange},
		{"what's the price", DefaultRange},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPriceRange(tt.message))
		})
	}
}

func TestExtract(t *testing.T) {
	q := Extract(IntentSearch, "find red shoes")
	assert.Equal(t, "red shoes", q.Search)

	q = Extract(IntentCategory, "jewelry")
	assert.Equal(t, "jewelery", q.Category)

	q = Extract(IntentPriceInquiry, "under $30")
	assert.Equal(t, PriceRange{Max: 30}, q.Price)

	q = Extract(IntentGeneral, "vintage")
	assert.Equal(t, "vintage", q.Search)
}
