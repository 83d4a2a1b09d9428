package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	FallbackSearchQuery = "popular items"
	DefaultCategory     = "electronics"
)

var searchStopWords = map[string]struct{}{
	"i": {}, "am": {}, "looking": {}, "for": {}, "need": {}, "want": {},
	"to": {}, "buy": {}, "show": {}, "me": {}, "find": {},
}

// categoryAliases is ordered: the first key found in the message wins.
var categoryAliases = []struct {
	key      string
	category string
}{
	{"electronics", "electronics"},
	{"clothes", "men's clothing"},
	{"clothing", "men's clothing"},
	{"jewelry", "jewelery"},
	{"men", "men's clothing"},
	{"women", "women's clothing"},
}

var underPricePattern = regexp.MustCompile(`under\s*\$?(\d+)`)

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

var (
	BudgetRange  = PriceRange{Min: 0, Max: 50}
	PremiumRange = PriceRange{Min: 100, Max: 1000}
	DefaultRange = PriceRange{Min: 0, Max: 100}
)

// ExtractSearchQuery drops stop words and tokens of two characters or fewer.
// It never returns an empty string.
func ExtractSearchQuery(message string) string {
	var kept []string
	for _, word := range strings.Fields(message) {
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		if _, stop := searchStopWords[strings.ToLower(word)]; stop {
			continue
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return FallbackSearchQuery
	}
	return strings.Join(kept, " ")
}

// ExtractCategory maps the message to a catalog category name, defaulting to electronics.
func ExtractCategory(message string) string {
	for _, alias := range categoryAliases {
		if strings.Contains(message, alias.key) {
			return alias.category
		}
	}
	return DefaultCategory
}

func ExtractPriceRange(message string) PriceRange {
	switch {
	case strings.Contains(message, "cheap") || strings.Contains(message, "budget"):
		return BudgetRange
	case strings.Contains(message, "expensive") || strings.Contains(message, "premium"):
		return PremiumRange
	}

	if m := underPricePattern.FindStringSubmatch(message); m != nil {
		if upper, err := strconv.ParseFloat(m[1], 64); err == nil {
			return PriceRange{Min: 0, Max: upper}
		}
	}
	return DefaultRange
}

// Query is the intent plus whatever parameter that intent's strategy needs.
type Query struct {
	Intent   Intent
	Message  string
	Search   string
	Category string
	Price    PriceRange
}

// Extract runs the extractor that belongs to intent.
func Extract(intent Intent, normalized string) Query {
	q := Query{Intent: intent, Message: normalized}
	switch intent {
	case IntentSearch:
		q.Search = ExtractSearchQuery(normalized)
	case IntentCategory:
		q.Category = ExtractCategory(normalized)
	case IntentPriceInquiry:
		q.Price = ExtractPriceRange(normalized)
	case IntentGeneral:
		q.Search = normalized
	}
	return q
}
