package assistant

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"shopping-assistant/internal/models"
)

const shortDescriptionLimit = 100

// RandSource picks template variants. *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandSource is safe for concurrent use. A zero seed uses the clock.
func NewRandSource(seed int64) RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

type Formatter struct {
	rand   RandSource
	source string
}

func NewFormatter(r RandSource, source string) *Formatter {
	if r == nil {
		r = NewRandSource(0)
	}
	return &Formatter{rand: r, source: source}
}

// Format projects products into suggestions. contextLabel describes the
// selection ("popular items", "jewelery products", ...) and does not change the output.
func (f *Formatter) Format(products []models.Product, contextLabel string) models.AssistantResponse {
	suggestions := make([]models.Suggestion, 0, len(products))
	for _, p := range products {
		suggestions = append(suggestions, models.Suggestion{
			ID:               strconv.Itoa(p.ID),
			Title:            p.Title,
			ShortDescription: TruncateDescription(p.Description),
			Price:            models.RoundCents(p.Price),
			Image:            p.Image,
			Source:           f.source,
			Reason:           f.Reason(p),
		})
	}

	if len(suggestions) == 0 {
		return models.AssistantResponse{
			Suggestions: suggestions,
			NextActions: append([]string(nil), NoResultActions...),
			Confidence:  ConfidenceNoResults,
		}
	}
	return models.AssistantResponse{
		Suggestions: suggestions,
		NextActions: append([]string(nil), ResultActions...),
		Confidence:  ConfidenceWithResults,
	}
}

func (f *Formatter) Greeting() string {
	return greetings[f.rand.Intn(len(greetings))]
}

// Reason picks one of five rationale templates uniformly.
func (f *Formatter) Reason(p models.Product) string {
	switch f.rand.Intn(reasonTemplateCount) {
	case 0:
		return fmt.Sprintf("⭐ %s/5 rating with %d customer reviews", formatNumber(p.Rating.Rate), p.Rating.Count)
	case 1:
		return fmt.Sprintf("💰 Great value at $%s with excellent customer satisfaction", formatNumber(p.Price))
	case 2:
		return fmt.Sprintf("🏆 Top-rated in %s category", p.Category)
	case 3:
		return fmt.Sprintf("👥 Popular choice with %d+ happy customers", p.Rating.Count)
	default:
		return "✨ Highly recommended based on customer reviews"
	}
}

// Reply is the intent-specific sentence shown above the suggestions.
func (f *Formatter) Reply(q Query) string {
	switch q.Intent {
	case IntentGreeting:
		return f.Greeting()
	case IntentSearch:
		return fmt.Sprintf(searchReplyFormat, q.Search)
	case IntentCategory:
		return fmt.Sprintf(categoryReplyFormat, q.Category)
	case IntentHelp:
		return helpReply
	case IntentPriceInquiry:
		return priceReply
	default:
		return generalReply
	}
}

// TruncateDescription cuts to 100 characters and appends "..." only when something was cut.
func TruncateDescription(description string) string {
	if utf8.RuneCountInString(description) <= shortDescriptionLimit {
		return description
	}
	runes := []rune(description)
	return string(runes[:shortDescriptionLimit]) + "..."
}
