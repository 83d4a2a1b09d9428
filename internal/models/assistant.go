package models

// Suggestion is the display projection of a Product rendered as a recommendation card.
type Suggestion struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	Price            float64 `json:"price"`
	Image            string  `json:"image"`
	Source           string  `json:"source"`
	Reason           string  `json:"reason"`
}

type AssistantResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	NextActions []string     `json:"next_actions"`
	Confidence  float64      `json:"confidence"`
}

// MessageResult is what a single chat message turns into.
type MessageResult struct {
	Reply       string            `json:"reply"`
	Intent      string            `json:"intent"`
	Suggestions AssistantResponse `json:"suggestions"`
}
