// Package assistant turns a shopper's chat message into a reply and up to
// three product suggestions drawn from the session's catalog snapshot.
package assistant

import "strings"

type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentSearch       Intent = "search"
	IntentCategory     Intent = "category"
	IntentHelp         Intent = "help"
	IntentPriceInquiry Intent = "price_inquiry"
	IntentGeneral      Intent = "general"
)

// IntentRule matches when the message contains any of Patterns.
type IntentRule struct {
	Intent   Intent
	Patterns []string
}

func (r IntentRule) Matches(normalized string) bool {
	for _, p := range r.Patterns {
		if strings.Contains(normalized, p) {
			return true
		}
	}
	return false
}

// DefaultRules are evaluated top to bottom; the first match wins. A message
// such as "hi, show me men's electronics" is therefore a greeting.
func DefaultRules() []IntentRule {
	return []IntentRule{
		{Intent: IntentGreeting, Patterns: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}},
		{Intent: IntentSearch, Patterns: []string{"looking for", "need", "want to buy", "show me", "find"}},
		{Intent: IntentCategory, Patterns: []string{"electronics", "clothing", "jewelry", "men", "women"}},
		{Intent: IntentHelp, Patterns: []string{"help", "assist", "guide", "how", "what can you do"}},
		{Intent: IntentPriceInquiry, Patterns: []string{"cheap", "expensive", "under", "budget", "price", "cost", "$"}},
	}
}

type Classifier struct {
	rules    []IntentRule
	fallback Intent
}

func NewClassifier(rules []IntentRule) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules, fallback: IntentGeneral}
}

// Classify expects a lower-cased, trimmed message.
func (c *Classifier) Classify(normalized string) Intent {
	for _, rule := range c.rules {
		if rule.Matches(normalized) {
			return rule.Intent
		}
	}
	return c.fallback
}

// Normalize lower-cases and trims a raw message.
func Normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}
