// Package triage decides whether a health-chat turn must be treated as a
// medical emergency. The decision is made before any AI call and is never
// affected by AI failures.
package triage

import "strings"

// Classifier is the injectable escalation strategy. Implementations must be
// pure: same inputs, same answer, no side effects.
type Classifier interface {
	Classify(text string, nurseMode bool) bool
}

// DefaultKeywords is the fixed emergency term list matched case-insensitively
// as substrings. No stemming, no negation awareness; a turn mentioning any of
// these escalates.
var DefaultKeywords = []string{
	"emergency",
	"bleeding",
	"unconscious",
	"not breathing",
	"chest pain",
	"overdose",
	"suicide",
	"suicidal",
	"seizure",
	"severe pain",
	"miscarriage",
	"assault",
	"abuse",
	"help me",
	"dying",
}

// KeywordClassifier escalates when nurse mode is pinned or the lowercased
// message contains any configured keyword.
type KeywordClassifier struct {
	keywords []string
}

// NewKeywordClassifier builds a classifier over the given keyword list, or
// DefaultKeywords when the list is empty.
func NewKeywordClassifier(keywords []string) *KeywordClassifier {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	return &KeywordClassifier{keywords: keywords}
}

// Classify implements Classifier.
func (c *KeywordClassifier) Classify(text string, nurseMode bool) bool {
	if nurseMode {
		return true
	}
	lowered := strings.ToLower(text)
	for _, k := range c.keywords {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}
