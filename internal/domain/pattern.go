package domain

import (
	"time"
)

// PatternKind distinguishes patterns that suggest a category from patterns
// that actively suppress one.
type PatternKind string

const (
	// PatternPositive associates the pattern with a category suggestion.
	PatternPositive PatternKind = "positive"
	// PatternNegative suppresses the (pattern, category) association after
	// the user rejected a suggestion. Negative patterns carry a negative
	// confidence so a fresh positive signal has to climb back from below.
	PatternNegative PatternKind = "negative"
)

// LearnedPattern is a (substring, category) association whose confidence is
// adjusted by explicit user feedback rather than declared as a static rule.
type LearnedPattern struct {
	Pattern     string      `json:"pattern"`
	Category    string      `json:"category"`
	Subcategory string      `json:"subcategory"`
	Kind        PatternKind `json:"kind"`
	Confidence  float64     `json:"confidence"`
	Occurrences int         `json:"occurrences"`
	LastSeen    time.Time   `json:"last_seen"`
}

// Key returns the composite cache key for the pattern.
func (p LearnedPattern) Key() string {
	return p.Pattern + "|" + p.Category + "|" + p.Subcategory
}
