// Package categorize maps raw transaction descriptions to categories using
// an ordered keyword rule table, with an optional learned-pattern overlay
// adjusted by user feedback.
package categorize

import (
	"strings"
)

// Result is the outcome of categorizing a single description.
type Result struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Confidence  float64 `json:"confidence"`
}

// Categorizer resolves descriptions against the static rule table first and
// the learned-pattern overlay second. It is safe for concurrent use when the
// learning engine is (the rule table itself is immutable).
type Categorizer struct {
	rules    []Rule
	learning *LearningEngine
}

// New creates a Categorizer over the given ordered rules. learning may be
// nil, in which case only the static table is consulted.
func New(rules []Rule, learning *LearningEngine) *Categorizer {
	return &Categorizer{
		rules:    rules,
		learning: learning,
	}
}

// Categorize resolves a description to a category. Rules are scanned in
// declaration order; within a rule the first keyword substring match wins.
// If no static rule matches, the learned overlay is consulted; otherwise the
// default category is returned. The result is deterministic for a fixed
// rule table and pattern state.
func (c *Categorizer) Categorize(description string) Result {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return Result{Category: DefaultCategory, Subcategory: DefaultSubcategory, Confidence: defaultConfidence}
	}

	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return Result{Category: rule.Category, Subcategory: rule.Subcategory, Confidence: ruleMatchConfidence}
			}
		}
	}

	if c.learning != nil {
		if p, ok := c.learning.Lookup(desc); ok {
			return Result{Category: p.Category, Subcategory: p.Subcategory, Confidence: p.Confidence}
		}
	}

	return Result{Category: DefaultCategory, Subcategory: DefaultSubcategory, Confidence: defaultConfidence}
}
