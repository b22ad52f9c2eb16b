package categorize

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/domain"
)

// PatternRepository is the backing store for learned patterns. The engine
// loads once at construction and writes through on every change; a failed
// save or delete is logged and dropped, so callers must not assume learning
// is durable.
type PatternRepository interface {
	Load(ctx context.Context, minConfidence float64) ([]domain.LearnedPattern, error)
	Save(ctx context.Context, p domain.LearnedPattern) error
	Delete(ctx context.Context, pattern, category, subcategory string) error
}

const (
	// learnedMatchFloor is the minimum confidence a positive pattern needs
	// before the categorizer will use it.
	learnedMatchFloor = 0.5
	// initialConfidence is assigned when feedback creates a new pattern.
	initialConfidence = 0.5
	reinforceStep     = 0.1
	maxConfidence     = 1.0
	weakenStep        = 0.15
	weakenFloor       = 0.1
	// pruneBelow drops a weakened pattern entirely.
	pruneBelow = 0.3

	decayFactor = 0.95
	decayIdle   = 30 * 24 * time.Hour
)

// LearningEngine holds the in-process learned-pattern cache, keyed by the
// composite pattern|category|subcategory key. It is the only shared mutable
// state in the pipeline; a read-mostly RWMutex is sufficient at this scale.
type LearningEngine struct {
	mu       sync.RWMutex
	patterns map[string]*domain.LearnedPattern
	repo     PatternRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewLearningEngine creates the engine and loads the pattern cache from the
// repository. A load failure leaves the engine empty but functional.
func NewLearningEngine(ctx context.Context, repo PatternRepository, log zerolog.Logger) *LearningEngine {
	e := &LearningEngine{
		patterns: make(map[string]*domain.LearnedPattern),
		repo:     repo,
		log:      log,
		now:      time.Now,
	}

	if repo != nil {
		pats, err := repo.Load(ctx, 0)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load learned patterns; starting with empty cache")
			return e
		}
		for _, p := range pats {
			cp := p
			e.patterns[p.Key()] = &cp
		}
		log.Info().Int("patterns", len(pats)).Msg("Learned patterns loaded")
	}

	return e
}

// Lookup returns the highest-confidence positive pattern matching the
// lowercased description, provided it clears the match floor and no negative
// pattern suppresses the same (pattern, category) pair.
func (e *LearningEngine) Lookup(description string) (domain.LearnedPattern, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var best *domain.LearnedPattern
	for _, p := range e.patterns {
		if p.Kind != domain.PatternPositive || p.Confidence < learnedMatchFloor {
			continue
		}
		if !containsPattern(description, p.Pattern) {
			continue
		}
		if e.suppressedLocked(p.Pattern, p.Category) {
			continue
		}
		if best == nil || p.Confidence > best.Confidence {
			best = p
		}
	}
	if best == nil {
		return domain.LearnedPattern{}, false
	}
	return *best, true
}

// suppressedLocked reports whether a negative pattern exists for the
// (pattern, category) pair. Callers must hold at least a read lock.
func (e *LearningEngine) suppressedLocked(pattern, category string) bool {
	for _, q := range e.patterns {
		if q.Kind == domain.PatternNegative && q.Pattern == pattern && q.Category == category {
			return true
		}
	}
	return false
}

// LearnFromFeedback reinforces the (pattern, category, subcategory) triples
// extracted from a description the user confirmed.
func (e *LearningEngine) LearnFromFeedback(ctx context.Context, description, category, subcategory string) {
	for _, pat := range extractPatterns(description) {
		e.reinforce(ctx, pat, category, subcategory)
	}
}

// LearnFromNegativeFeedback adjusts patterns after the user picked
// selectedDesc over a wrong suggestion for deselectedDesc within the same
// category. Patterns shared by both descriptions are weakened, patterns
// unique to the correct one are reinforced, and patterns unique to the wrong
// one become explicit negative patterns for the category.
func (e *LearningEngine) LearnFromNegativeFeedback(ctx context.Context, selectedDesc, deselectedDesc, category, subcategory string) {
	selected := toSet(extractPatterns(selectedDesc))
	deselected := toSet(extractPatterns(deselectedDesc))

	for pat := range selected {
		if deselected[pat] {
			e.weaken(ctx, pat, category, subcategory)
		} else {
			e.reinforce(ctx, pat, category, subcategory)
		}
	}
	for pat := range deselected {
		if !selected[pat] {
			e.storeNegative(ctx, pat, category, subcategory)
		}
	}
}

func (e *LearningEngine) reinforce(ctx context.Context, pattern, category, subcategory string) {
	e.mu.Lock()
	key := (domain.LearnedPattern{Pattern: pattern, Category: category, Subcategory: subcategory}).Key()
	p, ok := e.patterns[key]
	if !ok {
		p = &domain.LearnedPattern{
			Pattern:     pattern,
			Category:    category,
			Subcategory: subcategory,
			Kind:        domain.PatternPositive,
			Confidence:  initialConfidence,
		}
		e.patterns[key] = p
	} else {
		p.Confidence += reinforceStep
		if p.Confidence > maxConfidence {
			p.Confidence = maxConfidence
		}
	}
	p.Occurrences++
	p.LastSeen = e.now()
	saved := *p
	e.mu.Unlock()

	e.persist(ctx, saved)
}

func (e *LearningEngine) weaken(ctx context.Context, pattern, category, subcategory string) {
	e.mu.Lock()
	key := (domain.LearnedPattern{Pattern: pattern, Category: category, Subcategory: subcategory}).Key()
	p, ok := e.patterns[key]
	if !ok {
		e.mu.Unlock()
		return
	}
	p.Confidence -= weakenStep
	if p.Confidence < weakenFloor {
		p.Confidence = weakenFloor
	}
	if p.Confidence < pruneBelow {
		delete(e.patterns, key)
		e.mu.Unlock()
		e.remove(ctx, pattern, category, subcategory)
		return
	}
	saved := *p
	e.mu.Unlock()

	e.persist(ctx, saved)
}

func (e *LearningEngine) storeNegative(ctx context.Context, pattern, category, subcategory string) {
	e.mu.Lock()
	key := (domain.LearnedPattern{Pattern: pattern, Category: category, Subcategory: subcategory}).Key()
	p := &domain.LearnedPattern{
		Pattern:     pattern,
		Category:    category,
		Subcategory: subcategory,
		Kind:        domain.PatternNegative,
		Confidence:  -initialConfidence,
		Occurrences: 1,
		LastSeen:    e.now(),
	}
	if prev, ok := e.patterns[key]; ok {
		p.Occurrences = prev.Occurrences + 1
		if prev.Confidence < 0 {
			p.Confidence = prev.Confidence
		}
	}
	e.patterns[key] = p
	saved := *p
	e.mu.Unlock()

	e.persist(ctx, saved)
}

// Decay ages positive patterns that have not been seen for a while and
// prunes those that fall below the keep threshold. Run periodically.
func (e *LearningEngine) Decay(ctx context.Context) {
	cutoff := e.now().Add(-decayIdle)

	e.mu.Lock()
	var changed []domain.LearnedPattern
	var dropped []domain.LearnedPattern
	for key, p := range e.patterns {
		if p.Kind != domain.PatternPositive || !p.LastSeen.Before(cutoff) {
			continue
		}
		p.Confidence *= decayFactor
		if p.Confidence < pruneBelow {
			delete(e.patterns, key)
			dropped = append(dropped, *p)
			continue
		}
		changed = append(changed, *p)
	}
	e.mu.Unlock()

	for _, p := range changed {
		e.persist(ctx, p)
	}
	for _, p := range dropped {
		e.remove(ctx, p.Pattern, p.Category, p.Subcategory)
	}
	if len(changed)+len(dropped) > 0 {
		e.log.Info().Int("decayed", len(changed)).Int("pruned", len(dropped)).Msg("Pattern decay pass complete")
	}
}

// Snapshot returns a copy of the current pattern cache.
func (e *LearningEngine) Snapshot() []domain.LearnedPattern {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.LearnedPattern, 0, len(e.patterns))
	for _, p := range e.patterns {
		out = append(out, *p)
	}
	return out
}

// persist writes a pattern through to the repository. Failures are logged
// and dropped; the in-memory state proceeds stale-but-functional.
func (e *LearningEngine) persist(ctx context.Context, p domain.LearnedPattern) {
	if e.repo == nil {
		return
	}
	if err := e.repo.Save(ctx, p); err != nil {
		e.log.Warn().Err(err).Str("pattern", p.Pattern).Str("category", p.Category).Msg("Failed to save learned pattern")
	}
}

func (e *LearningEngine) remove(ctx context.Context, pattern, category, subcategory string) {
	if e.repo == nil {
		return
	}
	if err := e.repo.Delete(ctx, pattern, category, subcategory); err != nil {
		e.log.Warn().Err(err).Str("pattern", pattern).Str("category", category).Msg("Failed to delete learned pattern")
	}
}

// containsPattern matches a stored (lowercase) pattern against a description.
func containsPattern(description, pattern string) bool {
	if pattern == "" {
		return false
	}
	return strings.Contains(strings.ToLower(description), pattern)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
