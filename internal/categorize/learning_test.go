package categorize

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/domain"
)

// mockPatternRepo implements PatternRepository with overridable functions.
type mockPatternRepo struct {
	LoadFunc   func(ctx context.Context, minConfidence float64) ([]domain.LearnedPattern, error)
	SaveFunc   func(ctx context.Context, p domain.LearnedPattern) error
	DeleteFunc func(ctx context.Context, pattern, category, subcategory string) error
}

func (m *mockPatternRepo) Load(ctx context.Context, minConfidence float64) ([]domain.LearnedPattern, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, minConfidence)
	}
	return nil, nil
}

func (m *mockPatternRepo) Save(ctx context.Context, p domain.LearnedPattern) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	return nil
}

func (m *mockPatternRepo) Delete(ctx context.Context, pattern, category, subcategory string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, pattern, category, subcategory)
	}
	return nil
}

func TestNewLearningEngine_LoadsPatterns(t *testing.T) {
	repo := &mockPatternRepo{
		LoadFunc: func(ctx context.Context, minConfidence float64) ([]domain.LearnedPattern, error) {
			return []domain.LearnedPattern{
				{Pattern: "heron", Category: "Shopping", Subcategory: "Home", Kind: domain.PatternPositive, Confidence: 0.8},
			}, nil
		},
	}

	engine := NewLearningEngine(context.Background(), repo, zerolog.Nop())

	p, ok := engine.Lookup("blue heron 8841")
	if !ok {
		t.Fatal("Expected loaded pattern to match")
	}
	if p.Category != "Shopping" || p.Confidence != 0.8 {
		t.Errorf("Unexpected pattern: %+v", p)
	}
}

func TestNewLearningEngine_LoadFailure(t *testing.T) {
	repo := &mockPatternRepo{
		LoadFunc: func(ctx context.Context, minConfidence float64) ([]domain.LearnedPattern, error) {
			return nil, errors.New("connection refused")
		},
	}

	engine := NewLearningEngine(context.Background(), repo, zerolog.Nop())

	// Engine stays usable with an empty cache.
	if _, ok := engine.Lookup("anything"); ok {
		t.Error("Expected empty cache after load failure")
	}
	engine.LearnFromFeedback(context.Background(), "ACME LLC 1", "Shopping", "Online")
	if _, ok := engine.Lookup("acme llc 2"); !ok {
		t.Error("Expected learning to work after load failure")
	}
}

func TestLearnFromFeedback_ConfidenceProgression(t *testing.T) {
	ctx := context.Background()
	var saves int
	repo := &mockPatternRepo{
		SaveFunc: func(ctx context.Context, p domain.LearnedPattern) error {
			saves++
			return nil
		},
	}
	engine := NewLearningEngine(ctx, repo, zerolog.Nop())

	engine.LearnFromFeedback(ctx, "BLUE HERON LLC 8841", "Shopping", "Home")

	p, ok := engine.Lookup("heron 11")
	if !ok {
		t.Fatal("Expected pattern after first feedback")
	}
	if p.Confidence != initialConfidence {
		t.Errorf("Expected initial confidence %v, got %v", initialConfidence, p.Confidence)
	}
	if saves == 0 {
		t.Error("Expected patterns to be written through to the repository")
	}

	engine.LearnFromFeedback(ctx, "BLUE HERON LLC 8841", "Shopping", "Home")

	p, _ = engine.Lookup("heron 11")
	want := initialConfidence + reinforceStep
	if math.Abs(p.Confidence-want) > 1e-9 {
		t.Errorf("Expected reinforced confidence %v, got %v", want, p.Confidence)
	}
	if p.Occurrences != 2 {
		t.Errorf("Expected 2 occurrences, got %d", p.Occurrences)
	}
}

func TestLearnFromFeedback_ConfidenceCapped(t *testing.T) {
	ctx := context.Background()
	engine := NewLearningEngine(ctx, nil, zerolog.Nop())

	for i := 0; i < 10; i++ {
		engine.LearnFromFeedback(ctx, "BLUE HERON LLC 8841", "Shopping", "Home")
	}

	p, _ := engine.Lookup("heron 11")
	if p.Confidence > maxConfidence {
		t.Errorf("Expected confidence capped at %v, got %v", maxConfidence, p.Confidence)
	}
}

func TestLearnFromNegativeFeedback(t *testing.T) {
	ctx := context.Background()
	engine := NewLearningEngine(ctx, nil, zerolog.Nop())

	// The user confirmed starbucks and rejected a dunkin suggestion that had
	// previously been learned for the same category.
	engine.LearnFromFeedback(ctx, "DUNKIN DONUTS 456", "Food & Dining", "Coffee & Tea")
	if _, ok := engine.Lookup("dunkin donuts 9"); !ok {
		t.Fatal("Expected dunkin to be learned before the negative event")
	}

	engine.LearnFromNegativeFeedback(ctx,
		"STARBUCKS ROASTERY 123", "DUNKIN DONUTS 456", "Food & Dining", "Coffee & Tea")

	if _, ok := engine.Lookup("dunkin donuts 9"); ok {
		t.Error("Expected dunkin suppressed by negative pattern")
	}
	if p, ok := engine.Lookup("starbucks roastery 9"); !ok || p.Category != "Food & Dining" {
		t.Error("Expected starbucks reinforced by negative event")
	}
}

func TestLearnFromNegativeFeedback_SharedPatternsWeakened(t *testing.T) {
	ctx := context.Background()
	engine := NewLearningEngine(ctx, nil, zerolog.Nop())

	// Both descriptions share every extracted pattern, so each one is
	// weakened rather than reinforced.
	engine.LearnFromFeedback(ctx, "BLUE HERON LLC 1", "Shopping", "Home")
	engine.LearnFromNegativeFeedback(ctx, "BLUE HERON LLC 1", "BLUE HERON LLC 2", "Shopping", "Home")

	// Weakened patterns drop under the match floor but stay in the cache.
	if _, ok := engine.Lookup("blue heron 9"); ok {
		t.Error("Expected weakened pattern to fall under the match floor")
	}
	want := initialConfidence - weakenStep
	for _, p := range engine.Snapshot() {
		if math.Abs(p.Confidence-want) > 1e-9 {
			t.Errorf("Expected weakened confidence %v for %q, got %v", want, p.Pattern, p.Confidence)
		}
	}
	if len(engine.Snapshot()) == 0 {
		t.Error("Expected weakened patterns to survive one weakening")
	}
}

func TestWeaken_PrunesBelowThreshold(t *testing.T) {
	ctx := context.Background()
	var deleted []string
	repo := &mockPatternRepo{
		DeleteFunc: func(ctx context.Context, pattern, category, subcategory string) error {
			deleted = append(deleted, pattern)
			return nil
		},
	}
	engine := NewLearningEngine(ctx, repo, zerolog.Nop())

	engine.LearnFromFeedback(ctx, "BLUE HERON LLC 1", "Shopping", "Home")

	// Two weakenings take 0.5 down through 0.35 to 0.2, under the prune
	// threshold.
	engine.LearnFromNegativeFeedback(ctx, "BLUE HERON LLC 1", "BLUE HERON LLC 2", "Shopping", "Home")
	engine.LearnFromNegativeFeedback(ctx, "BLUE HERON LLC 1", "BLUE HERON LLC 2", "Shopping", "Home")

	if _, ok := engine.Lookup("blue heron 9"); ok {
		t.Error("Expected pruned pattern to stop matching")
	}
	if len(deleted) == 0 {
		t.Error("Expected pruned patterns to be deleted from the repository")
	}
}

func TestDecay(t *testing.T) {
	ctx := context.Background()
	engine := NewLearningEngine(ctx, nil, zerolog.Nop())

	engine.LearnFromFeedback(ctx, "BLUE HERON LLC 1", "Shopping", "Home")

	// Jump the clock past the idle window.
	engine.now = func() time.Time { return time.Now().Add(decayIdle + 24*time.Hour) }
	engine.Decay(ctx)

	snapshot := engine.Snapshot()
	if len(snapshot) == 0 {
		t.Fatal("Expected decayed patterns to survive a single pass")
	}
	want := initialConfidence * decayFactor
	for _, p := range snapshot {
		if math.Abs(p.Confidence-want) > 1e-9 {
			t.Errorf("Expected decayed confidence %v for %q, got %v", want, p.Pattern, p.Confidence)
		}
	}
}

func TestDecay_PrunesStalePatterns(t *testing.T) {
	ctx := context.Background()
	engine := NewLearningEngine(ctx, nil, zerolog.Nop())

	engine.LearnFromFeedback(ctx, "BLUE HERON LLC 1", "Shopping", "Home")

	engine.now = func() time.Time { return time.Now().Add(decayIdle + 24*time.Hour) }
	// Repeated passes without fresh sightings eventually prune the pattern.
	for i := 0; i < 12; i++ {
		engine.Decay(ctx)
	}

	if _, ok := engine.Lookup("heron 9"); ok {
		t.Error("Expected stale pattern to be pruned")
	}
	if n := len(engine.Snapshot()); n != 0 {
		t.Errorf("Expected empty cache, got %d patterns", n)
	}
}

func TestDecay_SkipsRecentPatterns(t *testing.T) {
	ctx := context.Background()
	engine := NewLearningEngine(ctx, nil, zerolog.Nop())

	engine.LearnFromFeedback(ctx, "BLUE HERON LLC 1", "Shopping", "Home")
	engine.Decay(ctx)

	p, ok := engine.Lookup("heron 9")
	if !ok {
		t.Fatal("Expected recent pattern to survive decay")
	}
	if p.Confidence != initialConfidence {
		t.Errorf("Expected untouched confidence %v, got %v", initialConfidence, p.Confidence)
	}
}
