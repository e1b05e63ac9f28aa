package affection

import "strings"

// ──────────────────────────────────────────────
// Keyword classifier
// ──────────────────────────────────────────────

// Rand is the injected random source for sampled deltas. *math/rand.Rand
// satisfies it; tests substitute a fixed sequence for determinism.
type Rand interface {
	Intn(n int) int
}

// Classifier maps message text plus the current tier to a score delta and
// a category. It is a pure function of (text, tier, rule table, random
// source) and keeps no state of its own.
type Classifier struct {
	rules RuleTable
	rng   Rand
}

// NewClassifier creates a classifier over a validated rule table.
func NewClassifier(rules RuleTable, rng Rand) *Classifier {
	return &Classifier{rules: rules, rng: rng}
}

// Classify lowercases the text and evaluates the tier's rule list in
// order; the first matching rule wins. No rule match yields (0, neutral).
func (c *Classifier) Classify(text string, tier string) (int, Category) {
	lower := strings.ToLower(text)
	for _, rule := range c.rules.rulesFor(tier) {
		if !rule.matches(lower) {
			continue
		}
		return c.sample(rule.MinDelta, rule.MaxDelta), rule.Category
	}
	return 0, CategoryNeutral
}

// sample draws one integer uniformly from [lo, hi] inclusive.
func (c *Classifier) sample(lo, hi int) int {
	if lo == hi {
		return lo
	}
	return lo + c.rng.Intn(hi-lo+1)
}
