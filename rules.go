package affection

import (
	"fmt"
	"strings"
)

// ──────────────────────────────────────────────
// Rule tables — ordered keyword rules, per tier
// ──────────────────────────────────────────────

// Category classifies the effect of one user message.
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNegative Category = "negative"
	CategoryNeutral  Category = "neutral"
)

// Rule is one classification rule: a substring predicate plus a delta
// range. Needs is a conjunction of alternative groups: the rule matches
// when every group contributes at least one substring hit, so
//
//	Needs: [][]string{{"your"}, {"opinion", "think", "feel"}}
//
// reads "contains 'your' AND one of opinion/think/feel". A fixed delta
// uses MinDelta == MaxDelta; otherwise the delta is drawn uniformly from
// the inclusive range.
type Rule struct {
	Name     string     `json:"name"`
	Needs    [][]string `json:"needs"`
	Category Category   `json:"category"`
	MinDelta int        `json:"min_delta"`
	MaxDelta int        `json:"max_delta"`
}

// matches evaluates the predicate against lowercased text.
func (r Rule) matches(lower string) bool {
	for _, group := range r.Needs {
		hit := false
		for _, kw := range group {
			if strings.Contains(lower, kw) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return len(r.Needs) > 0
}

// RuleTable holds the ordered rule lists. Rules for a tier are evaluated
// top to bottom and the first match wins; order is significant ("hi" is a
// greeting even when a later rule would also match). Tiers without an
// entry fall back to Fallback.
type RuleTable struct {
	ByTier   map[string][]Rule `json:"by_tier"`
	Fallback []Rule            `json:"fallback,omitempty"`
}

// rulesFor returns the ordered rule list for a tier.
func (t RuleTable) rulesFor(tier string) []Rule {
	if rules, ok := t.ByTier[tier]; ok {
		return rules
	}
	return t.Fallback
}

// Validate checks every rule for a usable predicate and delta range.
func (t RuleTable) Validate() error {
	check := func(where string, rules []Rule) error {
		for i, r := range rules {
			if r.Name == "" {
				return fmt.Errorf("%s rule %d has no name", where, i)
			}
			if len(r.Needs) == 0 {
				return fmt.Errorf("%s rule %q has no predicate", where, r.Name)
			}
			for _, group := range r.Needs {
				if len(group) == 0 {
					return fmt.Errorf("%s rule %q has an empty keyword group", where, r.Name)
				}
				for _, kw := range group {
					if kw == "" {
						return fmt.Errorf("%s rule %q has an empty keyword", where, r.Name)
					}
					if kw != strings.ToLower(kw) {
						return fmt.Errorf("%s rule %q keyword %q must be lowercase", where, r.Name, kw)
					}
				}
			}
			switch r.Category {
			case CategoryPositive, CategoryNegative, CategoryNeutral:
			default:
				return fmt.Errorf("%s rule %q has unknown category %q", where, r.Name, r.Category)
			}
			if r.MinDelta > r.MaxDelta {
				return fmt.Errorf("%s rule %q has empty delta range [%d,%d]",
					where, r.Name, r.MinDelta, r.MaxDelta)
			}
		}
		return nil
	}

	for tier, rules := range t.ByTier {
		if err := check("tier "+tier, rules); err != nil {
			return err
		}
	}
	return check("fallback", t.Fallback)
}

// ──────────────────────────────────────────────
// Built-in rules
// ──────────────────────────────────────────────

// Keyword groups shared across tiers. Deltas scale with tier: advanced
// tiers reward affectionate and creative content more and penalize crude
// content more harshly.
var (
	greetingWords   = []string{"hi", "hello", "hey", "good morning", "good evening"}
	insultWords     = []string{"stupid", "ugly", "hate you", "shut up", "boring", "annoying", "worthless"}
	crudeWords      = []string{"sexy", "nudes", "strip", "take it off"}
	complimentWords = []string{"beautiful", "pretty", "cute", "gorgeous", "stunning", "amazing"}
	affectionWords  = []string{"love you", "miss you", "adore you", "thinking of you", "care about you"}
	creativeWords   = []string{"wrote you", "poem", "song for you", "drew you", "made you something"}
	gratitudeWords  = []string{"thank you", "thanks", "appreciate you"}
)

// tierRuleSpec holds the per-tier delta ranges for one built-in rule.
type tierRuleSpec struct {
	name     string
	needs    [][]string
	category Category
	lo, hi   [5]int // delta range per tier, lowest tier first
}

// defaultRuleSpecs is the ordered built-in rule list. Greeting stays
// first: any message containing one of its keywords scores as a greeting
// even when a later rule would also match.
var defaultRuleSpecs = []tierRuleSpec{
	{
		name:     "greeting",
		needs:    [][]string{greetingWords},
		category: CategoryPositive,
		lo:       [5]int{1, 1, 1, 1, 1},
		hi:       [5]int{2, 2, 2, 3, 3},
	},
	{
		name:     "insult",
		needs:    [][]string{insultWords},
		category: CategoryNegative,
		lo:       [5]int{-2, -3, -4, -5, -6},
		hi:       [5]int{-1, -2, -2, -3, -4},
	},
	{
		name:     "crude",
		needs:    [][]string{crudeWords},
		category: CategoryNegative,
		lo:       [5]int{-2, -3, -4, -5, -7},
		hi:       [5]int{-1, -1, -2, -3, -5},
	},
	{
		name:     "affection",
		needs:    [][]string{affectionWords},
		category: CategoryPositive,
		lo:       [5]int{1, 2, 3, 4, 5},
		hi:       [5]int{2, 3, 5, 6, 8},
	},
	{
		name:     "creative",
		needs:    [][]string{creativeWords},
		category: CategoryPositive,
		lo:       [5]int{2, 3, 4, 5, 6},
		hi:       [5]int{3, 4, 6, 7, 9},
	},
	{
		name:     "compliment",
		needs:    [][]string{complimentWords},
		category: CategoryPositive,
		lo:       [5]int{2, 2, 3, 3, 4},
		hi:       [5]int{3, 3, 4, 5, 6},
	},
	{
		name:     "asks_opinion",
		needs:    [][]string{{"your"}, {"opinion", "think", "feel"}},
		category: CategoryPositive,
		lo:       [5]int{2, 2, 2, 3, 3},
		hi:       [5]int{3, 3, 3, 4, 4},
	},
	{
		name:     "gratitude",
		needs:    [][]string{gratitudeWords},
		category: CategoryPositive,
		lo:       [5]int{1, 1, 1, 2, 2},
		hi:       [5]int{2, 2, 2, 2, 3},
	},
}

// DefaultRuleTable builds the built-in rule table for a configuration.
// Tiers beyond the fifth reuse the top tier's deltas; configurations with
// fewer tiers drop the upper rows.
func DefaultRuleTable(cfg Config) RuleTable {
	table := RuleTable{ByTier: make(map[string][]Rule, len(cfg.TierBands))}
	for i, band := range cfg.TierBands {
		row := i
		if row > 4 {
			row = 4
		}
		rules := make([]Rule, 0, len(defaultRuleSpecs))
		for _, spec := range defaultRuleSpecs {
			rules = append(rules, Rule{
				Name:     spec.name,
				Needs:    spec.needs,
				Category: spec.category,
				MinDelta: spec.lo[row],
				MaxDelta: spec.hi[row],
			})
		}
		table.ByTier[band.Name] = rules
	}
	return table
}
