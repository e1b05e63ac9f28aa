package affection

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// ──────────────────────────────────────────────
// Turn orchestrator
// ──────────────────────────────────────────────

// Engine runs one conversation turn at a time: classify the message,
// apply the delta to the score, advance the XP track, record history,
// and compose a notification. ProcessTurn is a pure reducer over State;
// the engine itself holds only configuration and collaborators.
type Engine struct {
	cfg        Config
	rules      RuleTable
	classifier *Classifier
	now        func() time.Time
}

// Option customizes engine collaborators.
type Option func(*engineOptions)

type engineOptions struct {
	rng   Rand
	rules *RuleTable
	now   func() time.Time
}

// WithRand substitutes the random source used for sampled deltas.
func WithRand(rng Rand) Option {
	return func(o *engineOptions) { o.rng = rng }
}

// WithRuleTable replaces the built-in rule table.
func WithRuleTable(rules RuleTable) Option {
	return func(o *engineOptions) { o.rules = &rules }
}

// WithClock substitutes the timestamp source for history records.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

// New validates the configuration and rule table and builds an engine.
// Configuration inconsistencies are fatal here, never per turn.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.now == nil {
		o.now = time.Now
	}

	rules := DefaultRuleTable(cfg)
	if o.rules != nil {
		rules = *o.rules
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule table: %w", err)
	}

	return &Engine{
		cfg:        cfg,
		rules:      rules,
		classifier: NewClassifier(rules, o.rng),
		now:        o.now,
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Turn is the outcome of one processed message: the previous and current
// snapshots (enough for the host to round-trip session state), the raw
// classifier delta, and the composed notification. Notification is empty
// when nothing changed.
type Turn struct {
	Delta        int      `json:"delta"`
	Category     Category `json:"category"`
	Previous     Snapshot `json:"previous"`
	Current      Snapshot `json:"current"`
	TierChanged  bool     `json:"tier_changed"`
	LevelsGained int      `json:"levels_gained"`
	JustUnlocked bool     `json:"just_unlocked"`
	Notification string   `json:"notification,omitempty"`
}

// ProcessTurn applies one user message to a persisted state and returns
// the successor state plus the turn outcome. The input state is repaired
// first, so a malformed or absent snapshot degrades to defaults instead
// of failing the turn. Progression consumes the raw classifier delta,
// not the clamped residual.
func (e *Engine) ProcessTurn(state State, text string) (State, Turn) {
	state = e.cfg.RepairState(state)
	prev := e.cfg.SnapshotOf(state)
	prevTierIdx := e.cfg.tierIndex(prev.Tier)

	delta, category := e.classifier.Classify(text, prev.Tier)

	next := state
	next.Score = e.cfg.ApplyDelta(state.Score, delta)
	next.TotalXP, next.Level, next.Unlocked = e.cfg.ApplyProgression(
		state.TotalXP, state.Level, state.Unlocked, delta)

	newTier := e.cfg.TierOf(next.Score)
	newTierIdx := e.cfg.tierIndex(newTier.Name)
	if e.cfg.UnlockTier != "" && newTierIdx >= e.cfg.tierIndex(e.cfg.UnlockTier) {
		next.Unlocked = true
	}

	if delta != 0 || e.cfg.RecordAllTurns {
		next.History = AppendRecord(state.History, Record{
			Text:      text,
			Delta:     delta,
			Category:  category,
			Timestamp: e.now(),
		}, e.cfg.MaxHistoryItems)
	}

	cur := e.cfg.SnapshotOf(next)
	turn := Turn{
		Delta:        delta,
		Category:     category,
		Previous:     prev,
		Current:      cur,
		TierChanged:  newTierIdx != prevTierIdx,
		LevelsGained: cur.Level - prev.Level,
		JustUnlocked: cur.Unlocked && !prev.Unlocked,
	}
	turn.Notification = e.composeNotification(turn, newTier, newTierIdx > prevTierIdx)

	return next, turn
}

// composeNotification reports the score change, then any tier change,
// level-up, and unlock, in that order. The unlock line appears exactly
// once, on the turn the flag flips.
func (e *Engine) composeNotification(turn Turn, tier TierBand, tierUp bool) string {
	var parts []string

	if turn.Delta != 0 {
		line := fmt.Sprintf("Affection %+d", turn.Delta)
		if tier.Description != "" {
			line += " — " + tier.Description
		}
		parts = append(parts, line+".")
	}
	if turn.TierChanged {
		if tierUp {
			parts = append(parts, fmt.Sprintf("You've reached a new stage: %s.", tier.Name))
		} else {
			parts = append(parts, fmt.Sprintf("Things have cooled off: %s.", tier.Name))
		}
	}
	if turn.LevelsGained > 0 {
		parts = append(parts, fmt.Sprintf("Level up! You're now level %d.", turn.Current.Level))
	}
	if turn.JustUnlocked {
		parts = append(parts, "She trusts you completely now — a new side of her is unlocked.")
	}

	return strings.Join(parts, " ")
}
