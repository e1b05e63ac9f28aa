// Package affection implements the relationship-progression engine for a
// conversational companion character: keyword classification of user
// messages, a bounded affection score with named relationship tiers, an
// XP/level track that gates a one-way unlock flag, and a bounded
// interaction history.
//
// The engine is a pure reducer over an opaque State snapshot; the host
// runtime persists the snapshot between turns and replays it on the next
// invocation. See Engine.ProcessTurn.
package affection

import "fmt"

// ──────────────────────────────────────────────
// Engine configuration
// ──────────────────────────────────────────────

// ScoreRange bounds the affection score. Min may be negative.
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Clamp forces v into [Min, Max].
func (r ScoreRange) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// TierBand is one named, contiguous band of the score range.
type TierBand struct {
	Name        string `json:"name"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Description string `json:"description,omitempty"`
}

// Contains reports whether score falls inside the band.
func (b TierBand) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}

// LevelThreshold maps a level to the total XP required to reach it.
type LevelThreshold struct {
	Level      int `json:"level"`
	XPRequired int `json:"xp_required"`
}

// Config parameterizes one engine deployment. All fields are static for
// the lifetime of the engine; there is no mid-session mutation.
type Config struct {
	ScoreRange      ScoreRange       `json:"score_range"`
	TierBands       []TierBand       `json:"tier_bands"`
	XPMultiplier    int              `json:"xp_multiplier"`
	LevelThresholds []LevelThreshold `json:"level_thresholds"`

	// UnlockLevel gates the unlock flag on reaching a level. Zero disables
	// the level gate; UnlockTier then gates on reaching a tier instead.
	UnlockLevel int    `json:"unlock_level,omitempty"`
	UnlockTier  string `json:"unlock_tier,omitempty"`

	// MaxHistoryItems bounds the interaction history (FIFO eviction).
	MaxHistoryItems int `json:"max_history_items"`

	// RecordAllTurns records a history entry even for zero-delta turns.
	// Default: only turns that produced a delta are recorded.
	RecordAllTurns bool `json:"record_all_turns,omitempty"`
}

// withDefaults fills zero-valued knobs that have documented defaults.
func (c Config) withDefaults() Config {
	if c.XPMultiplier == 0 {
		c.XPMultiplier = 10
	}
	if c.MaxHistoryItems == 0 {
		c.MaxHistoryItems = 10
	}
	return c
}

// Validate rejects configurations that would make tier or level lookup
// ill-defined. Called once at engine construction, never per turn.
func (c Config) Validate() error {
	if c.ScoreRange.Min > c.ScoreRange.Max {
		return fmt.Errorf("score range [%d,%d] is empty", c.ScoreRange.Min, c.ScoreRange.Max)
	}
	if len(c.TierBands) == 0 {
		return fmt.Errorf("at least one tier band is required")
	}
	if c.TierBands[0].Min != c.ScoreRange.Min {
		return fmt.Errorf("tier %q starts at %d, want score range min %d",
			c.TierBands[0].Name, c.TierBands[0].Min, c.ScoreRange.Min)
	}
	last := c.TierBands[len(c.TierBands)-1]
	if last.Max != c.ScoreRange.Max {
		return fmt.Errorf("tier %q ends at %d, want score range max %d",
			last.Name, last.Max, c.ScoreRange.Max)
	}
	for i, b := range c.TierBands {
		if b.Name == "" {
			return fmt.Errorf("tier band %d has no name", i)
		}
		if b.Min > b.Max {
			return fmt.Errorf("tier %q has empty band [%d,%d]", b.Name, b.Min, b.Max)
		}
		if i > 0 && b.Min != c.TierBands[i-1].Max+1 {
			return fmt.Errorf("tier %q starts at %d, want %d (bands must be contiguous)",
				b.Name, b.Min, c.TierBands[i-1].Max+1)
		}
	}

	if c.XPMultiplier < 1 {
		return fmt.Errorf("xp multiplier must be >= 1, got %d", c.XPMultiplier)
	}
	if len(c.LevelThresholds) == 0 {
		return fmt.Errorf("at least one level threshold is required")
	}
	if c.LevelThresholds[0].Level != 1 || c.LevelThresholds[0].XPRequired != 0 {
		return fmt.Errorf("level thresholds must start at {level 1, xp 0}, got {%d, %d}",
			c.LevelThresholds[0].Level, c.LevelThresholds[0].XPRequired)
	}
	for i := 1; i < len(c.LevelThresholds); i++ {
		prev, cur := c.LevelThresholds[i-1], c.LevelThresholds[i]
		if cur.Level <= prev.Level {
			return fmt.Errorf("level thresholds not increasing: level %d after %d", cur.Level, prev.Level)
		}
		if cur.XPRequired <= prev.XPRequired {
			return fmt.Errorf("xp thresholds not increasing: %d for level %d after %d",
				cur.XPRequired, cur.Level, prev.XPRequired)
		}
	}

	if c.UnlockLevel < 0 {
		return fmt.Errorf("unlock level must be >= 0, got %d", c.UnlockLevel)
	}
	if c.UnlockTier != "" && c.tierIndex(c.UnlockTier) < 0 {
		return fmt.Errorf("unlock tier %q does not name a tier band", c.UnlockTier)
	}
	if c.MaxHistoryItems < 1 {
		return fmt.Errorf("max history items must be >= 1, got %d", c.MaxHistoryItems)
	}
	return nil
}

// tierIndex returns the position of the named band, or -1.
func (c Config) tierIndex(name string) int {
	for i, b := range c.TierBands {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// ──────────────────────────────────────────────
// Presets — the score/tier/XP variants found in the wild,
// reconciled into one configurable engine
// ──────────────────────────────────────────────

// DefaultConfig is the classic 0-100 variant: five tiers, level 5 unlock.
func DefaultConfig() Config {
	return Config{
		ScoreRange: ScoreRange{Min: 0, Max: 100},
		TierBands: []TierBand{
			{Name: "zero", Min: 0, Max: 4, Description: "she barely notices you"},
			{Name: "neutral", Min: 5, Max: 24, Description: "polite but distant"},
			{Name: "interested", Min: 25, Max: 49, Description: "she's curious about you"},
			{Name: "attracted", Min: 50, Max: 74, Description: "genuinely fond of you"},
			{Name: "intimate", Min: 75, Max: 100, Description: "completely smitten"},
		},
		XPMultiplier: 10,
		LevelThresholds: []LevelThreshold{
			{Level: 1, XPRequired: 0},
			{Level: 2, XPRequired: 100},
			{Level: 3, XPRequired: 250},
			{Level: 4, XPRequired: 450},
			{Level: 5, XPRequired: 700},
			{Level: 6, XPRequired: 1000},
			{Level: 7, XPRequired: 1400},
			{Level: 8, XPRequired: 1900},
			{Level: 9, XPRequired: 2500},
			{Level: 10, XPRequired: 3200},
		},
		UnlockLevel:     5,
		MaxHistoryItems: 10,
	}
}

// CompactConfig is the 0-50 variant with a shorter leveling curve.
func CompactConfig() Config {
	return Config{
		ScoreRange: ScoreRange{Min: 0, Max: 50},
		TierBands: []TierBand{
			{Name: "stranger", Min: 0, Max: 9, Description: "still a stranger"},
			{Name: "acquaintance", Min: 10, Max: 19, Description: "warming up slowly"},
			{Name: "friend", Min: 20, Max: 34, Description: "happy to see you"},
			{Name: "close", Min: 35, Max: 44, Description: "closer than most"},
			{Name: "devoted", Min: 45, Max: 50, Description: "devoted to you"},
		},
		XPMultiplier: 5,
		LevelThresholds: []LevelThreshold{
			{Level: 1, XPRequired: 0},
			{Level: 2, XPRequired: 50},
			{Level: 3, XPRequired: 120},
			{Level: 4, XPRequired: 210},
			{Level: 5, XPRequired: 320},
		},
		UnlockLevel:     5,
		MaxHistoryItems: 10,
	}
}

// SignedConfig is the -10..15 variant: the score can go hostile, and the
// unlock gate is tier-based rather than level-based.
func SignedConfig() Config {
	return Config{
		ScoreRange: ScoreRange{Min: -10, Max: 15},
		TierBands: []TierBand{
			{Name: "hostile", Min: -10, Max: -6, Description: "she wants you gone"},
			{Name: "cold", Min: -5, Max: -1, Description: "icy silence"},
			{Name: "neutral", Min: 0, Max: 4, Description: "indifferent"},
			{Name: "warm", Min: 5, Max: 9, Description: "warming up to you"},
			{Name: "affectionate", Min: 10, Max: 15, Description: "openly affectionate"},
		},
		XPMultiplier: 10,
		LevelThresholds: []LevelThreshold{
			{Level: 1, XPRequired: 0},
			{Level: 2, XPRequired: 40},
			{Level: 3, XPRequired: 90},
			{Level: 4, XPRequired: 150},
			{Level: 5, XPRequired: 220},
		},
		UnlockTier:      "affectionate",
		MaxHistoryItems: 10,
	}
}
