package affection

// ──────────────────────────────────────────────
// Persisted engine state
// ──────────────────────────────────────────────

// State is the opaque snapshot handed to and from the host between
// turns. The current tier is intentionally not part of it: tier is always
// recomputed from the score, so a stored copy cannot desynchronize.
type State struct {
	Score    int      `json:"score"`
	TotalXP  int      `json:"total_xp"`
	Level    int      `json:"level"`
	Unlocked bool     `json:"unlocked"`
	History  []Record `json:"history"`
}

// DefaultState returns the first-turn state: the score range's closest
// value to zero, level 1, nothing unlocked, empty history.
func DefaultState(cfg Config) State {
	return State{
		Score:   cfg.ScoreRange.Clamp(0),
		TotalXP: 0,
		Level:   1,
		History: []Record{},
	}
}

// RepairState heals a restored snapshot field by field instead of failing
// the turn: the score is clamped into range, total XP floored at zero,
// the level re-derived from XP, and the history truncated to capacity. A
// raised unlock flag survives repair (the flag is one-way).
func (c Config) RepairState(s State) State {
	s.Score = c.ScoreRange.Clamp(s.Score)
	if s.TotalXP < 0 {
		s.TotalXP = 0
	}
	s.Level = c.LevelOf(s.TotalXP)
	if s.History == nil {
		s.History = []Record{}
	}
	if len(s.History) > c.MaxHistoryItems {
		s.History = s.History[len(s.History)-c.MaxHistoryItems:]
	}
	return s
}

// Snapshot is a point-in-time read of the derived engine status, used
// for change detection across a turn and for status display.
type Snapshot struct {
	Score    int    `json:"score"`
	Tier     string `json:"tier"`
	TotalXP  int    `json:"total_xp"`
	Level    int    `json:"level"`
	Unlocked bool   `json:"unlocked"`
}

// SnapshotOf derives the displayable status from a state.
func (c Config) SnapshotOf(s State) Snapshot {
	return Snapshot{
		Score:    s.Score,
		Tier:     c.TierOf(s.Score).Name,
		TotalXP:  s.TotalXP,
		Level:    s.Level,
		Unlocked: s.Unlocked,
	}
}
