package affection

// ──────────────────────────────────────────────
// XP / level progression
// ──────────────────────────────────────────────

// GainXP converts a score delta into experience points. Only positive
// deltas earn XP; negative deltas never reduce it.
func (c Config) GainXP(delta int) int {
	if delta <= 0 {
		return 0
	}
	return delta * c.XPMultiplier
}

// LevelOf returns the greatest level whose XP requirement is at or below
// totalXP. The threshold table starts at {level 1, xp 0}, so every
// non-negative total maps to a level.
func (c Config) LevelOf(totalXP int) int {
	level := c.LevelThresholds[0].Level
	for _, t := range c.LevelThresholds {
		if totalXP < t.XPRequired {
			break
		}
		level = t.Level
	}
	return level
}

// ApplyProgression advances the XP track by one turn's delta and
// re-derives the level and the level-based unlock gate. The unlock flag
// is monotonic: once raised it never resets. Total XP is floored at zero
// to guard against future negative-XP extensions, even though GainXP
// never returns a negative amount today.
func (c Config) ApplyProgression(totalXP, level int, unlocked bool, delta int) (newTotalXP, newLevel int, newUnlocked bool) {
	newTotalXP = totalXP + c.GainXP(delta)
	if newTotalXP < 0 {
		newTotalXP = 0
	}
	newLevel = c.LevelOf(newTotalXP)
	newUnlocked = unlocked || (c.UnlockLevel > 0 && newLevel >= c.UnlockLevel)
	return newTotalXP, newLevel, newUnlocked
}
