package affection

// ──────────────────────────────────────────────
// Score / tier state machine
// ──────────────────────────────────────────────

// ApplyDelta clamps score+delta into the configured range. Idempotent
// under a zero follow-up delta.
func (c Config) ApplyDelta(score, delta int) int {
	return c.ScoreRange.Clamp(score + delta)
}

// TierOf returns the band containing score. Tier is always derived from
// score, never stored alongside it, so the two cannot drift apart after a
// partial restore. With a validated Config every in-range score hits
// exactly one band; the first band is returned as a fallback for
// out-of-range input (callers clamp before lookup).
func (c Config) TierOf(score int) TierBand {
	for _, band := range c.TierBands {
		if band.Contains(score) {
			return band
		}
	}
	return c.TierBands[0]
}

// TopTier returns the highest band.
func (c Config) TopTier() TierBand {
	return c.TierBands[len(c.TierBands)-1]
}
