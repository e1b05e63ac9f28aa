package affection

import (
	"strings"
	"testing"
)

// ══════════════════════════════════════════════
// Config validation
// ══════════════════════════════════════════════

func TestConfig_PresetsValidate(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig(), CompactConfig(), SignedConfig()} {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("preset should validate: %v", err)
		}
	}
}

func TestConfig_RejectsGapInTierBands(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TierBands[1].Min = 6 // gap: band 0 ends at 4
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for non-contiguous bands")
	}
	if !strings.Contains(err.Error(), "contiguous") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfig_RejectsOverlappingTierBands(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TierBands[1].Min = 3 // overlaps band 0
	if cfg.Validate() == nil {
		t.Fatal("expected error for overlapping bands")
	}
}

func TestConfig_RejectsBandsNotCoveringRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TierBands[len(cfg.TierBands)-1].Max = 90
	if cfg.Validate() == nil {
		t.Fatal("expected error when top band stops short of max score")
	}
}

func TestConfig_RejectsNonMonotonicLevelThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LevelThresholds[3].XPRequired = cfg.LevelThresholds[2].XPRequired
	if cfg.Validate() == nil {
		t.Fatal("expected error for non-increasing xp thresholds")
	}
}

func TestConfig_RejectsThresholdsNotStartingAtLevelOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LevelThresholds[0] = LevelThreshold{Level: 1, XPRequired: 50}
	if cfg.Validate() == nil {
		t.Fatal("expected error when level 1 requires nonzero xp")
	}
}

func TestConfig_RejectsUnknownUnlockTier(t *testing.T) {
	cfg := SignedConfig()
	cfg.UnlockTier = "soulmate"
	if cfg.Validate() == nil {
		t.Fatal("expected error for unlock tier that names no band")
	}
}

func TestConfig_RejectsEmptyScoreRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScoreRange = ScoreRange{Min: 10, Max: 5}
	if cfg.Validate() == nil {
		t.Fatal("expected error for empty score range")
	}
}

func TestNew_FillsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.XPMultiplier = 0
	cfg.MaxHistoryItems = 0
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Config().XPMultiplier != 10 {
		t.Fatalf("expected default multiplier 10, got %d", e.Config().XPMultiplier)
	}
	if e.Config().MaxHistoryItems != 10 {
		t.Fatalf("expected default history size 10, got %d", e.Config().MaxHistoryItems)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TierBands = nil
	if _, err := New(cfg); err == nil {
		t.Fatal("expected construction to fail on invalid config")
	}
}
