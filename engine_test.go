package affection

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// ══════════════════════════════════════════════
// Turn orchestration
// ══════════════════════════════════════════════

func newTestEngine(t *testing.T, cfg Config, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{
		WithRand(lowRand{}),
		WithClock(func() time.Time { return time.Unix(1700000000, 0).UTC() }),
	}, opts...)
	e, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func TestProcessTurn_GreetingFromScratch(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	state, turn := e.ProcessTurn(DefaultState(e.Config()), "hello")

	if turn.Delta != 1 || turn.Category != CategoryPositive {
		t.Fatalf("expected (+1, positive), got (%+d, %s)", turn.Delta, turn.Category)
	}
	if state.Score != 1 {
		t.Fatalf("expected score 1, got %d", state.Score)
	}
	if turn.Current.Tier != "zero" || turn.TierChanged {
		t.Fatalf("expected to stay in zero tier, got %s (changed=%v)", turn.Current.Tier, turn.TierChanged)
	}
	if state.TotalXP != 10 || state.Level != 1 {
		t.Fatalf("expected (10 xp, level 1), got (%d, %d)", state.TotalXP, state.Level)
	}
	if !strings.Contains(turn.Notification, "Affection +1") {
		t.Fatalf("notification should report the gain: %q", turn.Notification)
	}
	if strings.Contains(turn.Notification, "stage") || strings.Contains(turn.Notification, "Level up") {
		t.Fatalf("notification should report the gain only: %q", turn.Notification)
	}
}

func TestProcessTurn_ClampsIntoTopTier(t *testing.T) {
	cfg := DefaultConfig()
	// Top positive rule pays out more than the whole score range.
	table := RuleTable{Fallback: []Rule{{
		Name:     "jackpot",
		Needs:    [][]string{{"sonnet"}},
		Category: CategoryPositive,
		MinDelta: cfg.ScoreRange.Max - cfg.ScoreRange.Min + 5,
		MaxDelta: cfg.ScoreRange.Max - cfg.ScoreRange.Min + 5,
	}}}
	e := newTestEngine(t, cfg, WithRuleTable(table))

	start := DefaultState(cfg)
	start.Score = cfg.ScoreRange.Max - 1
	state, turn := e.ProcessTurn(start, "I wrote a sonnet about us")

	if state.Score != cfg.ScoreRange.Max {
		t.Fatalf("expected score clamped to %d, got %d", cfg.ScoreRange.Max, state.Score)
	}
	if turn.Current.Tier != cfg.TopTier().Name {
		t.Fatalf("expected top tier %s, got %s", cfg.TopTier().Name, turn.Current.Tier)
	}
}

func TestProcessTurn_TierChangeAnnounced(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)
	start := DefaultState(cfg)
	start.Score = 4 // one point below the neutral band

	_, turn := e.ProcessTurn(start, "hello")
	if !turn.TierChanged {
		t.Fatal("expected tier change")
	}
	if turn.Current.Tier != "neutral" {
		t.Fatalf("expected neutral, got %s", turn.Current.Tier)
	}
	if !strings.Contains(turn.Notification, "new stage: neutral") {
		t.Fatalf("expected tier announcement, got %q", turn.Notification)
	}
}

func TestProcessTurn_TierDowngradeAnnounced(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)
	start := DefaultState(cfg)
	start.Score = 25 // bottom of interested

	_, turn := e.ProcessTurn(start, "you are so stupid")
	if !turn.TierChanged || turn.Current.Tier != "neutral" {
		t.Fatalf("expected downgrade to neutral, got %s (changed=%v)", turn.Current.Tier, turn.TierChanged)
	}
	if !strings.Contains(turn.Notification, "cooled off") {
		t.Fatalf("expected downgrade announcement, got %q", turn.Notification)
	}
}

func TestProcessTurn_LevelUpCrossesExactThreshold(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)
	start := DefaultState(cfg)
	start.Score = 30
	start.TotalXP = 95 // level 2 needs 100; +1 delta earns 10
	start.Level = 1

	state, turn := e.ProcessTurn(start, "hello")
	if state.Level != 2 || turn.LevelsGained != 1 {
		t.Fatalf("expected exactly one level gained, got level %d (+%d)", state.Level, turn.LevelsGained)
	}
	if !strings.Contains(turn.Notification, "level 2") {
		t.Fatalf("expected level-up announcement, got %q", turn.Notification)
	}
}

func TestProcessTurn_UnlockAnnouncedExactlyOnce(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)
	start := DefaultState(cfg)
	start.Score = 80
	start.TotalXP = 690 // level 5 (unlock) needs 700
	start.Level = 4

	state, turn := e.ProcessTurn(start, "hello")
	if !state.Unlocked || !turn.JustUnlocked {
		t.Fatalf("expected unlock, got unlocked=%v just=%v", state.Unlocked, turn.JustUnlocked)
	}
	if !strings.Contains(turn.Notification, "unlocked") {
		t.Fatalf("expected unlock announcement, got %q", turn.Notification)
	}

	// The next turn must not announce it again.
	state, turn = e.ProcessTurn(state, "hello")
	if turn.JustUnlocked {
		t.Fatal("unlock must be announced exactly once")
	}
	if strings.Contains(turn.Notification, "unlocked") {
		t.Fatalf("unlock announcement repeated: %q", turn.Notification)
	}
	if !state.Unlocked {
		t.Fatal("unlock flag must persist")
	}
}

func TestProcessTurn_UnlockSurvivesNegativeTurns(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)
	state := DefaultState(cfg)
	state.Score = 80
	state.TotalXP = 700
	state.Unlocked = true

	for i := 0; i < 20; i++ {
		state, _ = e.ProcessTurn(state, "you are stupid and ugly")
		if !state.Unlocked {
			t.Fatalf("unlock flag reset after %d negative turns", i+1)
		}
	}
}

func TestProcessTurn_TierGatedUnlock(t *testing.T) {
	cfg := SignedConfig()
	e := newTestEngine(t, cfg)
	start := DefaultState(cfg)
	start.Score = 9 // one below affectionate

	state, turn := e.ProcessTurn(start, "I adore you")
	if turn.Current.Tier != "affectionate" {
		t.Fatalf("expected affectionate tier, got %s", turn.Current.Tier)
	}
	if !state.Unlocked || !turn.JustUnlocked {
		t.Fatal("expected tier-gated unlock on reaching affectionate")
	}
}

func TestProcessTurn_NoMatchChangesNothing(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)
	start := DefaultState(cfg)
	start.Score = 30
	before := e.Config().RepairState(start)

	state, turn := e.ProcessTurn(start, "the bus was late today")
	if turn.Delta != 0 || turn.Category != CategoryNeutral {
		t.Fatalf("expected (0, neutral), got (%+d, %s)", turn.Delta, turn.Category)
	}
	if turn.Notification != "" {
		t.Fatalf("expected no notification, got %q", turn.Notification)
	}
	if diff := cmp.Diff(before, state); diff != "" {
		t.Fatalf("state changed on a no-match turn (-want +got):\n%s", diff)
	}
}

func TestProcessTurn_RecordAllTurnsKeepsZeroDeltaEntries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecordAllTurns = true
	e := newTestEngine(t, cfg)

	state, _ := e.ProcessTurn(DefaultState(cfg), "the bus was late today")
	if len(state.History) != 1 {
		t.Fatalf("expected zero-delta turn recorded, history len %d", len(state.History))
	}
	if state.History[0].Delta != 0 {
		t.Fatalf("expected delta 0, got %+d", state.History[0].Delta)
	}
}

func TestProcessTurn_HistoryIsFIFOBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHistoryItems = 3
	e := newTestEngine(t, cfg)

	state := DefaultState(cfg)
	for i := 0; i < 5; i++ {
		state, _ = e.ProcessTurn(state, fmt.Sprintf("hello #%d", i))
	}
	if len(state.History) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(state.History))
	}
	// After exceeding capacity by 2, exactly the 2 earliest entries are gone.
	for i, want := range []string{"hello #2", "hello #3", "hello #4"} {
		if state.History[i].Text != want {
			t.Fatalf("history[%d] = %q, want %q", i, state.History[i].Text, want)
		}
	}
}

func TestProcessTurn_RepairsMalformedState(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)

	// A snapshot with fields missing or out of range, as a host might
	// hand back after a partial restore.
	broken := State{Score: 999, TotalXP: -5, Level: 42, History: nil}
	state, turn := e.ProcessTurn(broken, "hello")

	if turn.Previous.Score != 100 {
		t.Fatalf("expected score clamped before the turn, got %d", turn.Previous.Score)
	}
	if turn.Previous.Level != 1 {
		t.Fatalf("expected level re-derived from xp, got %d", turn.Previous.Level)
	}
	if state.History == nil {
		t.Fatal("expected history initialized")
	}
}

func TestProcessTurn_ProgressionUsesRawDelta(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)
	start := DefaultState(cfg)
	start.Score = 100 // already at max; the clamped residual is zero

	state, _ := e.ProcessTurn(start, "hello")
	if state.TotalXP != 10 {
		t.Fatalf("xp must come from the raw delta, got %d", state.TotalXP)
	}
}

func TestState_JSONRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)
	state, _ := e.ProcessTurn(DefaultState(cfg), "hello")
	state, _ = e.ProcessTurn(state, "you're beautiful")

	blob, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var restored State
	if err := json.Unmarshal(blob, &restored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(state, restored); diff != "" {
		t.Fatalf("state did not round-trip (-want +got):\n%s", diff)
	}
}

func TestDefaultState_SignedRangeStartsAtZero(t *testing.T) {
	s := DefaultState(SignedConfig())
	if s.Score != 0 || s.Level != 1 || s.Unlocked {
		t.Fatalf("unexpected default state: %+v", s)
	}
}
