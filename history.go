package affection

import "time"

// ──────────────────────────────────────────────
// Interaction history
// ──────────────────────────────────────────────

// Record is one applied interaction, kept for audit and status display.
type Record struct {
	Text      string    `json:"text"`
	Delta     int       `json:"delta"`
	Category  Category  `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// AppendRecord appends entry and truncates to the most recent max
// entries, dropping the oldest first. Order-preserving, no deduplication.
func AppendRecord(history []Record, entry Record, max int) []Record {
	history = append(history, entry)
	if len(history) > max {
		history = history[len(history)-max:]
	}
	return history
}
