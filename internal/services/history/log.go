package history

import (
	"TapeReader/internal/domain/models"
)

// Log is a bounded, newest-first record of past decision cycles. It reflects
// live state for one run; nothing survives a restart.
type Log struct {
	cap     int
	entries []models.HistoryEntry
}

func NewLog(cap int) *Log {
	return &Log{cap: cap, entries: make([]models.HistoryEntry, 0, cap)}
}

// Record inserts an entry at the head, evicting the oldest on overflow.
func (l *Log) Record(e models.HistoryEntry) {
	l.entries = append([]models.HistoryEntry{e}, l.entries...)
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int { return len(l.entries) }
