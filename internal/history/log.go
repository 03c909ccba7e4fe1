package history

import (
	"time"

	"github.com/Skufu/vitalrisk/internal/enrich"
	"github.com/Skufu/vitalrisk/internal/triage"
)

// MaxEntries is how many results a session keeps.
const MaxEntries = 10

type Entry struct {
	Timestamp  time.Time               `json:"timestamp"`
	Prediction triage.PredictionResult `json:"prediction"`
	Vitals     triage.SubjectInput     `json:"vitals"`
	AISymptoms *enrich.AISymptoms      `json:"aiSymptoms,omitempty"`
}

// NewEntry snapshots s so later edits to the draft do not leak into history.
func NewEntry(at time.Time, result triage.PredictionResult, s triage.SubjectInput) Entry {
	return Entry{
		Timestamp:  at.UTC(),
		Prediction: result.Clone(),
		Vitals:     s.Clone(),
	}
}

// Log is a most-recent-first capped list of entries. It is not safe for
// concurrent use; the owning session serializes access.
type Log struct {
	entries []Entry
}

// Restore builds a log from entries already ordered most recent first.
func Restore(entries []Entry) *Log {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return &Log{entries: append([]Entry(nil), entries...)}
}

// Record prepends e and evicts anything past MaxEntries.
func (l *Log) Record(e Entry) {
	n := len(l.entries)
	if n >= MaxEntries {
		n = MaxEntries - 1
	}
	next := make([]Entry, 0, n+1)
	next = append(next, e)
	next = append(next, l.entries[:n]...)
	l.entries = next
}

func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy, most recent first.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Latest returns the most recent entry.
func (l *Log) Latest() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[0], true
}

// AttachSymptoms sets the AI symptom payload on the most recent entry.
func (l *Log) AttachSymptoms(at time.Time, s *enrich.AISymptoms) bool {
	if len(l.entries) == 0 || !l.entries[0].Timestamp.Equal(at.UTC()) {
		return false
	}
	l.entries[0].AISymptoms = s
	return true
}

type Distribution struct {
	Low      int `json:"low"`
	Elevated int `json:"elevated"`
	Critical int `json:"critical"`
}

// Distribution counts logged results as Low, Elevated (Medium or High) and
// Critical.
func (l *Log) Distribution() Distribution {
	var d Distribution
	for _, e := range l.entries {
		switch e.Prediction.RiskLevel {
		case triage.RiskLow:
			d.Low++
		case triage.RiskMedium, triage.RiskHigh:
			d.Elevated++
		case triage.RiskCritical:
			d.Critical++
		}
	}
	return d
}
