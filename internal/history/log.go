// Package history keeps an append-only transcript of question/answer pairs.
// It is owned by the calling layer; the pipeline itself stays stateless
// across calls except for cache reads and writes.
package history

import (
	"sync"
	"time"
)

// Entry is one completed exchange.
type Entry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Outcome  string    `json:"outcome"`
	AskedAt  time.Time `json:"asked_at"`
}

// Log is a concurrency-safe append-only transcript.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLog creates an empty transcript.
func NewLog() *Log {
	return &Log{}
}

// Append records one exchange.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Entries returns a snapshot of the transcript, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the number of recorded exchanges.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
