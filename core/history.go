package core

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"panelfiles/resolver"
)

const defaultJournalSize = 500

// JournalEntry is one settled rename or move submission.
type JournalEntry struct {
	ID        string          `json:"id"`
	At        time.Time       `json:"at"`
	Directory string          `json:"directory"`
	Kind      string          `json:"kind"`
	Pairs     []resolver.Pair `json:"pairs"`
	Error     string          `json:"error,omitempty"`
}

// Journal keeps the most recent submissions and persists them as JSON.
type Journal struct {
	Entries    []JournalEntry `json:"entries"`
	Path       string         `json:"-"`
	MaxEntries int            `json:"-"`
	mu         sync.RWMutex
}

func NewJournal(path string) *Journal {
	return &Journal{
		Path:       path,
		MaxEntries: defaultJournalSize,
	}
}

func (j *Journal) Load() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, j)
}

func (j *Journal) Save() error {
	j.mu.RLock()
	defer j.mu.RUnlock()

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(j.Path, data, 0644)
}

// Record appends e, filling in the ID and time when unset, and drops the
// oldest entries beyond MaxEntries.
func (j *Journal) Record(e JournalEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	j.mu.Lock()
	j.Entries = append(j.Entries, e)
	if j.MaxEntries > 0 && len(j.Entries) > j.MaxEntries {
		j.Entries = append([]JournalEntry(nil), j.Entries[len(j.Entries)-j.MaxEntries:]...)
	}
	j.mu.Unlock()

	if j.Path == "" {
		return nil
	}
	return j.Save()
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(n int) []JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if n > len(j.Entries) || n <= 0 {
		n = len(j.Entries)
	}
	out := make([]JournalEntry, 0, n)
	for i := len(j.Entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, j.Entries[i])
	}
	return out
}
