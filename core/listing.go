package core

import (
	"context"
	"strings"
	"sync"

	"panelfiles/logging"
	"panelfiles/protocols"
	"panelfiles/resolver"
)

// Lister fetches the authoritative contents of a directory.
type Lister interface {
	List(ctx context.Context, dir string) ([]protocols.FileEntry, error)
}

// Listing is the cached contents of the directory currently on screen.
// Reload replaces it wholesale; Rename and Remove patch it in place.
//
// gen advances when a reload starts and on every local change. A reload whose
// generation is no longer the latest when its result arrives is discarded.
type Listing struct {
	mu        sync.RWMutex
	lister    Lister
	directory string
	entries   []protocols.FileEntry
	version   uint64
	gen       uint64
}

func NewListing(lister Lister, directory string) *Listing {
	return &Listing{
		lister:    lister,
		directory: resolver.CleanDirectory(directory),
	}
}

func (l *Listing) Directory() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.directory
}

// SetDirectory switches the listing to dir and drops the cached entries.
func (l *Listing) SetDirectory(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.directory = resolver.CleanDirectory(dir)
	l.entries = nil
	l.version++
	l.gen++
}

// Entries returns a copy of the cached entries.
func (l *Listing) Entries() []protocols.FileEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]protocols.FileEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Version increases on every change to the cached entries.
func (l *Listing) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

func (l *Listing) Replace(entries []protocols.FileEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]protocols.FileEntry(nil), entries...)
	l.version++
	l.gen++
}

// Reload fetches the current directory and replaces the cache. The result is
// dropped when the listing changed after the fetch started: another reload
// began, an entry was patched, or the user navigated away.
func (l *Listing) Reload(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen, dir := l.gen, l.directory
	l.mu.Unlock()

	entries, err := l.lister.List(ctx, dir)
	if err != nil {
		logging.Warn("listing refresh failed", logging.String("directory", dir), logging.Err(err))
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		logging.Debug("stale listing dropped", logging.String("directory", dir))
		return nil
	}
	l.entries = entries
	l.version++
	logging.Debug("listing refreshed", logging.String("directory", dir), logging.Int("entries", len(entries)))
	return nil
}

// Rename patches the name of the entry called from. It reports false when no
// such entry is cached.
func (l *Listing) Rename(from, to string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].Name == from {
			l.entries[i].Name = to
			l.entries[i].Path = strings.TrimPrefix(resolver.Join(l.directory, to), "/")
			l.version++
			l.gen++
			return true
		}
	}
	return false
}

// Remove drops the entry called name. It reports false when no such entry is
// cached.
func (l *Listing) Remove(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].Name == name {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			l.version++
			l.gen++
			return true
		}
	}
	return false
}

func (l *Listing) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.Name == name {
			return true
		}
	}
	return false
}
