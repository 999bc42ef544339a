package ui

import (
	"errors"
	"sync"

	"panelfiles/protocols"
)

// Flashes holds the error messages shown above the file list, grouped by key.
type Flashes struct {
	mu   sync.Mutex
	msgs map[string][]string
}

func (f *Flashes) ClearFlashes(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.msgs, key)
}

// AddError replaces the messages under key with one describing err.
func (f *Flashes) AddError(key string, err error) {
	if err == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.msgs == nil {
		f.msgs = make(map[string][]string)
	}
	f.msgs[key] = []string{describeError(err)}
}

func (f *Flashes) Messages(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs[key]...)
}

func describeError(err error) string {
	var apiErr *protocols.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
