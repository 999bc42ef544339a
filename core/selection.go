package core

import "sync"

// Selection is the ordered set of entry names the user has checked.
type Selection struct {
	mu    sync.RWMutex
	names []string
}

// Toggle checks or unchecks name. Checking an already selected name moves it
// to the end.
func (s *Selection) Toggle(name string, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.names[:0:0]
	for _, n := range s.names {
		if n != name {
			kept = append(kept, n)
		}
	}
	if checked {
		kept = append(kept, name)
	}
	s.names = kept
}

func (s *Selection) Set(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append([]string(nil), names...)
}

func (s *Selection) Clear() {
	s.Set(nil)
}

func (s *Selection) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Names returns a snapshot of the selected names.
func (s *Selection) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...)
}

func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}
