package intake

import "sync"

// Selection tracks the clip last placed on the clipboard, either by intake
// or by the user copying a stored clip back.
type Selection struct {
	mu sync.Mutex
	id int64
	ok bool
}

func (s *Selection) Set(id int64) {
	s.mu.Lock()
	s.id, s.ok = id, true
	s.mu.Unlock()
}

func (s *Selection) Clear() {
	s.mu.Lock()
	s.id, s.ok = 0, false
	s.mu.Unlock()
}

// Get returns the current clip id, if any.
func (s *Selection) Get() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.ok
}
