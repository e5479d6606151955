package editor

import "sync"

// Session serializes access to a Document for hosts that touch it from more
// than one goroutine, such as a terminal UI with an inspection server.
type Session struct {
	mu  sync.Mutex
	doc *Document
}

func NewSession(doc *Document) *Session {
	return &Session{doc: doc}
}

// Do runs fn with exclusive access to the document.
func (s *Session) Do(fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}

// View runs fn with exclusive access. fn must not mutate the document.
func (s *Session) View(fn func(*Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
}
