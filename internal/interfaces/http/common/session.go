package common

import "sync"

// SessionEvent describes one authentication state transition.
type SessionEvent struct {
	// SignedIn はサインイン遷移で true、サインアウト遷移で false。
	SignedIn bool
	User     AuthenticatedUser
}

// SessionEvents broadcasts authentication state transitions to subscribers.
// グローバル状態ではなく依存として注入し、購読はスコープ付きで必ず解除できる。
type SessionEvents struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(SessionEvent)
}

// NewSessionEvents creates an empty broker.
func NewSessionEvents() *SessionEvents {
	return &SessionEvents{listeners: make(map[int]func(SessionEvent))}
}

// Subscribe registers a listener and returns its deregistration function.
// 返された関数は何度呼んでも安全。
func (s *SessionEvents) Subscribe(listener func(SessionEvent)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Publish notifies every subscriber of the transition.
func (s *SessionEvents) Publish(event SessionEvent) {
	s.mu.Lock()
	listeners := make([]func(SessionEvent), 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}
