package cart

import (
	"sync"

	"storefront/internal/pricing"
)

// entry pairs a session's cart with the mutex that serialises its use.
// An evicted entry is no longer in the store and must not be used.
type entry struct {
	mu      sync.Mutex
	cart    *Cart
	evicted bool
}

// Store keeps one Cart per session id in memory. Carts are never persisted
// and an empty cart is evicted, so only sessions holding items use memory.
type Store struct {
	engine *pricing.Engine

	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore creates an empty store whose carts are priced by engine.
func NewStore(engine *pricing.Engine) *Store {
	return &Store{
		engine:  engine,
		entries: make(map[string]*entry),
	}
}

// With runs fn with exclusive access to the cart of sessionID, creating an
// empty cart on first use. Calls for the same session never overlap.
func (s *Store) With(sessionID string, fn func(c *Cart) error) error {
	for {
		if ok, err := s.tryWith(sessionID, fn); ok {
			return err
		}
	}
}

// tryWith runs fn on the current entry of sessionID. ok is false when the
// entry was evicted while waiting for its lock.
func (s *Store) tryWith(sessionID string, fn func(c *Cart) error) (ok bool, err error) {
	e := s.entry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.evicted {
		return false, nil
	}
	defer func() {
		if e.cart.IsEmpty() {
			s.evict(sessionID, e)
		}
	}()

	return true, fn(e.cart)
}

// evict removes e from the store. The caller holds e.mu.
func (s *Store) evict(sessionID string, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries[sessionID] == e {
		delete(s.entries, sessionID)
	}
	e.evicted = true
}

func (s *Store) entry(sessionID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		e = &entry{cart: New(s.engine)}
		s.entries[sessionID] = e
	}
	return e
}
