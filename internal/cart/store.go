package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Store hands out per-user carts for the HTTP session endpoints. The mutex
// guards the registry map only; each cart is still single-writer because a
// user drives one checkout session at a time.
type Store struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[uuid.UUID]*Cart)}
}

// Get returns the user's cart, creating an empty one on first use.
func (s *Store) Get(userID uuid.UUID) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = New()
		s.carts[userID] = c
	}
	return c
}

// Drop discards the user's cart entirely (logout, session end).
func (s *Store) Drop(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
