package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps the live carts keyed by session ID. Carts are ephemeral; they
// exist only for the lifetime of the process.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Create opens a new empty cart and returns its session ID.
func (s *Store) Create() (string, *Cart) {
	id := uuid.NewString()
	c := New()

	s.mu.Lock()
	s.carts[id] = c
	s.mu.Unlock()

	return id, c
}

// Get returns the cart for a session, if any.
func (s *Store) Get(id string) (*Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	return c, ok
}

// Delete drops a session's cart.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
}
