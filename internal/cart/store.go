package cart

import "sync"

// Store keeps one cart per user for the lifetime of the process. It is the
// single owner of cart state; all mutations go through it and are synchronous.
// Returned carts are copies, callers never see shared slices.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

func (s *Store) cart(userID string) *Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = &Cart{UserID: userID}
		s.carts[userID] = c
	}
	return c
}

// Get returns the user's cart, creating an empty one if none exists.
func (s *Store) Get(userID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart(userID).copy()
}

// AddItem adds a line to the user's cart. Adding an item from a different
// restaurant than the one the cart is bound to returns a
// *RestaurantConflictError and leaves the cart untouched, unless replace is
// set, in which case the existing lines are discarded first.
func (s *Store) AddItem(userID string, line Line, replace bool) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(userID)
	if err := c.addLine(line, replace); err != nil {
		return nil, err
	}
	return c.copy(), nil
}

func (s *Store) RemoveItem(userID, itemID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(userID)
	if err := c.removeLine(itemID); err != nil {
		return nil, err
	}
	return c.copy(), nil
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line.
func (s *Store) UpdateQuantity(userID, itemID string, qty int) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(userID)
	if err := c.updateQuantity(itemID, qty); err != nil {
		return nil, err
	}
	return c.copy(), nil
}

func (s *Store) UpdateInstructions(userID, itemID, text string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(userID)
	if err := c.updateInstructions(itemID, text); err != nil {
		return nil, err
	}
	return c.copy(), nil
}

// Clear empties the user's cart and releases the restaurant binding.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(userID).clear()
}
