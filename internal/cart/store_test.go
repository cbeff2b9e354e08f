package cart

import (
	"errors"
	"sync"
	"testing"
)

func TestStoreGetCreatesEmptyCart(t *testing.T) {
	s := NewStore()

	c := s.Get("u1")

	if c.UserID != "u1" {
		t.Fatalf("expected cart for u1, got %q", c.UserID)
	}
	if !c.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", c)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore()
	if _, err := s.AddItem("u1", line("i1", "r1", 45, 1), false); err != nil {
		t.Fatalf("add: %v", err)
	}

	c := s.Get("u1")
	c.Lines[0].Quantity = 99
	c.RestaurantID = "hacked"

	fresh := s.Get("u1")
	if fresh.Lines[0].Quantity != 1 || fresh.RestaurantID != "r1" {
		t.Fatalf("store state leaked through returned cart: %+v", fresh)
	}
}

func TestStoreIsolatesUsers(t *testing.T) {
	s := NewStore()
	if _, err := s.AddItem("u1", line("i1", "r1", 45, 1), false); err != nil {
		t.Fatalf("add: %v", err)
	}

	if c := s.Get("u2"); !c.IsEmpty() {
		t.Fatalf("u2 should have an empty cart, got %+v", c)
	}
}

func TestStoreConflictDoesNotMutate(t *testing.T) {
	s := NewStore()
	if _, err := s.AddItem("u1", line("i1", "r1", 45, 2), false); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := s.AddItem("u1", line("i9", "r2", 20, 1), false)

	var conflict *RestaurantConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected RestaurantConflictError, got %v", err)
	}
	c := s.Get("u1")
	if c.RestaurantID != "r1" || c.TotalItemCount() != 2 {
		t.Fatalf("cart mutated on conflict: %+v", c)
	}
}

func TestStoreRemoveUnknownItem(t *testing.T) {
	s := NewStore()

	if _, err := s.RemoveItem("u1", "missing"); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	if _, err := s.AddItem("u1", line("i1", "r1", 45, 3), false); err != nil {
		t.Fatalf("add: %v", err)
	}

	s.Clear("u1")

	if c := s.Get("u1"); !c.IsEmpty() || c.RestaurantID != "" {
		t.Fatalf("expected cleared cart, got %+v", c)
	}
}

func TestStoreConcurrentAdds(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddItem("u1", line("i1", "r1", 45, 1), false); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := s.Get("u1").TotalItemCount(); got != 50 {
		t.Fatalf("expected 50 items, got %d", got)
	}
}
