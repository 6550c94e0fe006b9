package cart

import "sync"

// Line is one candidate order line. It mirrors the product fields the
// frontend renders, but nothing here is authoritative: the order
// service re-reads prices from the catalog before anything is
// persisted.
type Line struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url"`
	Quantity  uint   `json:"quantity"`
}

// Cart is an immutable value. Add returns a new Cart backed by fresh
// storage, so a caller holding the previous value never observes a
// change through it.
type Cart struct {
	lines []Line
}

func (c Cart) Len() int { return len(c.lines) }

func (c Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Add merges by product id: an already-present product gets its
// quantity incremented by one, anything else is appended with
// quantity 1.
func (c Cart) Add(l Line) Cart {
	next := make([]Line, len(c.lines), len(c.lines)+1)
	copy(next, c.lines)

	for i := range next {
		if next[i].ProductID == l.ProductID {
			next[i].Quantity++
			return Cart{lines: next}
		}
	}

	l.Quantity = 1
	return Cart{lines: append(next, l)}
}

// Store holds one cart per session. Carts live only in memory; an
// order wipes the session's cart and a restart loses them all, which
// is fine because the order itself is the durable record.
type Store struct {
	mu    sync.RWMutex
	carts map[uint]Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[uint]Cart)}
}

func (s *Store) Get(userID uint) Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.carts[userID]
}

func (s *Store) Add(userID uint, l Line) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.carts[userID].Add(l)
	s.carts[userID] = next
	return next
}

func (s *Store) Clear(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
