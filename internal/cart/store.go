package cart

import (
	"sync"

	"github.com/Raj-3200/depthndecoy/internal/domain"
)

// Store holds the line items of one shopping session. It is the only
// mutable state shared between the catalog pages and the checkout flow,
// and it is never persisted: a session that ends takes its cart with it.
//
// Lines are keyed by (ProductID, Size) and kept in insertion order.
type Store struct {
	mu    sync.RWMutex
	lines []domain.CartLine
}

func NewStore() *Store {
	return &Store{}
}

// AddLine merges the incoming line into an existing (ProductID, Size)
// line by adding quantities, or appends it. No stock limit is enforced
// here; that is the transport layer's concern.
func (s *Store) AddLine(line domain.CartLine) {
	if line.Quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == line.ProductID && s.lines[i].Size == line.Size {
			s.lines[i].Quantity += line.Quantity
			return
		}
	}
	s.lines = append(s.lines, line)
}

// RemoveLine deletes the matching line. Removing an absent line is a no-op.
func (s *Store) RemoveLine(productID, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.lines {
		if line.ProductID == productID && line.Size == size {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the line's quantity. A quantity below 1 removes
// the line, so SetQuantity(p, s, 0) and RemoveLine(p, s) are equivalent.
func (s *Store) SetQuantity(productID, size string, quantity int) {
	if quantity < 1 {
		s.RemoveLine(productID, size)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == productID && s.lines[i].Size == size {
			s.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart. Invoked after a successful order placement.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a copy of the current line items.
func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total is recomputed from the line set on every call, never cached.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, line := range s.lines {
		total += line.LineTotal()
	}
	return total
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}
