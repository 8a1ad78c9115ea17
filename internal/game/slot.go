package game

import "sync"

// ActionSlot is a single-use rendezvous between the hand loop and an
// external action source. The loop opens it for one seat and waits; the
// source fulfils it once. Deliveries for another seat, after fulfilment, or
// while closed are dropped.
type ActionSlot struct {
	mu   sync.Mutex
	seat int
	req  ActionRequest
	ch   chan Decision
}

// NewActionSlot returns a closed slot
func NewActionSlot() *ActionSlot {
	return &ActionSlot{seat: -1}
}

// Open arms the slot for req.Seat and returns the channel the decision will
// arrive on. Any previous wait is discarded.
func (s *ActionSlot) Open(req ActionRequest) <-chan Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seat = req.Seat
	s.req = req
	s.ch = make(chan Decision, 1)
	return s.ch
}

// Close disarms the slot
func (s *ActionSlot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seat = -1
	s.ch = nil
}

// Fulfil delivers d if the slot is open for seat. It reports whether the
// decision was accepted.
func (s *ActionSlot) Fulfil(seat int, d Decision) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ch == nil || s.seat != seat {
		return false
	}
	s.ch <- d
	s.ch = nil
	s.seat = -1
	return true
}

// Pending returns the request currently awaited, if any
func (s *ActionSlot) Pending() (ActionRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ch == nil {
		return ActionRequest{}, false
	}
	return s.req, true
}
