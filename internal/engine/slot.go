package engine

import (
	"sync"

	"github.com/genricoloni/artshow/internal/domain"
)

// SlotState is the lifecycle of the handoff slot
type SlotState int

const (
	// SlotEmpty holds nothing and nothing is being prepared
	SlotEmpty SlotState = iota
	// SlotPreparing means the worker is preparing a slide for the current generation
	SlotPreparing
	// SlotReady holds a prepared slide waiting for pickup
	SlotReady
	// SlotFailed is terminal: every playlist entry failed
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotEmpty:
		return "Empty"
	case SlotPreparing:
		return "Preparing"
	case SlotReady:
		return "Ready"
	case SlotFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Slot is the single-item mailbox between the preload worker and the display loop.
//
// Semantics:
//   - Empty -> Preparing (Reset) -> Ready (Publish) -> Empty (TryTake)
//   - Every Reset starts a new generation; Publish and Fail for an older
//     generation are discarded, so retargeted work finishes and is dropped
//   - TryTake never blocks; Changed lets a single waiter block with a context
//
// Thread-safety: all fields protected by mu.
type Slot struct {
	mu      sync.Mutex
	state   SlotState
	gen     uint64
	slide   *domain.Slide
	err     error
	changed chan struct{} // capacity 1, coalesces notifications
}

// NewSlot creates an empty slot at generation 0
func NewSlot() *Slot {
	return &Slot{
		changed: make(chan struct{}, 1),
	}
}

// Reset drops any held slide and moves to Preparing for gen.
// A Failed slot stays failed.
func (s *Slot) Reset(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen = gen
	if s.state == SlotFailed {
		return
	}
	s.slide = nil
	s.state = SlotPreparing
}

// Publish stores slide if gen is current and the slot is Preparing.
// It reports whether the slide was accepted.
func (s *Slot) Publish(slide *domain.Slide, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.state != SlotPreparing {
		return false
	}
	s.slide = slide
	s.state = SlotReady
	s.notify()
	return true
}

// Fail moves the slot to the terminal Failed state if gen is current
func (s *Slot) Fail(err error, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.state != SlotPreparing {
		return false
	}
	s.slide = nil
	s.err = err
	s.state = SlotFailed
	s.notify()
	return true
}

// TryTake returns the ready slide and empties the slot. It returns (nil, nil)
// when nothing is ready and the terminal error once the slot has failed.
func (s *Slot) TryTake() (*domain.Slide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SlotReady:
		slide := s.slide
		s.slide = nil
		s.state = SlotEmpty
		return slide, nil
	case SlotFailed:
		return nil, s.err
	default:
		return nil, nil
	}
}

// Clear empties the slot unless it has failed, leaving the generation untouched
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SlotFailed {
		s.slide = nil
		s.state = SlotEmpty
	}
}

// State returns the current state
func (s *Slot) State() SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Generation returns the current generation
func (s *Slot) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Changed signals after a Publish or Fail. Receivers must re-check with TryTake.
func (s *Slot) Changed() <-chan struct{} {
	return s.changed
}

// notify must be called with mu held
func (s *Slot) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}
