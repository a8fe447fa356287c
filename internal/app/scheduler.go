package app

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// EventScheduler runs deferred functions on the next turn of the event
// loop. Defer wakes the loop by posting an interrupt event.
type EventScheduler struct {
	mu    sync.Mutex
	queue []func()
	wake  func()
}

// NewEventScheduler creates a scheduler that wakes the loop through post
func NewEventScheduler(post func(tcell.Event) error) *EventScheduler {
	s := &EventScheduler{}
	if post != nil {
		s.wake = func() {
			_ = post(tcell.NewEventInterrupt(nil))
		}
	}
	return s
}

// Defer queues fn for the next loop turn
func (s *EventScheduler) Defer(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
	if s.wake != nil {
		s.wake()
	}
}

// Drain runs the queued functions, including functions they queue, and
// returns how many ran
func (s *EventScheduler) Drain() int {
	n := 0
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return n
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		fn()
		n++
	}
}
