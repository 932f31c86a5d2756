// Package scheduler runs delayed callbacks on the game loop's clock.
//
// A Scheduler never starts goroutines or timers of its own. Time only moves when
// the owner calls Update with the elapsed tick duration, so every callback runs on
// the owner's goroutine.
package scheduler

import "time"

// Handle refers to a scheduled callback.
type Handle struct {
	deadline  time.Duration
	seq       uint64
	fn        func()
	cancelled bool
	fired     bool
}

// Cancel prevents the callback from running. Cancelling a nil, fired or
// already-cancelled handle is a no-op.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.cancelled = true
}

// Active reports whether the callback is still waiting to run.
func (h *Handle) Active() bool {
	return h != nil && !h.cancelled && !h.fired
}

// Scheduler is not safe for concurrent use.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	timers []*Handle
}

func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the total time advanced through Update.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) *Handle {
	if d < 0 {
		d = 0
	}
	s.seq++
	h := &Handle{
		deadline: s.now + d,
		seq:      s.seq,
		fn:       fn,
	}
	s.timers = append(s.timers, h)
	return h
}

// Update advances the clock by dt and runs every due callback in deadline order.
// Callbacks scheduled while updating run in the same call if they are already due.
func (s *Scheduler) Update(dt time.Duration) {
	if dt > 0 {
		s.now += dt
	}

	for {
		next := s.nextDue()
		if next == nil {
			break
		}
		next.fired = true
		next.fn()
	}

	s.compact()
}

// Pending returns the number of callbacks that have not run or been cancelled.
func (s *Scheduler) Pending() int {
	count := 0
	for _, h := range s.timers {
		if h.Active() {
			count++
		}
	}
	return count
}

// CancelAll cancels every outstanding callback.
func (s *Scheduler) CancelAll() {
	for _, h := range s.timers {
		h.Cancel()
	}
	s.timers = nil
}

func (s *Scheduler) nextDue() *Handle {
	var next *Handle
	for _, h := range s.timers {
		if !h.Active() || h.deadline > s.now {
			continue
		}
		if next == nil || h.deadline < next.deadline || (h.deadline == next.deadline && h.seq < next.seq) {
			next = h
		}
	}
	return next
}

func (s *Scheduler) compact() {
	active := s.timers[:0]
	for _, h := range s.timers {
		if h.Active() {
			active = append(active, h)
		}
	}
	for i := len(active); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = active
}
