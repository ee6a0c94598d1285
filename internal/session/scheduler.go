package session

import "time"

// Token identifies one armed auto-advance timer. A token is only honoured
// while it is the scheduler's live epoch.
type Token uint64

// AfterFunc starts a one-shot timer that calls f after d on its own
// goroutine and returns a function that stops it. Implementations must not
// call f synchronously.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

// TimeAfterFunc is the AfterFunc backed by time.AfterFunc.
func TimeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Scheduler arms at most one auto-advance timer at a time. Cancelling or
// accepting bumps or consumes the epoch so a timer that fires late is
// recognised as stale.
//
// Scheduler is not safe for concurrent use; the controller serializes it.
type Scheduler struct {
	delay    time.Duration
	after    AfterFunc
	dispatch func(Token)

	epoch Token
	armed bool
	stop  func() bool
}

// NewScheduler creates a scheduler that calls dispatch with the armed token
// once delay has elapsed.
func NewScheduler(delay time.Duration, after AfterFunc, dispatch func(Token)) *Scheduler {
	if after == nil {
		after = TimeAfterFunc
	}
	return &Scheduler{delay: delay, after: after, dispatch: dispatch}
}

// Arm starts the timer. If a timer is already armed its token is returned
// and no second timer is started.
func (s *Scheduler) Arm() (Token, bool) {
	if s.armed {
		return s.epoch, false
	}
	s.epoch++
	tok := s.epoch
	s.armed = true
	dispatch := s.dispatch
	s.stop = s.after(s.delay, func() {
		if dispatch != nil {
			dispatch(tok)
		}
	})
	return tok, true
}

// Cancel stops the armed timer, if any, and invalidates its token.
func (s *Scheduler) Cancel() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.armed = false
	s.epoch++
}

// Accept reports whether tok is the live armed token and disarms it.
// It returns true at most once per Arm.
func (s *Scheduler) Accept(tok Token) bool {
	if !s.armed || tok != s.epoch {
		return false
	}
	s.armed = false
	s.stop = nil
	return true
}

// Armed reports whether a timer is pending.
func (s *Scheduler) Armed() bool {
	return s.armed
}

// Delay returns the configured auto-advance delay.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}
