package progress

import (
	"sync"
	"time"

	"image-crawler-go/pkg/clock"
)

// Config tunes the simulated progress bar. Zero fields take the defaults.
type Config struct {
	TickInterval time.Duration
	Step         int
	Ceiling      int
	ResetDelay   time.Duration
}

const (
	DefaultTickInterval = 300 * time.Millisecond
	DefaultStep         = 10
	DefaultCeiling      = 90
	DefaultResetDelay   = time.Second

	Done = 100
)

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.Step <= 0 {
		c.Step = DefaultStep
	}
	if c.Ceiling <= 0 || c.Ceiling > Done {
		c.Ceiling = DefaultCeiling
	}
	if c.ResetDelay <= 0 {
		c.ResetDelay = DefaultResetDelay
	}
	return c
}

// Simulator drives a bounded, non-decreasing progress value while an
// operation of unknown duration is pending.
type Simulator struct {
	clock clock.Clock
	cfg   Config

	mu        sync.Mutex
	value     int
	gen       uint64
	seq       uint64 // bumped on every change, under mu
	run       *Run
	reset     clock.Timer
	observers []func(int)

	// emitMu serializes observer calls. A change that loses the race to a
	// newer one is dropped, so observers see values in change order.
	emitMu    sync.Mutex
	delivered uint64
}

// Run is the handle of one Start call.
type Run struct {
	s         *Simulator
	timer     clock.Timer
	cancelled bool
}

// New creates a simulator on c. A nil clock uses the real one.
func New(c clock.Clock, cfg Config) *Simulator {
	if c == nil {
		c = clock.Real()
	}
	return &Simulator{clock: c, cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (s *Simulator) Config() Config {
	return s.cfg
}

// Value returns the current progress in [0,100].
func (s *Simulator) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Active reports whether a run is ticking or waiting on its ceiling.
func (s *Simulator) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run != nil
}

// OnChange registers fn to be called with new values, in the order they
// were set. A value superseded before it could be delivered is skipped, so
// the last call always carries the current value. fn must not call Start or
// Complete.
func (s *Simulator) OnChange(fn func(int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Start resets progress to 0 and begins ticking. Any previous run and any
// pending reset are cancelled first so ticks never overlap.
func (s *Simulator) Start() *Run {
	s.mu.Lock()
	if s.run != nil {
		s.run.cancelLocked()
	}
	s.stopResetLocked()
	s.gen++
	r := &Run{s: s}
	s.run = r
	s.value = 0
	r.timer = s.clock.AfterFunc(s.cfg.TickInterval, func() { s.tick(r) })
	c := s.changeLocked()
	s.mu.Unlock()

	s.emit(c)
	return r
}

// Cancel stops the run's ticks. It is safe to call more than once.
func (r *Run) Cancel() {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.cancelLocked()
	if r.s.run == r {
		r.s.run = nil
	}
}

func (r *Run) cancelLocked() {
	if r.cancelled {
		return
	}
	r.cancelled = true
	if r.timer != nil {
		r.timer.Stop()
	}
}

func (s *Simulator) tick(r *Run) {
	s.mu.Lock()
	if r.cancelled || s.run != r {
		s.mu.Unlock()
		return
	}
	if s.value >= s.cfg.Ceiling {
		// Hold at the ceiling until Complete.
		r.timer = nil
		s.mu.Unlock()
		return
	}
	s.value = min(s.value+s.cfg.Step, s.cfg.Ceiling)
	if s.value < s.cfg.Ceiling {
		r.timer = s.clock.AfterFunc(s.cfg.TickInterval, func() { s.tick(r) })
	} else {
		r.timer = nil
	}
	c := s.changeLocked()
	s.mu.Unlock()

	s.emit(c)
}

// Complete cancels the active run, forces progress to 100 and schedules a
// reset to 0 after the configured delay.
func (s *Simulator) Complete() {
	s.mu.Lock()
	if s.run != nil {
		s.run.cancelLocked()
		s.run = nil
	}
	s.stopResetLocked()
	s.gen++
	gen := s.gen
	s.value = Done
	s.reset = s.clock.AfterFunc(s.cfg.ResetDelay, func() { s.resetTo0(gen) })
	c := s.changeLocked()
	s.mu.Unlock()

	s.emit(c)
}

func (s *Simulator) resetTo0(gen uint64) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.reset = nil
	s.value = 0
	c := s.changeLocked()
	s.mu.Unlock()

	s.emit(c)
}

func (s *Simulator) stopResetLocked() {
	if s.reset != nil {
		s.reset.Stop()
		s.reset = nil
	}
}

type change struct {
	seq       uint64
	value     int
	observers []func(int)
}

func (s *Simulator) changeLocked() change {
	s.seq++
	return change{seq: s.seq, value: s.value, observers: s.observers}
}

func (s *Simulator) emit(c change) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if c.seq <= s.delivered {
		return
	}
	s.delivered = c.seq
	for _, fn := range c.observers {
		fn(c.value)
	}
}
