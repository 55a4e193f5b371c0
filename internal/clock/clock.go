// SPDX-License-Identifier: Unlicense OR MIT

// Package clock implements a manually advanced scheduler for
// deterministic gesture timing in tests and trace replays.
package clock

import (
	"sync"
	"time"

	"gioui.org/multitouch/gesture"
)

// Manual is a gesture.Scheduler whose time only moves when
// Advance or AdvanceTo is called. Timer functions run on the
// goroutine that advances the clock. The zero value starts at
// time zero.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*Timer
}

// Timer is a pending function scheduled on a Manual clock.
type Timer struct {
	m    *Manual
	when time.Duration
	seq  uint64
	f    func()
}

var _ gesture.Scheduler = (*Manual)(nil)

// Now returns the current time of the clock.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (m *Manual) AfterFunc(d time.Duration, f func()) gesture.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &Timer{m: m, when: m.now + d, seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Pending returns the number of scheduled timers that have
// neither fired nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves the clock forward by d, running every timer that
// becomes due in deadline order.
func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.Now() + d)
}

// AdvanceTo moves the clock to t, running every timer due at or
// before t. Timers scheduled by a running timer fire in the same
// call when they are due. AdvanceTo never moves the clock back.
func (m *Manual) AdvanceTo(t time.Duration) {
	for {
		m.mu.Lock()
		next := -1
		for i, tm := range m.timers {
			if tm.when > t {
				continue
			}
			if next == -1 || tm.when < m.timers[next].when ||
				(tm.when == m.timers[next].when && tm.seq < m.timers[next].seq) {
				next = i
			}
		}
		if next == -1 {
			if t > m.now {
				m.now = t
			}
			m.mu.Unlock()
			return
		}
		tm := m.timers[next]
		m.timers = append(m.timers[:next], m.timers[next+1:]...)
		if tm.when > m.now {
			m.now = tm.when
		}
		m.mu.Unlock()
		tm.f()
	}
}

// Stop prevents the timer from firing. It reports whether the
// call stopped the timer.
func (t *Timer) Stop() bool {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, tm := range m.timers {
		if tm == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}
