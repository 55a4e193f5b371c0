// SPDX-License-Identifier: Unlicense OR MIT

package clock

import (
	"reflect"
	"testing"
	"time"
)

func TestManualOrder(t *testing.T) {
	var m Manual
	var fired []string
	var at []time.Duration
	record := func(name string) func() {
		return func() {
			fired = append(fired, name)
			at = append(at, m.Now())
		}
	}
	m.AfterFunc(300*time.Millisecond, record("c"))
	m.AfterFunc(100*time.Millisecond, record("a"))
	m.AfterFunc(100*time.Millisecond, record("b"))

	m.Advance(99 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("timers fired early: %v", fired)
	}
	m.Advance(time.Second)
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(fired, want) {
		t.Errorf("fired %v, want %v", fired, want)
	}
	if want := []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 300 * time.Millisecond}; !reflect.DeepEqual(at, want) {
		t.Errorf("fired at %v, want %v", at, want)
	}
	if got, want := m.Now(), 1099*time.Millisecond; got != want {
		t.Errorf("Now() = %v, want %v", got, want)
	}
}

func TestManualStop(t *testing.T) {
	var m Manual
	fired := false
	tm := m.AfterFunc(time.Second, func() { fired = true })
	if m.Pending() != 1 {
		t.Fatalf("got %d pending timers, want 1", m.Pending())
	}
	if !tm.Stop() {
		t.Error("Stop of a pending timer returned false")
	}
	if tm.Stop() {
		t.Error("second Stop returned true")
	}
	m.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestManualReschedule(t *testing.T) {
	var m Manual
	n := 0
	var tick func()
	tick = func() {
		n++
		if n < 3 {
			m.AfterFunc(10*time.Millisecond, tick)
		}
	}
	m.AfterFunc(10*time.Millisecond, tick)
	m.Advance(30 * time.Millisecond)
	if n != 3 {
		t.Errorf("chained timer ran %d times, want 3", n)
	}
	if m.Pending() != 0 {
		t.Errorf("%d timers left pending", m.Pending())
	}
}
