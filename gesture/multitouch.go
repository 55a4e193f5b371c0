// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gioui.org/multitouch/f32"
	"gioui.org/multitouch/io/pointer"
	"gioui.org/multitouch/io/touch"
)

// Multitouch detects pinch, pan and long press gestures from the
// contacts of a touch surface. Its methods are safe for concurrent
// use; they are applied in one sequence together with the long press
// timer, and gestures are reported after the session state is
// updated.
type Multitouch struct {
	slop  float32
	delay time.Duration
	sched Scheduler
	log   logrus.FieldLogger

	pinchSink PinchZoomer
	panSink   Panner
	pressSink LongPresser

	mu      sync.Mutex
	stopped bool
	mode    Mode
	tracker touch.Tracker
	// dirty is set when the tracked contacts changed since they
	// were last classified.
	dirty bool
	// count is the number of contacts in the previous snapshot.
	count int

	// pinchIDs are the ordered contacts of the pinch; pinchStart
	// is their distance when the pinch started and is never zero.
	pinchIDs   [2]pointer.ID
	pinchStart float32

	// single tracks the only active contact while in Idle or
	// Panning. start is where it was first seen, anchor is the
	// reference of the next pan delta.
	single   bool
	singleID pointer.ID
	start    f32.Point
	anchor   f32.Point

	// timer is the armed long press, if any. gen identifies
	// the current arming; stale firings carry an older gen.
	timer   Timer
	gen     uint64
	pressAt f32.Point
}

// NewMultitouch returns a session in Idle mode that reports
// gestures to sink. Sink may be nil, or implement any of
// PinchZoomer, Panner and LongPresser.
func NewMultitouch(sink interface{}, cfg Config) *Multitouch {
	m := &Multitouch{
		slop:  cfg.slop(),
		delay: cfg.delay(),
		sched: cfg.scheduler(),
		log:   cfg.logger(),
	}
	m.pinchSink, _ = sink.(PinchZoomer)
	m.panSink, _ = sink.(Panner)
	m.pressSink, _ = sink.(LongPresser)
	return m
}

// ContactsChanged replaces the active contacts with the complete
// set in contacts and updates the gesture. Contacts are identified
// by ID; their order is not significant.
func (m *Multitouch) ContactsChanged(contacts []touch.Contact) {
	m.emit(m.set(contacts))
}

// Update applies a single pointer event from an input surface.
// Each event is classified on its own; a surface reporting several
// changes at once should use ContactsChanged or Attach, which
// classify a whole frame.
func (m *Multitouch) Update(e pointer.Event) {
	m.record(e)
	m.flush()
}

// Clear ends every contact, as if the surface reported no contacts.
// It is used when the surface loses its contacts abnormally, such as
// on focus loss.
func (m *Multitouch) Clear() {
	m.ContactsChanged(nil)
}

// Mode reports the current gesture.
func (m *Multitouch) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Stop cancels any pending long press and ignores further contacts.
// Stopping more than once is a no-op.
func (m *Multitouch) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.stopped = true
	m.dirty = false
	m.cancelLongPress()
	m.mode = Idle
	m.single = false
	m.tracker.Set(nil)
	m.count = 0
}

func (m *Multitouch) set(contacts []touch.Contact) []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return nil
	}
	m.tracker.Set(contacts)
	return m.classify()
}

// record applies e to the tracked contacts without classifying them.
func (m *Multitouch) record(e pointer.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	if m.tracker.Update(e) || e.Kind == pointer.Cancel {
		m.dirty = true
	}
}

// flush classifies the contacts recorded since the last flush.
func (m *Multitouch) flush() {
	m.emit(m.classifyRecorded())
}

func (m *Multitouch) classifyRecorded() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped || !m.dirty {
		return nil
	}
	return m.classify()
}

func (m *Multitouch) emit(signals []func()) {
	for _, f := range signals {
		f()
	}
}

// classify runs the state machine on the tracked contacts and returns
// the gestures to report once the lock is released.
func (m *Multitouch) classify() []func() {
	m.dirty = false
	n := m.tracker.Len()
	var out []func()
	switch m.mode {
	case Pinching:
		p0, ok0 := m.tracker.Position(m.pinchIDs[0])
		p1, ok1 := m.tracker.Position(m.pinchIDs[1])
		if n == 2 && ok0 && ok1 {
			scale := p0.Dist(p1) / m.pinchStart
			center := p0.Mid(p1)
			if m.pinchSink != nil {
				out = append(out, func() { m.pinchSink.PinchZoom(scale, center) })
			}
			m.count = n
			return out
		}
		m.mode = Idle
		m.log.WithField("contacts", n).Debug("pinch end")
	case Panning:
		if pos, ok := m.tracker.Position(m.singleID); ok && n == 1 {
			delta := pos.Sub(m.anchor)
			m.anchor = pos
			if m.panSink != nil {
				out = append(out, func() { m.panSink.Pan(delta) })
			}
			m.count = n
			return out
		}
		m.mode = Idle
		m.single = false
		m.log.WithField("contacts", n).Debug("pan end")
	}
	out = m.idle(m.tracker.Contacts(), out)
	m.count = n
	return out
}

// idle applies the Idle transitions to the contacts cs.
func (m *Multitouch) idle(cs []touch.Contact, out []func()) []func() {
	switch len(cs) {
	case 0:
		m.cancelLongPress()
		m.single = false
	case 1:
		c := cs[0]
		if m.single && c.ID == m.singleID {
			if c.Position.Dist(m.start) <= m.slop {
				break
			}
			m.cancelLongPress()
			m.mode = Panning
			delta := c.Position.Sub(m.start)
			m.anchor = c.Position
			m.log.WithFields(logrus.Fields{"id": c.ID, "start": m.start}).Debug("pan start")
			if m.panSink != nil {
				out = append(out, func() { m.panSink.Pan(delta) })
			}
			break
		}
		// A contact left over from a larger set is tracked for
		// panning but is not a fresh press.
		fresh := m.count <= 1
		m.single = true
		m.singleID = c.ID
		m.start = c.Position
		if fresh {
			m.armLongPress(c.Position)
		} else {
			m.cancelLongPress()
		}
	case 2:
		m.cancelLongPress()
		m.single = false
		d := cs[0].Position.Dist(cs[1].Position)
		if d == 0 {
			// Coincident contacts; wait until they separate.
			break
		}
		m.mode = Pinching
		m.pinchIDs = [2]pointer.ID{cs[0].ID, cs[1].ID}
		m.pinchStart = d
		m.log.WithField("distance", d).Debug("pinch start")
	default:
		m.cancelLongPress()
		m.single = false
	}
	return out
}

// armLongPress schedules a long press at pos, replacing any armed one.
func (m *Multitouch) armLongPress(pos f32.Point) {
	m.cancelLongPress()
	m.gen++
	gen := m.gen
	m.pressAt = pos
	m.timer = m.sched.AfterFunc(m.delay, func() {
		m.emit(m.fireLongPress(gen))
	})
}

func (m *Multitouch) cancelLongPress() {
	if m.timer == nil {
		return
	}
	m.timer.Stop()
	m.timer = nil
	m.gen++
}

func (m *Multitouch) fireLongPress(gen uint64) []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped || m.timer == nil || gen != m.gen {
		return nil
	}
	m.timer = nil
	pos := m.pressAt
	m.log.WithField("position", pos).Debug("long press")
	if m.pressSink == nil {
		return nil
	}
	return []func(){func() { m.pressSink.LongPress(pos) }}
}
