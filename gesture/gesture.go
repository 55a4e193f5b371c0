// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gesture implements multitouch gestures.

A Multitouch session accepts the active contacts of a touch surface
and detects pinch-zoom, pan and long-press gestures. Pinch and pan are
mutually exclusive: two contacts pinch, a single contact that moved
beyond the slop pans. A single contact held still for the long-press
delay reports a long press.

Gestures are delivered to a sink chosen when the session is created.
The sink implements any subset of PinchZoomer, Panner and
LongPresser; gestures the sink does not handle are still tracked, but
not reported.
*/
package gesture

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"gioui.org/multitouch/f32"
	"gioui.org/multitouch/unit"
)

// Mode is the gesture currently recognized by a Multitouch session.
type Mode uint8

const (
	// Idle is the default mode.
	Idle Mode = iota
	// Pinching is reported while two contacts pinch.
	Pinching
	// Panning is reported while a single contact pans.
	Panning
)

const (
	// DefaultPanSlop is the distance a single contact must move
	// from its start position before it pans.
	DefaultPanSlop = unit.Dp(10)
	// DefaultLongPressDelay is how long a single contact must stay
	// within the slop to report a long press.
	DefaultLongPressDelay = 500 * time.Millisecond
)

// PinchZoomer receives pinch gestures. Scale is the ratio of the
// current contact distance to the distance when the pinch started;
// center is the midpoint of the current contacts.
type PinchZoomer interface {
	PinchZoom(scale float32, center f32.Point)
}

// Panner receives pan gestures. Delta is the movement since the
// previous pan, or since the contact started for the first pan.
type Panner interface {
	Pan(delta f32.Point)
}

// LongPresser receives long press gestures at the position of the
// contact when it started.
type LongPresser interface {
	LongPress(pos f32.Point)
}

// Funcs adapts optional functions to a gesture sink. Nil fields
// are skipped.
type Funcs struct {
	OnPinchZoom func(scale float32, center f32.Point)
	OnPan       func(delta f32.Point)
	OnLongPress func(pos f32.Point)
}

// Scheduler runs functions after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a function scheduled by a Scheduler.
type Timer interface {
	// Stop prevents the function from running and reports
	// whether it did so.
	Stop() bool
}

// Config holds the tunables of a Multitouch session. The zero
// value selects the defaults.
type Config struct {
	// PanSlop defaults to DefaultPanSlop.
	PanSlop unit.Dp
	// LongPressDelay defaults to DefaultLongPressDelay.
	LongPressDelay time.Duration
	// Metric converts PanSlop to surface pixels.
	Metric unit.Metric
	// Scheduler runs the long press timer. It defaults to
	// time.AfterFunc.
	Scheduler Scheduler
	// Logger receives debug entries for gesture transitions.
	Logger logrus.FieldLogger
}

type realScheduler struct{}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// PinchZoom calls OnPinchZoom, if set.
func (f Funcs) PinchZoom(scale float32, center f32.Point) {
	if f.OnPinchZoom != nil {
		f.OnPinchZoom(scale, center)
	}
}

// Pan calls OnPan, if set.
func (f Funcs) Pan(delta f32.Point) {
	if f.OnPan != nil {
		f.OnPan(delta)
	}
}

// LongPress calls OnLongPress, if set.
func (f Funcs) LongPress(pos f32.Point) {
	if f.OnLongPress != nil {
		f.OnLongPress(pos)
	}
}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (c Config) slop() float32 {
	s := c.PanSlop
	if s <= 0 {
		s = DefaultPanSlop
	}
	return c.Metric.Dp(s)
}

func (c Config) delay() time.Duration {
	if c.LongPressDelay <= 0 {
		return DefaultLongPressDelay
	}
	return c.LongPressDelay
}

func (c Config) scheduler() Scheduler {
	if c.Scheduler == nil {
		return realScheduler{}
	}
	return c.Scheduler
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return discard
	}
	return c.Logger
}

func (m Mode) String() string {
	switch m {
	case Idle:
		return "Idle"
	case Pinching:
		return "Pinching"
	case Panning:
		return "Panning"
	default:
		panic("invalid Mode")
	}
}
