// SPDX-License-Identifier: Unlicense OR MIT

/*
Package pointer implements the raw contact events delivered by a
touch input surface.

Every contact is identified by a PointerID for as long as it touches
the surface. A contact starts with a Press, reports its positions with
Move and ends with Release. A Cancel ends every contact at once, for
example when the surface loses focus.
*/
package pointer

import (
	"strings"
	"time"

	"gioui.org/multitouch/f32"
)

// Event is a pointer event.
type Event struct {
	Kind Kind
	// PointerID is the id for the pointer and can be used
	// to track a particular pointer from Press to
	// Release or Cancel.
	PointerID ID
	// Time is when the event was received. The
	// timestamp is relative to an undefined base.
	Time time.Duration
	// Position is the surface coordinates of the contact.
	// Position is ignored for Cancel events.
	Position f32.Point
}

// ID uniquely identifies an active contact.
type ID uint16

// Kind of an Event.
type Kind uint

const (
	// A Cancel event is generated when the current gesture is
	// interrupted by other handlers or the system.
	Cancel Kind = 1 << iota
	// Press of a pointer.
	Press
	// Release of a pointer.
	Release
	// Move of a pointer.
	Move
)

// Kinds lists every single Kind, in bit order.
var Kinds = [...]Kind{Cancel, Press, Release, Move}

func (t Kind) String() string {
	if t == Cancel {
		return "Cancel"
	}
	var buf strings.Builder
	for _, tt := range Kinds {
		if t&tt > 0 {
			if buf.Len() > 0 {
				buf.WriteByte('|')
			}
			buf.WriteString((t & tt).string())
		}
	}
	return buf.String()
}

func (t Kind) string() string {
	switch t {
	case Press:
		return "Press"
	case Release:
		return "Release"
	case Cancel:
		return "Cancel"
	case Move:
		return "Move"
	default:
		panic("unknown Kind")
	}
}

func (Event) ImplementsEvent() {}
