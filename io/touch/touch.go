// SPDX-License-Identifier: Unlicense OR MIT

/*
Package touch tracks the set of contacts active on a touch surface.

A Tracker holds the authoritative snapshot of contacts keyed by their
pointer.ID. It can be fed either complete snapshots with Set, or raw
pointer events with Update. Contacts are always reported in ID order,
so a source that reorders its contacts between reports does not
change the meaning of a snapshot.

Invalid input is not rejected: duplicate IDs resolve to the last
reported position and unknown IDs in Move events are added.
*/
package touch

import (
	"golang.org/x/exp/slices"

	"gioui.org/multitouch/f32"
	"gioui.org/multitouch/io/pointer"
)

// Contact is a single active touch point.
type Contact struct {
	ID       pointer.ID
	Position f32.Point
}

// Tracker maintains the set of active contacts. The zero
// value is an empty Tracker ready to use.
type Tracker struct {
	// contacts is sorted by ID and free of duplicates.
	contacts []Contact
}

// Set replaces the tracked contacts with the complete set of
// active contacts. An empty set ends every contact.
func (t *Tracker) Set(contacts []Contact) {
	t.contacts = Normalize(t.contacts[:0], contacts)
}

// Update applies a single pointer event and reports whether the
// set of contacts or any of their positions changed.
func (t *Tracker) Update(e pointer.Event) bool {
	switch e.Kind {
	case pointer.Cancel:
		changed := len(t.contacts) > 0
		t.contacts = t.contacts[:0]
		return changed
	case pointer.Release:
		i, ok := t.index(e.PointerID)
		if !ok {
			return false
		}
		t.contacts = slices.Delete(t.contacts, i, i+1)
		return true
	case pointer.Press, pointer.Move:
		i, ok := t.index(e.PointerID)
		if ok {
			if t.contacts[i].Position == e.Position {
				return false
			}
			t.contacts[i].Position = e.Position
			return true
		}
		t.contacts = slices.Insert(t.contacts, i, Contact{ID: e.PointerID, Position: e.Position})
		return true
	}
	return false
}

// Contacts returns a copy of the active contacts in ID order.
func (t *Tracker) Contacts() []Contact {
	return slices.Clone(t.contacts)
}

// Len returns the number of active contacts.
func (t *Tracker) Len() int {
	return len(t.contacts)
}

// Position returns the position of the contact identified by id.
func (t *Tracker) Position(id pointer.ID) (f32.Point, bool) {
	if i, ok := t.index(id); ok {
		return t.contacts[i].Position, true
	}
	return f32.Point{}, false
}

func (t *Tracker) index(id pointer.ID) (int, bool) {
	return slices.BinarySearchFunc(t.contacts, id, func(c Contact, id pointer.ID) int {
		return int(c.ID) - int(id)
	})
}

// Normalize appends contacts to dst sorted by ID, keeping only the
// last occurrence of a duplicated ID. The input is not modified.
func Normalize(dst, contacts []Contact) []Contact {
	start := len(dst)
	// Later duplicates win; a stable sort keeps them after earlier ones.
	dst = append(dst, contacts...)
	s := dst[start:]
	slices.SortStableFunc(s, func(a, b Contact) int {
		return int(a.ID) - int(b.ID)
	})
	out := s[:0]
	for i, c := range s {
		if i+1 < len(s) && s[i+1].ID == c.ID {
			continue
		}
		out = append(out, c)
	}
	return dst[:start+len(out)]
}

// Diff returns the pointer events that turn the snapshot prev into
// next: releases for contacts that ended, presses for new contacts
// and moves for contacts whose position changed. Releases come
// first, then presses, then moves. Snapshots need not be sorted.
func Diff(prev, next []Contact) []pointer.Event {
	p := Normalize(nil, prev)
	n := Normalize(nil, next)
	var releases, presses, moves []pointer.Event
	find := func(cs []Contact, id pointer.ID) (Contact, bool) {
		i, ok := slices.BinarySearchFunc(cs, id, func(c Contact, id pointer.ID) int {
			return int(c.ID) - int(id)
		})
		if !ok {
			return Contact{}, false
		}
		return cs[i], true
	}
	for _, c := range p {
		if _, ok := find(n, c.ID); !ok {
			releases = append(releases, pointer.Event{Kind: pointer.Release, PointerID: c.ID, Position: c.Position})
		}
	}
	for _, c := range n {
		old, ok := find(p, c.ID)
		switch {
		case !ok:
			presses = append(presses, pointer.Event{Kind: pointer.Press, PointerID: c.ID, Position: c.Position})
		case old.Position != c.Position:
			moves = append(moves, pointer.Event{Kind: pointer.Move, PointerID: c.ID, Position: c.Position})
		}
	}
	return append(append(releases, presses...), moves...)
}
