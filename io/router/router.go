// SPDX-License-Identifier: Unlicense OR MIT

/*
Package router implements an input surface that routes pointer
events to the handlers subscribed to their kind.

Router is the dispatcher shared by an input source and the gesture
recognizers attached to it. The source calls Queue with the events of
one input frame; every handler whose subscription matches an event
kind receives the event, in subscription order, on the goroutine that
called Queue. Once the frame is delivered, each handler that received
events is flushed exactly once, even when it is subscribed to several
kinds.
*/
package router

import (
	"sync"

	"golang.org/x/exp/slices"

	"gioui.org/multitouch/io/event"
	"gioui.org/multitouch/io/pointer"
)

// Handler receives the pointer events of a Router.
type Handler interface {
	// Event delivers a single event of the frame being queued.
	Event(e pointer.Event)
	// Flush marks the end of a frame in which Event was called.
	Flush()
}

// Router routes pointer events to subscribed handlers. The zero
// value is ready to use.
type Router struct {
	mu   sync.Mutex
	subs []*subscription
}

type subscription struct {
	kinds   pointer.Kind
	handler Handler
	// removed is guarded by Router.mu.
	removed bool
}

// Subscribe registers h for every pointer event whose kind is
// included in kinds, a bitwise-or of pointer kinds. Handlers are
// compared with ==, so subscribing the same h for several kinds
// shares one Flush per frame; h must be comparable, such as a
// pointer.
//
// The returned function removes the subscription; it is safe to
// call more than once. Events queued after it returns are not
// delivered to h, and a Queue call in progress skips h for its
// remaining events. An Event call already started by another
// goroutine may still complete.
func (q *Router) Subscribe(kinds pointer.Kind, h Handler) func() {
	s := &subscription{kinds: kinds, handler: h}
	q.mu.Lock()
	q.subs = append(q.subs, s)
	q.mu.Unlock()
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if s.removed {
			return
		}
		s.removed = true
		if i := slices.Index(q.subs, s); i >= 0 {
			q.subs = slices.Delete(q.subs, i, i+1)
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (q *Router) Subscribers() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.subs)
}

// Queue the events of one frame to their handlers and report
// whether at least one handler received an event. Events other than
// pointer.Event are ignored.
func (q *Router) Queue(events ...event.Event) bool {
	var flush []Handler
	for _, e := range events {
		pe, ok := e.(pointer.Event)
		if !ok {
			continue
		}
		for _, s := range q.matching(pe.Kind) {
			if !q.active(s) {
				continue
			}
			if !slices.Contains(flush, s.handler) {
				flush = append(flush, s.handler)
			}
			s.handler.Event(pe)
		}
	}
	for _, h := range flush {
		h.Flush()
	}
	return len(flush) > 0
}

func (q *Router) matching(k pointer.Kind) []*subscription {
	q.mu.Lock()
	defer q.mu.Unlock()
	var subs []*subscription
	for _, s := range q.subs {
		if s.kinds&k != 0 {
			subs = append(subs, s)
		}
	}
	return subs
}

func (q *Router) active(s *subscription) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !s.removed
}
