// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"sync"

	"gioui.org/multitouch/io/pointer"
	"gioui.org/multitouch/io/router"
)

// Surface is a source of pointer events, such as a router.Router.
type Surface interface {
	// Subscribe registers h for the pointer events of the given
	// kinds and returns a function that removes the subscription.
	// H is flushed after the events of each input frame.
	Subscribe(kinds pointer.Kind, h router.Handler) func()
}

// frameHandler applies the events of a frame to a session and
// classifies the resulting contacts once the frame is flushed.
type frameHandler struct {
	m *Multitouch
}

// attachKinds are subscribed separately, one subscription each.
var attachKinds = [...]pointer.Kind{pointer.Press, pointer.Move, pointer.Release, pointer.Cancel}

// Attach a new Multitouch session to s, reporting gestures to sink.
// The returned detach function unsubscribes from s and stops the
// session, cancelling any pending long press. Only the first call
// to detach has an effect.
func Attach(s Surface, sink interface{}, cfg Config) (detach func()) {
	m := NewMultitouch(sink, cfg)
	h := &frameHandler{m: m}
	var unsubs []func()
	release := func() {
		for i := len(unsubs) - 1; i >= 0; i-- {
			unsubs[i]()
		}
		m.Stop()
	}
	attached := false
	defer func() {
		if !attached {
			// Subscribe panicked; undo the subscriptions made so far.
			release()
		}
	}()
	for _, k := range attachKinds {
		unsubs = append(unsubs, s.Subscribe(k, h))
	}
	attached = true
	var once sync.Once
	return func() {
		once.Do(release)
	}
}

func (h *frameHandler) Event(e pointer.Event) {
	h.m.record(e)
}

func (h *frameHandler) Flush() {
	h.m.flush()
}
