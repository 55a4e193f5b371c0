// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gioui.org/multitouch/f32"
	"gioui.org/multitouch/gesture"
	"gioui.org/multitouch/internal/clock"
	"gioui.org/multitouch/internal/remote"
	"gioui.org/multitouch/io/event"
	"gioui.org/multitouch/io/pointer"
	"gioui.org/multitouch/io/router"
	"gioui.org/multitouch/io/touch"
)

// frame is a recorded snapshot of the contacts at time T
// milliseconds, or a cancellation of all contacts.
type frame struct {
	T        int64            `json:"t"`
	Contacts []remote.Contact `json:"contacts,omitempty"`
	Cancel   bool             `json:"cancel,omitempty"`
}

type pinchRecord struct {
	T     int64   `json:"t"`
	Type  string  `json:"type"`
	Scale float32 `json:"scale"`
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
}

type panRecord struct {
	T    int64   `json:"t"`
	Type string  `json:"type"`
	DX   float32 `json:"dx"`
	DY   float32 `json:"dy"`
}

type longPressRecord struct {
	T    int64   `json:"t"`
	Type string  `json:"type"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
}

// recorder writes recognized gestures as JSON lines, stamped with
// the replay clock.
type recorder struct {
	enc *json.Encoder
	clk *clock.Manual
	err error
}

func newReplayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [trace.json]",
		Short: "Replay a recorded trace and print the recognized gestures",
		Long: `replay reads a JSON array of frames, such as

  [{"t": 0, "contacts": [{"id": 1, "x": 0, "y": 0}]},
   {"t": 100, "contacts": [{"id": 1, "x": 50, "y": 0}]},
   {"t": 200, "cancel": true}]

and prints one JSON line per recognized gesture. Time is simulated:
long presses fire at their deadline in trace time. Without an
argument, or with "-", the trace is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			frames, err := readTrace(in)
			if err != nil {
				return err
			}
			clk := new(clock.Manual)
			return replay(frames, a.cfg.Gesture(clk, a.log), clk, cmd.OutOrStdout())
		},
	}
}

func readTrace(r io.Reader) ([]frame, error) {
	var frames []frame
	if err := json.NewDecoder(r).Decode(&frames); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	return frames, nil
}

// replay runs frames through a gesture session scheduled on clk
// and writes the gestures to w.
func replay(frames []frame, cfg gesture.Config, clk *clock.Manual, w io.Writer) error {
	rec := &recorder{enc: json.NewEncoder(w), clk: clk}
	var surface router.Router
	detach := gesture.Attach(&surface, rec, cfg)
	defer detach()

	var contacts []touch.Contact
	var last time.Duration
	for i, f := range frames {
		t := time.Duration(f.T) * time.Millisecond
		if t < last {
			return fmt.Errorf("trace: frame %d at %dms is before %dms", i, f.T, last.Milliseconds())
		}
		last = t
		clk.AdvanceTo(t)
		if f.Cancel {
			surface.Queue(pointer.Event{Kind: pointer.Cancel, Time: t})
			contacts = contacts[:0]
			continue
		}
		next := make([]touch.Contact, len(f.Contacts))
		for j, c := range f.Contacts {
			next[j] = touch.Contact{ID: c.ID, Position: f32.Pt(c.X, c.Y)}
		}
		var events []event.Event
		for _, e := range touch.Diff(contacts, next) {
			e.Time = t
			events = append(events, e)
		}
		surface.Queue(events...)
		contacts = touch.Normalize(contacts[:0], next)
		if rec.err != nil {
			return rec.err
		}
	}
	// Report a hold that outlasts the trace.
	delay := cfg.LongPressDelay
	if delay <= 0 {
		delay = gesture.DefaultLongPressDelay
	}
	clk.Advance(delay)
	return rec.err
}

func (r *recorder) now() int64 {
	return r.clk.Now().Milliseconds()
}

func (r *recorder) PinchZoom(scale float32, center f32.Point) {
	r.write(pinchRecord{T: r.now(), Type: "pinch", Scale: scale, X: center.X, Y: center.Y})
}

func (r *recorder) Pan(delta f32.Point) {
	r.write(panRecord{T: r.now(), Type: "pan", DX: delta.X, DY: delta.Y})
}

func (r *recorder) LongPress(pos f32.Point) {
	r.write(longPressRecord{T: r.now(), Type: "longpress", X: pos.X, Y: pos.Y})
}

func (r *recorder) write(v interface{}) {
	if r.err != nil {
		return
	}
	if err := r.enc.Encode(v); err != nil {
		r.err = fmt.Errorf("write: %w", err)
	}
}
