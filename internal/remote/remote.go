// SPDX-License-Identifier: Unlicense OR MIT

/*
Package remote serves gesture recognition over websocket connections.

A client reports the complete set of contacts of its touch surface
each time it changes, and receives the recognized gestures:

	-> {"type":"contacts","contacts":[{"id":1,"x":0,"y":0}]}
	-> {"type":"cancel"}
	<- {"type":"pinch","scale":1.2,"x":60,"y":0}
	<- {"type":"pan","dx":50,"dy":0}
	<- {"type":"longpress","x":0,"y":0}
	<- {"type":"error","message":"..."}

Every connection has its own input surface and gesture session. The
session is detached when the connection closes.
*/
package remote

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"gioui.org/multitouch/f32"
	"gioui.org/multitouch/gesture"
	"gioui.org/multitouch/io/event"
	"gioui.org/multitouch/io/pointer"
	"gioui.org/multitouch/io/router"
	"gioui.org/multitouch/io/touch"
)

// Handler is an http.Handler accepting websocket connections.
type Handler struct {
	cfg      gesture.Config
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
	active   atomic.Int64
}

// Contact is a contact reported by a client.
type Contact struct {
	ID pointer.ID `json:"id"`
	X  float32    `json:"x"`
	Y  float32    `json:"y"`
}

type clientMessage struct {
	Type     string    `json:"type"`
	Contacts []Contact `json:"contacts"`
}

type pinchMessage struct {
	Type  string  `json:"type"`
	Scale float32 `json:"scale"`
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
}

type panMessage struct {
	Type string  `json:"type"`
	DX   float32 `json:"dx"`
	DY   float32 `json:"dy"`
}

type longPressMessage struct {
	Type string  `json:"type"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type wsConnection struct {
	conn    *websocket.Conn
	log     logrus.FieldLogger
	writeMu sync.Mutex
}

// NewHandler returns a handler that recognizes gestures with cfg.
// Unless enableCORS is set, only same-origin connections are
// accepted.
func NewHandler(cfg gesture.Config, enableCORS bool, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handler{
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if enableCORS {
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	} else {
		h.upgrader.CheckOrigin = isSameOrigin
	}
	return h
}

// Active returns the number of open connections.
func (h *Handler) Active() int {
	return int(h.active.Load())
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()
	h.active.Add(1)
	defer h.active.Add(-1)

	log := h.log.WithField("remote", r.RemoteAddr)
	ws := &wsConnection{conn: conn, log: log}
	cfg := h.cfg
	if cfg.Logger == nil {
		cfg.Logger = log
	}
	var surface router.Router
	detach := gesture.Attach(&surface, ws, cfg)
	defer detach()

	log.Debug("websocket connected")
	start := time.Now()
	var contacts []touch.Contact
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("websocket closed")
			return
		}
		if messageType != websocket.TextMessage {
			ws.sendError("only text messages are accepted")
			continue
		}
		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			ws.sendError("invalid message: " + err.Error())
			continue
		}
		now := time.Since(start)
		switch msg.Type {
		case "contacts":
			next := make([]touch.Contact, len(msg.Contacts))
			for i, c := range msg.Contacts {
				next[i] = touch.Contact{ID: c.ID, Position: f32.Pt(c.X, c.Y)}
			}
			surface.Queue(stamp(touch.Diff(contacts, next), now)...)
			contacts = touch.Normalize(contacts[:0], next)
		case "cancel":
			surface.Queue(pointer.Event{Kind: pointer.Cancel, Time: now})
			contacts = contacts[:0]
		default:
			ws.sendError("unknown message type " + `"` + msg.Type + `"`)
		}
	}
}

func stamp(events []pointer.Event, t time.Duration) []event.Event {
	out := make([]event.Event, len(events))
	for i, e := range events {
		e.Time = t
		out[i] = e
	}
	return out
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return originURL.Host == r.Host
}

func (c *wsConnection) PinchZoom(scale float32, center f32.Point) {
	c.send(pinchMessage{Type: "pinch", Scale: scale, X: center.X, Y: center.Y})
}

func (c *wsConnection) Pan(delta f32.Point) {
	c.send(panMessage{Type: "pan", DX: delta.X, DY: delta.Y})
}

func (c *wsConnection) LongPress(pos f32.Point) {
	c.send(longPressMessage{Type: "longpress", X: pos.X, Y: pos.Y})
}

func (c *wsConnection) sendError(msg string) {
	c.send(errorMessage{Type: "error", Message: msg})
}

func (c *wsConnection) send(v interface{}) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(v); err != nil {
		c.log.WithError(err).Debug("websocket write failed")
	}
}
