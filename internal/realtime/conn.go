package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ClientFrame is one client→server websocket message. Type selects the
// operation; the remaining fields are per-operation arguments.
type ClientFrame struct {
	Type      string          `json:"type"`
	Group     string          `json:"group,omitempty"`
	Operation string          `json:"operation,omitempty"`
	Activity  string          `json:"activity,omitempty"`
	ChangedBy string          `json:"changedBy,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

var (
	errSendBufferFull = errors.New("send buffer full")
	errConnClosed     = errors.New("connection closed")
)

// Conn represents ONE browser-tab websocket. It implements Sender by
// queueing onto a buffered channel drained by the write pump; a full
// queue fails the send instead of blocking the dispatch loop.
//
// out is never closed. Dispatch fan-out may still hold a reference to
// a Conn after its teardown started, so shutdown is signalled through
// done instead; a Send that loses that race fails with errConnClosed.
type Conn struct {
	id        string
	ws        *websocket.Conn
	out       chan []byte
	done      chan struct{}
	handle    func(ClientFrame)
	onClose   func()
	closeOnce sync.Once
}

func NewConn(id string, ws *websocket.Conn, bufSize int, handle func(ClientFrame), onClose func()) *Conn {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Conn{
		id:      id,
		ws:      ws,
		out:     make(chan []byte, bufSize),
		done:    make(chan struct{}),
		handle:  handle,
		onClose: onClose,
	}
}

func (c *Conn) ID() string { return c.id }

// Send implements Sender.
func (c *Conn) Send(event string, payload any) error {
	b, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.out <- b:
		return nil
	case <-c.done:
		return errConnClosed
	default:
		return errSendBufferFull
	}
}

// Start launches the read and write pumps. Called only after the hub
// accepted the connection, so queued welcome frames flush first.
func (c *Conn) Start() {
	go c.writeLoop()
	go c.readLoop()
}

func (c *Conn) readLoop() {
	defer c.Close()
	for {
		var frame ClientFrame
		if err := c.ws.ReadJSON(&frame); err != nil {
			return // closed
		}
		c.handle(frame)
	}
}

func (c *Conn) writeLoop() {
	tick := time.NewTicker(25 * time.Second)
	defer tick.Stop()

	for {
		select {
		case msg := <-c.out:
			_ = c.ws.WriteMessage(websocket.TextMessage, msg)

		case <-c.done:
			_ = c.ws.WriteMessage(websocket.CloseMessage, nil)
			return

		case <-tick.C:
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close tears the transport down exactly once and notifies the hub.
// Graceful close and transport errors both land here.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.onClose != nil {
			c.onClose()
		}
		_ = c.ws.Close()
	})
}
