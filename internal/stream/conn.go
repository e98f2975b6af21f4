package stream

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	HandshakeTimeout    = 30 * time.Second
	DefaultCloseTimeout = 5 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// State is the connection lifecycle position.
type State int32

const (
	Disconnected State = iota
	Connecting
	Subscribed
	Connected
	Closing
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Subscribed:
		return "subscribed"
	case Connected:
		return "connected"
	case Closing:
		return "closing"
	default:
		return "disconnected"
	}
}

// Conn owns one websocket connection: dial, subscribe, keepalive, close.
//
// The outbound path is the only resource shared between the receive loop and
// the keepalive goroutine; writeMu guards it. Everything read-side belongs to
// the single caller of ReadMessage.
type Conn struct {
	ws       *websocket.Conn
	writeMu  sync.Mutex
	state    atomic.Int32
	lastRead atomic.Int64

	stopPing  chan struct{}
	pingWG    sync.WaitGroup
	closeOnce sync.Once
}

// Dial opens a websocket connection to url.
func Dial(ctx context.Context, url string) (*Conn, error) {
	c := &Conn{stopPing: make(chan struct{})}
	c.setState(Connecting)

	dialer := websocket.Dialer{
		HandshakeTimeout: HandshakeTimeout,
	}

	ws, resp, err := dialer.DialContext(ctx, url, http.Header{})
	if err != nil {
		c.setState(Disconnected)
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c.ws = ws
	c.lastRead.Store(time.Now().UnixNano())
	return c, nil
}

// State reports the current lifecycle state.
func (c *Conn) State() State {
	return State(c.state.Load())
}

func (c *Conn) setState(s State) {
	c.state.Store(int32(s))
}

// Subscribe writes the one-shot subscription payload for this connection.
func (c *Conn) Subscribe(ctx context.Context, payload any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(DefaultWriteTimeout)
	}
	c.ws.SetWriteDeadline(deadline)

	if err := c.ws.WriteJSON(payload); err != nil {
		return err
	}

	c.setState(Subscribed)
	return nil
}

// StartKeepalive marks the connection live and, when interval > 0, starts a
// goroutine that writes the literal text frame "PING" each interval. The
// venue's market feed expects the application-level token; the RTDS feed has
// no keepalive and passes interval 0.
//
// When staleAfter > 0 and no frame has been read for that long, the
// connection is treated as dead and torn down so the blocked reader returns.
func (c *Conn) StartKeepalive(interval, staleAfter time.Duration) {
	c.setState(Connected)
	if interval <= 0 {
		return
	}

	c.pingWG.Add(1)
	go func() {
		defer c.pingWG.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.stopPing:
				return
			case <-ticker.C:
				if staleAfter > 0 && time.Since(c.lastReadTime()) > staleAfter {
					c.abort()
					return
				}
				if err := c.writePing(); err != nil {
					return
				}
			}
		}
	}()
}

func (c *Conn) writePing() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(DefaultWriteTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, []byte("PING"))
}

func (c *Conn) lastReadTime() time.Time {
	return time.Unix(0, c.lastRead.Load())
}

// abort tears the transport down without the close handshake. Used when the
// peer is presumed dead; the blocked ReadMessage returns with an error.
func (c *Conn) abort() {
	c.setState(Disconnected)
	c.ws.Close()
}

// ReadMessage blocks until the next frame, a transport error, or Close.
func (c *Conn) ReadMessage() ([]byte, error) {
	_, msg, err := c.ws.ReadMessage()
	if err != nil {
		if c.State() != Closing {
			c.setState(Disconnected)
		}
		return nil, err
	}

	c.lastRead.Store(time.Now().UnixNano())
	return msg, nil
}

// Close stops the keepalive goroutine, sends a close frame, and closes the
// transport. It waits for the keepalive goroutine to finish before
// returning and is safe to call more than once.
func (c *Conn) Close(ctx context.Context) error {
	var err error
	c.closeOnce.Do(func() {
		c.setState(Closing)
		close(c.stopPing)

		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(DefaultCloseTimeout)
		}
		c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			deadline,
		)

		err = c.ws.Close()
		c.pingWG.Wait()
		c.setState(Disconnected)
	})
	return err
}
