package wsfx

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/protocol"
)

// conn serializes every write to the underlying websocket through writeMu.
type conn struct {
	ws  *websocket.Conn
	cfg Config

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, cfg Config) *conn {
	return &conn{
		ws:   ws,
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

func (c *conn) Send(ctx context.Context, event string, data any) error {
	select {
	case <-c.done:
		return errors.ConnectionClosedError
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	frame, err := protocol.Encode(event, data)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.cfg.WriteWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("writing %q frame: %w", event, err)
	}
	return nil
}

func (c *conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

func (c *conn) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame when possible and releases the socket. It is idempotent.
func (c *conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.writeMu.Lock()
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()

		err = c.ws.Close()
	})
	return err
}

// heartbeat pings the client until the connection closes. A missed pong surfaces as a read deadline error in readLoop.
func (c *conn) heartbeat() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteWait))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// readLoop reads frames until the connection fails or closes. Valid envelopes go to onEvent, undecodable frames to onInvalid.
// A normal close by the client returns nil.
func (c *conn) readLoop(onEvent func(protocol.Envelope), onInvalid func(error)) error {
	c.ws.SetReadLimit(c.cfg.ReadLimit)
	extend := func() error { return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait)) }
	if err := extend(); err != nil {
		return err
	}
	c.ws.SetPongHandler(func(string) error { return extend() })

	for {
		mt, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return nil
			}
			return fmt.Errorf("reading frame: %w", err)
		}
		if err := extend(); err != nil {
			return err
		}

		if mt != websocket.TextMessage {
			onInvalid(fmt.Errorf("expected a text frame"))
			continue
		}
		env, err := protocol.Decode(data)
		if err != nil {
			onInvalid(err)
			continue
		}
		onEvent(env)
	}
}
