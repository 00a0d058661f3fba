// Package backend talks to the capture backend over its websocket API.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/profile"
	"github.com/lumos-rgb/lumos/internal/pubsub"
)

// DefaultAddress is where the backend listens unless configured otherwise.
const DefaultAddress = "ws://localhost:9901"

const handshakeTimeout = 10 * time.Second

// Client is a connection to the backend. Writes are serialised; Listen may
// run concurrently with SendProfiles.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	addr string
}

// Dial connects to the backend at addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to backend %s: %w", addr, err)
	}
	log.Debug(log.CatSync, "connected to backend", "addr", addr)
	return &Client{conn: conn, addr: addr}, nil
}

// Address returns the backend address.
func (c *Client) Address() string {
	return c.addr
}

// SendProfiles replaces the backend's profile set. The context deadline, if
// any, bounds the write.
func (c *Client) SendProfiles(ctx context.Context, profiles []*profile.Profile) error {
	msg, err := NewProfilesMessage(profiles)
	if err != nil {
		return err
	}
	if err := c.write(ctx, msg); err != nil {
		return fmt.Errorf("failed to send profiles: %w", err)
	}
	log.Info(log.CatSync, "sent profiles", "addr", c.addr, "count", len(profiles))
	return nil
}

func (c *Client) write(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// Listen reads backend messages until ctx is cancelled or the connection
// closes, publishing active profile changes. A profile becoming active is an
// UpdatedEvent; a monitor losing its profile is a DeletedEvent. A normal close
// by the backend returns nil.
func (c *Client) Listen(ctx context.Context, pub pubsub.Publisher[ActiveProfile]) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Warn(log.CatSync, "ignoring malformed backend message", "error", err)
				continue
			}
			return fmt.Errorf("failed to read from backend: %w", err)
		}

		switch msg.Subject {
		case SubjectActiveProfile:
			var active ActiveProfile
			if err := json.Unmarshal(msg.Contents, &active); err != nil {
				log.Warn(log.CatSync, "ignoring malformed active profile", "error", err)
				continue
			}
			if active.ProfileID == nil {
				pub.Publish(pubsub.DeletedEvent, active)
			} else {
				pub.Publish(pubsub.UpdatedEvent, active)
			}
		default:
			log.Debug(log.CatSync, "ignoring backend message", "subject", msg.Subject)
		}
	}
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second))
	return c.conn.Close()
}
