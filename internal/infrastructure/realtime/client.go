package realtime

import (
	"sync"
	"time"

	"wavelink/internal/core/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client wraps one WebSocket connection. All writes go through the buffered
// send channel and a single writer pump, which is what gives each connection
// its FIFO delivery guarantee.
type Client struct {
	id     domain.ConnectionID
	userID domain.UserID // empty for anonymous connections

	conn *websocket.Conn
	send chan domain.Event

	pingInterval time.Duration
	writeTimeout time.Duration

	logger   *zap.SugaredLogger
	closeOnce sync.Once
	done      chan struct{}
}

func newClient(
	id domain.ConnectionID,
	userID domain.UserID,
	conn *websocket.Conn,
	sendBuffer int,
	pingInterval, writeTimeout time.Duration,
	logger *zap.SugaredLogger,
) *Client {
	return &Client{
		id:           id,
		userID:       userID,
		conn:         conn,
		send:         make(chan domain.Event, sendBuffer),
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
		logger:       logger,
		done:         make(chan struct{}),
	}
}

func (c *Client) ID() domain.ConnectionID { return c.id }
func (c *Client) UserID() domain.UserID   { return c.userID }

// enqueue hands an event to the writer pump. A slow consumer whose buffer is
// full gets disconnected rather than blocking fan-out for everyone else.
func (c *Client) enqueue(event domain.Event) {
	select {
	case c.send <- event:
	case <-c.done:
	default:
		c.logger.Warnw("send buffer full, dropping connection",
			"connection_id", c.id, "user_id", c.userID)
		c.close()
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writePump serializes all outbound traffic for the connection and keeps the
// ping ticker running. It exits when the connection closes.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.Debugw("write failed", "connection_id", c.id, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
