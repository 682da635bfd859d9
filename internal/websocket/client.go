package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	// sendBufferSize bounds how many funding updates a slow page can lag
	// behind before the hub starts dropping messages for it. The page
	// self-corrects on the next update it does receive, since every
	// message carries the full funding total.
	sendBufferSize = 16

	pingInterval = 30 * time.Second
)

// Client is one browser page subscribed to the funding stream.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Run registers the client with the hub and services the connection until
// it closes, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writeLoop(ctx)
	c.readLoop(ctx)
}

// readLoop drains incoming frames until the connection drops. The funding
// stream is one-way; pages only listen, so anything received is discarded.
func (c *Client) readLoop(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writeLoop forwards queued funding updates to the page and pings between
// them to detect abandoned tabs.
func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// hub closed the channel, connection is done
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
