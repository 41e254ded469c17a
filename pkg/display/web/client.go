package web

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

type client struct {
	hub  *hub
	conn *websocket.Conn
	send chan []byte
	id   uint8

	remoteAddr  string
	userAgent   string
	connectedAt time.Time
	// latency is the moving average of the round trip time in
	// milliseconds.
	latency atomic.Uint32
}

func (c *client) readPump() {
	// deferred function to handle unregistering client
	// and closing connection
	defer func() {
		c.hub.submit(c.hub.unregister, c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) == 0 {
			continue
		}
		if !c.hub.handle(c, message) {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			c.hub.submit(c.hub.unregister, c)
			// wait for the hub to close the channel
			for range c.send {
			}
			return
		}

		// update average latency
		if rtt, err := tcpRTT(c.conn.UnderlyingConn()); err == nil {
			ms := uint32(rtt / time.Millisecond)
			c.latency.Store((c.latency.Load()*9 + ms) / 10)
		}
	}

	// hub closed the connection
	c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}
