package ws_session

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/shree5k/swipematch/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second

	maxMessageSize = 4096
	sendBuffer     = 32
)

// Client is one live websocket connection.
type Client struct {
	ID   model.ConnID
	conn *websocket.Conn
	send chan Event
}

func NewClient(id model.ConnID, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan Event, sendBuffer),
	}
}

// ReadPump feeds inbound frames to the gateway, one at a time, which gives
// each player's decisions their arrival order. Exit means the transport
// dropped; that is the disconnect signal.
func (c *Client) ReadPump(hub *Hub, gw *Gateway) {
	defer func() {
		gw.HandleDisconnect(c.ID)
		hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		gw.HandleMessage(c.ID, raw)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
