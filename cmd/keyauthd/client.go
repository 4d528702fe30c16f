package main

import (
	"fmt"
	"math"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeTimeout bounds a single message write so a peer that stops
	// reading cannot stall the write pump.
	writeTimeout = 10 * time.Second

	// closeGrace is how long a disconnected client gets to read its goodbye
	// message before the connection is torn down.
	closeGrace = time.Second
)

// position is a world coordinate as reported by the client.
type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// blockEquals reports whether two positions fall into the same world block.
func (p position) blockEquals(o position) bool {
	return math.Floor(p.X) == math.Floor(o.X) &&
		math.Floor(p.Y) == math.Floor(o.Y) &&
		math.Floor(p.Z) == math.Floor(o.Z)
}

// serverMessage is what the host pushes to a client.
type serverMessage struct {
	Type     string    `json:"type"` // "chat", "title", "pos", "disconnect"
	Text     string    `json:"text,omitempty"`
	Subtitle string    `json:"subtitle,omitempty"`
	Pos      *position `json:"pos,omitempty"`
}

// clientMessage is what a client sends to the host.
type clientMessage struct {
	Type  string    `json:"type"` // "join", "move", "command", "chat"
	Name  string    `json:"name,omitempty"`
	Token string    `json:"token,omitempty"`
	Text  string    `json:"text,omitempty"`
	From  *position `json:"from,omitempty"`
	To    *position `json:"to,omitempty"`
}

// Describes a connected game client.
type Client struct {
	ID         string
	Name       string
	IP         net.IP
	Privileged bool

	conn      *websocket.Conn
	out       chan serverMessage
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(name string, ip net.IP, privileged bool, conn *websocket.Conn) *Client {
	c := &Client{
		ID:         uuid.NewString(),
		Name:       name,
		IP:         ip,
		Privileged: privileged,
		conn:       conn,
		out:        make(chan serverMessage, 16),
		done:       make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

func (c *Client) writeLoop() {
	for {
		select {
		case msg := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.Close()
				return
			}
			if msg.Type == "disconnect" {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Send queues a message for the client. A client whose outbox is full loses
// the message rather than blocking the caller.
func (c *Client) Send(msg serverMessage) {
	select {
	case <-c.done:
	case c.out <- msg:
	default:
	}
}

// Shutdown queues the goodbye message and closes the connection shortly
// after, whether or not the client reads it. Queuing alone is not enough: a
// client that stops reading fills its outbox, the goodbye is dropped, and
// the connection would stay open forever.
func (c *Client) Shutdown(reason string) {
	c.Send(serverMessage{Type: "disconnect", Text: reason})
	time.AfterFunc(closeGrace, c.Close)
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID[:8])
}
