package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sauerbraten/chef/pkg/ips"

	"github.com/hotwindlibs/keyauth/internal/gate"
)

type Server struct {
	configPath string

	mu     sync.RWMutex
	config *Config

	Clients *ClientManager
	Gate    *gate.Gate

	events   chan event
	upgrader websocket.Upgrader
}

// event is one client lifecycle occurrence, funneled from the connection
// goroutines into the main loop.
type event struct {
	client *Client
	msg    clientMessage
	leave  bool
}

func NewServer(conf *Config, configPath string) *Server {
	return &Server{
		config:     conf,
		configPath: configPath,
		Clients:    NewClientManager(),
		events:     make(chan event, 64),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// handleWebsocket upgrades the connection, waits for the client's join
// message and hands the session over to the main loop.
func (s *Server) handleWebsocket(ctx *gin.Context) {
	conn, err := s.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Println("could not upgrade connection:", err)
		return
	}

	var join clientMessage
	if err := conn.ReadJSON(&join); err != nil || join.Type != "join" || join.Name == "" {
		conn.Close()
		return
	}

	// snapshot, this goroutine races config reloads in the main loop
	conf := s.conf()

	ip := net.ParseIP(ctx.ClientIP())
	privileged := (conf.AdminToken != "" && join.Token == conf.AdminToken) ||
		(conf.TrustReservedIPs && ip != nil && ips.IsInReservedBlock(ip))

	c := NewClient(join.Name, ip, privileged, conn)
	s.Clients.Add(c)
	s.events <- event{client: c, msg: join}

	go s.readLoop(c)
}

func (s *Server) readLoop(c *Client) {
	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			s.events <- event{client: c, leave: true}
			return
		}
		s.events <- event{client: c, msg: msg}
	}
}

func (s *Server) handleEvent(ev event) {
	c := ev.client
	switch {
	case ev.leave:
		s.Gate.Disconnect(c.ID)
		s.Clients.Remove(c.ID)
		c.Close()
		log.Printf("left: %s (%d online)", c, s.Clients.NumberOfClientsConnected())

	case ev.msg.Type == "join":
		if c.Privileged {
			log.Printf("join: %s [privileged]", c)
		} else {
			log.Printf("join: %s", c)
		}
		if motd := s.conf().MessageOfTheDay; motd != "" {
			c.Send(serverMessage{Type: "chat", Text: motd})
		}
		s.Gate.Connect(c.ID, c.Privileged)

	case ev.msg.Type == "move":
		s.handleMove(c, ev.msg)

	case ev.msg.Type == "command":
		s.HandleCommand(c, ev.msg.Text)

	case ev.msg.Type == "chat":
		s.handleChat(c, ev.msg.Text)
	}
}

// handleMove reverts position changes of unverified sessions. The host
// keeps no world state, so an allowed move needs no action here.
func (s *Server) handleMove(c *Client, msg clientMessage) {
	if msg.From == nil || msg.To == nil {
		return
	}
	if s.Gate.MovementGuard(c.ID) {
		return
	}
	if msg.From.blockEquals(*msg.To) {
		return
	}
	c.Send(serverMessage{Type: "pos", Pos: msg.From})
	c.Send(serverMessage{Type: "chat", Text: "verify with /" + gate.AuthCommand + " <key> before you can move!"})
}

func (s *Server) handleChat(c *Client, text string) {
	if strings.HasPrefix(text, "/") {
		s.HandleCommand(c, text)
		return
	}
	s.Clients.Broadcast(serverMessage{Type: "chat", Text: fmt.Sprintf("%s: %s", c.Name, text)})
}

func (s *Server) conf() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Server) setConfig(conf *Config) {
	s.mu.Lock()
	s.config = conf
	s.mu.Unlock()
}

// The methods below implement gate.Messenger.

func (s *Server) Message(id, msg string) {
	if c := s.Clients.Get(id); c != nil {
		c.Send(serverMessage{Type: "chat", Text: msg})
	}
}

func (s *Server) Title(id, title, subtitle string) {
	if c := s.Clients.Get(id); c != nil {
		c.Send(serverMessage{Type: "title", Text: title, Subtitle: subtitle})
	}
}

func (s *Server) Broadcast(msg string) {
	s.Clients.Broadcast(serverMessage{Type: "chat", Text: msg})
}

func (s *Server) Disconnect(id, reason string) {
	c := s.Clients.Get(id)
	if c == nil {
		return
	}
	log.Printf("disconnecting: %s - %s", c, strings.Split(reason, "\n")[0])
	c.Shutdown(reason)
}
