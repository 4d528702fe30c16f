package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hotwindlibs/keyauth/internal/gate"
)

func (s *Server) HandleCommand(c *Client, msg string) {
	msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg), "/"))
	parts := strings.Split(msg, " ")
	cmd := strings.ToLower(parts[0])

	if !s.Gate.CommandGuard(c.ID, cmd) {
		c.Send(serverMessage{Type: "chat", Text: "verify with /" + gate.AuthCommand + " <key> first!"})
		return
	}

	switch cmd {
	case gate.AuthCommand:
		s.handleKey(c, parts[1:])

	case "keyinfo":
		s.handleKeyInfo(c)

	case "keystats":
		s.handleKeyStats(c, parts[1:])

	case "keyreload":
		s.handleKeyReload(c)

	case "help", "commands":
		commands := []string{"key <key>", "keyinfo", "quit"}
		if c.Privileged {
			commands = append(commands, "keystats [clear]", "keyreload")
		}
		c.Send(serverMessage{Type: "chat", Text: "available commands: " + strings.Join(commands, ", ")})

	case "quit", "exit":
		s.Disconnect(c.ID, "bye!")

	default:
		c.Send(serverMessage{Type: "chat", Text: "unknown command"})
	}
}

func (s *Server) handleKey(c *Client, args []string) {
	if s.Gate.IsAuthenticated(c.ID) {
		c.Send(serverMessage{Type: "chat", Text: "you are already verified!"})
		return
	}
	if len(args) != 1 {
		c.Send(serverMessage{Type: "chat", Text: "usage: /" + gate.AuthCommand + " <key>"})
		return
	}

	res := s.Gate.Submit(c.ID, args[0])
	if res.OK {
		log.Printf("verified: %s in %.2fs (faster than %.1f%% of players)", c, res.Elapsed.Seconds(), res.Percentile)
	}
}

func (s *Server) handleKeyInfo(c *Client) {
	next := s.Gate.NextRotation()
	left := time.Until(next)

	c.Send(serverMessage{Type: "chat", Text: "next rotation: " + next.Format("2006-01-02 15:04:05")})
	c.Send(serverMessage{Type: "chat", Text: fmt.Sprintf("time left: %dh %dm", int(left.Hours()), int(left.Minutes())%60)})
	if s.Gate.AutoUpdate() {
		c.Send(serverMessage{Type: "chat", Text: "auto-update: on"})
	} else {
		c.Send(serverMessage{Type: "chat", Text: "auto-update: off"})
	}
	c.Send(serverMessage{Type: "chat", Text: "the current key is published on the key page"})
}

func (s *Server) handleKeyStats(c *Client, args []string) {
	if !c.Privileged {
		c.Send(serverMessage{Type: "chat", Text: "you don't have permission to use this command!"})
		return
	}

	sum := s.Gate.Stats()
	if sum.Count == 0 {
		c.Send(serverMessage{Type: "chat", Text: "no verification stats yet"})
		return
	}

	c.Send(serverMessage{Type: "chat", Text: fmt.Sprintf("verifications: %d", sum.Count)})
	c.Send(serverMessage{Type: "chat", Text: fmt.Sprintf("fastest: %.2fs", sum.Fastest.Seconds())})
	c.Send(serverMessage{Type: "chat", Text: fmt.Sprintf("slowest: %.2fs", sum.Slowest.Seconds())})
	c.Send(serverMessage{Type: "chat", Text: fmt.Sprintf("average: %.2fs", sum.Average.Seconds())})

	if len(args) > 0 && strings.EqualFold(args[0], "clear") {
		s.Gate.ClearStats()
		c.Send(serverMessage{Type: "chat", Text: "verification stats cleared!"})
	}
}

func (s *Server) handleKeyReload(c *Client) {
	if !c.Privileged {
		c.Send(serverMessage{Type: "chat", Text: "you don't have permission to use this command!"})
		return
	}

	conf, err := LoadConfig(s.configPath)
	if err != nil {
		// prior in-memory config stays authoritative
		log.Println("config reload failed:", err)
		c.Send(serverMessage{Type: "chat", Text: "config reload failed: " + err.Error()})
		return
	}

	s.setConfig(conf)
	s.Gate.Reload(conf.gateConfig())
	log.Println("config reloaded")
	c.Send(serverMessage{Type: "chat", Text: "config reloaded!"})
	c.Send(serverMessage{Type: "chat", Text: "current key: " + s.Gate.CurrentKey()})
}
