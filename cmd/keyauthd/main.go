package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hotwindlibs/keyauth/internal/gate"
	"github.com/hotwindlibs/keyauth/internal/web"
)

// resumeKey picks the key to start with. With auto-update on, rotated keys
// are persisted in the published record, so a restart resumes the key that
// players already fetched; the configured key only seeds the very first run.
// To force a specific key, disable auto-update or use /keyreload after
// removing the artifacts.
func resumeKey(conf *Config) string {
	if !conf.AutoUpdate.Enabled {
		return conf.Key
	}
	key, err := web.Publisher{Path: conf.AutoUpdate.WebPath}.Load()
	if err != nil || key == "" {
		return conf.Key
	}
	return key
}

func main() {
	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	conf, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalln(err)
	}

	s := NewServer(conf, configPath)
	gateConf := conf.gateConfig()
	gateConf.Key = resumeKey(conf)
	s.Gate = gate.New(gateConf, web.Publisher{Path: conf.AutoUpdate.WebPath}, s)
	s.Gate.Republish()

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/ws", s.handleWebsocket)
	router.Static("/key", filepath.Dir(conf.AutoUpdate.WebPath))

	go func() {
		log.Fatalln(router.Run(conf.ListenAddress))
	}()

	log.Println("server running on", conf.ListenAddress)
	log.Println("current key:", s.Gate.CurrentKey())
	log.Println("next rotation:", s.Gate.NextRotation().Format("2006-01-02 15:04:05"))

	rotations := time.Tick(1 * time.Minute)
	republishes := time.Tick(5 * time.Minute)

	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		case now := <-rotations:
			s.Gate.Tick(now)
		case <-republishes:
			s.Gate.Republish()
		}
	}
}
