package main

import (
	"errors"
	"time"

	"github.com/sauerbraten/jsonfile"

	"github.com/hotwindlibs/keyauth/internal/gate"
)

type Config struct {
	ListenAddress     string `json:"listen_address"`
	ServerDescription string `json:"server_description"`
	MessageOfTheDay   string `json:"message_of_the_day"`

	Key              string `json:"key"`
	KickDelaySeconds int    `json:"kick_delay_seconds"`

	// AdminToken lets a client join with privileged (verification-exempt)
	// status. Leave empty to disable.
	AdminToken string `json:"admin_token"`

	// TrustReservedIPs exempts clients connecting from reserved (LAN,
	// loopback) subnets from verification.
	TrustReservedIPs bool `json:"trust_reserved_ips"`

	AutoUpdate AutoUpdateConfig `json:"auto_update"`
}

type AutoUpdateConfig struct {
	Enabled    bool   `json:"enabled"`
	WebPath    string `json:"web_path"`
	UpdateHour int    `json:"update_hour"`
}

// LoadConfig parses and validates the config file (JSON, // comments allowed).
func LoadConfig(path string) (*Config, error) {
	var conf *Config
	err := jsonfile.ParseFile(path, &conf)
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if c.Key == "" {
		return errors.New("key must not be empty")
	}
	if c.KickDelaySeconds <= 0 {
		return errors.New("kick_delay_seconds must be positive")
	}
	if c.AutoUpdate.UpdateHour < 0 || c.AutoUpdate.UpdateHour > 23 {
		return errors.New("auto_update.update_hour must be between 0 and 23")
	}
	if c.AutoUpdate.Enabled && c.AutoUpdate.WebPath == "" {
		return errors.New("auto_update.web_path must be set when auto-update is enabled")
	}
	return nil
}

func (c *Config) gateConfig() gate.Config {
	return gate.Config{
		Key:        c.Key,
		KickDelay:  time.Duration(c.KickDelaySeconds) * time.Second,
		AutoUpdate: c.AutoUpdate.Enabled,
		UpdateHour: c.AutoUpdate.UpdateHour,
	}
}
