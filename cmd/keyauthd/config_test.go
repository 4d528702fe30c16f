package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
// the initial key, replaced at the first rotation
"key":"default123",
"listen_address":":28785",
"kick_delay_seconds":60,
"trust_reserved_ips":true,
"auto_update":{"enabled":true,"web_path":"web/key.txt","update_hour":12}
}`)

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "default123", conf.Key)
	assert.Equal(t, 60, conf.KickDelaySeconds)
	assert.True(t, conf.TrustReservedIPs)
	assert.Equal(t, 12, conf.AutoUpdate.UpdateHour)
	assert.Equal(t, "web/key.txt", conf.AutoUpdate.WebPath)

	gc := conf.gateConfig()
	assert.Equal(t, "default123", gc.Key)
	assert.Equal(t, time.Minute, gc.KickDelay)
	assert.True(t, gc.AutoUpdate)
	assert.Equal(t, 12, gc.UpdateHour)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Key:              "default123",
			KickDelaySeconds: 60,
			AutoUpdate:       AutoUpdateConfig{Enabled: true, WebPath: "web/key.txt", UpdateHour: 12},
		}
	}

	assert.NoError(t, valid().Validate())

	conf := valid()
	conf.Key = ""
	assert.Error(t, conf.Validate())

	conf = valid()
	conf.KickDelaySeconds = 0
	assert.Error(t, conf.Validate())

	conf = valid()
	conf.AutoUpdate.UpdateHour = 24
	assert.Error(t, conf.Validate())

	conf = valid()
	conf.AutoUpdate.WebPath = ""
	assert.Error(t, conf.Validate())

	// web path only required while auto-update is on
	conf.AutoUpdate.Enabled = false
	assert.NoError(t, conf.Validate())
}
