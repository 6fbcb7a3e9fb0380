package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "192.168.4.1", cfg.APIP)
	assert.Equal(t, "255.255.255.0", cfg.APSubnet)
	assert.Equal(t, "192.168.4.1", cfg.APGateway)
	assert.Equal(t, "192.168.4.1", cfg.APDNS)
	assert.Equal(t, 80, cfg.HTTPPort)
	assert.Equal(t, 53, cfg.DNSPort)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 3, cfg.MaxAttempts)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netpilot.ini")
	require.NoError(t, os.WriteFile(path, []byte(
		"apssid = Workshop\nhttpport = 8080\nconnecttimeout = 5\npollinterval = 250\nrescanpause = 5\n"), 0o644))

	cfg := Default()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "Workshop", cfg.APSSID)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.RescanPause)
	assert.Equal(t, 53, cfg.DNSPort, "unset keys keep their defaults")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NETPILOT_AP_SSID", "EnvNet")
	t.Setenv("NETPILOT_DNS_PORT", "5353")

	cfg := Default()
	cfg.LoadFromEnv()

	assert.Equal(t, "EnvNet", cfg.APSSID)
	assert.Equal(t, 5353, cfg.DNSPort)
}

func TestAPConfig(t *testing.T) {
	cfg := Default()
	cfg.APSSID = "Setup"
	cfg.APPassword = "longenough"

	ap := cfg.APConfig()
	assert.Equal(t, cfg.APIP, ap.IP)
	assert.Equal(t, cfg.APSubnet, ap.Subnet)
	assert.Equal(t, "Setup", ap.SSID)
	assert.Equal(t, "longenough", ap.Password)
}
