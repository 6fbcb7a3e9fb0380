package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/ini.v1"

	"netpilot/wireless"
)

// Config holds all process configuration
type Config struct {
	// Device identity
	Hostname string

	// Access point settings
	APSSID     string
	APPassword string
	APIP       string
	APSubnet   string
	APGateway  string
	APDNS      string

	// Service ports
	HTTPPort int
	DNSPort  int

	// Credential storage
	CredentialsFile string

	// Connection policy
	ConnectTimeout time.Duration
	MaxAttempts    int
	PollInterval   time.Duration
	RescanPause    time.Duration
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Hostname:        "netpilot",
		APSSID:          "Netpilot Setup",
		APPassword:      "netpilot",
		APIP:            "192.168.4.1",
		APSubnet:        "255.255.255.0",
		APGateway:       "192.168.4.1",
		APDNS:           "192.168.4.1",
		HTTPPort:        80,
		DNSPort:         53,
		CredentialsFile: "/etc/netpilot/network.conf",
		ConnectTimeout:  10 * time.Second,
		MaxAttempts:     3,
		PollInterval:    500 * time.Millisecond,
		RescanPause:     3 * time.Second,
	}
}

// LoadFromFile loads configuration from an INI file
func (c *Config) LoadFromFile(filename string) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, filename)
	if err != nil {
		return err
	}

	section := cfg.Section("")
	c.Hostname = section.Key("hostname").MustString(c.Hostname)
	c.APSSID = section.Key("apssid").MustString(c.APSSID)
	c.APPassword = section.Key("appassword").MustString(c.APPassword)
	c.APIP = section.Key("apip").MustString(c.APIP)
	c.APSubnet = section.Key("apsubnet").MustString(c.APSubnet)
	c.APGateway = section.Key("apgateway").MustString(c.APGateway)
	c.APDNS = section.Key("apdns").MustString(c.APDNS)
	c.HTTPPort = section.Key("httpport").MustInt(c.HTTPPort)
	c.DNSPort = section.Key("dnsport").MustInt(c.DNSPort)
	c.CredentialsFile = section.Key("credentialsfile").MustString(c.CredentialsFile)
	c.ConnectTimeout = time.Duration(section.Key("connecttimeout").MustInt(int(c.ConnectTimeout/time.Second))) * time.Second
	c.MaxAttempts = section.Key("maxattempts").MustInt(c.MaxAttempts)
	c.PollInterval = time.Duration(section.Key("pollinterval").MustInt(int(c.PollInterval/time.Millisecond))) * time.Millisecond
	c.RescanPause = time.Duration(section.Key("rescanpause").MustInt(int(c.RescanPause/time.Second))) * time.Second

	return nil
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("NETPILOT_HOSTNAME"); v != "" {
		c.Hostname = v
	}
	if v := os.Getenv("NETPILOT_AP_SSID"); v != "" {
		c.APSSID = v
	}
	if v := os.Getenv("NETPILOT_AP_PASSWORD"); v != "" {
		c.APPassword = v
	}
	if v := os.Getenv("NETPILOT_AP_IP"); v != "" {
		c.APIP = v
	}
	if v := os.Getenv("NETPILOT_HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.HTTPPort = p
		}
	}
	if v := os.Getenv("NETPILOT_DNS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.DNSPort = p
		}
	}
	if v := os.Getenv("NETPILOT_CREDENTIALS_FILE"); v != "" {
		c.CredentialsFile = v
	}
}

// APConfig returns the immutable access point network configuration
func (c *Config) APConfig() wireless.APConfig {
	return wireless.APConfig{
		IP:       c.APIP,
		Subnet:   c.APSubnet,
		Gateway:  c.APGateway,
		DNS:      c.APDNS,
		SSID:     c.APSSID,
		Password: c.APPassword,
	}
}
