package manager

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/pion/logging"

	"netpilot/config"
	"netpilot/discovery"
	"netpilot/dns"
	"netpilot/portal"
	"netpilot/store"
	"netpilot/wireless"
)

var (
	// ErrNoConfig means no saved network configuration exists
	ErrNoConfig = errors.New("no saved network configuration")
	// ErrEmptySSID means the saved configuration has no SSID
	ErrEmptySSID = errors.New("no SSID in configuration")
	// ErrConnectFailed means every attempt in a sequence timed out
	ErrConnectFailed = errors.New("all connection attempts failed")
)

// Config wires the manager to its collaborators
type Config struct {
	Config      *config.Config
	Store       CredentialStore
	Station     wireless.StationRadio
	AccessPoint wireless.AccessPointRadio

	// App is optional; nil means no application server is managed
	App AppServer

	// Advertiser is optional; nil disables mDNS advertisement
	Advertiser *discovery.Advertiser

	LoggerFactory logging.LoggerFactory
}

// Manager owns the connectivity lifecycle: it drives station connection
// attempts, falls back to access-point mode with the captive portal, and
// unwinds the fallback once a connection is established through it.
type Manager struct {
	cfg        *config.Config
	store      CredentialStore
	sta        wireless.StationRadio
	ap         wireless.AccessPointRadio
	app        AppServer
	advertiser *discovery.Advertiser

	loggerFactory logging.LoggerFactory
	log           logging.LeveledLogger

	retryCh chan struct{}
	watcher *credentialsWatcher

	mu           sync.Mutex
	state        State
	ipAddress    string
	dnsServer    *dns.Server
	portalServer *portal.Server
}

// New creates a manager. The station and access point radios and the
// credential store are required.
func New(cfg Config) (*Manager, error) {
	if cfg.Config == nil || cfg.Store == nil || cfg.Station == nil || cfg.AccessPoint == nil {
		return nil, errors.New("config, store and both radios are required")
	}
	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &Manager{
		cfg:           cfg.Config,
		store:         cfg.Store,
		sta:           cfg.Station,
		ap:            cfg.AccessPoint,
		app:           cfg.App,
		advertiser:    cfg.Advertiser,
		loggerFactory: loggerFactory,
		log:           loggerFactory.NewLogger("manager"),
		retryCh:       make(chan struct{}, 1),
		state:         StateIdle,
	}, nil
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IPAddress returns the device's current address, station or AP
func (m *Manager) IPAddress() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ipAddress
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) setIPAddress(ip string) {
	m.mu.Lock()
	m.ipAddress = ip
	m.mu.Unlock()
}

// LoadAndConnect reads the saved credentials and runs a full connection
// sequence. Absence of credentials is reported, not escalated; fallback
// is driven by the run loop, never by this call.
func (m *Manager) LoadAndConnect() error {
	creds, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load network configuration: %w", err)
	}
	if creds == nil {
		m.log.Info("no saved network configuration found")
		return ErrNoConfig
	}
	if creds.SSID == "" {
		m.log.Error("no SSID provided in configuration, cannot connect")
		return ErrEmptySSID
	}

	m.setState(StateConnectingStation)
	if err := m.connect(creds.SSID, creds.Password, m.cfg.MaxAttempts); err != nil {
		m.setState(StateIdle)
		return err
	}

	m.onStationConnected()
	return nil
}

// connect runs up to the given number of attempts, each polling link
// status until the configured timeout. No backoff between attempts.
// Exhausting the budget deactivates the station radio.
func (m *Manager) connect(ssid, password string, attempts int) error {
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := m.sta.Activate(true); err != nil {
			m.log.Errorf("failed to activate station radio: %v", err)
			continue
		}
		if err := m.sta.Connect(ssid, password); err != nil {
			m.log.Errorf("failed to issue connect: %v", err)
			continue
		}
		m.log.Infof("attempting to connect to %q (%d/%d)", ssid, attempt, attempts)

		deadline := time.Now().Add(m.cfg.ConnectTimeout)
		for !m.sta.IsConnected() && time.Now().Before(deadline) {
			time.Sleep(m.cfg.PollInterval)
		}

		if m.sta.IsConnected() {
			m.setIPAddress(m.sta.IPAddress())
			m.log.Infof("connected to %q, IP %s", ssid, m.IPAddress())
			return nil
		}
		m.log.Infof("attempt %d: failed to connect to %q", attempt, ssid)
	}

	if err := m.sta.Activate(false); err != nil {
		m.log.Errorf("failed to deactivate station radio: %v", err)
	}
	m.log.Info("all connection attempts failed")
	return ErrConnectFailed
}

// SaveCredentials writes through to the credential store. A failed save
// is logged and never undoes an established connection.
func (m *Manager) SaveCredentials(ssid, password string) {
	if err := m.store.Save(store.Credentials{SSID: ssid, Password: password}); err != nil {
		m.log.Warnf("failed to save network configuration: %v", err)
		return
	}
	m.log.Info("network configuration saved")
}

// StartAccessPoint validates and activates the access point.
// A password shorter than the WPA2 minimum is reported and leaves the
// prior state unchanged.
func (m *Manager) StartAccessPoint() error {
	apCfg := m.cfg.APConfig()

	if len(apCfg.Password) < 8 {
		m.log.Error("access point password must be at least 8 characters long")
		return nil
	}

	if err := m.ap.Configure(apCfg); err != nil {
		return fmt.Errorf("failed to configure access point: %w", err)
	}
	if err := m.ap.Activate(true); err != nil {
		return fmt.Errorf("failed to start access point: %w", err)
	}

	m.setIPAddress(m.ap.IPAddress())
	m.log.Infof("access point started, SSID %q, IP %s", apCfg.SSID, m.IPAddress())
	return nil
}

// StopAccessPoint is idempotent; an inactive access point is a no-op
func (m *Manager) StopAccessPoint() {
	if !m.ap.IsActive() {
		m.log.Debug("access point is not currently enabled")
		return
	}

	apIP := m.ap.IPAddress()
	if err := m.ap.Clear(); err != nil {
		m.log.Errorf("failed to clear access point config: %v", err)
	}
	if err := m.ap.Activate(false); err != nil {
		m.log.Errorf("failed to stop access point: %v", err)
	}

	// The station address survives an AP teardown during the
	// fallback-to-reconnect transition.
	m.mu.Lock()
	if m.ipAddress == apIP {
		m.ipAddress = ""
	}
	m.mu.Unlock()

	m.log.Info("access point stopped")
}

// DisconnectStation is idempotent; an unconnected station is a no-op
func (m *Manager) DisconnectStation() {
	if !m.sta.IsConnected() {
		m.log.Debug("station is not connected")
		return
	}

	if err := m.sta.Disconnect(); err != nil {
		m.log.Errorf("failed to disconnect station: %v", err)
	}
	m.setIPAddress("")
	m.log.Info("station disconnected")
}

// enterFallback starts the access point, the portal listener and the DNS
// redirector. All three must succeed; a partial start is unwound and the
// error surfaced so the caller retries on the next cycle.
func (m *Manager) enterFallback() error {
	if err := m.StartAccessPoint(); err != nil {
		return err
	}
	if !m.ap.IsActive() {
		return errors.New("access point failed to activate")
	}

	apIP := m.ap.IPAddress()

	portalServer := portal.NewServer(portal.ServerConfig{
		IP:            apIP,
		Port:          m.cfg.HTTPPort,
		Controller:    m,
		LoggerFactory: m.loggerFactory,
	})
	if err := portalServer.Start(); err != nil {
		m.StopAccessPoint()
		return fmt.Errorf("failed to start captive portal: %w", err)
	}

	dnsServer := dns.NewServer(dns.ServerConfig{
		PortalIP:      apIP,
		Port:          m.cfg.DNSPort,
		LoggerFactory: m.loggerFactory,
	})
	if err := dnsServer.Start(); err != nil {
		portalServer.Stop()
		m.StopAccessPoint()
		return fmt.Errorf("failed to start DNS redirector: %w", err)
	}

	m.mu.Lock()
	m.portalServer = portalServer
	m.dnsServer = dnsServer
	m.state = StateAccessPointFallback
	m.mu.Unlock()

	m.log.Infof("captive portal active on %s", apIP)
	return nil
}

// stopFallbackServices releases the DNS and portal handles. Safe to call
// when neither is running.
func (m *Manager) stopFallbackServices() {
	m.mu.Lock()
	portalServer, dnsServer := m.portalServer, m.dnsServer
	m.portalServer, m.dnsServer = nil, nil
	m.mu.Unlock()

	if portalServer != nil {
		portalServer.Stop()
	}
	if dnsServer != nil {
		dnsServer.Stop()
	}
}

// onStationConnected starts the services that ride on an established link
func (m *Manager) onStationConnected() {
	m.setState(StateStationConnected)

	if m.app != nil {
		if err := m.app.Start(); err != nil {
			m.log.Errorf("failed to start application server: %v", err)
		}
	}
	if m.advertiser != nil {
		if err := m.advertiser.Advertise(); err != nil {
			m.log.Warnf("failed to advertise service: %v", err)
		}
	}
}

// stopAppServices stops everything that rides on the station link
func (m *Manager) stopAppServices() {
	if m.advertiser != nil {
		m.advertiser.Withdraw()
	}
	if m.app != nil {
		if err := m.app.Stop(); err != nil {
			m.log.Errorf("failed to stop application server: %v", err)
		}
	}
}

// setHostname applies the configured device hostname
func (m *Manager) setHostname() {
	if m.cfg.Hostname == "" {
		return
	}
	if err := exec.Command("hostname", m.cfg.Hostname).Run(); err != nil {
		m.log.Warnf("failed to set hostname: %v", err)
	}
}

// Run drives the connectivity lifecycle until the context is cancelled.
// It is the final backstop: recoverable errors are logged and the loop
// keeps polling.
func (m *Manager) Run(ctx context.Context) error {
	m.log.Infof("network manager starting, hostname %q", m.cfg.Hostname)
	m.setHostname()

	m.startWatcher()
	defer m.stopWatcher()

	if err := m.LoadAndConnect(); err != nil {
		m.log.Infof("initial connection not established: %v", err)
	}

	for {
		nudged := false
		select {
		case <-ctx.Done():
			m.shutdown()
			return nil
		case <-m.retryCh:
			nudged = true
		case <-time.After(m.cfg.PollInterval):
		}

		if m.sta.IsConnected() {
			continue
		}

		if m.State() == StateStationConnected {
			m.log.Info("station link lost")
			m.stopAppServices()
			m.setIPAddress("")
			m.setState(StateIdle)
		}

		if m.State() == StateAccessPointFallback {
			if nudged {
				// Externally updated credentials: try them and unwind
				// the portal on success.
				if err := m.Reconnect(); err != nil {
					m.log.Infof("reconnect with updated credentials failed: %v", err)
				} else {
					m.CompleteFallback()
				}
				continue
			}
			if !m.ap.IsActive() {
				m.log.Warn("access point no longer active, releasing portal services")
				m.stopFallbackServices()
				m.setState(StateIdle)
			}
			continue
		}

		m.log.Info("station disconnected, attempting reconnection")
		if err := m.LoadAndConnect(); err == nil {
			continue
		}

		m.log.Info("switching to access point mode")
		if err := m.enterFallback(); err != nil {
			m.log.Errorf("failed to establish fallback: %v", err)
		}

		if !m.sta.IsConnected() && !m.ap.IsActive() {
			m.log.Info("no active connections, rescanning")
			pause(ctx, m.cfg.RescanPause)
		}
	}
}

// shutdown releases every owned resource in reverse-start order, each
// step guarded so one failure does not prevent the next.
func (m *Manager) shutdown() {
	m.log.Info("cleaning up resources")
	m.stopAppServices()
	m.DisconnectStation()

	m.mu.Lock()
	portalServer, dnsServer := m.portalServer, m.dnsServer
	m.portalServer, m.dnsServer = nil, nil
	m.mu.Unlock()

	if dnsServer != nil {
		dnsServer.Stop()
	}
	if portalServer != nil {
		portalServer.Stop()
	}
	m.StopAccessPoint()
}

// pause sleeps for the given duration unless the context ends first
func pause(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
