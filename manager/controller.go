package manager

import (
	"fmt"

	"netpilot/wireless"
)

// The manager is the portal's Controller: the captive portal drives
// scan, connect and reconnect actions through these methods.

// Scan lists reachable networks. Scanning and connecting are mutually
// exclusive radio states, so the station radio is always deactivated
// afterwards regardless of outcome.
func (m *Manager) Scan() ([]wireless.ScanResult, error) {
	if err := m.sta.Activate(true); err != nil {
		return nil, err
	}
	defer func() {
		if err := m.sta.Activate(false); err != nil {
			m.log.Errorf("failed to deactivate station after scan: %v", err)
		}
	}()

	return m.sta.Scan()
}

// Connect runs a single timed attempt against the submitted credentials
// and persists them on success. The fallback teardown is deferred to
// CompleteFallback so the portal client still receives its response.
func (m *Manager) Connect(ssid, password string) error {
	if err := m.connect(ssid, password, 1); err != nil {
		return err
	}
	m.SaveCredentials(ssid, password)
	return nil
}

// Reconnect replays the saved credentials with the full attempt policy
func (m *Manager) Reconnect() error {
	creds, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load network configuration: %w", err)
	}
	if creds == nil || creds.SSID == "" {
		return ErrNoConfig
	}
	return m.connect(creds.SSID, creds.Password, m.cfg.MaxAttempts)
}

// HasSavedNetwork reports whether saved credentials exist
func (m *Manager) HasSavedNetwork() bool {
	return m.store.Exists()
}

// CompleteFallback unwinds the access point services after a successful
// portal connect and starts the application server
func (m *Manager) CompleteFallback() {
	m.log.Info("connection established, stopping access point services")
	m.stopFallbackServices()
	m.StopAccessPoint()
	m.onStationConnected()
}
