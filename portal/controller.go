package portal

import "netpilot/wireless"

// Controller is the connectivity orchestrator the portal drives.
// Scan, Connect and Reconnect block until the underlying radio
// operation resolves.
type Controller interface {
	// Scan lists reachable wireless networks
	Scan() ([]wireless.ScanResult, error)

	// Connect attempts to join the given network and persists the
	// credentials on success
	Connect(ssid, password string) error

	// Reconnect replays the saved credentials
	Reconnect() error

	// HasSavedNetwork reports whether saved credentials exist
	HasSavedNetwork() bool

	// CompleteFallback tears down the access point services after a
	// successful connection and starts the application server. It is
	// called after the success response has been delivered.
	CompleteFallback()
}
