package wireless

// ScanResult describes one wireless network discovered during a scan
type ScanResult struct {
	SSID string
	RSSI int // signal strength in dBm
}

// APConfig is the fixed network configuration for the access point.
// It is immutable for the lifetime of the process once constructed.
type APConfig struct {
	IP       string
	Subnet   string
	Gateway  string
	DNS      string
	SSID     string
	Password string
}

// StationRadio is the station-mode (client) side of the wireless hardware
type StationRadio interface {
	// Activate brings the radio up or down
	Activate(on bool) error
	// Connect begins association with the given network.
	// It returns as soon as the attempt is issued; poll IsConnected
	// to observe the result.
	Connect(ssid, password string) error
	// IsConnected reports whether the station has an established link
	IsConnected() bool
	// IPAddress returns the address acquired on the current link, or ""
	IPAddress() string
	// Scan lists reachable networks. Scanning and connecting are
	// mutually exclusive radio states.
	Scan() ([]ScanResult, error)
	// Disconnect drops the current association and deactivates the radio
	Disconnect() error
}

// AccessPointRadio is the access-point side of the wireless hardware
type AccessPointRadio interface {
	// Configure applies the SSID, password and IP block
	Configure(cfg APConfig) error
	// Activate brings the access point up or down
	Activate(on bool) error
	// IsActive reports whether the access point is currently advertising
	IsActive() bool
	// IPAddress returns the access point address, or "" when inactive
	IPAddress() string
	// Clear wipes the configured SSID and password
	Clear() error
}
