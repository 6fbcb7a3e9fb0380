package wireless

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pion/logging"
)

// validateSSID rejects SSIDs that cannot be written inside the quoted
// ssid= field of a wpa_supplicant config, which has no escape syntax
func validateSSID(ssid string) error {
	if ssid == "" {
		return fmt.Errorf("SSID must not be empty")
	}
	if strings.ContainsAny(ssid, "\"\n\r") {
		return fmt.Errorf("SSID %q contains characters not representable in a supplicant config", ssid)
	}
	return nil
}

// FindWirelessInterface automatically detects an available wireless interface
func FindWirelessInterface() (string, error) {
	entries, err := os.ReadDir("/sys/class/net")
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		ifname := entry.Name()
		if ifname == "lo" {
			continue
		}
		if _, err := os.Stat(filepath.Join("/sys/class/net", ifname, "wireless")); err == nil {
			return ifname, nil
		}
	}

	return "", fmt.Errorf("no wireless interface found")
}

// configureInterfaceIP flushes the interface and assigns a /24 address
func configureInterfaceIP(interfaceName, ipAddress string) error {
	if err := exec.Command("ip", "link", "set", interfaceName, "down").Run(); err != nil {
		return fmt.Errorf("failed to bring interface down: %w", err)
	}
	if err := exec.Command("ip", "addr", "flush", "dev", interfaceName).Run(); err != nil {
		return fmt.Errorf("failed to flush interface IP: %w", err)
	}
	if err := exec.Command("ip", "addr", "add", ipAddress+"/24", "dev", interfaceName).Run(); err != nil {
		return fmt.Errorf("failed to set interface IP: %w", err)
	}
	if err := exec.Command("ip", "link", "set", interfaceName, "up").Run(); err != nil {
		return fmt.Errorf("failed to bring interface up: %w", err)
	}
	return nil
}

// resetInterface returns the interface to a clean, deactivated state
func resetInterface(interfaceName string) {
	exec.Command("ip", "addr", "flush", "dev", interfaceName).Run()
	exec.Command("ip", "link", "set", interfaceName, "down").Run()
}

// interfaceIPv4 returns the first IPv4 address assigned to the interface
func interfaceIPv4(interfaceName string) string {
	output, err := exec.Command("ip", "-4", "addr", "show", "dev", interfaceName).Output()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) >= 2 && fields[0] == "inet" {
			addr, _, found := strings.Cut(fields[1], "/")
			if found {
				return addr
			}
			return fields[1]
		}
	}
	return ""
}

// Station drives a Linux wireless interface in client mode through
// wpa_supplicant and the ip tool
type Station struct {
	interfaceName string
	configPath    string
	log           logging.LeveledLogger

	mu      sync.Mutex
	process *exec.Cmd
}

// NewStation creates a station radio bound to the given interface
func NewStation(interfaceName string, loggerFactory logging.LoggerFactory) *Station {
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &Station{
		interfaceName: interfaceName,
		configPath:    "/tmp/netpilot_station.conf",
		log:           loggerFactory.NewLogger("wireless"),
	}
}

// Activate brings the station interface up or down
func (s *Station) Activate(on bool) error {
	state := "down"
	if on {
		state = "up"
	}
	if err := exec.Command("ip", "link", "set", s.interfaceName, state).Run(); err != nil {
		return fmt.Errorf("failed to bring station %s: %w", state, err)
	}
	if !on {
		s.mu.Lock()
		s.stopSupplicant()
		s.mu.Unlock()
	}
	return nil
}

// Connect writes a station-mode wpa_supplicant configuration and starts
// the supplicant. Association completes asynchronously.
func (s *Station) Connect(ssid, password string) error {
	if err := validateSSID(ssid); err != nil {
		return err
	}
	if _, err := exec.LookPath("wpa_supplicant"); err != nil {
		return fmt.Errorf("wpa_supplicant is not installed: %w", err)
	}

	config := fmt.Sprintf(`ctrl_interface=/var/run/wpa_supplicant

network={
    ssid="%s"
    psk=%s
}
`, ssid, DerivePSK(ssid, password))

	if err := os.WriteFile(s.configPath, []byte(config), 0o600); err != nil {
		return fmt.Errorf("failed to write supplicant config: %w", err)
	}

	s.mu.Lock()
	s.stopSupplicant()
	process := exec.Command("wpa_supplicant", "-i", s.interfaceName, "-c", s.configPath, "-D", "nl80211")
	if err := process.Start(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to start wpa_supplicant: %w", err)
	}
	s.process = process
	s.mu.Unlock()

	// Renew the lease once association completes; udhcpc retries on its own.
	go exec.Command("udhcpc", "-i", s.interfaceName, "-n", "-q").Run()

	s.log.Infof("station connecting to %q on %s", ssid, s.interfaceName)
	return nil
}

// IsConnected reports whether the supplicant has completed association
func (s *Station) IsConnected() bool {
	output, err := exec.Command("wpa_cli", "-i", s.interfaceName, "status").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(output), "wpa_state=COMPLETED")
}

// IPAddress returns the station's current IPv4 address
func (s *Station) IPAddress() string {
	return interfaceIPv4(s.interfaceName)
}

// Scan triggers a supplicant scan and parses the results
func (s *Station) Scan() ([]ScanResult, error) {
	if err := exec.Command("wpa_cli", "-i", s.interfaceName, "scan").Run(); err != nil {
		return nil, fmt.Errorf("failed to trigger scan: %w", err)
	}

	output, err := exec.Command("wpa_cli", "-i", s.interfaceName, "scan_results").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to read scan results: %w", err)
	}

	// Format: bssid / frequency / signal level / flags / ssid
	var results []ScanResult
	for i, line := range strings.Split(string(output), "\n") {
		if i == 0 { // header line
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 || fields[4] == "" {
			continue
		}
		rssi, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		results = append(results, ScanResult{SSID: fields[4], RSSI: rssi})
	}
	return results, nil
}

// Disconnect drops the association and deactivates the interface
func (s *Station) Disconnect() error {
	s.mu.Lock()
	s.stopSupplicant()
	s.mu.Unlock()
	resetInterface(s.interfaceName)
	return nil
}

// stopSupplicant kills the running supplicant. Caller must hold mu.
func (s *Station) stopSupplicant() {
	if s.process != nil && s.process.Process != nil {
		s.process.Process.Kill()
		s.process.Wait()
		s.process = nil
	}
}

// AccessPoint drives a Linux wireless interface in AP mode through
// wpa_supplicant and the ip tool
type AccessPoint struct {
	interfaceName string
	configPath    string
	log           logging.LeveledLogger

	mu      sync.Mutex
	config  APConfig
	process *exec.Cmd
	active  bool
}

// NewAccessPoint creates an access point radio bound to the given interface
func NewAccessPoint(interfaceName string, loggerFactory logging.LoggerFactory) *AccessPoint {
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &AccessPoint{
		interfaceName: interfaceName,
		configPath:    "/tmp/netpilot_ap.conf",
		log:           loggerFactory.NewLogger("wireless"),
	}
}

// Configure stores the SSID, password and IP block for the next activation
func (ap *AccessPoint) Configure(cfg APConfig) error {
	ap.mu.Lock()
	ap.config = cfg
	ap.mu.Unlock()
	return nil
}

// Activate starts or stops the access point. Radio operations are
// serialized so portal handlers and the run loop cannot interleave.
func (ap *AccessPoint) Activate(on bool) error {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	if !on {
		if ap.process != nil && ap.process.Process != nil {
			ap.process.Process.Kill()
			ap.process.Wait()
			ap.process = nil
		}
		resetInterface(ap.interfaceName)
		ap.active = false
		return nil
	}

	if err := validateSSID(ap.config.SSID); err != nil {
		return err
	}
	if _, err := exec.LookPath("wpa_supplicant"); err != nil {
		return fmt.Errorf("wpa_supplicant is not installed: %w", err)
	}

	if err := configureInterfaceIP(ap.interfaceName, ap.config.IP); err != nil {
		resetInterface(ap.interfaceName)
		return err
	}

	// mode=2 puts wpa_supplicant into AP mode on the 2.4GHz band
	config := fmt.Sprintf(`ctrl_interface=/var/run/wpa_supplicant
ap_scan=2

network={
    ssid="%s"
    mode=2
    frequency=2437
    key_mgmt=WPA-PSK
    proto=RSN
    pairwise=CCMP
    psk=%s
}
`, ap.config.SSID, DerivePSK(ap.config.SSID, ap.config.Password))

	if err := os.WriteFile(ap.configPath, []byte(config), 0o600); err != nil {
		resetInterface(ap.interfaceName)
		return fmt.Errorf("failed to write AP config: %w", err)
	}

	process := exec.Command("wpa_supplicant", "-i", ap.interfaceName, "-c", ap.configPath, "-D", "nl80211")
	if err := process.Start(); err != nil {
		resetInterface(ap.interfaceName)
		return fmt.Errorf("failed to start wpa_supplicant: %w", err)
	}
	ap.process = process
	ap.active = true

	ap.log.Infof("access point %q up on %s (%s)", ap.config.SSID, ap.interfaceName, ap.config.IP)
	return nil
}

// IsActive reports whether the access point is advertising
func (ap *AccessPoint) IsActive() bool {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return ap.active
}

// IPAddress returns the access point address while active
func (ap *AccessPoint) IPAddress() string {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	if !ap.active {
		return ""
	}
	return ap.config.IP
}

// Clear wipes the configured SSID and password
func (ap *AccessPoint) Clear() error {
	ap.mu.Lock()
	ap.config.SSID = ""
	ap.config.Password = ""
	ap.mu.Unlock()
	os.Remove(ap.configPath)
	return nil
}
