package dns

import (
	"net"
	"sync"

	"github.com/pion/logging"
)

// ServerConfig configures the captive portal DNS redirector
type ServerConfig struct {
	// PortalIP is the address every query is answered with,
	// and the address the listener binds to.
	PortalIP string

	// Port is the UDP port to listen on (default 53)
	Port int

	// LoggerFactory is the factory for creating loggers.
	// If nil, a default factory is used.
	LoggerFactory logging.LoggerFactory
}

// Server answers every DNS query with the captive portal's own address
type Server struct {
	port     int
	portalIP net.IP
	conn     *net.UDPConn
	stopChan chan struct{}
	stopOnce sync.Once
	log      logging.LeveledLogger
}
