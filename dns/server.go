package dns

import (
	"fmt"
	"net"

	"github.com/pion/logging"
)

// NewServer creates a DNS redirector for the captive portal
func NewServer(cfg ServerConfig) *Server {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &Server{
		port:     cfg.Port,
		portalIP: net.ParseIP(cfg.PortalIP),
		stopChan: make(chan struct{}),
		log:      loggerFactory.NewLogger("dns"),
	}
}

// Start binds the UDP listener and begins serving queries.
// A bind failure means the server is not started.
func (s *Server) Start() error {
	if s.portalIP == nil || s.portalIP.To4() == nil {
		return fmt.Errorf("invalid portal IP")
	}

	addr := &net.UDPAddr{IP: s.portalIP, Port: s.port}
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to start DNS server: %w", err)
	}
	s.conn = conn

	s.log.Infof("listening on %s", conn.LocalAddr())
	go s.serve()
	return nil
}

// Addr returns the bound listener address, or nil before Start
func (s *Server) Addr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Stop shuts down the server. Stopping an already-stopped or
// never-started server is a no-op.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.conn != nil {
			s.conn.Close()
		}
		s.log.Info("stopped")
	})
}

// serve answers queries until the listener is closed
func (s *Server) serve() {
	buffer := make([]byte, bufferSize)

	for {
		n, clientAddr, err := s.conn.ReadFromUDP(buffer)
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
			}
			s.log.Warnf("read error: %v", err)
			continue
		}

		response := s.buildResponse(buffer[:n])
		if len(response) == 0 {
			// Drop malformed queries; clients retry on their own.
			continue
		}

		if _, err := s.conn.WriteToUDP(response, clientAddr); err != nil {
			s.log.Warnf("failed to send response to %s: %v", clientAddr, err)
		}
	}
}
