package portal

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pion/logging"
)

const (
	// requestBufferSize bounds how much of a request is read and matched
	requestBufferSize = 1024

	readTimeout = 10 * time.Second
)

// ServerConfig configures the captive portal HTTP server
type ServerConfig struct {
	// IP is the portal address to listen on
	IP string

	// Port is the HTTP port (default 80)
	Port int

	// Controller handles scan/connect actions
	Controller Controller

	// LoggerFactory is the factory for creating loggers.
	// If nil, a default factory is used.
	LoggerFactory logging.LoggerFactory
}

// Server is the captive portal request router. It speaks just enough
// HTTP to satisfy platform connectivity probes and serve the setup pages.
type Server struct {
	ip         string
	port       int
	controller Controller
	templates  *TemplateManager
	listener   net.Listener
	stopChan   chan struct{}
	stopOnce   sync.Once
	log        logging.LeveledLogger
}

// NewServer creates a captive portal server
func NewServer(cfg ServerConfig) *Server {
	if cfg.Port == 0 {
		cfg.Port = 80
	}
	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &Server{
		ip:         cfg.IP,
		port:       cfg.Port,
		controller: cfg.Controller,
		templates:  NewTemplateManager(loggerFactory),
		stopChan:   make(chan struct{}),
		log:        loggerFactory.NewLogger("portal"),
	}
}

// Start binds the listener and begins accepting connections.
// A bind failure means the server is not started.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.ip, s.port))
	if err != nil {
		return fmt.Errorf("failed to start portal server: %w", err)
	}
	s.listener = listener

	s.log.Infof("serving on %s", listener.Addr())
	go s.acceptLoop()
	return nil
}

// Addr returns the bound listener address, or nil before Start
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener. Stopping an already-stopped or
// never-started server is a no-op.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.listener != nil {
			s.listener.Close()
		}
		s.log.Info("stopped")
	})
}

// acceptLoop hands each accepted connection to its own goroutine
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
			}
			s.log.Warnf("accept error: %v", err)
			continue
		}
		go s.handleConn(conn)
	}
}

// handleConn reads one request, writes one response and closes.
// The response reaches the client before any follow-up action runs,
// so a connect can tear this server down without losing its reply.
func (s *Server) handleConn(conn net.Conn) {
	buffer := make([]byte, requestBufferSize)
	conn.SetReadDeadline(time.Now().Add(readTimeout))

	n, err := conn.Read(buffer)
	if err != nil {
		conn.Close()
		return
	}

	request := string(buffer[:n])
	response, after := s.dispatch(request)

	if _, err := conn.Write([]byte(response)); err != nil {
		s.log.Warnf("failed to write response: %v", err)
	}
	conn.Close()

	if after != nil {
		after()
	}
}
