package discovery

import (
	"fmt"
	"sync"

	"github.com/grandcat/zeroconf"
	"github.com/pion/logging"
)

const (
	serviceType   = "_http._tcp"
	serviceDomain = "local."
)

// MDNSServer is the interface for an active mDNS registration.
// This allows for dependency injection in tests.
type MDNSServer interface {
	// Shutdown withdraws the registration.
	Shutdown()
}

// MDNSServerFactory creates MDNSServer instances.
type MDNSServerFactory interface {
	Register(instance, service, domain string, port int, txt []string) (MDNSServer, error)
}

// zeroconfServerFactory is the production implementation using grandcat/zeroconf.
type zeroconfServerFactory struct{}

func (z *zeroconfServerFactory) Register(instance, service, domain string, port int, txt []string) (MDNSServer, error) {
	return zeroconf.Register(instance, service, domain, port, txt, nil)
}

// AdvertiserConfig configures the Advertiser.
type AdvertiserConfig struct {
	// Instance is the service instance name, typically the device hostname.
	Instance string

	// Port is the application server port to advertise.
	Port int

	// ServerFactory is the factory for creating mDNS registrations.
	// If nil, the default zeroconf factory is used.
	ServerFactory MDNSServerFactory

	// LoggerFactory for creating loggers.
	LoggerFactory logging.LoggerFactory
}

// Advertiser publishes the device's application server over DNS-SD once
// a station connection is up.
type Advertiser struct {
	config  AdvertiserConfig
	factory MDNSServerFactory
	log     logging.LeveledLogger

	mu     sync.Mutex
	server MDNSServer
}

// NewAdvertiser creates an Advertiser with the given configuration.
func NewAdvertiser(config AdvertiserConfig) *Advertiser {
	factory := config.ServerFactory
	if factory == nil {
		factory = &zeroconfServerFactory{}
	}
	loggerFactory := config.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &Advertiser{
		config:  config,
		factory: factory,
		log:     loggerFactory.NewLogger("discovery"),
	}
}

// Advertise registers the service. Re-advertising replaces the previous
// registration.
func (a *Advertiser) Advertise() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	server, err := a.factory.Register(a.config.Instance, serviceType, serviceDomain, a.config.Port, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	a.server = server

	a.log.Infof("advertising %s.%s on port %d", a.config.Instance, serviceType, a.config.Port)
	return nil
}

// Withdraw removes the registration. Withdrawing an inactive advertiser
// is a no-op.
func (a *Advertiser) Withdraw() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return
	}
	a.server.Shutdown()
	a.server = nil
	a.log.Info("advertisement withdrawn")
}
