package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pion/logging"

	"netpilot/config"
	"netpilot/discovery"
	"netpilot/manager"
	"netpilot/store"
	"netpilot/wireless"
)

func main() {
	cfg := config.Default()

	// Define command line flags with descriptions
	configFile := flag.String("config", "", "Path to an INI configuration file")
	hostname := flag.String("hostname", cfg.Hostname, "Device hostname")
	apSSID := flag.String("ap-ssid", cfg.APSSID, "SSID of the fallback access point")
	apPassword := flag.String("ap-password", cfg.APPassword, "Password of the fallback access point (min 8 characters)")
	apIP := flag.String("ap-ip", cfg.APIP, "IP address for the access point and captive portal")
	wifiInterface := flag.String("interface", "", "Name of the wireless interface to use (auto-detect if empty)")
	dnsPort := flag.Int("dns-port", cfg.DNSPort, "Port for the DNS redirector")
	httpPort := flag.Int("http-port", cfg.HTTPPort, "Port for the captive portal HTTP server")
	credentialsFile := flag.String("credentials", cfg.CredentialsFile, "Path to the saved network credentials file")

	flag.Parse()

	if *configFile != "" {
		if err := cfg.LoadFromFile(*configFile); err != nil {
			log.Printf("Skipping config file %s: %v", *configFile, err)
		}
	}
	cfg.LoadFromEnv()

	// Explicitly passed flags win over file and environment
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "hostname":
			cfg.Hostname = *hostname
		case "ap-ssid":
			cfg.APSSID = *apSSID
		case "ap-password":
			cfg.APPassword = *apPassword
		case "ap-ip":
			cfg.APIP = *apIP
			cfg.APGateway = *apIP
			cfg.APDNS = *apIP
		case "dns-port":
			cfg.DNSPort = *dnsPort
		case "http-port":
			cfg.HTTPPort = *httpPort
		case "credentials":
			cfg.CredentialsFile = *credentialsFile
		}
	})

	// Radio control and privileged ports need root
	if os.Geteuid() != 0 {
		log.Fatalf("This program must be run as root to manage wireless interfaces (sudo)")
	}

	iface := *wifiInterface
	if iface == "" {
		detected, err := wireless.FindWirelessInterface()
		if err != nil {
			log.Fatalf("No suitable wireless interface found: %v", err)
		}
		iface = detected
		log.Printf("Using wireless interface: %s", iface)
	}

	loggerFactory := logging.NewDefaultLoggerFactory()

	m, err := manager.New(manager.Config{
		Config:      cfg,
		Store:       store.New(cfg.CredentialsFile, loggerFactory),
		Station:     wireless.NewStation(iface, loggerFactory),
		AccessPoint: wireless.NewAccessPoint(iface, loggerFactory),
		Advertiser: discovery.NewAdvertiser(discovery.AdvertiserConfig{
			Instance:      cfg.Hostname,
			Port:          cfg.HTTPPort,
			LoggerFactory: loggerFactory,
		}),
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		log.Fatalf("Failed to create network manager: %v", err)
	}

	// Run until SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Run(ctx); err != nil {
		log.Fatalf("Network manager error: %v", err)
	}
	log.Println("Shutdown complete")
}
