package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pion/logging"
	"gopkg.in/ini.v1"
)

const networkSection = "network"

// Credentials is a saved wireless network record
type Credentials struct {
	SSID     string
	Password string
}

// Store persists wireless credentials in an INI file under a [network] section
type Store struct {
	path string
	log  logging.LeveledLogger
}

// New creates a credential store backed by the given file
func New(path string, loggerFactory logging.LoggerFactory) *Store {
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &Store{
		path: path,
		log:  loggerFactory.NewLogger("store"),
	}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a credentials file is present
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the saved credentials.
// A missing file is not an error and returns (nil, nil).
func (s *Store) Load() (*Credentials, error) {
	cfg, err := ini.Load(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	section := cfg.Section(networkSection)
	return &Credentials{
		SSID:     section.Key("ssid").String(),
		Password: section.Key("password").String(),
	}, nil
}

// Save writes the credentials, overwriting any previous record.
// Unrelated sections in the file are preserved.
func (s *Store) Save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	cfg, err := ini.LooseLoad(s.path)
	if err != nil {
		return fmt.Errorf("failed to read credentials file: %w", err)
	}

	section := cfg.Section(networkSection)
	section.Key("ssid").SetValue(creds.SSID)
	section.Key("password").SetValue(creds.Password)

	if err := cfg.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	s.log.Debugf("saved credentials for network %q", creds.SSID)
	return nil
}
