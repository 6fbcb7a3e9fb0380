package manager

import "netpilot/store"

// AppServer is the opaque application service started once a station
// connection succeeds. Only its lifecycle matters here.
type AppServer interface {
	Start() error
	Stop() error
}

// CredentialStore is the durable ssid/password record boundary.
// Absence of a record is not an error.
type CredentialStore interface {
	Load() (*store.Credentials, error)
	Save(store.Credentials) error
	Exists() bool
	Path() string
}
