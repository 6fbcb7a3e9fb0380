package manager

// State is the connectivity lifecycle state. Exactly one is active at any
// instant; station and access-point radios are never both intentionally
// active except during the brief fallback-to-reconnect transition.
type State int

const (
	// StateIdle means no connection sequence is in progress
	StateIdle State = iota
	// StateConnectingStation means a station connection attempt is running
	StateConnectingStation
	// StateStationConnected means the device has joined a network
	StateStationConnected
	// StateAccessPointFallback means the device is serving its own
	// access point with the captive portal
	StateAccessPointFallback
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnectingStation:
		return "connecting"
	case StateStationConnected:
		return "connected"
	case StateAccessPointFallback:
		return "fallback"
	default:
		return "unknown"
	}
}
