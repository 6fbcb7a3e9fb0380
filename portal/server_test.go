package portal

import (
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netpilot/wireless"
)

type fakeController struct {
	mu           sync.Mutex
	networks     []wireless.ScanResult
	scanErr      error
	connectErr   error
	reconnectErr error
	hasSaved     bool

	connectSSID     string
	connectPassword string
	connectCalls    int
	completed       bool
}

func (f *fakeController) Scan() ([]wireless.ScanResult, error) {
	return f.networks, f.scanErr
}

func (f *fakeController) Connect(ssid, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectCalls++
	f.connectSSID = ssid
	f.connectPassword = password
	return f.connectErr
}

func (f *fakeController) Reconnect() error {
	return f.reconnectErr
}

func (f *fakeController) HasSavedNetwork() bool {
	return f.hasSaved
}

func (f *fakeController) CompleteFallback() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = true
}

func (f *fakeController) wasCompleted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

func newTestServer(ctrl Controller) *Server {
	return NewServer(ServerConfig{IP: "127.0.0.1", Port: 0, Controller: ctrl})
}

// request performs one raw round trip against a running server
func request(t *testing.T, s *Server, raw string) string {
	t.Helper()

	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(raw))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	response, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(response)
}

func TestProbeEndpoints(t *testing.T) {
	s := newTestServer(&fakeController{})
	require.NoError(t, s.Start())
	defer s.Stop()

	tests := []struct {
		name    string
		request string
		want    string
		exact   bool
	}{
		{"android", "GET /generate_204 HTTP/1.1\r\n\r\n", "HTTP/1.1 204 No Content\r\n\r\n", true},
		{"chromeos", "GET /connectivity-check HTTP/1.1\r\n\r\n", "HTTP/1.1 204 No Content\r\n\r\n", true},
		{"apple", "GET /hotspot-detect.html HTTP/1.1\r\n\r\n", "<H1>Success</H1>", false},
		{"windows", "GET /success.conf HTTP/1.1\r\n\r\n", "Microsoft Connect Test", false},
		{"ncsi", "GET /ncsi.conf HTTP/1.1\r\n\r\n", "Microsoft NCSI", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := request(t, s, tt.request)
			if tt.exact {
				assert.Equal(t, tt.want, response, "response must carry no body")
			} else {
				assert.True(t, strings.HasPrefix(response, "HTTP/1.1 200 OK\r\n"))
				assert.Contains(t, response, tt.want)
			}
		})
	}
}

func TestIndexPage(t *testing.T) {
	ctrl := &fakeController{hasSaved: true}
	s := newTestServer(ctrl)
	require.NoError(t, s.Start())
	defer s.Stop()

	response := request(t, s, "GET / HTTP/1.1\r\n\r\n")
	assert.Contains(t, response, "Start Scan")
	assert.Contains(t, response, "/reconnect", "saved credentials offer the reconnect form")

	// Unknown paths fall through to the index page too
	response = request(t, s, "GET /anything/else HTTP/1.1\r\n\r\n")
	assert.Contains(t, response, "Start Scan")
}

func TestIndexPage_NoSavedNetwork(t *testing.T) {
	s := newTestServer(&fakeController{hasSaved: false})
	require.NoError(t, s.Start())
	defer s.Stop()

	response := request(t, s, "GET / HTTP/1.1\r\n\r\n")
	assert.NotContains(t, response, "/reconnect")
}

func TestScanPage(t *testing.T) {
	ctrl := &fakeController{networks: []wireless.ScanResult{
		{SSID: "HomeNet", RSSI: -42},
		{SSID: "Neighbours", RSSI: -71},
	}}
	s := newTestServer(ctrl)
	require.NoError(t, s.Start())
	defer s.Stop()

	response := request(t, s, "GET /scan HTTP/1.1\r\n\r\n")
	assert.Contains(t, response, "HomeNet")
	assert.Contains(t, response, "-42")
	assert.Contains(t, response, "Neighbours")
	assert.Contains(t, response, "action=\"/connect\"")
}

func TestScanPage_Error(t *testing.T) {
	s := newTestServer(&fakeController{scanErr: assert.AnError})
	require.NoError(t, s.Start())
	defer s.Stop()

	response := request(t, s, "GET /scan HTTP/1.1\r\n\r\n")
	assert.True(t, strings.HasPrefix(response, "HTTP/1.1 200 OK\r\n"), "error still renders the page shell")
	assert.Contains(t, response, "Scan Error")
}

func TestConnect_MissingCredentials(t *testing.T) {
	ctrl := &fakeController{}
	s := newTestServer(ctrl)
	require.NoError(t, s.Start())
	defer s.Stop()

	response := request(t, s, "POST /connect HTTP/1.1\r\n\r\nssid=OnlySSID")
	assert.Contains(t, response, "Connection Error")
	assert.Zero(t, ctrl.connectCalls, "the radio must not be touched")
	assert.False(t, ctrl.wasCompleted())
}

func TestConnect_Success(t *testing.T) {
	ctrl := &fakeController{}
	s := newTestServer(ctrl)
	require.NoError(t, s.Start())
	defer s.Stop()

	response := request(t, s, "POST /connect HTTP/1.1\r\n\r\nssid=My+Wifi&password=secret123")
	assert.Contains(t, response, "Connected")
	assert.Equal(t, "My Wifi", ctrl.connectSSID)
	assert.Equal(t, "secret123", ctrl.connectPassword)

	// Teardown runs after the response is delivered
	require.Eventually(t, ctrl.wasCompleted, 2*time.Second, 10*time.Millisecond)
}

func TestConnect_Failure(t *testing.T) {
	ctrl := &fakeController{connectErr: assert.AnError}
	s := newTestServer(ctrl)
	require.NoError(t, s.Start())
	defer s.Stop()

	response := request(t, s, "POST /connect HTTP/1.1\r\n\r\nssid=Net&password=secret123")
	assert.Contains(t, response, "Connection Failed")
	assert.False(t, ctrl.wasCompleted())
}

func TestReconnect(t *testing.T) {
	ctrl := &fakeController{hasSaved: true}
	s := newTestServer(ctrl)
	require.NoError(t, s.Start())
	defer s.Stop()

	response := request(t, s, "POST /reconnect HTTP/1.1\r\n\r\n")
	assert.Contains(t, response, "Reconnected")
	require.Eventually(t, ctrl.wasCompleted, 2*time.Second, 10*time.Millisecond)
}

func TestReconnect_NoConfiguration(t *testing.T) {
	ctrl := &fakeController{hasSaved: false}
	s := newTestServer(ctrl)
	require.NoError(t, s.Start())
	defer s.Stop()

	response := request(t, s, "POST /reconnect HTTP/1.1\r\n\r\n")
	assert.Contains(t, response, "Configuration Error")
	assert.False(t, ctrl.wasCompleted(), "the access point stays up")
}

func TestStopIdempotent(t *testing.T) {
	s := newTestServer(&fakeController{})
	require.NoError(t, s.Start())

	assert.NotPanics(t, func() {
		s.Stop()
		s.Stop()
	})

	assert.NotPanics(t, func() {
		newTestServer(&fakeController{}).Stop()
	})
}
