package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	shutdowns int
}

func (f *fakeServer) Shutdown() { f.shutdowns++ }

type fakeFactory struct {
	servers  []*fakeServer
	instance string
	port     int
	err      error
}

func (f *fakeFactory) Register(instance, service, domain string, port int, txt []string) (MDNSServer, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.instance = instance
	f.port = port
	server := &fakeServer{}
	f.servers = append(f.servers, server)
	return server, nil
}

func TestAdvertiseAndWithdraw(t *testing.T) {
	factory := &fakeFactory{}
	a := NewAdvertiser(AdvertiserConfig{
		Instance:      "bench-device",
		Port:          8080,
		ServerFactory: factory,
	})

	require.NoError(t, a.Advertise())
	assert.Equal(t, "bench-device", factory.instance)
	assert.Equal(t, 8080, factory.port)

	a.Withdraw()
	require.Len(t, factory.servers, 1)
	assert.Equal(t, 1, factory.servers[0].shutdowns)

	// Withdrawing an inactive advertiser is a no-op
	a.Withdraw()
	assert.Equal(t, 1, factory.servers[0].shutdowns)
}

func TestAdvertise_ReplacesPrevious(t *testing.T) {
	factory := &fakeFactory{}
	a := NewAdvertiser(AdvertiserConfig{Instance: "dev", Port: 80, ServerFactory: factory})

	require.NoError(t, a.Advertise())
	require.NoError(t, a.Advertise())

	require.Len(t, factory.servers, 2)
	assert.Equal(t, 1, factory.servers[0].shutdowns, "first registration withdrawn")
	assert.Equal(t, 0, factory.servers[1].shutdowns)
}

func TestAdvertise_Error(t *testing.T) {
	a := NewAdvertiser(AdvertiserConfig{
		Instance:      "dev",
		Port:          80,
		ServerFactory: &fakeFactory{err: assert.AnError},
	})
	assert.Error(t, a.Advertise())
}
