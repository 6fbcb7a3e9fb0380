package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "network.conf"), nil)

	creds, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
	assert.False(t, s.Exists())
}

func TestSaveAndLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "netpilot", "network.conf"), nil)

	require.NoError(t, s.Save(Credentials{SSID: "My Wifi", Password: "pa ss"}))
	assert.True(t, s.Exists())

	creds, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "My Wifi", creds.SSID)
	assert.Equal(t, "pa ss", creds.Password)
}

func TestSave_Overwrite(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "network.conf"), nil)

	require.NoError(t, s.Save(Credentials{SSID: "Old", Password: "old-pass"}))
	require.NoError(t, s.Save(Credentials{SSID: "New", Password: "new-pass"}))

	creds, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "New", creds.SSID)
	assert.Equal(t, "new-pass", creds.Password)
}

func TestSave_PreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.conf")
	require.NoError(t, os.WriteFile(path, []byte("[device]\nname = bench\n"), 0o644))

	s := New(path, nil)
	require.NoError(t, s.Save(Credentials{SSID: "Net", Password: "pw"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bench", "unrelated sections survive a save")
}
