package ambient

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruteri/getipfs/interfaces"
	"github.com/ruteri/getipfs/ipfsclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRoot_Lookup(t *testing.T) {
	client := new(ipfsclient.MockClient)
	root := NewMapRoot()

	_, ok := root.Lookup(interfaces.WindowPath)
	assert.False(t, ok)

	root.Set(interfaces.WindowPath, client)
	v, ok := root.Lookup(interfaces.WindowPath)
	assert.True(t, ok)
	assert.Same(t, client, v)

	root.Set("ipfsCompanion", map[string]any{"ipfs": client})
	v, ok = root.Lookup(interfaces.CompanionPath)
	assert.True(t, ok)
	assert.Same(t, client, v)

	_, ok = root.Lookup("ipfsCompanion.missing")
	assert.False(t, ok)

	_, ok = root.Lookup("ipfs.nested")
	assert.False(t, ok)

	root.Set("nil", nil)
	_, ok = root.Lookup("nil")
	assert.False(t, ok)

	root.Delete(interfaces.WindowPath)
	_, ok = root.Lookup(interfaces.WindowPath)
	assert.False(t, ok)
}

func TestMapRoot_Location(t *testing.T) {
	root := NewMapRoot()
	assert.Nil(t, root.Location())

	u, err := url.Parse("https://example.com/app")
	require.NoError(t, err)
	root.SetLocation(u)
	assert.Equal(t, u, root.Location())
}

func TestEnvRoot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := t.TempDir()
	t.Setenv("IPFS_PATH", repo)
	t.Setenv(EnvInjectedAPI, "")
	t.Setenv(EnvLocation, "")

	root := NewEnvRoot(logger)

	_, ok := root.Lookup(interfaces.CompanionPath)
	assert.False(t, ok)
	_, ok = root.Lookup(interfaces.WindowPath)
	assert.False(t, ok)
	assert.Nil(t, root.Location())

	require.NoError(t, os.WriteFile(filepath.Join(repo, "api"), []byte("/ip4/127.0.0.1/tcp/5001"), 0o600))
	v, ok := root.Lookup(interfaces.CompanionPath)
	require.True(t, ok)
	assert.Equal(t, "/ip4/127.0.0.1/tcp/5001", v.(*ipfsclient.HTTPClient).Address())

	t.Setenv(EnvInjectedAPI, "/ip4/10.0.0.1/tcp/5001")
	v, ok = root.Lookup(interfaces.WindowPath)
	require.True(t, ok)
	assert.Equal(t, "/ip4/10.0.0.1/tcp/5001", v.(*ipfsclient.HTTPClient).Address())

	t.Setenv(EnvInjectedAPI, "not-a-real-address")
	_, ok = root.Lookup(interfaces.WindowPath)
	assert.False(t, ok)

	t.Setenv(EnvLocation, "https://example.com:8443/app")
	require.NotNil(t, root.Location())
	assert.Equal(t, "example.com", root.Location().Hostname())

	_, ok = root.Lookup("unknown")
	assert.False(t, ok)
}

func TestWithLocation(t *testing.T) {
	client := new(ipfsclient.MockClient)
	base := NewMapRoot()
	base.Set(interfaces.WindowPath, client)

	u, err := url.Parse("https://gateway.example.com")
	require.NoError(t, err)

	root := WithLocation(base, u)
	assert.Equal(t, u, root.Location())
	assert.Nil(t, base.Location())

	v, ok := root.Lookup(interfaces.WindowPath)
	assert.True(t, ok)
	assert.Same(t, client, v)
}
