package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConvexRequiresEndpoint(t *testing.T) {
	t.Setenv("CONVEX_URL", "")
	_, err := New(&Config{Backend: BackendConvex})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONVEX_URL is required")
}

func TestNewConvexEndpointFromEnv(t *testing.T) {
	t.Setenv("CONVEX_URL", "https://example.convex.cloud")
	s, err := New(&Config{Backend: BackendConvex})
	require.NoError(t, err)
	defer s.Close()
}

func TestNewDefaultsToConvex(t *testing.T) {
	t.Setenv("CONVEX_URL", "")
	_, err := New(nil)
	assert.Error(t, err, "default backend is convex, which needs an endpoint")
}

func TestNewSQLite(t *testing.T) {
	s, err := New(&Config{
		Backend: BackendSQLite,
		Path:    filepath.Join(t.TempDir(), "leads.db"),
	})
	require.NoError(t, err)
	defer s.Close()
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(&Config{Backend: "etcd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}
