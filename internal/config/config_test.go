package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "http", cfg.Server.Transport)
	require.Equal(t, "sitetree.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, map[string]string{"/page-not-found/": "Page Not Found"}, cfg.Site.MarkerRoutes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SITETREE_SERVER_HOST", "127.0.0.1")
	t.Setenv("SITETREE_SERVER_PORT", "9090")
	t.Setenv("SITETREE_SERVER_TRANSPORT", "mcp")
	t.Setenv("SITETREE_DB_PATH", "/tmp/test.db")
	t.Setenv("SITETREE_LOG_LEVEL", "debug")
	t.Setenv("SITETREE_SEED_PATH", "/tmp/site.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "mcp", cfg.Server.Transport)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/tmp/site.yaml", cfg.Site.SeedPath)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 7070
site:
  seed_path: seeds/example.yaml
  denied_nodes:
    - 0e4b1f62-67a5-4f9c-9f65-2d80f4a80c11
  marker_routes:
    /forbidden/: Access Denied
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("SITETREE_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "seeds/example.yaml", cfg.Site.SeedPath)
	require.Equal(t, []string{"0e4b1f62-67a5-4f9c-9f65-2d80f4a80c11"}, cfg.Site.DeniedNodes)
	require.Equal(t, "Access Denied", cfg.Site.MarkerRoutes["/forbidden/"])
	require.Equal(t, "Page Not Found", cfg.Site.MarkerRoutes["/page-not-found/"],
		"file routes add to the defaults")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("SITETREE_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidTransport(t *testing.T) {
	t.Setenv("SITETREE_SERVER_TRANSPORT", "carrier-pigeon")
	_, err := Load()
	require.Error(t, err)
}
