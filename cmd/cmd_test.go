package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mselser95/protondb-tags/internal/app"
	"github.com/mselser95/protondb-tags/internal/testutil"
	"github.com/mselser95/protondb-tags/pkg/config"
)

const cmdSharedconfig = `"UserLocalConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
				"apps"
				{
					"440"
					{
					}
				}
			}
		}
	}
}
`

func TestPrintSummary(t *testing.T) {
	tests := []struct {
		name     string
		summary  *app.Summary
		contains []string
		excludes []string
	}{
		{
			name:     "plain",
			summary:  &app.Summary{Tagged: 3, Unchanged: 10, Unrated: 2, Skipped: 1, RemoteLookups: 5, CacheHits: 11},
			contains: []string{"Tagged 3, unchanged 10, unrated 2, skipped 1 (5 remote lookups, 11 cached)"},
			excludes: []string{"unknown rating", "Warning", "Saved"},
		},
		{
			name:     "everything",
			summary:  &app.Summary{UnknownTier: 1, Added: 4, NativeSkipped: 3, CheckpointFailures: 2, Saved: true, SharedconfigPath: "/tmp/s.vdf"},
			contains: []string{"unknown rating 1", "added from library 4", "skipped for 3 games", "failed 2 times", "Saved /tmp/s.vdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printSummary(&buf, tt.summary)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestListUsers(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, ".local", "share", "Steam", "userdata")
	configDir := filepath.Join(root, "22202", "config")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "localconfig.vdf"),
		[]byte(`"UserLocalConfigStore" { "friends" { "PersonaName" "gaben" } }`), 0o600))

	var buf bytes.Buffer
	require.NoError(t, listUsers(&buf, home))

	assert.Contains(t, buf.String(), "Steam found at: "+root)
	assert.Contains(t, buf.String(), "76561197960287930")
	assert.Contains(t, buf.String(), "gaben")
	assert.Contains(t, buf.String(), filepath.Join(root, "22202", "7", "remote", "sharedconfig.vdf"))

	err := listUsers(&buf, t.TempDir())
	assert.Error(t, err)
}

func TestCacheInfoAndClear(t *testing.T) {
	dir := t.TempDir()

	stores := openStores(dir, zap.NewNop())
	stores.native.Put("440", true)
	stores.rating.Put("440", "gold")
	stores.rating.Put("620", "silver")
	require.NoError(t, stores.native.Save())
	require.NoError(t, stores.rating.Save())

	var buf bytes.Buffer
	printCacheInfo(&buf, dir, openStores(dir, zap.NewNop()))
	assert.Contains(t, buf.String(), "Cache directory: "+dir)
	assert.Contains(t, buf.String(), "1 entries (1 fresh, 0 expired)")
	assert.Contains(t, buf.String(), "2 entries (2 fresh, 0 expired)")

	buf.Reset()
	require.NoError(t, clearCaches(&buf, openStores(dir, zap.NewNop()), false, true))
	assert.Contains(t, buf.String(), "Cleared 2 entries")

	reopened := openStores(dir, zap.NewNop())
	assert.Equal(t, 1, reopened.native.Len())
	assert.Equal(t, 0, reopened.rating.Len())

	require.NoError(t, clearCaches(&buf, reopened, false, false))
	assert.Equal(t, 0, openStores(dir, zap.NewNop()).native.Len())
}

func TestSyncCommand(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.SetTier("440", "gold")

	cacheDir := t.TempDir()
	t.Setenv("PROTONDB_API_URL", api.URL())
	t.Setenv("STEAM_STORE_API_URL", api.URL())
	t.Setenv("STEAM_WEB_API_URL", api.URL())
	t.Setenv("PROTONDB_TAGS_CACHE_DIR", cacheDir)
	t.Setenv("PROTONDB_TAGS_CONFIG_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), "sharedconfig.vdf")
	require.NoError(t, os.WriteFile(path, []byte(cmdSharedconfig), 0o600))
	metricsFile := filepath.Join(t.TempDir(), "protondb_tags.prom")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"sync", "-n", "-s", path, "--metrics-file", metricsFile})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "440 gold")
	assert.Contains(t, out.String(), "Tagged 1")

	_, ratingPath := config.CachePaths(cacheDir)
	assert.FileExists(t, ratingPath)

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "protondb_tags_remote_lookups_total")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cmdSharedconfig, string(data))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "protondb-tags dev")
}
