package steam

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mselser95/protondb-tags/pkg/vdf"
)

const sharedconfigFixture = `"UserRoamingConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
				"Apps"
				{
					"440"
					{
						"tags"
						{
							"0"		"favorite"
						}
					}
					"620"
					{
					}
				}
			}
		}
	}
}
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sharedconfig.vdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Apps(t *testing.T) {
	cfg, err := Load(writeFixture(t, sharedconfigFixture))
	require.NoError(t, err)

	apps, err := cfg.Apps()
	require.NoError(t, err)
	assert.Equal(t, []string{"440", "620"}, apps.Keys())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.vdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFixture(t, `"UserLocalConfigStore" {`))
	require.Error(t, err)

	var syntaxErr *vdf.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestApps_LowercaseKeyAndLocalStore(t *testing.T) {
	doc, err := vdf.ParseBytes([]byte(`"UserLocalConfigStore" { "Software" { "Valve" { "Steam" { "apps" { "10" { } } } } } }`))
	require.NoError(t, err)

	apps, err := NewSharedconfig(doc).Apps()
	require.NoError(t, err)
	assert.True(t, apps.Has("10"))
}

func TestApps_Missing(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "no configstore", doc: `"Other" { }`, wantErr: ErrNoConfigStore},
		{name: "no steam section", doc: `"UserLocalConfigStore" { "Software" { } }`, wantErr: ErrNoApps},
		{name: "no apps", doc: `"UserLocalConfigStore" { "Software" { "Valve" { "Steam" { "x" "y" } } } }`, wantErr: ErrNoApps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := vdf.ParseBytes([]byte(tt.doc))
			require.NoError(t, err)

			_, err = NewSharedconfig(doc).Apps()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEnsureApps(t *testing.T) {
	doc, err := vdf.ParseBytes([]byte(`"UserLocalConfigStore" { "Software" { "Valve" { } } }`))
	require.NoError(t, err)
	cfg := NewSharedconfig(doc)

	apps, err := cfg.EnsureApps()
	require.NoError(t, err)
	assert.Equal(t, 0, apps.Len())

	again, err := cfg.Apps()
	require.NoError(t, err)
	assert.Same(t, apps, again)

	_, err = NewSharedconfig(vdf.NewMap()).EnsureApps()
	assert.ErrorIs(t, err, ErrNoConfigStore)
}

func TestMergeApps(t *testing.T) {
	apps := vdf.NewMap()
	apps.SetMap("440", vdf.NewMap())

	added := MergeApps(apps, []string{"440", "620", "730"})
	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"440", "620", "730"}, apps.Keys())
}

func TestSave_RoundTrip(t *testing.T) {
	path := writeFixture(t, sharedconfigFixture)

	cfg, err := Load(path)
	require.NoError(t, err)

	apps, err := cfg.Apps()
	require.NoError(t, err)
	app, ok := apps.GetMap("620")
	require.True(t, ok)
	tagMap := vdf.NewMap()
	tagMap.Set("0", "ProtonDB Ranking: 1 Platinum")
	app.SetMap("tags", tagMap)

	require.NoError(t, cfg.Save(path))

	reloaded, err := Load(path)
	require.NoError(t, err)

	apps, err = reloaded.Apps()
	require.NoError(t, err)
	tagMap, ok = apps.Lookup("620", "tags")
	require.True(t, ok)
	label, _ := tagMap.GetString("0")
	assert.Equal(t, "ProtonDB Ranking: 1 Platinum", label)

	tagMap, ok = apps.Lookup("440", "tags")
	require.True(t, ok)
	label, _ = tagMap.GetString("0")
	assert.Equal(t, "favorite", label)
}

func TestSave_UnwritableDir(t *testing.T) {
	cfg := NewSharedconfig(vdf.NewMap())

	err := cfg.Save(filepath.Join(t.TempDir(), "missing", "sharedconfig.vdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write sharedconfig")
}
