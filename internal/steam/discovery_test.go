package steam

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeUser(t *testing.T, root string, accountID string, localconfig string) {
	t.Helper()

	dir := filepath.Join(root, accountID, "config")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if localconfig != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "localconfig.vdf"), []byte(localconfig), 0o600))
	}
}

func TestFindUserdata(t *testing.T) {
	home := t.TempDir()

	_, err := FindUserdata(home)
	assert.ErrorIs(t, err, ErrSteamNotFound)

	flatpak := filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam", "userdata")
	require.NoError(t, os.MkdirAll(flatpak, 0o755))

	root, err := FindUserdata(home)
	require.NoError(t, err)
	assert.Equal(t, flatpak, root)

	native := filepath.Join(home, ".steam", "steam", "userdata")
	require.NoError(t, os.MkdirAll(native, 0o755))

	root, err = FindUserdata(home)
	require.NoError(t, err)
	assert.Equal(t, native, root)
}

func TestFindUsers(t *testing.T) {
	root := t.TempDir()
	makeUser(t, root, "12345", `"UserLocalConfigStore" { "friends" { "PersonaName" "gaben" } }`)
	makeUser(t, root, "67890", `"UserRoamingConfigStore" { "friends" { "PersonaName" "alyx" } }`)
	makeUser(t, root, "99999", "")
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), nil, 0o600))

	users, err := FindUsers(root)
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, User{AccountID: "12345", PersonaName: "gaben", Root: root}, users[0])
	assert.Equal(t, "alyx", users[1].PersonaName)
	assert.Empty(t, users[2].PersonaName)
}

func TestFindUsers_Empty(t *testing.T) {
	_, err := FindUsers(t.TempDir())
	assert.ErrorIs(t, err, ErrSteamNotFound)

	_, err = FindUsers(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestUser_Paths(t *testing.T) {
	user := User{AccountID: "22202", Root: "/home/me/.steam/steam/userdata"}

	assert.Equal(t, "/home/me/.steam/steam/userdata/22202/7/remote/sharedconfig.vdf", user.SharedconfigPath())

	id, err := user.SteamID64()
	require.NoError(t, err)
	assert.Equal(t, "76561197960287930", id)

	_, err = User{AccountID: "ac"}.SteamID64()
	assert.Error(t, err)
}

func TestIsFlatpak(t *testing.T) {
	assert.True(t, IsFlatpak("/home/me/.var/app/com.valvesoftware.Steam/.local/share/Steam/userdata/1/7/remote/sharedconfig.vdf"))
	assert.False(t, IsFlatpak("/home/me/.steam/steam/userdata/1/7/remote/sharedconfig.vdf"))
}
