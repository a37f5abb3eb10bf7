package steam

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLauncher_Commands(t *testing.T) {
	tests := []struct {
		name string
		goos string
		path string
		want [][]string
	}{
		{
			name: "windows",
			goos: "windows",
			path: `C:\Program Files (x86)\Steam\userdata\1\7\remote\sharedconfig.vdf`,
			want: [][]string{{"cmd", "/c", "start", "", ResetCollectionsURL}},
		},
		{
			name: "flatpak",
			goos: "linux",
			path: "/home/me/.var/app/com.valvesoftware.Steam/.local/share/Steam/userdata/1/7/remote/sharedconfig.vdf",
			want: [][]string{
				{"flatpak", "run", "com.valvesoftware.Steam", NavLibraryURL},
				{"flatpak", "run", "com.valvesoftware.Steam", ResetCollectionsURL},
			},
		},
		{
			name: "native package",
			goos: "linux",
			path: "/home/me/.steam/steam/userdata/1/7/remote/sharedconfig.vdf",
			want: [][]string{{"steam", ResetCollectionsURL}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			launcher := &Launcher{GOOS: tt.goos, logger: zap.NewNop()}
			assert.Equal(t, tt.want, launcher.Commands(tt.path))
		})
	}
}

func TestLauncher_ResetCollections(t *testing.T) {
	var ran [][]string
	launcher := NewLauncher(zap.NewNop())
	launcher.GOOS = "linux"
	launcher.Run = func(_ context.Context, name string, args ...string) error {
		ran = append(ran, append([]string{name}, args...))
		return nil
	}

	err := launcher.ResetCollections(context.Background(), "/home/me/.var/app/com.valvesoftware.Steam/x/sharedconfig.vdf")
	require.NoError(t, err)
	assert.Len(t, ran, 2)
	assert.Equal(t, ResetCollectionsURL, ran[1][len(ran[1])-1])
}

func TestLauncher_ResetCollectionsFailure(t *testing.T) {
	launcher := NewLauncher(zap.NewNop())
	launcher.GOOS = "linux"
	launcher.Run = func(context.Context, string, ...string) error {
		return errors.New("executable file not found in $PATH")
	}

	err := launcher.ResetCollections(context.Background(), "/tmp/sharedconfig.vdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run steam")
}
