package steam

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

const (
	// ResetCollectionsURL makes a running Steam client re-import collections
	// from sharedconfig.vdf.
	ResetCollectionsURL = "steam://resetcollections"

	// NavLibraryURL opens the library view.
	NavLibraryURL = "steam://nav/library"
)

// Runner starts an external command without waiting for it.
type Runner func(ctx context.Context, name string, args ...string) error

// Launcher hands steam:// URLs to the local Steam client.
type Launcher struct {
	GOOS   string
	Run    Runner
	logger *zap.Logger
}

// NewLauncher returns a launcher for the current platform.
func NewLauncher(logger *zap.Logger) *Launcher {
	return &Launcher{
		GOOS:   runtime.GOOS,
		Run:    startDetached,
		logger: logger,
	}
}

// Commands returns the commands needed to reset collections for the Steam
// install that owns sharedconfigPath. The Flatpak build has to be started on
// the library view before it accepts the reset.
func (l *Launcher) Commands(sharedconfigPath string) [][]string {
	switch {
	case l.GOOS == "windows":
		return [][]string{{"cmd", "/c", "start", "", ResetCollectionsURL}}
	case IsFlatpak(sharedconfigPath):
		return [][]string{
			{"flatpak", "run", flatpakAppID, NavLibraryURL},
			{"flatpak", "run", flatpakAppID, ResetCollectionsURL},
		}
	default:
		return [][]string{{"steam", ResetCollectionsURL}}
	}
}

// ResetCollections runs the reset commands in order.
func (l *Launcher) ResetCollections(ctx context.Context, sharedconfigPath string) error {
	for _, command := range l.Commands(sharedconfigPath) {
		l.logger.Info("launching-steam", zap.Strings("command", command))

		err := l.Run(ctx, command[0], command[1:]...)
		if err != nil {
			return fmt.Errorf("run %s: %w", command[0], err)
		}
	}
	return nil
}

func startDetached(_ context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)

	err := cmd.Start()
	if err != nil {
		return err
	}
	return cmd.Process.Release()
}
