// Package steam reads and writes the Steam client's local files and talks to
// the Steam Store and Web APIs.
package steam

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"github.com/mselser95/protondb-tags/pkg/vdf"
)

var (
	// ErrNoConfigStore is returned when a sharedconfig has no known root section.
	ErrNoConfigStore = errors.New("no configstore section in sharedconfig")

	// ErrNoApps is returned when a sharedconfig has no apps section. Steam only
	// writes one after at least one game has been put in a collection.
	ErrNoApps = errors.New("no apps section in sharedconfig")
)

//nolint:gochecknoglobals // Known section names, tried in order
var (
	configStoreKeys = []string{"UserLocalConfigStore", "UserRoamingConfigStore"}
	appsKeys        = []string{"apps", "Apps"}
	steamPath       = []string{"Software", "Valve", "Steam"}
)

// Sharedconfig is a parsed sharedconfig.vdf.
type Sharedconfig struct {
	root *vdf.Map
}

// Load reads and parses the sharedconfig at path.
func Load(path string) (*Sharedconfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sharedconfig: %w", err)
	}

	root, err := vdf.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse sharedconfig %s: %w", path, err)
	}

	return &Sharedconfig{root: root}, nil
}

// NewSharedconfig wraps an already parsed document.
func NewSharedconfig(root *vdf.Map) *Sharedconfig {
	return &Sharedconfig{root: root}
}

// Root returns the whole document.
func (s *Sharedconfig) Root() *vdf.Map {
	return s.root
}

func (s *Sharedconfig) configStore() (*vdf.Map, error) {
	for _, key := range configStoreKeys {
		if store, ok := s.root.GetMap(key); ok {
			return store, nil
		}
	}
	return nil, ErrNoConfigStore
}

// Apps returns the per-app section, keyed by app id.
func (s *Sharedconfig) Apps() (*vdf.Map, error) {
	store, err := s.configStore()
	if err != nil {
		return nil, err
	}

	steam, ok := store.Lookup(steamPath...)
	if !ok {
		return nil, ErrNoApps
	}

	for _, key := range appsKeys {
		if apps, ok := steam.GetMap(key); ok {
			return apps, nil
		}
	}
	return nil, ErrNoApps
}

// EnsureApps returns the apps section, creating it and any missing parents.
func (s *Sharedconfig) EnsureApps() (*vdf.Map, error) {
	apps, err := s.Apps()
	if err == nil {
		return apps, nil
	}
	if !errors.Is(err, ErrNoApps) {
		return nil, err
	}

	store, err := s.configStore()
	if err != nil {
		return nil, err
	}

	section := store
	for _, key := range steamPath {
		section = ensureMap(section, key)
	}
	return ensureMap(section, appsKeys[0]), nil
}

// MergeApps adds an empty entry for every id not yet in apps and returns how
// many were added.
func MergeApps(apps *vdf.Map, ids []string) int {
	added := 0
	for _, id := range ids {
		if apps.Has(id) {
			continue
		}
		apps.SetMap(id, vdf.NewMap())
		added++
	}
	return added
}

// Save writes the document to path, replacing the file atomically.
func (s *Sharedconfig) Save(path string) error {
	err := atomic.WriteFile(path, bytes.NewReader(vdf.Marshal(s.root)))
	if err != nil {
		return fmt.Errorf("write sharedconfig: %w", err)
	}
	return nil
}

func ensureMap(parent *vdf.Map, key string) *vdf.Map {
	if child, ok := parent.GetMap(key); ok {
		return child
	}
	child := vdf.NewMap()
	parent.SetMap(key, child)
	return child
}
