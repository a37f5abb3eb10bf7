package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mselser95/protondb-tags/pkg/vdf"
)

// ErrSteamNotFound is returned when no userdata directory exists.
var ErrSteamNotFound = errors.New("steam userdata directory not found")

// steamID64Base is the offset between a 32-bit account id and its SteamID64.
const steamID64Base uint64 = 76561197960265728

const flatpakAppID = "com.valvesoftware.Steam"

// CandidateRoots lists the userdata directories Steam is known to use, most
// common first.
func CandidateRoots(home string) []string {
	return []string{
		filepath.Join(home, ".local", "share", "Steam", "userdata"),
		filepath.Join(home, ".steam", "steam", "userdata"),
		filepath.Join(home, ".steam", "root", "userdata"),
		filepath.Join(home, ".var", "app", flatpakAppID, ".local", "share", "Steam", "userdata"),
		`C:\Program Files (x86)\Steam\userdata`,
	}
}

// FindUserdata returns the first candidate root that is a directory.
func FindUserdata(home string) (string, error) {
	for _, root := range CandidateRoots(home) {
		info, err := os.Stat(root)
		if err == nil && info.IsDir() {
			return root, nil
		}
	}
	return "", ErrSteamNotFound
}

// User is a Steam account that has logged in on this machine.
type User struct {
	AccountID   string
	PersonaName string
	Root        string
}

// SharedconfigPath returns the path of the user's sharedconfig.vdf.
func (u User) SharedconfigPath() string {
	return filepath.Join(u.Root, u.AccountID, "7", "remote", "sharedconfig.vdf")
}

// SteamID64 converts the account id directory name to a SteamID64.
func (u User) SteamID64() (string, error) {
	id, err := strconv.ParseUint(u.AccountID, 10, 32)
	if err != nil {
		return "", fmt.Errorf("parse account id %q: %w", u.AccountID, err)
	}
	return strconv.FormatUint(id+steamID64Base, 10), nil
}

// FindUsers lists the account directories under root in name order. Persona
// names are read from each account's localconfig.vdf and left empty when it
// cannot be read.
func FindUsers(root string) ([]User, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read userdata: %w", err)
	}

	users := make([]User, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		users = append(users, User{
			AccountID:   entry.Name(),
			PersonaName: personaName(filepath.Join(root, entry.Name(), "config", "localconfig.vdf")),
			Root:        root,
		})
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("%s has no users: %w", root, ErrSteamNotFound)
	}
	return users, nil
}

func personaName(localconfigPath string) string {
	data, err := os.ReadFile(localconfigPath)
	if err != nil {
		return ""
	}

	doc, err := vdf.ParseBytes(data)
	if err != nil {
		return ""
	}

	for _, key := range configStoreKeys {
		friends, ok := doc.Lookup(key, "friends")
		if !ok {
			continue
		}
		if name, ok := friends.GetString("PersonaName"); ok {
			return name
		}
	}
	return ""
}

// IsFlatpak reports whether path belongs to the Flatpak build of Steam.
func IsFlatpak(path string) bool {
	return strings.Contains(path, flatpakAppID)
}
