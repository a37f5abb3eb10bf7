// Package tags maps compatibility tiers to Steam collection labels and writes
// them into an app's "tags" section.
package tags

import (
	"strconv"
	"strings"

	"github.com/mselser95/protondb-tags/pkg/vdf"
)

// Prefix starts every label this tool writes; it is how existing labels are found.
const Prefix = "ProtonDB Ranking:"

// TierNative is the pseudo tier used for games with a native Linux build.
const TierNative = "native"

// The digit keeps the best tiers first, since Steam sorts collections by name.
//
//nolint:gochecknoglobals // Static lookup table
var labels = map[string]string{
	TierNative: "ProtonDB Ranking: 0 Native",
	"platinum": "ProtonDB Ranking: 1 Platinum",
	"gold":     "ProtonDB Ranking: 2 Gold",
	"silver":   "ProtonDB Ranking: 3 Silver",
	"bronze":   "ProtonDB Ranking: 4 Bronze",
	"pending":  "ProtonDB Ranking: 5 Pending",
	"unrated":  "ProtonDB Ranking: 6 Unrated",
	"borked":   "ProtonDB Ranking: 7 Borked",
}

// Label returns the collection label for tier.
func Label(tier string) (string, bool) {
	label, ok := labels[tier]
	return label, ok
}

// TierOf returns the tier a label was written for.
func TierOf(label string) (string, bool) {
	for tier, l := range labels {
		if l == label {
			return tier, true
		}
	}
	return "", false
}

// Change describes the result of Apply.
type Change struct {
	OldTier string // Tier of the label found before, "" if none
	NewTier string
	Slot    string // Key inside "tags" holding the label
	Changed bool
	Known   bool // False when NewTier has no label; nothing is written then
	Removed int  // Duplicate ranking labels deleted
}

// Apply writes the label for tier into app's "tags" section.
// An existing ranking label is overwritten in place and any further ranking
// labels are removed. Without one, the next free numeric slot is used.
func Apply(app *vdf.Map, tier string) Change {
	change := Change{NewTier: tier}

	tagMap, ok := app.GetMap("tags")
	if !ok {
		tagMap = vdf.NewMap()
		app.SetMap("tags", tagMap)
	}

	slot := ""
	for _, e := range tagMap.Entries() {
		label, isString := e.Value.(string)
		if !isString || !strings.HasPrefix(label, Prefix) {
			continue
		}
		if slot == "" {
			slot = e.Key
			change.OldTier, _ = TierOf(label)
			continue
		}
		if e.Key != slot && tagMap.Delete(e.Key) {
			change.Removed++
		}
	}
	change.Changed = change.Removed > 0

	if slot == "" {
		slot = nextSlot(tagMap)
	}
	change.Slot = slot

	label, known := Label(tier)
	change.Known = known
	if !known {
		return change
	}

	current, _ := tagMap.GetString(slot)
	if current != label {
		tagMap.Set(slot, label)
		change.Changed = true
	}

	return change
}

// nextSlot picks the first unused numeric key starting at the section length.
func nextSlot(tagMap *vdf.Map) string {
	for n := tagMap.Len(); ; n++ {
		key := strconv.Itoa(n)
		if !tagMap.Has(key) {
			return key
		}
	}
}
