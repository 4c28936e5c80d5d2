package merge

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/roach88/deskicons/internal/icon"
)

// Merge returns the desktop of a user: their icons overlaid on the catalog,
// catalog icons they have no copy of appended, blocked modules hidden, and
// the result stably sorted by Idx.
//
// The output holds exactly one entry per module name found in either input.
// A nil blocked set blocks nothing.
func Merge(standard, user []icon.Icon, blocked mapset.Set[string]) []icon.Icon {
	byModule := make(map[string]icon.Icon, len(standard))
	for _, ic := range standard {
		byModule[ic.ModuleName] = ic
	}

	merged := make([]icon.Icon, 0, len(standard)+len(user))
	seen := make(map[string]struct{}, len(standard)+len(user))

	for _, ic := range user {
		if _, dup := seen[ic.ModuleName]; dup {
			continue
		}
		seen[ic.ModuleName] = struct{}{}

		ic.HiddenByCatalog = false
		if std, ok := byModule[ic.ModuleName]; ok {
			ic = overlay(ic, std)
		}
		merged = append(merged, ic)
	}

	for _, std := range standard {
		if _, ok := seen[std.ModuleName]; ok {
			continue
		}
		seen[std.ModuleName] = struct{}{}

		std.HiddenByCatalog = std.Hidden
		merged = append(merged, std)
	}

	if blocked != nil {
		for i := range merged {
			if blocked.Contains(merged[i].ModuleName) {
				merged[i].Hidden = true
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Idx < merged[j].Idx
	})

	return merged
}

// Visible filters icons down to the ones shown on the desktop, keeping order.
func Visible(icons []icon.Icon) []icon.Icon {
	out := make([]icon.Icon, 0, len(icons))
	for _, ic := range icons {
		if !ic.Hidden {
			out = append(out, ic)
		}
	}
	return out
}
