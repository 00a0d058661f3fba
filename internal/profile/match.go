package profile

import (
	"cmp"
	"slices"

	"github.com/lumos-rgb/lumos/internal/areaspec"
)

// MatchArea picks the area for a monitor of the given resolution: the first
// area whose selector names exactly that resolution, otherwise the last
// wildcard area.
func MatchArea(areas areaspec.Document, width, height int) (areaspec.Area, bool) {
	var universal areaspec.Area
	found := false
	for _, area := range areas {
		if area.Selector.IsWildcard() {
			universal = area
			found = true
			continue
		}
		if area.Selector.Matches(width, height) {
			return area, true
		}
	}
	return universal, found
}

// Rect is a capture region in monitor pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ToPixels resolves an area against a monitor. Percentages along x and width
// scale with the monitor width, y and height with its height; fractional
// pixels are truncated.
func ToPixels(area areaspec.Area, width, height int) Rect {
	return Rect{
		X:      toPixels(area.X, width),
		Y:      toPixels(area.Y, height),
		Width:  toPixels(area.Width, width),
		Height: toPixels(area.Height, height),
	}
}

func toPixels(d areaspec.Distance, total int) int {
	switch v := d.(type) {
	case areaspec.Pixels:
		return int(v)
	case areaspec.Percentage:
		return int(float64(v) / 100 * float64(total))
	}
	return 0
}

// SortByPriority orders profiles from highest to lowest priority. Profiles
// without a priority come last; ties keep their input order.
func SortByPriority(profiles []*Profile) {
	slices.SortStableFunc(profiles, func(a, b *Profile) int {
		switch {
		case a.priority == nil && b.priority == nil:
			return 0
		case a.priority == nil:
			return 1
		case b.priority == nil:
			return -1
		}
		return cmp.Compare(*b.priority, *a.priority)
	})
}

// Resolution is the outcome of matching a window against a profile set.
// Area and Rect are set only when HasArea is true.
type Resolution struct {
	Profile *Profile
	HasArea bool
	Area    areaspec.Area
	Rect    Rect
}

// Resolve finds the profile for a focused window the way the capture backend
// does: the first enabled profile in list order whose regex matches title.
// Priority plays no part; it only ranks monitors against each other. The
// profile stays active even when none of its areas fits the monitor.
func Resolve(profiles []*Profile, title string, width, height int) (Resolution, bool) {
	for _, p := range profiles {
		if !p.Enabled() || !p.MatchesTitle(title) {
			continue
		}
		res := Resolution{Profile: p}
		if area, ok := p.MatchArea(width, height); ok {
			res.HasArea = true
			res.Area = area
			res.Rect = ToPixels(area, width, height)
		}
		return res, true
	}
	return Resolution{}, false
}
