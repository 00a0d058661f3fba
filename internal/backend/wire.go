package backend

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/profile"
)

// Message subjects understood by the capture backend.
const (
	SubjectProfiles      = "profiles"
	SubjectActiveProfile = "activeProfile"
)

// directionBoth samples the area along both monitor edges.
const directionBoth = "both"

// Message is the envelope of every websocket frame.
type Message struct {
	Subject  string          `json:"subject"`
	Contents json.RawMessage `json:"contents"`
}

// ProfileEntry is a profile in the backend's JSON shape.
type ProfileEntry struct {
	ID       int64       `json:"id"`
	Regex    string      `json:"regex"`
	Areas    []AreaEntry `json:"areas"`
	Priority int         `json:"priority"`
}

// AreaEntry is one capture area. A nil Selector matches any resolution.
type AreaEntry struct {
	Selector  *Dimensions `json:"selector"`
	Direction string      `json:"direction"`
	X         Distance    `json:"x"`
	Y         Distance    `json:"y"`
	Width     Distance    `json:"width"`
	Height    Distance    `json:"height"`
}

// Dimensions is a monitor resolution.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Distance carries exactly one of Px or Percentage.
type Distance struct {
	Px         *int     `json:"px,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// ActiveProfile reports which profile the backend applies to a monitor.
// ProfileID is nil when no profile is active.
type ActiveProfile struct {
	Monitor   int    `json:"monitor"`
	ProfileID *int64 `json:"profile,omitempty"`
}

// NewProfilesMessage builds the "profiles" message. Profiles in a disabled
// category are left out.
func NewProfilesMessage(profiles []*profile.Profile) (Message, error) {
	entries := make([]ProfileEntry, 0, len(profiles))
	for _, p := range profiles {
		if !p.Enabled() {
			continue
		}
		entries = append(entries, ToEntry(p))
	}
	contents, err := json.Marshal(entries)
	if err != nil {
		return Message{}, fmt.Errorf("encoding profiles: %w", err)
	}
	return Message{Subject: SubjectProfiles, Contents: contents}, nil
}

// ToEntry converts a profile to its wire form. A profile without a priority
// takes its category's, or 0 when it has no category.
func ToEntry(p *profile.Profile) ProfileEntry {
	entry := ProfileEntry{
		ID:    p.ID(),
		Regex: p.Regex(),
		Areas: make([]AreaEntry, 0),
	}
	if prio := p.EffectivePriority(); prio != nil {
		entry.Priority = *prio
	}
	for _, a := range p.Areas() {
		entry.Areas = append(entry.Areas, toAreaEntry(a))
	}
	return entry
}

func toAreaEntry(a areaspec.Area) AreaEntry {
	entry := AreaEntry{
		Direction: directionBoth,
		X:         toDistance(a.X),
		Y:         toDistance(a.Y),
		Width:     toDistance(a.Width),
		Height:    toDistance(a.Height),
	}
	if !a.Selector.IsWildcard() {
		entry.Selector = &Dimensions{Width: a.Selector.Width, Height: a.Selector.Height}
	}
	return entry
}

func toDistance(d areaspec.Distance) Distance {
	switch v := d.(type) {
	case areaspec.Pixels:
		px := int(v)
		return Distance{Px: &px}
	case areaspec.Percentage:
		pct := float64(v)
		return Distance{Percentage: &pct}
	}
	return Distance{}
}

var errEmptyDistance = errors.New("area must specify either px or percentage")

// Document rebuilds the areas of a wire entry. It rejects anything the area
// specification parser would reject, so the result always serializes to
// text that parses back.
func (e ProfileEntry) Document() (areaspec.Document, error) {
	doc := make(areaspec.Document, 0, len(e.Areas))
	for i, raw := range e.Areas {
		area := areaspec.Area{Selector: areaspec.Wildcard()}
		if raw.Selector != nil {
			if raw.Selector.Width <= 0 || raw.Selector.Height <= 0 {
				return nil, fmt.Errorf("area %d selector: monitor dimensions must be positive, got %dx%d",
					i, raw.Selector.Width, raw.Selector.Height)
			}
			area.Selector = areaspec.Resolution(raw.Selector.Width, raw.Selector.Height)
		}
		fields := []struct {
			name string
			src  Distance
			dst  *areaspec.Distance
		}{
			{"x", raw.X, &area.X},
			{"y", raw.Y, &area.Y},
			{"width", raw.Width, &area.Width},
			{"height", raw.Height, &area.Height},
		}
		for _, f := range fields {
			d, err := f.src.distance()
			if err != nil {
				return nil, fmt.Errorf("area %d %s: %w", i, f.name, err)
			}
			*f.dst = d
		}
		doc = append(doc, area)
	}
	return doc, nil
}

func (d Distance) distance() (areaspec.Distance, error) {
	switch {
	case d.Px != nil:
		if *d.Px < 0 {
			return nil, fmt.Errorf("pixels must not be negative, was %d", *d.Px)
		}
		return areaspec.Pixels(*d.Px), nil
	case d.Percentage != nil:
		if *d.Percentage < 0 || *d.Percentage > 100 {
			return nil, fmt.Errorf("percentage must be in [0, 100], was %v", *d.Percentage)
		}
		return areaspec.Percentage(*d.Percentage), nil
	}
	return nil, errEmptyDistance
}
