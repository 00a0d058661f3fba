// Package profile models application profiles: a window-title pattern plus
// the capture areas to use while a matching window is focused.
//
// The package is pure domain code; persistence lives behind Repository.
package profile

import (
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/lumos-rgb/lumos/internal/areaspec"
)

// Profile is an application profile. Fields are unexported; use New or
// Reconstitute and the accessor methods.
type Profile struct {
	id        int64
	guid      string
	regex     string
	pattern   *regexp.Regexp
	areas     areaspec.Document
	priority  *int
	category  *Category
	createdAt time.Time
	updatedAt time.Time
}

// New creates a profile from a title regex and area specification text.
// The ID is left as zero; it is assigned when the profile is first saved.
func New(regex, areasText string, priority *int) (*Profile, error) {
	return NewWithOptions(regex, areasText, priority, areaspec.Options{})
}

// NewWithOptions is New with parser limits applied to areasText.
func NewWithOptions(regex, areasText string, priority *int, opts areaspec.Options) (*Profile, error) {
	pattern, err := compile(regex)
	if err != nil {
		return nil, err
	}
	areas, err := areaspec.ParseWithOptions(areasText, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing areas: %w", err)
	}

	now := time.Now()
	return &Profile{
		guid:      uuid.NewString(),
		regex:     regex,
		pattern:   pattern,
		areas:     areas,
		priority:  clonePriority(priority),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute rebuilds a stored profile. areasText must be valid area
// specification text and regex a valid pattern.
func Reconstitute(
	id int64,
	guid string,
	regex string,
	areasText string,
	priority *int,
	category *Category,
	createdAt time.Time,
	updatedAt time.Time,
) (*Profile, error) {
	p, err := New(regex, areasText, priority)
	if err != nil {
		return nil, err
	}
	p.id = id
	p.guid = guid
	p.category = cloneCategory(category)
	p.createdAt = createdAt
	p.updatedAt = updatedAt
	return p, nil
}

func compile(regex string) (*regexp.Regexp, error) {
	pattern, err := regexp.Compile(regex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegex, err)
	}
	return pattern, nil
}

func clonePriority(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ID returns the store identifier, or 0 if the profile was never saved.
func (p *Profile) ID() int64 { return p.id }

// GUID returns the stable identifier used across stores and exports.
func (p *Profile) GUID() string { return p.guid }

// Regex returns the window-title pattern.
func (p *Profile) Regex() string { return p.regex }

// Areas returns a copy of the capture areas in authoring order.
func (p *Profile) Areas() areaspec.Document { return slices.Clone(p.areas) }

// AreasText returns the canonical text of the areas, as shown in the editor.
func (p *Profile) AreasText() string { return areaspec.Serialize(p.areas) }

// Priority returns the priority, or nil when none was set.
func (p *Profile) Priority() *int { return clonePriority(p.priority) }

// Category returns a copy of the profile's category, or nil.
func (p *Profile) Category() *Category { return cloneCategory(p.category) }

// EffectivePriority returns the profile's own priority, falling back to its
// category's. It is nil when neither is set.
func (p *Profile) EffectivePriority() *int {
	if p.priority != nil {
		return clonePriority(p.priority)
	}
	if p.category != nil {
		v := p.category.Priority
		return &v
	}
	return nil
}

// Enabled reports whether the profile is sent to the backend: it has no
// category or its category is enabled.
func (p *Profile) Enabled() bool {
	return p.category == nil || p.category.Enabled
}

// CreatedAt returns when the profile was created.
func (p *Profile) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns when the profile was last changed.
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }

// SetID records the identifier assigned by the store.
func (p *Profile) SetID(id int64) { p.id = id }

// SetGUID replaces the GUID, used when importing a profile that already has one.
func (p *Profile) SetGUID(guid string) {
	if guid != "" {
		p.guid = guid
	}
}

// SetRegex replaces the title pattern. The profile is unchanged on error.
func (p *Profile) SetRegex(regex string) error {
	pattern, err := compile(regex)
	if err != nil {
		return err
	}
	p.regex = regex
	p.pattern = pattern
	p.touch()
	return nil
}

// SetAreas replaces the capture areas.
func (p *Profile) SetAreas(areas areaspec.Document) {
	if areas == nil {
		areas = areaspec.Document{}
	}
	p.areas = slices.Clone(areas)
	p.touch()
}

// SetAreasText parses text and replaces the capture areas. The profile is
// unchanged on error.
func (p *Profile) SetAreasText(text string) error {
	areas, err := areaspec.Parse(text)
	if err != nil {
		return fmt.Errorf("parsing areas: %w", err)
	}
	p.SetAreas(areas)
	return nil
}

// SetPriority replaces the priority; nil clears it.
func (p *Profile) SetPriority(priority *int) {
	p.priority = clonePriority(priority)
	p.touch()
}

// SetCategory moves the profile into c; nil removes it from its category.
func (p *Profile) SetCategory(c *Category) {
	p.category = cloneCategory(c)
	p.touch()
}

func (p *Profile) touch() {
	p.updatedAt = time.Now()
}

// MatchesTitle reports whether the title regex matches a window title.
func (p *Profile) MatchesTitle(title string) bool {
	return p.pattern.MatchString(title)
}

// MatchArea returns the area of this profile for a monitor resolution.
func (p *Profile) MatchArea(width, height int) (areaspec.Area, bool) {
	return MatchArea(p.areas, width, height)
}
