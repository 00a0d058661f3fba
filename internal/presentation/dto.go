package presentation

import (
	"errors"
	"time"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/profile"
)

// ProfileDTO represents a stored profile for presentation.
type ProfileDTO struct {
	ID        int64     `json:"id"`
	GUID      string    `json:"guid"`
	Regex     string    `json:"regex"`
	Priority  *int      `json:"priority"`
	AreaCount int       `json:"area_count"`
	Areas     string    `json:"areas"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Push      *PushDTO  `json:"last_push,omitempty"`

	// Category is nil for uncategorised profiles.
	Category *CategoryDTO `json:"category,omitempty"`
}

// CategoryDTO represents a profile category.
type CategoryDTO struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Enabled  bool   `json:"enabled"`
}

// FromDomainCategory converts a category to a DTO. It returns nil for nil.
func FromDomainCategory(c *profile.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{Name: c.Name, Priority: c.Priority, Enabled: c.Enabled}
}

// PushDTO records when a profile was last sent to a backend.
type PushDTO struct {
	At      time.Time `json:"at"`
	Address string    `json:"address"`
}

// FromDomainProfile converts a profile to a DTO. push may be nil.
func FromDomainProfile(p *profile.Profile, push *PushDTO) ProfileDTO {
	return ProfileDTO{
		ID:        p.ID(),
		GUID:      p.GUID(),
		Regex:     p.Regex(),
		Priority:  p.Priority(),
		AreaCount: len(p.Areas()),
		Areas:     p.AreasText(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
		Push:      push,
		Category:  FromDomainCategory(p.Category()),
	}
}

// CheckResultDTO is the outcome of checking one input.
type CheckResultDTO struct {
	Input string `json:"input"`
	OK    bool   `json:"ok"`
	Areas int    `json:"areas"`
	Error string `json:"error,omitempty"`
	Line  int    `json:"line,omitempty"`
	Col   int    `json:"col,omitempty"`
}

// FromCheck converts a parse outcome to a DTO.
func FromCheck(input string, doc areaspec.Document, err error) CheckResultDTO {
	if err == nil {
		return CheckResultDTO{Input: input, OK: true, Areas: len(doc)}
	}
	dto := CheckResultDTO{Input: input, Error: err.Error()}
	var perr *areaspec.ParseError
	if errors.As(err, &perr) && !perr.EOF {
		dto.Line = perr.Line
		dto.Col = perr.Col
	}
	return dto
}

// RectDTO is a capture rectangle in pixels.
type RectDTO struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResolutionDTO is the profile active for a window on a monitor. Area and
// Rect are empty when the profile has no area for the monitor.
type ResolutionDTO struct {
	ProfileID int64    `json:"profile_id"`
	Regex     string   `json:"regex"`
	Priority  *int     `json:"priority"`
	Area      string   `json:"area,omitempty"`
	Rect      *RectDTO `json:"rect"`
}

// FromResolution converts a match to a DTO.
func FromResolution(r profile.Resolution) ResolutionDTO {
	dto := ResolutionDTO{
		ProfileID: r.Profile.ID(),
		Regex:     r.Profile.Regex(),
		Priority:  r.Profile.EffectivePriority(),
	}
	if r.HasArea {
		dto.Area = areaspec.Serialize(areaspec.Document{r.Area})
		dto.Rect = &RectDTO{
			X:      r.Rect.X,
			Y:      r.Rect.Y,
			Width:  r.Rect.Width,
			Height: r.Rect.Height,
		}
	}
	return dto
}
