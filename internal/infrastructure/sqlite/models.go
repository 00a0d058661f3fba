package sqlite

import (
	"time"

	"github.com/lumos-rgb/lumos/internal/profile"
)

// ProfileModel is a row of the profiles table. Areas hold canonical area
// specification text; timestamps are Unix milliseconds.
type ProfileModel struct {
	ID        int64
	GUID      string
	Regex     string
	Areas     string
	Priority  *int64 // nullable
	CreatedAt int64
	UpdatedAt int64

	// Category columns from the LEFT JOIN; all nil for uncategorised profiles.
	CategoryID       *int64
	CategoryName     *string
	CategoryPriority *int64
	CategoryEnabled  *bool
}

// CategoryModel is a row of the categories table.
type CategoryModel struct {
	ID        int64
	Name      string
	Priority  int64
	Enabled   bool
	CreatedAt int64
	UpdatedAt int64
}

func (m *CategoryModel) toDomain() *profile.Category {
	return &profile.Category{
		ID:       m.ID,
		Name:     m.Name,
		Priority: int(m.Priority),
		Enabled:  m.Enabled,
	}
}

func toProfileModel(p *profile.Profile) *ProfileModel {
	m := &ProfileModel{
		ID:        p.ID(),
		GUID:      p.GUID(),
		Regex:     p.Regex(),
		Areas:     p.AreasText(),
		CreatedAt: p.CreatedAt().UnixMilli(),
		UpdatedAt: p.UpdatedAt().UnixMilli(),
	}
	if prio := p.Priority(); prio != nil {
		v := int64(*prio)
		m.Priority = &v
	}
	if c := p.Category(); c != nil {
		m.CategoryID = &c.ID
	}
	return m
}

func (m *ProfileModel) toDomain() (*profile.Profile, error) {
	var priority *int
	if m.Priority != nil {
		v := int(*m.Priority)
		priority = &v
	}
	var category *profile.Category
	if m.CategoryID != nil {
		category = (&CategoryModel{
			ID:       *m.CategoryID,
			Name:     deref(m.CategoryName),
			Priority: deref(m.CategoryPriority),
			Enabled:  deref(m.CategoryEnabled),
		}).toDomain()
	}
	return profile.Reconstitute(
		m.ID,
		m.GUID,
		m.Regex,
		m.Areas,
		priority,
		category,
		time.UnixMilli(m.CreatedAt),
		time.UnixMilli(m.UpdatedAt),
	)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
