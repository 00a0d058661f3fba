package profile

import (
	"errors"
	"strings"
)

// ErrEmptyCategoryName is returned for categories without a name.
var ErrEmptyCategoryName = errors.New("category name must not be empty")

// Category groups profiles. Profiles of a disabled category are never sent to
// the backend, and members without their own priority take the category's.
type Category struct {
	// ID is zero until the category is saved.
	ID       int64
	Name     string
	Priority int
	Enabled  bool
}

// NewCategory returns an enabled category with priority 0.
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}
	return &Category{Name: name, Enabled: true}, nil
}

func cloneCategory(c *Category) *Category {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

// Enabled returns the profiles that are not in a disabled category, in order.
func Enabled(profiles []*Profile) []*Profile {
	out := make([]*Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.Enabled() {
			out = append(out, p)
		}
	}
	return out
}
