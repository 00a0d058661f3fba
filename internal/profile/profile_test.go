package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumos-rgb/lumos/internal/areaspec"
)

const fullscreen = "* { x: 0px; y: 0px; width: 100%; height: 100%; }"

func intPtr(v int) *int { return &v }

func TestNew(t *testing.T) {
	p, err := New("^Game", fullscreen, intPtr(3))
	require.NoError(t, err)

	assert.Zero(t, p.ID())
	_, err = uuid.Parse(p.GUID())
	assert.NoError(t, err, "GUID should be a UUID")
	assert.Equal(t, "^Game", p.Regex())
	assert.Equal(t, 3, *p.Priority())
	require.Len(t, p.Areas(), 1)
	assert.False(t, p.CreatedAt().IsZero())
	assert.Equal(t, p.CreatedAt(), p.UpdatedAt())
}

func TestNew_Errors(t *testing.T) {
	_, err := New("([", fullscreen, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRegex))

	_, err = New(".*", "* { x: 0px; }", nil)
	require.Error(t, err)
	var perr *areaspec.ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Contains(t, err.Error(), "parsing areas")
}

func TestNew_EmptyAreas(t *testing.T) {
	p, err := New(".*", "", nil)
	require.NoError(t, err)
	assert.NotNil(t, p.Areas())
	assert.Empty(t, p.Areas())
	assert.Equal(t, "", p.AreasText())
	assert.Nil(t, p.Priority())
}

func TestAreasText_IsCanonical(t *testing.T) {
	p, err := New(".*", "1920x1080{height:50%;width:100%;y:25%;x:0px;}", nil)
	require.NoError(t, err)

	assert.Equal(t, "1920x1080 {\n   x: 0px;\n   y: 25%;\n   width: 100%;\n   height: 50%;\n}", p.AreasText())
}

func TestAccessorsReturnCopies(t *testing.T) {
	prio := 1
	p, err := New(".*", fullscreen, &prio)
	require.NoError(t, err)

	prio = 99
	assert.Equal(t, 1, *p.Priority())

	*p.Priority() = 42
	assert.Equal(t, 1, *p.Priority())

	areas := p.Areas()
	areas[0].X = areaspec.Pixels(7)
	assert.Equal(t, areaspec.Pixels(0), p.Areas()[0].X)
}

func TestSetters(t *testing.T) {
	p, err := New("^a$", fullscreen, nil)
	require.NoError(t, err)
	before := p.UpdatedAt()
	time.Sleep(2 * time.Millisecond)

	require.NoError(t, p.SetRegex("^b$"))
	assert.True(t, p.MatchesTitle("b"))
	assert.False(t, p.MatchesTitle("a"))
	assert.True(t, p.UpdatedAt().After(before))

	err = p.SetRegex("(")
	require.ErrorIs(t, err, ErrInvalidRegex)
	assert.Equal(t, "^b$", p.Regex(), "unchanged on error")

	require.NoError(t, p.SetAreasText("1x1 { x: 1px; y: 1px; width: 1px; height: 1px; }"))
	assert.Equal(t, areaspec.Resolution(1, 1), p.Areas()[0].Selector)

	require.Error(t, p.SetAreasText("garbage"))
	assert.Equal(t, areaspec.Resolution(1, 1), p.Areas()[0].Selector, "unchanged on error")

	p.SetAreas(nil)
	assert.NotNil(t, p.Areas())

	p.SetPriority(intPtr(5))
	assert.Equal(t, 5, *p.Priority())
	p.SetPriority(nil)
	assert.Nil(t, p.Priority())

	p.SetGUID("")
	assert.NotEmpty(t, p.GUID())
	p.SetGUID("fixed")
	assert.Equal(t, "fixed", p.GUID())
}

func TestReconstitute(t *testing.T) {
	created := time.Unix(1000, 0)
	updated := time.Unix(2000, 0)

	cat := &Category{ID: 3, Name: "video", Priority: 4, Enabled: true}
	p, err := Reconstitute(7, "guid-7", "^x", fullscreen, intPtr(2), cat, created, updated)
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.ID())
	assert.Equal(t, "guid-7", p.GUID())
	assert.Equal(t, cat, p.Category())
	assert.NotSame(t, cat, p.Category())
	assert.Equal(t, created, p.CreatedAt())
	assert.Equal(t, updated, p.UpdatedAt())
}

func TestNewWithOptions_MaxInputLength(t *testing.T) {
	_, err := NewWithOptions(".*", fullscreen, nil, areaspec.Options{MaxInputLength: 10})
	var perr *areaspec.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "input exceeds maximum length")

	p, err := NewWithOptions(".*", fullscreen, nil, areaspec.Options{MaxInputLength: len(fullscreen)})
	require.NoError(t, err)
	assert.Len(t, p.Areas(), 1)
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("  games ")
	require.NoError(t, err)
	assert.Equal(t, &Category{Name: "games", Enabled: true}, c)

	_, err = NewCategory(" ")
	require.ErrorIs(t, err, ErrEmptyCategoryName)
}

func TestProfile_EffectivePriority(t *testing.T) {
	tests := []struct {
		name     string
		priority *int
		category *Category
		want     *int
	}{
		{"none", nil, nil, nil},
		{"own", intPtr(2), nil, intPtr(2)},
		{"category fallback", nil, &Category{Name: "c", Priority: 7}, intPtr(7)},
		{"own beats category", intPtr(-1), &Category{Name: "c", Priority: 7}, intPtr(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(".*", fullscreen, tt.priority)
			require.NoError(t, err)
			p.SetCategory(tt.category)
			assert.Equal(t, tt.want, p.EffectivePriority())
		})
	}
}

func TestProfile_Enabled(t *testing.T) {
	p, err := New(".*", fullscreen, nil)
	require.NoError(t, err)
	assert.True(t, p.Enabled(), "uncategorised profiles are enabled")

	p.SetCategory(&Category{Name: "off"})
	assert.False(t, p.Enabled())

	p.SetCategory(&Category{Name: "on", Enabled: true})
	assert.True(t, p.Enabled())

	p.SetCategory(nil)
	assert.Nil(t, p.Category())
	assert.True(t, p.Enabled())
}

func TestNotFoundError(t *testing.T) {
	err := error(&NotFoundError{ID: 4})
	assert.Equal(t, "profile not found: 4", err.Error())
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(errors.Join(errors.New("ctx"), err)))
	assert.False(t, IsNotFound(errors.New("other")))

	assert.Equal(t, "profile not found: abc", (&NotFoundError{GUID: "abc"}).Error())
}

func TestCategoryNotFoundError(t *testing.T) {
	err := error(&CategoryNotFoundError{Name: "games"})
	assert.Equal(t, "category not found: games", err.Error())
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "category not found: 9", (&CategoryNotFoundError{ID: 9}).Error())
}

func TestEnabled(t *testing.T) {
	a, err := New("a", fullscreen, nil)
	require.NoError(t, err)
	b, err := New("b", fullscreen, nil)
	require.NoError(t, err)
	b.SetCategory(&Category{Name: "off"})
	c, err := New("c", fullscreen, nil)
	require.NoError(t, err)
	c.SetCategory(&Category{Name: "on", Enabled: true})

	assert.Equal(t, []*Profile{a, c}, Enabled([]*Profile{a, b, c}))
	assert.Empty(t, Enabled(nil))
}
