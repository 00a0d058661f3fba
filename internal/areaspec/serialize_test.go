package areaspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSerialize_SingleArea(t *testing.T) {
	doc := Document{{
		Selector: Resolution(1920, 1080),
		X:        Pixels(10),
		Y:        Pixels(20),
		Width:    Percentage(50),
		Height:   Percentage(12.5),
	}}

	expected := "1920x1080 {\n" +
		"   x: 10px;\n" +
		"   y: 20px;\n" +
		"   width: 50%;\n" +
		"   height: 12.5%;\n" +
		"}"
	assert.Equal(t, expected, Serialize(doc))
}

func TestSerialize_WildcardAndBlankLineBetweenBlocks(t *testing.T) {
	doc := Document{
		{Selector: Wildcard(), X: Pixels(0), Y: Pixels(0), Width: Percentage(100), Height: Percentage(100)},
		{Selector: Resolution(800, 600), X: Pixels(1), Y: Pixels(2), Width: Pixels(3), Height: Pixels(4)},
	}

	out := Serialize(doc)
	assert.Equal(t, "* {\n   x: 0px;\n   y: 0px;\n   width: 100%;\n   height: 100%;\n}\n\n"+
		"800x600 {\n   x: 1px;\n   y: 2px;\n   width: 3px;\n   height: 4px;\n}", out)
}

func TestSerialize_Empty(t *testing.T) {
	assert.Equal(t, "", Serialize(nil))
	assert.Equal(t, "", Serialize(Document{}))
}

func TestSerialize_NormalizesFieldOrder(t *testing.T) {
	doc, err := Parse("* { height: 4px; width: 3px; y: 2px; x: 1px; }")
	require.NoError(t, err)

	assert.Equal(t, "* {\n   x: 1px;\n   y: 2px;\n   width: 3px;\n   height: 4px;\n}", Serialize(doc))
}

func TestSerialize_ParseIsIdempotentAfterNormalization(t *testing.T) {
	input := "1024x768{width:010.50%;height:100%;x:0px;y:07px;}   *{x:1px;y:1px;width:1px;height:1px;}"

	first, err := Parse(input)
	require.NoError(t, err)
	canonical := Serialize(first)

	second, err := Parse(canonical)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, canonical, Serialize(second))
}

func TestDistance_String(t *testing.T) {
	assert.Equal(t, "0px", Pixels(0).String())
	assert.Equal(t, "1920px", Pixels(1920).String())
	assert.Equal(t, "100%", Percentage(100).String())
	assert.Equal(t, "0.1%", Percentage(0.1).String())
	assert.Equal(t, "33.333%", Percentage(33.333).String())
}

func TestSelector_Matches(t *testing.T) {
	assert.True(t, Wildcard().Matches(1920, 1080))
	assert.True(t, Resolution(1920, 1080).Matches(1920, 1080))
	assert.False(t, Resolution(1920, 1080).Matches(2560, 1440))
	assert.Equal(t, "*", Wildcard().String())
	assert.Equal(t, "2560x1440", Resolution(2560, 1440).String())
}

func distanceGen() *rapid.Generator[Distance] {
	return rapid.Custom(func(t *rapid.T) Distance {
		if rapid.Bool().Draw(t, "isPixels") {
			return Pixels(rapid.IntRange(0, 1<<20).Draw(t, "pixels"))
		}
		return Percentage(rapid.Float64Range(0, 100).Draw(t, "percentage"))
	})
}

func selectorGen() *rapid.Generator[Selector] {
	return rapid.Custom(func(t *rapid.T) Selector {
		if rapid.Bool().Draw(t, "wildcard") {
			return Wildcard()
		}
		return Resolution(
			rapid.IntRange(1, 16384).Draw(t, "width"),
			rapid.IntRange(1, 16384).Draw(t, "height"),
		)
	})
}

func areaGen() *rapid.Generator[Area] {
	return rapid.Custom(func(t *rapid.T) Area {
		return Area{
			Selector: selectorGen().Draw(t, "selector"),
			X:        distanceGen().Draw(t, "x"),
			Y:        distanceGen().Draw(t, "y"),
			Width:    distanceGen().Draw(t, "width"),
			Height:   distanceGen().Draw(t, "height"),
		}
	})
}

// Serialize followed by Parse reproduces any valid document exactly.
func TestSerialize_Property_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := Document(rapid.SliceOfN(areaGen(), 0, 5).Draw(t, "doc"))

		parsed, err := Parse(Serialize(doc))
		if err != nil {
			t.Fatalf("parse of serialized document failed: %v", err)
		}
		if len(parsed) != len(doc) {
			t.Fatalf("got %d areas, want %d", len(parsed), len(doc))
		}
		for i := range doc {
			if parsed[i] != doc[i] {
				t.Fatalf("area %d: got %+v, want %+v", i, parsed[i], doc[i])
			}
		}
	})
}
