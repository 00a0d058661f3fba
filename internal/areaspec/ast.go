package areaspec

import (
	"fmt"
	"strconv"
)

// Distance is a measurement along one monitor axis: either Pixels or Percentage.
type Distance interface {
	isDistance()
	String() string
}

// Pixels is an absolute distance in pixels.
type Pixels int

func (Pixels) isDistance() {}

// String renders the distance as "<n>px".
func (p Pixels) String() string {
	return strconv.Itoa(int(p)) + "px"
}

// Percentage is a distance relative to the monitor dimension, in [0, 100].
type Percentage float64

func (Percentage) isDistance() {}

// String renders the distance as "<n>%" using the shortest exact decimal form.
func (p Percentage) String() string {
	v := float64(p)
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// Selector restricts an area to one monitor resolution.
// The zero value is the wildcard and matches any resolution.
type Selector struct {
	Width  int
	Height int
}

// Wildcard returns the selector matching any resolution.
func Wildcard() Selector {
	return Selector{}
}

// Resolution returns a selector for a width x height monitor.
func Resolution(width, height int) Selector {
	return Selector{Width: width, Height: height}
}

// IsWildcard reports whether s matches any resolution.
func (s Selector) IsWildcard() bool {
	return s.Width == 0 && s.Height == 0
}

// Matches reports whether s applies to a monitor of the given resolution.
func (s Selector) Matches(width, height int) bool {
	return s.IsWildcard() || (s.Width == width && s.Height == height)
}

// String renders the selector as "*" or "<width>x<height>".
func (s Selector) String() string {
	if s.IsWildcard() {
		return "*"
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Area is one capture-region descriptor.
type Area struct {
	Selector Selector
	X        Distance
	Y        Distance
	Width    Distance
	Height   Distance
}

// Document is the ordered result of parsing; order reflects authoring order.
type Document []Area

// fieldNames lists the block fields in canonical order.
var fieldNames = []string{"x", "y", "width", "height"}

func (a *Area) set(field string, d Distance) {
	switch field {
	case "x":
		a.X = d
	case "y":
		a.Y = d
	case "width":
		a.Width = d
	case "height":
		a.Height = d
	}
}

func (a Area) get(field string) Distance {
	switch field {
	case "x":
		return a.X
	case "y":
		return a.Y
	case "width":
		return a.Width
	case "height":
		return a.Height
	}
	return nil
}
