package areaspec

import "strings"

// Cursor is a read position over an immutable input string.
// It tracks the 1-based line and column of the next unread character.
type Cursor struct {
	input []rune
	pos   int
	line  int
	col   int
}

// NewCursor creates a cursor at the start of input.
func NewCursor(input string) *Cursor {
	return &Cursor{
		input: []rune(input),
		line:  1,
		col:   1,
	}
}

// Peek returns up to n characters at the current position without advancing.
// Near the end of input it returns fewer characters, down to the empty string.
func (c *Cursor) Peek(n int) string {
	return string(c.input[c.pos:c.limit(n)])
}

// Consume removes and returns up to n characters, advancing line and column.
func (c *Cursor) Consume(n int) string {
	end := c.limit(n)
	consumed := string(c.input[c.pos:end])
	c.pos = end

	if newlines := strings.Count(consumed, "\n"); newlines > 0 {
		c.line += newlines
		after := consumed[strings.LastIndexByte(consumed, '\n')+1:]
		c.col = len([]rune(after)) + 1
	} else {
		c.col += len([]rune(consumed))
	}

	return consumed
}

// AtEnd reports whether all input has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.input)
}

// Line returns the 1-based line of the next unread character.
func (c *Cursor) Line() int { return c.line }

// Col returns the 1-based column of the next unread character.
func (c *Cursor) Col() int { return c.col }

// Remaining returns the number of unread characters.
func (c *Cursor) Remaining() int {
	return len(c.input) - c.pos
}

func (c *Cursor) limit(n int) int {
	if n < 0 {
		n = 0
	}
	end := c.pos + n
	if end > len(c.input) {
		end = len(c.input)
	}
	return end
}
