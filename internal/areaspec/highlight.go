package areaspec

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Highlight applies syntax highlighting to area specification text.
// Whitespace is preserved; invalid or partial input is highlighted token by
// token without failing.
func Highlight(input string) string {
	if input == "" {
		return ""
	}

	styles := activeStyles()
	runes := []rune(input)
	lineStarts := lineOffsets(runes)
	tokens := Tokenize(input)

	var result strings.Builder
	last := 0
	inBlock := false

	for i, tok := range tokens {
		start := lineStarts[tok.Line-1] + tok.Col - 1
		if start > last {
			result.WriteString(string(runes[last:start]))
		}

		text := tok.Value
		if text == "" {
			text = tok.Type.String()
		}

		var style lipgloss.Style
		switch tok.Type {
		case TokenBlockOpen:
			inBlock = true
			style = styles.Punctuation
		case TokenBlockClose:
			inBlock = false
			style = styles.Punctuation
		case TokenFieldEnd, TokenStatementEnd:
			style = styles.Punctuation
		case TokenWildcard:
			style = styles.Selector
		case TokenPercentageSign:
			style = styles.Unit
		case TokenInteger, TokenDecimalPoint:
			if inBlock {
				style = styles.Number
			} else {
				style = styles.Selector
			}
		case TokenLiteral:
			style = literalStyle(styles, tokens, i, inBlock)
		default:
			if strings.TrimSpace(text) == "" {
				// Render tabs and carriage returns untouched.
				result.WriteString(text)
				last = start + len([]rune(text))
				continue
			}
			style = styles.Error
		}

		result.WriteString(style.Render(text))
		last = start + len([]rune(text))
	}

	if last < len(runes) {
		result.WriteString(string(runes[last:]))
	}

	return result.String()
}

// literalStyle classifies an identifier by its neighbours.
func literalStyle(styles Styles, tokens []Token, i int, inBlock bool) lipgloss.Style {
	tok := tokens[i]
	if !inBlock {
		if tok.Value == "x" {
			return styles.Selector
		}
		return styles.Error
	}
	if tok.Value == "px" && i > 0 && tokens[i-1].Type == TokenInteger {
		return styles.Unit
	}
	if i+1 < len(tokens) && tokens[i+1].Type == TokenFieldEnd {
		return styles.Field
	}
	return styles.Error
}

// lineOffsets returns the rune offset at which each line starts.
func lineOffsets(runes []rune) []int {
	offsets := []int{0}
	for i, r := range runes {
		if r == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
