package areaspec

import "strings"

// Lexer tokenizes area specification input.
type Lexer struct {
	cursor *Cursor
}

// NewLexer creates a new lexer for the input string.
func NewLexer(input string) *Lexer {
	return &Lexer{cursor: NewCursor(input)}
}

// Tokenize returns every token in input, in order.
// Unrecognized characters become TokenUnknown; tokenizing never fails.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token, or false once the input is exhausted.
func (l *Lexer) Next() (Token, bool) {
	c := l.cursor
	for !c.AtEnd() {
		ch := c.Peek(1)
		if ch == " " || ch == "\n" {
			c.Consume(1)
			continue
		}

		tok := Token{Line: c.Line(), Col: c.Col()}

		if typ, ok := symbolAt(ch); ok {
			c.Consume(1)
			tok.Type = typ
			return tok, true
		}

		if digits := l.readWhile(isDigit); digits != "" {
			tok.Type = TokenInteger
			tok.Value = digits
			return tok, true
		}

		if letters := l.readWhile(isLetter); letters != "" {
			tok.Type = TokenLiteral
			tok.Value = letters
			return tok, true
		}

		tok.Type = TokenUnknown
		tok.Value = c.Consume(1)
		return tok, true
	}
	return Token{}, false
}

// readWhile consumes the maximal run of ASCII characters satisfying pred.
func (l *Lexer) readWhile(pred func(byte) bool) string {
	var sb strings.Builder
	for {
		ch := l.cursor.Peek(1)
		if len(ch) != 1 || !pred(ch[0]) {
			break
		}
		sb.WriteString(l.cursor.Consume(1))
	}
	return sb.String()
}

func symbolAt(ch string) (TokenType, bool) {
	for _, s := range symbols {
		if ch == string(s.char) {
			return s.typ, true
		}
	}
	return 0, false
}

// isLetter returns true if c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDigit returns true if c is an ASCII digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
