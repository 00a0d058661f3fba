package areaspec

import "fmt"

// ParseError is a located, human-readable parse failure.
type ParseError struct {
	Message string
	Line    int
	Col     int
	EOF     bool // the input ended where a token was required
}

func (e *ParseError) Error() string {
	if e.EOF || e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Message, formatLocation(e.Line, e.Col))
}

// newError creates an error located at tok, or at EOF when tok is nil.
func newError(tok *Token, format string, args ...any) *ParseError {
	err := &ParseError{Message: fmt.Sprintf(format, args...)}
	if tok == nil {
		err.Message += " at EOF"
		err.EOF = true
		return err
	}
	err.Line = tok.Line
	err.Col = tok.Col
	return err
}

// unexpected reports that expected was required but got was found.
func unexpected(expected string, got *Token) *ParseError {
	if got == nil {
		return &ParseError{Message: fmt.Sprintf("expected %s, got EOF", expected), EOF: true}
	}
	return &ParseError{
		Message: fmt.Sprintf("expected %s, got %s", expected, describe(*got)),
		Line:    got.Line,
		Col:     got.Col,
	}
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenLiteral, TokenInteger, TokenUnknown:
		return fmt.Sprintf("%s %q", tok.Type, tok.Value)
	default:
		return fmt.Sprintf("'%s'", tok.Type)
	}
}

func formatLocation(line, col int) string {
	return fmt.Sprintf("(line %d, col %d)", line, col)
}
