// Package areaspec implements the capture-area specification language:
// a cursor, tokenizer, parser and serializer converting profile area text
// into a Document and back.
package areaspec

import "fmt"

// TokenType represents the type of lexical token.
type TokenType int

const (
	TokenStatementEnd   TokenType = iota // ;
	TokenBlockOpen                       // {
	TokenBlockClose                      // }
	TokenFieldEnd                        // :
	TokenDecimalPoint                    // .
	TokenPercentageSign                  // %
	TokenWildcard                        // *

	TokenLiteral // alphabetic identifier
	TokenInteger // digit run
	TokenUnknown // any other single character
)

// String returns the string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenStatementEnd:
		return ";"
	case TokenBlockOpen:
		return "{"
	case TokenBlockClose:
		return "}"
	case TokenFieldEnd:
		return ":"
	case TokenDecimalPoint:
		return "."
	case TokenPercentageSign:
		return "%"
	case TokenWildcard:
		return "*"
	case TokenLiteral:
		return "Identifier"
	case TokenInteger:
		return "Number"
	case TokenUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Token represents a lexical token and where it starts in the input.
type Token struct {
	Type  TokenType
	Value string // set for Literal, Integer and Unknown
	Line  int    // 1-based
	Col   int    // 1-based
}

// symbols lists the single-character tokens in matching priority order.
var symbols = []struct {
	char rune
	typ  TokenType
}{
	{';', TokenStatementEnd},
	{'{', TokenBlockOpen},
	{'}', TokenBlockClose},
	{':', TokenFieldEnd},
	{'.', TokenDecimalPoint},
	{'%', TokenPercentageSign},
	{'*', TokenWildcard},
}
