package areaspec

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Options configures parsing.
type Options struct {
	// MaxInputLength rejects inputs longer than this many characters.
	// Zero or negative means no limit.
	MaxInputLength int
}

// Parse parses area specification text into a Document.
// Empty input yields an empty Document.
func Parse(input string) (Document, error) {
	return ParseTokens(Tokenize(input))
}

// ParseWithOptions parses input after applying the limits in opts.
func ParseWithOptions(input string, opts Options) (Document, error) {
	if opts.MaxInputLength > 0 {
		if n := utf8.RuneCountInString(input); n > opts.MaxInputLength {
			return nil, &ParseError{
				Message: "input exceeds maximum length: " + strconv.Itoa(n) + " > " + strconv.Itoa(opts.MaxInputLength),
			}
		}
	}
	return Parse(input)
}

// ParseTokens parses an already tokenized input. The slice is not modified.
func ParseTokens(tokens []Token) (Document, error) {
	p := &parser{tokens: tokens}
	doc := Document{}
	for p.peek() != nil {
		area, err := p.parseArea()
		if err != nil {
			return nil, err
		}
		doc = append(doc, area)
	}
	return doc, nil
}

// parser reads an immutable token slice front to back.
type parser struct {
	tokens []Token
	pos    int
}

// peek returns the next token without consuming it, or nil at the end.
func (p *parser) peek() *Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

// next consumes and returns the next token, or nil at the end.
func (p *parser) next() *Token {
	tok := p.peek()
	if tok != nil {
		p.pos++
	}
	return tok
}

// expect consumes the next token and checks its type.
func (p *parser) expect(typ TokenType, name string) (*Token, error) {
	tok := p.next()
	if tok == nil || tok.Type != typ {
		return nil, unexpected(name, tok)
	}
	return tok, nil
}

// parseArea parses one area specification.
// area = selector "{" { field } "}"
func (p *parser) parseArea() (Area, error) {
	selector, err := p.parseSelector()
	if err != nil {
		return Area{}, err
	}

	if _, err := p.expect(TokenBlockOpen, "'{'"); err != nil {
		return Area{}, err
	}

	area := Area{Selector: selector}
	seen := make(map[string]bool, len(fieldNames))
	for {
		tok := p.peek()
		if tok == nil {
			return Area{}, unexpected("field name or '}'", nil)
		}
		if tok.Type == TokenBlockClose {
			break
		}

		name, err := p.parseFieldName()
		if err != nil {
			return Area{}, err
		}
		if seen[name] {
			return Area{}, newError(tok, "'%s' was defined twice in this block", name)
		}

		if _, err := p.expect(TokenFieldEnd, "':'"); err != nil {
			return Area{}, err
		}

		dist, err := p.parseDistance()
		if err != nil {
			return Area{}, err
		}

		if _, err := p.expect(TokenStatementEnd, "';'"); err != nil {
			return Area{}, err
		}

		area.set(name, dist)
		seen[name] = true
	}

	closing := p.next() // consume }
	for _, name := range fieldNames {
		if !seen[name] {
			return Area{}, newError(closing, "area is missing '%s' field", name)
		}
	}

	return area, nil
}

// parseSelector parses "*" or "<width>x<height>".
func (p *parser) parseSelector() (Selector, error) {
	tok := p.next()
	switch {
	case tok != nil && tok.Type == TokenWildcard:
		return Wildcard(), nil

	case tok != nil && tok.Type == TokenInteger:
		width, err := dimension(tok)
		if err != nil {
			return Selector{}, err
		}

		sep := p.next()
		if sep == nil || sep.Type != TokenLiteral || sep.Value != "x" {
			return Selector{}, unexpected("'x'", sep)
		}

		heightTok, err := p.expect(TokenInteger, TokenInteger.String())
		if err != nil {
			return Selector{}, err
		}
		height, err := dimension(heightTok)
		if err != nil {
			return Selector{}, err
		}
		return Resolution(width, height), nil

	default:
		return Selector{}, unexpected("'*' or monitor dimensions", tok)
	}
}

// parseFieldName parses one of x, y, width or height.
func (p *parser) parseFieldName() (string, error) {
	tok := p.next()
	if tok == nil || tok.Type != TokenLiteral {
		return "", unexpected("field name", tok)
	}
	for _, name := range fieldNames {
		if tok.Value == name {
			return name, nil
		}
	}
	return "", newError(tok, "field name must be one of x, y, width or height, got %q", tok.Value)
}

// parseDistance parses a number followed by "%" or "px".
// distance = number ( "%" | "px" )
func (p *parser) parseDistance() (Distance, error) {
	num, err := p.parseNumber()
	if err != nil {
		return nil, err
	}

	unit := p.next()
	switch {
	case unit == nil:
		return nil, newError(nil, "only 'px' and '%%' units are supported")

	case unit.Type == TokenPercentageSign:
		value, err := strconv.ParseFloat(num.text(), 64)
		if err != nil || value < 0 || value > 100 {
			return nil, newError(unit, "value out of bounds, must be 0-100, got %s", num.text())
		}
		return Percentage(value), nil

	case unit.Type == TokenLiteral && unit.Value == "px":
		if strings.Trim(num.frac, "0") != "" {
			return nil, newError(num.tok, "pixel value must be a whole number, got %s", num.text())
		}
		value, err := strconv.Atoi(num.whole)
		if err != nil {
			return nil, newError(num.tok, "pixel value %s is out of range", num.whole)
		}
		return Pixels(value), nil

	case unit.Type == TokenLiteral:
		return nil, newError(unit, "unexpected '%s', only 'px' and '%%' units are supported", unit.Value)

	default:
		return nil, newError(unit, "only 'px' and '%%' units are supported, got %s", describe(*unit))
	}
}

// number is a non-negative decimal split at its decimal point.
type number struct {
	tok   *Token // integer part
	whole string
	frac  string // empty when there is no decimal point
}

func (n number) text() string {
	if n.frac == "" {
		return n.whole
	}
	return n.whole + "." + n.frac
}

// parseNumber parses an integer with an optional fractional part.
// number = integer [ "." integer ]
func (p *parser) parseNumber() (number, error) {
	tok, err := p.expect(TokenInteger, TokenInteger.String())
	if err != nil {
		return number{}, err
	}
	num := number{tok: tok, whole: tok.Value}

	if next := p.peek(); next != nil && next.Type == TokenDecimalPoint {
		p.next() // consume .
		frac, err := p.expect(TokenInteger, TokenInteger.String())
		if err != nil {
			return number{}, err
		}
		num.frac = frac.Value
	}
	return num, nil
}

// dimension converts a selector integer token to a positive int.
func dimension(tok *Token) (int, error) {
	n, err := strconv.Atoi(tok.Value)
	if err != nil || n <= 0 {
		return 0, newError(tok, "monitor dimension must be a positive integer, got %s", tok.Value)
	}
	return n, nil
}
