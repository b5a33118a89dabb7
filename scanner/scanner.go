// Package scanner lexes UTF-8 source text into a stream of tokens with
// zero-copy spans and line tracking, for consumption by the compiler's
// single-pass Pratt parser.
package scanner

import (
	"fmt"
	"unicode/utf8"

	"github.com/informatter/nilox/token"
)

// Scanner turns a source string into tokens one at a time. It borrows the
// source string directly: every Token it returns carries a Span that is a
// substring of source, so source must outlive every token it produced.
type Scanner struct {
	source string

	// start is the byte offset of the token currently being scanned.
	start int

	// current is the byte offset of the next unread byte.
	current int

	// line is the 1-based source line of the byte at `current`.
	line int
}

// New constructs a Scanner positioned at the beginning of source.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

// Line reports the scanner's current line, useful as a fallback line
// number when a caller needs to report a diagnostic with no token of its
// own to read a line from (e.g. an error at the very start of input).
func (s *Scanner) Line() int {
	return s.line
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.source)
}

// advance consumes and returns the rune at `current`, moving `current` past
// it. It must not be called at end of input; callers check atEnd first.
func (s *Scanner) advance() rune {
	r, width := utf8.DecodeRuneInString(s.source[s.current:])
	s.current += width
	return r
}

func (s *Scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.current:])
	return r
}

func (s *Scanner) peekNext() rune {
	if s.atEnd() {
		return 0
	}
	_, width := utf8.DecodeRuneInString(s.source[s.current:])
	next := s.current + width
	if next >= len(s.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[next:])
	return r
}

// match consumes the rune at `current` and returns true if it equals
// expected, otherwise leaves the position untouched and returns false.
func (s *Scanner) match(expected rune) bool {
	if s.atEnd() || s.peek() != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

// ScanToken returns the next token. A nil Token with a nil error signals
// end of input — there is no End-of-input TokenKind, mirroring the
// reference scanner's Option<Token>. A non-nil error means the scanner hit
// a lexical error; it is positioned just past the offending input so the
// caller can resume scanning.
func (s *Scanner) ScanToken() (*token.Token, error) {
	s.skipWhitespace()
	s.start = s.current

	if s.atEnd() {
		return nil, nil
	}

	line := s.line
	r := s.advance()

	switch {
	case isAlpha(r):
		return s.identifier(), nil
	case isDigit(r):
		return s.number(), nil
	}

	switch r {
	case '(':
		return s.make(token.LeftParen), nil
	case ')':
		return s.make(token.RightParen), nil
	case '{':
		return s.make(token.LeftBrace), nil
	case '}':
		return s.make(token.RightBrace), nil
	case ',':
		return s.make(token.Comma), nil
	case '.':
		return s.make(token.Dot), nil
	case '-':
		return s.make(token.Minus), nil
	case '+':
		return s.make(token.Plus), nil
	case ';':
		return s.make(token.Semicolon), nil
	case '*':
		return s.make(token.Star), nil
	case '/':
		return s.make(token.Slash), nil
	case '!':
		if s.match('=') {
			return s.make(token.BangEqual), nil
		}
		return s.make(token.Bang), nil
	case '=':
		if s.match('=') {
			return s.make(token.EqualEqual), nil
		}
		return s.make(token.Equal), nil
	case '<':
		if s.match('=') {
			return s.make(token.LessEqual), nil
		}
		return s.make(token.Less), nil
	case '>':
		if s.match('=') {
			return s.make(token.GreaterEqual), nil
		}
		return s.make(token.Greater), nil
	case '"':
		return s.string()
	}

	return nil, &ScanError{Line: line, Message: "Unexpected character"}
}

func (s *Scanner) make(kind token.Kind) *token.Token {
	return &token.Token{Kind: kind, Span: s.source[s.start:s.current], Line: s.line}
}

func (s *Scanner) string() (*token.Token, error) {
	startLine := s.line
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.atEnd() {
		return nil, &ScanError{Line: startLine, Message: "Unterminated string"}
	}

	// consume the closing quote
	s.advance()
	return &token.Token{Kind: token.String, Span: s.source[s.start:s.current], Line: startLine}, nil
}

func (s *Scanner) number() *token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	// the '.' only belongs to the number if followed by another digit, so
	// "1." scans as Number("1") then Dot, not an invalid number.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	return s.make(token.Number)
}

func (s *Scanner) identifier() *token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}

	span := s.source[s.start:s.current]
	if kind, ok := token.Keywords[span]; ok {
		return s.make(kind)
	}
	return s.make(token.Identifier)
}

// ScanError reports a lexical error and the line it occurred on.
type ScanError struct {
	Line    int
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Line, e.Message)
}
