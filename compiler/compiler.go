// Package compiler implements the single-pass Pratt-style compiler: it
// consumes tokens from a scanner.Scanner and emits directly into a
// chunk.Chunk, without ever materializing an AST.
package compiler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/informatter/nilox/chunk"
	"github.com/informatter/nilox/debug"
	"github.com/informatter/nilox/scanner"
	"github.com/informatter/nilox/token"
	"github.com/informatter/nilox/value"
)

// Precedence orders the grammar's binary operators from loosest to
// tightest binding. parsePrecedence consumes everything at or above the
// precedence it is given.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// below returns the next precedence level up. It is used by binary's
// left-associative recursion: the right-hand operand is parsed one level
// tighter than the operator itself.
func below(p Precedence) Precedence {
	if p == PrecPrimary {
		return PrecPrimary
	}
	return p + 1
}

type parseFn func(*Compiler)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is the token-indexed Pratt table: a pure data constant mapping each
// token kind to its optional prefix handler, optional infix handler, and
// the precedence at which its infix form binds.
var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LeftParen:    {prefix: (*Compiler).grouping, precedence: PrecNone},
		token.Minus:        {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.Plus:         {infix: (*Compiler).binary, precedence: PrecTerm},
		token.Slash:        {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Star:         {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Bang:         {prefix: (*Compiler).unary, precedence: PrecNone},
		token.BangEqual:    {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EqualEqual:   {infix: (*Compiler).binary, precedence: PrecEquality},
		token.Greater:      {infix: (*Compiler).binary, precedence: PrecComparison},
		token.GreaterEqual: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Less:         {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LessEqual:    {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Number:       {prefix: (*Compiler).number, precedence: PrecNone},
		token.True:         {prefix: (*Compiler).literal, precedence: PrecNone},
		token.False:        {prefix: (*Compiler).literal, precedence: PrecNone},
		token.Nil:          {prefix: (*Compiler).literal, precedence: PrecNone},
	}
}

func getRule(kind token.Kind) parseRule {
	return rules[kind]
}

// Compiler drives a single left-to-right pass over a scanner's tokens,
// emitting bytecode into chunk as it goes.
type Compiler struct {
	scanner *scanner.Scanner
	chunk   *chunk.Chunk
	stderr  io.Writer

	previous *token.Token
	current  *token.Token

	hadError  bool
	panicMode bool
}

// Compile scans and compiles source in a single pass. On success it
// returns the resulting chunk and true. On failure — a scan or syntax
// error — it returns a nil chunk and false after writing one diagnostic
// line per reported error to stderr.
func Compile(source string, stderr io.Writer) (*chunk.Chunk, bool) {
	c := &Compiler{
		scanner: scanner.New(source),
		chunk:   chunk.New(),
		stderr:  stderr,
	}

	c.advance()
	c.expression()

	if c.current != nil {
		c.errorAtCurrent("Expected end of expression")
	}

	c.emitReturn()

	if c.hadError {
		return nil, false
	}

	if printCode {
		debug.DisassembleChunk(stderr, c.chunk, "code")
	}

	return c.chunk, true
}

// advance moves previous to the token current was holding and scans the
// next token into current, retrying past scan errors so that a single bad
// character does not stop compilation of the rest of the expression.
func (c *Compiler) advance() {
	c.previous = c.current
	c.current = nil

	for {
		tok, err := c.scanner.ScanToken()
		if err == nil {
			c.current = tok
			return
		}

		if scanErr, ok := err.(*scanner.ScanError); ok {
			c.errorAt(nil, scanErr.Line, scanErr.Message)
		} else {
			c.errorAt(nil, 0, err.Error())
		}
	}
}

// consume advances past current if it has the expected kind, otherwise
// reports message at the current token without advancing.
func (c *Compiler) consume(kind token.Kind, message string) {
	if c.current != nil && c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, c.previousLine(), message)
}

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, c.previousLine(), message)
}

// previousLine is the fallback line used for a token-less ("at end")
// report, when there is no token at all to read a line from.
func (c *Compiler) previousLine() int {
	if c.previous != nil {
		return c.previous.Line
	}
	return c.scanner.Line()
}

// errorAt reports message at tok, or — when tok is nil, meaning end of
// input or a scan error, which never carries a token — at line,
// formatted as spec'd: "[line L] Error at '<span>': msg" for a real
// token, "[line L] Error at end: msg" otherwise. Reports are suppressed
// while panicMode is set, so one error does not cascade into a wall of
// follow-on noise for the rest of the expression.
func (c *Compiler) errorAt(tok *token.Token, line int, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	if tok == nil {
		fmt.Fprintf(c.stderr, "[line %d] Error at end: %s\n", line, message)
		return
	}
	fmt.Fprintf(c.stderr, "[line %d] Error at '%s': %s\n", tok.Line, tok.Span, message)
}

// emit appends op to the chunk, stamped with the line of the previous
// token — the token that triggered this emission — or 0 if there was none.
func (c *Compiler) emit(op chunk.OpCode) {
	line := 0
	if c.previous != nil {
		line = c.previous.Line
	}
	c.chunk.Write(op, 0, line)
}

func (c *Compiler) emitReturn() {
	c.emit(chunk.OpReturn)
}

// emitConstant interns v into the chunk's constant pool and emits an
// OpConstant referencing it.
func (c *Compiler) emitConstant(v value.Value) {
	id, err := c.chunk.AddConstant(v)
	if err != nil {
		c.error(err.Error())
		return
	}
	c.chunk.Write(chunk.OpConstant, id, c.previousLine())
}

// expression parses and compiles a single expression at the lowest
// real precedence level.
func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the Pratt driver: it consumes one prefix expression,
// then keeps consuming infix operators whose precedence is at least p.
func (c *Compiler) parsePrecedence(p Precedence) {
	c.advance()

	if c.previous == nil {
		c.error("Expected expression")
		return
	}

	rule := getRule(c.previous.Kind)
	if rule.prefix == nil {
		c.error("Expected expression")
		return
	}
	rule.prefix(c)

	for c.current != nil && getRule(c.current.Kind).precedence >= p {
		c.advance()
		getRule(c.previous.Kind).infix(c)
	}
}

func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RightParen, "Expected ')' after expression")
}

func (c *Compiler) number() {
	n, err := strconv.ParseFloat(c.previous.Span, 64)
	if err != nil {
		c.error("Invalid number literal")
		return
	}
	c.emitConstant(value.Number(n))
}

func (c *Compiler) literal() {
	switch c.previous.Kind {
	case token.False:
		c.emit(chunk.OpFalse)
	case token.True:
		c.emit(chunk.OpTrue)
	case token.Nil:
		c.emit(chunk.OpNil)
	}
}

func (c *Compiler) unary() {
	operator := c.previous.Kind

	c.parsePrecedence(PrecUnary)

	switch operator {
	case token.Minus:
		c.emit(chunk.OpNegate)
	case token.Bang:
		c.emit(chunk.OpNot)
	}
}

// binary parses the right-hand operand at one precedence level tighter
// than the operator's own, giving left associativity, then emits the
// operator's instruction(s). != and >= and <= each compile to a pair of
// instructions built from their logical negation (a != b is !(a == b)).
func (c *Compiler) binary() {
	operator := c.previous.Kind
	rule := getRule(operator)

	c.parsePrecedence(below(rule.precedence))

	switch operator {
	case token.Plus:
		c.emit(chunk.OpAdd)
	case token.Minus:
		c.emit(chunk.OpSubtract)
	case token.Star:
		c.emit(chunk.OpMultiply)
	case token.Slash:
		c.emit(chunk.OpDivide)
	case token.EqualEqual:
		c.emit(chunk.OpEqual)
	case token.BangEqual:
		c.emit(chunk.OpEqual)
		c.emit(chunk.OpNot)
	case token.Greater:
		c.emit(chunk.OpGreater)
	case token.GreaterEqual:
		c.emit(chunk.OpLess)
		c.emit(chunk.OpNot)
	case token.Less:
		c.emit(chunk.OpLess)
	case token.LessEqual:
		c.emit(chunk.OpGreater)
		c.emit(chunk.OpNot)
	}
}
