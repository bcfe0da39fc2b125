package pcresyntax

import (
	"errors"
	"strconv"
)

var (
	// ErrNoSuchGroup is returned by Pattern.Group for an unregistered number.
	ErrNoSuchGroup = errors.New("no such group")
	// ErrNoSuchNamedGroup is returned by Pattern.NamedGroup for an unregistered name.
	ErrNoSuchNamedGroup = errors.New("no such named group")
)

// LexError reports that no token rule matched at Offset.
type LexError struct {
	Offset int
	Text   string
	Reason string
}

func (e *LexError) Error() string {
	return "pcresyntax: " + e.Reason + " at offset " + strconv.Itoa(e.Offset) + ": " + strconv.Quote(e.Text)
}

var _ error = (*LexError)(nil)

func newLexError(offset int, text, reason string) *LexError {
	return &LexError{Offset: offset, Text: text, Reason: reason}
}

// ParseError reports that the token stream did not match the grammar.
// Token is the offending token; it has kind EOF when input ended early.
type ParseError struct {
	Offset int
	Token  Token
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token.Kind == EOF {
		return "pcresyntax: " + e.Reason + " at end of pattern"
	}
	return "pcresyntax: " + e.Reason + " at offset " + strconv.Itoa(e.Offset) + ": " + strconv.Quote(e.Token.Text)
}

var _ error = (*ParseError)(nil)

func newParseError(tok Token, reason string) *ParseError {
	return &ParseError{Offset: tok.Start, Token: tok, Reason: reason}
}
