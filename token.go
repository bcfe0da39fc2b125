package pcresyntax

import "strconv"

// TokenKind identifies the lexical category of a Token.
type TokenKind uint8

const (
	EOF TokenKind = iota

	// Escapes. Text holds the decoded value.
	Quoted
	BlockQuoted
	BellChar
	ControlChar
	EscapeChar
	FormFeed
	NewLine
	CarriageReturn
	Tab
	Backspace
	EscapedDigit
	OctalChar
	HexChar

	// Character types.
	Dot
	OneDataUnit
	DecimalDigit
	NotDecimalDigit
	HorizontalWhiteSpace
	NotHorizontalWhiteSpace
	NotNewLine
	CharWithProperty
	CharWithoutProperty
	NewLineSequence
	WhiteSpace
	NotWhiteSpace
	VerticalWhiteSpace
	NotVerticalWhiteSpace
	WordChar
	NotWordChar
	ExtendedUnicodeChar

	// Character classes.
	CharacterClassStart
	CharacterClassEnd
	Caret
	Hyphen
	POSIXNamedSet
	POSIXNegatedNamedSet

	// Quantifiers.
	QuestionMark
	Plus
	Star
	OpenBrace
	CloseBrace
	Comma

	// Anchors and simple assertions.
	WordBoundary
	NonWordBoundary
	StartOfSubject
	EndOfSubjectOrLine
	EndOfSubjectOrLineEndOfSubject
	EndOfSubject
	PreviousMatchInSubject
	ResetStartMatch

	SubroutineOrNamedReferenceStartG
	NamedReferenceStartK

	// Punctuation.
	Pipe
	OpenParen
	CloseParen
	LessThan
	GreaterThan
	SingleQuote
	Underscore
	Colon
	Hash
	Equals
	Exclamation
	Ampersand

	Comment
	Letter
	Digit
	OtherChar

	tokenKindCount
)

var tokenKindNames = [tokenKindCount]string{
	EOF:                              "EOF",
	Quoted:                           "Quoted",
	BlockQuoted:                      "BlockQuoted",
	BellChar:                         "BellChar",
	ControlChar:                      "ControlChar",
	EscapeChar:                       "EscapeChar",
	FormFeed:                         "FormFeed",
	NewLine:                          "NewLine",
	CarriageReturn:                   "CarriageReturn",
	Tab:                              "Tab",
	Backspace:                        "Backspace",
	EscapedDigit:                     "EscapedDigit",
	OctalChar:                        "OctalChar",
	HexChar:                          "HexChar",
	Dot:                              "Dot",
	OneDataUnit:                      "OneDataUnit",
	DecimalDigit:                     "DecimalDigit",
	NotDecimalDigit:                  "NotDecimalDigit",
	HorizontalWhiteSpace:             "HorizontalWhiteSpace",
	NotHorizontalWhiteSpace:          "NotHorizontalWhiteSpace",
	NotNewLine:                       "NotNewLine",
	CharWithProperty:                 "CharWithProperty",
	CharWithoutProperty:              "CharWithoutProperty",
	NewLineSequence:                  "NewLineSequence",
	WhiteSpace:                       "WhiteSpace",
	NotWhiteSpace:                    "NotWhiteSpace",
	VerticalWhiteSpace:               "VerticalWhiteSpace",
	NotVerticalWhiteSpace:            "NotVerticalWhiteSpace",
	WordChar:                         "WordChar",
	NotWordChar:                      "NotWordChar",
	ExtendedUnicodeChar:              "ExtendedUnicodeChar",
	CharacterClassStart:              "CharacterClassStart",
	CharacterClassEnd:                "CharacterClassEnd",
	Caret:                            "Caret",
	Hyphen:                           "Hyphen",
	POSIXNamedSet:                    "POSIXNamedSet",
	POSIXNegatedNamedSet:             "POSIXNegatedNamedSet",
	QuestionMark:                     "QuestionMark",
	Plus:                             "Plus",
	Star:                             "Star",
	OpenBrace:                        "OpenBrace",
	CloseBrace:                       "CloseBrace",
	Comma:                            "Comma",
	WordBoundary:                     "WordBoundary",
	NonWordBoundary:                  "NonWordBoundary",
	StartOfSubject:                   "StartOfSubject",
	EndOfSubjectOrLine:               "EndOfSubjectOrLine",
	EndOfSubjectOrLineEndOfSubject:   "EndOfSubjectOrLineEndOfSubject",
	EndOfSubject:                     "EndOfSubject",
	PreviousMatchInSubject:           "PreviousMatchInSubject",
	ResetStartMatch:                  "ResetStartMatch",
	SubroutineOrNamedReferenceStartG: "SubroutineOrNamedReferenceStartG",
	NamedReferenceStartK:             "NamedReferenceStartK",
	Pipe:                             "Pipe",
	OpenParen:                        "OpenParen",
	CloseParen:                       "CloseParen",
	LessThan:                         "LessThan",
	GreaterThan:                      "GreaterThan",
	SingleQuote:                      "SingleQuote",
	Underscore:                       "Underscore",
	Colon:                            "Colon",
	Hash:                             "Hash",
	Equals:                           "Equals",
	Exclamation:                      "Exclamation",
	Ampersand:                        "Ampersand",
	Comment:                          "Comment",
	Letter:                           "Letter",
	Digit:                            "Digit",
	OtherChar:                        "OtherChar",
}

func (k TokenKind) String() string {
	if k < tokenKindCount {
		return tokenKindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a lexical unit of a pattern. Start and End are byte offsets into
// the source, End exclusive. Text holds the decoded value for escapes and
// the raw spelling otherwise.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int
	End   int
}

// char returns the single character a Letter, Digit or punctuation token
// stands for, or -1.
func (t Token) char() rune {
	if len(t.Text) != 1 || t.End-t.Start != 1 {
		return -1
	}
	return rune(t.Text[0])
}

func (t Token) is(kind TokenKind, r rune) bool {
	return t.Kind == kind && t.char() == r
}
