package pcresyntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexMode uint8

const (
	lexModeDefault lexMode = iota
	// Inside [...]. Entered on '[' and left on the closing ']'.
	lexModeClass
)

type lexer struct {
	src  string
	pos  int
	mode lexMode

	// Number of class members emitted since the opening '[', not counting
	// a leading '^'. While zero, ']' is a literal.
	classMembers int
	classCaret   bool
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// Tokenize splits src into tokens. The returned slice always ends with an
// EOF token.
func Tokenize(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

var posixSetNames = map[string]struct{}{
	"alnum": {}, "alpha": {}, "ascii": {}, "blank": {}, "cntrl": {}, "digit": {}, "graph": {},
	"lower": {}, "print": {}, "punct": {}, "space": {}, "upper": {}, "word": {}, "xdigit": {},
}

// Property names PCRE accepts on top of the general categories and scripts.
var extraPropertyNames = map[string]struct{}{
	"Any": {}, "L&": {}, "Xan": {}, "Xps": {}, "Xsp": {}, "Xuc": {}, "Xwd": {},
}

func isKnownProperty(name string) bool {
	if _, ok := unicode.Categories[name]; ok {
		return true
	}
	if _, ok := unicode.Scripts[name]; ok {
		return true
	}
	_, ok := extraPropertyNames[name]
	return ok
}

var punctuationKinds = map[byte]TokenKind{
	'.': Dot,
	'^': Caret,
	'$': EndOfSubjectOrLine,
	'|': Pipe,
	'(': OpenParen,
	')': CloseParen,
	'?': QuestionMark,
	'+': Plus,
	'*': Star,
	'{': OpenBrace,
	'}': CloseBrace,
	',': Comma,
	'<': LessThan,
	'>': GreaterThan,
	'\'': SingleQuote,
	'_': Underscore,
	':': Colon,
	'#': Hash,
	'=': Equals,
	'!': Exclamation,
	'&': Ampersand,
	'-': Hyphen,
	']': CharacterClassEnd,
}

var escapedCharTypes = map[byte]TokenKind{
	'd': DecimalDigit,
	'D': NotDecimalDigit,
	'h': HorizontalWhiteSpace,
	'H': NotHorizontalWhiteSpace,
	's': WhiteSpace,
	'S': NotWhiteSpace,
	'v': VerticalWhiteSpace,
	'V': NotVerticalWhiteSpace,
	'w': WordChar,
	'W': NotWordChar,
}

// Escapes only meaningful outside a character class.
var escapedAssertions = map[byte]TokenKind{
	'b': WordBoundary,
	'B': NonWordBoundary,
	'A': StartOfSubject,
	'Z': EndOfSubjectOrLineEndOfSubject,
	'z': EndOfSubject,
	'G': PreviousMatchInSubject,
	'K': ResetStartMatch,
	'N': NotNewLine,
	'R': NewLineSequence,
	'X': ExtendedUnicodeChar,
	'C': OneDataUnit,
	'g': SubroutineOrNamedReferenceStartG,
	'k': NamedReferenceStartK,
}

var decodedEscapes = map[byte]struct {
	kind TokenKind
	text string
}{
	't': {Tab, "\t"},
	'n': {NewLine, "\n"},
	'r': {CarriageReturn, "\r"},
	'f': {FormFeed, "\f"},
	'a': {BellChar, "\a"},
	'e': {EscapeChar, "\x1b"},
}

func isASCIIDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isOctalDigit(c byte) bool  { return c >= '0' && c <= '7' }
func isASCIILetter(c byte) bool { return c|0x20 >= 'a' && c|0x20 <= 'z' }
func isHexDigit(c byte) bool {
	return isASCIIDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f')
}

// isCodePoint reports whether v is a Unicode scalar value.
func isCodePoint(v uint64) bool {
	return v <= unicode.MaxRune && (v < 0xD800 || v > 0xDFFF)
}

func (l *lexer) peek(n int) (byte, bool) {
	if l.pos+n >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos+n], true
}

func (l *lexer) emit(kind TokenKind, text string, end int) Token {
	tok := Token{Kind: kind, Text: text, Start: l.pos, End: end}
	l.pos = end
	return tok
}

func (l *lexer) errorf(end int, reason string) *LexError {
	if end > len(l.src) {
		end = len(l.src)
	}
	return newLexError(l.pos, l.src[l.pos:end], reason)
}

func (l *lexer) next() (Token, error) {
	for {
		if l.pos >= len(l.src) {
			return Token{Kind: EOF, Start: l.pos, End: l.pos}, nil
		}
		var (
			tok  Token
			skip bool
			err  error
		)
		if l.mode == lexModeClass {
			tok, skip, err = l.nextInClass()
		} else {
			tok, skip, err = l.nextDefault()
		}
		if err != nil || !skip {
			return tok, err
		}
	}
}

func (l *lexer) nextDefault() (Token, bool, error) {
	c := l.src[l.pos]
	switch c {
	case '\\':
		return l.lexEscape()
	case '[':
		if tok, ok, err := l.lexPOSIXSet(true); ok || err != nil {
			return tok, false, err
		}
		l.mode = lexModeClass
		l.classMembers = 0
		l.classCaret = false
		return l.emit(CharacterClassStart, "[", l.pos+1), false, nil
	case '(':
		if strings.HasPrefix(l.src[l.pos:], "(?#") {
			if tok, ok := l.lexComment(); ok {
				return tok, false, nil
			}
		}
	}
	if kind, ok := punctuationKinds[c]; ok {
		return l.emit(kind, l.src[l.pos:l.pos+1], l.pos+1), false, nil
	}
	return l.lexChar(), false, nil
}

func (l *lexer) nextInClass() (Token, bool, error) {
	c := l.src[l.pos]
	first := l.classMembers == 0
	if c == '^' && first && !l.classCaret {
		l.classCaret = true
		return l.emit(Caret, "^", l.pos+1), false, nil
	}
	if c == ']' && !first {
		l.mode = lexModeDefault
		return l.emit(CharacterClassEnd, "]", l.pos+1), false, nil
	}

	var (
		tok  Token
		skip bool
		err  error
	)
	switch c {
	case '\\':
		tok, skip, err = l.lexEscape()
	case '-':
		tok = l.emit(Hyphen, "-", l.pos+1)
	case '[':
		var ok bool
		tok, ok, err = l.lexPOSIXSet(false)
		if !ok && err == nil {
			tok = l.emit(OtherChar, "[", l.pos+1)
		}
	default:
		if isASCIILetter(c) || isASCIIDigit(c) {
			tok = l.lexChar()
		} else {
			_, size := utf8.DecodeRuneInString(l.src[l.pos:])
			tok = l.emit(OtherChar, l.src[l.pos:l.pos+size], l.pos+size)
		}
	}
	if err == nil && !skip {
		l.classMembers++
	}
	return tok, skip, err
}

func (l *lexer) lexChar() Token {
	c := l.src[l.pos]
	switch {
	case isASCIILetter(c):
		return l.emit(Letter, l.src[l.pos:l.pos+1], l.pos+1)
	case isASCIIDigit(c):
		return l.emit(Digit, l.src[l.pos:l.pos+1], l.pos+1)
	}
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	return l.emit(OtherChar, l.src[l.pos:l.pos+size], l.pos+size)
}

// lexComment reads "(?#...)" up to the first unescaped ')'.
func (l *lexer) lexComment() (Token, bool) {
	start := l.pos + len("(?#")
	for i := start; i < len(l.src); i++ {
		switch l.src[i] {
		case '\\':
			i++
		case ')':
			return l.emit(Comment, l.src[start:i], i+1), true
		}
	}
	return Token{}, false
}

// lexPOSIXSet reads "[:name:]" inside a class, or "[[:name:]]" outside
// one. It reports false when the input does not have that shape.
func (l *lexer) lexPOSIXSet(wrapped bool) (Token, bool, error) {
	rest := l.src[l.pos:]
	open, shut := "[:", ":]"
	if wrapped {
		open, shut = "[[:", ":]]"
	}
	if !strings.HasPrefix(rest, open) {
		return Token{}, false, nil
	}
	end := strings.Index(rest[len(open):], shut)
	if end < 0 {
		return Token{}, false, nil
	}
	name := rest[len(open) : len(open)+end]
	kind := POSIXNamedSet
	if strings.HasPrefix(name, "^") {
		kind = POSIXNegatedNamedSet
		name = name[1:]
	}
	for i := 0; i < len(name); i++ {
		if !isASCIILetter(name[i]) {
			return Token{}, false, nil
		}
	}
	total := len(open) + end + len(shut)
	if _, ok := posixSetNames[name]; !ok {
		return Token{}, false, l.errorf(l.pos+total, "unknown POSIX class name")
	}
	return l.emit(kind, name, l.pos+total), true, nil
}

// lexEscape reads an escape sequence starting at '\'. The second result
// is true when the escape produces no token.
func (l *lexer) lexEscape() (Token, bool, error) {
	c, ok := l.peek(1)
	if !ok {
		return Token{}, false, l.errorf(l.pos+1, `\ at end of pattern`)
	}
	inClass := l.mode == lexModeClass
	switch {
	case c == 'Q':
		return l.lexBlockQuote()
	case c == 'E':
		l.pos += 2
		return Token{}, true, nil
	case c == 'c':
		x, ok := l.peek(2)
		if !ok || x < 0x20 || x > 0x7e {
			return Token{}, false, l.errorf(l.pos+3, `\c must be followed by a printable ASCII character`)
		}
		return l.emit(ControlChar, string(x), l.pos+3), false, nil
	case c == 'x':
		return l.lexHex()
	case c == 'o':
		return l.lexBraceOctal()
	case c == 'p' || c == 'P':
		return l.lexProperty(c == 'P')
	case c == 'b' && inClass:
		return l.emit(Backspace, "\b", l.pos+2), false, nil
	case isASCIIDigit(c):
		return l.lexEscapedDigit(inClass)
	}
	if d, ok := decodedEscapes[c]; ok {
		return l.emit(d.kind, d.text, l.pos+2), false, nil
	}
	if kind, ok := escapedCharTypes[c]; ok {
		return l.emit(kind, l.src[l.pos:l.pos+2], l.pos+2), false, nil
	}
	if kind, ok := escapedAssertions[c]; ok {
		if inClass {
			return Token{}, false, l.errorf(l.pos+2, "escape sequence is invalid in character class")
		}
		return l.emit(kind, l.src[l.pos:l.pos+2], l.pos+2), false, nil
	}
	if isASCIILetter(c) {
		return Token{}, false, l.errorf(l.pos+2, "unrecognized escape sequence")
	}
	_, size := utf8.DecodeRuneInString(l.src[l.pos+1:])
	return l.emit(Quoted, l.src[l.pos+1:l.pos+1+size], l.pos+1+size), false, nil
}

func (l *lexer) lexBlockQuote() (Token, bool, error) {
	start := l.pos + 2
	end := strings.Index(l.src[start:], `\E`)
	next := len(l.src)
	if end < 0 {
		end = len(l.src)
	} else {
		end += start
		next = end + 2
	}
	return l.emit(BlockQuoted, l.src[start:end], next), false, nil
}

// lexEscapedDigit handles \0..\9. Outside a class a lone \1..\9 is a
// backreference digit; everything else is an octal character.
func (l *lexer) lexEscapedDigit(inClass bool) (Token, bool, error) {
	first := l.src[l.pos+1]
	maxDigits := 2
	switch {
	case first == '0':
		maxDigits = 3
	case first <= '3':
		maxDigits = 3
	}
	end := l.pos + 1
	if isOctalDigit(first) {
		for end < len(l.src) && end-(l.pos+1) < maxDigits && isOctalDigit(l.src[end]) {
			end++
		}
	}
	digits := end - (l.pos + 1)
	if first != '0' && digits < 2 {
		if inClass {
			if first == '8' || first == '9' {
				return l.emit(Quoted, string(first), l.pos+2), false, nil
			}
			return l.emit(OctalChar, string(rune(first-'0')), l.pos+2), false, nil
		}
		return l.emit(EscapedDigit, string(first), l.pos+2), false, nil
	}
	v, _ := strconv.ParseUint(l.src[l.pos+1:end], 8, 32)
	return l.emit(OctalChar, string(rune(v)), end), false, nil
}

func (l *lexer) lexBraceOctal() (Token, bool, error) {
	rest := l.src[l.pos+2:]
	if !strings.HasPrefix(rest, "{") {
		return Token{}, false, l.errorf(l.pos+2, `\o must be followed by {`)
	}
	end := strings.IndexByte(rest, '}')
	if end < 0 {
		return Token{}, false, l.errorf(len(l.src), `missing } in \o{`)
	}
	v, err := strconv.ParseUint(rest[1:end], 8, 32)
	if err != nil || !isCodePoint(v) {
		return Token{}, false, l.errorf(l.pos+2+end+1, `invalid octal value in \o{}`)
	}
	return l.emit(OctalChar, string(rune(v)), l.pos+2+end+1), false, nil
}

func (l *lexer) lexHex() (Token, bool, error) {
	start := l.pos + 2
	if strings.HasPrefix(l.src[start:], "{") {
		end := strings.IndexByte(l.src[start:], '}')
		if end < 0 {
			return Token{}, false, l.errorf(len(l.src), `missing } in \x{`)
		}
		digits := l.src[start+1 : start+end]
		for i := 0; i < len(digits); i++ {
			if !isHexDigit(digits[i]) {
				return Token{}, false, l.errorf(start+end+1, `invalid hexadecimal digit in \x{}`)
			}
		}
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil || !isCodePoint(v) {
			return Token{}, false, l.errorf(start+end+1, `invalid code point in \x{}`)
		}
		return l.emit(HexChar, string(rune(v)), start+end+1), false, nil
	}
	end := start
	for end < len(l.src) && end-start < 2 && isHexDigit(l.src[end]) {
		end++
	}
	var v uint64
	if end > start {
		v, _ = strconv.ParseUint(l.src[start:end], 16, 8)
	}
	return l.emit(HexChar, string(rune(v)), end), false, nil
}

// lexProperty reads \pX, \p{Name} or \p{^Name}; a '^' flips the kind.
func (l *lexer) lexProperty(negated bool) (Token, bool, error) {
	start := l.pos + 2
	if start >= len(l.src) {
		return Token{}, false, l.errorf(start, "malformed property escape")
	}
	var name string
	end := start + 1
	if l.src[start] == '{' {
		closing := strings.IndexByte(l.src[start:], '}')
		if closing < 0 {
			return Token{}, false, l.errorf(len(l.src), "missing } in property escape")
		}
		name = l.src[start+1 : start+closing]
		end = start + closing + 1
		if strings.HasPrefix(name, "^") {
			negated = !negated
			name = name[1:]
		}
	} else {
		name = l.src[start:end]
	}
	if !isKnownProperty(name) {
		return Token{}, false, l.errorf(end, "unknown property name")
	}
	kind := CharWithProperty
	if negated {
		kind = CharWithoutProperty
	}
	return l.emit(kind, name, end), false, nil
}
