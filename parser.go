package pcresyntax

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Upper limit for {n,m} bounds.
const maxRepeat = 65535

type parser struct {
	src    string
	tokens []Token
	pos    int
	// End offset of the last consumed token.
	lastEnd int

	// groups[n] is the subtree of capture group n; groups[0] is the root.
	// A slot is reserved when a capturing form opens and filled when it
	// closes.
	groups []*Node
	named  map[string]*Node
	names  []string
}

func newParser(src string, tokens []Token) *parser {
	return &parser{
		src:    src,
		tokens: tokens,
		groups: []*Node{nil},
		named:  map[string]*Node{},
	}
}

func (p *parser) peek(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *parser) cur() Token { return p.peek(0) }

func (p *parser) at(kind TokenKind) bool { return p.cur().Kind == kind }

func (p *parser) advance() Token {
	tok := p.cur()
	if tok.Kind != EOF {
		p.pos++
		p.lastEnd = tok.End
	}
	return tok
}

func (p *parser) expect(kind TokenKind, reason string) (Token, error) {
	if !p.at(kind) {
		return Token{}, p.errorf(reason)
	}
	return p.advance(), nil
}

func (p *parser) errorf(reason string) *ParseError {
	return newParseError(p.cur(), reason)
}

func (p *parser) reserveGroup() int {
	p.groups = append(p.groups, nil)
	return len(p.groups) - 1
}

// reserveName claims name for the group being opened. It reports false when
// an earlier group, possibly an enclosing one, already owns the name.
func (p *parser) reserveName(name string) bool {
	if _, ok := p.named[name]; ok {
		return false
	}
	p.named[name] = nil
	p.names = append(p.names, name)
	return true
}

func (p *parser) parse() (*Node, error) {
	root, err := p.parseRegex()
	if err != nil {
		return nil, err
	}
	if !p.at(EOF) {
		return nil, p.errorf("unmatched closing parenthesis")
	}
	// Group 0 spans the whole input, including any lone \E the lexer
	// skipped at either end.
	root.Start, root.End = 0, p.cur().Start
	p.groups[0] = root
	return root, nil
}

func (p *parser) parseRegex() (*Node, error) {
	start := p.cur().Start
	alt, err := p.parseAlternative()
	if err != nil {
		return nil, err
	}
	if !p.at(Pipe) {
		return alt, nil
	}
	alts := []*Node{alt}
	for p.at(Pipe) {
		p.advance()
		alt, err := p.parseAlternative()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	return newNode(Or, start, p.lastEnd, alts...), nil
}

func (p *parser) parseAlternative() (*Node, error) {
	start := p.cur().Start
	alt := newNode(Alternative, start, start)
	for !p.at(EOF) && !p.at(Pipe) && !p.at(CloseParen) {
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		alt.Children = append(alt.Children, el)
		alt.End = el.End
	}
	return alt, nil
}

func (p *parser) parseElement() (*Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	el := newNode(Element, atom.Start, atom.End, atom)
	q, err := p.parseQuantifier()
	if err != nil {
		return nil, err
	}
	if q != nil {
		el.Children = append(el.Children, q)
		el.End = q.End
	}
	return el, nil
}

// boundAhead reports whether the tokens at the cursor spell {n}, {n,} or
// {n,m}.
func (p *parser) boundAhead() bool {
	i := 1
	digits := func() int {
		n := 0
		for p.peek(i).Kind == Digit {
			i++
			n++
		}
		return n
	}
	if !p.at(OpenBrace) || digits() == 0 {
		return false
	}
	if p.peek(i).Kind == Comma {
		i++
		digits()
	}
	return p.peek(i).Kind == CloseBrace
}

func (p *parser) parseQuantifier() (*Node, error) {
	tok := p.cur()
	var lo, hi *Node
	switch tok.Kind {
	case QuestionMark:
		p.advance()
		lo = newLeaf(Number, "0", tok.Start, tok.End)
		hi = newLeaf(Number, "1", tok.Start, tok.End)
	case Star:
		p.advance()
		lo = newLeaf(Number, "0", tok.Start, tok.End)
		hi = newLeaf(Unbounded, "", tok.Start, tok.End)
	case Plus:
		p.advance()
		lo = newLeaf(Number, "1", tok.Start, tok.End)
		hi = newLeaf(Unbounded, "", tok.Start, tok.End)
	case OpenBrace:
		if p.peek(1).Kind != Digit {
			return nil, nil
		}
		var err error
		if lo, hi, err = p.parseBound(); err != nil {
			return nil, err
		}
	default:
		return nil, nil
	}

	mode := newLeaf(Greedy, "", p.lastEnd, p.lastEnd)
	switch p.cur().Kind {
	case QuestionMark:
		t := p.advance()
		mode = newLeaf(Lazy, "", t.Start, t.End)
	case Plus:
		t := p.advance()
		mode = newLeaf(Possessive, "", t.Start, t.End)
	}
	return newNode(Quantifier, tok.Start, p.lastEnd, lo, hi, mode), nil
}

func (p *parser) parseBound() (*Node, *Node, error) {
	p.advance()
	lo, err := p.parseNumber("malformed quantifier")
	if err != nil {
		return nil, nil, err
	}
	hi := newLeaf(Number, lo.Text, lo.Start, lo.End)
	if p.at(Comma) {
		comma := p.advance()
		if p.at(CloseBrace) {
			hi = newLeaf(Unbounded, "", comma.End, comma.End)
		} else if hi, err = p.parseNumber("malformed quantifier"); err != nil {
			return nil, nil, err
		}
	}
	if _, err := p.expect(CloseBrace, "malformed quantifier"); err != nil {
		return nil, nil, err
	}
	loVal, loErr := strconv.Atoi(lo.Text)
	hiVal, hiErr := strconv.Atoi(hi.Text)
	if loErr != nil || loVal > maxRepeat || (hi.Kind == Number && (hiErr != nil || hiVal > maxRepeat)) {
		return nil, nil, newParseError(p.tokens[p.pos-1], "number too big in {} quantifier")
	}
	if hi.Kind == Number && loVal > hiVal {
		return nil, nil, newParseError(p.tokens[p.pos-1], "numbers out of order in {} quantifier")
	}
	return lo, hi, nil
}

// parseNumber reads one or more Digit tokens into a NUMBER leaf.
func (p *parser) parseNumber(reason string) (*Node, error) {
	if !p.at(Digit) {
		return nil, p.errorf(reason)
	}
	start := p.cur().Start
	var b strings.Builder
	for p.at(Digit) {
		b.WriteString(p.advance().Text)
	}
	return newLeaf(Number, b.String(), start, p.lastEnd), nil
}

func isNameToken(tok Token) bool {
	return tok.Kind == Letter || tok.Kind == Digit || tok.Kind == Underscore
}

// parseName reads a group name and the delimiter that ends it.
func (p *parser) parseName(terminator TokenKind) (*Node, error) {
	name, err := p.parseBareName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(terminator, "syntax error in subpattern name (missing terminator?)"); err != nil {
		return nil, err
	}
	return name, nil
}

func (p *parser) closeGroup(kind NodeKind, open Token, children ...*Node) (*Node, error) {
	if _, err := p.expect(CloseParen, "missing closing parenthesis"); err != nil {
		return nil, err
	}
	return newNode(kind, open.Start, p.lastEnd, children...), nil
}

// parseGroupBody parses the regex inside a group and its closing ')'.
func (p *parser) parseGroupBody(kind NodeKind, open Token, children ...*Node) (*Node, error) {
	body, err := p.parseRegex()
	if err != nil {
		return nil, err
	}
	return p.closeGroup(kind, open, append(children, body)...)
}

var atomKinds = map[TokenKind]NodeKind{
	Dot:                            Any,
	Caret:                          StartOfSubjectNode,
	StartOfSubject:                 StartOfSubjectNode,
	WordBoundary:                   WordBoundaryNode,
	NonWordBoundary:                NonWordBoundaryNode,
	EndOfSubjectOrLine:             EndOfSubjectOrLineNode,
	EndOfSubjectOrLineEndOfSubject: EndOfSubjectOrLineEndOfSubjectNode,
	EndOfSubject:                   EndOfSubjectNode,
	PreviousMatchInSubject:         PreviousMatchInSubjectNode,
	ResetStartMatch:                ResetStartMatchNode,
	OneDataUnit:                    OneDataUnitNode,
	ExtendedUnicodeChar:            ExtendedUnicodeCharNode,
	NotNewLine:                     NotNewLineNode,
	NewLineSequence:                NewLineSequenceNode,
}

// Atoms that may appear both inside and outside a character class.
var sharedAtomKinds = map[TokenKind]NodeKind{
	DecimalDigit:            DecimalDigitNode,
	NotDecimalDigit:         NotDecimalDigitNode,
	HorizontalWhiteSpace:    HorizontalWhiteSpaceNode,
	NotHorizontalWhiteSpace: NotHorizontalWhiteSpaceNode,
	WhiteSpace:              WhiteSpaceNode,
	NotWhiteSpace:           NotWhiteSpaceNode,
	VerticalWhiteSpace:      VerticalWhiteSpaceNode,
	NotVerticalWhiteSpace:   NotVerticalWhiteSpaceNode,
	WordChar:                WordCharNode,
	NotWordChar:             NotWordCharNode,
	CharWithProperty:        CharWithPropertyNode,
	CharWithoutProperty:     CharWithoutPropertyNode,
	POSIXNamedSet:           POSIXNamedSetNode,
	POSIXNegatedNamedSet:    POSIXNegatedNamedSetNode,
}

func isLiteralToken(kind TokenKind) bool {
	switch kind {
	case Quoted, BlockQuoted, BellChar, ControlChar, EscapeChar, FormFeed, NewLine,
		CarriageReturn, Tab, Backspace, OctalChar, HexChar, Letter, Digit, OtherChar,
		OpenBrace, CloseBrace, Comma, Hyphen, CharacterClassEnd, LessThan, GreaterThan,
		SingleQuote, Underscore, Colon, Hash, Equals, Exclamation, Ampersand:
		return true
	}
	return false
}

func (p *parser) parseAtom() (*Node, error) {
	tok := p.cur()
	switch tok.Kind {
	case QuestionMark, Star, Plus:
		return nil, p.errorf("quantifier does not follow a repeatable item")
	case OpenBrace:
		if p.boundAhead() {
			return nil, p.errorf("quantifier does not follow a repeatable item")
		}
	case CharacterClassStart:
		return p.parseCharacterClass()
	case OpenParen:
		return p.parseParen()
	case Comment:
		p.advance()
		return newLeaf(CommentNode, tok.Text, tok.Start, tok.End), nil
	case EscapedDigit:
		p.advance()
		return newNode(NumberedBackreference, tok.Start, tok.End, newLeaf(Number, tok.Text, tok.Start+1, tok.End)), nil
	case NamedReferenceStartK:
		return p.parseKReference()
	case SubroutineOrNamedReferenceStartG:
		return p.parseGReference()
	}
	if kind, ok := atomKinds[tok.Kind]; ok {
		p.advance()
		return newLeaf(kind, tok.Text, tok.Start, tok.End), nil
	}
	if kind, ok := sharedAtomKinds[tok.Kind]; ok {
		p.advance()
		return newLeaf(kind, tok.Text, tok.Start, tok.End), nil
	}
	if isLiteralToken(tok.Kind) {
		p.advance()
		return newLeaf(Literal, tok.Text, tok.Start, tok.End), nil
	}
	return nil, p.errorf("unexpected token")
}

func (p *parser) parseCharacterClass() (*Node, error) {
	open := p.advance()
	kind := CharacterClass
	if p.at(Caret) {
		p.advance()
		kind = NegatedCharacterClass
	}
	class := newNode(kind, open.Start, open.End)
	for !p.at(CharacterClassEnd) {
		if p.at(EOF) {
			return nil, p.errorf("missing terminating ] for character class")
		}
		member, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		class.Children = append(class.Children, member)
	}
	class.End = p.advance().End
	return class, nil
}

// rangeEndpoint returns the character a class member stands for, or false
// when it is a set rather than a single character.
func rangeEndpoint(n *Node) (rune, bool) {
	if n.Kind != Literal || utf8.RuneCountInString(n.Text) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(n.Text)
	return r, true
}

func (p *parser) parseClassAtom() (*Node, error) {
	lo, err := p.parseClassMember()
	if err != nil {
		return nil, err
	}
	if !p.at(Hyphen) {
		return lo, nil
	}
	if next := p.peek(1).Kind; next == CharacterClassEnd || next == EOF {
		return lo, nil
	}
	hyphen := p.cur()
	loChar, ok := rangeEndpoint(lo)
	if !ok {
		return nil, newParseError(hyphen, "invalid range in character class")
	}
	p.advance()
	hi, err := p.parseClassMember()
	if err != nil {
		return nil, err
	}
	hiChar, ok := rangeEndpoint(hi)
	if !ok {
		return nil, newParseError(hyphen, "invalid range in character class")
	}
	if loChar > hiChar {
		return nil, newParseError(hyphen, "range out of order in character class")
	}
	return newNode(Range, lo.Start, hi.End, lo, hi), nil
}

func (p *parser) parseClassMember() (*Node, error) {
	tok := p.cur()
	if kind, ok := sharedAtomKinds[tok.Kind]; ok {
		p.advance()
		return newLeaf(kind, tok.Text, tok.Start, tok.End), nil
	}
	if isLiteralToken(tok.Kind) {
		p.advance()
		return newLeaf(Literal, tok.Text, tok.Start, tok.End), nil
	}
	return nil, p.errorf("unexpected token in character class")
}

func (p *parser) parseParen() (*Node, error) {
	open := p.advance()
	switch p.cur().Kind {
	case QuestionMark:
		p.advance()
		return p.parseGroupExtension(open)
	case Star:
		p.advance()
		return p.parseVerb(open)
	}
	num := p.reserveGroup()
	group, err := p.parseGroupBody(CapturingGroup, open)
	if err != nil {
		return nil, err
	}
	p.groups[num] = group
	return group, nil
}

var optionLetters = "iJmsUx"

// parseGroupExtension handles everything that starts with "(?".
func (p *parser) parseGroupExtension(open Token) (*Node, error) {
	tok := p.cur()
	switch tok.Kind {
	case Colon:
		p.advance()
		return p.parseGroupBody(NonCapturingGroup, open)
	case Pipe:
		p.advance()
		return p.parseGroupBody(NonCapturingGroupReset, open)
	case GreaterThan:
		p.advance()
		return p.parseGroupBody(AtomicGroup, open)
	case Equals:
		p.advance()
		return p.parseGroupBody(LookAhead, open)
	case Exclamation:
		p.advance()
		return p.parseGroupBody(NegativeLookAhead, open)
	case LessThan:
		switch p.peek(1).Kind {
		case Equals:
			p.advance()
			p.advance()
			return p.parseGroupBody(LookBehind, open)
		case Exclamation:
			p.advance()
			p.advance()
			return p.parseGroupBody(NegativeLookBehind, open)
		}
		p.advance()
		return p.parseNamedGroup(NamedCapturingGroupPerl, open, GreaterThan)
	case SingleQuote:
		p.advance()
		return p.parseNamedGroup(NamedCapturingGroupPerl, open, SingleQuote)
	case Ampersand:
		p.advance()
		name, err := p.parseName(CloseParen)
		if err != nil {
			return nil, err
		}
		return newNode(NamedReferencePerl, open.Start, p.lastEnd, name), nil
	case OpenParen:
		return p.parseConditional(open)
	case Digit:
		return p.parseNumberedReference(NumberedReferenceAbsolute, open)
	case Plus:
		p.advance()
		return p.parseNumberedReference(NumberedReferenceRelativePlus, open)
	case Hyphen:
		if p.peek(1).Kind == Digit {
			p.advance()
			return p.parseNumberedReference(NumberedReferenceRelativeMinus, open)
		}
		return p.parseOptions(open)
	case Letter:
		switch tok.char() {
		case 'P':
			return p.parsePythonGroup(open)
		case 'R':
			if p.peek(1).Kind == CloseParen {
				p.advance()
				zero := newLeaf(Number, "0", tok.Start, tok.End)
				return p.closeGroup(NumberedReferenceAbsolute, open, zero)
			}
		case 'C':
			return p.parseCallout(open)
		}
		if strings.ContainsRune(optionLetters, tok.char()) {
			return p.parseOptions(open)
		}
	case Hash:
		return nil, p.errorf("missing ) after (?# comment")
	}
	return nil, p.errorf("unrecognized character after (? or (?-")
}

func (p *parser) parseNamedGroup(kind NodeKind, open Token, terminator TokenKind) (*Node, error) {
	num := p.reserveGroup()
	name, err := p.parseName(terminator)
	if err != nil {
		return nil, err
	}
	owner := p.reserveName(name.Text)
	group, err := p.parseGroupBody(kind, open, name)
	if err != nil {
		return nil, err
	}
	p.groups[num] = group
	if owner {
		p.named[name.Text] = group
	}
	return group, nil
}

// parsePythonGroup handles (?P<name>...), (?P=name) and (?P>name).
func (p *parser) parsePythonGroup(open Token) (*Node, error) {
	p.advance()
	switch p.cur().Kind {
	case LessThan:
		p.advance()
		return p.parseNamedGroup(NamedCapturingGroupPython, open, GreaterThan)
	case Equals:
		p.advance()
		name, err := p.parseName(CloseParen)
		if err != nil {
			return nil, err
		}
		return newNode(NamedBackreferencePython, open.Start, p.lastEnd, name), nil
	case GreaterThan:
		p.advance()
		name, err := p.parseName(CloseParen)
		if err != nil {
			return nil, err
		}
		return newNode(NamedReferencePython, open.Start, p.lastEnd, name), nil
	}
	return nil, p.errorf("unrecognized character after (?P")
}

func (p *parser) parseNumberedReference(kind NodeKind, open Token) (*Node, error) {
	num, err := p.parseNumber("digit expected after (?+ or (?-")
	if err != nil {
		return nil, err
	}
	return p.closeGroup(kind, open, num)
}

func (p *parser) parseCallout(open Token) (*Node, error) {
	p.advance()
	if p.at(CloseParen) {
		return p.closeGroup(Callout, open)
	}
	num, err := p.parseNumber("closing ) for (?C expected")
	if err != nil {
		return nil, err
	}
	if len(num.Text) > 9 {
		return nil, newParseError(p.tokens[p.pos-1], "callout number is too long")
	}
	return p.closeGroup(Callout, open, num)
}

// parseOptions handles (?flags), (?flags-flags) and (?flags:...).
func (p *parser) parseOptions(open Token) (*Node, error) {
	opts := newNode(Options, open.Start, open.End)
	optsStart := p.cur().Start
	negate := false
	for {
		tok := p.cur()
		if tok.Kind == Hyphen {
			if negate {
				return nil, p.errorf("unrecognized character after (? or (?-")
			}
			negate = true
			p.advance()
			continue
		}
		if tok.Kind != Letter || !strings.ContainsRune(optionLetters, tok.char()) {
			break
		}
		p.advance()
		kind := Option
		if negate {
			kind = NegatedOption
		}
		opts.Children = append(opts.Children, newLeaf(kind, tok.Text, tok.Start, tok.End))
	}
	switch p.cur().Kind {
	case CloseParen:
		opts.End = p.advance().End
		return opts, nil
	case Colon:
		opts.Start, opts.End = optsStart, p.advance().Start
		return p.parseGroupBody(OptionsGroup, open, opts)
	}
	return nil, p.errorf("unrecognized character after (? or (?-")
}

// parseConditional handles (?(condition)yes|no). The cursor is on the '('
// that opens the condition.
func (p *parser) parseConditional(open Token) (*Node, error) {
	var (
		kind    NodeKind
		payload *Node
		err     error
	)
	if p.peek(1).Kind == QuestionMark && isAssertionStart(p.peek(2), p.peek(3)) {
		kind = Assert
		if payload, err = p.parseParen(); err != nil {
			return nil, err
		}
	} else {
		p.advance()
		if kind, payload, err = p.parseCondition(); err != nil {
			return nil, err
		}
		if _, err := p.expect(CloseParen, "malformed number or name after (?("); err != nil {
			return nil, err
		}
	}

	yes, err := p.parseAlternative()
	if err != nil {
		return nil, err
	}
	children := []*Node{yes}
	if payload != nil {
		children = []*Node{payload, yes}
	}
	if p.at(Pipe) {
		p.advance()
		no, err := p.parseAlternative()
		if err != nil {
			return nil, err
		}
		children = append(children, no)
		if p.at(Pipe) {
			return nil, p.errorf("conditional group contains more than two branches")
		}
	}
	return p.closeGroup(kind, open, children...)
}

func isAssertionStart(first, second Token) bool {
	switch first.Kind {
	case Equals, Exclamation:
		return true
	case LessThan:
		return second.Kind == Equals || second.Kind == Exclamation
	}
	return false
}

func (p *parser) parseCondition() (NodeKind, *Node, error) {
	tok := p.cur()
	switch tok.Kind {
	case Digit:
		num, err := p.parseNumber("")
		return ReferenceConditionAbsolute, num, err
	case Plus:
		p.advance()
		num, err := p.parseNumber("digit expected after (?(+")
		return ReferenceConditionRelativePlus, num, err
	case Hyphen:
		p.advance()
		num, err := p.parseNumber("digit expected after (?(-")
		return ReferenceConditionRelativeMinus, num, err
	case LessThan:
		p.advance()
		name, err := p.parseName(GreaterThan)
		return NamedReferenceConditionPerl, name, err
	case SingleQuote:
		p.advance()
		name, err := p.parseName(SingleQuote)
		return NamedReferenceConditionPerl, name, err
	}
	if tok.is(Letter, 'R') && p.peek(1).Kind == Ampersand {
		p.advance()
		p.advance()
		name, err := p.parseBareName()
		return SpecificRecursionCondition, name, err
	}
	if !isNameToken(tok) {
		return 0, nil, p.errorf("malformed number or name after (?(")
	}
	name, err := p.parseBareName()
	if err != nil {
		return 0, nil, err
	}
	switch {
	case name.Text == "R":
		return OverallRecursionCondition, nil, nil
	case name.Text == "DEFINE":
		return Define, nil, nil
	case name.Text == "assert":
		return Assert, nil, nil
	case len(name.Text) > 1 && name.Text[0] == 'R' && isAllDigits(name.Text[1:]):
		return SpecificGroupRecursionCondition, newLeaf(Number, name.Text[1:], name.Start+1, name.End), nil
	}
	return NamedReferenceCondition, name, nil
}

// parseBareName reads a name without consuming its terminator.
func (p *parser) parseBareName() (*Node, error) {
	if !isNameToken(p.cur()) {
		return nil, p.errorf("group name expected")
	}
	if p.at(Digit) {
		return nil, p.errorf("group name must start with a non-digit")
	}
	start := p.cur().Start
	var b strings.Builder
	for isNameToken(p.cur()) {
		b.WriteString(p.advance().Text)
	}
	return newLeaf(Name, b.String(), start, p.lastEnd), nil
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isASCIIDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

var verbKinds = map[string]NodeKind{
	"ACCEPT":       BacktrackControlAccept,
	"FAIL":         BacktrackControlFail,
	"F":            BacktrackControlFail,
	"COMMIT":       BacktrackControlCommit,
	"PRUNE":        BacktrackControlPrune,
	"SKIP":         BacktrackControlSkip,
	"THEN":         BacktrackControlThen,
	"CR":           NewlineConventionCR,
	"LF":           NewlineConventionLF,
	"CRLF":         NewlineConventionCRLF,
	"ANYCRLF":      NewlineConventionAnyCRLF,
	"ANY":          NewlineConventionAny,
	"BSR_ANYCRLF":  NewlineConventionBSRAnyCRLF,
	"BSR_UNICODE":  NewlineConventionBSRUnicode,
	"UTF8":         OptionsUTF8,
	"UTF16":        OptionsUTF16,
	"UCP":          OptionsUCP,
	"NO_START_OPT": OptionsNoStartOpt,
}

// Verbs that take a ":NAME" argument.
var namedVerbKinds = map[string]NodeKind{
	"":      BacktrackControlMarkName,
	"MARK":  BacktrackControlMarkName,
	"PRUNE": BacktrackControlPruneName,
	"SKIP":  BacktrackControlSkipName,
	"THEN":  BacktrackControlThenName,
}

// parseVerb handles "(*VERB)" and "(*VERB:NAME)".
func (p *parser) parseVerb(open Token) (*Node, error) {
	var b strings.Builder
	for isNameToken(p.cur()) {
		b.WriteString(p.advance().Text)
	}
	verb := b.String()
	if !p.at(Colon) {
		kind, ok := verbKinds[verb]
		if !ok {
			return nil, p.errorf("(*VERB) not recognized or malformed")
		}
		return p.closeGroup(kind, open)
	}
	kind, ok := namedVerbKinds[verb]
	if !ok {
		return nil, p.errorf("(*VERB) not recognized or malformed")
	}
	p.advance()
	start := p.cur().Start
	for !p.at(CloseParen) {
		if p.at(EOF) {
			return nil, p.errorf("missing closing parenthesis")
		}
		p.advance()
	}
	if p.cur().Start == start {
		return nil, p.errorf("(*MARK) must have an argument")
	}
	name := newLeaf(Name, p.src[start:p.cur().Start], start, p.cur().Start)
	return p.closeGroup(kind, open, name)
}

// parseKReference handles \k<name>, \k'name' and \k{name}.
func (p *parser) parseKReference() (*Node, error) {
	start := p.advance().Start
	var (
		kind       NodeKind
		terminator TokenKind
	)
	switch p.cur().Kind {
	case LessThan:
		kind, terminator = NamedBackreferencePerl, GreaterThan
	case SingleQuote:
		kind, terminator = NamedBackreferencePerl, SingleQuote
	case OpenBrace:
		kind, terminator = NamedBackreferenceNet, CloseBrace
	default:
		return nil, p.errorf(`\k is not followed by a braced, angle-bracketed, or quoted name`)
	}
	p.advance()
	name, err := p.parseName(terminator)
	if err != nil {
		return nil, err
	}
	return newNode(kind, start, p.lastEnd, name), nil
}

// parseGReference handles the \g forms: backreferences \gN, \g-N, \g{N},
// \g{-N}, \g{name} and subroutine calls \g<...>, \g'...'.
func (p *parser) parseGReference() (*Node, error) {
	start := p.advance().Start
	switch p.cur().Kind {
	case Digit:
		num, err := p.parseNumber("")
		if err != nil {
			return nil, err
		}
		return newNode(NumberedBackreference, start, p.lastEnd, num), nil
	case Hyphen:
		p.advance()
		num, err := p.parseNumber(`digit expected after \g-`)
		if err != nil {
			return nil, err
		}
		return newNode(RelativeNumberedBackreference, start, p.lastEnd, num), nil
	case OpenBrace:
		p.advance()
		return p.parseBracedGReference(start)
	case LessThan:
		p.advance()
		return p.parseOnigurumaReference(start, GreaterThan)
	case SingleQuote:
		p.advance()
		return p.parseOnigurumaReference(start, SingleQuote)
	}
	return nil, p.errorf(`\g is not followed by a braced, angle-bracketed, or quoted name/number or by a plain number`)
}

func (p *parser) parseBracedGReference(start int) (*Node, error) {
	kind := NumberedBackreference
	switch p.cur().Kind {
	case Plus:
		return nil, p.errorf(`\g{+N} is not a valid backreference`)
	case Hyphen:
		p.advance()
		kind = RelativeNumberedBackreference
		fallthrough
	case Digit:
		num, err := p.parseNumber("digit expected after \\g{-")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(CloseBrace, `\g{ is not terminated`); err != nil {
			return nil, err
		}
		return newNode(kind, start, p.lastEnd, num), nil
	}
	name, err := p.parseName(CloseBrace)
	if err != nil {
		return nil, err
	}
	return newNode(NamedBackreferencePerl, start, p.lastEnd, name), nil
}

func (p *parser) parseOnigurumaReference(start int, terminator TokenKind) (*Node, error) {
	kind := NumberedReferenceAbsoluteOniguruma
	switch p.cur().Kind {
	case Plus:
		p.advance()
		kind = NumberedReferenceRelativePlus
	case Hyphen:
		p.advance()
		kind = NumberedReferenceRelativeMinus
	case Digit:
	default:
		name, err := p.parseName(terminator)
		if err != nil {
			return nil, err
		}
		return newNode(NamedReferenceOniguruma, start, p.lastEnd, name), nil
	}
	num, err := p.parseNumber("digit expected in subroutine call")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(terminator, "syntax error in subpattern number (missing terminator?)"); err != nil {
		return nil, err
	}
	return newNode(kind, start, p.lastEnd, num), nil
}
