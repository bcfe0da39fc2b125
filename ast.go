package pcresyntax

import "strconv"

// NodeKind identifies the construct a Node represents.
type NodeKind uint8

const (
	Or NodeKind = iota
	Alternative
	Element
	Quantifier
	Greedy
	Lazy
	Possessive
	Number
	// Upper bound of "*", "+" and "{n,}".
	Unbounded
	Name
	Literal

	CharacterClass
	NegatedCharacterClass
	Range

	NumberedBackreference
	RelativeNumberedBackreference
	NamedBackreferencePerl
	NamedBackreferenceNet
	NamedBackreferencePython

	CapturingGroup
	NamedCapturingGroupPerl
	NamedCapturingGroupPython
	NonCapturingGroup
	NonCapturingGroupReset
	AtomicGroup
	OptionsGroup
	CommentNode

	Options
	Option
	NegatedOption
	OptionsNoStartOpt
	OptionsUTF8
	OptionsUTF16
	OptionsUCP

	LookAhead
	NegativeLookAhead
	LookBehind
	NegativeLookBehind

	// Conditional patterns, named after their condition.
	ReferenceConditionAbsolute
	ReferenceConditionRelativePlus
	ReferenceConditionRelativeMinus
	NamedReferenceConditionPerl
	NamedReferenceCondition
	OverallRecursionCondition
	SpecificGroupRecursionCondition
	SpecificRecursionCondition
	Define
	Assert

	BacktrackControlAccept
	BacktrackControlFail
	BacktrackControlMarkName
	BacktrackControlCommit
	BacktrackControlPrune
	BacktrackControlPruneName
	BacktrackControlSkip
	BacktrackControlSkipName
	BacktrackControlThen
	BacktrackControlThenName

	NewlineConventionCR
	NewlineConventionLF
	NewlineConventionCRLF
	NewlineConventionAnyCRLF
	NewlineConventionAny
	NewlineConventionBSRAnyCRLF
	NewlineConventionBSRUnicode

	Callout

	NumberedReferenceAbsolute
	NumberedReferenceRelativePlus
	NumberedReferenceRelativeMinus
	NamedReferencePerl
	NamedReferencePython
	NamedReferenceOniguruma
	NumberedReferenceAbsoluteOniguruma

	Any
	StartOfSubjectNode
	WordBoundaryNode
	NonWordBoundaryNode
	EndOfSubjectOrLineNode
	EndOfSubjectOrLineEndOfSubjectNode
	EndOfSubjectNode
	PreviousMatchInSubjectNode
	ResetStartMatchNode
	OneDataUnitNode
	ExtendedUnicodeCharNode

	DecimalDigitNode
	NotDecimalDigitNode
	HorizontalWhiteSpaceNode
	NotHorizontalWhiteSpaceNode
	NotNewLineNode
	NewLineSequenceNode
	WhiteSpaceNode
	NotWhiteSpaceNode
	VerticalWhiteSpaceNode
	NotVerticalWhiteSpaceNode
	WordCharNode
	NotWordCharNode
	CharWithPropertyNode
	CharWithoutPropertyNode
	POSIXNamedSetNode
	POSIXNegatedNamedSetNode

	nodeKindCount
)

var nodeKindNames = [nodeKindCount]string{
	Or:                                 "OR",
	Alternative:                        "ALTERNATIVE",
	Element:                            "ELEMENT",
	Quantifier:                         "QUANTIFIER",
	Greedy:                             "GREEDY",
	Lazy:                               "LAZY",
	Possessive:                         "POSSESSIVE",
	Number:                             "NUMBER",
	Unbounded:                          "UNBOUNDED",
	Name:                               "NAME",
	Literal:                            "LITERAL",
	CharacterClass:                     "CHARACTER_CLASS",
	NegatedCharacterClass:              "NEGATED_CHARACTER_CLASS",
	Range:                              "RANGE",
	NumberedBackreference:              "NUMBERED_BACKREFERENCE",
	RelativeNumberedBackreference:      "RELATIVE_NUMBERED_BACKREFERENCE",
	NamedBackreferencePerl:             "NAMED_BACKREFERENCE_PERL",
	NamedBackreferenceNet:              "NAMED_BACKREFERENCE_NET",
	NamedBackreferencePython:           "NAMED_BACKREFERENCE_PYTHON",
	CapturingGroup:                     "CAPTURING_GROUP",
	NamedCapturingGroupPerl:            "NAMED_CAPTURING_GROUP_PERL",
	NamedCapturingGroupPython:          "NAMED_CAPTURING_GROUP_PYTHON",
	NonCapturingGroup:                  "NON_CAPTURING_GROUP",
	NonCapturingGroupReset:             "NON_CAPTURING_GROUP_RESET",
	AtomicGroup:                        "ATOMIC_GROUP",
	OptionsGroup:                       "OPTIONS_GROUP",
	CommentNode:                        "COMMENT",
	Options:                            "OPTIONS",
	Option:                             "OPTION",
	NegatedOption:                      "NEGATED_OPTION",
	OptionsNoStartOpt:                  "OPTIONS_NO_START_OPT",
	OptionsUTF8:                        "OPTIONS_UTF8",
	OptionsUTF16:                       "OPTIONS_UTF16",
	OptionsUCP:                         "OPTIONS_UCP",
	LookAhead:                          "LOOK_AHEAD",
	NegativeLookAhead:                  "NEGATIVE_LOOK_AHEAD",
	LookBehind:                         "LOOK_BEHIND",
	NegativeLookBehind:                 "NEGATIVE_LOOK_BEHIND",
	ReferenceConditionAbsolute:         "REFERENCE_CONDITION_ABSOLUTE",
	ReferenceConditionRelativePlus:     "REFERENCE_CONDITION_RELATIVE_PLUS",
	ReferenceConditionRelativeMinus:    "REFERENCE_CONDITION_RELATIVE_MINUS",
	NamedReferenceConditionPerl:        "NAMED_REFERENCE_CONDITION_PERL",
	NamedReferenceCondition:            "NAMED_REFERENCE_CONDITION",
	OverallRecursionCondition:          "OVERALL_RECURSION_CONDITION",
	SpecificGroupRecursionCondition:    "SPECIFIC_GROUP_RECURSION_CONDITION",
	SpecificRecursionCondition:         "SPECIFIC_RECURSION_CONDITION",
	Define:                             "DEFINE",
	Assert:                             "ASSERT",
	BacktrackControlAccept:             "BACKTRACK_CONTROL_ACCEPT",
	BacktrackControlFail:               "BACKTRACK_CONTROL_FAIL",
	BacktrackControlMarkName:           "BACKTRACK_CONTROL_MARK_NAME",
	BacktrackControlCommit:             "BACKTRACK_CONTROL_COMMIT",
	BacktrackControlPrune:              "BACKTRACK_CONTROL_PRUNE",
	BacktrackControlPruneName:          "BACKTRACK_CONTROL_PRUNE_NAME",
	BacktrackControlSkip:               "BACKTRACK_CONTROL_SKIP",
	BacktrackControlSkipName:           "BACKTRACK_CONTROL_SKIP_NAME",
	BacktrackControlThen:               "BACKTRACK_CONTROL_THEN",
	BacktrackControlThenName:           "BACKTRACK_CONTROL_THEN_NAME",
	NewlineConventionCR:                "NEWLINE_CONVENTION_CR",
	NewlineConventionLF:                "NEWLINE_CONVENTION_LF",
	NewlineConventionCRLF:              "NEWLINE_CONVENTION_CRLF",
	NewlineConventionAnyCRLF:           "NEWLINE_CONVENTION_ANYCRLF",
	NewlineConventionAny:               "NEWLINE_CONVENTION_ANY",
	NewlineConventionBSRAnyCRLF:        "NEWLINE_CONVENTION_BSR_ANYCRLF",
	NewlineConventionBSRUnicode:        "NEWLINE_CONVENTION_BSR_UNICODE",
	Callout:                            "CALLOUT",
	NumberedReferenceAbsolute:          "NUMBERED_REFERENCE_ABSOLUTE",
	NumberedReferenceRelativePlus:      "NUMBERED_REFERENCE_RELATIVE_PLUS",
	NumberedReferenceRelativeMinus:     "NUMBERED_REFERENCE_RELATIVE_MINUS",
	NamedReferencePerl:                 "NAMED_REFERENCE_PERL",
	NamedReferencePython:               "NAMED_REFERENCE_PYTHON",
	NamedReferenceOniguruma:            "NAMED_REFERENCE_ONIGURUMA",
	NumberedReferenceAbsoluteOniguruma: "NUMBERED_REFERENCE_ABSOLUTE_ONIGURUMA",
	Any:                                "ANY",
	StartOfSubjectNode:                 "START_OF_SUBJECT",
	WordBoundaryNode:                   "WORD_BOUNDARY",
	NonWordBoundaryNode:                "NON_WORD_BOUNDARY",
	EndOfSubjectOrLineNode:             "END_OF_SUBJECT_OR_LINE",
	EndOfSubjectOrLineEndOfSubjectNode: "END_OF_SUBJECT_OR_LINE_END_OF_SUBJECT",
	EndOfSubjectNode:                   "END_OF_SUBJECT",
	PreviousMatchInSubjectNode:         "PREVIOUS_MATCH_IN_SUBJECT",
	ResetStartMatchNode:                "RESET_START_MATCH",
	OneDataUnitNode:                    "ONE_DATA_UNIT",
	ExtendedUnicodeCharNode:            "EXTENDED_UNICODE_CHAR",
	DecimalDigitNode:                   "DECIMAL_DIGIT",
	NotDecimalDigitNode:                "NOT_DECIMAL_DIGIT",
	HorizontalWhiteSpaceNode:           "HORIZONTAL_WHITE_SPACE",
	NotHorizontalWhiteSpaceNode:        "NOT_HORIZONTAL_WHITE_SPACE",
	NotNewLineNode:                     "NOT_NEW_LINE",
	NewLineSequenceNode:                "NEW_LINE_SEQUENCE",
	WhiteSpaceNode:                     "WHITE_SPACE",
	NotWhiteSpaceNode:                  "NOT_WHITE_SPACE",
	VerticalWhiteSpaceNode:             "VERTICAL_WHITE_SPACE",
	NotVerticalWhiteSpaceNode:          "NOT_VERTICAL_WHITE_SPACE",
	WordCharNode:                       "WORD_CHAR",
	NotWordCharNode:                    "NOT_WORD_CHAR",
	CharWithPropertyNode:               "CHAR_WITH_PROPERTY",
	CharWithoutPropertyNode:            "CHAR_WITHOUT_PROPERTY",
	POSIXNamedSetNode:                  "POSIX_NAMED_SET",
	POSIXNegatedNamedSetNode:           "POSIX_NEGATED_NAMED_SET",
}

func (k NodeKind) String() string {
	if k < nodeKindCount {
		return nodeKindNames[k]
	}
	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// Node is an element of the syntax tree. Start and End delimit the source
// bytes the node was built from. Text is set on leaves such as literals,
// numbers and names.
type Node struct {
	Kind     NodeKind
	Text     string
	Start    int
	End      int
	Children []*Node
}

func newNode(kind NodeKind, start, end int, children ...*Node) *Node {
	return &Node{Kind: kind, Start: start, End: end, Children: children}
}

func newLeaf(kind NodeKind, text string, start, end int) *Node {
	return &Node{Kind: kind, Text: text, Start: start, End: end}
}

// Child returns the i-th child, or nil when there is none.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Walk calls fn for n and its descendants in depth-first pre-order.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Equal reports whether two trees have the same kinds, texts and shape.
// Source offsets are ignored.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Text != o.Text || len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}
