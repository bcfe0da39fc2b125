// Package pcresyntax recognizes the syntax of PCRE regular expressions.
//
// It does not match anything. A pattern is tokenized, parsed into a typed
// syntax tree, and its capturing groups are indexed by number and by name
// (Perl, Python, .NET and Oniguruma spellings).
//
//	p, err := pcresyntax.Parse(`(?<year>\d{4})-(\d\d)`)
//	if err != nil {
//		// *LexError or *ParseError
//	}
//	year, _ := p.NamedGroup("year")
//	fmt.Println(year.ASCIITree())
package pcresyntax

import (
	"fmt"
	"slices"
)

// Pattern is a parsed regular expression. It is immutable and safe for
// concurrent use.
type Pattern struct {
	source string
	root   *Node
	groups []*Node
	named  map[string]*Node
	names  []string
}

// Parse tokenizes and parses src. On failure the error is a *LexError or a
// *ParseError; no partial tree is returned.
func Parse(src string) (*Pattern, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := newParser(src, tokens)
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &Pattern{
		source: src,
		root:   root,
		groups: p.groups,
		named:  p.named,
		names:  p.names,
	}, nil
}

// MustParse is like [Parse] but panics if the pattern cannot be parsed.
// It simplifies safe initialization of global variables holding patterns.
func MustParse(src string) *Pattern {
	p, err := Parse(src)
	if err != nil {
		panic("pcresyntax: MustParse: " + err.Error())
	}
	return p
}

// String returns the source text used to parse the pattern.
func (p *Pattern) String() string {
	return p.source
}

// Source returns the slice of the pattern text that n was parsed from. n
// must belong to p's tree.
func (p *Pattern) Source(n *Node) string {
	if n == nil || n.Start < 0 || n.End > len(p.source) || n.Start > n.End {
		return ""
	}
	return p.source[n.Start:n.End]
}

// Root returns the tree of the whole pattern, i.e. group 0.
func (p *Pattern) Root() *Node {
	return p.root
}

// Group returns the subtree of capturing group n. Group 0 is the whole
// pattern.
func (p *Pattern) Group(n int) (*Node, error) {
	if n < 0 || n >= len(p.groups) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchGroup, n)
	}
	return p.groups[n], nil
}

// NamedGroup returns the subtree of the named capturing group. When a name
// is defined more than once the first definition wins.
func (p *Pattern) NamedGroup(name string) (*Node, error) {
	g, ok := p.named[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchNamedGroup, name)
	}
	return g, nil
}

// GroupCount returns the number of capturing groups, not counting group 0.
func (p *Pattern) GroupCount() int {
	return len(p.groups) - 1
}

// NamedGroupCount returns the number of distinct group names.
func (p *Pattern) NamedGroupCount() int {
	return len(p.named)
}

// GroupNames returns the distinct group names in sorted order.
func (p *Pattern) GroupNames() []string {
	names := slices.Clone(p.names)
	slices.Sort(names)
	return names
}
