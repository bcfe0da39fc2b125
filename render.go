package pcresyntax

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// ASCIITree renders the tree one node per line, with ancestry drawn using
// "|- " and "'- " connectors. Nodes that carry text print as KIND='text'.
func (n *Node) ASCIITree() string {
	var b strings.Builder
	n.writeASCII(&b, "", true)
	return b.String()
}

func (n *Node) writeASCII(b *strings.Builder, indent string, last bool) {
	b.WriteString(indent)
	if last {
		b.WriteString("'- ")
		indent += "   "
	} else {
		b.WriteString("|- ")
		indent += "|  "
	}
	b.WriteString(n.Kind.String())
	if n.Text != "" {
		b.WriteString("='")
		b.WriteString(n.Text)
		b.WriteString("'")
	}
	b.WriteByte('\n')
	for i, c := range n.Children {
		c.writeASCII(b, indent, i == len(n.Children)-1)
	}
}

// String renders the tree as a parenthesized list: (KIND "text" children...).
// Leaves without text print as a bare KIND.
func (n *Node) String() string {
	var b strings.Builder
	n.writeLisp(&b)
	return b.String()
}

func (n *Node) writeLisp(b *strings.Builder) {
	if n.Text == "" && len(n.Children) == 0 {
		b.WriteString(n.Kind.String())
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	if n.Text != "" {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(n.Text))
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.writeLisp(b)
	}
	b.WriteByte(')')
}

// WriteDOT writes the tree as a Graphviz digraph.
func (n *Node) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph {")
	fmt.Fprintln(bw, "\tordering=out;")
	fmt.Fprintln(bw, "\tnode [shape=box, fontsize=10];")
	id := 0
	var visit func(n *Node) int
	visit = func(n *Node) int {
		self := id
		id++
		label := n.Kind.String()
		if n.Text != "" {
			label += "\n" + n.Text
		}
		fmt.Fprintf(bw, "\tn%d [label=%s];\n", self, dotQuote(label))
		for _, c := range n.Children {
			child := visit(c)
			fmt.Fprintf(bw, "\tn%d -> n%d;\n", self, child)
		}
		return self
	}
	visit(n)
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// DOT returns the output of WriteDOT as a string.
func (n *Node) DOT() string {
	var b strings.Builder
	_ = n.WriteDOT(&b)
	return b.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// ParseNodeKind returns the kind with the given display name, e.g.
// "NAMED_CAPTURING_GROUP_PERL".
func ParseNodeKind(name string) (NodeKind, bool) {
	for k, s := range nodeKindNames {
		if s == name {
			return NodeKind(k), true
		}
	}
	return 0, false
}

func (k NodeKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *NodeKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	kind, ok := ParseNodeKind(name)
	if !ok {
		return fmt.Errorf("pcresyntax: unknown node kind %q", name)
	}
	*k = kind
	return nil
}

type yamlNode struct {
	Kind     NodeKind `yaml:"kind"`
	Text     string   `yaml:"text,omitempty"`
	Start    int      `yaml:"start"`
	End      int      `yaml:"end"`
	Children []*Node  `yaml:"children,omitempty"`
}

func (n *Node) MarshalYAML() (interface{}, error) {
	return yamlNode{Kind: n.Kind, Text: n.Text, Start: n.Start, End: n.End, Children: n.Children}, nil
}

func (n *Node) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var y yamlNode
	if err := unmarshal(&y); err != nil {
		return err
	}
	*n = Node{Kind: y.Kind, Text: y.Text, Start: y.Start, End: y.End, Children: y.Children}
	return nil
}

type yamlPattern struct {
	Pattern    string   `yaml:"pattern"`
	GroupCount int      `yaml:"group_count"`
	GroupNames []string `yaml:"group_names,omitempty"`
	Tree       *Node    `yaml:"tree"`
}

// YAML encodes the pattern source, its group bookkeeping and its tree.
func (p *Pattern) YAML() ([]byte, error) {
	return yaml.Marshal(yamlPattern{
		Pattern:    p.source,
		GroupCount: p.GroupCount(),
		GroupNames: p.GroupNames(),
		Tree:       p.root,
	})
}
