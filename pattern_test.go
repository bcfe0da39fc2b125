package pcresyntax

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
	"gotest.tools/v3/assert"
)

const dialectPattern = `((x)(?<A>aaa)(?'B'bbb)(?P<C>ccc(?<D>ddd)))`

func TestNamedGroupDialects(t *testing.T) {
	p := MustParse(dialectPattern)
	assert.Equal(t, p.GroupCount(), 6)
	assert.Equal(t, p.NamedGroupCount(), 4)
	assert.DeepEqual(t, p.GroupNames(), []string{"A", "B", "C", "D"})

	kinds := map[string]NodeKind{
		"A": NamedCapturingGroupPerl,
		"B": NamedCapturingGroupPerl,
		"C": NamedCapturingGroupPython,
		"D": NamedCapturingGroupPerl,
	}
	for name, kind := range kinds {
		t.Run(name, func(t *testing.T) {
			g, err := p.NamedGroup(name)
			assert.NilError(t, err)
			assert.Equal(t, g.Kind, kind)
			assert.Equal(t, g.Child(0).Kind, Name)
			assert.Equal(t, g.Child(0).Text, name)
		})
	}

	// Numbers follow the order of opening parentheses.
	for n, name := range map[int]string{3: "A", 4: "B", 5: "C", 6: "D"} {
		byNumber, err := p.Group(n)
		assert.NilError(t, err)
		byName, err := p.NamedGroup(name)
		assert.NilError(t, err)
		assert.Assert(t, byNumber == byName, "group %d is not %q", n, name)
	}
	x, err := p.Group(2)
	assert.NilError(t, err)
	assert.Equal(t, x.Kind, CapturingGroup)
	assert.Equal(t, p.Source(x), "(x)")
}

func TestGroupZeroIsRoot(t *testing.T) {
	p := MustParse("a(b)c")
	g, err := p.Group(0)
	assert.NilError(t, err)
	assert.Assert(t, g == p.Root())
	assert.Equal(t, p.GroupCount(), 1)
	assert.Equal(t, p.NamedGroupCount(), 0)
	assert.Equal(t, len(p.GroupNames()), 0)
}

func TestGroupLookupErrors(t *testing.T) {
	p := MustParse("(a)(?<name>b)")
	for _, n := range []int{-1, 3, 100} {
		_, err := p.Group(n)
		assert.Assert(t, errors.Is(err, ErrNoSuchGroup), "group %d: %v", n, err)
	}
	_, err := p.NamedGroup("other")
	assert.Assert(t, errors.Is(err, ErrNoSuchNamedGroup))
	assert.ErrorContains(t, err, `"other"`)

	_, err = p.NamedGroup("")
	assert.Assert(t, errors.Is(err, ErrNoSuchNamedGroup))
}

func TestDuplicateNames(t *testing.T) {
	p := MustParse("(?<n>a)|(?<n>b)")
	assert.Equal(t, p.GroupCount(), 2)
	assert.Equal(t, p.NamedGroupCount(), 1)
	assert.DeepEqual(t, p.GroupNames(), []string{"n"})

	first, err := p.Group(1)
	assert.NilError(t, err)
	byName, err := p.NamedGroup("n")
	assert.NilError(t, err)
	assert.Assert(t, first == byName)
	assert.Equal(t, p.Source(byName), "(?<n>a)")

	t.Run("nested", func(t *testing.T) {
		p := MustParse("(?<A>(?<A>x)y)")
		assert.Equal(t, p.GroupCount(), 2)
		assert.Equal(t, p.NamedGroupCount(), 1)
		assert.DeepEqual(t, p.GroupNames(), []string{"A"})

		outer, err := p.Group(1)
		assert.NilError(t, err)
		byName, err := p.NamedGroup("A")
		assert.NilError(t, err)
		assert.Assert(t, outer == byName)
		assert.Equal(t, p.Source(byName), "(?<A>(?<A>x)y)")
	})
}

func TestGroupNumbering(t *testing.T) {
	tests := map[string]int{
		"":                       0,
		"(?:a)(?>b)(?=c)(?|d)":   0,
		"(a)(?:(b))":             2,
		"(?|(a)|(b))":            2,
		"((((a))))":              4,
		"(?i:(a))":               1,
		"(?(1)(a)|(b))":          2,
		"(?(?=(a))b)":            1,
		`\((a\))[(]`:             1,
		`\Q(a)\E(b)`:             1,
		"(?#(a)(b)":              1,
		"(?'x'a)(?P<y>b)(?<z>c)": 3,
	}
	for src, want := range tests {
		t.Run(src, func(t *testing.T) {
			assert.Equal(t, MustParse(src).GroupCount(), want)
		})
	}
}

func TestGroupNamesIsACopy(t *testing.T) {
	p := MustParse("(?<b>x)(?<a>y)")
	names := p.GroupNames()
	assert.DeepEqual(t, names, []string{"a", "b"})
	names[0] = "changed"
	assert.DeepEqual(t, p.GroupNames(), []string{"a", "b"})
}

func TestParseIsRepeatable(t *testing.T) {
	for _, src := range []string{dialectPattern, `a|b[^c-z\d]{2,}?`, "(?(DEFINE)(?<n>x))(?&n)"} {
		t.Run(src, func(t *testing.T) {
			first := MustParse(src)
			second := MustParse(src)
			assert.Assert(t, first.Root() != second.Root())
			assert.DeepEqual(t, first.Root(), second.Root())
			assert.Equal(t, first.Root().String(), second.Root().String())
			assert.Equal(t, first.GroupCount(), second.GroupCount())
		})
	}
}

func TestEqualIgnoresOffsets(t *testing.T) {
	g1 := MustParse("(a)").Root().Child(0).Child(0)
	g2 := MustParse("x(a)").Root().Child(1).Child(0)
	assert.Assert(t, g1.Start != g2.Start)
	assert.DeepEqual(t, g1, g2)
	assert.Assert(t, !cmp.Equal(g1, MustParse("(b)").Root().Child(0).Child(0)))
}

func TestConcurrentParse(t *testing.T) {
	patterns := []string{dialectPattern, "a|b", `[\d-]+`, "(?<y>\\d{4})-(\\d\\d)", "(*LF)(?i)x"}
	want := make([]string, len(patterns))
	for i, src := range patterns {
		want[i] = MustParse(src).Root().String()
	}

	var g errgroup.Group
	g.SetLimit(8)
	for i := 0; i < 64; i++ {
		src, expected := patterns[i%len(patterns)], want[i%len(patterns)]
		g.Go(func() error {
			p, err := Parse(src)
			if err != nil {
				return err
			}
			if got := p.Root().String(); got != expected {
				return fmt.Errorf("%q: got %s, want %s", src, got, expected)
			}
			return nil
		})
	}
	assert.NilError(t, g.Wait())
}

func TestParseFailureReturnsNothing(t *testing.T) {
	p, err := Parse("(a")
	assert.Assert(t, p == nil)
	var parseErr *ParseError
	assert.Assert(t, errors.As(err, &parseErr))

	p, err = Parse(`\p{Nope}`)
	assert.Assert(t, p == nil)
	var lexErr *LexError
	assert.Assert(t, errors.As(err, &lexErr))
}

func TestLibraryApi(t *testing.T) {
	shouldPanic := func(cb func()) func(t *testing.T) {
		return func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("did not panic on invalid pattern")
				}
			}()

			cb()
		}
	}
	t.Run("MustParse", shouldPanic(func() {
		MustParse("*")
	}))
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, MustParse(`a\d+`).String(), `a\d+`)
	})
	t.Run("ChildOutOfRange", func(t *testing.T) {
		root := MustParse("a").Root()
		assert.Assert(t, root.Child(1) == nil)
		assert.Assert(t, root.Child(-1) == nil)
		assert.Assert(t, root.Child(0).Child(0).Child(0) == nil)
	})
	t.Run("Walk", func(t *testing.T) {
		var kinds []NodeKind
		MustParse("(a)b").Root().Walk(func(n *Node) bool {
			kinds = append(kinds, n.Kind)
			return n.Kind != CapturingGroup
		})
		assert.DeepEqual(t, kinds, []NodeKind{Alternative, Element, CapturingGroup, Element, Literal})
	})
	t.Run("Source", func(t *testing.T) {
		p := MustParse(`x(?<n>\d{2,3})y`)
		g, err := p.NamedGroup("n")
		assert.NilError(t, err)
		assert.Equal(t, p.Source(g), `(?<n>\d{2,3})`)
		assert.Equal(t, p.Source(g.Child(1)), `\d{2,3}`)
		assert.Equal(t, p.Source(p.Root()), p.String())

		for _, src := range []string{`a\E`, `\E`, `a|b\E`, `(a)\E`} {
			p := MustParse(src)
			assert.Equal(t, p.Source(p.Root()), src)
			assert.Equal(t, p.Root().End, len(src))
		}
	})
}
