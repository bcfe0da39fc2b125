package pcresyntax_test

import (
	"errors"
	"fmt"

	"github.com/auvred/pcresyntax"
)

func Example() {
	p := pcresyntax.MustParse(`(?<year>\d{4})-(\d\d)`)
	fmt.Println(p.GroupCount(), p.NamedGroupCount())

	year, _ := p.NamedGroup("year")
	fmt.Print(year.ASCIITree())

	// Output:
	// 2 1
	// '- NAMED_CAPTURING_GROUP_PERL
	//    |- NAME='year'
	//    '- ALTERNATIVE
	//       '- ELEMENT
	//          |- DECIMAL_DIGIT='\d'
	//          '- QUANTIFIER
	//             |- NUMBER='4'
	//             |- NUMBER='4'
	//             '- GREEDY
}

func ExampleNode_String() {
	fmt.Println(pcresyntax.MustParse("a+|b").Root())

	// Output:
	// (OR (ALTERNATIVE (ELEMENT (LITERAL "a") (QUANTIFIER (NUMBER "1") UNBOUNDED GREEDY))) (ALTERNATIVE (ELEMENT (LITERAL "b"))))
}

func ExampleParse_errors() {
	for _, src := range []string{"(a", "a{2,1}", `\p{Klingon}`} {
		_, err := pcresyntax.Parse(src)
		var lexErr *pcresyntax.LexError
		fmt.Println(errors.As(err, &lexErr), err)
	}

	// Output:
	// false pcresyntax: missing closing parenthesis at end of pattern
	// false pcresyntax: numbers out of order in {} quantifier at offset 5: "}"
	// true pcresyntax: unknown property name at offset 0: "\\p{Klingon}"
}
