package dice

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	ErrSyntax             = errors.New("invalid dice expression")
	ErrContentAfterAddend = errors.New("unexpected content after addend")
	ErrFactoredAfterMinus = errors.New("expected number or dice after '-'")
)

// Lexer tokenizes the textual form of a dice expression. Both '×' and '*'
// are accepted as the multiplication sign.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Dice", Pattern: `[0-9]+[dD][0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Times", Pattern: `×|\*`},
	{Name: "Punct", Pattern: `[-+()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type expressionAST struct {
	Head       *headAST       `parser:"@@"`
	Predicates []predicateAST `parser:"@@*"`
}

type headAST struct {
	Negative bool         `parser:"( @\"-\"?"`
	Dice     string       `parser:"  @Dice"`
	Factored *factoredAST `parser:"| @@ )"`
}

type factoredAST struct {
	Dice     string `parser:"\"(\" @Dice Times"`
	Negative bool   `parser:"@\"-\"?"`
	Factor   string `parser:"@Int \")\""`
}

type predicateAST struct {
	Sign     string       `parser:"@(\"+\" | \"-\")"`
	Number   string       `parser:"( @Int"`
	Dice     string       `parser:"| @Dice"`
	Factored *factoredAST `parser:"| @@ )"`
}

var expressionParser = participle.MustBuild[expressionAST](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace"),
)

// ParseExpression reads the form produced by Expression.String. A bare
// number is only accepted as the final predicate.
func ParseExpression(s string) (Expression, error) {
	ast, err := expressionParser.ParseString("", s)
	if err != nil {
		return Expression{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	var e Expression
	head, err := ast.Head.term()
	if err != nil {
		return Expression{}, err
	}
	e.insert(head)

	for i, p := range ast.Predicates {
		negative := p.Sign == "-"
		switch {
		case p.Number != "":
			if i != len(ast.Predicates)-1 {
				return Expression{}, fmt.Errorf("%w: %q", ErrContentAfterAddend, s)
			}
			n, err := strconv.Atoi(p.Number)
			if err != nil {
				return Expression{}, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			if negative {
				n = -n
			}
			e.addend = n
		case p.Dice != "":
			d, err := Parse(p.Dice)
			if err != nil {
				return Expression{}, err
			}
			factor := 1
			if negative {
				factor = -1
			}
			e.insert(Term{Dice: d, Factor: factor})
		default:
			if negative {
				return Expression{}, fmt.Errorf("%w: %q", ErrFactoredAfterMinus, s)
			}
			t, err := p.Factored.term()
			if err != nil {
				return Expression{}, err
			}
			e.insert(t)
		}
	}
	return e, nil
}

func (h *headAST) term() (Term, error) {
	if h.Factored != nil {
		return h.Factored.term()
	}
	d, err := Parse(h.Dice)
	if err != nil {
		return Term{}, err
	}
	factor := 1
	if h.Negative {
		factor = -1
	}
	return Term{Dice: d, Factor: factor}, nil
}

func (f *factoredAST) term() (Term, error) {
	d, err := Parse(f.Dice)
	if err != nil {
		return Term{}, err
	}
	factor, err := strconv.Atoi(f.Factor)
	if err != nil {
		return Term{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if f.Negative {
		factor = -factor
	}
	return Term{Dice: d, Factor: factor}, nil
}

// MustParseExpression is ParseExpression for literals known to be valid.
func MustParseExpression(s string) Expression {
	e, err := ParseExpression(s)
	if err != nil {
		panic(err)
	}
	return e
}
