package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Term is a dice term scaled by a factor. A factor of 2 doubles the result
// of the roll, which is not the same as rolling twice as many dice.
type Term struct {
	Dice   Dice
	Factor int
}

func (t Term) Average() int {
	return t.Dice.Average() * t.Factor
}

func (t Term) merges(o Term) bool {
	return t.Factor == o.Factor && t.Dice.sameDie(o.Dice)
}

func (t Term) head() string {
	switch t.Factor {
	case 1:
		return t.Dice.String()
	case -1:
		return "-" + t.Dice.String()
	default:
		return fmt.Sprintf("(%s × %d)", t.Dice, t.Factor)
	}
}

func (t Term) predicate() string {
	switch t.Factor {
	case 1:
		return " + " + t.Dice.String()
	case -1:
		return " - " + t.Dice.String()
	default:
		return fmt.Sprintf(" + (%s × %d)", t.Dice, t.Factor)
	}
}

// Expression is a linear combination of dice terms plus a constant addend.
// The first term is the head; no two terms share both die and factor.
// Expressions are values: every operation returns a new Expression.
type Expression struct {
	terms  []Term
	addend int
}

// FromDice builds the expression "dice + addend".
func FromDice(d Dice, addend int) Expression {
	return Expression{terms: []Term{{Dice: d, Factor: 1}}, addend: addend}
}

// FromTerms builds an expression, merging terms that share die and factor.
func FromTerms(terms []Term, addend int) Expression {
	e := Expression{addend: addend}
	for _, t := range terms {
		e.insert(t)
	}
	return e
}

// Terms returns a copy of the terms, head first.
func (e Expression) Terms() []Term {
	return append([]Term(nil), e.terms...)
}

func (e Expression) Addend() int {
	return e.addend
}

// IsNegative reports whether the head term has a negative factor.
func (e Expression) IsNegative() bool {
	return len(e.terms) > 0 && e.terms[0].Factor < 0
}

func (e Expression) Average() int {
	avg := e.addend
	for _, t := range e.terms {
		avg += t.Average()
	}
	return avg
}

func (e *Expression) insert(t Term) {
	for i := range e.terms {
		if e.terms[i].merges(t) {
			e.terms[i].Dice.Count += t.Dice.Count
			return
		}
	}
	e.terms = append(e.terms, t)
}

func (e Expression) mapTerms(addend int, fn func(Term) Term) Expression {
	out := Expression{addend: addend}
	for _, t := range e.terms {
		out.insert(fn(t))
	}
	return out
}

func (e Expression) Add(n int) Expression {
	return Expression{terms: e.Terms(), addend: e.addend + n}
}

func (e Expression) Subtract(n int) Expression {
	return Expression{terms: e.Terms(), addend: e.addend - n}
}

// AddExpression merges the terms of o into e and sums the addends.
func (e Expression) AddExpression(o Expression) Expression {
	out := Expression{terms: e.Terms(), addend: e.addend + o.addend}
	for _, t := range o.terms {
		out.insert(t)
	}
	return out
}

// SubtractExpression negates the factors of o before merging them into e.
func (e Expression) SubtractExpression(o Expression) Expression {
	out := Expression{terms: e.Terms(), addend: e.addend - o.addend}
	for _, t := range o.terms {
		t.Factor = -t.Factor
		out.insert(t)
	}
	return out
}

// AddCount adds count dice of the head's die to the head term.
func (e Expression) AddCount(count int) Expression {
	out := Expression{terms: e.Terms(), addend: e.addend}
	if len(out.terms) == 0 {
		return out
	}
	head := out.terms[0]
	head.Dice.Count = count
	out.insert(head)
	return out
}

// Multiply scales every factor and the addend. Counts are left untouched.
func (e Expression) Multiply(k int) Expression {
	return e.mapTerms(e.addend*k, func(t Term) Term {
		t.Factor *= k
		return t
	})
}

// DivFloor divides every factor and the addend, rounding toward negative
// infinity. k must not be zero.
func (e Expression) DivFloor(k int) Expression {
	return e.mapTerms(floorDiv(e.addend, k), func(t Term) Term {
		t.Factor = floorDiv(t.Factor, k)
		return t
	})
}

// DivCeiling divides every factor and the addend, rounding toward positive
// infinity. k must not be zero.
func (e Expression) DivCeiling(k int) Expression {
	return e.mapTerms(ceilDiv(e.addend, k), func(t Term) Term {
		t.Factor = ceilDiv(t.Factor, k)
		return t
	})
}

// Equal compares term by term, in order, including the addend.
func (e Expression) Equal(o Expression) bool {
	if e.addend != o.addend || len(e.terms) != len(o.terms) {
		return false
	}
	for i := range e.terms {
		a, b := e.terms[i], o.terms[i]
		if a.Factor != b.Factor || a.Dice.Count != b.Dice.Count || !a.Dice.sameDie(b.Dice) {
			return false
		}
	}
	return true
}

// String serializes to the form read by ParseExpression, e.g. "(2d6 × 2) - 1d4 + 5".
func (e Expression) String() string {
	if len(e.terms) == 0 {
		return strconv.Itoa(e.addend)
	}
	var b strings.Builder
	b.WriteString(e.terms[0].head())
	for _, t := range e.terms[1:] {
		b.WriteString(t.predicate())
	}
	switch {
	case e.addend > 0:
		fmt.Fprintf(&b, " + %d", e.addend)
	case e.addend < 0:
		fmt.Fprintf(&b, " - %d", -e.addend)
	}
	return b.String()
}

// Display renders the average followed by the expression, e.g. "6 (1d8 + 2)".
func (e Expression) Display() string {
	return fmt.Sprintf("%d (%s)", e.Average(), e)
}

func (e Expression) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Expression) UnmarshalText(b []byte) error {
	parsed, err := ParseExpression(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
