package engine

import (
	"strconv"

	"github.com/suderio/bestiary/internal/dice"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDice
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDice:
		return "dice"
	case KindObject:
		return "object"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the operand type of the evaluator. Signed only affects display:
// it forces a leading '+' on numbers and dice whose average is not
// negative. Binary operations always take Signed from the left operand.
type Value struct {
	Kind   Kind
	Str    string
	Num    int
	Dice   dice.Expression
	Obj    Resolver
	Signed bool
}

func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Number(n int) Value { return Value{Kind: KindNumber, Num: n} }
func Dice(e dice.Expression) Value { return Value{Kind: KindDice, Dice: e} }
func Object(r Resolver) Value { return Value{Kind: KindObject, Obj: r} }
func SignedNumber(n int) Value { return Value{Kind: KindNumber, Num: n, Signed: true} }
func SignedDice(e dice.Expression) Value { return Value{Kind: KindDice, Dice: e, Signed: true} }

// Display renders the value as it is appended to text. Dice show their
// average followed by the expression, e.g. "6 (1d8 + 2)".
func (v Value) Display() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		if v.Signed && v.Num >= 0 {
			return "+" + strconv.Itoa(v.Num)
		}
		return strconv.Itoa(v.Num)
	case KindDice:
		if v.Signed && v.Dice.Average() >= 0 {
			return "+" + v.Dice.Display()
		}
		return v.Dice.Display()
	}
	return "<object>"
}

func (v Value) Negate() (Value, error) {
	switch v.Kind {
	case KindNumber:
		v.Num = -v.Num
		return v, nil
	case KindDice:
		v.Dice = v.Dice.Multiply(-1)
		return v, nil
	case KindString:
		return Value{}, ErrCantNegateString
	}
	return Value{}, ErrCantNegateObject
}

// Stringify turns a number or dice value into its display text.
func (v Value) Stringify() (Value, error) {
	switch v.Kind {
	case KindNumber, KindDice:
		return String(v.Display()), nil
	case KindString:
		return Value{}, ErrAlreadyStringified
	}
	return Value{}, ErrCantStringifyObject
}

func (v Value) Sign() (Value, error) {
	switch v.Kind {
	case KindNumber, KindDice:
		v.Signed = true
		return v, nil
	case KindString:
		return Value{}, ErrCantSignString
	}
	return Value{}, ErrCantSignObject
}

func (v Value) Multiply(rhs Value) (Value, error) {
	if v.Kind == KindObject || rhs.Kind == KindObject {
		return Value{}, ErrCantMultiplyObjects
	}
	if v.Kind == KindString || rhs.Kind == KindString {
		return Value{}, ErrCantMultiplyStrings
	}
	switch {
	case v.Kind == KindNumber && rhs.Kind == KindNumber:
		return Value{Kind: KindNumber, Num: v.Num * rhs.Num, Signed: v.Signed}, nil
	case v.Kind == KindDice && rhs.Kind == KindNumber:
		return Value{Kind: KindDice, Dice: v.Dice.Multiply(rhs.Num), Signed: v.Signed}, nil
	case v.Kind == KindNumber && rhs.Kind == KindDice:
		return Value{Kind: KindDice, Dice: rhs.Dice.Multiply(v.Num), Signed: v.Signed}, nil
	}
	return Value{}, ErrCantMultiplyDice
}

// FloorDivide divides rounding toward negative infinity.
func (v Value) FloorDivide(rhs Value) (Value, error) {
	return v.divide(rhs, floorDiv, dice.Expression.DivFloor)
}

// CeilingDivide divides rounding toward positive infinity.
func (v Value) CeilingDivide(rhs Value) (Value, error) {
	return v.divide(rhs, ceilDiv, dice.Expression.DivCeiling)
}

func (v Value) divide(rhs Value, num func(a, b int) int, dc func(dice.Expression, int) dice.Expression) (Value, error) {
	if v.Kind == KindObject || rhs.Kind == KindObject {
		return Value{}, ErrCantDivideObjects
	}
	if v.Kind == KindString || rhs.Kind == KindString {
		return Value{}, ErrCantDivideStrings
	}
	if rhs.Kind == KindDice {
		return Value{}, ErrCantDivideByDice
	}
	if rhs.Num == 0 {
		return Value{}, ErrDivisionByZero
	}
	if v.Kind == KindDice {
		return Value{Kind: KindDice, Dice: dc(v.Dice, rhs.Num), Signed: v.Signed}, nil
	}
	return Value{Kind: KindNumber, Num: num(v.Num, rhs.Num), Signed: v.Signed}, nil
}

// Add sums numbers and dice, and concatenates two strings.
func (v Value) Add(rhs Value) (Value, error) {
	if v.Kind == KindObject || rhs.Kind == KindObject {
		return Value{}, ErrCantAddObjects
	}
	switch {
	case v.Kind == KindString && rhs.Kind == KindString:
		return Value{Kind: KindString, Str: v.Str + rhs.Str, Signed: v.Signed}, nil
	case v.Kind == KindString || rhs.Kind == KindString:
		return Value{}, ErrCantConcatenateNonStrings
	case v.Kind == KindNumber && rhs.Kind == KindNumber:
		return Value{Kind: KindNumber, Num: v.Num + rhs.Num, Signed: v.Signed}, nil
	case v.Kind == KindDice && rhs.Kind == KindNumber:
		return Value{Kind: KindDice, Dice: v.Dice.Add(rhs.Num), Signed: v.Signed}, nil
	case v.Kind == KindNumber && rhs.Kind == KindDice:
		return Value{Kind: KindDice, Dice: rhs.Dice.Add(v.Num), Signed: v.Signed}, nil
	}
	return Value{Kind: KindDice, Dice: v.Dice.AddExpression(rhs.Dice), Signed: v.Signed}, nil
}

// Subtract is not commutative: number minus dice negates the dice before
// adding the number.
func (v Value) Subtract(rhs Value) (Value, error) {
	if v.Kind == KindObject || rhs.Kind == KindObject {
		return Value{}, ErrCantSubtractObjects
	}
	if v.Kind == KindString || rhs.Kind == KindString {
		return Value{}, ErrCantSubtractStrings
	}
	switch {
	case v.Kind == KindNumber && rhs.Kind == KindNumber:
		return Value{Kind: KindNumber, Num: v.Num - rhs.Num, Signed: v.Signed}, nil
	case v.Kind == KindDice && rhs.Kind == KindNumber:
		return Value{Kind: KindDice, Dice: v.Dice.Subtract(rhs.Num), Signed: v.Signed}, nil
	case v.Kind == KindNumber && rhs.Kind == KindDice:
		return Value{Kind: KindDice, Dice: rhs.Dice.Multiply(-1).Add(v.Num), Signed: v.Signed}, nil
	}
	return Value{Kind: KindDice, Dice: v.Dice.SubtractExpression(rhs.Dice), Signed: v.Signed}, nil
}

// Property resolves a named property of an object value.
func (v Value) Property(name string) (Value, error) {
	if v.Kind != KindObject || v.Obj == nil {
		return Value{}, ErrUnknownProperty
	}
	if p, ok := v.Obj.Property(name); ok {
		return p, nil
	}
	return Value{}, ErrUnknownProperty
}

// Index resolves an indexed child of an object value.
func (v Value) Index(i int) (Value, error) {
	if v.Kind != KindObject || v.Obj == nil {
		return Value{}, ErrInvalidIndex
	}
	if p, ok := v.Obj.Index(i); ok {
		return p, nil
	}
	return Value{}, ErrInvalidIndex
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}
