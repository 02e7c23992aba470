// Package dice models dice terms and the symbolic dice-expression algebra
// used in creature stat blocks. Nothing here rolls dice: every value is
// reduced to its expected average.
package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Dice is a count of identical dice, e.g. 2d6.
type Dice struct {
	Count int
	Die   Die
}

func New(count int, die Die) Dice {
	return Dice{Count: count, Die: die}
}

// Average returns floor(count × die average).
func (d Dice) Average() int {
	return floorDiv(d.Count*(d.Die.Faces()+1), 2)
}

func (d Dice) String() string {
	return strconv.Itoa(d.Count) + "d" + strconv.Itoa(d.Die.Faces())
}

// Parse reads "<count>d<faces>". The count defaults to 1 when omitted.
func Parse(s string) (Dice, error) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, "dD")
	if idx < 0 {
		return Dice{}, fmt.Errorf("%w: %q", ErrExpectedD, s)
	}
	count := 1
	if idx > 0 {
		n, err := strconv.Atoi(s[:idx])
		if err != nil || n < 0 {
			return Dice{}, fmt.Errorf("%w: %q", ErrExpectedCount, s[:idx])
		}
		count = n
	}
	die, err := ParseDie(s[idx+1:])
	if err != nil {
		return Dice{}, err
	}
	return Dice{Count: count, Die: die}, nil
}

func (d Dice) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Dice) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Dice) sameDie(o Dice) bool {
	return d.Die.Faces() == o.Die.Faces()
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
