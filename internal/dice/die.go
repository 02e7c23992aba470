package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrExpectedFaces = errors.New("expected a positive number of faces")
	ErrExpectedCount = errors.New("expected a number for the dice count")
	ErrExpectedD     = errors.New("expected 'd' between count and faces")
)

// Die is a single die identified by its number of faces.
type Die struct {
	faces int
}

// The standard polyhedral set.
var (
	D4  = Die{faces: 4}
	D6  = Die{faces: 6}
	D8  = Die{faces: 8}
	D10 = Die{faces: 10}
	D12 = Die{faces: 12}
	D20 = Die{faces: 20}
)

// NewDie returns the die with the given faces. Faces below one are clamped to one.
func NewDie(faces int) Die {
	if faces < 1 {
		faces = 1
	}
	return Die{faces: faces}
}

func (d Die) Faces() int {
	if d.faces == 0 {
		return 1
	}
	return d.faces
}

// IsStandard reports whether the die is one of d4, d6, d8, d10, d12 or d20.
func (d Die) IsStandard() bool {
	switch d.Faces() {
	case 4, 6, 8, 10, 12, 20:
		return true
	}
	return false
}

// Average is the expected value of one roll: (faces+1)/2.
func (d Die) Average() float64 {
	return float64(d.Faces()+1) / 2
}

func (d Die) String() string {
	return "d" + strconv.Itoa(d.Faces())
}

// ParseDie accepts "d8", "D8" or a bare "8".
func ParseDie(s string) (Die, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "d"), "D")
	faces, err := strconv.Atoi(s)
	if err != nil || faces < 1 {
		return Die{}, fmt.Errorf("%w: %q", ErrExpectedFaces, s)
	}
	return Die{faces: faces}, nil
}

func (d Die) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Die) UnmarshalText(b []byte) error {
	parsed, err := ParseDie(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
