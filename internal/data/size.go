package data

import (
	"fmt"
	"strings"

	"github.com/suderio/bestiary/internal/dice"
)

// Size represents the standard D&D 5e size categories. The zero value is
// SizeUnknown so that a document without a size fails validation.
type Size int

const (
	SizeUnknown Size = iota
	SizeTiny
	SizeSmall
	SizeMedium
	SizeLarge
	SizeHuge
	SizeGargantuan
)

var sizeMap = map[string]Size{
	"tiny":       SizeTiny,
	"small":      SizeSmall,
	"medium":     SizeMedium,
	"large":      SizeLarge,
	"huge":       SizeHuge,
	"gargantuan": SizeGargantuan,
}

var sizeNames = [...]string{"Unknown", "Tiny", "Small", "Medium", "Large", "Huge", "Gargantuan"}

// ParseSize converts a string into a comparable Size value.
func ParseSize(s string) Size {
	if val, ok := sizeMap[strings.ToLower(strings.TrimSpace(s))]; ok {
		return val
	}
	return SizeUnknown
}

func (s Size) String() string {
	if s >= SizeUnknown && s <= SizeGargantuan {
		return sizeNames[s]
	}
	return sizeNames[SizeUnknown]
}

// HitDie returns the die a creature of this size rolls for hit points.
func (s Size) HitDie() dice.Die {
	switch s {
	case SizeTiny:
		return dice.D4
	case SizeSmall:
		return dice.D6
	case SizeLarge:
		return dice.D10
	case SizeHuge:
		return dice.D12
	case SizeGargantuan:
		return dice.D20
	default:
		return dice.D8
	}
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

func (s *Size) UnmarshalText(b []byte) error {
	v := ParseSize(string(b))
	if v == SizeUnknown {
		return fmt.Errorf("%w: %q", ErrUnknownSize, string(b))
	}
	*s = v
	return nil
}
