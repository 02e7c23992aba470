package data

import (
	"fmt"
	"strconv"
	"strings"
)

// ChallengeRating is stored in eighths so that 1/8, 1/4 and 1/2 stay exact.
// The zero value is CR 0. NoChallenge marks a CR 0 creature that grants no
// experience.
type ChallengeRating int

const (
	NoChallenge ChallengeRating = -1

	maxChallenge = 30
)

var xpByRating = [...]int{
	10, 200, 450, 700, 1100, 1800, 2300, 2900, 3900, 5000,
	5900, 7200, 8400, 10000, 11500, 13000, 15000, 18000, 20000, 22000,
	25000, 33000, 41000, 50000, 62000, 75000, 90000, 105000, 120000, 135000,
	155000,
}

// ParseChallengeRating reads "0", "1/8", "1/4", "1/2" or a whole number up
// to 30. "none" yields NoChallenge.
func ParseChallengeRating(s string) (ChallengeRating, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "none":
		return NoChallenge, nil
	case "1/8", "0.125":
		return 1, nil
	case "1/4", "0.25":
		return 2, nil
	case "1/2", "0.5":
		return 4, nil
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		return 0, fmt.Errorf("%w: unsupported fraction %s/%s", ErrInvalidChallenge, num, den)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChallenge, s)
	}
	if n < 0 || n > maxChallenge {
		return 0, fmt.Errorf("%w: %d is outside 0-%d", ErrInvalidChallenge, n, maxChallenge)
	}
	return ChallengeRating(n * 8), nil
}

func (c ChallengeRating) whole() (int, bool) {
	if c < 8 {
		return 0, c <= 0
	}
	return int(c) / 8, true
}

// ProficiencyBonus returns the proficiency bonus for the rating. Fractional
// ratings use +2.
func (c ChallengeRating) ProficiencyBonus() int {
	n, ok := c.whole()
	if !ok || n <= 4 {
		return 2
	}
	return 2 + (n-1)/4
}

// ExperiencePoints returns the XP awarded for defeating the creature.
func (c ChallengeRating) ExperiencePoints() int {
	switch c {
	case NoChallenge:
		return 0
	case 1:
		return 25
	case 2:
		return 50
	case 4:
		return 100
	}
	n, _ := c.whole()
	if n >= len(xpByRating) {
		n = len(xpByRating) - 1
	}
	return xpByRating[n]
}

func (c ChallengeRating) String() string {
	switch c {
	case NoChallenge:
		return "0"
	case 1:
		return "1/8"
	case 2:
		return "1/4"
	case 4:
		return "1/2"
	}
	n, _ := c.whole()
	return strconv.Itoa(n)
}

// Display renders the rating with its experience, e.g. "1/4 (50 XP)".
func (c ChallengeRating) Display() string {
	return fmt.Sprintf("%s (%s XP)", c, Thousands(c.ExperiencePoints()))
}

func (c ChallengeRating) MarshalText() ([]byte, error) {
	if c == NoChallenge {
		return []byte("none"), nil
	}
	return []byte(c.String()), nil
}

func (c *ChallengeRating) UnmarshalText(b []byte) error {
	v, err := ParseChallengeRating(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ProficiencyBonus returns the bonus for a challenge rating string,
// falling back to +2 when the rating is invalid.
func ProficiencyBonus(cr string) int {
	c, err := ParseChallengeRating(cr)
	if err != nil {
		return 2
	}
	return c.ProficiencyBonus()
}

// ExperiencePoints returns the XP for a challenge rating string, or 0 when
// the rating is invalid.
func ExperiencePoints(cr string) int {
	c, err := ParseChallengeRating(cr)
	if err != nil {
		return 0
	}
	return c.ExperiencePoints()
}
