package data

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suderio/bestiary/internal/dice"
)

var (
	ErrUnknownSize       = errors.New("unknown size")
	ErrInvalidChallenge  = errors.New("invalid challenge rating")
	ErrMissingName       = errors.New("creature has no name")
	ErrInvalidHitDice    = errors.New("hit dice count must be positive")
	ErrInvalidScore      = errors.New("ability score must be between 1 and 30")
	ErrUnknownAbility    = errors.New("unknown ability")
	ErrCreatureNotFound  = errors.New("creature not found")
	ErrInvalidDataFormat = errors.New("invalid creature document")
	ErrInclude           = errors.New("in included file")
	ErrIncludeCycle      = errors.New("file includes itself")
)

// Feature is a named block of stat-block text. Name is interpolated as a
// plain string and Text as structured text, both with "${...}" syntax.
type Feature struct {
	Name string `yaml:"name" json:"name"`
	Text string `yaml:"text" json:"text"`
}

// Include merges a fragment file into the including document. The file is
// interpolated in "$<...>" mode with Parameters before it is decoded, and
// is resolved relative to the document that includes it.
type Include struct {
	File       string            `yaml:"file"`
	Parameters map[string]string `yaml:"parameters,omitempty"`
}

// Pronouns override the default "it" forms. Empty fields keep the default.
type Pronouns struct {
	Subject    string `yaml:"subject,omitempty"`
	Possessive string `yaml:"possessive,omitempty"`
	Object     string `yaml:"object,omitempty"`
	Reflexive  string `yaml:"reflexive,omitempty"`
}

// Creature is a monster document loaded via YAML.
type Creature struct {
	// Include is applied before the rest of the document and is empty once
	// the document is loaded.
	Include []Include `yaml:"include,omitempty"`

	Name string `yaml:"name"`
	// Subject replaces "the <name>" when referring to the creature, e.g. a
	// proper name. Possessive defaults to the subject followed by "'s".
	Subject    string   `yaml:"subject,omitempty"`
	Possessive string   `yaml:"possessive,omitempty"`
	Pronouns   Pronouns `yaml:"pronouns,omitempty"`

	Size      Size   `yaml:"size"`
	Type      string `yaml:"type"`
	Subtype   string `yaml:"subtype,omitempty"`
	Group     string `yaml:"group,omitempty"`
	Alignment string `yaml:"alignment"`

	// HitDie defaults to the die for the creature's size.
	HitDie       *dice.Die `yaml:"hit_die,omitempty"`
	HitDiceCount int       `yaml:"hit_dice_count"`
	// HitPoints overrides the average of the hit dice.
	HitPoints  *int   `yaml:"hit_points,omitempty"`
	ArmorClass int    `yaml:"armor_class"`
	Armor      string `yaml:"armor,omitempty"`
	Speed      string `yaml:"speed,omitempty"`

	Strength     int `yaml:"strength"`
	Dexterity    int `yaml:"dexterity"`
	Constitution int `yaml:"constitution"`
	Intelligence int `yaml:"intelligence"`
	Wisdom       int `yaml:"wisdom"`
	Charisma     int `yaml:"charisma"`

	// Saves lists the abbreviations of proficient saving throws, e.g. [dex, wis].
	Saves     []string `yaml:"saves,omitempty"`
	Skills    []string `yaml:"skills,omitempty"`
	Senses    []string `yaml:"senses,omitempty"`
	Languages []string `yaml:"languages,omitempty"`

	ChallengeRating ChallengeRating `yaml:"challenge_rating"`

	Features  []Feature `yaml:"features,omitempty"`
	Actions   []Feature `yaml:"actions,omitempty"`
	Reactions []Feature `yaml:"reactions,omitempty"`

	// Expect holds CEL assertions checked by the validate command.
	Expect []string `yaml:"expect,omitempty"`
	Source string   `yaml:"source,omitempty"`
}

// Abilities lists the ability abbreviations in stat-block order.
var Abilities = []string{"str", "dex", "con", "int", "wis", "cha"}

// Score returns the ability score for an abbreviation such as "dex".
func (c *Creature) Score(ability string) (int, error) {
	switch ability {
	case "str":
		return c.Strength, nil
	case "dex":
		return c.Dexterity, nil
	case "con":
		return c.Constitution, nil
	case "int":
		return c.Intelligence, nil
	case "wis":
		return c.Wisdom, nil
	case "cha":
		return c.Charisma, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownAbility, ability)
}

// GetStats returns every ability score keyed by abbreviation.
func (c *Creature) GetStats() map[string]int {
	return map[string]int{
		"str": c.Strength,
		"dex": c.Dexterity,
		"con": c.Constitution,
		"int": c.Intelligence,
		"wis": c.Wisdom,
		"cha": c.Charisma,
	}
}

func (c *Creature) hitDie() dice.Die {
	if c.HitDie != nil {
		return *c.HitDie
	}
	return c.Size.HitDie()
}

// HitDice returns the hit dice with the constitution bonus per die, e.g.
// "2d6" for a goblin with constitution 10.
func (c *Creature) HitDice() dice.Expression {
	return dice.FromDice(dice.New(c.HitDiceCount, c.hitDie()), AbilityModifier(c.Constitution)*c.HitDiceCount)
}

// MaxHitPoints is the override when set, otherwise the hit dice average.
func (c *Creature) MaxHitPoints() int {
	if c.HitPoints != nil {
		return *c.HitPoints
	}
	return c.HitDice().Average()
}

// AttackModifier is the better of the strength and dexterity modifiers.
func (c *Creature) AttackModifier() int {
	return max(AbilityModifier(c.Strength), AbilityModifier(c.Dexterity))
}

func (c *Creature) proficientSave(ability string) bool {
	for _, s := range c.Saves {
		if strings.EqualFold(s, ability) {
			return true
		}
	}
	return false
}

// SavingThrow returns the save bonus, adding proficiency when proficient.
func (c *Creature) SavingThrow(ability string) (int, error) {
	score, err := c.Score(ability)
	if err != nil {
		return 0, err
	}
	mod := AbilityModifier(score)
	if c.proficientSave(ability) {
		mod += c.ChallengeRating.ProficiencyBonus()
	}
	return mod, nil
}

// SubjectName is how the text refers to the creature: "the goblin" by default.
func (c *Creature) SubjectName(capitalize bool) string {
	s := c.Subject
	if s == "" {
		s = "the " + strings.ToLower(c.Name)
	}
	if capitalize {
		return CapitalizeFirst(s)
	}
	return s
}

func (c *Creature) PossessiveName(capitalize bool) string {
	if c.Possessive == "" {
		return c.SubjectName(capitalize) + "'s"
	}
	if capitalize {
		return CapitalizeFirst(c.Possessive)
	}
	return c.Possessive
}

func pronoun(override, def string, capitalize bool) string {
	if override == "" {
		override = def
	}
	if capitalize {
		return CapitalizeFirst(override)
	}
	return override
}

// Validate reports the first structural problem with the document.
func (c *Creature) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if c.Size == SizeUnknown {
		return fmt.Errorf("%s: %w", c.Name, ErrUnknownSize)
	}
	if c.HitDiceCount <= 0 {
		return fmt.Errorf("%s: %w", c.Name, ErrInvalidHitDice)
	}
	for _, a := range Abilities {
		s, _ := c.Score(a)
		if s < 1 || s > 30 {
			return fmt.Errorf("%s: %w: %s is %d", c.Name, ErrInvalidScore, a, s)
		}
	}
	for _, s := range c.Saves {
		if _, err := c.Score(strings.ToLower(s)); err != nil {
			return fmt.Errorf("%s: saves: %w", c.Name, err)
		}
	}
	return nil
}
