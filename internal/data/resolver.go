package data

import (
	"strings"

	"github.com/suderio/bestiary/internal/engine"
)

var abilityNames = map[string]string{
	"strength":     "str",
	"dexterity":    "dex",
	"constitution": "con",
	"intelligence": "int",
	"wisdom":       "wis",
	"charisma":     "cha",
}

// Property exposes the creature to "${...}" expressions. Lowercase names
// give lowercase text; their capitalized forms (Subj, Poss, ...) start with
// a capital letter.
func (c *Creature) Property(name string) (engine.Value, bool) {
	switch name {
	case "name":
		return engine.String(c.Name), true
	case "subj", "Subj":
		return engine.String(c.SubjectName(name == "Subj")), true
	case "poss", "Poss":
		return engine.String(c.PossessiveName(name == "Poss")), true
	case "subjpro", "Subjpro":
		return engine.String(pronoun(c.Pronouns.Subject, "it", name == "Subjpro")), true
	case "posspro", "Posspro":
		return engine.String(pronoun(c.Pronouns.Possessive, "its", name == "Posspro")), true
	case "objpro":
		return engine.String(pronoun(c.Pronouns.Object, "it", false)), true
	case "refpro":
		return engine.String(pronoun(c.Pronouns.Reflexive, "itself", false)), true
	case "size":
		return engine.String(c.Size.String()), true
	case "type":
		return engine.String(c.Type), true
	case "subtype":
		return engine.String(c.Subtype), true
	case "group":
		return engine.String(c.Group), true
	case "alignment":
		return engine.String(c.Alignment), true
	case "hit_dice":
		return engine.Dice(c.HitDice()), true
	case "hit_points":
		return engine.Number(c.MaxHitPoints()), true
	case "armor_class":
		return engine.Number(c.ArmorClass), true
	case "atk":
		return engine.Number(c.AttackModifier()), true
	case "prof":
		return engine.Number(c.ChallengeRating.ProficiencyBonus()), true
	case "xp":
		return engine.Number(c.ChallengeRating.ExperiencePoints()), true
	}

	if abbr, ok := abilityNames[name]; ok {
		score, _ := c.Score(abbr)
		return engine.Number(score), true
	}
	if score, err := c.Score(name); err == nil {
		return engine.Number(AbilityModifier(score)), true
	}
	if abbr, ok := strings.CutSuffix(name, "_save"); ok {
		if save, err := c.SavingThrow(abbr); err == nil {
			return engine.Number(save), true
		}
	}
	return engine.Value{}, false
}

// Index always fails: a creature has no indexed children.
func (c *Creature) Index(int) (engine.Value, bool) {
	return engine.Value{}, false
}

var _ engine.Resolver = (*Creature)(nil)
