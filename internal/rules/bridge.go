package rules

import (
	"github.com/suderio/bestiary/internal/data"
)

// ContextFromCreature converts a creature into a map suitable for CEL
// evaluation. Numbers are the derived stat-block values, hit dice travel
// as their expression text so avg() can read them.
func ContextFromCreature(c *data.Creature) map[string]any {
	if c == nil {
		return nil
	}
	saves := map[string]int{}
	mods := map[string]int{}
	for _, a := range data.Abilities {
		saves[a], _ = c.SavingThrow(a)
		score, _ := c.Score(a)
		mods[a] = data.AbilityModifier(score)
	}
	return map[string]any{
		"name":             c.Name,
		"size":             c.Size.String(),
		"type":             c.Type,
		"subtype":          c.Subtype,
		"alignment":        c.Alignment,
		"hit_dice":         c.HitDice().String(),
		"hit_points":       c.MaxHitPoints(),
		"armor_class":      c.ArmorClass,
		"strength":         c.Strength,
		"dexterity":        c.Dexterity,
		"constitution":     c.Constitution,
		"intelligence":     c.Intelligence,
		"wisdom":           c.Wisdom,
		"charisma":         c.Charisma,
		"stats":            c.GetStats(),
		"mods":             mods,
		"saves":            saves,
		"atk":              c.AttackModifier(),
		"prof":             c.ChallengeRating.ProficiencyBonus(),
		"xp":               c.ChallengeRating.ExperiencePoints(),
		"challenge_rating": c.ChallengeRating.String(),
		"features":         names(c.Features),
		"actions":          names(c.Actions),
		"reactions":        names(c.Reactions),
	}
}

func names(fs []data.Feature) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Name)
	}
	return out
}
