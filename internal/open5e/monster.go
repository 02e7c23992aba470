package open5e

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Page is one page of the paginated monster listing.
type Page struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Monster `json:"results"`
}

// Monster is the subset of an Open5e monster record that maps onto a
// creature document.
type Monster struct {
	Slug                  string  `json:"slug"`
	Name                  string  `json:"name"`
	Size                  string  `json:"size"`
	Type                  string  `json:"type"`
	Subtype               string  `json:"subtype"`
	Group                 *string `json:"group"`
	Alignment             string  `json:"alignment"`
	ArmorClass            int     `json:"armor_class"`
	ArmorDesc             *string `json:"armor_desc"`
	HitPoints             int     `json:"hit_points"`
	HitDice               string  `json:"hit_dice"`
	Speed                 Speed   `json:"speed"`
	Strength              int     `json:"strength"`
	Dexterity             int     `json:"dexterity"`
	Constitution          int     `json:"constitution"`
	Intelligence          int     `json:"intelligence"`
	Wisdom                int     `json:"wisdom"`
	Charisma              int     `json:"charisma"`
	StrengthSave          *int    `json:"strength_save"`
	DexteritySave         *int    `json:"dexterity_save"`
	ConstitutionSave      *int    `json:"constitution_save"`
	IntelligenceSave      *int    `json:"intelligence_save"`
	WisdomSave            *int    `json:"wisdom_save"`
	CharismaSave          *int    `json:"charisma_save"`
	Skills                Skills  `json:"skills"`
	DamageVulnerabilities string  `json:"damage_vulnerabilities"`
	DamageResistances     string  `json:"damage_resistances"`
	DamageImmunities      string  `json:"damage_immunities"`
	ConditionImmunities   string  `json:"condition_immunities"`
	Senses                string  `json:"senses"`
	Languages             string  `json:"languages"`
	ChallengeRating       string  `json:"challenge_rating"`
	Actions               Actions `json:"actions"`
	Reactions             Actions `json:"reactions"`
	LegendaryDesc         string  `json:"legendary_desc"`
	LegendaryActions      Actions `json:"legendary_actions"`
	SpecialAbilities      Actions `json:"special_abilities"`
	DocumentSlug          string  `json:"document__slug"`
	DocumentTitle         string  `json:"document__title"`
}

// Action is a named description. Descriptions use a little markdown.
type Action struct {
	Name        string `json:"name"`
	Desc        string `json:"desc"`
	AttackBonus *int   `json:"attack_bonus"`
	DamageDice  string `json:"damage_dice"`
	DamageBonus *int   `json:"damage_bonus"`
}

// Actions decodes a list of actions. Open5e sends "" where it has none.
type Actions []Action

func (a *Actions) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "" {
			return fmt.Errorf("actions: unexpected string %q", s)
		}
		*a = nil
		return nil
	}
	var list []Action
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*a = list
	return nil
}

// Speed holds movement speeds in feet.
type Speed struct {
	Walk   *int   `json:"walk"`
	Swim   *int   `json:"swim"`
	Fly    *int   `json:"fly"`
	Burrow *int   `json:"burrow"`
	Climb  *int   `json:"climb"`
	Hover  bool   `json:"hover"`
	Notes  string `json:"notes"`
}

// String renders the speed the way a stat block lists it, e.g.
// "30 ft., fly 60 ft. (hover)".
func (s Speed) String() string {
	var parts []string
	if s.Walk != nil {
		parts = append(parts, fmt.Sprintf("%d ft.", *s.Walk))
	}
	add := func(kind string, v *int) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("%s %d ft.", kind, *v))
		}
	}
	add("burrow", s.Burrow)
	add("climb", s.Climb)
	if s.Fly != nil {
		fly := fmt.Sprintf("fly %d ft.", *s.Fly)
		if s.Hover {
			fly += " (hover)"
		}
		parts = append(parts, fly)
	}
	add("swim", s.Swim)

	out := strings.Join(parts, ", ")
	if s.Notes != "" {
		out = fmt.Sprintf("%s (%s)", out, s.Notes)
	}
	return out
}

// Skills maps skill names to bonuses, e.g. "sleight_of_hand": 4.
type Skills map[string]int

var skillNames = []struct{ key, name string }{
	{"acrobatics", "Acrobatics"},
	{"animal_handling", "Animal Handling"},
	{"arcana", "Arcana"},
	{"athletics", "Athletics"},
	{"deception", "Deception"},
	{"history", "History"},
	{"insight", "Insight"},
	{"intimidation", "Intimidation"},
	{"investigation", "Investigation"},
	{"medicine", "Medicine"},
	{"nature", "Nature"},
	{"perception", "Perception"},
	{"performance", "Performance"},
	{"persuasion", "Persuasion"},
	{"religion", "Religion"},
	{"sleight_of_hand", "Sleight of Hand"},
	{"stealth", "Stealth"},
	{"survival", "Survival"},
}

// List returns entries like "Stealth +6" in alphabetical skill order.
// Unknown keys are ignored.
func (s Skills) List() []string {
	var out []string
	for _, sk := range skillNames {
		if v, ok := s[sk.key]; ok {
			out = append(out, fmt.Sprintf("%s %+d", sk.name, v))
		}
	}
	return out
}
