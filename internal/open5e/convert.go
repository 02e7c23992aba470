package open5e

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suderio/bestiary/internal/data"
	"github.com/suderio/bestiary/internal/dice"
	"github.com/suderio/bestiary/internal/engine"
	"github.com/suderio/bestiary/internal/parser"
)

var ErrConvert = errors.New("cannot convert monster")

// Convert maps an Open5e monster onto a creature document. Descriptions are
// rewritten as stat-block source so the result renders like any other
// creature. The imported hit points and armor class are recorded as
// expectations.
func Convert(m Monster) (*data.Creature, error) {
	fail := func(err error) (*data.Creature, error) {
		return nil, fmt.Errorf("%w %q: %w", ErrConvert, m.Name, err)
	}

	c := &data.Creature{
		Name:         m.Name,
		Size:         data.ParseSize(m.Size),
		Type:         m.Type,
		Subtype:      m.Subtype,
		Alignment:    m.Alignment,
		ArmorClass:   m.ArmorClass,
		Speed:        m.Speed.String(),
		Strength:     m.Strength,
		Dexterity:    m.Dexterity,
		Constitution: m.Constitution,
		Intelligence: m.Intelligence,
		Wisdom:       m.Wisdom,
		Charisma:     m.Charisma,
		Skills:       m.Skills.List(),
		Senses:       splitList(m.Senses),
		Languages:    splitList(m.Languages),
		Source:       m.DocumentTitle,
	}
	if m.Group != nil {
		c.Group = *m.Group
	}
	if m.ArmorDesc != nil {
		c.Armor = *m.ArmorDesc
	}

	hd, err := dice.ParseExpression(m.HitDice)
	if err != nil {
		return fail(err)
	}
	head := hd.Terms()[0]
	c.HitDiceCount = head.Dice.Count
	if head.Dice.Die != c.Size.HitDie() {
		die := head.Dice.Die
		c.HitDie = &die
	}
	if m.HitPoints != c.MaxHitPoints() {
		hp := m.HitPoints
		c.HitPoints = &hp
	}

	if c.ChallengeRating, err = data.ParseChallengeRating(m.ChallengeRating); err != nil {
		return fail(err)
	}

	saves := []*int{m.StrengthSave, m.DexteritySave, m.ConstitutionSave, m.IntelligenceSave, m.WisdomSave, m.CharismaSave}
	for i, a := range data.Abilities {
		if saves[i] == nil {
			continue
		}
		score, _ := c.Score(a)
		if *saves[i] > data.AbilityModifier(score) {
			c.Saves = append(c.Saves, a)
		}
	}

	for _, sec := range []struct {
		in  Actions
		out *[]data.Feature
	}{
		{m.SpecialAbilities, &c.Features},
		{m.Actions, &c.Actions},
		{m.Reactions, &c.Reactions},
	} {
		for _, a := range sec.in {
			f, err := feature(a)
			if err != nil {
				return fail(err)
			}
			*sec.out = append(*sec.out, f)
		}
	}

	c.Expect = []string{
		fmt.Sprintf("creature.hit_points == %d", m.HitPoints),
		fmt.Sprintf("creature.armor_class == %d", m.ArmorClass),
	}

	if err := c.Validate(); err != nil {
		return fail(err)
	}
	return c, nil
}

func feature(a Action) (data.Feature, error) {
	src, err := Source(a.Desc)
	if err != nil {
		return data.Feature{}, fmt.Errorf("%s: %w", a.Name, err)
	}
	return data.Feature{Name: Escape(a.Name), Text: src}, nil
}

// Escape protects '$' and '\' so s interpolates to itself.
func Escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `$`, `\$`).Replace(s)
}

// Source rewrites an Open5e description as stat-block source. "**" toggles
// bold and "_" or "__" toggles italic; a newline starts a paragraph, or a
// sub-paragraph when the next line begins with '•'. Open styles are closed
// at the end of each line. The result is checked by compiling it.
func Source(desc string) (string, error) {
	var b strings.Builder
	var open []parser.Keyword

	closeAll := func() {
		for range open {
			b.WriteString("${)}")
		}
		open = open[:0]
	}
	toggle := func(kw parser.Keyword) {
		idx := -1
		for i, k := range open {
			if k == kw {
				idx = i
			}
		}
		if idx < 0 {
			b.WriteString("${" + kw.String() + "(}")
			open = append(open, kw)
			return
		}
		// Close down to the style being toggled and reopen the ones above it.
		above := append([]parser.Keyword(nil), open[idx+1:]...)
		for range open[idx:] {
			b.WriteString("${)}")
		}
		open = open[:idx]
		for _, k := range above {
			b.WriteString("${" + k.String() + "(}")
			open = append(open, k)
		}
	}

	runes := []rune(desc)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case r == '\n':
			closeAll()
			if next == '•' {
				b.WriteString("${sub}")
				i++
			} else {
				b.WriteString("${par}")
			}
		case r == '*' && next == '*':
			i++
			toggle(parser.KeywordBold)
		case r == '_':
			if next == '_' {
				i++
			}
			toggle(parser.KeywordItalic)
		case r == '$' || r == '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	closeAll()

	src := b.String()
	if _, err := engine.Compile(src, parser.ModeStatBlock); err != nil {
		return "", err
	}
	return src, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
