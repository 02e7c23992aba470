// Package statblock turns a creature document into the finished stat block:
// formatted header lines plus feature, action and reaction text produced by
// interpolating each feature against the creature.
package statblock

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/suderio/bestiary/internal/data"
	"github.com/suderio/bestiary/internal/engine"
	"github.com/suderio/bestiary/internal/log"
	"github.com/suderio/bestiary/internal/parser"
	"github.com/suderio/bestiary/internal/text"
)

// Feature is a rendered special ability, action or reaction. The name is
// the first block's heading; Text holds every block.
type Feature struct {
	Text []text.Block `json:"text"`
}

// StatBlock holds display-ready strings. Optional entries are omitted from
// JSON when empty.
type StatBlock struct {
	Name             string    `json:"name"`
	Size             string    `json:"size"`
	Type             string    `json:"type"`
	Subtype          string    `json:"subtype,omitempty"`
	Group            string    `json:"group,omitempty"`
	Alignment        string    `json:"alignment"`
	Armor            string    `json:"armor"`
	HitPoints        string    `json:"hit_points"`
	Speed            string    `json:"speed"`
	Strength         string    `json:"strength"`
	Dexterity        string    `json:"dexterity"`
	Constitution     string    `json:"constitution"`
	Intelligence     string    `json:"intelligence"`
	Wisdom           string    `json:"wisdom"`
	Charisma         string    `json:"charisma"`
	SavingThrows     string    `json:"saving_throws,omitempty"`
	Skills           string    `json:"skills,omitempty"`
	Senses           string    `json:"senses"`
	Languages        string    `json:"languages,omitempty"`
	ChallengeRating  string    `json:"challenge_rating"`
	SpecialAbilities []Feature `json:"special_abilities,omitempty"`
	Actions          []Feature `json:"actions,omitempty"`
	Reactions        []Feature `json:"reactions,omitempty"`
	Source           string    `json:"source,omitempty"`
}

type options struct {
	fullText bool
}

// Option configures Render.
type Option func(*options)

// WithFullText adds a source snippet to interpolation errors.
func WithFullText() Option {
	return func(o *options) { o.fullText = true }
}

// Render formats c. Features are interpolated concurrently; the creature is
// only read, and the result keeps document order.
func Render(ctx context.Context, c *data.Creature, opts ...Option) (*StatBlock, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	l := log.WithOperation(log.WithComponent("statblock"), "render")

	sb := &StatBlock{
		Name:            c.Name,
		Size:            c.Size.String(),
		Type:            c.Type,
		Subtype:         c.Subtype,
		Group:           c.Group,
		Alignment:       c.Alignment,
		Armor:           armor(c),
		HitPoints:       c.HitDice().Display(),
		Speed:           c.Speed,
		Strength:        ability(c.Strength),
		Dexterity:       ability(c.Dexterity),
		Constitution:    ability(c.Constitution),
		Intelligence:    ability(c.Intelligence),
		Wisdom:          ability(c.Wisdom),
		Charisma:        ability(c.Charisma),
		SavingThrows:    savingThrows(c),
		Skills:          strings.Join(c.Skills, ", "),
		Senses:          strings.Join(c.Senses, ", "),
		Languages:       strings.Join(c.Languages, ", "),
		ChallengeRating: c.ChallengeRating.Display(),
		Source:          c.Source,
	}
	if c.HitPoints != nil {
		sb.HitPoints = fmt.Sprintf("%d (%s)", *c.HitPoints, c.HitDice())
	}
	if sb.Speed == "" {
		sb.Speed = "30 ft."
	}

	sections := []struct {
		in  []data.Feature
		out *[]Feature
	}{
		{c.Features, &sb.SpecialAbilities},
		{c.Actions, &sb.Actions},
		{c.Reactions, &sb.Reactions},
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range sections {
		if len(s.in) == 0 {
			continue
		}
		*s.out = make([]Feature, len(s.in))
		for i, f := range s.in {
			f := f
			out := &(*s.out)[i]
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				blocks, err := renderFeature(c, f, o)
				if err != nil {
					return err
				}
				out.Text = blocks
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		l.Debug("render failed", "creature", c.Name, "err", err)
		return nil, err
	}
	l.Debug("rendered", "creature", c.Name, "features", len(c.Features)+len(c.Actions)+len(c.Reactions))
	return sb, nil
}

// renderFeature interpolates the name as plain text and the description as
// structured text, then makes the name the heading of the first block.
func renderFeature(c *data.Creature, f data.Feature, o options) ([]text.Block, error) {
	source := c.Name + ": " + f.Name
	nameOpts := []engine.Option{engine.WithSourceName(source + " (name)"), engine.WithMode(parser.ModeStatBlock)}
	textOpts := []engine.Option{engine.WithSourceName(source)}
	if o.fullText {
		nameOpts = append(nameOpts, engine.WithFullText())
		textOpts = append(textOpts, engine.WithFullText())
	}

	name, err := engine.Inclusion(f.Name, c, nameOpts...)
	if err != nil {
		return nil, err
	}
	blocks, err := engine.StatBlock(f.Text, c, textOpts...)
	if err != nil {
		return nil, err
	}

	heading := []text.Span{{Style: text.BoldItalic, Content: name}}
	if len(blocks) == 0 || blocks[0].Heading != nil {
		return append([]text.Block{{Kind: text.Paragraph, Heading: heading}}, blocks...), nil
	}
	blocks[0].Heading = heading
	return blocks, nil
}

func ability(score int) string {
	return fmt.Sprintf("%d (%+d)", score, data.AbilityModifier(score))
}

func armor(c *data.Creature) string {
	if c.Armor == "" {
		return fmt.Sprint(c.ArmorClass)
	}
	return fmt.Sprintf("%d (%s)", c.ArmorClass, c.Armor)
}

func savingThrows(c *data.Creature) string {
	var saves []string
	for _, a := range data.Abilities {
		for _, s := range c.Saves {
			if strings.EqualFold(s, a) {
				bonus, _ := c.SavingThrow(a)
				saves = append(saves, fmt.Sprintf("%s %+d", data.CapitalizeFirst(a), bonus))
				break
			}
		}
	}
	return strings.Join(saves, ", ")
}

// Plain renders the stat block as unstyled text, one field per line.
func Plain(sb *StatBlock) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", sb.Name, sb.meta())
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s %s\n", label, value)
		}
	}
	field("Armor Class", sb.Armor)
	field("Hit Points", sb.HitPoints)
	field("Speed", sb.Speed)
	fmt.Fprintf(&b, "\nSTR %s | DEX %s | CON %s | INT %s | WIS %s | CHA %s\n\n",
		sb.Strength, sb.Dexterity, sb.Constitution, sb.Intelligence, sb.Wisdom, sb.Charisma)
	field("Saving Throws", sb.SavingThrows)
	field("Skills", sb.Skills)
	field("Senses", sb.Senses)
	field("Languages", sb.Languages)
	field("Challenge", sb.ChallengeRating)

	section := func(title string, fs []Feature) {
		if len(fs) == 0 {
			return
		}
		b.WriteString("\n")
		if title != "" {
			b.WriteString(title + "\n")
		}
		for _, f := range fs {
			b.WriteString(text.PlainText(f.Text))
			b.WriteString("\n")
		}
	}
	section("", sb.SpecialAbilities)
	section("Actions", sb.Actions)
	section("Reactions", sb.Reactions)
	return b.String()
}
