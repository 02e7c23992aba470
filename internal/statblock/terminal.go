package statblock

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/suderio/bestiary/internal/text"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D1A1A")).
			Padding(0, 1)

	metaStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#999999"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#922610"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#922610")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#E69A28")).
			Padding(0, 1)

	spanStyles = map[text.Style]lipgloss.Style{
		text.Normal:     lipgloss.NewStyle(),
		text.Italic:     lipgloss.NewStyle().Italic(true),
		text.Bold:       lipgloss.NewStyle().Bold(true),
		text.BoldItalic: lipgloss.NewStyle().Bold(true).Italic(true),
	}
)

// Terminal renders the stat block for a terminal, boxed to width columns.
// A width below 20 leaves the box unconstrained.
func Terminal(sb *StatBlock, width int) string {
	var lines []string
	lines = append(lines, titleStyle.Render(sb.Name), metaStyle.Render(sb.meta()), "")

	field := func(label, value string) {
		if value != "" {
			lines = append(lines, labelStyle.Render(label)+" "+value)
		}
	}
	field("Armor Class", sb.Armor)
	field("Hit Points", sb.HitPoints)
	field("Speed", sb.Speed)
	lines = append(lines, "", sb.abilityTable(), "")
	field("Saving Throws", sb.SavingThrows)
	field("Skills", sb.Skills)
	field("Senses", sb.Senses)
	field("Languages", sb.Languages)
	field("Challenge", sb.ChallengeRating)

	section := func(title string, fs []Feature) {
		if len(fs) == 0 {
			return
		}
		if title != "" {
			lines = append(lines, sectionStyle.Render(title))
		} else {
			lines = append(lines, "")
		}
		for _, f := range fs {
			lines = append(lines, RenderBlocks(f.Text))
		}
	}
	section("", sb.SpecialAbilities)
	section("Actions", sb.Actions)
	section("Reactions", sb.Reactions)

	style := boxStyle
	if width >= 20 {
		style = style.Width(width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// RenderBlocks styles structured text: headings and spans keep their bold
// and italic styles, sub-paragraphs are bulleted.
func RenderBlocks(blocks []text.Block) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		if block.Kind == text.SubParagraph {
			b.WriteString("• ")
		}
		if len(block.Heading) > 0 {
			writeSpans(&b, block.Heading)
			b.WriteString(" ")
		}
		writeSpans(&b, block.Body)
	}
	return b.String()
}

func writeSpans(b *strings.Builder, spans []text.Span) {
	for _, s := range spans {
		b.WriteString(spanStyles[s.Style].Render(s.Content))
	}
}

func (sb *StatBlock) meta() string {
	kind := sb.Type
	if sb.Subtype != "" {
		kind = fmt.Sprintf("%s (%s)", kind, sb.Subtype)
	}
	if sb.Group != "" {
		kind = fmt.Sprintf("%s %s", kind, sb.Group)
	}
	return fmt.Sprintf("%s %s, %s", sb.Size, kind, sb.Alignment)
}

func (sb *StatBlock) abilityTable() string {
	cols := []struct{ label, value string }{
		{"STR", sb.Strength}, {"DEX", sb.Dexterity}, {"CON", sb.Constitution},
		{"INT", sb.Intelligence}, {"WIS", sb.Wisdom}, {"CHA", sb.Charisma},
	}
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = lipgloss.NewStyle().Width(9).Align(lipgloss.Center).
			Render(labelStyle.Render(c.label) + "\n" + c.value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
