// Package text holds the structured document produced by stat-block
// interpolation: ordered blocks of styled spans.
package text

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Style int

const (
	Normal Style = iota
	Italic
	Bold
	BoldItalic
)

var styleNames = []string{"normal", "italic", "bold", "bold-italic"}

// StyleOf returns the style for the given toggle flags.
func StyleOf(italic, bold bool) Style {
	switch {
	case italic && bold:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Normal
	}
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

func (s Style) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(styleNames) {
		return nil, fmt.Errorf("unknown span style %d", int(s))
	}
	return []byte(styleNames[s]), nil
}

func (s *Style) UnmarshalText(b []byte) error {
	for i, name := range styleNames {
		if name == string(b) {
			*s = Style(i)
			return nil
		}
	}
	return fmt.Errorf("unknown span style %q", b)
}

// Span is a run of text in a single style.
type Span struct {
	Style   Style  `json:"style"`
	Content string `json:"content"`
}

type Kind int

const (
	Paragraph Kind = iota
	SubParagraph
)

func (k Kind) String() string {
	if k == SubParagraph {
		return "sub-paragraph"
	}
	return "paragraph"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "paragraph":
		*k = Paragraph
	case "sub-paragraph":
		*k = SubParagraph
	default:
		return fmt.Errorf("unknown block kind %q", b)
	}
	return nil
}

// Block is a paragraph or list item. A nil Heading means the block has none.
type Block struct {
	Kind    Kind
	Heading []Span
	Body    []Span
}

type blockJSON struct {
	Kind    Kind   `json:"block"`
	Heading []Span `json:"heading,omitempty"`
	Body    []Span `json:"body"`
}

func (b Block) MarshalJSON() ([]byte, error) {
	body := b.Body
	if body == nil {
		body = []Span{}
	}
	return json.Marshal(blockJSON{Kind: b.Kind, Heading: b.Heading, Body: body})
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var raw blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Block{Kind: raw.Kind, Heading: raw.Heading, Body: raw.Body}
	return nil
}

// PlainText flattens blocks into lines, dropping styles. A heading is
// separated from its body by a single space.
func PlainText(blocks []Block) string {
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		var sb strings.Builder
		if b.Kind == SubParagraph {
			sb.WriteString("• ")
		}
		writeSpans(&sb, b.Heading)
		if len(b.Heading) > 0 && len(b.Body) > 0 {
			sb.WriteString(" ")
		}
		writeSpans(&sb, b.Body)
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// Content concatenates the content of spans.
func Content(spans []Span) string {
	var sb strings.Builder
	writeSpans(&sb, spans)
	return sb.String()
}

func writeSpans(sb *strings.Builder, spans []Span) {
	for _, s := range spans {
		sb.WriteString(s.Content)
	}
}
