package text

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleOf(t *testing.T) {
	assert.Equal(t, Normal, StyleOf(false, false))
	assert.Equal(t, Italic, StyleOf(true, false))
	assert.Equal(t, Bold, StyleOf(false, true))
	assert.Equal(t, BoldItalic, StyleOf(true, true))
}

func TestBlockJSON(t *testing.T) {
	blocks := []Block{
		{
			Kind:    Paragraph,
			Heading: []Span{{Style: BoldItalic, Content: "Keen Smell."}},
			Body:    []Span{{Style: Normal, Content: "The wolf has advantage."}},
		},
		{Kind: SubParagraph, Body: []Span{{Style: Italic, Content: "x"}}},
		{Kind: Paragraph},
	}

	data, err := json.Marshal(blocks)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"block":"paragraph","heading":[{"style":"bold-italic","content":"Keen Smell."}],"body":[{"style":"normal","content":"The wolf has advantage."}]},
		{"block":"sub-paragraph","body":[{"style":"italic","content":"x"}]},
		{"block":"paragraph","body":[]}
	]`, string(data))

	require.NoError(t, Validate(data))

	var back []Block
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, blocks[0], back[0])
	assert.Equal(t, SubParagraph, back[1].Kind)
	assert.Nil(t, back[1].Heading)
}

func TestUnmarshalRejectsUnknownNames(t *testing.T) {
	var b Block
	assert.Error(t, json.Unmarshal([]byte(`{"block":"chapter","body":[]}`), &b))
	assert.Error(t, json.Unmarshal([]byte(`{"block":"paragraph","body":[{"style":"underline","content":""}]}`), &b))
}

func TestValidate(t *testing.T) {
	t.Run("missing body", func(t *testing.T) {
		err := Validate([]byte(`[{"block":"paragraph"}]`))
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("bad style", func(t *testing.T) {
		err := Validate([]byte(`[{"block":"paragraph","body":[{"style":"loud","content":"x"}]}]`))
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("not json", func(t *testing.T) {
		assert.Error(t, Validate([]byte(`{`)))
	})
}

func TestPlainText(t *testing.T) {
	blocks := []Block{
		{Kind: Paragraph, Heading: []Span{{Style: BoldItalic, Content: "Bite."}}, Body: []Span{{Content: "Melee "}, {Style: Italic, Content: "Hit:"}}},
		{Kind: SubParagraph, Body: []Span{{Content: "one"}}},
	}
	assert.Equal(t, "Bite. Melee Hit:\n• one", PlainText(blocks))
	assert.Equal(t, "Melee Hit:", Content(blocks[0].Body))
}
