package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/bestiary/internal/parser"
	"github.com/suderio/bestiary/internal/text"
)

func TestStatBlockGoblin(t *testing.T) {
	ctx := MapResolver{"Subj": "The goblin"}

	blocks, err := StatBlock("${Subj} has ${1d8 + 2} hit points.", ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, text.Paragraph, b.Kind)
	assert.Nil(t, b.Heading)
	for _, s := range b.Body {
		assert.Equal(t, text.Normal, s.Style)
	}
	assert.Equal(t, "The goblin has 6 (1d8 + 2) hit points.", text.Content(b.Body))
}

func TestStatBlockStructure(t *testing.T) {
	t.Run("paragraph with heading", func(t *testing.T) {
		blocks, err := StatBlock("${par(}Bite.${)} Melee", nil)
		require.NoError(t, err)
		require.Len(t, blocks, 1)
		assert.Equal(t, "Bite.", text.Content(blocks[0].Heading))
		assert.Equal(t, " Melee", text.Content(blocks[0].Body))
	})

	t.Run("sub-paragraphs", func(t *testing.T) {
		blocks, err := StatBlock("intro${sub(}One.${)} first${sub} second", nil)
		require.NoError(t, err)
		require.Len(t, blocks, 3)
		assert.Equal(t, text.Paragraph, blocks[0].Kind)
		assert.Equal(t, text.SubParagraph, blocks[1].Kind)
		assert.Equal(t, "One.", text.Content(blocks[1].Heading))
		assert.Equal(t, text.SubParagraph, blocks[2].Kind)
		assert.Nil(t, blocks[2].Heading)
		assert.Equal(t, " second", text.Content(blocks[2].Body))
	})

	t.Run("styles split spans", func(t *testing.T) {
		blocks, err := StatBlock("a ${bold(}b ${italic(}c${)}${)} d", nil)
		require.NoError(t, err)
		require.Len(t, blocks, 1)
		assert.Equal(t, []text.Span{
			{Style: text.Normal, Content: "a "},
			{Style: text.Bold, Content: "b "},
			{Style: text.BoldItalic, Content: "c"},
			{Style: text.Normal, Content: " d"},
		}, blocks[0].Body)
	})

	t.Run("empty paragraphs are dropped", func(t *testing.T) {
		blocks, err := StatBlock("${par}${par}", nil)
		require.NoError(t, err)
		assert.Empty(t, blocks)
	})
}

func TestStatBlockExpressions(t *testing.T) {
	ctx := MapResolver{"name": "wolf"}
	tests := []struct {
		input string
		want  string
	}{
		{"${1 + 2 * 3}", "7"},
		{"${+2}", "+2"},
		{"${+(1d8 - 6)}", "-2 (1d8 - 6)"},
		{"${+1d8 + 2}", "+6 (1d8 + 2)"},
		{"${-1d8}", "-4 (-1d8)"},
		{"${10 - 1d6}", "7 (-1d6 + 10)"},
		{"${1d6 - 10}", "-7 (1d6 - 10)"},
		{"${7 /< 2} ${7 /> 2}", "3 4"},
		{`${"the " + name}`, "the wolf"},
		{"${$+3 + \"!\"}", "+3!"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			blocks, err := StatBlock(tt.input, ctx)
			require.NoError(t, err)
			require.Len(t, blocks, 1)
			assert.Equal(t, tt.want, text.Content(blocks[0].Body))
		})
	}
}

func TestStatBlockErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"nested italic", "${italic(}${italic(}x${)}${)}", ErrTextIsAlreadyItalic},
		{"nested bold", "${bold(}${bold(}x${)}${)}", ErrTextIsAlreadyBold},
		{"floor by dice", "${5 /< 1d6}", ErrCantDivideByDice},
		{"ceiling by dice", "${5 /> 1d6}", ErrCantDivideByDice},
		{"division by zero", "${5 /< 0}", ErrDivisionByZero},
		{"unknown variable", "${foo}", ErrUnknownVariable},
		{"unknown property", "${name.size}", ErrUnknownProperty},
		{"negated string", `${-"x"}`, ErrCantNegateString},
		{"dice times dice", "${1d6 * 1d6}", ErrCantMultiplyDice},
		{"lexical", `${"open}`, parser.ErrUnterminatedString},
		{"structural", "${(1 + 2}", parser.ErrExpectedCloseParen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StatBlock(tt.input, MapResolver{"name": "wolf"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var e *Error
			assert.True(t, errors.As(err, &e))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	_, err := StatBlock("${foo}", nil, WithSourceName("goblin.yaml"))
	require.Error(t, err)
	assert.Equal(t, `goblin.yaml [1:3-1:6] unknown variable "foo"`, err.Error())

	_, err = StatBlock("first line\n${foo}\nlast", nil, WithSourceName("goblin.yaml"), WithFullText())
	require.Error(t, err)
	assert.Equal(t, "goblin.yaml [2:3-2:6] unknown variable \"foo\"\n"+
		"   1 | first line\n"+
		"   2 | ${foo}\n"+
		"     |   ^\n"+
		"   3 | last", err.Error())

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, parser.Position{Line: 2, Column: 3}, e.Range.Start)
}

func TestRunHandBuiltPrograms(t *testing.T) {
	t.Run("end bold without start", func(t *testing.T) {
		prog := &parser.Program{Code: []parser.Instruction{{Op: parser.OpEndBold}}}
		_, err := Run(prog, nil)
		assert.ErrorIs(t, err, ErrTextIsNotBold)
	})

	t.Run("end italic without start", func(t *testing.T) {
		prog := &parser.Program{Code: []parser.Instruction{{Op: parser.OpEndItalic}}}
		_, err := Run(prog, nil)
		assert.ErrorIs(t, err, ErrTextIsNotItalic)
	})

	t.Run("empty stack names the operation", func(t *testing.T) {
		prog := &parser.Program{Code: []parser.Instruction{{Op: parser.OpAppend}}}
		_, err := Run(prog, nil, WithSourceName("tape"))
		require.ErrorIs(t, err, ErrEmptyStack)
		assert.Contains(t, err.Error(), "Append")
		assert.Contains(t, err.Error(), "tape")
	})

	t.Run("unknown operation", func(t *testing.T) {
		prog := &parser.Program{Code: []parser.Instruction{{Op: parser.OpCode(99)}}}
		_, err := Run(prog, nil)
		assert.ErrorIs(t, err, ErrUnknownOperation)
	})

	t.Run("compiled program is reusable", func(t *testing.T) {
		prog, err := Compile("${Subj} bites.", parser.ModeStatBlock)
		require.NoError(t, err)
		for _, subj := range []string{"The wolf", "The bear"} {
			blocks, err := Run(prog, MapResolver{"Subj": subj})
			require.NoError(t, err)
			assert.Equal(t, subj+" bites.", text.Content(blocks[0].Body))
		}
	})
}

func TestInclusion(t *testing.T) {
	ctx := MapResolver{"name": "wolf", "bonus": "3"}

	t.Run("substitutes parameters", func(t *testing.T) {
		out, err := Inclusion("The $<name> howls. \\$<name>", ctx)
		require.NoError(t, err)
		assert.Equal(t, "The wolf howls. $<name>", out)
	})

	t.Run("stat-block syntax is literal", func(t *testing.T) {
		out, err := Inclusion("${par} $<name>", ctx)
		require.NoError(t, err)
		assert.Equal(t, "${par} wolf", out)
	})

	t.Run("empty output is rejected", func(t *testing.T) {
		_, err := Inclusion("", ctx)
		assert.ErrorIs(t, err, ErrUnexpectedStructuredText)

		_, err = Inclusion("$<blank>", MapResolver{"blank": ""})
		assert.ErrorIs(t, err, ErrUnexpectedStructuredText)
	})

	t.Run("structured text is rejected", func(t *testing.T) {
		for _, src := range []string{"${par}", "x ${bold(}y${)}", "${sub(}a${)}"} {
			_, err := Inclusion(src, ctx, WithMode(parser.ModeStatBlock))
			assert.ErrorIs(t, err, ErrUnexpectedStructuredText, src)
		}
	})

	t.Run("strings can't be signed", func(t *testing.T) {
		_, err := Inclusion("$<+bonus>", ctx)
		assert.ErrorIs(t, err, ErrCantSignString)
	})
}

func TestOverlayNamespace(t *testing.T) {
	base := MapResolver{"name": "wolf", "size": "Medium"}
	r := Overlay{Namespace: "creature", Base: base, Override: MapResolver{"name": "dire wolf"}}

	blocks, err := StatBlock("${name} ${creature.name} ${size}", r)
	require.NoError(t, err)
	assert.Equal(t, "dire wolf wolf Medium", text.Content(blocks[0].Body))

	_, err = StatBlock("${creature.missing}", r)
	assert.ErrorIs(t, err, ErrUnknownProperty)
}

func TestMarkdown(t *testing.T) {
	blocks, err := Markdown("Keen Smell.", "The **wolf** has _advantage_.\n• first\nlast", false)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, text.Paragraph, blocks[0].Kind)
	assert.Equal(t, "Keen Smell.", text.Content(blocks[0].Heading))
	assert.Equal(t, []text.Span{
		{Style: text.Normal, Content: "The "},
		{Style: text.Bold, Content: "wolf"},
		{Style: text.Normal, Content: " has "},
		{Style: text.Italic, Content: "advantage"},
		{Style: text.Normal, Content: "."},
	}, blocks[0].Body)

	assert.Equal(t, text.SubParagraph, blocks[1].Kind)
	assert.Nil(t, blocks[1].Heading)
	assert.Equal(t, " first", text.Content(blocks[1].Body))

	assert.Equal(t, text.Paragraph, blocks[2].Kind)
	assert.Equal(t, "last", text.Content(blocks[2].Body))

	sub, err := Markdown("Multiattack.", "", true)
	require.NoError(t, err)
	require.Len(t, sub, 1)
	assert.Equal(t, text.SubParagraph, sub[0].Kind)
}

func TestConcurrentInterpolation(t *testing.T) {
	ctx := MapResolver{"Subj": "The goblin"}
	var wg sync.WaitGroup
	errs := make([]error, 32)
	outs := make([]string, 32)
	for i := range outs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			blocks, err := StatBlock(fmt.Sprintf("${Subj} has ${%dd8 + 2} hit points.", i+1), ctx)
			if err != nil {
				errs[i] = err
				return
			}
			outs[i] = text.Content(blocks[0].Body)
		}(i)
	}
	wg.Wait()

	for i, out := range outs {
		require.NoError(t, errs[i])
		assert.Contains(t, out, fmt.Sprintf("(%dd8 + 2)", i+1))
	}
}
