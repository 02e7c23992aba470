package data

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/bestiary/internal/engine"
	"github.com/suderio/bestiary/internal/parser"
)

func TestLoaderFallback(t *testing.T) {
	l := NewLoader([]string{"testdata/override", "testdata"})

	boss, err := l.LoadCreature("goblin")
	require.NoError(t, err)
	assert.Equal(t, "Goblin Boss", boss.Name)

	strahd, err := l.LoadCreature("Strahd")
	require.NoError(t, err)
	assert.Equal(t, "Strahd von Zarovich", strahd.Name)

	_, err = l.LoadCreature("Aboleth")
	assert.ErrorIs(t, err, ErrCreatureNotFound)
}

func TestLoaderList(t *testing.T) {
	l := NewLoader([]string{"testdata/override", "testdata", "testdata/missing"})
	names, err := l.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"goblin", "strahd"}, names)
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile(filepath.Join("testdata", "creatures", "goblin.yaml"))
	require.NoError(t, err)

	assert.Equal(t, SizeSmall, c.Size)
	assert.Equal(t, "2d6", c.HitDice().String())
	assert.Equal(t, "1/4", c.ChallengeRating.String())
	require.Len(t, c.Features, 1)
	assert.Equal(t, "Nimble Escape.", c.Features[0].Name)
	require.Len(t, c.Actions, 2)
	assert.Len(t, c.Expect, 3)

	_, err = LoadFile(filepath.Join("testdata", "invalid.yaml"))
	assert.ErrorIs(t, err, ErrInvalidDataFormat)

	_, err = LoadFile(filepath.Join("testdata", "nope.yaml"))
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("name: Rat\nsize: tiny\nhit_dice_count: 1\nhitpoints: 3\n"))
	assert.ErrorIs(t, err, ErrInvalidDataFormat)
}

func TestDecodeValidates(t *testing.T) {
	_, err := Decode(strings.NewReader("name: Rat\nsize: tiny\nhit_dice_count: 1\n"))
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, err = Decode(strings.NewReader("size: tiny\n"))
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestEncodeRoundTrip(t *testing.T) {
	c, err := LoadFile(filepath.Join("testdata", "creatures", "strahd.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, c))
	assert.Contains(t, buf.String(), "size: medium\n")
	assert.Contains(t, buf.String(), "challenge_rating: \"15\"\n")

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestLoadFileIncludes(t *testing.T) {
	dir := filepath.Join("testdata", "includes")

	t.Run("Substitutes Parameters", func(t *testing.T) {
		c, err := LoadFile(filepath.Join(dir, "wolf.yaml"))
		require.NoError(t, err)

		assert.Empty(t, c.Include)
		assert.Equal(t, "beast", c.Type)
		assert.Equal(t, "unaligned", c.Alignment)
		assert.Equal(t, []string{"Perception +3", "Stealth +4"}, c.Skills)
		require.Len(t, c.Features, 2)
		assert.Equal(t, "Pack Tactics.", c.Features[0].Name)
		assert.Contains(t, c.Features[0].Text, "within 5 ft. of the creature")
		assert.Contains(t, c.Features[0].Text, "${posspro}")
		assert.Equal(t, "Keen Hearing and Smell.", c.Features[1].Name)
	})

	t.Run("Unknown Parameter", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "unknown-parameter.yaml"))
		require.ErrorIs(t, err, ErrInclude)
		assert.ErrorIs(t, err, engine.ErrUnknownVariable)

		var eerr *engine.Error
		require.True(t, errors.As(err, &eerr))
		assert.Equal(t, "fragments/pack-tactics.yaml", eerr.SourceName)
		assert.Equal(t, 3, eerr.Range.Start.Line)
	})

	t.Run("Broken Fragment", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "broken-fragment.yaml"))
		require.ErrorIs(t, err, ErrInclude)
		assert.ErrorIs(t, err, parser.ErrExpectedCloseParen)
		assert.Contains(t, err.Error(), "fragments/broken.yaml [2:")
	})

	t.Run("Cycle", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "loop.yaml"))
		assert.ErrorIs(t, err, ErrIncludeCycle)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := Decode(strings.NewReader("include:\n  - file: nowhere.yaml\nname: Rat\n"))
		assert.ErrorIs(t, err, ErrInclude)
	})
}
