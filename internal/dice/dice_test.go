package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDieParse(t *testing.T) {
	for _, in := range []string{"d8", "D8", "8"} {
		d, err := ParseDie(in)
		require.NoError(t, err, in)
		assert.Equal(t, D8, d)
	}

	_, err := ParseDie("dx")
	assert.ErrorIs(t, err, ErrExpectedFaces)

	_, err = ParseDie("d0")
	assert.ErrorIs(t, err, ErrExpectedFaces)
}

func TestDieAverage(t *testing.T) {
	assert.Equal(t, 3.5, D6.Average())
	assert.Equal(t, 10.5, D20.Average())
	assert.True(t, D12.IsStandard())
	assert.False(t, NewDie(3).IsStandard())
	assert.Equal(t, "d100", NewDie(100).String())
}

func TestDiceParse(t *testing.T) {
	t.Run("count and faces", func(t *testing.T) {
		d, err := Parse("2d6")
		require.NoError(t, err)
		assert.Equal(t, 2, d.Count)
		assert.Equal(t, 6, d.Die.Faces())
		assert.Equal(t, "2d6", d.String())
	})

	t.Run("count defaults to one", func(t *testing.T) {
		d, err := Parse("d10")
		require.NoError(t, err)
		assert.Equal(t, New(1, D10), d)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Parse("26")
		assert.ErrorIs(t, err, ErrExpectedD)
		_, err = Parse("xd6")
		assert.ErrorIs(t, err, ErrExpectedCount)
		_, err = Parse("2d")
		assert.ErrorIs(t, err, ErrExpectedFaces)
	})
}

func TestDiceAverageFloors(t *testing.T) {
	assert.Equal(t, 4, New(1, D8).Average())
	assert.Equal(t, 7, New(2, D6).Average())
	assert.Equal(t, 10, New(3, D6).Average())
	assert.Equal(t, 0, New(0, D6).Average())
}

func TestDiceYAML(t *testing.T) {
	type doc struct {
		HitDice Dice `yaml:"hit_dice"`
		HitDie  Die  `yaml:"hit_die"`
	}

	var d doc
	require.NoError(t, yaml.Unmarshal([]byte("hit_dice: 3d8\nhit_die: d10\n"), &d))
	assert.Equal(t, New(3, D8), d.HitDice)
	assert.Equal(t, D10, d.HitDie)

	out, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "hit_dice: 3d8\nhit_die: d10\n", string(out))
}
