package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/bestiary/internal/config"
	"github.com/suderio/bestiary/internal/data"
	"github.com/suderio/bestiary/internal/engine"
	"github.com/suderio/bestiary/internal/open5e"
	"github.com/suderio/bestiary/internal/rules"
	"github.com/suderio/bestiary/internal/text"
)

const testdata = "../internal/data/testdata"

// execute runs a fresh root command isolated from the user's config and
// environment.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"BESTIARY_LOG_LEVEL", "BESTIARY_LOG_FILE", "BESTIARY_DATA_DIRS", "BESTIARY_OUTPUT_FORMAT", "BESTIARY_SHOW_TEXT"} {
		if _, ok := os.LookupEnv(key); !ok {
			t.Setenv(key, "")
		}
	}

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bestiary version dev")
	assert.Contains(t, out, "OS/Arch:")
}

func TestDice(t *testing.T) {
	out, err := execute(t, "dice", "2d6 + 1d6 + 3", "(1d8 × 2) - 1")
	require.NoError(t, err)
	assert.Equal(t, "13 (3d6 + 3)\n7 ((1d8 × 2) - 1)\n", out)

	_, err = execute(t, "dice", "2d")
	assert.ErrorContains(t, err, `"2d"`)
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"inclusion", []string{"--var", "name=Bob", "Hello, $<name>!"}, "Hello, Bob!\n"},
		{"creature", []string{"--mode", "statblock", "-c", "goblin", "${+atk + prof} to hit"}, "+4 to hit\n"},
		{"overlay", []string{"--var", "atk=huge", "-c", "goblin", "$<atk> or $<creature.atk>"}, "huge or 2\n"},
		{"dice", []string{"--mode", "statblock", "${2d6 + 1d6}"}, "10 (3d6)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"interpolate", "--data-dir", testdata}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestInterpolateJSON(t *testing.T) {
	out, err := execute(t, "interpolate", "--mode", "statblock", "--json", "${bold(}Hi${)} there")
	require.NoError(t, err)
	assert.NoError(t, text.Validate([]byte(out)))

	var blocks []text.Block
	require.NoError(t, json.Unmarshal([]byte(out), &blocks))
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0].Body, text.Span{Style: text.Bold, Content: "Hi"})
}

func TestInterpolateErrors(t *testing.T) {
	_, err := execute(t, "interpolate", "$<foo>")
	assert.ErrorIs(t, err, engine.ErrUnknownVariable)
	assert.NotContains(t, err.Error(), "^")

	_, err = execute(t, "interpolate", "--show-text", "$<foo>")
	assert.ErrorIs(t, err, engine.ErrUnknownVariable)
	assert.Contains(t, err.Error(), "^")

	_, err = execute(t, "interpolate", "--var", "novalue", "x")
	assert.ErrorContains(t, err, "invalid --var")

	_, err = execute(t, "interpolate", "--mode", "html", "x")
	assert.ErrorContains(t, err, "invalid --mode")
}

func TestRender(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		out, err := execute(t, "render", "--data-dir", testdata, "goblin")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Goblin\nSmall humanoid (goblinoid), neutral evil\n"))
		assert.Contains(t, out, "Scimitar. Melee Weapon Attack: +4 to hit")
	})

	t.Run("JSON", func(t *testing.T) {
		out, err := execute(t, "render", "--format", "json", filepath.Join(testdata, "creatures", "goblin.yaml"))
		require.NoError(t, err)
		var sb map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &sb))
		assert.Equal(t, "Goblin", sb["name"])
		assert.Equal(t, "1/4 (50 XP)", sb["challenge_rating"])
	})

	t.Run("JSON Several", func(t *testing.T) {
		out, err := execute(t, "render", "--data-dir", testdata, "-f", "json", "goblin", "strahd")
		require.NoError(t, err)
		var sbs []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &sbs))
		assert.Len(t, sbs, 2)
	})

	t.Run("Terminal From Env", func(t *testing.T) {
		t.Setenv("BESTIARY_OUTPUT_FORMAT", "terminal")
		out, err := execute(t, "render", "--data-dir", testdata, "goblin")
		require.NoError(t, err)
		assert.Contains(t, out, "Armor Class")
	})

	t.Run("Invalid Format", func(t *testing.T) {
		_, err := execute(t, "render", "--data-dir", testdata, "--format", "html", "goblin")
		assert.ErrorIs(t, err, config.ErrInvalidFormat)
	})

	t.Run("Unknown Creature", func(t *testing.T) {
		_, err := execute(t, "render", "--data-dir", testdata, "tarrasque")
		assert.ErrorIs(t, err, data.ErrCreatureNotFound)
	})
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bestiary.yaml")
	abs, err := filepath.Abs(testdata)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("output_format: json\ndata_dirs: ["+abs+"]\n"), 0644))

	out, err := execute(t, "render", "--config", path, "goblin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"))

	_, err = execute(t, "render", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "goblin")
	assert.ErrorContains(t, err, "read config")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	goblin := filepath.Join(testdata, "creatures", "goblin.yaml")

	src, err := os.ReadFile(goblin)
	require.NoError(t, err)
	wrong := filepath.Join(dir, "wrong.yaml")
	require.NoError(t, os.WriteFile(wrong, append(src, []byte("  - creature.hit_points == 8\n")...), 0644))

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`[{"block": "paragraph", "body": []}]`), 0644))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"block": "chapter"}]`), 0644))

	out, err := execute(t, "validate", goblin, good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+goblin)
	assert.Contains(t, out, "ok   "+good)

	out, err = execute(t, "validate", goblin, wrong, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, rules.ErrExpectationFailed)
	assert.ErrorIs(t, err, text.ErrInvalidDocument)
	assert.Contains(t, err.Error(), "2 of 3 files")
	assert.Contains(t, out, "FAIL "+wrong)
	assert.Contains(t, out, "creature.hit_points == 8: expectation is false")

	out, err = execute(t, "validate", "--color", "always", goblin)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, goblin)

	_, err = execute(t, "validate", "--color", "rainbow", goblin)
	assert.ErrorContains(t, err, "invalid --color")
}

func TestList(t *testing.T) {
	out, err := execute(t, "list", "--data-dir", testdata)
	require.NoError(t, err)
	assert.Equal(t, "goblin\nstrahd\n", out)
}

func TestImport(t *testing.T) {
	page := open5e.Page{
		Count: 2,
		Results: []open5e.Monster{
			{
				Name: "Goblin", Size: "Small", Type: "humanoid", Alignment: "neutral evil",
				ArmorClass: 15, HitPoints: 7, HitDice: "2d6",
				Strength: 8, Dexterity: 14, Constitution: 10, Intelligence: 10, Wisdom: 8, Charisma: 8,
				ChallengeRating: "1/4",
				Actions:         open5e.Actions{{Name: "Scimitar", Desc: "_Hit:_ 5 (1d6 + 2) slashing damage."}},
			},
			{Name: "Broken", Size: "Small", HitDice: "", ChallengeRating: "1"},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()
	t.Setenv("BESTIARY_OPEN5E_URL", srv.URL)

	dir := t.TempDir()
	out, err := execute(t, "import", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 monsters to "+dir+" (0 skipped, 1 failed)")

	c, err := data.LoadFile(filepath.Join(dir, "creatures", "goblin.yaml"))
	require.NoError(t, err)
	require.Len(t, c.Actions, 1)
	assert.Equal(t, "${italic(}Hit:${)} 5 (1d6 + 2) slashing damage.", c.Actions[0].Text)

	out, err = execute(t, "import", "--out", dir, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 monsters to "+dir+" (1 skipped, 0 failed)")
}
