package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, b []byte) string {
	t.Helper()
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	require.NotEmpty(t, last, "no log lines found")
	return last
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf})

	l := WithOperation(WithComponent("loader"), "load")
	l.Debug("creature loaded", slog.String("name", "goblin"), slog.Int("hp", 7), slog.Bool("cached", false))

	line := lastLine(t, buf.Bytes())
	assert.True(t, strings.HasPrefix(line, `level=DBG msg="creature loaded"`), line)
	assert.Contains(t, line, "app=bestiary")
	assert.Contains(t, line, "component=loader")
	assert.Contains(t, line, "op=load")
	assert.Contains(t, line, "name=goblin")
	assert.Contains(t, line, "hp=7")
	assert.Contains(t, line, "cached=false")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "error", Output: &buf})

	slog.Warn("ignored")
	assert.Empty(t, buf.String())

	slog.Error("kept")
	assert.Contains(t, buf.String(), "level=ERR msg=kept")
}

func TestGroups(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf})

	slog.Default().WithGroup("render").Info("done", slog.Int("features", 3))
	assert.Contains(t, lastLine(t, buf.Bytes()), "render.features=3")
}

func TestJSONToFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "bestiary.log")
	Init(Options{Level: "info", Format: "json", File: path, Output: &console})

	WithOperation(WithComponent("import"), "fetch").Info("page fetched", slog.Int("count", 50))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(lastLine(t, b)), &m))
	assert.Equal(t, "bestiary", m["app"])
	assert.Equal(t, "import", m["component"])
	assert.Equal(t, "fetch", m["op"])
	assert.Equal(t, "page fetched", m["msg"])
	assert.EqualValues(t, 50, m["count"])

	require.NoError(t, json.Unmarshal([]byte(lastLine(t, console.Bytes())), &m))
	assert.Equal(t, "page fetched", m["msg"])
	assert.Contains(t, m, "time")
}

func TestSourceAndTee(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "bestiary.log")
	Init(Options{Level: "warn", AddSource: true, File: path, Output: &console})

	WithComponent("render").WithGroup("feature").Info("ignored")
	WithComponent("render").WithGroup("feature").Warn("slow", slog.String("name", "Bite."))

	line := lastLine(t, console.Bytes())
	assert.NotContains(t, console.String(), "ignored")
	assert.Contains(t, line, "source=")
	assert.Contains(t, line, "logger_test.go")
	assert.Contains(t, line, "feature.name=Bite.")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(lastLine(t, b)), &m))
	assert.Equal(t, "slow", m["msg"])
	assert.Equal(t, map[string]any{"name": "Bite."}, m["feature"])
}

func TestFromEnv(t *testing.T) {
	t.Setenv("BESTIARY_LOG_LEVEL", "debug")
	t.Setenv("BESTIARY_LOG_FORMAT", "json")
	t.Setenv("BESTIARY_LOG_SOURCE", "TRUE")
	t.Setenv("BESTIARY_LOG_FILE", "/tmp/b.log")

	opts := FromEnv()
	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, "json", opts.Format)
	assert.True(t, opts.AddSource)
	assert.Equal(t, "/tmp/b.log", opts.File)
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("BESTIARY_LOG_SOURCE", "maybe")

	opts := FromEnv()
	assert.False(t, opts.AddSource)
	if _, ok := os.LookupEnv("BESTIARY_LOG_LEVEL"); !ok {
		assert.Equal(t, "warn", opts.Level)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelWarn, parseLevel(""))
	assert.Equal(t, slog.LevelWarn, parseLevel("verbose"))
}
