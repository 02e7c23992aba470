package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// terminal returns the file descriptor behind w when w is a terminal.
func terminal(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// terminalWidth returns the column count of w, or def when w is not a
// terminal.
func terminalWidth(w io.Writer, def int) int {
	fd, ok := terminal(w)
	if !ok {
		return def
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return def
	}
	return width
}

type labels struct {
	ok   *color.Color
	fail *color.Color
}

// newLabels resolves a --color setting against w.
func newLabels(mode string, w io.Writer) (*labels, error) {
	var enabled bool
	switch mode {
	case "always":
		enabled = true
	case "never":
		enabled = false
	case "", "auto":
		_, tty := terminal(w)
		enabled = tty && os.Getenv("NO_COLOR") == ""
	default:
		return nil, fmt.Errorf("invalid --color %q, expected auto, always or never", mode)
	}

	l := &labels{
		ok:   color.New(color.FgHiGreen),
		fail: color.New(color.Bold, color.FgHiRed),
	}
	if enabled {
		l.ok.EnableColor()
		l.fail.EnableColor()
	} else {
		l.ok.DisableColor()
		l.fail.DisableColor()
	}
	return l, nil
}
