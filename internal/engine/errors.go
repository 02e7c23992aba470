package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suderio/bestiary/internal/parser"
)

// Evaluation errors.
var (
	ErrCantNegateString          = errors.New("strings can't be negated")
	ErrCantNegateObject          = errors.New("objects can't be negated")
	ErrAlreadyStringified        = errors.New("string is already stringified")
	ErrCantStringifyObject       = errors.New("objects can't be stringified")
	ErrCantSignString            = errors.New("strings can't be signed")
	ErrCantSignObject            = errors.New("objects can't be signed")
	ErrCantMultiplyDice          = errors.New("terms can't be multiplied by a dice expression")
	ErrCantMultiplyStrings       = errors.New("strings can't be multiplied")
	ErrCantMultiplyObjects       = errors.New("objects can't be multiplied")
	ErrCantDivideStrings         = errors.New("strings can't be divided")
	ErrCantDivideByDice          = errors.New("terms can't be divided by a dice expression")
	ErrCantDivideObjects         = errors.New("objects can't be divided")
	ErrDivisionByZero            = errors.New("division by zero")
	ErrCantConcatenateNonStrings = errors.New("non-strings can't be concatenated")
	ErrCantAddObjects            = errors.New("objects can't be added")
	ErrCantSubtractStrings       = errors.New("strings can't be subtracted")
	ErrCantSubtractObjects       = errors.New("objects can't be subtracted")
	ErrUnknownVariable           = errors.New("unknown variable")
	ErrUnknownProperty           = errors.New("unknown property")
	ErrInvalidIndex              = errors.New("invalid index")
	ErrTextIsAlreadyBold         = errors.New("text is already bold")
	ErrTextIsAlreadyItalic       = errors.New("text is already italic")
	ErrTextIsNotBold             = errors.New("text is not bold")
	ErrTextIsNotItalic           = errors.New("text is not italic")
	ErrUnexpectedStructuredText  = errors.New("unexpected structured text in plain text")
)

// Internal errors. Seeing one of these means the program was not built by
// the parser or the evaluator has a defect.
var (
	ErrEmptyStack       = errors.New("internal error: stack is empty")
	ErrUnknownOperation = errors.New("internal error: unknown operation")
)

// Error is returned by every entry point. It wraps the lexical, structural
// or evaluation error with the source name and range it occurred at.
type Error struct {
	Err        error
	SourceName string
	Range      parser.Range
	// FullText is the interpolated source, set when WithFullText is used.
	FullText string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		b.WriteString(e.SourceName)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "[%s] %v", e.Range, e.Err)
	if e.FullText != "" {
		b.WriteString("\n")
		b.WriteString(snippet(e.FullText, e.Range.Start))
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(err error, o options) error {
	if err == nil {
		return nil
	}
	out := &Error{Err: err, SourceName: o.sourceName}
	var perr *parser.Error
	if errors.As(err, &perr) {
		out.Range = perr.Range
	}
	var eerr *evalError
	if errors.As(err, &eerr) {
		out.Err = eerr.err
		out.Range = eerr.r
	}
	if o.fullText {
		out.FullText = o.src
	}
	return out
}

type evalError struct {
	err error
	r   parser.Range
}

func (e *evalError) Error() string { return e.err.Error() }
func (e *evalError) Unwrap() error { return e.err }

// snippet prints the line holding pos with its neighbours and a caret
// under the column.
func snippet(src string, pos parser.Position) string {
	lines := strings.Split(strings.ReplaceAll(src, "\r", ""), "\n")
	line, col := pos.Line, pos.Column
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "\n%4d | %s", line+1, lines[line])
	}
	return b.String()
}
