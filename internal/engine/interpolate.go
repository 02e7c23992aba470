// Package engine evaluates interpolation programs against a Resolver,
// producing plain text for inclusions and structured text for stat-block
// descriptions.
package engine

import (
	"github.com/suderio/bestiary/internal/parser"
	"github.com/suderio/bestiary/internal/text"
)

type options struct {
	sourceName string
	fullText   bool
	mode       parser.Mode
	src        string
}

// Option configures an interpolation call.
type Option func(*options)

// WithSourceName names the source in error messages, e.g. a file or feature name.
func WithSourceName(name string) Option {
	return func(o *options) { o.sourceName = name }
}

// WithFullText attaches the source text and a caret snippet to errors.
func WithFullText() Option {
	return func(o *options) { o.fullText = true }
}

// WithMode overrides the delimiter mode of the entry point.
func WithMode(m parser.Mode) Option {
	return func(o *options) { o.mode = m }
}

func newOptions(src string, mode parser.Mode, opts []Option) options {
	o := options{mode: mode, src: src}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Compile parses src into a program without running it.
func Compile(src string, mode parser.Mode, opts ...Option) (*parser.Program, error) {
	o := newOptions(src, mode, opts)
	prog, err := parser.Parse(src, o.mode)
	if err != nil {
		return nil, wrap(err, o)
	}
	return prog, nil
}

// Run executes a compiled program. Errors carry the source name but never
// the source text, which a Program does not keep.
func Run(prog *parser.Program, r Resolver, opts ...Option) ([]text.Block, error) {
	o := newOptions("", parser.ModeStatBlock, opts)
	blocks, err := execute(prog, r)
	if err != nil {
		return nil, wrap(err, o)
	}
	return blocks, nil
}

// StatBlock interpolates "${...}" text into structured blocks.
func StatBlock(src string, r Resolver, opts ...Option) ([]text.Block, error) {
	o := newOptions(src, parser.ModeStatBlock, opts)
	return interpolate(o, r)
}

// Inclusion interpolates "$<...>" text into a plain string. Structural
// commands, and any result other than a single paragraph holding one normal
// span, fail with ErrUnexpectedStructuredText. So does empty output.
func Inclusion(src string, r Resolver, opts ...Option) (string, error) {
	o := newOptions(src, parser.ModeInclusion, opts)
	prog, err := parser.Parse(o.src, o.mode)
	if err != nil {
		return "", wrap(err, o)
	}
	for _, ins := range prog.Code {
		if structural(ins.Op) {
			return "", wrap(&evalError{err: ErrUnexpectedStructuredText, r: ins.Range}, o)
		}
	}
	blocks, err := execute(prog, r)
	if err != nil {
		return "", wrap(err, o)
	}
	if len(blocks) == 1 {
		b := blocks[0]
		if b.Kind == text.Paragraph && b.Heading == nil && len(b.Body) == 1 && b.Body[0].Style == text.Normal {
			return b.Body[0].Content, nil
		}
	}
	return "", wrap(ErrUnexpectedStructuredText, o)
}

func structural(op parser.OpCode) bool {
	switch op {
	case parser.OpStartItalic, parser.OpEndItalic, parser.OpStartBold, parser.OpEndBold,
		parser.OpStartParagraph, parser.OpStartListItem, parser.OpEndHeading:
		return true
	}
	return false
}

func interpolate(o options, r Resolver) ([]text.Block, error) {
	prog, err := parser.Parse(o.src, o.mode)
	if err != nil {
		return nil, wrap(err, o)
	}
	blocks, err := execute(prog, r)
	if err != nil {
		return nil, wrap(err, o)
	}
	return blocks, nil
}
