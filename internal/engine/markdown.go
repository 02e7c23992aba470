package engine

import (
	"strings"

	"github.com/suderio/bestiary/internal/parser"
	"github.com/suderio/bestiary/internal/text"
)

// Markdown converts the small markdown subset found in imported monster
// descriptions into blocks without interpolating anything. "**" toggles
// bold, "_" or "__" toggles italic, a newline starts a new paragraph and a
// newline followed by '•' starts a sub-paragraph. heading becomes the
// heading of the first block, which is a sub-paragraph when sub is set.
func Markdown(heading, src string, sub bool, opts ...Option) ([]text.Block, error) {
	o := newOptions(src, parser.ModeStatBlock, opts)
	prog := markdownProgram(heading, src, sub)
	blocks, err := execute(prog, NoResolver{})
	if err != nil {
		return nil, wrap(err, o)
	}
	return blocks, nil
}

func markdownProgram(heading, src string, sub bool) *parser.Program {
	prog := &parser.Program{}
	at := parser.Position{Line: 1, Column: 1}
	from := at
	emit := func(op parser.OpCode) *parser.Instruction {
		prog.Code = append(prog.Code, parser.Instruction{Op: op, Range: parser.Range{Start: from, End: at}})
		return &prog.Code[len(prog.Code)-1]
	}

	var cur strings.Builder
	flush := func() {
		emit(parser.OpPushString).Str = cur.String()
		emit(parser.OpAppend)
		cur.Reset()
		from = at
	}

	if sub {
		emit(parser.OpStartListItem)
	} else {
		emit(parser.OpStartParagraph)
	}
	emit(parser.OpPushString).Str = heading
	emit(parser.OpAppend)
	emit(parser.OpEndHeading)

	var bold, italic bool
	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case r == '\n':
			flush()
			at.Line++
			at.Column = 1
			op := parser.OpStartParagraph
			if next == '•' {
				op = parser.OpStartListItem
				i++
			}
			emit(op)
			emit(parser.OpEndHeading)
			bold, italic = false, false
			continue
		case r == '*' && next == '*':
			flush()
			i++
			if bold {
				emit(parser.OpEndBold)
			} else {
				emit(parser.OpStartBold)
			}
			bold = !bold
		case r == '_':
			flush()
			if next == '_' {
				i++
			}
			if italic {
				emit(parser.OpEndItalic)
			} else {
				emit(parser.OpStartItalic)
			}
			italic = !italic
		default:
			cur.WriteRune(r)
		}
		at.Column++
	}
	flush()
	return prog
}
