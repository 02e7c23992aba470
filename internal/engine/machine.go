package engine

import (
	"fmt"
	"strings"

	"github.com/suderio/bestiary/internal/parser"
	"github.com/suderio/bestiary/internal/text"
)

// machine executes a Program. It owns its stack and buffers, so separate
// machines can run concurrently over the same read-only Resolver.
type machine struct {
	resolver Resolver
	stack    []Value

	buf     strings.Builder
	spans   []text.Span
	heading []text.Span
	italic  bool
	bold    bool
	list    bool
	blocks  []text.Block
}

func execute(prog *parser.Program, r Resolver) ([]text.Block, error) {
	if r == nil {
		r = NoResolver{}
	}
	m := &machine{resolver: r}
	for _, ins := range prog.Code {
		if err := m.step(ins); err != nil {
			return nil, &evalError{err: err, r: ins.Range}
		}
	}
	m.endSpan()
	m.endBlock()
	return m.blocks, nil
}

func (m *machine) step(ins parser.Instruction) error {
	switch ins.Op {
	case parser.OpPushString:
		m.push(String(ins.Str))
	case parser.OpPushNumber:
		m.push(Number(ins.Num))
	case parser.OpPushDice:
		m.push(Dice(ins.Dice))
	case parser.OpGetVariable:
		v, ok := m.resolver.Property(ins.Str)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownVariable, ins.Str)
		}
		m.push(v)
	case parser.OpGetProperty:
		return m.unary(ins.Op, func(v Value) (Value, error) {
			p, err := v.Property(ins.Str)
			if err != nil {
				return Value{}, fmt.Errorf("%w %q", err, ins.Str)
			}
			return p, nil
		})
	case parser.OpGetIndex:
		return m.unary(ins.Op, func(v Value) (Value, error) {
			p, err := v.Index(ins.Num)
			if err != nil {
				return Value{}, fmt.Errorf("%w %d", err, ins.Num)
			}
			return p, nil
		})
	case parser.OpNegate:
		return m.unary(ins.Op, Value.Negate)
	case parser.OpStringify:
		return m.unary(ins.Op, Value.Stringify)
	case parser.OpSign:
		return m.unary(ins.Op, Value.Sign)
	case parser.OpMultiply:
		return m.binary(ins.Op, Value.Multiply)
	case parser.OpFloorDivide:
		return m.binary(ins.Op, Value.FloorDivide)
	case parser.OpCeilingDivide:
		return m.binary(ins.Op, Value.CeilingDivide)
	case parser.OpAdd:
		return m.binary(ins.Op, Value.Add)
	case parser.OpSubtract:
		return m.binary(ins.Op, Value.Subtract)
	case parser.OpAppend:
		v, err := m.pop(ins.Op)
		if err != nil {
			return err
		}
		m.buf.WriteString(v.Display())
	case parser.OpStartItalic:
		if m.italic {
			return ErrTextIsAlreadyItalic
		}
		m.endSpan()
		m.italic = true
	case parser.OpEndItalic:
		if !m.italic {
			return ErrTextIsNotItalic
		}
		m.endSpan()
		m.italic = false
	case parser.OpStartBold:
		if m.bold {
			return ErrTextIsAlreadyBold
		}
		m.endSpan()
		m.bold = true
	case parser.OpEndBold:
		if !m.bold {
			return ErrTextIsNotBold
		}
		m.endSpan()
		m.bold = false
	case parser.OpStartParagraph, parser.OpStartListItem:
		m.endSpan()
		m.endBlock()
		m.italic, m.bold = false, false
		m.list = ins.Op == parser.OpStartListItem
	case parser.OpEndHeading:
		m.endSpan()
		if len(m.spans) > 0 {
			m.heading = m.spans
			m.spans = nil
		}
		m.italic, m.bold = false, false
	default:
		return fmt.Errorf("%w %s", ErrUnknownOperation, ins.Op)
	}
	return nil
}

func (m *machine) push(v Value) {
	m.stack = append(m.stack, v)
}

func (m *machine) pop(op parser.OpCode) (Value, error) {
	if len(m.stack) == 0 {
		return Value{}, fmt.Errorf("%w at operation %s", ErrEmptyStack, op)
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *machine) unary(op parser.OpCode, fn func(Value) (Value, error)) error {
	v, err := m.pop(op)
	if err != nil {
		return err
	}
	out, err := fn(v)
	if err != nil {
		return err
	}
	m.push(out)
	return nil
}

// binary pops the right operand, then the left.
func (m *machine) binary(op parser.OpCode, fn func(Value, Value) (Value, error)) error {
	rhs, err := m.pop(op)
	if err != nil {
		return err
	}
	lhs, err := m.pop(op)
	if err != nil {
		return err
	}
	out, err := fn(lhs, rhs)
	if err != nil {
		return err
	}
	m.push(out)
	return nil
}

func (m *machine) endSpan() {
	if m.buf.Len() == 0 {
		return
	}
	m.spans = append(m.spans, text.Span{Style: text.StyleOf(m.italic, m.bold), Content: m.buf.String()})
	m.buf.Reset()
}

// endBlock emits the pending block unless it has neither heading nor body.
func (m *machine) endBlock() {
	if m.heading == nil && len(m.spans) == 0 {
		return
	}
	kind := text.Paragraph
	if m.list {
		kind = text.SubParagraph
	}
	m.blocks = append(m.blocks, text.Block{Kind: kind, Heading: m.heading, Body: m.spans})
	m.heading, m.spans = nil, nil
}
