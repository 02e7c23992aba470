package parser

import (
	"fmt"

	"github.com/suderio/bestiary/internal/dice"
)

// OpCode identifies one evaluator operation.
type OpCode int

const (
	OpPushString OpCode = iota
	OpPushNumber
	OpPushDice
	OpGetVariable
	OpGetProperty
	OpGetIndex
	OpNegate
	OpStringify
	OpSign
	OpMultiply
	OpFloorDivide
	OpCeilingDivide
	OpAdd
	OpSubtract
	OpAppend
	OpStartItalic
	OpEndItalic
	OpStartBold
	OpEndBold
	OpStartParagraph
	OpStartListItem
	OpEndHeading
)

var opNames = [...]string{
	OpPushString:     "PushString",
	OpPushNumber:     "PushNumber",
	OpPushDice:       "PushDice",
	OpGetVariable:    "GetVariable",
	OpGetProperty:    "GetProperty",
	OpGetIndex:       "GetIndex",
	OpNegate:         "Negate",
	OpStringify:      "Stringify",
	OpSign:           "Sign",
	OpMultiply:       "Multiply",
	OpFloorDivide:    "FloorDivide",
	OpCeilingDivide:  "CeilingDivide",
	OpAdd:            "Add",
	OpSubtract:       "Subtract",
	OpAppend:         "Append",
	OpStartItalic:    "StartItalic",
	OpEndItalic:      "EndItalic",
	OpStartBold:      "StartBold",
	OpEndBold:        "EndBold",
	OpStartParagraph: "StartParagraph",
	OpStartListItem:  "StartListItem",
	OpEndHeading:     "EndHeading",
}

func (o OpCode) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("OpCode(%d)", int(o))
}

// Instruction is one step of a Program. Str carries string literals and
// variable or property names, Num carries number literals and indexes.
type Instruction struct {
	Op    OpCode
	Str   string
	Num   int
	Dice  dice.Expression
	Range Range
}

func (i Instruction) String() string {
	switch i.Op {
	case OpPushString, OpGetVariable, OpGetProperty:
		return fmt.Sprintf("%s %q", i.Op, i.Str)
	case OpPushNumber, OpGetIndex:
		return fmt.Sprintf("%s %d", i.Op, i.Num)
	case OpPushDice:
		return fmt.Sprintf("%s %s", i.Op, i.Dice)
	}
	return i.Op.String()
}

// Program is the flat instruction tape handed from the parser to the
// evaluator. It holds no back references and runs in a single pass.
type Program struct {
	Code []Instruction
}

func (p *Program) emit(op OpCode, r Range) *Instruction {
	p.Code = append(p.Code, Instruction{Op: op, Range: r})
	return &p.Code[len(p.Code)-1]
}

// Ops lists the opcodes in order.
func (p *Program) Ops() []OpCode {
	ops := make([]OpCode, len(p.Code))
	for i, ins := range p.Code {
		ops[i] = ins.Op
	}
	return ops
}
