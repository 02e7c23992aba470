package parser

import (
	"errors"
	"fmt"
)

// Lexical errors.
var (
	ErrInvalidEscape       = errors.New("invalid escape in text or string")
	ErrInvalidNumber       = errors.New("invalid number")
	ErrInvalidDice         = errors.New("invalid dice")
	ErrUnterminatedString  = errors.New("unterminated string")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrSlashIsNotValid     = errors.New("slash is not a valid token, must be followed by '>' or '<'")
)

// Structural errors.
var (
	ErrExpectedIdentifier = errors.New("expected identifier")
	ErrExpectedExpression = errors.New("expected expression")
	ErrExpectedCloseParen = errors.New("expected ')'")
)

// Error locates a lexical or structural error in the source. Found holds
// the offending token or character when there is one.
type Error struct {
	Err   error
	Found string
	Range Range
}

func (e *Error) Error() string {
	if e.Found != "" {
		return fmt.Sprintf("%v, found %s", e.Err, e.Found)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

const endOfInput = "end of input"
