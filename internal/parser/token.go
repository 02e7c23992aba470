package parser

import (
	"fmt"
	"strconv"

	"github.com/suderio/bestiary/internal/dice"
)

// Mode selects the delimiters that open and close an interpolation.
type Mode int

const (
	// ModeInclusion uses "$<" ... ">" and knows no structural keywords.
	ModeInclusion Mode = iota
	// ModeStatBlock uses "${" ... "}" and recognizes par, sub, italic and bold.
	ModeStatBlock
)

func (m Mode) open() rune {
	if m == ModeStatBlock {
		return '{'
	}
	return '<'
}

func (m Mode) close() rune {
	if m == ModeStatBlock {
		return '}'
	}
	return '>'
}

func (m Mode) String() string {
	if m == ModeStatBlock {
		return "statblock"
	}
	return "inclusion"
}

// ParseMode accepts the names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "inclusion":
		return ModeInclusion, nil
	case "statblock", "stat-block":
		return ModeStatBlock, nil
	}
	return 0, fmt.Errorf("unknown interpolation mode %q", s)
}

type TokenType int

const (
	TokenText TokenType = iota
	TokenIdent
	TokenNumber
	TokenString
	TokenDice
	TokenKeyword
	TokenPlus
	TokenMinus
	TokenAsterisk
	TokenFloorDiv
	TokenCeilDiv
	TokenLParen
	TokenRParen
	TokenDot
	TokenDollar
)

type Keyword int

const (
	KeywordPar Keyword = iota
	KeywordSub
	KeywordItalic
	KeywordBold
)

var keywords = map[string]Keyword{
	"par":    KeywordPar,
	"sub":    KeywordSub,
	"italic": KeywordItalic,
	"bold":   KeywordBold,
}

func (k Keyword) String() string {
	for name, kw := range keywords {
		if kw == k {
			return name
		}
	}
	return fmt.Sprintf("Keyword(%d)", int(k))
}

// Token is a lexeme with its source range. Only the field matching Type is set.
type Token struct {
	Type    TokenType
	Text    string
	Number  int
	Dice    dice.Dice
	Keyword Keyword
	Range   Range
}

// String renders the token the way it appears in "found X" messages.
func (t Token) String() string {
	switch t.Type {
	case TokenText:
		return fmt.Sprintf("text %q", t.Text)
	case TokenIdent:
		return "identifier '" + t.Text + "'"
	case TokenNumber:
		return "number " + strconv.Itoa(t.Number)
	case TokenString:
		return fmt.Sprintf("string %q", t.Text)
	case TokenDice:
		return "dice " + t.Dice.String()
	case TokenKeyword:
		return "keyword '" + t.Keyword.String() + "'"
	case TokenPlus:
		return "'+'"
	case TokenMinus:
		return "'-'"
	case TokenAsterisk:
		return "'*'"
	case TokenFloorDiv:
		return "'/<'"
	case TokenCeilDiv:
		return "'/>'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenDot:
		return "'.'"
	case TokenDollar:
		return "'$'"
	}
	return fmt.Sprintf("Token(%d)", int(t.Type))
}
