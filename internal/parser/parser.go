package parser

import (
	"github.com/suderio/bestiary/internal/dice"
)

// Parser is a recursive-descent parser that compiles interpolation source
// into a Program. Precedence from loosest to tightest: additive,
// multiplicative, unary prefix (- $ +), primary.
type Parser struct {
	lex  *Lexer
	tok  Token
	more bool
	last Range
	prog Program
}

// Parse compiles src in the given mode.
func Parse(src string, mode Mode) (*Program, error) {
	p := &Parser{lex: NewLexer(src, mode)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.document(); err != nil {
		return nil, err
	}
	return &p.prog, nil
}

func (p *Parser) advance() error {
	if p.more {
		p.last = p.tok.Range
	}
	tok, more, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok, p.more = tok, more
	return nil
}

func (p *Parser) at(t TokenType) bool {
	return p.more && p.tok.Type == t
}

func (p *Parser) document() error {
	for p.more {
		if err := p.item(); err != nil {
			return err
		}
	}
	return nil
}

// item parses a structural command or an expression followed by its append.
func (p *Parser) item() error {
	if p.at(TokenKeyword) {
		return p.command()
	}
	if err := p.expression(); err != nil {
		return err
	}
	p.prog.emit(OpAppend, p.last)
	return nil
}

func (p *Parser) command() error {
	kw, r := p.tok.Keyword, p.tok.Range
	var start, end OpCode
	switch kw {
	case KeywordBold:
		start, end = OpStartBold, OpEndBold
	case KeywordItalic:
		start, end = OpStartItalic, OpEndItalic
	case KeywordSub:
		start, end = OpStartListItem, OpEndHeading
	default:
		start, end = OpStartParagraph, OpEndHeading
	}
	p.prog.emit(start, r)
	if err := p.advance(); err != nil {
		return err
	}

	closeRange := r
	if p.at(TokenLParen) {
		if err := p.advance(); err != nil {
			return err
		}
		for !p.at(TokenRParen) {
			if !p.more {
				return p.expected(ErrExpectedCloseParen)
			}
			if err := p.item(); err != nil {
				return err
			}
		}
		closeRange = p.tok.Range
		if err := p.advance(); err != nil {
			return err
		}
	}
	p.prog.emit(end, closeRange)
	return nil
}

func (p *Parser) expression() error {
	if p.at(TokenText) {
		p.prog.emit(OpPushString, p.tok.Range).Str = p.tok.Text
		return p.advance()
	}
	return p.additive()
}

func (p *Parser) additive() error {
	if err := p.multiplicative(); err != nil {
		return err
	}
	for p.at(TokenPlus) || p.at(TokenMinus) {
		op, r := OpAdd, p.tok.Range
		if p.tok.Type == TokenMinus {
			op = OpSubtract
		}
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.multiplicative(); err != nil {
			return err
		}
		p.prog.emit(op, r)
	}
	return nil
}

func (p *Parser) multiplicative() error {
	if err := p.unary(); err != nil {
		return err
	}
	for p.at(TokenAsterisk) || p.at(TokenFloorDiv) || p.at(TokenCeilDiv) {
		op, r := OpMultiply, p.tok.Range
		switch p.tok.Type {
		case TokenFloorDiv:
			op = OpFloorDivide
		case TokenCeilDiv:
			op = OpCeilingDivide
		}
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.unary(); err != nil {
			return err
		}
		p.prog.emit(op, r)
	}
	return nil
}

// unary collects prefix operators and emits them after the operand in
// reverse, so the operator nearest the operand runs first.
func (p *Parser) unary() error {
	type prefix struct {
		op OpCode
		r  Range
	}
	var prefixes []prefix
	for {
		var op OpCode
		switch {
		case p.at(TokenMinus):
			op = OpNegate
		case p.at(TokenDollar):
			op = OpStringify
		case p.at(TokenPlus):
			op = OpSign
		default:
			if err := p.primary(); err != nil {
				return err
			}
			for i := len(prefixes) - 1; i >= 0; i-- {
				p.prog.emit(prefixes[i].op, prefixes[i].r)
			}
			return nil
		}
		prefixes = append(prefixes, prefix{op, p.tok.Range})
		if err := p.advance(); err != nil {
			return err
		}
	}
}

func (p *Parser) primary() error {
	if !p.more {
		return p.expected(ErrExpectedExpression)
	}
	tok := p.tok
	switch tok.Type {
	case TokenString:
		p.prog.emit(OpPushString, tok.Range).Str = tok.Text
		return p.advance()
	case TokenNumber:
		p.prog.emit(OpPushNumber, tok.Range).Num = tok.Number
		return p.advance()
	case TokenDice:
		p.prog.emit(OpPushDice, tok.Range).Dice = dice.FromDice(tok.Dice, 0)
		return p.advance()
	case TokenLParen:
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.additive(); err != nil {
			return err
		}
		if !p.at(TokenRParen) {
			return p.expected(ErrExpectedCloseParen)
		}
		return p.advance()
	case TokenIdent:
		return p.variable()
	}
	return p.expected(ErrExpectedExpression)
}

func (p *Parser) variable() error {
	p.prog.emit(OpGetVariable, p.tok.Range).Str = p.tok.Text
	if err := p.advance(); err != nil {
		return err
	}
	for p.at(TokenDot) {
		if err := p.advance(); err != nil {
			return err
		}
		switch {
		case p.at(TokenIdent):
			p.prog.emit(OpGetProperty, p.tok.Range).Str = p.tok.Text
		case p.at(TokenNumber):
			p.prog.emit(OpGetIndex, p.tok.Range).Num = p.tok.Number
		default:
			return p.expected(ErrExpectedIdentifier)
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) expected(err error) error {
	if !p.more {
		end := p.lex.Position()
		return &Error{Err: err, Found: endOfInput, Range: Range{Start: end, End: end}}
	}
	return &Error{Err: err, Found: p.tok.String(), Range: p.tok.Range}
}
