package parser

import (
	"strconv"
	"strings"

	"github.com/suderio/bestiary/internal/dice"
)

// Lexer turns interpolation source into tokens. The first token is always
// a (possibly empty) text run; an expression section opens with '$' plus the
// mode's open delimiter and its close delimiter starts the next text run.
type Lexer struct {
	src     []rune
	cur     int
	mode    Mode
	started bool
	at      Position
	start   Position
}

func NewLexer(src string, mode Mode) *Lexer {
	return &Lexer{
		src:  []rune(src),
		mode: mode,
		at:   Position{Line: 1, Column: 1},
	}
}

// Tokenize lexes the whole source.
func Tokenize(src string, mode Mode) ([]Token, error) {
	l := NewLexer(src, mode)
	var toks []Token
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// Position returns the position of the next unread character.
func (l *Lexer) Position() Position { return l.at }

// Next returns the next token, or ok=false once the source is exhausted.
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	if !l.started {
		l.started = true
		l.start = l.at
		return l.text()
	}

	l.skipSpace()
	l.start = l.at
	r, more := l.peek()
	if !more {
		return Token{}, false, nil
	}

	switch {
	case isIdentStart(r):
		return l.ident()
	case isDigit(r):
		return l.numberOrDice()
	case r == '"':
		return l.stringLit()
	}

	l.advance()
	switch r {
	case '+':
		return l.emit(TokenPlus), true, nil
	case '-':
		return l.emit(TokenMinus), true, nil
	case '*':
		return l.emit(TokenAsterisk), true, nil
	case '(':
		return l.emit(TokenLParen), true, nil
	case ')':
		return l.emit(TokenRParen), true, nil
	case '.':
		return l.emit(TokenDot), true, nil
	case '$':
		return l.emit(TokenDollar), true, nil
	case '/':
		next, _ := l.peek()
		switch next {
		case '<':
			l.advance()
			return l.emit(TokenFloorDiv), true, nil
		case '>':
			l.advance()
			return l.emit(TokenCeilDiv), true, nil
		}
		return Token{}, false, l.fail(ErrSlashIsNotValid, "")
	case l.mode.close():
		return l.text()
	}
	return Token{}, false, l.fail(ErrUnexpectedCharacter, strconv.QuoteRune(r))
}

func (l *Lexer) text() (Token, bool, error) {
	var sb strings.Builder
	for {
		r, ok := l.peek()
		if !ok {
			break
		}
		l.advance()
		if r == '\\' {
			next, ok := l.peek()
			if !ok || (next != '$' && next != '\\') {
				return Token{}, false, l.fail(ErrInvalidEscape, "")
			}
			sb.WriteRune(l.advance())
			continue
		}
		if r == '$' {
			if next, ok := l.peek(); ok && next == l.mode.open() {
				l.advance()
				break
			}
		}
		sb.WriteRune(r)
	}
	tok := l.emit(TokenText)
	tok.Text = sb.String()
	return tok, true, nil
}

func (l *Lexer) ident() (Token, bool, error) {
	from := l.cur
	for {
		r, ok := l.peek()
		if !ok || !(isIdentStart(r) || isDigit(r)) {
			break
		}
		l.advance()
	}
	name := string(l.src[from:l.cur])
	if kw, ok := keywords[name]; ok && l.mode == ModeStatBlock {
		tok := l.emit(TokenKeyword)
		tok.Keyword = kw
		return tok, true, nil
	}
	tok := l.emit(TokenIdent)
	tok.Text = name
	return tok, true, nil
}

func (l *Lexer) numberOrDice() (Token, bool, error) {
	from := l.cur
	l.digits()
	if r, ok := l.peek(); ok && (r == 'd' || r == 'D') {
		l.advance()
		if l.digits() == 0 {
			return Token{}, false, l.fail(ErrInvalidDice, strconv.Quote(string(l.src[from:l.cur])))
		}
		lit := string(l.src[from:l.cur])
		d, err := dice.Parse(lit)
		if err != nil {
			return Token{}, false, l.fail(ErrInvalidDice, strconv.Quote(lit))
		}
		tok := l.emit(TokenDice)
		tok.Dice = d
		return tok, true, nil
	}
	lit := string(l.src[from:l.cur])
	n, err := strconv.Atoi(lit)
	if err != nil {
		return Token{}, false, l.fail(ErrInvalidNumber, strconv.Quote(lit))
	}
	tok := l.emit(TokenNumber)
	tok.Number = n
	return tok, true, nil
}

func (l *Lexer) stringLit() (Token, bool, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		r, ok := l.peek()
		if !ok {
			return Token{}, false, l.fail(ErrUnterminatedString, "")
		}
		l.advance()
		switch r {
		case '"':
			tok := l.emit(TokenString)
			tok.Text = sb.String()
			return tok, true, nil
		case '\\':
			next, ok := l.peek()
			if !ok || (next != '"' && next != '\\') {
				return Token{}, false, l.fail(ErrInvalidEscape, "")
			}
			sb.WriteRune(l.advance())
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *Lexer) digits() int {
	n := 0
	for {
		r, ok := l.peek()
		if !ok || !isDigit(r) {
			return n
		}
		l.advance()
		n++
	}
}

func (l *Lexer) skipSpace() {
	for {
		r, ok := l.peek()
		if !ok || !(r == ' ' || r == '\t' || r == '\n' || r == '\r') {
			return
		}
		l.advance()
	}
}

func (l *Lexer) peek() (rune, bool) {
	if l.cur >= len(l.src) {
		return 0, false
	}
	return l.src[l.cur], true
}

// advance consumes one rune. '\n' starts a new line and '\r' does not move
// the column, so CRLF sources count the same as LF ones.
func (l *Lexer) advance() rune {
	r := l.src[l.cur]
	l.cur++
	switch r {
	case '\n':
		l.at.Line++
		l.at.Column = 1
	case '\r':
	default:
		l.at.Column++
	}
	return r
}

func (l *Lexer) emit(t TokenType) Token {
	return Token{Type: t, Range: Range{Start: l.start, End: l.at}}
}

func (l *Lexer) fail(err error, found string) error {
	return &Error{Err: err, Found: found, Range: Range{Start: l.start, End: l.at}}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
