package step

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF       TokenType = iota
	TokenKeyword             // ISO-10303-21, HEADER, IFCWALL
	TokenRef                 // #12
	TokenInteger             // 42
	TokenReal                // 3.5, 1., -2.5E-3
	TokenString              // 'text'
	TokenEnum                // .T.
	TokenBinary              // "0FF"
	TokenNull                // $
	TokenDerived             // *
	TokenLParen              // (
	TokenRParen              // )
	TokenComma               // ,
	TokenSemicolon           // ;
	TokenEquals              // =
)

// String returns a readable token type name for error messages.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of file"
	case TokenKeyword:
		return "keyword"
	case TokenRef:
		return "reference"
	case TokenInteger:
		return "integer"
	case TokenReal:
		return "real"
	case TokenString:
		return "string"
	case TokenEnum:
		return "enumeration"
	case TokenBinary:
		return "binary"
	case TokenNull:
		return "'$'"
	case TokenDerived:
		return "'*'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenSemicolon:
		return "';'"
	case TokenEquals:
		return "'='"
	default:
		return "unknown"
	}
}

// Token represents a lexical token. Value holds the raw text without
// delimiters: the digits of a reference, the undecoded body of a string,
// the literal of an enumeration.
type Token struct {
	Type  TokenType
	Value []byte
	Line  int
}

// SyntaxError reports malformed input with the line it was found on.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Lexer splits exchange-structure text into tokens, skipping whitespace
// and /* */ comments.
type Lexer struct {
	reader *bufio.Reader
	line   int
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{reader: bufio.NewReaderSize(r, 64*1024), line: 1}
}

// Line returns the current line number.
func (l *Lexer) Line() int {
	return l.line
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: l.line, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) readByte() (byte, error) {
	b, err := l.reader.ReadByte()
	if err == nil && b == '\n' {
		l.line++
	}
	return b, err
}

func (l *Lexer) unreadByte(b byte) {
	if b == '\n' {
		l.line--
	}
	_ = l.reader.UnreadByte()
}

func (l *Lexer) peek() (byte, error) {
	bs, err := l.reader.Peek(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

// skipSpace skips whitespace and comments.
func (l *Lexer) skipSpace() error {
	for {
		b, err := l.peek()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch {
		case isSpace(b):
			_, _ = l.readByte()
		case b == '/':
			next, _ := l.reader.Peek(2)
			if len(next) < 2 || next[1] != '*' {
				return nil
			}
			if err := l.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (l *Lexer) skipComment() error {
	start := l.line
	_, _ = l.readByte()
	_, _ = l.readByte()
	prev := byte(0)
	for {
		b, err := l.readByte()
		if err != nil {
			return &SyntaxError{Line: start, Msg: "unterminated comment"}
		}
		if prev == '*' && b == '/' {
			return nil
		}
		prev = b
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (*Token, error) {
	if err := l.skipSpace(); err != nil {
		return nil, err
	}

	b, err := l.readByte()
	if err == io.EOF {
		return &Token{Type: TokenEOF, Line: l.line}, nil
	}
	if err != nil {
		return nil, err
	}

	line := l.line
	single := func(t TokenType) (*Token, error) {
		return &Token{Type: t, Value: []byte{b}, Line: line}, nil
	}

	switch {
	case b == '(':
		return single(TokenLParen)
	case b == ')':
		return single(TokenRParen)
	case b == ',':
		return single(TokenComma)
	case b == ';':
		return single(TokenSemicolon)
	case b == '=':
		return single(TokenEquals)
	case b == '$':
		return single(TokenNull)
	case b == '*':
		return single(TokenDerived)
	case b == '#':
		return l.readRef(line)
	case b == '\'':
		return l.readString(line)
	case b == '"':
		return l.readBinary(line)
	case b == '.':
		return l.readEnum(line)
	case isDigit(b) || b == '-' || b == '+':
		return l.readNumber(b, line)
	case isAlpha(b) || b == '!':
		return l.readKeyword(b, line)
	}

	return nil, l.errorf("unexpected character %q", b)
}

func (l *Lexer) readRef(line int) (*Token, error) {
	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err != nil {
			break
		}
		if !isDigit(b) {
			l.unreadByte(b)
			break
		}
		buf.WriteByte(b)
	}
	if buf.Len() == 0 {
		return nil, l.errorf("'#' not followed by an instance number")
	}
	return &Token{Type: TokenRef, Value: buf.Bytes(), Line: line}, nil
}

// readString reads up to the closing quote. A doubled quote is an escaped
// quote and stays doubled in Value; decoding happens in DecodeString.
func (l *Lexer) readString(line int) (*Token, error) {
	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err != nil {
			return nil, &SyntaxError{Line: line, Msg: "unterminated string"}
		}
		if b == '\'' {
			next, err := l.peek()
			if err == nil && next == '\'' {
				_, _ = l.readByte()
				buf.WriteString("''")
				continue
			}
			return &Token{Type: TokenString, Value: buf.Bytes(), Line: line}, nil
		}
		buf.WriteByte(b)
	}
}

func (l *Lexer) readBinary(line int) (*Token, error) {
	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err != nil {
			return nil, &SyntaxError{Line: line, Msg: "unterminated binary"}
		}
		if b == '"' {
			return &Token{Type: TokenBinary, Value: buf.Bytes(), Line: line}, nil
		}
		buf.WriteByte(b)
	}
}

func (l *Lexer) readEnum(line int) (*Token, error) {
	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err != nil {
			return nil, &SyntaxError{Line: line, Msg: "unterminated enumeration"}
		}
		if b == '.' {
			break
		}
		if !isAlpha(b) && !isDigit(b) && b != '_' {
			return nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("invalid character %q in enumeration", b)}
		}
		buf.WriteByte(b)
	}
	if buf.Len() == 0 {
		return nil, &SyntaxError{Line: line, Msg: "empty enumeration"}
	}
	return &Token{Type: TokenEnum, Value: buf.Bytes(), Line: line}, nil
}

// readNumber reads [sign] digits [. digits] [E [sign] digits].
func (l *Lexer) readNumber(first byte, line int) (*Token, error) {
	var buf bytes.Buffer
	buf.WriteByte(first)
	isReal := false
	prev := first

scan:
	for {
		b, err := l.readByte()
		if err != nil {
			break
		}
		switch {
		case isDigit(b):
		case b == '.':
			isReal = true
		case b == 'E' || b == 'e':
			isReal = true
		case (b == '-' || b == '+') && (prev == 'E' || prev == 'e'):
		default:
			l.unreadByte(b)
			break scan
		}
		buf.WriteByte(b)
		prev = b
	}

	digits := bytes.TrimLeft(buf.Bytes(), "+-")
	if len(digits) == 0 || !isDigit(digits[0]) {
		return nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("malformed number %q", buf.String())}
	}
	if isReal {
		return &Token{Type: TokenReal, Value: buf.Bytes(), Line: line}, nil
	}
	return &Token{Type: TokenInteger, Value: buf.Bytes(), Line: line}, nil
}

// readKeyword reads a standard (IFCWALL, END-ISO-10303-21) or
// user-defined (!NAME) keyword.
func (l *Lexer) readKeyword(first byte, line int) (*Token, error) {
	var buf bytes.Buffer
	buf.WriteByte(first)
	for {
		b, err := l.readByte()
		if err != nil {
			break
		}
		if !isAlpha(b) && !isDigit(b) && b != '_' && b != '-' {
			l.unreadByte(b)
			break
		}
		buf.WriteByte(b)
	}
	return &Token{Type: TokenKeyword, Value: bytes.ToUpper(buf.Bytes()), Line: line}, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
