package step

import (
	"fmt"
	"io"
	"strconv"
)

const (
	magicStart = "ISO-10303-21"
	magicEnd   = "END-ISO-10303-21"
)

// Parser reads an exchange structure token by token with one token of
// lookahead.
type Parser struct {
	lexer *Lexer
	cur   *Token
	peek  *Token
}

// NewParser creates a parser for r.
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// Parse reads a complete exchange structure from r.
func Parse(r io.Reader) (*File, error) {
	return NewParser(r).Parse()
}

// Parse reads the header and every DATA section.
func (p *Parser) Parse() (*File, error) {
	if err := p.init(); err != nil {
		return nil, err
	}

	f := newFile()

	if err := p.expectKeyword(magicStart); err != nil {
		return nil, err
	}
	if err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	if err := p.parseHeader(f); err != nil {
		return nil, err
	}

	for {
		switch {
		case p.isKeyword("DATA"):
			if err := p.parseData(f); err != nil {
				return nil, err
			}
		case p.isKeyword(magicEnd):
			if err := p.next(); err != nil {
				return nil, err
			}
			if p.cur.Type == TokenSemicolon {
				_ = p.next()
			}
			return f, nil
		case p.cur.Type == TokenEOF:
			// Tolerate a missing trailer.
			return f, nil
		default:
			return nil, p.unexpected("DATA or " + magicEnd)
		}
	}
}

func (p *Parser) init() error {
	var err error
	if p.cur, err = p.lexer.NextToken(); err != nil {
		return err
	}
	p.peek, err = p.lexer.NextToken()
	return err
}

// next shifts the lookahead into cur.
func (p *Parser) next() error {
	p.cur = p.peek
	if p.cur.Type == TokenEOF {
		return nil
	}
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) isKeyword(kw string) bool {
	return p.cur.Type == TokenKeyword && string(p.cur.Value) == kw
}

func (p *Parser) unexpected(want string) error {
	got := p.cur.Type.String()
	if p.cur.Type == TokenKeyword {
		got = fmt.Sprintf("keyword %s", p.cur.Value)
	}
	return &SyntaxError{Line: p.cur.Line, Msg: fmt.Sprintf("expected %s, found %s", want, got)}
}

func (p *Parser) expect(t TokenType) error {
	if p.cur.Type != t {
		return p.unexpected(t.String())
	}
	return p.next()
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.unexpected(kw)
	}
	return p.next()
}

func (p *Parser) parseHeader(f *File) error {
	if err := p.expectKeyword("HEADER"); err != nil {
		return err
	}
	if err := p.expect(TokenSemicolon); err != nil {
		return err
	}

	for !p.isKeyword("ENDSEC") {
		if p.cur.Type != TokenKeyword {
			return p.unexpected("header entity or ENDSEC")
		}
		name := string(p.cur.Value)
		if err := p.next(); err != nil {
			return err
		}
		args, err := p.parseArgs()
		if err != nil {
			return err
		}
		if err := p.expect(TokenSemicolon); err != nil {
			return err
		}
		f.Header[name] = args

		if name == "FILE_SCHEMA" && len(args) > 0 {
			items, _ := args[0].AsList()
			for _, item := range items {
				if s, ok := item.AsString(); ok {
					f.Schemas = append(f.Schemas, s)
				}
			}
		}
	}

	if err := p.next(); err != nil {
		return err
	}
	return p.expect(TokenSemicolon)
}

func (p *Parser) parseData(f *File) error {
	if err := p.next(); err != nil {
		return err
	}
	// DATA may carry a section name and schema in parentheses.
	if p.cur.Type == TokenLParen {
		if _, err := p.parseArgs(); err != nil {
			return err
		}
	}
	if err := p.expect(TokenSemicolon); err != nil {
		return err
	}

	for !p.isKeyword("ENDSEC") {
		in, err := p.parseInstance()
		if err != nil {
			return err
		}
		if prev, dup := f.Get(in.ID); dup {
			return &SyntaxError{
				Line: in.Line,
				Msg:  fmt.Sprintf("duplicate instance #%d (first defined on line %d)", in.ID, prev.Line),
			}
		}
		f.add(in)
	}

	if err := p.next(); err != nil {
		return err
	}
	return p.expect(TokenSemicolon)
}

func (p *Parser) parseInstance() (*Instance, error) {
	if p.cur.Type != TokenRef {
		return nil, p.unexpected("instance name or ENDSEC")
	}
	id, err := strconv.ParseInt(string(p.cur.Value), 10, 64)
	if err != nil {
		return nil, &SyntaxError{Line: p.cur.Line, Msg: fmt.Sprintf("invalid instance name #%s", p.cur.Value)}
	}
	in := &Instance{ID: id, Line: p.cur.Line}

	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.expect(TokenEquals); err != nil {
		return nil, err
	}

	switch p.cur.Type {
	case TokenKeyword:
		part, err := p.parsePart()
		if err != nil {
			return nil, err
		}
		in.Type, in.Args = part.Type, part.Args
		in.Parts = []Part{part}
	case TokenLParen:
		// Complex instance: (A(...) B(...) ...)
		if err := p.next(); err != nil {
			return nil, err
		}
		for p.cur.Type == TokenKeyword {
			part, err := p.parsePart()
			if err != nil {
				return nil, err
			}
			in.Parts = append(in.Parts, part)
		}
		if len(in.Parts) == 0 {
			return nil, p.unexpected("entity name")
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		in.Type, in.Args = in.Parts[0].Type, in.Parts[0].Args
	default:
		return nil, p.unexpected("entity name")
	}

	if err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return in, nil
}

func (p *Parser) parsePart() (Part, error) {
	part := Part{Type: string(p.cur.Value)}
	if err := p.next(); err != nil {
		return part, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return part, err
	}
	part.Args = args
	return part, nil
}

// parseArgs reads a parenthesized, comma separated parameter list.
func (p *Parser) parseArgs() ([]Value, error) {
	if err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	args := []Value{}
	if p.cur.Type == TokenRParen {
		return args, p.next()
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, v)

		switch p.cur.Type {
		case TokenComma:
			if err := p.next(); err != nil {
				return nil, err
			}
		case TokenRParen:
			return args, p.next()
		default:
			return nil, p.unexpected("',' or ')'")
		}
	}
}

func (p *Parser) parseValue() (Value, error) {
	tok := p.cur
	var v Value

	switch tok.Type {
	case TokenNull:
		v = Null
	case TokenDerived:
		v = Value{Kind: KindDerived}
	case TokenInteger:
		n, err := strconv.ParseInt(string(tok.Value), 10, 64)
		if err != nil {
			return v, &SyntaxError{Line: tok.Line, Msg: fmt.Sprintf("invalid integer %q", tok.Value)}
		}
		v = Value{Kind: KindInteger, Int: n}
	case TokenReal:
		f, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return v, &SyntaxError{Line: tok.Line, Msg: fmt.Sprintf("invalid real %q", tok.Value)}
		}
		v = Value{Kind: KindReal, Real: f}
	case TokenString:
		v = Value{Kind: KindString, Str: DecodeString(string(tok.Value))}
	case TokenEnum:
		v = Value{Kind: KindEnum, Str: string(tok.Value)}
	case TokenBinary:
		v = Value{Kind: KindBinary, Str: string(tok.Value)}
	case TokenRef:
		id, err := strconv.ParseInt(string(tok.Value), 10, 64)
		if err != nil {
			return v, &SyntaxError{Line: tok.Line, Msg: fmt.Sprintf("invalid reference #%s", tok.Value)}
		}
		v = Value{Kind: KindRef, Ref: id}
	case TokenLParen:
		items, err := p.parseArgs()
		if err != nil {
			return v, err
		}
		return Value{Kind: KindList, List: items}, nil
	case TokenKeyword:
		// Typed value such as IFCLENGTHMEASURE(2.5).
		name := string(tok.Value)
		if err := p.next(); err != nil {
			return v, err
		}
		inner, err := p.parseArgs()
		if err != nil {
			return v, err
		}
		return Value{Kind: KindTyped, Str: name, List: inner}, nil
	default:
		return v, p.unexpected("parameter")
	}

	return v, p.next()
}
