// Package parser implements the recursive-descent parser that turns a
// miniform token stream into an [ast.File].
package parser

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/farukkavlak/miniform/internal/ast"
	"github.com/farukkavlak/miniform/internal/lexer"
	"github.com/farukkavlak/miniform/internal/tfdiags"
	"github.com/farukkavlak/miniform/internal/token"
)

// Parser consumes a fixed token slice. It is pure: the same tokens always
// produce the same AST (or the same error).
type Parser struct {
	filename string
	toks     []token.Token
	pos      int
}

// ParseString lexes and parses source text in one step.
func ParseString(filename, src string) (*ast.File, error) {
	toks, err := lexer.Tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	return Parse(filename, toks)
}

// Parse builds an AST from an already-lexed token stream.
func Parse(filename string, toks []token.Token) (*ast.File, error) {
	p := &Parser{filename: filename, toks: toks}
	return p.parseFile()
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) rangeAt(start hcl.Pos) hcl.Range {
	return hcl.Range{Filename: p.filename, Start: start, End: p.cur().Pos}
}

func (p *Parser) errorf(format string, args ...any) error {
	return &tfdiags.ParseError{Pos: p.cur().Pos, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur().Kind != k {
		return token.Token{}, p.errorf("expected %s, found %s %q", k, p.cur().Kind, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *Parser) parseFile() (*ast.File, error) {
	f := &ast.File{}
	for p.cur().Kind != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		f.Statements = append(f.Statements, stmt)
	}
	return f, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Kind {
	case token.RESOURCE:
		return p.parseResource()
	case token.DATA:
		return p.parseData()
	case token.VARIABLE:
		return p.parseVariable()
	case token.MODULE:
		return p.parseModule()
	case token.OUTPUT:
		return p.parseOutput()
	default:
		return nil, p.errorf("expected a top-level block (resource, variable, data, module, output), found %q", p.cur().Text)
	}
}

func (p *Parser) parseResource() (ast.Statement, error) {
	start := p.cur().Pos
	p.advance() // "resource"
	typeTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	attrs, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return ast.Resource{Type: typeTok.Text, Name: nameTok.Text, Attrs: attrs, Rng: p.rangeAt(start)}, nil
}

func (p *Parser) parseData() (ast.Statement, error) {
	start := p.cur().Pos
	p.advance() // "data"
	typeTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	attrs, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return ast.Data{Type: typeTok.Text, Name: nameTok.Text, Attrs: attrs, Rng: p.rangeAt(start)}, nil
}

func (p *Parser) parseVariable() (ast.Statement, error) {
	start := p.cur().Pos
	p.advance() // "variable"
	nameTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	attrs, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return ast.Variable{Name: nameTok.Text, Attrs: attrs, Rng: p.rangeAt(start)}, nil
}

func (p *Parser) parseModule() (ast.Statement, error) {
	start := p.cur().Pos
	p.advance() // "module"
	nameTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	attrs, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return ast.Module{Name: nameTok.Text, Attrs: attrs, Rng: p.rangeAt(start)}, nil
}

func (p *Parser) parseOutput() (ast.Statement, error) {
	start := p.cur().Pos
	p.advance() // "output"
	nameTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	ident, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if ident.Text != "value" {
		return nil, p.errorf("output block may only contain a %q attribute, found %q", "value", ident.Text)
	}
	if _, err := p.expect(token.EQUAL); err != nil {
		return nil, err
	}
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.Output{Name: nameTok.Text, Value: val, Rng: p.rangeAt(start)}, nil
}

// parseBody parses "{" attr* "}" where attr := IDENT "=" value.
func (p *Parser) parseBody() (ast.Attributes, error) {
	attrs := ast.NewAttributes()
	if _, err := p.expect(token.LBRACE); err != nil {
		return attrs, err
	}
	for p.cur().Kind != token.RBRACE {
		if p.cur().Kind == token.EOF {
			return attrs, p.errorf("unexpected end of file inside block body")
		}
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return attrs, err
		}
		if _, err := p.expect(token.EQUAL); err != nil {
			return attrs, err
		}
		val, err := p.parseValue()
		if err != nil {
			return attrs, err
		}
		attrs.Set(nameTok.Text, val)
	}
	p.advance() // "}"
	return attrs, nil
}

// parseValue parses value := STRING | NUMBER | BOOL | reference | list | map.
func (p *Parser) parseValue() (ast.Value, error) {
	start := p.cur().Pos
	switch p.cur().Kind {
	case token.STRING:
		t := p.advance()
		return ast.String{Val: t.Text, Rng: p.rangeAt(start)}, nil
	case token.NUMBER:
		t := p.advance()
		var n int64
		for _, r := range t.Text {
			n = n*10 + int64(r-'0')
		}
		return ast.Number{Val: n, Rng: p.rangeAt(start)}, nil
	case token.BOOL:
		t := p.advance()
		return ast.Boolean{Val: t.Text == "true", Rng: p.rangeAt(start)}, nil
	case token.LBRACK:
		return p.parseList(start)
	case token.LBRACE:
		return p.parseMap(start)
	case token.IDENT, token.MODULE, token.DATA:
		return p.parseReference(start)
	default:
		return nil, p.errorf("expected a value, found %q", p.cur().Text)
	}
}

// parseReference parses reference := IDENT ("." IDENT)+. A bare
// identifier with no following dot is a parse error in value position.
// The keywords (module, data, ...) are accepted as segments so that
// references like module.app.url and data.http.n.body parse.
func (p *Parser) parseReference(start hcl.Pos) (ast.Value, error) {
	first, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	parts := []string{first.Text}
	for p.cur().Kind == token.DOT {
		p.advance()
		part, err := p.expectWord()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part.Text)
	}
	if len(parts) < 2 {
		return nil, &tfdiags.ParseError{Pos: start, Message: fmt.Sprintf("bare identifier %q is not valid in value position; did you mean a reference like %q?", first.Text, first.Text+".attr")}
	}
	return ast.Reference{Parts: parts, Rng: p.rangeAt(start)}, nil
}

// expectWord consumes an identifier or a keyword token.
func (p *Parser) expectWord() (token.Token, error) {
	switch p.cur().Kind {
	case token.IDENT, token.RESOURCE, token.VARIABLE, token.OUTPUT, token.MODULE, token.DATA:
		return p.advance(), nil
	}
	return p.expect(token.IDENT)
}

func (p *Parser) parseList(start hcl.Pos) (ast.Value, error) {
	p.advance() // "["
	var items []ast.Value
	for p.cur().Kind != token.RBRACK {
		if p.cur().Kind == token.EOF {
			return nil, p.errorf("unexpected end of file inside list")
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	return ast.List{Items: items, Rng: p.rangeAt(start)}, nil
}

// parseMap parses map := "{" (mapentry)* "}" where mapentry is
// (IDENT|STRING) "=" value. Entries are not comma separated, the same as
// the attributes of a block body.
func (p *Parser) parseMap(start hcl.Pos) (ast.Value, error) {
	p.advance() // "{"
	var entries []ast.MapEntry
	for p.cur().Kind != token.RBRACE {
		if p.cur().Kind == token.EOF {
			return nil, p.errorf("unexpected end of file inside map")
		}
		var key string
		switch p.cur().Kind {
		case token.IDENT:
			key = p.advance().Text
		case token.STRING:
			key = p.advance().Text
		default:
			return nil, p.errorf("expected a map key, found %q", p.cur().Text)
		}
		if _, err := p.expect(token.EQUAL); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.MapEntry{Key: key, Value: val})
	}
	p.advance() // "}"
	return ast.Map{Entries: entries, Rng: p.rangeAt(start)}, nil
}
