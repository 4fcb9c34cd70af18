package parser

import (
	"fmt"
	"strconv"

	"github.com/tsuberim/lang/internal/ast"
	"github.com/tsuberim/lang/internal/lexer"
)

// Operator precedence levels, lowest binds loosest
const (
	_ int = iota
	precBind
	precAppend
	precSum
	precProduct
	precConcat
)

var precedences = map[lexer.TokenType]int{
	lexer.BIND:   precBind,
	lexer.APPEND: precAppend,
	lexer.PLUS:   precSum,
	lexer.STAR:   precProduct,
	lexer.CARET:  precConcat,
}

// Parser builds the AST from a token stream. Binary operators desugar to
// applications of the standard environment's functions, so the inferencer
// and evaluator only ever see plain applications.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	errors []string
}

// New creates a parser over a lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Prime curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the parse errors collected so far
func (p *Parser) Errors() []string {
	return p.errors
}

// Err returns nil when parsing succeeded, or an error carrying the first
// parse failure.
func (p *Parser) Err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return fmt.Errorf("%s", p.errors[0])
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) addError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%s: %s", p.curToken.Position(), msg))
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curToken.Type != t {
		p.addError("expected %s, got %s", t, p.curToken.Type)
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{Line: p.curToken.Line, Column: p.curToken.Column, File: p.curToken.File}
}

func (p *Parser) skipNewlines() {
	for p.curToken.Type == lexer.NEWLINE {
		p.nextToken()
	}
}

// ParseFile parses a whole source file: imports and declarations separated
// by newlines, optionally ending with a trailing expression.
func (p *Parser) ParseFile() *ast.File {
	file := &ast.File{Pos: p.pos(), Path: p.curToken.File}

	p.skipNewlines()
	for p.curToken.Type != lexer.EOF {
		switch {
		case p.curToken.Type == lexer.IMPORT:
			imp := p.parseImport()
			if imp == nil {
				return file
			}
			file.Imports = append(file.Imports, imp)

		case p.curToken.Type == lexer.IDENT && p.peekToken.Type == lexer.ASSIGN:
			decl := p.parseDecl()
			if decl == nil {
				return file
			}
			file.Decls = append(file.Decls, decl)

		default:
			expr := p.parseExpr()
			if expr == nil {
				return file
			}
			file.Expr = expr
			p.skipNewlines()
			if p.curToken.Type != lexer.EOF {
				p.addError("unexpected %s after final expression", p.curToken.Type)
			}
			return file
		}

		if p.curToken.Type != lexer.EOF && p.curToken.Type != lexer.NEWLINE {
			p.addError("expected newline after declaration, got %s", p.curToken.Type)
			return file
		}
		p.skipNewlines()
	}
	return file
}

// ParseExpr parses a single expression (the REPL entry point)
func (p *Parser) ParseExpr() ast.Expr {
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	p.skipNewlines()
	if p.curToken.Type != lexer.EOF {
		p.addError("unexpected %s after expression", p.curToken.Type)
	}
	return expr
}

func (p *Parser) parseImport() *ast.Import {
	imp := &ast.Import{Pos: p.pos()}
	p.nextToken() // consume import
	if p.curToken.Type != lexer.IDENT {
		p.addError("expected module name after import, got %s", p.curToken.Type)
		return nil
	}
	imp.Name = p.curToken.Literal
	p.nextToken()
	return imp
}

func (p *Parser) parseDecl() *ast.Decl {
	decl := &ast.Decl{Name: p.curToken.Literal, Pos: p.pos()}
	p.nextToken() // consume name
	p.nextToken() // consume =
	decl.Value = p.parseExpr()
	if decl.Value == nil {
		return nil
	}
	return decl
}

// parseExpr parses a full expression: lambdas and when-expressions extend
// as far right as possible, everything else is an operator expression.
func (p *Parser) parseExpr() ast.Expr {
	switch p.curToken.Type {
	case lexer.LAMBDA:
		return p.parseLambda()
	case lexer.WHEN:
		return p.parseWhen()
	default:
		return p.parseBinary(0)
	}
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parsePostfix()
	if left == nil {
		return nil
	}
	for {
		prec, ok := precedences[p.curToken.Type]
		if !ok || prec <= minPrec {
			return left
		}
		op := p.curToken.Literal
		opPos := p.pos()
		p.nextToken()

		var right ast.Expr
		switch p.curToken.Type {
		case lexer.LAMBDA:
			right = p.parseLambda()
		case lexer.WHEN:
			right = p.parseWhen()
		default:
			right = p.parseBinary(prec)
		}
		if right == nil {
			return nil
		}
		left = &ast.App{
			Fn:   &ast.Id{Name: op, Pos: opPos},
			Args: []ast.Expr{left, right},
			Pos:  opPos,
		}
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parseAtom()
	if expr == nil {
		return nil
	}
	for {
		switch p.curToken.Type {
		case lexer.DOT:
			pos := p.pos()
			p.nextToken()
			if p.curToken.Type != lexer.IDENT {
				p.addError("expected field name after '.', got %s", p.curToken.Type)
				return nil
			}
			expr = &ast.Acc{Rec: expr, Prop: p.curToken.Literal, Pos: pos}
			p.nextToken()

		case lexer.LPAREN:
			pos := p.pos()
			p.nextToken()
			var args []ast.Expr
			for p.curToken.Type != lexer.RPAREN {
				arg := p.parseExpr()
				if arg == nil {
					return nil
				}
				args = append(args, arg)
				if p.curToken.Type == lexer.COMMA {
					p.nextToken()
					continue
				}
				break
			}
			if !p.expect(lexer.RPAREN) {
				return nil
			}
			expr = &ast.App{Fn: expr, Args: args, Pos: pos}

		default:
			return expr
		}
	}
}

func (p *Parser) parseAtom() ast.Expr {
	pos := p.pos()
	switch p.curToken.Type {
	case lexer.NUM:
		v, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.addError("invalid number %q", p.curToken.Literal)
			return nil
		}
		p.nextToken()
		return &ast.NumLit{Value: v, Pos: pos}

	case lexer.STRING:
		v := p.curToken.Literal
		p.nextToken()
		return &ast.StrLit{Value: v, Pos: pos}

	case lexer.IDENT:
		name := p.curToken.Literal
		p.nextToken()
		return &ast.Id{Name: name, Pos: pos}

	case lexer.CONS:
		name := p.curToken.Literal
		p.nextToken()
		cons := &ast.Cons{Name: name, Pos: pos}
		if p.curToken.Type == lexer.LPAREN {
			p.nextToken()
			cons.Payload = p.parseExpr()
			if cons.Payload == nil {
				return nil
			}
			if !p.expect(lexer.RPAREN) {
				return nil
			}
		}
		return cons

	case lexer.LBRACKET:
		p.nextToken()
		list := &ast.List{Pos: pos}
		for p.curToken.Type != lexer.RBRACKET {
			item := p.parseExpr()
			if item == nil {
				return nil
			}
			list.Items = append(list.Items, item)
			if p.curToken.Type == lexer.COMMA {
				p.nextToken()
				continue
			}
			break
		}
		if !p.expect(lexer.RBRACKET) {
			return nil
		}
		return list

	case lexer.LBRACE:
		return p.parseRecord()

	case lexer.LPAREN:
		p.nextToken()
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		if !p.expect(lexer.RPAREN) {
			return nil
		}
		return expr

	case lexer.LAMBDA:
		return p.parseLambda()

	case lexer.WHEN:
		return p.parseWhen()

	default:
		p.addError("unexpected %s", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseRecord() ast.Expr {
	rec := &ast.Rec{Fields: make(map[string]ast.Expr), Pos: p.pos()}
	p.nextToken() // consume {
	for p.curToken.Type != lexer.RBRACE {
		if p.curToken.Type != lexer.IDENT {
			p.addError("expected field name, got %s", p.curToken.Type)
			return nil
		}
		name := p.curToken.Literal
		if _, dup := rec.Fields[name]; dup {
			p.addError("duplicate record key %s", name)
			return nil
		}
		p.nextToken()
		if !p.expect(lexer.COLON) {
			return nil
		}
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		rec.Fields[name] = value
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(lexer.RBRACE) {
		return nil
	}
	return rec
}

func (p *Parser) parseLambda() ast.Expr {
	lam := &ast.Lam{Pos: p.pos()}
	p.nextToken() // consume backslash

	switch p.curToken.Type {
	case lexer.IDENT:
		lam.Params = []string{p.curToken.Literal}
		p.nextToken()
	case lexer.LPAREN:
		p.nextToken()
		for {
			if p.curToken.Type != lexer.IDENT {
				p.addError("expected parameter name, got %s", p.curToken.Type)
				return nil
			}
			lam.Params = append(lam.Params, p.curToken.Literal)
			p.nextToken()
			if p.curToken.Type == lexer.COMMA {
				p.nextToken()
				continue
			}
			break
		}
		if !p.expect(lexer.RPAREN) {
			return nil
		}
	default:
		p.addError("expected parameter after '\\', got %s", p.curToken.Type)
		return nil
	}

	if !p.expect(lexer.ARROW) {
		return nil
	}
	lam.Body = p.parseExpr()
	if lam.Body == nil {
		return nil
	}
	return lam
}

func (p *Parser) parseWhen() ast.Expr {
	m := &ast.Match{Pos: p.pos()}
	p.nextToken() // consume when

	m.Scrutinee = p.parseExpr()
	if m.Scrutinee == nil {
		return nil
	}
	if !p.expect(lexer.IS) {
		return nil
	}

	for {
		pat := p.parsePattern()
		if pat == nil {
			return nil
		}
		cons, ok := pat.(*ast.PatCons)
		if !ok {
			p.addError("match cases must start with a tag pattern")
			return nil
		}
		if !p.expect(lexer.ARROW) {
			return nil
		}
		body := p.parseExpr()
		if body == nil {
			return nil
		}
		m.Cases = append(m.Cases, ast.MatchCase{Pattern: cons, Body: body})

		if p.curToken.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}
		break
	}

	if p.curToken.Type == lexer.ELSE {
		p.nextToken()
		m.Otherwise = p.parseExpr()
		if m.Otherwise == nil {
			return nil
		}
	}
	return m
}

func (p *Parser) parsePattern() ast.Pattern {
	pos := p.pos()
	switch p.curToken.Type {
	case lexer.NUM:
		v, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.addError("invalid number %q", p.curToken.Literal)
			return nil
		}
		p.nextToken()
		return &ast.PatLit{Num: &v, Pos: pos}

	case lexer.STRING:
		v := p.curToken.Literal
		p.nextToken()
		return &ast.PatLit{Str: &v, Pos: pos}

	case lexer.IDENT:
		name := p.curToken.Literal
		p.nextToken()
		return &ast.PatId{Name: name, Pos: pos}

	case lexer.CONS:
		name := p.curToken.Literal
		p.nextToken()
		pat := &ast.PatCons{Name: name, Pos: pos}
		if p.curToken.Type == lexer.LPAREN {
			p.nextToken()
			pat.Payload = p.parsePattern()
			if pat.Payload == nil {
				return nil
			}
			if !p.expect(lexer.RPAREN) {
				return nil
			}
		}
		return pat

	case lexer.LBRACE:
		rec := &ast.PatRec{Fields: make(map[string]ast.Pattern), Pos: pos}
		p.nextToken()
		for p.curToken.Type != lexer.RBRACE {
			if p.curToken.Type != lexer.IDENT {
				p.addError("expected field name, got %s", p.curToken.Type)
				return nil
			}
			name := p.curToken.Literal
			if _, dup := rec.Fields[name]; dup {
				p.addError("duplicate record key %s", name)
				return nil
			}
			p.nextToken()
			if !p.expect(lexer.COLON) {
				return nil
			}
			sub := p.parsePattern()
			if sub == nil {
				return nil
			}
			rec.Fields[name] = sub
			if p.curToken.Type == lexer.COMMA {
				p.nextToken()
				continue
			}
			break
		}
		if !p.expect(lexer.RBRACE) {
			return nil
		}
		return rec

	case lexer.LBRACKET:
		list := &ast.PatList{Pos: pos}
		p.nextToken()
		for p.curToken.Type != lexer.RBRACKET {
			sub := p.parsePattern()
			if sub == nil {
				return nil
			}
			list.Items = append(list.Items, sub)
			if p.curToken.Type == lexer.COMMA {
				p.nextToken()
				continue
			}
			break
		}
		if !p.expect(lexer.RBRACKET) {
			return nil
		}
		return list

	default:
		p.addError("unexpected %s in pattern", p.curToken.Type)
		return nil
	}
}
