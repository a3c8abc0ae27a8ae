// Package parser implements the engine's Pratt precedence-climbing parser
// (spec.md §4.4). It is grounded on the teacher repository's
// internal/parser (prefix/infix function tables driven by a precedence
// map, one-token lookahead against the lexer, position-carrying errors)
// but retargeted at a tagged ast.Node tree instead of the teacher's
// polymorphic Expression/Statement interfaces, and its precedence table
// is the operator.Table registry rather than a parser-private constant
// map, so that a host's operator redirection can never desynchronize
// precedence between parser and evaluator.
package parser

import (
	"github.com/cwbudde/exprscript/internal/ast"
	"github.com/cwbudde/exprscript/internal/errors"
	"github.com/cwbudde/exprscript/internal/lexer"
	"github.com/cwbudde/exprscript/internal/operator"
	"github.com/cwbudde/exprscript/internal/value"
)

// Precedence levels for the grammar productions that the operator table
// does not itself carry (spec.md §4.4): the ternary sits just above
// assignment, and postfix indexing binds tighter than every operator.
const (
	ternaryPrecedence = 30
	indexPrecedence   = 220
)

// Parser turns a token stream into a single ast.Node (spec.md §4.4).
type Parser struct {
	lex    *lexer.Lexer
	table  *operator.Table
	source string

	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser over source, consulting table for operator
// precedence and arity. It primes the first two tokens so cur/peek are
// always valid.
func New(source string, table *operator.Table) (*Parser, error) {
	p := &Parser{lex: lexer.New(source), table: table, source: source}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse compiles source into an AST in one call (spec.md §4.7 `compile`).
func Parse(source string, table *operator.Table) (*ast.Node, error) {
	p, err := New(source, table)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

func (p *Parser) advance() error {
	p.cur = p.peek
	tok, lexErr := p.lex.NextToken()
	if lexErr != nil {
		return errors.New(errors.Lex, lexErr.Pos, "%s", lexErr.Message).WithSource(p.source)
	}
	p.peek = tok
	return nil
}

func (p *Parser) parseErrorf(pos lexer.Position, format string, args ...any) error {
	return errors.New(errors.Parse, pos, format, args...).WithSource(p.source)
}

// ParseProgram parses the statement-level grammar: zero or more
// semicolon-separated expressions, trailing ";" permitted, an empty
// program yielding None (spec.md §4.4, §6).
func (p *Parser) ParseProgram() (*ast.Node, error) {
	var stmts []*ast.Node

	for p.cur.Kind != lexer.EOF {
		if p.cur.Kind == lexer.SEMI {
			stmts = append(stmts, ast.NoneNode(p.cur.Pos))
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}

		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, expr)

		if p.cur.Kind == lexer.SEMI {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if p.cur.Kind != lexer.EOF {
		return nil, p.parseErrorf(p.cur.Pos, "expected ';' or end of input, found %s", p.cur.String())
	}

	switch len(stmts) {
	case 0:
		return ast.NoneNode(lexer.Position{Line: 1, Column: 1}), nil
	case 1:
		return stmts[0], nil
	default:
		return &ast.Node{Kind: ast.Chain, Pos: stmts[0].Pos, Statements: stmts}, nil
	}
}

// parseExpr is the precedence-climbing core. minPrec is the lowest
// precedence this call is willing to consume; right-associativity is
// achieved uniformly by recursing into the right-hand side with
// min_prec = current_prec rather than current_prec + 1 (spec.md §4.4).
func (p *Parser) parseExpr(minPrec int) (*ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.cur.Kind == lexer.QUESTION && ternaryPrecedence >= minPrec:
			left, err = p.parseTernary(left)
			if err != nil {
				return nil, err
			}
			continue

		case p.cur.Kind == lexer.LBRACK && indexPrecedence >= minPrec:
			left, err = p.parseIndex(left)
			if err != nil {
				return nil, err
			}
			continue

		case p.cur.Kind == lexer.OP:
			prec, ok := p.table.BinaryPrecedence(p.cur.Literal)
			if !ok || prec < minPrec {
				return left, nil
			}
			left, err = p.parseBinary(left, prec)
			if err != nil {
				return nil, err
			}
			continue

		default:
			return left, nil
		}
	}
}

func (p *Parser) parseBinary(left *ast.Node, prec int) (*ast.Node, error) {
	op := p.cur.Literal
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}

	right, err := p.parseExpr(prec)
	if err != nil {
		return nil, err
	}

	if operator.IsAssignment(op) && left.Kind != ast.Reference {
		return nil, p.parseErrorf(pos, "left-hand side of %q must be a variable reference", op)
	}

	return &ast.Node{Kind: ast.Binary, Pos: pos, Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseTernary(cond *ast.Node) (*ast.Node, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil { // consume '?'
		return nil, err
	}

	thenExpr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	if p.cur.Kind != lexer.COLON {
		return nil, p.parseErrorf(p.cur.Pos, "expected ':' in ternary expression, found %s", p.cur.String())
	}
	if err := p.advance(); err != nil { // consume ':'
		return nil, err
	}

	// minPrec is ternaryPrecedence here, not 0, deliberately asymmetric with
	// the then-branch above: it keeps assignment (precedence 20) from
	// binding directly inside the else-branch, so "cond ? a : b = 5" parses
	// as an assignment to the whole ternary (and then fails, since a
	// Ternary isn't a valid assignment target) rather than silently as
	// "cond ? a : (b = 5)". This mirrors C's conditional-expression grammar,
	// where the false-branch is a conditional-expression (excludes
	// assignment) while the true-branch is a full expression, and is what
	// lets right-associative chaining ("a ? b : c ? d : e") recurse through
	// parseExpr's own '?' handling without an assignment sneaking in ahead
	// of the next ternary.
	elseExpr, err := p.parseExpr(ternaryPrecedence)
	if err != nil {
		return nil, err
	}

	return &ast.Node{Kind: ast.Ternary, Pos: pos, Cond: cond, Then: thenExpr, Else: elseExpr}, nil
}

func (p *Parser) parseIndex(base *ast.Node) (*ast.Node, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}

	key, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	if p.cur.Kind != lexer.RBRACK {
		return nil, p.parseErrorf(p.cur.Pos, "expected ']', found %s", p.cur.String())
	}
	if err := p.advance(); err != nil { // consume ']'
		return nil, err
	}

	return &ast.Node{Kind: ast.Index, Pos: pos, Base: base, Key: key}, nil
}

// parseUnary handles the prefix table: "!"/"not", then falls through to
// primary. Leading +/- on a numeric literal is already folded into the
// NUMBER token by the lexer, so no unary arithmetic operator exists here
// (spec.md §6 grammar: `unary = { "!" | "not" } primary`).
func (p *Parser) parseUnary() (*ast.Node, error) {
	if p.cur.Kind == lexer.OP && p.table.IsUnary(p.cur.Literal) {
		op := p.cur.Literal
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseExpr(p.table.UnaryPrecedence())
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Unary, Pos: pos, Op: op, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (*ast.Node, error) {
	tok := p.cur
	switch tok.Kind {
	case lexer.NUMBER:
		n, err := value.NewNumberFromString(tok.Literal)
		if err != nil {
			return nil, p.parseErrorf(tok.Pos, "%s", err.Error())
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Literal, Pos: tok.Pos, Lit: n}, nil

	case lexer.BOOL:
		b := tok.Literal == "true" || tok.Literal == "True"
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Literal, Pos: tok.Pos, Lit: value.NewBool(b)}, nil

	case lexer.STRING:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Literal, Pos: tok.Pos, Lit: value.NewString(tok.Literal)}, nil

	case lexer.IDENT:
		return p.parseIdentOrCall()

	case lexer.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != lexer.RPAREN {
			return nil, p.parseErrorf(p.cur.Pos, "expected ')', found %s", p.cur.String())
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	case lexer.LBRACK:
		return p.parseList()

	case lexer.LBRACE:
		return p.parseMap()

	default:
		return nil, p.parseErrorf(tok.Pos, "unexpected token %s", tok.String())
	}
}

func (p *Parser) parseIdentOrCall() (*ast.Node, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	if tok.Literal == "None" {
		return ast.NoneNode(tok.Pos), nil
	}

	if p.cur.Kind != lexer.LPAREN {
		return &ast.Node{Kind: ast.Reference, Pos: tok.Pos, Name: tok.Literal}, nil
	}

	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	args, err := p.parseArgList(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.RPAREN {
		return nil, p.parseErrorf(p.cur.Pos, "expected ')', found %s", p.cur.String())
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return &ast.Node{Kind: ast.Call, Pos: tok.Pos, Name: tok.Literal, Elements: args}, nil
}

// parseArgList parses a comma-separated expression list up to (but not
// consuming) the closing token. A trailing comma is not allowed (spec.md
// §4.4: "trailing comma not allowed").
func (p *Parser) parseArgList(closing lexer.Kind) ([]*ast.Node, error) {
	var args []*ast.Node
	if p.cur.Kind == closing {
		return args, nil
	}
	for {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.cur.Kind == lexer.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Kind == closing {
				return nil, p.parseErrorf(p.cur.Pos, "trailing comma not allowed")
			}
			continue
		}
		return args, nil
	}
}

func (p *Parser) parseList() (*ast.Node, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	elements, err := p.parseArgList(lexer.RBRACK)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.RBRACK {
		return nil, p.parseErrorf(p.cur.Pos, "expected ']', found %s", p.cur.String())
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.List, Pos: pos, Elements: elements}, nil
}

func (p *Parser) parseMap() (*ast.Node, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}

	var pairs []ast.Pair
	if p.cur.Kind != lexer.RBRACE {
		for {
			key, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			if p.cur.Kind != lexer.COLON {
				return nil, p.parseErrorf(p.cur.Pos, "expected ':' in map entry, found %s", p.cur.String())
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			val, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ast.Pair{Key: key, Val: val})

			if p.cur.Kind == lexer.COMMA {
				if err := p.advance(); err != nil {
					return nil, err
				}
				if p.cur.Kind == lexer.RBRACE {
					return nil, p.parseErrorf(p.cur.Pos, "trailing comma not allowed")
				}
				continue
			}
			break
		}
	}

	if p.cur.Kind != lexer.RBRACE {
		return nil, p.parseErrorf(p.cur.Pos, "expected '}', found %s", p.cur.String())
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Map, Pos: pos, Pairs: pairs}, nil
}
