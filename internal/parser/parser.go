// Package parser turns source text into the expression AST and
// provides the lossless canonical serialization used for
// persistence and round-trip fuzz testing.
package parser

import (
	"fmt"

	"github.com/cwbudde/formexpr/internal/ast"
	"github.com/cwbudde/formexpr/internal/lexer"
)

// ParseError is returned at the first unrecoverable token.
type ParseError struct {
	Loc     ast.Location
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

// Parser is a recursive-descent parser over a one-token lookahead buffer.
type Parser struct {
	lex  *lexer.Lexer
	file string
	cur  lexer.Token
	err  error
}

// Parse parses text into an Expr, or returns a *ParseError.
func Parse(text string, file string) (ast.Expr, error) {
	p := &Parser{lex: lexer.New(text), file: file}
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.EOF {
		return nil, p.errorf("unexpected trailing token %q", p.cur.Lexeme)
	}
	return expr, nil
}

func (p *Parser) loc(tok lexer.Token) ast.Location {
	return ast.Location{File: p.file, Start: tok.Pos.Offset, Line: tok.Pos.Line, Col: tok.Pos.Col}
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			return &ParseError{
				Loc:     ast.Location{File: p.file, Start: lexErr.Pos.Offset, Line: lexErr.Pos.Line, Col: lexErr.Pos.Col},
				Message: lexErr.Message,
			}
		}
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Loc: p.loc(p.cur), Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(k lexer.Kind, what string) (lexer.Token, error) {
	if p.cur.Kind != k {
		return lexer.Token{}, p.errorf("expected %s, got %q", what, p.cur.Lexeme)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

// parseTernary : ternary is the lowest-precedence level, `c ? t : e`.
func (p *Parser) parseTernary() (ast.Expr, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.QUESTION {
		return cond, nil
	}
	start := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON, "':'"); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return ast.NewCall("?", []ast.Expr{cond, then, els}, p.loc(start)), nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.OR {
		start := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewCall("or", []ast.Expr{left, right}, p.loc(start))
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.AND {
		start := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = ast.NewCall("and", []ast.Expr{left, right}, p.loc(start))
	}
	return left, nil
}

var relOps = map[lexer.Kind]string{
	lexer.LT: "<", lexer.LE: "<=", lexer.GT: ">", lexer.GE: ">=",
	lexer.ASSIGN_EQ: "=", lexer.NOT_EQ: "!=",
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := relOps[p.cur.Kind]
		if !ok {
			return left, nil
		}
		start := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.NewCall(op, []ast.Expr{left, right}, p.loc(start))
	}
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.PLUS || p.cur.Kind == lexer.MINUS {
		op := "+"
		if p.cur.Kind == lexer.MINUS {
			op = "-"
		}
		start := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewCall(op, []ast.Expr{left, right}, p.loc(start))
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseCoalesce()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.STAR || p.cur.Kind == lexer.SLASH || p.cur.Kind == lexer.PERCENT {
		op := map[lexer.Kind]string{lexer.STAR: "*", lexer.SLASH: "/", lexer.PERCENT: "%"}[p.cur.Kind]
		start := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseCoalesce()
		if err != nil {
			return nil, err
		}
		left = ast.NewCall(op, []ast.Expr{left, right}, p.loc(start))
	}
	return left, nil
}

// parseCoalesce handles `??`, binding between multiplicative and map/filter.
// Its precedence relative to the other operators isn't fixed elsewhere, so
// it is treated here at the tightest binary level, just above multiplicative,
// so `a ?? b * c` parses as `(a ?? b) * c`.
func (p *Parser) parseCoalesce() (ast.Expr, error) {
	left, err := p.parseMap()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.COALESCE {
		start := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMap()
		if err != nil {
			return nil, err
		}
		left = ast.NewCall("??", []ast.Expr{left, right}, p.loc(start))
	}
	return left, nil
}

// parseMap handles `.`, the looser of the two tiers: it loops only on DOT,
// recursing each operand through parseFilter so that `[` binds tighter than
// `.` — `items.values[0]` parses as `items.(values[0])`, not `(items.values)[0]`.
func (p *Parser) parseMap() (ast.Expr, error) {
	left, err := p.parseFilter()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.DOT {
		start := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		left = ast.NewCall(".", []ast.Expr{left, right}, p.loc(start))
	}
	return left, nil
}

// parseFilter handles `[`, the tighter of the two tiers: it loops only on
// LBRACKET, recursing its left operand through parseUnary.
func (p *Parser) parseFilter() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.LBRACKET {
		start := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		idx, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACKET, "']'"); err != nil {
			return nil, err
		}
		left = ast.NewCall("[", []ast.Expr{left, idx}, p.loc(start))
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur.Kind {
	case lexer.NOT:
		start := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewCall("!", []ast.Expr{operand}, p.loc(start)), nil
	case lexer.MINUS:
		start := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		zero := ast.NewValueLit(ast.Number(0), p.loc(start))
		return ast.NewCall("-", []ast.Expr{zero, operand}, p.loc(start)), nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.cur.Kind == lexer.RPAREN {
		return args, nil
	}
	for {
		arg, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Kind != lexer.COMMA {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur
	loc := p.loc(tok)
	switch tok.Kind {
	case lexer.NUMBER:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewValueLit(ast.Number(tok.Num), loc), nil
	case lexer.STRING:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewValueLit(ast.Str(tok.Str), loc), nil
	case lexer.TEMPLATE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseTemplate(tok)
	case lexer.TRUE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewValueLit(ast.Bool(true), loc), nil
	case lexer.FALSE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewValueLit(ast.Bool(false), loc), nil
	case lexer.NULL:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewValueLit(ast.Null(), loc), nil
	case lexer.IDENT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewProperty(tok.Lexeme, loc), nil
	case lexer.VARNAME:
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.cur.Kind {
		case lexer.LPAREN:
			if err := p.advance(); err != nil {
				return nil, err
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
				return nil, err
			}
			return ast.NewCall(tok.Lexeme, args, loc), nil
		case lexer.FATARROW:
			if err := p.advance(); err != nil {
				return nil, err
			}
			body, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			return ast.NewLambda(tok.Lexeme, body, loc), nil
		default:
			return ast.NewVar(tok.Lexeme, loc), nil
		}
	case lexer.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.LBRACKET:
		if err := p.advance(); err != nil {
			return nil, err
		}
		var elems []ast.Expr
		for p.cur.Kind != lexer.RBRACKET {
			e, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.cur.Kind == lexer.COMMA {
				if err := p.advance(); err != nil {
					return nil, err
				}
			} else {
				break
			}
		}
		if _, err := p.expect(lexer.RBRACKET, "']'"); err != nil {
			return nil, err
		}
		return ast.NewArray(elems, loc), nil
	case lexer.LBRACE:
		return p.parseObjectLiteral(tok)
	case lexer.LET:
		return p.parseLet(tok)
	default:
		return nil, p.errorf("unexpected token %q", tok.Lexeme)
	}
}

func (p *Parser) parseObjectLiteral(start lexer.Token) (ast.Expr, error) {
	loc := p.loc(start)
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for p.cur.Kind != lexer.RBRACE {
		var key string
		keyLoc := p.loc(p.cur)
		switch p.cur.Kind {
		case lexer.IDENT:
			key = p.cur.Lexeme
			if err := p.advance(); err != nil {
				return nil, err
			}
		case lexer.STRING:
			key = p.cur.Str
			if err := p.advance(); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf("expected object key, got %q", p.cur.Lexeme)
		}
		if _, err := p.expect(lexer.COLON, "':'"); err != nil {
			return nil, err
		}
		val, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		args = append(args, ast.NewValueLit(ast.Str(key), keyLoc), val)
		if p.cur.Kind == lexer.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			break
		}
	}
	if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewCall("object", args, loc), nil
}

func (p *Parser) parseLet(start lexer.Token) (ast.Expr, error) {
	loc := p.loc(start)
	if err := p.advance(); err != nil {
		return nil, err
	}
	var bindings []ast.LetBinding
	for {
		name, err := p.expect(lexer.VARNAME, "'$name'")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.WALRUS, "':='"); err != nil {
			return nil, err
		}
		val, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, ast.LetBinding{Name: name.Lexeme, Expr: val})
		if p.cur.Kind == lexer.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(lexer.IN, "'in'"); err != nil {
		return nil, err
	}
	body, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return ast.NewLet(bindings, body, loc), nil
}
