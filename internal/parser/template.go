package parser

import (
	"github.com/cwbudde/formexpr/internal/ast"
	"github.com/cwbudde/formexpr/internal/lexer"
)

// parseTemplate splits a raw backtick body into literal runs and `{expr}`
// interpolations, recursively parsing each interpolation with a fresh
// Parser. A single literal run collapses to a plain string constant; a
// single bare interpolation collapses to that expression directly; two or
// more parts sugar to Call("string", parts...).
func (p *Parser) parseTemplate(tok lexer.Token) (ast.Expr, error) {
	loc := p.loc(tok)
	parts, err := splitTemplate(tok.Lexeme)
	if err != nil {
		return nil, &ParseError{Loc: loc, Message: err.Error()}
	}
	var exprs []ast.Expr
	for _, part := range parts {
		if part.isExpr {
			sub := &Parser{lex: lexer.New(part.text), file: p.file}
			if err := sub.advance(); err != nil {
				return nil, err
			}
			e, err := sub.parseTernary()
			if err != nil {
				return nil, err
			}
			if sub.cur.Kind != lexer.EOF {
				return nil, sub.errorf("unexpected trailing token %q in template interpolation", sub.cur.Lexeme)
			}
			exprs = append(exprs, e)
			continue
		}
		decoded, err := lexer.DecodeEscapes(part.text)
		if err != nil {
			return nil, &ParseError{Loc: loc, Message: err.Error()}
		}
		exprs = append(exprs, ast.NewValueLit(ast.Str(decoded), loc))
	}
	switch len(exprs) {
	case 0:
		return ast.NewValueLit(ast.Str(""), loc), nil
	case 1:
		return exprs[0], nil
	default:
		return ast.NewCall("string", exprs, loc), nil
	}
}

type templatePart struct {
	text   string
	isExpr bool
}

// splitTemplate scans a template's raw body for unescaped `{...}`
// interpolations, tracking brace depth so a nested object literal inside an
// interpolation doesn't end it early. `\{` and `\}` are literal braces.
func splitTemplate(body string) ([]templatePart, error) {
	var parts []templatePart
	var lit []byte
	i := 0
	for i < len(body) {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			lit = append(lit, body[i], body[i+1])
			i += 2
			continue
		}
		if c == '{' {
			if len(lit) > 0 {
				parts = append(parts, templatePart{text: string(lit)})
				lit = nil
			}
			depth := 1
			j := i + 1
			for j < len(body) && depth > 0 {
				switch body[j] {
				case '{':
					depth++
				case '}':
					depth--
				case '\\':
					j++
				}
				j++
			}
			if depth != 0 {
				return nil, &lexer.Error{Message: "unterminated '{' interpolation in template"}
			}
			parts = append(parts, templatePart{text: body[i+1 : j-1], isExpr: true})
			i = j
			continue
		}
		lit = append(lit, c)
		i++
	}
	if len(lit) > 0 {
		parts = append(parts, templatePart{text: string(lit)})
	}
	return parts, nil
}
