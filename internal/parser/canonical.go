package parser

import (
	"strconv"
	"strings"

	"github.com/cwbudde/formexpr/internal/ast"
)

// ToCanonical renders e in the prefix-dispatched, comma-separated on-wire
// grammar, applying the two documented normalizations: a
// container-valued ValueLit becomes Call("object", …) or Array(…).
func ToCanonical(e ast.Expr) string {
	var sb strings.Builder
	writeCanonical(&sb, Normalize(e))
	return sb.String()
}

// Normalize rewrites container-valued ValueLit nodes into their sugar form
// (object literal -> Call("object", k, v, …), array literal -> Array(…)),
// recursively, so that parse(canonical(e)) can equal normalize(e).
func Normalize(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.ValueLit:
		switch n.V.Kind() {
		case ast.KindObject:
			obj, _ := n.V.ObjectVal()
			var args []ast.Expr
			for _, k := range obj.Keys() {
				args = append(args, ast.NewValueLit(ast.Str(k), n.Loc()), Normalize(ast.NewValueLit(obj.Get(k), n.Loc())))
			}
			return ast.NewCall("object", args, n.Loc())
		case ast.KindArray:
			elems, _ := n.V.ArrayVal()
			exprs := make([]ast.Expr, len(elems))
			for i, el := range elems {
				exprs[i] = Normalize(ast.NewValueLit(el, n.Loc()))
			}
			return ast.NewArray(exprs, n.Loc())
		default:
			return n
		}
	case *ast.Array:
		exprs := make([]ast.Expr, len(n.Elems))
		for i, el := range n.Elems {
			exprs[i] = Normalize(el)
		}
		return ast.NewArray(exprs, n.Loc())
	case *ast.Call:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = Normalize(a)
		}
		return ast.NewCall(n.Fn, args, n.Loc())
	case *ast.Lambda:
		return ast.NewLambda(n.Param, Normalize(n.Body), n.Loc())
	case *ast.Let:
		bindings := make([]ast.LetBinding, len(n.Bindings))
		for i, b := range n.Bindings {
			bindings[i] = ast.LetBinding{Name: b.Name, Expr: Normalize(b.Expr)}
		}
		return ast.NewLet(bindings, Normalize(n.Body), n.Loc())
	default:
		return e
	}
}

func writeCanonical(sb *strings.Builder, e ast.Expr) {
	switch n := e.(type) {
	case *ast.ValueLit:
		writeCanonicalValue(sb, n.V)
	case *ast.Var:
		sb.WriteByte('$')
		sb.WriteString(n.Name)
		sb.WriteByte('$')
	case *ast.Property:
		sb.WriteByte('\'')
		sb.WriteString(escapeCanon(n.Name, '\''))
		sb.WriteByte('\'')
	case *ast.Array:
		sb.WriteByte('[')
		for _, el := range n.Elems {
			sb.WriteByte(',')
			writeCanonical(sb, el)
		}
		sb.WriteByte(']')
	case *ast.Call:
		sb.WriteByte('(')
		sb.WriteString(n.Fn)
		for _, a := range n.Args {
			sb.WriteByte(',')
			writeCanonical(sb, a)
		}
		sb.WriteByte(')')
	case *ast.Lambda:
		sb.WriteByte('\\')
		sb.WriteString(n.Param)
		sb.WriteByte(',')
		writeCanonical(sb, n.Body)
	case *ast.Let:
		sb.WriteByte('=')
		for _, b := range n.Bindings {
			sb.WriteByte(',')
			sb.WriteString(b.Name)
			sb.WriteByte(',')
			writeCanonical(sb, b.Expr)
		}
		sb.WriteByte('=')
		writeCanonical(sb, n.Body)
	}
}

func writeCanonicalValue(sb *strings.Builder, v *ast.Value) {
	switch v.Kind() {
	case ast.KindNull:
		sb.WriteByte('n')
	case ast.KindBool:
		b, _ := v.BoolVal()
		if b {
			sb.WriteByte('t')
		} else {
			sb.WriteByte('f')
		}
	case ast.KindNumber:
		n, _ := v.NumberVal()
		sb.WriteByte('d')
		sb.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
	case ast.KindString:
		s, _ := v.StringVal()
		sb.WriteByte('"')
		sb.WriteString(escapeCanon(s, '"'))
		sb.WriteByte('"')
	case ast.KindArray, ast.KindObject:
		// handled by Normalize before we get here.
	}
}

func escapeCanon(s string, quote byte) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == quote {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func unescapeCanon(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			sb.WriteByte(s[i])
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// FromCanonical parses the canonical on-wire grammar back into an Expr.
func FromCanonical(s string) (ast.Expr, error) {
	cp := &canonParser{s: s}
	e, err := cp.parse()
	if err != nil {
		return nil, err
	}
	if cp.pos != len(cp.s) {
		return nil, &ParseError{Message: "trailing data after canonical expression"}
	}
	return e, nil
}

type canonParser struct {
	s   string
	pos int
}

func (cp *canonParser) errf(msg string) error {
	return &ParseError{Message: msg + " at offset " + strconv.Itoa(cp.pos)}
}

func (cp *canonParser) peek() byte {
	if cp.pos >= len(cp.s) {
		return 0
	}
	return cp.s[cp.pos]
}

func (cp *canonParser) expectByte(c byte) error {
	if cp.peek() != c {
		return cp.errf("expected '" + string(c) + "'")
	}
	cp.pos++
	return nil
}

// readUntil scans until an unescaped occurrence of term, returning the
// unescaped content (term itself consumed).
func (cp *canonParser) readUntil(term byte) (string, error) {
	start := cp.pos
	for cp.pos < len(cp.s) {
		c := cp.s[cp.pos]
		if c == '\\' {
			cp.pos += 2
			continue
		}
		if c == term {
			raw := cp.s[start:cp.pos]
			cp.pos++
			return unescapeCanon(raw), nil
		}
		cp.pos++
	}
	return "", cp.errf("unterminated literal")
}

func (cp *canonParser) readIdent() string {
	start := cp.pos
	for cp.pos < len(cp.s) && cp.s[cp.pos] != ',' && cp.s[cp.pos] != '=' {
		cp.pos++
	}
	return cp.s[start:cp.pos]
}

func (cp *canonParser) readFnName() string {
	// Function names run up to the first comma or the closing ')'.
	start := cp.pos
	for cp.pos < len(cp.s) && cp.s[cp.pos] != ',' && cp.s[cp.pos] != ')' {
		cp.pos++
	}
	return cp.s[start:cp.pos]
}

func (cp *canonParser) parse() (ast.Expr, error) {
	if cp.pos >= len(cp.s) {
		return nil, cp.errf("unexpected end of canonical form")
	}
	switch cp.peek() {
	case 't':
		cp.pos++
		return ast.NewValueLit(ast.Bool(true), ast.Location{}), nil
	case 'f':
		cp.pos++
		return ast.NewValueLit(ast.Bool(false), ast.Location{}), nil
	case 'n':
		cp.pos++
		return ast.NewValueLit(ast.Null(), ast.Location{}), nil
	case 'd':
		cp.pos++
		start := cp.pos
		for cp.pos < len(cp.s) && strings.IndexByte("0123456789+-.eE", cp.s[cp.pos]) >= 0 {
			cp.pos++
		}
		f, err := strconv.ParseFloat(cp.s[start:cp.pos], 64)
		if err != nil {
			return nil, cp.errf("invalid double literal")
		}
		return ast.NewValueLit(ast.Number(f), ast.Location{}), nil
	case '"':
		cp.pos++
		s, err := cp.readUntil('"')
		if err != nil {
			return nil, err
		}
		return ast.NewValueLit(ast.Str(s), ast.Location{}), nil
	case '\'':
		cp.pos++
		s, err := cp.readUntil('\'')
		if err != nil {
			return nil, err
		}
		return ast.NewProperty(s, ast.Location{}), nil
	case '$':
		cp.pos++
		s, err := cp.readUntil('$')
		if err != nil {
			return nil, err
		}
		return ast.NewVar(s, ast.Location{}), nil
	case '[':
		cp.pos++
		var elems []ast.Expr
		for cp.peek() == ',' {
			cp.pos++
			e, err := cp.parse()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if err := cp.expectByte(']'); err != nil {
			return nil, err
		}
		return ast.NewArray(elems, ast.Location{}), nil
	case '(':
		cp.pos++
		fn := cp.readFnName()
		var args []ast.Expr
		for cp.peek() == ',' {
			cp.pos++
			e, err := cp.parse()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
		if err := cp.expectByte(')'); err != nil {
			return nil, err
		}
		return ast.NewCall(fn, args, ast.Location{}), nil
	case '\\':
		cp.pos++
		name := cp.readIdent()
		if err := cp.expectByte(','); err != nil {
			return nil, err
		}
		body, err := cp.parse()
		if err != nil {
			return nil, err
		}
		return ast.NewLambda(name, body, ast.Location{}), nil
	case '=':
		cp.pos++
		var bindings []ast.LetBinding
		for cp.peek() == ',' {
			cp.pos++
			name := cp.readIdent()
			if err := cp.expectByte(','); err != nil {
				return nil, err
			}
			val, err := cp.parse()
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, ast.LetBinding{Name: name, Expr: val})
		}
		if err := cp.expectByte('='); err != nil {
			return nil, err
		}
		body, err := cp.parse()
		if err != nil {
			return nil, err
		}
		return ast.NewLet(bindings, body, ast.Location{}), nil
	default:
		return nil, cp.errf("unrecognized canonical token leader")
	}
}
