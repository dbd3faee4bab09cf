// Package printer renders the AST back to source with minimal
// parenthesization, reconstructing the object-literal, array, and
// template-string sugar that the parser desugars on the way in.
package printer

import (
	"strconv"
	"strings"

	"github.com/cwbudde/formexpr/internal/ast"
)

// precedence levels, matching the parser's climbing order: higher
// binds tighter. Anything not a recognized operator call (a bare $fn(...)
// call, a Var/Property/ValueLit/Array/Lambda/Let) is primary: 10.
const (
	precTernary = iota
	precOr
	precAnd
	precRelational
	precAdditive
	precMultiplicative
	precCoalesce
	precMap
	precFilter
	precUnary
	precPrimary
)

var binaryPrec = map[string]int{
	"or": precOr, "and": precAnd,
	"=": precRelational, "!=": precRelational, "<": precRelational, "<=": precRelational, ">": precRelational, ">=": precRelational,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
	"??": precCoalesce,
}

// Print renders e as source text.
func Print(e ast.Expr) string {
	var sb strings.Builder
	print_(&sb, e, 0)
	return sb.String()
}

// PrintPath renders a Path using dotted notation for string segments and
// bracket notation for integer segments — distinct from
// ast.Path.String, which uses dotted notation uniformly for dep-set keys.
func PrintPath(p ast.Path) string {
	segs := pathSegments(p)
	var sb strings.Builder
	for i, seg := range segs {
		if seg.isIdx {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.index))
			sb.WriteByte(']')
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.field)
	}
	return sb.String()
}

type pathSeg struct {
	field string
	index int
	isIdx bool
}

func pathSegments(p ast.Path) []pathSeg {
	var out []pathSeg
	for {
		parent, ok := p.Parent()
		if !ok {
			return out
		}
		field, index, isIdx := p.Segment()
		out = append([]pathSeg{{field: field, index: index, isIdx: isIdx}}, out...)
		p = parent
	}
}

func precedenceOf(e ast.Expr) int {
	call, ok := e.(*ast.Call)
	if !ok {
		return precPrimary
	}
	if call.Fn == "-" && len(call.Args) == 2 && isZeroLit(call.Args[0]) {
		return precUnary
	}
	if call.Fn == "!" && len(call.Args) == 1 {
		return precUnary
	}
	if call.Fn == "?" && len(call.Args) == 3 {
		return precTernary
	}
	if call.Fn == "." && len(call.Args) == 2 {
		return precMap
	}
	if call.Fn == "[" && len(call.Args) == 2 {
		return precFilter
	}
	if p, ok := binaryPrec[call.Fn]; ok && len(call.Args) == 2 {
		return p
	}
	return precPrimary
}

func isZeroLit(e ast.Expr) bool {
	lit, ok := e.(*ast.ValueLit)
	if !ok {
		return false
	}
	n, ok := lit.V.NumberVal()
	return ok && n == 0
}

func printChild(sb *strings.Builder, e ast.Expr, minPrec int) {
	if precedenceOf(e) < minPrec {
		sb.WriteByte('(')
		print_(sb, e, 0)
		sb.WriteByte(')')
		return
	}
	print_(sb, e, minPrec)
}

func print_(sb *strings.Builder, e ast.Expr, minPrec int) {
	switch n := e.(type) {
	case *ast.ValueLit:
		printValue(sb, n.V)
	case *ast.Var:
		sb.WriteByte('$')
		sb.WriteString(n.Name)
	case *ast.Property:
		sb.WriteString(n.Name)
	case *ast.Array:
		sb.WriteByte('[')
		for i, el := range n.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			printChild(sb, el, 0)
		}
		sb.WriteByte(']')
	case *ast.Lambda:
		sb.WriteByte('$')
		sb.WriteString(n.Param)
		sb.WriteString(" => ")
		printChild(sb, n.Body, 0)
	case *ast.Let:
		sb.WriteString("let ")
		for i, b := range n.Bindings {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('$')
			sb.WriteString(b.Name)
			sb.WriteString(" := ")
			printChild(sb, b.Expr, 0)
		}
		sb.WriteString(" in ")
		printChild(sb, n.Body, 0)
	case *ast.Call:
		printCall(sb, n)
	}
}

func printCall(sb *strings.Builder, n *ast.Call) {
	switch {
	case n.Fn == "object" && len(n.Args)%2 == 0:
		printObject(sb, n)
		return
	case n.Fn == "string":
		printTemplate(sb, n)
		return
	case n.Fn == "?" && len(n.Args) == 3:
		printChild(sb, n.Args[0], precOr)
		sb.WriteString(" ? ")
		printChild(sb, n.Args[1], 0)
		sb.WriteString(" : ")
		printChild(sb, n.Args[2], 0)
		return
	case n.Fn == "!" && len(n.Args) == 1:
		sb.WriteByte('!')
		printChild(sb, n.Args[0], precUnary)
		return
	case n.Fn == "-" && len(n.Args) == 2 && isZeroLit(n.Args[0]):
		sb.WriteByte('-')
		printChild(sb, n.Args[1], precUnary)
		return
	case n.Fn == "." && len(n.Args) == 2:
		printChild(sb, n.Args[0], precMap)
		sb.WriteByte('.')
		printChild(sb, n.Args[1], precFilter)
		return
	case n.Fn == "[" && len(n.Args) == 2:
		printChild(sb, n.Args[0], precFilter)
		sb.WriteByte('[')
		printChild(sb, n.Args[1], 0)
		sb.WriteByte(']')
		return
	}
	if p, ok := binaryPrec[n.Fn]; ok && len(n.Args) == 2 {
		printChild(sb, n.Args[0], p)
		sb.WriteByte(' ')
		sb.WriteString(n.Fn)
		sb.WriteByte(' ')
		printChild(sb, n.Args[1], p+1)
		return
	}
	// regular built-in call: $fn(args...)
	sb.WriteByte('$')
	sb.WriteString(n.Fn)
	sb.WriteByte('(')
	for i, a := range n.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		printChild(sb, a, 0)
	}
	sb.WriteByte(')')
}

func printObject(sb *strings.Builder, n *ast.Call) {
	sb.WriteByte('{')
	for i := 0; i < len(n.Args); i += 2 {
		if i > 0 {
			sb.WriteString(", ")
		}
		keyLit, ok := n.Args[i].(*ast.ValueLit)
		key, isStr := "", false
		if ok {
			key, isStr = keyLit.V.StringVal()
		}
		if isStr && isIdentifier(key) {
			sb.WriteString(key)
		} else {
			sb.WriteByte('"')
			sb.WriteString(escapeStringLiteral(key))
			sb.WriteByte('"')
		}
		sb.WriteString(": ")
		printChild(sb, n.Args[i+1], 0)
	}
	sb.WriteByte('}')
}

func printTemplate(sb *strings.Builder, n *ast.Call) {
	sb.WriteByte('`')
	for _, part := range n.Args {
		if lit, ok := part.(*ast.ValueLit); ok {
			if s, ok := lit.V.StringVal(); ok {
				sb.WriteString(escapeTemplateLiteral(s))
				continue
			}
		}
		sb.WriteByte('{')
		printChild(sb, part, 0)
		sb.WriteByte('}')
	}
	sb.WriteByte('`')
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isAlpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if i > 0 && !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

func printValue(sb *strings.Builder, v *ast.Value) {
	switch v.Kind() {
	case ast.KindNull:
		sb.WriteString("null")
	case ast.KindBool:
		b, _ := v.BoolVal()
		if b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case ast.KindNumber:
		n, _ := v.NumberVal()
		sb.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
	case ast.KindString:
		s, _ := v.StringVal()
		sb.WriteByte('"')
		sb.WriteString(escapeStringLiteral(s))
		sb.WriteByte('"')
	case ast.KindArray:
		elems, _ := v.ArrayVal()
		sb.WriteByte('[')
		for i, el := range elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			printValue(sb, el)
		}
		sb.WriteByte(']')
	case ast.KindObject:
		obj, _ := v.ObjectVal()
		sb.WriteByte('{')
		for i, k := range obj.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			if isIdentifier(k) {
				sb.WriteString(k)
			} else {
				sb.WriteByte('"')
				sb.WriteString(escapeStringLiteral(k))
				sb.WriteByte('"')
			}
			sb.WriteString(": ")
			printValue(sb, obj.Get(k))
		}
		sb.WriteByte('}')
	}
}

func escapeStringLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func escapeTemplateLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '`':
			sb.WriteString("\\`")
		case '{':
			sb.WriteString(`\{`)
		case '}':
			sb.WriteString(`\}`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
