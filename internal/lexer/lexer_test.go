package lexer

import "testing"

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("lex %q: %v", src, err)
		}
		out = append(out, tok)
		if tok.Kind == EOF {
			return out
		}
	}
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks := lexAll(t, "true false null and or let in foo")
	wantKinds := []Kind{TRUE, FALSE, NULL, AND, OR, LET, IN, IDENT, EOF}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantKinds), toks)
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexVarName(t *testing.T) {
	toks := lexAll(t, "$foo")
	if toks[0].Kind != VARNAME || toks[0].Lexeme != "foo" {
		t.Fatalf("got %+v, want VARNAME \"foo\"", toks[0])
	}
}

func TestLexVarNameRequiresIdentifier(t *testing.T) {
	l := New("$ ")
	if _, err := l.Next(); err == nil {
		t.Fatalf("expected an error lexing a bare '$'")
	}
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.14", 3.14},
		{"1e3", 1000},
		{"1.5e-2", 0.015},
		{"2E+2", 200},
	}
	for _, tt := range tests {
		toks := lexAll(t, tt.src)
		if toks[0].Kind != NUMBER || toks[0].Num != tt.want {
			t.Fatalf("lex %q = %+v, want NUMBER %v", tt.src, toks[0], tt.want)
		}
	}
}

func TestLexStringEscapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"hi"`, "hi"},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"quote\""`, `quote"`},
		{`'single'`, "single"},
		{`"\x41"`, "A"},
		{`"A"`, "A"},
		{`"\u{1F600}"`, "\U0001F600"},
	}
	for _, tt := range tests {
		toks := lexAll(t, tt.src)
		if toks[0].Kind != STRING || toks[0].Str != tt.want {
			t.Fatalf("lex %q = %+v, want STRING %q", tt.src, toks[0], tt.want)
		}
	}
}

func TestLexUnterminatedStringErrors(t *testing.T) {
	l := New(`"no closing quote`)
	if _, err := l.Next(); err == nil {
		t.Fatalf("expected an error lexing an unterminated string")
	}
}

func TestLexTemplateCapturesRawBody(t *testing.T) {
	toks := lexAll(t, "`hello {name}!`")
	if toks[0].Kind != TEMPLATE || toks[0].Lexeme != "hello {name}!" {
		t.Fatalf("got %+v, want TEMPLATE \"hello {name}!\"", toks[0])
	}
}

func TestLexOperators(t *testing.T) {
	src := "+ - * / % = != < <= > >= ! ? : ?? , . ( ) [ ] { } => :="
	wantKinds := []Kind{
		PLUS, MINUS, STAR, SLASH, PERCENT, ASSIGN_EQ, NOT_EQ, LT, LE, GT, GE,
		NOT, QUESTION, COLON, COALESCE, COMMA, DOT, LPAREN, RPAREN, LBRACKET,
		RBRACKET, LBRACE, RBRACE, FATARROW, WALRUS, EOF,
	}
	toks := lexAll(t, src)
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantKinds), toks)
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d (%q) kind = %v, want %v", i, toks[i].Lexeme, toks[i].Kind, k)
		}
	}
}

func TestLexSkipsLineAndBlockComments(t *testing.T) {
	toks := lexAll(t, "1 // trailing comment\n+ /* block\ncomment */ 2")
	wantKinds := []Kind{NUMBER, PLUS, NUMBER, EOF}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantKinds), toks)
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexUnexpectedCharacterErrors(t *testing.T) {
	l := New("#")
	if _, err := l.Next(); err == nil {
		t.Fatalf("expected an error lexing '#'")
	}
}

func TestDecodeEscapes(t *testing.T) {
	got, err := DecodeEscapes(`line1\nline2\t\{escaped\}`)
	if err != nil {
		t.Fatalf("DecodeEscapes: %v", err)
	}
	want := "line1\nline2\t{escaped}"
	if got != want {
		t.Fatalf("DecodeEscapes = %q, want %q", got, want)
	}
}

func TestLexTracksLineAndColumn(t *testing.T) {
	l := New("a\nb")
	first, _ := l.Next()
	if first.Pos.Line != 1 || first.Pos.Col != 1 {
		t.Fatalf("first token pos = %+v, want line 1 col 1", first.Pos)
	}
	second, _ := l.Next()
	if second.Pos.Line != 2 || second.Pos.Col != 1 {
		t.Fatalf("second token pos = %+v, want line 2 col 1", second.Pos)
	}
}
