package printer

import (
	"testing"

	"github.com/cwbudde/formexpr/internal/ast"
	"github.com/cwbudde/formexpr/internal/parser"
)

func roundTripPrint(t *testing.T, src string) string {
	t.Helper()
	e, err := parser.Parse(src, "<test>")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return Print(e)
}

func TestPrintMinimalParens(t *testing.T) {
	tests := []struct{ src, want string }{
		{"a + b * c", "a + b * c"},
		{"(a + b) * c", "(a + b) * c"},
		{"a - (b - c)", "a - (b - c)"},
		{"a - b - c", "a - b - c"},
		{"-a", "-a"},
		{"!a", "!a"},
		{"a and b or c", "a and b or c"},
	}
	for _, tt := range tests {
		if got := roundTripPrint(t, tt.src); got != tt.want {
			t.Errorf("Print(parse(%q)) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPrintTernary(t *testing.T) {
	if got := roundTripPrint(t, "cond ? a : b"); got != "cond ? a : b" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintVarAndProperty(t *testing.T) {
	if got := roundTripPrint(t, "$x"); got != "$x" {
		t.Fatalf("Print($x) = %q, want \"$x\"", got)
	}
	if got := roundTripPrint(t, "price"); got != "price" {
		t.Fatalf("Print(price) = %q, want \"price\"", got)
	}
}

func TestPrintCallUsesDollarPrefix(t *testing.T) {
	if got := roundTripPrint(t, "$sum(a, b)"); got != "$sum(a, b)" {
		t.Fatalf("got %q, want \"$sum(a, b)\"", got)
	}
}

func TestPrintLet(t *testing.T) {
	if got := roundTripPrint(t, "let $x := 1, $y := $x + 1 in $y"); got != "let $x := 1, $y := $x + 1 in $y" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintLambda(t *testing.T) {
	if got := roundTripPrint(t, "$i => $i + 1"); got != "$i => $i + 1" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintObjectLiteral(t *testing.T) {
	got := roundTripPrint(t, `{a: 1, "b-c": 2}`)
	want := `{a: 1, "b-c": 2}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintArrayLiteral(t *testing.T) {
	if got := roundTripPrint(t, "[1, 2, 3]"); got != "[1, 2, 3]" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintMapFilter(t *testing.T) {
	if got := roundTripPrint(t, "items . values"); got != "items.values" {
		t.Fatalf("got %q, want \"items.values\"", got)
	}
	if got := roundTripPrint(t, "arr[0]"); got != "arr[0]" {
		t.Fatalf("got %q, want \"arr[0]\"", got)
	}
}

// TestPrintFilterBindsTighterThanMap confirms the printer's precedence
// split between `.` and `[` round-trips both orderings without losing or
// adding parentheses that would change which operator applies first.
func TestPrintFilterBindsTighterThanMap(t *testing.T) {
	if got := roundTripPrint(t, "items.values[0]"); got != "items.values[0]" {
		t.Fatalf("got %q, want \"items.values[0]\"", got)
	}
	if got := roundTripPrint(t, "(items.values)[0]"); got != "(items.values)[0]" {
		t.Fatalf("got %q, want \"(items.values)[0]\"", got)
	}
}

func TestPrintStringEscaping(t *testing.T) {
	e, err := parser.Parse(`"a\"b"`, "<test>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := Print(e); got != `"a\"b"` {
		t.Fatalf("Print = %q, want %q", got, `"a\"b"`)
	}
}

func TestPrintPathDottedAndBracketForm(t *testing.T) {
	p := ast.RootPath.Field("items").Index(2).Field("name")
	if got := PrintPath(p); got != "items[2].name" {
		t.Fatalf("PrintPath = %q, want \"items[2].name\"", got)
	}
}

func TestPrintPathRoot(t *testing.T) {
	if got := PrintPath(ast.RootPath); got != "" {
		t.Fatalf("PrintPath(RootPath) = %q, want \"\"", got)
	}
}
