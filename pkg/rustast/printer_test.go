package rustast

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrintFunctionMatchesS1Scenario(t *testing.T) {
	// int f(void) { char a = 1; return a + 1; }
	// -> fn f() -> i32 { let mut a: i8 = 1; return ((a as i32) + 1); }
	fn := Function{
		Name:   "f",
		Return: "i32",
		Body: &Block{Stmts: []Stmt{
			Let{Mutable: true, Name: "a", Type: "i8", Init: IntLit{Value: 1}},
			Return{Expr: Binary{Op: "+", Left: Cast{Expr: Ident{Name: "a"}, Type: "i32"}, Right: IntLit{Value: 1}}},
		}},
	}

	var sb strings.Builder
	NewPrinter(&sb).PrintItems([]Item{fn})

	got := sb.String()
	want := "fn f() -> i32 {\n" +
		"    let mut a: i8 = 1;\n" +
		"    return ((a as i32) + 1);\n" +
		"}\n"
	if got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintIfElse(t *testing.T) {
	fn := Function{
		Name: "f",
		Body: &Block{Stmts: []Stmt{
			IfStmt{
				Cond: CmpZero{Expr: Ident{Name: "x"}},
				Then: &Block{Stmts: []Stmt{Return{Expr: IntLit{Value: 1}}}},
				Else: &Block{Stmts: []Stmt{Return{Expr: IntLit{Value: 0}}}},
			},
		}},
	}

	var sb strings.Builder
	NewPrinter(&sb).PrintItems([]Item{fn})

	want := "fn f() {\n" +
		"    if (x != 0) {\n" +
		"        return 1;\n" +
		"    } else {\n" +
		"        return 0;\n" +
		"    }\n" +
		"}\n"
	if sb.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", sb.String(), want)
	}
}

// TestItemTreeEquality exercises go-cmp over whole trees, standing
// in for the "translated AST is the same tree regardless of how it
// was built" emission-purity property these trees must hold.
func TestItemTreeEquality(t *testing.T) {
	a := []Item{Function{Name: "f", Body: &Block{Stmts: []Stmt{Return{}}}}}
	b := []Item{Function{Name: "f", Body: &Block{Stmts: []Stmt{Return{}}}}}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("expected identical trees, diff (-a +b):\n%s", diff)
	}
}
