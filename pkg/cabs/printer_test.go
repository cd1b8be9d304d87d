package cabs

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintFuncDefWithParamsAndReturn(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(&Program{Decls: []ExternalDecl{
		FuncDef{
			Specs: []string{"int"}, Name: "add",
			Params: []Param{{Specs: []string{"int"}, Name: "a"}, {Specs: []string{"int"}, Name: "b"}},
			Body: &Block{Items: []Stmt{
				Return{Expr: Binary{Op: OpAdd, Left: Ident{Name: "a"}, Right: Ident{Name: "b"}}},
			}},
		},
	}})

	out := buf.String()
	for _, want := range []string{"int add(int a, int b)", "return (a + b);"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestPrintSkippedDecl(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(&Program{Decls: []ExternalDecl{Skipped{Reason: "typedef"}}})
	if !strings.Contains(buf.String(), "skipped: typedef") {
		t.Errorf("expected skipped-reason comment, got %q", buf.String())
	}
}

func TestPrintStaticStorageClass(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(&Program{Decls: []ExternalDecl{
		FuncDef{StorageClass: "static", Specs: []string{"void"}, Name: "f", Body: &Block{}},
	}})
	if !strings.HasPrefix(buf.String(), "static void f()") {
		t.Errorf("expected static prefix, got %q", buf.String())
	}
}

func TestPrintPostfixVsPrefixUnary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printExpr(Unary{Op: OpPostInc, Arg: Ident{Name: "i"}})
	p.printExpr(Unary{Op: OpPreDec, Arg: Ident{Name: "j"}})
	if got, want := buf.String(), "i++--j"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintCast(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printExpr(Cast{Specs: []string{"unsigned", "long"}, Arg: Ident{Name: "x"}})
	if got, want := buf.String(), "(unsigned long)x"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
