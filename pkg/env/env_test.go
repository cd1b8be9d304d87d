package env

import (
	"testing"

	"github.com/cc-rust/transpiler/pkg/ctype"
)

func TestLookupMissing(t *testing.T) {
	e := New()
	if _, ok := e.Lookup("x"); ok {
		t.Error("expected Lookup on empty env to fail")
	}
}

func TestAddVarAndLookup(t *testing.T) {
	e := New()
	e.AddVar("x", ctype.Int())
	ty, ok := e.Lookup("x")
	if !ok {
		t.Fatal("expected x to be found")
	}
	if !ctype.Equal(ty, ctype.Int()) {
		t.Errorf("got %v, want int", ty)
	}
}

func TestShadowingReturnsMostRecent(t *testing.T) {
	e := New()
	e.AddVar("x", ctype.Int())
	e.AddVar("x", ctype.Float(ctype.F64))
	ty, _ := e.Lookup("x")
	if !ctype.Equal(ty, ctype.Float(ctype.F64)) {
		t.Errorf("shadowing: got %v, want float64", ty)
	}
}

func TestSaveRestoreScopeHygiene(t *testing.T) {
	e := New()
	e.AddVar("outer", ctype.Int())

	mark := e.Save()
	e.AddVar("inner", ctype.Int())
	if e.Len() != 2 {
		t.Fatalf("expected 2 bindings before restore, got %d", e.Len())
	}

	e.Restore(mark)
	if e.Len() != 1 {
		t.Errorf("expected 1 binding after restore, got %d", e.Len())
	}
	if _, ok := e.Lookup("inner"); ok {
		t.Error("expected inner binding to be gone after restore")
	}
	if _, ok := e.Lookup("outer"); !ok {
		t.Error("expected outer binding to survive restore")
	}
}

func TestNestedScopes(t *testing.T) {
	e := New()
	m1 := e.Save()
	e.AddVar("a", ctype.Int())
	m2 := e.Save()
	e.AddVar("b", ctype.Int())

	e.Restore(m2)
	if _, ok := e.Lookup("b"); ok {
		t.Error("b should be gone")
	}
	if _, ok := e.Lookup("a"); !ok {
		t.Error("a should remain")
	}

	e.Restore(m1)
	if _, ok := e.Lookup("a"); ok {
		t.Error("a should be gone after outer restore")
	}
}
