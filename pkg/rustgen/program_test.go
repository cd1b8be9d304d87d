package rustgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc-rust/transpiler/pkg/cabs"
	"github.com/cc-rust/transpiler/pkg/rustast"
)

func TestTranslateSkipsNonFunctionDecls(t *testing.T) {
	pt := NewProgramTranslator()
	items, err := pt.Translate(&cabs.Program{Decls: []cabs.ExternalDecl{
		cabs.Skipped{Reason: "global variable"},
		cabs.FuncDef{Specs: []string{"int"}, Name: "f", Body: &cabs.Block{Items: []cabs.Stmt{cabs.Return{Expr: cabs.IntLit{Value: 0}}}}},
		cabs.Skipped{Reason: "typedef"},
	}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "f", items[0].(rustast.Function).Name)
}

func TestStaticFunctionIsPrivate(t *testing.T) {
	pt := NewProgramTranslator()
	items, err := pt.Translate(&cabs.Program{Decls: []cabs.ExternalDecl{
		cabs.FuncDef{StorageClass: "static", Specs: []string{"int"}, Name: "g", Body: &cabs.Block{Items: []cabs.Stmt{cabs.Return{Expr: cabs.IntLit{Value: 0}}}}},
	}})
	require.NoError(t, err)
	assert.False(t, items[0].(rustast.Function).Public)
}

func TestNonStaticStorageClassRejected(t *testing.T) {
	pt := NewProgramTranslator()
	_, err := pt.Translate(&cabs.Program{Decls: []cabs.ExternalDecl{
		cabs.FuncDef{StorageClass: "extern", Specs: []string{"int"}, Name: "f", Body: &cabs.Block{}},
	}})
	require.Error(t, err)
	assert.Equal(t, UnsupportedStorageClass, err.(*Error).Kind)
}

// TestRecursiveCallResolves exercises spec.md's S6 scenario: a
// function's own name must be visible inside its body.
func TestRecursiveCallResolves(t *testing.T) {
	pt := NewProgramTranslator()
	items, err := pt.Translate(&cabs.Program{Decls: []cabs.ExternalDecl{
		cabs.FuncDef{
			Specs: []string{"int"}, Name: "fact",
			Params: []cabs.Param{{Specs: []string{"int"}, Name: "n"}},
			Body: &cabs.Block{Items: []cabs.Stmt{
				cabs.Return{Expr: cabs.Conditional{
					Cond: cabs.Ident{Name: "n"},
					Then: cabs.Binary{
						Op:   cabs.OpMul,
						Left: cabs.Ident{Name: "n"},
						Right: cabs.Call{
							Callee: cabs.Ident{Name: "fact"},
							Args:   []cabs.Expr{cabs.Binary{Op: cabs.OpSub, Left: cabs.Ident{Name: "n"}, Right: cabs.IntLit{Value: 1}}},
						},
					},
					Else: cabs.IntLit{Value: 1},
				}},
			}},
		},
	}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	fn := items[0].(rustast.Function)
	assert.Equal(t, "fact", fn.Name)
	assert.Equal(t, "i32", fn.Params[0].Type)
}

// TestSecondFunctionSeesFirst exercises forward-reference binding
// across distinct top-level function definitions.
func TestSecondFunctionSeesFirst(t *testing.T) {
	pt := NewProgramTranslator()
	items, err := pt.Translate(&cabs.Program{Decls: []cabs.ExternalDecl{
		cabs.FuncDef{Specs: []string{"int"}, Name: "helper", Body: &cabs.Block{Items: []cabs.Stmt{cabs.Return{Expr: cabs.IntLit{Value: 0}}}}},
		cabs.FuncDef{Specs: []string{"int"}, Name: "caller", Body: &cabs.Block{Items: []cabs.Stmt{
			cabs.Return{Expr: cabs.Call{Callee: cabs.Ident{Name: "helper"}}},
		}}},
	}})
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestPointerParamRejected(t *testing.T) {
	pt := NewProgramTranslator()
	_, err := pt.Translate(&cabs.Program{Decls: []cabs.ExternalDecl{
		cabs.FuncDef{Specs: []string{"int"}, Name: "f", Params: []cabs.Param{{Specs: []string{"int"}, Name: "p", Pointer: true}}, Body: &cabs.Block{}},
	}})
	require.Error(t, err)
	assert.Equal(t, UnsupportedDeclarator, err.(*Error).Kind)
}
