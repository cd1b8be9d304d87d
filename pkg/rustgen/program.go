package rustgen

import (
	"github.com/samber/lo"

	"github.com/cc-rust/transpiler/pkg/cabs"
	"github.com/cc-rust/transpiler/pkg/ctype"
	"github.com/cc-rust/transpiler/pkg/env"
	"github.com/cc-rust/transpiler/pkg/rustast"
)

// ProgramTranslator walks a full translation unit. It owns the single
// environment shared across every function definition, so function
// names bound by an earlier definition are visible (as forward
// references / recursion) to every later one.
type ProgramTranslator struct {
	Env *env.Env
}

// NewProgramTranslator creates a translator over a fresh environment.
func NewProgramTranslator() *ProgramTranslator {
	return &ProgramTranslator{Env: env.New()}
}

// Translate walks prog's external declarations in order, emitting one
// rustast.Item per function definition and skipping everything else
// (spec.md §4.4).
func (pt *ProgramTranslator) Translate(prog *cabs.Program) ([]rustast.Item, error) {
	funcDefs := lo.FilterMap(prog.Decls, func(d cabs.ExternalDecl, _ int) (cabs.FuncDef, bool) {
		fd, ok := d.(cabs.FuncDef)
		return fd, ok
	})

	items := make([]rustast.Item, 0, len(funcDefs))
	for _, fd := range funcDefs {
		item, err := pt.translateFuncDef(fd)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (pt *ProgramTranslator) translateFuncDef(fd cabs.FuncDef) (rustast.Item, error) {
	var public bool
	switch fd.StorageClass {
	case "static":
		public = false
	case "":
		public = true
	default:
		return nil, &Error{Kind: UnsupportedStorageClass, Detail: fd.StorageClass}
	}

	retType, err := foldSpecs(fd.Specs)
	if err != nil {
		return nil, err
	}

	// Bind the function's own name before translating its body so
	// direct recursion resolves (spec.md §4.4, §5 "Recursion and
	// forward references").
	pt.Env.AddVar(fd.Name, ctype.Func(retType))

	mark := pt.Env.Save()
	defer pt.Env.Restore(mark)

	// parseParamList already collapses `(void)` and `()` to an empty
	// parameter list, so every remaining entry here is a real formal.
	params := make([]rustast.Param, 0, len(fd.Params))
	for _, p := range fd.Params {
		if p.Pointer {
			return nil, &Error{Kind: UnsupportedDeclarator, Detail: p.Name}
		}
		ptype, err := foldSpecs(p.Specs)
		if err != nil {
			return nil, err
		}
		name, err := ctype.TargetName(ptype)
		if err != nil {
			return nil, err
		}
		pt.Env.AddVar(p.Name, ptype)
		params = append(params, rustast.Param{Name: p.Name, Type: name})
	}

	retName, err := ctype.TargetName(retType)
	if err != nil {
		return nil, err
	}

	st := NewStmtTranslator(pt.Env, retType)
	body, err := st.TranslateBlock(fd.Body)
	if err != nil {
		return nil, err
	}

	return rustast.Function{
		Public: public,
		Name:   fd.Name,
		Params: params,
		Return: retName,
		Body:   body,
	}, nil
}
