package rustgen

import (
	"github.com/cc-rust/transpiler/pkg/cabs"
	"github.com/cc-rust/transpiler/pkg/ctype"
	"github.com/cc-rust/transpiler/pkg/env"
	"github.com/cc-rust/transpiler/pkg/rustast"
)

// StmtTranslator translates cabs statements into rustast statements.
// ReturnType is the enclosing function's declared return type, used
// to cast `return expr;`'s value.
type StmtTranslator struct {
	Env        *env.Env
	Expr       *ExprTranslator
	ReturnType ctype.Type
}

// NewStmtTranslator creates a translator sharing e and returnType with
// its ExprTranslator.
func NewStmtTranslator(e *env.Env, returnType ctype.Type) *StmtTranslator {
	return &StmtTranslator{Env: e, Expr: NewExprTranslator(e), ReturnType: returnType}
}

// TranslateBlock translates a compound statement under its own scope,
// restoring the environment to its entry depth on every exit path —
// spec.md §5's scope contract.
func (st *StmtTranslator) TranslateBlock(b *cabs.Block) (*rustast.Block, error) {
	mark := st.Env.Save()
	defer st.Env.Restore(mark)

	var stmts []rustast.Stmt
	for _, item := range b.Items {
		s, err := st.TranslateStmt(item)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s...)
	}
	return &rustast.Block{Stmts: stmts}, nil
}

// translateAsBlock renders any statement as a Rust block, wrapping a
// brace-less single-statement body (C permits `if (c) stmt;`) without
// requiring the brace-less form to be a declaration — it never is,
// since a declaration is a block-item, not a statement, in C's own
// grammar.
func (st *StmtTranslator) translateAsBlock(s cabs.Stmt) (*rustast.Block, error) {
	if b, ok := s.(*cabs.Block); ok {
		return st.TranslateBlock(b)
	}
	stmts, err := st.TranslateStmt(s)
	if err != nil {
		return nil, err
	}
	return &rustast.Block{Stmts: stmts}, nil
}

// TranslateStmt translates one statement, possibly into several Rust
// statements (a multi-declarator DeclStmt becomes one Let per name).
func (st *StmtTranslator) TranslateStmt(s cabs.Stmt) ([]rustast.Stmt, error) {
	switch sm := s.(type) {
	case cabs.ExprStmt:
		return st.Expr.TranslateStmtExpr(sm.Expr)

	case cabs.DeclStmt:
		return st.translateDeclStmt(sm.Specs, sm.Decls)

	case *cabs.Block:
		b, err := st.TranslateBlock(sm)
		if err != nil {
			return nil, err
		}
		return []rustast.Stmt{rustast.Nested{Block: b}}, nil

	case cabs.Block:
		b, err := st.TranslateBlock(&sm)
		if err != nil {
			return nil, err
		}
		return []rustast.Stmt{rustast.Nested{Block: b}}, nil

	case cabs.If:
		cond, err := st.Expr.Translate(sm.Cond)
		if err != nil {
			return nil, err
		}
		thenBlock, err := st.translateAsBlock(sm.Then)
		if err != nil {
			return nil, err
		}
		var elseBlock *rustast.Block
		if sm.Else != nil {
			elseBlock, err = st.translateAsBlock(sm.Else)
			if err != nil {
				return nil, err
			}
		}
		return []rustast.Stmt{rustast.IfStmt{Cond: toBool(cond), Then: thenBlock, Else: elseBlock}}, nil

	case cabs.While:
		cond, err := st.Expr.Translate(sm.Cond)
		if err != nil {
			return nil, err
		}
		body, err := st.translateAsBlock(sm.Body)
		if err != nil {
			return nil, err
		}
		return []rustast.Stmt{rustast.While{Cond: toBool(cond), Body: body}}, nil

	case cabs.For:
		return st.translateFor(sm)

	case cabs.Break:
		return []rustast.Stmt{rustast.Break{}}, nil

	case cabs.Continue:
		return []rustast.Stmt{rustast.Continue{}}, nil

	case cabs.Return:
		if sm.Expr == nil {
			return []rustast.Stmt{rustast.Return{}}, nil
		}
		r, err := st.Expr.Translate(sm.Expr)
		if err != nil {
			return nil, err
		}
		expr, err := castTo(r, st.ReturnType)
		if err != nil {
			return nil, err
		}
		return []rustast.Stmt{rustast.Return{Expr: expr}}, nil

	case cabs.DoWhile:
		return nil, &Error{Kind: UnsupportedStatement, Detail: "do/while loops are not supported"}
	case cabs.Switch:
		return nil, &Error{Kind: UnsupportedStatement, Detail: "switch statements are not supported"}
	case cabs.Labeled:
		return nil, &Error{Kind: UnsupportedStatement, Detail: "labeled statements are not supported"}
	case cabs.Goto:
		return nil, &Error{Kind: UnsupportedStatement, Detail: "goto is not supported"}
	}
	return nil, &Error{Kind: UnsupportedStatement, Detail: "unrecognized statement"}
}

func (st *StmtTranslator) translateDeclStmt(specs []string, decls []cabs.Declarator) ([]rustast.Stmt, error) {
	ty, err := foldSpecs(specs)
	if err != nil {
		return nil, err
	}
	typeName, err := ctype.TargetName(ty)
	if err != nil {
		return nil, err
	}

	var stmts []rustast.Stmt
	for _, d := range decls {
		if d.Pointer || d.ArrayDims > 0 {
			return nil, &Error{Kind: UnsupportedDeclarator, Detail: d.Name}
		}
		var init rustast.Expr
		if d.Init != nil {
			r, err := st.Expr.Translate(d.Init)
			if err != nil {
				return nil, err
			}
			if lit, ok := r.Expr.(rustast.IntLit); ok && ctype.IsInteger(ty) {
				// An untyped integer literal takes the let's declared type.
				init = lit
			} else {
				init, err = castTo(r, ty)
				if err != nil {
					return nil, err
				}
			}
		}
		st.Env.AddVar(d.Name, ty)
		stmts = append(stmts, rustast.Let{Mutable: true, Name: d.Name, Type: typeName, Init: init})
	}
	return stmts, nil
}

func (st *StmtTranslator) translateFor(f cabs.For) ([]rustast.Stmt, error) {
	if f.Step != nil {
		return nil, &Error{Kind: UnsupportedStatement, Detail: "for loops with a step expression are not supported"}
	}

	mark := st.Env.Save()
	defer st.Env.Restore(mark)

	var initStmts []rustast.Stmt
	switch init := f.Init.(type) {
	case nil:
	case cabs.ForInitExpr:
		s, err := st.Expr.TranslateStmtExpr(init.Expr)
		if err != nil {
			return nil, err
		}
		initStmts = append(initStmts, s...)
	case cabs.ForInitDecl:
		s, err := st.translateDeclStmt(init.Specs, init.Decls)
		if err != nil {
			return nil, err
		}
		initStmts = append(initStmts, s...)
	}

	body, err := st.translateAsBlock(f.Body)
	if err != nil {
		return nil, err
	}

	var loop rustast.Stmt
	if f.Cond == nil {
		loop = rustast.Loop{Body: body}
	} else {
		cond, err := st.Expr.Translate(f.Cond)
		if err != nil {
			return nil, err
		}
		loop = rustast.While{Cond: toBool(cond), Body: body}
	}

	if len(initStmts) == 0 {
		return []rustast.Stmt{loop}, nil
	}
	return []rustast.Stmt{rustast.Nested{Block: &rustast.Block{
		Stmts: append(initStmts, loop),
	}}}, nil
}
