package rustgen

import (
	"strconv"
	"strings"

	"github.com/cc-rust/transpiler/pkg/cabs"
	"github.com/cc-rust/transpiler/pkg/ctype"
	"github.com/cc-rust/transpiler/pkg/env"
	"github.com/cc-rust/transpiler/pkg/rustast"
)

// Result pairs a translated expression's C type with its Rust
// rendering. IsBool marks an Expr that already has Rust type bool
// (the direct output of a comparison or a logical &&/||) rather than
// an integer — spec.md §4.2's boolean-vs-integer distinction is
// threaded through this flag rather than through a separate C bool
// type, since C itself has none.
type Result struct {
	Type   ctype.Type
	Expr   rustast.Expr
	IsBool bool
}

// ExprTranslator translates cabs expressions into rustast expressions
// against a shared identifier environment.
type ExprTranslator struct {
	Env *env.Env
}

// NewExprTranslator creates a translator over e.
func NewExprTranslator(e *env.Env) *ExprTranslator {
	return &ExprTranslator{Env: e}
}

// Translate translates e, always producing a value (the "demand"
// case of spec.md §4.2 — every recursive use of an expression needs
// its value). Statement-position uses that can discard the value
// call TranslateStmtExpr instead, to avoid needless ExprBlock wrapping.
func (t *ExprTranslator) Translate(e cabs.Expr) (Result, error) {
	switch ex := e.(type) {
	case cabs.IntLit:
		return Result{Type: ctype.Int(), Expr: rustast.IntLit{Value: ex.Value}}, nil
	case cabs.FloatLit:
		return t.translateFloatLit(ex)
	case cabs.Ident:
		return t.translateIdent(ex)
	case cabs.Cast:
		return t.translateCast(ex)
	case cabs.Unary:
		return t.translateUnary(ex)
	case cabs.Binary:
		return t.translateBinary(ex)
	case cabs.Conditional:
		return t.translateConditional(ex)
	case cabs.Call:
		return t.translateCall(ex)
	case cabs.Assign:
		return t.translateAssign(ex, true)
	case cabs.Comma:
		return t.translateComma(ex, true)
	}
	return Result{}, &Error{Kind: UnsupportedExpression, Detail: unsupportedExprDetail(e)}
}

func unsupportedExprDetail(e cabs.Expr) string {
	switch e.(type) {
	case nil:
		return "<nil>"
	default:
		return typeName(e)
	}
}

func typeName(v interface{}) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return "expression"
}

// --- coercions ---

// toInt produces an Expr guaranteed to have Rust integer type,
// applying the from-bool wrapper (spec.md §4.2) when r is a bool.
func toInt(r Result) rustast.Expr {
	if r.IsBool {
		return rustast.FromBool{Expr: r.Expr}
	}
	return r.Expr
}

// toBool produces an Expr guaranteed to have Rust bool type, applying
// the to-bool wrapper (spec.md §4.2) when r is not already one.
func toBool(r Result) rustast.Expr {
	if r.IsBool {
		return r.Expr
	}
	return rustast.CmpZero{Expr: r.Expr}
}

// castTo produces an integer-shaped value of target's C type. A bool
// Result always passes through the from-bool wrapper first (toInt);
// once that has run, expr's Rust-level type already matches r.Type,
// so the cast itself is only needed when r.Type and target differ.
func castTo(r Result, target ctype.Type) (rustast.Expr, error) {
	expr := toInt(r)
	if ctype.Equal(r.Type, target) {
		return expr, nil
	}
	name, err := ctype.TargetName(target)
	if err != nil {
		return nil, err
	}
	return rustast.Cast{Expr: expr, Type: name}, nil
}

// --- constants ---

func (t *ExprTranslator) translateFloatLit(ex cabs.FloatLit) (Result, error) {
	lexeme := ex.Lexeme
	isF32 := strings.HasSuffix(lexeme, "f") || strings.HasSuffix(lexeme, "F")
	digits := lexeme
	if isF32 {
		digits = lexeme[:len(lexeme)-1]
	}
	if _, err := strconv.ParseFloat(digits, 64); err != nil {
		return Result{}, &Error{Kind: MalformedFloat, Detail: lexeme}
	}

	width := ctype.F64
	suffix := "f64"
	if isF32 {
		width = ctype.F32
		suffix = "f32"
	}
	return Result{
		Type: ctype.Float(width),
		Expr: rustast.FloatLit{Text: digits + suffix},
	}, nil
}

func (t *ExprTranslator) translateIdent(ex cabs.Ident) (Result, error) {
	ty, ok := t.Env.Lookup(ex.Name)
	if !ok {
		return Result{}, &Error{Kind: UndefinedVariable, Detail: ex.Name}
	}
	return Result{Type: ty, Expr: rustast.Ident{Name: ex.Name}}, nil
}

// --- cast ---

func (t *ExprTranslator) translateCast(ex cabs.Cast) (Result, error) {
	target, err := foldSpecs(ex.Specs)
	if err != nil {
		return Result{}, err
	}
	arg, err := t.Translate(ex.Arg)
	if err != nil {
		return Result{}, err
	}
	expr, err := castTo(arg, target)
	if err != nil {
		return Result{}, err
	}
	return Result{Type: target, Expr: expr}, nil
}

func foldSpecs(specs []string) (ctype.Type, error) {
	csp := make([]ctype.Specifier, len(specs))
	for i, s := range specs {
		csp[i] = ctype.Specifier(s)
	}
	return ctype.FoldSpecifiers(csp)
}

// --- unary ---

func (t *ExprTranslator) translateUnary(ex cabs.Unary) (Result, error) {
	switch ex.Op {
	case cabs.OpPos:
		arg, err := t.Translate(ex.Arg)
		if err != nil {
			return Result{}, err
		}
		promoted := ctype.Promote(arg.Type)
		expr, err := castTo(arg, promoted)
		if err != nil {
			return Result{}, err
		}
		return Result{Type: promoted, Expr: expr}, nil

	case cabs.OpNeg:
		arg, err := t.Translate(ex.Arg)
		if err != nil {
			return Result{}, err
		}
		promoted := ctype.Promote(arg.Type)
		expr, err := castTo(arg, promoted)
		if err != nil {
			return Result{}, err
		}
		return Result{Type: promoted, Expr: rustast.Unary{Op: "-", Expr: expr}}, nil

	case cabs.OpBitNot:
		arg, err := t.Translate(ex.Arg)
		if err != nil {
			return Result{}, err
		}
		promoted := ctype.Promote(arg.Type)
		expr, err := castTo(arg, promoted)
		if err != nil {
			return Result{}, err
		}
		return Result{Type: promoted, Expr: rustast.Unary{Op: "!", Expr: expr}}, nil

	case cabs.OpNot:
		arg, err := t.Translate(ex.Arg)
		if err != nil {
			return Result{}, err
		}
		cond := toBool(arg)
		return Result{Type: ctype.Int(), IsBool: true, Expr: rustast.Unary{Op: "!", Expr: cond}}, nil

	case cabs.OpPreInc:
		return t.translateAssign(cabs.Assign{Op: cabs.AssignAdd, LHS: ex.Arg, RHS: cabs.IntLit{Value: 1}}, true)

	case cabs.OpPreDec:
		return t.translateAssign(cabs.Assign{Op: cabs.AssignSub, LHS: ex.Arg, RHS: cabs.IntLit{Value: 1}}, true)

	case cabs.OpPostInc, cabs.OpPostDec, cabs.OpAddrOf, cabs.OpDeref, cabs.OpSizeof:
		return Result{}, &Error{Kind: UnsupportedUnaryOperator, Detail: ex.Op.String()}
	}
	return Result{}, &Error{Kind: UnsupportedUnaryOperator, Detail: ex.Op.String()}
}

// --- binary ---

func (t *ExprTranslator) translateBinary(ex cabs.Binary) (Result, error) {
	switch ex.Op {
	case cabs.OpLogAnd, cabs.OpLogOr:
		left, err := t.Translate(ex.Left)
		if err != nil {
			return Result{}, err
		}
		right, err := t.Translate(ex.Right)
		if err != nil {
			return Result{}, err
		}
		op := "&&"
		if ex.Op == cabs.OpLogOr {
			op = "||"
		}
		expr := rustast.Binary{Op: op, Left: toBool(left), Right: toBool(right)}
		return Result{Type: ctype.Int(), IsBool: true, Expr: expr}, nil

	case cabs.OpShl, cabs.OpShr:
		left, err := t.Translate(ex.Left)
		if err != nil {
			return Result{}, err
		}
		right, err := t.Translate(ex.Right)
		if err != nil {
			return Result{}, err
		}
		resultType := ctype.Promote(left.Type)
		lexpr, err := castTo(left, resultType)
		if err != nil {
			return Result{}, err
		}
		rexpr, err := castTo(right, ctype.Promote(right.Type))
		if err != nil {
			return Result{}, err
		}
		expr := rustast.Binary{Op: ex.Op.String(), Left: lexpr, Right: rexpr}
		return Result{Type: resultType, Expr: expr}, nil

	case cabs.OpLt, cabs.OpLe, cabs.OpGt, cabs.OpGe, cabs.OpEq, cabs.OpNe:
		left, err := t.Translate(ex.Left)
		if err != nil {
			return Result{}, err
		}
		right, err := t.Translate(ex.Right)
		if err != nil {
			return Result{}, err
		}
		common := ctype.Usual(left.Type, right.Type)
		lexpr, err := castTo(left, common)
		if err != nil {
			return Result{}, err
		}
		rexpr, err := castTo(right, common)
		if err != nil {
			return Result{}, err
		}
		expr := rustast.Binary{Op: ex.Op.String(), Left: lexpr, Right: rexpr}
		return Result{Type: ctype.Int(), IsBool: true, Expr: expr}, nil

	default: // arithmetic and bitwise
		left, err := t.Translate(ex.Left)
		if err != nil {
			return Result{}, err
		}
		right, err := t.Translate(ex.Right)
		if err != nil {
			return Result{}, err
		}
		common := ctype.Usual(left.Type, right.Type)
		lexpr, err := castTo(left, common)
		if err != nil {
			return Result{}, err
		}
		rexpr, err := castTo(right, common)
		if err != nil {
			return Result{}, err
		}
		expr := rustast.Binary{Op: ex.Op.String(), Left: lexpr, Right: rexpr}
		return Result{Type: common, Expr: expr}, nil
	}
}

// --- conditional ---

func (t *ExprTranslator) translateConditional(ex cabs.Conditional) (Result, error) {
	cond, err := t.Translate(ex.Cond)
	if err != nil {
		return Result{}, err
	}
	then, err := t.Translate(ex.Then)
	if err != nil {
		return Result{}, err
	}
	els, err := t.Translate(ex.Else)
	if err != nil {
		return Result{}, err
	}
	common := ctype.Usual(then.Type, els.Type)
	thenExpr, err := castTo(then, common)
	if err != nil {
		return Result{}, err
	}
	elseExpr, err := castTo(els, common)
	if err != nil {
		return Result{}, err
	}
	expr := rustast.IfExpr{Cond: toBool(cond), Then: thenExpr, Else: elseExpr}
	return Result{Type: common, Expr: expr}, nil
}

// --- call ---

func (t *ExprTranslator) translateCall(ex cabs.Call) (Result, error) {
	name, ok := ex.Callee.(cabs.Ident)
	if !ok {
		return Result{}, &Error{Kind: CalleeNotFunction, Detail: "callee is not a plain identifier"}
	}
	ty, ok := t.Env.Lookup(name.Name)
	if !ok {
		return Result{}, &Error{Kind: UndefinedVariable, Detail: name.Name}
	}
	fn, ok := ty.(ctype.Tfunc)
	if !ok {
		return Result{}, &Error{Kind: CalleeNotFunction, Detail: name.Name}
	}

	args := make([]rustast.Expr, len(ex.Args))
	for i, a := range ex.Args {
		r, err := t.Translate(a)
		if err != nil {
			return Result{}, err
		}
		args[i] = toInt(r)
	}
	return Result{Type: fn.Return, Expr: rustast.Call{Func: name.Name, Args: args}}, nil
}

// --- comma ---

func (t *ExprTranslator) translateComma(ex cabs.Comma, demand bool) (Result, error) {
	if len(ex.Exprs) == 0 {
		return Result{}, &Error{Kind: UnsupportedExpression, Detail: "empty comma expression"}
	}
	var stmts []rustast.Stmt
	for _, sub := range ex.Exprs[:len(ex.Exprs)-1] {
		s, err := t.TranslateStmtExpr(sub)
		if err != nil {
			return Result{}, err
		}
		stmts = append(stmts, s...)
	}
	last, err := t.Translate(ex.Exprs[len(ex.Exprs)-1])
	if err != nil {
		return Result{}, err
	}
	if !demand && len(stmts) == 0 {
		return last, nil
	}
	return Result{
		Type: last.Type,
		Expr: rustast.ExprBlock{Stmts: stmts, Tail: last.Expr},
	}, nil
}

// --- assignment ---

func (t *ExprTranslator) translateAssign(ex cabs.Assign, demand bool) (Result, error) {
	lhsName, ok := ex.LHS.(cabs.Ident)
	if !ok {
		return Result{}, &Error{Kind: UnsupportedExpression, Detail: "assignment target must be a plain variable"}
	}
	lhsType, ok := t.Env.Lookup(lhsName.Name)
	if !ok {
		return Result{}, &Error{Kind: UndefinedVariable, Detail: lhsName.Name}
	}

	rhs, err := t.Translate(ex.RHS)
	if err != nil {
		return Result{}, err
	}

	var valueExpr rustast.Expr
	if ex.Op == cabs.AssignPlain {
		valueExpr, err = castTo(rhs, lhsType)
		if err != nil {
			return Result{}, err
		}
	} else {
		// Compound assignment applies the usual arithmetic conversions
		// to LHS and RHS, computes the binary op at the common type,
		// then narrows the result back to LHS's type (C99 §6.5.16.2).
		common := ctype.Usual(lhsType, rhs.Type)
		lhsAtCommon, err := castTo(Result{Type: lhsType, Expr: rustast.Ident{Name: lhsName.Name}}, common)
		if err != nil {
			return Result{}, err
		}
		rhsAtCommon, err := castTo(rhs, common)
		if err != nil {
			return Result{}, err
		}
		binOp := ex.Op.BinaryOp()
		var opStr string
		switch binOp {
		case cabs.OpShl, cabs.OpShr:
			opStr = binOp.String()
			rhsAtCommon, err = castTo(rhs, ctype.Promote(rhs.Type))
			if err != nil {
				return Result{}, err
			}
			lhsAtCommon, err = castTo(Result{Type: lhsType, Expr: rustast.Ident{Name: lhsName.Name}}, ctype.Promote(lhsType))
			if err != nil {
				return Result{}, err
			}
			common = ctype.Promote(lhsType)
		default:
			opStr = binOp.String()
		}
		computed := rustast.Binary{Op: opStr, Left: lhsAtCommon, Right: rhsAtCommon}
		valueExpr, err = castTo(Result{Type: common, Expr: computed}, lhsType)
		if err != nil {
			return Result{}, err
		}
	}

	assign := rustast.Assign{Op: "=", LHS: rustast.Ident{Name: lhsName.Name}, RHS: valueExpr}
	if !demand {
		return Result{Type: lhsType, Expr: assign}, nil
	}
	return Result{
		Type: lhsType,
		Expr: rustast.ExprBlock{
			Stmts: []rustast.Stmt{rustast.ExprStmt{Expr: assign}},
			Tail:  rustast.Ident{Name: lhsName.Name},
		},
	}, nil
}

// TranslateStmtExpr translates e for use in statement position, where
// its value is never needed. Assignment and comma expressions are
// flattened to plain statements instead of wrapped in an ExprBlock,
// matching how a human translator would render a bare `x = 1;` or
// `a, b;` line.
func (t *ExprTranslator) TranslateStmtExpr(e cabs.Expr) ([]rustast.Stmt, error) {
	switch ex := e.(type) {
	case cabs.Assign:
		r, err := t.translateAssign(ex, false)
		if err != nil {
			return nil, err
		}
		return []rustast.Stmt{rustast.ExprStmt{Expr: r.Expr}}, nil
	case cabs.Comma:
		var stmts []rustast.Stmt
		for _, sub := range ex.Exprs {
			s, err := t.TranslateStmtExpr(sub)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s...)
		}
		return stmts, nil
	default:
		r, err := t.Translate(e)
		if err != nil {
			return nil, err
		}
		return []rustast.Stmt{rustast.ExprStmt{Expr: r.Expr}}, nil
	}
}
