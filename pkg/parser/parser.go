// Package parser implements a recursive-descent, precedence-climbing
// parser for the C subset spec.md's translation engine accepts. It
// also recognizes (and preserves, for a later clean rejection by the
// engine) the grammar of a few constructs that subset excludes —
// do-while, switch, goto, labels, postfix inc/dec, address-of,
// dereference, sizeof, and pointer/array declarators — rather than
// failing at first token mismatch.
package parser

import (
	"fmt"
	"strings"

	"github.com/cc-rust/transpiler/pkg/cabs"
	"github.com/cc-rust/transpiler/pkg/lexer"
)

// Precedence levels for Pratt parsing (lowest to highest).
const (
	precLowest     = 0
	precComma      = 1  // ,
	precAssign     = 2  // =, +=, -=, etc.
	precTernary    = 3  // ?:
	precOr         = 4  // ||
	precAnd        = 5  // &&
	precBitOr      = 6  // |
	precBitXor     = 7  // ^
	precBitAnd     = 8  // &
	precEquality   = 9  // ==, !=
	precRelational = 10 // <, <=, >, >=
	precShift      = 11 // <<, >>
	precAdditive   = 12 // +, -
	precMulti      = 13 // *, /, %
	precUnary      = 14 // -, !, ~, ++x, --x, &x, *x, sizeof
	precPostfix    = 15 // call, x++, x--
)

var typeSpecTokens = map[lexer.TokenType]string{
	lexer.TokenVoid:     "void",
	lexer.TokenChar:     "char",
	lexer.TokenShort:    "short",
	lexer.TokenInt_:     "int",
	lexer.TokenLong:     "long",
	lexer.TokenFloat:    "float",
	lexer.TokenDouble:   "double",
	lexer.TokenSigned:   "signed",
	lexer.TokenUnsigned: "unsigned",
}

// Parser parses lexer tokens into a cabs AST.
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []string
}

// New creates a new Parser for the given lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns the accumulated list of parse errors.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s",
		p.curToken.Line, p.curToken.Column, msg))
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError("expected %s, got %s", t, p.peekToken.Type)
	return false
}

// syncToStmtEnd recovers from a malformed statement by skipping to
// the next ';' or an enclosing '}'.
func (p *Parser) syncToStmtEnd() {
	for !p.curTokenIs(lexer.TokenEOF) && !p.curTokenIs(lexer.TokenRBrace) {
		if p.curTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

// ParseProgram parses a whole translation unit.
func (p *Parser) ParseProgram() *cabs.Program {
	prog := &cabs.Program{}
	for !p.curTokenIs(lexer.TokenEOF) {
		decl := p.parseExternalDecl()
		if decl != nil {
			prog.Decls = append(prog.Decls, decl)
		}
	}
	return prog
}

func isTypeSpecToken(t lexer.TokenType) bool {
	_, ok := typeSpecTokens[t]
	return ok
}

func isQualifierToken(t lexer.TokenType) bool {
	return t == lexer.TokenConst || t == lexer.TokenVolatile || t == lexer.TokenRestrict
}

// --- Top level ---

func (p *Parser) parseExternalDecl() cabs.ExternalDecl {
	storage := ""
	switch p.curToken.Type {
	case lexer.TokenStatic:
		storage = "static"
		p.nextToken()
	case lexer.TokenExtern:
		storage = "extern"
		p.nextToken()
	case lexer.TokenAuto:
		storage = "auto"
		p.nextToken()
	case lexer.TokenRegister:
		storage = "register"
		p.nextToken()
	case lexer.TokenTypedef:
		p.nextToken()
		p.skipToTopLevelSemicolonOrBrace()
		return cabs.Skipped{Reason: "typedef"}
	}

	switch p.curToken.Type {
	case lexer.TokenStruct, lexer.TokenUnion, lexer.TokenEnum:
		kw := p.curToken.Literal
		p.nextToken()
		p.skipToTopLevelSemicolonOrBrace()
		return cabs.Skipped{Reason: kw}
	}

	var specs []string
	for isTypeSpecToken(p.curToken.Type) || isQualifierToken(p.curToken.Type) {
		if isTypeSpecToken(p.curToken.Type) {
			specs = append(specs, typeSpecTokens[p.curToken.Type])
		}
		p.nextToken()
	}
	if len(specs) == 0 {
		p.addError("expected a type specifier, got %s", p.curToken.Type)
		p.skipToTopLevelSemicolonOrBrace()
		return cabs.Skipped{Reason: "unrecognized"}
	}

	pointer := false
	for p.curTokenIs(lexer.TokenStar) {
		pointer = true
		p.nextToken()
	}

	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError("expected an identifier, got %s", p.curToken.Type)
		p.skipToTopLevelSemicolonOrBrace()
		return cabs.Skipped{Reason: "unrecognized"}
	}
	name := p.curToken.Literal
	p.nextToken()

	if p.curTokenIs(lexer.TokenLParen) {
		params, variadic := p.parseParamList()
		if p.curTokenIs(lexer.TokenLBrace) {
			if pointer || variadic {
				body := p.parseBlock()
				_ = body
				return cabs.Skipped{Reason: "unsupported function form"}
			}
			body := p.parseBlock()
			return cabs.FuncDef{StorageClass: storage, Specs: specs, Name: name, Params: params, Body: body}
		}
		// Prototype.
		if p.curTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
		}
		return cabs.Skipped{Reason: "prototype"}
	}

	// Global variable declaration(s).
	p.skipToTopLevelSemicolonOrBrace()
	return cabs.Skipped{Reason: "global declaration"}
}

// skipToTopLevelSemicolonOrBrace consumes tokens up through the ';'
// that ends a top-level declaration, or a balanced {...} followed by
// its terminating ';' (for struct/union/enum bodies).
func (p *Parser) skipToTopLevelSemicolonOrBrace() {
	for !p.curTokenIs(lexer.TokenEOF) {
		if p.curTokenIs(lexer.TokenLBrace) {
			depth := 1
			p.nextToken()
			for depth > 0 && !p.curTokenIs(lexer.TokenEOF) {
				if p.curTokenIs(lexer.TokenLBrace) {
					depth++
				} else if p.curTokenIs(lexer.TokenRBrace) {
					depth--
				}
				p.nextToken()
			}
			continue
		}
		if p.curTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

func (p *Parser) parseParamList() ([]cabs.Param, bool) {
	var params []cabs.Param
	variadic := false
	if !p.expectPeek2Open() {
		return params, variadic
	}
	p.nextToken() // consume '('

	if p.curTokenIs(lexer.TokenRParen) {
		p.nextToken()
		return params, variadic
	}
	// `(void)` with no parameter name means zero parameters.
	if p.curTokenIs(lexer.TokenVoid) && p.peekTokenIs(lexer.TokenRParen) {
		p.nextToken() // consume 'void'
		p.nextToken() // consume ')'
		return params, variadic
	}

	for {
		if p.curTokenIs(lexer.TokenIdent) && p.curToken.Literal == "..." {
			variadic = true
			p.nextToken()
			break
		}
		var specs []string
		for isTypeSpecToken(p.curToken.Type) || isQualifierToken(p.curToken.Type) {
			if isTypeSpecToken(p.curToken.Type) {
				specs = append(specs, typeSpecTokens[p.curToken.Type])
			}
			p.nextToken()
		}
		pointer := false
		for p.curTokenIs(lexer.TokenStar) {
			pointer = true
			p.nextToken()
		}
		name := ""
		if p.curTokenIs(lexer.TokenIdent) {
			name = p.curToken.Literal
			p.nextToken()
		}
		params = append(params, cabs.Param{Specs: specs, Name: name, Pointer: pointer})

		if p.curTokenIs(lexer.TokenComma) {
			p.nextToken()
			continue
		}
		break
	}

	if p.curTokenIs(lexer.TokenRParen) {
		p.nextToken()
	} else {
		p.addError("expected ) to close parameter list, got %s", p.curToken.Type)
	}
	return params, variadic
}

// expectPeek2Open is a small helper for the `(` that always follows
// the already-consumed declarator name in parseParamList's caller.
func (p *Parser) expectPeek2Open() bool {
	return p.curTokenIs(lexer.TokenLParen)
}

// --- Statements ---

func (p *Parser) parseStmt() cabs.Stmt {
	switch p.curToken.Type {
	case lexer.TokenLBrace:
		return p.parseBlock()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenDo:
		return p.parseDoWhile()
	case lexer.TokenFor:
		return p.parseFor()
	case lexer.TokenBreak:
		p.nextToken()
		p.expectSemicolon()
		return cabs.Break{}
	case lexer.TokenContinue:
		p.nextToken()
		p.expectSemicolon()
		return cabs.Continue{}
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenSwitch:
		return p.parseSwitch()
	case lexer.TokenGoto:
		p.nextToken()
		label := p.curToken.Literal
		if p.curTokenIs(lexer.TokenIdent) {
			p.nextToken()
		}
		p.expectSemicolon()
		return cabs.Goto{Label: label}
	case lexer.TokenSemicolon:
		p.nextToken()
		return cabs.Block{}
	}

	if isTypeSpecToken(p.curToken.Type) || isQualifierToken(p.curToken.Type) {
		return p.parseDeclStmt()
	}

	if p.curTokenIs(lexer.TokenIdent) && p.peekTokenIs(lexer.TokenColon) {
		label := p.curToken.Literal
		p.nextToken() // ident
		p.nextToken() // ':'
		return cabs.Labeled{Label: label, Stmt: p.parseStmt()}
	}

	expr := p.parseExpr(precLowest)
	p.expectSemicolon()
	return cabs.ExprStmt{Expr: expr}
}

func (p *Parser) expectSemicolon() {
	if p.curTokenIs(lexer.TokenSemicolon) {
		p.nextToken()
		return
	}
	p.addError("expected ;, got %s", p.curToken.Type)
	p.syncToStmtEnd()
}

func (p *Parser) parseBlock() *cabs.Block {
	block := &cabs.Block{}
	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError("expected {, got %s", p.curToken.Type)
		return block
	}
	p.nextToken() // consume '{'
	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		block.Items = append(block.Items, p.parseStmt())
	}
	if p.curTokenIs(lexer.TokenRBrace) {
		p.nextToken()
	} else {
		p.addError("expected } to close block, got %s", p.curToken.Type)
	}
	return block
}

func (p *Parser) parseDeclarators() (specs []string, decls []cabs.Declarator) {
	for isTypeSpecToken(p.curToken.Type) || isQualifierToken(p.curToken.Type) {
		if isTypeSpecToken(p.curToken.Type) {
			specs = append(specs, typeSpecTokens[p.curToken.Type])
		}
		p.nextToken()
	}
	for {
		pointer := false
		for p.curTokenIs(lexer.TokenStar) {
			pointer = true
			p.nextToken()
		}
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError("expected a declarator name, got %s", p.curToken.Type)
			break
		}
		name := p.curToken.Literal
		p.nextToken()

		arrayDims := 0
		for p.curTokenIs(lexer.TokenLBracket) {
			arrayDims++
			p.nextToken()
			if !p.curTokenIs(lexer.TokenRBracket) {
				p.parseExpr(precLowest) // array size, discarded: arrays are unsupported
			}
			if p.curTokenIs(lexer.TokenRBracket) {
				p.nextToken()
			}
		}

		var init cabs.Expr
		if p.curTokenIs(lexer.TokenAssign) {
			p.nextToken()
			init = p.parseExpr(precAssign)
		}
		decls = append(decls, cabs.Declarator{Name: name, Pointer: pointer, ArrayDims: arrayDims, Init: init})

		if p.curTokenIs(lexer.TokenComma) {
			p.nextToken()
			continue
		}
		break
	}
	return specs, decls
}

func (p *Parser) parseDeclStmt() cabs.Stmt {
	specs, decls := p.parseDeclarators()
	p.expectSemicolon()
	return cabs.DeclStmt{Specs: specs, Decls: decls}
}

func (p *Parser) parseIf() cabs.Stmt {
	p.nextToken() // 'if'
	if !p.curTokenIs(lexer.TokenLParen) {
		p.addError("expected (, got %s", p.curToken.Type)
		return cabs.Block{}
	}
	p.nextToken() // '('
	cond := p.parseExpr(precLowest)
	if !p.curTokenIs(lexer.TokenRParen) {
		p.addError("expected ), got %s", p.curToken.Type)
	} else {
		p.nextToken()
	}
	then := p.parseStmt()
	var elseStmt cabs.Stmt
	if p.curTokenIs(lexer.TokenElse) {
		p.nextToken()
		elseStmt = p.parseStmt()
	}
	return cabs.If{Cond: cond, Then: then, Else: elseStmt}
}

func (p *Parser) parseWhile() cabs.Stmt {
	p.nextToken() // 'while'
	if !p.curTokenIs(lexer.TokenLParen) {
		p.addError("expected (, got %s", p.curToken.Type)
		return cabs.Block{}
	}
	p.nextToken()
	cond := p.parseExpr(precLowest)
	if p.curTokenIs(lexer.TokenRParen) {
		p.nextToken()
	} else {
		p.addError("expected ), got %s", p.curToken.Type)
	}
	return cabs.While{Cond: cond, Body: p.parseStmt()}
}

func (p *Parser) parseDoWhile() cabs.Stmt {
	p.nextToken() // 'do'
	body := p.parseStmt()
	if p.curTokenIs(lexer.TokenWhile) {
		p.nextToken()
	} else {
		p.addError("expected while, got %s", p.curToken.Type)
	}
	if p.curTokenIs(lexer.TokenLParen) {
		p.nextToken()
	}
	cond := p.parseExpr(precLowest)
	if p.curTokenIs(lexer.TokenRParen) {
		p.nextToken()
	}
	p.expectSemicolon()
	return cabs.DoWhile{Body: body, Cond: cond}
}

func (p *Parser) parseFor() cabs.Stmt {
	p.nextToken() // 'for'
	if !p.curTokenIs(lexer.TokenLParen) {
		p.addError("expected (, got %s", p.curToken.Type)
		return cabs.Block{}
	}
	p.nextToken()

	var init cabs.ForInit
	if p.curTokenIs(lexer.TokenSemicolon) {
		p.nextToken()
	} else if isTypeSpecToken(p.curToken.Type) || isQualifierToken(p.curToken.Type) {
		specs, decls := p.parseDeclarators()
		init = cabs.ForInitDecl{Specs: specs, Decls: decls}
		p.expectSemicolon()
	} else {
		e := p.parseExpr(precLowest)
		init = cabs.ForInitExpr{Expr: e}
		p.expectSemicolon()
	}

	var cond cabs.Expr
	if !p.curTokenIs(lexer.TokenSemicolon) {
		cond = p.parseExpr(precLowest)
	}
	p.expectSemicolon()

	var step cabs.Expr
	if !p.curTokenIs(lexer.TokenRParen) {
		step = p.parseExpr(precLowest)
	}
	if p.curTokenIs(lexer.TokenRParen) {
		p.nextToken()
	} else {
		p.addError("expected ), got %s", p.curToken.Type)
	}

	return cabs.For{Init: init, Cond: cond, Step: step, Body: p.parseStmt()}
}

func (p *Parser) parseReturn() cabs.Stmt {
	p.nextToken() // 'return'
	if p.curTokenIs(lexer.TokenSemicolon) {
		p.nextToken()
		return cabs.Return{}
	}
	e := p.parseExpr(precLowest)
	p.expectSemicolon()
	return cabs.Return{Expr: e}
}

func (p *Parser) parseSwitch() cabs.Stmt {
	p.nextToken() // 'switch'
	if p.curTokenIs(lexer.TokenLParen) {
		p.nextToken()
	}
	expr := p.parseExpr(precLowest)
	if p.curTokenIs(lexer.TokenRParen) {
		p.nextToken()
	}
	sw := cabs.Switch{Expr: expr}
	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError("expected { to open switch body, got %s", p.curToken.Type)
		return sw
	}
	p.nextToken()
	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		switch p.curToken.Type {
		case lexer.TokenCase:
			p.nextToken()
			val := p.parseExpr(precTernary)
			if p.curTokenIs(lexer.TokenColon) {
				p.nextToken()
			}
			iv := int64(0)
			if lit, ok := val.(cabs.IntLit); ok {
				iv = lit.Value
			}
			sw.Cases = append(sw.Cases, p.parseSwitchCaseBody(false, iv))
		case lexer.TokenDefault:
			p.nextToken()
			if p.curTokenIs(lexer.TokenColon) {
				p.nextToken()
			}
			sw.Cases = append(sw.Cases, p.parseSwitchCaseBody(true, 0))
		default:
			p.addError("expected case or default, got %s", p.curToken.Type)
			p.nextToken()
		}
	}
	if p.curTokenIs(lexer.TokenRBrace) {
		p.nextToken()
	}
	return sw
}

func (p *Parser) parseSwitchCaseBody(isDefault bool, val int64) cabs.SwitchCase {
	c := cabs.SwitchCase{IsDefault: isDefault, Value: val}
	for !p.curTokenIs(lexer.TokenCase) && !p.curTokenIs(lexer.TokenDefault) &&
		!p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		c.Stmts = append(c.Stmts, p.parseStmt())
	}
	return c
}

// --- Expressions ---

func (p *Parser) parseExpr(prec int) cabs.Expr {
	left := p.parseUnary()
	for prec < p.curPrecedence() {
		left = p.parseInfix(left)
	}
	return left
}

// curPrecedence reports the binding power of the operator sitting at
// p.curToken, which parseUnary's callee left behind as lookahead
// after consuming the operand to its left.
func (p *Parser) curPrecedence() int {
	return precedenceOf(p.curToken.Type)
}

func precedenceOf(t lexer.TokenType) int {
	switch t {
	case lexer.TokenComma:
		return precComma
	case lexer.TokenAssign, lexer.TokenPlusAssign, lexer.TokenMinusAssign,
		lexer.TokenStarAssign, lexer.TokenSlashAssign, lexer.TokenPercentAssign,
		lexer.TokenAndAssign, lexer.TokenOrAssign, lexer.TokenXorAssign,
		lexer.TokenShlAssign, lexer.TokenShrAssign:
		return precAssign
	case lexer.TokenQuestion:
		return precTernary
	case lexer.TokenOr:
		return precOr
	case lexer.TokenAnd:
		return precAnd
	case lexer.TokenPipe:
		return precBitOr
	case lexer.TokenCaret:
		return precBitXor
	case lexer.TokenAmpersand:
		return precBitAnd
	case lexer.TokenEq, lexer.TokenNe:
		return precEquality
	case lexer.TokenLt, lexer.TokenLe, lexer.TokenGt, lexer.TokenGe:
		return precRelational
	case lexer.TokenShl, lexer.TokenShr:
		return precShift
	case lexer.TokenPlus, lexer.TokenMinus:
		return precAdditive
	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		return precMulti
	case lexer.TokenLParen:
		return precPostfix
	case lexer.TokenIncrement, lexer.TokenDecrement:
		return precPostfix
	}
	return precLowest
}

var assignOps = map[lexer.TokenType]cabs.AssignOp{
	lexer.TokenAssign:        cabs.AssignPlain,
	lexer.TokenPlusAssign:    cabs.AssignAdd,
	lexer.TokenMinusAssign:   cabs.AssignSub,
	lexer.TokenStarAssign:    cabs.AssignMul,
	lexer.TokenSlashAssign:   cabs.AssignDiv,
	lexer.TokenPercentAssign: cabs.AssignMod,
	lexer.TokenAndAssign:     cabs.AssignAnd,
	lexer.TokenOrAssign:      cabs.AssignOr,
	lexer.TokenXorAssign:     cabs.AssignXor,
	lexer.TokenShlAssign:     cabs.AssignShl,
	lexer.TokenShrAssign:     cabs.AssignShr,
}

var binaryOps = map[lexer.TokenType]cabs.BinaryOp{
	lexer.TokenPlus:      cabs.OpAdd,
	lexer.TokenMinus:     cabs.OpSub,
	lexer.TokenStar:      cabs.OpMul,
	lexer.TokenSlash:     cabs.OpDiv,
	lexer.TokenPercent:   cabs.OpMod,
	lexer.TokenAmpersand: cabs.OpBitAnd,
	lexer.TokenPipe:      cabs.OpBitOr,
	lexer.TokenCaret:     cabs.OpBitXor,
	lexer.TokenShl:       cabs.OpShl,
	lexer.TokenShr:       cabs.OpShr,
	lexer.TokenLt:        cabs.OpLt,
	lexer.TokenLe:        cabs.OpLe,
	lexer.TokenGt:        cabs.OpGt,
	lexer.TokenGe:        cabs.OpGe,
	lexer.TokenEq:        cabs.OpEq,
	lexer.TokenNe:        cabs.OpNe,
	lexer.TokenAnd:       cabs.OpLogAnd,
	lexer.TokenOr:        cabs.OpLogOr,
}

// parseInfix consumes p.curToken as an infix operator (it is left
// over from the previous parseUnary/parseInfix call's lookahead) and
// builds the corresponding expression with left as its left operand.
func (p *Parser) parseInfix(left cabs.Expr) cabs.Expr {
	switch p.curToken.Type {
	case lexer.TokenComma:
		exprs := []cabs.Expr{left}
		for p.curTokenIs(lexer.TokenComma) {
			p.nextToken()
			exprs = append(exprs, p.parseExpr(precAssign))
		}
		return cabs.Comma{Exprs: exprs}
	case lexer.TokenQuestion:
		p.nextToken()
		then := p.parseExpr(precLowest)
		if p.curTokenIs(lexer.TokenColon) {
			p.nextToken()
		} else {
			p.addError("expected : in conditional expression, got %s", p.curToken.Type)
		}
		elseExpr := p.parseExpr(precTernary)
		return cabs.Conditional{Cond: left, Then: then, Else: elseExpr}
	case lexer.TokenLParen:
		p.nextToken()
		var args []cabs.Expr
		for !p.curTokenIs(lexer.TokenRParen) && !p.curTokenIs(lexer.TokenEOF) {
			args = append(args, p.parseExpr(precAssign))
			if p.curTokenIs(lexer.TokenComma) {
				p.nextToken()
			}
		}
		if p.curTokenIs(lexer.TokenRParen) {
			p.nextToken()
		}
		return cabs.Call{Callee: left, Args: args}
	case lexer.TokenIncrement:
		p.nextToken()
		return cabs.Unary{Op: cabs.OpPostInc, Arg: left}
	case lexer.TokenDecrement:
		p.nextToken()
		return cabs.Unary{Op: cabs.OpPostDec, Arg: left}
	}

	if op, ok := assignOps[p.curToken.Type]; ok {
		p.nextToken()
		rhs := p.parseExpr(precAssign - 1) // right-associative
		return cabs.Assign{Op: op, LHS: left, RHS: rhs}
	}
	if op, ok := binaryOps[p.curToken.Type]; ok {
		prec := precedenceOf(p.curToken.Type)
		p.nextToken()
		rhs := p.parseExpr(prec)
		return cabs.Binary{Op: op, Left: left, Right: rhs}
	}

	p.addError("unexpected token %s in expression", p.curToken.Type)
	p.nextToken()
	return left
}

func (p *Parser) parseUnary() cabs.Expr {
	switch p.curToken.Type {
	case lexer.TokenMinus:
		p.nextToken()
		return cabs.Unary{Op: cabs.OpNeg, Arg: p.parseExpr(precUnary)}
	case lexer.TokenPlus:
		p.nextToken()
		return cabs.Unary{Op: cabs.OpPos, Arg: p.parseExpr(precUnary)}
	case lexer.TokenNot:
		p.nextToken()
		return cabs.Unary{Op: cabs.OpNot, Arg: p.parseExpr(precUnary)}
	case lexer.TokenTilde:
		p.nextToken()
		return cabs.Unary{Op: cabs.OpBitNot, Arg: p.parseExpr(precUnary)}
	case lexer.TokenIncrement:
		p.nextToken()
		return cabs.Unary{Op: cabs.OpPreInc, Arg: p.parseExpr(precUnary)}
	case lexer.TokenDecrement:
		p.nextToken()
		return cabs.Unary{Op: cabs.OpPreDec, Arg: p.parseExpr(precUnary)}
	case lexer.TokenAmpersand:
		p.nextToken()
		return cabs.Unary{Op: cabs.OpAddrOf, Arg: p.parseExpr(precUnary)}
	case lexer.TokenStar:
		p.nextToken()
		return cabs.Unary{Op: cabs.OpDeref, Arg: p.parseExpr(precUnary)}
	case lexer.TokenSizeof:
		p.nextToken()
		if p.curTokenIs(lexer.TokenLParen) && isTypeSpecTokenAhead(p) {
			p.nextToken()
			var specs []string
			for isTypeSpecToken(p.curToken.Type) {
				specs = append(specs, typeSpecTokens[p.curToken.Type])
				p.nextToken()
			}
			for p.curTokenIs(lexer.TokenStar) {
				p.nextToken()
			}
			if p.curTokenIs(lexer.TokenRParen) {
				p.nextToken()
			}
			return cabs.Unary{Op: cabs.OpSizeof, Arg: cabs.Cast{Specs: specs}}
		}
		return cabs.Unary{Op: cabs.OpSizeof, Arg: p.parseExpr(precUnary)}
	case lexer.TokenLParen:
		if isTypeSpecToken(p.peekToken.Type) {
			p.nextToken() // consume '('
			var specs []string
			for isTypeSpecToken(p.curToken.Type) || isQualifierToken(p.curToken.Type) {
				if isTypeSpecToken(p.curToken.Type) {
					specs = append(specs, typeSpecTokens[p.curToken.Type])
				}
				p.nextToken()
			}
			for p.curTokenIs(lexer.TokenStar) {
				p.nextToken()
			}
			if p.curTokenIs(lexer.TokenRParen) {
				p.nextToken()
			} else {
				p.addError("expected ) to close cast, got %s", p.curToken.Type)
			}
			return cabs.Cast{Specs: specs, Arg: p.parseExpr(precUnary)}
		}
	}
	return p.parsePostfixPrimary()
}

// isTypeSpecTokenAhead reports whether the token right after '(' is a
// type specifier, distinguishing `sizeof(int)` from `sizeof(expr)`.
func isTypeSpecTokenAhead(p *Parser) bool {
	return isTypeSpecToken(p.peekToken.Type)
}

func (p *Parser) parsePostfixPrimary() cabs.Expr {
	expr := p.parsePrimary()
	return expr
}

func (p *Parser) parsePrimary() cabs.Expr {
	switch p.curToken.Type {
	case lexer.TokenInt:
		lit := p.curToken.Literal
		p.nextToken()
		return cabs.IntLit{Value: parseIntLiteral(lit)}
	case lexer.TokenFloatLit:
		lit := p.curToken.Literal
		p.nextToken()
		return cabs.FloatLit{Lexeme: lit}
	case lexer.TokenIdent:
		name := p.curToken.Literal
		p.nextToken()
		return cabs.Ident{Name: name}
	case lexer.TokenLParen:
		p.nextToken()
		e := p.parseExpr(precLowest)
		if p.curTokenIs(lexer.TokenRParen) {
			p.nextToken()
		} else {
			p.addError("expected ), got %s", p.curToken.Type)
		}
		return e
	}
	p.addError("unexpected token %s in expression", p.curToken.Type)
	p.nextToken()
	return cabs.IntLit{Value: 0}
}

func parseIntLiteral(lit string) int64 {
	lit = strings.TrimRight(lit, "uUlL")
	var v int64
	for _, c := range lit {
		if c < '0' || c > '9' {
			break
		}
		v = v*10 + int64(c-'0')
	}
	return v
}
