// Package rustgen implements the translation engine: it walks a
// cabs.Program and produces the equivalent []rustast.Item, applying
// the type-folding, arithmetic-conversion, and lvalue rules pkg/ctype
// and pkg/env provide.
package rustgen

import "fmt"

// ErrorKind enumerates the fatal-translation-failure taxonomy of
// spec.md §7.
type ErrorKind int

const (
	UnsupportedTypeSpecifier ErrorKind = iota
	UnsupportedStorageClass
	UnsupportedDeclarator
	UnsupportedExpression
	UnsupportedStatement
	UnsupportedUnaryOperator
	UndefinedVariable
	MalformedFloat
	CalleeNotFunction
)

var errorKindNames = map[ErrorKind]string{
	UnsupportedTypeSpecifier: "unsupported type specifier",
	UnsupportedStorageClass:  "unsupported storage class",
	UnsupportedDeclarator:    "unsupported declarator",
	UnsupportedExpression:    "unsupported expression",
	UnsupportedStatement:     "unsupported statement",
	UnsupportedUnaryOperator: "unsupported unary operator",
	UndefinedVariable:        "undefined variable",
	MalformedFloat:           "malformed float literal",
	CalleeNotFunction:        "callee is not a function",
}

// Error is a fatal translation failure, located by the Detail string
// the raising call site supplies (a name, a literal, an operator
// spelling — whatever best identifies the offending input).
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	name, ok := errorKindNames[e.Kind]
	if !ok {
		name = "unknown translation error"
	}
	return fmt.Sprintf("%s: %s", name, e.Detail)
}
