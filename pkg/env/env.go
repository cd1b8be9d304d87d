// Package env implements the name-to-C-type environment shared by the
// expression, statement, and top-level translators (spec.md §3.3).
package env

import "github.com/cc-rust/transpiler/pkg/ctype"

type binding struct {
	name string
	typ  ctype.Type
}

// Env is a stack of identifier bindings, newest first. Shadowing is
// permitted; Lookup returns the most recently pushed match. Scopes
// nest by save/restore of the whole stack around a lexical region.
type Env struct {
	bindings []binding
}

// New creates an empty environment.
func New() *Env {
	return &Env{}
}

// AddVar pushes a new (identifier, C type) binding, shadowing any
// existing binding of the same name.
func (e *Env) AddVar(name string, typ ctype.Type) {
	e.bindings = append(e.bindings, binding{name: name, typ: typ})
}

// Lookup returns the C type most recently bound to name, and whether
// any binding exists.
func (e *Env) Lookup(name string) (ctype.Type, bool) {
	for i := len(e.bindings) - 1; i >= 0; i-- {
		if e.bindings[i].name == name {
			return e.bindings[i].typ, true
		}
	}
	return nil, false
}

// Mark is an opaque snapshot of the environment's depth, returned by
// Save and consumed by Restore to implement scope save/restore
// (spec.md §5's "Scope contract").
type Mark int

// Save returns a mark for the environment's current depth.
func (e *Env) Save() Mark {
	return Mark(len(e.bindings))
}

// Restore truncates the environment back to the depth captured by
// mark. Callers must invoke this on every exit path — success or
// failure — of a scope (spec.md §5).
func (e *Env) Restore(mark Mark) {
	e.bindings = e.bindings[:int(mark)]
}

// Len reports the current number of live bindings, useful for tests
// asserting scope hygiene (spec.md §8 invariant 5).
func (e *Env) Len() int {
	return len(e.bindings)
}
