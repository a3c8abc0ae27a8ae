// Package evalctx implements the engine's Context: the host-populated
// bindings of variables and functions the evaluator consults, together
// with the operator table assignment mutates through (spec.md §3, §4.6).
// It is grounded on the teacher repository's internal/interp/runtime
// Environment (a name→value store the evaluator reads and writes), but
// flattened to a single non-nested scope, since this engine's grammar has
// no block or function-body scoping of its own: a Context is the whole
// binding environment for one `execute` call.
package evalctx

import (
	"github.com/cwbudde/exprscript/internal/errors"
	"github.com/cwbudde/exprscript/internal/lexer"
	"github.com/cwbudde/exprscript/internal/operator"
	"github.com/cwbudde/exprscript/internal/value"
)

// Function is a host-supplied callable bound into a Context under a name
// (spec.md §4.7: "a convenience constructor taking a collection of
// (name, value) and (name, function) pairs").
type Function func(args []value.Value) (value.Value, error)

// Tracer is an optional hook invoked after each AST node is evaluated,
// receiving the node's kind name, source position, and result. It has no
// effect on evaluation and exists purely for diagnostics (the `run --trace`
// CLI flag; SPEC_FULL.md's "thin tracing hook on the evaluator, no timers
// or suspension per §5").
type Tracer func(kind string, pos lexer.Position, result value.Value)

// Context owns the variable and function bindings one evaluation runs
// against, plus a handle on the operator table (spec.md §4.6). It is not
// safe for concurrent mutation (spec.md §5).
type Context struct {
	vars   map[string]value.Value
	funcs  map[string]Function
	table  *operator.Table
	tracer Tracer
}

// New creates an empty Context with a fresh default operator table.
func New() *Context {
	return &Context{
		vars:  make(map[string]value.Value),
		funcs: make(map[string]Function),
		table: operator.NewTable(),
	}
}

// NewWithTable creates an empty Context sharing table with other
// contexts, so that an operator redirected on one takes effect for all
// (spec.md §4.3: redirection "takes effect for subsequent evaluations").
func NewWithTable(table *operator.Table) *Context {
	return &Context{
		vars:  make(map[string]value.Value),
		funcs: make(map[string]Function),
		table: table,
	}
}

// BindVariable stores name = val, overwriting any existing binding.
func (c *Context) BindVariable(name string, val value.Value) {
	c.vars[name] = val
}

// LookupVariable returns the bound value for name, or ok=false if unbound.
func (c *Context) LookupVariable(name string) (value.Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// UnbindVariable removes name from the variable map; a subsequent
// LookupVariable for it reports unbound.
func (c *Context) UnbindVariable(name string) {
	delete(c.vars, name)
}

// BindFunction registers fn under name, overwriting any existing
// registration (including a builtin of the same name; spec.md §6: "names
// reserved, overridable via registration").
func (c *Context) BindFunction(name string, fn Function) {
	c.funcs[name] = fn
}

// LookupFunction returns the bound function for name, or ok=false if
// unbound.
func (c *Context) LookupFunction(name string) (Function, bool) {
	fn, ok := c.funcs[name]
	return fn, ok
}

// Table returns the operator table this Context evaluates against.
func (c *Context) Table() *operator.Table { return c.table }

// SetTracer installs t to be called after each AST node the evaluator
// evaluates without error; pass nil to disable tracing.
func (c *Context) SetTracer(t Tracer) { c.tracer = t }

// Tracer returns the currently installed trace hook, or nil.
func (c *Context) Tracer() Tracer { return c.tracer }

// RedirectOperator replaces symbol's handler with a host-supplied one
// (spec.md §4.6 "redirect-operator").
func (c *Context) RedirectOperator(symbol string, h operator.Handler) error {
	return c.table.Redirect(symbol, h)
}

// Binding is one (name, value) or (name, function) pair for the
// convenience constructor NewFromBindings populates a Context from in one step
// (spec.md §4.7). Exactly one of Value/Fn should be set; VarBinding and
// FuncBinding construct these unambiguously.
type Binding struct {
	Name  string
	Value value.Value
	Fn    Function
	isFn  bool
}

// VarBinding constructs a variable Binding.
func VarBinding(name string, v value.Value) Binding {
	return Binding{Name: name, Value: v}
}

// FuncBinding constructs a function Binding.
func FuncBinding(name string, fn Function) Binding {
	return Binding{Name: name, Fn: fn, isFn: true}
}

// Apply binds a single Binding into c, as either a variable or a
// function depending on how it was constructed.
func (c *Context) Apply(b Binding) {
	if b.isFn {
		c.BindFunction(b.Name, b.Fn)
	} else {
		c.BindVariable(b.Name, b.Value)
	}
}

// NewFromBindings builds a Context in one step from a collection of
// variable and function bindings (spec.md §4.7).
func NewFromBindings(bindings ...Binding) *Context {
	c := New()
	for _, b := range bindings {
		c.Apply(b)
	}
	return c
}

// resolveErr builds a Resolve error for an undefined name at pos.
func resolveErr(pos lexer.Position, kind, name string) error {
	return errors.New(errors.Resolve, pos, "undefined %s %q", kind, name)
}

// ResolveVariableError returns the Resolve error for an undefined
// variable at pos, for the evaluator to return on a failed lookup.
func ResolveVariableError(pos lexer.Position, name string) error {
	return resolveErr(pos, "variable", name)
}

// ResolveFunctionError returns the Resolve error for an undefined
// function at pos, for the evaluator to return on a failed lookup.
func ResolveFunctionError(pos lexer.Position, name string) error {
	return resolveErr(pos, "function", name)
}
