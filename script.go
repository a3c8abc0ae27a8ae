// Package exprscript is the public façade over the embeddable expression
// engine (spec.md §4.7): Compile, Execute, ExecuteAST, and a convenience
// context constructor. It is grounded on the teacher repository's
// cmd/dwscript/cmd/run.go, which wires the same lexer → parser → eval
// pipeline together for its CLI driver; this file is that wiring promoted
// to a reusable library entry point instead of being private to one
// command.
package exprscript

import (
	"github.com/cwbudde/exprscript/internal/ast"
	"github.com/cwbudde/exprscript/internal/builtins"
	"github.com/cwbudde/exprscript/internal/eval"
	"github.com/cwbudde/exprscript/internal/evalctx"
	"github.com/cwbudde/exprscript/internal/operator"
	"github.com/cwbudde/exprscript/internal/parser"
	"github.com/cwbudde/exprscript/internal/value"
)

// Value is the engine's dynamically typed runtime value (spec.md §3).
type Value = value.Value

// Node is a compiled AST (spec.md §3).
type Node = ast.Node

// Context holds the variable and function bindings one Execute call runs
// against (spec.md §4.6).
type Context = evalctx.Context

// Function is a host-supplied callable bound into a Context under a
// name (spec.md §4.7).
type Function = evalctx.Function

// Compile parses text into an AST without evaluating it (spec.md §4.7
// `compile`). table supplies operator precedence; pass the Table from an
// existing Context (ctx.Table()) so Compile and a later ExecuteAST agree
// on precedence, or NewContext()'s table for a one-off compile.
func Compile(text string, table *operator.Table) (*Node, error) {
	return parser.Parse(text, table)
}

// Execute compiles and evaluates text against ctx in one call (spec.md
// §4.7 `execute`).
func Execute(text string, ctx *Context) (Value, error) {
	node, err := parser.Parse(text, ctx.Table())
	if err != nil {
		return Value{}, err
	}
	return ExecuteAST(node, ctx)
}

// ExecuteAST evaluates an already-compiled AST against ctx (spec.md §4.7
// `execute_ast`), letting a host reuse one compiled AST across many
// evaluations against different contexts.
func ExecuteAST(node *Node, ctx *Context) (Value, error) {
	return eval.Eval(node, ctx)
}

// NewContext creates an empty Context with the baseline builtins
// (min, max, abs, len, print, str, num, type; spec.md §6) registered and
// overridable.
func NewContext() *Context {
	ctx := evalctx.New()
	builtins.Register(ctx)
	return ctx
}

// Binding is one (name, value) or (name, function) pair for NewContextWith
// (spec.md §4.7's "convenience constructor").
type Binding = evalctx.Binding

// Var constructs a variable Binding.
func Var(name string, v Value) Binding { return evalctx.VarBinding(name, v) }

// Fn constructs a function Binding.
func Fn(name string, fn Function) Binding { return evalctx.FuncBinding(name, fn) }

// NewContextWith builds a Context in one step from variable and function
// bindings, with the baseline builtins registered first so a same-named
// binding here overrides one (spec.md §4.7, §6).
func NewContextWith(bindings ...Binding) *Context {
	ctx := NewContext()
	for _, b := range bindings {
		ctx.Apply(b)
	}
	return ctx
}
