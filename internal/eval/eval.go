// Package eval implements the tree-walking evaluator: AST + Context →
// Value (spec.md §4.5). It is grounded on the teacher repository's
// internal/interp/evaluator (a recursive Eval method dispatching on the
// node's kind, short-circuit operators evaluating their right operand
// lazily, assignment routed through a dedicated helper), adapted to this
// engine's tagged ast.Node and to returning (value.Value, error) directly
// rather than the teacher's error-as-sentinel-Value convention, since
// this package's errors package already models failure as a distinct
// return value throughout the pipeline.
package eval

import (
	"github.com/cwbudde/exprscript/internal/ast"
	"github.com/cwbudde/exprscript/internal/errors"
	"github.com/cwbudde/exprscript/internal/evalctx"
	"github.com/cwbudde/exprscript/internal/lexer"
	"github.com/cwbudde/exprscript/internal/operator"
	"github.com/cwbudde/exprscript/internal/value"
)

// Eval recursively evaluates node against ctx (spec.md §4.5). When ctx has
// a Tracer installed (evalctx.Context.SetTracer), it is invoked with each
// successfully evaluated node's kind, position, and result.
func Eval(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	result, err := evalDispatch(node, ctx)
	if err == nil && node != nil {
		if tracer := ctx.Tracer(); tracer != nil {
			tracer(node.Kind.String(), node.Pos, result)
		}
	}
	return result, err
}

func evalDispatch(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	if node == nil {
		return value.None, nil
	}

	switch node.Kind {
	case ast.Literal:
		return node.Lit, nil

	case ast.None:
		return value.None, nil

	case ast.Reference:
		return evalReference(node, ctx)

	case ast.Unary:
		return evalUnary(node, ctx)

	case ast.Binary:
		return evalBinary(node, ctx)

	case ast.Ternary:
		return evalTernary(node, ctx)

	case ast.List:
		return evalList(node, ctx)

	case ast.Map:
		return evalMap(node, ctx)

	case ast.Call:
		return evalCall(node, ctx)

	case ast.Index:
		return evalIndex(node, ctx)

	case ast.Chain:
		return evalChain(node, ctx)

	default:
		return value.Value{}, errors.New(errors.Internal, node.Pos, "unhandled AST node kind %s", node.Kind)
	}
}

// evalReference looks up a variable; if the name instead binds a
// zero-argument function, it is invoked (spec.md §4.5).
func evalReference(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	if v, ok := ctx.LookupVariable(node.Name); ok {
		return v, nil
	}
	if fn, ok := ctx.LookupFunction(node.Name); ok {
		v, err := fn(nil)
		if err != nil {
			return value.Value{}, errors.Wrap(errors.Type, node.Pos, node.Name, err)
		}
		return v, nil
	}
	return value.Value{}, evalctx.ResolveVariableError(node.Pos, node.Name)
}

func evalUnary(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	operand, err := Eval(node.Operand, ctx)
	if err != nil {
		return value.Value{}, err
	}
	result, err := ctx.Table().InvokeUnary(node.Op, operand)
	if err != nil {
		return value.Value{}, stampPos(err, node.Pos)
	}
	return result, nil
}

// evalBinary special-cases assignment and short-circuit logicals (both
// structural, not routed through a registered handler), and otherwise
// evaluates both sides left-to-right before invoking the operator table
// (spec.md §4.5).
func evalBinary(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	if operator.IsAssignment(node.Op) {
		return evalAssignment(node, ctx)
	}
	if operator.IsShortCircuit(node.Op) {
		return evalShortCircuit(node, ctx)
	}

	left, err := Eval(node.Left, ctx)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Eval(node.Right, ctx)
	if err != nil {
		return value.Value{}, err
	}

	result, err := ctx.Table().InvokeBinary(node.Op, left, right)
	if err != nil {
		return value.Value{}, stampPos(err, node.Pos)
	}
	return result, nil
}

// evalAssignment implements spec.md §4.3's assignment family: the
// left-hand side must already have been validated as a Reference by the
// parser; "=" stores rhs directly, compound forms fetch the current
// variable once, combine via the corresponding binary operator, and
// store the result back.
func evalAssignment(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	name := node.Left.Name

	rhs, err := Eval(node.Right, ctx)
	if err != nil {
		return value.Value{}, err
	}

	if node.Op == "=" {
		ctx.BindVariable(name, rhs)
		return rhs, nil
	}

	base, ok := operator.CompoundBase(node.Op)
	if !ok {
		return value.Value{}, errors.New(errors.Internal, node.Pos, "unrecognized assignment operator %q", node.Op)
	}

	current, err := evalReference(node.Left, ctx)
	if err != nil {
		return value.Value{}, err
	}

	result, err := ctx.Table().InvokeBinary(base, current, rhs)
	if err != nil {
		return value.Value{}, stampPos(err, node.Pos)
	}

	ctx.BindVariable(name, result)
	return result, nil
}

// evalShortCircuit implements spec.md §4.3/§4.5: the result is the
// deciding operand itself, not a coerced Bool, and the non-evaluated
// side's errors (and side effects) never occur.
func evalShortCircuit(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	left, err := Eval(node.Left, ctx)
	if err != nil {
		return value.Value{}, err
	}

	switch node.Op {
	case "&&":
		if !left.Truthy() {
			return left, nil
		}
		return Eval(node.Right, ctx)
	case "||":
		if left.Truthy() {
			return left, nil
		}
		return Eval(node.Right, ctx)
	default:
		return value.Value{}, errors.New(errors.Internal, node.Pos, "unrecognized short-circuit operator %q", node.Op)
	}
}

func evalTernary(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	cond, err := Eval(node.Cond, ctx)
	if err != nil {
		return value.Value{}, err
	}
	if cond.Truthy() {
		return Eval(node.Then, ctx)
	}
	return Eval(node.Else, ctx)
}

func evalList(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	elements := make([]value.Value, len(node.Elements))
	for i, e := range node.Elements {
		v, err := Eval(e, ctx)
		if err != nil {
			return value.Value{}, err
		}
		elements[i] = v
	}
	return value.NewList(elements), nil
}

func evalMap(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	m := value.NewMap()
	for _, pair := range node.Pairs {
		k, err := Eval(pair.Key, ctx)
		if err != nil {
			return value.Value{}, err
		}
		v, err := Eval(pair.Val, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if !m.AsMap().Set(k, v) {
			return value.Value{}, errors.New(errors.Type, pair.Key.Pos, "map key of type %s is not hashable", k.Kind())
		}
	}
	return m, nil
}

// evalCall evaluates arguments left-to-right, then resolves and invokes
// the named function (spec.md §4.5, §8 "Argument order").
func evalCall(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	args := make([]value.Value, len(node.Elements))
	for i, a := range node.Elements {
		v, err := Eval(a, ctx)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	fn, ok := ctx.LookupFunction(node.Name)
	if !ok {
		return value.Value{}, evalctx.ResolveFunctionError(node.Pos, node.Name)
	}

	result, err := fn(args)
	if err != nil {
		return value.Value{}, errors.Wrap(errors.Type, node.Pos, node.Name, err)
	}
	return result, nil
}

// evalIndex implements the supplemented postfix indexing operator: List
// indexes by integral position, Map indexes by key; a missing Map key
// evaluates to None rather than failing (see DESIGN.md's Open Question
// decision on indexing).
func evalIndex(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	base, err := Eval(node.Base, ctx)
	if err != nil {
		return value.Value{}, err
	}
	key, err := Eval(node.Key, ctx)
	if err != nil {
		return value.Value{}, err
	}

	switch base.Kind() {
	case value.KindList:
		if !key.IsNumber() || !value.IsIntegral(key.AsNumber()) {
			return value.Value{}, errors.New(errors.Type, node.Pos, "list index must be an integral Number, got %s", key.Kind())
		}
		idx, _ := key.AsNumber().Int64()
		list := base.AsList()
		if idx < 0 || idx >= int64(len(list)) {
			return value.Value{}, errors.New(errors.Resolve, node.Pos, "list index %d out of range (length %d)", idx, len(list))
		}
		return list[idx], nil

	case value.KindMap:
		v, ok := base.AsMap().Get(key)
		if !ok {
			return value.None, nil
		}
		return v, nil

	default:
		return value.Value{}, errors.New(errors.Type, node.Pos, "operator \"[]\" not supported on %s", base.Kind())
	}
}

func evalChain(node *ast.Node, ctx *evalctx.Context) (value.Value, error) {
	if len(node.Statements) == 0 {
		return value.None, nil
	}
	var result value.Value
	for _, stmt := range node.Statements {
		v, err := Eval(stmt, ctx)
		if err != nil {
			return value.Value{}, err
		}
		result = v
	}
	return result, nil
}

// stampPos attaches node's source position to an operator handler's
// error if it doesn't already carry one, per the Handler contract in
// package operator ("the evaluator stamps the error's source position
// before surfacing it").
func stampPos(err error, pos lexer.Position) error {
	ee, ok := err.(*errors.EngineError)
	if !ok {
		return err
	}
	if ee.Pos.Line == 0 && ee.Pos.Column == 0 {
		ee.Pos = pos
	}
	return ee
}
