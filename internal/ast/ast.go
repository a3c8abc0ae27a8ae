// Package ast defines the expression engine's abstract syntax tree.
//
// spec.md §9 explicitly prefers "a tagged-variant tree with a single eval
// switch... over polymorphic node objects" to keep the evaluator's hot path
// monomorphic and to make the operator registry the single extension
// point. This package follows that design note directly: Node is one
// struct with a Kind tag and a fixed set of fields, rather than the
// teacher repository's polymorphic Node/Expression/Statement interface
// hierarchy (one concrete struct type per node shape). The Position-
// carrying-every-node convention and the Pratt-parser precedence table
// that builds this tree are still grounded on the teacher's
// internal/ast + internal/parser.
package ast

import (
	"strings"

	"github.com/cwbudde/exprscript/internal/lexer"
	"github.com/cwbudde/exprscript/internal/value"
)

// Kind tags which variant a Node is.
type Kind int

const (
	Literal Kind = iota
	Reference
	Unary
	Binary
	Ternary
	List
	Map
	Call
	Index
	None
	Chain
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case Reference:
		return "Reference"
	case Unary:
		return "Unary"
	case Binary:
		return "Binary"
	case Ternary:
		return "Ternary"
	case List:
		return "List"
	case Map:
		return "Map"
	case Call:
		return "Call"
	case Index:
		return "Index"
	case Chain:
		return "Chain"
	default:
		return "None"
	}
}

// Pair is a (key, value) expression pair inside a Map node.
type Pair struct {
	Key *Node
	Val *Node
}

// Node is the single tagged AST node type. Every compiled tree is built
// from Nodes exclusively; once built, a Node's fields are never mutated
// (spec.md §3: "AST nodes own their children exclusively; they are
// immutable once built").
type Node struct {
	Kind Kind
	Pos  lexer.Position

	// Literal
	Lit value.Value

	// Reference / Call: the bound name.
	Name string

	// Unary / Binary: the operator lexeme (symbol or word).
	Op string

	// Unary: Operand. Binary: Left/Right. Ternary: Cond/Then/Else.
	// Index: Base/Key.
	Operand *Node
	Left    *Node
	Right   *Node
	Cond    *Node
	Then    *Node
	Else    *Node
	Base    *Node
	Key     *Node

	// List elements, Call arguments.
	Elements []*Node

	// Map key/value pairs.
	Pairs []Pair

	// Chain statements.
	Statements []*Node
}

// String renders the tree for debugging (the `parse` CLI command prints
// this).
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case Literal:
		return n.Lit.String()
	case Reference:
		return n.Name
	case Unary:
		sep := ""
		if len(n.Op) > 0 && isWordStart(n.Op[0]) {
			sep = " "
		}
		return "(" + n.Op + sep + n.Operand.String() + ")"
	case Binary:
		return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
	case Ternary:
		return "(" + n.Cond.String() + " ? " + n.Then.String() + " : " + n.Else.String() + ")"
	case List:
		return "[" + joinNodes(n.Elements) + "]"
	case Map:
		parts := make([]string, len(n.Pairs))
		for i, p := range n.Pairs {
			parts[i] = p.Key.String() + ": " + p.Val.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Call:
		return n.Name + "(" + joinNodes(n.Elements) + ")"
	case Index:
		return n.Base.String() + "[" + n.Key.String() + "]"
	case Chain:
		parts := make([]string, len(n.Statements))
		for i, s := range n.Statements {
			parts[i] = s.String()
		}
		return strings.Join(parts, "; ")
	default:
		return "None"
	}
}

func joinNodes(nodes []*Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}

func isWordStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// NoneNode builds a new literal None node, as the parser emits for an
// empty program, an empty statement, and the `None` identifier.
func NoneNode(pos lexer.Position) *Node {
	return &Node{Kind: None, Pos: pos}
}
