package lang

import (
	"strconv"
	"strings"
)

// Node is an AST node. Each node owns its children.
type Node interface {
	// Flatten appends the node's operations to out in post-order and
	// returns the extended slice.
	Flatten(out []Op) []Op
	// Children returns the node's direct children.
	Children() []Node
	String() string
}

// ValueNode is a literal value.
type ValueNode struct {
	Value Value
}

// Flatten implements [Node].
func (n *ValueNode) Flatten(out []Op) []Op { return append(out, pushValue{n.Value}) }

// Children implements [Node].
func (n *ValueNode) Children() []Node { return nil }

// String implements [Node].
func (n *ValueNode) String() string { return n.Value.String() }

// UnaryOpNode applies a prefix operator.
type UnaryOpNode struct {
	Op  *UnaryOperator
	Arg Node
}

// Flatten implements [Node].
func (n *UnaryOpNode) Flatten(out []Op) []Op {
	return append(n.Arg.Flatten(out), callUnary{n.Op})
}

// Children implements [Node].
func (n *UnaryOpNode) Children() []Node { return []Node{n.Arg} }

// String implements [Node].
func (n *UnaryOpNode) String() string {
	return "(" + n.Op.name + " " + n.Arg.String() + ")"
}

// BinaryOpNode applies an infix operator.
type BinaryOpNode struct {
	Op          *BinaryOperator
	Left, Right Node
}

// Flatten implements [Node].
func (n *BinaryOpNode) Flatten(out []Op) []Op {
	out = n.Left.Flatten(out)
	out = n.Right.Flatten(out)

	return append(out, callBinary{n.Op})
}

// Children implements [Node].
func (n *BinaryOpNode) Children() []Node { return []Node{n.Left, n.Right} }

// String implements [Node].
func (n *BinaryOpNode) String() string {
	return "(" + n.Op.name + " " + n.Left.String() + " " + n.Right.String() + ")"
}

// BracketNode is a parenthesized group. Its children are emitted in order,
// so (a, b) leaves two values on the stack.
type BracketNode struct {
	Items []Node
}

// Flatten implements [Node].
func (n *BracketNode) Flatten(out []Op) []Op {
	for _, item := range n.Items {
		out = item.Flatten(out)
	}

	return out
}

// Children implements [Node].
func (n *BracketNode) Children() []Node { return n.Items }

// String implements [Node].
func (n *BracketNode) String() string { return "(" + joinNodes(n.Items) + ")" }

// ListNode is a list literal [a, b, ...].
type ListNode struct {
	Items []Node
}

// Flatten implements [Node].
func (n *ListNode) Flatten(out []Op) []Op {
	for _, item := range n.Items {
		out = item.Flatten(out)
	}

	return append(out, callSymbol{name: SymbolList, args: len(n.Items), returns: 1})
}

// Children implements [Node].
func (n *ListNode) Children() []Node { return n.Items }

// String implements [Node].
func (n *ListNode) String() string { return "[" + joinNodes(n.Items) + "]" }

// CodeNode is a code literal {a, b, ...}. It pushes its body as a [Code]
// value instead of running it.
type CodeNode struct {
	Items []Node
}

// Code compiles the body of the literal.
func (n *CodeNode) Code() *Code {
	var ops []Op
	for _, item := range n.Items {
		ops = item.Flatten(ops)
	}

	return NewCode(ops...)
}

// Flatten implements [Node].
func (n *CodeNode) Flatten(out []Op) []Op { return append(out, pushValue{n.Code()}) }

// Children implements [Node].
func (n *CodeNode) Children() []Node { return n.Items }

// String implements [Node].
func (n *CodeNode) String() string { return "{" + joinNodes(n.Items) + "}" }

// SymbolGetNode reads the value of a name.
type SymbolGetNode struct {
	Name string
}

// Flatten implements [Node].
func (n *SymbolGetNode) Flatten(out []Op) []Op { return append(out, getSymbol{n.Name}) }

// Children implements [Node].
func (n *SymbolGetNode) Children() []Node { return nil }

// String implements [Node].
func (n *SymbolGetNode) String() string { return n.Name }

// SymbolCallNode calls a name with arguments: name(a, b, ...).
type SymbolCallNode struct {
	Name string
	Args []Node
}

// Flatten implements [Node].
func (n *SymbolCallNode) Flatten(out []Op) []Op {
	for _, arg := range n.Args {
		out = arg.Flatten(out)
	}

	return append(out, callSymbol{name: n.Name, args: len(n.Args), returns: 1})
}

// Children implements [Node].
func (n *SymbolCallNode) Children() []Node { return n.Args }

// String implements [Node].
func (n *SymbolCallNode) String() string {
	return n.Name + "(" + joinNodes(n.Args) + ")"
}

// ModifierNode is the root of a construct introduced by a modifier token.
type ModifierNode struct {
	Child Node
	Name  string
}

// Flatten implements [Node].
func (n *ModifierNode) Flatten(out []Op) []Op { return n.Child.Flatten(out) }

// Children implements [Node].
func (n *ModifierNode) Children() []Node { return []Node{n.Child} }

// String implements [Node].
func (n *ModifierNode) String() string { return n.Name + n.Child.String() }

// DotNode reads an attribute, optionally calling it: obj.name or
// obj.name(args...).
type DotNode struct {
	Op   *BinaryOperator
	Obj  Node
	Name string
	Args []Node
	Call bool
}

// Flatten implements [Node].
func (n *DotNode) Flatten(out []Op) []Op {
	out = n.Obj.Flatten(out)
	out = append(out, pushValue{Str(n.Name)}, callBinary{n.Op})

	if !n.Call {
		return out
	}

	for _, arg := range n.Args {
		out = arg.Flatten(out)
	}

	return append(out, apply{args: len(n.Args), returns: 1})
}

// Children implements [Node].
func (n *DotNode) Children() []Node {
	return append([]Node{n.Obj}, n.Args...)
}

// String implements [Node].
func (n *DotNode) String() string {
	s := n.Obj.String() + "." + n.Name
	if n.Call {
		s += "(" + joinNodes(n.Args) + ")"
	}

	return s
}

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}

	return strings.Join(parts, ", ")
}

// FormatTree renders node as an indented tree, one node per line.
func FormatTree(node Node) string {
	var sb strings.Builder

	formatTree(&sb, node, 0)

	return sb.String()
}

func formatTree(sb *strings.Builder, node Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(nodeLabel(node))
	sb.WriteRune('\n')

	for _, child := range node.Children() {
		formatTree(sb, child, depth+1)
	}
}

func nodeLabel(node Node) string {
	switch n := node.(type) {
	case *ValueNode:
		return "value " + n.Value.String()

	case *UnaryOpNode:
		return "unary " + n.Op.name

	case *BinaryOpNode:
		return "binary " + n.Op.name

	case *BracketNode:
		return "group " + strconv.Itoa(len(n.Items))

	case *ListNode:
		return "list " + strconv.Itoa(len(n.Items))

	case *CodeNode:
		return "code " + strconv.Itoa(len(n.Items))

	case *SymbolGetNode:
		return "get " + n.Name

	case *SymbolCallNode:
		return "call " + n.Name + "/" + strconv.Itoa(len(n.Args))

	case *ModifierNode:
		return "modifier " + n.Name

	case *DotNode:
		return "attr " + n.Name

	case *LambdaNode:
		return "lambda " + strings.Join(n.Params, " ")

	case *LetNode:
		return n.Kind.String() + " " + strconv.Itoa(len(n.Bindings))

	default:
		return node.String()
	}
}
