// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pyast defines the abstract syntax tree of the Python subset
// processed by pyflat.
//
// Statements and expressions are closed sets: the marker methods are
// unexported so that only this package can declare new kinds of nodes.
package pyast

import "fmt"

// Pos is a position in a source file.
// Lines and columns start at 1. The zero value is an invalid position,
// used by synthesized nodes.
type Pos struct {
	Line, Col int
}

// IsValid returns true if the position points to a source location.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// String returns the position as line:col or "-" if the position is invalid.
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// ----------------------------------------------------------------------------
// Types of node in the tree.
type (
	// Node in the tree.
	Node interface {
		// Pos returns the position of the node in the source.
		Pos() Pos
		// node marks a structure as a node structure.
		// It prevents external implementations of the interface.
		node()
	}

	// Stmt is a statement.
	Stmt interface {
		Node
		// stmtNode marks a structure as a statement structure.
		stmtNode()
	}

	// Expr is an expression.
	Expr interface {
		Node
		// exprNode marks a structure as an expression structure.
		exprNode()
	}
)

// Module is the root of a parsed file.
type Module struct {
	Body []Stmt
}

var _ Node = (*Module)(nil)

func (*Module) node() {}

// Pos returns the position of the first statement.
func (m *Module) Pos() Pos {
	if len(m.Body) == 0 {
		return Pos{}
	}
	return m.Body[0].Pos()
}

// ----------------------------------------------------------------------------
// Statements.
type (
	// FunctionDef defines a function.
	FunctionDef struct {
		Loc    Pos
		Name   string
		Params []string
		Body   []Stmt
	}

	// Return returns from a function.
	// Value is nil for a bare return.
	Return struct {
		Loc   Pos
		Value Expr
	}

	// Assign binds the value to all targets, as in a = b = value.
	Assign struct {
		Loc     Pos
		Targets []Expr
		Value   Expr
	}

	// AugAssign is an augmented assignment, as in a += value.
	AugAssign struct {
		Loc    Pos
		Target Expr
		Op     Operator
		Value  Expr
	}

	// ExprStmt evaluates an expression and discards its result.
	ExprStmt struct {
		Loc   Pos
		Value Expr
	}

	// Pass does nothing.
	Pass struct {
		Loc Pos
	}

	// If is a conditional statement.
	// An elif clause is an If statement alone in Orelse.
	If struct {
		Loc    Pos
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	// While is a loop.
	While struct {
		Loc  Pos
		Test Expr
		Body []Stmt
	}
)

var (
	_ Stmt = (*FunctionDef)(nil)
	_ Stmt = (*Return)(nil)
	_ Stmt = (*Assign)(nil)
	_ Stmt = (*AugAssign)(nil)
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*Pass)(nil)
	_ Stmt = (*If)(nil)
	_ Stmt = (*While)(nil)
)

func (*FunctionDef) node()     {}
func (*FunctionDef) stmtNode() {}

// Pos returns the position of the def keyword.
func (s *FunctionDef) Pos() Pos { return s.Loc }

func (*Return) node()     {}
func (*Return) stmtNode() {}

// Pos returns the position of the return keyword.
func (s *Return) Pos() Pos { return s.Loc }

func (*Assign) node()     {}
func (*Assign) stmtNode() {}

// Pos returns the position of the first target.
func (s *Assign) Pos() Pos { return s.Loc }

func (*AugAssign) node()     {}
func (*AugAssign) stmtNode() {}

// Pos returns the position of the target.
func (s *AugAssign) Pos() Pos { return s.Loc }

func (*ExprStmt) node()     {}
func (*ExprStmt) stmtNode() {}

// Pos returns the position of the expression.
func (s *ExprStmt) Pos() Pos { return s.Loc }

func (*Pass) node()     {}
func (*Pass) stmtNode() {}

// Pos returns the position of the pass keyword.
func (s *Pass) Pos() Pos { return s.Loc }

func (*If) node()     {}
func (*If) stmtNode() {}

// Pos returns the position of the if keyword.
func (s *If) Pos() Pos { return s.Loc }

func (*While) node()     {}
func (*While) stmtNode() {}

// Pos returns the position of the while keyword.
func (s *While) Pos() Pos { return s.Loc }

// ----------------------------------------------------------------------------
// Expressions.
type (
	// Name refers to a variable.
	Name struct {
		Loc Pos
		ID  string
	}

	// Constant is a literal value.
	Constant struct {
		Loc  Pos
		Kind ConstKind
		// Value is the source text of numbers and the decoded content of strings.
		Value string
	}

	// UnaryOp applies an operator to a single operand.
	UnaryOp struct {
		Loc     Pos
		Op      UnaryOperator
		Operand Expr
	}

	// BinOp applies an operator to two operands.
	BinOp struct {
		Loc   Pos
		Left  Expr
		Op    Operator
		Right Expr
	}

	// Call calls a function.
	Call struct {
		Loc      Pos
		Func     Expr
		Args     []Expr
		Keywords []*Keyword
	}

	// Tuple groups expressions.
	Tuple struct {
		Loc  Pos
		Elts []Expr
	}

	// Compare is a chain of comparisons, as in a < b <= c.
	Compare struct {
		Loc         Pos
		Left        Expr
		Ops         []CmpOperator
		Comparators []Expr
	}

	// BoolOp is a sequence of values joined by the same boolean operator.
	BoolOp struct {
		Loc    Pos
		Op     BoolOperator
		Values []Expr
	}

	// Attribute selects an attribute of a value.
	Attribute struct {
		Loc   Pos
		Value Expr
		Attr  string
	}

	// Subscript indexes a value.
	Subscript struct {
		Loc   Pos
		Value Expr
		Index Expr
	}
)

var (
	_ Expr = (*Name)(nil)
	_ Expr = (*Constant)(nil)
	_ Expr = (*UnaryOp)(nil)
	_ Expr = (*BinOp)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Tuple)(nil)
	_ Expr = (*Compare)(nil)
	_ Expr = (*BoolOp)(nil)
	_ Expr = (*Attribute)(nil)
	_ Expr = (*Subscript)(nil)
)

func (*Name) node()     {}
func (*Name) exprNode() {}

// Pos returns the position of the identifier.
func (e *Name) Pos() Pos { return e.Loc }

func (*Constant) node()     {}
func (*Constant) exprNode() {}

// Pos returns the position of the literal.
func (e *Constant) Pos() Pos { return e.Loc }

func (*UnaryOp) node()     {}
func (*UnaryOp) exprNode() {}

// Pos returns the position of the operator.
func (e *UnaryOp) Pos() Pos { return e.Loc }

func (*BinOp) node()     {}
func (*BinOp) exprNode() {}

// Pos returns the position of the left operand.
func (e *BinOp) Pos() Pos { return e.Loc }

func (*Call) node()     {}
func (*Call) exprNode() {}

// Pos returns the position of the function expression.
func (e *Call) Pos() Pos { return e.Loc }

func (*Tuple) node()     {}
func (*Tuple) exprNode() {}

// Pos returns the position of the first element or of the opening parenthesis.
func (e *Tuple) Pos() Pos { return e.Loc }

func (*Compare) node()     {}
func (*Compare) exprNode() {}

// Pos returns the position of the left operand.
func (e *Compare) Pos() Pos { return e.Loc }

func (*BoolOp) node()     {}
func (*BoolOp) exprNode() {}

// Pos returns the position of the first value.
func (e *BoolOp) Pos() Pos { return e.Loc }

func (*Attribute) node()     {}
func (*Attribute) exprNode() {}

// Pos returns the position of the value.
func (e *Attribute) Pos() Pos { return e.Loc }

func (*Subscript) node()     {}
func (*Subscript) exprNode() {}

// Pos returns the position of the value.
func (e *Subscript) Pos() Pos { return e.Loc }

// Keyword is a keyword argument in a call, as in f(k=v).
type Keyword struct {
	Loc   Pos
	Arg   string
	Value Expr
}

var _ Node = (*Keyword)(nil)

func (*Keyword) node() {}

// Pos returns the position of the keyword name.
func (k *Keyword) Pos() Pos { return k.Loc }

// ConstKind is the kind of a literal.
type ConstKind int

// Kinds of literals.
const (
	Int ConstKind = iota
	Float
	Str
	Bool
	None
)

// String returns the name of the kind.
func (k ConstKind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Str:
		return "str"
	case Bool:
		return "bool"
	case None:
		return "None"
	}
	return fmt.Sprintf("ConstKind(%d)", int(k))
}

// NewName returns a name with no position.
func NewName(id string) *Name {
	return &Name{ID: id}
}

// IsAtomic returns true if the expression is a name or a constant.
func IsAtomic(expr Expr) bool {
	switch expr.(type) {
	case *Name, *Constant:
		return true
	}
	return false
}
