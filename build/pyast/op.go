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

package pyast

import "fmt"

// UnaryOperator is the operator of a unary operation.
type UnaryOperator int

// Unary operators.
const (
	UAdd UnaryOperator = iota
	USub
	Invert
	Not
)

var unaryOps = [...]string{
	UAdd:   "+",
	USub:   "-",
	Invert: "~",
	Not:    "not",
}

// String returns the Python spelling of the operator.
func (op UnaryOperator) String() string {
	if op < 0 || int(op) >= len(unaryOps) {
		return fmt.Sprintf("UnaryOperator(%d)", int(op))
	}
	return unaryOps[op]
}

// Operator is the operator of a binary operation.
type Operator int

// Binary operators.
const (
	Add Operator = iota
	Sub
	Mult
	MatMult
	Div
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

var binaryOps = [...]string{
	Add:      "+",
	Sub:      "-",
	Mult:     "*",
	MatMult:  "@",
	Div:      "/",
	Mod:      "%",
	Pow:      "**",
	LShift:   "<<",
	RShift:   ">>",
	BitOr:    "|",
	BitXor:   "^",
	BitAnd:   "&",
	FloorDiv: "//",
}

// String returns the Python spelling of the operator.
func (op Operator) String() string {
	if op < 0 || int(op) >= len(binaryOps) {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return binaryOps[op]
}

// CmpOperator is a comparison operator.
type CmpOperator int

// Comparison operators.
const (
	Eq CmpOperator = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var cmpOps = [...]string{
	Eq:    "==",
	NotEq: "!=",
	Lt:    "<",
	LtE:   "<=",
	Gt:    ">",
	GtE:   ">=",
	Is:    "is",
	IsNot: "is not",
	In:    "in",
	NotIn: "not in",
}

// String returns the Python spelling of the operator.
func (op CmpOperator) String() string {
	if op < 0 || int(op) >= len(cmpOps) {
		return fmt.Sprintf("CmpOperator(%d)", int(op))
	}
	return cmpOps[op]
}

// BoolOperator is a boolean operator.
type BoolOperator int

// Boolean operators.
const (
	And BoolOperator = iota
	Or
)

// String returns the Python spelling of the operator.
func (op BoolOperator) String() string {
	switch op {
	case And:
		return "and"
	case Or:
		return "or"
	}
	return fmt.Sprintf("BoolOperator(%d)", int(op))
}
