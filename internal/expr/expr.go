// Package expr parses and evaluates the arithmetic expressions used to derive
// new columns, such as "[Revenue] - [Cost]" or "([Price] * [Units]) / 1000".
// Column references are written in square brackets so names may contain
// spaces and punctuation.
package expr

import (
	"fmt"
	"strconv"
)

// ExprType represents the type of expression
type ExprType int

const (
	ExprColumn ExprType = iota
	ExprLiteral
	ExprBinary
	ExprUnary
)

// Expr is a node of a parsed expression.
type Expr interface {
	Type() ExprType
	String() string
}

// ColumnExpr represents a column reference
type ColumnExpr struct {
	name string
}

func (c *ColumnExpr) Type() ExprType {
	return ExprColumn
}

func (c *ColumnExpr) String() string {
	return "[" + c.name + "]"
}

func (c *ColumnExpr) Name() string {
	return c.name
}

// LiteralExpr represents a numeric literal
type LiteralExpr struct {
	value float64
}

func (l *LiteralExpr) Type() ExprType {
	return ExprLiteral
}

func (l *LiteralExpr) String() string {
	return strconv.FormatFloat(l.value, 'g', -1, 64)
}

func (l *LiteralExpr) Value() float64 {
	return l.value
}

// BinaryOp represents binary operations
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

// String returns the operator symbol.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// BinaryExpr represents a binary operation
type BinaryExpr struct {
	left  Expr
	op    BinaryOp
	right Expr
}

func (b *BinaryExpr) Type() ExprType {
	return ExprBinary
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.left.String(), b.op, b.right.String())
}

func (b *BinaryExpr) Left() Expr {
	return b.left
}

func (b *BinaryExpr) Op() BinaryOp {
	return b.op
}

func (b *BinaryExpr) Right() Expr {
	return b.right
}

// UnaryExpr represents negation
type UnaryExpr struct {
	operand Expr
}

func (u *UnaryExpr) Type() ExprType {
	return ExprUnary
}

func (u *UnaryExpr) String() string {
	return fmt.Sprintf("(-%s)", u.operand.String())
}

func (u *UnaryExpr) Operand() Expr {
	return u.operand
}

// Col creates a column expression
func Col(name string) *ColumnExpr {
	return &ColumnExpr{name: name}
}

// Lit creates a literal expression
func Lit(value float64) *LiteralExpr {
	return &LiteralExpr{value: value}
}

// Binary creates a binary expression
func Binary(left Expr, op BinaryOp, right Expr) *BinaryExpr {
	return &BinaryExpr{left: left, op: op, right: right}
}

// Neg creates a negation expression
func Neg(operand Expr) *UnaryExpr {
	return &UnaryExpr{operand: operand}
}

// Columns returns the distinct column names referenced by e in order of
// first appearance.
func Columns(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch ex := e.(type) {
		case *ColumnExpr:
			if !seen[ex.name] {
				seen[ex.name] = true
				names = append(names, ex.name)
			}
		case *BinaryExpr:
			walk(ex.left)
			walk(ex.right)
		case *UnaryExpr:
			walk(ex.operand)
		}
	}
	walk(e)
	return names
}
