package expr

import (
	"math"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
)

// Evaluate computes e for one row. Column values are coerced the way the
// pipeline coerces them, so "$1,200" reads as 1200. A column without a
// numeric reading, or a division by zero, makes the result null.
func Evaluate(e Expr, row dataset.Row) dataset.Value {
	return dataset.Num(evaluate(e, row))
}

func evaluate(e Expr, row dataset.Row) float64 {
	switch ex := e.(type) {
	case *ColumnExpr:
		return row.Get(ex.name).Float()
	case *LiteralExpr:
		return ex.value
	case *UnaryExpr:
		return -evaluate(ex.operand, row)
	case *BinaryExpr:
		return arithmetic(evaluate(ex.left, row), ex.op, evaluate(ex.right, row))
	default:
		return math.NaN()
	}
}

func arithmetic(left float64, op BinaryOp, right float64) float64 {
	switch op {
	case OpAdd:
		return left + right
	case OpSub:
		return left - right
	case OpMul:
		return left * right
	case OpDiv:
		if right == 0 {
			return math.NaN()
		}
		return left / right
	default:
		return math.NaN()
	}
}
