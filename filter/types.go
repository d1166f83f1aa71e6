package filter

import "fmt"

// ExpressionClass identifies the category of a bound expression.
type ExpressionClass string

const (
	ClassBoundComparison  ExpressionClass = "BOUND_COMPARISON"
	ClassBoundConjunction ExpressionClass = "BOUND_CONJUNCTION"
	ClassBoundConstant    ExpressionClass = "BOUND_CONSTANT"
	ClassBoundColumnRef   ExpressionClass = "BOUND_COLUMN_REF"
	ClassBoundFunction    ExpressionClass = "BOUND_FUNCTION"
	ClassBoundCast        ExpressionClass = "BOUND_CAST"
	ClassBoundBetween     ExpressionClass = "BOUND_BETWEEN"
	ClassBoundOperator    ExpressionClass = "BOUND_OPERATOR"
)

// ExpressionType identifies the specific operation.
type ExpressionType string

const (
	TypeCompareEqual              ExpressionType = "COMPARE_EQUAL"
	TypeCompareNotEqual           ExpressionType = "COMPARE_NOTEQUAL"
	TypeCompareLessThan           ExpressionType = "COMPARE_LESSTHAN"
	TypeCompareGreaterThan        ExpressionType = "COMPARE_GREATERTHAN"
	TypeCompareLessThanOrEqual    ExpressionType = "COMPARE_LESSTHANOREQUALTO"
	TypeCompareGreaterThanOrEqual ExpressionType = "COMPARE_GREATERTHANOREQUALTO"
	TypeCompareIn                 ExpressionType = "COMPARE_IN"
	TypeCompareNotIn              ExpressionType = "COMPARE_NOT_IN"

	TypeConjunctionAnd ExpressionType = "CONJUNCTION_AND"
	TypeConjunctionOr  ExpressionType = "CONJUNCTION_OR"

	TypeOperatorNot       ExpressionType = "OPERATOR_NOT"
	TypeOperatorIsNull    ExpressionType = "OPERATOR_IS_NULL"
	TypeOperatorIsNotNull ExpressionType = "OPERATOR_IS_NOT_NULL"

	TypeValueConstant  ExpressionType = "VALUE_CONSTANT"
	TypeBoundColumnRef ExpressionType = "BOUND_COLUMN_REF"
	TypeBoundFunction  ExpressionType = "BOUND_FUNCTION"
	TypeCast           ExpressionType = "CAST"
)

// Expression is implemented by every node of the parsed filter tree.
type Expression interface {
	Class() ExpressionClass
	Type() ExpressionType

	expression()
}

// BaseExpression carries the fields common to all nodes.
type BaseExpression struct {
	ExprClass ExpressionClass `json:"expression_class"`
	ExprType  ExpressionType  `json:"type"`
}

func (b *BaseExpression) Class() ExpressionClass { return b.ExprClass }
func (b *BaseExpression) Type() ExpressionType   { return b.ExprType }
func (b *BaseExpression) expression()            {}

// ColumnBinding locates a column by table and column index.
type ColumnBinding struct {
	TableIndex  int `json:"table_index"`
	ColumnIndex int `json:"column_index"`
}

// ComparisonExpression is a binary comparison (=, <>, <, >, <=, >=, IN).
type ComparisonExpression struct {
	BaseExpression
	Left  Expression
	Right Expression
}

// ConjunctionExpression is AND/OR over two or more children.
type ConjunctionExpression struct {
	BaseExpression
	Children []Expression
}

// ConstantExpression is a literal.
type ConstantExpression struct {
	BaseExpression
	Value Value
}

// ColumnRefExpression references a table column by binding index.
type ColumnRefExpression struct {
	BaseExpression
	Binding    ColumnBinding
	ReturnType LogicalType
}

// FunctionExpression is a function or operator call, including the LIKE
// family which the engine emits as operators named "~~" and "!~~".
type FunctionExpression struct {
	BaseExpression
	Name       string
	Children   []Expression
	IsOperator bool
}

// CastExpression is a type cast.
type CastExpression struct {
	BaseExpression
	Child      Expression
	ReturnType LogicalType
	TryCast    bool
}

// BetweenExpression is input BETWEEN lower AND upper.
type BetweenExpression struct {
	BaseExpression
	Input          Expression
	Lower          Expression
	Upper          Expression
	LowerInclusive bool
	UpperInclusive bool
}

// OperatorExpression is a unary or n-ary operator (NOT, IS NULL, IN over
// a value list).
type OperatorExpression struct {
	BaseExpression
	Children []Expression
}

// UnsupportedExpression stands in for any expression class the bridge does
// not model. Parsing never fails on it; encoding always does.
type UnsupportedExpression struct {
	BaseExpression
}

// Pushdown is the parsed top-level filter set. The engine applies the
// filters conjunctively.
type Pushdown struct {
	Filters []Expression

	// ColumnBindings maps column binding indices to column names.
	ColumnBindings []string
}

// ColumnBindingError reports an out-of-range column binding index.
type ColumnBindingError struct {
	Index int
	Max   int
}

func (e *ColumnBindingError) Error() string {
	return fmt.Sprintf("column binding index %d out of range (max %d)", e.Index, e.Max-1)
}
