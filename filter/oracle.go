package filter

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// OracleEncoder compiles parsed filter expressions to Oracle SQL.
//
// Encoding is all-or-nothing per filter: any node that cannot be rendered
// makes the whole filter unencodable, for OR and AND alike. Accepting a
// subset of OR terms would drop rows; accepting a subset of AND terms is
// only accidentally safe. Both connectives are treated the same so the
// remaining-filter contract stays uniform.
type OracleEncoder struct {
	columnBindings []string
}

// NewOracleEncoder returns an encoder. Column names are resolved from the
// Pushdown passed to EncodeFilters.
func NewOracleEncoder() *OracleEncoder {
	return &OracleEncoder{}
}

// EncodeFilters compiles every top-level filter. It returns the SQL
// fragments for the filters that compiled and the indices of those that
// did not; the engine re-applies the latter locally.
func (e *OracleEncoder) EncodeFilters(p *Pushdown) (clauses []string, remaining []int) {
	if p == nil {
		return nil, nil
	}
	e.columnBindings = p.ColumnBindings
	for i, f := range p.Filters {
		if encoded := e.Encode(f); encoded != "" {
			clauses = append(clauses, encoded)
		} else {
			remaining = append(remaining, i)
		}
	}
	return clauses, remaining
}

// Encode compiles one expression. An empty result means the expression
// cannot be pushed down.
func (e *OracleEncoder) Encode(expr Expression) string {
	switch ex := expr.(type) {
	case *ComparisonExpression:
		return e.encodeComparison(ex)
	case *ConjunctionExpression:
		return e.encodeConjunction(ex)
	case *ConstantExpression:
		return formatValue(ex.Value)
	case *ColumnRefExpression:
		return e.encodeColumnRef(ex)
	case *FunctionExpression:
		return e.encodeFunction(ex)
	case *BetweenExpression:
		return e.encodeBetween(ex)
	case *OperatorExpression:
		return e.encodeOperator(ex)
	default:
		// Casts, subqueries and anything unmodeled stay on the engine side.
		return ""
	}
}

var comparisonOps = map[ExpressionType]string{
	TypeCompareEqual:              "=",
	TypeCompareNotEqual:           "<>",
	TypeCompareLessThan:           "<",
	TypeCompareGreaterThan:        ">",
	TypeCompareLessThanOrEqual:    "<=",
	TypeCompareGreaterThanOrEqual: ">=",
}

func (e *OracleEncoder) encodeComparison(c *ComparisonExpression) string {
	switch c.Type() {
	case TypeCompareIn:
		return e.encodeIn(c, false)
	case TypeCompareNotIn:
		return e.encodeIn(c, true)
	}
	op, ok := comparisonOps[c.Type()]
	if !ok {
		return ""
	}
	left := e.Encode(c.Left)
	right := e.Encode(c.Right)
	if left == "" || right == "" {
		return ""
	}
	return left + " " + op + " " + right
}

// encodeIn handles IN lists, which arrive as a list-constructor function
// on the right-hand side.
func (e *OracleEncoder) encodeIn(c *ComparisonExpression, notIn bool) string {
	left := e.Encode(c.Left)
	if left == "" {
		return ""
	}
	list, ok := c.Right.(*FunctionExpression)
	if !ok || len(list.Children) == 0 {
		return ""
	}
	values := make([]string, 0, len(list.Children))
	for _, child := range list.Children {
		encoded := e.Encode(child)
		if encoded == "" {
			return ""
		}
		values = append(values, encoded)
	}
	op := " IN "
	if notIn {
		op = " NOT IN "
	}
	return left + op + "(" + strings.Join(values, ", ") + ")"
}

func (e *OracleEncoder) encodeConjunction(c *ConjunctionExpression) string {
	if len(c.Children) == 0 {
		return ""
	}
	parts := make([]string, 0, len(c.Children))
	for _, child := range c.Children {
		encoded := e.Encode(child)
		if encoded == "" {
			return ""
		}
		parts = append(parts, encoded)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	op := " AND "
	if c.Type() == TypeConjunctionOr {
		op = " OR "
	}
	return "(" + strings.Join(parts, op) + ")"
}

func (e *OracleEncoder) encodeColumnRef(c *ColumnRefExpression) string {
	if c.Binding.ColumnIndex < 0 || c.Binding.ColumnIndex >= len(e.columnBindings) {
		return ""
	}
	return QuoteIdentifier(e.columnBindings[c.Binding.ColumnIndex])
}

func (e *OracleEncoder) encodeFunction(f *FunctionExpression) string {
	switch f.Name {
	case "~~", "!~~":
		if len(f.Children) != 2 {
			return ""
		}
		left := e.Encode(f.Children[0])
		right := e.Encode(f.Children[1])
		if left == "" || right == "" {
			return ""
		}
		if f.Name == "!~~" {
			return left + " NOT LIKE " + right
		}
		return left + " LIKE " + right
	case "lower", "upper", "abs", "trim":
		if len(f.Children) != 1 {
			return ""
		}
		arg := e.Encode(f.Children[0])
		if arg == "" {
			return ""
		}
		return strings.ToUpper(f.Name) + "(" + arg + ")"
	default:
		// Case-insensitive matching, regexes and everything else have no
		// safe Oracle equivalent with identical semantics.
		return ""
	}
}

func (e *OracleEncoder) encodeBetween(b *BetweenExpression) string {
	input := e.Encode(b.Input)
	lower := e.Encode(b.Lower)
	upper := e.Encode(b.Upper)
	if input == "" || lower == "" || upper == "" {
		return ""
	}
	if b.LowerInclusive && b.UpperInclusive {
		return input + " BETWEEN " + lower + " AND " + upper
	}
	lowOp := " > "
	if b.LowerInclusive {
		lowOp = " >= "
	}
	highOp := " < "
	if b.UpperInclusive {
		highOp = " <= "
	}
	return "(" + input + lowOp + lower + " AND " + input + highOp + upper + ")"
}

func (e *OracleEncoder) encodeOperator(o *OperatorExpression) string {
	switch o.Type() {
	case TypeOperatorIsNull, TypeOperatorIsNotNull:
		if len(o.Children) != 1 {
			return ""
		}
		child := e.Encode(o.Children[0])
		if child == "" {
			return ""
		}
		if o.Type() == TypeOperatorIsNull {
			return child + " IS NULL"
		}
		return child + " IS NOT NULL"

	case TypeOperatorNot:
		if len(o.Children) != 1 {
			return ""
		}
		child := e.Encode(o.Children[0])
		if child == "" {
			return ""
		}
		return "NOT (" + child + ")"

	case TypeCompareIn, TypeCompareNotIn:
		// Operator-class IN: first child is the needle, the rest the list.
		if len(o.Children) < 2 {
			return ""
		}
		left := e.Encode(o.Children[0])
		if left == "" {
			return ""
		}
		values := make([]string, 0, len(o.Children)-1)
		for _, child := range o.Children[1:] {
			encoded := e.Encode(child)
			if encoded == "" {
				return ""
			}
			values = append(values, encoded)
		}
		op := " IN "
		if o.Type() == TypeCompareNotIn {
			op = " NOT IN "
		}
		return left + op + "(" + strings.Join(values, ", ") + ")"

	default:
		return ""
	}
}

// formatValue renders a constant as an Oracle literal. Typed literal
// syntax is used for temporal values so the server never applies
// NLS-dependent string conversion.
func formatValue(v Value) string {
	if v.IsNull {
		return "NULL"
	}

	switch v.Type.ID {
	case TypeIDBoolean:
		// Oracle SQL has no boolean literal; engine booleans land in
		// NUMBER(1) columns.
		if b, ok := v.Data.(bool); ok {
			if b {
				return "1"
			}
			return "0"
		}
		return ""

	case TypeIDTinyInt, TypeIDSmallInt, TypeIDInteger, TypeIDBigInt:
		if n, ok := v.Data.(int64); ok {
			return strconv.FormatInt(n, 10)
		}
		return ""

	case TypeIDUTinyInt, TypeIDUSmallInt, TypeIDUInteger, TypeIDUBigInt:
		if n, ok := v.Data.(uint64); ok {
			return strconv.FormatUint(n, 10)
		}
		return ""

	case TypeIDHugeInt:
		h, ok := v.Data.(HugeInt)
		if !ok {
			return ""
		}
		bi := new(big.Int).SetInt64(h.Upper)
		bi.Lsh(bi, 64)
		bi.Or(bi, new(big.Int).SetUint64(h.Lower))
		return bi.String()

	case TypeIDFloat, TypeIDDouble:
		if f, ok := v.Data.(float64); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return ""

	case TypeIDDecimal:
		switch d := v.Data.(type) {
		case string:
			return d
		case float64:
			return strconv.FormatFloat(d, 'f', -1, 64)
		}
		return ""

	case TypeIDVarchar, TypeIDChar:
		if s, ok := v.Data.(string); ok {
			return QuoteLiteral(s)
		}
		return ""

	case TypeIDBlob:
		if b, ok := v.Data.([]byte); ok {
			return fmt.Sprintf("HEXTORAW('%X')", b)
		}
		return ""

	case TypeIDDate:
		n, ok := v.Data.(int64)
		if !ok {
			return ""
		}
		t := time.Unix(n*86400, 0).UTC()
		return "DATE '" + t.Format("2006-01-02") + "'"

	case TypeIDTimestamp, TypeIDTimestampTZ:
		micros, ok := v.Data.(int64)
		if !ok {
			return ""
		}
		t := time.UnixMicro(micros).UTC()
		formatted := t.Format("2006-01-02 15:04:05")
		if rem := micros % 1e6; rem != 0 {
			if rem < 0 {
				rem = -rem
			}
			formatted = fmt.Sprintf("%s.%06d", formatted, rem)
		}
		return "TIMESTAMP '" + formatted + "'"

	default:
		return ""
	}
}

// QuoteIdentifier quotes an Oracle identifier, doubling embedded quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral renders a SQL string literal, doubling embedded quotes.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
