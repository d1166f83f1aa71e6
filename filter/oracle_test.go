package filter

import (
	"testing"
)

func col(idx int) *ColumnRefExpression {
	return &ColumnRefExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundColumnRef, ExprType: TypeBoundColumnRef},
		Binding:        ColumnBinding{ColumnIndex: idx},
	}
}

func intConst(v int64) *ConstantExpression {
	return &ConstantExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundConstant, ExprType: TypeValueConstant},
		Value:          Value{Type: LogicalType{ID: TypeIDInteger}, Data: v},
	}
}

func strConst(s string) *ConstantExpression {
	return &ConstantExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundConstant, ExprType: TypeValueConstant},
		Value:          Value{Type: LogicalType{ID: TypeIDVarchar}, Data: s},
	}
}

func compare(t ExpressionType, left, right Expression) *ComparisonExpression {
	return &ComparisonExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundComparison, ExprType: t},
		Left:           left,
		Right:          right,
	}
}

func TestEncodeComparisons(t *testing.T) {
	p := &Pushdown{ColumnBindings: []string{"DEPARTMENT_ID", "LAST_NAME"}}
	e := NewOracleEncoder()

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"equal", compare(TypeCompareEqual, col(0), intConst(90)), `"DEPARTMENT_ID" = 90`},
		{"not equal", compare(TypeCompareNotEqual, col(0), intConst(90)), `"DEPARTMENT_ID" <> 90`},
		{"less", compare(TypeCompareLessThan, col(0), intConst(5)), `"DEPARTMENT_ID" < 5`},
		{"greater or equal", compare(TypeCompareGreaterThanOrEqual, col(0), intConst(5)), `"DEPARTMENT_ID" >= 5`},
		{"string literal escaping", compare(TypeCompareEqual, col(1), strConst("O'Brien")), `"LAST_NAME" = 'O''Brien'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.Filters = []Expression{tt.expr}
			clauses, remaining := e.EncodeFilters(p)
			if len(remaining) != 0 {
				t.Fatalf("filter unexpectedly not pushed down")
			}
			if len(clauses) != 1 || clauses[0] != tt.want {
				t.Errorf("EncodeFilters = %q, want %q", clauses, tt.want)
			}
		})
	}
}

func TestEncodeConjunctionAllOrNothing(t *testing.T) {
	// A conjunction of three comparisons where one uses an operator with no
	// Oracle rendering must fail as a whole, with nothing pushed down.
	unsupported := compare("COMPARE_DISTINCT_FROM", col(0), intConst(1))
	conj := &ConjunctionExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundConjunction, ExprType: TypeConjunctionAnd},
		Children: []Expression{
			compare(TypeCompareEqual, col(0), intConst(1)),
			unsupported,
			compare(TypeCompareLessThan, col(1), intConst(10)),
		},
	}

	p := &Pushdown{
		Filters:        []Expression{conj},
		ColumnBindings: []string{"A", "B"},
	}
	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(clauses) != 0 {
		t.Errorf("partial conjunction pushed down: %q", clauses)
	}
	if len(remaining) != 1 || remaining[0] != 0 {
		t.Errorf("remaining = %v, want [0]", remaining)
	}
}

func TestEncodeDisjunctionAllOrNothing(t *testing.T) {
	or := &ConjunctionExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundConjunction, ExprType: TypeConjunctionOr},
		Children: []Expression{
			compare(TypeCompareEqual, col(0), intConst(1)),
			&UnsupportedExpression{BaseExpression: BaseExpression{ExprClass: "BOUND_SUBQUERY"}},
		},
	}
	p := &Pushdown{Filters: []Expression{or}, ColumnBindings: []string{"A"}}
	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(clauses) != 0 || len(remaining) != 1 {
		t.Errorf("OR with unsupported child: clauses=%q remaining=%v", clauses, remaining)
	}
}

func TestEncodeConjunctionComplete(t *testing.T) {
	or := &ConjunctionExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundConjunction, ExprType: TypeConjunctionOr},
		Children: []Expression{
			compare(TypeCompareEqual, col(0), intConst(1)),
			compare(TypeCompareEqual, col(0), intConst(2)),
		},
	}
	p := &Pushdown{Filters: []Expression{or}, ColumnBindings: []string{"A"}}
	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(remaining) != 0 {
		t.Fatalf("remaining = %v, want none", remaining)
	}
	want := `("A" = 1 OR "A" = 2)`
	if len(clauses) != 1 || clauses[0] != want {
		t.Errorf("clauses = %q, want %q", clauses, want)
	}
}

func TestEncodeMixedFilters(t *testing.T) {
	// Independent top-level filters succeed or fail independently.
	p := &Pushdown{
		Filters: []Expression{
			compare(TypeCompareEqual, col(0), intConst(90)),
			&UnsupportedExpression{BaseExpression: BaseExpression{ExprClass: "BOUND_WINDOW"}},
			compare(TypeCompareGreaterThan, col(1), intConst(0)),
		},
		ColumnBindings: []string{"A", "B"},
	}
	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(clauses) != 2 {
		t.Errorf("clauses = %q, want 2 fragments", clauses)
	}
	if len(remaining) != 1 || remaining[0] != 1 {
		t.Errorf("remaining = %v, want [1]", remaining)
	}
}

func TestEncodeNullChecks(t *testing.T) {
	isNull := &OperatorExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundOperator, ExprType: TypeOperatorIsNull},
		Children:       []Expression{col(0)},
	}
	isNotNull := &OperatorExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundOperator, ExprType: TypeOperatorIsNotNull},
		Children:       []Expression{col(0)},
	}
	p := &Pushdown{Filters: []Expression{isNull, isNotNull}, ColumnBindings: []string{"C"}}
	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(remaining) != 0 {
		t.Fatalf("remaining = %v", remaining)
	}
	if clauses[0] != `"C" IS NULL` || clauses[1] != `"C" IS NOT NULL` {
		t.Errorf("clauses = %q", clauses)
	}
}

func TestEncodeLike(t *testing.T) {
	like := &FunctionExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundFunction, ExprType: TypeBoundFunction},
		Name:           "~~",
		Children:       []Expression{col(0), strConst("K%")},
		IsOperator:     true,
	}
	p := &Pushdown{Filters: []Expression{like}, ColumnBindings: []string{"LAST_NAME"}}
	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(remaining) != 0 {
		t.Fatalf("remaining = %v", remaining)
	}
	if want := `"LAST_NAME" LIKE 'K%'`; clauses[0] != want {
		t.Errorf("clauses[0] = %q, want %q", clauses[0], want)
	}

	// Case-insensitive match has no uniform Oracle equivalent.
	like.Name = "~~*"
	clauses, remaining = NewOracleEncoder().EncodeFilters(p)
	if len(clauses) != 0 || len(remaining) != 1 {
		t.Errorf("ILIKE pushed down: %q", clauses)
	}
}

func TestEncodeBetween(t *testing.T) {
	between := &BetweenExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundBetween, ExprType: "COMPARE_BETWEEN"},
		Input:          col(0),
		Lower:          intConst(1),
		Upper:          intConst(10),
		LowerInclusive: true,
		UpperInclusive: true,
	}
	e := NewOracleEncoder()
	p := &Pushdown{Filters: []Expression{between}, ColumnBindings: []string{"N"}}
	clauses, _ := e.EncodeFilters(p)
	if want := `"N" BETWEEN 1 AND 10`; clauses[0] != want {
		t.Errorf("clauses[0] = %q, want %q", clauses[0], want)
	}

	between.UpperInclusive = false
	clauses, _ = e.EncodeFilters(p)
	if want := `("N" >= 1 AND "N" < 10)`; clauses[0] != want {
		t.Errorf("clauses[0] = %q, want %q", clauses[0], want)
	}
}

func TestEncodeInList(t *testing.T) {
	in := compare(TypeCompareIn, col(0), &FunctionExpression{
		BaseExpression: BaseExpression{ExprClass: ClassBoundFunction, ExprType: TypeBoundFunction},
		Name:           "list_value",
		Children:       []Expression{intConst(10), intConst(20), intConst(30)},
	})
	p := &Pushdown{Filters: []Expression{in}, ColumnBindings: []string{"DEPT"}}
	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(remaining) != 0 {
		t.Fatalf("remaining = %v", remaining)
	}
	if want := `"DEPT" IN (10, 20, 30)`; clauses[0] != want {
		t.Errorf("clauses[0] = %q, want %q", clauses[0], want)
	}
}

func TestFormatTemporalLiterals(t *testing.T) {
	date := Value{Type: LogicalType{ID: TypeIDDate}, Data: int64(19800)} // 2024-03-18
	if got := formatValue(date); got != "DATE '2024-03-18'" {
		t.Errorf("date literal = %q", got)
	}

	ts := Value{Type: LogicalType{ID: TypeIDTimestamp}, Data: int64(1710498600000000)}
	if got := formatValue(ts); got != "TIMESTAMP '2024-03-15 10:30:00'" {
		t.Errorf("timestamp literal = %q", got)
	}

	tsMicro := Value{Type: LogicalType{ID: TypeIDTimestamp}, Data: int64(1710498600000000 + 250000)}
	if got := formatValue(tsMicro); got != "TIMESTAMP '2024-03-15 10:30:00.250000'" {
		t.Errorf("timestamp micro literal = %q", got)
	}
}

func TestOutOfRangeColumnBinding(t *testing.T) {
	p := &Pushdown{
		Filters:        []Expression{compare(TypeCompareEqual, col(5), intConst(1))},
		ColumnBindings: []string{"ONLY"},
	}
	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(clauses) != 0 || len(remaining) != 1 {
		t.Errorf("out-of-range binding pushed down: %q", clauses)
	}
}
