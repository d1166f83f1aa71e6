package filter

import (
	"testing"
)

const departmentFilterJSON = `{
	"filters": [
		{
			"expression_class": "BOUND_COMPARISON",
			"type": "COMPARE_EQUAL",
			"left": {
				"expression_class": "BOUND_COLUMN_REF",
				"type": "BOUND_COLUMN_REF",
				"return_type": {"id": "INTEGER"},
				"binding": {"table_index": 0, "column_index": 0},
				"depth": 0
			},
			"right": {
				"expression_class": "BOUND_CONSTANT",
				"type": "VALUE_CONSTANT",
				"value": {"type": {"id": "INTEGER"}, "is_null": false, "value": 90}
			}
		}
	],
	"column_binding_names_by_index": ["DEPARTMENT_ID"]
}`

func TestParseComparison(t *testing.T) {
	p, err := Parse([]byte(departmentFilterJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Filters) != 1 {
		t.Fatalf("parsed %d filters, want 1", len(p.Filters))
	}

	cmp, ok := p.Filters[0].(*ComparisonExpression)
	if !ok {
		t.Fatalf("filter is %T, want *ComparisonExpression", p.Filters[0])
	}
	if cmp.Type() != TypeCompareEqual {
		t.Errorf("type = %s, want COMPARE_EQUAL", cmp.Type())
	}

	ref, ok := cmp.Left.(*ColumnRefExpression)
	if !ok {
		t.Fatalf("left is %T, want *ColumnRefExpression", cmp.Left)
	}
	if ref.Binding.ColumnIndex != 0 {
		t.Errorf("column index = %d, want 0", ref.Binding.ColumnIndex)
	}

	c, ok := cmp.Right.(*ConstantExpression)
	if !ok {
		t.Fatalf("right is %T, want *ConstantExpression", cmp.Right)
	}
	if got, ok := c.Value.Data.(int64); !ok || got != 90 {
		t.Errorf("constant = %v (%T), want int64 90", c.Value.Data, c.Value.Data)
	}

	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(remaining) != 0 {
		t.Fatalf("remaining = %v, want none", remaining)
	}
	if want := `"DEPARTMENT_ID" = 90`; clauses[0] != want {
		t.Errorf("encoded = %q, want %q", clauses[0], want)
	}
}

func TestParseUnknownClassIsUnsupported(t *testing.T) {
	js := `{
		"filters": [
			{"expression_class": "BOUND_SUBQUERY", "type": "SUBQUERY"}
		],
		"column_binding_names_by_index": []
	}`
	p, err := Parse([]byte(js))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := p.Filters[0].(*UnsupportedExpression); !ok {
		t.Fatalf("filter is %T, want *UnsupportedExpression", p.Filters[0])
	}
	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(clauses) != 0 || len(remaining) != 1 {
		t.Errorf("unsupported expression pushed down: %q", clauses)
	}
}

func TestParseConjunctionJSON(t *testing.T) {
	js := `{
		"filters": [
			{
				"expression_class": "BOUND_CONJUNCTION",
				"type": "CONJUNCTION_AND",
				"children": [
					{
						"expression_class": "BOUND_OPERATOR",
						"type": "OPERATOR_IS_NOT_NULL",
						"return_type": {"id": "BOOLEAN"},
						"children": [
							{
								"expression_class": "BOUND_COLUMN_REF",
								"type": "BOUND_COLUMN_REF",
								"return_type": {"id": "VARCHAR"},
								"binding": {"table_index": 0, "column_index": 1}
							}
						]
					},
					{
						"expression_class": "BOUND_COMPARISON",
						"type": "COMPARE_GREATERTHAN",
						"left": {
							"expression_class": "BOUND_COLUMN_REF",
							"type": "BOUND_COLUMN_REF",
							"return_type": {"id": "DECIMAL", "type_info": {"type": "DECIMAL_TYPE_INFO", "width": 8, "scale": 2}},
							"binding": {"table_index": 0, "column_index": 0}
						},
						"right": {
							"expression_class": "BOUND_CONSTANT",
							"type": "VALUE_CONSTANT",
							"value": {"type": {"id": "DECIMAL", "type_info": {"type": "DECIMAL_TYPE_INFO", "width": 8, "scale": 2}}, "is_null": false, "value": "2500.00"}
						}
					}
				]
			}
		],
		"column_binding_names_by_index": ["SALARY", "LAST_NAME"]
	}`
	p, err := Parse([]byte(js))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	clauses, remaining := NewOracleEncoder().EncodeFilters(p)
	if len(remaining) != 0 {
		t.Fatalf("remaining = %v, want none", remaining)
	}
	want := `("LAST_NAME" IS NOT NULL AND "SALARY" > 2500.00)`
	if clauses[0] != want {
		t.Errorf("encoded = %q, want %q", clauses[0], want)
	}
}

func TestParseNullConstant(t *testing.T) {
	js := `{
		"filters": [
			{
				"expression_class": "BOUND_CONSTANT",
				"type": "VALUE_CONSTANT",
				"value": {"type": {"id": "INTEGER"}, "is_null": true, "value": null}
			}
		],
		"column_binding_names_by_index": []
	}`
	p, err := Parse([]byte(js))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c := p.Filters[0].(*ConstantExpression)
	if !c.Value.IsNull {
		t.Error("constant should be null")
	}
}

func TestParseBase64String(t *testing.T) {
	js := `{
		"filters": [
			{
				"expression_class": "BOUND_CONSTANT",
				"type": "VALUE_CONSTANT",
				"value": {"type": {"id": "VARCHAR"}, "is_null": false, "value": {"base64": "aGVsbG8="}}
			}
		],
		"column_binding_names_by_index": []
	}`
	p, err := Parse([]byte(js))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c := p.Filters[0].(*ConstantExpression)
	if got, _ := c.Value.Data.(string); got != "hello" {
		t.Errorf("decoded string = %q, want hello", got)
	}
}

func TestParseEmptyAndInvalid(t *testing.T) {
	p, err := Parse(nil)
	if err != nil || len(p.Filters) != 0 {
		t.Errorf("Parse(nil) = %v, %v", p, err)
	}
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("Parse(garbage) succeeded, want error")
	}
}
