package filter

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Parse decodes the engine's filter pushdown JSON. Expression classes the
// bridge does not model parse into UnsupportedExpression nodes, so Parse
// fails only on malformed input, never on unfamiliar expressions.
func Parse(data []byte) (*Pushdown, error) {
	if len(data) == 0 {
		return &Pushdown{}, nil
	}

	var raw struct {
		Filters        []json.RawMessage `json:"filters"`
		ColumnBindings []string          `json:"column_binding_names_by_index"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("filter: invalid JSON: %w", err)
	}

	p := &Pushdown{
		ColumnBindings: raw.ColumnBindings,
		Filters:        make([]Expression, 0, len(raw.Filters)),
	}
	for i, rawExpr := range raw.Filters {
		expr, err := parseExpression(rawExpr)
		if err != nil {
			return nil, fmt.Errorf("filter: filter %d: %w", i, err)
		}
		p.Filters = append(p.Filters, expr)
	}
	return p, nil
}

func parseExpression(data json.RawMessage) (Expression, error) {
	var head struct {
		ExpressionClass string `json:"expression_class"`
		Type            string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}

	base := BaseExpression{
		ExprClass: ExpressionClass(head.ExpressionClass),
		ExprType:  ExpressionType(head.Type),
	}

	switch base.ExprClass {
	case ClassBoundComparison:
		return parseComparison(data, base)
	case ClassBoundConjunction:
		return parseConjunction(data, base)
	case ClassBoundConstant:
		return parseConstant(data, base)
	case ClassBoundColumnRef:
		return parseColumnRef(data, base)
	case ClassBoundFunction:
		return parseFunction(data, base)
	case ClassBoundCast:
		return parseCast(data, base)
	case ClassBoundBetween:
		return parseBetween(data, base)
	case ClassBoundOperator:
		return parseOperator(data, base)
	default:
		return &UnsupportedExpression{BaseExpression: base}, nil
	}
}

func parseComparison(data json.RawMessage, base BaseExpression) (Expression, error) {
	var raw struct {
		Left  json.RawMessage `json:"left"`
		Right json.RawMessage `json:"right"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid comparison: %w", err)
	}
	left, err := parseExpression(raw.Left)
	if err != nil {
		return nil, fmt.Errorf("comparison left: %w", err)
	}
	right, err := parseExpression(raw.Right)
	if err != nil {
		return nil, fmt.Errorf("comparison right: %w", err)
	}
	return &ComparisonExpression{BaseExpression: base, Left: left, Right: right}, nil
}

func parseConjunction(data json.RawMessage, base BaseExpression) (Expression, error) {
	var raw struct {
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid conjunction: %w", err)
	}
	children, err := parseChildren(raw.Children)
	if err != nil {
		return nil, fmt.Errorf("conjunction: %w", err)
	}
	return &ConjunctionExpression{BaseExpression: base, Children: children}, nil
}

func parseConstant(data json.RawMessage, base BaseExpression) (Expression, error) {
	var raw struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid constant: %w", err)
	}
	value, err := parseValue(raw.Value)
	if err != nil {
		return nil, fmt.Errorf("constant: %w", err)
	}
	return &ConstantExpression{BaseExpression: base, Value: value}, nil
}

func parseColumnRef(data json.RawMessage, base BaseExpression) (Expression, error) {
	var raw struct {
		Binding    ColumnBinding   `json:"binding"`
		ReturnType json.RawMessage `json:"return_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid column ref: %w", err)
	}
	rt, err := parseLogicalType(raw.ReturnType)
	if err != nil {
		return nil, fmt.Errorf("column ref: %w", err)
	}
	return &ColumnRefExpression{BaseExpression: base, Binding: raw.Binding, ReturnType: rt}, nil
}

func parseFunction(data json.RawMessage, base BaseExpression) (Expression, error) {
	var raw struct {
		Name       string            `json:"name"`
		Children   []json.RawMessage `json:"children"`
		IsOperator bool              `json:"is_operator"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid function: %w", err)
	}
	children, err := parseChildren(raw.Children)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", raw.Name, err)
	}
	return &FunctionExpression{
		BaseExpression: base,
		Name:           raw.Name,
		Children:       children,
		IsOperator:     raw.IsOperator,
	}, nil
}

func parseCast(data json.RawMessage, base BaseExpression) (Expression, error) {
	var raw struct {
		Child      json.RawMessage `json:"child"`
		ReturnType json.RawMessage `json:"return_type"`
		TryCast    bool            `json:"try_cast"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid cast: %w", err)
	}
	child, err := parseExpression(raw.Child)
	if err != nil {
		return nil, fmt.Errorf("cast: %w", err)
	}
	rt, err := parseLogicalType(raw.ReturnType)
	if err != nil {
		return nil, fmt.Errorf("cast: %w", err)
	}
	return &CastExpression{BaseExpression: base, Child: child, ReturnType: rt, TryCast: raw.TryCast}, nil
}

func parseBetween(data json.RawMessage, base BaseExpression) (Expression, error) {
	var raw struct {
		Input          json.RawMessage `json:"input"`
		Lower          json.RawMessage `json:"lower"`
		Upper          json.RawMessage `json:"upper"`
		LowerInclusive bool            `json:"lower_inclusive"`
		UpperInclusive bool            `json:"upper_inclusive"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid between: %w", err)
	}
	input, err := parseExpression(raw.Input)
	if err != nil {
		return nil, fmt.Errorf("between input: %w", err)
	}
	lower, err := parseExpression(raw.Lower)
	if err != nil {
		return nil, fmt.Errorf("between lower: %w", err)
	}
	upper, err := parseExpression(raw.Upper)
	if err != nil {
		return nil, fmt.Errorf("between upper: %w", err)
	}
	return &BetweenExpression{
		BaseExpression: base,
		Input:          input,
		Lower:          lower,
		Upper:          upper,
		LowerInclusive: raw.LowerInclusive,
		UpperInclusive: raw.UpperInclusive,
	}, nil
}

func parseOperator(data json.RawMessage, base BaseExpression) (Expression, error) {
	var raw struct {
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid operator: %w", err)
	}
	children, err := parseChildren(raw.Children)
	if err != nil {
		return nil, fmt.Errorf("operator: %w", err)
	}
	return &OperatorExpression{BaseExpression: base, Children: children}, nil
}

func parseChildren(raw []json.RawMessage) ([]Expression, error) {
	children := make([]Expression, 0, len(raw))
	for i, data := range raw {
		expr, err := parseExpression(data)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, expr)
	}
	return children, nil
}

func parseLogicalType(data json.RawMessage) (LogicalType, error) {
	if len(data) == 0 || string(data) == "null" {
		return LogicalType{}, nil
	}
	var raw struct {
		ID       string `json:"id"`
		TypeInfo *struct {
			Type  string `json:"type"`
			Width int    `json:"width"`
			Scale int    `json:"scale"`
		} `json:"type_info"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogicalType{}, fmt.Errorf("invalid logical type: %w", err)
	}
	lt := LogicalType{ID: LogicalTypeID(raw.ID).Normalize()}
	if raw.TypeInfo != nil && raw.TypeInfo.Type == "DECIMAL_TYPE_INFO" {
		lt.Decimal = &DecimalTypeInfo{Width: raw.TypeInfo.Width, Scale: raw.TypeInfo.Scale}
	}
	return lt, nil
}

func parseValue(data json.RawMessage) (Value, error) {
	if len(data) == 0 || string(data) == "null" {
		return Value{IsNull: true}, nil
	}
	var raw struct {
		Type   json.RawMessage `json:"type"`
		IsNull bool            `json:"is_null"`
		Value  json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("invalid value: %w", err)
	}
	lt, err := parseLogicalType(raw.Type)
	if err != nil {
		return Value{}, err
	}
	v := Value{Type: lt, IsNull: raw.IsNull}
	if v.IsNull || len(raw.Value) == 0 || string(raw.Value) == "null" {
		v.IsNull = true
		return v, nil
	}
	v.Data, err = parseValueData(raw.Value, lt.ID)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func parseValueData(data json.RawMessage, id LogicalTypeID) (any, error) {
	switch id {
	case TypeIDBoolean:
		var v bool
		return v, json.Unmarshal(data, &v)

	case TypeIDTinyInt, TypeIDSmallInt, TypeIDInteger, TypeIDBigInt:
		var v int64
		return v, json.Unmarshal(data, &v)

	case TypeIDUTinyInt, TypeIDUSmallInt, TypeIDUInteger, TypeIDUBigInt:
		var v uint64
		return v, json.Unmarshal(data, &v)

	case TypeIDHugeInt:
		var v HugeInt
		return v, json.Unmarshal(data, &v)

	case TypeIDFloat, TypeIDDouble:
		var v float64
		return v, json.Unmarshal(data, &v)

	case TypeIDDecimal:
		// The engine sends decimals as a string or as a number.
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return s, nil
		}
		var f float64
		return f, json.Unmarshal(data, &f)

	case TypeIDVarchar, TypeIDChar:
		s, err := parseMaybeBase64(data)
		if err != nil {
			return nil, err
		}
		return string(s), nil

	case TypeIDBlob:
		return parseMaybeBase64(data)

	case TypeIDDate, TypeIDTime, TypeIDTimestamp, TypeIDTimestampTZ:
		// Temporal values are integer offsets from the Unix epoch.
		var v int64
		return v, json.Unmarshal(data, &v)

	default:
		// Keep the raw JSON; the encoder rejects what it cannot render.
		var v any
		return v, json.Unmarshal(data, &v)
	}
}

// parseMaybeBase64 handles the engine's two string encodings: a plain JSON
// string, or {"base64": "..."} for non-UTF8 payloads.
func parseMaybeBase64(data json.RawMessage) ([]byte, error) {
	var wrapped struct {
		Base64 string `json:"base64"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Base64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(wrapped.Base64)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 string: %w", err)
		}
		return decoded, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return []byte(s), nil
}
