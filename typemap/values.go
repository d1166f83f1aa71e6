package typemap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
)

// AppendValue converts one driver cell value and appends it to the builder.
// The driver hands back int64, float64, string, []byte, time.Time or nil;
// each builder accepts every representation that can losslessly coerce.
// Timestamps arrive as time.Time with the stored offset applied, so
// UnixMicro already yields UTC-normalized microseconds.
func AppendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch bld := b.(type) {
	case *array.BooleanBuilder:
		switch x := v.(type) {
		case bool:
			bld.Append(x)
		case int64:
			bld.Append(x != 0)
		case float64:
			bld.Append(x != 0)
		case string:
			bld.Append(x != "0" && x != "")
		default:
			return convErr(b, v)
		}

	case *array.Int16Builder:
		n, err := toInt64(v)
		if err != nil {
			return convErr(b, v)
		}
		bld.Append(int16(n))

	case *array.Int32Builder:
		n, err := toInt64(v)
		if err != nil {
			return convErr(b, v)
		}
		bld.Append(int32(n))

	case *array.Int64Builder:
		n, err := toInt64(v)
		if err != nil {
			return convErr(b, v)
		}
		bld.Append(n)

	case *array.Float32Builder:
		f, err := toFloat64(v)
		if err != nil {
			return convErr(b, v)
		}
		bld.Append(float32(f))

	case *array.Float64Builder:
		f, err := toFloat64(v)
		if err != nil {
			return convErr(b, v)
		}
		bld.Append(f)

	case *array.Decimal128Builder:
		dt := bld.Type().(*arrow.Decimal128Type)
		num, err := toDecimal128(v, dt.Precision, dt.Scale)
		if err != nil {
			return convErr(b, v)
		}
		bld.Append(num)

	case *array.TimestampBuilder:
		t, ok := v.(time.Time)
		if !ok {
			return convErr(b, v)
		}
		bld.Append(arrow.Timestamp(t.UnixMicro()))

	case *array.Date32Builder:
		t, ok := v.(time.Time)
		if !ok {
			return convErr(b, v)
		}
		bld.Append(arrow.Date32FromTime(t))

	case *array.StringBuilder:
		switch x := v.(type) {
		case string:
			bld.Append(x)
		case []byte:
			bld.Append(string(x))
		case time.Time:
			bld.Append(x.Format(time.RFC3339Nano))
		default:
			bld.Append(fmt.Sprint(x))
		}

	case *array.BinaryBuilder:
		switch x := v.(type) {
		case []byte:
			bld.Append(x)
		case string:
			bld.Append([]byte(x))
		default:
			return convErr(b, v)
		}

	case *array.MonthDayNanoIntervalBuilder:
		iv, err := toInterval(v)
		if err != nil {
			return convErr(b, v)
		}
		bld.Append(iv)

	case *array.ExtensionBuilder:
		// Geometry columns: the projected expression yields WKB bytes.
		data, ok := v.([]byte)
		if !ok {
			if s, isStr := v.(string); isStr {
				data = []byte(s)
			} else {
				return convErr(b, v)
			}
		}
		if _, err := DecodeWKB(data); err != nil {
			return fmt.Errorf("invalid geometry value: %w", err)
		}
		sb, ok := bld.StorageBuilder().(*array.BinaryBuilder)
		if !ok {
			return convErr(b, v)
		}
		sb.Append(data)

	default:
		return convErr(b, v)
	}
	return nil
}

func convErr(b array.Builder, v any) error {
	return fmt.Errorf("cannot convert %T value to %s", v, b.Type())
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case float64:
		return int64(x), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
	default:
		return 0, fmt.Errorf("not numeric: %T", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
	default:
		return 0, fmt.Errorf("not numeric: %T", v)
	}
}

func toDecimal128(v any, precision, scale int32) (decimal128.Num, error) {
	switch x := v.(type) {
	case string:
		return decimal128.FromString(strings.TrimSpace(x), precision, scale)
	case []byte:
		return decimal128.FromString(strings.TrimSpace(string(x)), precision, scale)
	case int64:
		return decimal128.FromString(strconv.FormatInt(x, 10), precision, scale)
	case float64:
		return decimal128.FromFloat64(x, precision, scale)
	default:
		return decimal128.Num{}, fmt.Errorf("not numeric: %T", v)
	}
}

// toInterval parses the driver's interval representations. Day-to-second
// intervals render as "[-]d hh:mm:ss[.fffffffff]" and year-to-month as
// "[-]yy-mm".
func toInterval(v any) (arrow.MonthDayNanoInterval, error) {
	switch x := v.(type) {
	case time.Duration:
		return arrow.MonthDayNanoInterval{Nanoseconds: x.Nanoseconds()}, nil
	case string:
		return parseIntervalString(strings.TrimSpace(x))
	case []byte:
		return parseIntervalString(strings.TrimSpace(string(x)))
	default:
		return arrow.MonthDayNanoInterval{}, fmt.Errorf("not an interval: %T", v)
	}
}

func parseIntervalString(s string) (arrow.MonthDayNanoInterval, error) {
	var iv arrow.MonthDayNanoInterval
	if s == "" {
		return iv, fmt.Errorf("empty interval")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	if days, clock, ok := strings.Cut(s, " "); ok {
		// Day-to-second form.
		d, err := strconv.Atoi(days)
		if err != nil {
			return iv, fmt.Errorf("invalid interval days %q", days)
		}
		dur, err := parseClock(clock)
		if err != nil {
			return iv, err
		}
		iv.Days = int32(d)
		iv.Nanoseconds = dur.Nanoseconds()
	} else if years, months, ok := strings.Cut(s, "-"); ok {
		y, err1 := strconv.Atoi(years)
		m, err2 := strconv.Atoi(months)
		if err1 != nil || err2 != nil {
			return iv, fmt.Errorf("invalid year-month interval %q", s)
		}
		iv.Months = int32(y*12 + m)
	} else if dur, err := parseClock(s); err == nil {
		iv.Nanoseconds = dur.Nanoseconds()
	} else {
		return iv, fmt.Errorf("unrecognized interval %q", s)
	}

	if neg {
		iv.Months = -iv.Months
		iv.Days = -iv.Days
		iv.Nanoseconds = -iv.Nanoseconds
	}
	return iv, nil
}

func parseClock(s string) (time.Duration, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid interval time %q", s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("invalid interval time %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(sec*float64(time.Second)), nil
}
