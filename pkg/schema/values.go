package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when a date arrives as a string.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// coerce performs the base type check and returns the typed value rules work on.
func coerce(t Type, raw any) (any, bool) {
	switch t {
	case TypeAny:
		return raw, true
	case TypeString:
		s, ok := raw.(string)
		return s, ok
	case TypeNumber:
		f, ok := toNumber(raw)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case TypeBoolean:
		b, ok := raw.(bool)
		return b, ok
	case TypeDate:
		return toTime(raw)
	case TypeArray:
		return toSlice(raw)
	case TypeObject:
		fields, _, ok := mapping(raw)
		return fields, ok
	default:
		return nil, false
	}
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toTime(v any) (any, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return nil, false
		}
		return *t, true
	case string:
		parsed, ok := parseDate(t)
		if !ok {
			return nil, false
		}
		return parsed, true
	}
	if ms, ok := toNumber(v); ok {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return nil, false
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toSlice(v any) (any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// equal compares two configured or input values; numbers compare by value
// regardless of their Go type.
func equal(a, b any) bool {
	if fa, ok := toNumber(a); ok {
		if fb, ok := toNumber(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if equal(item, v) {
			return true
		}
	}
	return false
}

func joinValues(list []any) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	if v == nil {
		return "null"
	}
	if f, ok := toNumber(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

var errNotInteger = errors.New("must be an integer")

// intArg reads a non-negative integer argument.
func intArg(args []any, i int) (int, error) {
	f, ok := toNumber(args[i])
	if !ok {
		return 0, fmt.Errorf("argument %d must be a number, got %T", i+1, args[i])
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("argument %d %w", i+1, errNotInteger)
	}
	if f < 0 {
		return 0, fmt.Errorf("argument %d must not be negative", i+1)
	}
	return int(f), nil
}

func floatArg(args []any, i int) (float64, error) {
	f, ok := toNumber(args[i])
	if !ok || math.IsNaN(f) {
		return 0, fmt.Errorf("argument %d must be a number, got %T", i+1, args[i])
	}
	return f, nil
}

func stringArg(args []any, i int) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d must be a string, got %T", i+1, args[i])
	}
	return s, nil
}

// dateArg returns a limit resolver; "now" is evaluated at validation time.
func dateArg(args []any, i int) (func() time.Time, string, error) {
	if s, ok := args[i].(string); ok && strings.EqualFold(s, "now") {
		return func() time.Time { return time.Now() }, "now", nil
	}
	v, ok := toTime(args[i])
	if !ok {
		return nil, "", fmt.Errorf("argument %d must be a date or \"now\", got %v", i+1, args[i])
	}
	t := v.(time.Time)
	return func() time.Time { return t }, t.Format(time.RFC3339Nano), nil
}
