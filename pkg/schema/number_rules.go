package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var numberOperations = map[string]operation{
	"min":     numberLimit("min", `"%s" must be greater than or equal to %s`, func(v, limit float64) bool { return v >= limit }),
	"max":     numberLimit("max", `"%s" must be less than or equal to %s`, func(v, limit float64) bool { return v <= limit }),
	"greater": numberLimit("greater", `"%s" must be greater than %s`, func(v, limit float64) bool { return v > limit }),
	"less":    numberLimit("less", `"%s" must be less than %s`, func(v, limit float64) bool { return v < limit }),

	"integer":  numberCheck("integer", `"%s" must be an integer`, func(v float64) bool { return v == math.Trunc(v) }),
	"positive": numberCheck("positive", `"%s" must be a positive number`, func(v float64) bool { return v > 0 }),
	"negative": numberCheck("negative", `"%s" must be a negative number`, func(v float64) bool { return v < 0 }),
	"port": numberCheck("port", `"%s" must be a valid port`, func(v float64) bool {
		return v == math.Trunc(v) && v >= 0 && v <= 65535
	}),

	"multiple": {arity: arityOne, apply: func(s Schema, args []any) (Schema, error) {
		base, err := floatArg(args, 0)
		if err != nil {
			return s, err
		}
		if base <= 0 {
			return s, errors.New("argument 1 must be a positive number")
		}
		return s.withRule(rule{
			name: "multiple",
			code: "number.multiple",
			check: func(_, typed any) bool {
				return isMultiple(typed.(float64), base)
			},
			message: func(label string, _ any) string {
				return fmt.Sprintf(`"%s" must be a multiple of %s`, label, formatValue(base))
			},
			context: map[string]any{"multiple": base},
		}), nil
	}},

	"precision": {arity: arityOne, apply: func(s Schema, args []any) (Schema, error) {
		limit, err := intArg(args, 0)
		if err != nil {
			return s, err
		}
		return s.withRule(rule{
			name: "precision",
			code: "number.precision",
			check: func(_, typed any) bool {
				return decimals(typed.(float64)) <= limit
			},
			message: func(label string, _ any) string {
				return fmt.Sprintf(`"%s" must have no more than %d decimal places`, label, limit)
			},
			context: map[string]any{"limit": limit},
		}), nil
	}},
}

func numberLimit(op, tmpl string, cmp func(v, limit float64) bool) operation {
	return operation{arity: arityOne, apply: func(s Schema, args []any) (Schema, error) {
		limit, err := floatArg(args, 0)
		if err != nil {
			return s, err
		}
		return s.withRule(rule{
			name: op,
			code: "number." + op,
			check: func(_, typed any) bool {
				return cmp(typed.(float64), limit)
			},
			message: func(label string, _ any) string {
				return fmt.Sprintf(tmpl, label, formatValue(limit))
			},
			context: map[string]any{"limit": limit},
		}), nil
	}}
}

func numberCheck(op, tmpl string, fn func(float64) bool) operation {
	return operation{arity: arityNone, apply: func(s Schema, _ []any) (Schema, error) {
		return s.withRule(rule{
			name: op,
			code: "number." + op,
			check: func(_, typed any) bool {
				return fn(typed.(float64))
			},
			message: func(label string, _ any) string {
				return fmt.Sprintf(tmpl, label)
			},
		}), nil
	}}
}

func isMultiple(v, base float64) bool {
	const epsilon = 1e-9
	r := math.Abs(math.Mod(v, base))
	return r < epsilon || math.Abs(r-base) < epsilon
}

func decimals(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
