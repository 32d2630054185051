package schema

import (
	"fmt"
	"time"
)

var dateOperations = map[string]operation{
	"min":     dateLimit("min", `"%s" must be greater than or equal to "%s"`, func(v, limit time.Time) bool { return !v.Before(limit) }),
	"max":     dateLimit("max", `"%s" must be less than or equal to "%s"`, func(v, limit time.Time) bool { return !v.After(limit) }),
	"greater": dateLimit("greater", `"%s" must be greater than "%s"`, func(v, limit time.Time) bool { return v.After(limit) }),
	"less":    dateLimit("less", `"%s" must be less than "%s"`, func(v, limit time.Time) bool { return v.Before(limit) }),

	"iso": {arity: arityNone, apply: func(s Schema, _ []any) (Schema, error) {
		return s.withRule(rule{
			name: "iso",
			code: "date.format",
			check: func(raw, _ any) bool {
				str, ok := raw.(string)
				if !ok {
					return false
				}
				_, ok = parseDate(str)
				return ok
			},
			message: func(label string, _ any) string {
				return fmt.Sprintf(`"%s" must be in ISO 8601 date format`, label)
			},
		}), nil
	}},
}

func dateLimit(op, tmpl string, cmp func(v, limit time.Time) bool) operation {
	return operation{arity: arityOne, apply: func(s Schema, args []any) (Schema, error) {
		limit, display, err := dateArg(args, 0)
		if err != nil {
			return s, err
		}
		return s.withRule(rule{
			name: op,
			code: "date." + op,
			check: func(_, typed any) bool {
				return cmp(typed.(time.Time), limit())
			},
			message: func(label string, _ any) string {
				return fmt.Sprintf(tmpl, label, display)
			},
			context: map[string]any{"limit": display},
		}), nil
	}}
}
