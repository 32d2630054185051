package schema

import "fmt"

var arrayOperations = map[string]operation{
	"min":    sizeLimit(TypeArray, "min", `"%s" must contain at least %d items`, func(n, limit int) bool { return n >= limit }),
	"max":    sizeLimit(TypeArray, "max", `"%s" must contain less than or equal to %d items`, func(n, limit int) bool { return n <= limit }),
	"length": sizeLimit(TypeArray, "length", `"%s" must contain %d items`, func(n, limit int) bool { return n == limit }),

	"unique": {arity: arityNone, apply: func(s Schema, _ []any) (Schema, error) {
		return s.withRule(rule{
			name: "unique",
			code: "array.unique",
			check: func(_, typed any) bool {
				items := typed.([]any)
				for i := range items {
					for j := i + 1; j < len(items); j++ {
						if equal(items[i], items[j]) {
							return false
						}
					}
				}
				return true
			},
			message: func(label string, _ any) string {
				return fmt.Sprintf(`"%s" contains a duplicate value`, label)
			},
		}), nil
	}},
}

var objectOperations = map[string]operation{
	"min":    sizeLimit(TypeObject, "min", `"%s" must have at least %d keys`, func(n, limit int) bool { return n >= limit }),
	"max":    sizeLimit(TypeObject, "max", `"%s" must have less than or equal to %d keys`, func(n, limit int) bool { return n <= limit }),
	"length": sizeLimit(TypeObject, "length", `"%s" must have %d keys`, func(n, limit int) bool { return n == limit }),
}

// sizeLimit builds a count rule for arrays (items) and objects (keys).
func sizeLimit(t Type, op, tmpl string, cmp func(n, limit int) bool) operation {
	return operation{arity: arityOne, apply: func(s Schema, args []any) (Schema, error) {
		limit, err := intArg(args, 0)
		if err != nil {
			return s, err
		}
		return s.withRule(rule{
			name: op,
			code: string(t) + "." + op,
			check: func(_, typed any) bool {
				return cmp(size(typed), limit)
			},
			message: func(label string, _ any) string {
				return fmt.Sprintf(tmpl, label, limit)
			},
			context: map[string]any{"limit": limit},
		}), nil
	}}
}

func size(typed any) int {
	switch v := typed.(type) {
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	default:
		return 0
	}
}
