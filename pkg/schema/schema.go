package schema

import (
	"fmt"
	"maps"
	"slices"
)

type presence int

const (
	presenceOptional presence = iota
	presenceRequired
	presenceForbidden
)

type checkFunc func(raw, typed any) bool

type messageFunc func(label string, raw any) string

// rule is one compiled check of a schema node.
type rule struct {
	name     string
	code     string
	check    checkFunc
	message  messageFunc
	context  map[string]any
	override string
}

// Schema is an immutable, typed validation node. Every mutating method
// returns a new Schema and leaves the receiver untouched, so a compiled
// schema can be shared between goroutines.
type Schema struct {
	typ      Type
	presence presence
	label    string
	allowed  []any
	valid    []any
	invalid  []any
	rules    []rule
	messages map[string]string
	override string
}

// New returns an empty schema of the named primitive type.
func New(typ string) (Schema, error) {
	t := Type(typ)
	if _, ok := operations[t]; !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return Schema{typ: t}, nil
}

// MustNew is like New but panics on unknown types.
func MustNew(typ string) Schema {
	s, err := New(typ)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns a new string schema.
func String() Schema { return Schema{typ: TypeString} }

// Number returns a new number schema.
func Number() Schema { return Schema{typ: TypeNumber} }

// Boolean returns a new boolean schema.
func Boolean() Schema { return Schema{typ: TypeBoolean} }

// Any returns a schema accepting every value type.
func Any() Schema { return Schema{typ: TypeAny} }

// Type returns the base type of the node.
func (s Schema) Type() Type { return s.typ }

// Label returns the name used in messages, or empty for the key name.
func (s Schema) Label() string { return s.label }

// Required reports whether the node rejects absent values.
func (s Schema) Required() bool { return s.presence == presenceRequired }

// Rules returns the names of the applied rules in evaluation order.
// Presence and value-list flags are not rules and are not listed.
func (s Schema) Rules() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.name
	}
	return names
}

// Override returns the field-level custom message, if any was declared.
func (s Schema) Override() (string, bool) {
	return s.override, s.override != ""
}

// Apply runs the named operation with args and returns the resulting node.
func (s Schema) Apply(op string, args ...any) (Schema, error) {
	def, ok := lookup(s.typ, op)
	if !ok {
		return s, fmt.Errorf("%w: %q is not supported by type %q", ErrUnknownOperation, op, s.typ)
	}
	if !def.arity.Accepts(len(args)) {
		return s, fmt.Errorf("%w: %s.%s expects %s, got %d", ErrInvalidArgument, s.typ, op, def.arity, len(args))
	}
	next, err := def.apply(s.clone(), args)
	if err != nil {
		return s, fmt.Errorf("%w: %s.%s: %v", ErrInvalidArgument, s.typ, op, err)
	}
	return next, nil
}

// MustApply is like Apply but panics on error.
func (s Schema) MustApply(op string, args ...any) Schema {
	next, err := s.Apply(op, args...)
	if err != nil {
		panic(err)
	}
	return next
}

// WithMessage attaches a custom message to the latest application of op.
// The message also becomes the field message, reported when the node fails
// before any rule runs (presence, base type). Other rules keep their
// default wording unless they carry their own message.
func (s Schema) WithMessage(op, message string) Schema {
	next := s.clone()
	tagged := false
	for i := len(next.rules) - 1; i >= 0; i-- {
		if next.rules[i].name == op {
			next.rules[i].override = message
			tagged = true
			break
		}
	}
	if !tagged {
		if next.messages == nil {
			next.messages = make(map[string]string)
		}
		next.messages[op] = message
	}
	next.override = message
	return next
}

func (s Schema) clone() Schema {
	next := s
	next.allowed = slices.Clone(s.allowed)
	next.valid = slices.Clone(s.valid)
	next.invalid = slices.Clone(s.invalid)
	next.rules = slices.Clone(s.rules)
	next.messages = maps.Clone(s.messages)
	return next
}

func (s Schema) withRule(r rule) Schema {
	s.rules = append(s.rules, r)
	return s
}

// failure is a Detail plus the custom message bound to the check that failed.
// early marks failures raised before any rule ran: presence, value lists,
// base type and empty string.
type failure struct {
	Detail
	custom string
	early  bool
}

// evaluate checks one keyed value. Presence, value lists and the base type
// check short-circuit; rules run in declared order.
func (s Schema) evaluate(key string, raw any, present bool, abortEarly bool) []failure {
	label := s.label
	if label == "" {
		label = key
	}

	flag := func(code, op, msg string) []failure {
		return []failure{{
			Detail: Detail{
				Path:    key,
				Type:    code,
				Message: msg,
				Context: map[string]any{"key": key, "label": label, "value": raw},
			},
			custom: s.messages[op],
			early:  true,
		}}
	}

	if !present {
		if s.presence == presenceRequired {
			return flag("any.required", "required", fmt.Sprintf(`"%s" is required`, label))
		}
		return nil
	}
	if s.presence == presenceForbidden {
		return flag("any.unknown", "forbidden", fmt.Sprintf(`"%s" is not allowed`, label))
	}
	if containsValue(s.allowed, raw) {
		return nil
	}
	if len(s.valid) > 0 {
		if containsValue(s.valid, raw) {
			return nil
		}
		return flag("any.only", "valid", fmt.Sprintf(`"%s" must be one of [%s]`, label, joinValues(s.valid)))
	}
	if containsValue(s.invalid, raw) {
		return flag("any.invalid", "invalid", fmt.Sprintf(`"%s" contains an invalid value`, label))
	}

	typed, ok := coerce(s.typ, raw)
	if !ok {
		return flag(string(s.typ)+".base", "", baseMessage(s.typ, label))
	}
	if str, isString := typed.(string); isString && s.typ == TypeString && str == "" {
		return flag("string.empty", "", fmt.Sprintf(`"%s" is not allowed to be empty`, label))
	}

	var out []failure
	for _, r := range s.rules {
		if r.check(raw, typed) {
			continue
		}
		ctx := map[string]any{"key": key, "label": label, "value": raw}
		maps.Copy(ctx, r.context)
		out = append(out, failure{
			Detail: Detail{
				Path:    key,
				Type:    r.code,
				Message: r.message(label, raw),
				Context: ctx,
			},
			custom: r.override,
		})
		if abortEarly {
			break
		}
	}
	return out
}

func baseMessage(t Type, label string) string {
	switch t {
	case TypeString:
		return fmt.Sprintf(`"%s" must be a string`, label)
	case TypeNumber:
		return fmt.Sprintf(`"%s" must be a number`, label)
	case TypeBoolean:
		return fmt.Sprintf(`"%s" must be a boolean`, label)
	case TypeDate:
		return fmt.Sprintf(`"%s" must be a valid date`, label)
	case TypeArray:
		return fmt.Sprintf(`"%s" must be an array`, label)
	case TypeObject:
		return fmt.Sprintf(`"%s" must be of type object`, label)
	default:
		return fmt.Sprintf(`"%s" is invalid`, label)
	}
}
