package schema

import (
	"maps"
	"slices"
)

// operation is one entry of the static operation table.
type operation struct {
	arity Arity
	apply func(s Schema, args []any) (Schema, error)
}

var (
	arityNone     = Arity{Min: 0, Max: 0}
	arityOne      = Arity{Min: 1, Max: 1}
	arityOneOrTwo = Arity{Min: 1, Max: 2}
	arityVariadic = Arity{Min: 1, Max: -1}
)

// commonOperations are available on every type.
var commonOperations = map[string]operation{
	"required": {arity: arityNone, apply: func(s Schema, _ []any) (Schema, error) {
		s.presence = presenceRequired
		return s, nil
	}},
	"optional": {arity: arityNone, apply: func(s Schema, _ []any) (Schema, error) {
		s.presence = presenceOptional
		return s, nil
	}},
	"forbidden": {arity: arityNone, apply: func(s Schema, _ []any) (Schema, error) {
		s.presence = presenceForbidden
		return s, nil
	}},
	"valid": {arity: arityVariadic, apply: func(s Schema, args []any) (Schema, error) {
		s.valid = append(s.valid, args...)
		return s, nil
	}},
	"allow": {arity: arityVariadic, apply: func(s Schema, args []any) (Schema, error) {
		s.allowed = append(s.allowed, args...)
		return s, nil
	}},
	"invalid": {arity: arityVariadic, apply: func(s Schema, args []any) (Schema, error) {
		s.invalid = append(s.invalid, args...)
		return s, nil
	}},
	"label": {arity: arityOne, apply: func(s Schema, args []any) (Schema, error) {
		label, err := stringArg(args, 0)
		if err != nil {
			return s, err
		}
		s.label = label
		return s, nil
	}},
}

// operations maps each type to its own operations. Common operations are
// resolved by lookup and are not repeated here.
var operations = map[Type]map[string]operation{
	TypeAny:     {},
	TypeBoolean: {},
	TypeString:  stringOperations,
	TypeNumber:  numberOperations,
	TypeDate:    dateOperations,
	TypeArray:   arrayOperations,
	TypeObject:  objectOperations,
}

func lookup(t Type, op string) (operation, bool) {
	ops, ok := operations[t]
	if !ok {
		return operation{}, false
	}
	if def, ok := ops[op]; ok {
		return def, true
	}
	def, ok := commonOperations[op]
	return def, ok
}

// ArityOf reports the argument arity of op on the given type.
// The second result is false when the operation does not exist.
func ArityOf(t Type, op string) (Arity, bool) {
	def, ok := lookup(t, op)
	if !ok {
		return Arity{}, false
	}
	return def.arity, true
}

// Operations lists every operation name supported by t, sorted.
func Operations(t Type) []string {
	ops, ok := operations[t]
	if !ok {
		return nil
	}
	names := slices.Collect(maps.Keys(ops))
	for name := range commonOperations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
