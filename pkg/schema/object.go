package schema

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/dmitrymomot/modelguard/pkg/confmap"
)

// Key binds a field name to its schema.
type Key struct {
	Name   string
	Schema Schema
}

// Object is an ordered set of keyed schemas validated as a unit.
// Like Schema it is immutable once built.
type Object struct {
	keys []Key
}

// NewObject composes keys into an object schema, preserving their order.
func NewObject(keys ...Key) Object {
	return Object{keys: slices.Clone(keys)}
}

// With returns a copy of o with name bound to s. An existing key keeps its position.
func (o Object) With(name string, s Schema) Object {
	keys := slices.Clone(o.keys)
	for i := range keys {
		if keys[i].Name == name {
			keys[i].Schema = s
			return Object{keys: keys}
		}
	}
	return Object{keys: append(keys, Key{Name: name, Schema: s})}
}

// Keys returns the declared field names in order.
func (o Object) Keys() []string {
	names := make([]string, len(o.keys))
	for i, k := range o.keys {
		names[i] = k.Name
	}
	return names
}

// Get returns the schema bound to name.
func (o Object) Get(name string) (Schema, bool) {
	for _, k := range o.keys {
		if k.Name == name {
			return k.Schema, true
		}
	}
	return Schema{}, false
}

// Validate checks value against every declared key and reports the outcome.
//
// Declared keys are evaluated in order, then undeclared input keys. When a
// failing check carries a custom message the pass stops and reports it as
// Overridden, regardless of AbortEarly.
func (o Object) Validate(value any, opts Options) Outcome {
	fields, order, ok := mapping(value)
	if !ok {
		return Failed{Details: []Detail{{
			Path:    "value",
			Type:    "object.base",
			Message: baseMessage(TypeObject, "value"),
			Context: map[string]any{"key": "value", "label": "value", "value": value},
		}}}
	}

	var details []Detail
	declared := make(map[string]struct{}, len(o.keys))
	for _, k := range o.keys {
		declared[k.Name] = struct{}{}
		raw, present := fields[k.Name]

		failures := k.Schema.evaluate(k.Name, raw, present, opts.AbortEarly)
		if len(failures) == 0 {
			continue
		}
		if out, ok := overridden(k, failures); ok {
			return out
		}
		for _, f := range failures {
			details = append(details, f.Detail)
		}
		if opts.AbortEarly {
			return Failed{Details: details}
		}
	}

	if !opts.AllowUnknown {
		for _, name := range order {
			if _, ok := declared[name]; ok {
				continue
			}
			details = append(details, Detail{
				Path:    name,
				Type:    "object.unknown",
				Message: fmt.Sprintf(`"%s" is not allowed`, name),
				Context: map[string]any{"key": name, "label": name, "value": fields[name]},
			})
			if opts.AbortEarly {
				break
			}
		}
	}

	if len(details) == 0 {
		return Passed{}
	}
	return Failed{Details: details}
}

// mapping exposes a string-keyed value as a plain map plus a stable key order.
func mapping(value any) (map[string]any, []string, bool) {
	switch v := value.(type) {
	case nil:
		return nil, nil, false
	case map[string]any:
		return v, slices.Sorted(maps.Keys(v)), true
	case *confmap.Map:
		if v == nil {
			return nil, nil, false
		}
		keys := v.Keys()
		fields := make(map[string]any, len(keys))
		for _, k := range keys {
			fields[k], _ = v.Get(k)
		}
		return fields, keys, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, nil, false
	}
	if rv.IsNil() {
		return nil, nil, false
	}
	fields := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		fields[iter.Key().String()] = iter.Value().Interface()
	}
	return fields, slices.Sorted(maps.Keys(fields)), true
}

// overridden picks the custom message for a failing key, if any. A failing
// check with its own message wins. A failure raised before any rule ran
// falls back to the field message; failing rules without a message keep
// their default wording.
func overridden(k Key, failures []failure) (Overridden, bool) {
	for _, f := range failures {
		if f.custom != "" {
			return Overridden{Field: k.Name, Rule: f.Type, Message: f.custom}, true
		}
	}
	if k.Schema.override != "" && failures[0].early {
		return Overridden{Field: k.Name, Rule: failures[0].Type, Message: k.Schema.override}, true
	}
	return Overridden{}, false
}
