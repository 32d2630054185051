package validator

import (
	"errors"

	"github.com/dmitrymomot/modelguard/pkg/schema"
)

// CompileProperty folds the property's constraints over an empty schema of its type.
// Failures are reported as *CompileError naming the field and constraint.
func CompileProperty(p PropertyConfig) (schema.Schema, error) {
	node, err := schema.New(p.Type)
	if err != nil {
		return schema.Schema{}, &CompileError{Field: p.Name, Err: err}
	}

	for _, c := range p.Constraints {
		b, err := Resolve(node.Type(), c)
		if err != nil {
			return schema.Schema{}, &CompileError{Field: p.Name, Constraint: c.Name, Err: err}
		}
		next, err := node.Apply(c.Name, b.Args...)
		if err != nil {
			return schema.Schema{}, &CompileError{Field: p.Name, Constraint: c.Name, Err: err}
		}
		if b.HasMessage {
			next = next.WithMessage(c.Name, b.Message)
		}
		node = next
	}
	return node, nil
}

// CompileModel builds the object schema for a model, one key per property in declaration order.
func CompileModel(name string, m ModelConfig) (schema.Object, error) {
	obj := schema.NewObject()
	for _, p := range m.Properties {
		node, err := CompileProperty(p)
		if err != nil {
			return schema.Object{}, withModel(name, err)
		}
		obj = obj.With(p.Name, node)
	}
	return obj, nil
}

func withModel(model string, err error) error {
	var ce *CompileError
	if errors.As(err, &ce) {
		out := *ce
		out.Model = model
		return &out
	}
	return &CompileError{Model: model, Err: err}
}
