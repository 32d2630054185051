package validator

import (
	"fmt"

	"github.com/dmitrymomot/modelguard/pkg/schema"
)

// Binding is a constraint resolved into engine arguments.
type Binding struct {
	Args       []any
	Message    string
	HasMessage bool
}

// Resolve turns a declared constraint value into the arguments passed to the
// engine operation of the same name.
//
// Sequences are spread as positional arguments. Records pass their value the
// same way and may carry a message; a boolean value on an operation that takes
// no arguments only switches it on. Bare scalars are passed as the single
// argument when the operation takes any, and dropped otherwise.
func Resolve(typ schema.Type, c ConstraintConfig) (Binding, error) {
	arity, ok := schema.ArityOf(typ, c.Name)
	if !ok {
		return Binding{}, fmt.Errorf("%w: %q is not supported by type %q", schema.ErrUnknownOperation, c.Name, typ)
	}

	v := c.Value
	switch v.Kind {
	case ValueSequence:
		args, _ := v.Value.([]any)
		return Binding{Args: args}, nil

	case ValueRecord:
		b := Binding{Message: v.Message, HasMessage: v.HasMessage}
		switch inner := v.Value.(type) {
		case []any:
			b.Args = inner
		case bool:
			if arity.TakesArgs() {
				b.Args = []any{inner}
			}
		default:
			b.Args = []any{inner}
		}
		return b, nil

	default:
		if arity.TakesArgs() {
			return Binding{Args: []any{v.Value}}, nil
		}
		return Binding{}, nil
	}
}
