package schema

import "errors"

var (
	// ErrUnknownType is returned when a schema is requested for an unsupported type name.
	ErrUnknownType = errors.New("schema: unknown type")

	// ErrUnknownOperation is returned when an operation does not exist on the schema type.
	ErrUnknownOperation = errors.New("schema: unknown operation")

	// ErrInvalidArgument is returned when an operation receives arguments of the wrong count or shape.
	ErrInvalidArgument = errors.New("schema: invalid argument")
)
