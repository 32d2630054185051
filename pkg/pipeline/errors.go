package pipeline

import "errors"

var (
	// ErrInvalidDefinition is returned when a definition is missing its name or init function.
	ErrInvalidDefinition = errors.New("pipeline: invalid definition")

	// ErrDuplicateDefinition is returned when a name is registered twice.
	ErrDuplicateDefinition = errors.New("pipeline: definition already registered")

	// ErrNotFound is returned when no reachable definition exists for a name.
	ErrNotFound = errors.New("pipeline: definition not found")
)
