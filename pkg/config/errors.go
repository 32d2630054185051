package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the target struct.
	ErrParsingConfig = errors.New("config: failed to parse environment variables")

	// ErrNilPointer is returned when Load receives a nil pointer.
	ErrNilPointer = errors.New("config: nil pointer provided to loader")

	// ErrReadModels is returned when the models file cannot be read or decoded.
	ErrReadModels = errors.New("config: failed to read models file")
)
