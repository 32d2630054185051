package confmap

import "errors"

var (
	// ErrDecode is returned when the source document cannot be parsed.
	ErrDecode = errors.New("confmap: failed to decode document")

	// ErrNotMapping is returned when a mapping was expected but another shape was found.
	ErrNotMapping = errors.New("confmap: document is not a mapping")
)
