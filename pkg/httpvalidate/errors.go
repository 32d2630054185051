package httpvalidate

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("httpvalidate: unsupported media type, expected application/json")
	ErrBodyTooLarge         = errors.New("httpvalidate: request body too large")
	ErrInvalidJSON          = errors.New("httpvalidate: invalid JSON body")
	ErrUnknownModel         = errors.New("httpvalidate: unknown model")
)
