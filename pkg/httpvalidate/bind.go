package httpvalidate

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrymomot/modelguard/pkg/confmap"
)

// DefaultMaxBodySize caps request bodies at 1 MB.
const DefaultMaxBodySize int64 = 1 << 20

// DecodeBody reads a JSON request body with key order preserved.
// An empty body decodes to nil so the validator reports the model as missing.
func DecodeBody(r *http.Request, maxSize int64) (any, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSize+1))
	if err != nil {
		return nil, errors.Join(ErrInvalidJSON, err)
	}
	if int64(len(body)) > maxSize {
		return nil, fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, maxSize)
	}
	if len(body) == 0 {
		return nil, nil
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return nil, fmt.Errorf("%w: got %q", ErrUnsupportedMediaType, ct)
		}
	}

	v, err := confmap.DecodeJSON(body)
	if err != nil {
		return nil, errors.Join(ErrInvalidJSON, err)
	}
	return v, nil
}
