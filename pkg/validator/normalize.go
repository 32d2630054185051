package validator

import (
	"maps"
	"slices"
	"strings"

	"github.com/dmitrymomot/modelguard/pkg/schema"
)

// Errors maps field names to a single message each.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for field, or an empty string.
func (e Errors) Get(field string) string {
	return e[field]
}

// Fields returns the failing field names, sorted.
func (e Errors) Fields() []string {
	return slices.Sorted(maps.Keys(e))
}

// Normalize reduces an engine outcome to field messages.
// A passing outcome yields nil. When one path fails more than once the last
// message wins.
func Normalize(out schema.Outcome) Errors {
	switch o := out.(type) {
	case schema.Overridden:
		return Errors{o.Field: o.Message}
	case schema.Failed:
		if len(o.Details) == 0 {
			return nil
		}
		errs := make(Errors, len(o.Details))
		for _, d := range o.Details {
			errs[d.Path] = d.Message
		}
		return errs
	default:
		return nil
	}
}
