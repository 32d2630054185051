package logger

import (
	"log/slog"
	"strconv"
)

// Error records err under the key "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups every non-nil error under the key "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Group nests attrs under name.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Model records the model name under the key "model".
func Model(name string) slog.Attr {
	return slog.String("model", name)
}

// Field records a model property under the key "field".
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// Constraint records a constraint name under the key "constraint".
func Constraint(name string) slog.Attr {
	return slog.String("constraint", name)
}

// Fields records the failing field names of a validation pass.
func Fields(names []string) slog.Attr {
	return slog.Any("fields", names)
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RequestID records the request identifier under the key "request_id".
// An empty id yields an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Duration records d under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
