package validator

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrModelsMissing is returned when the validator section has no models key.
	ErrModelsMissing = errors.New("validator: invalid config: 'models' key is empty")

	// ErrModelsNotObject is returned when the models key is not a mapping.
	ErrModelsNotObject = errors.New("validator: invalid config: 'models' key has to be an object")

	// ErrInvalidConfig is returned for malformed model, property or constraint declarations.
	ErrInvalidConfig = errors.New("validator: invalid config")

	// ErrCompile marks every failure raised while turning a model into a schema.
	ErrCompile = errors.New("validator: schema compilation failed")

	// ErrRegister is returned when the host rejects a validator definition.
	ErrRegister = errors.New("validator: failed to register validator")
)

// CompileError names the model, field and constraint that could not be compiled.
// It unwraps to both ErrCompile and the underlying engine or config error.
type CompileError struct {
	Model      string
	Field      string
	Constraint string
	Err        error
}

func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("validator: failed to compile")
	if e.Model != "" {
		b.WriteString(" model " + strconv.Quote(e.Model))
	}
	if e.Field != "" {
		b.WriteString(" field " + strconv.Quote(e.Field))
	}
	if e.Constraint != "" {
		b.WriteString(" constraint " + strconv.Quote(e.Constraint))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *CompileError) Unwrap() []error {
	return []error{ErrCompile, e.Err}
}
