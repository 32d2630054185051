package schema

import (
	"fmt"
	"strings"
)

// Type names a primitive schema type.
type Type string

const (
	TypeAny     Type = "any"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Types lists every supported primitive type.
func Types() []Type {
	return []Type{TypeAny, TypeString, TypeNumber, TypeBoolean, TypeDate, TypeArray, TypeObject}
}

// Arity describes how many arguments an operation takes.
// Max of -1 means variadic.
type Arity struct {
	Min int
	Max int
}

// TakesArgs reports whether the operation accepts any argument at all.
func (a Arity) TakesArgs() bool {
	return a.Max != 0
}

// Accepts reports whether n arguments satisfy the arity.
func (a Arity) Accepts(n int) bool {
	if n < a.Min {
		return false
	}
	return a.Max < 0 || n <= a.Max
}

func (a Arity) String() string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("at least %d argument(s)", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("exactly %d argument(s)", a.Min)
	default:
		return fmt.Sprintf("between %d and %d arguments", a.Min, a.Max)
	}
}

// Options tune a single validation pass.
type Options struct {
	// AbortEarly stops at the first failure instead of collecting all of them.
	AbortEarly bool
	// AllowUnknown accepts input keys that are not declared on the object.
	AllowUnknown bool
}

// Detail describes one failed check.
type Detail struct {
	Path    string
	Type    string
	Message string
	Context map[string]any
}

// Outcome is the result of validating a value against an Object.
// It is one of Passed, Overridden or Failed.
type Outcome interface {
	outcome()
}

// Passed means every check succeeded.
type Passed struct{}

// Overridden is reported when a failing field carries a custom message.
// It replaces every other failure of the same pass.
type Overridden struct {
	Field   string
	Rule    string
	Message string
}

// Failed carries the engine's structured failures in evaluation order.
type Failed struct {
	Details []Detail
}

func (Passed) outcome()     {}
func (Overridden) outcome() {}
func (Failed) outcome()     {}

func (f Failed) Error() string {
	parts := make([]string, 0, len(f.Details))
	for _, d := range f.Details {
		parts = append(parts, d.Message)
	}
	return strings.Join(parts, ". ")
}

func (o Overridden) Error() string {
	return o.Message
}
