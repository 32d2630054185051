// Package schema is the constraint engine behind the model validator.
//
// A Schema is an immutable node of one primitive type (any, string, number,
// boolean, date, array, object). Operations such as "min", "required" or
// "pattern" are applied with Apply, which returns a new node and leaves the
// receiver untouched, so compiled schemas can be shared freely between
// goroutines. Every type has a fixed operation table; ArityOf exposes how
// many arguments each operation takes so callers can bind configuration
// values without guessing.
//
// # Usage
//
//	name := schema.String().
//	    MustApply("required").
//	    MustApply("min", 3).
//	    WithMessage("min", "name is too short")
//
//	obj := schema.NewObject(schema.Key{Name: "name", Schema: name})
//
//	switch out := obj.Validate(input, schema.Options{}).(type) {
//	case schema.Passed:
//	case schema.Overridden:
//	    // out.Field, out.Message
//	case schema.Failed:
//	    // out.Details
//	}
//
// # Evaluation order
//
// Declared keys are checked in order. For each key: an absent value fails
// only when required; a present value on a forbidden key fails; "allow"
// hits pass immediately; "valid" misses and "invalid" hits fail; then the
// base type check runs (empty strings fail unless allowed) and finally the
// rules in the order they were applied. Undeclared input keys are reported
// last, sorted, unless Options.AllowUnknown is set.
//
// A failing check that carries a custom message (WithMessage) is reported
// as an Overridden outcome the moment it fails, discarding every other
// failure of the pass. A failure raised before any rule ran (presence,
// value lists, base type) uses the most recently declared message of the
// node, which is how a "required" failure on an absent value surfaces the
// message configured for "min". Rules without their own message keep the
// default wording.
//
// Well-known string formats are checked with
// github.com/go-playground/validator/v10 and github.com/google/uuid.
package schema
