// Package validator compiles declarative model definitions into request
// validators and registers them as pipeline steps.
//
// A validator section looks like this:
//
//	allowUnknown: false
//	models:
//	  user:
//	    nonExistentModelMessage: "user payload is required"
//	    properties:
//	      name:
//	        type: string
//	        constraints:
//	          required: true
//	          min: {value: 3, message: "name is too short"}
//	          max: 30
//
// Compile turns every model into a schema.Object once, at startup, and adds a
// public uncached step named validate<Model> to the host. Running the step
// reads state[model] and writes state[model+"Errors"]: nil when the value is
// valid, a field to message map otherwise, or {nonExistentModelMessage: ...}
// when the model value is missing.
//
// Constraint values are bound to engine arguments by Resolve. Sequences are
// spread, records ({value, message}) attach a custom message to that
// constraint, and bare scalars are passed only to operations that take
// arguments. A custom message replaces every other failure of the pass
// when its constraint fails, or when the property fails its presence or
// type check.
//
// Compilation errors are fatal and returned as *CompileError. Validation never
// returns an error; failures are reported through the state only.
package validator
