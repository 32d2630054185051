package validator

import (
	"fmt"
	"math"
	"reflect"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/modelguard/pkg/pipeline"
	"github.com/dmitrymomot/modelguard/pkg/schema"
)

const defaultNonExistentModelMessage = "Invalid request. Unknown model '%s'."

// MissingModelKey is the only key of the error map written when the model
// value is absent from the state.
const MissingModelKey = keyNonExistentModelMessage

// Compiled is an immutable, ready-to-run validator for one model.
// It is safe for concurrent use.
type Compiled struct {
	schema  schema.Object
	model   string
	config  ModelConfig
	general GeneralConfig
}

// NewCompiled compiles the model and captures a private copy of its config.
func NewCompiled(model string, cfg ModelConfig, general GeneralConfig) (*Compiled, error) {
	obj, err := CompileModel(model, cfg)
	if err != nil {
		return nil, err
	}
	return &Compiled{
		schema:  obj,
		model:   model,
		config:  cfg.Clone(),
		general: general,
	}, nil
}

// Model is the model name as declared in the configuration.
func (c *Compiled) Model() string { return c.model }

// Schema returns the compiled object schema.
func (c *Compiled) Schema() schema.Object { return c.schema }

// General returns the section-wide settings the model was compiled with.
func (c *Compiled) General() GeneralConfig { return c.general }

// Config returns a copy of the model declaration captured at compile time.
func (c *Compiled) Config() ModelConfig { return c.config.Clone() }

// FuncName is the name the validator is registered under, e.g. validateUser.
func (c *Compiled) FuncName() string { return FuncName(c.model) }

// ErrorKey is the state key the validator writes its result to, e.g. userErrors.
func (c *Compiled) ErrorKey() string { return ErrorKey(c.model) }

// Options returns the engine options used for every validation pass.
// A model-level allowUnknown takes precedence over the section default.
func (c *Compiled) Options() schema.Options {
	opts := schema.Options{
		AbortEarly:   c.config.AbortEarly,
		AllowUnknown: c.general.AllowUnknown,
	}
	if c.config.AllowUnknown != nil {
		opts.AllowUnknown = *c.config.AllowUnknown
	}
	return opts
}

// Check validates value and returns nil when it passes.
func (c *Compiled) Check(value any) Errors {
	return Normalize(c.schema.Validate(value, c.Options()))
}

// MissingMessage is the message reported when the model is absent from the state.
func (c *Compiled) MissingMessage() string {
	if c.config.HasNonExistentModelMessage {
		return c.config.NonExistentModelMessage
	}
	return fmt.Sprintf(defaultNonExistentModelMessage, c.model)
}

// Validate reads the model value from state and writes the outcome under ErrorKey:
// nil on success, otherwise a non-empty Errors. An absent model yields
// {nonExistentModelMessage: ...} and skips field validation.
func (c *Compiled) Validate(state pipeline.State) {
	key := c.ErrorKey()
	state.Set(key, nil)

	value, ok := state.Get(c.model)
	if !ok || falsy(value) {
		state.Set(key, Errors{MissingModelKey: c.MissingMessage()})
		return
	}
	if errs := c.Check(value); len(errs) > 0 {
		state.Set(key, errs)
	}
}

// Definition describes the validator as a public, uncached pipeline step.
func (c *Compiled) Definition() pipeline.Definition {
	return pipeline.Definition{
		Name:  c.FuncName(),
		Scope: pipeline.ScopePublic,
		Cache: false,
		Init: func() pipeline.Func {
			return c.Validate
		},
	}
}

// FuncName returns the registered step name for a model.
func FuncName(model string) string {
	return "validate" + upperFirst(model)
}

// ErrorKey returns the state key validation results for model are written to.
func ErrorKey(model string) string {
	return model + "Errors"
}

// ErrorsFrom reads the result written by the validator of model.
// The second result is false when no validator has run for it yet.
func ErrorsFrom(state pipeline.State, model string) (Errors, bool) {
	v, ok := state.Get(ErrorKey(model))
	if !ok {
		return nil, false
	}
	errs, _ := v.(Errors)
	return errs, true
}

// upperFirst capitalizes the first rune and keeps the rest byte for byte,
// so my-model becomes My-model.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}

// falsy reports values that count as an absent model: nil, false, zero, NaN
// and the empty string.
func falsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case float64:
		return val == 0 || math.IsNaN(val)
	case float32:
		return val == 0 || math.IsNaN(float64(val))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
