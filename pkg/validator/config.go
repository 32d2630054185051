package validator

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/modelguard/pkg/confmap"
)

// Model and section keys understood by the compiler.
const (
	keyModels                  = "models"
	keyAllowUnknown            = "allowUnknown"
	keyAbortEarly              = "abortEarly"
	keyProperties              = "properties"
	keyNonExistentModelMessage = "nonExistentModelMessage"
	keyType                    = "type"
	keyConstraints             = "constraints"
	keyValue                   = "value"
	keyMessage                 = "message"
)

// ValueKind tells how a constraint value was written.
type ValueKind int

const (
	// ValueScalar is a single non-sequence value: number, string, bool, nil or a plain mapping.
	ValueScalar ValueKind = iota
	// ValueSequence is a list of positional arguments.
	ValueSequence
	// ValueRecord is a mapping with a value key and an optional message.
	ValueRecord
)

func (k ValueKind) String() string {
	switch k {
	case ValueSequence:
		return "sequence"
	case ValueRecord:
		return "record"
	default:
		return "scalar"
	}
}

// ConstraintValue is the declared value of one constraint.
// For records, Value holds the inner value key, which may itself be a sequence.
type ConstraintValue struct {
	Kind       ValueKind
	Value      any
	Message    string
	HasMessage bool
}

// ConstraintConfig is one named constraint in declaration order.
type ConstraintConfig struct {
	Name  string
	Value ConstraintValue
}

// PropertyConfig declares one field of a model.
type PropertyConfig struct {
	Name        string
	Type        string
	Constraints []ConstraintConfig
}

// ModelConfig is the parsed declaration of a single model.
type ModelConfig struct {
	Properties []PropertyConfig

	// AllowUnknown is nil when the model does not set it.
	AllowUnknown *bool
	AbortEarly   bool

	NonExistentModelMessage    string
	HasNonExistentModelMessage bool
}

// GeneralConfig carries section-wide settings shared by every model.
type GeneralConfig struct {
	AllowUnknown bool
}

// Clone returns a deep copy of the model config.
func (m ModelConfig) Clone() ModelConfig {
	out := m
	if m.AllowUnknown != nil {
		v := *m.AllowUnknown
		out.AllowUnknown = &v
	}
	out.Properties = make([]PropertyConfig, len(m.Properties))
	for i, p := range m.Properties {
		out.Properties[i] = p.Clone()
	}
	return out
}

// Property returns the declared property with the given name.
func (m ModelConfig) Property(name string) (PropertyConfig, bool) {
	i := slices.IndexFunc(m.Properties, func(p PropertyConfig) bool { return p.Name == name })
	if i < 0 {
		return PropertyConfig{}, false
	}
	return m.Properties[i], true
}

// Clone returns a deep copy of the property and its constraints.
func (p PropertyConfig) Clone() PropertyConfig {
	out := p
	out.Constraints = make([]ConstraintConfig, len(p.Constraints))
	for i, c := range p.Constraints {
		out.Constraints[i] = ConstraintConfig{Name: c.Name, Value: c.Value.Clone()}
	}
	return out
}

// Clone returns a deep copy of the constraint value.
func (v ConstraintValue) Clone() ConstraintValue {
	out := v
	out.Value = confmap.CloneValue(v.Value)
	return out
}

// ParseModel reads a model declaration from its decoded configuration value.
func ParseModel(raw any) (ModelConfig, error) {
	var cfg ModelConfig

	m, ok := asMap(raw)
	if !ok {
		return cfg, fmt.Errorf("%w: model must be an object", ErrInvalidConfig)
	}

	if v, ok := m.Get(keyAllowUnknown); ok {
		b, ok := v.(bool)
		if !ok {
			return cfg, fmt.Errorf("%w: %q must be a boolean", ErrInvalidConfig, keyAllowUnknown)
		}
		cfg.AllowUnknown = &b
	}
	if v, ok := m.Get(keyAbortEarly); ok {
		b, ok := v.(bool)
		if !ok {
			return cfg, fmt.Errorf("%w: %q must be a boolean", ErrInvalidConfig, keyAbortEarly)
		}
		cfg.AbortEarly = b
	}
	if v, ok := m.Get(keyNonExistentModelMessage); ok {
		s, ok := v.(string)
		if !ok {
			return cfg, fmt.Errorf("%w: %q must be a string", ErrInvalidConfig, keyNonExistentModelMessage)
		}
		cfg.NonExistentModelMessage = s
		cfg.HasNonExistentModelMessage = true
	}

	rawProps, ok := m.Get(keyProperties)
	if !ok {
		return cfg, fmt.Errorf("%w: %q is required", ErrInvalidConfig, keyProperties)
	}
	props, ok := asMap(rawProps)
	if !ok {
		return cfg, fmt.Errorf("%w: %q must be an object", ErrInvalidConfig, keyProperties)
	}

	cfg.Properties = make([]PropertyConfig, 0, props.Len())
	for _, name := range props.Keys() {
		v, _ := props.Get(name)
		p, err := parseProperty(name, v)
		if err != nil {
			return cfg, err
		}
		cfg.Properties = append(cfg.Properties, p)
	}
	return cfg, nil
}

func parseProperty(name string, raw any) (PropertyConfig, error) {
	p := PropertyConfig{Name: name}

	m, ok := asMap(raw)
	if !ok {
		return p, &CompileError{Field: name, Err: fmt.Errorf("%w: property must be an object", ErrInvalidConfig)}
	}

	typ, ok := m.Get(keyType)
	if !ok {
		return p, &CompileError{Field: name, Err: fmt.Errorf("%w: %q is required", ErrInvalidConfig, keyType)}
	}
	if p.Type, ok = typ.(string); !ok {
		return p, &CompileError{Field: name, Err: fmt.Errorf("%w: %q must be a string", ErrInvalidConfig, keyType)}
	}

	rawConstraints, ok := m.Get(keyConstraints)
	if !ok || rawConstraints == nil {
		return p, nil
	}
	constraints, ok := asMap(rawConstraints)
	if !ok {
		return p, &CompileError{Field: name, Err: fmt.Errorf("%w: %q must be an object", ErrInvalidConfig, keyConstraints)}
	}

	p.Constraints = make([]ConstraintConfig, 0, constraints.Len())
	for _, op := range constraints.Keys() {
		v, _ := constraints.Get(op)
		cv, err := parseConstraintValue(v)
		if err != nil {
			return p, &CompileError{Field: name, Constraint: op, Err: err}
		}
		p.Constraints = append(p.Constraints, ConstraintConfig{Name: op, Value: cv})
	}
	return p, nil
}

func parseConstraintValue(raw any) (ConstraintValue, error) {
	if seq, ok := raw.([]any); ok {
		return ConstraintValue{Kind: ValueSequence, Value: seq}, nil
	}

	m, ok := asMap(raw)
	if !ok || !m.Has(keyValue) {
		if ok {
			raw = m
		}
		return ConstraintValue{Kind: ValueScalar, Value: raw}, nil
	}

	v, _ := m.Get(keyValue)
	cv := ConstraintValue{Kind: ValueRecord, Value: v}
	if msg, ok := m.Get(keyMessage); ok {
		s, ok := msg.(string)
		if !ok {
			return cv, fmt.Errorf("%w: %q must be a string", ErrInvalidConfig, keyMessage)
		}
		cv.Message = s
		cv.HasMessage = true
	}
	return cv, nil
}

// asMap accepts both ordered and plain decoded mappings.
func asMap(v any) (*confmap.Map, bool) {
	switch m := v.(type) {
	case *confmap.Map:
		return m, m != nil
	case map[string]any:
		return confmap.FromMap(m), m != nil
	default:
		return nil, false
	}
}
