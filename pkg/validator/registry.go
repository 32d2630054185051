package validator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/modelguard/pkg/confmap"
	"github.com/dmitrymomot/modelguard/pkg/logger"
	"github.com/dmitrymomot/modelguard/pkg/pipeline"
)

// Registrar accepts step definitions. *pipeline.Container satisfies it.
type Registrar interface {
	Add(def pipeline.Definition) error
}

// Registry holds every compiled validator of a validator section.
type Registry struct {
	validators map[string]*Compiled
	order      []string
	general    GeneralConfig
	logger     *slog.Logger
}

// Option configures Compile.
type Option func(*Registry)

// WithLogger sets the logger used to report compiled models.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// Compile reads a validator section, compiles every model it declares and
// registers one validate<Model> step per model with host.
//
// Any malformed model aborts the whole run; nothing registered before the
// failure is rolled back, so callers should treat the host as unusable.
func Compile(section any, host Registrar, opts ...Option) (*Registry, error) {
	r := &Registry{
		validators: make(map[string]*Compiled),
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	sec, ok := asMap(section)
	if !ok || !sec.Has(keyModels) {
		return nil, ErrModelsMissing
	}
	rawModels, _ := sec.Get(keyModels)
	models, ok := asMap(rawModels)
	if !ok {
		return nil, ErrModelsNotObject
	}

	if v, ok := sec.Get(keyAllowUnknown); ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a boolean", ErrInvalidConfig, keyAllowUnknown)
		}
		r.general.AllowUnknown = b
	}

	for _, name := range models.Keys() {
		raw, _ := models.Get(name)
		c, err := compileModel(name, raw, r.general)
		if err != nil {
			r.logger.Error("failed to compile model", logger.Model(name), logger.Error(err))
			return nil, err
		}
		if host != nil {
			if err := host.Add(c.Definition()); err != nil {
				return nil, errors.Join(ErrRegister, fmt.Errorf("model %q: %w", name, err))
			}
		}
		r.validators[name] = c
		r.order = append(r.order, name)
		r.logger.Debug("validator registered",
			logger.Model(name),
			slog.String("func", c.FuncName()),
			slog.Int("properties", len(c.config.Properties)),
		)
	}

	r.logger.Info("validators compiled", slog.Int("models", len(r.order)))
	return r, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(section any, host Registrar, opts ...Option) *Registry {
	r, err := Compile(section, host, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func compileModel(name string, raw any, general GeneralConfig) (*Compiled, error) {
	cfg, err := ParseModel(confmap.CloneValue(raw))
	if err != nil {
		return nil, withModel(name, err)
	}
	return NewCompiled(name, cfg, general)
}

// Get returns the compiled validator for model.
func (r *Registry) Get(model string) (*Compiled, bool) {
	c, ok := r.validators[model]
	return c, ok
}

// Names returns compiled model names in declaration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len reports how many models were compiled.
func (r *Registry) Len() int {
	return len(r.order)
}

// General returns the section-wide settings shared by every model.
func (r *Registry) General() GeneralConfig {
	return r.general
}
