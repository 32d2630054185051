package httpvalidate

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/modelguard/pkg/logger"
	"github.com/dmitrymomot/modelguard/pkg/pipeline"
	"github.com/dmitrymomot/modelguard/pkg/requestid"
	"github.com/dmitrymomot/modelguard/pkg/validator"
)

// Caller runs a registered step by name. *pipeline.Container satisfies it.
type Caller interface {
	Call(name string, state pipeline.State) error
}

// Option configures the router and middleware.
type Option func(*options)

type options struct {
	log         *slog.Logger
	maxBodySize int64
	middlewares []func(http.Handler) http.Handler
}

// WithLogger sets the logger used for request and validation logs.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMaxBodySize limits the accepted JSON body size.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

// WithMiddleware adds middlewares in front of every route.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, mw...)
	}
}

func newOptions(opts []Option) *options {
	o := &options{log: logger.Discard(), maxBodySize: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type handler struct {
	host     Caller
	registry *validator.Registry
	opts     *options
}

// ModelInfo describes a compiled model.
type ModelInfo struct {
	Name       string         `json:"name"`
	Func       string         `json:"func"`
	Properties []PropertyInfo `json:"properties"`
}

// PropertyInfo describes one declared property and its constraint names.
type PropertyInfo struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Constraints []string `json:"constraints,omitempty"`
}

// NewRouter exposes every model of registry over HTTP:
//
//	GET  /health                 liveness check
//	GET  /models                 compiled models
//	GET  /models/{model}         one model
//	POST /models/{model}/validate
//
// Validation answers 200 {"valid":true} or 422 with the error map.
func NewRouter(host Caller, registry *validator.Registry, opts ...Option) chi.Router {
	h := &handler{host: host, registry: registry, opts: newOptions(opts)}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, middleware.Recoverer)
	r.Use(h.opts.middlewares...)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "models": registry.Len()})
	})
	r.Route("/models", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{model}", h.describe)
		r.Post("/{model}/validate", h.validate)
	})
	return r
}

func (h *handler) list(w http.ResponseWriter, _ *http.Request) {
	names := h.registry.Names()
	out := make([]ModelInfo, 0, len(names))
	for _, name := range names {
		c, _ := h.registry.Get(name)
		out = append(out, describe(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) describe(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "model")
	c, ok := h.registry.Get(model)
	if !ok {
		writeError(w, fmt.Errorf("%w: %q", ErrUnknownModel, model))
		return
	}
	writeJSON(w, http.StatusOK, describe(c))
}

func (h *handler) validate(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "model")
	if _, ok := h.registry.Get(model); !ok {
		writeError(w, fmt.Errorf("%w: %q", ErrUnknownModel, model))
		return
	}

	errs, err := run(r, h.host, model, h.opts.maxBodySize)
	if err != nil {
		h.opts.log.WarnContext(r.Context(), "validation request rejected", logger.Model(model), logger.Error(err))
		writeError(w, err)
		return
	}
	if len(errs) > 0 {
		h.opts.log.InfoContext(r.Context(), "validation failed", logger.Model(model), logger.Fields(errs.Fields()))
	}
	writeResult(w, model, errs)
}

// run decodes the body into a fresh state and invokes the model's step.
func run(r *http.Request, host Caller, model string, maxBodySize int64) (validator.Errors, error) {
	state, err := stateFor(r, model, maxBodySize)
	if err != nil {
		return nil, err
	}
	if err := host.Call(validator.FuncName(model), state); err != nil {
		return nil, err
	}
	errs, _ := validator.ErrorsFrom(state, model)
	return errs, nil
}

func stateFor(r *http.Request, model string, maxBodySize int64) (pipeline.State, error) {
	body, err := DecodeBody(r, maxBodySize)
	if err != nil {
		return nil, err
	}
	state := pipeline.NewState()
	if body != nil {
		state.Set(model, body)
	}
	return state, nil
}

func describe(c *validator.Compiled) ModelInfo {
	cfg := c.Config()
	info := ModelInfo{Name: c.Model(), Func: c.FuncName(), Properties: make([]PropertyInfo, 0, len(cfg.Properties))}
	for _, p := range cfg.Properties {
		pi := PropertyInfo{Name: p.Name, Type: p.Type}
		for _, cons := range p.Constraints {
			pi.Constraints = append(pi.Constraints, cons.Name)
		}
		info.Properties = append(info.Properties, pi)
	}
	return info
}
