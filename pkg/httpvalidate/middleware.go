package httpvalidate

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/modelguard/pkg/logger"
	"github.com/dmitrymomot/modelguard/pkg/pipeline"
	"github.com/dmitrymomot/modelguard/pkg/validator"
)

type stateKey struct{}

// StateFromContext returns the state a Middleware validated for this request.
func StateFromContext(ctx context.Context) (pipeline.State, bool) {
	s, ok := ctx.Value(stateKey{}).(pipeline.State)
	return s, ok
}

// Middleware validates the JSON body against model before calling next.
// Invalid requests are answered with 422 and never reach next; valid ones
// carry the populated state in their context.
func Middleware(host Caller, model string, opts ...Option) func(http.Handler) http.Handler {
	o := newOptions(opts)
	name := validator.FuncName(model)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, err := stateFor(r, model, o.maxBodySize)
			if err != nil {
				writeError(w, err)
				return
			}
			if err := host.Call(name, state); err != nil {
				o.log.ErrorContext(r.Context(), "validator step failed", logger.Model(model), logger.Error(err))
				writeError(w, err)
				return
			}
			if errs, _ := validator.ErrorsFrom(state, model); len(errs) > 0 {
				o.log.InfoContext(r.Context(), "validation failed", logger.Model(model), logger.Fields(errs.Fields()))
				writeResult(w, model, errs)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), stateKey{}, state)))
		})
	}
}
