// Package httpvalidate exposes compiled validators over HTTP.
//
// NewRouter serves every model of a validator.Registry; Middleware guards a
// single route of an existing chi router:
//
//	r.With(httpvalidate.Middleware(container, "user")).Post("/users", createUser)
//
// Inside createUser, StateFromContext returns the state the body was
// validated in.
package httpvalidate
