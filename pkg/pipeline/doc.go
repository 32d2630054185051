// Package pipeline is a minimal host for named request steps.
//
// Steps are registered once as Definitions (name, scope, cache flag and an
// Init factory) and later resolved and invoked against a State, a plain
// string-keyed map owned by a single invocation. Uncached definitions call
// Init on every lookup; cached ones build their step once.
//
//	c := pipeline.NewContainer()
//	_ = c.Add(pipeline.Definition{
//	    Name:  "validateUser",
//	    Scope: pipeline.ScopePublic,
//	    Init:  func() pipeline.Func { return func(s pipeline.State) { ... } },
//	})
//
//	state := pipeline.State{"user": payload}
//	if err := c.Call("validateUser", state); err != nil {
//	    // unknown or private step
//	}
package pipeline
