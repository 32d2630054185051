package pipeline

// State is the mutable per-invocation container steps read from and write to.
// A State belongs to a single invocation and is not safe for concurrent writes.
type State map[string]any

// NewState returns an empty State.
func NewState() State {
	return make(State)
}

// Get returns the value stored under key.
func (s State) Get(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// Set stores v under key, replacing any previous value.
func (s State) Set(key string, v any) {
	s[key] = v
}

// Has reports whether key is present, even when its value is nil.
func (s State) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Delete removes key from the state.
func (s State) Delete(key string) {
	delete(s, key)
}
