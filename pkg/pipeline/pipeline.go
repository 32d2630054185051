package pipeline

import (
	"fmt"
	"slices"
	"sync"
)

// Scope controls who may resolve a definition.
type Scope string

const (
	// ScopePublic definitions are reachable from any caller of the container.
	ScopePublic Scope = "public"
	// ScopePrivate definitions are only reachable through Resolve.
	ScopePrivate Scope = "private"
)

// Func is a pipeline step operating on a request state.
type Func func(State)

// Definition describes a named pipeline step.
// Init builds the step; when Cache is false it runs on every lookup.
type Definition struct {
	Name  string
	Scope Scope
	Cache bool
	Init  func() Func
}

type entry struct {
	def  Definition
	once sync.Once
	fn   Func
}

func (e *entry) build() Func {
	if !e.def.Cache {
		return e.def.Init()
	}
	e.once.Do(func() {
		e.fn = e.def.Init()
	})
	return e.fn
}

// Container holds registered definitions. Registration is expected to happen
// once at startup; lookups are safe for concurrent use.
type Container struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
}

// NewContainer returns an empty Container.
func NewContainer() *Container {
	return &Container{entries: make(map[string]*entry)}
}

// Add registers def. Names are unique per container.
func (c *Container) Add(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDefinition)
	}
	if def.Init == nil {
		return fmt.Errorf("%w: %q has no init function", ErrInvalidDefinition, def.Name)
	}
	if def.Scope == "" {
		def.Scope = ScopePublic
	}
	if def.Scope != ScopePublic && def.Scope != ScopePrivate {
		return fmt.Errorf("%w: %q has unknown scope %q", ErrInvalidDefinition, def.Name, def.Scope)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[def.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateDefinition, def.Name)
	}
	c.entries[def.Name] = &entry{def: def}
	c.order = append(c.order, def.Name)
	return nil
}

// Names returns registered names in registration order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// Definition returns the registered definition for name.
func (c *Container) Definition(name string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return Definition{}, false
	}
	return e.def, true
}

// Get returns the public step registered under name.
func (c *Container) Get(name string) (Func, error) {
	e, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	if e.def.Scope != ScopePublic {
		return nil, fmt.Errorf("%w: %q is private", ErrNotFound, name)
	}
	return e.build(), nil
}

// Resolve returns the step registered under name regardless of scope.
func (c *Container) Resolve(name string) (Func, error) {
	e, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.build(), nil
}

// Call runs the public step registered under name against state.
func (c *Container) Call(name string, state State) error {
	fn, err := c.Get(name)
	if err != nil {
		return err
	}
	fn(state)
	return nil
}

func (c *Container) lookup(name string) (*entry, error) {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, nil
}
