package vm

import "sort"

// Env is the single flat symbol table shared by the whole program,
// function parameters included.
type Env struct {
	vars map[string]Value
}

// NewEnv creates an empty symbol table.
func NewEnv() *Env {
	return &Env{vars: make(map[string]Value)}
}

// Get looks up a variable.
func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name, creating it if absent. The tag may change.
func (e *Env) Set(name string, v Value) {
	e.vars[name] = v
}

// Delete removes a binding.
func (e *Env) Delete(name string) {
	delete(e.vars, name)
}

// Len returns the number of bound variables.
func (e *Env) Len() int {
	return len(e.vars)
}

// Names returns every bound name in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// binding is a saved variable state, restored when a frame-scoped call
// returns.
type binding struct {
	name  string
	value Value
	bound bool
}

func (e *Env) save(name string) binding {
	v, ok := e.vars[name]
	return binding{name: name, value: v, bound: ok}
}

func (e *Env) restore(b binding) {
	if b.bound {
		e.vars[b.name] = b.value
	} else {
		delete(e.vars, b.name)
	}
}
