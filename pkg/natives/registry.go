package natives

import (
	"errors"
	"fmt"

	"arkvm/pkg/value"
)

// Proc is a native procedure. It receives its arguments in the order they
// were supplied by the caller.
type Proc func(args []value.Value) (value.Value, error)

var ErrUnknownProc = errors.New("unknown native procedure")

// Registry maps builtin ids to names and names to procedures.
type Registry struct {
	names []string
	procs map[string]Proc
}

// New creates an empty registry
func New() *Registry {
	return &Registry{procs: make(map[string]Proc)}
}

// Register adds a procedure and returns its builtin id. Registering an
// existing name replaces the procedure and keeps the id.
func (r *Registry) Register(name string, fn Proc) int {
	if _, ok := r.procs[name]; ok {
		r.procs[name] = fn
		for i, n := range r.names {
			if n == name {
				return i
			}
		}
	}

	r.procs[name] = fn
	r.names = append(r.names, name)
	return len(r.names) - 1
}

// Name resolves a builtin id.
func (r *Registry) Name(id int) (string, bool) {
	if id < 0 || id >= len(r.names) {
		return "", false
	}
	return r.names[id], true
}

// Lookup resolves a procedure by name.
func (r *Registry) Lookup(name string) (Proc, bool) {
	fn, ok := r.procs[name]
	return fn, ok
}

// Names returns the builtin names ordered by id.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Call invokes name with args.
func (r *Registry) Call(name string, args []value.Value) (value.Value, error) {
	fn, ok := r.procs[name]
	if !ok {
		return value.Nil, fmt.Errorf("%w: %s", ErrUnknownProc, name)
	}
	return fn(args)
}
