// Package registry holds the table of operations a node-rpc server can serve
// and a client can call.
//
// An operation is a name, a transport path and constructors for its request
// and response messages. The table is built once at startup: register every
// operation before serving, after that it is only read.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"node-rpc/codec"
)

// Operation describes one remote call.
type Operation struct {
	Name        string
	Path        string              // Exact, case-sensitive, no slashes
	NewRequest  func() codec.Message // Fresh zero request to decode into
	NewResponse func() codec.Message // Fresh zero response to decode into
}

type Registry struct {
	ops map[string]*Operation // Path → operation
}

func New() *Registry {
	return &Registry{ops: make(map[string]*Operation)}
}

// Register adds op to the table. Paths must be unique.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" {
		return fmt.Errorf("registry: operation name is empty")
	}
	if op.Path == "" || strings.Contains(op.Path, "/") {
		return fmt.Errorf("registry: invalid path %q for %s", op.Path, op.Name)
	}
	if op.NewRequest == nil || op.NewResponse == nil {
		return fmt.Errorf("registry: %s needs request and response constructors", op.Name)
	}
	if _, dup := r.ops[op.Path]; dup {
		return fmt.Errorf("registry: path already registered: %s", op.Path)
	}
	r.ops[op.Path] = &op
	return nil
}

// Lookup finds the operation registered under path. Matching is exact.
func (r *Registry) Lookup(path string) (*Operation, bool) {
	op, ok := r.ops[path]
	return op, ok
}

// Operations returns every registered operation ordered by path.
func (r *Registry) Operations() []*Operation {
	ops := make([]*Operation, 0, len(r.ops))
	for _, op := range r.ops {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Path < ops[j].Path
	})
	return ops
}

func (r *Registry) Len() int {
	return len(r.ops)
}
