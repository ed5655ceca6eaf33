package propagation

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbitprop/internal/orbit"
)

const (
	KindUniversal = "universal"
	KindClassical = "classical"

	DefaultKind = KindUniversal
)

var factories = map[string]func(Options) *Engine{
	KindUniversal: NewUniversal,
	KindClassical: NewClassical,
}

// New builds a propagator by kind. An empty kind selects DefaultKind.
func New(kind string, opts Options) (*Engine, error) {
	if kind == "" {
		kind = DefaultKind
	}
	fn, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown propagator %q", orbit.ErrInvalidArgument, kind)
	}
	return fn(opts), nil
}

// Kinds lists the registered propagator kinds in sorted order.
func Kinds() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
