package routing

import (
	"fmt"
	"net/http"
	"strings"
)

// Factory builds a middleware from the argument after the colon in its name
// ("admin" for "role:admin", "" for a bare "auth").
type Factory func(arg string) (func(http.Handler) http.Handler, error)

// Registry maps middleware kinds to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register installs f under kind, replacing any earlier factory.
func (reg *Registry) Register(kind string, f Factory) {
	reg.factories[kind] = f
}

// Resolve turns a middleware name such as "role:admin" into a middleware.
func (reg *Registry) Resolve(entry string) (func(http.Handler) http.Handler, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(entry), ":")
	f, ok := reg.factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown middleware %q", entry)
	}
	mw, err := f(arg)
	if err != nil {
		return nil, fmt.Errorf("middleware %q: %w", entry, err)
	}
	return mw, nil
}
