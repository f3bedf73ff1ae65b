package provider

import (
	"errors"
	"fmt"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// Registry looks providers up by name. An empty registry is valid and
// rejects every name.
type Registry struct {
	providers map[string]OAuthProvider
}

// NewRegistry registers the given providers by name. A later provider
// with the same name replaces an earlier one.
func NewRegistry(list ...OAuthProvider) *Registry {
	m := make(map[string]OAuthProvider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name string) (OAuthProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

func (r *Registry) Len() int {
	return len(r.providers)
}
