package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Provider is the contract every language model backend implements.
// Implementations must be thread-safe and should wrap failures in
// *ProviderError so the router can distinguish retryable failures
// from permanent ones.
type Provider interface {
	// Name returns the registry key for this provider (e.g. "openai").
	Name() string

	// Complete runs one completion call. The returned token counts
	// come from the provider's usage accounting and drive cost
	// tracking; implementations must populate them whenever the
	// provider reported usage data.
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}

// Registry holds the configured providers, keyed by name.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider under its own name.
// Registering the same name twice replaces the earlier provider.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return ErrProviderRequired
	}
	if p.Name() == "" {
		return fmt.Errorf("%w: provider has empty name", ErrProviderRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
	return nil
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
