// Package mock provides a scripted llm.Provider for testing.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/relevit/llm"
)

// step is one scripted response.
type step struct {
	completion *llm.Completion
	err        error
}

// MockProvider implements llm.Provider with scripted responses for
// testing routing, retry, and failover behavior without network calls.
type MockProvider struct {
	// CompleteFunc, when set, overrides all scripted behavior.
	CompleteFunc func(ctx context.Context, req *llm.CompletionRequest) (*llm.Completion, error)

	name string

	mu     sync.Mutex
	script []step
	calls  int
	reqs   []*llm.CompletionRequest
}

// NewMockProvider creates a mock provider with the given name.
// With no scripted steps each call succeeds with a canned completion.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{name: name}
}

// Name returns the provider name.
func (m *MockProvider) Name() string {
	return m.name
}

// EnqueueCompletion scripts a successful response for a future call.
func (m *MockProvider) EnqueueCompletion(c *llm.Completion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, step{completion: c})
}

// EnqueueError scripts a failure for a future call.
func (m *MockProvider) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, step{err: err})
}

// Complete consumes the next scripted step, or returns a canned
// success when the script is exhausted.
func (m *MockProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.Completion, error) {
	if m.CompleteFunc != nil {
		m.mu.Lock()
		m.calls++
		m.reqs = append(m.reqs, req)
		m.mu.Unlock()
		return m.CompleteFunc(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.reqs = append(m.reqs, req)

	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		if next.err != nil {
			return nil, next.err
		}
		return next.completion, nil
	}

	return &llm.Completion{Content: "ok", TokensIn: 10, TokensOut: 5}, nil
}

// CallCount returns the number of Complete calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests returns the requests received so far.
func (m *MockProvider) Requests() []*llm.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*llm.CompletionRequest, len(m.reqs))
	copy(out, m.reqs)
	return out
}
