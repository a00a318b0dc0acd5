package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/relevit/core"
	"github.com/tmc/langchaingo/llms"
)

// Router dispatches completion calls to providers. Each call resolves
// a route from the static task table, passes the budget pre-check,
// retries transient failures once against the same provider, fails
// over to the route's alternate provider, and settles cost and usage
// accounting on success.
type Router struct {
	registry *Registry
	ledger   *Ledger
	config   *Config
	logger   *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "llm-router")
		return nil
	}
}

// NewRouter creates a router over a provider registry and budget ledger.
func NewRouter(registry *Registry, ledger *Ledger, config *Config, opts ...RouterOption) (*Router, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if ledger == nil {
		return nil, ErrLedgerRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := &Router{
		registry: registry,
		ledger:   ledger,
		config:   config,
		logger:   slog.Default().With("component", "llm-router"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Ledger returns the budget ledger backing this router.
func (r *Router) Ledger() *Ledger {
	return r.ledger
}

// runOptions holds per-call overrides.
type runOptions struct {
	provider    string
	model       string
	temperature *float64
	maxTokens   int
}

// RunOption overrides routing or parameters for a single call.
type RunOption func(*runOptions)

// WithProvider pins the call to one provider, bypassing the routing
// table's provider choice and its failover.
func WithProvider(name string) RunOption {
	return func(o *runOptions) { o.provider = name }
}

// WithModel overrides the routed model.
func WithModel(model string) RunOption {
	return func(o *runOptions) { o.model = model }
}

// WithTemperature overrides the routed temperature.
func WithTemperature(t float64) RunOption {
	return func(o *runOptions) { o.temperature = &t }
}

// WithMaxTokens overrides the routed completion length cap.
func WithMaxTokens(n int) RunOption {
	return func(o *runOptions) { o.maxTokens = n }
}

// Run routes one completion call.
//
// Failure policy: a retryable provider failure (timeout, 5xx, rate
// limit) is retried once against the same provider with backoff, then
// the call fails over to the route's alternate provider; a permanent
// failure fails over immediately. When every option is exhausted the
// call surfaces ErrLLMUnavailable. A failed budget pre-check surfaces
// BudgetExceededError before any provider is called.
func (r *Router) Run(ctx context.Context, taskType string, messages []Message, opts ...RunOption) (*Result, error) {
	options := &runOptions{}
	for _, opt := range opts {
		opt(options)
	}

	decisions := r.resolve(taskType, options)

	// Budget pre-check with the primary decision's maximum possible cost.
	estimated := r.estimateMaxCost(&decisions[0], messages)
	reservation, err := r.ledger.Authorize(ctx, estimated)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i := range decisions {
		decision := &decisions[i]
		completion, err := r.attempt(ctx, decision, messages)
		if err == nil {
			return r.settle(ctx, reservation, decision, completion), nil
		}
		lastErr = err

		if ctx.Err() != nil {
			// Caller is gone; an abandoned call is never charged.
			break
		}
		if i+1 < len(decisions) {
			r.logger.Warn("failing over to alternate provider",
				"task", decision.TaskType, "from", decision.Provider,
				"to", decisions[i+1].Provider, "err", err)
		}
	}

	r.ledger.Release(reservation)
	if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %w", ErrLLMUnavailable, lastErr)
}

// resolve maps a task type to the ordered provider decisions to try.
// An explicit provider override wins and suppresses failover; an
// unknown task type routes as chat.
func (r *Router) resolve(taskType string, options *runOptions) []core.RouteDecision {
	route, ok := r.config.Routes[taskType]
	if !ok {
		r.logger.Warn("unknown task type, routing as chat", "task", taskType)
		route = r.config.Routes[TaskChat]
	}

	primary := core.RouteDecision{
		TaskType:    taskType,
		Provider:    route.Provider,
		Model:       route.Model,
		Temperature: route.Temperature,
		MaxTokens:   route.MaxTokens,
	}
	if options.temperature != nil {
		primary.Temperature = *options.temperature
	}
	if options.maxTokens > 0 {
		primary.MaxTokens = options.maxTokens
	}
	if options.model != "" {
		primary.Model = options.model
	}

	if options.provider != "" {
		primary.Provider = options.provider
		return []core.RouteDecision{primary}
	}

	decisions := []core.RouteDecision{primary}
	if route.Fallback != "" {
		fallback := primary
		fallback.Provider = route.Fallback
		if route.FallbackModel != "" && options.model == "" {
			fallback.Model = route.FallbackModel
		}
		decisions = append(decisions, fallback)
	}
	return decisions
}

// attempt runs one decision with the single-retry policy.
func (r *Router) attempt(ctx context.Context, decision *core.RouteDecision, messages []Message) (*Completion, error) {
	provider, err := r.registry.Get(decision.Provider)
	if err != nil {
		return nil, err
	}

	req := &CompletionRequest{
		Model:       decision.Model,
		Messages:    messages,
		Temperature: decision.Temperature,
		MaxTokens:   decision.MaxTokens,
	}

	var completion *Completion
	start := time.Now()
	err = retryWithBackoff(ctx, func() error {
		c, err := provider.Complete(ctx, req)
		if err != nil {
			return err
		}
		completion = c
		return nil
	}, 2, r.config.RetryBaseDelay)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("completion succeeded",
		"provider", decision.Provider, "model", decision.Model,
		"task", decision.TaskType, "elapsed", time.Since(start))
	return completion, nil
}

// settle computes the call's cost, writes the usage record, and adds
// the cost to the period spend.
func (r *Router) settle(ctx context.Context, reservation *Reservation, decision *core.RouteDecision, completion *Completion) *Result {
	cost := r.cost(decision.Provider, decision.Model, completion.TokensIn, completion.TokensOut)

	record := &core.UsageRecord{
		Provider:  decision.Provider,
		Model:     decision.Model,
		TaskType:  decision.TaskType,
		TokensIn:  completion.TokensIn,
		TokensOut: completion.TokensOut,
		Cost:      cost,
		Timestamp: time.Now().UTC(),
	}
	r.ledger.Commit(ctx, reservation, record)

	return &Result{
		Content:   completion.Content,
		Provider:  decision.Provider,
		Model:     decision.Model,
		TokensIn:  completion.TokensIn,
		TokensOut: completion.TokensOut,
		Cost:      cost,
	}
}

// cost prices a call from the pricing table.
func (r *Router) cost(provider, model string, tokensIn, tokensOut int) float64 {
	price, ok := r.config.PriceFor(provider, model)
	if !ok {
		r.logger.Warn("no pricing data, tracking zero cost", "provider", provider, "model", model)
		return 0
	}
	return float64(tokensIn)/1000.0*price.InputPer1K + float64(tokensOut)/1000.0*price.OutputPer1K
}

// estimateMaxCost bounds what a call could spend: prompt tokens at
// the input price plus a full-length completion at the output price.
func (r *Router) estimateMaxCost(decision *core.RouteDecision, messages []Message) float64 {
	price, ok := r.config.PriceFor(decision.Provider, decision.Model)
	if !ok {
		return 0
	}

	var tokensIn int
	for _, msg := range messages {
		tokensIn += llms.CountTokens(decision.Model, msg.Content)
	}
	return float64(tokensIn)/1000.0*price.InputPer1K + float64(decision.MaxTokens)/1000.0*price.OutputPer1K
}
