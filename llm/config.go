// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package llm

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Route maps one task type to a provider, model, and call parameters.
// Fallback names the alternate provider tried when the primary fails.
type Route struct {
	Provider      string  `toml:"provider"`
	Model         string  `toml:"model"`
	Temperature   float64 `toml:"temperature"`
	MaxTokens     int     `toml:"max_tokens"`
	Fallback      string  `toml:"fallback"`
	FallbackModel string  `toml:"fallback_model"`
}

// Price holds per-1K-token prices for one model.
type Price struct {
	InputPer1K  float64 `toml:"input_per_1k"`
	OutputPer1K float64 `toml:"output_per_1k"`
}

// BudgetConfig caps language model spend per billing period.
type BudgetConfig struct {
	MonthlyUSD float64 `toml:"monthly_usd"`
}

// Config drives the router: the static task routing table, the
// provider/model pricing table, and the monthly budget.
type Config struct {
	// Routes maps task type to its route. Unknown task types fall
	// back to the "chat" route.
	Routes map[string]Route `toml:"routes"`

	// Pricing maps provider name to model name to prices.
	Pricing map[string]map[string]Price `toml:"pricing"`

	Budget BudgetConfig `toml:"budget"`

	// RetryBaseDelay is the backoff before the single same-provider
	// retry. Doubles per attempt.
	RetryBaseDelay time.Duration `toml:"retry_base_delay"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithRoute sets or replaces the route for a task type.
func WithRoute(taskType string, route Route) ConfigOption {
	return func(c *Config) {
		c.Routes[taskType] = route
	}
}

// WithMonthlyBudget sets the monthly spending limit in USD.
func WithMonthlyBudget(usd float64) ConfigOption {
	return func(c *Config) {
		c.Budget.MonthlyUSD = usd
	}
}

// WithPrice sets the price entry for a provider/model pair.
func WithPrice(provider, model string, price Price) ConfigOption {
	return func(c *Config) {
		if c.Pricing[provider] == nil {
			c.Pricing[provider] = make(map[string]Price)
		}
		c.Pricing[provider][model] = price
	}
}

// WithRetryBaseDelay sets the base backoff delay for retries.
func WithRetryBaseDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryBaseDelay = d
	}
}

// DefaultConfig returns the built-in routing table, pricing table,
// and budget. Values mirror the published per-1K prices at the time
// of writing; override via options or a TOML file as they change.
func DefaultConfig() *Config {
	return &Config{
		Routes: map[string]Route{
			TaskChat: {
				Provider: "openai", Model: "gpt-4o-mini",
				Temperature: 0.7, MaxTokens: 2000,
				Fallback: "anthropic", FallbackModel: "claude-3-5-haiku-20241022",
			},
			TaskHypothesis: {
				Provider: "openai", Model: "gpt-4o-mini",
				Temperature: 0.2, MaxTokens: 200,
				Fallback: "anthropic", FallbackModel: "claude-3-5-haiku-20241022",
			},
			TaskRerank: {
				Provider: "openai", Model: "gpt-4o-mini",
				Temperature: 0.0, MaxTokens: 100,
				Fallback: "anthropic", FallbackModel: "claude-3-5-haiku-20241022",
			},
			TaskAnalysis: {
				Provider: "openai", Model: "gpt-4o",
				Temperature: 0.3, MaxTokens: 4000,
				Fallback: "anthropic", FallbackModel: "claude-3-5-sonnet-20241022",
			},
			TaskSummary: {
				Provider: "openai", Model: "gpt-4o-mini",
				Temperature: 0.2, MaxTokens: 1000,
				Fallback: "anthropic", FallbackModel: "claude-3-5-haiku-20241022",
			},
		},
		Pricing: map[string]map[string]Price{
			"openai": {
				"gpt-4o-mini": {InputPer1K: 0.00015, OutputPer1K: 0.0006},
				"gpt-4o":      {InputPer1K: 0.0025, OutputPer1K: 0.01},
			},
			"anthropic": {
				"claude-3-5-haiku-20241022":  {InputPer1K: 0.0008, OutputPer1K: 0.004},
				"claude-3-5-sonnet-20241022": {InputPer1K: 0.003, OutputPer1K: 0.015},
			},
		},
		Budget:         BudgetConfig{MonthlyUSD: 50},
		RetryBaseDelay: 500 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfig reads a TOML file over the defaults. Sections present in
// the file replace the corresponding default entries; absent sections
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("llm config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is complete enough to route.
func (c *Config) Validate() error {
	if len(c.Routes) == 0 {
		return fmt.Errorf("llm config: at least one route is required")
	}
	if _, ok := c.Routes[TaskChat]; !ok {
		return fmt.Errorf("llm config: a %q route is required as the fallback for unknown tasks", TaskChat)
	}
	for task, route := range c.Routes {
		if route.Provider == "" || route.Model == "" {
			return fmt.Errorf("llm config: route %q needs provider and model", task)
		}
		if route.MaxTokens <= 0 {
			return fmt.Errorf("llm config: route %q needs a positive max_tokens", task)
		}
	}
	if c.Budget.MonthlyUSD < 0 {
		return fmt.Errorf("llm config: budget cannot be negative")
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = 500 * time.Millisecond
	}
	return nil
}

// PriceFor returns the price entry for a provider/model pair.
// A missing entry returns a zero price and false; callers log the
// miss and track zero cost rather than failing the call.
func (c *Config) PriceFor(provider, model string) (Price, bool) {
	models, ok := c.Pricing[provider]
	if !ok {
		return Price{}, false
	}
	price, ok := models[model]
	return price, ok
}
