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
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBudgetExceeded indicates the monthly spending limit would be
	// exceeded. No provider call is made when this is returned.
	ErrBudgetExceeded = errors.New("monthly budget exceeded")

	// ErrLLMUnavailable indicates every configured provider for the
	// task failed, retries and failover included.
	ErrLLMUnavailable = errors.New("no language model provider available")

	// ErrUnknownProvider indicates a provider name is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoRoute indicates no route exists for a task type and no
	// chat fallback route is configured.
	ErrNoRoute = errors.New("no route configured")

	// ErrRegistryRequired is returned when a provider registry is not provided.
	ErrRegistryRequired = errors.New("provider registry required")

	// ErrProviderRequired is returned when registering a nil or unnamed provider.
	ErrProviderRequired = errors.New("valid provider required")

	// ErrLedgerRequired is returned when a budget ledger is not provided.
	ErrLedgerRequired = errors.New("budget ledger required")

	// ErrStoreRequired is returned when a usage store is not provided.
	ErrStoreRequired = errors.New("usage store required")

	// ErrEmptyResponse indicates a provider returned no choices.
	ErrEmptyResponse = errors.New("provider returned empty response")
)

// BudgetExceededError reports a failed budget pre-check with the
// figures needed to render a budget-specific message.
// Matches ErrBudgetExceeded under errors.Is.
type BudgetExceededError struct {
	Limit     float64
	Spent     float64
	Estimated float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("monthly budget exceeded: spent %.4f + estimated %.4f over limit %.2f",
		e.Spent, e.Estimated, e.Limit)
}

// Is makes BudgetExceededError match the ErrBudgetExceeded sentinel.
func (e *BudgetExceededError) Is(target error) bool {
	return target == ErrBudgetExceeded
}

// ProviderError wraps a failure from one provider attempt.
// Retryable distinguishes transient failures (timeout, 5xx, rate
// limit) from permanent ones (auth, malformed request).
type ProviderError struct {
	Provider  string
	Retryable bool
	Err       error
}

func (e *ProviderError) Error() string {
	kind := "permanent"
	if e.Retryable {
		kind = "retryable"
	}
	return fmt.Sprintf("provider %s: %s failure: %v", e.Provider, kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// retryableFragments mark transient failures in provider error text.
// Provider SDK errors carry status information only as strings.
var retryableFragments = []string{
	"status code: 429",
	"status code: 500",
	"status code: 502",
	"status code: 503",
	"status code: 529",
	"rate limit",
	"overloaded",
	"timeout",
	"connection refused",
	"connection reset",
	"EOF",
}

// ClassifyProviderError wraps a raw provider failure as a
// ProviderError, classifying it as retryable or permanent.
// Context cancellation and deadline errors pass through unwrapped.
func ClassifyProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	retryable := false
	text := err.Error()
	for _, fragment := range retryableFragments {
		if strings.Contains(text, fragment) {
			retryable = true
			break
		}
	}
	return &ProviderError{Provider: provider, Retryable: retryable, Err: err}
}

// IsRetryable reports whether an error is worth retrying against the
// same provider. Timeouts are treated identically to hard transient
// failures; context cancellation is never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Retryable
	}
	return false
}
