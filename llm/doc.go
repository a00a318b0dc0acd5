// Package llm routes completion calls across language model providers.
//
// A Router resolves each call's task type against a static routing
// table, enforces a monthly cost budget through a Ledger before any
// provider is contacted, and handles transient failures with a
// retry-then-failover policy. Successful calls are priced from a
// per-model pricing table and recorded as usage history.
//
// Provider implementations live in subpackages (openai, anthropic,
// mock) and register themselves on a Registry.
package llm
