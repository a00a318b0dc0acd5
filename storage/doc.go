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


// Package storage provides the storage abstraction layer for relevit.
//
// This package defines the three narrow surfaces the orchestration
// core reads and writes through:
//
//   - PassageIndex: nearest-neighbor search over one passage corpus.
//     Two instances exist at runtime, a tenant-scoped index and the
//     shared library index, with non-comparable score spaces.
//   - SearchCache: fingerprint-keyed results with a TTL and lazy
//     eviction.
//   - UsageStore: append-only usage records plus the per-period
//     budget state, the only mutable shared financial record.
//
// # Implementation Packages
//
//   - storage/badger: BadgerDB-backed indexes, TTL cache, and ledger
//   - storage/redis: Redis-backed SearchCache for shared deployments
//   - storage/mock: in-memory doubles for unit tests
//
// Public constructors return interface types to keep consumers
// decoupled from any one backend.
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent
// access from multiple goroutines. UsageStore.UpdateBudgetState must
// be an atomic read-modify-write.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout
// support.
package storage
