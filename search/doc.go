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


// Package search orchestrates retrieval across the tenant and shared
// vector indexes.
//
// The Searcher type runs a multi-stage pipeline:
//   - Fingerprint-keyed semantic cache lookup
//   - Optional hypothetical-answer generation for a better search seed
//   - Concurrent tenant and shared index queries
//   - Per-index score normalization, shared-index boost, and merging
//   - Optional second-pass reranking through a language model
//
// Recoverable stage failures (hypothesis generation, reranking, a
// single index outage) degrade the result rather than fail the call.
package search
