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


package search

import "errors"

var (
	// ErrTenantIndexRequired is returned when a tenant index is not provided.
	ErrTenantIndexRequired = errors.New("tenant index required")

	// ErrSharedIndexRequired is returned when a shared index is not provided.
	ErrSharedIndexRequired = errors.New("shared index required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrRouterRequired is returned when a language model router is not provided.
	ErrRouterRequired = errors.New("llm router required")

	// ErrIndexUnavailable indicates no index could serve the query.
	// A single index failing is tolerated; this is raised only when
	// every index the call targeted failed.
	ErrIndexUnavailable = errors.New("no vector index available")

	// ErrNoRanking indicates the rerank model's response contained no
	// usable ranking.
	ErrNoRanking = errors.New("no usable ranking in rerank response")
)
