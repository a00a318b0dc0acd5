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


// Package ai provides the embedding gateway abstraction for relevit.
//
// The Embedder interface turns text into fixed-width vectors used to
// seed index queries. The core and search packages depend only on this
// abstraction, never on a concrete client.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: deterministic test double for unit testing without
//     external services
//
// Production constructors return the ai.Embedder interface to prevent
// coupling to implementation details; mock constructors return concrete
// types so tests can inject behavior and assert call counts.
package ai
