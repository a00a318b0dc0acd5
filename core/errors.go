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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPassage indicates a Passage failed validation.
	ErrInvalidPassage = errors.New("invalid passage")

	// ErrInvalidUsageRecord indicates a UsageRecord failed validation.
	ErrInvalidUsageRecord = errors.New("invalid usage record")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidSourceTag indicates an invalid SourceTag value.
	ErrInvalidSourceTag = errors.New("invalid source tag")

	// ErrNegativeTokens indicates a token count is negative.
	ErrNegativeTokens = errors.New("token counts cannot be negative")

	// ErrNegativeCost indicates a recorded cost is negative.
	ErrNegativeCost = errors.New("cost cannot be negative")

	// ErrEmptyProvider indicates the Provider field is empty.
	ErrEmptyProvider = errors.New("provider cannot be empty")

	// ErrEmbeddingFailure indicates the embedding gateway failed.
	// Embedding failures are fatal for the search that needed them.
	ErrEmbeddingFailure = errors.New("embedding failure")
)
