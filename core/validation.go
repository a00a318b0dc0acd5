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

import "fmt"

// ValidatePassage validates a Passage according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Source must be a valid SourceTag
//
// NOT validated:
//   - Vector (can be empty until the ingestion collaborator embeds it)
//   - ID (0 is valid; content-based IDs are assigned at upsert)
func ValidatePassage(passage *Passage) error {
	if passage == nil {
		return fmt.Errorf("%w: passage is nil", ErrInvalidPassage)
	}

	if passage.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPassage, ErrEmptyText)
	}

	if err := ValidateSourceTag(passage.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPassage, err)
	}

	return nil
}

// ValidateUsageRecord validates a UsageRecord according to domain rules.
//
// Validation rules:
//   - Provider must not be empty
//   - Token counts must not be negative
//   - Cost must not be negative
func ValidateUsageRecord(record *UsageRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidUsageRecord)
	}

	if record.Provider == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUsageRecord, ErrEmptyProvider)
	}

	if record.TokensIn < 0 || record.TokensOut < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidUsageRecord, ErrNegativeTokens)
	}

	if record.Cost < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidUsageRecord, ErrNegativeCost)
	}

	return nil
}

// ValidateSourceTag validates that a SourceTag has a valid value.
func ValidateSourceTag(source SourceTag) error {
	if source != SourceTenant && source != SourceShared {
		return fmt.Errorf("%w: value %d", ErrInvalidSourceTag, source)
	}
	return nil
}
