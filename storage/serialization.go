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


package storage

import (
	"github.com/poiesic/relevit/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalPassage serializes a Passage to bytes.
func MarshalPassage(passage *core.Passage) []byte {
	buf := make([]byte, core.PassageMUS.Size(*passage))
	core.PassageMUS.Marshal(*passage, buf)
	return buf
}

// UnmarshalPassage deserializes a Passage from bytes.
func UnmarshalPassage(data []byte) (*core.Passage, error) {
	passage, _, err := core.PassageMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &passage, nil
}

// MarshalSearchResult serializes a SearchResult to bytes.
func MarshalSearchResult(result *core.SearchResult) []byte {
	buf := make([]byte, core.SearchResultMUS.Size(*result))
	core.SearchResultMUS.Marshal(*result, buf)
	return buf
}

// UnmarshalSearchResult deserializes a SearchResult from bytes.
func UnmarshalSearchResult(data []byte) (*core.SearchResult, error) {
	result, _, err := core.SearchResultMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarshalUsageRecord serializes a UsageRecord to bytes.
func MarshalUsageRecord(record *core.UsageRecord) []byte {
	buf := make([]byte, core.UsageRecordMUS.Size(*record))
	core.UsageRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalUsageRecord deserializes a UsageRecord from bytes.
func UnmarshalUsageRecord(data []byte) (*core.UsageRecord, error) {
	record, _, err := core.UsageRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalBudgetState serializes a BudgetState to bytes.
func MarshalBudgetState(state *core.BudgetState) []byte {
	buf := make([]byte, core.BudgetStateMUS.Size(*state))
	core.BudgetStateMUS.Marshal(*state, buf)
	return buf
}

// UnmarshalBudgetState deserializes a BudgetState from bytes.
func UnmarshalBudgetState(data []byte) (*core.BudgetState, error) {
	state, _, err := core.BudgetStateMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &state, nil
}
