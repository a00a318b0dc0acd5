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

import (
	"fmt"

	"github.com/poiesic/relevit/core"
)

// Fingerprint derives the cache key for a search request. It hashes
// the normalized query text together with every option that changes
// the result set, and nothing else — in particular it is computed
// before hypothesis generation, so repeated identical requests hit
// the cache regardless of hypothesis nondeterminism.
func Fingerprint(query string, opts *Options) core.ID {
	canonical := fmt.Sprintf("q=%s|hyde=%t|rerank=%t|shared=%t|k=%d",
		normalizeQuery(query), opts.UseHyde, opts.UseReranker, opts.IncludeShared, opts.TopK)
	return core.IDFromContent(canonical)
}
