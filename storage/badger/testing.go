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


package badger

import "github.com/poiesic/relevit/storage"

// NewMemoryStores creates in-memory tenant and shared indexes, a
// search cache, and a usage store for testing.
// Caller must close the stores and the backend when done.
func NewMemoryStores(monthlyLimit float64) (tenant, shared storage.PassageIndex, cache storage.SearchCache, usage storage.UsageStore, backend *Backend, err error) {
	backend, err = OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	tenant, err = NewPassageIndex(backend, "tenant")
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, nil, err
	}

	shared, err = NewPassageIndex(backend, "shared")
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, nil, err
	}

	cache, err = NewSearchCache(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, nil, err
	}

	usage, err = NewUsageStore(backend, monthlyLimit)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, nil, err
	}

	return tenant, shared, cache, usage, backend, nil
}
