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

import "github.com/poiesic/graphit/storage"

// NewMemoryStores creates in-memory document, graph and vector stores for
// testing. Caller must close the stores and backend when done.
func NewMemoryStores() (storage.DocumentRepository, storage.GraphRepository, storage.VectorIndex, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	docs, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	graph, err := NewGraphRepository(backend)
	if err != nil {
		docs.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	vectors, err := NewVectorIndex(backend)
	if err != nil {
		graph.Close()
		docs.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return docs, graph, vectors, backend, nil
}
