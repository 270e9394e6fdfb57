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


// Package search provides hybrid semantic and name-based entity search.
//
// The Searcher type implements a multi-stage search algorithm that combines:
//   - Semantic search using vector embeddings over indexed entities
//   - Exact case-insensitive name lookup via the graph name index
//   - A fuzzy name-similarity boost based on edit distance
//
// Entities appearing in both the semantic and name result sets score
// highest; results are ranked and truncated to the requested hit count.
// The Searcher also owns the indexing side: IndexEntities embeds entity
// descriptions and writes them to the vector index.
package search
