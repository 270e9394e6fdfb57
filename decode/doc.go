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


// Package decode turns raw source files into uniform records.
//
// Each supported format has a Decoder that reads the file once and emits
// a slice of core.Record values plus decoder metadata. Tabular formats
// produce one record per row, object formats one record per object, and
// free-text formats a single record holding the text under "content".
// Decoders never return a nil record slice; an empty file decodes to zero
// records.
//
// The Registry maps formats to decoders and is the single place where the
// supported-format set is defined. Callers that need to reject a file
// before any work happens ask the registry first.
package decode
