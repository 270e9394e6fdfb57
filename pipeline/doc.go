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


// Package pipeline executes document processing as an ordered sequence of
// stages. A Pipeline runs its stages strictly in order against a shared
// Context; each stage records a StageResult, and the first failure stops
// the run. Errors and panics never escape a stage: the runner converts
// them into failed results so the Context and the Document always tell a
// complete story.
//
// Pipelines are built by a Factory, which composes fresh stage instances
// per build. Stage collaborators (decoders, AI services, graph storage)
// are injected at construction, never reached through globals.
package pipeline
