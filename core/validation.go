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

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - Status must be one of the defined lifecycle statuses
//
// NOT validated (populated during processing):
//   - Progress (the lifecycle methods clamp it)
//   - Error (set only by MarkFailed)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilename)
	}

	if !KnownStatus(doc.Status) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidDocument, ErrUnknownStatus, doc.Status)
	}

	return nil
}

// ValidateEntity validates an Entity according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Confidence must be within [0,1]
//
// NOT validated (populated downstream):
//   - ID (0 is valid until storage derives the content ID)
//   - Type (parsing already mapped unknown labels to EntityGeneric)
func ValidateEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}

	if entity.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyEntityName)
	}

	if entity.Confidence < 0 || entity.Confidence > 1 {
		return fmt.Errorf("%w: %w: %v", ErrInvalidEntity, ErrConfidenceRange, entity.Confidence)
	}

	return nil
}

// ValidateRelation validates a Relation according to domain rules.
//
// Validation rules:
//   - FromEntity and ToEntity must not be empty
//   - Confidence must be within [0,1]
func ValidateRelation(relation *Relation) error {
	if relation == nil {
		return fmt.Errorf("%w: relation is nil", ErrInvalidRelation)
	}

	if relation.FromEntity == "" || relation.ToEntity == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRelation, ErrEmptyEndpoint)
	}

	if relation.Confidence < 0 || relation.Confidence > 1 {
		return fmt.Errorf("%w: %w: %v", ErrInvalidRelation, ErrConfidenceRange, relation.Confidence)
	}

	return nil
}
