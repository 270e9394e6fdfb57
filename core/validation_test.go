package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "valid document",
			doc:     NewDocument("movies.csv", FormatCSV, 100),
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "empty filename",
			doc:     &Document{Id: NewDocumentID(), Status: StatusPending},
			wantErr: ErrEmptyFilename,
		},
		{
			name:    "unknown status",
			doc:     &Document{Id: NewDocumentID(), Filename: "a.csv", Status: DocumentStatus("paused")},
			wantErr: ErrUnknownStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("error %v does not wrap ErrInvalidDocument", err)
			}
		})
	}
}

func TestValidateEntity(t *testing.T) {
	tests := []struct {
		name    string
		entity  *Entity
		wantErr error
	}{
		{
			name:    "valid entity",
			entity:  &Entity{Type: EntityPerson, Name: "Tom Hanks", Confidence: 0.9},
			wantErr: nil,
		},
		{
			name:    "valid entity with zero ID",
			entity:  &Entity{Id: 0, Type: EntityMovie, Name: "Big", Confidence: 1},
			wantErr: nil,
		},
		{
			name:    "nil entity",
			entity:  nil,
			wantErr: ErrInvalidEntity,
		},
		{
			name:    "empty name",
			entity:  &Entity{Type: EntityPerson, Confidence: 0.5},
			wantErr: ErrEmptyEntityName,
		},
		{
			name:    "confidence above range",
			entity:  &Entity{Type: EntityPerson, Name: "Ada", Confidence: 1.2},
			wantErr: ErrConfidenceRange,
		},
		{
			name:    "confidence below range",
			entity:  &Entity{Type: EntityPerson, Name: "Ada", Confidence: -0.1},
			wantErr: ErrConfidenceRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntity(tt.entity)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEntity() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEntity() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelation(t *testing.T) {
	tests := []struct {
		name     string
		relation *Relation
		wantErr  error
	}{
		{
			name:     "valid relation",
			relation: &Relation{Type: RelationActedIn, FromEntity: "Tom Hanks", ToEntity: "Big", Confidence: 0.8},
			wantErr:  nil,
		},
		{
			name:     "nil relation",
			relation: nil,
			wantErr:  ErrInvalidRelation,
		},
		{
			name:     "empty from endpoint",
			relation: &Relation{Type: RelationKnows, ToEntity: "Bob", Confidence: 0.5},
			wantErr:  ErrEmptyEndpoint,
		},
		{
			name:     "empty to endpoint",
			relation: &Relation{Type: RelationKnows, FromEntity: "Alice", Confidence: 0.5},
			wantErr:  ErrEmptyEndpoint,
		},
		{
			name:     "confidence out of range",
			relation: &Relation{Type: RelationKnows, FromEntity: "Alice", ToEntity: "Bob", Confidence: 2},
			wantErr:  ErrConfidenceRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelation(tt.relation)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRelation() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRelation() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
