package core

import (
	"path/filepath"
	"strings"
	"time"
)

// SourceFormat identifies the encoding of an ingested file.
type SourceFormat string

const (
	FormatCSV  SourceFormat = "csv"
	FormatTSV  SourceFormat = "tsv"
	FormatJSON SourceFormat = "json"
	FormatXML  SourceFormat = "xml"
	FormatText SourceFormat = "txt"
	FormatMD   SourceFormat = "md"
	FormatHTML SourceFormat = "html"
)

// ParseSourceFormat normalizes a user-supplied format string. Leading dots
// and case are ignored. Unknown values are returned as-is: pipeline
// selection treats them as free text, while decoding rejects them before a
// document is created.
func ParseSourceFormat(s string) SourceFormat {
	return SourceFormat(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
}

// FormatFromPath derives the source format from a file extension.
func FormatFromPath(path string) SourceFormat {
	return ParseSourceFormat(filepath.Ext(path))
}

// DocumentStatus tracks where a document is in its processing lifecycle.
type DocumentStatus string

const (
	StatusPending             DocumentStatus = "pending"
	StatusParsing             DocumentStatus = "parsing"
	StatusExtractingEntities  DocumentStatus = "extracting_entities"
	StatusExtractingRelations DocumentStatus = "extracting_relations"
	StatusStoring             DocumentStatus = "storing"
	StatusValidating          DocumentStatus = "validating"
	StatusCompleted           DocumentStatus = "completed"
	StatusFailed              DocumentStatus = "failed"
)

// statusRank orders the non-terminal statuses so that a run can never move
// a document backwards. The nine-stage pipeline maps its storage stage to
// StatusStoring after validation has already advanced the document to
// StatusValidating; the lower-ranked update is dropped.
var statusRank = map[DocumentStatus]int{
	StatusPending:             0,
	StatusParsing:             1,
	StatusExtractingEntities:  2,
	StatusExtractingRelations: 3,
	StatusStoring:             4,
	StatusValidating:          5,
	StatusCompleted:           6,
	StatusFailed:              6,
}

// KnownStatus reports whether s is one of the defined lifecycle statuses.
func KnownStatus(s DocumentStatus) bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether the status ends the lifecycle.
func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Document tracks one ingestion job. A document is created pending, is
// advanced by exactly one pipeline run, and ends completed or failed.
// Terminal documents are never mutated; a retry is a new Document.
//
// ProcessedAt is the zero time until the document reaches a terminal
// status. Error is non-empty exactly when Status is StatusFailed.
type Document struct {
	Id                 string
	Filename           string
	Format             SourceFormat
	SizeBytes          int64
	Status             DocumentStatus
	Progress           float64
	EntitiesExtracted  int
	RelationsExtracted int
	Error              string
	UploadedAt         time.Time
	ProcessedAt        time.Time
	Metadata           map[string]string
}

// NewDocument creates a pending document for an uploaded file.
func NewDocument(filename string, format SourceFormat, sizeBytes int64) *Document {
	return &Document{
		Id:         NewDocumentID(),
		Filename:   filename,
		Format:     format,
		SizeBytes:  sizeBytes,
		Status:     StatusPending,
		UploadedAt: time.Now(),
	}
}

// UpdateStatus advances the document to a non-terminal status. Updates that
// would lower the status rank or leave a terminal state are ignored.
func (d *Document) UpdateStatus(status DocumentStatus) {
	if d.Status.Terminal() || status.Terminal() {
		return
	}
	if statusRank[status] < statusRank[d.Status] {
		return
	}
	d.Status = status
}

// SetProgress raises the completion percentage. Values are clamped to
// [0,100]; decreases and updates on terminal documents are ignored.
func (d *Document) SetProgress(progress float64) {
	if d.Status.Terminal() {
		return
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	if progress < d.Progress {
		return
	}
	d.Progress = progress
}

// MarkCompleted ends the lifecycle successfully and records the final
// extraction counts.
func (d *Document) MarkCompleted(entities, relations int) {
	if d.Status.Terminal() {
		return
	}
	d.Status = StatusCompleted
	d.Progress = 100
	d.EntitiesExtracted = entities
	d.RelationsExtracted = relations
	d.ProcessedAt = time.Now()
}

// MarkFailed ends the lifecycle with an error message. Progress keeps its
// last value.
func (d *Document) MarkFailed(msg string) {
	if d.Status.Terminal() {
		return
	}
	d.Status = StatusFailed
	d.Error = msg
	d.ProcessedAt = time.Now()
}

// Terminal reports whether the document has finished processing.
func (d *Document) Terminal() bool {
	return d.Status.Terminal()
}
