package core

import (
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("movies.csv", FormatCSV, 2048)

	if doc.Id == "" {
		t.Error("document has no ID")
	}
	if doc.Status != StatusPending {
		t.Errorf("new document status = %q, want %q", doc.Status, StatusPending)
	}
	if doc.Progress != 0 {
		t.Errorf("new document progress = %v, want 0", doc.Progress)
	}
	if doc.UploadedAt.IsZero() {
		t.Error("UploadedAt not set")
	}
	if !doc.ProcessedAt.IsZero() {
		t.Error("ProcessedAt set before processing")
	}
}

func TestUpdateStatusMonotonic(t *testing.T) {
	doc := NewDocument("a.txt", FormatText, 1)

	doc.UpdateStatus(StatusParsing)
	doc.UpdateStatus(StatusExtractingEntities)
	doc.UpdateStatus(StatusExtractingRelations)
	doc.UpdateStatus(StatusStoring)
	doc.UpdateStatus(StatusValidating)
	if doc.Status != StatusValidating {
		t.Fatalf("status = %q, want %q", doc.Status, StatusValidating)
	}

	// The storage stage reports StatusStoring after validation already ran.
	doc.UpdateStatus(StatusStoring)
	if doc.Status != StatusValidating {
		t.Errorf("status regressed to %q", doc.Status)
	}

	doc.UpdateStatus(StatusParsing)
	if doc.Status != StatusValidating {
		t.Errorf("status regressed to %q", doc.Status)
	}
}

func TestUpdateStatusIgnoresTerminalTargets(t *testing.T) {
	doc := NewDocument("a.txt", FormatText, 1)

	doc.UpdateStatus(StatusCompleted)
	if doc.Status != StatusPending {
		t.Errorf("UpdateStatus applied a terminal status: %q", doc.Status)
	}
	doc.UpdateStatus(StatusFailed)
	if doc.Status != StatusPending {
		t.Errorf("UpdateStatus applied a terminal status: %q", doc.Status)
	}
}

func TestSetProgress(t *testing.T) {
	doc := NewDocument("a.txt", FormatText, 1)

	doc.SetProgress(40)
	if doc.Progress != 40 {
		t.Fatalf("progress = %v, want 40", doc.Progress)
	}

	doc.SetProgress(20)
	if doc.Progress != 40 {
		t.Errorf("progress decreased to %v", doc.Progress)
	}

	doc.SetProgress(150)
	if doc.Progress != 100 {
		t.Errorf("progress = %v, want clamp to 100", doc.Progress)
	}

	doc.SetProgress(-5)
	if doc.Progress != 100 {
		t.Errorf("progress = %v after negative update", doc.Progress)
	}
}

func TestMarkCompleted(t *testing.T) {
	doc := NewDocument("a.csv", FormatCSV, 1)
	doc.UpdateStatus(StatusParsing)
	doc.SetProgress(60)

	doc.MarkCompleted(5, 3)

	if doc.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", doc.Status, StatusCompleted)
	}
	if doc.Progress != 100 {
		t.Errorf("progress = %v, want 100", doc.Progress)
	}
	if doc.EntitiesExtracted != 5 || doc.RelationsExtracted != 3 {
		t.Errorf("counts = %d/%d, want 5/3", doc.EntitiesExtracted, doc.RelationsExtracted)
	}
	if doc.ProcessedAt.IsZero() {
		t.Error("ProcessedAt not set")
	}
	if doc.Error != "" {
		t.Errorf("completed document carries error %q", doc.Error)
	}
}

func TestMarkFailed(t *testing.T) {
	doc := NewDocument("a.csv", FormatCSV, 1)
	doc.UpdateStatus(StatusParsing)
	doc.SetProgress(30)

	doc.MarkFailed("decode failed: bad header")

	if doc.Status != StatusFailed {
		t.Errorf("status = %q, want %q", doc.Status, StatusFailed)
	}
	if doc.Error != "decode failed: bad header" {
		t.Errorf("error = %q", doc.Error)
	}
	if doc.Progress != 30 {
		t.Errorf("failure changed progress to %v", doc.Progress)
	}
	if doc.ProcessedAt.IsZero() {
		t.Error("ProcessedAt not set")
	}
}

func TestTerminalDocumentIsImmutable(t *testing.T) {
	doc := NewDocument("a.csv", FormatCSV, 1)
	doc.MarkCompleted(2, 1)
	processedAt := doc.ProcessedAt

	doc.UpdateStatus(StatusParsing)
	doc.SetProgress(10)
	doc.MarkFailed("late failure")
	doc.MarkCompleted(9, 9)

	if doc.Status != StatusCompleted {
		t.Errorf("terminal status changed to %q", doc.Status)
	}
	if doc.Error != "" {
		t.Errorf("terminal document gained error %q", doc.Error)
	}
	if doc.EntitiesExtracted != 2 || doc.RelationsExtracted != 1 {
		t.Errorf("terminal counts changed to %d/%d", doc.EntitiesExtracted, doc.RelationsExtracted)
	}
	if !doc.ProcessedAt.Equal(processedAt) {
		t.Error("ProcessedAt changed after terminal state")
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []DocumentStatus{StatusPending, StatusParsing, StatusExtractingEntities, StatusExtractingRelations, StatusStoring, StatusValidating} {
		if s.Terminal() {
			t.Errorf("%q reported terminal", s)
		}
	}
	for _, s := range []DocumentStatus{StatusCompleted, StatusFailed} {
		if !s.Terminal() {
			t.Errorf("%q reported non-terminal", s)
		}
	}
}
