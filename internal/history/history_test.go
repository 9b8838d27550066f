package history

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nishad/biosubmit/internal/errors"
)

// Helper to create a temporary ledger
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen(t *testing.T) {
	store := setupTestStore(t)
	if store.Path() == "" {
		t.Error("expected path to be kept")
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestRecordAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e := &Entry{
		InputFile:   "samples.tsv",
		OutputFile:  "samples.xml",
		Action:      "AddData",
		Comment:     "first batch",
		Hold:        "2030-01-31",
		Status:      StatusValid,
		SampleCount: 2,
		Samples:     []string{"S2", "S1"},
	}
	if err := store.Record(ctx, e); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if e.ID == "" {
		t.Fatal("expected an ID to be assigned")
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("expected a timestamp to be assigned")
	}

	got, err := store.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.InputFile != e.InputFile || got.OutputFile != e.OutputFile || got.Comment != e.Comment {
		t.Errorf("unexpected entry %+v", got)
	}
	if got.Status != StatusValid || got.SampleCount != 2 || got.Hold != "2030-01-31" {
		t.Errorf("unexpected entry %+v", got)
	}
	if len(got.Samples) != 2 || got.Samples[0] != "S2" || got.Samples[1] != "S1" {
		t.Errorf("expected samples in recorded order, got %v", got.Samples)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("timestamp changed: %v != %v", got.CreatedAt, e.CreatedAt)
	}
}

func TestGetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	if !stderrors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if !errors.IsKind(err, errors.KindStorage) {
		t.Errorf("expected storage kind, got %v", errors.GetKind(err))
	}
}

func TestListNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.tsv", "b.tsv", "c.tsv"} {
		e := &Entry{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			InputFile: name,
			Action:    "AddData",
			Status:    StatusInvalid,
		}
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{limit: 0, want: []string{"c.tsv", "b.tsv", "a.tsv"}},
		{limit: 2, want: []string{"c.tsv", "b.tsv"}},
	}
	for _, tt := range tests {
		entries, err := store.List(ctx, tt.limit)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(entries) != len(tt.want) {
			t.Fatalf("limit %d: expected %d entries, got %d", tt.limit, len(tt.want), len(entries))
		}
		for i, w := range tt.want {
			if entries[i].InputFile != w {
				t.Errorf("limit %d: entry %d expected %s, got %s", tt.limit, i, w, entries[i].InputFile)
			}
			if entries[i].Samples != nil {
				t.Error("List should not load sample names")
			}
		}
	}
}

func TestRecordDuplicateID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e := &Entry{ID: "fixed", InputFile: "a.tsv", Action: "AddData", Status: StatusValid}
	if err := store.Record(ctx, e); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	dup := &Entry{ID: "fixed", InputFile: "b.tsv", Action: "AddData", Status: StatusValid}
	if err := store.Record(ctx, dup); err == nil {
		t.Error("expected error for duplicate id")
	}
}
