package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/nishad/biosubmit/internal/config"
	"github.com/nishad/biosubmit/internal/dataset"
	"github.com/nishad/biosubmit/internal/history"
	"github.com/nishad/biosubmit/internal/search"
)

// SampleTSV is a two sample table with a template comment and a blank row.
const SampleTSV = "# template comment\n" +
	"sample_name\torganism\ttissue\n" +
	"S1\tHomo sapiens\tblood\n" +
	"\n" +
	"S2\tHomo sapiens\tliver\n"

// Config returns the default configuration with a complete organization
// block, enough for a document that passes validation.
func Config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Organization = config.OrganizationConfig{
		Name:           "Example Lab",
		Type:           "institute",
		Contact:        config.ContactConfig{Email: "lab@example.org"},
		SPUIDNamespace: "LAB",
		SPUID:          "batch-1",
	}
	return cfg
}

// SaveConfig writes cfg to dir/config.yaml with the debug log, history and
// search index redirected into dir, and returns the file path.
func SaveConfig(t *testing.T, dir string, cfg *config.Config) string {
	t.Helper()
	cfg.Logging.File = filepath.Join(dir, "logs", "debug.log")
	cfg.History.Path = filepath.Join(dir, "history.db")
	cfg.Search.Path = filepath.Join(dir, "samples.bleve")

	path := filepath.Join(dir, "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	return path
}

// Dataset parses tsv or fails the test.
func Dataset(t *testing.T, tsv string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(strings.NewReader(tsv))
	if err != nil {
		t.Fatalf("failed to load dataset: %v", err)
	}
	return ds
}

// HistoryStore opens a history store in a temporary directory that is
// closed when the test ends.
func HistoryStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// SearchIndex creates an in-memory sample index closed when the test ends.
func SearchIndex(t *testing.T) *search.Index {
	t.Helper()
	idx, err := search.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open search index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}
