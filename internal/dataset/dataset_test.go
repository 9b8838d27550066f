package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nishad/biosubmit/internal/errors"
)

func TestValue(t *testing.T) {
	ds := &Dataset{Metadata: Metadata{ColumnIndexMap: map[string]int{"sample_name": 0, "age": 2}}}
	values := []string{"S1", "x", "42"}

	tests := []struct {
		field string
		want  string
		found bool
	}{
		{"sample_name", "S1", true}, // index 0 must resolve
		{"age", "42", true},
		{"missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := ds.Value(values, tt.field)
			if got != tt.want || ok != tt.found {
				t.Errorf("Value(%q) = (%q, %v), want (%q, %v)", tt.field, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestValueEmptyStringIsPresent(t *testing.T) {
	ds := New([]string{"sample_name", "note"}, nil)

	got, ok := ds.Value([]string{"S1", ""}, "note")
	if !ok {
		t.Error("an empty cell should still be reported as present")
	}
	if got != "" {
		t.Errorf("expected empty value, got %q", got)
	}
}

func TestValueShortRow(t *testing.T) {
	ds := New([]string{"sample_name", "organism", "age"}, nil)

	if got, ok := ds.Value([]string{"S1"}, "age"); ok {
		t.Errorf("expected missing value for short row, got %q", got)
	}
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"A\tfoo", []string{"A", "foo"}},
		{"A\tfoo\r", []string{"A", "foo"}},
		{"A\t\tbar", []string{"A", "", "bar"}},
		{"single", []string{"single"}},
	}

	for _, tt := range tests {
		if got := SplitRow(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitRow(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestRecordAndLookup(t *testing.T) {
	ds := New([]string{"sample_name", "organism"}, nil)
	ds.Record("A", "A\tHomo sapiens\r")

	values, ok := ds.Lookup("A")
	if !ok {
		t.Fatal("expected recorded row to be found")
	}
	if got, _ := ds.Value(values, "organism"); got != "Homo sapiens" {
		t.Errorf("expected organism from recorded row, got %q", got)
	}
	if _, ok := ds.Lookup("B"); ok {
		t.Error("expected unknown sample to be missing")
	}

	var zero Dataset
	zero.Record("X", "X")
	if zero.Metadata.DataMap["X"] != "X" {
		t.Error("Record should initialise a nil data map")
	}
}

func TestColumns(t *testing.T) {
	ds := New([]string{"sample_name", "", "organism"}, nil)

	want := []string{"sample_name", "", "organism"}
	if got := ds.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
	if _, ok := ds.Metadata.ColumnIndexMap[""]; ok {
		t.Error("unnamed column should not be addressable")
	}
}

func TestLoad(t *testing.T) {
	input := "# BioSample template\n" +
		"# comment line\n" +
		"*sample_name\tsample_title\t*organism\r\n" +
		"S1\tFirst\tHomo sapiens\r\n" +
		"\n" +
		"S2\tSecond\tMus musculus\n"

	ds, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	wantIndex := map[string]int{"sample_name": 0, "sample_title": 1, "organism": 2}
	if !reflect.DeepEqual(ds.Metadata.ColumnIndexMap, wantIndex) {
		t.Errorf("ColumnIndexMap = %v, want %v", ds.Metadata.ColumnIndexMap, wantIndex)
	}
	if len(ds.Rows) != 3 {
		t.Fatalf("expected 3 rows including the blank one, got %d", len(ds.Rows))
	}
	if ds.Rows[1] != "" {
		t.Errorf("expected blank row to be kept, got %q", ds.Rows[1])
	}
	if len(ds.Metadata.DataMap) != 0 {
		t.Error("data map should start empty")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"only comments", "# a\n# b\n"},
		{"duplicate column", "sample_name\torganism\t*sample_name\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsKind(err, errors.KindParse) {
				t.Errorf("expected parse error, got %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "samples.tsv")
	if err := os.WriteFile(path, []byte("sample_name\norganism_a\n"), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	ds, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(ds.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(ds.Rows))
	}

	_, err = LoadFile(filepath.Join(dir, "missing.tsv"))
	if !errors.IsKind(err, errors.KindIO) {
		t.Errorf("expected io error for missing file, got %v", err)
	}
}
