package service

import (
	"strings"

	"github.com/nishad/biosubmit/internal/biosample"
	"github.com/nishad/biosubmit/internal/dataset"
	"github.com/nishad/biosubmit/internal/history"
	"github.com/nishad/biosubmit/internal/search"
)

// indexSamples adds the rows of a recorded run to the search index. Runs
// without a history ID are not indexed since hits could not be resolved.
func (s *SubmissionService) indexSamples(ds *dataset.Dataset, entry *history.Entry) {
	if s.index == nil || entry.ID == "" {
		return
	}
	docs := sampleDocs(ds, entry)
	if len(docs) == 0 {
		return
	}
	if err := s.index.IndexSamples(docs); err != nil {
		s.logger.Warn("failed to index samples", "id", entry.ID, "error", err)
		return
	}
	s.logger.Debug("indexed samples", "id", entry.ID, "count", len(docs))
}

// sampleDocs builds one document per named row. Positions follow the order
// of entry.Samples.
func sampleDocs(ds *dataset.Dataset, entry *history.Entry) []search.SampleDoc {
	named := map[string]bool{
		dataset.SampleNameField:     true,
		biosample.ColumnOrganism:    true,
		biosample.ColumnSampleTitle: true,
	}

	var docs []search.SampleDoc
	for _, raw := range ds.Rows {
		if raw == "" {
			continue
		}
		values := dataset.SplitRow(raw)
		name, ok := ds.Value(values, dataset.SampleNameField)
		if !ok || name == "" {
			continue
		}

		var attrs []string
		for _, col := range ds.Columns() {
			if col == "" || named[col] {
				continue
			}
			if v, ok := ds.Value(values, col); ok && strings.TrimSpace(v) != "" {
				attrs = append(attrs, v)
			}
		}

		organism, _ := ds.Value(values, biosample.ColumnOrganism)
		title, _ := ds.Value(values, biosample.ColumnSampleTitle)
		docs = append(docs, search.SampleDoc{
			SubmissionID: entry.ID,
			InputFile:    entry.InputFile,
			Position:     len(docs) + 1,
			SampleName:   name,
			Organism:     organism,
			Title:        title,
			Attributes:   strings.Join(attrs, " "),
			CreatedAt:    entry.CreatedAt,
		})
	}
	return docs
}
