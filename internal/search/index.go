// Package search keeps a full-text index of submitted samples so earlier
// submissions can be found by sample name, organism or any attribute value.
package search

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/nishad/biosubmit/internal/errors"
)

// Index wraps a Bleve index of SampleDoc documents
type Index struct {
	index bleve.Index
	path  string
}

// lockTimeout bounds the wait for an index held by another process
const lockTimeout = "2s"

// Open opens the index at path, creating it when it does not exist
func Open(path string) (*Index, error) {
	const op errors.Op = "search.Open"

	index, err := bleve.OpenUsing(path, map[string]interface{}{"bolt_timeout": lockTimeout})
	if err == bleve.ErrorIndexPathDoesNotExist {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.E(op, errors.KindIO, err, "failed to create index directory")
		}
		index, err = bleve.New(path, sampleMapping())
		if err != nil {
			return nil, errors.E(op, errors.KindStorage, err, "failed to create index")
		}
	} else if err != nil {
		return nil, errors.E(op, errors.KindStorage, err, "failed to open index")
	}

	return &Index{index: index, path: path}, nil
}

// OpenMemory creates an index that lives only in memory
func OpenMemory() (*Index, error) {
	index, err := bleve.NewMemOnly(sampleMapping())
	if err != nil {
		return nil, errors.E(errors.Op("search.OpenMemory"), errors.KindStorage, err)
	}
	return &Index{index: index}, nil
}

func sampleMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "standard"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("type", keywordField(false))
	docMapping.AddFieldMappingsAt("submission_id", keywordField(false))
	docMapping.AddFieldMappingsAt("input_file", keywordField(true))
	docMapping.AddFieldMappingsAt("sample_name", textField())
	docMapping.AddFieldMappingsAt("organism", textField())
	docMapping.AddFieldMappingsAt("title", textField())
	docMapping.AddFieldMappingsAt("attributes", textField())

	position := bleve.NewNumericFieldMapping()
	position.Store = true
	position.IncludeInAll = false
	docMapping.AddFieldMappingsAt("position", position)

	created := bleve.NewDateTimeFieldMapping()
	created.Store = true
	created.IncludeInAll = false
	docMapping.AddFieldMappingsAt("created_at", created)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func keywordField(includeInAll bool) *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Analyzer = "keyword"
	fm.Store = true
	fm.IncludeInAll = includeInAll
	return fm
}

func textField() *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Analyzer = "standard"
	fm.Store = true
	fm.IncludeInAll = true
	return fm
}

// Path returns the on-disk location of the index, empty for memory indexes
func (x *Index) Path() string {
	return x.path
}

// IndexSamples adds the samples of one submission in a single batch
func (x *Index) IndexSamples(docs []SampleDoc) error {
	const op errors.Op = "search.IndexSamples"

	batch := x.index.NewBatch()
	for _, doc := range docs {
		doc.Type = "sample"
		if err := batch.Index(doc.ID(), doc); err != nil {
			return errors.E(op, errors.KindStorage, err, fmt.Sprintf("failed to add %s to batch", doc.ID()))
		}
	}
	if err := x.index.Batch(batch); err != nil {
		return errors.E(op, errors.KindStorage, err)
	}
	return nil
}

// Search runs a query string search, or a fuzzy search when opts.Fuzzy is
// set. An empty query matches every sample.
func (x *Index) Search(q string, opts Options) (*Result, error) {
	const op errors.Op = "search.Search"

	var searchQuery query.Query
	switch {
	case q == "":
		searchQuery = bleve.NewMatchAllQuery()
	case opts.Fuzzy:
		fuzzy := bleve.NewFuzzyQuery(q)
		fuzzy.Fuzziness = opts.Fuzziness
		if fuzzy.Fuzziness <= 0 {
			fuzzy.Fuzziness = 1
		}
		searchQuery = fuzzy
	default:
		searchQuery = bleve.NewQueryStringQuery(q)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(searchQuery, limit, opts.Offset, false)
	req.Fields = []string{"*"}
	req.AddFacet("input_file", bleve.NewFacetRequest("input_file", 10))

	sr, err := x.index.Search(req)
	if err != nil {
		return nil, errors.E(op, errors.KindParse, err, fmt.Sprintf("query %q", q))
	}

	result := &Result{
		Query:  q,
		Total:  int(sr.Total),
		Hits:   make([]Hit, 0, len(sr.Hits)),
		TimeMs: int64(sr.Took / time.Millisecond),
	}
	for _, hit := range sr.Hits {
		result.Hits = append(result.Hits, newHit(hit.ID, hit.Score, hit.Fields))
	}

	if len(sr.Facets) > 0 {
		result.Facets = make(map[string][]FacetValue)
		for name, facet := range sr.Facets {
			if facet.Terms == nil {
				continue
			}
			values := make([]FacetValue, 0)
			for _, term := range facet.Terms.Terms() {
				values = append(values, FacetValue{Value: term.Term, Count: term.Count})
			}
			result.Facets[name] = values
		}
	}

	return result, nil
}

// DocCount returns the number of indexed samples
func (x *Index) DocCount() (uint64, error) {
	return x.index.DocCount()
}

// Close closes the index
func (x *Index) Close() error {
	return x.index.Close()
}
