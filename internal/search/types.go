package search

import (
	"fmt"
	"time"
)

// DefaultLimit is the page size used when Options.Limit is not set
const DefaultLimit = 20

// SampleDoc is the indexed form of one submitted sample row
type SampleDoc struct {
	Type         string    `json:"type"`
	SubmissionID string    `json:"submission_id"`
	InputFile    string    `json:"input_file"`
	Position     int       `json:"position"`
	SampleName   string    `json:"sample_name"`
	Organism     string    `json:"organism"`
	Title        string    `json:"title"`
	Attributes   string    `json:"attributes"` // Remaining column values, space separated
	CreatedAt    time.Time `json:"created_at"`
}

// ID is the document identifier, unique per submission row
func (d SampleDoc) ID() string {
	return fmt.Sprintf("%s/%d", d.SubmissionID, d.Position)
}

// Options contains search parameters
type Options struct {
	Limit     int
	Offset    int
	Fuzzy     bool
	Fuzziness int
}

// Result holds one page of matching samples
type Result struct {
	Query  string                  `json:"query"`
	Total  int                     `json:"total"`
	Hits   []Hit                   `json:"hits"`
	Facets map[string][]FacetValue `json:"facets,omitempty"`
	TimeMs int64                   `json:"time_ms"`
}

// Hit is a single matching sample
type Hit struct {
	ID           string  `json:"id"`
	Score        float64 `json:"score"`
	SubmissionID string  `json:"submission_id"`
	InputFile    string  `json:"input_file"`
	SampleName   string  `json:"sample_name"`
	Organism     string  `json:"organism,omitempty"`
	Title        string  `json:"title,omitempty"`
}

// FacetValue represents a facet value and count
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func newHit(id string, score float64, fields map[string]interface{}) Hit {
	str := func(name string) string {
		s, _ := fields[name].(string)
		return s
	}
	return Hit{
		ID:           id,
		Score:        score,
		SubmissionID: str("submission_id"),
		InputFile:    str("input_file"),
		SampleName:   str("sample_name"),
		Organism:     str("organism"),
		Title:        str("title"),
	}
}
