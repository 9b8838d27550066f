package testutil

import (
	"sync"

	"github.com/nishad/biosubmit/internal/validator"
	"github.com/nishad/biosubmit/internal/xmldoc"
)

// StubValidator records Validate calls and returns a fixed verdict.
type StubValidator struct {
	mu     sync.Mutex
	calls  int
	root   string
	strict bool

	// Configurable return values
	Valid bool
	Err   error
}

// Validate records the call and reports Valid. An invalid verdict carries a
// single STUB error.
func (s *StubValidator) Validate(root string, doc *xmldoc.Element, strict bool) (*validator.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.root = root
	s.strict = strict
	if s.Err != nil {
		return nil, s.Err
	}

	r := &validator.ValidationResult{IsValid: s.Valid}
	if doc != nil {
		r.DocType = doc.Name
	}
	if !s.Valid {
		r.Errors = []validator.ValidationError{{Type: "STUB", Message: "rejected"}}
	}
	return r, nil
}

// Calls returns the number of Validate calls.
func (s *StubValidator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LastCall returns the root element name and strict flag of the latest call.
func (s *StubValidator) LastCall() (root string, strict bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root, s.strict
}
