// Package validator checks submission documents against the structure of
// the NCBI submission schema and the BioSample package subset this tool
// generates.
package validator

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/nishad/biosubmit/internal/xmldoc"
)

// Validator validates submission XML documents
type Validator struct {
	config ValidationConfig
}

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	ValidateEnumerations bool
	ValidateRequired     bool
	StrictMode           bool
}

// NewValidator creates a new validator
func NewValidator(config ValidationConfig) *Validator {
	return &Validator{
		config: config,
	}
}

// DefaultValidator creates a validator with default settings
func DefaultValidator() *Validator {
	return &Validator{
		config: ValidationConfig{
			ValidateEnumerations: true,
			ValidateRequired:     true,
			StrictMode:           false,
		},
	}
}

// ValidationResult contains validation results
type ValidationResult struct {
	IsValid  bool                `json:"is_valid"`
	DocType  string              `json:"doc_type"`
	Errors   []ValidationError   `json:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty"`
	Stats    ValidationStats     `json:"stats"`
}

// ValidationError represents a validation error
type ValidationError struct {
	Type    string `json:"type"`
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationWarning represents a validation warning
type ValidationWarning struct {
	Type    string `json:"type"`
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationStats contains validation statistics
type ValidationStats struct {
	ElementsValidated int `json:"elements_validated"`
	AttributesChecked int `json:"attributes_checked"`
}

func (e ValidationError) String() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Type, e.Path, e.Message)
}

// Summary returns a one-line description of the result
func (r *ValidationResult) Summary() string {
	status := "valid"
	if !r.IsValid {
		status = "invalid"
	}
	return fmt.Sprintf("%s document is %s (%d errors, %d warnings, %d elements)",
		r.DocType, status, len(r.Errors), len(r.Warnings), r.Stats.ElementsValidated)
}

// Validate checks a document tree whose root element must be named root.
// Strict mode reports unknown elements, attributes and stray text as errors
// instead of warnings.
func (v *Validator) Validate(root string, doc *xmldoc.Element, strict bool) (*ValidationResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("no document to validate")
	}

	result := &ValidationResult{
		IsValid:  true,
		DocType:  doc.Name,
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}

	if doc.Name != root {
		result.Errors = append(result.Errors, ValidationError{
			Type:    "ROOT_MISMATCH",
			Path:    doc.Name,
			Message: fmt.Sprintf("expected root element %s, got %s", root, doc.Name),
		})
	}

	w := &walker{config: v.config, strict: strict || v.config.StrictMode, result: result}
	w.element("", "", doc)

	result.IsValid = len(result.Errors) == 0
	return result, nil
}

// ValidateXML validates a serialized document
func (v *Validator) ValidateXML(xmlData []byte) (*ValidationResult, error) {
	doc, err := xmldoc.Decode(bytes.NewReader(xmlData))
	if err != nil {
		return &ValidationResult{
			IsValid: false,
			DocType: "unknown",
			Errors: []ValidationError{{
				Type:    "XML_PARSE_ERROR",
				Message: fmt.Sprintf("XML parsing error: %v", err),
			}},
		}, nil
	}
	return v.Validate(doc.Name, doc, v.config.StrictMode)
}

type walker struct {
	config ValidationConfig
	strict bool
	result *ValidationResult
}

func (w *walker) fail(typ, path, field, format string, args ...interface{}) {
	w.result.Errors = append(w.result.Errors, ValidationError{
		Type:    typ,
		Path:    path,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (w *walker) warn(typ, path, field, format string, args ...interface{}) {
	w.result.Warnings = append(w.result.Warnings, ValidationWarning{
		Type:    typ,
		Path:    path,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// unknown reports an element or attribute the rules do not describe
func (w *walker) unknown(typ, path, field, format string, args ...interface{}) {
	if w.strict {
		w.fail(typ, path, field, format, args...)
		return
	}
	w.warn(typ, path, field, format, args...)
}

func (w *walker) element(parentPath, parent string, el *xmldoc.Element) {
	path := el.Name
	if parentPath != "" {
		path = parentPath + "/" + el.Name
	}

	rule, ok := lookupRule(parent, el.Name)
	if !ok {
		w.unknown("UNKNOWN_ELEMENT", path, el.Name, "element %s is not allowed here", el.Name)
		return
	}
	w.result.Stats.ElementsValidated++

	w.attributes(path, el, rule)
	w.text(path, el, rule)

	if rule.anyContent {
		for _, c := range el.Children {
			if contentRoots[c.Name] {
				w.element(path, "", c)
				continue
			}
			w.warn("UNVALIDATED_CONTENT", path+"/"+c.Name, c.Name, "no rules for embedded %s content", c.Name)
		}
		return
	}

	w.children(path, el, rule)
}

func (w *walker) attributes(path string, el *xmldoc.Element, rule elementRule) {
	for _, a := range el.Attrs {
		w.result.Stats.AttributesChecked++

		if strings.HasPrefix(a.Name, "xmlns") {
			continue
		}
		ar, ok := rule.attrs[a.Name]
		if !ok {
			w.unknown("UNKNOWN_ATTRIBUTE", path, a.Name, "attribute %s is not allowed on %s", a.Name, el.Name)
			continue
		}
		if a.Value == "" {
			if ar.required {
				continue // reported below
			}
			w.warn("EMPTY_ATTRIBUTE", path, a.Name, "attribute %s is empty", a.Name)
			continue
		}
		if w.config.ValidateEnumerations && len(ar.enum) > 0 && !contains(ar.enum, a.Value) {
			w.fail("INVALID_ENUMERATION", path, a.Name, "%s %q must be one of %s",
				a.Name, a.Value, strings.Join(ar.enum, ", "))
		}
		if ar.format != nil {
			if err := ar.format(a.Value); err != nil {
				w.fail("INVALID_FORMAT", path, a.Name, "%s: %v", a.Name, err)
			}
		}
	}

	if !w.config.ValidateRequired {
		return
	}
	required := make([]string, 0, len(rule.attrs))
	for name, ar := range rule.attrs {
		if ar.required {
			required = append(required, name)
		}
	}
	sort.Strings(required)
	for _, name := range required {
		if v, ok := el.Attr(name); !ok || v == "" {
			w.fail("MISSING_REQUIRED_ATTRIBUTE", path, name, "%s requires attribute %s", el.Name, name)
		}
	}
}

func (w *walker) text(path string, el *xmldoc.Element, rule elementRule) {
	hasText := strings.TrimSpace(el.Text) != ""
	switch rule.text {
	case textRequired:
		if !hasText && w.config.ValidateRequired {
			w.fail("MISSING_REQUIRED_VALUE", path, el.Name, "%s must not be empty", el.Name)
		}
	case textNone:
		if hasText {
			w.unknown("UNEXPECTED_TEXT", path, el.Name, "%s does not take text content", el.Name)
		}
	}
}

func (w *walker) children(path string, el *xmldoc.Element, rule elementRule) {
	counts := make(map[string]int, len(el.Children))
	last := -1

	for _, c := range el.Children {
		idx, _, ok := rule.child(c.Name)
		if !ok {
			w.unknown("UNKNOWN_ELEMENT", path+"/"+c.Name, c.Name, "element %s is not allowed in %s", c.Name, el.Name)
			continue
		}
		counts[c.Name]++
		if idx < last {
			w.fail("ELEMENT_OUT_OF_ORDER", path+"/"+c.Name, c.Name, "%s appears after %s", c.Name, rule.children[last].name)
		} else {
			last = idx
		}
		w.element(path, el.Name, c)
	}

	for _, cr := range rule.children {
		n := counts[cr.name]
		if n < cr.min && w.config.ValidateRequired {
			w.fail("MISSING_REQUIRED_ELEMENT", path, cr.name, "%s requires at least %d %s element(s), found %d",
				el.Name, cr.min, cr.name, n)
		}
		if cr.max != unbounded && n > cr.max {
			w.fail("TOO_MANY_ELEMENTS", path, cr.name, "%s allows at most %d %s element(s), found %d",
				el.Name, cr.max, cr.name, n)
		}
	}
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
