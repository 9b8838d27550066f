package validator

import (
	"strings"
	"testing"

	"github.com/nishad/biosubmit/internal/xmldoc"
)

func TestNewValidator(t *testing.T) {
	v := NewValidator(ValidationConfig{
		ValidateEnumerations: true,
		ValidateRequired:     true,
		StrictMode:           true,
	})

	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
	if !v.config.StrictMode {
		t.Error("expected StrictMode to be kept")
	}
}

func TestDefaultValidator(t *testing.T) {
	v := DefaultValidator()
	if v == nil {
		t.Fatal("DefaultValidator returned nil")
	}
	if !v.config.ValidateEnumerations {
		t.Error("expected ValidateEnumerations to be true")
	}
	if !v.config.ValidateRequired {
		t.Error("expected ValidateRequired to be true")
	}
	if v.config.StrictMode {
		t.Error("expected StrictMode to be false")
	}
}

func bioSample(name string) *xmldoc.Element {
	return xmldoc.New("BioSample").SetAttr("schema_version", "2.0").Append(
		xmldoc.New("SampleId").Append(
			xmldoc.NewText("SPUID", name).SetAttr("spuid_namespace", "LAB"),
		),
		xmldoc.New("Descriptor").AppendText("Title", "Sample "+name),
		xmldoc.New("Organism").AppendText("OrganismName", "Homo sapiens"),
		xmldoc.NewText("Package", "Generic.1.0"),
		xmldoc.New("Attributes").Append(
			xmldoc.NewText("Attribute", "blood").SetAttr("attribute_name", "tissue"),
		),
	)
}

func validSubmission() *xmldoc.Element {
	return xmldoc.New("Submission").
		SetAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance").
		SetAttr("xsi:noNamespaceSchemaLocation", "http://www.ncbi.nlm.nih.gov/viewvc/v1/trunk/submit/public-docs/common/submission.xsd").
		SetAttr("schema_version", "2.0").
		Append(
			xmldoc.New("Description").Append(
				xmldoc.NewText("Comment", "test run"),
				xmldoc.New("Organization").SetAttr("type", "institute").Append(
					xmldoc.NewText("Name", "Example Lab"),
					xmldoc.New("Contact").SetAttr("email", "lab@example.org"),
				),
				xmldoc.New("Hold").SetAttr("release_date", "2030-01-31"),
				xmldoc.New("SubmissionSoftware").SetAttr("version", "asymmetrik-tsv@1.0.0"),
			),
			xmldoc.New("Action").Append(
				xmldoc.New("AddData").SetAttr("target_db", "BioSample").Append(
					xmldoc.New("Data").SetAttr("content_type", "XML").Append(
						xmldoc.New("XmlContent").Append(bioSample("S1")),
					),
					xmldoc.New("Identifier").Append(
						xmldoc.NewText("SPUID", "batch-1").SetAttr("spuid_namespace", "LAB"),
					),
				),
			),
		)
}

func hasError(r *ValidationResult, typ, field string) bool {
	for _, e := range r.Errors {
		if e.Type == typ && (field == "" || e.Field == field) {
			return true
		}
	}
	return false
}

func TestValidateValidSubmission(t *testing.T) {
	v := DefaultValidator()

	result, err := v.Validate("Submission", validSubmission(), true)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected valid document, got errors: %+v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", result.Warnings)
	}
	if result.DocType != "Submission" {
		t.Errorf("expected doc type Submission, got %q", result.DocType)
	}
	if result.Stats.ElementsValidated == 0 || result.Stats.AttributesChecked == 0 {
		t.Errorf("expected stats to be collected, got %+v", result.Stats)
	}
}

func TestValidateNilDocument(t *testing.T) {
	if _, err := DefaultValidator().Validate("Submission", nil, true); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *xmldoc.Element)
		typ    string
		field  string
	}{
		{
			name:   "root mismatch",
			mutate: func(doc *xmldoc.Element) { doc.Name = "NotSubmission" },
			typ:    "ROOT_MISMATCH",
		},
		{
			name: "missing organization contact email",
			mutate: func(doc *xmldoc.Element) {
				doc.Find("Description", "Organization", "Contact").Attrs = nil
			},
			typ:   "MISSING_REQUIRED_ATTRIBUTE",
			field: "email",
		},
		{
			name: "empty organization name",
			mutate: func(doc *xmldoc.Element) {
				doc.Find("Description", "Organization", "Name").Text = ""
			},
			typ:   "MISSING_REQUIRED_VALUE",
			field: "Name",
		},
		{
			name: "invalid organization type",
			mutate: func(doc *xmldoc.Element) {
				doc.Find("Description", "Organization").SetAttr("type", "company")
			},
			typ:   "INVALID_ENUMERATION",
			field: "type",
		},
		{
			name: "bad hold date",
			mutate: func(doc *xmldoc.Element) {
				doc.Find("Description", "Hold").SetAttr("release_date", "31/01/2030")
			},
			typ:   "INVALID_FORMAT",
			field: "release_date",
		},
		{
			name: "no actions",
			mutate: func(doc *xmldoc.Element) {
				doc.Children = doc.Children[:1]
			},
			typ:   "MISSING_REQUIRED_ELEMENT",
			field: "Action",
		},
		{
			name: "empty spuid",
			mutate: func(doc *xmldoc.Element) {
				doc.Find("Action", "AddData", "Identifier", "SPUID").Text = ""
			},
			typ:   "MISSING_REQUIRED_VALUE",
			field: "SPUID",
		},
		{
			name: "two names",
			mutate: func(doc *xmldoc.Element) {
				doc.Find("Description", "Organization").AppendText("Name", "Again")
			},
			typ:   "TOO_MANY_ELEMENTS",
			field: "Name",
		},
		{
			name: "out of order",
			mutate: func(doc *xmldoc.Element) {
				desc := doc.Find("Description")
				desc.Children[0], desc.Children[1] = desc.Children[1], desc.Children[0]
			},
			typ:   "ELEMENT_OUT_OF_ORDER",
			field: "Comment",
		},
		{
			name: "biosample without organism",
			mutate: func(doc *xmldoc.Element) {
				bs := doc.Find("Action", "AddData", "Data", "XmlContent", "BioSample")
				var kept []*xmldoc.Element
				for _, c := range bs.Children {
					if c.Name != "Organism" {
						kept = append(kept, c)
					}
				}
				bs.Children = kept
			},
			typ:   "MISSING_REQUIRED_ELEMENT",
			field: "Organism",
		},
		{
			name: "unknown element in strict mode",
			mutate: func(doc *xmldoc.Element) {
				doc.Find("Description").AppendText("Bogus", "x")
			},
			typ:   "UNKNOWN_ELEMENT",
			field: "Bogus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validSubmission()
			tt.mutate(doc)

			result, err := DefaultValidator().Validate("Submission", doc, true)
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if result.IsValid {
				t.Fatal("expected document to be invalid")
			}
			if !hasError(result, tt.typ, tt.field) {
				t.Errorf("expected %s error on %q, got %+v", tt.typ, tt.field, result.Errors)
			}
		})
	}
}

func TestNonStrictDowngradesUnknowns(t *testing.T) {
	doc := validSubmission()
	doc.Find("Description").AppendText("Bogus", "x")
	doc.Find("Description", "Organization").SetAttr("color", "blue")

	result, err := DefaultValidator().Validate("Submission", doc, false)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.IsValid {
		t.Errorf("expected unknowns to be warnings in lax mode, got errors %+v", result.Errors)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %+v", result.Warnings)
	}
}

func TestEmptyOptionalAttributeWarns(t *testing.T) {
	doc := validSubmission()
	doc.Find("Description", "Organization").
		SetAttr("role", "owner").
		SetAttr("org_id", "").
		SetAttr("group_id", "").
		SetAttr("url", "")

	result, err := DefaultValidator().Validate("Submission", doc, true)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.IsValid {
		t.Errorf("expected document to stay valid, got %+v", result.Errors)
	}
	if len(result.Warnings) != 3 {
		t.Errorf("expected 3 empty-attribute warnings, got %+v", result.Warnings)
	}
}

func TestUnvalidatedContentWarns(t *testing.T) {
	doc := validSubmission()
	content := doc.Find("Action", "AddData", "Data", "XmlContent")
	content.Children = []*xmldoc.Element{xmldoc.New("Project")}

	result, err := DefaultValidator().Validate("Submission", doc, true)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.IsValid {
		t.Errorf("unexpected errors %+v", result.Errors)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Type != "UNVALIDATED_CONTENT" {
		t.Errorf("expected one UNVALIDATED_CONTENT warning, got %+v", result.Warnings)
	}
}

func TestRequiredChecksCanBeDisabled(t *testing.T) {
	doc := validSubmission()
	doc.Find("Description", "Organization", "Contact").Attrs = nil

	v := NewValidator(ValidationConfig{ValidateEnumerations: true})
	result, err := v.Validate("Submission", doc, true)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.IsValid {
		t.Errorf("expected missing email to be ignored, got %+v", result.Errors)
	}
}

func TestValidateXML(t *testing.T) {
	data, err := xmldoc.Marshal(validSubmission(), "  ")
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	v := NewValidator(ValidationConfig{ValidateEnumerations: true, ValidateRequired: true, StrictMode: true})
	result, err := v.ValidateXML(data)
	if err != nil {
		t.Fatalf("ValidateXML failed: %v", err)
	}
	if !result.IsValid {
		t.Errorf("expected serialized document to be valid, got %+v", result.Errors)
	}

	result, err = v.ValidateXML([]byte("<Submission><Description>"))
	if err != nil {
		t.Fatalf("ValidateXML failed: %v", err)
	}
	if result.IsValid || !hasError(result, "XML_PARSE_ERROR", "") {
		t.Errorf("expected parse error, got %+v", result)
	}
}

func TestSummary(t *testing.T) {
	result, _ := DefaultValidator().Validate("Submission", validSubmission(), true)
	if s := result.Summary(); !strings.Contains(s, "Submission document is valid") {
		t.Errorf("unexpected summary %q", s)
	}

	e := ValidationError{Type: "X", Path: "A/B", Message: "bad"}
	if e.String() != "X at A/B: bad" {
		t.Errorf("unexpected error string %q", e.String())
	}
}
