package biosample

import (
	"strings"
	"testing"

	"github.com/nishad/biosubmit/internal/dataset"
	"github.com/nishad/biosubmit/internal/validator"
	"github.com/nishad/biosubmit/internal/xmldoc"
)

func newDataset() *dataset.Dataset {
	return dataset.New([]string{
		"sample_name", "sample_title", "organism", "taxonomy_id", "tissue",
		"bioproject_accession", "parent_sample", "internal_id", "collection_date",
	}, nil)
}

func attributes(el *xmldoc.Element) map[string]string {
	out := map[string]string{}
	for _, a := range el.Find("Attributes").ChildrenNamed("Attribute") {
		name, _ := a.Attr("attribute_name")
		out[name] = a.Text
	}
	return out
}

func TestGenerate(t *testing.T) {
	ds := newDataset()
	g := NewGenerator(Options{
		SPUIDNamespace: "LAB",
		Package:        "Human.1.0",
		SchemaVersion:  "2.0",
		IgnoreColumns:  []string{"internal_id"},
	})

	values := dataset.SplitRow("S1\tBlood draw\tHomo sapiens\t9606\tblood\tPRJNA1\t\tX-17\t2024-01-01")
	el, err := g.Generate(ds, values)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if v, _ := el.Attr("schema_version"); v != "2.0" {
		t.Errorf("unexpected schema_version %q", v)
	}
	spuid := el.Find("SampleId", "SPUID")
	if spuid == nil || spuid.Text != "S1" {
		t.Fatalf("unexpected SampleId %+v", spuid)
	}
	if ns, _ := spuid.Attr("spuid_namespace"); ns != "LAB" {
		t.Errorf("unexpected namespace %q", ns)
	}
	if got := el.Find("Descriptor", "Title"); got == nil || got.Text != "Blood draw" {
		t.Errorf("unexpected title %+v", got)
	}
	if el.Find("Descriptor", "Description") != nil {
		t.Error("description column absent, Description should be omitted")
	}
	if got := el.Find("Organism", "OrganismName"); got.Text != "Homo sapiens" {
		t.Errorf("unexpected organism %q", got.Text)
	}
	if tax, _ := el.Find("Organism").Attr("taxonomy_id"); tax != "9606" {
		t.Errorf("unexpected taxonomy_id %q", tax)
	}
	if got := el.Find("BioProject", "PrimaryId"); got == nil || got.Text != "PRJNA1" {
		t.Errorf("unexpected BioProject %+v", got)
	}
	if el.Find("Package").Text != "Human.1.0" {
		t.Errorf("unexpected package %q", el.Find("Package").Text)
	}

	attrs := attributes(el)
	if len(attrs) != 2 || attrs["tissue"] != "blood" || attrs["collection_date"] != "2024-01-01" {
		t.Errorf("unexpected attributes %v", attrs)
	}

	// Attribute order follows column order
	names := []string{}
	for _, a := range el.Find("Attributes").Children {
		n, _ := a.Attr("attribute_name")
		names = append(names, n)
	}
	if strings.Join(names, ",") != "tissue,collection_date" {
		t.Errorf("unexpected attribute order %v", names)
	}
}

func TestGenerateValidatesAsBioSample(t *testing.T) {
	ds := newDataset()
	g := NewGenerator(Options{SPUIDNamespace: "LAB", Package: "Generic.1.0", SchemaVersion: "2.0"})

	el, err := g.Generate(ds, dataset.SplitRow("S1\t\tHomo sapiens\t\tblood"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	result, err := validator.DefaultValidator().Validate("BioSample", el, true)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.IsValid {
		t.Errorf("generated BioSample should validate, got %+v", result.Errors)
	}
}

func TestGenerateInheritsFromParent(t *testing.T) {
	ds := newDataset()
	parentRow := "P1\t\tMus musculus\t10090\tliver"
	ds.Record("P1", parentRow)

	g := NewGenerator(Options{SPUIDNamespace: "LAB", Package: "Generic.1.0"})
	el, err := g.Generate(ds, dataset.SplitRow("C1\t\t\t\tliver\t\tP1"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if got := el.Find("Organism", "OrganismName").Text; got != "Mus musculus" {
		t.Errorf("expected organism inherited from parent, got %q", got)
	}
	if tax, _ := el.Find("Organism").Attr("taxonomy_id"); tax != "10090" {
		t.Errorf("expected taxonomy inherited from parent, got %q", tax)
	}
	if attributes(el)["derived_from"] != "P1" {
		t.Errorf("expected derived_from attribute, got %v", attributes(el))
	}
}

func TestGenerateErrors(t *testing.T) {
	ds := newDataset()
	g := NewGenerator(Options{SPUIDNamespace: "LAB", Package: "Generic.1.0"})

	if _, err := g.Generate(ds, dataset.SplitRow("\tTitle")); err == nil {
		t.Error("expected error for row without sample_name")
	}
	if _, err := g.Generate(ds, dataset.SplitRow("C1\t\t\t\t\t\tMISSING")); err == nil {
		t.Error("expected error for unknown parent sample")
	}
}
