// Package biosample turns one table row into a BioSample XML fragment.
package biosample

import (
	"fmt"
	"sort"

	"github.com/nishad/biosubmit/internal/dataset"
	"github.com/nishad/biosubmit/internal/xmldoc"
)

// Columns with a dedicated place in the BioSample element. Every other
// column becomes an Attribute.
const (
	ColumnSampleName   = dataset.SampleNameField
	ColumnSampleTitle  = "sample_title"
	ColumnDescription  = "description"
	ColumnOrganism     = "organism"
	ColumnTaxonomyID   = "taxonomy_id"
	ColumnBioProject   = "bioproject_accession"
	ColumnParentSample = "parent_sample"
)

var reservedColumns = map[string]bool{
	ColumnSampleName:   true,
	ColumnSampleTitle:  true,
	ColumnDescription:  true,
	ColumnOrganism:     true,
	ColumnTaxonomyID:   true,
	ColumnBioProject:   true,
	ColumnParentSample: true,
}

// Options configures a Generator
type Options struct {
	SPUIDNamespace string
	Package        string
	SchemaVersion  string
	IgnoreColumns  []string
}

// Generator builds BioSample fragments
type Generator struct {
	opts   Options
	ignore map[string]bool
}

// NewGenerator creates a generator
func NewGenerator(opts Options) *Generator {
	ignore := make(map[string]bool, len(opts.IgnoreColumns))
	for _, c := range opts.IgnoreColumns {
		ignore[c] = true
	}
	return &Generator{opts: opts, ignore: ignore}
}

// Generate builds the BioSample element for one row. A row naming a
// parent_sample inherits organism and taxonomy from that row when it leaves
// them empty; the parent must already be recorded in the data map.
func (g *Generator) Generate(ds *dataset.Dataset, values []string) (*xmldoc.Element, error) {
	name, _ := ds.Value(values, ColumnSampleName)
	if name == "" {
		return nil, fmt.Errorf("row has no %s", ColumnSampleName)
	}

	organism, _ := ds.Value(values, ColumnOrganism)
	taxID, _ := ds.Value(values, ColumnTaxonomyID)
	parent, _ := ds.Value(values, ColumnParentSample)

	if parent != "" && (organism == "" || taxID == "") {
		parentValues, ok := ds.Lookup(parent)
		if !ok {
			return nil, fmt.Errorf("sample %s references unknown parent_sample %s", name, parent)
		}
		if organism == "" {
			organism, _ = ds.Value(parentValues, ColumnOrganism)
		}
		if taxID == "" {
			taxID, _ = ds.Value(parentValues, ColumnTaxonomyID)
		}
	}

	el := xmldoc.New("BioSample").SetAttrIf("schema_version", g.opts.SchemaVersion)

	el.Append(xmldoc.New("SampleId").Append(
		xmldoc.NewText("SPUID", name).SetAttr("spuid_namespace", g.opts.SPUIDNamespace),
	))

	title, _ := ds.Value(values, ColumnSampleTitle)
	description, _ := ds.Value(values, ColumnDescription)
	if title != "" || description != "" {
		el.Append(xmldoc.New("Descriptor").
			AppendTextIf("Title", title).
			AppendTextIf("Description", description))
	}

	el.Append(xmldoc.New("Organism").
		SetAttrIf("taxonomy_id", taxID).
		AppendText("OrganismName", organism))

	if project, _ := ds.Value(values, ColumnBioProject); project != "" {
		el.Append(xmldoc.New("BioProject").Append(
			xmldoc.NewText("PrimaryId", project).SetAttr("db", "BioProject"),
		))
	}

	el.AppendText("Package", g.opts.Package)

	attrs := xmldoc.New("Attributes")
	if parent != "" {
		attrs.Append(xmldoc.NewText("Attribute", parent).SetAttr("attribute_name", "derived_from"))
	}
	for _, col := range g.attributeColumns(ds) {
		v, ok := ds.Value(values, col)
		if !ok || v == "" {
			continue
		}
		attrs.Append(xmldoc.NewText("Attribute", v).SetAttr("attribute_name", col))
	}
	el.Append(attrs)

	return el, nil
}

// attributeColumns returns the non-reserved columns in table order
func (g *Generator) attributeColumns(ds *dataset.Dataset) []string {
	type col struct {
		name string
		idx  int
	}
	var cols []col
	for name, idx := range ds.Metadata.ColumnIndexMap {
		if reservedColumns[name] || g.ignore[name] {
			continue
		}
		cols = append(cols, col{name, idx})
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].idx < cols[j].idx })

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}
