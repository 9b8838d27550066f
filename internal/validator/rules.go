package validator

import (
	"fmt"
	"time"
)

const unbounded = -1

type textMode uint8

const (
	textNone textMode = iota
	textOptional
	textRequired
)

type attrRule struct {
	required bool
	enum     []string
	format   func(string) error
}

type childRule struct {
	name     string
	min, max int
}

// elementRule describes one element of the submission or BioSample schema.
// Children are listed in schema sequence order.
type elementRule struct {
	attrs    map[string]attrRule
	children []childRule
	text     textMode
	// anyContent marks wrapper elements whose children belong to another
	// schema (XmlContent). Known roots among them are validated with their own
	// rules.
	anyContent bool
}

func (r elementRule) child(name string) (int, childRule, bool) {
	for i, c := range r.children {
		if c.name == name {
			return i, c, true
		}
	}
	return -1, childRule{}, false
}

func one(name string) childRule      { return childRule{name: name, min: 1, max: 1} }
func optional(name string) childRule { return childRule{name: name, min: 0, max: 1} }
func many(name string) childRule     { return childRule{name: name, min: 0, max: unbounded} }
func oneOrMore(name string) childRule {
	return childRule{name: name, min: 1, max: unbounded}
}

func xsDate(v string) error {
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return fmt.Errorf("expected YYYY-MM-DD date, got %q", v)
	}
	return nil
}

var (
	organizationTypes = []string{"institute", "center", "consortium", "lab"}
	organizationRoles = []string{"owner", "participant"}
	targetDatabases   = []string{"BioProject", "BioSample", "SRA", "GenBank", "WGS"}
	contentTypes      = []string{"XML"}
)

// schemaRules is keyed by element name. Elements whose meaning depends on the
// parent use a "Parent/Name" key, which takes precedence.
var schemaRules = map[string]elementRule{
	// Submission schema
	"Submission": {
		attrs: map[string]attrRule{
			"xmlns:xsi":                     {},
			"xsi:noNamespaceSchemaLocation": {},
			"schema_version":                {required: true},
		},
		children: []childRule{one("Description"), oneOrMore("Action")},
	},
	"Submission/Description": {
		children: []childRule{
			optional("Comment"),
			optional("Submitter"),
			oneOrMore("Organization"),
			optional("Hold"),
			optional("SubmissionSoftware"),
		},
	},
	"Comment": {text: textRequired},
	"Submitter": {
		attrs:    map[string]attrRule{"account_id": {}},
		children: []childRule{optional("Contact")},
	},
	"Contact": {
		attrs: map[string]attrRule{
			"email":     {required: true},
			"sec_email": {},
			"phone":     {},
		},
	},
	"Organization": {
		attrs: map[string]attrRule{
			"type":     {required: true, enum: organizationTypes},
			"role":     {enum: organizationRoles},
			"org_id":   {},
			"group_id": {},
			"url":      {},
		},
		children: []childRule{one("Name"), optional("Address"), many("Contact")},
	},
	"Organization/Name": {text: textRequired},
	"Address": {
		attrs: map[string]attrRule{"postal_code": {}},
		children: []childRule{
			optional("Department"),
			optional("Institution"),
			optional("Street"),
			optional("City"),
			optional("Sub"),
			optional("Country"),
		},
	},
	"Department":  {text: textRequired},
	"Institution": {text: textRequired},
	"Street":      {text: textRequired},
	"City":        {text: textRequired},
	"Sub":         {text: textRequired},
	"Country":     {text: textRequired},
	"Hold": {
		attrs: map[string]attrRule{"release_date": {required: true, format: xsDate}},
	},
	"SubmissionSoftware": {
		attrs: map[string]attrRule{"version": {required: true}},
	},
	"Action": {
		attrs: map[string]attrRule{
			"action_id":             {},
			"submitter_tracking_id": {},
		},
		children: []childRule{one("AddData")},
	},
	"AddData": {
		attrs:    map[string]attrRule{"target_db": {required: true, enum: targetDatabases}},
		children: []childRule{oneOrMore("Data"), optional("Identifier")},
	},
	"Data": {
		attrs: map[string]attrRule{
			"content_type": {required: true, enum: contentTypes},
			"name":         {},
		},
		children: []childRule{optional("XmlContent")},
	},
	"XmlContent": {anyContent: true},
	"Identifier": {
		children: []childRule{optional("SPUID"), optional("PrimaryId"), optional("LocalId")},
	},
	"SPUID": {
		attrs: map[string]attrRule{"spuid_namespace": {required: true}},
		text:  textRequired,
	},
	"PrimaryId": {
		attrs: map[string]attrRule{"db": {}},
		text:  textRequired,
	},
	"LocalId": {text: textRequired},

	// BioSample package subset
	"BioSample": {
		attrs: map[string]attrRule{"schema_version": {}},
		children: []childRule{
			one("SampleId"),
			optional("Descriptor"),
			one("Organism"),
			many("BioProject"),
			one("Package"),
			one("Attributes"),
		},
	},
	"SampleId": {children: []childRule{one("SPUID")}},
	"Descriptor": {
		children: []childRule{optional("Title"), optional("Description")},
	},
	"Title":                  {text: textRequired},
	"Descriptor/Description": {text: textRequired},
	"Organism": {
		attrs:    map[string]attrRule{"taxonomy_id": {}},
		children: []childRule{one("OrganismName")},
	},
	"OrganismName": {text: textRequired},
	"BioProject":   {children: []childRule{one("PrimaryId")}},
	"Package":      {text: textRequired},
	"Attributes":   {children: []childRule{oneOrMore("Attribute")}},
	"Attribute": {
		attrs: map[string]attrRule{"attribute_name": {required: true}},
		text:  textRequired,
	},
}

// contentRoots are the documents that may appear inside XmlContent
var contentRoots = map[string]bool{
	"BioSample": true,
}

func lookupRule(parent, name string) (elementRule, bool) {
	if parent != "" {
		if r, ok := schemaRules[parent+"/"+name]; ok {
			return r, true
		}
	}
	r, ok := schemaRules[name]
	return r, ok
}
