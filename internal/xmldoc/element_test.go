package xmldoc

import (
	"strings"
	"testing"
)

func TestSetAttrIf(t *testing.T) {
	el := New("Contact").SetAttrIf("email", "").SetAttrIf("phone", "555")

	if _, ok := el.Attr("email"); ok {
		t.Error("expected empty email to be omitted")
	}
	if v, ok := el.Attr("phone"); !ok || v != "555" {
		t.Errorf("expected phone 555, got %q (present=%v)", v, ok)
	}
}

func TestSetAttrReplaces(t *testing.T) {
	el := New("Hold").SetAttr("release_date", "2020-01-01").SetAttr("release_date", "2021-01-01")

	if len(el.Attrs) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(el.Attrs))
	}
	if el.Attrs[0].Value != "2021-01-01" {
		t.Errorf("expected replaced value, got %q", el.Attrs[0].Value)
	}
}

func TestAppendSkipsNil(t *testing.T) {
	el := New("Description").Append(nil, NewText("Comment", "hi"), nil)
	el.AppendTextIf("Empty", "")

	if len(el.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(el.Children))
	}
	if el.Child("Comment").Text != "hi" {
		t.Errorf("unexpected comment text %q", el.Child("Comment").Text)
	}
}

func TestFind(t *testing.T) {
	root := New("Submission").Append(
		New("Description").Append(
			New("Organization").AppendText("Name", "Lab"),
		),
	)

	if got := root.Find("Description", "Organization", "Name"); got == nil || got.Text != "Lab" {
		t.Errorf("Find returned %+v", got)
	}
	if got := root.Find("Description", "Missing", "Name"); got != nil {
		t.Errorf("expected nil for missing path, got %+v", got)
	}
}

func TestEqual(t *testing.T) {
	build := func() *Element {
		return New("A").SetAttr("x", "1").Append(NewText("B", "b"), New("C"))
	}

	if !build().Equal(build()) {
		t.Error("expected identical trees to be equal")
	}

	other := build()
	other.Children[0].Text = "changed"
	if build().Equal(other) {
		t.Error("expected trees with different text to differ")
	}

	var nilEl *Element
	if !nilEl.Equal(nil) {
		t.Error("expected nil trees to be equal")
	}
	if build().Equal(nil) {
		t.Error("expected non-nil and nil to differ")
	}
}

func TestMarshalKeepsPrefixedAttributes(t *testing.T) {
	root := New("Submission").
		SetAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance").
		SetAttr("schema_version", "2.0").
		Append(NewText("Comment", "a & b"))

	data, err := Marshal(root, "")
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing XML header: %s", out)
	}
	want := `<Submission xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" schema_version="2.0"><Comment>a &amp; b</Comment></Submission>`
	if !strings.Contains(out, want) {
		t.Errorf("unexpected output:\n%s\nwant substring:\n%s", out, want)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	root := New("Submission").
		SetAttr("xsi:noNamespaceSchemaLocation", "http://example.org/submission.xsd").
		Append(
			New("Action").Append(
				New("AddData").SetAttr("target_db", "BioSample").Append(
					New("Identifier").Append(
						NewText("SPUID", "S1").SetAttr("spuid_namespace", "NS"),
					),
				),
			),
		)

	data, err := Marshal(root, "  ")
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	decoded, err := Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !root.Equal(decoded) {
		t.Errorf("decoded tree differs from original:\n%s", data)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"empty", ""},
		{"mismatched", "<A><B></A></B>"},
		{"unclosed", "<A><B></B>"},
		{"two roots", "<A></A><B></B>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.xml)); err == nil {
				t.Errorf("expected error for %q", tt.xml)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	root := New("A").Append(New("B").Append(New("C")), New("D"))

	var names []string
	root.Walk(func(el *Element, depth int) bool {
		names = append(names, el.Name)
		return el.Name != "B"
	})

	if got := strings.Join(names, ","); got != "A,B,D" {
		t.Errorf("unexpected walk order %s", got)
	}
}
