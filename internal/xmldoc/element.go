// Package xmldoc provides the in-memory XML tree used to assemble submission
// documents. Attributes, text content and child elements are kept in separate
// ordered fields so a tree serializes deterministically.
package xmldoc

// Attr is a single XML attribute. Prefixed names such as "xmlns:xsi" are
// stored verbatim.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of a document tree
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// New creates an empty element
func New(name string) *Element {
	return &Element{Name: name}
}

// NewText creates an element holding only text content
func NewText(name, text string) *Element {
	return &Element{Name: name, Text: text}
}

// SetAttr sets an attribute, replacing an existing value with the same name
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// SetAttrIf sets the attribute only when value is non-empty
func (e *Element) SetAttrIf(name, value string) *Element {
	if value == "" {
		return e
	}
	return e.SetAttr(name, value)
}

// SetText sets the text content
func (e *Element) SetText(text string) *Element {
	e.Text = text
	return e
}

// Append adds child elements in order. Nil children are ignored.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}

// AppendText adds a text-only child element
func (e *Element) AppendText(name, text string) *Element {
	return e.Append(NewText(name, text))
}

// AppendTextIf adds a text-only child element when text is non-empty
func (e *Element) AppendTextIf(name, text string) *Element {
	if text == "" {
		return e
	}
	return e.AppendText(name, text)
}

// Attr returns the value of the named attribute and whether it is present
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first child with the given name, or nil
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all children with the given name in document order
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Find walks a path of child names starting at e and returns the first match
func (e *Element) Find(path ...string) *Element {
	cur := e
	for _, name := range path {
		if cur == nil {
			return nil
		}
		cur = cur.Child(name)
	}
	return cur
}

// Equal reports whether two trees have the same names, attributes, text and
// children, in the same order.
func (e *Element) Equal(o *Element) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Name != o.Name || e.Text != o.Text {
		return false
	}
	if len(e.Attrs) != len(o.Attrs) || len(e.Children) != len(o.Children) {
		return false
	}
	for i := range e.Attrs {
		if e.Attrs[i] != o.Attrs[i] {
			return false
		}
	}
	for i := range e.Children {
		if !e.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits e and every descendant depth-first. Returning false from fn
// skips the subtree of the visited element.
func (e *Element) Walk(fn func(el *Element, depth int) bool) {
	e.walk(fn, 0)
}

func (e *Element) walk(fn func(el *Element, depth int) bool, depth int) {
	if !fn(e, depth) {
		return
	}
	for _, c := range e.Children {
		c.walk(fn, depth+1)
	}
}
