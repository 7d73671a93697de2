// Package markup describes the read-only element tree consumed by the math parser.
//
// An Element is an already-extracted node: a tag name, a class set, an ordered list of
// children (text runs or elements) and its flattened text. Two implementations are
// provided: an in-memory Node built by hand or by encoders, and an adapter over parsed
// HTML (see FromHTMLNode and ParseHTML).
package markup

// Element is the only surface the math parser depends on.
type Element interface {
	// Tag returns the lower-case tag name.
	Tag() string
	HasClass(name string) bool
	// FirstDescendant returns the first element below this one (document order,
	// excluding the element itself) with the given tag.
	FirstDescendant(tag string) (Element, bool)
	Children() []Child
	// Text returns the concatenated text of all descendant text runs.
	Text() string
}

// Child is one entry of an element's ordered child list. Element is nil for text runs.
type Child struct {
	Text    string
	Element Element
}

func (c Child) IsText() bool {
	return c.Element == nil
}

func TextChild(text string) Child {
	return Child{Text: text}
}

func ElementChild(el Element) Child {
	return Child{Element: el}
}
