package markup

import (
	"slices"
	"strings"
)

// Node is an in-memory Element.
type Node struct {
	tag      string
	classes  []string
	children []Child
}

// NewElement builds a Node. The tag is lower-cased; classes and children are copied.
func NewElement(tag string, classes []string, children ...Child) *Node {
	return &Node{
		tag:      strings.ToLower(tag),
		classes:  slices.Clone(classes),
		children: slices.Clone(children),
	}
}

func (n *Node) Tag() string {
	return n.tag
}

func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.classes, name)
}

func (n *Node) FirstDescendant(tag string) (Element, bool) {
	return firstDescendant(n, strings.ToLower(tag))
}

func (n *Node) Children() []Child {
	return slices.Clone(n.children)
}

func (n *Node) Text() string {
	var buf strings.Builder
	writeText(&buf, n)
	return buf.String()
}

func firstDescendant(el Element, tag string) (Element, bool) {
	for _, child := range el.Children() {
		if child.IsText() {
			continue
		}
		if child.Element.Tag() == tag {
			return child.Element, true
		}
		if found, ok := firstDescendant(child.Element, tag); ok {
			return found, true
		}
	}
	return nil, false
}

func writeText(buf *strings.Builder, el Element) {
	for _, child := range el.Children() {
		if child.IsText() {
			buf.WriteString(child.Text)
			continue
		}
		writeText(buf, child.Element)
	}
}
