package markup

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/oops"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FragmentTag tags the synthetic container ParseHTML returns when the source holds
// more than one top-level node.
const FragmentTag = "fragment"

type htmlElement struct {
	node *html.Node
}

// FromHTMLNode adapts an element node. It reports false for any other node type.
func FromHTMLNode(n *html.Node) (Element, bool) {
	if n == nil || n.Type != html.ElementNode {
		return nil, false
	}
	return htmlElement{node: n}, true
}

// FromSelection adapts the first node of a goquery selection.
func FromSelection(sel *goquery.Selection) (Element, bool) {
	if sel == nil || sel.Length() == 0 {
		return nil, false
	}
	return FromHTMLNode(sel.Get(0))
}

// ParseHTML parses an HTML fragment in a <body> context. A single top-level element
// (ignoring surrounding whitespace) is returned as is; anything else is wrapped in a
// FragmentTag container.
func ParseHTML(src string) (Element, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, oops.
			Code("INVALID_INPUT").
			Hint("Pass a well-formed HTML fragment").
			Wrapf(err, "parsing html fragment")
	}

	children := make([]Child, 0, len(nodes))
	var single Element
	elements := 0
	hasText := false
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			el := htmlElement{node: n}
			children = append(children, ElementChild(el))
			single = el
			elements++
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				hasText = true
			}
			children = append(children, TextChild(n.Data))
		}
	}

	if elements == 1 && !hasText {
		return single, nil
	}
	return NewElement(FragmentTag, nil, children...), nil
}

func (e htmlElement) Tag() string {
	return strings.ToLower(e.node.Data)
}

func (e htmlElement) HasClass(name string) bool {
	for _, attr := range e.node.Attr {
		if attr.Key == "class" && slices.Contains(strings.Fields(attr.Val), name) {
			return true
		}
	}
	return false
}

func (e htmlElement) FirstDescendant(tag string) (Element, bool) {
	return firstDescendant(e, strings.ToLower(tag))
}

func (e htmlElement) Children() []Child {
	var children []Child
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			children = append(children, TextChild(c.Data))
		case html.ElementNode:
			children = append(children, ElementChild(htmlElement{node: c}))
		}
	}
	return children
}

func (e htmlElement) Text() string {
	var buf strings.Builder
	writeText(&buf, e)
	return buf.String()
}

// InnerText flattens a node's text the way a browser's innerText would for inline
// content: <br> becomes a newline, everything else contributes its text runs.
func InnerText(n *html.Node) string {
	var buf strings.Builder
	writeInnerText(&buf, n)
	return buf.String()
}

func writeInnerText(buf *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		buf.WriteString(n.Data)
		return
	case n.Type == html.ElementNode && n.DataAtom == atom.Br:
		buf.WriteByte('\n')
		return
	case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeInnerText(buf, c)
	}
}
