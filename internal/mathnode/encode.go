package mathnode

import (
	"strings"

	"github.com/g5becks/groupnames/internal/markup"
)

// fractionSlash separates numerator and denominator in encoded fractions; the
// fraction rule ignores it.
const fractionSlash = "⁄"

// ToMarkup encodes a canonical tree as markup that ParseElement maps back to an equal
// tree. A bare Text root is wrapped in an inline container, which the parser collapses.
//
// Only trees shaped like parser output survive the trip: fraction operands are a Sup
// and a Sub, a Sqrt value starts with the radical glyph, and no other span starts with
// it. A numerator holding a subscript also breaks the trip.
func ToMarkup(n Node) markup.Element {
	if text, ok := n.(Text); ok {
		return markup.NewElement(InlineTag, nil, markup.TextChild(text.Value))
	}
	return encodeElement(n)
}

func encodeElement(n Node) markup.Element {
	switch v := n.(type) {
	case Fraction:
		return markup.NewElement(InlineTag, []string{FractionClass},
			markup.ElementChild(encodeOperand(v.Numerator, SuperscriptTag)),
			markup.TextChild(fractionSlash),
			markup.ElementChild(encodeOperand(v.Denominator, SubscriptTag)),
		)
	case Sqrt:
		children := flatten(v.Value, InlineTag)
		if !strings.HasPrefix(strings.TrimSpace(leadingText(v.Value)), RadicalGlyph) {
			children = append([]markup.Child{markup.TextChild(RadicalGlyph)}, children...)
		}
		return markup.NewElement(InlineTag, nil, children...)
	case Sub:
		return markup.NewElement(SubscriptTag, nil, flatten(v.Value, SubscriptTag)...)
	case Sup:
		return markup.NewElement(SuperscriptTag, nil, flatten(v.Value, SuperscriptTag)...)
	case Group:
		return markup.NewElement(v.Tag, nil, encodeChildren(v.Children)...)
	default:
		return markup.NewElement(InlineTag, nil, encodeChild(n))
	}
}

// encodeOperand writes a fraction operand as the sup or sub element the fraction rule
// looks for.
func encodeOperand(n Node, tag string) markup.Element {
	switch n.(type) {
	case Sup, Sub:
		return encodeElement(n)
	}
	return markup.NewElement(tag, nil, flatten(n, tag)...)
}

func leadingText(n Node) string {
	switch v := n.(type) {
	case Text:
		return v.Value
	case Group:
		if len(v.Children) > 0 {
			return leadingText(v.Children[0])
		}
	}
	return ""
}

// flatten inlines a Group created by wrapping under the same container tag.
func flatten(n Node, containerTag string) []markup.Child {
	if group, ok := n.(Group); ok && group.Tag == containerTag {
		return encodeChildren(group.Children)
	}
	return []markup.Child{encodeChild(n)}
}

func encodeChildren(nodes []Node) []markup.Child {
	children := make([]markup.Child, 0, len(nodes))
	for _, n := range nodes {
		children = append(children, encodeChild(n))
	}
	return children
}

func encodeChild(n Node) markup.Child {
	if text, ok := n.(Text); ok {
		return markup.TextChild(text.Value)
	}
	return markup.ElementChild(encodeElement(n))
}
