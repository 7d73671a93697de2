package mathnode

import "strings"

// Render serializes a tree to LaTeX-style notation. Groups concatenate their
// children with no separator.
func Render(n Node) string {
	var buf strings.Builder
	render(&buf, n)
	return buf.String()
}

// RenderAll renders each node of a sequence.
func RenderAll(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = Render(n)
	}
	return out
}

func render(buf *strings.Builder, n Node) {
	switch v := n.(type) {
	case Text:
		buf.WriteString(v.Value)
	case Fraction:
		buf.WriteString(`\frac{`)
		render(buf, operand(v.Numerator))
		buf.WriteString("}{")
		render(buf, operand(v.Denominator))
		buf.WriteByte('}')
	case Sqrt:
		buf.WriteString(`\sqrt{`)
		render(buf, stripRadical(v.Value))
		buf.WriteByte('}')
	case Sub:
		buf.WriteString("_{")
		render(buf, v.Value)
		buf.WriteByte('}')
	case Sup:
		buf.WriteString("^{")
		render(buf, v.Value)
		buf.WriteByte('}')
	case Group:
		for _, child := range v.Children {
			render(buf, child)
		}
	}
}

// operand unwraps the sup or sub that holds a fraction's numerator or denominator.
func operand(n Node) Node {
	switch v := n.(type) {
	case Sup:
		return v.Value
	case Sub:
		return v.Value
	}
	return n
}

// stripRadical removes the radical glyph from the leading text of a square root.
func stripRadical(n Node) Node {
	switch v := n.(type) {
	case Text:
		return Text{Value: trimRadical(v.Value)}
	case Group:
		if len(v.Children) == 0 {
			return v
		}
		first, ok := v.Children[0].(Text)
		if !ok || !strings.HasPrefix(strings.TrimSpace(first.Value), RadicalGlyph) {
			return v
		}
		children := make([]Node, 0, len(v.Children))
		if rest := trimRadical(first.Value); rest != "" {
			children = append(children, Text{Value: rest})
		}
		children = append(children, v.Children[1:]...)
		return Group{Tag: v.Tag, Children: children}
	}
	return n
}

func trimRadical(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), RadicalGlyph))
}
