package mathnode

import (
	"strconv"
	"strings"
)

// Dump writes an indented outline of the tree, one node per line.
func Dump(n Node) string {
	var buf strings.Builder
	dump(&buf, n, 0)
	return buf.String()
}

func dump(buf *strings.Builder, n Node, depth int) {
	buf.WriteString(strings.Repeat("  ", depth))

	switch v := n.(type) {
	case Text:
		buf.WriteString("text " + strconv.Quote(v.Value) + "\n")
	case Fraction:
		buf.WriteString("fraction\n")
		dump(buf, v.Numerator, depth+1)
		dump(buf, v.Denominator, depth+1)
	case Sqrt:
		buf.WriteString("sqrt\n")
		dump(buf, v.Value, depth+1)
	case Sub:
		buf.WriteString("sub\n")
		dump(buf, v.Value, depth+1)
	case Sup:
		buf.WriteString("sup\n")
		dump(buf, v.Value, depth+1)
	case Group:
		buf.WriteString("group <" + v.Tag + ">\n")
		for _, child := range v.Children {
			dump(buf, child, depth+1)
		}
	default:
		buf.WriteString("<nil>\n")
	}
}
