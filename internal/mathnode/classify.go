package mathnode

import (
	"strings"

	"github.com/g5becks/groupnames/internal/markup"
)

// Structural markers of the source markup.
const (
	InlineTag      = "span"
	FractionClass  = "frac"
	SuperscriptTag = "sup"
	SubscriptTag   = "sub"
	RadicalGlyph   = "√"
)

// ElementKind is the structural role of a markup element, derived once per element.
type ElementKind int

const (
	ElementOther ElementKind = iota
	ElementFraction
	ElementRadical
	ElementSubscript
	ElementSuperscript
)

func (k ElementKind) String() string {
	switch k {
	case ElementFraction:
		return "fraction"
	case ElementRadical:
		return "radical"
	case ElementSubscript:
		return "subscript"
	case ElementSuperscript:
		return "superscript"
	default:
		return "other"
	}
}

// Classify applies the structural rules in priority order.
func Classify(el markup.Element) ElementKind {
	tag := strings.ToLower(el.Tag())

	switch {
	case tag == InlineTag && el.HasClass(FractionClass):
		return ElementFraction
	case tag == InlineTag && strings.HasPrefix(strings.TrimSpace(el.Text()), RadicalGlyph):
		return ElementRadical
	case tag == SubscriptTag:
		return ElementSubscript
	case tag == SuperscriptTag:
		return ElementSuperscript
	default:
		return ElementOther
	}
}
