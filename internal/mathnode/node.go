// Package mathnode turns presentational math markup (fractions, radicals, sub- and
// superscripts) into a small canonical tree and renders it back to LaTeX.
//
// Trees are values: nodes are built once by the parser and never mutated afterwards.
// A Group never holds exactly one child; see Wrap.
package mathnode

import "slices"

type Kind string

const (
	KindText     Kind = "text"
	KindFraction Kind = "fraction"
	KindSqrt     Kind = "sqrt"
	KindSub      Kind = "sub"
	KindSup      Kind = "sup"
	KindGroup    Kind = "group"
)

// Node is the closed set of tree variants: Text, Fraction, Sqrt, Sub, Sup and Group.
type Node interface {
	Kind() Kind
	mathNode()
}

type Text struct {
	Value string
}

type Fraction struct {
	Numerator   Node
	Denominator Node
}

type Sqrt struct {
	Value Node
}

type Sub struct {
	Value Node
}

type Sup struct {
	Value Node
}

// Group is a sequence of sibling expressions tagged with the originating element's tag.
type Group struct {
	Tag      string
	Children []Node
}

func (Text) Kind() Kind     { return KindText }
func (Fraction) Kind() Kind { return KindFraction }
func (Sqrt) Kind() Kind     { return KindSqrt }
func (Sub) Kind() Kind      { return KindSub }
func (Sup) Kind() Kind      { return KindSup }
func (Group) Kind() Kind    { return KindGroup }

func (Text) mathNode()     {}
func (Fraction) mathNode() {}
func (Sqrt) mathNode()     {}
func (Sub) mathNode()      {}
func (Sup) mathNode()      {}
func (Group) mathNode()    {}

// Wrap canonicalizes a child sequence: exactly one node is returned as is, anything
// else becomes a Group with the given tag holding a copy of the sequence.
func Wrap(nodes []Node, tag string) Node {
	if len(nodes) == 1 {
		return nodes[0]
	}

	children := make([]Node, len(nodes))
	copy(children, nodes)
	return Group{Tag: tag, Children: children}
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case Text:
		y, ok := b.(Text)
		return ok && x.Value == y.Value
	case Fraction:
		y, ok := b.(Fraction)
		return ok && Equal(x.Numerator, y.Numerator) && Equal(x.Denominator, y.Denominator)
	case Sqrt:
		y, ok := b.(Sqrt)
		return ok && Equal(x.Value, y.Value)
	case Sub:
		y, ok := b.(Sub)
		return ok && Equal(x.Value, y.Value)
	case Sup:
		y, ok := b.(Sup)
		return ok && Equal(x.Value, y.Value)
	case Group:
		y, ok := b.(Group)
		return ok && x.Tag == y.Tag && slices.EqualFunc(x.Children, y.Children, Equal)
	}
	return false
}

// Canonical reports whether no Group in the tree wraps exactly one child.
func Canonical(n Node) bool {
	switch v := n.(type) {
	case Fraction:
		return Canonical(v.Numerator) && Canonical(v.Denominator)
	case Sqrt:
		return Canonical(v.Value)
	case Sub:
		return Canonical(v.Value)
	case Sup:
		return Canonical(v.Value)
	case Group:
		if len(v.Children) == 1 {
			return false
		}
		for _, child := range v.Children {
			if !Canonical(child) {
				return false
			}
		}
	}
	return true
}
