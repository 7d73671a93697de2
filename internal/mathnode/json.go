package mathnode

import (
	"encoding/json"

	"github.com/samber/oops"
)

type textJSON struct {
	Type  Kind   `json:"type"`
	Value string `json:"value"`
}

type fractionJSON struct {
	Type        Kind `json:"type"`
	Numerator   Node `json:"numerator"`
	Denominator Node `json:"denominator"`
}

type valueJSON struct {
	Type  Kind `json:"type"`
	Value Node `json:"value"`
}

type groupJSON struct {
	Type     Kind   `json:"type"`
	Tag      string `json:"tag"`
	Children []Node `json:"children"`
}

func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(textJSON{Type: KindText, Value: t.Value})
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(fractionJSON{Type: KindFraction, Numerator: f.Numerator, Denominator: f.Denominator})
}

func (s Sqrt) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Type: KindSqrt, Value: s.Value})
}

func (s Sub) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Type: KindSub, Value: s.Value})
}

func (s Sup) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Type: KindSup, Value: s.Value})
}

func (g Group) MarshalJSON() ([]byte, error) {
	children := g.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(groupJSON{Type: KindGroup, Tag: g.Tag, Children: children})
}

// Unmarshal decodes a tree written by the MarshalJSON methods.
func Unmarshal(data []byte) (Node, error) {
	var head struct {
		Type        Kind              `json:"type"`
		Value       json.RawMessage   `json:"value"`
		Numerator   json.RawMessage   `json:"numerator"`
		Denominator json.RawMessage   `json:"denominator"`
		Tag         string            `json:"tag"`
		Children    []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, oops.
			Code("INVALID_NODE").
			Wrapf(err, "decoding math node")
	}

	switch head.Type {
	case KindText:
		var value string
		if len(head.Value) > 0 {
			if err := json.Unmarshal(head.Value, &value); err != nil {
				return nil, oops.Code("INVALID_NODE").Wrapf(err, "decoding text value")
			}
		}
		return Text{Value: value}, nil

	case KindFraction:
		numerator, err := Unmarshal(head.Numerator)
		if err != nil {
			return nil, err
		}
		denominator, err := Unmarshal(head.Denominator)
		if err != nil {
			return nil, err
		}
		return Fraction{Numerator: numerator, Denominator: denominator}, nil

	case KindSqrt, KindSub, KindSup:
		value, err := Unmarshal(head.Value)
		if err != nil {
			return nil, err
		}
		switch head.Type {
		case KindSqrt:
			return Sqrt{Value: value}, nil
		case KindSub:
			return Sub{Value: value}, nil
		default:
			return Sup{Value: value}, nil
		}

	case KindGroup:
		children := make([]Node, 0, len(head.Children))
		for _, raw := range head.Children {
			child, err := Unmarshal(raw)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return Group{Tag: head.Tag, Children: children}, nil

	default:
		return nil, oops.
			Code("INVALID_NODE").
			With("type", head.Type).
			Errorf("unknown math node type %q", head.Type)
	}
}

// Sequence is an ordered list of trees that decodes from JSON.
type Sequence []Node

func (s *Sequence) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return oops.Code("INVALID_NODE").Wrapf(err, "decoding math node sequence")
	}

	nodes := make(Sequence, 0, len(raw))
	for _, item := range raw {
		n, err := Unmarshal(item)
		if err != nil {
			return err
		}
		nodes = append(nodes, n)
	}

	*s = nodes
	return nil
}
