// Package presentation parses group presentations such as
// "G = < a,b | a4=1, b2=1, bab=a-1 >" into a free-group model.
package presentation

import (
	"slices"
	"strconv"
	"strings"
)

// IdentityToken is how an empty word is written.
const IdentityToken = "1"

// Factor is a single generator letter raised to a non-zero power.
type Factor struct {
	Character string `json:"character"`
	Exponent  int    `json:"exponent"`
}

func (f Factor) String() string {
	if f.Exponent == 1 {
		return f.Character
	}
	return f.Character + strconv.Itoa(f.Exponent)
}

// Word is a product of factors read left to right. The empty word is the identity.
type Word []Factor

func (w Word) String() string {
	if len(w) == 0 {
		return IdentityToken
	}

	var buf strings.Builder
	for _, f := range w {
		buf.WriteString(f.String())
	}
	return buf.String()
}

func (w Word) Equal(other Word) bool {
	return slices.Equal(w, other)
}

// RelationChain asserts that all of its words are equal.
type RelationChain []Word

func (c RelationChain) String() string {
	parts := make([]string, len(c))
	for i, w := range c {
		parts[i] = w.String()
	}
	return strings.Join(parts, "=")
}

func (c RelationChain) Equal(other RelationChain) bool {
	return slices.EqualFunc(c, other, Word.Equal)
}

// FreeGroup is a generator alphabet plus the relations stated over it.
type FreeGroup struct {
	Label      string          `json:"label"`
	Generators []string        `json:"generators"`
	Relations  []RelationChain `json:"relations"`
}

// String renders the presentation in a form that parses back to an equal model.
func (g FreeGroup) String() string {
	relations := make([]string, len(g.Relations))
	for i, chain := range g.Relations {
		relations[i] = chain.String()
	}

	var buf strings.Builder
	buf.WriteString("< ")
	buf.WriteString(strings.Join(g.Generators, ","))
	buf.WriteString(" |")
	if len(relations) > 0 {
		buf.WriteString(" ")
		buf.WriteString(strings.Join(relations, ", "))
	}
	buf.WriteString(" >")
	return buf.String()
}

func (g FreeGroup) Equal(other FreeGroup) bool {
	return g.Label == other.Label &&
		slices.Equal(g.Generators, other.Generators) &&
		slices.EqualFunc(g.Relations, other.Relations, RelationChain.Equal)
}

// HasGenerator reports whether letter is one of the declared generators.
func (g FreeGroup) HasGenerator(letter string) bool {
	return slices.Contains(g.Generators, letter)
}

// Validate checks the model invariants: distinct generators, non-zero exponents and,
// unless allowUnknown is set, relations using declared generators only. The tokenizer
// already drops zero exponents, so that check only matters for hand-built models.
func (g FreeGroup) Validate(allowUnknown bool) error {
	seen := make(map[string]struct{}, len(g.Generators))
	for _, letter := range g.Generators {
		if _, dup := seen[letter]; dup {
			return duplicateGeneratorError(g.Label, letter)
		}
		seen[letter] = struct{}{}
	}

	for _, chain := range g.Relations {
		for _, word := range chain {
			for _, f := range word {
				if f.Exponent == 0 {
					return structureError(g.Label, "zero exponent in relation "+chain.String())
				}
				if _, ok := seen[f.Character]; !ok && !allowUnknown {
					return unknownGeneratorError(g.Label, f.Character, chain.String())
				}
			}
		}
	}

	return nil
}
