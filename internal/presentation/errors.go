package presentation

import (
	"fmt"

	"github.com/samber/oops"
)

// StructureError means the text does not have the "< generators | relations >" shape.
type StructureError struct {
	Reason string
}

func (e *StructureError) Error() string {
	return "malformed presentation: " + e.Reason
}

// UnknownGeneratorError means a relation uses a letter that is not a generator.
type UnknownGeneratorError struct {
	Letter string
	Chain  string
}

func (e *UnknownGeneratorError) Error() string {
	return fmt.Sprintf("relation %q uses unknown generator %q", e.Chain, e.Letter)
}

// DuplicateGeneratorError means a generator letter is listed more than once.
type DuplicateGeneratorError struct {
	Letter string
}

func (e *DuplicateGeneratorError) Error() string {
	return fmt.Sprintf("generator %q listed more than once", e.Letter)
}

func structureError(label, reason string) error {
	return oops.
		Code("STRUCTURE_ERROR").
		With("label", label).
		Hint("Presentations look like: G = < a,b | a4=1, b2=1 >").
		Wrap(&StructureError{Reason: reason})
}

func unknownGeneratorError(label, letter, chain string) error {
	return oops.
		Code("UNKNOWN_GENERATOR").
		With("label", label).
		With("letter", letter).
		Hint("Declare the letter before the '|' or allow unknown generators").
		Wrap(&UnknownGeneratorError{Letter: letter, Chain: chain})
}

func duplicateGeneratorError(label, letter string) error {
	return oops.
		Code("DUPLICATE_GENERATOR").
		With("label", label).
		With("letter", letter).
		Wrap(&DuplicateGeneratorError{Letter: letter})
}
