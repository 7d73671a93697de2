package presentation

import (
	"strings"
)

const (
	openBracket  = "<"
	closeBracket = ">"
	separator    = "|"
	chainSep     = ","
	equalsSign   = "="
)

type Options struct {
	// SignedExponents reads "a-1" as a^-1. When false the sign is skipped and the
	// factor gets exponent 1.
	SignedExponents bool
	// AllowUnknownGenerators accepts relation letters missing from the generator list.
	AllowUnknownGenerators bool
}

func DefaultOptions() Options {
	return Options{SignedExponents: true}
}

// Parse parses a presentation with DefaultOptions.
func Parse(text, label string) (FreeGroup, error) {
	return ParseWithOptions(text, label, DefaultOptions())
}

// ParseWithOptions parses text of the form "... < generators | relations > ...".
//
// The generator list is the text between the first '<' and the first '|'; every
// lower-case letter in it is a generator. The relation list runs from the '|' to the
// last '>' after it, or to the end of the text.
func ParseWithOptions(text, label string, opts Options) (FreeGroup, error) {
	open := strings.Index(text, openBracket)
	if open < 0 {
		return FreeGroup{}, structureError(label, "no opening '<'")
	}

	pipe := strings.Index(text, separator)
	if pipe < 0 {
		return FreeGroup{}, structureError(label, "no '|' separator")
	}
	if pipe < open {
		return FreeGroup{}, structureError(label, "'|' before '<'")
	}

	generators, err := parseGenerators(text[open+len(openBracket):pipe], label)
	if err != nil {
		return FreeGroup{}, err
	}

	rest := text[pipe+len(separator):]
	if end := strings.LastIndex(rest, closeBracket); end >= 0 {
		rest = rest[:end]
	}

	relations, err := parseRelations(rest, label, opts)
	if err != nil {
		return FreeGroup{}, err
	}

	group := FreeGroup{
		Label:      label,
		Generators: generators,
		Relations:  relations,
	}

	if err := group.Validate(opts.AllowUnknownGenerators); err != nil {
		return FreeGroup{}, err
	}

	return group, nil
}

func parseGenerators(region, label string) ([]string, error) {
	generators := []string{}
	seen := map[rune]struct{}{}

	for _, r := range region {
		if !isLowerLetter(r) {
			continue
		}
		if _, dup := seen[r]; dup {
			return nil, duplicateGeneratorError(label, string(r))
		}
		seen[r] = struct{}{}
		generators = append(generators, string(r))
	}

	return generators, nil
}

func parseRelations(region, label string, opts Options) ([]RelationChain, error) {
	relations := []RelationChain{}

	for _, raw := range splitTrimmed(region, chainSep) {
		chain := RelationChain{}
		for _, rawWord := range splitTrimmed(raw, equalsSign) {
			word, err := tokenizeWord(rawWord, label, opts)
			if err != nil {
				return nil, err
			}
			chain = append(chain, word)
		}
		relations = append(relations, chain)
	}

	return relations, nil
}

func splitTrimmed(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
