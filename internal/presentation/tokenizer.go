package presentation

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	powerMark = '^'
	minusSign = '−'
	hyphen    = '-'
	plusSign  = '+'
)

// TokenizeWord reads factors from a raw word such as "bab", "a4b" or "a-1".
// Characters that start no factor are skipped; "1" alone yields the empty word.
// A factor with exponent zero is dropped.
func TokenizeWord(raw string, opts Options) (Word, error) {
	return tokenizeWord(raw, "", opts)
}

func tokenizeWord(raw, label string, opts Options) (Word, error) {
	s := scanner{runes: []rune(strings.TrimSpace(raw))}
	word := Word{}

	for !s.done() {
		r := s.peek()
		if !isLetter(r) {
			s.advance()
			continue
		}
		s.advance()

		exponent, err := s.exponent(opts.SignedExponents)
		if err != nil {
			return nil, structureError(label, err.Error())
		}
		if exponent == 0 {
			continue
		}
		word = append(word, Factor{Character: string(r), Exponent: exponent})
	}

	return word, nil
}

// scanner is an explicit cursor over the runes of one word.
type scanner struct {
	runes []rune
	pos   int
}

func (s *scanner) done() bool {
	return s.pos >= len(s.runes)
}

func (s *scanner) peek() rune {
	return s.runes[s.pos]
}

func (s *scanner) peekAt(offset int) (rune, bool) {
	i := s.pos + offset
	if i >= len(s.runes) {
		return 0, false
	}
	return s.runes[i], true
}

func (s *scanner) advance() {
	s.pos++
}

// exponent reads "[^][sign]digits" after a letter and defaults to 1. Unsigned mode
// reads plain digits only.
func (s *scanner) exponent(signed bool) (int, error) {
	negative := false
	if signed {
		if r, ok := s.peekAt(0); ok && r == powerMark {
			s.advance()
		}
		if r, ok := s.peekAt(0); ok && isSign(r) {
			if next, ok := s.peekAt(1); ok && isDigit(next) {
				negative = r != plusSign
				s.advance()
			}
		}
	}

	start := s.pos
	for !s.done() && isDigit(s.peek()) {
		s.advance()
	}
	if start == s.pos {
		return 1, nil
	}

	digits := string(s.runes[start:s.pos])
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("exponent out of range: %s", digits)
	}
	if negative {
		n = -n
	}
	return n, nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isLowerLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSign(r rune) bool {
	return r == hyphen || r == minusSign || r == plusSign
}
