package presentation_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/g5becks/groupnames/internal/presentation"
)

func f(c string, e int) presentation.Factor {
	return presentation.Factor{Character: c, Exponent: e}
}

func w(factors ...presentation.Factor) presentation.Word {
	return append(presentation.Word{}, factors...)
}

func TestTokenizeWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		unsigned bool
		want     presentation.Word
	}{
		{name: "default exponent", raw: "a", want: w(f("a", 1))},
		{name: "explicit exponent", raw: "a8", want: w(f("a", 8))},
		{name: "two letters", raw: "ab", want: w(f("a", 1), f("b", 1))},
		{name: "identity", raw: "1", want: w()},
		{name: "mixed", raw: "a4b", want: w(f("a", 4), f("b", 1))},
		{name: "multi digit", raw: "c12", want: w(f("c", 12))},
		{name: "negative", raw: "a-1", want: w(f("a", -1))},
		{name: "unicode minus", raw: "b−2", want: w(f("b", -2))},
		{name: "caret", raw: "a^3b^-1", want: w(f("a", 3), f("b", -1))},
		{name: "explicit plus", raw: "a+2", want: w(f("a", 2))},
		{name: "zero exponent dropped", raw: "a0b", want: w(f("b", 1))},
		{name: "noise skipped", raw: " (a·b)* ", want: w(f("a", 1), f("b", 1))},
		{name: "sign without digits", raw: "a-b", want: w(f("a", 1), f("b", 1))},
		{name: "unsigned skips sign", raw: "a-1", unsigned: true, want: w(f("a", 1))},
		{name: "unsigned ignores caret", raw: "a^2", unsigned: true, want: w(f("a", 1))},
		{name: "unsigned caret before letter", raw: "a^2b3", unsigned: true, want: w(f("a", 1), f("b", 3))},
		{name: "upper case letter", raw: "Ab", want: w(f("A", 1), f("b", 1))},
		{name: "empty", raw: "", want: w()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := presentation.DefaultOptions()
			opts.SignedExponents = !tt.unsigned

			got, err := presentation.TokenizeWord(tt.raw, opts)
			if err != nil {
				t.Fatalf("TokenizeWord(%q) error = %v", tt.raw, err)
			}

			if got == nil {
				t.Fatalf("TokenizeWord(%q) = nil, want non-nil word", tt.raw)
			}

			if !got.Equal(tt.want) {
				t.Fatalf("TokenizeWord(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTokenizeWordExponentOverflow(t *testing.T) {
	t.Parallel()

	_, err := presentation.TokenizeWord("a99999999999999999999999", presentation.DefaultOptions())

	var structErr *presentation.StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("TokenizeWord() error = %v, want StructureError", err)
	}
}

func TestParseD4(t *testing.T) {
	t.Parallel()

	group, err := presentation.Parse("G = < a,b | a4=1, b2=1, bab=a-1 >", "D4")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := presentation.FreeGroup{
		Label:      "D4",
		Generators: []string{"a", "b"},
		Relations: []presentation.RelationChain{
			{w(f("a", 4)), w()},
			{w(f("b", 2)), w()},
			{w(f("b", 1), f("a", 1), f("b", 1)), w(f("a", -1))},
		},
	}

	if !group.Equal(want) {
		t.Fatalf("Parse() = %+v, want %+v", group, want)
	}
}

func TestParseD4Unsigned(t *testing.T) {
	t.Parallel()

	opts := presentation.Options{SignedExponents: false}

	group, err := presentation.ParseWithOptions("G = < a,b | a4=1, b2=1, bab=a-1 >", "D4", opts)
	if err != nil {
		t.Fatalf("ParseWithOptions() error = %v", err)
	}

	last := group.Relations[2]
	if !last.Equal(presentation.RelationChain{w(f("b", 1), f("a", 1), f("b", 1)), w(f("a", 1))}) {
		t.Fatalf("Relations[2] = %v, want bab=a", last)
	}
}

func TestParseChains(t *testing.T) {
	t.Parallel()

	text := "Generators and relations for C8○D4\n G = < a,b,c | a8=c2=1, b2=a4, ab=ba, ac=ca, cbc=a4b >"

	group, err := presentation.Parse(text, "C8○D4")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(group.Generators) != 3 || group.Generators[2] != "c" {
		t.Fatalf("Generators = %v, want [a b c]", group.Generators)
	}

	if len(group.Relations) != 5 {
		t.Fatalf("Relations len = %d, want 5", len(group.Relations))
	}

	first := presentation.RelationChain{w(f("a", 8)), w(f("c", 2)), w()}
	if !group.Relations[0].Equal(first) {
		t.Fatalf("Relations[0] = %v, want %v", group.Relations[0], first)
	}

	if got := group.Relations[4].String(); got != "cbc=a4b" {
		t.Fatalf("Relations[4] = %q, want %q", got, "cbc=a4b")
	}
}

func TestParseEmptyRelations(t *testing.T) {
	t.Parallel()

	group, err := presentation.Parse("C1 = < a |  >", "C1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(group.Relations) != 0 || group.Relations == nil {
		t.Fatalf("Relations = %#v, want empty non-nil", group.Relations)
	}

	if got := group.String(); got != "< a | >" {
		t.Fatalf("String() = %q, want %q", got, "< a | >")
	}
}

func TestParseTrailingPunctuation(t *testing.T) {
	t.Parallel()

	group, err := presentation.Parse("G = < a | a3=1 >.", "C3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(group.Relations) != 1 || group.Relations[0].String() != "a3=1" {
		t.Fatalf("Relations = %v, want [a3=1]", group.Relations)
	}
}

func TestParseMissingCloseBracket(t *testing.T) {
	t.Parallel()

	group, err := presentation.Parse("< a,b | a2=b2", "V4")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(group.Relations) != 1 || group.Relations[0].String() != "a2=b2" {
		t.Fatalf("Relations = %v, want [a2=b2]", group.Relations)
	}
}

func TestParseStructureErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{name: "no brackets", text: "no brackets here"},
		{name: "no pipe", text: "G = < a,b >"},
		{name: "no bracket", text: "a,b | a2=1"},
		{name: "pipe first", text: "a | b < c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := presentation.Parse(tt.text, "X")

			var structErr *presentation.StructureError
			if !errors.As(err, &structErr) {
				t.Fatalf("Parse(%q) error = %v, want StructureError", tt.text, err)
			}

			if structErr.Reason == "" {
				t.Fatal("StructureError.Reason is empty")
			}
		})
	}
}

func TestParseUnknownGenerator(t *testing.T) {
	t.Parallel()

	text := "G = < a,b | a2=1, c=b >"

	_, err := presentation.Parse(text, "X")

	var unknown *presentation.UnknownGeneratorError
	if !errors.As(err, &unknown) {
		t.Fatalf("Parse() error = %v, want UnknownGeneratorError", err)
	}

	if unknown.Letter != "c" || unknown.Chain != "c=b" {
		t.Fatalf("UnknownGeneratorError = %+v, want letter c in c=b", unknown)
	}

	opts := presentation.DefaultOptions()
	opts.AllowUnknownGenerators = true

	group, err := presentation.ParseWithOptions(text, "X", opts)
	if err != nil {
		t.Fatalf("ParseWithOptions() error = %v", err)
	}

	if group.HasGenerator("c") {
		t.Fatal("HasGenerator(c) = true, want false")
	}
}

func TestParseDuplicateGenerator(t *testing.T) {
	t.Parallel()

	_, err := presentation.Parse("G = < a,b,a | a2=1 >", "X")

	var dup *presentation.DuplicateGeneratorError
	if !errors.As(err, &dup) {
		t.Fatalf("Parse() error = %v, want DuplicateGeneratorError", err)
	}

	if dup.Letter != "a" {
		t.Fatalf("Letter = %q, want %q", dup.Letter, "a")
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"G = < a,b | a4=1, b2=1, bab=a-1 >",
		"Generators and relations for C8○D4\n G = < a,b,c | a8=c2=1, b2=a4, ab=ba, ac=ca, cbc=a4b >",
		"< x,y,z | x3=y3=z3=1, xyx-1y-1=z >",
	}

	for _, input := range inputs {
		group, err := presentation.Parse(input, "G")
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", input, err)
		}

		again, err := presentation.Parse(group.String(), "G")
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", group.String(), err)
		}

		if !again.Equal(group) {
			t.Fatalf("round trip of %q = %+v, want %+v", input, again, group)
		}
	}

	group, _ := presentation.Parse(inputs[0], "D4")
	if got, want := group.String(), "< a,b | a4=1, b2=1, bab=a-1 >"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestFreeGroupJSON(t *testing.T) {
	t.Parallel()

	group, err := presentation.Parse("< a | a2=1 >", "C2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	data, err := json.Marshal(group)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"label":"C2","generators":["a"],"relations":[[[{"character":"a","exponent":2}],[]]]}`
	if string(data) != want {
		t.Fatalf("Marshal() = %s, want %s", data, want)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	bad := presentation.FreeGroup{
		Label:      "X",
		Generators: []string{"a"},
		Relations:  []presentation.RelationChain{{w(f("a", 0))}},
	}

	var structErr *presentation.StructureError
	if err := bad.Validate(false); !errors.As(err, &structErr) {
		t.Fatalf("Validate() error = %v, want StructureError", err)
	}

	dup := presentation.FreeGroup{Label: "X", Generators: []string{"a", "a"}}

	var dupErr *presentation.DuplicateGeneratorError
	if err := dup.Validate(false); !errors.As(err, &dupErr) {
		t.Fatalf("Validate() error = %v, want DuplicateGeneratorError", err)
	}
}
