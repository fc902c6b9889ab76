package slug

import (
	"regexp"
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

var slugShape = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"accents and punctuation", "Joe's Café!!", "joes-cafe"},
		{"plain words", "My Website", "my-website"},
		{"whitespace runs", "  Hello \t\n World  ", "hello-world"},
		{"hyphen runs", "a---b", "a-b"},
		{"mixed separators", "a - _ - b", "a-b"},
		{"leading and trailing hyphens", "--edge--", "edge"},
		{"digits", "Studio 54", "studio-54"},
		{"punctuation only", "!!!???", ""},
		{"empty", "", ""},
		{"uppercase accents", "ÉCOLE Ñandú", "ecole-nandu"},
		{"non latin dropped", "Café Москва", "cafe"},
		{"already a slug", "joes-cafe", "joes-cafe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.in))
		})
	}
}

func TestGenerateCollisions(t *testing.T) {
	names := []string{"Joe's Café", "JOES CAFE", "joes   cafe!!", "-Joes-Cafe-", "joés café"}
	for _, n := range names {
		assert.Equal(t, "joes-cafe", Generate(n), "name %q", n)
	}
}

func TestGenerateShapeProperty(t *testing.T) {
	prop := func(s string) bool {
		out := Generate(s)
		return slugShape.MatchString(out) &&
			!strings.Contains(out, "--") &&
			out == strings.ToLower(out)
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 2000}); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	prop := func(s string) bool {
		once := Generate(s)
		return Generate(once) == once
	}
	if err := quick.Check(prop, nil); err != nil {
		t.Fatal(err)
	}
}

func FuzzGenerate(f *testing.F) {
	for _, seed := range []string{"Joe's Café!!", "", "---", "a b c", "é́"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		out := Generate(s)
		if !slugShape.MatchString(out) {
			t.Fatalf("Generate(%q) = %q, not a slug", s, out)
		}
	})
}
