package moderation

import (
	"reflect"
	"testing"
)

func newTestMatcher() *Matcher {
	return NewMatcher(NewNormalizer(DefaultLexicon()))
}

func TestFindMatches_WholeWord(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		name  string
		input string
		terms []string
		want  []string
	}{
		{"exact match", "fuck", []string{"fuck"}, []string{"fuck"}},
		{"in sentence", "well fuck that", []string{"fuck"}, []string{"fuck"}},
		{"case insensitive", "FUCK", []string{"fuck"}, []string{"fuck"}},
		{"with punctuation", "fuck!", []string{"fuck"}, []string{"fuck"}},
		{"clean text", "have a nice day", []string{"fuck"}, nil},
		{"substring no match", "classic", []string{"ass"}, nil},
		{"phrase match", "you should kill yourself now", []string{"kill yourself"}, []string{"kill yourself"}},
		{"phrase words apart", "kill the mood yourself", []string{"kill yourself"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.FindMatches(tt.input, tt.terms)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindMatches(%q, %v) = %v, want %v", tt.input, tt.terms, got, tt.want)
			}
		})
	}
}

func TestFindMatches_Evasion(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		name  string
		input string
		terms []string
		want  []string
	}{
		{"leet substitution", "f@ck", []string{"fuck"}, []string{"fuck"}},
		{"dotted letters", "f.u.c.k", []string{"fuck"}, []string{"fuck"}},
		{"spaced letters", "f u c k", []string{"fuck"}, []string{"fuck"}},
		{"unevenly spaced", "f  u c  k", []string{"fuck"}, []string{"fuck"}},
		{"stretched letters", "fuuuuuck", []string{"fuck"}, []string{"fuck"}},
		{"abbreviation", "kys", []string{"kill yourself"}, []string{"kill yourself"}},
		{"wrong letter not stretched", "fuvk", []string{"fuck"}, nil},
		{"suffix not stretched", "sucks", []string{"suck"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.FindMatches(tt.input, tt.terms)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindMatches(%q, %v) = %v, want %v", tt.input, tt.terms, got, tt.want)
			}
		})
	}
}

func TestFindMatches_Fuzzy(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		name  string
		input string
		terms []string
		want  []string
	}{
		{"one substitution", "you are stupad", []string{"stupid"}, []string{"stupid"}},
		{"one deletion", "stupd person", []string{"stupid"}, []string{"stupid"}},
		{"one insertion", "stuupid move", []string{"stupid"}, []string{"stupid"}},
		{"two edits no match", "stapad", []string{"stupid"}, nil},
		{"short term no fuzzy", "fack", []string{"hate"}, nil},
		{"split term caught by spaced mode", "stu pid", []string{"stupid"}, []string{"stupid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.FindMatches(tt.input, tt.terms)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindMatches(%q, %v) = %v, want %v", tt.input, tt.terms, got, tt.want)
			}
		})
	}
}

func TestFindMatches_OrderAndDedup(t *testing.T) {
	m := newTestMatcher()

	got := m.FindMatches("stupid idiot, really stupid", []string{"idiot", "stupid"})
	want := []string{"idiot", "stupid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindMatches = %v, want term-list order %v", got, want)
	}

	got = m.FindMatches("fuck f.u.c.k fuuuck", []string{"fuck"})
	want = []string{"fuck"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindMatches = %v, want each term reported once: %v", got, want)
	}
}

func TestFindMatches_ShortTermsExcluded(t *testing.T) {
	m := newTestMatcher()

	if got := m.FindMatches("it is so", []string{"is", "so"}); got != nil {
		t.Errorf("FindMatches matched terms below the minimum length: %v", got)
	}
}

func TestFindMatches_EmptyInputs(t *testing.T) {
	m := newTestMatcher()

	if got := m.FindMatches("", []string{"fuck"}); got != nil {
		t.Errorf("FindMatches on empty text = %v, want nil", got)
	}
	if got := m.FindMatches("anything at all", nil); got != nil {
		t.Errorf("FindMatches with no terms = %v, want nil", got)
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"stupid", "stupid", 0},
		{"stupid", "stupad", 1},
		{"stupid", "stupd", 1},
		{"stupid", "stuupid", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func BenchmarkFindMatches(b *testing.B) {
	m := newTestMatcher()
	lex := DefaultLexicon()
	text := "this is a fairly normal comment with no problems, just talking about the weather and f.u.c.k one evasion"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tier := range lex.Tiers {
			m.FindMatches(text, tier.Terms)
		}
	}
}
