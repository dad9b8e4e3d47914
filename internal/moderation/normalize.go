package moderation

import (
	"strings"
	"unicode"
)

// Normalizer canonicalizes text so that trivially disguised content compares
// equal to its plain form: "f.u.c.k", "f-u-c-k" and "f@ck" all normalize to
// "fuck". The transform is pure, total and idempotent.
//
// Pipeline order:
//  1. lowercase
//  2. fold substitution-table variants into their canonical letters, only
//     where the variant run leads into a letter
//  3. drop punctuation/symbol runs sitting between two letters
//  4. collapse whitespace runs to single spaces, trim
//  5. expand known abbreviations at whole-token boundaries
//
// Each step is restricted to whole-word or bounded contexts on purpose:
// a missed evasion is cheaper than mangling legitimate text.
type Normalizer struct {
	variants   map[rune]rune
	expansions map[string]string
}

// NewNormalizer builds a Normalizer from the lexicon's substitution table
// and expansion list.
func NewNormalizer(lex *Lexicon) *Normalizer {
	n := &Normalizer{
		variants:   make(map[rune]rune),
		expansions: make(map[string]string, len(lex.Expansions)),
	}

	for _, sub := range lex.Substitutions {
		for _, v := range sub.Variants {
			n.variants[v] = sub.Canonical
		}
	}

	for _, exp := range lex.Expansions {
		n.expansions[exp.Token] = exp.Phrase
	}

	return n
}

// Normalize returns the canonical comparable form of text.
func (n *Normalizer) Normalize(text string) string {
	s := strings.ToLower(text)

	s = n.foldVariants(s)
	s = stripInnerSeparators(s)
	s = strings.Join(strings.Fields(s), " ")
	s = n.expandTokens(s)

	return s
}

// foldVariants maps substitution-table characters onto their canonical
// letters, but only where a run of them is followed by a letter and
// preceded by a letter, whitespace or the start of text: "f@ck", "5tupid"
// and "c00l" fold, "hello, world!" and "2019" do not. Folding everywhere
// would turn ordinary punctuation and numbers into letters, and a trailing
// "!" would push a disguised word out of reach of whole-word matching.
func (n *Normalizer) foldVariants(s string) string {
	runes := []rune(s)
	changed := false

	for i := 0; i < len(runes); {
		if _, ok := n.variants[runes[i]]; !ok {
			i++
			continue
		}

		j := i
		for j < len(runes) {
			if _, ok := n.variants[runes[j]]; !ok {
				break
			}
			j++
		}

		intoLetter := j < len(runes) && unicode.IsLetter(runes[j])
		afterBreak := i == 0 || unicode.IsLetter(runes[i-1]) || unicode.IsSpace(runes[i-1])
		if intoLetter && afterBreak {
			for k := i; k < j; k++ {
				runes[k] = n.variants[runes[k]]
			}
			changed = true
		}
		i = j
	}

	if !changed {
		return s
	}
	return string(runes)
}

// stripInnerSeparators removes any run of punctuation or symbol characters
// that sits between two letters, defeating "f.u.c.k"-style spacing without
// touching punctuation that ends a word or sentence.
func stripInnerSeparators(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	var last rune
	for i := 0; i < len(runes); {
		r := runes[i]
		if !isSeparator(r) {
			b.WriteRune(r)
			last = r
			i++
			continue
		}

		// Scan the whole separator run, then decide once.
		j := i
		for j < len(runes) && isSeparator(runes[j]) {
			j++
		}
		if unicode.IsLetter(last) && j < len(runes) && unicode.IsLetter(runes[j]) {
			i = j // drop the run
			continue
		}
		for ; i < j; i++ {
			b.WriteRune(runes[i])
			last = runes[i]
		}
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// expandTokens replaces whole tokens that are known abbreviations with the
// phrase they stand for. The input is already whitespace-collapsed, so
// tokens are separated by single spaces.
func (n *Normalizer) expandTokens(s string) string {
	if s == "" || len(n.expansions) == 0 {
		return s
	}

	tokens := strings.Split(s, " ")
	changed := false
	for i, tok := range tokens {
		if phrase, ok := n.expansions[tok]; ok {
			tokens[i] = phrase
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(tokens, " ")
}
