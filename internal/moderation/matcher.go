package moderation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matching thresholds. Short terms are excluded entirely because they match
// far too many innocent substrings; the evasion-aware modes need a little
// more length still before their false-positive rate is acceptable.
const (
	minTermLen    = 3 // below this a term is never matched
	minEvasionLen = 4 // spaced-out and stretched modes
	minFuzzyLen   = 5 // edit-distance mode
	minFuzzyToken = 4 // shortest text token considered for fuzzy matching
	maxFuzzyDelta = 2 // max length difference between term and token
	maxEditDist   = 1
)

// Matcher detects banned terms in free text. Beyond plain word-boundary
// matching it catches the common evasions: spaced-out letters ("f u c k"),
// stretched letters ("fuuuuck"), leet/homoglyph spellings (via the
// Normalizer) and near-miss spellings within edit distance 1.
type Matcher struct {
	norm *Normalizer
}

// NewMatcher creates a Matcher that normalizes text and terms with norm.
func NewMatcher(norm *Normalizer) *Matcher {
	return &Matcher{norm: norm}
}

// FindMatches returns the terms from terms that are present in text, in
// term-list order and with each term reported at most once no matter how
// many times or in how many ways it matched. Returned values are the
// original terms, not their normalized forms.
func (m *Matcher) FindMatches(text string, terms []string) []string {
	normText := m.norm.Normalize(text)
	if normText == "" {
		return nil
	}
	tokens := strings.Fields(normText)

	var matched []string
	seen := make(map[string]bool, len(terms))

	for _, term := range terms {
		if seen[term] {
			continue
		}
		if m.termMatches(normText, tokens, term) {
			matched = append(matched, term)
			seen[term] = true
		}
	}
	return matched
}

// termMatches runs the match modes for a single term in order of
// decreasing confidence, stopping at the first hit.
func (m *Matcher) termMatches(normText string, tokens []string, term string) bool {
	nt := m.norm.Normalize(term)
	length := utf8.RuneCountInString(nt)
	if length < minTermLen {
		return false
	}

	if wholeWordPattern(nt).MatchString(normText) {
		return true
	}

	if length >= minEvasionLen {
		letters := letterRunes(nt)
		if len(letters) >= minEvasionLen {
			if spacedPattern(letters).MatchString(normText) {
				return true
			}
			if stretchedPattern(letters).MatchString(normText) {
				return true
			}
		}
	}

	if length >= minFuzzyLen {
		for _, tok := range tokens {
			tokLen := utf8.RuneCountInString(tok)
			if tokLen < minFuzzyToken {
				continue
			}
			delta := tokLen - length
			if delta < -maxFuzzyDelta || delta > maxFuzzyDelta {
				continue
			}
			if editDistance(nt, tok) <= maxEditDist {
				return true
			}
		}
	}

	return false
}

// wholeWordPattern matches the normalized term at word boundaries. Phrase
// terms ("kill yourself") work unchanged: \b anchors the outer edges.
func wholeWordPattern(normTerm string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(normTerm) + `\b`)
}

// spacedPattern matches the term's letters separated by arbitrary
// whitespace: "f u c k", "f  u c k".
func spacedPattern(letters []rune) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`\b`)
	for i, r := range letters {
		if i > 0 {
			b.WriteString(`\s*`)
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	b.WriteString(`\b`)
	return regexp.MustCompile(b.String())
}

// stretchedPattern matches each letter of the term repeated one or more
// times: "fuuuuck".
func stretchedPattern(letters []rune) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`\b`)
	for _, r := range letters {
		b.WriteString(regexp.QuoteMeta(string(r)))
		b.WriteString(`+`)
	}
	b.WriteString(`\b`)
	return regexp.MustCompile(b.String())
}

// letterRunes returns only the letter runes of s, dropping spaces and any
// other separators a phrase term may contain.
func letterRunes(s string) []rune {
	letters := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	return letters
}

// editDistance computes the Levenshtein distance between a and b with unit
// costs, using the standard two-row table.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
