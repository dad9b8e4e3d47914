package moderation

import (
	"regexp"
	"sort"
	"strings"
)

// URLPlaceholder replaces stripped links in redacted text.
const URLPlaceholder = "[URL removed]"

// foldCapsRunLen is the uppercase run length at which shouting gets
// title-cased during redaction.
const foldCapsRunLen = 3

var (
	redactURLPattern  = regexp.MustCompile(`(?i)https?://\S+`)
	redactCapsPattern = regexp.MustCompile(`[A-Z]{3,}`)
)

// Redactor sanitizes text for display: banned terms become asterisk runs of
// equal length, URLs become a fixed placeholder, and shouting is folded to
// title case. It is independent of the decision pipeline and can be used
// standalone wherever moderated text is shown.
type Redactor struct {
	terms []*regexp.Regexp
}

// NewRedactor compiles replacement patterns for every term in every tier of
// the lexicon, in both verbatim and spaced-letter form.
func NewRedactor(lex *Lexicon) *Redactor {
	var terms []string
	for _, tier := range lex.Tiers {
		terms = append(terms, tier.Terms...)
	}
	// Longest first, so "kill yourself" is masked whole instead of "kill"
	// eating its prefix.
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i]) > len(terms[j])
	})

	r := &Redactor{}
	for _, term := range terms {
		// Verbatim first so the spaced pattern, whose \s+ needs real gaps,
		// only mops up what is left.
		r.terms = append(r.terms, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(term)+`\b`))
		if sp := spacedRedactPattern(term); sp != nil {
			r.terms = append(r.terms, sp)
		}
	}
	return r
}

// spacedRedactPattern builds a case-insensitive pattern for the term's
// letters separated by whitespace. Returns nil for terms too short for the
// spaced form to be meaningful.
func spacedRedactPattern(term string) *regexp.Regexp {
	letters := letterRunes(strings.ToLower(term))
	if len(letters) < minEvasionLen {
		return nil
	}
	var b strings.Builder
	b.WriteString(`(?i)\b`)
	for i, r := range letters {
		if i > 0 {
			b.WriteString(`\s+`)
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	b.WriteString(`\b`)
	return regexp.MustCompile(b.String())
}

// Redact returns text with flagged terms masked. Each term occurrence is
// replaced by an asterisk run of the same character length, so the length
// of surrounding text never shifts until URLs are swapped for the
// placeholder. Caps are folded before the URL pass so the placeholder's own
// capitals survive.
func (r *Redactor) Redact(text string) string {
	cleaned := redactCapsPattern.ReplaceAllStringFunc(text, func(m string) string {
		return m[:1] + strings.ToLower(m[1:])
	})

	for _, re := range r.terms {
		cleaned = re.ReplaceAllStringFunc(cleaned, func(m string) string {
			return strings.Repeat("*", len(m))
		})
	}

	return redactURLPattern.ReplaceAllString(cleaned, URLPlaceholder)
}
