package moderation

// Severity is the tier of a banned term and the severity of a verdict.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// rank orders severities so the engine can keep the highest one seen.
func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// Tier pairs a severity level with its banned terms. Tiers are evaluated in
// slice order, so a Lexicon lists them high to low for deterministic
// severity resolution.
type Tier struct {
	Severity Severity
	Terms    []string
}

// Substitution maps a canonical letter to the homoglyph/leetspeak variant
// characters that fold into it during normalization. Folding is positional:
// a variant only folds where it leads into a letter, so ordinary
// punctuation and numbers survive (see Normalizer).
type Substitution struct {
	Canonical rune
	Variants  []rune
}

// Expansion rewrites a whole token to the phrase it abbreviates. Expansions
// never apply to substrings, so "riffs" is left alone even though it
// contains "ffs".
type Expansion struct {
	Token  string
	Phrase string
}

// Lexicon is the static policy data driving normalization and matching:
// tiered banned terms, the substitution table, and abbreviation expansions.
// It is read-only after construction; load it once per process and share it.
//
// The exact contents are policy, not mechanism. Deployments tune them by
// constructing their own Lexicon instead of editing DefaultLexicon.
type Lexicon struct {
	Tiers         []Tier
	Substitutions []Substitution
	Expansions    []Expansion
}

// DefaultLexicon returns the built-in moderation policy data.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Tiers: []Tier{
			{Severity: SeverityHigh, Terms: []string{
				"spam", "scam", "fraud", "hate", "kill", "death", "violence",
				"terrorist", "bomb", "weapon", "drug", "cocaine", "heroin",
				"fucker", "sucker", "dick", "nazi", "hitler", "genocide",
				"rape", "murder", "suicide", "fuck", "nigga", "nigger",
				"kill yourself",
			}},
			{Severity: SeverityMedium, Terms: []string{
				"stupid", "idiot", "moron", "dumb", "retard", "loser",
				"ugly", "fat", "worthless", "pathetic", "disgusting", "gross",
			}},
			{Severity: SeverityLow, Terms: []string{
				"damn", "crap", "suck", "sucks", "annoying", "boring", "lame",
			}},
		},
		Substitutions: []Substitution{
			{Canonical: 'a', Variants: []rune{'4'}},
			{Canonical: 'e', Variants: []rune{'3'}},
			{Canonical: 'g', Variants: []rune{'9'}},
			{Canonical: 'i', Variants: []rune{'1', '!'}},
			{Canonical: 'o', Variants: []rune{'0'}},
			{Canonical: 's', Variants: []rune{'$', '5'}},
			{Canonical: 't', Variants: []rune{'7'}},
			// "@" shows up almost exclusively as a masked vowel inside an
			// otherwise intact word (f@ck), so it folds to u rather than a.
			{Canonical: 'u', Variants: []rune{'@'}},
		},
		Expansions: []Expansion{
			{Token: "kys", Phrase: "kill yourself"},
			{Token: "wtf", Phrase: "what the fuck"},
			{Token: "stfu", Phrase: "shut the fuck up"},
			{Token: "ffs", Phrase: "for fucks sake"},
			{Token: "omg", Phrase: "oh my god"},
			{Token: "h8", Phrase: "hate"},
		},
	}
}
