package moderation

import (
	"regexp"
	"strings"
	"unicode"
)

// ScorerConfig holds the spam scorer tunables. Every threshold and weight
// is named because false-positive tuning is an ongoing activity: each value
// here has already been loosened from a naive first guess so that
// enthusiastic but normal writing (some caps, some !!!) stays well below
// the spam threshold.
type ScorerConfig struct {
	SignalWeight float64 // score added per structural signal match

	RepetitionMinWords int     // repetition ratio ignored below this word count
	RepetitionMinRatio float64 // and below this ratio
	RepetitionWeight   float64 // multiplier applied to the ratio

	LengthSoft        int // first length breakpoint (chars)
	LengthHard        int // second length breakpoint (chars)
	LengthSoftPenalty float64
	LengthHardPenalty float64

	CapsMinLength int     // caps ratio ignored on shorter content
	CapsMinRatio  float64 // uppercase fraction that triggers the penalty
	CapsPenalty   float64
}

// DefaultScorerConfig returns the reference tuning.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		SignalWeight:       0.15,
		RepetitionMinWords: 5,
		RepetitionMinRatio: 0.6,
		RepetitionWeight:   0.3,
		LengthSoft:         3000,
		LengthHard:         6000,
		LengthSoftPenalty:  0.1,
		LengthHardPenalty:  0.2,
		CapsMinLength:      10,
		CapsMinRatio:       0.7,
		CapsPenalty:        0.2,
	}
}

// Compiled signal patterns. Compiled once at package init and reused for
// every call, so scoring is safe for concurrent use.
var (
	longNumberPattern  = regexp.MustCompile(`\b\d{10,}\b`)
	capsRunPattern     = regexp.MustCompile(`\b[A-Z]{5,}\b`)
	urlPattern         = regexp.MustCompile(`(?i)https?://\S+`)
	domainPattern      = regexp.MustCompile(`(?i)(www\.|\.com\b|\.net\b|\.org\b)`)
	promoPattern       = regexp.MustCompile(`(?i)\b(buy|sell|cheap|free|click|visit|download|discount|winner|prize)\b`)
	specialRunPattern  = regexp.MustCompile(`[^a-zA-Z0-9\s]{5,}`)
	numberGroupPattern = regexp.MustCompile(`\b\d{4,}\b`)
	repeatPunctPattern = regexp.MustCompile(`[!?.]{3,}`)
	baitPhrasePattern  = regexp.MustCompile(`(?i)\b(like and subscribe|follow me|check out my|dm me|link in bio)\b`)
)

// spamSignal is one structural detector: a name for tests and tuning, a
// statement of what it is after, and a counter returning how many times it
// fired on the text.
type spamSignal struct {
	name   string
	intent string
	count  func(text string) int
}

// spamSignals is the fixed battery evaluated by Score. Each match adds
// SignalWeight to the score.
var spamSignals = []spamSignal{
	{
		name:   "repeated_chars",
		intent: "runs of 5+ identical characters (aaaaa)",
		count:  countCharRuns,
	},
	{
		name:   "long_numbers",
		intent: "10+ digit groups, phone-number shaped",
		count:  regexCount(longNumberPattern),
	},
	{
		name:   "caps_runs",
		intent: "words in ALL CAPS of 5+ letters",
		count:  regexCount(capsRunPattern),
	},
	{
		name:   "urls",
		intent: "embedded http/https links",
		count:  regexCount(urlPattern),
	},
	{
		name:   "domains",
		intent: "bare domain fragments (www., .com, ...)",
		count:  regexCount(domainPattern),
	},
	{
		name:   "promo_keywords",
		intent: "clustered promotional vocabulary",
		count:  regexCount(promoPattern),
	},
	{
		name:   "special_runs",
		intent: "runs of 5+ special characters",
		count:  regexCount(specialRunPattern),
	},
	{
		name:   "stretched_words",
		intent: "words with a letter stretched 4+ times",
		count:  countStretchedWords,
	},
	{
		name:   "number_groups",
		intent: "3 or more separate long number groups",
		count:  countNumberGroups,
	},
	{
		name:   "repeated_punct",
		intent: "runs of 3+ terminal punctuation",
		count:  regexCount(repeatPunctPattern),
	},
	{
		name:   "bait_phrases",
		intent: "social-engagement bait phrases",
		count:  regexCount(baitPhrasePattern),
	},
}

// regexCount adapts a compiled pattern into a signal counter.
func regexCount(re *regexp.Regexp) func(string) int {
	return func(text string) int {
		return len(re.FindAllStringIndex(text, -1))
	}
}

// countCharRuns counts maximal runs of 5 or more identical characters.
// RE2 has no backreferences, so this is a linear scan.
func countCharRuns(text string) int {
	const threshold = 5

	count := 0
	runLen := 1
	prev := rune(-1)
	for _, r := range text {
		if r == prev {
			runLen++
			if runLen == threshold {
				count++
			}
		} else {
			runLen = 1
			prev = r
		}
	}
	return count
}

// countStretchedWords counts whitespace-delimited words containing a letter
// repeated 4 or more times in a row ("heyyyyy").
func countStretchedWords(text string) int {
	const threshold = 4

	count := 0
	for _, word := range strings.Fields(text) {
		runLen := 1
		prev := rune(-1)
		for _, r := range word {
			if r == prev && unicode.IsLetter(r) {
				runLen++
				if runLen == threshold {
					count++
					break
				}
			} else {
				runLen = 1
				prev = r
			}
		}
	}
	return count
}

// countNumberGroups fires once per long number group, but only when three
// or more are present: a lone order number is normal, a wall of them is a
// spam tell.
func countNumberGroups(text string) int {
	const minGroups = 3

	n := len(numberGroupPattern.FindAllStringIndex(text, -1))
	if n < minGroups {
		return 0
	}
	return n
}

// Scorer produces a bounded spam score for a piece of text.
type Scorer struct {
	cfg ScorerConfig
}

// NewScorer creates a Scorer with the given tuning.
func NewScorer(cfg ScorerConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score evaluates the signal battery plus the repetition, length and caps
// heuristics and returns their additive score clamped to [0, 1].
func (s *Scorer) Score(text string) float64 {
	score := 0.0

	for _, sig := range spamSignals {
		score += float64(sig.count(text)) * s.cfg.SignalWeight
	}

	score += s.repetitionScore(text)
	score += s.lengthScore(text)
	score += s.capsScore(text)

	if score > 1 {
		score = 1
	}
	return score
}

// repetitionScore penalizes text that keeps repeating the same words.
// Short messages are exempt so "yeah yeah ok" stays clean.
func (s *Scorer) repetitionScore(text string) float64 {
	words := strings.Fields(text)
	if len(words) <= s.cfg.RepetitionMinWords {
		return 0
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	ratio := 1 - float64(len(unique))/float64(len(words))
	if ratio <= s.cfg.RepetitionMinRatio {
		return 0
	}
	return ratio * s.cfg.RepetitionWeight
}

func (s *Scorer) lengthScore(text string) float64 {
	score := 0.0
	if len(text) > s.cfg.LengthSoft {
		score += s.cfg.LengthSoftPenalty
	}
	if len(text) > s.cfg.LengthHard {
		score += s.cfg.LengthHardPenalty
	}
	return score
}

// capsScore penalizes content that is mostly uppercase. The ratio is over
// total length, and both the ratio bar and the minimum length keep short
// excited messages ("OK GO!") out of scope.
func (s *Scorer) capsScore(text string) float64 {
	length := len([]rune(text))
	if length <= s.cfg.CapsMinLength {
		return 0
	}

	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	ratio := float64(upper) / float64(length)
	if ratio <= s.cfg.CapsMinRatio {
		return 0
	}
	return s.cfg.CapsPenalty
}
