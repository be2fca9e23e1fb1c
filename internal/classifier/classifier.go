// Package classifier decides whether a Wikipedia page title belongs in the
// corpus. It evaluates three competing keyword sets in a fixed order:
// priority keeps, noise, then general interest.
//
// Long, unambiguous keywords are matched as substrings through an
// Aho-Corasick automaton over the case-folded title. Short or ambiguous
// tokens ("aid", "party", "cup") are matched as whole words so they do not
// fire inside longer words such as "raid" or "cupola".
package classifier

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.TitleClassifier = (*Classifier)(nil)

// Verdict reasons that do not name a keyword.
const (
	ReasonEmpty      = "Empty Title"
	ReasonNoKeywords = "No Keywords"
)

// Classifier is a rule-based title classifier.
// It is safe for concurrent use.
type Classifier struct {
	// mu guards fold and the automata, neither of which is goroutine-safe.
	mu sync.Mutex

	fold        cases.Caser
	priority    *keywordSet
	conditional string
	noise       *keywordSet
	interest    *keywordSet
}

// New builds a classifier from the given rules.
func New(rules Rules) *Classifier {
	fold := cases.Fold()
	return &Classifier{
		fold:        fold,
		priority:    newKeywordSet(fold, rules.PriorityKeep, nil),
		conditional: fold.String(rules.ConditionalNoise),
		noise:       newKeywordSet(fold, rules.NoiseSubstrings, rules.NoiseWords),
		interest:    newKeywordSet(fold, rules.InterestSubstrings, rules.InterestWords),
	}
}

// NewDefault builds a classifier with DefaultRules.
func NewDefault() *Classifier {
	return New(DefaultRules())
}

// Classify maps a title to KEPT or IGNORED. First match wins:
//
//  1. priority keep substrings
//  2. the conditional noise marker
//  3. noise substrings and whole words
//  4. interest substrings and whole words
//  5. otherwise IGNORED
func (c *Classifier) Classify(title string) domain.Verdict {
	if strings.TrimSpace(title) == "" {
		return domain.Verdict{Status: domain.StatusIgnored, Reason: ReasonEmpty}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	folded := c.fold.String(title)

	if kw, ok := c.priority.match(folded, title); ok {
		return domain.Verdict{Status: domain.StatusKept, Reason: "Priority: " + kw}
	}

	if c.conditional != "" && strings.Contains(folded, c.conditional) {
		return domain.Verdict{Status: domain.StatusIgnored, Reason: "Noise: " + c.conditional}
	}

	if kw, ok := c.noise.match(folded, title); ok {
		return domain.Verdict{Status: domain.StatusIgnored, Reason: "Noise: " + kw}
	}

	if kw, ok := c.interest.match(folded, title); ok {
		return domain.Verdict{Status: domain.StatusKept, Reason: "Match: " + kw}
	}

	return domain.Verdict{Status: domain.StatusIgnored, Reason: ReasonNoKeywords}
}

// keywordSet pairs a substring automaton with a whole-word regexp.
type keywordSet struct {
	substrings []string
	matcher    *ahocorasick.Matcher
	words      *regexp.Regexp
}

func newKeywordSet(fold cases.Caser, substrings, words []string) *keywordSet {
	s := &keywordSet{}

	for _, kw := range substrings {
		kw = fold.String(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		s.substrings = append(s.substrings, kw)
	}
	if len(s.substrings) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(s.substrings)
	}

	parts := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(w))
	}
	if len(parts) > 0 {
		s.words = regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`)
	}

	return s
}

// match reports the first keyword (in list order) found in the title.
// Substrings are searched in the folded title, whole words in the original.
func (s *keywordSet) match(folded, original string) (string, bool) {
	if s.matcher != nil {
		hits := s.matcher.Match([]byte(folded))
		if len(hits) > 0 {
			sort.Ints(hits)
			return s.substrings[hits[0]], true
		}
	}

	if s.words != nil {
		if m := s.words.FindString(original); m != "" {
			return strings.ToLower(m), true
		}
	}

	return "", false
}
