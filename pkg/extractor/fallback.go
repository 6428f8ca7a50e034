package extractor

import (
	"context"
	"regexp"
	"strings"
	"sync"
)

// Fallback is the deterministic strategy: a fixed-vocabulary matcher that
// needs no network and always succeeds.
type Fallback struct {
	vocab    Vocabulary
	once     sync.Once
	patterns map[string]*regexp.Regexp
}

// NewFallback creates the deterministic extractor over a vocabulary.
func NewFallback(vocab Vocabulary) (f *Fallback) {
	f = &Fallback{vocab: vocab}
	return f
}

// Extract matches the text against the vocabulary. The error is always nil;
// the signature satisfies Extractor.
func (f *Fallback) Extract(_ context.Context, text string) (result Result, err error) {
	f.once.Do(f.compile)

	lower := strings.ToLower(text)

	var technical []string

	// C++ spellings collapse onto one canonical term.
	if strings.Contains(lower, "c++") || strings.Contains(lower, "cpp") {
		technical = append(technical, "C++")
	}

	for _, term := range f.vocab.Technical {
		if term == "C++" {
			continue
		}
		if pattern, ok := f.patterns[term]; ok && pattern.MatchString(text) {
			technical = append(technical, term)
		}
	}

	technical = applyCompositeRules(technical)

	var soft []string
	for _, term := range f.vocab.Soft {
		if strings.Contains(lower, strings.ToLower(term)) {
			soft = append(soft, term)
		}
	}

	result = shape(technical, soft)
	return result, err
}

func (f *Fallback) compile() {
	f.patterns = make(map[string]*regexp.Regexp, len(f.vocab.Technical))
	for _, term := range f.vocab.Technical {
		if term == "C++" {
			continue
		}
		f.patterns[term] = termPattern(term)
	}
}

// termPattern builds a case-insensitive word-boundary matcher for a term.
// Boundary anchors are only attached next to word characters, so terms like
// "C#" or "CI/CD" still match. Single-letter terms keep boundaries on both
// sides, which \b gives us for free.
func termPattern(term string) (pattern *regexp.Regexp) {
	quoted := regexp.QuoteMeta(term)

	prefix := ""
	if isWordByte(term[0]) {
		prefix = `\b`
	}
	suffix := ""
	if isWordByte(term[len(term)-1]) {
		suffix = `\b`
	}

	pattern = regexp.MustCompile(`(?i)` + prefix + quoted + suffix)
	return pattern
}

func isWordByte(b byte) (word bool) {
	word = b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
	return word
}

// applyCompositeRules adds companion terms implied by co-occurring matches.
// Drone stacks that name both MAVSDK and ArduPilot nearly always run on a
// Raspberry Pi with OpenCV, and job posts in that niche rarely say so.
func applyCompositeRules(technical []string) (out []string) {
	out = technical

	hasMAVSDK := false
	hasArduPilot := false
	for _, term := range out {
		switch term {
		case "MAVSDK":
			hasMAVSDK = true
		case "ArduPilot":
			hasArduPilot = true
		}
	}

	if hasMAVSDK && hasArduPilot {
		out = append(out, "Raspberry Pi", "OpenCV")
	}

	return out
}
