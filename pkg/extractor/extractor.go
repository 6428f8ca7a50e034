package extractor

import (
	"context"
)

// Caps applied to every result regardless of strategy.
const (
	MaxTechnical = 15
	MaxSoft      = 8
	MaxKeywords  = 20

	// At most this many soft terms join the combined keyword list; the
	// rest of the list is technical terms, applied first.
	softKeywordShare = 3
)

// Result is the three-bucket output shape shared by both strategies, so
// downstream consumers never need to know which one ran.
type Result struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Keywords  []string `json:"keywords"`
}

// Empty reports whether no bucket holds any term.
func (r Result) Empty() (empty bool) {
	empty = len(r.Technical) == 0 && len(r.Soft) == 0 && len(r.Keywords) == 0
	return empty
}

// Extractor turns free-text job descriptions into a categorized skill set.
type Extractor interface {
	Extract(ctx context.Context, text string) (result Result, err error)
}

// shape dedupes each bucket preserving first-seen order, rebuilds the
// combined keyword list (technical terms first, then a few soft terms), and
// truncates everything to the fixed caps.
func shape(technical, soft []string) (result Result) {
	technical = dedupe(technical)
	soft = dedupe(soft)

	if len(technical) > MaxTechnical {
		technical = technical[:MaxTechnical]
	}
	if len(soft) > MaxSoft {
		soft = soft[:MaxSoft]
	}

	keywords := make([]string, 0, len(technical)+softKeywordShare)
	keywords = append(keywords, technical...)
	for i, s := range soft {
		if i >= softKeywordShare {
			break
		}
		keywords = append(keywords, s)
	}
	keywords = dedupe(keywords)
	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}

	result = Result{Technical: technical, Soft: soft, Keywords: keywords}
	return result
}

func dedupe(terms []string) (out []string) {
	out = make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}
