package extractor

import (
	"context"
	"log/slog"
	"strings"
)

const extractionPrompt = `Analyze the job posting below and list ONLY the technologies and skills it explicitly mentions.

IMPORTANT:
- List ONLY terms that literally appear in the text
- Do NOT add technologies that are not in the text
- Keep exact spellings (Rust, C++, PostgreSQL, ClickHouse, and so on)

Job posting:
%TEXT%

Answer strictly in this format:

TECHNICAL SKILLS:
- skill1
- skill2

SOFT SKILLS:
- skill1
- skill2

KEYWORDS:
- word1
- word2`

// Model is the model-backed strategy. Any runtime failure degrades to the
// deterministic fallback, so Extract never surfaces provider errors.
type Model struct {
	client     *GeminiClient
	fallback   *Fallback
	candidates []string
	modelIdx   int
	logger     *slog.Logger
}

// NewModel creates the model-backed extractor. preferred names the first
// model to try; the remaining candidates are fixed fallback identifiers
// rotated through on "model not found"-class errors.
func NewModel(client *GeminiClient, preferred string, fallback *Fallback, logger *slog.Logger) (m *Model) {
	if preferred == "" {
		preferred = DefaultGeminiModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	m = &Model{
		client:   client,
		fallback: fallback,
		candidates: []string{
			preferred,
			"gemini-1.5-flash-latest",
			"gemini-1.0-pro",
			"gemini-pro",
		},
		logger: logger,
	}
	return m
}

// Extract asks the model for skills and verifies every candidate against the
// input text. Parse failures and provider errors fall back to the
// deterministic strategy.
func (m *Model) Extract(ctx context.Context, text string) (result Result, err error) {
	prompt := strings.Replace(extractionPrompt, "%TEXT%", text, 1)

	responseText, reqErr := m.client.GenerateContent(ctx, m.candidates[m.modelIdx], prompt)
	if reqErr != nil && IsModelNotFound(reqErr) {
		m.rotate()
		responseText, reqErr = m.client.GenerateContent(ctx, m.candidates[m.modelIdx], prompt)
	}
	if reqErr != nil {
		m.logger.Warn("model extraction failed, using fallback", "error", reqErr)
		result, err = m.fallback.Extract(ctx, text)
		return result, err
	}

	result = parseModelResponse(responseText, text)
	if result.Empty() {
		m.logger.Warn("model response yielded no skills, using fallback")
		result, err = m.fallback.Extract(ctx, text)
		return result, err
	}

	return result, err
}

func (m *Model) rotate() {
	m.modelIdx++
	if m.modelIdx >= len(m.candidates) {
		m.modelIdx = 0
	}
	m.logger.Warn("rotating extraction model", "model", m.candidates[m.modelIdx])
}

// parseModelResponse scans the response for the three section headers and
// their bullet lines. Every candidate must appear as a case-insensitive
// substring of the original text or it is discarded.
func parseModelResponse(response, original string) (result Result) {
	var technical, soft, keywords []string

	section := ""
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		switch {
		case strings.Contains(upper, "TECHNICAL SKILLS") || strings.Contains(upper, "TECHNICAL:"):
			section = "technical"
			continue
		case strings.Contains(upper, "SOFT SKILLS"):
			section = "soft"
			continue
		case strings.Contains(upper, "KEYWORDS") || strings.Contains(upper, "KEY WORDS"):
			section = "keywords"
			continue
		}

		if section == "" {
			continue
		}

		skill, isBullet := stripBullet(line)
		if !isBullet || skill == "" {
			continue
		}
		if !verifyInText(skill, original) {
			continue
		}

		switch section {
		case "technical":
			technical = append(technical, skill)
		case "soft":
			soft = append(soft, skill)
		case "keywords":
			keywords = append(keywords, skill)
		}
	}

	result = shape(technical, soft)
	// The model's own keyword list supplements the technical-first default
	// where it verified against the text.
	for _, kw := range keywords {
		if len(result.Keywords) >= MaxKeywords {
			break
		}
		result.Keywords = append(result.Keywords, kw)
	}
	result.Keywords = dedupe(result.Keywords)

	return result
}

func stripBullet(line string) (content string, isBullet bool) {
	for _, prefix := range []string{"-", "*", "•"} {
		if strings.HasPrefix(line, prefix) {
			content = strings.TrimSpace(strings.TrimPrefix(line, prefix))
			isBullet = true
			return content, isBullet
		}
	}
	return content, isBullet
}

// verifyInText is the anti-hallucination guard: a skill counts only if it
// literally occurs in the job text.
func verifyInText(skill, text string) (found bool) {
	found = strings.Contains(strings.ToLower(text), strings.ToLower(skill))
	return found
}
