package text

import (
	"strings"

	textrank "github.com/DavidBelicza/TextRank/v2"

	"github.com/sycomix/inpoint-ai-backend/internal/model"
)

// newRank builds and ranks a TextRank graph for a single document.
func newRank(content string, lang model.Language) *textrank.TextRank {
	tr := textrank.NewTextRank()
	rule := textrank.NewDefaultRule()
	language := textrank.NewDefaultLanguage()
	if lang == model.LanguageGreek {
		language.SetWords("el", greekStopwords)
		language.SetActiveLanguage("el")
	}
	tr.Populate(content, language, rule)
	tr.Ranking(textrank.NewDefaultAlgorithm())
	return tr
}

// Summarize extracts the topSentences most significant sentences of the
// text, ranked by relation weight. The result only contains sentences
// present in the input.
func Summarize(content string, lang model.Language, topSentences int) string {
	content = strings.TrimSpace(content)
	if content == "" || topSentences <= 0 {
		return ""
	}

	tr := newRank(content, lang)
	sentences := textrank.FindSentencesByRelationWeight(tr, topSentences)

	parts := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if v := strings.TrimSpace(s.Value); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		// Degenerate single-sentence input; ranking needs relations.
		return content
	}
	return strings.Join(parts, "\n")
}

// Keyphrases extracts up to topN significant phrases, filtered of
// stoplisted leading conjunctions.
func Keyphrases(content string, lang model.Language, topN int) []string {
	keyphrases := []string{}
	content = strings.TrimSpace(content)
	if content == "" || topN <= 0 {
		return keyphrases
	}

	tr := newRank(content, lang)
	seen := make(map[string]bool)
	for _, p := range textrank.FindPhrases(tr) {
		phrase := StripConjunctionPrefix(p.Left+" "+p.Right, lang)
		if phrase == "" || seen[phrase] {
			continue
		}
		seen[phrase] = true
		keyphrases = append(keyphrases, phrase)
		if len(keyphrases) == topN {
			break
		}
	}
	return keyphrases
}

// StripConjunctionPrefix removes stoplisted leading conjunctions from a
// keyphrase, repeatedly, so "and or x" reduces to "x".
func StripConjunctionPrefix(phrase string, lang model.Language) string {
	phrase = strings.TrimSpace(phrase)
	for {
		stripped := phrase
		for _, prefix := range conjunctionPrefixes[lang] {
			stripped = strings.TrimPrefix(stripped, prefix)
		}
		stripped = strings.TrimSpace(stripped)
		if stripped == phrase {
			return phrase
		}
		phrase = stripped
	}
}
