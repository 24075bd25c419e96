package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sycomix/inpoint-ai-backend/internal/model"
)

const englishDoc = "The city should expand the bike lane network. " +
	"Bike lanes reduce traffic congestion in the city center. " +
	"Expanding the network encourages commuters to cycle. " +
	"Congestion costs the city millions every year. " +
	"Cycling also improves public health across the city."

func TestSummarizeReturnsInputSentences(t *testing.T) {
	summary := Summarize(englishDoc, model.LanguageEnglish, 2)
	assert.NotEmpty(t, summary)

	for _, line := range strings.Split(summary, "\n") {
		assert.Contains(t, englishDoc, line)
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	assert.Equal(t, "", Summarize("", model.LanguageEnglish, 5))
	assert.Equal(t, "", Summarize(englishDoc, model.LanguageEnglish, 0))
}

func TestKeyphrases(t *testing.T) {
	phrases := Keyphrases(englishDoc, model.LanguageEnglish, 3)
	assert.LessOrEqual(t, len(phrases), 3)

	seen := make(map[string]bool)
	for _, p := range phrases {
		assert.NotEmpty(t, p)
		assert.False(t, seen[p], "duplicate keyphrase %q", p)
		seen[p] = true
	}
}

func TestKeyphrasesEmptyInput(t *testing.T) {
	assert.Empty(t, Keyphrases("", model.LanguageEnglish, 10))
	assert.Empty(t, Keyphrases(englishDoc, model.LanguageEnglish, 0))
}

func TestStripConjunctionPrefix(t *testing.T) {
	assert.Equal(t, "traffic", StripConjunctionPrefix("and traffic", model.LanguageEnglish))
	assert.Equal(t, "traffic", StripConjunctionPrefix("or and traffic", model.LanguageEnglish))
	assert.Equal(t, "sandwiches", StripConjunctionPrefix("sandwiches", model.LanguageEnglish))
	assert.Equal(t, "κυκλοφορια", StripConjunctionPrefix("και κυκλοφορια", model.LanguageGreek))
	assert.Equal(t, "κυκλοφορια", StripConjunctionPrefix("ή και κυκλοφορια", model.LanguageGreek))
}
