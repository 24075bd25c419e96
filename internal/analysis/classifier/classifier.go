// Package classifier trains one supervised argument classifier per
// language per run and suggests relabels for discussions whose predicted
// position differs from the recorded one. Models are run-scoped values
// returned by Train and passed explicitly into SuggestRelabels; they are
// discarded and retrained on the next run.
package classifier

import (
	"github.com/charmbracelet/log"
	"github.com/jbrukh/bayesian"

	"github.com/sycomix/inpoint-ai-backend/internal/model"
	"github.com/sycomix/inpoint-ai-backend/internal/text"
)

// languageModel is a bag-of-words multinomial naive-Bayes classifier over
// position labels for a single language.
type languageModel struct {
	classes    []bayesian.Class
	classifier *bayesian.Classifier
}

// Models holds the per-language classifiers of one run.
type Models struct {
	byLanguage map[model.Language]*languageModel
	logger     *log.Logger
}

type sample struct {
	tokens []string
	label  model.Position
}

// Train fits one classifier per language from all discussions of that
// language. Issue and Solution positions are structural rather than
// argumentative labels and are excluded from training. A language with
// fewer than two distinct labels is skipped; the underlying fit requires
// at least two classes.
func Train(discussions []model.Discussion, logger *log.Logger) *Models {
	samples := make(map[model.Language][]sample)
	for _, d := range discussions {
		if d.Position == model.PositionIssue || d.Position == model.PositionSolution {
			continue
		}
		lang := text.DetectLanguage(d.Text)
		if lang == model.LanguageUnsupported {
			logger.Debug("unsupported language excluded from training", "id", d.ID)
			continue
		}
		tokens := text.Tokens(d.Text)
		if len(tokens) == 0 {
			continue
		}
		samples[lang] = append(samples[lang], sample{tokens: tokens, label: d.Position})
	}

	m := &Models{
		byLanguage: make(map[model.Language]*languageModel),
		logger:     logger,
	}

	for _, lang := range model.SupportedLanguages() {
		langSamples := samples[lang]
		classes := distinctClasses(langSamples)
		if len(classes) < 2 {
			logger.Debug("skipping classifier training", "language", lang, "distinct_labels", len(classes))
			continue
		}

		clf := bayesian.NewClassifier(classes...)
		for _, s := range langSamples {
			clf.Learn(s.tokens, bayesian.Class(s.label))
		}
		m.byLanguage[lang] = &languageModel{classes: classes, classifier: clf}
	}

	return m
}

func distinctClasses(samples []sample) []bayesian.Class {
	seen := make(map[model.Position]bool)
	var classes []bayesian.Class
	for _, s := range samples {
		if !seen[s.label] {
			seen[s.label] = true
			classes = append(classes, bayesian.Class(s.label))
		}
	}
	return classes
}

// Has reports whether a model was trained for the given language.
func (m *Models) Has(lang model.Language) bool {
	_, ok := m.byLanguage[lang]
	return ok
}

// Predict returns the predicted position for a text of the given
// language, or ok=false when no model exists or the text is empty.
func (m *Models) Predict(lang model.Language, content string) (model.Position, bool) {
	lm, ok := m.byLanguage[lang]
	if !ok {
		return "", false
	}
	tokens := text.Tokens(content)
	if len(tokens) == 0 {
		return "", false
	}
	_, inx, _ := lm.classifier.LogScores(tokens)
	return model.Position(lm.classes[inx]), true
}

// SuggestRelabels predicts a position for every discussion whose language
// has a trained model and emits a suggestion when the prediction differs
// from the recorded position. Read-only relative to stored data.
func (m *Models) SuggestRelabels(discussions []model.Discussion) []model.Suggestion {
	suggestions := []model.Suggestion{}
	for _, d := range discussions {
		lang := text.DetectLanguage(d.Text)
		if lang == model.LanguageUnsupported {
			continue
		}
		predicted, ok := m.Predict(lang, d.Text)
		if !ok {
			continue
		}
		if predicted != d.Position {
			suggestions = append(suggestions, model.Suggestion{
				ID:                d.ID,
				SuggestedPosition: predicted,
				Text:              d.Text,
			})
		}
	}
	return suggestions
}
