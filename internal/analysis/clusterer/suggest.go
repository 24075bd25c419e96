package clusterer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sycomix/inpoint-ai-backend/internal/llm"
	"github.com/sycomix/inpoint-ai-backend/internal/model"
	"github.com/sycomix/inpoint-ai-backend/internal/text"
)

type languageSamples struct {
	ids        []string
	texts      []string
	embeddings [][]float32
}

// SuggestClusters fits one clusterer per language from the workspace's
// discussions, assigns every eligible discussion to a cluster, and
// summarizes each non-empty cluster. Issue and Solution messages are
// structural and excluded. Returns empty per-language cluster lists when
// fewer than three relevant discussions exist.
func SuggestClusters(ctx context.Context, discussions []model.Discussion, embedder llm.Embedder, seed int64, topSentences int, logger *log.Logger) (map[model.Language][]model.ClusterSummary, error) {
	clusters := map[model.Language][]model.ClusterSummary{
		model.LanguageEnglish: {},
		model.LanguageGreek:   {},
	}

	relevant := make([]model.Discussion, 0, len(discussions))
	for _, d := range discussions {
		if d.Position == model.PositionIssue || d.Position == model.PositionSolution {
			continue
		}
		relevant = append(relevant, d)
	}
	if len(relevant) < MinSamples {
		return clusters, nil
	}

	byLanguage := make(map[model.Language]*languageSamples)
	for _, d := range relevant {
		lang := text.DetectLanguage(d.Text)
		if lang == model.LanguageUnsupported {
			logger.Debug("unsupported language excluded from clustering", "id", d.ID)
			continue
		}
		normalized := text.Normalize(d.Text)
		if normalized == "" {
			continue
		}
		vec, err := embedder.Embed(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("failed to embed discussion %s: %w", d.ID, err)
		}

		samples, ok := byLanguage[lang]
		if !ok {
			samples = &languageSamples{}
			byLanguage[lang] = samples
		}
		samples.ids = append(samples.ids, d.ID)
		samples.texts = append(samples.texts, normalized)
		samples.embeddings = append(samples.embeddings, vec)
	}

	for _, lang := range model.SupportedLanguages() {
		samples := byLanguage[lang]
		if samples == nil || len(samples.texts) < MinSamples {
			continue
		}

		c := New(seed)
		if err := c.Fit(samples.texts, samples.embeddings); err != nil {
			return nil, fmt.Errorf("failed to fit %s clusterer: %w", lang, err)
		}

		clusters[lang] = summarizeClusters(c, samples, lang, topSentences)
	}

	return clusters, nil
}

// summarizeClusters groups member ids and texts by cluster label, joins
// each cluster's texts and produces one extractive summary. Member text
// lists are discarded afterwards to keep output size bounded.
func summarizeClusters(c *Clusterer, samples *languageSamples, lang model.Language, topSentences int) []model.ClusterSummary {
	nodes := make(map[int][]string)
	texts := make(map[int][]string)
	for i, vec := range samples.embeddings {
		label := c.Predict(vec)
		nodes[label] = append(nodes[label], samples.ids[i])
		texts[label] = append(texts[label], samples.texts[i])
	}

	labels := make([]int, 0, len(nodes))
	for label := range nodes {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	summaries := make([]model.ClusterSummary, 0, len(labels))
	for _, label := range labels {
		joined := strings.Join(texts[label], " ")
		summaries = append(summaries, model.ClusterSummary{
			Label:      label,
			Nodes:      nodes[label],
			MedoidText: c.MedoidText(label),
			Summary:    text.Summarize(joined, lang, topSentences),
		})
	}
	return summaries
}
