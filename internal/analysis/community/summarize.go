package community

import (
	"context"
	"strings"

	"github.com/sycomix/inpoint-ai-backend/internal/driver"
	"github.com/sycomix/inpoint-ai-backend/internal/model"
	"github.com/sycomix/inpoint-ai-backend/internal/text"
)

// Summary is one community's extractive digest: its majority position,
// member ids, a sentence summary and the top keyphrases.
type Summary struct {
	Position   model.Position
	IDs        []string
	Summary    string
	Keyphrases []string
}

// SummarizeCommunities reads community membership back from the graph and
// summarizes each community's joined text. Communities with fewer than two
// members or with no text map to a nil entry so callers still see every
// detected community id. Graph-store failures degrade to an empty map.
func (p *Partitioner) SummarizeCommunities(ctx context.Context, topN, topSentences int) map[int64]*Summary {
	summaries := make(map[int64]*Summary)

	res, err := p.driver.ExecuteQuery(ctx, driver.GetCommunityMembersQuery, nil)
	if err != nil {
		p.logger.Error("failed to read community members", "error", err)
		return summaries
	}

	for _, rec := range res.Records {
		communityVal, _ := rec.Get("community")
		community, ok := communityVal.(int64)
		if !ok {
			continue
		}
		idsVal, _ := rec.Get("ids")
		positionsVal, _ := rec.Get("positions")
		textsVal, _ := rec.Get("texts")

		ids := toStrings(idsVal)
		positions := toStrings(positionsVal)
		texts := toStrings(textsVal)

		summaries[community] = nil
		if len(ids) < 2 {
			continue
		}

		joined := strings.TrimSpace(strings.ReplaceAll(strings.Join(texts, " "), "\n", " "))
		if joined == "" {
			continue
		}

		lang := model.LanguageEnglish
		if text.DetectLanguage(joined) == model.LanguageGreek {
			lang = model.LanguageGreek
		}

		summaries[community] = &Summary{
			Position:   majorityPosition(positions),
			IDs:        ids,
			Summary:    text.Summarize(joined, lang, topSentences),
			Keyphrases: text.Keyphrases(joined, lang, topN),
		}
	}
	return summaries
}

// Aggregate merges per-position summary texts into one workspace-level
// digest with twice the keyphrase limit. Issue texts are structural and
// excluded.
func Aggregate(groups map[model.Position][]string, topN, topSentences int) model.Aggregated {
	var parts []string
	for _, position := range model.Positions() {
		if position == model.PositionIssue {
			continue
		}
		parts = append(parts, groups[position]...)
	}

	joined := strings.TrimSpace(strings.ReplaceAll(strings.Join(parts, " "), "\n", " "))
	if joined == "" {
		return model.Aggregated{Keyphrases: []string{}}
	}

	lang := model.LanguageEnglish
	if text.DetectLanguage(joined) == model.LanguageGreek {
		lang = model.LanguageGreek
	}

	return model.Aggregated{
		Summary:    text.Summarize(joined, lang, topSentences),
		Keyphrases: text.Keyphrases(joined, lang, 2*topN),
	}
}

// majorityPosition picks the most frequent recorded position; ties break
// towards the position listed first in the configured order.
func majorityPosition(positions []string) model.Position {
	counts := make(map[model.Position]int, len(positions))
	for _, p := range positions {
		counts[model.Position(p)]++
	}

	best := model.PositionNote
	bestCount := -1
	for _, p := range model.Positions() {
		if counts[p] > bestCount {
			best, bestCount = p, counts[p]
		}
	}
	return best
}

func toStrings(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
