package model

// Suggestion records a classifier prediction that differs from the
// position recorded upstream.
type Suggestion struct {
	ID                string   `json:"id" bson:"id"`
	SuggestedPosition Position `json:"suggestedPosition" bson:"suggestedPosition"`
	Text              string   `json:"text" bson:"text"`
}

// ClusterSummary describes one cluster of semantically similar messages.
// Member texts are dropped after summarization; only ids, the medoid text
// and the extractive summary are retained.
type ClusterSummary struct {
	Label      int      `json:"label" bson:"label"`
	Nodes      []string `json:"nodes" bson:"nodes"`
	MedoidText string   `json:"medoidText" bson:"medoidText"`
	Summary    string   `json:"summary" bson:"summary"`
}

// Aggregated is the second-order summary over all per-position community
// summaries of a workspace.
type Aggregated struct {
	Summary    string   `json:"summary" bson:"summary"`
	Keyphrases []string `json:"keyphrases" bson:"keyphrases"`
}

// AnalysisResult is the single per-workspace output document of one run.
// It fully replaces the previous result for that workspace.
type AnalysisResult struct {
	WorkspaceID       string                        `json:"workspaceId" bson:"_id"`
	Aggregated        Aggregated                    `json:"aggregated" bson:"aggregated"`
	PositionSummaries map[Position][]string         `json:"positionSummaries" bson:"positionSummaries"`
	Suggestions       []Suggestion                  `json:"suggestions" bson:"suggestions"`
	Clusters          map[Language][]ClusterSummary `json:"clusters" bson:"clusters"`
}
