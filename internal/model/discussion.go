package model

// Position is the argumentative role of a discussion message.
type Position string

const (
	PositionIssue    Position = "Issue"
	PositionSolution Position = "Solution"
	PositionNote     Position = "Note"
	PositionAgainst  Position = "Position-against"
	PositionInFavor  Position = "Position-in-favor"
)

// Positions returns every configured type group, in a fixed order.
func Positions() []Position {
	return []Position{
		PositionIssue,
		PositionSolution,
		PositionNote,
		PositionAgainst,
		PositionInFavor,
	}
}

// positionCodes is the numeric encoding used by the upstream provider.
var positionCodes = map[int]Position{
	-2: PositionSolution,
	-1: PositionAgainst,
	0:  PositionNote,
	1:  PositionInFavor,
	2:  PositionIssue,
}

// PositionFromCode maps the upstream numeric position code to its label.
// Unknown codes map to Issue.
func PositionFromCode(code int) Position {
	if p, ok := positionCodes[code]; ok {
		return p
	}
	return PositionIssue
}

// Language is the detected language class of a discussion text. Every
// discussion is assigned exactly one class per run; unsupported texts are
// excluded from classification, clustering and similarity.
type Language string

const (
	LanguageEnglish     Language = "english"
	LanguageGreek       Language = "greek"
	LanguageUnsupported Language = "unsupported"
)

// SupportedLanguages lists the language classes the pipeline can model.
func SupportedLanguages() []Language {
	return []Language{LanguageEnglish, LanguageGreek}
}

// Discussion is an immutable snapshot of one message, fetched once per run.
type Discussion struct {
	ID       string   `json:"id" bson:"id"`
	SpaceID  string   `json:"spaceId" bson:"spaceId"`
	UserID   string   `json:"userId" bson:"userId"`
	Position Position `json:"position" bson:"position"`
	Text     string   `json:"text" bson:"text"`
}

// Workspace partitions discussions; all graph and clustering computation
// happens independently per workspace.
type Workspace struct {
	ID          string `json:"id" bson:"id"`
	OwnerID     string `json:"ownerId" bson:"ownerId"`
	Description string `json:"description" bson:"description"`
	Summary     string `json:"summary" bson:"summary"`
}
