package text

import "github.com/sycomix/inpoint-ai-backend/internal/model"

// conjunctionPrefixes are stoplisted leading conjunctions stripped from
// extracted keyphrases.
var conjunctionPrefixes = map[model.Language][]string{
	model.LanguageEnglish: {"and ", "or "},
	model.LanguageGreek:   {"και ", "ή "},
}

// greekStopwords feeds the TextRank language filter; the default language
// only knows English.
var greekStopwords = []string{
	"ο", "η", "το", "οι", "τα", "του", "της", "των", "τον", "την", "και",
	"κι", "κ", "ειμαι", "εισαι", "ειναι", "ειμαστε", "ειστε", "στο", "στον",
	"στη", "στην", "μα", "αλλα", "απο", "για", "προς", "με", "σε", "ως",
	"παρα", "αντι", "κατα", "μετα", "θα", "να", "δε", "δεν", "μη", "μην",
	"επι", "ενω", "εαν", "αν", "τοτε", "που", "πως", "ποιος", "ποια", "ποιο",
	"ποιοι", "ποιες", "ποιων", "αυτος", "αυτη", "αυτο", "αυτοι", "αυτες",
	"αυτα", "εκεινος", "εκεινη", "εκεινο", "οπως", "ομως", "ισως", "οσο",
	"οτι", "οταν", "αλλο", "αλλη", "αλλος", "ετσι", "ολα", "ολοι", "ολες",
	"μου", "σου", "μας", "σας", "τους", "τις", "τι", "εγω", "εσυ", "εμεις",
	"εσεις", "ειχα", "ειχες", "ειχε", "ειχαμε", "ειχατε", "ειχαν", "πολυ",
	"εχει", "εχω", "εχεις", "εχουμε", "εχετε", "εχουν", "θελω", "πρεπει",
}
