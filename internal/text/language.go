package text

import (
	"github.com/abadojack/whatlanggo"

	"github.com/sycomix/inpoint-ai-backend/internal/model"
)

// DetectLanguage assigns a language class using top-1 language
// identification. Anything but English or Greek maps to unsupported.
func DetectLanguage(text string) model.Language {
	info := whatlanggo.Detect(text)
	switch info.Lang {
	case whatlanggo.Eng:
		return model.LanguageEnglish
	case whatlanggo.Ell:
		return model.LanguageGreek
	default:
		return model.LanguageUnsupported
	}
}
