package intake

import "strings"

// Language is a short code for one of the supported conversation languages.
type Language string

const (
	English    Language = "en"
	Spanish    Language = "es"
	French     Language = "fr"
	German     Language = "de"
	Hindi      Language = "hi"
	Russian    Language = "ru"
	Portuguese Language = "pt"
	Japanese   Language = "ja"
	Italian    Language = "it"
	Dutch      Language = "nl"
)

// Supported lists every language the backend can speak, English first.
var Supported = []Language{English, Spanish, French, German, Hindi, Russian, Portuguese, Japanese, Italian, Dutch}

var languageNames = map[Language]string{
	English:    "English",
	Spanish:    "Spanish",
	French:     "French",
	German:     "German",
	Hindi:      "Hindi",
	Russian:    "Russian",
	Portuguese: "Portuguese",
	Japanese:   "Japanese",
	Italian:    "Italian",
	Dutch:      "Dutch",
}

// Name returns the English display name of the language.
func (l Language) Name() string {
	if n, ok := languageNames[l]; ok {
		return n
	}
	return languageNames[English]
}

// IsSupported reports whether l is one of the ten supported codes.
func (l Language) IsSupported() bool {
	_, ok := languageNames[l]
	return ok
}

// ParseLanguage maps a code to a supported Language, defaulting to English.
func ParseLanguage(code string) Language {
	l := Language(strings.ToLower(strings.TrimSpace(code)))
	if l.IsSupported() {
		return l
	}
	return English
}

type languageIndicators struct {
	lang  Language
	words []string
}

// languagePriority is checked top to bottom and the first hit wins. Order is
// load-bearing: "hallo" resolves to German before Dutch and "por favor" to
// Spanish before Portuguese.
var languagePriority = []languageIndicators{
	{Spanish, []string{"hola", "gracias", "ayuda", "necesito", "por favor"}},
	{French, []string{"bonjour", "merci", "aide", "besoin", "s'il vous plaît"}},
	{German, []string{"hallo", "danke", "hilfe", "brauche", "bitte"}},
	{Hindi, []string{"नमस्ते", "धन्यवाद", "मदद", "ज़रूरत"}},
	{Russian, []string{"привет", "спасибо", "помощь", "нужно"}},
	{Portuguese, []string{"olá", "obrigado", "ajuda", "preciso", "por favor"}},
	{Japanese, []string{"こんにちは", "ありがとう", "助け", "必要"}},
	{Italian, []string{"ciao", "grazie", "aiuto", "bisogno", "per favore"}},
	{Dutch, []string{"hallo", "dank je", "hulp", "nodig", "alsjeblieft"}},
}

// DetectLanguage guesses the caller's language from indicator words in text.
// Input without any indicator is treated as English.
func DetectLanguage(text string) Language {
	m := strings.ToLower(text)
	for _, li := range languagePriority {
		if containsAny(m, li.words) {
			return li.lang
		}
	}
	return English
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
