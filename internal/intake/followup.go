package intake

import "strings"

// FollowUp is what a caller wants once the resource list has been read.
type FollowUp string

const (
	FollowUpText     FollowUp = "text"
	FollowUpRead     FollowUp = "read"
	FollowUpTransfer FollowUp = "transfer"
	FollowUpClosing  FollowUp = "closing"
)

type followUpKeywords struct {
	intent    FollowUp
	common    []string
	localized map[Language][]string
}

// followUpPriority is checked in order, first hit wins.
var followUpPriority = []followUpKeywords{
	{
		intent: FollowUpText,
		common: []string{"text", "send", "email", "message"},
		localized: map[Language][]string{
			Spanish:    {"enviar", "mensaje", "correo"},
			French:     {"envoyer", "texto", "courriel"},
			German:     {"schicken", "senden", "nachricht"},
			Hindi:      {"भेज", "संदेश"},
			Russian:    {"отправ", "сообщение", "смс"},
			Portuguese: {"enviar", "mensagem"},
			Japanese:   {"送", "メッセージ", "メール"},
			Italian:    {"inviare", "invia", "messaggio"},
			Dutch:      {"stuur", "sturen", "bericht", "sms"},
		},
	},
	{
		intent: FollowUpRead,
		common: []string{"read", "slow", "repeat", "again"},
		localized: map[Language][]string{
			Spanish:    {"leer", "lee", "despacio", "repetir", "otra vez"},
			French:     {"lire", "lentement", "répéter", "encore"},
			German:     {"vorlesen", "langsam", "wiederholen", "nochmal"},
			Hindi:      {"पढ़", "धीरे", "दोहरा"},
			Russian:    {"прочитать", "прочитайте", "медленно", "повтор"},
			Portuguese: {"ler", "leia", "devagar", "repetir"},
			Japanese:   {"読", "ゆっくり", "もう一度"},
			Italian:    {"leggere", "leggi", "lentamente", "ripetere"},
			Dutch:      {"voorlezen", "langzaam", "herhaal", "opnieuw"},
		},
	},
	{
		intent: FollowUpTransfer,
		common: []string{"person", "human", "speak", "talk"},
		localized: map[Language][]string{
			Spanish:    {"persona", "humano", "hablar"},
			French:     {"personne", "humain", "parler"},
			German:     {"mensch", "person", "sprechen"},
			Hindi:      {"व्यक्ति", "इंसान", "बात"},
			Russian:    {"человек", "оператор", "поговорить"},
			Portuguese: {"pessoa", "humano", "falar"},
			Japanese:   {"人", "担当者", "話"},
			Italian:    {"persona", "umano", "parlare"},
			Dutch:      {"persoon", "mens", "spreken", "praten"},
		},
	},
}

// DetectFollowUp classifies a caller's reply after the resource list.
// Anything unrecognized is treated as the end of the conversation.
func DetectFollowUp(text string, lang Language) FollowUp {
	m := strings.ToLower(text)
	for _, fk := range followUpPriority {
		if containsAny(m, fk.common) || containsAny(m, fk.localized[lang]) {
			return fk.intent
		}
	}
	return FollowUpClosing
}
