package intake

import "strings"

var urgentKeywords = map[Language][]string{
	English:    {"shutoff", "eviction", "today", "emergency", "urgent", "immediately"},
	Spanish:    {"corte", "desalojo", "hoy", "emergencia", "urgente", "inmediatamente"},
	French:     {"coupure", "expulsion", "aujourd'hui", "urgence", "urgent", "immédiatement"},
	German:     {"abgeschaltet", "räumung", "heute", "notfall", "dringend", "sofort"},
	Hindi:      {"बंद", "बेदखली", "आज", "आपातकाल", "तत्काल", "तुरंत"},
	Russian:    {"отключение", "выселение", "сегодня", "чрезвычайная ситуация", "срочно", "немедленно"},
	Portuguese: {"corte", "despejo", "hoje", "emergência", "urgente", "imediatamente"},
	Japanese:   {"停止", "立ち退き", "今日", "緊急", "すぐに"},
	Italian:    {"interruzione", "sfratto", "oggi", "emergenza", "urgente", "immediatamente"},
	Dutch:      {"afsluiting", "ontruiming", "vandaag", "noodgeval", "urgent", "onmiddellijk"},
}

// IsUrgent reports whether text mentions a crisis (shutoff, eviction, an
// emergency) in the caller's language. Unknown languages use English.
func IsUrgent(text string, lang Language) bool {
	words, ok := urgentKeywords[lang]
	if !ok {
		words = urgentKeywords[English]
	}
	return containsAny(strings.ToLower(text), words)
}
