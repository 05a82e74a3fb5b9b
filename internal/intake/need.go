package intake

import "strings"

// NeedType is the coarse help area a caller asks about.
type NeedType string

const (
	NeedEnergy     NeedType = "energy"
	NeedHousing    NeedType = "housing"
	NeedFood       NeedType = "food"
	NeedMoney      NeedType = "money"
	NeedHealth     NeedType = "health"
	NeedEmployment NeedType = "employment"
	NeedGeneral    NeedType = "general"
)

type needKeywords struct {
	need      NeedType
	common    []string
	localized map[Language][]string
}

// needPriority is checked in order; the first category with any keyword in
// the utterance wins. English keywords apply in every language because
// callers mix languages and speech-to-text often keeps English program terms.
var needPriority = []needKeywords{
	{
		need:   NeedEnergy,
		common: []string{"energy", "electric", "electricity", "power", "bill", "heating", "cooling", "gas", "utility"},
		localized: map[Language][]string{
			Spanish:    {"energía", "electricidad", "calefacción"},
			French:     {"énergie", "électricité", "chauffage"},
			German:     {"energie", "strom", "heizung"},
			Hindi:      {"ऊर्जा", "बिजली"},
			Russian:    {"энергия", "электричество", "отопление"},
			Portuguese: {"energia", "eletricidade"},
			Japanese:   {"エネルギー", "電気", "光熱費"},
			Italian:    {"energia", "elettricità", "bolletta"},
			Dutch:      {"energie", "stroom"},
		},
	},
	{
		need:   NeedHousing,
		common: []string{"housing", "rent", "rental", "apartment", "home", "shelter", "homeless"},
		localized: map[Language][]string{
			Spanish:    {"vivienda", "alquiler", "renta"},
			French:     {"logement", "loyer"},
			German:     {"wohnen", "wohnung", "miete"},
			Hindi:      {"आवास", "किराया"},
			Russian:    {"жилье", "аренда", "квартира"},
			Portuguese: {"habitação", "moradia", "aluguel"},
			Japanese:   {"住宅", "家賃", "住まい"},
			Italian:    {"alloggio", "affitto"},
			Dutch:      {"huisvesting", "huur", "woning"},
		},
	},
	{
		need:   NeedFood,
		common: []string{"food", "hungry", "hunger", "meal", "nutrition", "groceries", "eat"},
		localized: map[Language][]string{
			Spanish:    {"comida", "alimento", "hambre"},
			French:     {"nourriture", "faim", "repas"},
			German:     {"essen", "lebensmittel"},
			Hindi:      {"भोजन", "खाना"},
			Russian:    {"еда", "продукты"},
			Portuguese: {"comida", "alimentação", "fome"},
			Japanese:   {"食べ物", "食料"},
			Italian:    {"cibo", "fame"},
			Dutch:      {"voedsel", "eten"},
		},
	},
	{
		need:   NeedMoney,
		common: []string{"money", "cash", "financial", "income", "benefits", "assistance", "aid"},
		localized: map[Language][]string{
			Spanish:    {"dinero", "efectivo"},
			French:     {"argent"},
			German:     {"geld"},
			Hindi:      {"पैसा"},
			Russian:    {"деньги"},
			Portuguese: {"dinheiro"},
			Japanese:   {"お金"},
			Italian:    {"denaro", "soldi"},
			Dutch:      {"geld"},
		},
	},
	{
		need:   NeedHealth,
		common: []string{"health", "medical", "doctor", "healthcare", "medicine", "hospital"},
		localized: map[Language][]string{
			Spanish:    {"salud", "médico"},
			French:     {"santé", "médecin"},
			German:     {"gesundheit", "arzt"},
			Hindi:      {"स्वास्थ्य", "डॉक्टर"},
			Russian:    {"здоровье", "врач"},
			Portuguese: {"saúde", "médico"},
			Japanese:   {"健康", "医療", "病院"},
			Italian:    {"salute", "medico"},
			Dutch:      {"gezondheid", "dokter"},
		},
	},
	{
		need:   NeedEmployment,
		common: []string{"job", "work", "employment", "unemployed", "career", "training"},
		localized: map[Language][]string{
			Spanish:    {"trabajo", "empleo"},
			French:     {"emploi", "travail"},
			German:     {"arbeit"},
			Hindi:      {"नौकरी"},
			Russian:    {"работа"},
			Portuguese: {"emprego", "trabalho"},
			Japanese:   {"仕事", "就職"},
			Italian:    {"lavoro"},
			Dutch:      {"werk", "baan"},
		},
	},
}

// DetectNeed classifies the help area named in text. Unrecognized requests
// are NeedGeneral.
func DetectNeed(text string, lang Language) NeedType {
	m := strings.ToLower(text)
	for _, nk := range needPriority {
		if containsAny(m, nk.common) || containsAny(m, nk.localized[lang]) {
			return nk.need
		}
	}
	return NeedGeneral
}
