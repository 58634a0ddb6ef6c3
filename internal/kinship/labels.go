package kinship

import "fmt"

type Label struct {
	Nepali  string `json:"nepali"`
	Roman   string `json:"roman"`
	English string `json:"english"`
}

const (
	SelfTerm = "आफै (Self)"

	fallbackMale   = "नातेदार (पुरुष)"
	fallbackFemale = "नातेदार (महिला)"
)

var labels = map[RelationType]Label{
	Buwa:   {"बुवा", "Buwa", "father"},
	Ama:    {"आमा", "Aama", "mother"},
	Chhora: {"छोरा", "Chhora", "son"},
	Chhori: {"छोरी", "Chhori", "daughter"},
	Daju:   {"दाजु", "Daju", "elder brother"},
	Bhai:   {"भाइ", "Bhai", "younger brother"},
	Didi:   {"दिदी", "Didi", "elder sister"},
	Bahini: {"बहिनी", "Bahini", "younger sister"},

	Mama:     {"मामा", "Mama", "mother's brother"},
	Maiju:    {"माइजू", "Maiju", "mother's brother's wife"},
	Bhanja:   {"भान्जा", "Bhanja", "sister's son"},
	Bhanji:   {"भान्जी", "Bhanji", "sister's daughter"},
	ThuliAma: {"ठूली आमा", "Thuli Aama", "mother's elder sister"},
	SaniAma:  {"सानी आमा", "Sani Aama", "mother's younger sister"},

	Kaka:      {"काका", "Kaka", "father's younger brother"},
	Kaki:      {"काकी", "Kaki", "father's younger brother's wife"},
	ThuloBuwa: {"ठूलो बुवा", "Thulo Buwa", "father's elder brother"},
	Bhatija:   {"भतिजा", "Bhatija", "brother's son"},
	Bhatiji:   {"भतिजी", "Bhatiji", "brother's daughter"},
	Fupu:      {"फुपू", "Phupu", "father's sister"},
	Fupaju:    {"फुपाजु", "Phupaju", "father's sister's husband"},
	Bhada:     {"भादा", "Bhada", "brother's son (woman speaking)"},
	Bhadai:    {"भादै", "Bhadai", "brother's daughter (woman speaking)"},

	Shreeman:  {"श्रीमान", "Shreeman", "husband"},
	Shreemati: {"श्रीमती", "Shreemati", "wife"},
	Sasura:    {"ससुरा", "Sasura", "father-in-law"},
	Sasu:      {"सासू", "Sasu", "mother-in-law"},
	Jwai:      {"ज्वाईं", "Jwain", "son-in-law"},
	Buhari:    {"बुहारी", "Buhari", "daughter-in-law"},
	Salo:      {"सालो", "Salo", "wife's younger brother"},
	Sali:      {"साली", "Sali", "wife's sister"},
	Jethan:    {"जेठान", "Jethan", "wife's elder brother"},
	Bhena:     {"भेना", "Bhena", "sister's husband"},
	Nanda:     {"नन्द", "Nanda", "husband's sister"},

	Baje:         {"बाजे", "Baje", "grandfather"},
	Bajyai:       {"बज्यै", "Bajyai", "grandmother"},
	Nati:         {"नाति", "Nati", "grandson"},
	Natini:       {"नातिनी", "Natini", "granddaughter"},
	JyujyuBaje:   {"ज्युज्यु बाजे", "Jyu-jyu Baje", "great-grandfather"},
	JyujyuBajyai: {"ज्युज्यु बज्यै", "Jyu-jyu Bajyai", "great-grandmother"},
	Panati:       {"पनाति", "Pan-nati", "great-grandson"},
	Panatini:     {"पनातिनी", "Pan-natini", "great-granddaughter"},
}

func LabelOf(t RelationType) (Label, error) {
	l, ok := labels[t]
	if !ok {
		return Label{}, fmt.Errorf("%w: no label for %q", ErrUnmappedRelationType, string(t))
	}
	return l, nil
}

// fallbackTerm has no neutral form: anyone not recorded as male gets the
// female placeholder.
func fallbackTerm(g Gender) string {
	if g == Male {
		return fallbackMale
	}
	return fallbackFemale
}
