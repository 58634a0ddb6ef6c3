package kinship

import (
	"fmt"
	"strings"
)

// RelationType names what the source of a stored relation is to its target.
type RelationType string

const (
	// primary
	Buwa   RelationType = "buwa"
	Ama    RelationType = "ama"
	Chhora RelationType = "chhora"
	Chhori RelationType = "chhori"
	Daju   RelationType = "daju"
	Bhai   RelationType = "bhai"
	Didi   RelationType = "didi"
	Bahini RelationType = "bahini"

	// maternal
	Mama     RelationType = "mama"
	Maiju    RelationType = "maiju"
	Bhanja   RelationType = "bhanja"
	Bhanji   RelationType = "bhanji"
	ThuliAma RelationType = "thuli_ama"
	SaniAma  RelationType = "sani_ama"

	// paternal
	Kaka      RelationType = "kaka"
	Kaki      RelationType = "kaki"
	ThuloBuwa RelationType = "thulo_buwa"
	Bhatija   RelationType = "bhatija"
	Bhatiji   RelationType = "bhatiji"
	Fupu      RelationType = "fupu"
	Fupaju    RelationType = "fupaju"
	Bhada     RelationType = "bhada"
	Bhadai    RelationType = "bhadai"

	// spousal and in-law
	Shreeman  RelationType = "shreeman"
	Shreemati RelationType = "shreemati"
	Sasura    RelationType = "sasura"
	Sasu      RelationType = "sasu"
	Jwai      RelationType = "jwai"
	Buhari    RelationType = "buhari"
	Salo      RelationType = "salo"
	Sali      RelationType = "sali"
	Jethan    RelationType = "jethan"
	Bhena     RelationType = "bhena"
	Nanda     RelationType = "nanda"

	// multi-generational
	Baje         RelationType = "baje"
	Bajyai       RelationType = "bajyai"
	Nati         RelationType = "nati"
	Natini       RelationType = "natini"
	JyujyuBaje   RelationType = "jyujyu_baje"
	JyujyuBajyai RelationType = "jyujyu_bajyai"
	Panati       RelationType = "panati"
	Panatini     RelationType = "panatini"
)

type Category string

const (
	CategoryPrimary      Category = "primary"
	CategoryMaternal     Category = "maternal"
	CategoryPaternal     Category = "paternal"
	CategorySpousal      Category = "spousal"
	CategoryGenerational Category = "generational"
)

var allRelationTypes = []RelationType{
	Buwa, Ama, Chhora, Chhori, Daju, Bhai, Didi, Bahini,
	Mama, Maiju, Bhanja, Bhanji, ThuliAma, SaniAma,
	Kaka, Kaki, ThuloBuwa, Bhatija, Bhatiji, Fupu, Fupaju, Bhada, Bhadai,
	Shreeman, Shreemati, Sasura, Sasu, Jwai, Buhari, Salo, Sali, Jethan, Bhena, Nanda,
	Baje, Bajyai, Nati, Natini, JyujyuBaje, JyujyuBajyai, Panati, Panatini,
}

// AllRelationTypes returns the closed enumeration in display order.
func AllRelationTypes() []RelationType {
	out := make([]RelationType, len(allRelationTypes))
	copy(out, allRelationTypes)
	return out
}

func ParseRelationType(raw string) (RelationType, error) {
	t := RelationType(strings.ToLower(strings.TrimSpace(raw)))
	if _, err := t.category(); err != nil {
		return "", err
	}
	return t, nil
}

func (t RelationType) Valid() bool {
	_, err := t.category()
	return err == nil
}

// Category panics on a tag outside the enumeration; callers hold parsed values.
func (t RelationType) Category() Category {
	c, err := t.category()
	if err != nil {
		panic(err)
	}
	return c
}

func (t RelationType) category() (Category, error) {
	switch t {
	case Buwa, Ama, Chhora, Chhori, Daju, Bhai, Didi, Bahini:
		return CategoryPrimary, nil
	case Mama, Maiju, Bhanja, Bhanji, ThuliAma, SaniAma:
		return CategoryMaternal, nil
	case Kaka, Kaki, ThuloBuwa, Bhatija, Bhatiji, Fupu, Fupaju, Bhada, Bhadai:
		return CategoryPaternal, nil
	case Shreeman, Shreemati, Sasura, Sasu, Jwai, Buhari, Salo, Sali, Jethan, Bhena, Nanda:
		return CategorySpousal, nil
	case Baje, Bajyai, Nati, Natini, JyujyuBaje, JyujyuBajyai, Panati, Panatini:
		return CategoryGenerational, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnmappedRelationType, string(t))
	}
}

// IsSpousal reports husband/wife tags; in-laws are not spousal for path normalization.
func (t RelationType) IsSpousal() bool {
	return t == Shreeman || t == Shreemati
}

func (t RelationType) IsChild() bool {
	return t == Chhora || t == Chhori
}
