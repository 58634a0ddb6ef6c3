package kinship

import "fmt"

// Inverse returns the tag naming the target of a stored relation from the source's side.
// named is the gender of that target. Spousal pairs and the sibling-in-law cluster
// ignore it.
//
//	buwa, ama                   -> chhori / chhora
//	chhora, chhori              -> ama / buwa
//	daju, didi                  -> bahini / bhai
//	bhai, bahini                -> didi / daju
//	mama, maiju                 -> bhanji / bhanja
//	bhanja, bhanji              -> maiju / mama
//	thuli_ama, sani_ama         -> chhori / chhora
//	kaka, kaki, thulo_buwa      -> bhatiji / bhatija
//	bhatija, bhatiji            -> kaki / kaka
//	fupu, fupaju                -> bhadai / bhada
//	bhada, bhadai               -> fupu / fupaju
//	shreeman                    -> shreemati
//	shreemati                   -> shreeman
//	sasura, sasu                -> buhari / jwai
//	jwai, buhari                -> sasu / sasura
//	salo, sali, jethan          -> bhena
//	bhena                       -> sali / salo
//	nanda                       -> buhari
//	baje, bajyai                -> natini / nati
//	nati, natini                -> bajyai / baje
//	jyujyu_baje, jyujyu_bajyai  -> panatini / panati
//	panati, panatini            -> jyujyu_bajyai / jyujyu_baje
func Inverse(t RelationType, named Gender) (RelationType, error) {
	switch t {
	case Buwa, Ama:
		return pick(named, Chhori, Chhora), nil
	case Chhora, Chhori:
		return pick(named, Ama, Buwa), nil
	case Daju, Didi:
		return pick(named, Bahini, Bhai), nil
	case Bhai, Bahini:
		return pick(named, Didi, Daju), nil

	case Mama, Maiju:
		return pick(named, Bhanji, Bhanja), nil
	case Bhanja, Bhanji:
		return pick(named, Maiju, Mama), nil
	case ThuliAma, SaniAma:
		return pick(named, Chhori, Chhora), nil

	case Kaka, Kaki, ThuloBuwa:
		return pick(named, Bhatiji, Bhatija), nil
	case Bhatija, Bhatiji:
		return pick(named, Kaki, Kaka), nil
	case Fupu, Fupaju:
		return pick(named, Bhadai, Bhada), nil
	case Bhada, Bhadai:
		return pick(named, Fupu, Fupaju), nil

	case Shreeman:
		return Shreemati, nil
	case Shreemati:
		return Shreeman, nil
	case Sasura, Sasu:
		return pick(named, Buhari, Jwai), nil
	case Jwai, Buhari:
		return pick(named, Sasu, Sasura), nil
	case Salo, Sali, Jethan:
		return Bhena, nil
	case Bhena:
		return pick(named, Sali, Salo), nil
	case Nanda:
		return Buhari, nil

	case Baje, Bajyai:
		return pick(named, Natini, Nati), nil
	case Nati, Natini:
		return pick(named, Bajyai, Baje), nil
	case JyujyuBaje, JyujyuBajyai:
		return pick(named, Panatini, Panati), nil
	case Panati, Panatini:
		return pick(named, JyujyuBajyai, JyujyuBaje), nil
	}
	return "", fmt.Errorf("%w: no inverse for %q", ErrUnmappedRelationType, string(t))
}

// ValidateTables checks that every tag has a category, a label and an inverse for
// every gender, and that each inverse is itself a known tag.
func ValidateTables() error {
	genders := []Gender{Male, Female, Unspecified}
	for _, t := range allRelationTypes {
		if _, err := t.category(); err != nil {
			return err
		}
		if _, err := LabelOf(t); err != nil {
			return err
		}
		for _, g := range genders {
			inv, err := Inverse(t, g)
			if err != nil {
				return err
			}
			if !inv.Valid() {
				return fmt.Errorf("%w: inverse of %q for %s is %q", ErrUnmappedRelationType, t, g, inv)
			}
		}
	}
	if len(labels) != len(allRelationTypes) {
		return fmt.Errorf("label table has %d entries, enumeration has %d", len(labels), len(allRelationTypes))
	}
	return nil
}
