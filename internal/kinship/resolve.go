package kinship

import "sort"

type Confidence string

const (
	ConfidenceExact    Confidence = "exact"
	ConfidencePattern  Confidence = "pattern-matched"
	ConfidenceFallback Confidence = "generic-fallback"
)

type Term struct {
	Text       string     `json:"term"`
	Roman      string     `json:"roman,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// Resolver maps a normalized path to a term. It never fails: paths it does not
// know get the gendered placeholder.
type Resolver struct {
	compounds map[string]Compound
}

func NewResolver(compounds map[string]Compound) *Resolver {
	if compounds == nil {
		compounds = map[string]Compound{}
	}
	return &Resolver{compounds: compounds}
}

func (r *Resolver) Resolve(path []RelationType, targetGender Gender) Term {
	switch len(path) {
	case 0:
		return Term{Text: SelfTerm, Roman: "Aafai", Confidence: ConfidenceExact}
	case 1:
		if l, err := LabelOf(path[0]); err == nil {
			return Term{Text: l.Nepali, Roman: l.Roman, Confidence: ConfidenceExact}
		}
	default:
		if c, ok := r.compounds[PathKey(path)]; ok {
			return Term{Text: c.Term, Roman: c.Roman, Confidence: ConfidencePattern}
		}
	}
	return Term{Text: fallbackTerm(targetGender), Confidence: ConfidenceFallback}
}

// Compounds returns a copy of the curated table ordered by key.
func (r *Resolver) Compounds() []Compound {
	out := make([]Compound, 0, len(r.compounds))
	for _, c := range r.compounds {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
