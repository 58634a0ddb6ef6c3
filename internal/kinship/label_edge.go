package kinship

// LabelEdge names one side of a stored relation. Forward is what the source is
// to the target (the stored type); reverse is what the target is to the
// source, which depends on the target's gender.
func LabelEdge(rel Relation, targetGender Gender, reverse bool) (string, error) {
	t := rel.Type
	if reverse {
		inv, err := Inverse(rel.Type, targetGender)
		if err != nil {
			return "", err
		}
		t = inv
	}
	l, err := LabelOf(t)
	if err != nil {
		return "", err
	}
	return l.Nepali, nil
}

// EdgeLabels carries both annotations of one relation.
type EdgeLabels struct {
	RelationID  string       `json:"relation_id"`
	SourceID    string       `json:"source_id"`
	TargetID    string       `json:"target_id"`
	Type        RelationType `json:"type"`
	InverseType RelationType `json:"inverse_type"`
	Forward     string       `json:"forward"`
	Reverse     string       `json:"reverse"`
}

func labelRelation(g *Graph, rel Relation) (EdgeLabels, error) {
	target, ok := g.Person(rel.TargetID)
	if !ok {
		return EdgeLabels{}, personNotFound(rel.TargetID)
	}
	inv, err := Inverse(rel.Type, target.Gender)
	if err != nil {
		return EdgeLabels{}, err
	}
	fwd, err := LabelEdge(rel, target.Gender, false)
	if err != nil {
		return EdgeLabels{}, err
	}
	rev, err := LabelEdge(rel, target.Gender, true)
	if err != nil {
		return EdgeLabels{}, err
	}
	return EdgeLabels{
		RelationID:  rel.ID,
		SourceID:    rel.SourceID,
		TargetID:    rel.TargetID,
		Type:        rel.Type,
		InverseType: inv,
		Forward:     fwd,
		Reverse:     rev,
	}, nil
}
