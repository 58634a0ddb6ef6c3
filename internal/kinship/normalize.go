package kinship

// Normalize collapses "spouse's child" into "child" in one left-to-right pass.
// A run of spouse steps before a child step collapses with it, which keeps the
// result stable under a second pass. The input is not modified.
func Normalize(path []RelationType) []RelationType {
	out := make([]RelationType, 0, len(path))
	for _, step := range path {
		if step.IsChild() {
			for len(out) > 0 && out[len(out)-1].IsSpousal() {
				out = out[:len(out)-1]
			}
		}
		out = append(out, step)
	}
	return out
}
