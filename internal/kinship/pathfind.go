package kinship

// Path is one shortest route. People has one more element than Types and
// starts with the source.
type Path struct {
	Types  []RelationType `json:"types"`
	People []string       `json:"people"`
}

func (p Path) Len() int { return len(p.Types) }

type hop struct {
	from string
	typ  RelationType
}

// FindPath runs a breadth-first search from source. Edges are expanded in
// adjacency order, so among equal-length routes the first discovered wins.
func (g *Graph) FindPath(source, target string) (Path, error) {
	if _, ok := g.Person(source); !ok {
		return Path{}, personNotFound(source)
	}
	if _, ok := g.Person(target); !ok {
		return Path{}, personNotFound(target)
	}

	visited := map[string]bool{source: true}
	parent := map[string]hop{}
	queue := []string{source}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == target {
			return g.trace(parent, source, target), nil
		}

		for _, e := range g.adj[cur] {
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			parent[e.To] = hop{from: cur, typ: e.Type}
			queue = append(queue, e.To)
		}
	}

	return Path{}, ErrNoPathFound
}

func (g *Graph) trace(parent map[string]hop, source, target string) Path {
	var types []RelationType
	people := []string{target}
	for cur := target; cur != source; {
		h := parent[cur]
		types = append(types, h.typ)
		people = append(people, h.from)
		cur = h.from
	}
	reverseTypes(types)
	reverseStrings(people)
	if types == nil {
		types = []RelationType{}
	}
	return Path{Types: types, People: people}
}

func reverseTypes(s []RelationType) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
