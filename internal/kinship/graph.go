package kinship

import "fmt"

type Person struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

// Relation reads "Source is Target's Type".
type Relation struct {
	ID       string       `json:"id"`
	SourceID string       `json:"source_id"`
	TargetID string       `json:"target_id"`
	Type     RelationType `json:"type"`
}

// Edge reads "To is the owning person's Type". Inferred marks edges computed
// through the inverse table rather than stored.
type Edge struct {
	To         string
	Type       RelationType
	RelationID string
	Inferred   bool
}

type BuildStats struct {
	Persons           int `json:"persons"`
	Relations         int `json:"relations"`
	Edges             int `json:"edges"`
	DuplicatePersons  int `json:"duplicate_persons"`
	SkippedDangling   int `json:"skipped_dangling"`
	SkippedSelfLinked int `json:"skipped_self_linked"`
}

// Graph is immutable once built; every reference is a person id.
type Graph struct {
	persons   map[string]Person
	adj       map[string][]Edge
	relations []Relation
}

// BuildGraph inserts, for each relation, the stored edge target->source and the
// inferred edge source->target. Relations pointing at unknown people or at
// themselves are skipped. An unknown relation type aborts the build.
func BuildGraph(persons []Person, relations []Relation) (*Graph, BuildStats, error) {
	stats := BuildStats{}
	g := &Graph{
		persons:   make(map[string]Person, len(persons)),
		adj:       make(map[string][]Edge, len(persons)),
		relations: make([]Relation, 0, len(relations)),
	}

	for _, p := range persons {
		if _, dup := g.persons[p.ID]; dup {
			stats.DuplicatePersons++
			continue
		}
		if p.Gender == "" {
			p.Gender = Unspecified
		}
		g.persons[p.ID] = p
	}
	stats.Persons = len(g.persons)

	for _, r := range relations {
		if !r.Type.Valid() {
			return nil, stats, fmt.Errorf("relation %s: %w: %q", r.ID, ErrUnmappedRelationType, string(r.Type))
		}
		if r.SourceID == r.TargetID {
			stats.SkippedSelfLinked++
			continue
		}
		if _, ok := g.persons[r.SourceID]; !ok {
			stats.SkippedDangling++
			continue
		}
		target, ok := g.persons[r.TargetID]
		if !ok {
			stats.SkippedDangling++
			continue
		}

		inv, err := Inverse(r.Type, target.Gender)
		if err != nil {
			return nil, stats, fmt.Errorf("relation %s: %w", r.ID, err)
		}

		g.adj[r.TargetID] = append(g.adj[r.TargetID], Edge{To: r.SourceID, Type: r.Type, RelationID: r.ID})
		g.adj[r.SourceID] = append(g.adj[r.SourceID], Edge{To: r.TargetID, Type: inv, RelationID: r.ID, Inferred: true})
		g.relations = append(g.relations, r)
		stats.Edges += 2
	}
	stats.Relations = len(g.relations)

	return g, stats, nil
}

func (g *Graph) Person(id string) (Person, bool) {
	if g == nil {
		return Person{}, false
	}
	p, ok := g.persons[id]
	return p, ok
}

// Edges returns the adjacency list of id in insertion order. The slice must not be modified.
func (g *Graph) Edges(id string) []Edge {
	if g == nil {
		return nil
	}
	return g.adj[id]
}

// Relations returns the relations that made it into the graph, in input order.
func (g *Graph) Relations() []Relation {
	if g == nil {
		return nil
	}
	return g.relations
}

func (g *Graph) PersonCount() int {
	if g == nil {
		return 0
	}
	return len(g.persons)
}
