package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
	"github.com/yungbote/vamshavali-backend/internal/platform/neo4jdb"
)

// FamilyGraph stores the family as (:Person)-[:KIN {type}]->(:Person), where
// an arrow from A to B with type T reads "A is B's T".
type FamilyGraph struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewFamilyGraph(client *neo4jdb.Client, baseLog *logger.Logger) (*FamilyGraph, error) {
	if client == nil || client.Driver == nil {
		return nil, errors.New("family graph: neo4j client required")
	}
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	return &FamilyGraph{client: client, log: baseLog.With("store", "Neo4jFamilyGraph")}, nil
}

func (g *FamilyGraph) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: g.client.Database,
	})
}

func (g *FamilyGraph) Load(ctx context.Context) (kinship.Dataset, error) {
	session := g.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		var ds kinship.Dataset

		res, err := tx.Run(ctx, `
MATCH (p:Person)
RETURN p.id AS id, coalesce(p.name, '') AS name, coalesce(p.gender, '') AS gender, coalesce(p.synced_at, '') AS synced_at
ORDER BY id
`, nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		latest := ""
		for _, rec := range records {
			gender, err := kinship.ParseGender(recordString(rec, "gender"))
			if err != nil {
				gender = kinship.Unspecified
			}
			ds.Persons = append(ds.Persons, kinship.Person{
				ID:     recordString(rec, "id"),
				Name:   recordString(rec, "name"),
				Gender: gender,
			})
			if s := recordString(rec, "synced_at"); s > latest {
				latest = s
			}
		}

		res, err = tx.Run(ctx, `
MATCH (a:Person)-[k:KIN]->(b:Person)
RETURN coalesce(k.id, '') AS id, a.id AS source_id, b.id AS target_id, k.type AS type, coalesce(k.synced_at, '') AS synced_at
ORDER BY id, source_id, target_id
`, nil)
		if err != nil {
			return nil, err
		}
		records, err = res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			ds.Relations = append(ds.Relations, kinship.Relation{
				ID:       recordString(rec, "id"),
				SourceID: recordString(rec, "source_id"),
				TargetID: recordString(rec, "target_id"),
				Type:     kinship.RelationType(recordString(rec, "type")),
			})
			if s := recordString(rec, "synced_at"); s > latest {
				latest = s
			}
		}
		ds.Revision = fmt.Sprintf("neo4j:p%d:r%d:%s", len(ds.Persons), len(ds.Relations), latest)
		return ds, nil
	})
	if err != nil {
		return kinship.Dataset{}, fmt.Errorf("neo4j load family: %w", err)
	}
	return out.(kinship.Dataset), nil
}

// Sync upserts every person and relation of ds. Existing nodes not in ds
// are left alone.
func (g *FamilyGraph) Sync(ctx context.Context, ds kinship.Dataset) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	persons := make([]map[string]any, 0, len(ds.Persons))
	for _, p := range ds.Persons {
		if p.ID == "" {
			continue
		}
		persons = append(persons, map[string]any{
			"id":        p.ID,
			"name":      p.Name,
			"gender":    p.Gender.String(),
			"synced_at": now,
		})
	}
	rels := make([]map[string]any, 0, len(ds.Relations))
	for _, r := range ds.Relations {
		if !r.Type.Valid() {
			return fmt.Errorf("relation %s: %w: %q", r.ID, kinship.ErrUnmappedRelationType, string(r.Type))
		}
		id := r.ID
		if id == "" {
			id = r.SourceID + ":" + string(r.Type) + ":" + r.TargetID
		}
		rels = append(rels, map[string]any{
			"id":        id,
			"source_id": r.SourceID,
			"target_id": r.TargetID,
			"type":      string(r.Type),
			"synced_at": now,
		})
	}

	session := g.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	if res, err := session.Run(ctx, `CREATE CONSTRAINT person_id_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.id IS UNIQUE`, nil); err != nil {
		g.log.Warn("neo4j schema init failed (continuing)", "error", err)
	} else {
		_, _ = res.Consume(ctx)
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if len(persons) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $persons AS p
MERGE (n:Person {id: p.id})
SET n += p
`, map[string]any{"persons": persons})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		if len(rels) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MATCH (a:Person {id: r.source_id})
MATCH (b:Person {id: r.target_id})
MERGE (a)-[k:KIN {id: r.id}]->(b)
SET k.type = r.type, k.synced_at = r.synced_at
`, map[string]any{"rels": rels})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("neo4j sync family: %w", err)
	}
	g.log.Info("family synced to neo4j", "persons", len(persons), "relations", len(rels))
	return nil
}

func recordString(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
