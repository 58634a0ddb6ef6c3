package app

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/yungbote/vamshavali-backend/internal/clients/redis"
	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/data/db"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
	"github.com/yungbote/vamshavali-backend/internal/platform/neo4jdb"
)

type Clients struct {
	Bus   redis.InvalidationBus
	SQL   *db.Service
	Neo4j *neo4jdb.Client
}

func wireClients(cfg *config.Config, log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	bus, err := redis.NewInvalidationBusFromEnv(log, instanceOrigin())
	if err != nil {
		return out, fmt.Errorf("init redis invalidation bus: %w", err)
	}
	out.Bus = bus

	switch cfg.Store.Kind {
	case "sql":
		svc, err := db.Open(cfg.Store.SQL, log)
		if err != nil {
			out.close(log)
			return Clients{}, fmt.Errorf("init sql store: %w", err)
		}
		out.SQL = svc
	case "neo4j":
		client, err := neo4jdb.NewFromEnv(log)
		if err != nil {
			out.close(log)
			return Clients{}, fmt.Errorf("init neo4j: %w", err)
		}
		if client == nil {
			out.close(log)
			return Clients{}, fmt.Errorf("store.kind=neo4j requires NEO4J_URI")
		}
		out.Neo4j = client
	}
	return out, nil
}

func (c Clients) close(log *logger.Logger) {
	if c.Bus != nil {
		if err := c.Bus.Close(); err != nil {
			log.Warn("close invalidation bus", "error", err)
		}
	}
	if c.SQL != nil {
		if err := c.SQL.Close(); err != nil {
			log.Warn("close sql store", "error", err)
		}
	}
	if c.Neo4j != nil {
		if err := c.Neo4j.Close(context.Background()); err != nil {
			log.Warn("close neo4j", "error", err)
		}
	}
}

// instanceOrigin tags this replica's invalidation messages.
func instanceOrigin() string {
	host, _ := os.Hostname()
	if host == "" {
		host = "vamshavali"
	}
	return host + "-" + uuid.NewString()[:8]
}
