package app

import (
	"fmt"

	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/data/filestore"
	"github.com/yungbote/vamshavali-backend/internal/data/graph"
	"github.com/yungbote/vamshavali-backend/internal/data/repos/family"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

// wireSource picks the relation store named by store.kind. The file store is
// also returned so the caller can watch it.
func wireSource(cfg *config.Config, clients Clients, log *logger.Logger) (kinship.Source, *filestore.Store, error) {
	switch cfg.Store.Kind {
	case "file":
		fs, err := filestore.New(cfg.Store.FamilyFile, log)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs, nil
	case "sql":
		if clients.SQL == nil {
			return nil, nil, fmt.Errorf("sql store not connected")
		}
		if cfg.Store.SQL.AutoMigrate {
			if err := clients.SQL.AutoMigrate(); err != nil {
				return nil, nil, fmt.Errorf("sql automigrate: %w", err)
			}
		}
		return family.NewStore(clients.SQL.DB(), log), nil, nil
	case "neo4j":
		g, err := graph.NewFamilyGraph(clients.Neo4j, log)
		if err != nil {
			return nil, nil, err
		}
		return g, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}
