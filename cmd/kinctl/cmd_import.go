package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/data/db"
	"github.com/yungbote/vamshavali-backend/internal/data/filestore"
	"github.com/yungbote/vamshavali-backend/internal/data/graph"
	"github.com/yungbote/vamshavali-backend/internal/data/repos/family"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
	"github.com/yungbote/vamshavali-backend/internal/platform/neo4jdb"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	var (
		toNeo4j bool
		toDB    bool
		dsn     string
		driver  string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Seed the SQL and/or Neo4j relation store from the family file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !toNeo4j && !toDB {
				return errors.New("choose at least one target: --db or --neo4j")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			log := cliLogger(root.verbose)

			ds, err := filestore.LoadFile(ctx, root.family)
			if err != nil {
				return err
			}
			// Imports refuse sets the engine could not build.
			if _, _, err := kinship.BuildGraph(ds.Persons, ds.Relations); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if toDB {
				sqlCfg, err := importSQLConfig(driver, dsn)
				if err != nil {
					return err
				}
				if err := importSQL(ctx, sqlCfg, ds, log); err != nil {
					return err
				}
				fmt.Fprintf(out, "sql: imported %d persons, %d relations\n", len(ds.Persons), len(ds.Relations))
			}
			if toNeo4j {
				if err := importNeo4j(ctx, ds, log); err != nil {
					return err
				}
				fmt.Fprintf(out, "neo4j: synced %d persons, %d relations\n", len(ds.Persons), len(ds.Relations))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&toDB, "db", false, "Import into the SQL store")
	cmd.Flags().BoolVar(&toNeo4j, "neo4j", false, "Sync into Neo4j (NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD)")
	cmd.Flags().StringVar(&driver, "driver", "", "SQL driver (sqlite or postgres); defaults to config")
	cmd.Flags().StringVar(&dsn, "dsn", "", "SQL DSN; defaults to config")
	return cmd
}

func importSQLConfig(driver, dsn string) (config.SQLConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.SQLConfig{}, err
	}
	out := cfg.Store.SQL
	if driver != "" {
		out.Driver = driver
	}
	if dsn != "" {
		out.DSN = dsn
	}
	return out, nil
}

func importSQL(ctx context.Context, cfg config.SQLConfig, ds kinship.Dataset, log *logger.Logger) error {
	svc, err := db.Open(cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()
	if err := svc.AutoMigrate(); err != nil {
		return err
	}
	return family.NewStore(svc.DB(), log).Import(ctx, ds)
}

func importNeo4j(ctx context.Context, ds kinship.Dataset, log *logger.Logger) error {
	client, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		return err
	}
	if client == nil {
		return errors.New("NEO4J_URI is not set")
	}
	defer client.Close(context.Background())

	g, err := graph.NewFamilyGraph(client, log)
	if err != nil {
		return err
	}
	return g.Sync(ctx, ds)
}
