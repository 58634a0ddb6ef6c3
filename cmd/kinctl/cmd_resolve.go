package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/data/filestore"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/phrasing"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/router"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

func newResolveCmd(root *rootOptions) *cobra.Command {
	var (
		phrase bool
		asJSON bool
		engine string
	)
	cmd := &cobra.Command{
		Use:   "resolve FROM TO",
		Short: "Name TO from FROM's point of view",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := cliLogger(root.verbose)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ds, err := filestore.LoadFile(ctx, root.family)
			if err != nil {
				return err
			}

			var aug kinship.Augmenter
			if phrase {
				aug, err = cliAugmenter(engine, log)
				if err != nil {
					return err
				}
			}
			eng, err := newEngine(ds, aug, log)
			if err != nil {
				return err
			}

			res, err := eng.Resolve(ctx, args[0], args[1], kinship.ResolveOptions{Phrase: phrase})
			if errors.Is(err, kinship.ErrNoPathFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "no relationship between %s and %s\n", args[0], args[1])
				return nil
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", res.Phrase)
			if res.Roman != "" {
				fmt.Fprintf(out, "  roman:      %s\n", res.Roman)
			}
			fmt.Fprintf(out, "  confidence: %s\n", res.Confidence)
			fmt.Fprintf(out, "  path:       %s\n", joinTypes(res.Path))
			if res.PhrasingError != "" {
				fmt.Fprintf(out, "  phrasing:   %s (%s)\n", res.Phrasing, res.PhrasingError)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&phrase, "phrase", false, "Ask the phrasing engine for a natural answer")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	cmd.Flags().StringVar(&engine, "engine", "", "Phrasing engine (overrides config phrasing.engine.type)")
	return cmd
}

func newEngine(ds kinship.Dataset, aug kinship.Augmenter, log *logger.Logger) (*kinship.Engine, error) {
	compounds, err := kinship.DefaultCompounds()
	if err != nil {
		return nil, err
	}
	eng := kinship.NewEngine(kinship.StaticSource(ds), kinship.NewResolver(compounds), log, kinship.EngineOptions{Augmenter: aug})
	if _, err := eng.Install(ds); err != nil {
		return nil, err
	}
	return eng, nil
}

func cliAugmenter(engineType string, log *logger.Logger) (kinship.Augmenter, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	pc := cfg.Phrasing
	if engineType != "" {
		pc.Engine.Type = engineType
	}
	if pc.Engine.Type == "none" {
		pc.Engine.Type = "mock"
	}
	eng, err := router.New(pc.Engine)
	if err != nil {
		return nil, err
	}
	if eng == nil {
		return nil, fmt.Errorf("phrasing engine %q is disabled", pc.Engine.Type)
	}
	return phrasing.New(eng, phrasing.Options{
		Model:        pc.Model,
		Temperature:  pc.Temperature,
		Timeout:      pc.Timeout.Duration,
		RetryBackoff: pc.RetryBackoff.Duration,
	}, log)
}

func joinTypes(ts []kinship.RelationType) string {
	if len(ts) == 0 {
		return "-"
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, " > ")
}

func cliLogger(verbose bool) *logger.Logger {
	if !verbose {
		return logger.NewNop()
	}
	log, err := logger.New("development")
	if err != nil {
		return logger.NewNop()
	}
	return log
}
