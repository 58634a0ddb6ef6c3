package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/vamshavali-backend/internal/data/filestore"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
)

func newLabelCmd() *cobra.Command {
	var (
		gender  string
		reverse bool
	)
	cmd := &cobra.Command{
		Use:   "label TYPE",
		Short: "Print the label of a relation tag, or of its inverse with --reverse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := kinship.ParseRelationType(args[0])
			if err != nil {
				return err
			}
			g, err := kinship.ParseGender(gender)
			if err != nil {
				return err
			}
			if reverse {
				if t, err = kinship.Inverse(t, g); err != nil {
					return err
				}
			}
			l, err := kinship.LabelOf(t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s (%s)\t%s\n", t, l.Nepali, l.Roman, l.English)
			return nil
		},
	}
	cmd.Flags().StringVar(&gender, "gender", "unspecified", "Gender of the person named by the reverse label")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Label the inverse of TYPE")
	return cmd
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List every relation tag with its labels and inverses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tCATEGORY\tNEPALI\tROMAN\tENGLISH\tINVERSE (M/F)")
			for _, t := range kinship.AllRelationTypes() {
				l, err := kinship.LabelOf(t)
				if err != nil {
					return err
				}
				im, err := kinship.Inverse(t, kinship.Male)
				if err != nil {
					return err
				}
				iff, err := kinship.Inverse(t, kinship.Female)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s/%s\n", t, t.Category(), l.Nepali, l.Roman, l.English, im, iff)
			}
			return w.Flush()
		},
	}
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	var withFamily bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the built-in tables and, with --with-family, the family file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := kinship.ValidateTables(); err != nil {
				return fmt.Errorf("relation tables: %w", err)
			}
			compounds, err := kinship.DefaultCompounds()
			if err != nil {
				return fmt.Errorf("compound table: %w", err)
			}
			fmt.Fprintf(out, "tables ok: %d relation types, %d compound paths\n", len(kinship.AllRelationTypes()), len(compounds))

			if !withFamily {
				return nil
			}
			ds, err := filestore.LoadFile(context.Background(), root.family)
			if err != nil {
				return err
			}
			_, stats, err := kinship.BuildGraph(ds.Persons, ds.Relations)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "family ok: %d persons, %d relations, %d skipped (dangling %d, self %d)\n",
				stats.Persons, stats.Relations, stats.SkippedDangling+stats.SkippedSelfLinked,
				stats.SkippedDangling, stats.SkippedSelfLinked)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withFamily, "with-family", false, "Also load and build the family file")
	return cmd
}
