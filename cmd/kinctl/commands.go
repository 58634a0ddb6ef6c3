package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	family  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "kinctl",
		Short:         "Resolve and inspect Nepali kinship terms",
		Long:          `kinctl names the relationship between two family members using the same engine as the vamshavali service, and seeds the SQL and Neo4j relation stores from a family file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.family, "family", "config/family.yaml", "Family file (YAML or JSON)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(
		newResolveCmd(opts),
		newLabelCmd(),
		newTypesCmd(),
		newCheckCmd(opts),
		newImportCmd(opts),
	)
	return root
}
