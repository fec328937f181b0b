package main

import (
	"fmt"
	"io"
	"phishfeatures/pkg/features"

	"github.com/spf13/cobra"
)

func writeSchema(w io.Writer, profile bool) error {
	if profile {
		for _, name := range features.ProfileNames {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}

		return nil
	}

	for i, f := range features.Schema {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", i, f.Name, f.Kind); err != nil {
			return err
		}
	}

	return nil
}

// schemaCommand constructs the 'schema' subcommand that prints the ordered
// feature names of the current schema version.
func schemaCommand() *cobra.Command {
	var profile bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Prints the feature schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !profile {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "# version %d\n", features.SchemaVersion); err != nil {
					return err
				}
			}

			return writeSchema(cmd.OutOrStdout(), profile)
		},
	}

	cmd.Flags().BoolVar(&profile, "profile", false, "Print only the compact profile features")

	return cmd
}
