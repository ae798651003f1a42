package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/qdrant-connector/v1/qdrant"
)

func newIndexCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage payload indexes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <collection> <field> <schema>",
		Short: "Index a payload field (schema: keyword, integer, float, geo, text)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := qdrant.ParsePayloadSchemaType(args[2])
			if err != nil {
				return err
			}
			if err := a.client.CreateIndex(cmd.Context(), args[0], args[1], schema); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %s.%s as %s\n", args[0], args[1], schema)
			return nil
		},
	})
	return cmd
}
