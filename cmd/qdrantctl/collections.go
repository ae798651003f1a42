package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/qdrant-connector/v1/qdrant"
)

func newCollectionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection", "col"},
		Short:   "Manage collections",
	}
	cmd.AddCommand(
		newCollectionsListCommand(a),
		newCollectionsCreateCommand(a),
		newCollectionsDeleteCommand(a),
		newCollectionsExistsCommand(a),
		newCollectionsInfoCommand(a),
	)
	return cmd
}

func newCollectionsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collection names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for name, err := range a.client.ListCollections(cmd.Context()) {
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newCollectionsCreateCommand(a *app) *cobra.Command {
	var vectorSize uint64
	var distance string

	cmd := &cobra.Command{
		Use:   "create <collection>",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The client shares a.cfg, so overrides apply to this call.
			cfg := a.cfg
			if cmd.Flags().Changed("vector-size") {
				cfg.VectorSize = vectorSize
			}
			if cmd.Flags().Changed("distance") {
				d, err := qdrant.ParseDistance(distance)
				if err != nil {
					return err
				}
				cfg.Distance = d
			}
			if err := a.client.CreateCollection(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created collection %s (size=%d, distance=%s)\n", args[0], cfg.VectorSize, cfg.Distance)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&vectorSize, "vector-size", qdrant.DefaultVectorSize, "Vector dimension")
	cmd.Flags().StringVar(&distance, "distance", "cosine", "Distance: cosine, dot, euclid, manhattan")
	return cmd
}

func newCollectionsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection>",
		Short: "Delete a collection; missing collections are ignored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteCollection(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted collection %s\n", args[0])
			return nil
		},
	}
}

func newCollectionsExistsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <collection>",
		Short: "Print whether a collection exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := a.client.DoesCollectionExist(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), exists)
			return nil
		},
	}
}

func newCollectionsInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <collection>",
		Short: "Show status, counts and vector params of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.client.GetCollectionInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
}
