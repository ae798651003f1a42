package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/qdrant-connector/v1/qdrant"
)

// pointFile is one record of an upsert file.
type pointFile struct {
	ID      qdrant.PointID `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
	Tags    []string       `json:"tags,omitempty"`
}

// pointView is how records are printed.
type pointView struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
	Tags    []string       `json:"tags,omitempty"`
	Score   *float64       `json:"score,omitempty"`
}

func viewOf(r qdrant.VectorRecord) pointView {
	return pointView{ID: r.PointID, Vector: r.Embedding, Payload: r.Payload, Tags: r.Tags}
}

func newPointsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "points",
		Aliases: []string{"point"},
		Short:   "Write, read and delete points",
	}
	cmd.AddCommand(
		newPointsUpsertCommand(a),
		newPointsGetCommand(a),
		newPointsDeleteCommand(a),
	)
	return cmd
}

func newPointsUpsertCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upsert <collection> <file.json|->",
		Short: "Insert or replace points from a JSON array",
		Long: `Reads a JSON array of points and upserts them. Use "-" to read stdin.

  [{"id": 1, "vector": [0.1, 0.2], "payload": {"id": "note-1"}, "tags": ["a"]}]`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readPoints(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}
			if err := a.client.UpsertVectors(cmd.Context(), args[0], records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "upserted %d points into %s\n", len(records), args[0])
			return nil
		},
	}
}

func readPoints(stdin io.Reader, path string) ([]qdrant.VectorRecord, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var in []pointFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}
	records := make([]qdrant.VectorRecord, 0, len(in))
	for _, p := range in {
		records = append(records, qdrant.VectorRecord{
			PointID:   string(p.ID),
			Embedding: p.Vector,
			Payload:   p.Payload,
			Tags:      p.Tags,
		})
	}
	return records, nil
}

func newPointsGetCommand(a *app) *cobra.Command {
	var withVectors, byPayloadID bool

	cmd := &cobra.Command{
		Use:   "get <collection> <id...>",
		Short: "Fetch points by point id, or by payload id with --payload-id",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, ids := args[0], args[1:]
			views := make([]pointView, 0, len(ids))

			if byPayloadID {
				for _, id := range ids {
					rec, err := a.client.GetVectorByPayloadId(cmd.Context(), collection, id, withVectors)
					if err != nil {
						return err
					}
					if rec != nil {
						views = append(views, viewOf(*rec))
					}
				}
				return printJSON(cmd.OutOrStdout(), views)
			}

			for rec, err := range a.client.GetVectorsById(cmd.Context(), collection, ids, withVectors) {
				if err != nil {
					return err
				}
				views = append(views, viewOf(rec))
			}
			return printJSON(cmd.OutOrStdout(), views)
		},
	}
	cmd.Flags().BoolVar(&withVectors, "with-vectors", false, "Include embeddings")
	cmd.Flags().BoolVar(&byPayloadID, "payload-id", false, "Treat ids as payload ids")
	return cmd
}

func newPointsDeleteCommand(a *app) *cobra.Command {
	var byPayloadID bool

	cmd := &cobra.Command{
		Use:   "delete <collection> <id...>",
		Short: "Delete points by point id, or by payload id with --payload-id",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, ids := args[0], args[1:]
			if byPayloadID {
				for _, id := range ids {
					if err := a.client.DeleteVectorByPayloadId(cmd.Context(), collection, id); err != nil {
						return err
					}
				}
			} else if err := a.client.DeleteVectorsById(cmd.Context(), collection, ids); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d points from %s\n", len(ids), collection)
			return nil
		},
	}
	cmd.Flags().BoolVar(&byPayloadID, "payload-id", false, "Treat ids as payload ids")
	return cmd
}
